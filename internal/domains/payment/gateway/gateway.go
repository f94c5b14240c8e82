package gateway

import "context"

// CreatePaymentRequest is the gateway-agnostic outbound payment request
type CreatePaymentRequest struct {
	OrderCode   string
	UserID      string
	Amount      int64
	Description string
}

// CreatePaymentResponse carries the redirect URL and the transaction id
// the gateway will reference in callbacks
type CreatePaymentResponse struct {
	PaymentURL string
	AppTransID string
}

// CallbackResult is the verified, parsed content of a gateway callback
type CallbackResult struct {
	AppTransID string
	OrderCode  string
	Amount     int64
	GatewayRef string
}

// PaymentStatus is the outcome of a status query
type PaymentStatus int

const (
	StatusPending PaymentStatus = iota
	StatusSuccess
	StatusFailed
)

// PaymentGateway is the signed external payment protocol adapter
type PaymentGateway interface {
	// CreatePayment signs and sends an outbound create-payment request
	CreatePayment(ctx context.Context, req *CreatePaymentRequest) (*CreatePaymentResponse, error)

	// VerifyCallback checks the callback signature and parses the
	// embedded order reference. Returns an error on signature mismatch.
	VerifyCallback(data string, mac string) (*CallbackResult, error)

	// QueryStatus polls the gateway for a transaction's status
	QueryStatus(ctx context.Context, appTransID string) (PaymentStatus, error)
}
