package zalopay

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"weddinghub-backend/internal/config"
	"weddinghub-backend/internal/domains/payment/gateway"
	"weddinghub-backend/pkg/logger"
)

// Client implements gateway.PaymentGateway for ZaloPay
type Client struct {
	cfg        config.ZaloPayConfig
	httpClient *http.Client
	now        func() time.Time
}

// NewClient creates the ZaloPay gateway client
func NewClient(cfg config.ZaloPayConfig) *Client {
	return &Client{
		cfg: cfg,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		now: time.Now,
	}
}

// buildAppTransID generates the gateway transaction id. The gateway
// requires a yymmdd_ prefix; the order code plus a time suffix keeps it
// unique and traceable back to the order without exposing internal ids.
func (c *Client) buildAppTransID(orderCode string, now time.Time) string {
	return fmt.Sprintf("%s_%s%s", now.Format("060102"), orderCode, now.Format("150405"))
}

func (c *Client) CreatePayment(ctx context.Context, req *gateway.CreatePaymentRequest) (*gateway.CreatePaymentResponse, error) {
	now := c.now()
	appTransID := c.buildAppTransID(req.OrderCode, now)
	appTime := now.UnixMilli()

	embed, err := json.Marshal(embedData{
		OrderCode:   req.OrderCode,
		RedirectURL: c.cfg.RedirectURL,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal embed data: %w", err)
	}

	// Item list is opaque to the gateway but participates in the MAC
	item := "[]"

	mac := buildCreateMAC(c.cfg.Key1, c.cfg.AppID, appTransID, req.UserID,
		req.Amount, appTime, string(embed), item)

	// The signed string and the form values must agree on every numeric
	// representation. Both sides use base-10 strings here.
	form := url.Values{}
	form.Set("app_id", strconv.Itoa(c.cfg.AppID))
	form.Set("app_user", req.UserID)
	form.Set("app_time", strconv.FormatInt(appTime, 10))
	form.Set("amount", strconv.FormatInt(req.Amount, 10))
	form.Set("app_trans_id", appTransID)
	form.Set("embed_data", string(embed))
	form.Set("item", item)
	form.Set("description", req.Description)
	form.Set("bank_code", "")
	form.Set("callback_url", c.cfg.CallbackURL)
	form.Set("mac", mac)

	var resp createResponse
	if err := c.postForm(ctx, "/v2/create", form, &resp); err != nil {
		return nil, err
	}

	if resp.ReturnCode != returnCodeSuccess {
		logger.Warn("gateway create payment rejected", map[string]interface{}{
			"orderCode":     req.OrderCode,
			"returnCode":    resp.ReturnCode,
			"returnMessage": resp.ReturnMessage,
		})
		return nil, fmt.Errorf("gateway rejected create payment: %s (code %d)",
			resp.ReturnMessage, resp.ReturnCode)
	}

	return &gateway.CreatePaymentResponse{
		PaymentURL: resp.OrderURL,
		AppTransID: appTransID,
	}, nil
}

func (c *Client) VerifyCallback(data string, mac string) (*gateway.CallbackResult, error) {
	// Signature first; the payload is not parsed until it verifies
	if !verifyCallbackMAC(c.cfg.Key2, data, mac) {
		return nil, ErrInvalidSignature
	}

	var parsed callbackData
	if err := json.Unmarshal([]byte(data), &parsed); err != nil {
		return nil, fmt.Errorf("failed to parse callback data: %w", err)
	}

	var embed embedData
	if parsed.EmbedData != "" {
		if err := json.Unmarshal([]byte(parsed.EmbedData), &embed); err != nil {
			return nil, fmt.Errorf("failed to parse embed data: %w", err)
		}
	}

	return &gateway.CallbackResult{
		AppTransID: parsed.AppTransID,
		OrderCode:  embed.OrderCode,
		Amount:     parsed.Amount,
		GatewayRef: strconv.FormatInt(parsed.ZPTransID, 10),
	}, nil
}

func (c *Client) QueryStatus(ctx context.Context, appTransID string) (gateway.PaymentStatus, error) {
	mac := buildQueryMAC(c.cfg.Key1, c.cfg.AppID, appTransID)

	form := url.Values{}
	form.Set("app_id", strconv.Itoa(c.cfg.AppID))
	form.Set("app_trans_id", appTransID)
	form.Set("mac", mac)

	var resp queryResponse
	if err := c.postForm(ctx, "/v2/query", form, &resp); err != nil {
		return gateway.StatusPending, err
	}

	switch resp.ReturnCode {
	case returnCodeSuccess:
		return gateway.StatusSuccess, nil
	case returnCodeFailed:
		return gateway.StatusFailed, nil
	case returnCodePending:
		return gateway.StatusPending, nil
	default:
		return gateway.StatusPending, fmt.Errorf("unexpected query return code %d: %s",
			resp.ReturnCode, resp.ReturnMessage)
	}
}

func (c *Client) postForm(ctx context.Context, path string, form url.Values, out interface{}) error {
	endpoint := strings.TrimRight(c.cfg.APIURL, "/") + path

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint,
		strings.NewReader(form.Encode()))
	if err != nil {
		return fmt.Errorf("failed to build gateway request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("gateway request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read gateway response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("gateway returned HTTP %d: %s", resp.StatusCode, string(body))
	}

	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("failed to parse gateway response: %w", err)
	}

	return nil
}
