package zalopay

// createResponse is the gateway's reply to a create-payment request
type createResponse struct {
	ReturnCode    int    `json:"return_code"`
	ReturnMessage string `json:"return_message"`
	SubReturnCode int    `json:"sub_return_code"`
	SubReturnMsg  string `json:"sub_return_message"`
	OrderURL      string `json:"order_url"`
	ZPTransToken  string `json:"zp_trans_token"`
}

// callbackData is the JSON embedded in the callback's opaque data field
type callbackData struct {
	AppID      int    `json:"app_id"`
	AppTransID string `json:"app_trans_id"`
	AppUser    string `json:"app_user"`
	Amount     int64  `json:"amount"`
	EmbedData  string `json:"embed_data"`
	Item       string `json:"item"`
	ZPTransID  int64  `json:"zp_trans_id"`
	ServerTime int64  `json:"server_time"`
	Channel    int    `json:"channel"`
}

// embedData is the merchant metadata round-tripped through the gateway
type embedData struct {
	OrderCode   string `json:"orderCode"`
	RedirectURL string `json:"redirecturl,omitempty"`
}

// queryResponse is the gateway's reply to a status query
type queryResponse struct {
	ReturnCode    int    `json:"return_code"`
	ReturnMessage string `json:"return_message"`
	IsProcessing  bool   `json:"is_processing"`
	Amount        int64  `json:"amount"`
	ZPTransID     int64  `json:"zp_trans_id"`
}

// Gateway return codes
const (
	returnCodeSuccess = 1
	returnCodeFailed  = 2
	returnCodePending = 3
)
