package model

// CallbackRequest is the raw webhook body posted by the gateway.
// Data is an opaque signed blob; it is not parsed before verification.
type CallbackRequest struct {
	Data string `json:"data" binding:"required"`
	MAC  string `json:"mac" binding:"required"`
	Type int    `json:"type"`
}

// CallbackAck is the acknowledgement format the gateway expects.
// ReturnCode 1 accepts the callback, 0 asks the gateway to retry,
// and negative values reject it for good.
type CallbackAck struct {
	ReturnCode    int    `json:"return_code"`
	ReturnMessage string `json:"return_message"`
}
