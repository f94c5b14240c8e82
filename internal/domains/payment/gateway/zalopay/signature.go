package zalopay

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
)

// computeHMAC signs data with the given key using HMAC-SHA256,
// returning a lowercase hex digest
func computeHMAC(key, data string) string {
	mac := hmac.New(sha256.New, []byte(key))
	mac.Write([]byte(data))
	return hex.EncodeToString(mac.Sum(nil))
}

// buildCreateMAC signs the outbound create-payment request with Key1.
// Field order and string representation must match the transmitted
// payload exactly or the remote side rejects the request.
func buildCreateMAC(key1 string, appID int, appTransID, appUser string, amount int64, appTime int64, embedData, item string) string {
	raw := fmt.Sprintf("%d|%s|%s|%d|%d|%s|%s",
		appID, appTransID, appUser, amount, appTime, embedData, item)
	return computeHMAC(key1, raw)
}

// verifyCallbackMAC recomputes the callback signature with Key2 and
// compares it against the received one in constant time
func verifyCallbackMAC(key2, data, receivedMAC string) bool {
	expected := computeHMAC(key2, data)
	return hmac.Equal([]byte(expected), []byte(receivedMAC))
}

// buildQueryMAC signs the status-query request with Key1
func buildQueryMAC(key1 string, appID int, appTransID string) string {
	raw := fmt.Sprintf("%d|%s|%s", appID, appTransID, key1)
	return computeHMAC(key1, raw)
}
