package zalopay

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"weddinghub-backend/internal/config"
)

func TestBuildAppTransID(t *testing.T) {
	client := NewClient(config.ZaloPayConfig{AppID: 2553})

	at := time.Date(2024, 3, 15, 12, 5, 0, 0, time.UTC)
	id := client.buildAppTransID("240315001", at)

	// yymmdd prefix required by the gateway, then order code + time suffix
	assert.Equal(t, "240315_240315001120500", id)
}

func TestVerifyCallbackParsesEmbeddedOrderCode(t *testing.T) {
	client := NewClient(config.ZaloPayConfig{AppID: 2553, Key2: "key2secret"})

	data := `{"app_trans_id":"240315_240315001120500","amount":11000000,` +
		`"embed_data":"{\"orderCode\":\"240315001\"}","zp_trans_id":987654}`
	mac := hmacHex("key2secret", data)

	result, err := client.VerifyCallback(data, mac)
	assert.NoError(t, err)
	assert.Equal(t, "240315_240315001120500", result.AppTransID)
	assert.Equal(t, "240315001", result.OrderCode)
	assert.Equal(t, int64(11000000), result.Amount)
	assert.Equal(t, "987654", result.GatewayRef)
}

func TestVerifyCallbackRejectsBadSignature(t *testing.T) {
	client := NewClient(config.ZaloPayConfig{AppID: 2553, Key2: "key2secret"})

	data := `{"app_trans_id":"240315_240315001120500","amount":11000000}`

	_, err := client.VerifyCallback(data, "deadbeef")
	assert.ErrorIs(t, err, ErrInvalidSignature)
}
