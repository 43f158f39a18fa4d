package shopify

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"strings"
)

// Webhook request headers set by the provider.
const (
	HeaderTopic      = "X-Shopify-Topic"
	HeaderShopDomain = "X-Shopify-Shop-Domain"
	HeaderHmacSHA256 = "X-Shopify-Hmac-Sha256"
)

// VerifyWebhookSignature checks the provider's HMAC over the raw request body:
// base64(HMAC-SHA256(body, app secret)), compared constant-time.
func VerifyWebhookSignature(secret string, body []byte, signature string) bool {
	h := hmac.New(sha256.New, []byte(secret))
	h.Write(body)
	expected := base64.StdEncoding.EncodeToString(h.Sum(nil))
	return hmac.Equal([]byte(expected), []byte(signature))
}

// NormalizeTopic maps the wire form ("app/uninstalled") to the canonical
// constant form ("APP_UNINSTALLED"). Already-canonical input passes through.
func NormalizeTopic(topic string) string {
	topic = strings.TrimSpace(topic)
	topic = strings.ReplaceAll(topic, "/", "_")
	return strings.ToUpper(topic)
}
