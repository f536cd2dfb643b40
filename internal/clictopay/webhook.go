package clictopay

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"

	"github.com/ziedsaddem/hotelbooking/internal/apperr"
)

// WebhookEvent is the payment notification ClicToPay posts back after the
// customer completes or abandons checkout.
type WebhookEvent struct {
	OrderID   string `json:"orderId"`
	Reference string `json:"orderNumber"`
	Status    string `json:"status"`
	Amount    int64  `json:"amount"`
	Currency  string `json:"currency"`
}

const (
	StatusPaid     = "DEPOSITED"
	StatusDeclined = "DECLINED"
	StatusReversed = "REVERSED"
)

// VerifySignature checks the HMAC-SHA256 hex signature over the raw webhook
// body. The comparison is constant-time; callers must pass the body exactly
// as received, before any decoding.
func VerifySignature(body []byte, signature, secret string) error {
	if signature == "" {
		return apperr.NewAuthentication("missing webhook signature")
	}

	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(body)
	expected := mac.Sum(nil)

	got, err := hex.DecodeString(signature)
	if err != nil {
		return apperr.NewAuthentication("malformed webhook signature")
	}
	if !hmac.Equal(expected, got) {
		return apperr.NewAuthentication("invalid webhook signature")
	}
	return nil
}

// ParseWebhook verifies and decodes a webhook body in one step.
func ParseWebhook(body []byte, signature, secret string) (*WebhookEvent, error) {
	if err := VerifySignature(body, signature, secret); err != nil {
		return nil, err
	}

	var event WebhookEvent
	if err := json.Unmarshal(body, &event); err != nil {
		return nil, apperr.NewValidation("unreadable webhook payload")
	}
	if event.OrderID == "" {
		return nil, apperr.NewValidation("webhook payload is missing orderId")
	}
	return &event, nil
}

// Sign computes the signature ClicToPay would attach to body. Exposed for
// tests and for the sandbox replay tool.
func Sign(body []byte, secret string) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(body)
	return hex.EncodeToString(mac.Sum(nil))
}
