package payment

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"time"

	"boostbot/internal/pkg/httpclient"
)

// RazorpayGateway implements the Gateway interface for Razorpay
// payment links.
type RazorpayGateway struct {
	keyID     string
	keySecret string
	client    *httpclient.Client
}

func NewRazorpayGateway(keyID, keySecret string) *RazorpayGateway {
	return &RazorpayGateway{
		keyID:     keyID,
		keySecret: keySecret,
		client: httpclient.New().
			WithTimeout(30 * time.Second).
			WithBasicAuth(keyID, keySecret),
	}
}

func (r *RazorpayGateway) Name() string {
	return "razorpay"
}

func (r *RazorpayGateway) CreatePaymentLink(ctx context.Context, amountMinor int64, referenceID, description, phone string) (*LinkResult, error) {
	body := map[string]interface{}{
		"amount":       amountMinor,
		"currency":     "INR",
		"reference_id": referenceID,
		"description":  description,
		"customer": map[string]interface{}{
			"contact": "+91" + phone,
		},
		"notify": map[string]interface{}{
			"sms": true,
		},
	}

	resp, err := r.client.Post(ctx, "https://api.razorpay.com/v1/payment_links", body)
	if err != nil {
		return nil, fmt.Errorf("razorpay create link failed: %w", err)
	}

	var result map[string]interface{}
	if err := json.Unmarshal(resp, &result); err != nil {
		return nil, fmt.Errorf("razorpay parse error: %w", err)
	}

	if errObj, ok := result["error"].(map[string]interface{}); ok {
		return nil, fmt.Errorf("razorpay error: %v", errObj["description"])
	}

	id, _ := result["id"].(string)
	shortURL, _ := result["short_url"].(string)
	if id == "" || shortURL == "" {
		return nil, fmt.Errorf("razorpay unexpected response format")
	}

	return &LinkResult{LinkID: id, ShortURL: shortURL}, nil
}

// VerifySignature checks a webhook's HMAC-SHA256 signature over the raw
// request body. Comparison is constant time.
func VerifySignature(body []byte, signature, secret string) bool {
	if signature == "" || secret == "" {
		return false
	}
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(body)
	expected := hex.EncodeToString(mac.Sum(nil))
	return hmac.Equal([]byte(expected), []byte(signature))
}
