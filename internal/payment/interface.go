package payment

import "context"

// LinkResult contains the hosted payment link issued by the gateway.
type LinkResult struct {
	LinkID   string `json:"link_id"`
	ShortURL string `json:"short_url"`
}

// Gateway defines the interface for hosted payment-link providers.
type Gateway interface {
	// Name returns the gateway identifier.
	Name() string

	// CreatePaymentLink issues a payment link for amountMinor (paise)
	// tagged with the order's reference id.
	CreatePaymentLink(ctx context.Context, amountMinor int64, referenceID, description, phone string) (*LinkResult, error)
}
