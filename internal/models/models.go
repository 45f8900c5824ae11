package models

import "time"

// Order statuses. Terminal states are Delivered, Partial, Failed, and Rejected.
const (
	OrderStatusAwaitingPayment = "awaiting_payment"
	OrderStatusPendingApproval = "pending_approval"
	OrderStatusQueued          = "queued"
	OrderStatusProcessing      = "processing"
	OrderStatusDelivered       = "delivered"
	OrderStatusPartial         = "partial"
	OrderStatusFailed          = "failed"
	OrderStatusRejected        = "rejected"
)

// User is a known chat user, kept for broadcasts and audit.
type User struct {
	ID       string `gorm:"primaryKey;size:32;column:id" json:"id"`
	Username string `gorm:"size:128;column:username" json:"username"`
	Register int64  `gorm:"column:register" json:"register"`
	Blocked  bool   `gorm:"column:blocked" json:"blocked"`
}

// Order is a checkout-confirmed purchase. OrderID is caller-generated
// (chat id + unix timestamp) and never reused.
type Order struct {
	OrderID     string    `gorm:"primaryKey;size:64;column:order_id" json:"order_id"`
	UserID      string    `gorm:"index;size:32;column:user_id" json:"user_id"`
	ServiceID   int64     `gorm:"column:service_id" json:"service_id"`
	ServiceName string    `gorm:"size:255;column:service_name" json:"service_name"`
	Platform    string    `gorm:"size:32;column:platform" json:"platform"`
	Category    string    `gorm:"size:64;column:category" json:"category"`
	Link        string    `gorm:"size:512;column:link" json:"link"`
	Quantity    int       `gorm:"column:quantity" json:"quantity"`
	Amount      float64   `gorm:"column:amount" json:"amount"` // user-facing, margin applied
	Cost        float64   `gorm:"column:cost" json:"cost"`     // wholesale, balance-gate input
	Phone       string    `gorm:"size:16;column:phone" json:"phone"`
	Status      string    `gorm:"index;size:32;column:status" json:"status"`
	RemoteID    int64     `gorm:"column:remote_id" json:"remote_id"`
	PaymentRef  string    `gorm:"size:255;column:payment_ref" json:"payment_ref"` // proof path or payment link id
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// PendingFulfillment is an order that passed payment confirmation but
// could not be submitted because the agency balance was short. Removed
// once a sweep submits it.
type PendingFulfillment struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	OrderID   string    `gorm:"uniqueIndex;size:64;column:order_id" json:"order_id"`
	ServiceID int64     `gorm:"column:service_id" json:"service_id"`
	Link      string    `gorm:"size:512;column:link" json:"link"`
	Quantity  int       `gorm:"column:quantity" json:"quantity"`
	Cost      float64   `gorm:"column:cost" json:"cost"`
	QueuedAt  time.Time `gorm:"column:queued_at" json:"queued_at"`
}

// ProcessedOrder is the durable exactly-once guard. Inserting a duplicate
// primary key is how a second approval or webhook delivery gets refused.
type ProcessedOrder struct {
	OrderID     string    `gorm:"primaryKey;size:64;column:order_id" json:"order_id"`
	ProcessedAt time.Time `gorm:"column:processed_at" json:"processed_at"`
}

// PaymentLink maps a gateway payment-link id back to the user and order
// it was issued for. Read fresh from the database on every webhook.
type PaymentLink struct {
	LinkID    string    `gorm:"primaryKey;size:64;column:link_id" json:"link_id"`
	OrderID   string    `gorm:"index;size:64;column:order_id" json:"order_id"`
	UserID    string    `gorm:"size:32;column:user_id" json:"user_id"`
	ShortURL  string    `gorm:"size:255;column:short_url" json:"short_url"`
	CreatedAt time.Time `json:"created_at"`
}

// Setting is the single-row runtime configuration (margin control).
type Setting struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	MarginValue float64   `gorm:"column:margin_value" json:"margin_value"`
	MarginMode  string    `gorm:"size:16;column:margin_mode" json:"margin_mode"` // "factor" or "percent"
	UpdatedAt   time.Time `json:"updated_at"`
}

// Service is a catalog entry, priced wholesale. Immutable once loaded;
// the catalog replaces the whole set on reload.
type Service struct {
	ID          int64   `json:"id"`
	Platform    string  `json:"platform"`
	Category    string  `json:"category"`
	Name        string  `json:"name"`
	Rate        float64 `json:"rate"` // INR per 1000 units, before margin
	Min         int     `json:"min"`
	Max         int     `json:"max"`
	Description string  `json:"description"`
	Refill      bool    `json:"refill"`
	Cancel      bool    `json:"cancel"`
}

// Watch-time style products sell a fixed block instead of a chosen quantity.
const fixedDurationQuantity = 1000

// FixedQuantity reports whether the service bypasses quantity selection,
// and the implicit quantity it is ordered with.
func (s *Service) FixedQuantity() (int, bool) {
	if s.Platform == "YouTube" && s.Category == "Watch Time" {
		return fixedDurationQuantity, true
	}
	return 0, false
}
