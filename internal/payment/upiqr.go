package payment

import (
	"fmt"
	"net/url"

	qrcode "github.com/skip2/go-qrcode"
)

// UPILink builds a upi://pay deep link for the given amount and order.
func UPILink(upiID, payee string, amount float64, orderID string) string {
	q := url.Values{}
	q.Set("pa", upiID)
	q.Set("pn", payee)
	q.Set("am", fmt.Sprintf("%.2f", amount))
	q.Set("cu", "INR")
	q.Set("tn", "Order "+orderID)
	return "upi://pay?" + q.Encode()
}

// QRPNG renders a UPI payment link as a PNG QR code.
func QRPNG(upiLink string) ([]byte, error) {
	png, err := qrcode.Encode(upiLink, qrcode.Medium, 512)
	if err != nil {
		return nil, fmt.Errorf("qr encode failed: %w", err)
	}
	return png, nil
}
