package pricing

import "fmt"

// Mode selects how the configured margin value is interpreted.
type Mode string

const (
	// ModeFactor treats the margin as a direct multiplier (1.4 = +40%).
	ModeFactor Mode = "factor"
	// ModePercent treats the margin as a markup percentage (40 = +40%).
	ModePercent Mode = "percent"
)

// MinPayableINR is the smallest amount the payment rails accept. Orders
// priced below it are rejected, never rounded up.
const MinPayableINR = 1.0

// multiplier normalizes a margin value to a rate multiplier.
func multiplier(margin float64, mode Mode) float64 {
	if mode == ModePercent {
		return 1 + margin/100
	}
	return margin
}

// Price computes the user-facing amount in INR for qty units of a
// service priced at ratePerK INR per 1000 units, margin applied.
func Price(ratePerK float64, qty int, margin float64, mode Mode) float64 {
	return (ratePerK / 1000) * float64(qty) * multiplier(margin, mode)
}

// Cost computes the wholesale amount in INR, without margin. This is
// what fulfillment deducts from the agency balance.
func Cost(ratePerK float64, qty int) float64 {
	return (ratePerK / 1000) * float64(qty)
}

// BelowMinimum reports whether an amount is under the payable floor.
func BelowMinimum(amount float64) bool {
	return amount < MinPayableINR
}

// FormatINR renders an amount for display with two decimals. Rounding
// happens only here; stored amounts keep full precision.
func FormatINR(amount float64) string {
	return fmt.Sprintf("₹%.2f", amount)
}
