package bot

import (
	"fmt"

	"boostbot/internal/models"
	"boostbot/internal/pricing"
)

// validateQuantity checks a requested quantity against the service
// bounds and the payment floor. Returns an empty string when valid,
// otherwise the message to show the user.
func validateQuantity(svc *models.Service, qty int, amount float64) string {
	if qty < svc.Min {
		return fmt.Sprintf("The minimum for this service is %d.", svc.Min)
	}
	if qty > svc.Max {
		return fmt.Sprintf("The maximum for this service is %d.", svc.Max)
	}
	if pricing.BelowMinimum(amount) {
		return fmt.Sprintf(
			"The total for %d units is below the %s payment minimum. Please pick a larger amount.",
			qty, pricing.FormatINR(pricing.MinPayableINR))
	}
	return ""
}
