package bot

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"boostbot/internal/models"
	"boostbot/internal/pkg/utils"
)

func TestValidateQuantityBounds(t *testing.T) {
	svc := &models.Service{ID: 1, Min: 100, Max: 10000, Rate: 85}

	// bounds are inclusive
	assert.Empty(t, validateQuantity(svc, 100, 10))
	assert.Empty(t, validateQuantity(svc, 10000, 1000))

	assert.NotEmpty(t, validateQuantity(svc, 99, 10))
	assert.NotEmpty(t, validateQuantity(svc, 10001, 1000))
}

func TestValidateQuantityPaymentFloor(t *testing.T) {
	svc := &models.Service{ID: 1, Min: 10, Max: 10000, Rate: 0.5}

	// amount below the payable minimum is rejected, not rounded up
	assert.NotEmpty(t, validateQuantity(svc, 10, 0.07))
	assert.Empty(t, validateQuantity(svc, 1000, 7.0))
}

func TestValidLink(t *testing.T) {
	assert.True(t, utils.ValidLink("https://instagram.com/p/abc123"))
	assert.True(t, utils.ValidLink("http://youtube.com/watch?v=x"))

	assert.False(t, utils.ValidLink("instagram.com/p/abc"))
	assert.False(t, utils.ValidLink("ftp://example.com/x"))
	assert.False(t, utils.ValidLink("not a link"))
	assert.False(t, utils.ValidLink(""))
}

func TestNormalizePhone(t *testing.T) {
	for _, raw := range []string{"9876543210", "+919876543210", "919876543210", "09876543210", "98765 43210"} {
		got, ok := utils.NormalizePhone(raw)
		assert.True(t, ok, raw)
		assert.Equal(t, "9876543210", got, raw)
	}

	for _, raw := range []string{"12345", "5876543210", "98765432101", "abcdefghij", ""} {
		_, ok := utils.NormalizePhone(raw)
		assert.False(t, ok, raw)
	}
}
