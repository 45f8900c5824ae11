package repository

import (
	"time"

	"gorm.io/gorm"

	"boostbot/internal/models"
)

// PaymentLinkRepository maps gateway link ids back to orders. Always
// read fresh at webhook time; links issued after startup must resolve.
type PaymentLinkRepository struct {
	db *gorm.DB
}

func NewPaymentLinkRepository(db *gorm.DB) *PaymentLinkRepository {
	return &PaymentLinkRepository{db: db}
}

// Create records a freshly issued payment link.
func (r *PaymentLinkRepository) Create(link *models.PaymentLink) error {
	return r.db.Create(link).Error
}

// FindByLinkID resolves a gateway link id to the order it pays for.
func (r *PaymentLinkRepository) FindByLinkID(linkID string) (*models.PaymentLink, error) {
	var link models.PaymentLink
	if err := r.db.Where("link_id = ?", linkID).First(&link).Error; err != nil {
		return nil, err
	}
	return &link, nil
}

// Delete removes a consumed link mapping.
func (r *PaymentLinkRepository) Delete(linkID string) error {
	return r.db.Where("link_id = ?", linkID).Delete(&models.PaymentLink{}).Error
}

// DeleteOlderThan prunes stale unpaid link mappings.
func (r *PaymentLinkRepository) DeleteOlderThan(age time.Duration) (int64, error) {
	cutoff := time.Now().Add(-age)
	res := r.db.Where("created_at < ?", cutoff).Delete(&models.PaymentLink{})
	return res.RowsAffected, res.Error
}
