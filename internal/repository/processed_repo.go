package repository

import (
	"errors"
	"time"

	"gorm.io/gorm"

	"boostbot/internal/models"
)

// ProcessedRepository is the durable exactly-once set for payment
// confirmations.
type ProcessedRepository struct {
	db *gorm.DB
}

func NewProcessedRepository(db *gorm.DB) *ProcessedRepository {
	return &ProcessedRepository{db: db}
}

// Mark attempts to claim an order id. Returns true when this call was
// the first to claim it; a duplicate key means some earlier approval or
// webhook delivery already did, and reports false without error.
func (r *ProcessedRepository) Mark(orderID string) (bool, error) {
	err := r.db.Create(&models.ProcessedOrder{
		OrderID:     orderID,
		ProcessedAt: time.Now(),
	}).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// Seen reports whether an order id was already claimed.
func (r *ProcessedRepository) Seen(orderID string) (bool, error) {
	var p models.ProcessedOrder
	err := r.db.Where("order_id = ?", orderID).First(&p).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}
