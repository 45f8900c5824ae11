package repository

import (
	"time"

	"gorm.io/gorm"

	"boostbot/internal/models"
)

// PendingRepository is the durable queue of paid orders waiting for
// agency balance.
type PendingRepository struct {
	db *gorm.DB
}

func NewPendingRepository(db *gorm.DB) *PendingRepository {
	return &PendingRepository{db: db}
}

// Enqueue adds an order to the pending queue.
func (r *PendingRepository) Enqueue(orderID string, serviceID int64, link string, quantity int, cost float64) error {
	return r.db.Create(&models.PendingFulfillment{
		OrderID:   orderID,
		ServiceID: serviceID,
		Link:      link,
		Quantity:  quantity,
		Cost:      cost,
		QueuedAt:  time.Now(),
	}).Error
}

// List returns pending entries oldest first.
func (r *PendingRepository) List() ([]models.PendingFulfillment, error) {
	var entries []models.PendingFulfillment
	if err := r.db.Order("queued_at ASC").Find(&entries).Error; err != nil {
		return nil, err
	}
	return entries, nil
}

// Remove deletes an entry after it was submitted or given up on.
func (r *PendingRepository) Remove(orderID string) error {
	return r.db.Where("order_id = ?", orderID).Delete(&models.PendingFulfillment{}).Error
}

// Count returns the number of queued entries.
func (r *PendingRepository) Count() (int64, error) {
	var total int64
	err := r.db.Model(&models.PendingFulfillment{}).Count(&total).Error
	return total, err
}
