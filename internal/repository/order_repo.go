package repository

import (
	"gorm.io/gorm"

	"boostbot/internal/models"
)

// OrderRepository handles all order database operations.
type OrderRepository struct {
	db *gorm.DB
}

func NewOrderRepository(db *gorm.DB) *OrderRepository {
	return &OrderRepository{db: db}
}

// Create inserts a new order.
func (r *OrderRepository) Create(order *models.Order) error {
	return r.db.Create(order).Error
}

// FindByID finds an order by its id.
func (r *OrderRepository) FindByID(orderID string) (*models.Order, error) {
	var order models.Order
	if err := r.db.Where("order_id = ?", orderID).First(&order).Error; err != nil {
		return nil, err
	}
	return &order, nil
}

// FindByStatus returns orders in a given status, oldest first.
func (r *OrderRepository) FindByStatus(status string) ([]models.Order, error) {
	var orders []models.Order
	if err := r.db.Where("status = ?", status).Order("created_at ASC").Find(&orders).Error; err != nil {
		return nil, err
	}
	return orders, nil
}

// FindByUser returns a user's orders, newest first.
func (r *OrderRepository) FindByUser(userID string, limit int) ([]models.Order, error) {
	var orders []models.Order
	if limit <= 0 {
		limit = 10
	}
	if err := r.db.Where("user_id = ?", userID).Order("created_at DESC").Limit(limit).Find(&orders).Error; err != nil {
		return nil, err
	}
	return orders, nil
}

// SetStatus updates an order's status.
func (r *OrderRepository) SetStatus(orderID, status string) error {
	return r.db.Model(&models.Order{}).Where("order_id = ?", orderID).Update("status", status).Error
}

// SetRemote records the agency order id after a successful submit.
func (r *OrderRepository) SetRemote(orderID string, remoteID int64) error {
	return r.db.Model(&models.Order{}).Where("order_id = ?", orderID).Update("remote_id", remoteID).Error
}

// SetPhone stores the contact number collected during checkout.
func (r *OrderRepository) SetPhone(orderID, phone string) error {
	return r.db.Model(&models.Order{}).Where("order_id = ?", orderID).Update("phone", phone).Error
}

// SetPaymentRef stores the proof path or payment link id for an order.
func (r *OrderRepository) SetPaymentRef(orderID, ref string) error {
	return r.db.Model(&models.Order{}).Where("order_id = ?", orderID).Update("payment_ref", ref).Error
}

// Count returns the total order count.
func (r *OrderRepository) Count() (int64, error) {
	var total int64
	err := r.db.Model(&models.Order{}).Count(&total).Error
	return total, err
}

// CountByStatus returns the order count per status.
func (r *OrderRepository) CountByStatus() (map[string]int64, error) {
	type row struct {
		Status string
		N      int64
	}
	var rows []row
	err := r.db.Model(&models.Order{}).
		Select("status, COUNT(*) AS n").
		Group("status").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	out := make(map[string]int64, len(rows))
	for _, rw := range rows {
		out[rw.Status] = rw.N
	}
	return out, nil
}
