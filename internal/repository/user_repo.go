package repository

import (
	"errors"

	"gorm.io/gorm"

	"boostbot/internal/models"
)

// UserRepository handles all user database operations.
type UserRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{db: db}
}

// Create inserts a new user.
func (r *UserRepository) Create(user *models.User) error {
	return r.db.Create(user).Error
}

// Exists reports whether a user is already known.
func (r *UserRepository) Exists(chatID string) (bool, error) {
	var user models.User
	err := r.db.Select("id").Where("id = ?", chatID).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// FindAll returns every user, newest first. Used for broadcasts.
func (r *UserRepository) FindAll() ([]models.User, error) {
	var users []models.User
	if err := r.db.Order("register DESC").Find(&users).Error; err != nil {
		return nil, err
	}
	return users, nil
}

// Count returns the total user count.
func (r *UserRepository) Count() (int64, error) {
	var total int64
	err := r.db.Model(&models.User{}).Count(&total).Error
	return total, err
}

// SetBlocked marks a user as having blocked the bot.
func (r *UserRepository) SetBlocked(chatID string, blocked bool) error {
	return r.db.Model(&models.User{}).Where("id = ?", chatID).Update("blocked", blocked).Error
}
