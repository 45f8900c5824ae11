package repository

import (
	"gorm.io/gorm"

	"boostbot/internal/models"
)

// SettingRepository handles the single-row runtime settings.
type SettingRepository struct {
	db *gorm.DB
}

func NewSettingRepository(db *gorm.DB) *SettingRepository {
	return &SettingRepository{db: db}
}

// Get returns the settings row.
func (r *SettingRepository) Get() (*models.Setting, error) {
	var s models.Setting
	if err := r.db.First(&s).Error; err != nil {
		return nil, err
	}
	return &s, nil
}

// UpdateMargin changes the pricing margin. The new value applies to
// future orders only.
func (r *SettingRepository) UpdateMargin(value float64, mode string) error {
	return r.db.Model(&models.Setting{}).Where("1 = 1").Updates(map[string]interface{}{
		"margin_value": value,
		"margin_mode":  mode,
	}).Error
}
