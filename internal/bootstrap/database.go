package bootstrap

import (
	"fmt"

	"gorm.io/gorm"

	"boostbot/internal/models"
)

// MigrateAndSeed ensures required tables exist and inserts baseline rows
// for singleton tables.
func MigrateAndSeed(db *gorm.DB, defaultMarginMode string, defaultMargin float64) error {
	if err := db.AutoMigrate(allModels()...); err != nil {
		return fmt.Errorf("auto migrate failed: %w", err)
	}
	if err := seedDefaults(db, defaultMarginMode, defaultMargin); err != nil {
		return fmt.Errorf("seed defaults failed: %w", err)
	}
	return nil
}

func allModels() []interface{} {
	return []interface{}{
		&models.User{},
		&models.Order{},
		&models.PendingFulfillment{},
		&models.ProcessedOrder{},
		&models.PaymentLink{},
		&models.Setting{},
	}
}

func seedDefaults(db *gorm.DB, mode string, margin float64) error {
	return db.Transaction(func(tx *gorm.DB) error {
		return ensureDefaultSetting(tx, mode, margin)
	})
}

func ensureDefaultSetting(tx *gorm.DB, mode string, margin float64) error {
	var count int64
	if err := tx.Model(&models.Setting{}).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	row := models.Setting{
		MarginValue: margin,
		MarginMode:  mode,
	}
	return tx.Create(&row).Error
}
