package database

import (
	"fmt"

	"github.com/yeremiapane/pos-app/models"
	"github.com/yeremiapane/pos-app/utils"
	"gorm.io/gorm"
)

// Migrate creates or updates every table the application uses.
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(models.All()...); err != nil {
		return fmt.Errorf("auto migrate: %w", err)
	}
	utils.InfoLogger.Debug("AutoMigrate completed")
	return nil
}
