package postgres

import (
	"fmt"

	"okazjeplus/domain"

	"gorm.io/gorm"
)

// Migrate creates or updates every table this service owns. The catalog
// tables are included so a fresh database can be seeded for local runs.
func Migrate(db *gorm.DB) error {
	err := db.AutoMigrate(
		&domain.Interaction{},
		&domain.Deal{},
		&domain.Product{},
		&BehaviorScoreRow{},
		&UserSegmentRow{},
	)
	if err != nil {
		return fmt.Errorf("failed to migrate: %w", err)
	}
	return nil
}
