package database

import (
	"context"
	"fmt"

	"quill/internal/observability"

	"gorm.io/gorm"
)

// Migrate creates or updates every table in PersistentModels.
func Migrate(ctx context.Context, db *gorm.DB) error {
	if err := db.WithContext(ctx).AutoMigrate(PersistentModels()...); err != nil {
		return fmt.Errorf("failed to migrate database: %w", err)
	}
	observability.Logger.InfoContext(ctx, "Database migration completed")
	return nil
}
