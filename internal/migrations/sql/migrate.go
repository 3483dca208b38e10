package sql

import (
	"context"
	"fmt"

	"homeview/pkg/logger"
	"homeview/pkg/model"

	"gorm.io/gorm"
)

// Models lists every table in creation order; referenced tables first.
func Models() []any {
	return []any{
		&model.Member{},
		&model.Agent{},
		&model.Client{},
		&model.Property{},
		&model.PropertyImage{},
		&model.PropertyVideo{},
		&model.Schedule{},
		&model.Wishlist{},
	}
}

func RunMigration(ctx context.Context, db *gorm.DB, log *logger.Logger) error {
	log.Info("Running SQL migrations", "dialect", db.Dialector.Name(), "tables", len(Models()))

	if err := db.WithContext(ctx).AutoMigrate(Models()...); err != nil {
		return fmt.Errorf("auto migrate: %w", err)
	}

	log.Info("All SQL migrations applied successfully")
	return nil
}
