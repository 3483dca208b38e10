package repository

import (
	"context"

	"homeview/pkg/config"
	"homeview/pkg/model"
)

type WishlistRepository interface {
	Create(ctx context.Context, w *model.Wishlist) error
	FindByClient(ctx context.Context, clientID string) ([]*model.Wishlist, error)
	DeleteByID(ctx context.Context, id string) error
	DeleteByClientProperty(ctx context.Context, clientID, propertyID string) error
}

// New returns the repository for the configured store driver.
func New(cfg *config.Config) WishlistRepository {
	if cfg.IsMongo() {
		return NewMongoWishlistRepository(cfg)
	}
	return NewGormWishlistRepository(cfg.Client.SQL)
}
