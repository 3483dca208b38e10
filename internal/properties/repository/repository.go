package repository

import (
	"context"

	"homeview/pkg/config"
	"homeview/pkg/model"
)

// PropertyRepository stores properties with their images and videos. Missing
// records are reported with errors wrapping ErrNotFound.
type PropertyRepository interface {
	Create(ctx context.Context, p *model.Property) error
	FindByID(ctx context.Context, id string) (*model.Property, error)
	FindAll(ctx context.Context, limit int, offset int64) ([]*model.Property, error)
	Count(ctx context.Context) (int64, error)
	FindByOwner(ctx context.Context, ownerID string) ([]*model.Property, error)
	FindByAgent(ctx context.Context, agentID string) ([]*model.Property, error)
	FindByStatus(ctx context.Context, status string) ([]*model.Property, error)
	Search(ctx context.Context, term string) ([]*model.Property, error)

	// Update replaces every mutable field of the property in one transaction.
	Update(ctx context.Context, id string, p *model.Property) error

	// Delete removes images, videos, schedules and wishlist entries of the
	// property and then the property itself, all or nothing.
	Delete(ctx context.Context, id string) (model.PropertyCascade, error)

	AddImages(ctx context.Context, propertyID string, images []model.PropertyImage) ([]model.PropertyImage, error)
	AddVideos(ctx context.Context, propertyID string, videos []model.PropertyVideo) ([]model.PropertyVideo, error)
	ReplaceImages(ctx context.Context, propertyID string, images []model.PropertyImage) ([]model.PropertyImage, error)
	ReplaceVideos(ctx context.Context, propertyID string, videos []model.PropertyVideo) ([]model.PropertyVideo, error)
}

// New returns the repository for the configured store driver.
func New(cfg *config.Config) PropertyRepository {
	if cfg.IsMongo() {
		return NewMongoPropertyRepository(cfg)
	}
	return NewGormPropertyRepository(cfg.Client.SQL)
}
