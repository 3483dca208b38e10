// Package references resolves the records a schedule, property or wishlist
// points at.
package references

import (
	"context"
	"errors"

	"homeview/pkg/config"
	"homeview/pkg/model"
)

var ErrNotFound = errors.New("referenced record not found")

// Repository returns summaries of related records, or ErrNotFound when the
// id does not resolve.
type Repository interface {
	FindProperty(ctx context.Context, id string) (*model.PropertySummary, error)
	FindAgent(ctx context.Context, id string) (*model.PartySummary, error)
	FindClient(ctx context.Context, id string) (*model.PartySummary, error)
}

// New returns the repository for the configured store driver.
func New(cfg *config.Config) Repository {
	if cfg.IsMongo() {
		return NewMongoRepository(cfg.Client.Mongo.Database(cfg.MongoDatabaseName), cfg.ReadTimeout)
	}
	return NewGormRepository(cfg.Client.SQL)
}

func partySummary(id string, member *model.Member) *model.PartySummary {
	summary := &model.PartySummary{ID: id}
	if member == nil {
		return summary
	}
	name := member.DisplayName()
	email := member.Email
	summary.Name = &name
	summary.Email = &email
	return summary
}
