package references

import (
	"context"
	"errors"
	"fmt"

	"homeview/pkg/model"

	"gorm.io/gorm"
)

type gormRepository struct {
	db *gorm.DB
}

func NewGormRepository(db *gorm.DB) Repository {
	return &gormRepository{db: db}
}

func (r *gormRepository) FindProperty(ctx context.Context, id string) (*model.PropertySummary, error) {
	var p model.Property
	err := r.db.WithContext(ctx).
		Select("id", "title", "address", "city").
		First(&p, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
		}
		return nil, fmt.Errorf("failed to find property: %w", err)
	}
	return &model.PropertySummary{ID: p.ID, Title: p.Title, Address: p.Address, City: p.City}, nil
}

func (r *gormRepository) FindAgent(ctx context.Context, id string) (*model.PartySummary, error) {
	var a model.Agent
	err := r.db.WithContext(ctx).Preload("Member").First(&a, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
		}
		return nil, fmt.Errorf("failed to find agent: %w", err)
	}
	return partySummary(a.ID, a.Member), nil
}

func (r *gormRepository) FindClient(ctx context.Context, id string) (*model.PartySummary, error) {
	var c model.Client
	err := r.db.WithContext(ctx).Preload("Member").First(&c, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
		}
		return nil, fmt.Errorf("failed to find client: %w", err)
	}
	return partySummary(c.ID, c.Member), nil
}
