package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	propertyerrors "homeview/internal/properties/errors"
	"homeview/pkg/model"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const sqlCreationOrder = "created_at ASC, id ASC"

var searchColumns = []string{"title", "description", "address", "city", "state", "zip_code", "type"}

type gormPropertyRepository struct {
	db *gorm.DB
}

func NewGormPropertyRepository(db *gorm.DB) PropertyRepository {
	return &gormPropertyRepository{db: db}
}

func now() time.Time {
	return time.Now().UTC().Truncate(time.Millisecond)
}

func (r *gormPropertyRepository) Create(ctx context.Context, p *model.Property) error {
	p.ID = primitive.NewObjectID().Hex()
	p.CreatedAt = now()
	prepareImages(p.ID, p.Images)
	prepareVideos(p.ID, p.Videos)

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit(clause.Associations).Create(p).Error; err != nil {
			return err
		}
		if len(p.Images) > 0 {
			if err := tx.Create(&p.Images).Error; err != nil {
				return err
			}
		}
		if len(p.Videos) > 0 {
			if err := tx.Create(&p.Videos).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		p.ID = ""
		return fmt.Errorf("failed to create property: %w", err)
	}
	return nil
}

func prepareImages(propertyID string, images []model.PropertyImage) {
	created := now()
	for i := range images {
		images[i].ID = primitive.NewObjectID().Hex()
		images[i].PropertyID = propertyID
		images[i].CreatedAt = created
	}
}

func prepareVideos(propertyID string, videos []model.PropertyVideo) {
	created := now()
	for i := range videos {
		videos[i].ID = primitive.NewObjectID().Hex()
		videos[i].PropertyID = propertyID
		videos[i].CreatedAt = created
	}
}

func (r *gormPropertyRepository) FindByID(ctx context.Context, id string) (*model.Property, error) {
	if !primitive.IsValidObjectID(id) {
		return nil, fmt.Errorf("%w: %s", propertyerrors.ErrInvalidID, id)
	}

	var p model.Property
	err := withMedia(r.db.WithContext(ctx)).
		Preload("Owner.Member").
		Preload("Agent.Member").
		First(&p, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: %s", propertyerrors.ErrNotFound, id)
		}
		return nil, fmt.Errorf("failed to find property: %w", err)
	}
	return &p, nil
}

func withMedia(db *gorm.DB) *gorm.DB {
	return db.
		Preload("Images", func(db *gorm.DB) *gorm.DB { return db.Order("sort_order ASC, created_at ASC, id ASC") }).
		Preload("Videos", func(db *gorm.DB) *gorm.DB { return db.Order("created_at ASC, id ASC") })
}

func (r *gormPropertyRepository) FindAll(ctx context.Context, limit int, offset int64) ([]*model.Property, error) {
	properties := []*model.Property{}
	err := withMedia(r.db.WithContext(ctx)).
		Order(sqlCreationOrder).
		Limit(limit).
		Offset(int(offset)).
		Find(&properties).Error
	if err != nil {
		return nil, fmt.Errorf("failed to query properties: %w", err)
	}
	return properties, nil
}

func (r *gormPropertyRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&model.Property{}).Count(&count).Error; err != nil {
		return 0, fmt.Errorf("failed to count properties: %w", err)
	}
	return count, nil
}

func (r *gormPropertyRepository) find(ctx context.Context, query string, args ...any) ([]*model.Property, error) {
	properties := []*model.Property{}
	err := withMedia(r.db.WithContext(ctx)).
		Where(query, args...).
		Order(sqlCreationOrder).
		Find(&properties).Error
	if err != nil {
		return nil, fmt.Errorf("failed to query properties: %w", err)
	}
	return properties, nil
}

func (r *gormPropertyRepository) FindByOwner(ctx context.Context, ownerID string) ([]*model.Property, error) {
	return r.find(ctx, "owner_id = ?", ownerID)
}

func (r *gormPropertyRepository) FindByAgent(ctx context.Context, agentID string) ([]*model.Property, error) {
	return r.find(ctx, "agent_id = ?", agentID)
}

func (r *gormPropertyRepository) FindByStatus(ctx context.Context, status string) ([]*model.Property, error) {
	return r.find(ctx, "status = ?", status)
}

// Search matches term as a case-insensitive substring of any text column.
// LIKE wildcards in term are escaped with '!'.
func (r *gormPropertyRepository) Search(ctx context.Context, term string) ([]*model.Property, error) {
	escaped := strings.NewReplacer("!", "!!", "%", "!%", "_", "!_").Replace(strings.ToLower(term))
	pattern := "%" + escaped + "%"

	clauses := make([]string, 0, len(searchColumns))
	args := make([]any, 0, len(searchColumns))
	for _, column := range searchColumns {
		clauses = append(clauses, fmt.Sprintf("LOWER(%s) LIKE ? ESCAPE '!'", column))
		args = append(args, pattern)
	}
	return r.find(ctx, strings.Join(clauses, " OR "), args...)
}

func (r *gormPropertyRepository) Update(ctx context.Context, id string, p *model.Property) error {
	if !primitive.IsValidObjectID(id) {
		return fmt.Errorf("%w: %s", propertyerrors.ErrInvalidID, id)
	}

	updatedAt := now()
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Model(&model.Property{}).
			Where("id = ?", id).
			Updates(map[string]any{
				"title":       p.Title,
				"description": p.Description,
				"type":        p.Type,
				"price":       p.Price,
				"bedrooms":    p.Bedrooms,
				"bathrooms":   p.Bathrooms,
				"area":        p.Area,
				"floors":      p.Floors,
				"address":     p.Address,
				"city":        p.City,
				"state":       p.State,
				"zip_code":    p.ZipCode,
				"status":      p.Status,
				"owner_id":    p.OwnerID,
				"agent_id":    p.AgentID,
				"amenities":   p.Amenities,
				"listed_at":   p.ListedAt,
				"updated_at":  updatedAt,
			})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return fmt.Errorf("%w: %s", propertyerrors.ErrNotFound, id)
		}
		return nil
	})
	if err != nil {
		if errors.Is(err, propertyerrors.ErrNotFound) {
			return err
		}
		return fmt.Errorf("failed to update property: %w", err)
	}

	p.UpdatedAt = &updatedAt
	return nil
}

func (r *gormPropertyRepository) Delete(ctx context.Context, id string) (model.PropertyCascade, error) {
	if !primitive.IsValidObjectID(id) {
		return model.PropertyCascade{}, fmt.Errorf("%w: %s", propertyerrors.ErrInvalidID, id)
	}

	var cascade model.PropertyCascade
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		steps := []struct {
			model any
			count *int64
		}{
			{&model.PropertyImage{}, &cascade.Images},
			{&model.PropertyVideo{}, &cascade.Videos},
			{&model.Schedule{}, &cascade.Schedules},
			{&model.Wishlist{}, &cascade.Wishlists},
		}
		for _, step := range steps {
			result := tx.Where("property_id = ?", id).Delete(step.model)
			if result.Error != nil {
				return result.Error
			}
			*step.count = result.RowsAffected
		}

		result := tx.Where("id = ?", id).Delete(&model.Property{})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return fmt.Errorf("%w: %s", propertyerrors.ErrNotFound, id)
		}
		cascade.Property = result.RowsAffected
		return nil
	})
	if err != nil {
		if errors.Is(err, propertyerrors.ErrNotFound) {
			return model.PropertyCascade{}, err
		}
		return model.PropertyCascade{}, fmt.Errorf("failed to delete property: %w", err)
	}
	return cascade, nil
}

func (r *gormPropertyRepository) AddImages(ctx context.Context, propertyID string, images []model.PropertyImage) ([]model.PropertyImage, error) {
	prepareImages(propertyID, images)
	err := r.withProperty(ctx, propertyID, func(tx *gorm.DB) error {
		return tx.Create(&images).Error
	})
	return images, err
}

func (r *gormPropertyRepository) AddVideos(ctx context.Context, propertyID string, videos []model.PropertyVideo) ([]model.PropertyVideo, error) {
	prepareVideos(propertyID, videos)
	err := r.withProperty(ctx, propertyID, func(tx *gorm.DB) error {
		return tx.Create(&videos).Error
	})
	return videos, err
}

func (r *gormPropertyRepository) ReplaceImages(ctx context.Context, propertyID string, images []model.PropertyImage) ([]model.PropertyImage, error) {
	prepareImages(propertyID, images)
	err := r.withProperty(ctx, propertyID, func(tx *gorm.DB) error {
		if err := tx.Where("property_id = ?", propertyID).Delete(&model.PropertyImage{}).Error; err != nil {
			return err
		}
		if len(images) == 0 {
			return nil
		}
		return tx.Create(&images).Error
	})
	return images, err
}

func (r *gormPropertyRepository) ReplaceVideos(ctx context.Context, propertyID string, videos []model.PropertyVideo) ([]model.PropertyVideo, error) {
	prepareVideos(propertyID, videos)
	err := r.withProperty(ctx, propertyID, func(tx *gorm.DB) error {
		if err := tx.Where("property_id = ?", propertyID).Delete(&model.PropertyVideo{}).Error; err != nil {
			return err
		}
		if len(videos) == 0 {
			return nil
		}
		return tx.Create(&videos).Error
	})
	return videos, err
}

// withProperty runs fn in a transaction once the property is known to exist.
func (r *gormPropertyRepository) withProperty(ctx context.Context, propertyID string, fn func(tx *gorm.DB) error) error {
	if !primitive.IsValidObjectID(propertyID) {
		return fmt.Errorf("%w: %s", propertyerrors.ErrInvalidID, propertyID)
	}

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&model.Property{}).Where("id = ?", propertyID).Count(&count).Error; err != nil {
			return err
		}
		if count == 0 {
			return fmt.Errorf("%w: %s", propertyerrors.ErrNotFound, propertyID)
		}
		return fn(tx)
	})
	if err != nil {
		if errors.Is(err, propertyerrors.ErrNotFound) {
			return err
		}
		return fmt.Errorf("failed to update property media: %w", err)
	}
	return nil
}
