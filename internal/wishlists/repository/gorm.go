package repository

import (
	"context"
	"fmt"
	"time"

	wishlisterrors "homeview/internal/wishlists/errors"
	sqldb "homeview/pkg/db/sql"
	"homeview/pkg/model"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"gorm.io/gorm"
)

const sqlAddedOrder = "added_date ASC, id ASC"

type gormWishlistRepository struct {
	db *gorm.DB
}

func NewGormWishlistRepository(db *gorm.DB) WishlistRepository {
	return &gormWishlistRepository{db: db}
}

func now() time.Time {
	return time.Now().UTC().Truncate(time.Millisecond)
}

func (r *gormWishlistRepository) Create(ctx context.Context, w *model.Wishlist) error {
	w.ID = primitive.NewObjectID().Hex()
	if w.AddedDate.IsZero() {
		w.AddedDate = now()
	}

	if err := r.db.WithContext(ctx).Create(w).Error; err != nil {
		w.ID = ""
		if sqldb.IsDuplicateKey(err) {
			return fmt.Errorf("%w: client %s property %s", wishlisterrors.ErrDuplicate, w.ClientID, w.PropertyID)
		}
		return fmt.Errorf("failed to insert wishlist entry: %w", err)
	}
	return nil
}

func (r *gormWishlistRepository) FindByClient(ctx context.Context, clientID string) ([]*model.Wishlist, error) {
	entries := []*model.Wishlist{}
	err := r.db.WithContext(ctx).
		Where("client_id = ?", clientID).
		Order(sqlAddedOrder).
		Find(&entries).Error
	if err != nil {
		return nil, fmt.Errorf("failed to query wishlist: %w", err)
	}
	return entries, nil
}

func (r *gormWishlistRepository) DeleteByID(ctx context.Context, id string) error {
	if !primitive.IsValidObjectID(id) {
		return fmt.Errorf("%w: %s", wishlisterrors.ErrInvalidID, id)
	}
	return r.delete(id, r.db.WithContext(ctx).Where("id = ?", id))
}

func (r *gormWishlistRepository) DeleteByClientProperty(ctx context.Context, clientID, propertyID string) error {
	query := r.db.WithContext(ctx).Where("client_id = ? AND property_id = ?", clientID, propertyID)
	return r.delete(clientID+"/"+propertyID, query)
}

func (r *gormWishlistRepository) delete(key string, query *gorm.DB) error {
	result := query.Delete(&model.Wishlist{})
	if result.Error != nil {
		return fmt.Errorf("failed to delete wishlist entry: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("%w: %s", wishlisterrors.ErrNotFound, key)
	}
	return nil
}
