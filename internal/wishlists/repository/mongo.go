package repository

import (
	"context"
	"fmt"

	wishlisterrors "homeview/internal/wishlists/errors"
	"homeview/pkg/config"
	mongotx "homeview/pkg/db/mongo"
	"homeview/pkg/model"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

var addedOrder = bson.D{{Key: "added_date", Value: 1}, {Key: "_id", Value: 1}}

type mongoWishlistRepository struct {
	cfg        *config.Config
	collection *mongo.Collection
}

func NewMongoWishlistRepository(cfg *config.Config) WishlistRepository {
	return &mongoWishlistRepository{
		cfg:        cfg,
		collection: cfg.Client.Mongo.Database(cfg.MongoDatabaseName).Collection(mongotx.WishlistsCollection),
	}
}

func (r *mongoWishlistRepository) Create(ctx context.Context, w *model.Wishlist) error {
	ctx, cancel := mongotx.WithTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	w.ID = ""
	if w.AddedDate.IsZero() {
		w.AddedDate = now()
	}

	result, err := r.collection.InsertOne(ctx, w)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return fmt.Errorf("%w: client %s property %s", wishlisterrors.ErrDuplicate, w.ClientID, w.PropertyID)
		}
		return fmt.Errorf("failed to insert wishlist entry: %w", err)
	}

	oid, ok := result.InsertedID.(primitive.ObjectID)
	if !ok {
		return fmt.Errorf("unexpected inserted id %v", result.InsertedID)
	}
	w.ID = oid.Hex()
	return nil
}

func (r *mongoWishlistRepository) FindByClient(ctx context.Context, clientID string) ([]*model.Wishlist, error) {
	ctx, cancel := mongotx.WithTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	opts := options.Find().SetSort(addedOrder)
	cursor, err := r.collection.Find(ctx, bson.M{"client_id": clientID}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to query wishlist: %w", err)
	}
	defer cursor.Close(ctx)

	entries := []*model.Wishlist{}
	if err := cursor.All(ctx, &entries); err != nil {
		return nil, fmt.Errorf("failed to decode wishlist: %w", err)
	}
	return entries, nil
}

func (r *mongoWishlistRepository) DeleteByID(ctx context.Context, id string) error {
	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return fmt.Errorf("%w: %s", wishlisterrors.ErrInvalidID, id)
	}
	return r.delete(ctx, id, bson.M{"_id": objectID})
}

func (r *mongoWishlistRepository) DeleteByClientProperty(ctx context.Context, clientID, propertyID string) error {
	return r.delete(ctx, clientID+"/"+propertyID, bson.M{"client_id": clientID, "property_id": propertyID})
}

func (r *mongoWishlistRepository) delete(ctx context.Context, key string, filter bson.M) error {
	ctx, cancel := mongotx.WithTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	result, err := r.collection.DeleteOne(ctx, filter)
	if err != nil {
		return fmt.Errorf("failed to delete wishlist entry: %w", err)
	}
	if result.DeletedCount == 0 {
		return fmt.Errorf("%w: %s", wishlisterrors.ErrNotFound, key)
	}
	return nil
}
