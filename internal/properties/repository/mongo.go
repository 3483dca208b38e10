package repository

import (
	"context"
	"errors"
	"fmt"
	"regexp"

	propertyerrors "homeview/internal/properties/errors"
	"homeview/pkg/config"
	mongotx "homeview/pkg/db/mongo"
	"homeview/pkg/model"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type mongoPropertyRepository struct {
	cfg       *config.Config
	db        *mongo.Database
	props     *mongo.Collection
	images    *mongo.Collection
	videos    *mongo.Collection
	txManager mongotx.TransactionManager
}

func NewMongoPropertyRepository(cfg *config.Config) PropertyRepository {
	db := cfg.Client.Mongo.Database(cfg.MongoDatabaseName)
	return &mongoPropertyRepository{
		cfg:       cfg,
		db:        db,
		props:     db.Collection(mongotx.PropertiesCollection),
		images:    db.Collection(mongotx.PropertyImagesCollection),
		videos:    db.Collection(mongotx.PropertyVideosCollection),
		txManager: mongotx.NewTransactionManager(cfg.Client.Mongo),
	}
}

var creationOrder = bson.D{{Key: "created_at", Value: 1}, {Key: "_id", Value: 1}}

func (r *mongoPropertyRepository) Create(ctx context.Context, p *model.Property) error {
	p.CreatedAt = now()

	err := r.txManager.ExecuteTransaction(ctx, func(sessCtx mongo.SessionContext) error {
		result, err := r.props.InsertOne(sessCtx, p)
		if err != nil {
			return err
		}
		oid, ok := result.InsertedID.(primitive.ObjectID)
		if !ok {
			return fmt.Errorf("unexpected inserted id %v", result.InsertedID)
		}
		p.ID = oid.Hex()

		if p.Images, err = r.insertImages(sessCtx, p.ID, p.Images); err != nil {
			return err
		}
		p.Videos, err = r.insertVideos(sessCtx, p.ID, p.Videos)
		return err
	})
	if err != nil {
		p.ID = ""
		return fmt.Errorf("failed to create property: %w", err)
	}
	return nil
}

func (r *mongoPropertyRepository) insertImages(ctx context.Context, propertyID string, images []model.PropertyImage) ([]model.PropertyImage, error) {
	if len(images) == 0 {
		return images, nil
	}
	created := now()
	docs := make([]any, len(images))
	for i := range images {
		images[i].ID = ""
		images[i].PropertyID = propertyID
		images[i].CreatedAt = created
		docs[i] = images[i]
	}
	result, err := r.images.InsertMany(ctx, docs)
	if err != nil {
		return nil, fmt.Errorf("failed to insert images: %w", err)
	}
	for i, id := range result.InsertedIDs {
		if oid, ok := id.(primitive.ObjectID); ok {
			images[i].ID = oid.Hex()
		}
	}
	return images, nil
}

func (r *mongoPropertyRepository) insertVideos(ctx context.Context, propertyID string, videos []model.PropertyVideo) ([]model.PropertyVideo, error) {
	if len(videos) == 0 {
		return videos, nil
	}
	created := now()
	docs := make([]any, len(videos))
	for i := range videos {
		videos[i].ID = ""
		videos[i].PropertyID = propertyID
		videos[i].CreatedAt = created
		docs[i] = videos[i]
	}
	result, err := r.videos.InsertMany(ctx, docs)
	if err != nil {
		return nil, fmt.Errorf("failed to insert videos: %w", err)
	}
	for i, id := range result.InsertedIDs {
		if oid, ok := id.(primitive.ObjectID); ok {
			videos[i].ID = oid.Hex()
		}
	}
	return videos, nil
}

func (r *mongoPropertyRepository) FindByID(ctx context.Context, id string) (*model.Property, error) {
	ctx, cancel := mongotx.WithTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", propertyerrors.ErrInvalidID, id)
	}

	var p model.Property
	if err := r.props.FindOne(ctx, bson.M{"_id": objectID}).Decode(&p); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, fmt.Errorf("%w: %s", propertyerrors.ErrNotFound, id)
		}
		return nil, fmt.Errorf("failed to find property: %w", err)
	}

	if err := r.attachMedia(ctx, []*model.Property{&p}); err != nil {
		return nil, err
	}
	if p.OwnerID != nil {
		var owner model.Client
		if found, err := r.findProfile(ctx, mongotx.ClientsCollection, *p.OwnerID, &owner); err != nil {
			return nil, err
		} else if found {
			owner.Member = r.findMember(ctx, owner.MemberID)
			p.Owner = &owner
		}
	}
	if p.AgentID != nil {
		var agent model.Agent
		if found, err := r.findProfile(ctx, mongotx.AgentsCollection, *p.AgentID, &agent); err != nil {
			return nil, err
		} else if found {
			agent.Member = r.findMember(ctx, agent.MemberID)
			p.Agent = &agent
		}
	}
	return &p, nil
}

func (r *mongoPropertyRepository) findProfile(ctx context.Context, collection, id string, out any) (bool, error) {
	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return false, nil
	}
	err = r.db.Collection(collection).FindOne(ctx, bson.M{"_id": objectID}).Decode(out)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to load %s: %w", collection, err)
	}
	return true, nil
}

func (r *mongoPropertyRepository) findMember(ctx context.Context, id string) *model.Member {
	var m model.Member
	if found, err := r.findProfile(ctx, mongotx.MembersCollection, id, &m); err != nil || !found {
		return nil
	}
	return &m
}

// attachMedia loads images and videos for all properties with one query each.
func (r *mongoPropertyRepository) attachMedia(ctx context.Context, properties []*model.Property) error {
	if len(properties) == 0 {
		return nil
	}
	ids := make([]string, 0, len(properties))
	byID := make(map[string]*model.Property, len(properties))
	for _, p := range properties {
		ids = append(ids, p.ID)
		byID[p.ID] = p
	}
	filter := bson.M{"property_id": bson.M{"$in": ids}}

	imgCursor, err := r.images.Find(ctx, filter, options.Find().SetSort(bson.D{
		{Key: "sort_order", Value: 1}, {Key: "created_at", Value: 1}, {Key: "_id", Value: 1},
	}))
	if err != nil {
		return fmt.Errorf("failed to query images: %w", err)
	}
	var images []model.PropertyImage
	if err := imgCursor.All(ctx, &images); err != nil {
		return fmt.Errorf("failed to decode images: %w", err)
	}
	for _, img := range images {
		if p, ok := byID[img.PropertyID]; ok {
			p.Images = append(p.Images, img)
		}
	}

	vidCursor, err := r.videos.Find(ctx, filter, options.Find().SetSort(creationOrder))
	if err != nil {
		return fmt.Errorf("failed to query videos: %w", err)
	}
	var videos []model.PropertyVideo
	if err := vidCursor.All(ctx, &videos); err != nil {
		return fmt.Errorf("failed to decode videos: %w", err)
	}
	for _, vid := range videos {
		if p, ok := byID[vid.PropertyID]; ok {
			p.Videos = append(p.Videos, vid)
		}
	}
	return nil
}

func (r *mongoPropertyRepository) find(ctx context.Context, filter bson.M, opts *options.FindOptions) ([]*model.Property, error) {
	ctx, cancel := mongotx.WithTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	cursor, err := r.props.Find(ctx, filter, opts.SetSort(creationOrder))
	if err != nil {
		return nil, fmt.Errorf("failed to query properties: %w", err)
	}
	defer cursor.Close(ctx)

	properties := []*model.Property{}
	if err = cursor.All(ctx, &properties); err != nil {
		return nil, fmt.Errorf("failed to decode properties: %w", err)
	}
	if err := r.attachMedia(ctx, properties); err != nil {
		return nil, err
	}
	return properties, nil
}

func (r *mongoPropertyRepository) FindAll(ctx context.Context, limit int, offset int64) ([]*model.Property, error) {
	return r.find(ctx, bson.M{}, options.Find().SetLimit(int64(limit)).SetSkip(offset))
}

func (r *mongoPropertyRepository) Count(ctx context.Context) (int64, error) {
	ctx, cancel := mongotx.WithTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	count, err := r.props.CountDocuments(ctx, bson.M{})
	if err != nil {
		return 0, fmt.Errorf("failed to count properties: %w", err)
	}
	return count, nil
}

func (r *mongoPropertyRepository) FindByOwner(ctx context.Context, ownerID string) ([]*model.Property, error) {
	return r.find(ctx, bson.M{"owner_id": ownerID}, options.Find())
}

func (r *mongoPropertyRepository) FindByAgent(ctx context.Context, agentID string) ([]*model.Property, error) {
	return r.find(ctx, bson.M{"agent_id": agentID}, options.Find())
}

func (r *mongoPropertyRepository) FindByStatus(ctx context.Context, status string) ([]*model.Property, error) {
	return r.find(ctx, bson.M{"status": status}, options.Find())
}

// Search matches term literally; regex metacharacters are quoted.
func (r *mongoPropertyRepository) Search(ctx context.Context, term string) ([]*model.Property, error) {
	pattern := primitive.Regex{Pattern: regexp.QuoteMeta(term), Options: "i"}

	or := make(bson.A, 0, len(searchColumns))
	for _, field := range searchColumns {
		or = append(or, bson.M{field: pattern})
	}
	return r.find(ctx, bson.M{"$or": or}, options.Find())
}

func (r *mongoPropertyRepository) Update(ctx context.Context, id string, p *model.Property) error {
	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return fmt.Errorf("%w: %s", propertyerrors.ErrInvalidID, id)
	}

	updatedAt := now()
	update := bson.M{
		"$set": bson.M{
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
		},
	}

	err = r.txManager.ExecuteTransaction(ctx, func(sessCtx mongo.SessionContext) error {
		result, err := r.props.UpdateOne(sessCtx, bson.M{"_id": objectID}, update)
		if err != nil {
			return err
		}
		if result.MatchedCount == 0 {
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

func (r *mongoPropertyRepository) Delete(ctx context.Context, id string) (model.PropertyCascade, error) {
	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return model.PropertyCascade{}, fmt.Errorf("%w: %s", propertyerrors.ErrInvalidID, id)
	}

	var cascade model.PropertyCascade
	err = r.txManager.ExecuteTransaction(ctx, func(sessCtx mongo.SessionContext) error {
		cascade = model.PropertyCascade{}
		steps := []struct {
			collection string
			count      *int64
		}{
			{mongotx.PropertyImagesCollection, &cascade.Images},
			{mongotx.PropertyVideosCollection, &cascade.Videos},
			{mongotx.SchedulesCollection, &cascade.Schedules},
			{mongotx.WishlistsCollection, &cascade.Wishlists},
		}
		for _, step := range steps {
			result, err := r.db.Collection(step.collection).DeleteMany(sessCtx, bson.M{"property_id": id})
			if err != nil {
				return fmt.Errorf("failed to delete from %s: %w", step.collection, err)
			}
			*step.count = result.DeletedCount
		}

		result, err := r.props.DeleteOne(sessCtx, bson.M{"_id": objectID})
		if err != nil {
			return err
		}
		if result.DeletedCount == 0 {
			return fmt.Errorf("%w: %s", propertyerrors.ErrNotFound, id)
		}
		cascade.Property = result.DeletedCount
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

func (r *mongoPropertyRepository) AddImages(ctx context.Context, propertyID string, images []model.PropertyImage) ([]model.PropertyImage, error) {
	var out []model.PropertyImage
	err := r.withProperty(ctx, propertyID, func(sessCtx mongo.SessionContext) error {
		var err error
		out, err = r.insertImages(sessCtx, propertyID, images)
		return err
	})
	return out, err
}

func (r *mongoPropertyRepository) AddVideos(ctx context.Context, propertyID string, videos []model.PropertyVideo) ([]model.PropertyVideo, error) {
	var out []model.PropertyVideo
	err := r.withProperty(ctx, propertyID, func(sessCtx mongo.SessionContext) error {
		var err error
		out, err = r.insertVideos(sessCtx, propertyID, videos)
		return err
	})
	return out, err
}

func (r *mongoPropertyRepository) ReplaceImages(ctx context.Context, propertyID string, images []model.PropertyImage) ([]model.PropertyImage, error) {
	var out []model.PropertyImage
	err := r.withProperty(ctx, propertyID, func(sessCtx mongo.SessionContext) error {
		if _, err := r.images.DeleteMany(sessCtx, bson.M{"property_id": propertyID}); err != nil {
			return err
		}
		var err error
		out, err = r.insertImages(sessCtx, propertyID, images)
		return err
	})
	return out, err
}

func (r *mongoPropertyRepository) ReplaceVideos(ctx context.Context, propertyID string, videos []model.PropertyVideo) ([]model.PropertyVideo, error) {
	var out []model.PropertyVideo
	err := r.withProperty(ctx, propertyID, func(sessCtx mongo.SessionContext) error {
		if _, err := r.videos.DeleteMany(sessCtx, bson.M{"property_id": propertyID}); err != nil {
			return err
		}
		var err error
		out, err = r.insertVideos(sessCtx, propertyID, videos)
		return err
	})
	return out, err
}

func (r *mongoPropertyRepository) withProperty(ctx context.Context, propertyID string, fn mongotx.TransactionFunc) error {
	objectID, err := primitive.ObjectIDFromHex(propertyID)
	if err != nil {
		return fmt.Errorf("%w: %s", propertyerrors.ErrInvalidID, propertyID)
	}

	err = r.txManager.ExecuteTransaction(ctx, func(sessCtx mongo.SessionContext) error {
		count, err := r.props.CountDocuments(sessCtx, bson.M{"_id": objectID}, options.Count().SetLimit(1))
		if err != nil {
			return err
		}
		if count == 0 {
			return fmt.Errorf("%w: %s", propertyerrors.ErrNotFound, propertyID)
		}
		return fn(sessCtx)
	})
	if err != nil {
		if errors.Is(err, propertyerrors.ErrNotFound) {
			return err
		}
		return fmt.Errorf("failed to update property media: %w", err)
	}
	return nil
}
