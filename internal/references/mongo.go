package references

import (
	"context"
	"errors"
	"fmt"
	"time"

	mongotx "homeview/pkg/db/mongo"
	"homeview/pkg/model"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

type mongoRepository struct {
	db          *mongo.Database
	readTimeout time.Duration
}

func NewMongoRepository(db *mongo.Database, readTimeout time.Duration) Repository {
	return &mongoRepository{db: db, readTimeout: readTimeout}
}

func (r *mongoRepository) findOne(ctx context.Context, collection, id string, out any) error {
	ctx, cancel := mongotx.WithTimeout(ctx, r.readTimeout)
	defer cancel()

	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return fmt.Errorf("%w: %s", ErrNotFound, id)
	}

	if err := r.db.Collection(collection).FindOne(ctx, bson.M{"_id": objectID}).Decode(out); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return fmt.Errorf("%w: %s", ErrNotFound, id)
		}
		return fmt.Errorf("failed to find %s: %w", collection, err)
	}
	return nil
}

func (r *mongoRepository) FindProperty(ctx context.Context, id string) (*model.PropertySummary, error) {
	var p model.Property
	if err := r.findOne(ctx, mongotx.PropertiesCollection, id, &p); err != nil {
		return nil, err
	}
	return &model.PropertySummary{ID: p.ID, Title: p.Title, Address: p.Address, City: p.City}, nil
}

func (r *mongoRepository) FindAgent(ctx context.Context, id string) (*model.PartySummary, error) {
	var a model.Agent
	if err := r.findOne(ctx, mongotx.AgentsCollection, id, &a); err != nil {
		return nil, err
	}
	return partySummary(a.ID, r.member(ctx, a.MemberID)), nil
}

func (r *mongoRepository) FindClient(ctx context.Context, id string) (*model.PartySummary, error) {
	var c model.Client
	if err := r.findOne(ctx, mongotx.ClientsCollection, id, &c); err != nil {
		return nil, err
	}
	return partySummary(c.ID, r.member(ctx, c.MemberID)), nil
}

// member is best effort: a profile without its member still resolves.
func (r *mongoRepository) member(ctx context.Context, id string) *model.Member {
	var m model.Member
	if err := r.findOne(ctx, mongotx.MembersCollection, id, &m); err != nil {
		return nil
	}
	return &m
}
