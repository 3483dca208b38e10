package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	scheduleserrors "homeview/internal/schedules/errors"
	"homeview/pkg/config"
	mongotx "homeview/pkg/db/mongo"
	"homeview/pkg/model"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type mongoScheduleRepository struct {
	cfg        *config.Config
	collection *mongo.Collection
}

func NewMongoScheduleRepository(cfg *config.Config) ScheduleRepository {
	db := cfg.Client.Mongo.Database(cfg.MongoDatabaseName)
	return &mongoScheduleRepository{
		cfg:        cfg,
		collection: db.Collection(mongotx.SchedulesCollection),
	}
}

func (r *mongoScheduleRepository) Create(ctx context.Context, sc *model.Schedule) error {
	ctx, cancel := mongotx.WithTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	sc.ScheduleTime = model.NormalizeScheduleTime(sc.ScheduleTime)
	sc.CreatedAt = time.Now().UTC().Truncate(time.Millisecond)
	result, err := r.collection.InsertOne(ctx, sc)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return fmt.Errorf("%w: agent %s at %s", scheduleserrors.ErrSlotTaken, sc.AgentID, sc.ScheduleTime.Format(time.RFC3339))
		}
		return fmt.Errorf("failed to create schedule: %w", err)
	}

	if oid, ok := result.InsertedID.(primitive.ObjectID); ok {
		sc.ID = oid.Hex()
	}
	return nil
}

func (r *mongoScheduleRepository) FindByID(ctx context.Context, id string) (*model.Schedule, error) {
	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", scheduleserrors.ErrInvalidID, id)
	}
	return r.findOne(ctx, bson.M{"_id": objectID}, id)
}

func (r *mongoScheduleRepository) FindByScheduleNo(ctx context.Context, scheduleNo string) (*model.Schedule, error) {
	return r.findOne(ctx, bson.M{"schedule_no": scheduleNo}, scheduleNo)
}

func (r *mongoScheduleRepository) findOne(ctx context.Context, filter bson.M, key string) (*model.Schedule, error) {
	ctx, cancel := mongotx.WithTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	var sc model.Schedule
	err := r.collection.FindOne(ctx, filter).Decode(&sc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, fmt.Errorf("%w: %s", scheduleserrors.ErrNotFound, key)
		}
		return nil, fmt.Errorf("failed to find schedule: %w", err)
	}

	return &sc, nil
}

// creationOrder lists oldest first; _id breaks ties within a millisecond.
var creationOrder = bson.D{{Key: "created_at", Value: 1}, {Key: "_id", Value: 1}}

func (r *mongoScheduleRepository) find(ctx context.Context, filter bson.M, sort bson.D) ([]*model.Schedule, error) {
	ctx, cancel := mongotx.WithTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	cursor, err := r.collection.Find(ctx, filter, options.Find().SetSort(sort))
	if err != nil {
		return nil, fmt.Errorf("failed to query schedules: %w", err)
	}
	defer cursor.Close(ctx)

	schedules := []*model.Schedule{}
	if err = cursor.All(ctx, &schedules); err != nil {
		return nil, fmt.Errorf("failed to decode schedules: %w", err)
	}
	return schedules, nil
}

func (r *mongoScheduleRepository) FindByAgent(ctx context.Context, agentID string) ([]*model.Schedule, error) {
	return r.find(ctx, bson.M{"agent_id": agentID}, creationOrder)
}

func (r *mongoScheduleRepository) FindByClient(ctx context.Context, clientID string) ([]*model.Schedule, error) {
	return r.find(ctx, bson.M{"client_id": clientID}, creationOrder)
}

func (r *mongoScheduleRepository) FindByProperty(ctx context.Context, propertyID string) ([]*model.Schedule, error) {
	return r.find(ctx, bson.M{"property_id": propertyID}, creationOrder)
}

func (r *mongoScheduleRepository) FindByDateRange(ctx context.Context, start, end time.Time) ([]*model.Schedule, error) {
	filter := bson.M{"schedule_time": bson.M{
		"$gte": model.NormalizeScheduleTime(start),
		"$lte": model.NormalizeScheduleTime(end),
	}}
	return r.find(ctx, filter, bson.D{{Key: "schedule_time", Value: 1}, {Key: "_id", Value: 1}})
}

func (r *mongoScheduleRepository) FindByStatus(ctx context.Context, status model.ScheduleStatus) ([]*model.Schedule, error) {
	return r.find(ctx, bson.M{"status": status}, creationOrder)
}

func (r *mongoScheduleRepository) IsTimeSlotAvailable(ctx context.Context, agentID string, scheduleTime time.Time, excludeID string) (bool, error) {
	ctx, cancel := mongotx.WithTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	filter := bson.M{
		"agent_id":      agentID,
		"schedule_time": model.NormalizeScheduleTime(scheduleTime),
	}
	if excludeID != "" {
		objectID, err := primitive.ObjectIDFromHex(excludeID)
		if err != nil {
			return false, fmt.Errorf("%w: %s", scheduleserrors.ErrInvalidID, excludeID)
		}
		filter["_id"] = bson.M{"$ne": objectID}
	}

	count, err := r.collection.CountDocuments(ctx, filter, options.Count().SetLimit(1))
	if err != nil {
		return false, fmt.Errorf("failed to check time slot: %w", err)
	}
	return count == 0, nil
}

// Update writes the mutable fields only: schedule_time, status and notes.
func (r *mongoScheduleRepository) Update(ctx context.Context, id string, sc *model.Schedule) error {
	ctx, cancel := mongotx.WithTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return fmt.Errorf("%w: %s", scheduleserrors.ErrInvalidID, id)
	}

	now := time.Now().UTC().Truncate(time.Millisecond)
	sc.ScheduleTime = model.NormalizeScheduleTime(sc.ScheduleTime)
	update := bson.M{
		"$set": bson.M{
			"schedule_time": sc.ScheduleTime,
			"status":        sc.Status,
			"notes":         sc.Notes,
			"updated_at":    now,
		},
	}

	result, err := r.collection.UpdateOne(ctx, bson.M{"_id": objectID}, update)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return fmt.Errorf("%w: agent %s at %s", scheduleserrors.ErrSlotTaken, sc.AgentID, sc.ScheduleTime.Format(time.RFC3339))
		}
		return fmt.Errorf("failed to update schedule: %w", err)
	}

	if result.MatchedCount == 0 {
		return fmt.Errorf("%w: %s", scheduleserrors.ErrNotFound, id)
	}

	sc.UpdatedAt = &now
	return nil
}

func (r *mongoScheduleRepository) Delete(ctx context.Context, id string) error {
	ctx, cancel := mongotx.WithTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return fmt.Errorf("%w: %s", scheduleserrors.ErrInvalidID, id)
	}

	result, err := r.collection.DeleteOne(ctx, bson.M{"_id": objectID})
	if err != nil {
		return fmt.Errorf("failed to delete schedule: %w", err)
	}
	if result.DeletedCount == 0 {
		return fmt.Errorf("%w: %s", scheduleserrors.ErrNotFound, id)
	}
	return nil
}
