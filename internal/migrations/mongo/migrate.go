package mongo

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"homeview/internal/migrations/mongo/validators"
	mongotx "homeview/pkg/db/mongo"
	"homeview/pkg/logger"
)

var (
	SchedulesIndexes = []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "agent_id", Value: 1}, {Key: "schedule_time", Value: 1}},
			Options: options.Index().SetName("idx_schedules_agent_time").SetUnique(true),
		},
		{Keys: bson.D{{Key: "schedule_no", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "property_id", Value: 1}, {Key: "created_at", Value: 1}}},
		{Keys: bson.D{{Key: "client_id", Value: 1}, {Key: "created_at", Value: 1}}},
		{Keys: bson.D{{Key: "status", Value: 1}}},
		{Keys: bson.D{{Key: "schedule_time", Value: 1}}},
	}

	PropertiesIndexes = []mongo.IndexModel{
		{Keys: bson.D{{Key: "property_no", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "owner_id", Value: 1}}},
		{Keys: bson.D{{Key: "agent_id", Value: 1}}},
		{Keys: bson.D{{Key: "status", Value: 1}}},
		{Keys: bson.D{{Key: "city", Value: 1}}},
	}

	PropertyMediaIndexes = []mongo.IndexModel{
		{Keys: bson.D{{Key: "property_id", Value: 1}, {Key: "sort_order", Value: 1}}},
	}

	MembersIndexes = []mongo.IndexModel{
		{Keys: bson.D{{Key: "member_no", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "email", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "username", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "role", Value: 1}}},
	}

	AgentsIndexes = []mongo.IndexModel{
		{Keys: bson.D{{Key: "member_id", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "license_number", Value: 1}}, Options: options.Index().SetUnique(true)},
	}

	ClientsIndexes = []mongo.IndexModel{
		{Keys: bson.D{{Key: "member_id", Value: 1}}, Options: options.Index().SetUnique(true)},
	}

	WishlistsIndexes = []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "client_id", Value: 1}, {Key: "property_id", Value: 1}},
			Options: options.Index().SetName("idx_wishlists_client_property").SetUnique(true),
		},
		{Keys: bson.D{{Key: "wishlist_no", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "property_id", Value: 1}}},
	}
)

type CollectionDef struct {
	Indexes   []mongo.IndexModel
	Validator bson.M
}

func Collections() map[string]CollectionDef {
	return map[string]CollectionDef{
		mongotx.SchedulesCollection:      {Indexes: SchedulesIndexes, Validator: validators.ScheduleValidator},
		mongotx.PropertiesCollection:     {Indexes: PropertiesIndexes, Validator: validators.PropertyValidator},
		mongotx.PropertyImagesCollection: {Indexes: PropertyMediaIndexes, Validator: validators.PropertyMediaValidator},
		mongotx.PropertyVideosCollection: {Indexes: PropertyMediaIndexes, Validator: validators.PropertyMediaValidator},
		mongotx.MembersCollection:        {Indexes: MembersIndexes, Validator: validators.MemberValidator},
		mongotx.AgentsCollection:         {Indexes: AgentsIndexes, Validator: validators.AgentValidator},
		mongotx.ClientsCollection:        {Indexes: ClientsIndexes, Validator: validators.ClientValidator},
		mongotx.WishlistsCollection:      {Indexes: WishlistsIndexes, Validator: validators.WishlistValidator},
	}
}

// RunMigration creates every collection with its validator and indexes.
// It is idempotent: existing collections get their validator refreshed.
func RunMigration(ctx context.Context, db *mongo.Database, log *logger.Logger) error {
	log.Info("Running Mongo migrations", "database", db.Name())

	for name, def := range Collections() {
		if err := ensureCollection(ctx, db, name, def.Validator, log); err != nil {
			return fmt.Errorf("failed to ensure collection %s: %w", name, err)
		}
		if err := ensureIndexes(ctx, db, name, def.Indexes, log); err != nil {
			return fmt.Errorf("failed to ensure indexes for %s: %w", name, err)
		}
	}

	log.Info("All Mongo migrations applied successfully")
	return nil
}

func ensureCollection(ctx context.Context, db *mongo.Database, name string, validator bson.M, log *logger.Logger) error {
	existing, err := db.ListCollectionNames(ctx, bson.D{{Key: "name", Value: name}})
	if err != nil {
		return err
	}

	if len(existing) == 0 {
		log.Info("Creating collection", "collection", name)
		opts := options.CreateCollection().SetValidator(validator)
		if err := db.CreateCollection(ctx, name, opts); err != nil {
			return fmt.Errorf("failed creating %s: %w", name, err)
		}
		return nil
	}

	log.Info("Collection already exists, updating validator", "collection", name)
	command := bson.D{
		{Key: "collMod", Value: name},
		{Key: "validator", Value: validator},
	}
	if err := db.RunCommand(ctx, command).Err(); err != nil {
		log.Warn("Failed updating validator", "collection", name, "error", err)
	}
	return nil
}

func ensureIndexes(ctx context.Context, db *mongo.Database, name string, models []mongo.IndexModel, log *logger.Logger) error {
	coll := db.Collection(name)
	if _, err := coll.Indexes().CreateMany(ctx, models); err != nil {
		return err
	}
	log.Info("Ensured indexes", "collection", name, "count", len(models))
	return nil
}
