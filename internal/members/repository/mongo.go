package repository

import (
	"context"
	"errors"
	"fmt"

	membererrors "homeview/internal/members/errors"
	"homeview/pkg/config"
	mongotx "homeview/pkg/db/mongo"
	"homeview/pkg/model"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

var creationOrder = bson.D{{Key: "created_at", Value: 1}, {Key: "_id", Value: 1}}

type mongoMemberRepository struct {
	cfg        *config.Config
	members    *mongo.Collection
	agents     *mongo.Collection
	clients    *mongo.Collection
	properties *mongo.Collection
	txManager  mongotx.TransactionManager
}

func NewMongoMemberRepository(cfg *config.Config) MemberRepository {
	db := cfg.Client.Mongo.Database(cfg.MongoDatabaseName)
	return &mongoMemberRepository{
		cfg:        cfg,
		members:    db.Collection(mongotx.MembersCollection),
		agents:     db.Collection(mongotx.AgentsCollection),
		clients:    db.Collection(mongotx.ClientsCollection),
		properties: db.Collection(mongotx.PropertiesCollection),
		txManager:  mongotx.NewTransactionManager(cfg.Client.Mongo),
	}
}

func (r *mongoMemberRepository) CreateAgent(ctx context.Context, a *model.Agent) error {
	a.CreatedAt = now()
	return r.createProfile(ctx, a.Member, r.agents, func(memberID string) any {
		a.ID = ""
		a.MemberID = memberID
		return a
	}, func(id string) { a.ID = id }, func() { a.ID, a.MemberID = "", "" })
}

func (r *mongoMemberRepository) CreateClient(ctx context.Context, c *model.Client) error {
	c.CreatedAt = now()
	return r.createProfile(ctx, c.Member, r.clients, func(memberID string) any {
		c.ID = ""
		c.MemberID = memberID
		return c
	}, func(id string) { c.ID = id }, func() { c.ID, c.MemberID = "", "" })
}

func (r *mongoMemberRepository) createProfile(
	ctx context.Context,
	m *model.Member,
	profiles *mongo.Collection,
	profile func(memberID string) any,
	setID func(id string),
	reset func(),
) error {
	if m == nil {
		return fmt.Errorf("profile has no member")
	}
	m.ID = ""
	m.CreatedAt = now()

	err := r.txManager.ExecuteTransaction(ctx, func(sessCtx mongo.SessionContext) error {
		memberID, err := insertID(r.members.InsertOne(sessCtx, m))
		if err != nil {
			return err
		}
		m.ID = memberID

		profileID, err := insertID(profiles.InsertOne(sessCtx, profile(memberID)))
		if err != nil {
			return err
		}
		setID(profileID)
		return nil
	})
	if err != nil {
		m.ID = ""
		reset()
		if mongo.IsDuplicateKeyError(err) {
			return fmt.Errorf("%w: %s", membererrors.ErrDuplicate, m.Email)
		}
		return fmt.Errorf("failed to create member: %w", err)
	}
	return nil
}

func insertID(result *mongo.InsertOneResult, err error) (string, error) {
	if err != nil {
		return "", err
	}
	oid, ok := result.InsertedID.(primitive.ObjectID)
	if !ok {
		return "", fmt.Errorf("unexpected inserted id %v", result.InsertedID)
	}
	return oid.Hex(), nil
}

func (r *mongoMemberRepository) findOne(ctx context.Context, collection *mongo.Collection, id string, out any) error {
	ctx, cancel := mongotx.WithTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return fmt.Errorf("%w: %s", membererrors.ErrInvalidID, id)
	}

	if err := collection.FindOne(ctx, bson.M{"_id": objectID}).Decode(out); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return fmt.Errorf("%w: %s", membererrors.ErrNotFound, id)
		}
		return fmt.Errorf("failed to find member: %w", err)
	}
	return nil
}

func (r *mongoMemberRepository) FindMember(ctx context.Context, id string) (*model.Member, error) {
	var m model.Member
	if err := r.findOne(ctx, r.members, id, &m); err != nil {
		return nil, err
	}
	return &m, nil
}

func (r *mongoMemberRepository) FindAgent(ctx context.Context, id string) (*model.Agent, error) {
	var a model.Agent
	if err := r.findOne(ctx, r.agents, id, &a); err != nil {
		return nil, err
	}
	if err := r.attachMembers(ctx, []memberRef{{a.MemberID, &a.Member}}); err != nil {
		return nil, err
	}
	return &a, nil
}

func (r *mongoMemberRepository) FindClient(ctx context.Context, id string) (*model.Client, error) {
	var c model.Client
	if err := r.findOne(ctx, r.clients, id, &c); err != nil {
		return nil, err
	}
	if err := r.attachMembers(ctx, []memberRef{{c.MemberID, &c.Member}}); err != nil {
		return nil, err
	}
	return &c, nil
}

type memberRef struct {
	id     string
	target **model.Member
}

// attachMembers loads the members of a page of profiles with one query.
func (r *mongoMemberRepository) attachMembers(ctx context.Context, refs []memberRef) error {
	if len(refs) == 0 {
		return nil
	}
	ids := make([]primitive.ObjectID, 0, len(refs))
	for _, ref := range refs {
		if oid, err := primitive.ObjectIDFromHex(ref.id); err == nil {
			ids = append(ids, oid)
		}
	}

	cursor, err := r.members.Find(ctx, bson.M{"_id": bson.M{"$in": ids}})
	if err != nil {
		return fmt.Errorf("failed to query members: %w", err)
	}
	var members []*model.Member
	if err := cursor.All(ctx, &members); err != nil {
		return fmt.Errorf("failed to decode members: %w", err)
	}

	byID := make(map[string]*model.Member, len(members))
	for _, m := range members {
		byID[m.ID] = m
	}
	for _, ref := range refs {
		*ref.target = byID[ref.id]
	}
	return nil
}

func (r *mongoMemberRepository) FindAgents(ctx context.Context, limit int, offset int64) ([]*model.Agent, error) {
	ctx, cancel := mongotx.WithTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	agents := []*model.Agent{}
	if err := r.page(ctx, r.agents, limit, offset, &agents); err != nil {
		return nil, fmt.Errorf("failed to query agents: %w", err)
	}
	refs := make([]memberRef, len(agents))
	for i, a := range agents {
		refs[i] = memberRef{a.MemberID, &a.Member}
	}
	if err := r.attachMembers(ctx, refs); err != nil {
		return nil, err
	}
	return agents, nil
}

func (r *mongoMemberRepository) FindClients(ctx context.Context, limit int, offset int64) ([]*model.Client, error) {
	ctx, cancel := mongotx.WithTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	clients := []*model.Client{}
	if err := r.page(ctx, r.clients, limit, offset, &clients); err != nil {
		return nil, fmt.Errorf("failed to query clients: %w", err)
	}
	refs := make([]memberRef, len(clients))
	for i, c := range clients {
		refs[i] = memberRef{c.MemberID, &c.Member}
	}
	if err := r.attachMembers(ctx, refs); err != nil {
		return nil, err
	}
	return clients, nil
}

func (r *mongoMemberRepository) page(ctx context.Context, collection *mongo.Collection, limit int, offset int64, out any) error {
	opts := options.Find().
		SetSort(creationOrder).
		SetLimit(int64(limit)).
		SetSkip(offset)
	cursor, err := collection.Find(ctx, bson.M{}, opts)
	if err != nil {
		return err
	}
	defer cursor.Close(ctx)
	return cursor.All(ctx, out)
}

func (r *mongoMemberRepository) CountAgents(ctx context.Context) (int64, error) {
	return r.count(ctx, r.agents)
}

func (r *mongoMemberRepository) CountClients(ctx context.Context) (int64, error) {
	return r.count(ctx, r.clients)
}

func (r *mongoMemberRepository) count(ctx context.Context, collection *mongo.Collection) (int64, error) {
	ctx, cancel := mongotx.WithTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	count, err := collection.CountDocuments(ctx, bson.M{})
	if err != nil {
		return 0, fmt.Errorf("failed to count %s: %w", collection.Name(), err)
	}
	return count, nil
}

func (r *mongoMemberRepository) UpdateStatus(ctx context.Context, memberID string, status model.MemberStatus) error {
	return r.updateOne(ctx, r.members, memberID, bson.M{"status": status, "updated_at": now()})
}

func (r *mongoMemberRepository) UpdateVerification(ctx context.Context, agentID, status string) error {
	return r.updateOne(ctx, r.agents, agentID, bson.M{"verification_status": status})
}

func (r *mongoMemberRepository) updateOne(ctx context.Context, collection *mongo.Collection, id string, set bson.M) error {
	ctx, cancel := mongotx.WithTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return fmt.Errorf("%w: %s", membererrors.ErrInvalidID, id)
	}

	result, err := collection.UpdateOne(ctx, bson.M{"_id": objectID}, bson.M{"$set": set})
	if err != nil {
		return fmt.Errorf("failed to update %s: %w", collection.Name(), err)
	}
	if result.MatchedCount == 0 {
		return fmt.Errorf("%w: %s", membererrors.ErrNotFound, id)
	}
	return nil
}

func (r *mongoMemberRepository) Delete(ctx context.Context, memberID string) error {
	objectID, err := primitive.ObjectIDFromHex(memberID)
	if err != nil {
		return fmt.Errorf("%w: %s", membererrors.ErrInvalidID, memberID)
	}

	err = r.txManager.ExecuteTransaction(ctx, func(sessCtx mongo.SessionContext) error {
		if err := r.detachProperties(sessCtx, r.agents, "agent_id", memberID); err != nil {
			return err
		}
		if err := r.detachProperties(sessCtx, r.clients, "owner_id", memberID); err != nil {
			return err
		}
		if _, err := r.agents.DeleteMany(sessCtx, bson.M{"member_id": memberID}); err != nil {
			return err
		}
		if _, err := r.clients.DeleteMany(sessCtx, bson.M{"member_id": memberID}); err != nil {
			return err
		}
		result, err := r.members.DeleteOne(sessCtx, bson.M{"_id": objectID})
		if err != nil {
			return err
		}
		if result.DeletedCount == 0 {
			return fmt.Errorf("%w: %s", membererrors.ErrNotFound, memberID)
		}
		return nil
	})
	if err != nil {
		if errors.Is(err, membererrors.ErrNotFound) {
			return err
		}
		return fmt.Errorf("failed to delete member: %w", err)
	}
	return nil
}

// detachProperties unsets field on every property that references one of the
// member's profiles in profiles.
func (r *mongoMemberRepository) detachProperties(ctx context.Context, profiles *mongo.Collection, field, memberID string) error {
	cursor, err := profiles.Find(ctx, bson.M{"member_id": memberID}, options.Find().SetProjection(bson.M{"_id": 1}))
	if err != nil {
		return fmt.Errorf("failed to query %s: %w", profiles.Name(), err)
	}
	var docs []struct {
		ID primitive.ObjectID `bson:"_id"`
	}
	if err := cursor.All(ctx, &docs); err != nil {
		return fmt.Errorf("failed to decode %s: %w", profiles.Name(), err)
	}
	if len(docs) == 0 {
		return nil
	}

	ids := make([]string, len(docs))
	for i, d := range docs {
		ids[i] = d.ID.Hex()
	}
	_, err = r.properties.UpdateMany(ctx,
		bson.M{field: bson.M{"$in": ids}},
		bson.M{"$unset": bson.M{field: ""}, "$set": bson.M{"updated_at": now()}},
	)
	if err != nil {
		return fmt.Errorf("failed to detach %s from properties: %w", field, err)
	}
	return nil
}
