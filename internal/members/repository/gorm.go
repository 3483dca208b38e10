package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	membererrors "homeview/internal/members/errors"
	sqldb "homeview/pkg/db/sql"
	"homeview/pkg/model"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"gorm.io/gorm"
)

const sqlCreationOrder = "created_at ASC, id ASC"

type gormMemberRepository struct {
	db *gorm.DB
}

func NewGormMemberRepository(db *gorm.DB) MemberRepository {
	return &gormMemberRepository{db: db}
}

func now() time.Time {
	return time.Now().UTC().Truncate(time.Millisecond)
}

func (r *gormMemberRepository) CreateAgent(ctx context.Context, a *model.Agent) error {
	a.ID = primitive.NewObjectID().Hex()
	a.CreatedAt = now()
	return r.createProfile(ctx, a.Member, func(tx *gorm.DB, memberID string) error {
		a.MemberID = memberID
		return tx.Omit("Member").Create(a).Error
	}, func() { a.ID, a.MemberID = "", "" })
}

func (r *gormMemberRepository) CreateClient(ctx context.Context, c *model.Client) error {
	c.ID = primitive.NewObjectID().Hex()
	c.CreatedAt = now()
	return r.createProfile(ctx, c.Member, func(tx *gorm.DB, memberID string) error {
		c.MemberID = memberID
		return tx.Omit("Member").Create(c).Error
	}, func() { c.ID, c.MemberID = "", "" })
}

// createProfile inserts the member and its profile in one transaction.
func (r *gormMemberRepository) createProfile(
	ctx context.Context,
	m *model.Member,
	createProfile func(tx *gorm.DB, memberID string) error,
	reset func(),
) error {
	if m == nil {
		return fmt.Errorf("profile has no member")
	}
	m.ID = primitive.NewObjectID().Hex()
	m.CreatedAt = now()

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(m).Error; err != nil {
			return err
		}
		return createProfile(tx, m.ID)
	})
	if err != nil {
		m.ID = ""
		reset()
		if sqldb.IsDuplicateKey(err) {
			return fmt.Errorf("%w: %s", membererrors.ErrDuplicate, m.Email)
		}
		return fmt.Errorf("failed to create member: %w", err)
	}
	return nil
}

func (r *gormMemberRepository) FindMember(ctx context.Context, id string) (*model.Member, error) {
	if !primitive.IsValidObjectID(id) {
		return nil, fmt.Errorf("%w: %s", membererrors.ErrInvalidID, id)
	}

	var m model.Member
	if err := r.db.WithContext(ctx).First(&m, "id = ?", id).Error; err != nil {
		return nil, notFound(err, id)
	}
	return &m, nil
}

func (r *gormMemberRepository) FindAgent(ctx context.Context, id string) (*model.Agent, error) {
	if !primitive.IsValidObjectID(id) {
		return nil, fmt.Errorf("%w: %s", membererrors.ErrInvalidID, id)
	}

	var a model.Agent
	if err := r.db.WithContext(ctx).Preload("Member").First(&a, "id = ?", id).Error; err != nil {
		return nil, notFound(err, id)
	}
	return &a, nil
}

func (r *gormMemberRepository) FindClient(ctx context.Context, id string) (*model.Client, error) {
	if !primitive.IsValidObjectID(id) {
		return nil, fmt.Errorf("%w: %s", membererrors.ErrInvalidID, id)
	}

	var c model.Client
	if err := r.db.WithContext(ctx).Preload("Member").First(&c, "id = ?", id).Error; err != nil {
		return nil, notFound(err, id)
	}
	return &c, nil
}

func notFound(err error, id string) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("%w: %s", membererrors.ErrNotFound, id)
	}
	return fmt.Errorf("failed to find member: %w", err)
}

func (r *gormMemberRepository) FindAgents(ctx context.Context, limit int, offset int64) ([]*model.Agent, error) {
	agents := []*model.Agent{}
	err := r.db.WithContext(ctx).
		Preload("Member").
		Order(sqlCreationOrder).
		Limit(limit).
		Offset(int(offset)).
		Find(&agents).Error
	if err != nil {
		return nil, fmt.Errorf("failed to query agents: %w", err)
	}
	return agents, nil
}

func (r *gormMemberRepository) FindClients(ctx context.Context, limit int, offset int64) ([]*model.Client, error) {
	clients := []*model.Client{}
	err := r.db.WithContext(ctx).
		Preload("Member").
		Order(sqlCreationOrder).
		Limit(limit).
		Offset(int(offset)).
		Find(&clients).Error
	if err != nil {
		return nil, fmt.Errorf("failed to query clients: %w", err)
	}
	return clients, nil
}

func (r *gormMemberRepository) CountAgents(ctx context.Context) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&model.Agent{}).Count(&count).Error; err != nil {
		return 0, fmt.Errorf("failed to count agents: %w", err)
	}
	return count, nil
}

func (r *gormMemberRepository) CountClients(ctx context.Context) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&model.Client{}).Count(&count).Error; err != nil {
		return 0, fmt.Errorf("failed to count clients: %w", err)
	}
	return count, nil
}

func (r *gormMemberRepository) UpdateStatus(ctx context.Context, memberID string, status model.MemberStatus) error {
	if !primitive.IsValidObjectID(memberID) {
		return fmt.Errorf("%w: %s", membererrors.ErrInvalidID, memberID)
	}

	result := r.db.WithContext(ctx).
		Model(&model.Member{}).
		Where("id = ?", memberID).
		Updates(map[string]any{"status": status, "updated_at": now()})
	if result.Error != nil {
		return fmt.Errorf("failed to update member status: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("%w: %s", membererrors.ErrNotFound, memberID)
	}
	return nil
}

func (r *gormMemberRepository) UpdateVerification(ctx context.Context, agentID, status string) error {
	if !primitive.IsValidObjectID(agentID) {
		return fmt.Errorf("%w: %s", membererrors.ErrInvalidID, agentID)
	}

	db := r.db.WithContext(ctx)
	result := db.Model(&model.Agent{}).
		Where("id = ?", agentID).
		Update("verification_status", status)
	if result.Error != nil {
		return fmt.Errorf("failed to update agent verification: %w", result.Error)
	}
	if result.RowsAffected > 0 {
		return nil
	}

	// MySQL reports zero affected rows when the value is unchanged.
	var count int64
	if err := db.Model(&model.Agent{}).Where("id = ?", agentID).Count(&count).Error; err != nil {
		return fmt.Errorf("failed to check agent existence: %w", err)
	}
	if count == 0 {
		return fmt.Errorf("%w: %s", membererrors.ErrNotFound, agentID)
	}
	return nil
}

func (r *gormMemberRepository) Delete(ctx context.Context, memberID string) error {
	if !primitive.IsValidObjectID(memberID) {
		return fmt.Errorf("%w: %s", membererrors.ErrInvalidID, memberID)
	}

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := detachProperties(tx, memberID); err != nil {
			return err
		}
		if err := tx.Where("member_id = ?", memberID).Delete(&model.Agent{}).Error; err != nil {
			return err
		}
		if err := tx.Where("member_id = ?", memberID).Delete(&model.Client{}).Error; err != nil {
			return err
		}
		result := tx.Where("id = ?", memberID).Delete(&model.Member{})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
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

// detachProperties clears the owner and agent references that point at the
// member's profiles. The properties themselves stay listed.
func detachProperties(tx *gorm.DB, memberID string) error {
	agents := tx.Model(&model.Agent{}).Select("id").Where("member_id = ?", memberID)
	clients := tx.Model(&model.Client{}).Select("id").Where("member_id = ?", memberID)

	if err := tx.Model(&model.Property{}).
		Where("agent_id IN (?)", agents).
		Updates(map[string]any{"agent_id": nil, "updated_at": now()}).Error; err != nil {
		return fmt.Errorf("failed to detach agent from properties: %w", err)
	}
	if err := tx.Model(&model.Property{}).
		Where("owner_id IN (?)", clients).
		Updates(map[string]any{"owner_id": nil, "updated_at": now()}).Error; err != nil {
		return fmt.Errorf("failed to detach owner from properties: %w", err)
	}
	return nil
}
