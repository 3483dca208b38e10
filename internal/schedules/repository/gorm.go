package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	scheduleserrors "homeview/internal/schedules/errors"
	sqldb "homeview/pkg/db/sql"
	"homeview/pkg/model"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"gorm.io/gorm"
)

type gormScheduleRepository struct {
	db *gorm.DB
}

func NewGormScheduleRepository(db *gorm.DB) ScheduleRepository {
	return &gormScheduleRepository{db: db}
}

func (r *gormScheduleRepository) Create(ctx context.Context, sc *model.Schedule) error {
	sc.ID = primitive.NewObjectID().Hex()
	sc.ScheduleTime = model.NormalizeScheduleTime(sc.ScheduleTime)
	sc.CreatedAt = time.Now().UTC().Truncate(time.Millisecond)

	if err := r.db.WithContext(ctx).Create(sc).Error; err != nil {
		sc.ID = ""
		if sqldb.IsDuplicateKey(err) {
			return fmt.Errorf("%w: agent %s at %s", scheduleserrors.ErrSlotTaken, sc.AgentID, sc.ScheduleTime.Format(time.RFC3339))
		}
		return fmt.Errorf("failed to create schedule: %w", err)
	}
	return nil
}

func (r *gormScheduleRepository) FindByID(ctx context.Context, id string) (*model.Schedule, error) {
	if !primitive.IsValidObjectID(id) {
		return nil, fmt.Errorf("%w: %s", scheduleserrors.ErrInvalidID, id)
	}
	return r.first(ctx, "id = ?", id)
}

func (r *gormScheduleRepository) FindByScheduleNo(ctx context.Context, scheduleNo string) (*model.Schedule, error) {
	return r.first(ctx, "schedule_no = ?", scheduleNo)
}

func (r *gormScheduleRepository) first(ctx context.Context, query string, key string) (*model.Schedule, error) {
	var sc model.Schedule
	if err := r.db.WithContext(ctx).Where(query, key).First(&sc).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: %s", scheduleserrors.ErrNotFound, key)
		}
		return nil, fmt.Errorf("failed to find schedule: %w", err)
	}
	return &sc, nil
}

func (r *gormScheduleRepository) find(ctx context.Context, order string, query string, args ...any) ([]*model.Schedule, error) {
	schedules := []*model.Schedule{}
	err := r.db.WithContext(ctx).
		Where(query, args...).
		Order(order).
		Find(&schedules).Error
	if err != nil {
		return nil, fmt.Errorf("failed to query schedules: %w", err)
	}
	return schedules, nil
}

const sqlCreationOrder = "created_at ASC, id ASC"

func (r *gormScheduleRepository) FindByAgent(ctx context.Context, agentID string) ([]*model.Schedule, error) {
	return r.find(ctx, sqlCreationOrder, "agent_id = ?", agentID)
}

func (r *gormScheduleRepository) FindByClient(ctx context.Context, clientID string) ([]*model.Schedule, error) {
	return r.find(ctx, sqlCreationOrder, "client_id = ?", clientID)
}

func (r *gormScheduleRepository) FindByProperty(ctx context.Context, propertyID string) ([]*model.Schedule, error) {
	return r.find(ctx, sqlCreationOrder, "property_id = ?", propertyID)
}

func (r *gormScheduleRepository) FindByDateRange(ctx context.Context, start, end time.Time) ([]*model.Schedule, error) {
	return r.find(ctx, "schedule_time ASC, id ASC", "schedule_time >= ? AND schedule_time <= ?",
		model.NormalizeScheduleTime(start), model.NormalizeScheduleTime(end))
}

func (r *gormScheduleRepository) FindByStatus(ctx context.Context, status model.ScheduleStatus) ([]*model.Schedule, error) {
	return r.find(ctx, sqlCreationOrder, "status = ?", string(status))
}

func (r *gormScheduleRepository) IsTimeSlotAvailable(ctx context.Context, agentID string, scheduleTime time.Time, excludeID string) (bool, error) {
	query := r.db.WithContext(ctx).
		Model(&model.Schedule{}).
		Where("agent_id = ? AND schedule_time = ?", agentID, model.NormalizeScheduleTime(scheduleTime))
	if excludeID != "" {
		query = query.Where("id <> ?", excludeID)
	}

	var count int64
	if err := query.Limit(1).Count(&count).Error; err != nil {
		return false, fmt.Errorf("failed to check time slot: %w", err)
	}
	return count == 0, nil
}

// Update writes the mutable fields only: schedule_time, status and notes.
func (r *gormScheduleRepository) Update(ctx context.Context, id string, sc *model.Schedule) error {
	if !primitive.IsValidObjectID(id) {
		return fmt.Errorf("%w: %s", scheduleserrors.ErrInvalidID, id)
	}

	now := time.Now().UTC().Truncate(time.Millisecond)
	sc.ScheduleTime = model.NormalizeScheduleTime(sc.ScheduleTime)
	result := r.db.WithContext(ctx).
		Model(&model.Schedule{}).
		Where("id = ?", id).
		Updates(map[string]any{
			"schedule_time": sc.ScheduleTime,
			"status":        string(sc.Status),
			"notes":         sc.Notes,
			"updated_at":    now,
		})
	if result.Error != nil {
		if sqldb.IsDuplicateKey(result.Error) {
			return fmt.Errorf("%w: agent %s at %s", scheduleserrors.ErrSlotTaken, sc.AgentID, sc.ScheduleTime.Format(time.RFC3339))
		}
		return fmt.Errorf("failed to update schedule: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("%w: %s", scheduleserrors.ErrNotFound, id)
	}

	sc.UpdatedAt = &now
	return nil
}

func (r *gormScheduleRepository) Delete(ctx context.Context, id string) error {
	if !primitive.IsValidObjectID(id) {
		return fmt.Errorf("%w: %s", scheduleserrors.ErrInvalidID, id)
	}

	result := r.db.WithContext(ctx).Where("id = ?", id).Delete(&model.Schedule{})
	if result.Error != nil {
		return fmt.Errorf("failed to delete schedule: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("%w: %s", scheduleserrors.ErrNotFound, id)
	}
	return nil
}
