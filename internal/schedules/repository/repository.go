package repository

import (
	"context"
	"time"

	"homeview/pkg/config"
	"homeview/pkg/model"
)

// ScheduleRepository stores viewing schedules. Lookups of a missing record
// return errors wrapping ErrNotFound; inserts or updates that collide with
// an existing (agent, time) pair return errors wrapping ErrSlotTaken.
type ScheduleRepository interface {
	Create(ctx context.Context, sc *model.Schedule) error
	FindByID(ctx context.Context, id string) (*model.Schedule, error)
	FindByScheduleNo(ctx context.Context, scheduleNo string) (*model.Schedule, error)
	FindByAgent(ctx context.Context, agentID string) ([]*model.Schedule, error)
	FindByClient(ctx context.Context, clientID string) ([]*model.Schedule, error)
	FindByProperty(ctx context.Context, propertyID string) ([]*model.Schedule, error)
	FindByDateRange(ctx context.Context, start, end time.Time) ([]*model.Schedule, error)
	FindByStatus(ctx context.Context, status model.ScheduleStatus) ([]*model.Schedule, error)
	IsTimeSlotAvailable(ctx context.Context, agentID string, scheduleTime time.Time, excludeID string) (bool, error)
	Update(ctx context.Context, id string, sc *model.Schedule) error
	Delete(ctx context.Context, id string) error
}

// New returns the repository for the configured store driver.
func New(cfg *config.Config) ScheduleRepository {
	if cfg.IsMongo() {
		return NewMongoScheduleRepository(cfg)
	}
	return NewGormScheduleRepository(cfg.Client.SQL)
}
