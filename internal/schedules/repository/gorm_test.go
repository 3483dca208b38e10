package repository

import (
	"context"
	"errors"
	"testing"
	"time"

	scheduleserrors "homeview/internal/schedules/errors"
	"homeview/pkg/model"
	"homeview/test/common"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

var (
	propertyID = primitive.NewObjectID().Hex()
	agentID    = primitive.NewObjectID().Hex()
	clientID   = primitive.NewObjectID().Hex()
	baseTime   = time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)
)

func newSchedule(agent string, at time.Time) *model.Schedule {
	return &model.Schedule{
		ScheduleNo:   uuid.NewString(),
		PropertyID:   propertyID,
		AgentID:      agent,
		ClientID:     clientID,
		ScheduleTime: at,
		Status:       model.StatusScheduled,
	}
}

func newRepo(t *testing.T) ScheduleRepository {
	t.Helper()
	return NewGormScheduleRepository(common.NewSQLiteDB(t))
}

func mustCreate(t *testing.T, repo ScheduleRepository, sc *model.Schedule) *model.Schedule {
	t.Helper()
	if err := repo.Create(context.Background(), sc); err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	return sc
}

func TestGormRepository_CreateAndFind(t *testing.T) {
	repo := newRepo(t)
	ctx := context.Background()

	sc := mustCreate(t, repo, newSchedule(agentID, baseTime.Add(123456789*time.Nanosecond)))
	if !primitive.IsValidObjectID(sc.ID) {
		t.Fatalf("expected object id, got %q", sc.ID)
	}
	if sc.CreatedAt.IsZero() {
		t.Error("CreatedAt should be set")
	}
	if sc.UpdatedAt != nil {
		t.Error("UpdatedAt should stay nil on create")
	}

	got, err := repo.FindByID(ctx, sc.ID)
	if err != nil {
		t.Fatalf("FindByID() error = %v", err)
	}
	if !got.ScheduleTime.Equal(baseTime.Add(123 * time.Millisecond)) {
		t.Errorf("ScheduleTime = %s, want millisecond precision", got.ScheduleTime)
	}

	byNo, err := repo.FindByScheduleNo(ctx, sc.ScheduleNo)
	if err != nil || byNo.ID != sc.ID {
		t.Errorf("FindByScheduleNo() = %v, %v", byNo, err)
	}
}

func TestGormRepository_NotFoundIsSentinel(t *testing.T) {
	repo := newRepo(t)
	ctx := context.Background()

	if _, err := repo.FindByID(ctx, primitive.NewObjectID().Hex()); !errors.Is(err, scheduleserrors.ErrNotFound) {
		t.Errorf("FindByID() error = %v, want ErrNotFound", err)
	}
	if _, err := repo.FindByScheduleNo(ctx, uuid.NewString()); !errors.Is(err, scheduleserrors.ErrNotFound) {
		t.Errorf("FindByScheduleNo() error = %v, want ErrNotFound", err)
	}
	if _, err := repo.FindByID(ctx, "not-an-id"); !errors.Is(err, scheduleserrors.ErrInvalidID) {
		t.Errorf("FindByID() error = %v, want ErrInvalidID", err)
	}
	if err := repo.Delete(ctx, primitive.NewObjectID().Hex()); !errors.Is(err, scheduleserrors.ErrNotFound) {
		t.Errorf("Delete() error = %v, want ErrNotFound", err)
	}
	sc := newSchedule(agentID, baseTime)
	if err := repo.Update(ctx, primitive.NewObjectID().Hex(), sc); !errors.Is(err, scheduleserrors.ErrNotFound) {
		t.Errorf("Update() error = %v, want ErrNotFound", err)
	}
}

func TestGormRepository_UniqueAgentTime(t *testing.T) {
	repo := newRepo(t)
	ctx := context.Background()

	mustCreate(t, repo, newSchedule(agentID, baseTime))

	err := repo.Create(ctx, newSchedule(agentID, baseTime))
	if !errors.Is(err, scheduleserrors.ErrSlotTaken) {
		t.Fatalf("second Create() error = %v, want ErrSlotTaken", err)
	}

	other := primitive.NewObjectID().Hex()
	mustCreate(t, repo, newSchedule(other, baseTime))
}

func TestGormRepository_IsTimeSlotAvailable(t *testing.T) {
	repo := newRepo(t)
	ctx := context.Background()

	sc := mustCreate(t, repo, newSchedule(agentID, baseTime))

	tests := []struct {
		name      string
		agent     string
		at        time.Time
		excludeID string
		want      bool
	}{
		{"same agent same time", agentID, baseTime, "", false},
		{"same instant in another zone", agentID, baseTime.In(time.FixedZone("IDT", 3*3600)), "", false},
		{"one second later", agentID, baseTime.Add(time.Second), "", true},
		{"other agent", primitive.NewObjectID().Hex(), baseTime, "", true},
		{"excluding itself", agentID, baseTime, sc.ID, true},
		{"excluding another id", agentID, baseTime, primitive.NewObjectID().Hex(), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := repo.IsTimeSlotAvailable(ctx, tt.agent, tt.at, tt.excludeID)
			if err != nil {
				t.Fatalf("IsTimeSlotAvailable() error = %v", err)
			}
			if got != tt.want {
				t.Errorf("IsTimeSlotAvailable() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestGormRepository_CancelledStillOccupiesSlot(t *testing.T) {
	repo := newRepo(t)
	ctx := context.Background()

	sc := mustCreate(t, repo, newSchedule(agentID, baseTime))
	sc.Status = model.StatusCancelled
	if err := repo.Update(ctx, sc.ID, sc); err != nil {
		t.Fatalf("Update() error = %v", err)
	}

	available, err := repo.IsTimeSlotAvailable(ctx, agentID, baseTime, "")
	if err != nil {
		t.Fatal(err)
	}
	if available {
		t.Error("cancelled schedule should still occupy its slot")
	}
}

func TestGormRepository_ListsInCreationOrder(t *testing.T) {
	repo := newRepo(t)
	ctx := context.Background()

	var ids []string
	for i := 0; i < 3; i++ {
		// Later slots created first so creation order differs from time order.
		sc := mustCreate(t, repo, newSchedule(agentID, baseTime.Add(time.Duration(3-i)*time.Hour)))
		ids = append(ids, sc.ID)
		time.Sleep(2 * time.Millisecond)
	}

	lists := map[string]func() ([]*model.Schedule, error){
		"agent":    func() ([]*model.Schedule, error) { return repo.FindByAgent(ctx, agentID) },
		"client":   func() ([]*model.Schedule, error) { return repo.FindByClient(ctx, clientID) },
		"property": func() ([]*model.Schedule, error) { return repo.FindByProperty(ctx, propertyID) },
		"status":   func() ([]*model.Schedule, error) { return repo.FindByStatus(ctx, model.StatusScheduled) },
	}

	for name, list := range lists {
		t.Run(name, func(t *testing.T) {
			got, err := list()
			if err != nil {
				t.Fatal(err)
			}
			if len(got) != len(ids) {
				t.Fatalf("got %d schedules, want %d", len(got), len(ids))
			}
			for i := range ids {
				if got[i].ID != ids[i] {
					t.Errorf("position %d = %s, want %s", i, got[i].ID, ids[i])
				}
			}
		})
	}

	empty, err := repo.FindByAgent(ctx, primitive.NewObjectID().Hex())
	if err != nil || empty == nil || len(empty) != 0 {
		t.Errorf("unknown agent should give empty non-nil list, got %v, %v", empty, err)
	}
}

func TestGormRepository_FindByDateRangeInclusive(t *testing.T) {
	repo := newRepo(t)
	ctx := context.Background()

	for h := 0; h < 4; h++ {
		mustCreate(t, repo, newSchedule(agentID, baseTime.Add(time.Duration(h)*time.Hour)))
	}

	got, err := repo.FindByDateRange(ctx, baseTime.Add(time.Hour), baseTime.Add(2*time.Hour))
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 2 {
		t.Fatalf("got %d schedules, want 2 (both bounds inclusive)", len(got))
	}
	if !got[0].ScheduleTime.Before(got[1].ScheduleTime) {
		t.Error("range results should be ordered by schedule time")
	}
}

func TestGormRepository_UpdateMutableFieldsOnly(t *testing.T) {
	repo := newRepo(t)
	ctx := context.Background()

	sc := mustCreate(t, repo, newSchedule(agentID, baseTime))

	patch := *sc
	patch.ScheduleTime = baseTime.Add(time.Hour)
	patch.Status = model.StatusRescheduled
	patch.Notes = "moved"
	patch.ClientID = primitive.NewObjectID().Hex()
	if err := repo.Update(ctx, sc.ID, &patch); err != nil {
		t.Fatalf("Update() error = %v", err)
	}

	got, err := repo.FindByID(ctx, sc.ID)
	if err != nil {
		t.Fatal(err)
	}
	if !got.ScheduleTime.Equal(baseTime.Add(time.Hour)) || got.Status != model.StatusRescheduled || got.Notes != "moved" {
		t.Errorf("mutable fields not applied: %+v", got)
	}
	if got.ClientID != clientID {
		t.Errorf("ClientID changed to %s, must be immutable", got.ClientID)
	}
	if got.UpdatedAt == nil {
		t.Error("UpdatedAt should be set by update")
	}
}

func TestGormRepository_UpdateIntoTakenSlot(t *testing.T) {
	repo := newRepo(t)
	ctx := context.Background()

	mustCreate(t, repo, newSchedule(agentID, baseTime))
	second := mustCreate(t, repo, newSchedule(agentID, baseTime.Add(time.Hour)))

	second.ScheduleTime = baseTime
	if err := repo.Update(ctx, second.ID, second); !errors.Is(err, scheduleserrors.ErrSlotTaken) {
		t.Errorf("Update() error = %v, want ErrSlotTaken", err)
	}
}

func TestGormRepository_Delete(t *testing.T) {
	repo := newRepo(t)
	ctx := context.Background()

	sc := mustCreate(t, repo, newSchedule(agentID, baseTime))
	if err := repo.Delete(ctx, sc.ID); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
	if _, err := repo.FindByID(ctx, sc.ID); !errors.Is(err, scheduleserrors.ErrNotFound) {
		t.Errorf("FindByID() after delete error = %v", err)
	}
}

func TestGormRepository_ListsAreNotTruncated(t *testing.T) {
	db := common.NewSQLiteDB(t)
	repo := NewGormScheduleRepository(db)
	ctx := context.Background()

	const total = 1205
	rows := make([]*model.Schedule, total)
	for i := range rows {
		sc := newSchedule(agentID, baseTime.Add(time.Duration(i)*time.Minute))
		sc.ID = primitive.NewObjectID().Hex()
		sc.CreatedAt = baseTime
		rows[i] = sc
	}
	if err := db.CreateInBatches(rows, 200).Error; err != nil {
		t.Fatalf("seed schedules: %v", err)
	}

	byAgent, err := repo.FindByAgent(ctx, agentID)
	if err != nil || len(byAgent) != total {
		t.Errorf("FindByAgent() = %d rows, %v; want %d", len(byAgent), err, total)
	}
	inRange, err := repo.FindByDateRange(ctx, baseTime, baseTime.Add(total*time.Minute))
	if err != nil || len(inRange) != total {
		t.Errorf("FindByDateRange() = %d rows, %v; want %d", len(inRange), err, total)
	}
}
