package service

import (
	"context"
	"sync"
	"testing"
	"time"

	"homeview/internal/references"
	"homeview/internal/schedules/repository"
	"homeview/internal/schedules/validator"
	"homeview/pkg/config"
	apperrors "homeview/pkg/errors"
	"homeview/pkg/events"
	"homeview/pkg/logger"
	"homeview/pkg/model"
	"homeview/test/common"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type bookingFixture struct {
	svc        ScheduleService
	repo       repository.ScheduleRepository
	recorder   *events.Recorder
	properties []string
	agent      string
	clients    []string
}

func seedMember(role model.MemberRole, username string) *model.Member {
	return &model.Member{
		ID:        primitive.NewObjectID().Hex(),
		MemberNo:  uuid.New().String(),
		Email:     username + "@example.com",
		Username:  username,
		FirstName: username,
		Role:      role,
		Status:    model.MemberActive,
		CreatedAt: time.Now().UTC(),
	}
}

func newBookingFixture(t *testing.T) *bookingFixture {
	t.Helper()
	db := common.NewSQLiteDB(t)
	ctx := context.Background()

	f := &bookingFixture{}
	for i := 0; i < 2; i++ {
		p := &model.Property{
			ID:         primitive.NewObjectID().Hex(),
			PropertyNo: uuid.New().String(),
			Title:      "Garden flat",
			Type:       "apartment",
			Address:    "12 Herzl St",
			City:       "Haifa",
			Status:     model.PropertyAvailable,
			CreatedAt:  time.Now().UTC(),
		}
		if err := db.WithContext(ctx).Create(p).Error; err != nil {
			t.Fatalf("seed property: %v", err)
		}
		f.properties = append(f.properties, p.ID)

		c := &model.Client{
			ID:        primitive.NewObjectID().Hex(),
			Member:    seedMember(model.RoleClient, "client"+string(rune('a'+i))),
			CreatedAt: time.Now().UTC(),
		}
		c.MemberID = c.Member.ID
		if err := db.WithContext(ctx).Create(c).Error; err != nil {
			t.Fatalf("seed client: %v", err)
		}
		f.clients = append(f.clients, c.ID)
	}

	a := &model.Agent{
		ID:                 primitive.NewObjectID().Hex(),
		Member:             seedMember(model.RoleAgent, "agent"),
		LicenseNumber:      "LIC-001",
		VerificationStatus: model.VerificationVerified,
		CreatedAt:          time.Now().UTC(),
	}
	a.MemberID = a.Member.ID
	if err := db.WithContext(ctx).Create(a).Error; err != nil {
		t.Fatalf("seed agent: %v", err)
	}
	f.agent = a.ID

	log := logger.Discard()
	cfg := &config.Config{Log: log, ReadTimeout: 5 * time.Second, WriteTimeout: 5 * time.Second}
	f.repo = repository.NewGormScheduleRepository(db)
	f.recorder = events.NewRecorder()
	f.svc = NewScheduleService(f.repo, references.NewGormRepository(db), validator.NewScheduleValidator(log), f.recorder, cfg)
	return f
}

func TestBooking_EndToEnd(t *testing.T) {
	f := newBookingFixture(t)
	ctx := context.Background()
	at := time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)

	first := &model.Schedule{PropertyID: f.properties[0], AgentID: f.agent, ClientID: f.clients[0], ScheduleTime: at}
	if err := f.svc.Create(ctx, first); err != nil {
		t.Fatalf("first Create() error = %v", err)
	}
	if first.Status != model.StatusScheduled {
		t.Errorf("Status = %q, want Scheduled", first.Status)
	}

	available, err := f.svc.IsTimeSlotAvailable(ctx, f.agent, at)
	if err != nil || available {
		t.Fatalf("IsTimeSlotAvailable() after create = %v, %v; want false", available, err)
	}

	second := &model.Schedule{PropertyID: f.properties[1], AgentID: f.agent, ClientID: f.clients[1], ScheduleTime: at}
	err = f.svc.Create(ctx, second)
	if !apperrors.IsConflict(err) {
		t.Fatalf("second Create() error = %v, want Conflict", err)
	}

	completed := "Completed"
	updated, err := f.svc.Update(ctx, first.ID, &model.ScheduleUpdate{Status: &completed})
	if err != nil {
		t.Fatalf("Update() error = %v", err)
	}
	if updated.Status != model.StatusCompleted {
		t.Errorf("Status = %q, want Completed", updated.Status)
	}

	same := at
	if _, err := f.svc.Update(ctx, first.ID, &model.ScheduleUpdate{ScheduleTime: &same}); err != nil {
		t.Errorf("Update() to its own time error = %v", err)
	}

	detail, err := f.svc.GetDetail(ctx, first.ID)
	if err != nil {
		t.Fatalf("GetDetail() error = %v", err)
	}
	if detail.Property == nil || detail.Agent == nil || detail.Agent.Name == nil || *detail.Agent.Name != "agent" {
		t.Errorf("detail = %+v", detail)
	}

	want := []string{events.ScheduleCreated, events.ScheduleUpdated, events.ScheduleUpdated}
	got := f.recorder.Types()
	if len(got) != len(want) {
		t.Fatalf("events = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("event %d = %s, want %s", i, got[i], want[i])
		}
	}
}

func TestBooking_UnknownReferencesAreNotFound(t *testing.T) {
	f := newBookingFixture(t)

	sc := &model.Schedule{
		PropertyID:   primitive.NewObjectID().Hex(),
		AgentID:      f.agent,
		ClientID:     f.clients[0],
		ScheduleTime: time.Date(2025, 6, 2, 9, 0, 0, 0, time.UTC),
	}
	if err := f.svc.Create(context.Background(), sc); !apperrors.IsNotFound(err) {
		t.Errorf("Create() error = %v, want NotFound", err)
	}
}

// Concurrent bookings for one slot must produce exactly one winner.
func TestBooking_ConcurrentClaimsHaveOneWinner(t *testing.T) {
	f := newBookingFixture(t)
	at := time.Date(2025, 6, 3, 15, 30, 0, 0, time.UTC)

	const claimants = 8
	var wg sync.WaitGroup
	errs := make([]error, claimants)
	for i := 0; i < claimants; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			errs[i] = f.svc.Create(context.Background(), &model.Schedule{
				PropertyID:   f.properties[i%2],
				AgentID:      f.agent,
				ClientID:     f.clients[i%2],
				ScheduleTime: at,
			})
		}(i)
	}
	wg.Wait()

	wins := 0
	for _, err := range errs {
		switch {
		case err == nil:
			wins++
		case apperrors.IsConflict(err):
		default:
			t.Errorf("unexpected error %v", err)
		}
	}
	if wins != 1 {
		t.Errorf("%d bookings succeeded, want exactly 1", wins)
	}

	booked, err := f.svc.GetByAgent(context.Background(), f.agent)
	if err != nil {
		t.Fatal(err)
	}
	if len(booked) != 1 {
		t.Errorf("agent has %d schedules, want 1", len(booked))
	}
}
