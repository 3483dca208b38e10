package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"homeview/internal/references"
	scheduleerrors "homeview/internal/schedules/errors"
	"homeview/internal/schedules/repository"
	"homeview/internal/schedules/validator"
	"homeview/pkg/config"
	apperrors "homeview/pkg/errors"
	"homeview/pkg/events"
	"homeview/pkg/model"
	"homeview/pkg/sanitizer"

	"github.com/google/uuid"
)

const slotTakenMessage = "time slot not available for this agent"

type ScheduleService interface {
	Create(ctx context.Context, sc *model.Schedule) error
	GetByID(ctx context.Context, id string) (*model.Schedule, error)
	GetDetail(ctx context.Context, id string) (*model.ScheduleDetail, error)
	GetByScheduleNo(ctx context.Context, scheduleNo string) (*model.Schedule, error)
	GetByAgent(ctx context.Context, agentID string) ([]*model.Schedule, error)
	GetByClient(ctx context.Context, clientID string) ([]*model.Schedule, error)
	GetByProperty(ctx context.Context, propertyID string) ([]*model.Schedule, error)
	GetByDateRange(ctx context.Context, start, end time.Time) ([]*model.Schedule, error)
	GetByStatus(ctx context.Context, status string) ([]*model.Schedule, error)
	IsTimeSlotAvailable(ctx context.Context, agentID string, scheduleTime time.Time) (bool, error)
	Update(ctx context.Context, id string, updates *model.ScheduleUpdate) (*model.Schedule, error)
	Cancel(ctx context.Context, id string) (*model.Schedule, error)
	Complete(ctx context.Context, id string) (*model.Schedule, error)
	Delete(ctx context.Context, id string) error
}

type scheduleService struct {
	repo      repository.ScheduleRepository
	refs      references.Repository
	validator *validator.ScheduleValidator
	events    events.Publisher
	cfg       *config.Config
}

func NewScheduleService(
	repo repository.ScheduleRepository,
	refs references.Repository,
	validator *validator.ScheduleValidator,
	publisher events.Publisher,
	cfg *config.Config,
) ScheduleService {
	return &scheduleService{
		repo:      repo,
		refs:      refs,
		validator: validator,
		events:    publisher,
		cfg:       cfg,
	}
}

func (s *scheduleService) Create(ctx context.Context, sc *model.Schedule) error {
	if err := s.prepare(sc); err != nil {
		return err
	}

	if err := s.validator.Validate(sc); err != nil {
		s.cfg.Log.Warn("Schedule validation failed",
			"property_id", sc.PropertyID,
			"agent_id", sc.AgentID,
			"client_id", sc.ClientID,
			"error", err,
		)
		return apperrors.Validation("Schedule validation failed", map[string]any{
			"error": err.Error(),
		})
	}

	if err := s.checkReferences(ctx, sc); err != nil {
		return err
	}

	available, err := s.repo.IsTimeSlotAvailable(ctx, sc.AgentID, sc.ScheduleTime, "")
	if err != nil {
		s.cfg.Log.Error("Failed to check time slot",
			"agent_id", sc.AgentID,
			"schedule_time", sc.ScheduleTime,
			"error", err,
		)
		return apperrors.Internal("Failed to check time slot availability", err)
	}
	if !available {
		s.cfg.Log.Warn("Time slot already booked",
			"agent_id", sc.AgentID,
			"schedule_time", sc.ScheduleTime,
		)
		return apperrors.Conflict(slotTakenMessage)
	}

	if err := s.repo.Create(ctx, sc); err != nil {
		if errors.Is(err, scheduleerrors.ErrSlotTaken) {
			s.cfg.Log.Warn("Time slot taken by a concurrent booking",
				"agent_id", sc.AgentID,
				"schedule_time", sc.ScheduleTime,
			)
			return apperrors.Conflict(slotTakenMessage)
		}
		s.cfg.Log.Error("Failed to create schedule",
			"agent_id", sc.AgentID,
			"property_id", sc.PropertyID,
			"error", err,
		)
		return apperrors.Internal("Failed to create schedule", err)
	}

	s.cfg.Log.Info("Schedule created successfully",
		"id", sc.ID,
		"schedule_no", sc.ScheduleNo,
		"agent_id", sc.AgentID,
		"schedule_time", sc.ScheduleTime,
	)
	s.events.Publish(ctx, events.ScheduleCreated, sc.ID, sc)
	return nil
}

// prepare fills server-owned fields and canonicalises the status.
func (s *scheduleService) prepare(sc *model.Schedule) error {
	sc.ID = ""
	sc.ScheduleNo = uuid.New().String()
	sc.UpdatedAt = nil
	sc.PropertyID = strings.TrimSpace(sc.PropertyID)
	sc.AgentID = strings.TrimSpace(sc.AgentID)
	sc.ClientID = strings.TrimSpace(sc.ClientID)
	sc.Notes = sanitizer.TrimAndNormalize(sc.Notes)
	sc.ScheduleTime = model.NormalizeScheduleTime(sc.ScheduleTime)

	if sc.Status == "" {
		sc.Status = model.StatusScheduled
		return nil
	}
	status, err := model.ParseScheduleStatus(string(sc.Status))
	if err != nil {
		return apperrors.InvalidInput(err.Error())
	}
	sc.Status = status
	return nil
}

func (s *scheduleService) checkReferences(ctx context.Context, sc *model.Schedule) error {
	checks := []struct {
		resource string
		id       string
		find     func(context.Context, string) error
	}{
		{"Property", sc.PropertyID, func(ctx context.Context, id string) error {
			_, err := s.refs.FindProperty(ctx, id)
			return err
		}},
		{"Agent", sc.AgentID, func(ctx context.Context, id string) error {
			_, err := s.refs.FindAgent(ctx, id)
			return err
		}},
		{"Client", sc.ClientID, func(ctx context.Context, id string) error {
			_, err := s.refs.FindClient(ctx, id)
			return err
		}},
	}

	for _, c := range checks {
		err := c.find(ctx, c.id)
		if err == nil {
			continue
		}
		if errors.Is(err, references.ErrNotFound) {
			s.cfg.Log.Warn("Schedule references a missing record",
				"resource", c.resource,
				"id", c.id,
			)
			return apperrors.NotFoundWithID(c.resource, c.id)
		}
		s.cfg.Log.Error("Failed to look up referenced record",
			"resource", c.resource,
			"id", c.id,
			"error", err,
		)
		return apperrors.Internal(fmt.Sprintf("Failed to look up %s", strings.ToLower(c.resource)), err)
	}
	return nil
}

func (s *scheduleService) GetByID(ctx context.Context, id string) (*model.Schedule, error) {
	if id == "" {
		return nil, apperrors.InvalidInput("Schedule ID cannot be empty")
	}

	sc, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, s.translateLookupError(err, id, "Failed to get schedule by ID")
	}
	return sc, nil
}

// GetDetail adds whatever related summaries can be found; a missing property
// or member leaves that part empty.
func (s *scheduleService) GetDetail(ctx context.Context, id string) (*model.ScheduleDetail, error) {
	sc, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	detail := &model.ScheduleDetail{Schedule: *sc}

	if detail.Property, err = s.refs.FindProperty(ctx, sc.PropertyID); err != nil {
		if !errors.Is(err, references.ErrNotFound) {
			return nil, s.detailError(id, "property", err)
		}
		detail.Property = nil
	}
	if detail.Agent, err = s.refs.FindAgent(ctx, sc.AgentID); err != nil {
		if !errors.Is(err, references.ErrNotFound) {
			return nil, s.detailError(id, "agent", err)
		}
		detail.Agent = nil
	}
	if detail.Client, err = s.refs.FindClient(ctx, sc.ClientID); err != nil {
		if !errors.Is(err, references.ErrNotFound) {
			return nil, s.detailError(id, "client", err)
		}
		detail.Client = nil
	}

	return detail, nil
}

func (s *scheduleService) detailError(id, part string, err error) error {
	s.cfg.Log.Error("Failed to load schedule detail",
		"id", id,
		"part", part,
		"error", err,
	)
	return apperrors.Internal("Failed to retrieve schedule details", err)
}

func (s *scheduleService) GetByScheduleNo(ctx context.Context, scheduleNo string) (*model.Schedule, error) {
	scheduleNo = strings.TrimSpace(scheduleNo)
	if scheduleNo == "" {
		return nil, apperrors.InvalidInput("Schedule number cannot be empty")
	}

	sc, err := s.repo.FindByScheduleNo(ctx, scheduleNo)
	if err != nil {
		if errors.Is(err, scheduleerrors.ErrNotFound) {
			return nil, apperrors.NotFoundWithID("Schedule", scheduleNo)
		}
		s.cfg.Log.Error("Failed to get schedule by number",
			"schedule_no", scheduleNo,
			"error", err,
		)
		return nil, apperrors.Internal("Failed to retrieve schedule", err)
	}
	return sc, nil
}

func (s *scheduleService) GetByAgent(ctx context.Context, agentID string) ([]*model.Schedule, error) {
	return s.list(ctx, "agent_id", agentID, s.repo.FindByAgent)
}

func (s *scheduleService) GetByClient(ctx context.Context, clientID string) ([]*model.Schedule, error) {
	return s.list(ctx, "client_id", clientID, s.repo.FindByClient)
}

func (s *scheduleService) GetByProperty(ctx context.Context, propertyID string) ([]*model.Schedule, error) {
	return s.list(ctx, "property_id", propertyID, s.repo.FindByProperty)
}

func (s *scheduleService) list(
	ctx context.Context,
	field, id string,
	find func(context.Context, string) ([]*model.Schedule, error),
) ([]*model.Schedule, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return nil, apperrors.InvalidInput(fmt.Sprintf("%s cannot be empty", field))
	}

	schedules, err := find(ctx, id)
	if err != nil {
		s.cfg.Log.Error("Failed to list schedules",
			field, id,
			"error", err,
		)
		return nil, apperrors.Internal("Failed to retrieve schedules", err)
	}

	s.cfg.Log.Debug("Schedules listed",
		field, id,
		"results_count", len(schedules),
	)
	return schedules, nil
}

func (s *scheduleService) GetByDateRange(ctx context.Context, start, end time.Time) ([]*model.Schedule, error) {
	if start.IsZero() || end.IsZero() {
		return nil, apperrors.InvalidInput("Both start and end must be provided")
	}
	if start.After(end) {
		return nil, apperrors.InvalidInput("start must not be after end")
	}

	schedules, err := s.repo.FindByDateRange(ctx, start, end)
	if err != nil {
		s.cfg.Log.Error("Failed to list schedules by date range",
			"start", start,
			"end", end,
			"error", err,
		)
		return nil, apperrors.Internal("Failed to retrieve schedules", err)
	}
	return schedules, nil
}

func (s *scheduleService) GetByStatus(ctx context.Context, status string) ([]*model.Schedule, error) {
	parsed, err := model.ParseScheduleStatus(status)
	if err != nil {
		return nil, apperrors.InvalidInput(err.Error())
	}

	schedules, err := s.repo.FindByStatus(ctx, parsed)
	if err != nil {
		s.cfg.Log.Error("Failed to list schedules by status",
			"status", parsed,
			"error", err,
		)
		return nil, apperrors.Internal("Failed to retrieve schedules", err)
	}
	return schedules, nil
}

func (s *scheduleService) IsTimeSlotAvailable(ctx context.Context, agentID string, scheduleTime time.Time) (bool, error) {
	agentID = strings.TrimSpace(agentID)
	if agentID == "" {
		return false, apperrors.InvalidInput("agent_id cannot be empty")
	}
	if scheduleTime.IsZero() {
		return false, apperrors.InvalidInput("time cannot be empty")
	}

	available, err := s.repo.IsTimeSlotAvailable(ctx, agentID, scheduleTime, "")
	if err != nil {
		s.cfg.Log.Error("Failed to check time slot",
			"agent_id", agentID,
			"schedule_time", scheduleTime,
			"error", err,
		)
		return false, apperrors.Internal("Failed to check time slot availability", err)
	}
	return available, nil
}

func (s *scheduleService) Update(ctx context.Context, id string, updates *model.ScheduleUpdate) (*model.Schedule, error) {
	if id == "" {
		return nil, apperrors.InvalidInput("Schedule ID cannot be empty")
	}
	if updates == nil || updates.IsEmpty() {
		return nil, apperrors.InvalidInput("At least one of schedule_time, status or notes must be provided")
	}
	if err := s.validator.ValidateUpdate(updates); err != nil {
		return nil, apperrors.Validation("Schedule validation failed", map[string]any{
			"error": err.Error(),
		})
	}

	existing, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, s.translateLookupError(err, id, "Failed to check schedule existence")
	}

	merged, err := s.mergeScheduleUpdates(existing, updates)
	if err != nil {
		return nil, err
	}
	if err := s.validator.Validate(merged); err != nil {
		s.cfg.Log.Warn("Schedule validation failed",
			"id", id,
			"error", err,
		)
		return nil, apperrors.Validation("Schedule validation failed", map[string]any{
			"error": err.Error(),
		})
	}

	if !merged.ScheduleTime.Equal(existing.ScheduleTime) {
		available, err := s.repo.IsTimeSlotAvailable(ctx, merged.AgentID, merged.ScheduleTime, id)
		if err != nil {
			s.cfg.Log.Error("Failed to check time slot",
				"id", id,
				"agent_id", merged.AgentID,
				"error", err,
			)
			return nil, apperrors.Internal("Failed to check time slot availability", err)
		}
		if !available {
			return nil, apperrors.Conflict(slotTakenMessage)
		}
	}

	if err := s.save(ctx, id, merged); err != nil {
		return nil, err
	}

	s.cfg.Log.Info("Schedule updated successfully",
		"id", id,
		"status", merged.Status,
		"schedule_time", merged.ScheduleTime,
	)
	s.events.Publish(ctx, events.ScheduleUpdated, id, merged)
	return merged, nil
}

func (s *scheduleService) Cancel(ctx context.Context, id string) (*model.Schedule, error) {
	return s.setStatus(ctx, id, model.StatusCancelled, events.ScheduleCancelled)
}

func (s *scheduleService) Complete(ctx context.Context, id string) (*model.Schedule, error) {
	return s.setStatus(ctx, id, model.StatusCompleted, events.ScheduleCompleted)
}

func (s *scheduleService) setStatus(ctx context.Context, id string, status model.ScheduleStatus, eventType string) (*model.Schedule, error) {
	if id == "" {
		return nil, apperrors.InvalidInput("Schedule ID cannot be empty")
	}

	sc, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, s.translateLookupError(err, id, "Failed to check schedule existence")
	}

	if !model.CanTransition(sc.Status, status) {
		return nil, apperrors.Conflict(fmt.Sprintf("Schedule cannot move from %s to %s", sc.Status, status))
	}

	previous := sc.Status
	sc.Status = status
	if err := s.save(ctx, id, sc); err != nil {
		return nil, err
	}

	s.cfg.Log.Info("Schedule status changed",
		"id", id,
		"from", previous,
		"to", status,
	)
	s.events.Publish(ctx, eventType, id, sc)
	return sc, nil
}

func (s *scheduleService) save(ctx context.Context, id string, sc *model.Schedule) error {
	if err := s.repo.Update(ctx, id, sc); err != nil {
		if errors.Is(err, scheduleerrors.ErrSlotTaken) {
			return apperrors.Conflict(slotTakenMessage)
		}
		if errors.Is(err, scheduleerrors.ErrNotFound) {
			return apperrors.NotFoundWithID("Schedule", id)
		}
		s.cfg.Log.Error("Failed to update schedule",
			"id", id,
			"error", err,
		)
		return apperrors.Internal("Failed to update schedule", err)
	}
	return nil
}

func (s *scheduleService) Delete(ctx context.Context, id string) error {
	if id == "" {
		return apperrors.InvalidInput("Schedule ID cannot be empty")
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, scheduleerrors.ErrNotFound) {
			return apperrors.NotFoundWithID("Schedule", id)
		}
		if errors.Is(err, scheduleerrors.ErrInvalidID) {
			return apperrors.InvalidInput("Invalid schedule ID format")
		}
		s.cfg.Log.Error("Failed to delete schedule",
			"id", id,
			"error", err,
		)
		return apperrors.Internal("Failed to delete schedule", err)
	}

	s.cfg.Log.Info("Schedule deleted successfully", "id", id)
	s.events.Publish(ctx, events.ScheduleDeleted, id, map[string]string{"id": id})
	return nil
}

func (s *scheduleService) translateLookupError(err error, id, logMsg string) error {
	if errors.Is(err, scheduleerrors.ErrNotFound) {
		return apperrors.NotFoundWithID("Schedule", id)
	}
	if errors.Is(err, scheduleerrors.ErrInvalidID) {
		return apperrors.InvalidInput("Invalid schedule ID format")
	}
	s.cfg.Log.Error(logMsg,
		"id", id,
		"error", err,
	)
	return apperrors.Internal("Failed to retrieve schedule", err)
}

func (s *scheduleService) mergeScheduleUpdates(existing *model.Schedule, updates *model.ScheduleUpdate) (*model.Schedule, error) {
	merged := *existing

	if updates.ScheduleTime != nil {
		merged.ScheduleTime = model.NormalizeScheduleTime(*updates.ScheduleTime)
	}
	if updates.Status != nil {
		status, err := model.ParseScheduleStatus(*updates.Status)
		if err != nil {
			return nil, apperrors.InvalidInput(err.Error())
		}
		if !model.CanTransition(existing.Status, status) {
			return nil, apperrors.Conflict(fmt.Sprintf("Schedule cannot move from %s to %s", existing.Status, status))
		}
		merged.Status = status
	}
	if updates.Notes != nil {
		merged.Notes = sanitizer.TrimAndNormalize(*updates.Notes)
	}

	merged.ID = existing.ID
	merged.CreatedAt = existing.CreatedAt
	return &merged, nil
}
