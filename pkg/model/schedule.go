package model

import (
	"fmt"
	"strings"
	"time"
)

type ScheduleStatus string

const (
	StatusScheduled   ScheduleStatus = "Scheduled"
	StatusCompleted   ScheduleStatus = "Completed"
	StatusCancelled   ScheduleStatus = "Cancelled"
	StatusRescheduled ScheduleStatus = "Rescheduled"
)

var ScheduleStatuses = []ScheduleStatus{StatusScheduled, StatusCompleted, StatusCancelled, StatusRescheduled}

// ParseScheduleStatus matches case-insensitively and returns the canonical
// spelling that is stored and queried.
func ParseScheduleStatus(s string) (ScheduleStatus, error) {
	s = strings.TrimSpace(s)
	for _, status := range ScheduleStatuses {
		if strings.EqualFold(s, string(status)) {
			return status, nil
		}
	}
	return "", fmt.Errorf("unknown schedule status %q", s)
}

// Valid reports whether s is one of the canonical spellings.
func (s ScheduleStatus) Valid() bool {
	for _, status := range ScheduleStatuses {
		if s == status {
			return true
		}
	}
	return false
}

// scheduleTransitions lists the allowed targets per state. Every state may
// currently move to every state; a completed viewing can still be cancelled.
var scheduleTransitions = map[ScheduleStatus][]ScheduleStatus{
	StatusScheduled:   ScheduleStatuses,
	StatusCompleted:   ScheduleStatuses,
	StatusCancelled:   ScheduleStatuses,
	StatusRescheduled: ScheduleStatuses,
}

func CanTransition(from, to ScheduleStatus) bool {
	for _, allowed := range scheduleTransitions[from] {
		if allowed == to {
			return true
		}
	}
	return false
}

// NormalizeScheduleTime is applied before every store and lookup so equality
// on schedule_time is exact across backends.
func NormalizeScheduleTime(t time.Time) time.Time {
	return t.UTC().Truncate(time.Millisecond)
}

type Schedule struct {
	ID           string         `json:"id,omitempty" bson:"_id,omitempty" gorm:"primaryKey;size:24" validate:"omitempty,mongodb"`
	ScheduleNo   string         `json:"schedule_no" bson:"schedule_no" gorm:"size:36;uniqueIndex;not null" validate:"omitempty,uuid4"`
	PropertyID   string         `json:"property_id" bson:"property_id" gorm:"size:24;not null;index" validate:"required,mongodb"`
	AgentID      string         `json:"agent_id" bson:"agent_id" gorm:"size:24;not null;uniqueIndex:idx_schedules_agent_time,priority:1" validate:"required,mongodb"`
	ClientID     string         `json:"client_id" bson:"client_id" gorm:"size:24;not null;index" validate:"required,mongodb"`
	ScheduleTime time.Time      `json:"schedule_time" bson:"schedule_time" gorm:"not null;uniqueIndex:idx_schedules_agent_time,priority:2" validate:"required"`
	Status       ScheduleStatus `json:"status" bson:"status" gorm:"size:20;not null;index" validate:"required,schedule_status"`
	Notes        string         `json:"notes,omitempty" bson:"notes,omitempty" gorm:"size:500" validate:"max=500"`
	CreatedAt    time.Time      `json:"created_at" bson:"created_at"`
	UpdatedAt    *time.Time     `json:"updated_at,omitempty" bson:"updated_at,omitempty" gorm:"autoUpdateTime:false"`
}

// ScheduleUpdate is a partial update: nil fields keep their stored value.
type ScheduleUpdate struct {
	ScheduleTime *time.Time `json:"schedule_time,omitempty"`
	Status       *string    `json:"status,omitempty"`
	Notes        *string    `json:"notes,omitempty" validate:"omitempty,max=500"`
}

func (u *ScheduleUpdate) IsEmpty() bool {
	return u.ScheduleTime == nil && u.Status == nil && u.Notes == nil
}

type PropertySummary struct {
	ID      string `json:"id"`
	Title   string `json:"title"`
	Address string `json:"address,omitempty"`
	City    string `json:"city,omitempty"`
}

type PartySummary struct {
	ID    string  `json:"id"`
	Name  *string `json:"name,omitempty"`
	Email *string `json:"email,omitempty"`
}

// ScheduleDetail is a schedule with whatever related records could be found.
type ScheduleDetail struct {
	Schedule
	Property *PropertySummary `json:"property,omitempty"`
	Agent    *PartySummary    `json:"agent,omitempty"`
	Client   *PartySummary    `json:"client,omitempty"`
}
