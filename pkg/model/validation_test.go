package model

import (
	"testing"
	"time"

	"github.com/go-playground/validator/v10"
)

const (
	propertyID = "65f1a0000000000000000001"
	agentID    = "65f1a0000000000000000002"
	clientID   = "65f1a0000000000000000003"
)

func newValidator(t *testing.T) *validator.Validate {
	t.Helper()
	v := validator.New()
	if err := RegisterValidations(v); err != nil {
		t.Fatalf("RegisterValidations() error = %v", err)
	}
	return v
}

func validSchedule() *Schedule {
	return &Schedule{
		PropertyID:   propertyID,
		AgentID:      agentID,
		ClientID:     clientID,
		ScheduleTime: time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC),
		Status:       StatusScheduled,
	}
}

func TestSchedule_Validation(t *testing.T) {
	v := newValidator(t)

	tests := []struct {
		name        string
		mutate      func(*Schedule)
		expectValid bool
	}{
		{"valid schedule", func(*Schedule) {}, true},
		{"missing property", func(s *Schedule) { s.PropertyID = "" }, false},
		{"malformed agent id", func(s *Schedule) { s.AgentID = "agent-1" }, false},
		{"missing client", func(s *Schedule) { s.ClientID = "" }, false},
		{"zero time", func(s *Schedule) { s.ScheduleTime = time.Time{} }, false},
		{"non canonical status", func(s *Schedule) { s.Status = "scheduled" }, false},
		{"unknown status", func(s *Schedule) { s.Status = "Pending" }, false},
		{"notes at limit", func(s *Schedule) { s.Notes = string(make([]byte, 500)) }, true},
		{"notes too long", func(s *Schedule) { s.Notes = string(make([]byte, 501)) }, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := validSchedule()
			tt.mutate(s)
			err := v.Struct(s)
			if tt.expectValid && err != nil {
				t.Errorf("expected valid, got %v", err)
			}
			if !tt.expectValid && err == nil {
				t.Error("expected validation error")
			}
		})
	}
}

func TestParseScheduleStatus(t *testing.T) {
	tests := []struct {
		in      string
		want    ScheduleStatus
		wantErr bool
	}{
		{"Scheduled", StatusScheduled, false},
		{"completed", StatusCompleted, false},
		{"  CANCELLED ", StatusCancelled, false},
		{"rescheduled", StatusRescheduled, false},
		{"done", "", true},
		{"", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseScheduleStatus(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("error = %v, wantErr %v", err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("got %q, want %q", got, tt.want)
			}
		})
	}
}

func TestCanTransition_Permissive(t *testing.T) {
	for _, from := range ScheduleStatuses {
		for _, to := range ScheduleStatuses {
			if !CanTransition(from, to) {
				t.Errorf("%s -> %s should be allowed", from, to)
			}
		}
	}
	if CanTransition("Unknown", StatusCancelled) {
		t.Error("transitions from an unknown state must be rejected")
	}
}

func TestNormalizeScheduleTime(t *testing.T) {
	loc := time.FixedZone("IDT", 3*60*60)
	in := time.Date(2025, 6, 1, 13, 0, 0, 123456789, loc)
	got := NormalizeScheduleTime(in)

	if got.Location() != time.UTC {
		t.Errorf("expected UTC, got %v", got.Location())
	}
	if got.Hour() != 10 || got.Nanosecond() != 123000000 {
		t.Errorf("unexpected normalised time %v", got)
	}
	if !got.Equal(NormalizeScheduleTime(got)) {
		t.Error("normalisation must be idempotent")
	}
}

func TestProperty_Validation(t *testing.T) {
	v := newValidator(t)
	valid := func() *Property {
		return &Property{
			Title:   "Sea view apartment",
			Type:    "apartment",
			Address: "1 Beach Rd",
			City:    "Haifa",
			Status:  PropertyAvailable,
			Price:   450000,
		}
	}

	if err := v.Struct(valid()); err != nil {
		t.Fatalf("expected valid property, got %v", err)
	}

	p := valid()
	p.Status = "Available"
	if err := v.Struct(p); err == nil {
		t.Error("status must be normalised before validation")
	}

	p = valid()
	p.Price = -1
	if err := v.Struct(p); err == nil {
		t.Error("negative price should fail")
	}

	p = valid()
	p.Images = []PropertyImage{{URL: "not a url"}}
	if err := v.Struct(p); err == nil {
		t.Error("invalid image url should fail")
	}
}

func TestNormalizePropertyStatus(t *testing.T) {
	tests := map[string]string{
		"Available":   PropertyAvailable,
		"Under Offer": PropertyUnderOffer,
		"under_offer": PropertyUnderOffer,
		" SOLD ":      PropertySold,
		"Off-Market":  PropertyOffMarket,
	}
	for in, want := range tests {
		if got := NormalizePropertyStatus(in); got != want {
			t.Errorf("NormalizePropertyStatus(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestAgent_Validation(t *testing.T) {
	v := newValidator(t)
	agent := &Agent{
		LicenseNumber: "LIC-2231",
		Member: &Member{
			Email:    "dana@example.com",
			Username: "dana",
			Role:     RoleAgent,
			Status:   MemberActive,
		},
	}
	if err := v.Struct(agent); err != nil {
		t.Fatalf("expected valid agent, got %v", err)
	}

	agent.Member.Role = "admin"
	if err := v.Struct(agent); err == nil {
		t.Error("unknown role should fail")
	}

	agent.Member = nil
	if err := v.Struct(agent); err == nil {
		t.Error("agent without member should fail")
	}
}

func TestMember_DisplayName(t *testing.T) {
	m := &Member{Username: "dana"}
	if m.DisplayName() != "dana" {
		t.Errorf("fallback to username expected, got %q", m.DisplayName())
	}
	m.FirstName, m.LastName = "Dana", "Levi"
	if m.DisplayName() != "Dana Levi" {
		t.Errorf("got %q", m.DisplayName())
	}
}

func TestPropertyCascade_Total(t *testing.T) {
	c := PropertyCascade{Images: 3, Videos: 2, Schedules: 4, Wishlists: 1, Property: 1}
	if c.Total() != 11 {
		t.Errorf("Total() = %d, want 11", c.Total())
	}
}
