//go:build integration

package integration

import (
	"net/http"
	"testing"
	"time"

	"homeview/pkg/model"
)

func TestBooking_Lifecycle(t *testing.T) {
	agent := createAgent(t)
	buyer := createClient(t)
	property := createProperty(t, agent.ID)

	at := time.Now().UTC().Add(72 * time.Hour).Truncate(time.Minute)
	body := map[string]any{
		"property_id":   property.ID,
		"agent_id":      agent.ID,
		"client_id":     buyer.ID,
		"schedule_time": at,
	}

	resp, err := schedules.Create(body)
	expectStatus(t, resp, err, http.StatusCreated)
	var s model.Schedule
	decodeData(t, resp, &s)
	if s.Status != model.StatusScheduled || s.ScheduleNo == "" {
		t.Fatalf("created schedule = %+v", s)
	}

	resp, err = schedules.Create(body)
	expectStatus(t, resp, err, http.StatusConflict)

	resp, err = schedules.Availability(agent.ID, at)
	expectStatus(t, resp, err, http.StatusOK)
	var availability struct {
		Available bool `json:"available"`
	}
	decodeData(t, resp, &availability)
	if availability.Available {
		t.Error("agent reported available at a booked slot")
	}

	resp, err = schedules.GetDetail(s.ID)
	expectStatus(t, resp, err, http.StatusOK)
	var detail model.ScheduleDetail
	decodeData(t, resp, &detail)
	if detail.Property == nil || detail.Property.ID != property.ID || detail.Agent == nil || detail.Client == nil {
		t.Errorf("detail = %+v", detail)
	}

	resp, err = schedules.Cancel(s.ID)
	expectStatus(t, resp, err, http.StatusOK)
	resp, err = schedules.Complete(s.ID)
	expectStatus(t, resp, err, http.StatusOK)

	resp, err = schedules.Delete(s.ID)
	expectStatus(t, resp, err, http.StatusNoContent)
	resp, err = schedules.GetByID(s.ID)
	expectStatus(t, resp, err, http.StatusNotFound)
}

func TestBooking_UnknownReferences(t *testing.T) {
	agent := createAgent(t)
	buyer := createClient(t)

	resp, err := schedules.Create(map[string]any{
		"property_id":   "65f1a00000000000000000ff",
		"agent_id":      agent.ID,
		"client_id":     buyer.ID,
		"schedule_time": time.Now().UTC().Add(24 * time.Hour),
	})
	expectStatus(t, resp, err, http.StatusNotFound)
}

func TestBooking_RetriedCreateIsReplayed(t *testing.T) {
	agent := createAgent(t)
	buyer := createClient(t)
	property := createProperty(t, agent.ID)

	body := map[string]any{
		"property_id":   property.ID,
		"agent_id":      agent.ID,
		"client_id":     buyer.ID,
		"schedule_time": time.Now().UTC().Add(96 * time.Hour).Truncate(time.Minute),
	}
	key := unique("booking-")

	resp, err := schedules.CreateOnce(body, key)
	expectStatus(t, resp, err, http.StatusCreated)
	var first model.Schedule
	decodeData(t, resp, &first)

	resp, err = schedules.CreateOnce(body, key)
	expectStatus(t, resp, err, http.StatusCreated)
	if !resp.Replayed() {
		t.Fatal("retried create was not served from the idempotency cache")
	}
	var second model.Schedule
	decodeData(t, resp, &second)
	if second.ID != first.ID {
		t.Errorf("replayed id = %s, want %s", second.ID, first.ID)
	}

	resp, err = schedules.GetByAgent(agent.ID)
	expectStatus(t, resp, err, http.StatusOK)
	var booked []model.Schedule
	decodeData(t, resp, &booked)
	if len(booked) != 1 {
		t.Errorf("agent has %d schedules, want 1", len(booked))
	}

	resp, err = schedules.CreateOnce(body, unique("booking-"))
	expectStatus(t, resp, err, http.StatusConflict)
}
