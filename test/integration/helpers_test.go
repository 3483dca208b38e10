//go:build integration

package integration

import (
	"encoding/json"
	"fmt"
	"net/http"
	"sync/atomic"
	"testing"

	"homeview/pkg/client"
	"homeview/pkg/model"
)

var seq atomic.Int64

func unique(prefix string) string {
	return fmt.Sprintf("%s%d", prefix, seq.Add(1))
}

func expectStatus(t *testing.T, resp *client.Response, err error, want int) {
	t.Helper()
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	if resp.StatusCode != want {
		t.Fatalf("status = %d, want %d: %s", resp.StatusCode, want, resp.ErrorMessage())
	}
}

func decodeData(t *testing.T, resp *client.Response, target any) {
	t.Helper()
	envelope := struct {
		Data json.RawMessage `json:"data"`
	}{}
	if err := resp.DecodeJSON(&envelope); err != nil {
		t.Fatalf("failed to decode envelope: %v", err)
	}
	if err := json.Unmarshal(envelope.Data, target); err != nil {
		t.Fatalf("failed to decode data: %v (%s)", err, envelope.Data)
	}
}

func createAgent(t *testing.T) *model.Agent {
	t.Helper()
	name := unique("agent")
	resp, err := members.CreateAgent(map[string]any{
		"license_number": unique("RE-"),
		"member": map[string]any{
			"email":      name + "@example.com",
			"username":   name,
			"first_name": "Dana",
		},
	})
	expectStatus(t, resp, err, http.StatusCreated)

	var a model.Agent
	decodeData(t, resp, &a)
	return &a
}

func createClient(t *testing.T) *model.Client {
	t.Helper()
	name := unique("client")
	resp, err := members.CreateClient(map[string]any{
		"city":   "Haifa",
		"member": map[string]any{"email": name + "@example.com", "username": name},
	})
	expectStatus(t, resp, err, http.StatusCreated)

	var c model.Client
	decodeData(t, resp, &c)
	return &c
}

func createProperty(t *testing.T, agentID string) *model.Property {
	t.Helper()
	resp, err := properties.Create(map[string]any{
		"title":    unique("Garden flat "),
		"type":     "apartment",
		"price":    890000,
		"address":  "12 Herzl St",
		"city":     "Haifa",
		"agent_id": agentID,
		"images":   []map[string]any{{"url": "https://cdn.example.com/a.jpg", "is_primary": true}},
	})
	expectStatus(t, resp, err, http.StatusCreated)

	var p model.Property
	decodeData(t, resp, &p)
	return &p
}
