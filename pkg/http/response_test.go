package http

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	apperrors "homeview/pkg/errors"
)

func TestWriteError_StatusMapping(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantCode   string
	}{
		{"not found", apperrors.NotFoundWithID("Schedule", "x"), http.StatusNotFound, apperrors.CodeNotFound},
		{"conflict", apperrors.Conflict("time slot not available for this agent"), http.StatusConflict, apperrors.CodeConflict},
		{"validation", apperrors.Validation("bad", nil), http.StatusBadRequest, apperrors.CodeValidation},
		{"invalid input", apperrors.InvalidInput("bad"), http.StatusBadRequest, apperrors.CodeInvalidInput},
		{"internal", apperrors.Internal("Failed", errors.New("db down")), http.StatusInternalServerError, apperrors.CodeInternal},
		{"plain error", errors.New("raw driver text"), http.StatusInternalServerError, apperrors.CodeInternal},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			if err := WriteError(rec, tt.err); err != nil {
				t.Fatalf("WriteError() error = %v", err)
			}
			if rec.Code != tt.wantStatus {
				t.Errorf("status = %d, want %d", rec.Code, tt.wantStatus)
			}
			var body ErrorResponse
			if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
				t.Fatalf("decode body: %v", err)
			}
			if body.Code != tt.wantCode {
				t.Errorf("code = %s, want %s", body.Code, tt.wantCode)
			}
		})
	}
}

func TestWriteError_DoesNotLeakInternalDetails(t *testing.T) {
	rec := httptest.NewRecorder()
	err := apperrors.Internal("Failed to delete property", errors.New("pq: relation \"properties\" does not exist"))
	_ = WriteError(rec, err)

	body := rec.Body.String()
	if strings.Contains(body, "pq:") || strings.Contains(body, "Failed to delete property") {
		t.Errorf("internal error body leaked details: %s", body)
	}
	if !strings.Contains(body, internalErrorMessage) {
		t.Errorf("expected generic message, got %s", body)
	}
}

func TestExtractLimitOffset(t *testing.T) {
	tests := []struct {
		query      string
		wantLimit  int
		wantOffset int64
		wantErr    bool
	}{
		{"", 10, 0, false},
		{"?limit=5&offset=20", 5, 20, false},
		{"?limit=1000", 100, 0, false},
		{"?offset=-4", 10, 0, false},
		{"?limit=abc", 0, 0, true},
		{"?offset=x", 0, 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			r := httptest.NewRequest(http.MethodGet, "/api/v1/properties"+tt.query, nil)
			limit, offset, err := ExtractLimitOffset(r)
			if (err != nil) != tt.wantErr {
				t.Fatalf("error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.wantErr {
				return
			}
			if limit != tt.wantLimit || offset != tt.wantOffset {
				t.Errorf("got (%d, %d), want (%d, %d)", limit, offset, tt.wantLimit, tt.wantOffset)
			}
		})
	}
}

func TestParseTime(t *testing.T) {
	if _, err := ParseTime("time", ""); err == nil {
		t.Error("expected error for empty value")
	}
	if _, err := ParseTime("time", "tomorrow"); err == nil {
		t.Error("expected error for malformed value")
	}
	got, err := ParseTime("time", "2025-06-01T10:00:00Z")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Hour() != 10 {
		t.Errorf("hour = %d, want 10", got.Hour())
	}
}
