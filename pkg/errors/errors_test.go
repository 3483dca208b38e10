package errors

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"testing"
)

func TestAppError_Error(t *testing.T) {
	tests := []struct {
		name     string
		appErr   *AppError
		expected string
	}{
		{
			name: "without underlying error",
			appErr: &AppError{
				Code:    CodeNotFound,
				Message: "schedule not found",
			},
			expected: "NOT_FOUND: schedule not found",
		},
		{
			name: "with underlying error",
			appErr: &AppError{
				Code:    CodeInternal,
				Message: "internal error",
				Err:     errors.New("connection reset"),
			},
			expected: "INTERNAL_ERROR: internal error (caused by: connection reset)",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.appErr.Error(); got != tt.expected {
				t.Errorf("Error() = %q, want %q", got, tt.expected)
			}
		})
	}
}

func TestAppError_Unwrap(t *testing.T) {
	cause := errors.New("original error")
	appErr := Wrap(cause, CodeInternal, "wrapped", http.StatusInternalServerError)

	if !errors.Is(appErr, cause) {
		t.Errorf("errors.Is should see the wrapped cause")
	}
}

func TestConstructors_StatusMapping(t *testing.T) {
	tests := []struct {
		name   string
		err    *AppError
		code   string
		status int
	}{
		{"not found", NotFound("Schedule"), CodeNotFound, http.StatusNotFound},
		{"not found with id", NotFoundWithID("Schedule", "abc"), CodeNotFound, http.StatusNotFound},
		{"validation", Validation("bad", nil), CodeValidation, http.StatusBadRequest},
		{"invalid input", InvalidInput("bad"), CodeInvalidInput, http.StatusBadRequest},
		{"conflict", Conflict("taken"), CodeConflict, http.StatusConflict},
		{"internal", Internal("boom", errors.New("db")), CodeInternal, http.StatusInternalServerError},
		{"timeout", Timeout("slow"), CodeTimeout, http.StatusGatewayTimeout},
		{"unavailable", Unavailable("Store"), CodeUnavailable, http.StatusServiceUnavailable},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.err.Code != tt.code {
				t.Errorf("code = %s, want %s", tt.err.Code, tt.code)
			}
			if tt.err.StatusCode() != tt.status {
				t.Errorf("status = %d, want %d", tt.err.StatusCode(), tt.status)
			}
		})
	}
}

func TestNotFoundWithID_Details(t *testing.T) {
	err := NotFoundWithID("Property", "12345")

	if err.Details["id"] != "12345" {
		t.Errorf("expected id '12345', got %v", err.Details["id"])
	}
	if err.Details["resource"] != "Property" {
		t.Errorf("expected resource 'Property', got %v", err.Details["resource"])
	}
}

func TestAsAppError(t *testing.T) {
	appErr := NotFound("Schedule")
	if got := AsAppError(appErr); got != appErr {
		t.Errorf("AsAppError() should return same AppError")
	}

	wrapped := fmt.Errorf("service layer: %w", appErr)
	if got := AsAppError(wrapped); got != appErr {
		t.Errorf("AsAppError() should unwrap to the AppError")
	}

	regular := errors.New("regular error")
	got := AsAppError(regular)
	if got.Code != CodeInternal {
		t.Errorf("AsAppError() should wrap regular error as internal error")
	}
	if got.Err != regular {
		t.Errorf("AsAppError() should keep the original error")
	}
}

func TestPredicates(t *testing.T) {
	if !IsNotFound(NotFound("Schedule")) {
		t.Error("IsNotFound should match NOT_FOUND")
	}
	if IsNotFound(Conflict("x")) {
		t.Error("IsNotFound should not match CONFLICT")
	}
	if !IsConflict(fmt.Errorf("ctx: %w", Conflict("x"))) {
		t.Error("IsConflict should see through wrapping")
	}
	if !IsValidation(InvalidInput("x")) || !IsValidation(Validation("x", nil)) {
		t.Error("IsValidation should match both validation codes")
	}
	if IsAppError(errors.New("plain")) {
		t.Error("IsAppError should be false for plain errors")
	}
}

func TestAppError_ToJSON_OmitsCause(t *testing.T) {
	err := Internal("Failed to create schedule", errors.New("E11000 duplicate key secret-host:27017"))
	body := string(err.ToJSON())

	if !strings.Contains(body, "INTERNAL_ERROR") {
		t.Errorf("ToJSON() should contain error code, got %s", body)
	}
	if strings.Contains(body, "secret-host") {
		t.Errorf("ToJSON() must not leak the cause, got %s", body)
	}
}
