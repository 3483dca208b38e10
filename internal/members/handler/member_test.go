package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/julienschmidt/httprouter"

	"homeview/internal/members/service"
	apperrors "homeview/pkg/errors"
	httputil "homeview/pkg/http"
	"homeview/pkg/logger"
	"homeview/pkg/model"
)

const memberID = "65f1a0000000000000000010"

type stubService struct {
	service.MemberService
	createAgentFunc  func(ctx context.Context, a *model.Agent) error
	listClientsFunc  func(ctx context.Context, limit int, offset int64) ([]*model.Client, int64, error)
	updateStatusFunc func(ctx context.Context, id string, u *model.MemberStatusUpdate) (*model.Member, error)
	deleteFunc       func(ctx context.Context, id string) error
}

func (s *stubService) CreateAgent(ctx context.Context, a *model.Agent) error {
	return s.createAgentFunc(ctx, a)
}

func (s *stubService) ListClients(ctx context.Context, limit int, offset int64) ([]*model.Client, int64, error) {
	return s.listClientsFunc(ctx, limit, offset)
}

func (s *stubService) UpdateStatus(ctx context.Context, id string, u *model.MemberStatusUpdate) (*model.Member, error) {
	return s.updateStatusFunc(ctx, id, u)
}

func (s *stubService) Delete(ctx context.Context, id string) error {
	return s.deleteFunc(ctx, id)
}

func serve(svc service.MemberService, method, target, body string) *httptest.ResponseRecorder {
	router := httprouter.New()
	NewMemberHandler(svc, logger.Discard()).RegisterRoutes(router)

	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, target, nil)
	}
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func TestCreateAgent(t *testing.T) {
	svc := &stubService{
		createAgentFunc: func(_ context.Context, a *model.Agent) error {
			if a.Member.Email == "taken@example.com" {
				return apperrors.Conflict("A member with this email, username or license already exists")
			}
			a.ID = "65f1a0000000000000000011"
			return nil
		},
	}

	body := `{"license_number":"RE-1","member":{"email":"dana@example.com","username":"dana"}}`
	rec := serve(svc, http.MethodPost, "/api/v1/agents", body)
	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
	}

	rec = serve(svc, http.MethodPost, "/api/v1/agents", `{"member":{"email":"taken@example.com"}}`)
	if rec.Code != http.StatusConflict {
		t.Errorf("duplicate: status = %d, want 409", rec.Code)
	}

	rec = serve(svc, http.MethodPost, "/api/v1/agents", `{"member":`)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("malformed: status = %d, want 400", rec.Code)
	}
}

func TestListClients_Paginated(t *testing.T) {
	svc := &stubService{
		listClientsFunc: func(_ context.Context, limit int, offset int64) ([]*model.Client, int64, error) {
			return []*model.Client{}, 3, nil
		},
	}

	rec := serve(svc, http.MethodGet, "/api/v1/clients?limit=2&offset=1", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	var resp httputil.PaginatedResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}
	if resp.TotalCount != 3 || resp.Limit != 2 || resp.Offset != 1 {
		t.Errorf("pagination = %+v", resp)
	}
}

func TestUpdateStatus(t *testing.T) {
	var gotID string
	svc := &stubService{
		updateStatusFunc: func(_ context.Context, id string, u *model.MemberStatusUpdate) (*model.Member, error) {
			gotID = id
			return &model.Member{ID: id, Status: model.MemberStatus(u.Status)}, nil
		},
	}

	rec := serve(svc, http.MethodPatch, "/api/v1/members/id/"+memberID+"/status", `{"status":"suspended"}`)
	if rec.Code != http.StatusOK || gotID != memberID {
		t.Errorf("status = %d, id = %q", rec.Code, gotID)
	}
}

func TestDelete(t *testing.T) {
	svc := &stubService{
		deleteFunc: func(_ context.Context, id string) error {
			if id != memberID {
				return apperrors.NotFoundWithID("Member", id)
			}
			return nil
		},
	}

	rec := serve(svc, http.MethodDelete, "/api/v1/members/id/"+memberID, "")
	if rec.Code != http.StatusNoContent {
		t.Errorf("status = %d, want 204", rec.Code)
	}
	rec = serve(svc, http.MethodDelete, "/api/v1/members/id/65f1a00000000000000000ff", "")
	if rec.Code != http.StatusNotFound {
		t.Errorf("missing: status = %d, want 404", rec.Code)
	}
}
