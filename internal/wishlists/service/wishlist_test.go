package service

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"homeview/internal/references"
	wishlisterrors "homeview/internal/wishlists/errors"
	"homeview/internal/wishlists/validator"
	"homeview/pkg/config"
	apperrors "homeview/pkg/errors"
	"homeview/pkg/events"
	"homeview/pkg/logger"
	"homeview/pkg/model"
)

const (
	wishlistID = "65f1a0000000000000000020"
	clientID   = "65f1a0000000000000000021"
	propertyID = "65f1a0000000000000000022"
)

type mockWishlistRepository struct {
	createFunc       func(ctx context.Context, w *model.Wishlist) error
	findByClientFunc func(ctx context.Context, clientID string) ([]*model.Wishlist, error)
	deleteByIDFunc   func(ctx context.Context, id string) error
	deletePairFunc   func(ctx context.Context, clientID, propertyID string) error
}

func (m *mockWishlistRepository) Create(ctx context.Context, w *model.Wishlist) error {
	if m.createFunc != nil {
		return m.createFunc(ctx, w)
	}
	w.ID = wishlistID
	return nil
}

func (m *mockWishlistRepository) FindByClient(ctx context.Context, clientID string) ([]*model.Wishlist, error) {
	if m.findByClientFunc != nil {
		return m.findByClientFunc(ctx, clientID)
	}
	return []*model.Wishlist{}, nil
}

func (m *mockWishlistRepository) DeleteByID(ctx context.Context, id string) error {
	if m.deleteByIDFunc != nil {
		return m.deleteByIDFunc(ctx, id)
	}
	return nil
}

func (m *mockWishlistRepository) DeleteByClientProperty(ctx context.Context, clientID, propertyID string) error {
	if m.deletePairFunc != nil {
		return m.deletePairFunc(ctx, clientID, propertyID)
	}
	return nil
}

type mockReferences struct {
	missing map[string]bool
}

func (m *mockReferences) FindProperty(ctx context.Context, id string) (*model.PropertySummary, error) {
	if m.missing[id] {
		return nil, fmt.Errorf("%w: %s", references.ErrNotFound, id)
	}
	return &model.PropertySummary{ID: id}, nil
}

func (m *mockReferences) FindAgent(ctx context.Context, id string) (*model.PartySummary, error) {
	return &model.PartySummary{ID: id}, nil
}

func (m *mockReferences) FindClient(ctx context.Context, id string) (*model.PartySummary, error) {
	if m.missing[id] {
		return nil, fmt.Errorf("%w: %s", references.ErrNotFound, id)
	}
	return &model.PartySummary{ID: id}, nil
}

func newTestService(repo *mockWishlistRepository, refs *mockReferences) (WishlistService, *events.Recorder) {
	log := logger.Discard()
	cfg := &config.Config{Log: log, ReadTimeout: time.Second, WriteTimeout: time.Second}
	if refs == nil {
		refs = &mockReferences{}
	}
	recorder := events.NewRecorder()
	return NewWishlistService(repo, refs, validator.NewWishlistValidator(log), recorder, cfg), recorder
}

func TestWishlistService_Add(t *testing.T) {
	svc, recorder := newTestService(&mockWishlistRepository{}, nil)

	w := &model.Wishlist{ClientID: " " + clientID + " ", PropertyID: propertyID, Notes: "  sea view  "}
	if err := svc.Add(context.Background(), w); err != nil {
		t.Fatalf("Add() error = %v", err)
	}
	if w.ID != wishlistID || w.WishlistNo == "" || w.ClientID != clientID || w.Notes != "sea view" {
		t.Errorf("entry = %+v", w)
	}
	if types := recorder.Types(); len(types) != 1 || types[0] != events.WishlistAdded {
		t.Errorf("events = %v", types)
	}
}

func TestWishlistService_AddErrors(t *testing.T) {
	tests := []struct {
		name     string
		entry    model.Wishlist
		refs     *mockReferences
		repoErr  error
		wantCode string
	}{
		{
			name:     "malformed ids",
			entry:    model.Wishlist{ClientID: "c1", PropertyID: propertyID},
			wantCode: apperrors.CodeValidation,
		},
		{
			name:     "unknown client",
			entry:    model.Wishlist{ClientID: clientID, PropertyID: propertyID},
			refs:     &mockReferences{missing: map[string]bool{clientID: true}},
			wantCode: apperrors.CodeNotFound,
		},
		{
			name:     "unknown property",
			entry:    model.Wishlist{ClientID: clientID, PropertyID: propertyID},
			refs:     &mockReferences{missing: map[string]bool{propertyID: true}},
			wantCode: apperrors.CodeNotFound,
		},
		{
			name:     "already saved",
			entry:    model.Wishlist{ClientID: clientID, PropertyID: propertyID},
			repoErr:  fmt.Errorf("%w: pair", wishlisterrors.ErrDuplicate),
			wantCode: apperrors.CodeConflict,
		},
		{
			name:     "storage failure",
			entry:    model.Wishlist{ClientID: clientID, PropertyID: propertyID},
			repoErr:  errors.New("disk full"),
			wantCode: apperrors.CodeInternal,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := &mockWishlistRepository{}
			if tt.repoErr != nil {
				repo.createFunc = func(context.Context, *model.Wishlist) error { return tt.repoErr }
			}
			svc, recorder := newTestService(repo, tt.refs)

			err := svc.Add(context.Background(), &tt.entry)
			if !apperrors.HasCode(err, tt.wantCode) {
				t.Fatalf("Add() error = %v, want code %s", err, tt.wantCode)
			}
			if len(recorder.Events()) != 0 {
				t.Errorf("event published on failure: %v", recorder.Types())
			}
		})
	}
}

func TestWishlistService_GetByClient(t *testing.T) {
	svc, _ := newTestService(&mockWishlistRepository{}, nil)

	entries, err := svc.GetByClient(context.Background(), clientID)
	if err != nil || entries == nil {
		t.Errorf("GetByClient() = %v, %v", entries, err)
	}
	if _, err := svc.GetByClient(context.Background(), "  "); !apperrors.HasCode(err, apperrors.CodeInvalidInput) {
		t.Errorf("GetByClient(blank) error = %v", err)
	}
}

func TestWishlistService_Remove(t *testing.T) {
	repo := &mockWishlistRepository{}
	svc, recorder := newTestService(repo, nil)
	ctx := context.Background()

	if err := svc.Remove(ctx, wishlistID); err != nil {
		t.Fatalf("Remove() error = %v", err)
	}
	if err := svc.RemoveProperty(ctx, clientID, propertyID); err != nil {
		t.Fatalf("RemoveProperty() error = %v", err)
	}
	types := recorder.Types()
	if len(types) != 2 || types[0] != events.WishlistRemoved || types[1] != events.WishlistRemoved {
		t.Errorf("events = %v", types)
	}

	repo.deleteByIDFunc = func(_ context.Context, id string) error {
		return fmt.Errorf("%w: %s", wishlisterrors.ErrNotFound, id)
	}
	if err := svc.Remove(ctx, wishlistID); !apperrors.IsNotFound(err) {
		t.Errorf("Remove(missing) error = %v, want NotFound", err)
	}

	repo.deleteByIDFunc = func(_ context.Context, id string) error {
		return fmt.Errorf("%w: %s", wishlisterrors.ErrInvalidID, id)
	}
	if err := svc.Remove(ctx, "x"); !apperrors.HasCode(err, apperrors.CodeInvalidInput) {
		t.Errorf("Remove(x) error = %v, want InvalidInput", err)
	}

	if err := svc.RemoveProperty(ctx, clientID, ""); !apperrors.HasCode(err, apperrors.CodeInvalidInput) {
		t.Errorf("RemoveProperty(blank property) error = %v", err)
	}
}
