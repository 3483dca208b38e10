package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"homeview/internal/references"
	wishlisterrors "homeview/internal/wishlists/errors"
	"homeview/internal/wishlists/repository"
	"homeview/internal/wishlists/validator"
	"homeview/pkg/config"
	apperrors "homeview/pkg/errors"
	"homeview/pkg/events"
	"homeview/pkg/model"

	"github.com/google/uuid"
)

type WishlistService interface {
	Add(ctx context.Context, w *model.Wishlist) error
	GetByClient(ctx context.Context, clientID string) ([]*model.Wishlist, error)
	Remove(ctx context.Context, id string) error
	RemoveProperty(ctx context.Context, clientID, propertyID string) error
}

type wishlistService struct {
	repo      repository.WishlistRepository
	refs      references.Repository
	validator *validator.WishlistValidator
	events    events.Publisher
	cfg       *config.Config
}

func NewWishlistService(
	repo repository.WishlistRepository,
	refs references.Repository,
	validator *validator.WishlistValidator,
	publisher events.Publisher,
	cfg *config.Config,
) WishlistService {
	return &wishlistService{
		repo:      repo,
		refs:      refs,
		validator: validator,
		events:    publisher,
		cfg:       cfg,
	}
}

func (s *wishlistService) Add(ctx context.Context, w *model.Wishlist) error {
	if w == nil {
		return apperrors.InvalidInput("Wishlist entry cannot be empty")
	}

	w.ID = ""
	w.WishlistNo = uuid.New().String()
	w.ClientID = strings.TrimSpace(w.ClientID)
	w.PropertyID = strings.TrimSpace(w.PropertyID)
	w.Notes = strings.TrimSpace(w.Notes)

	if err := s.validator.Validate(w); err != nil {
		s.cfg.Log.Warn("Wishlist validation failed",
			"client_id", w.ClientID,
			"property_id", w.PropertyID,
			"error", err,
		)
		return apperrors.Validation("Wishlist validation failed", map[string]any{
			"error": err.Error(),
		})
	}

	if _, err := s.refs.FindClient(ctx, w.ClientID); err != nil {
		return s.referenceError("Client", w.ClientID, err)
	}
	if _, err := s.refs.FindProperty(ctx, w.PropertyID); err != nil {
		return s.referenceError("Property", w.PropertyID, err)
	}

	if err := s.repo.Create(ctx, w); err != nil {
		if errors.Is(err, wishlisterrors.ErrDuplicate) {
			s.cfg.Log.Warn("Property already in wishlist",
				"client_id", w.ClientID,
				"property_id", w.PropertyID,
			)
			return apperrors.Conflict("Property is already in the client's wishlist")
		}
		s.cfg.Log.Error("Failed to add wishlist entry",
			"client_id", w.ClientID,
			"property_id", w.PropertyID,
			"error", err,
		)
		return apperrors.Internal("Failed to add property to wishlist", err)
	}

	s.cfg.Log.Info("Property added to wishlist",
		"id", w.ID,
		"client_id", w.ClientID,
		"property_id", w.PropertyID,
	)
	s.events.Publish(ctx, events.WishlistAdded, w.ID, w)
	return nil
}

func (s *wishlistService) referenceError(resource, id string, err error) error {
	if errors.Is(err, references.ErrNotFound) {
		return apperrors.NotFoundWithID(resource, id)
	}
	s.cfg.Log.Error("Failed to look up referenced record",
		"resource", resource,
		"id", id,
		"error", err,
	)
	return apperrors.Internal(fmt.Sprintf("Failed to look up %s", strings.ToLower(resource)), err)
}

func (s *wishlistService) GetByClient(ctx context.Context, clientID string) ([]*model.Wishlist, error) {
	clientID = strings.TrimSpace(clientID)
	if clientID == "" {
		return nil, apperrors.InvalidInput("Client ID cannot be empty")
	}

	entries, err := s.repo.FindByClient(ctx, clientID)
	if err != nil {
		s.cfg.Log.Error("Failed to list wishlist",
			"client_id", clientID,
			"error", err,
		)
		return nil, apperrors.Internal("Failed to retrieve wishlist", err)
	}
	return entries, nil
}

func (s *wishlistService) Remove(ctx context.Context, id string) error {
	if id == "" {
		return apperrors.InvalidInput("Wishlist ID cannot be empty")
	}

	if err := s.repo.DeleteByID(ctx, id); err != nil {
		return s.translateError(err, id)
	}

	s.cfg.Log.Info("Wishlist entry removed", "id", id)
	s.events.Publish(ctx, events.WishlistRemoved, id, map[string]string{"id": id})
	return nil
}

func (s *wishlistService) RemoveProperty(ctx context.Context, clientID, propertyID string) error {
	if clientID == "" || propertyID == "" {
		return apperrors.InvalidInput("Client ID and property ID are required")
	}

	if err := s.repo.DeleteByClientProperty(ctx, clientID, propertyID); err != nil {
		return s.translateError(err, clientID+"/"+propertyID)
	}

	s.cfg.Log.Info("Wishlist entry removed",
		"client_id", clientID,
		"property_id", propertyID,
	)
	s.events.Publish(ctx, events.WishlistRemoved, clientID, map[string]string{
		"client_id":   clientID,
		"property_id": propertyID,
	})
	return nil
}

func (s *wishlistService) translateError(err error, id string) error {
	if errors.Is(err, wishlisterrors.ErrNotFound) {
		return apperrors.NotFoundWithID("Wishlist entry", id)
	}
	if errors.Is(err, wishlisterrors.ErrInvalidID) {
		return apperrors.InvalidInput("Invalid wishlist ID format")
	}
	s.cfg.Log.Error("Failed to remove wishlist entry",
		"id", id,
		"error", err,
	)
	return apperrors.Internal("Failed to remove wishlist entry", err)
}
