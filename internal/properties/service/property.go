package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	propertyerrors "homeview/internal/properties/errors"
	"homeview/internal/properties/repository"
	"homeview/internal/properties/validator"
	"homeview/internal/references"
	"homeview/pkg/config"
	apperrors "homeview/pkg/errors"
	"homeview/pkg/events"
	"homeview/pkg/model"
	"homeview/pkg/sanitizer"

	"github.com/google/uuid"
)

type PropertyService interface {
	Create(ctx context.Context, p *model.Property) error
	GetByID(ctx context.Context, id string) (*model.Property, error)
	GetAll(ctx context.Context, limit int, offset int64) ([]*model.Property, int64, error)
	GetByOwner(ctx context.Context, ownerID string) ([]*model.Property, error)
	GetByAgent(ctx context.Context, agentID string) ([]*model.Property, error)
	GetByStatus(ctx context.Context, status string) ([]*model.Property, error)
	Search(ctx context.Context, term string) ([]*model.Property, error)
	Update(ctx context.Context, id string, p *model.Property) (*model.Property, error)
	Delete(ctx context.Context, id string) (model.PropertyCascade, error)
	AddImages(ctx context.Context, id string, images []model.PropertyImage) ([]model.PropertyImage, error)
	ReplaceImages(ctx context.Context, id string, images []model.PropertyImage) ([]model.PropertyImage, error)
	AddVideos(ctx context.Context, id string, videos []model.PropertyVideo) ([]model.PropertyVideo, error)
	ReplaceVideos(ctx context.Context, id string, videos []model.PropertyVideo) ([]model.PropertyVideo, error)
}

type propertyService struct {
	repo      repository.PropertyRepository
	refs      references.Repository
	validator *validator.PropertyValidator
	events    events.Publisher
	cfg       *config.Config
}

func NewPropertyService(
	repo repository.PropertyRepository,
	refs references.Repository,
	validator *validator.PropertyValidator,
	publisher events.Publisher,
	cfg *config.Config,
) PropertyService {
	return &propertyService{
		repo:      repo,
		refs:      refs,
		validator: validator,
		events:    publisher,
		cfg:       cfg,
	}
}

func (s *propertyService) Create(ctx context.Context, p *model.Property) error {
	p.ID = ""
	p.PropertyNo = uuid.New().String()
	p.UpdatedAt = nil
	s.sanitize(p)
	if p.ListedAt == nil {
		listed := time.Now().UTC().Truncate(time.Millisecond)
		p.ListedAt = &listed
	}

	if err := s.validator.Validate(p); err != nil {
		s.cfg.Log.Warn("Property validation failed",
			"title", p.Title,
			"city", p.City,
			"error", err,
		)
		return apperrors.Validation("Property validation failed", map[string]any{
			"error": err.Error(),
		})
	}

	if err := s.checkReferences(ctx, p); err != nil {
		return err
	}

	if err := s.repo.Create(ctx, p); err != nil {
		s.cfg.Log.Error("Failed to create property",
			"title", p.Title,
			"error", err,
		)
		return apperrors.Internal("Failed to create property", err)
	}

	s.cfg.Log.Info("Property created successfully",
		"id", p.ID,
		"property_no", p.PropertyNo,
		"images", len(p.Images),
		"videos", len(p.Videos),
	)
	s.events.Publish(ctx, events.PropertyCreated, p.ID, p)
	return nil
}

func (s *propertyService) sanitize(p *model.Property) {
	p.Title = sanitizer.TrimAndNormalize(p.Title)
	p.Description = strings.TrimSpace(p.Description)
	p.Type = strings.ToLower(sanitizer.TrimAndNormalize(p.Type))
	p.Address = sanitizer.TrimAndNormalize(p.Address)
	p.City = sanitizer.NormalizeName(p.City)
	p.State = sanitizer.NormalizeName(p.State)
	p.ZipCode = strings.TrimSpace(p.ZipCode)
	p.Amenities = sanitizer.NormalizeAmenities(p.Amenities)
	p.OwnerID = trimOptional(p.OwnerID)
	p.AgentID = trimOptional(p.AgentID)

	p.Status = model.NormalizePropertyStatus(p.Status)
	if p.Status == "" {
		p.Status = model.PropertyAvailable
	}

	sanitizeImages(p.Images)
	sanitizeVideos(p.Videos)
}

func sanitizeImages(images []model.PropertyImage) {
	for i := range images {
		images[i].URL = sanitizer.NormalizeURL(images[i].URL)
		images[i].Caption = sanitizer.TrimAndNormalize(images[i].Caption)
	}
}

func sanitizeVideos(videos []model.PropertyVideo) {
	for i := range videos {
		videos[i].URL = sanitizer.NormalizeURL(videos[i].URL)
		videos[i].Title = sanitizer.TrimAndNormalize(videos[i].Title)
	}
}

func trimOptional(s *string) *string {
	if s == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*s)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}

func (s *propertyService) checkReferences(ctx context.Context, p *model.Property) error {
	if p.OwnerID != nil {
		if _, err := s.refs.FindClient(ctx, *p.OwnerID); err != nil {
			return s.referenceError("Owner", *p.OwnerID, err)
		}
	}
	if p.AgentID != nil {
		if _, err := s.refs.FindAgent(ctx, *p.AgentID); err != nil {
			return s.referenceError("Agent", *p.AgentID, err)
		}
	}
	return nil
}

func (s *propertyService) referenceError(resource, id string, err error) error {
	if errors.Is(err, references.ErrNotFound) {
		s.cfg.Log.Warn("Property references a missing record",
			"resource", resource,
			"id", id,
		)
		return apperrors.NotFoundWithID(resource, id)
	}
	s.cfg.Log.Error("Failed to look up referenced record",
		"resource", resource,
		"id", id,
		"error", err,
	)
	return apperrors.Internal(fmt.Sprintf("Failed to look up %s", strings.ToLower(resource)), err)
}

func (s *propertyService) GetByID(ctx context.Context, id string) (*model.Property, error) {
	if id == "" {
		return nil, apperrors.InvalidInput("Property ID cannot be empty")
	}

	p, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, s.translateError(err, id, "Failed to get property by ID", "Failed to retrieve property")
	}
	return p, nil
}

func (s *propertyService) GetAll(ctx context.Context, limit int, offset int64) ([]*model.Property, int64, error) {
	limit = config.NormalizePaginationLimit(limit)
	offset = config.NormalizeOffset(offset)

	var count int64
	var properties []*model.Property
	var errCount, errFind error
	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		var err error
		ctx, cancel := context.WithTimeout(ctx, s.cfg.ReadTimeout)
		defer cancel()
		count, err = s.repo.Count(ctx)
		if err != nil {
			s.cfg.Log.Error("Failed to count properties", "error", err)
			errCount = apperrors.Internal("Failed to count properties", err)
		}
	}()

	go func() {
		defer wg.Done()
		var err error
		ctx, cancel := context.WithTimeout(ctx, s.cfg.ReadTimeout)
		defer cancel()
		properties, err = s.repo.FindAll(ctx, limit, offset)
		if err != nil {
			s.cfg.Log.Error("Failed to get all properties",
				"limit", limit,
				"offset", offset,
				"error", err,
			)
			errFind = apperrors.Internal("Failed to retrieve properties", err)
		}
	}()
	wg.Wait()

	if errCount != nil {
		return nil, 0, errCount
	}
	if errFind != nil {
		return nil, 0, errFind
	}

	return properties, count, nil
}

func (s *propertyService) GetByOwner(ctx context.Context, ownerID string) ([]*model.Property, error) {
	return s.list(ctx, "owner_id", ownerID, s.repo.FindByOwner)
}

func (s *propertyService) GetByAgent(ctx context.Context, agentID string) ([]*model.Property, error) {
	return s.list(ctx, "agent_id", agentID, s.repo.FindByAgent)
}

func (s *propertyService) GetByStatus(ctx context.Context, status string) ([]*model.Property, error) {
	normalized := model.NormalizePropertyStatus(status)
	if !model.IsPropertyStatus(normalized) {
		return nil, apperrors.InvalidInput(fmt.Sprintf("unknown property status %q", status))
	}
	return s.list(ctx, "status", normalized, s.repo.FindByStatus)
}

func (s *propertyService) Search(ctx context.Context, term string) ([]*model.Property, error) {
	term = sanitizer.TrimAndNormalize(term)
	if term == "" {
		return nil, apperrors.InvalidInput("Search term cannot be empty")
	}
	return s.list(ctx, "term", term, s.repo.Search)
}

func (s *propertyService) list(
	ctx context.Context,
	field, value string,
	find func(context.Context, string) ([]*model.Property, error),
) ([]*model.Property, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return nil, apperrors.InvalidInput(fmt.Sprintf("%s cannot be empty", field))
	}

	properties, err := find(ctx, value)
	if err != nil {
		s.cfg.Log.Error("Failed to list properties",
			field, value,
			"error", err,
		)
		return nil, apperrors.Internal("Failed to retrieve properties", err)
	}

	s.cfg.Log.Debug("Properties listed",
		field, value,
		"results_count", len(properties),
	)
	return properties, nil
}

// Update replaces every mutable field. Media is managed through the
// dedicated image and video operations and is left untouched.
func (s *propertyService) Update(ctx context.Context, id string, p *model.Property) (*model.Property, error) {
	if id == "" {
		return nil, apperrors.InvalidInput("Property ID cannot be empty")
	}
	if p == nil {
		return nil, apperrors.InvalidInput("Property body cannot be empty")
	}

	existing, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, s.translateError(err, id, "Failed to check property existence", "Failed to retrieve property")
	}

	p.ID = existing.ID
	p.PropertyNo = existing.PropertyNo
	p.CreatedAt = existing.CreatedAt
	p.Images, p.Videos = nil, nil
	s.sanitize(p)
	if p.ListedAt == nil {
		p.ListedAt = existing.ListedAt
	}

	if err := s.validator.Validate(p); err != nil {
		s.cfg.Log.Warn("Property validation failed",
			"id", id,
			"error", err,
		)
		return nil, apperrors.Validation("Property validation failed", map[string]any{
			"error": err.Error(),
		})
	}

	if err := s.checkReferences(ctx, p); err != nil {
		return nil, err
	}

	if err := s.repo.Update(ctx, id, p); err != nil {
		return nil, s.translateError(err, id, "Failed to update property", "Failed to update property")
	}

	updated, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, s.translateError(err, id, "Failed to reload property", "Failed to retrieve property")
	}

	s.cfg.Log.Info("Property updated successfully",
		"id", id,
		"status", updated.Status,
	)
	s.events.Publish(ctx, events.PropertyUpdated, id, updated)
	return updated, nil
}

func (s *propertyService) Delete(ctx context.Context, id string) (model.PropertyCascade, error) {
	if id == "" {
		return model.PropertyCascade{}, apperrors.InvalidInput("Property ID cannot be empty")
	}

	cascade, err := s.repo.Delete(ctx, id)
	if err != nil {
		return model.PropertyCascade{}, s.translateError(err, id, "Failed to delete property", "Failed to delete property")
	}

	s.cfg.Log.Info("Property deleted successfully",
		"id", id,
		"images", cascade.Images,
		"videos", cascade.Videos,
		"schedules", cascade.Schedules,
		"wishlists", cascade.Wishlists,
	)
	s.events.Publish(ctx, events.PropertyDeleted, id, cascade)
	return cascade, nil
}

func (s *propertyService) AddImages(ctx context.Context, id string, images []model.PropertyImage) ([]model.PropertyImage, error) {
	if len(images) == 0 {
		return nil, apperrors.InvalidInput("At least one image must be provided")
	}
	return s.saveImages(ctx, id, images, s.repo.AddImages)
}

func (s *propertyService) ReplaceImages(ctx context.Context, id string, images []model.PropertyImage) ([]model.PropertyImage, error) {
	if images == nil {
		images = []model.PropertyImage{}
	}
	return s.saveImages(ctx, id, images, s.repo.ReplaceImages)
}

func (s *propertyService) saveImages(
	ctx context.Context,
	id string,
	images []model.PropertyImage,
	save func(context.Context, string, []model.PropertyImage) ([]model.PropertyImage, error),
) ([]model.PropertyImage, error) {
	if id == "" {
		return nil, apperrors.InvalidInput("Property ID cannot be empty")
	}
	sanitizeImages(images)
	if err := s.validator.ValidateImages(images); err != nil {
		return nil, apperrors.Validation("Image validation failed", map[string]any{
			"error": err.Error(),
		})
	}

	saved, err := save(ctx, id, images)
	if err != nil {
		return nil, s.translateError(err, id, "Failed to save property images", "Failed to save property images")
	}

	s.cfg.Log.Info("Property images saved", "id", id, "count", len(saved))
	s.events.Publish(ctx, events.PropertyUpdated, id, map[string]any{"id": id, "images": saved})
	return saved, nil
}

func (s *propertyService) AddVideos(ctx context.Context, id string, videos []model.PropertyVideo) ([]model.PropertyVideo, error) {
	if len(videos) == 0 {
		return nil, apperrors.InvalidInput("At least one video must be provided")
	}
	return s.saveVideos(ctx, id, videos, s.repo.AddVideos)
}

func (s *propertyService) ReplaceVideos(ctx context.Context, id string, videos []model.PropertyVideo) ([]model.PropertyVideo, error) {
	if videos == nil {
		videos = []model.PropertyVideo{}
	}
	return s.saveVideos(ctx, id, videos, s.repo.ReplaceVideos)
}

func (s *propertyService) saveVideos(
	ctx context.Context,
	id string,
	videos []model.PropertyVideo,
	save func(context.Context, string, []model.PropertyVideo) ([]model.PropertyVideo, error),
) ([]model.PropertyVideo, error) {
	if id == "" {
		return nil, apperrors.InvalidInput("Property ID cannot be empty")
	}
	sanitizeVideos(videos)
	if err := s.validator.ValidateVideos(videos); err != nil {
		return nil, apperrors.Validation("Video validation failed", map[string]any{
			"error": err.Error(),
		})
	}

	saved, err := save(ctx, id, videos)
	if err != nil {
		return nil, s.translateError(err, id, "Failed to save property videos", "Failed to save property videos")
	}

	s.cfg.Log.Info("Property videos saved", "id", id, "count", len(saved))
	s.events.Publish(ctx, events.PropertyUpdated, id, map[string]any{"id": id, "videos": saved})
	return saved, nil
}

func (s *propertyService) translateError(err error, id, logMsg, userMsg string) error {
	if errors.Is(err, propertyerrors.ErrNotFound) {
		return apperrors.NotFoundWithID("Property", id)
	}
	if errors.Is(err, propertyerrors.ErrInvalidID) {
		return apperrors.InvalidInput("Invalid property ID format")
	}
	s.cfg.Log.Error(logMsg,
		"id", id,
		"error", err,
	)
	return apperrors.Internal(userMsg, err)
}
