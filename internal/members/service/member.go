package service

import (
	"context"
	"errors"
	"strings"
	"sync"

	membererrors "homeview/internal/members/errors"
	"homeview/internal/members/repository"
	"homeview/internal/members/validator"
	"homeview/pkg/config"
	apperrors "homeview/pkg/errors"
	"homeview/pkg/events"
	"homeview/pkg/locale"
	"homeview/pkg/model"
	"homeview/pkg/sanitizer"

	"github.com/google/uuid"
)

type MemberService interface {
	CreateAgent(ctx context.Context, a *model.Agent) error
	CreateClient(ctx context.Context, c *model.Client) error
	GetMember(ctx context.Context, id string) (*model.Member, error)
	GetAgent(ctx context.Context, id string) (*model.Agent, error)
	GetClient(ctx context.Context, id string) (*model.Client, error)
	ListAgents(ctx context.Context, limit int, offset int64) ([]*model.Agent, int64, error)
	ListClients(ctx context.Context, limit int, offset int64) ([]*model.Client, int64, error)
	UpdateStatus(ctx context.Context, memberID string, update *model.MemberStatusUpdate) (*model.Member, error)
	VerifyAgent(ctx context.Context, agentID string, update *model.AgentVerification) (*model.Agent, error)
	Delete(ctx context.Context, memberID string) error
}

type memberService struct {
	repo      repository.MemberRepository
	validator *validator.MemberValidator
	events    events.Publisher
	cfg       *config.Config
}

func NewMemberService(
	repo repository.MemberRepository,
	validator *validator.MemberValidator,
	publisher events.Publisher,
	cfg *config.Config,
) MemberService {
	return &memberService{
		repo:      repo,
		validator: validator,
		events:    publisher,
		cfg:       cfg,
	}
}

func (s *memberService) CreateAgent(ctx context.Context, a *model.Agent) error {
	if a == nil || a.Member == nil {
		return apperrors.InvalidInput("Agent must include member details")
	}

	s.prepareMember(a.Member, model.RoleAgent)
	a.LicenseNumber = strings.ToUpper(sanitizer.TrimAndNormalize(a.LicenseNumber))
	a.Specialization = sanitizer.TrimAndNormalize(a.Specialization)
	a.VerificationStatus = strings.ToLower(strings.TrimSpace(a.VerificationStatus))
	if a.VerificationStatus == "" {
		a.VerificationStatus = model.VerificationPending
	}

	if err := s.validator.ValidateAgent(a); err != nil {
		s.cfg.Log.Warn("Agent validation failed",
			"username", a.Member.Username,
			"error", err,
		)
		return apperrors.Validation("Agent validation failed", map[string]any{
			"error": err.Error(),
		})
	}

	if err := s.repo.CreateAgent(ctx, a); err != nil {
		return s.createError(err, a.Member)
	}

	s.cfg.Log.Info("Agent created successfully",
		"id", a.ID,
		"member_id", a.MemberID,
		"member_no", a.Member.MemberNo,
		"country", phoneCountry(a.Member.Phone),
	)
	s.events.Publish(ctx, events.MemberCreated, a.MemberID, a)
	return nil
}

func (s *memberService) CreateClient(ctx context.Context, c *model.Client) error {
	if c == nil || c.Member == nil {
		return apperrors.InvalidInput("Client must include member details")
	}

	s.prepareMember(c.Member, model.RoleClient)
	c.Address = sanitizer.TrimAndNormalize(c.Address)
	c.City = sanitizer.NormalizeName(c.City)
	c.State = sanitizer.NormalizeName(c.State)
	c.ZipCode = strings.TrimSpace(c.ZipCode)

	if err := s.validator.ValidateClient(c); err != nil {
		s.cfg.Log.Warn("Client validation failed",
			"username", c.Member.Username,
			"error", err,
		)
		return apperrors.Validation("Client validation failed", map[string]any{
			"error": err.Error(),
		})
	}

	if err := s.repo.CreateClient(ctx, c); err != nil {
		return s.createError(err, c.Member)
	}

	s.cfg.Log.Info("Client created successfully",
		"id", c.ID,
		"member_id", c.MemberID,
		"member_no", c.Member.MemberNo,
		"country", phoneCountry(c.Member.Phone),
	)
	s.events.Publish(ctx, events.MemberCreated, c.MemberID, c)
	return nil
}

// prepareMember normalises the identity fields and fills server-owned ones.
// A phone that cannot be parsed is kept as typed so validation reports it.
func (s *memberService) prepareMember(m *model.Member, role model.MemberRole) {
	m.ID = ""
	m.MemberNo = uuid.New().String()
	m.Role = role
	m.UpdatedAt = nil
	m.Email = sanitizer.NormalizeEmail(m.Email)
	m.Username = sanitizer.NormalizeUsername(m.Username)
	m.FirstName = sanitizer.NormalizeName(m.FirstName)
	m.LastName = sanitizer.NormalizeName(m.LastName)
	if phone := sanitizer.NormalizePhone(m.Phone); phone != "" {
		m.Phone = phone
	} else {
		m.Phone = strings.TrimSpace(m.Phone)
	}
	if m.ProfilePictureURL != "" {
		m.ProfilePictureURL = sanitizer.NormalizeURL(m.ProfilePictureURL)
	}
	m.Status = model.MemberStatus(strings.ToLower(strings.TrimSpace(string(m.Status))))
	if m.Status == "" {
		m.Status = model.MemberActive
	}
}

func phoneCountry(phone string) string {
	if country := locale.CountryOfPhone(phone); country != nil {
		return country.Code
	}
	return ""
}

func (s *memberService) createError(err error, m *model.Member) error {
	if errors.Is(err, membererrors.ErrDuplicate) {
		s.cfg.Log.Warn("Member already exists",
			"email", m.Email,
			"username", m.Username,
		)
		return apperrors.Conflict("A member with this email, username or license already exists")
	}
	s.cfg.Log.Error("Failed to create member",
		"username", m.Username,
		"error", err,
	)
	return apperrors.Internal("Failed to create member", err)
}

func (s *memberService) GetMember(ctx context.Context, id string) (*model.Member, error) {
	if id == "" {
		return nil, apperrors.InvalidInput("Member ID cannot be empty")
	}
	m, err := s.repo.FindMember(ctx, id)
	if err != nil {
		return nil, s.translateError(err, "Member", id, "Failed to retrieve member")
	}
	return m, nil
}

func (s *memberService) GetAgent(ctx context.Context, id string) (*model.Agent, error) {
	if id == "" {
		return nil, apperrors.InvalidInput("Agent ID cannot be empty")
	}
	a, err := s.repo.FindAgent(ctx, id)
	if err != nil {
		return nil, s.translateError(err, "Agent", id, "Failed to retrieve agent")
	}
	return a, nil
}

func (s *memberService) GetClient(ctx context.Context, id string) (*model.Client, error) {
	if id == "" {
		return nil, apperrors.InvalidInput("Client ID cannot be empty")
	}
	c, err := s.repo.FindClient(ctx, id)
	if err != nil {
		return nil, s.translateError(err, "Client", id, "Failed to retrieve client")
	}
	return c, nil
}

func (s *memberService) ListAgents(ctx context.Context, limit int, offset int64) ([]*model.Agent, int64, error) {
	return listPage(ctx, s, "agents", limit, offset, s.repo.CountAgents, s.repo.FindAgents)
}

func (s *memberService) ListClients(ctx context.Context, limit int, offset int64) ([]*model.Client, int64, error) {
	return listPage(ctx, s, "clients", limit, offset, s.repo.CountClients, s.repo.FindClients)
}

func listPage[T any](
	ctx context.Context,
	s *memberService,
	kind string,
	limit int,
	offset int64,
	count func(context.Context) (int64, error),
	find func(context.Context, int, int64) ([]T, error),
) ([]T, int64, error) {
	limit = config.NormalizePaginationLimit(limit)
	offset = config.NormalizeOffset(offset)

	var total int64
	var items []T
	var errCount, errFind error
	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		var err error
		ctx, cancel := context.WithTimeout(ctx, s.cfg.ReadTimeout)
		defer cancel()
		total, err = count(ctx)
		if err != nil {
			s.cfg.Log.Error("Failed to count "+kind, "error", err)
			errCount = apperrors.Internal("Failed to count "+kind, err)
		}
	}()

	go func() {
		defer wg.Done()
		var err error
		ctx, cancel := context.WithTimeout(ctx, s.cfg.ReadTimeout)
		defer cancel()
		items, err = find(ctx, limit, offset)
		if err != nil {
			s.cfg.Log.Error("Failed to list "+kind,
				"limit", limit,
				"offset", offset,
				"error", err,
			)
			errFind = apperrors.Internal("Failed to retrieve "+kind, err)
		}
	}()
	wg.Wait()

	if errCount != nil {
		return nil, 0, errCount
	}
	if errFind != nil {
		return nil, 0, errFind
	}
	return items, total, nil
}

func (s *memberService) UpdateStatus(ctx context.Context, memberID string, update *model.MemberStatusUpdate) (*model.Member, error) {
	if memberID == "" {
		return nil, apperrors.InvalidInput("Member ID cannot be empty")
	}
	if update == nil {
		return nil, apperrors.InvalidInput("Status update cannot be empty")
	}

	update.Status = strings.ToLower(strings.TrimSpace(update.Status))
	if err := s.validator.ValidateStatus(update); err != nil {
		return nil, apperrors.Validation("Member status validation failed", map[string]any{
			"error": err.Error(),
		})
	}

	if err := s.repo.UpdateStatus(ctx, memberID, model.MemberStatus(update.Status)); err != nil {
		return nil, s.translateError(err, "Member", memberID, "Failed to update member status")
	}

	m, err := s.repo.FindMember(ctx, memberID)
	if err != nil {
		return nil, s.translateError(err, "Member", memberID, "Failed to retrieve member")
	}

	s.cfg.Log.Info("Member status updated",
		"id", memberID,
		"status", m.Status,
	)
	s.events.Publish(ctx, events.MemberUpdated, memberID, m)
	return m, nil
}

func (s *memberService) VerifyAgent(ctx context.Context, agentID string, update *model.AgentVerification) (*model.Agent, error) {
	if agentID == "" {
		return nil, apperrors.InvalidInput("Agent ID cannot be empty")
	}
	if update == nil {
		return nil, apperrors.InvalidInput("Verification cannot be empty")
	}

	update.VerificationStatus = strings.ToLower(strings.TrimSpace(update.VerificationStatus))
	if err := s.validator.ValidateVerification(update); err != nil {
		return nil, apperrors.Validation("Agent verification validation failed", map[string]any{
			"error": err.Error(),
		})
	}

	if err := s.repo.UpdateVerification(ctx, agentID, update.VerificationStatus); err != nil {
		return nil, s.translateError(err, "Agent", agentID, "Failed to update agent verification")
	}

	a, err := s.repo.FindAgent(ctx, agentID)
	if err != nil {
		return nil, s.translateError(err, "Agent", agentID, "Failed to retrieve agent")
	}

	s.cfg.Log.Info("Agent verification updated",
		"id", agentID,
		"verification_status", a.VerificationStatus,
	)
	s.events.Publish(ctx, events.MemberUpdated, a.MemberID, a)
	return a, nil
}

func (s *memberService) Delete(ctx context.Context, memberID string) error {
	if memberID == "" {
		return apperrors.InvalidInput("Member ID cannot be empty")
	}

	if err := s.repo.Delete(ctx, memberID); err != nil {
		return s.translateError(err, "Member", memberID, "Failed to delete member")
	}

	s.cfg.Log.Info("Member deleted successfully", "id", memberID)
	s.events.Publish(ctx, events.MemberDeleted, memberID, map[string]string{"id": memberID})
	return nil
}

func (s *memberService) translateError(err error, resource, id, userMsg string) error {
	if errors.Is(err, membererrors.ErrNotFound) {
		return apperrors.NotFoundWithID(resource, id)
	}
	if errors.Is(err, membererrors.ErrInvalidID) {
		return apperrors.InvalidInput("Invalid " + strings.ToLower(resource) + " ID format")
	}
	s.cfg.Log.Error(userMsg,
		"resource", resource,
		"id", id,
		"error", err,
	)
	return apperrors.Internal(userMsg, err)
}
