package repository

import (
	"context"

	"homeview/pkg/config"
	"homeview/pkg/model"
)

type MemberRepository interface {
	CreateAgent(ctx context.Context, a *model.Agent) error
	CreateClient(ctx context.Context, c *model.Client) error
	FindMember(ctx context.Context, id string) (*model.Member, error)
	FindAgent(ctx context.Context, id string) (*model.Agent, error)
	FindClient(ctx context.Context, id string) (*model.Client, error)
	FindAgents(ctx context.Context, limit int, offset int64) ([]*model.Agent, error)
	FindClients(ctx context.Context, limit int, offset int64) ([]*model.Client, error)
	CountAgents(ctx context.Context) (int64, error)
	CountClients(ctx context.Context) (int64, error)
	UpdateStatus(ctx context.Context, memberID string, status model.MemberStatus) error
	UpdateVerification(ctx context.Context, agentID, status string) error
	// Delete removes the member together with its agent or client profile.
	Delete(ctx context.Context, memberID string) error
}

// New returns the repository for the configured store driver.
func New(cfg *config.Config) MemberRepository {
	if cfg.IsMongo() {
		return NewMongoMemberRepository(cfg)
	}
	return NewGormMemberRepository(cfg.Client.SQL)
}
