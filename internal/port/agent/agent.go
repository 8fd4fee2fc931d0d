package agent

import (
	"context"

	domainagent "github.com/alanyang/mission-control/internal/domain/agent"
)

// Repository manages agent state in the database.
type Repository interface {
	// Upsert inserts or replaces name, role and status for the agent's id.
	Upsert(ctx context.Context, a domainagent.Agent) (domainagent.Agent, error)
	GetByID(ctx context.Context, id string) (domainagent.Agent, error)
	List(ctx context.Context) ([]domainagent.Agent, error)

	// Update applies a non-empty partial change and stamps last_active_at.
	Update(ctx context.Context, id string, u domainagent.Update) error
}
