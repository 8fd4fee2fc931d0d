package agent

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	domainagent "github.com/alanyang/mission-control/internal/domain/agent"
	"github.com/alanyang/mission-control/internal/domain/apperr"
	portagent "github.com/alanyang/mission-control/internal/port/agent"
	porttask "github.com/alanyang/mission-control/internal/port/task"
)

var ErrAgentNotFound = apperr.New(apperr.NotFound, "Agent not found")

// Service manages the agent roster. Agents are seeded out of band and only
// their status and current task change at runtime.
type Service struct {
	repo  portagent.Repository
	tasks porttask.Repository
}

func NewService(repo portagent.Repository, tasks porttask.Repository) *Service {
	return &Service{repo: repo, tasks: tasks}
}

// Seed upserts each agent by id and returns the stored records.
func (s *Service) Seed(ctx context.Context, agents []domainagent.Agent) ([]domainagent.Agent, error) {
	seeded := make([]domainagent.Agent, 0, len(agents))
	for _, a := range agents {
		if a.Name == "" {
			return nil, apperr.New(apperr.Invalid, fmt.Sprintf("agent %q has no name", a.ID))
		}
		stored, err := s.repo.Upsert(ctx, domainagent.New(a.ID, a.Name, a.Role, a.Status))
		if err != nil {
			return nil, fmt.Errorf("seed agent %s: %w", a.ID, err)
		}
		seeded = append(seeded, stored)
	}
	return seeded, nil
}

func (s *Service) List(ctx context.Context) ([]domainagent.Agent, error) {
	agents, err := s.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list agents: %w", err)
	}
	return agents, nil
}

// Get returns the agent with its current task summary. A dangling
// current_task_id is reported as no current task.
func (s *Service) Get(ctx context.Context, id string) (domainagent.Detail, error) {
	a, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, apperr.ErrNotFound) {
			return domainagent.Detail{}, ErrAgentNotFound
		}
		return domainagent.Detail{}, fmt.Errorf("get agent: %w", err)
	}

	d := domainagent.Detail{Agent: a}
	if a.CurrentTaskID == nil {
		return d, nil
	}
	t, err := s.tasks.GetByID(ctx, *a.CurrentTaskID)
	switch {
	case err == nil:
		d.CurrentTask = &domainagent.TaskRef{ID: t.ID, Title: t.Title}
	case errors.Is(err, apperr.ErrNotFound):
		slog.WarnContext(ctx, "agent points at missing task", "agent_id", a.ID, "task_id", *a.CurrentTaskID)
	default:
		return domainagent.Detail{}, fmt.Errorf("get current task for agent %s: %w", a.ID, err)
	}
	return d, nil
}

// Update applies a partial change and reports whether anything was written.
// Agent updates are not recorded in the activity log.
func (s *Service) Update(ctx context.Context, id string, u domainagent.Update) (bool, error) {
	if u.IsEmpty() {
		return false, nil
	}
	if err := s.repo.Update(ctx, id, u); err != nil {
		if errors.Is(err, apperr.ErrNotFound) {
			return false, ErrAgentNotFound
		}
		return false, fmt.Errorf("update agent: %w", err)
	}
	return true, nil
}
