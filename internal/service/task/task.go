package task

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	domainactivity "github.com/alanyang/mission-control/internal/domain/activity"
	"github.com/alanyang/mission-control/internal/domain/apperr"
	"github.com/alanyang/mission-control/internal/domain/effect"
	domaintask "github.com/alanyang/mission-control/internal/domain/task"
	portagent "github.com/alanyang/mission-control/internal/port/agent"
	porttask "github.com/alanyang/mission-control/internal/port/task"
)

var (
	ErrTaskNotFound    = apperr.New(apperr.NotFound, "Task not found")
	ErrAgentNotFound   = apperr.New(apperr.NotFound, "Agent not found")
	ErrAlreadyAssigned = apperr.New(apperr.Conflict, "Already assigned")
)

// Service owns task lifecycle: creation, partial updates and claims.
// Mutations return the activity they owe instead of writing it.
type Service struct {
	repo   porttask.Repository
	agents portagent.Repository
}

func NewService(repo porttask.Repository, agents portagent.Repository) *Service {
	return &Service{repo: repo, agents: agents}
}

type CreateInput struct {
	Title            string
	Description      string
	Status           domaintask.Status
	Priority         domaintask.Priority
	Labels           []string
	CreatedByAgentID string
}

func (s *Service) Create(ctx context.Context, in CreateInput) (effect.Result[domaintask.Task], error) {
	if err := s.requireAgent(ctx, in.CreatedByAgentID); err != nil {
		return effect.Result[domaintask.Task]{}, fmt.Errorf("create task: %w", err)
	}

	t := domaintask.New(in.Title, in.Description, in.Status, in.Priority, in.Labels, in.CreatedByAgentID)
	created, err := s.repo.Create(ctx, t)
	if err != nil {
		return effect.Result[domaintask.Task]{}, fmt.Errorf("create task: %w", err)
	}

	return effect.Result[domaintask.Task]{
		Value: created,
		Pending: []effect.Effect{effect.LogActivity(domainactivity.New(
			domainactivity.TypeTaskCreated, created.CreatedByAgentID, created.ID, "Created task: "+created.Title,
		))},
	}, nil
}

func (s *Service) Get(ctx context.Context, id string) (domaintask.Detail, error) {
	t, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, apperr.ErrNotFound) {
			return domaintask.Detail{}, ErrTaskNotFound
		}
		return domaintask.Detail{}, fmt.Errorf("get task: %w", err)
	}
	return s.withAssignees(ctx, t)
}

// List returns tasks most recently updated first, each with its assignees.
func (s *Service) List(ctx context.Context, filters domaintask.ListFilters) ([]domaintask.Detail, error) {
	tasks, err := s.repo.List(ctx, filters)
	if err != nil {
		return nil, fmt.Errorf("list tasks: %w", err)
	}
	details := make([]domaintask.Detail, 0, len(tasks))
	for _, t := range tasks {
		d, err := s.withAssignees(ctx, t)
		if err != nil {
			return nil, err
		}
		details = append(details, d)
	}
	return details, nil
}

// Update applies a partial change. Value reports whether anything was
// written; an empty update touches nothing and owes no activity.
func (s *Service) Update(ctx context.Context, id string, u domaintask.Update) (effect.Result[bool], error) {
	if u.IsEmpty() {
		return effect.Result[bool]{}, nil
	}
	if err := s.repo.Update(ctx, id, u); err != nil {
		if errors.Is(err, apperr.ErrNotFound) {
			return effect.Result[bool]{}, ErrTaskNotFound
		}
		return effect.Result[bool]{}, fmt.Errorf("update task: %w", err)
	}

	return effect.Result[bool]{
		Value: true,
		Pending: []effect.Effect{effect.LogActivity(domainactivity.New(
			domainactivity.TypeTaskUpdated, "", id, "Task updated: "+strings.Join(u.Fields(), ", "),
		))},
	}, nil
}

// Claim assigns the agent to the task and moves the task to in_progress.
// A repeat claim by the same agent is rejected by the store's unique key.
func (s *Service) Claim(ctx context.Context, taskID, agentID string) (effect.Result[domaintask.Assignment], error) {
	if _, err := s.repo.GetByID(ctx, taskID); err != nil {
		if errors.Is(err, apperr.ErrNotFound) {
			return effect.Result[domaintask.Assignment]{}, ErrTaskNotFound
		}
		return effect.Result[domaintask.Assignment]{}, fmt.Errorf("claim task: %w", err)
	}
	if err := s.requireAgent(ctx, agentID); err != nil {
		return effect.Result[domaintask.Assignment]{}, fmt.Errorf("claim task: %w", err)
	}

	a := domaintask.Assignment{TaskID: taskID, AgentID: agentID, AssignedAt: time.Now().UTC()}
	if err := s.repo.Assign(ctx, a); err != nil {
		if errors.Is(err, apperr.ErrConflict) {
			return effect.Result[domaintask.Assignment]{}, ErrAlreadyAssigned
		}
		return effect.Result[domaintask.Assignment]{}, fmt.Errorf("claim task: %w", err)
	}

	status := domaintask.StatusInProgress
	if err := s.repo.Update(ctx, taskID, domaintask.Update{Status: &status}); err != nil {
		return effect.Result[domaintask.Assignment]{}, fmt.Errorf("claim task: set status: %w", err)
	}

	return effect.Result[domaintask.Assignment]{
		Value: a,
		Pending: []effect.Effect{effect.LogActivity(domainactivity.New(
			domainactivity.TypeTaskClaimed, agentID, taskID, "Claimed task",
		))},
	}, nil
}

func (s *Service) withAssignees(ctx context.Context, t domaintask.Task) (domaintask.Detail, error) {
	assignees, err := s.repo.Assignees(ctx, t.ID)
	if err != nil {
		return domaintask.Detail{}, fmt.Errorf("load assignees for task %s: %w", t.ID, err)
	}
	if assignees == nil {
		assignees = []string{}
	}
	return domaintask.Detail{Task: t, Assignees: assignees}, nil
}

func (s *Service) requireAgent(ctx context.Context, id string) error {
	if _, err := s.agents.GetByID(ctx, id); err != nil {
		if errors.Is(err, apperr.ErrNotFound) {
			return ErrAgentNotFound
		}
		return fmt.Errorf("look up agent %s: %w", id, err)
	}
	return nil
}
