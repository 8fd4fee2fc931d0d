package document

import (
	"context"
	"errors"
	"fmt"

	domainactivity "github.com/alanyang/mission-control/internal/domain/activity"
	"github.com/alanyang/mission-control/internal/domain/apperr"
	domaindocument "github.com/alanyang/mission-control/internal/domain/document"
	"github.com/alanyang/mission-control/internal/domain/effect"
	portagent "github.com/alanyang/mission-control/internal/port/agent"
	portdocument "github.com/alanyang/mission-control/internal/port/document"
	porttask "github.com/alanyang/mission-control/internal/port/task"
)

var (
	ErrTaskNotFound  = apperr.New(apperr.NotFound, "Task not found")
	ErrAgentNotFound = apperr.New(apperr.NotFound, "Agent not found")
)

type Service struct {
	repo   portdocument.Repository
	tasks  porttask.Repository
	agents portagent.Repository
}

func NewService(repo portdocument.Repository, tasks porttask.Repository, agents portagent.Repository) *Service {
	return &Service{repo: repo, tasks: tasks, agents: agents}
}

type CreateInput struct {
	Title            string
	Content          string
	Type             string
	TaskID           string
	CreatedByAgentID string
}

func (s *Service) Create(ctx context.Context, in CreateInput) (effect.Result[domaindocument.Document], error) {
	if _, err := s.tasks.GetByID(ctx, in.TaskID); err != nil {
		if errors.Is(err, apperr.ErrNotFound) {
			return effect.Result[domaindocument.Document]{}, ErrTaskNotFound
		}
		return effect.Result[domaindocument.Document]{}, fmt.Errorf("create document: %w", err)
	}
	if _, err := s.agents.GetByID(ctx, in.CreatedByAgentID); err != nil {
		if errors.Is(err, apperr.ErrNotFound) {
			return effect.Result[domaindocument.Document]{}, ErrAgentNotFound
		}
		return effect.Result[domaindocument.Document]{}, fmt.Errorf("create document: %w", err)
	}

	created, err := s.repo.Create(ctx, domaindocument.New(in.Title, in.Content, in.Type, in.TaskID, in.CreatedByAgentID))
	if err != nil {
		return effect.Result[domaindocument.Document]{}, fmt.Errorf("create document: %w", err)
	}

	return effect.Result[domaindocument.Document]{
		Value: created,
		Pending: []effect.Effect{effect.LogActivity(domainactivity.New(
			domainactivity.TypeDocumentCreated, created.CreatedByAgentID, created.TaskID, "Created document: "+created.Title,
		))},
	}, nil
}

func (s *Service) List(ctx context.Context, filters domaindocument.ListFilters) ([]domaindocument.Document, error) {
	docs, err := s.repo.List(ctx, filters)
	if err != nil {
		return nil, fmt.Errorf("list documents: %w", err)
	}
	return docs, nil
}
