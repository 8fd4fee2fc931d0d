package message

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	domainactivity "github.com/alanyang/mission-control/internal/domain/activity"
	"github.com/alanyang/mission-control/internal/domain/apperr"
	"github.com/alanyang/mission-control/internal/domain/effect"
	domainmessage "github.com/alanyang/mission-control/internal/domain/message"
	domainnotification "github.com/alanyang/mission-control/internal/domain/notification"
	portagent "github.com/alanyang/mission-control/internal/port/agent"
	portmessage "github.com/alanyang/mission-control/internal/port/message"
	porttask "github.com/alanyang/mission-control/internal/port/task"
)

var (
	ErrTaskNotFound  = apperr.New(apperr.NotFound, "Task not found")
	ErrAgentNotFound = apperr.New(apperr.NotFound, "Agent not found")
)

// Service posts task comments and fans @mentions out to notifications.
type Service struct {
	repo   portmessage.Repository
	tasks  porttask.Repository
	agents portagent.Repository
}

func NewService(repo portmessage.Repository, tasks porttask.Repository, agents portagent.Repository) *Service {
	return &Service{repo: repo, tasks: tasks, agents: agents}
}

// Post stores the message and returns the message_sent activity followed by
// one notification per @mention that names an existing agent id.
func (s *Service) Post(ctx context.Context, taskID, fromAgentID, content string) (effect.Result[domainmessage.Message], error) {
	if _, err := s.tasks.GetByID(ctx, taskID); err != nil {
		if errors.Is(err, apperr.ErrNotFound) {
			return effect.Result[domainmessage.Message]{}, ErrTaskNotFound
		}
		return effect.Result[domainmessage.Message]{}, fmt.Errorf("post message: %w", err)
	}
	poster, err := s.agents.GetByID(ctx, fromAgentID)
	if err != nil {
		if errors.Is(err, apperr.ErrNotFound) {
			return effect.Result[domainmessage.Message]{}, ErrAgentNotFound
		}
		return effect.Result[domainmessage.Message]{}, fmt.Errorf("post message: %w", err)
	}

	created, err := s.repo.Create(ctx, domainmessage.New(taskID, fromAgentID, content))
	if err != nil {
		return effect.Result[domainmessage.Message]{}, fmt.Errorf("post message: %w", err)
	}

	pending := []effect.Effect{effect.LogActivity(domainactivity.New(
		domainactivity.TypeMessageSent, fromAgentID, taskID, poster.Name+" posted a comment",
	))}
	body := domainnotification.MentionContent(poster.Name, content)
	for _, handle := range domainmessage.Mentions(content) {
		mentioned, err := s.agents.GetByID(ctx, handle)
		if err != nil {
			if !errors.Is(err, apperr.ErrNotFound) {
				slog.WarnContext(ctx, "skipping mention after lookup failure", "mention", handle, "task_id", taskID, "error", err)
			}
			continue
		}
		pending = append(pending, effect.Notify(domainnotification.New(mentioned.ID, taskID, body)))
	}

	return effect.Result[domainmessage.Message]{Value: created, Pending: pending}, nil
}

// List returns the task's thread oldest first.
func (s *Service) List(ctx context.Context, taskID string) ([]domainmessage.Entry, error) {
	entries, err := s.repo.ListByTask(ctx, taskID)
	if err != nil {
		return nil, fmt.Errorf("list messages: %w", err)
	}
	return entries, nil
}
