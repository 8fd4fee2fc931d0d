package notification

import (
	"context"
	"errors"
	"fmt"

	"github.com/alanyang/mission-control/internal/domain/apperr"
	domainnotification "github.com/alanyang/mission-control/internal/domain/notification"
	portnotification "github.com/alanyang/mission-control/internal/port/notification"
)

var ErrNotificationNotFound = apperr.New(apperr.NotFound, "Notification not found")

// Service is the polling side of mentions: agents fetch what is pending and
// acknowledge it.
type Service struct {
	repo portnotification.Repository
}

func NewService(repo portnotification.Repository) *Service {
	return &Service{repo: repo}
}

func (s *Service) Undelivered(ctx context.Context, agentID string) ([]domainnotification.Notification, error) {
	notifs, err := s.repo.ListUndelivered(ctx, agentID)
	if err != nil {
		return nil, fmt.Errorf("list undelivered notifications: %w", err)
	}
	return notifs, nil
}

// MarkDelivered is idempotent for a known id.
func (s *Service) MarkDelivered(ctx context.Context, id string) error {
	if err := s.repo.MarkDelivered(ctx, id); err != nil {
		if errors.Is(err, apperr.ErrNotFound) {
			return ErrNotificationNotFound
		}
		return fmt.Errorf("mark notification delivered: %w", err)
	}
	return nil
}
