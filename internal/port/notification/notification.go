package notification

import (
	"context"

	domainnotification "github.com/alanyang/mission-control/internal/domain/notification"
)

type Repository interface {
	Create(ctx context.Context, n domainnotification.Notification) (domainnotification.Notification, error)
	// ListUndelivered returns the agent's pending notifications, newest first.
	ListUndelivered(ctx context.Context, agentID string) ([]domainnotification.Notification, error)
	MarkDelivered(ctx context.Context, id string) error
}
