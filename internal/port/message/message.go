package message

import (
	"context"

	domainmessage "github.com/alanyang/mission-control/internal/domain/message"
)

type Repository interface {
	Create(ctx context.Context, msg domainmessage.Message) (domainmessage.Message, error)
	// ListByTask returns the task's messages oldest first, joined with their authors.
	ListByTask(ctx context.Context, taskID string) ([]domainmessage.Entry, error)
}
