package notification

import (
	"time"

	"github.com/alanyang/mission-control/internal/domain/id"
)

type Notification struct {
	ID               string    `json:"id"`
	MentionedAgentID string    `json:"mentioned_agent_id"`
	TaskID           string    `json:"task_id"`
	Content          string    `json:"content"`
	Delivered        bool      `json:"delivered"`
	CreatedAt        time.Time `json:"created_at"`
}

func New(mentionedAgentID, taskID, content string) Notification {
	return Notification{
		ID:               id.New(),
		MentionedAgentID: mentionedAgentID,
		TaskID:           taskID,
		Content:          content,
		CreatedAt:        time.Now().UTC(),
	}
}

// MentionContent is the body of a notification raised by an @mention.
func MentionContent(posterName, content string) string {
	return posterName + " mentioned you: " + content
}
