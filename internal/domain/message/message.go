package message

import (
	"regexp"
	"time"

	"github.com/alanyang/mission-control/internal/domain/id"
)

type Message struct {
	ID          string    `json:"id"`
	TaskID      string    `json:"task_id"`
	FromAgentID string    `json:"from_agent_id"`
	Content     string    `json:"content"`
	CreatedAt   time.Time `json:"created_at"`
}

func New(taskID, fromAgentID, content string) Message {
	return Message{
		ID:          id.New(),
		TaskID:      taskID,
		FromAgentID: fromAgentID,
		Content:     content,
		CreatedAt:   time.Now().UTC(),
	}
}

// Entry is a message joined with its author.
type Entry struct {
	Message
	AgentName string `json:"agent_name"`
	AgentRole string `json:"agent_role"`
}

var mentionPattern = regexp.MustCompile(`@(\w+)`)

// Mentions returns the handle of every @mention in content, in order.
// Repeated mentions are returned once per occurrence.
func Mentions(content string) []string {
	matches := mentionPattern.FindAllStringSubmatch(content, -1)
	handles := make([]string, 0, len(matches))
	for _, m := range matches {
		handles = append(handles, m[1])
	}
	return handles
}
