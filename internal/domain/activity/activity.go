package activity

import (
	"time"

	"github.com/alanyang/mission-control/internal/domain/id"
)

// Type is open-ended; clients may post any value. The constants are the
// ones the server emits on its own.
type Type string

const (
	TypeTaskCreated     Type = "task_created"
	TypeTaskUpdated     Type = "task_updated"
	TypeTaskClaimed     Type = "task_claimed"
	TypeMessageSent     Type = "message_sent"
	TypeDocumentCreated Type = "document_created"
)

// DefaultLimit applies when a list request gives no usable limit.
const DefaultLimit = 50

type Activity struct {
	ID        string    `json:"id"`
	Type      Type      `json:"type"`
	AgentID   *string   `json:"agent_id"`
	TaskID    *string   `json:"task_id"`
	Message   string    `json:"message"`
	CreatedAt time.Time `json:"created_at"`
}

// New builds an activity. An empty agentID or taskID is stored as null.
func New(t Type, agentID, taskID, message string) Activity {
	return Activity{
		ID:        id.New(),
		Type:      t,
		AgentID:   optional(agentID),
		TaskID:    optional(taskID),
		Message:   message,
		CreatedAt: time.Now().UTC(),
	}
}

// Entry is an activity joined with the acting agent's name, if any.
type Entry struct {
	Activity
	AgentName *string `json:"agent_name"`
}

// Limit returns n, or DefaultLimit when n is not positive.
func Limit(n int) int {
	if n <= 0 {
		return DefaultLimit
	}
	return n
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
