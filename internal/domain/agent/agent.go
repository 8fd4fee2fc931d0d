package agent

import (
	"time"

	"github.com/alanyang/mission-control/internal/domain/id"
)

// Status is free-form; the constants are the values the dashboard knows.
type Status string

const (
	StatusIdle    Status = "idle"
	StatusActive  Status = "active"
	StatusBlocked Status = "blocked"
	StatusOffline Status = "offline"
)

// Agent ids double as mention handles, so seeded agents usually carry
// readable ids such as "jarvis".
type Agent struct {
	ID            string     `json:"id" yaml:"id"`
	Name          string     `json:"name" yaml:"name"`
	Role          string     `json:"role" yaml:"role"`
	Status        Status     `json:"status" yaml:"status"`
	CurrentTaskID *string    `json:"current_task_id" yaml:"current_task_id,omitempty"`
	LastActiveAt  *time.Time `json:"last_active_at" yaml:"-"`
	CreatedAt     time.Time  `json:"created_at" yaml:"-"`
}

func New(agentID, name, role string, status Status) Agent {
	if agentID == "" {
		agentID = id.New()
	}
	if status == "" {
		status = StatusIdle
	}
	return Agent{
		ID:        agentID,
		Name:      name,
		Role:      role,
		Status:    status,
		CreatedAt: time.Now().UTC(),
	}
}

type TaskRef struct {
	ID    string `json:"id"`
	Title string `json:"title"`
}

// Detail adds the agent's current task, when one is set and still exists.
type Detail struct {
	Agent
	CurrentTask *TaskRef `json:"current_task,omitempty"`
}

// Update is a partial agent change. ClearTask distinguishes an explicit
// null current_task_id from an absent one.
type Update struct {
	Status        *Status
	CurrentTaskID *string
	ClearTask     bool
}

func (u Update) IsEmpty() bool {
	return u.Status == nil && u.CurrentTaskID == nil && !u.ClearTask
}

func (u Update) TouchesTask() bool {
	return u.CurrentTaskID != nil || u.ClearTask
}
