package task

import (
	"time"

	"github.com/alanyang/mission-control/internal/domain/id"
)

// Status and Priority are open strings; the constants name the values the dashboard knows.
type Status string

const (
	StatusBacklog    Status = "backlog"
	StatusInProgress Status = "in_progress"
	StatusReview     Status = "review"
	StatusDone       Status = "done"
)

type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
	PriorityUrgent Priority = "urgent"
)

type Task struct {
	ID               string    `json:"id"`
	Title            string    `json:"title"`
	Description      string    `json:"description"`
	Status           Status    `json:"status"`
	Priority         Priority  `json:"priority"`
	Labels           []string  `json:"labels"`
	CreatedByAgentID string    `json:"created_by_agent_id"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
}

// New builds a task with a fresh id, applying the backlog/medium/[] defaults
// for any zero-valued field.
func New(title, description string, status Status, priority Priority, labels []string, createdBy string) Task {
	if status == "" {
		status = StatusBacklog
	}
	if priority == "" {
		priority = PriorityMedium
	}
	if labels == nil {
		labels = []string{}
	}
	now := time.Now().UTC()
	return Task{
		ID:               id.New(),
		Title:            title,
		Description:      description,
		Status:           status,
		Priority:         priority,
		Labels:           labels,
		CreatedByAgentID: createdBy,
		CreatedAt:        now,
		UpdatedAt:        now,
	}
}

// Detail is a task decorated with the ids of every agent that claimed it.
type Detail struct {
	Task
	Assignees []string `json:"assignees"`
}

type Assignment struct {
	TaskID     string    `json:"task_id"`
	AgentID    string    `json:"agent_id"`
	AssignedAt time.Time `json:"assigned_at"`
}

type ListFilters struct {
	Status   *Status
	Assignee *string // joins through task_assignments
}

// Update is a partial task change. Nil fields are left alone; a non-nil
// empty Labels slice clears the labels.
type Update struct {
	Status      *Status
	Description *string
	Priority    *Priority
	Labels      []string
}

func (u Update) IsEmpty() bool {
	return u.Status == nil && u.Description == nil && u.Priority == nil && u.Labels == nil
}

// Fields names the columns the update touches, in a stable order.
func (u Update) Fields() []string {
	var fields []string
	if u.Status != nil {
		fields = append(fields, "status")
	}
	if u.Description != nil {
		fields = append(fields, "description")
	}
	if u.Priority != nil {
		fields = append(fields, "priority")
	}
	if u.Labels != nil {
		fields = append(fields, "labels")
	}
	return fields
}
