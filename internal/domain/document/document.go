package document

import (
	"time"

	"github.com/alanyang/mission-control/internal/domain/id"
)

const DefaultType = "deliverable"

type Document struct {
	ID               string    `json:"id"`
	Title            string    `json:"title"`
	Content          string    `json:"content"`
	Type             string    `json:"type"`
	TaskID           string    `json:"task_id"`
	CreatedByAgentID string    `json:"created_by_agent_id"`
	CreatedAt        time.Time `json:"created_at"`
}

func New(title, content, docType, taskID, createdBy string) Document {
	if docType == "" {
		docType = DefaultType
	}
	return Document{
		ID:               id.New(),
		Title:            title,
		Content:          content,
		Type:             docType,
		TaskID:           taskID,
		CreatedByAgentID: createdBy,
		CreatedAt:        time.Now().UTC(),
	}
}

type ListFilters struct {
	TaskID *string
}
