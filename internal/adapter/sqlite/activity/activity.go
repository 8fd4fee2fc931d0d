package activity

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/alanyang/mission-control/internal/adapter/sqlite"
	domainactivity "github.com/alanyang/mission-control/internal/domain/activity"
)

type Repository struct {
	db *sql.DB
}

func New(db *sql.DB) *Repository {
	return &Repository{db: db}
}

func (r *Repository) Create(ctx context.Context, a domainactivity.Activity) (domainactivity.Activity, error) {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO activities (id, type, agent_id, task_id, message, created_at) VALUES (?, ?, ?, ?, ?, ?)`,
		a.ID, string(a.Type), a.AgentID, a.TaskID, a.Message, sqlite.Nanos(a.CreatedAt),
	)
	if err != nil {
		return domainactivity.Activity{}, sqlite.Classify(err, "inserting activity")
	}
	return a, nil
}

func (r *Repository) List(ctx context.Context, limit int) ([]domainactivity.Entry, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT a.id, a.type, a.agent_id, a.task_id, a.message, a.created_at, ag.name
		FROM activities a
		LEFT JOIN agents ag ON ag.id = a.agent_id
		ORDER BY a.created_at DESC, a.rowid DESC
		LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("listing activities: %w", err)
	}
	defer rows.Close()

	entries := []domainactivity.Entry{}
	for rows.Next() {
		var (
			e                        domainactivity.Entry
			agentID, taskID, agentNm sql.NullString
			createdAt                int64
		)
		if err := rows.Scan(&e.ID, &e.Type, &agentID, &taskID, &e.Message, &createdAt, &agentNm); err != nil {
			return nil, fmt.Errorf("scanning activity row: %w", err)
		}
		e.AgentID = sqlite.NullString(agentID)
		e.TaskID = sqlite.NullString(taskID)
		e.AgentName = sqlite.NullString(agentNm)
		e.CreatedAt = sqlite.Time(createdAt)
		entries = append(entries, e)
	}
	return entries, rows.Err()
}
