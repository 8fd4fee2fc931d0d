package message

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/alanyang/mission-control/internal/adapter/sqlite"
	domainmessage "github.com/alanyang/mission-control/internal/domain/message"
)

type Repository struct {
	db *sql.DB
}

func New(db *sql.DB) *Repository {
	return &Repository{db: db}
}

func (r *Repository) Create(ctx context.Context, m domainmessage.Message) (domainmessage.Message, error) {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO messages (id, task_id, from_agent_id, content, created_at) VALUES (?, ?, ?, ?, ?)`,
		m.ID, m.TaskID, m.FromAgentID, m.Content, sqlite.Nanos(m.CreatedAt),
	)
	if err != nil {
		return domainmessage.Message{}, sqlite.Classify(err, "inserting message")
	}
	return m, nil
}

func (r *Repository) ListByTask(ctx context.Context, taskID string) ([]domainmessage.Entry, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT m.id, m.task_id, m.from_agent_id, m.content, m.created_at, a.name, a.role
		FROM messages m
		JOIN agents a ON a.id = m.from_agent_id
		WHERE m.task_id = ?
		ORDER BY m.created_at ASC, m.rowid ASC`, taskID)
	if err != nil {
		return nil, fmt.Errorf("listing messages: %w", err)
	}
	defer rows.Close()

	entries := []domainmessage.Entry{}
	for rows.Next() {
		var (
			e         domainmessage.Entry
			createdAt int64
		)
		if err := rows.Scan(&e.ID, &e.TaskID, &e.FromAgentID, &e.Content, &createdAt, &e.AgentName, &e.AgentRole); err != nil {
			return nil, fmt.Errorf("scanning message row: %w", err)
		}
		e.CreatedAt = sqlite.Time(createdAt)
		entries = append(entries, e)
	}
	return entries, rows.Err()
}
