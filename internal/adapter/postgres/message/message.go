package message

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/alanyang/mission-control/internal/adapter/postgres"
	domainmessage "github.com/alanyang/mission-control/internal/domain/message"
)

type Repository struct {
	pool *pgxpool.Pool
}

func New(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

func (r *Repository) Create(ctx context.Context, m domainmessage.Message) (domainmessage.Message, error) {
	_, err := r.pool.Exec(ctx,
		`INSERT INTO messages (id, task_id, from_agent_id, content, created_at) VALUES ($1, $2, $3, $4, $5)`,
		m.ID, m.TaskID, m.FromAgentID, m.Content, m.CreatedAt,
	)
	if err != nil {
		return domainmessage.Message{}, postgres.Classify(err, "inserting message")
	}
	return m, nil
}

func (r *Repository) ListByTask(ctx context.Context, taskID string) ([]domainmessage.Entry, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT m.id, m.task_id, m.from_agent_id, m.content, m.created_at, a.name, a.role
		FROM messages m
		JOIN agents a ON a.id = m.from_agent_id
		WHERE m.task_id = $1
		ORDER BY m.created_at ASC, m.id ASC`, taskID)
	if err != nil {
		return nil, fmt.Errorf("listing messages: %w", err)
	}
	defer rows.Close()

	entries := []domainmessage.Entry{}
	for rows.Next() {
		var e domainmessage.Entry
		if err := rows.Scan(&e.ID, &e.TaskID, &e.FromAgentID, &e.Content, &e.CreatedAt, &e.AgentName, &e.AgentRole); err != nil {
			return nil, fmt.Errorf("scanning message row: %w", err)
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}
