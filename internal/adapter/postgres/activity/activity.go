package activity

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/alanyang/mission-control/internal/adapter/postgres"
	domainactivity "github.com/alanyang/mission-control/internal/domain/activity"
)

type Repository struct {
	pool *pgxpool.Pool
}

func New(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

func (r *Repository) Create(ctx context.Context, a domainactivity.Activity) (domainactivity.Activity, error) {
	_, err := r.pool.Exec(ctx,
		`INSERT INTO activities (id, type, agent_id, task_id, message, created_at) VALUES ($1, $2, $3, $4, $5, $6)`,
		a.ID, string(a.Type), a.AgentID, a.TaskID, a.Message, a.CreatedAt,
	)
	if err != nil {
		return domainactivity.Activity{}, postgres.Classify(err, "inserting activity")
	}
	return a, nil
}

func (r *Repository) List(ctx context.Context, limit int) ([]domainactivity.Entry, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT a.id, a.type, a.agent_id, a.task_id, a.message, a.created_at, ag.name
		FROM activities a
		LEFT JOIN agents ag ON ag.id = a.agent_id
		ORDER BY a.created_at DESC, a.id DESC
		LIMIT $1`, limit)
	if err != nil {
		return nil, fmt.Errorf("listing activities: %w", err)
	}
	defer rows.Close()

	entries := []domainactivity.Entry{}
	for rows.Next() {
		var e domainactivity.Entry
		if err := rows.Scan(&e.ID, &e.Type, &e.AgentID, &e.TaskID, &e.Message, &e.CreatedAt, &e.AgentName); err != nil {
			return nil, fmt.Errorf("scanning activity row: %w", err)
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}
