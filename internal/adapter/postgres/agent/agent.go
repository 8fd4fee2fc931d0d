package agent

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/alanyang/mission-control/internal/adapter/postgres"
	domainagent "github.com/alanyang/mission-control/internal/domain/agent"
	"github.com/alanyang/mission-control/internal/domain/apperr"
)

const columns = `id, name, role, status, current_task_id, last_active_at, created_at`

type Repository struct {
	pool *pgxpool.Pool
}

func New(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

func (r *Repository) Upsert(ctx context.Context, a domainagent.Agent) (domainagent.Agent, error) {
	query := `
		INSERT INTO agents (id, name, role, status, created_at)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (id) DO UPDATE SET
			name = EXCLUDED.name, role = EXCLUDED.role, status = EXCLUDED.status
		RETURNING ` + columns

	stored, err := scanAgent(r.pool.QueryRow(ctx, query, a.ID, a.Name, a.Role, string(a.Status), a.CreatedAt))
	if err != nil {
		return domainagent.Agent{}, postgres.Classify(err, "upserting agent")
	}
	return stored, nil
}

func (r *Repository) GetByID(ctx context.Context, id string) (domainagent.Agent, error) {
	a, err := scanAgent(r.pool.QueryRow(ctx, `SELECT `+columns+` FROM agents WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domainagent.Agent{}, fmt.Errorf("agent %s: %w", id, apperr.ErrNotFound)
		}
		return domainagent.Agent{}, fmt.Errorf("querying agent: %w", err)
	}
	return a, nil
}

func (r *Repository) List(ctx context.Context) ([]domainagent.Agent, error) {
	rows, err := r.pool.Query(ctx, `SELECT `+columns+` FROM agents ORDER BY created_at, id`)
	if err != nil {
		return nil, fmt.Errorf("listing agents: %w", err)
	}
	defer rows.Close()

	agents := []domainagent.Agent{}
	for rows.Next() {
		a, err := scanAgent(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning agent row: %w", err)
		}
		agents = append(agents, a)
	}
	return agents, rows.Err()
}

// Update touches last_active_at on every call. $3 says whether $4 replaces
// current_task_id, so a nil $4 can clear it.
func (r *Repository) Update(ctx context.Context, id string, u domainagent.Update) error {
	var status *string
	if u.Status != nil {
		s := string(*u.Status)
		status = &s
	}
	var taskID *string
	if !u.ClearTask {
		taskID = u.CurrentTaskID
	}

	tag, err := r.pool.Exec(ctx, `
		UPDATE agents SET
			status = COALESCE($2, status),
			current_task_id = CASE WHEN $3 THEN $4 ELSE current_task_id END,
			last_active_at = $5
		WHERE id = $1`,
		id, status, u.TouchesTask(), taskID, time.Now().UTC(),
	)
	if err != nil {
		return fmt.Errorf("updating agent: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("agent %s: %w", id, apperr.ErrNotFound)
	}
	return nil
}

func scanAgent(row pgx.Row) (domainagent.Agent, error) {
	var a domainagent.Agent
	err := row.Scan(&a.ID, &a.Name, &a.Role, &a.Status, &a.CurrentTaskID, &a.LastActiveAt, &a.CreatedAt)
	return a, err
}
