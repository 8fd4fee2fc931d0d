package agent

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/alanyang/mission-control/internal/adapter/sqlite"
	domainagent "github.com/alanyang/mission-control/internal/domain/agent"
	"github.com/alanyang/mission-control/internal/domain/apperr"
)

const columns = `id, name, role, status, current_task_id, last_active_at, created_at`

type Repository struct {
	db *sql.DB
}

func New(db *sql.DB) *Repository {
	return &Repository{db: db}
}

func (r *Repository) Upsert(ctx context.Context, a domainagent.Agent) (domainagent.Agent, error) {
	row := r.db.QueryRowContext(ctx, `
		INSERT INTO agents (id, name, role, status, created_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT (id) DO UPDATE SET
			name = excluded.name, role = excluded.role, status = excluded.status
		RETURNING `+columns,
		a.ID, a.Name, a.Role, string(a.Status), sqlite.Nanos(a.CreatedAt),
	)
	stored, err := scanAgent(row)
	if err != nil {
		return domainagent.Agent{}, sqlite.Classify(err, "upserting agent")
	}
	return stored, nil
}

func (r *Repository) GetByID(ctx context.Context, id string) (domainagent.Agent, error) {
	a, err := scanAgent(r.db.QueryRowContext(ctx, `SELECT `+columns+` FROM agents WHERE id = ?`, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domainagent.Agent{}, fmt.Errorf("agent %s: %w", id, apperr.ErrNotFound)
		}
		return domainagent.Agent{}, fmt.Errorf("querying agent: %w", err)
	}
	return a, nil
}

func (r *Repository) List(ctx context.Context) ([]domainagent.Agent, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT `+columns+` FROM agents ORDER BY created_at, rowid`)
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

func (r *Repository) Update(ctx context.Context, id string, u domainagent.Update) error {
	var sets []string
	var args []any

	if u.Status != nil {
		sets = append(sets, "status = ?")
		args = append(args, string(*u.Status))
	}
	if u.TouchesTask() {
		sets = append(sets, "current_task_id = ?")
		if u.ClearTask {
			args = append(args, nil)
		} else {
			args = append(args, *u.CurrentTaskID)
		}
	}
	sets = append(sets, "last_active_at = ?")
	args = append(args, sqlite.Nanos(time.Now()), id)

	res, err := r.db.ExecContext(ctx, `UPDATE agents SET `+strings.Join(sets, ", ")+` WHERE id = ?`, args...)
	if err != nil {
		return fmt.Errorf("updating agent: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("updating agent: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("agent %s: %w", id, apperr.ErrNotFound)
	}
	return nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanAgent(s scanner) (domainagent.Agent, error) {
	var (
		a            domainagent.Agent
		currentTask  sql.NullString
		lastActiveAt sql.NullInt64
		createdAt    int64
	)
	if err := s.Scan(&a.ID, &a.Name, &a.Role, &a.Status, &currentTask, &lastActiveAt, &createdAt); err != nil {
		return domainagent.Agent{}, err
	}
	a.CurrentTaskID = sqlite.NullString(currentTask)
	a.LastActiveAt = sqlite.NullTime(lastActiveAt)
	a.CreatedAt = sqlite.Time(createdAt)
	return a, nil
}
