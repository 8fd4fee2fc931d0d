package task

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/alanyang/mission-control/internal/adapter/sqlite"
	"github.com/alanyang/mission-control/internal/domain/apperr"
	domaintask "github.com/alanyang/mission-control/internal/domain/task"
)

const columns = `t.id, t.title, t.description, t.status, t.priority, t.labels,
	t.created_by_agent_id, t.created_at, t.updated_at`

type Repository struct {
	db *sql.DB
}

func New(db *sql.DB) *Repository {
	return &Repository{db: db}
}

func (r *Repository) Create(ctx context.Context, t domaintask.Task) (domaintask.Task, error) {
	labels, err := json.Marshal(t.Labels)
	if err != nil {
		return domaintask.Task{}, fmt.Errorf("encoding labels: %w", err)
	}
	_, err = r.db.ExecContext(ctx, `
		INSERT INTO tasks (id, title, description, status, priority, labels,
			created_by_agent_id, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		t.ID, t.Title, t.Description, string(t.Status), string(t.Priority), string(labels),
		t.CreatedByAgentID, sqlite.Nanos(t.CreatedAt), sqlite.Nanos(t.UpdatedAt),
	)
	if err != nil {
		return domaintask.Task{}, sqlite.Classify(err, "inserting task")
	}
	return r.GetByID(ctx, t.ID)
}

func (r *Repository) GetByID(ctx context.Context, id string) (domaintask.Task, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+columns+` FROM tasks t WHERE t.id = ?`, id)
	t, err := scanTask(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domaintask.Task{}, fmt.Errorf("task %s: %w", id, apperr.ErrNotFound)
		}
		return domaintask.Task{}, fmt.Errorf("querying task: %w", err)
	}
	return t, nil
}

func (r *Repository) List(ctx context.Context, filters domaintask.ListFilters) ([]domaintask.Task, error) {
	query := `SELECT ` + columns + ` FROM tasks t`
	args := []any{}

	if filters.Assignee != nil {
		query += ` JOIN task_assignments ta ON ta.task_id = t.id WHERE ta.agent_id = ?`
		args = append(args, *filters.Assignee)
	} else {
		query += ` WHERE 1=1`
	}
	if filters.Status != nil {
		query += ` AND t.status = ?`
		args = append(args, string(*filters.Status))
	}
	query += ` ORDER BY t.updated_at DESC, t.rowid DESC`

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing tasks: %w", err)
	}
	defer rows.Close()

	tasks := []domaintask.Task{}
	for rows.Next() {
		t, err := scanTask(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning task row: %w", err)
		}
		tasks = append(tasks, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating task rows: %w", err)
	}
	return tasks, nil
}

func (r *Repository) Update(ctx context.Context, id string, u domaintask.Update) error {
	var sets []string
	var args []any

	if u.Status != nil {
		sets = append(sets, "status = ?")
		args = append(args, string(*u.Status))
	}
	if u.Description != nil {
		sets = append(sets, "description = ?")
		args = append(args, *u.Description)
	}
	if u.Priority != nil {
		sets = append(sets, "priority = ?")
		args = append(args, string(*u.Priority))
	}
	if u.Labels != nil {
		labels, err := json.Marshal(u.Labels)
		if err != nil {
			return fmt.Errorf("encoding labels: %w", err)
		}
		sets = append(sets, "labels = ?")
		args = append(args, string(labels))
	}
	sets = append(sets, "updated_at = ?")
	args = append(args, sqlite.Nanos(time.Now()), id)

	res, err := r.db.ExecContext(ctx, `UPDATE tasks SET `+strings.Join(sets, ", ")+` WHERE id = ?`, args...)
	if err != nil {
		return fmt.Errorf("updating task: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("updating task: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("task %s: %w", id, apperr.ErrNotFound)
	}
	return nil
}

func (r *Repository) Assign(ctx context.Context, a domaintask.Assignment) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO task_assignments (task_id, agent_id, assigned_at) VALUES (?, ?, ?)`,
		a.TaskID, a.AgentID, sqlite.Nanos(a.AssignedAt),
	)
	if err != nil {
		return sqlite.Classify(err, "inserting assignment")
	}
	return nil
}

func (r *Repository) Assignees(ctx context.Context, taskID string) ([]string, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT agent_id FROM task_assignments WHERE task_id = ? ORDER BY assigned_at, rowid`, taskID)
	if err != nil {
		return nil, fmt.Errorf("listing assignees: %w", err)
	}
	defer rows.Close()

	ids := []string{}
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scanning assignee: %w", err)
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

type scanner interface {
	Scan(dest ...any) error
}

func scanTask(s scanner) (domaintask.Task, error) {
	var (
		t                    domaintask.Task
		labels               string
		createdAt, updatedAt int64
	)
	if err := s.Scan(
		&t.ID, &t.Title, &t.Description, &t.Status, &t.Priority, &labels,
		&t.CreatedByAgentID, &createdAt, &updatedAt,
	); err != nil {
		return domaintask.Task{}, err
	}
	if err := json.Unmarshal([]byte(labels), &t.Labels); err != nil {
		return domaintask.Task{}, fmt.Errorf("decoding labels of task %s: %w", t.ID, err)
	}
	if t.Labels == nil {
		t.Labels = []string{}
	}
	t.CreatedAt = sqlite.Time(createdAt)
	t.UpdatedAt = sqlite.Time(updatedAt)
	return t, nil
}
