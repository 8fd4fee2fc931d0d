package task

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/alanyang/mission-control/internal/adapter/postgres"
	"github.com/alanyang/mission-control/internal/domain/apperr"
	domaintask "github.com/alanyang/mission-control/internal/domain/task"
)

const columns = `t.id, t.title, t.description, t.status, t.priority, t.labels,
	t.created_by_agent_id, t.created_at, t.updated_at`

type Repository struct {
	pool *pgxpool.Pool
}

func New(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

func (r *Repository) Create(ctx context.Context, t domaintask.Task) (domaintask.Task, error) {
	query := `
		INSERT INTO tasks AS t (id, title, description, status, priority, labels,
			created_by_agent_id, created_at, updated_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)
		RETURNING ` + columns

	created, err := scanTask(r.pool.QueryRow(ctx, query,
		t.ID, t.Title, t.Description, string(t.Status), string(t.Priority), labelsOrEmpty(t.Labels),
		t.CreatedByAgentID, t.CreatedAt, t.UpdatedAt,
	))
	if err != nil {
		return domaintask.Task{}, postgres.Classify(err, "inserting task")
	}
	return created, nil
}

func (r *Repository) GetByID(ctx context.Context, id string) (domaintask.Task, error) {
	t, err := scanTask(r.pool.QueryRow(ctx, `SELECT `+columns+` FROM tasks t WHERE t.id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domaintask.Task{}, fmt.Errorf("task %s: %w", id, apperr.ErrNotFound)
		}
		return domaintask.Task{}, fmt.Errorf("querying task: %w", err)
	}
	return t, nil
}

func (r *Repository) List(ctx context.Context, filters domaintask.ListFilters) ([]domaintask.Task, error) {
	query := `SELECT ` + columns + ` FROM tasks t`
	args := []any{}
	argIdx := 1

	if filters.Assignee != nil {
		query += fmt.Sprintf(` JOIN task_assignments ta ON ta.task_id = t.id WHERE ta.agent_id = $%d`, argIdx)
		args = append(args, *filters.Assignee)
		argIdx++
	} else {
		query += ` WHERE 1=1`
	}
	if filters.Status != nil {
		query += fmt.Sprintf(` AND t.status = $%d`, argIdx)
		args = append(args, string(*filters.Status))
	}
	query += ` ORDER BY t.updated_at DESC, t.created_at DESC`

	rows, err := r.pool.Query(ctx, query, args...)
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

// Update writes only the fields set in u. COALESCE keeps the stored value
// for every nil parameter.
func (r *Repository) Update(ctx context.Context, id string, u domaintask.Update) error {
	var status, priority *string
	if u.Status != nil {
		s := string(*u.Status)
		status = &s
	}
	if u.Priority != nil {
		p := string(*u.Priority)
		priority = &p
	}

	tag, err := r.pool.Exec(ctx, `
		UPDATE tasks SET
			status = COALESCE($2, status),
			description = COALESCE($3, description),
			priority = COALESCE($4, priority),
			labels = COALESCE($5, labels),
			updated_at = $6
		WHERE id = $1`,
		id, status, u.Description, priority, u.Labels, time.Now().UTC(),
	)
	if err != nil {
		return fmt.Errorf("updating task: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("task %s: %w", id, apperr.ErrNotFound)
	}
	return nil
}

func (r *Repository) Assign(ctx context.Context, a domaintask.Assignment) error {
	_, err := r.pool.Exec(ctx,
		`INSERT INTO task_assignments (task_id, agent_id, assigned_at) VALUES ($1, $2, $3)`,
		a.TaskID, a.AgentID, a.AssignedAt,
	)
	if err != nil {
		return postgres.Classify(err, "inserting assignment")
	}
	return nil
}

func (r *Repository) Assignees(ctx context.Context, taskID string) ([]string, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT agent_id FROM task_assignments WHERE task_id = $1 ORDER BY assigned_at, agent_id`, taskID)
	if err != nil {
		return nil, fmt.Errorf("listing assignees: %w", err)
	}
	ids, err := pgx.CollectRows(rows, pgx.RowTo[string])
	if err != nil {
		return nil, fmt.Errorf("scanning assignees: %w", err)
	}
	if ids == nil {
		ids = []string{}
	}
	return ids, nil
}

// An empty slice is stored as '{}' rather than NULL.
func labelsOrEmpty(labels []string) []string {
	if labels == nil {
		return []string{}
	}
	return labels
}

func scanTask(row pgx.Row) (domaintask.Task, error) {
	var t domaintask.Task
	if err := row.Scan(
		&t.ID, &t.Title, &t.Description, &t.Status, &t.Priority, &t.Labels,
		&t.CreatedByAgentID, &t.CreatedAt, &t.UpdatedAt,
	); err != nil {
		return domaintask.Task{}, err
	}
	if t.Labels == nil {
		t.Labels = []string{}
	}
	return t, nil
}
