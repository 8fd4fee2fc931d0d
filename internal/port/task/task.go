package task

import (
	"context"

	domaintask "github.com/alanyang/mission-control/internal/domain/task"
)

type Repository interface {
	Create(ctx context.Context, t domaintask.Task) (domaintask.Task, error)
	GetByID(ctx context.Context, id string) (domaintask.Task, error)
	List(ctx context.Context, filters domaintask.ListFilters) ([]domaintask.Task, error)

	// Update applies a non-empty partial change and bumps updated_at.
	// Returns apperr.ErrNotFound if no task has the id.
	Update(ctx context.Context, id string, u domaintask.Update) error

	// Assign inserts the (task, agent) pair. The store's unique key rejects a
	// repeat with apperr.ErrConflict.
	Assign(ctx context.Context, a domaintask.Assignment) error
	Assignees(ctx context.Context, taskID string) ([]string, error)
}
