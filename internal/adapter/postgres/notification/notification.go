package notification

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/alanyang/mission-control/internal/adapter/postgres"
	"github.com/alanyang/mission-control/internal/domain/apperr"
	domainnotification "github.com/alanyang/mission-control/internal/domain/notification"
)

type Repository struct {
	pool *pgxpool.Pool
}

func New(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

func (r *Repository) Create(ctx context.Context, n domainnotification.Notification) (domainnotification.Notification, error) {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO notifications (id, mentioned_agent_id, task_id, content, delivered, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)`,
		n.ID, n.MentionedAgentID, n.TaskID, n.Content, n.Delivered, n.CreatedAt,
	)
	if err != nil {
		return domainnotification.Notification{}, postgres.Classify(err, "inserting notification")
	}
	return n, nil
}

func (r *Repository) ListUndelivered(ctx context.Context, agentID string) ([]domainnotification.Notification, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, mentioned_agent_id, task_id, content, delivered, created_at
		FROM notifications
		WHERE mentioned_agent_id = $1 AND NOT delivered
		ORDER BY created_at DESC, id DESC`, agentID)
	if err != nil {
		return nil, fmt.Errorf("listing notifications: %w", err)
	}
	defer rows.Close()

	out := []domainnotification.Notification{}
	for rows.Next() {
		var n domainnotification.Notification
		if err := rows.Scan(&n.ID, &n.MentionedAgentID, &n.TaskID, &n.Content, &n.Delivered, &n.CreatedAt); err != nil {
			return nil, fmt.Errorf("scanning notification row: %w", err)
		}
		out = append(out, n)
	}
	return out, rows.Err()
}

func (r *Repository) MarkDelivered(ctx context.Context, id string) error {
	tag, err := r.pool.Exec(ctx, `UPDATE notifications SET delivered = TRUE WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("marking notification delivered: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("notification %s: %w", id, apperr.ErrNotFound)
	}
	return nil
}
