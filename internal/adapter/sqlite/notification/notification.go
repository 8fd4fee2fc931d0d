package notification

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/alanyang/mission-control/internal/adapter/sqlite"
	"github.com/alanyang/mission-control/internal/domain/apperr"
	domainnotification "github.com/alanyang/mission-control/internal/domain/notification"
)

type Repository struct {
	db *sql.DB
}

func New(db *sql.DB) *Repository {
	return &Repository{db: db}
}

func (r *Repository) Create(ctx context.Context, n domainnotification.Notification) (domainnotification.Notification, error) {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO notifications (id, mentioned_agent_id, task_id, content, delivered, created_at)
		VALUES (?, ?, ?, ?, ?, ?)`,
		n.ID, n.MentionedAgentID, n.TaskID, n.Content, n.Delivered, sqlite.Nanos(n.CreatedAt),
	)
	if err != nil {
		return domainnotification.Notification{}, sqlite.Classify(err, "inserting notification")
	}
	return n, nil
}

func (r *Repository) ListUndelivered(ctx context.Context, agentID string) ([]domainnotification.Notification, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, mentioned_agent_id, task_id, content, delivered, created_at
		FROM notifications
		WHERE mentioned_agent_id = ? AND delivered = 0
		ORDER BY created_at DESC, rowid DESC`, agentID)
	if err != nil {
		return nil, fmt.Errorf("listing notifications: %w", err)
	}
	defer rows.Close()

	notifs := []domainnotification.Notification{}
	for rows.Next() {
		var (
			n         domainnotification.Notification
			createdAt int64
		)
		if err := rows.Scan(&n.ID, &n.MentionedAgentID, &n.TaskID, &n.Content, &n.Delivered, &createdAt); err != nil {
			return nil, fmt.Errorf("scanning notification row: %w", err)
		}
		n.CreatedAt = sqlite.Time(createdAt)
		notifs = append(notifs, n)
	}
	return notifs, rows.Err()
}

func (r *Repository) MarkDelivered(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `UPDATE notifications SET delivered = 1 WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("marking notification delivered: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("marking notification delivered: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("notification %s: %w", id, apperr.ErrNotFound)
	}
	return nil
}
