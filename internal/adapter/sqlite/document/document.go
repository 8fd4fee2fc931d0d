package document

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/alanyang/mission-control/internal/adapter/sqlite"
	domaindocument "github.com/alanyang/mission-control/internal/domain/document"
)

type Repository struct {
	db *sql.DB
}

func New(db *sql.DB) *Repository {
	return &Repository{db: db}
}

func (r *Repository) Create(ctx context.Context, d domaindocument.Document) (domaindocument.Document, error) {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO documents (id, title, content, type, task_id, created_by_agent_id, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		d.ID, d.Title, d.Content, d.Type, d.TaskID, d.CreatedByAgentID, sqlite.Nanos(d.CreatedAt),
	)
	if err != nil {
		return domaindocument.Document{}, sqlite.Classify(err, "inserting document")
	}
	return d, nil
}

func (r *Repository) List(ctx context.Context, filters domaindocument.ListFilters) ([]domaindocument.Document, error) {
	query := `SELECT id, title, content, type, task_id, created_by_agent_id, created_at FROM documents`
	var args []any
	if filters.TaskID != nil {
		query += ` WHERE task_id = ?`
		args = append(args, *filters.TaskID)
	}
	query += ` ORDER BY created_at DESC, rowid DESC`

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing documents: %w", err)
	}
	defer rows.Close()

	docs := []domaindocument.Document{}
	for rows.Next() {
		var (
			d         domaindocument.Document
			createdAt int64
		)
		if err := rows.Scan(&d.ID, &d.Title, &d.Content, &d.Type, &d.TaskID, &d.CreatedByAgentID, &createdAt); err != nil {
			return nil, fmt.Errorf("scanning document row: %w", err)
		}
		d.CreatedAt = sqlite.Time(createdAt)
		docs = append(docs, d)
	}
	return docs, rows.Err()
}
