package document

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/alanyang/mission-control/internal/adapter/postgres"
	domaindocument "github.com/alanyang/mission-control/internal/domain/document"
)

type Repository struct {
	pool *pgxpool.Pool
}

func New(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

func (r *Repository) Create(ctx context.Context, d domaindocument.Document) (domaindocument.Document, error) {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO documents (id, title, content, type, task_id, created_by_agent_id, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		d.ID, d.Title, d.Content, d.Type, d.TaskID, d.CreatedByAgentID, d.CreatedAt,
	)
	if err != nil {
		return domaindocument.Document{}, postgres.Classify(err, "inserting document")
	}
	return d, nil
}

func (r *Repository) List(ctx context.Context, filters domaindocument.ListFilters) ([]domaindocument.Document, error) {
	query := `SELECT id, title, content, type, task_id, created_by_agent_id, created_at FROM documents WHERE 1=1`
	args := []any{}
	if filters.TaskID != nil {
		query += fmt.Sprintf(" AND task_id = $%d", len(args)+1)
		args = append(args, *filters.TaskID)
	}
	query += " ORDER BY created_at DESC, id DESC"

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing documents: %w", err)
	}
	defer rows.Close()

	docs := []domaindocument.Document{}
	for rows.Next() {
		var d domaindocument.Document
		if err := rows.Scan(&d.ID, &d.Title, &d.Content, &d.Type, &d.TaskID, &d.CreatedByAgentID, &d.CreatedAt); err != nil {
			return nil, fmt.Errorf("scanning document row: %w", err)
		}
		docs = append(docs, d)
	}
	return docs, rows.Err()
}
