package document

import (
	"context"

	domaindocument "github.com/alanyang/mission-control/internal/domain/document"
)

type Repository interface {
	Create(ctx context.Context, d domaindocument.Document) (domaindocument.Document, error)
	// List returns documents newest first.
	List(ctx context.Context, filters domaindocument.ListFilters) ([]domaindocument.Document, error)
}
