package activity

import (
	"context"

	domainactivity "github.com/alanyang/mission-control/internal/domain/activity"
)

// Repository is append-only.
type Repository interface {
	Create(ctx context.Context, a domainactivity.Activity) (domainactivity.Activity, error)
	// List returns at most limit entries, newest first.
	List(ctx context.Context, limit int) ([]domainactivity.Entry, error)
}
