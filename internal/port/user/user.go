package user

import (
	"context"

	domainuser "github.com/alanyang/mission-control/internal/domain/user"
)

type Repository interface {
	// Create returns apperr.ErrConflict when the email is taken.
	Create(ctx context.Context, u domainuser.User) (domainuser.User, error)
	GetByEmail(ctx context.Context, email string) (domainuser.User, error)
}
