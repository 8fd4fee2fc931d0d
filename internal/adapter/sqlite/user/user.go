package user

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/alanyang/mission-control/internal/adapter/sqlite"
	"github.com/alanyang/mission-control/internal/domain/apperr"
	domainuser "github.com/alanyang/mission-control/internal/domain/user"
)

type Repository struct {
	db *sql.DB
}

func New(db *sql.DB) *Repository {
	return &Repository{db: db}
}

// Create relies on the unique email index; a duplicate yields apperr.ErrConflict.
func (r *Repository) Create(ctx context.Context, u domainuser.User) (domainuser.User, error) {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO users (id, email, password_hash, name, created_at) VALUES (?, ?, ?, ?, ?)`,
		u.ID, u.Email, u.PasswordHash, u.Name, sqlite.Nanos(u.CreatedAt),
	)
	if err != nil {
		return domainuser.User{}, sqlite.Classify(err, "inserting user")
	}
	return u, nil
}

func (r *Repository) GetByEmail(ctx context.Context, email string) (domainuser.User, error) {
	var (
		u         domainuser.User
		createdAt int64
	)
	err := r.db.QueryRowContext(ctx,
		`SELECT id, email, password_hash, name, created_at FROM users WHERE email = ?`, email,
	).Scan(&u.ID, &u.Email, &u.PasswordHash, &u.Name, &createdAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domainuser.User{}, fmt.Errorf("user %s: %w", email, apperr.ErrNotFound)
		}
		return domainuser.User{}, fmt.Errorf("querying user: %w", err)
	}
	u.CreatedAt = sqlite.Time(createdAt)
	return u, nil
}
