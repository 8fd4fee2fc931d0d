package user

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/alanyang/mission-control/internal/adapter/postgres"
	"github.com/alanyang/mission-control/internal/domain/apperr"
	domainuser "github.com/alanyang/mission-control/internal/domain/user"
)

type Repository struct {
	pool *pgxpool.Pool
}

func New(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

func (r *Repository) Create(ctx context.Context, u domainuser.User) (domainuser.User, error) {
	_, err := r.pool.Exec(ctx,
		`INSERT INTO users (id, email, password_hash, name, created_at) VALUES ($1, $2, $3, $4, $5)`,
		u.ID, u.Email, u.PasswordHash, u.Name, u.CreatedAt,
	)
	if err != nil {
		return domainuser.User{}, postgres.Classify(err, "inserting user")
	}
	return u, nil
}

func (r *Repository) GetByEmail(ctx context.Context, email string) (domainuser.User, error) {
	var u domainuser.User
	err := r.pool.QueryRow(ctx,
		`SELECT id, email, password_hash, name, created_at FROM users WHERE email = $1`, email,
	).Scan(&u.ID, &u.Email, &u.PasswordHash, &u.Name, &u.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domainuser.User{}, fmt.Errorf("user %s: %w", email, apperr.ErrNotFound)
		}
		return domainuser.User{}, fmt.Errorf("querying user: %w", err)
	}
	return u, nil
}
