package auth

import (
	"context"
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"

	"github.com/alanyang/mission-control/internal/domain/apperr"
	domainuser "github.com/alanyang/mission-control/internal/domain/user"
	portuser "github.com/alanyang/mission-control/internal/port/user"
)

var (
	ErrCredentialsRequired = apperr.New(apperr.Invalid, "Email and password required")
	ErrEmailExists         = apperr.New(apperr.Conflict, "Email already exists")
	ErrInvalidCredentials  = apperr.New(apperr.Unauthorized, "Invalid credentials")
	ErrPasswordTooLong     = apperr.New(apperr.Invalid, "Password too long")
)

// Service registers users and checks their credentials. No session or token
// is issued; both operations return the public profile.
type Service struct {
	repo portuser.Repository
	cost int
}

// NewService uses bcrypt.DefaultCost when cost is zero.
func NewService(repo portuser.Repository, cost int) *Service {
	if cost == 0 {
		cost = bcrypt.DefaultCost
	}
	return &Service{repo: repo, cost: cost}
}

func (s *Service) Register(ctx context.Context, email, password, name string) (domainuser.Profile, error) {
	if email == "" || password == "" {
		return domainuser.Profile{}, ErrCredentialsRequired
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.cost)
	if err != nil {
		if errors.Is(err, bcrypt.ErrPasswordTooLong) {
			return domainuser.Profile{}, ErrPasswordTooLong
		}
		return domainuser.Profile{}, fmt.Errorf("hash password: %w", err)
	}

	created, err := s.repo.Create(ctx, domainuser.New(email, string(hash), name))
	if err != nil {
		if errors.Is(err, apperr.ErrConflict) {
			return domainuser.Profile{}, ErrEmailExists
		}
		return domainuser.Profile{}, fmt.Errorf("register user: %w", err)
	}
	return created.Profile(), nil
}

func (s *Service) Login(ctx context.Context, email, password string) (domainuser.Profile, error) {
	if email == "" || password == "" {
		return domainuser.Profile{}, ErrCredentialsRequired
	}

	u, err := s.repo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, apperr.ErrNotFound) {
			return domainuser.Profile{}, ErrInvalidCredentials
		}
		return domainuser.Profile{}, fmt.Errorf("login: %w", err)
	}
	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)); err != nil {
		return domainuser.Profile{}, ErrInvalidCredentials
	}
	return u.Profile(), nil
}
