package user

import (
	"strings"
	"time"

	"github.com/alanyang/mission-control/internal/domain/id"
)

type User struct {
	ID           string    `json:"id"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	Name         string    `json:"name"`
	CreatedAt    time.Time `json:"created_at"`
}

// New builds a user; an empty name falls back to the email's local part.
func New(email, passwordHash, name string) User {
	if name == "" {
		name = DefaultName(email)
	}
	return User{
		ID:           id.New(),
		Email:        email,
		PasswordHash: passwordHash,
		Name:         name,
		CreatedAt:    time.Now().UTC(),
	}
}

func DefaultName(email string) string {
	local, _, _ := strings.Cut(email, "@")
	return local
}

// Profile is the public view returned by register and login.
type Profile struct {
	ID    string `json:"id"`
	Email string `json:"email"`
	Name  string `json:"name"`
}

func (u User) Profile() Profile {
	return Profile{ID: u.ID, Email: u.Email, Name: u.Name}
}
