package domain

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// User is a dashboard operator account. Authentication is demo-grade:
// email/password with argon2id hashing, single-tenant.
type User struct {
	ID           uuid.UUID
	Email        string
	Name         string
	PasswordHash string
	Role         string // "admin", "analyst", or "viewer"
	CreatedAt    time.Time
}

type UserRepository interface {
	Create(ctx context.Context, u *User) error
	GetByID(ctx context.Context, id uuid.UUID) (*User, error)
	GetByEmail(ctx context.Context, email string) (*User, error)
}
