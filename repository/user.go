package repository

import (
	"context"

	"github.com/promptacademy/backend/domain"
)

// UserRepository is the narrow contract this service holds against the
// platform's user store. The store itself (schema, ORM, migrations) lives
// outside this codebase.
type UserRepository interface {
	GetByID(ctx context.Context, id string) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	Create(ctx context.Context, user *domain.User) error
}
