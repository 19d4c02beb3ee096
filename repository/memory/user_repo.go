// Package memory provides an in-process UserRepository used for local boot
// and tests while the real store lives behind the platform's data service.
package memory

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/promptacademy/backend/domain"
	"github.com/promptacademy/backend/repository"
)

var _ repository.UserRepository = (*UserRepository)(nil)

// UserRepository keeps users in two maps, by id and by lower-cased email.
type UserRepository struct {
	mu      sync.RWMutex
	byID    map[string]*domain.User
	byEmail map[string]string
}

// NewUserRepository builds an empty repository.
func NewUserRepository() *UserRepository {
	return &UserRepository{
		byID:    make(map[string]*domain.User),
		byEmail: make(map[string]string),
	}
}

func (r *UserRepository) GetByID(ctx context.Context, id string) (*domain.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	user, ok := r.byID[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	copied := *user
	return &copied, nil
}

func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	id, ok := r.byEmail[normalizeEmail(email)]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	copied := *r.byID[id]
	return &copied, nil
}

func (r *UserRepository) Create(ctx context.Context, user *domain.User) error {
	if user == nil || user.Email == "" {
		return domain.ErrInvalidPayload
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	key := normalizeEmail(user.Email)
	if _, exists := r.byEmail[key]; exists {
		return domain.ErrEmailTaken
	}
	if user.ID == "" {
		user.ID = uuid.NewString()
	}
	now := time.Now()
	if user.CreatedAt.IsZero() {
		user.CreatedAt = now
	}
	user.UpdatedAt = now

	copied := *user
	r.byID[copied.ID] = &copied
	r.byEmail[key] = copied.ID
	return nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
