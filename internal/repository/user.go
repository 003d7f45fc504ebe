package repository

import (
	"context"

	"taxi/internal/domain"
)

// UserRepository defines the persistence operations for users.
type UserRepository interface {
	// Create persists a new user and assigns its ID and CreatedAt.
	// Returns ErrDuplicate if the login is taken.
	Create(ctx context.Context, user *domain.User) error

	// GetByID retrieves a user by ID.
	GetByID(ctx context.Context, id int64) (*domain.User, error)

	// GetByLogin retrieves a user by login.
	GetByLogin(ctx context.Context, login string) (*domain.User, error)

	// UpdateCard replaces the encrypted card fields of a user in one write.
	UpdateCard(ctx context.Context, id int64, card domain.EncryptedCard) error
}
