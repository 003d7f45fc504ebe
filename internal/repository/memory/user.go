// Package memory provides in-process implementations of the repository
// interfaces. They are safe for concurrent use and return copies so callers
// cannot mutate stored state.
package memory

import (
	"context"
	"strings"
	"sync"
	"time"

	"taxi/internal/domain"
	"taxi/internal/repository"
)

var (
	_ repository.UserRepository  = (*UserRepository)(nil)
	_ repository.OrderRepository = (*OrderRepository)(nil)
)

// UserRepository is an in-memory implementation of repository.UserRepository.
type UserRepository struct {
	mu      sync.RWMutex
	nextID  int64
	users   map[int64]*domain.User
	byLogin map[string]int64
}

// NewUserRepository creates an empty in-memory user repository.
func NewUserRepository() *UserRepository {
	return &UserRepository{
		users:   make(map[int64]*domain.User),
		byLogin: make(map[string]int64),
	}
}

// Create adds a new user.
func (r *UserRepository) Create(ctx context.Context, user *domain.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	key := strings.ToLower(user.Login)
	if _, exists := r.byLogin[key]; exists {
		return repository.ErrDuplicate
	}

	r.nextID++
	user.ID = r.nextID
	if user.CreatedAt.IsZero() {
		user.CreatedAt = time.Now()
	}
	r.users[user.ID] = copyUser(user)
	r.byLogin[key] = user.ID
	return nil
}

// GetByID retrieves a user by ID.
func (r *UserRepository) GetByID(ctx context.Context, id int64) (*domain.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	user, ok := r.users[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return copyUser(user), nil
}

// GetByLogin retrieves a user by login.
func (r *UserRepository) GetByLogin(ctx context.Context, login string) (*domain.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	id, ok := r.byLogin[strings.ToLower(login)]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return copyUser(r.users[id]), nil
}

// UpdateCard replaces the encrypted card fields of a user.
func (r *UserRepository) UpdateCard(ctx context.Context, id int64, card domain.EncryptedCard) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	user, ok := r.users[id]
	if !ok {
		return repository.ErrNotFound
	}
	user.Card = domain.EncryptedCard{
		Number: cloneBytes(card.Number),
		Expiry: cloneBytes(card.Expiry),
		CVV:    cloneBytes(card.CVV),
	}
	return nil
}

func copyUser(u *domain.User) *domain.User {
	c := *u
	c.PasswordHash = cloneBytes(u.PasswordHash)
	c.Card = domain.EncryptedCard{
		Number: cloneBytes(u.Card.Number),
		Expiry: cloneBytes(u.Card.Expiry),
		CVV:    cloneBytes(u.Card.CVV),
	}
	return &c
}

func cloneBytes(b []byte) []byte {
	if b == nil {
		return nil
	}
	return append([]byte(nil), b...)
}
