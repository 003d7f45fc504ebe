package service

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"
	"unicode/utf8"

	"golang.org/x/crypto/bcrypt"

	"taxi/internal/domain"
	"taxi/internal/repository"
)

// HashFactor is the bcrypt cost used for password hashes.
const HashFactor = 10

const (
	minLoginLength    = 3
	maxLoginLength    = 50
	maxPasswordLength = 72 // bcrypt ignores anything longer
)

// AccountService registers and authenticates users.
type AccountService struct {
	users repository.UserRepository

	dummyOnce sync.Once
	dummyHash []byte
}

// NewAccountService creates a new AccountService.
func NewAccountService(users repository.UserRepository) *AccountService {
	return &AccountService{users: users}
}

// Register creates a user with a bcrypt-hashed password.
func (s *AccountService) Register(ctx context.Context, login, password string) (*domain.User, error) {
	login = strings.TrimSpace(login)
	if err := validateCredentials(login, password); err != nil {
		return nil, err
	}

	_, err := s.users.GetByLogin(ctx, login)
	if err == nil {
		return nil, ErrDuplicateLogin
	}
	if !errors.Is(err, repository.ErrNotFound) {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), HashFactor)
	if err != nil {
		return nil, err
	}

	user := &domain.User{
		Login:        login,
		PasswordHash: hash,
		CreatedAt:    time.Now(),
	}
	if err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, ErrDuplicateLogin
		}
		return nil, err
	}

	return user, nil
}

// Authenticate verifies a login and password. Unknown logins and wrong
// passwords both return ErrAuthenticationFailed.
func (s *AccountService) Authenticate(ctx context.Context, login, password string) (*domain.User, error) {
	user, err := s.users.GetByLogin(ctx, strings.TrimSpace(login))
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			// Spend the same bcrypt work as a real comparison.
			_ = bcrypt.CompareHashAndPassword(s.dummy(), []byte(password))
			return nil, ErrAuthenticationFailed
		}
		return nil, err
	}

	if bcrypt.CompareHashAndPassword(user.PasswordHash, []byte(password)) != nil {
		return nil, ErrAuthenticationFailed
	}
	return user, nil
}

// GetUser returns the user with the given ID.
func (s *AccountService) GetUser(ctx context.Context, id int64) (*domain.User, error) {
	user, err := s.users.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return user, nil
}

func (s *AccountService) dummy() []byte {
	s.dummyOnce.Do(func() {
		s.dummyHash, _ = bcrypt.GenerateFromPassword([]byte("dummy-password"), HashFactor)
	})
	return s.dummyHash
}

func validateCredentials(login, password string) error {
	if n := utf8.RuneCountInString(login); n < minLoginLength || n > maxLoginLength {
		return ErrInvalidCredentials
	}
	if len(password) == 0 || len(password) > maxPasswordLength {
		return ErrInvalidCredentials
	}
	return nil
}
