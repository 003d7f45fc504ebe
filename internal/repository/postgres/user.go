package postgres

import (
	"context"
	"database/sql"

	"taxi/internal/domain"
)

// UserRepository implements repository.UserRepository using PostgreSQL.
type UserRepository struct {
	q Querier
}

// NewUserRepository creates a new UserRepository.
func NewUserRepository(db *sql.DB) *UserRepository {
	return &UserRepository{q: db}
}

// Create adds a new user and fills in its generated ID and creation time.
func (r *UserRepository) Create(ctx context.Context, user *domain.User) error {
	query := `INSERT INTO users (login, password_hash) VALUES ($1, $2) RETURNING id, created_at`

	err := r.q.QueryRowContext(ctx, query, user.Login, user.PasswordHash).Scan(&user.ID, &user.CreatedAt)
	if err != nil {
		return translateError(err)
	}
	return nil
}

// GetByID retrieves a user by ID.
func (r *UserRepository) GetByID(ctx context.Context, id int64) (*domain.User, error) {
	query := `SELECT id, login, password_hash, card_number, card_expiry, card_cvv, created_at FROM users WHERE id = $1`
	return r.scanOne(r.q.QueryRowContext(ctx, query, id))
}

// GetByLogin retrieves a user by login. Matching is case-insensitive.
func (r *UserRepository) GetByLogin(ctx context.Context, login string) (*domain.User, error) {
	query := `SELECT id, login, password_hash, card_number, card_expiry, card_cvv, created_at FROM users WHERE lower(login) = lower($1)`
	return r.scanOne(r.q.QueryRowContext(ctx, query, login))
}

// UpdateCard replaces the encrypted card fields of a user.
func (r *UserRepository) UpdateCard(ctx context.Context, id int64, card domain.EncryptedCard) error {
	query := `UPDATE users SET card_number = $1, card_expiry = $2, card_cvv = $3 WHERE id = $4`

	result, err := r.q.ExecContext(ctx, query, card.Number, card.Expiry, card.CVV, id)
	if err != nil {
		return err
	}
	return affectedOne(result)
}

func (r *UserRepository) scanOne(row *sql.Row) (*domain.User, error) {
	var user domain.User
	err := row.Scan(
		&user.ID,
		&user.Login,
		&user.PasswordHash,
		&user.Card.Number,
		&user.Card.Expiry,
		&user.Card.CVV,
		&user.CreatedAt,
	)
	if err != nil {
		return nil, translateError(err)
	}
	return &user, nil
}
