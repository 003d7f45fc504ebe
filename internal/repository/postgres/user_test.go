package postgres

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"taxi/internal/domain"
	"taxi/internal/repository"
)

func newMock(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db, mock
}

func TestUserRepository_Create(t *testing.T) {
	db, mock := newMock(t)
	repo := NewUserRepository(db)

	created := time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)
	mock.ExpectQuery(`(?s)^INSERT\s+INTO\s+users\s*\(login,\s*password_hash\)\s*VALUES\s*\(\$1,\s*\$2\)\s*RETURNING\s+id,\s*created_at$`).
		WithArgs("alice", []byte("hash")).
		WillReturnRows(sqlmock.NewRows([]string{"id", "created_at"}).AddRow(int64(7), created))

	user := &domain.User{Login: "alice", PasswordHash: []byte("hash")}
	require.NoError(t, repo.Create(context.Background(), user))
	assert.Equal(t, int64(7), user.ID)
	assert.Equal(t, created, user.CreatedAt)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserRepository_Create_Duplicate(t *testing.T) {
	db, mock := newMock(t)
	repo := NewUserRepository(db)

	mock.ExpectQuery(`INSERT\s+INTO\s+users`).
		WillReturnError(&pq.Error{Code: "23505"})

	err := repo.Create(context.Background(), &domain.User{Login: "alice", PasswordHash: []byte("hash")})
	assert.ErrorIs(t, err, repository.ErrDuplicate)
}

func TestUserRepository_Create_DBError(t *testing.T) {
	db, mock := newMock(t)
	repo := NewUserRepository(db)

	mock.ExpectQuery(`INSERT\s+INTO\s+users`).
		WillReturnError(errors.New("db down"))

	err := repo.Create(context.Background(), &domain.User{Login: "alice"})
	require.Error(t, err)
	assert.NotErrorIs(t, err, repository.ErrDuplicate)
}

func TestUserRepository_GetByLogin(t *testing.T) {
	db, mock := newMock(t)
	repo := NewUserRepository(db)

	created := time.Now().UTC()
	rows := sqlmock.NewRows([]string{"id", "login", "password_hash", "card_number", "card_expiry", "card_cvv", "created_at"}).
		AddRow(int64(3), "Alice", []byte("hash"), []byte("n"), []byte("e"), []byte("c"), created)
	mock.ExpectQuery(`(?s)FROM\s+users\s+WHERE\s+lower\(login\)\s*=\s*lower\(\$1\)$`).
		WithArgs("alice").
		WillReturnRows(rows)

	user, err := repo.GetByLogin(context.Background(), "alice")
	require.NoError(t, err)
	assert.Equal(t, int64(3), user.ID)
	assert.Equal(t, "Alice", user.Login)
	assert.True(t, user.Card.IsSet())
	assert.Equal(t, []byte("c"), user.Card.CVV)
}

func TestUserRepository_GetByID_NotFound(t *testing.T) {
	db, mock := newMock(t)
	repo := NewUserRepository(db)

	mock.ExpectQuery(`FROM\s+users\s+WHERE\s+id\s*=\s*\$1`).
		WithArgs(int64(99)).
		WillReturnError(sql.ErrNoRows)

	_, err := repo.GetByID(context.Background(), 99)
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestUserRepository_UpdateCard(t *testing.T) {
	db, mock := newMock(t)
	repo := NewUserRepository(db)

	card := domain.EncryptedCard{Number: []byte("n"), Expiry: []byte("e"), CVV: []byte("c")}

	mock.ExpectExec(`UPDATE\s+users\s+SET\s+card_number`).
		WithArgs(card.Number, card.Expiry, card.CVV, int64(1)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	require.NoError(t, repo.UpdateCard(context.Background(), 1, card))

	mock.ExpectExec(`UPDATE\s+users\s+SET\s+card_number`).
		WithArgs(card.Number, card.Expiry, card.CVV, int64(2)).
		WillReturnResult(sqlmock.NewResult(0, 0))
	assert.ErrorIs(t, repo.UpdateCard(context.Background(), 2, card), repository.ErrNotFound)

	assert.NoError(t, mock.ExpectationsWereMet())
}
