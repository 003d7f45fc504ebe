package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"taxi/internal/cryptox"
	"taxi/internal/domain"
	"taxi/internal/repository/memory"
)

func newVault(t *testing.T) (*CardVault, *memory.UserRepository, int64) {
	t.Helper()
	users := memory.NewUserRepository()
	user := &domain.User{Login: "alice", PasswordHash: []byte("x")}
	require.NoError(t, users.Create(context.Background(), user))

	key, err := cryptox.NewKey()
	require.NoError(t, err)
	return NewCardVault(users, key), users, user.ID
}

func TestCardVault_RoundTrip(t *testing.T) {
	vault, users, id := newVault(t)
	ctx := context.Background()

	require.NoError(t, vault.SetCard(ctx, id, "4111111111111234", "12/30", "123"))

	card, err := vault.GetCard(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, &domain.CardDetails{Number: "4111111111111234", Expiry: "12/30", CVV: "123"}, card)

	last4, ok, err := vault.LastFourDigits(ctx, id)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "1234", last4)

	stored, err := users.GetByID(ctx, id)
	require.NoError(t, err)
	assert.NotContains(t, string(stored.Card.Number), "4111111111111234")
	assert.NotContains(t, string(stored.Card.CVV), "123")
}

func TestCardVault_NoCard(t *testing.T) {
	vault, _, id := newVault(t)
	ctx := context.Background()

	card, err := vault.GetCard(ctx, id)
	require.NoError(t, err)
	assert.Nil(t, card)

	last4, ok, err := vault.LastFourDigits(ctx, id)
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Empty(t, last4)

	has, err := vault.HasCard(ctx, id)
	require.NoError(t, err)
	assert.False(t, has)
}

func TestCardVault_InvalidFormat(t *testing.T) {
	vault, _, id := newVault(t)
	ctx := context.Background()

	tests := []struct {
		name                string
		number, expiry, cvv string
	}{
		{"short number", "411111111111123", "12/30", "123"},
		{"letters in number", "41111111111112a4", "12/30", "123"},
		{"expiry without slash", "4111111111111234", "12-30", "123"},
		{"expiry too long", "4111111111111234", "12/2030", "123"},
		{"expiry month 13", "4111111111111234", "13/30", "123"},
		{"expiry month 00", "4111111111111234", "00/30", "123"},
		{"expiry letters", "4111111111111234", "ab/cd", "123"},
		{"cvv too long", "4111111111111234", "12/30", "1234"},
		{"cvv letters", "4111111111111234", "12/30", "12a"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := vault.SetCard(ctx, id, tt.number, tt.expiry, tt.cvv)
			assert.ErrorIs(t, err, ErrInvalidCardFormat)
		})
	}

	has, err := vault.HasCard(ctx, id)
	require.NoError(t, err)
	assert.False(t, has)
}

func TestCardVault_WrongKey(t *testing.T) {
	vault, users, id := newVault(t)
	ctx := context.Background()
	require.NoError(t, vault.SetCard(ctx, id, "4111111111111234", "01/29", "999"))

	otherKey, err := cryptox.NewKey()
	require.NoError(t, err)
	other := NewCardVault(users, otherKey)

	_, err = other.GetCard(ctx, id)
	assert.ErrorIs(t, err, ErrDecryptionFailed)

	_, _, err = other.LastFourDigits(ctx, id)
	assert.ErrorIs(t, err, ErrDecryptionFailed)
}

func TestCardVault_UnknownUser(t *testing.T) {
	vault, _, _ := newVault(t)

	err := vault.SetCard(context.Background(), 999, "4111111111111234", "12/30", "123")
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = vault.GetCard(context.Background(), 999)
	assert.ErrorIs(t, err, ErrNotFound)
}
