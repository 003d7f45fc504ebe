package auth

import (
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokenIssuer_RoundTrip(t *testing.T) {
	issuer := NewTokenIssuer([]byte("secret"), time.Hour)

	token, err := issuer.GenerateToken(42)
	require.NoError(t, err)

	id, err := issuer.UserIDFromToken(token)
	require.NoError(t, err)
	assert.Equal(t, int64(42), id)
}

func TestTokenIssuer_Expired(t *testing.T) {
	issuer := NewTokenIssuer([]byte("secret"), time.Minute)
	issued := time.Now().Add(-time.Hour)
	issuer.now = func() time.Time { return issued }

	token, err := issuer.GenerateToken(1)
	require.NoError(t, err)

	issuer.now = time.Now
	_, err = issuer.UserIDFromToken(token)
	assert.True(t, errors.Is(err, ErrInvalidToken))
}

func TestTokenIssuer_WrongSecret(t *testing.T) {
	token, err := NewTokenIssuer([]byte("a"), time.Hour).GenerateToken(1)
	require.NoError(t, err)

	_, err = NewTokenIssuer([]byte("b"), time.Hour).UserIDFromToken(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestTokenIssuer_RejectsOtherAlgorithms(t *testing.T) {
	token := jwt.NewWithClaims(jwt.SigningMethodNone, Claims{UserID: 1})
	s, err := token.SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	_, err = NewTokenIssuer([]byte("secret"), time.Hour).UserIDFromToken(s)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestTokenIssuer_Garbage(t *testing.T) {
	_, err := NewTokenIssuer([]byte("secret"), time.Hour).UserIDFromToken("not-a-token")
	assert.ErrorIs(t, err, ErrInvalidToken)
}
