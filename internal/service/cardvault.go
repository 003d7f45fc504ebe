package service

import (
	"context"
	"errors"
	"fmt"

	"taxi/internal/cryptox"
	"taxi/internal/domain"
	"taxi/internal/repository"
)

// CardVault stores users' payment cards encrypted at rest.
type CardVault struct {
	users repository.UserRepository
	key   cryptox.Key
}

// NewCardVault creates a vault that seals card fields under key.
func NewCardVault(users repository.UserRepository, key cryptox.Key) *CardVault {
	return &CardVault{users: users, key: key}
}

// SetCard validates and stores a card for the user, replacing any previous one.
func (v *CardVault) SetCard(ctx context.Context, userID int64, number, expiry, cvv string) error {
	if err := validateCard(number, expiry, cvv); err != nil {
		return err
	}

	var card domain.EncryptedCard
	var err error
	if card.Number, err = cryptox.Seal(v.key, []byte(number)); err != nil {
		return fmt.Errorf("encrypt card number: %w", err)
	}
	if card.Expiry, err = cryptox.Seal(v.key, []byte(expiry)); err != nil {
		return fmt.Errorf("encrypt card expiry: %w", err)
	}
	if card.CVV, err = cryptox.Seal(v.key, []byte(cvv)); err != nil {
		return fmt.Errorf("encrypt card cvv: %w", err)
	}

	if err := v.users.UpdateCard(ctx, userID, card); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrNotFound
		}
		return err
	}
	return nil
}

// GetCard returns the decrypted card of the user, or nil if none was set.
func (v *CardVault) GetCard(ctx context.Context, userID int64) (*domain.CardDetails, error) {
	user, err := v.getUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	if !user.Card.IsSet() {
		return nil, nil
	}

	number, err := v.open(user.Card.Number)
	if err != nil {
		return nil, err
	}
	expiry, err := v.open(user.Card.Expiry)
	if err != nil {
		return nil, err
	}
	cvv, err := v.open(user.Card.CVV)
	if err != nil {
		return nil, err
	}

	return &domain.CardDetails{Number: number, Expiry: expiry, CVV: cvv}, nil
}

// LastFourDigits returns the last four digits of the saved card number.
// The boolean is false when the user has no card.
func (v *CardVault) LastFourDigits(ctx context.Context, userID int64) (string, bool, error) {
	user, err := v.getUser(ctx, userID)
	if err != nil {
		return "", false, err
	}
	if !user.Card.IsSet() {
		return "", false, nil
	}

	number, err := v.open(user.Card.Number)
	if err != nil {
		return "", false, err
	}
	return domain.CardDetails{Number: number}.LastFour(), true, nil
}

// HasCard reports whether the user has a saved card.
func (v *CardVault) HasCard(ctx context.Context, userID int64) (bool, error) {
	user, err := v.getUser(ctx, userID)
	if err != nil {
		return false, err
	}
	return user.Card.IsSet(), nil
}

func (v *CardVault) getUser(ctx context.Context, userID int64) (*domain.User, error) {
	user, err := v.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return user, nil
}

func (v *CardVault) open(sealed []byte) (string, error) {
	plain, err := cryptox.Open(v.key, sealed)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrDecryptionFailed, err)
	}
	return string(plain), nil
}

// validateCard checks a 16-digit number, an MM/YY expiry and a 3-digit CVV.
func validateCard(number, expiry, cvv string) error {
	if len(number) != 16 || !isDigits(number) {
		return fmt.Errorf("%w: card number must be 16 digits", ErrInvalidCardFormat)
	}
	if len(expiry) != 5 || expiry[2] != '/' || !isDigits(expiry[:2]) || !isDigits(expiry[3:]) {
		return fmt.Errorf("%w: expiry must be MM/YY", ErrInvalidCardFormat)
	}
	if month := (expiry[0]-'0')*10 + (expiry[1] - '0'); month < 1 || month > 12 {
		return fmt.Errorf("%w: expiry month must be 01-12", ErrInvalidCardFormat)
	}
	if len(cvv) != 3 || !isDigits(cvv) {
		return fmt.Errorf("%w: cvv must be 3 digits", ErrInvalidCardFormat)
	}
	return nil
}

func isDigits(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}
