package domain

import "time"

// User represents a registered rider account.
type User struct {
	ID           int64
	Login        string
	PasswordHash []byte
	Card         EncryptedCard
	CreatedAt    time.Time
}

// EncryptedCard holds the ciphertext of a saved payment card.
// Each field is sealed independently; all three are nil until a card is set.
type EncryptedCard struct {
	Number []byte
	Expiry []byte
	CVV    []byte
}

// IsSet reports whether a card has been stored.
func (c EncryptedCard) IsSet() bool {
	return len(c.Number) > 0
}

// CardDetails is the decrypted form of a saved card.
type CardDetails struct {
	Number string
	Expiry string
	CVV    string
}

// LastFour returns the last four digits of the card number.
func (c CardDetails) LastFour() string {
	if len(c.Number) < 4 {
		return c.Number
	}
	return c.Number[len(c.Number)-4:]
}
