// Package cryptox implements authenticated symmetric encryption of small
// secrets with AES-256-GCM.
package cryptox

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
)

// KeySize is the length in bytes of an AES-256 key.
const KeySize = 32

// ErrDecrypt is returned when a ciphertext cannot be opened with the key.
var ErrDecrypt = errors.New("cryptox: decryption failed")

// Key is a 256-bit symmetric key.
type Key [KeySize]byte

// NewKey generates a random key.
func NewKey() (Key, error) {
	var k Key
	if _, err := rand.Read(k[:]); err != nil {
		return Key{}, err
	}
	return k, nil
}

// ParseKey decodes a standard base64 encoded 32-byte key.
func ParseKey(s string) (Key, error) {
	raw, err := base64.StdEncoding.DecodeString(s)
	if err != nil {
		return Key{}, fmt.Errorf("cryptox: invalid key encoding: %w", err)
	}
	if len(raw) != KeySize {
		return Key{}, fmt.Errorf("cryptox: key must be %d bytes, got %d", KeySize, len(raw))
	}
	var k Key
	copy(k[:], raw)
	return k, nil
}

// String returns the base64 form accepted by ParseKey.
func (k Key) String() string {
	return base64.StdEncoding.EncodeToString(k[:])
}

// Seal encrypts plaintext with AES-GCM under key.
// The random 12-byte nonce is prepended to the returned ciphertext.
func Seal(key Key, plaintext []byte) ([]byte, error) {
	aesgcm, err := newGCM(key)
	if err != nil {
		return nil, err
	}

	nonce := make([]byte, aesgcm.NonceSize())
	if _, err := rand.Read(nonce); err != nil {
		return nil, err
	}

	return aesgcm.Seal(nonce, nonce, plaintext, nil), nil
}

// Open reverses Seal. Tampered input, a wrong key or a truncated
// ciphertext all yield ErrDecrypt.
func Open(key Key, sealed []byte) ([]byte, error) {
	aesgcm, err := newGCM(key)
	if err != nil {
		return nil, err
	}

	ns := aesgcm.NonceSize()
	if len(sealed) < ns+aesgcm.Overhead() {
		return nil, ErrDecrypt
	}

	plaintext, err := aesgcm.Open(nil, sealed[:ns], sealed[ns:], nil)
	if err != nil {
		return nil, ErrDecrypt
	}
	return plaintext, nil
}

func newGCM(key Key) (cipher.AEAD, error) {
	block, err := aes.NewCipher(key[:])
	if err != nil {
		return nil, err
	}
	return cipher.NewGCM(block)
}
