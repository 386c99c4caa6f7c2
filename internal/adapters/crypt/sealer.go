package crypt

import (
	"crypto/rand"
	"crypto/sha256"
	"errors"
	"fmt"

	"golang.org/x/crypto/chacha20poly1305"
)

// ErrOpenFailed means the sealed payload could not be authenticated, either
// because it was tampered with or sealed under a different key.
var ErrOpenFailed = errors.New("sealed payload could not be opened")

// Sealer protects form payloads at rest. Seal and Open must round-trip.
type Sealer interface {
	Seal(plaintext []byte) ([]byte, error)
	Open(sealed []byte) ([]byte, error)
}

// NoopSealer stores payloads unprotected. Used when no encryption key is
// configured; at-rest protection is optional.
type NoopSealer struct{}

// Seal returns the plaintext unchanged.
func (NoopSealer) Seal(plaintext []byte) ([]byte, error) { return plaintext, nil }

// Open returns the sealed bytes unchanged.
func (NoopSealer) Open(sealed []byte) ([]byte, error) { return sealed, nil }

// AEADSealer seals payloads with ChaCha20-Poly1305. The random nonce is
// prefixed to the ciphertext.
type AEADSealer struct {
	key [chacha20poly1305.KeySize]byte
}

// NewAEADSealer derives a sealing key from the configured secret.
// PRE: secret is non-empty
func NewAEADSealer(secret string) *AEADSealer {
	return &AEADSealer{key: sha256.Sum256([]byte(secret))}
}

// Seal encrypts and authenticates plaintext.
// POST: output is nonce || ciphertext
func (s *AEADSealer) Seal(plaintext []byte) ([]byte, error) {
	aead, err := chacha20poly1305.New(s.key[:])
	if err != nil {
		return nil, fmt.Errorf("sealer init: %w", err)
	}
	nonce := make([]byte, aead.NonceSize())
	if _, err := rand.Read(nonce); err != nil {
		return nil, fmt.Errorf("sealer nonce: %w", err)
	}
	return aead.Seal(nonce, nonce, plaintext, nil), nil
}

// Open authenticates and decrypts a sealed payload.
// POST: returns ErrOpenFailed for truncated or tampered input
func (s *AEADSealer) Open(sealed []byte) ([]byte, error) {
	aead, err := chacha20poly1305.New(s.key[:])
	if err != nil {
		return nil, fmt.Errorf("sealer init: %w", err)
	}
	if len(sealed) < aead.NonceSize() {
		return nil, ErrOpenFailed
	}
	nonce, ciphertext := sealed[:aead.NonceSize()], sealed[aead.NonceSize():]
	plaintext, err := aead.Open(nil, nonce, ciphertext, nil)
	if err != nil {
		return nil, ErrOpenFailed
	}
	return plaintext, nil
}
