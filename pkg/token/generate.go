package token

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"io"
)

const (
	// TokenBytes is the size of a raw edit token before hex encoding.
	TokenBytes = 32
	// SaltBytes is the size of the per-hash salt.
	SaltBytes = 16
)

// Option configures a Manager.
type Option func(*Manager)

// WithRandom sets the random source. Nil is ignored.
func WithRandom(r io.Reader) Option {
	return func(m *Manager) {
		if r != nil {
			m.rand = r
		}
	}
}

// Manager generates, hashes and verifies edit tokens.
// It holds no mutable state and is safe for concurrent use as long as the
// random source is.
type Manager struct {
	rand io.Reader
}

// NewManager returns a Manager backed by crypto/rand unless overridden.
func NewManager(opts ...Option) *Manager {
	m := &Manager{rand: rand.Reader}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// GenerateEditToken returns 32 random bytes as 64 lowercase hex characters.
func (m *Manager) GenerateEditToken() (string, error) {
	b := make([]byte, TokenBytes)
	if _, err := io.ReadFull(m.rand, b); err != nil {
		return "", errors.Join(ErrRandomSource, err)
	}
	return hex.EncodeToString(b), nil
}

// Hash returns "<salt-hex>:<hash-hex>" for the token using a fresh salt.
func (m *Manager) Hash(token string) (string, error) {
	salt := make([]byte, SaltBytes)
	if _, err := io.ReadFull(m.rand, salt); err != nil {
		return "", errors.Join(ErrRandomSource, err)
	}
	return hex.EncodeToString(salt) + ":" + hex.EncodeToString(digest(salt, token)), nil
}

func digest(salt []byte, token string) []byte {
	h := sha256.New()
	h.Write(salt)
	h.Write([]byte(token))
	return h.Sum(nil)
}

var defaultManager = NewManager()

// GenerateEditToken uses the package default Manager.
func GenerateEditToken() (string, error) { return defaultManager.GenerateEditToken() }

// Verify uses the package default Manager.
func Verify(token, stored string) bool { return defaultManager.Verify(token, stored) }
