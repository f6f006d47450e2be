package slug

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"io"
)

const (
	// Length is the number of characters in a slug.
	Length = 9
	// Alphabet holds the 62 symbols a slug is drawn from.
	Alphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789"

	defaultMaxAttempts = 5
	// bytes >= rejectAbove are discarded so that byte % 62 is uniform.
	rejectAbove = 256 - 256%len(Alphabet)
)

// ClaimFunc tries to persist candidate. It returns ErrTaken (or an error
// wrapping it) when the candidate is already in use.
type ClaimFunc func(ctx context.Context, candidate string) error

// Option configures a Generator.
type Option func(*Generator)

// WithRandom sets the random source. Nil is ignored.
func WithRandom(r io.Reader) Option {
	return func(g *Generator) {
		if r != nil {
			g.rand = r
		}
	}
}

// WithMaxAttempts bounds Allocate. Values below 1 are ignored.
func WithMaxAttempts(n int) Option {
	return func(g *Generator) {
		if n > 0 {
			g.maxAttempts = n
		}
	}
}

// WithRetryHook registers a callback invoked after each collision with the
// 1-based attempt number. Used for metrics.
func WithRetryHook(fn func(attempt int)) Option {
	return func(g *Generator) { g.onRetry = fn }
}

// Generator produces slugs. It is safe for concurrent use when the random
// source is (crypto/rand.Reader is).
type Generator struct {
	rand        io.Reader
	maxAttempts int
	onRetry     func(attempt int)
}

// NewGenerator returns a Generator backed by crypto/rand unless overridden.
func NewGenerator(opts ...Option) *Generator {
	g := &Generator{rand: rand.Reader, maxAttempts: defaultMaxAttempts}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Generate returns a candidate slug. It does not check uniqueness.
func (g *Generator) Generate() (string, error) {
	out := make([]byte, 0, Length)
	buf := make([]byte, Length*2)
	for len(out) < Length {
		if _, err := io.ReadFull(g.rand, buf); err != nil {
			return "", errors.Join(ErrRandomSource, err)
		}
		for _, b := range buf {
			if int(b) >= rejectAbove {
				continue
			}
			out = append(out, Alphabet[int(b)%len(Alphabet)])
			if len(out) == Length {
				break
			}
		}
	}
	return string(out), nil
}

// Allocate generates candidates and claims them until one succeeds.
// Errors other than ErrTaken abort immediately.
func (g *Generator) Allocate(ctx context.Context, claim ClaimFunc) (string, error) {
	for attempt := 1; attempt <= g.maxAttempts; attempt++ {
		if err := ctx.Err(); err != nil {
			return "", err
		}
		candidate, err := g.Generate()
		if err != nil {
			return "", err
		}
		err = claim(ctx, candidate)
		if err == nil {
			return candidate, nil
		}
		if !errors.Is(err, ErrTaken) {
			return "", err
		}
		if g.onRetry != nil {
			g.onRetry(attempt)
		}
	}
	return "", fmt.Errorf("%w after %d attempts", ErrAllocationExhausted, g.maxAttempts)
}

// Valid reports whether s has the shape of a generated slug.
func Valid(s string) bool {
	if len(s) != Length {
		return false
	}
	for i := 0; i < len(s); i++ {
		c := s[i]
		if !((c >= 'A' && c <= 'Z') || (c >= 'a' && c <= 'z') || (c >= '0' && c <= '9')) {
			return false
		}
	}
	return true
}
