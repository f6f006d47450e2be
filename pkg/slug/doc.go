// Package slug generates short public identifiers for anonymously created
// resources and allocates them against a storage-backed uniqueness check.
//
// A slug is Length (9) characters drawn uniformly from Alphabet
// ([A-Za-z0-9]). Characters are produced by rejection sampling over bytes from
// the random source, so every symbol is equally likely.
//
// The generator itself has no memory and can collide. Allocate turns a
// candidate into a claimed slug by calling a ClaimFunc, usually an INSERT that
// relies on a unique index. A claim that fails with ErrTaken is retried with a
// fresh candidate up to the configured number of attempts, after which
// ErrAllocationExhausted is returned.
//
// # Usage
//
//	import "github.com/dmitrymomot/permaqr/pkg/slug"
//
//	gen := slug.NewGenerator(slug.WithMaxAttempts(5))
//
//	s, err := gen.Allocate(ctx, func(ctx context.Context, candidate string) error {
//	    err := repo.Insert(ctx, candidate, record)
//	    if isUniqueViolation(err) {
//	        return slug.ErrTaken
//	    }
//	    return err
//	})
//
// Tests can pass a deterministic io.Reader through WithRandom.
package slug
