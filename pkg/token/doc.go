// Package token issues and verifies edit tokens: bearer secrets that prove
// ownership of an anonymously created resource.
//
// A raw token is 32 bytes from a cryptographically secure source, rendered as
// 64 lowercase hex characters. It is shown to the client exactly once; only a
// salted SHA-256 digest is persisted:
//
//	<salt-hex>:<sha256(salt || token)-hex>
//
// The salt is 16 fresh random bytes per Hash call, so hashing the same token
// twice yields different stored strings. Verify recomputes the digest and
// compares it with crypto/subtle in constant time. Malformed stored values
// never verify.
//
// # Usage
//
//	import "github.com/dmitrymomot/permaqr/pkg/token"
//
//	m := token.NewManager()
//
//	raw, err := m.GenerateEditToken()
//	if err != nil {
//	    log.Fatal(err)
//	}
//	stored, err := m.Hash(raw)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	ok := m.Verify(raw, stored) // true
//
// The random source is injectable with WithRandom so tests can supply a
// deterministic stream. Production code should keep the crypto/rand default.
package token
