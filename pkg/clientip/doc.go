// Package clientip resolves the address of the caller.
//
// Forwarding headers (CF-Connecting-IP, X-Real-IP, X-Forwarded-For) are only
// consulted when Config.TrustProxy is set; otherwise the TCP peer address is
// used. The address feeds request logs and the per-client rate limits on
// anonymous endpoints.
//
// # Usage
//
//	res := clientip.New(clientip.Config{TrustProxy: true})
//	r.Use(res.Middleware)
//	log := logger.New(logger.WithContextExtractors(clientip.LogExtractor()))
package clientip
