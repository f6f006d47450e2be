// Package requestid assigns a correlation ID to every HTTP request.
//
// Middleware keeps a client-supplied X-Request-ID when it is well formed and
// otherwise generates a UUID. The ID is available through FromContext and is
// added to log records by registering LogExtractor with the logger:
//
//	log := logger.New(logger.WithContextExtractors(requestid.LogExtractor()))
//	r := chi.NewRouter()
//	r.Use(requestid.Middleware)
package requestid
