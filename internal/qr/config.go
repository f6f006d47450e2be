package qr

import "time"

// Config holds the service settings.
type Config struct {
	// PublicBaseURL prefixes the scan URL encoded into every code, e.g.
	// https://qr.example.com. The code for slug "aB3dE5gH9" points at
	// PublicBaseURL + "/r/aB3dE5gH9".
	PublicBaseURL string `env:"PUBLIC_BASE_URL" envDefault:"http://localhost:8080"`

	LogoFetchTimeout     time.Duration `env:"QR_LOGO_FETCH_TIMEOUT" envDefault:"10s"`
	MaxConcurrentFetches int64         `env:"QR_MAX_CONCURRENT_LOGO_FETCHES" envDefault:"8"`
	LogoCacheSize        int           `env:"QR_LOGO_CACHE_SIZE" envDefault:"128"`
	LogoCacheTTL         time.Duration `env:"QR_LOGO_CACHE_TTL" envDefault:"10m"`
	ExportCacheTTL       time.Duration `env:"QR_EXPORT_CACHE_TTL" envDefault:"24h"`
	ExportCacheMaxBytes  int64         `env:"QR_EXPORT_CACHE_MAX_BYTES" envDefault:"67108864"`
	ExportCacheDriver    string        `env:"QR_EXPORT_CACHE" envDefault:"redis"` // redis | memory | none
	SlugAttempts         int           `env:"QR_SLUG_ATTEMPTS" envDefault:"5"`
	MaxUploadBytes       int64         `env:"QR_MAX_UPLOAD_BYTES" envDefault:"6291456"`
	RequestTimeout       time.Duration `env:"QR_REQUEST_TIMEOUT" envDefault:"30s"`
}
