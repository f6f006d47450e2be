// Package config loads typed configuration from environment variables.
//
// It combines github.com/joho/godotenv, which reads optional .env files, with
// github.com/caarlos0/env/v11, which maps variables onto struct fields via
// `env` and `envDefault` tags. Every configuration type is parsed once and
// cached for the life of the process.
//
// # Usage
//
//	type Config struct {
//	    DatabaseURL string        `env:"DATABASE_URL,required"`
//	    Addr        string        `env:"HTTP_ADDR" envDefault:":8080"`
//	    Timeout     time.Duration `env:"LOGO_FETCH_TIMEOUT" envDefault:"10s"`
//	}
//
//	var cfg Config
//	config.MustLoad(&cfg)
//
// Additional files can be read before the first Load:
//
//	if err := config.LoadEnv(".env.local"); err != nil { ... }
//
// # Error Handling
//
// Parse failures, including missing required variables, are returned wrapped
// with ErrParsingConfig. MustLoad panics instead.
package config
