package clientip

import (
	"context"
	"log/slog"
	"net"
	"net/http"
	"strings"

	"github.com/dmitrymomot/permaqr/pkg/logger"
)

// Config selects which forwarding headers are believed. Leave TrustProxy off
// unless the service only receives traffic through a proxy that overwrites
// these headers.
type Config struct {
	TrustProxy bool `env:"TRUST_PROXY_HEADERS" envDefault:"false"`
}

// proxyHeaders are consulted in order when the proxy is trusted.
var proxyHeaders = []string{"CF-Connecting-IP", "X-Real-IP", "X-Forwarded-For"}

// Resolver extracts the caller address from a request.
type Resolver struct {
	trustProxy bool
}

func New(cfg Config) *Resolver {
	return &Resolver{trustProxy: cfg.TrustProxy}
}

// IP returns the normalized caller address, or "" when none can be parsed.
// X-Forwarded-For contributes its first valid entry.
func (res *Resolver) IP(r *http.Request) string {
	if res.trustProxy {
		for _, h := range proxyHeaders {
			v := r.Header.Get(h)
			if v == "" {
				continue
			}
			for candidate := range strings.SplitSeq(v, ",") {
				if ip := parseIP(candidate); ip != "" {
					return ip
				}
			}
		}
	}

	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return parseIP(r.RemoteAddr)
	}
	return parseIP(host)
}

// Middleware stores the caller address in the request context.
func (res *Resolver) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		next.ServeHTTP(w, r.WithContext(WithContext(r.Context(), res.IP(r))))
	})
}

func parseIP(s string) string {
	ip := net.ParseIP(strings.TrimSpace(s))
	if ip == nil {
		return ""
	}
	return ip.String()
}

type contextKey struct{}

func WithContext(ctx context.Context, ip string) context.Context {
	return context.WithValue(ctx, contextKey{}, ip)
}

func FromContext(ctx context.Context) string {
	ip, _ := ctx.Value(contextKey{}).(string)
	return ip
}

// FromRequest is a rate limit key function: the address stored by Middleware.
func FromRequest(r *http.Request) string {
	return FromContext(r.Context())
}

// LogExtractor adds client_ip to log records written with a request context.
func LogExtractor() logger.ContextExtractor {
	return func(ctx context.Context) (slog.Attr, bool) {
		if ip := FromContext(ctx); ip != "" {
			return logger.ClientIP(ip), true
		}
		return slog.Attr{}, false
	}
}
