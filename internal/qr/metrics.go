package qr

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	exportsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "permaqr_exports_total",
		Help: "Exports by format and outcome (rendered, cached, error).",
	}, []string{"format", "outcome"})

	exportDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "permaqr_export_duration_seconds",
		Help:    "Time spent rendering an export, cache misses only.",
		Buckets: []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10},
	}, []string{"format"})

	logoFetchesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "permaqr_logo_fetches_total",
		Help: "Logo fetches by outcome (ok, error).",
	}, []string{"outcome"})

	logoFetchWaiting = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "permaqr_logo_fetches_waiting",
		Help: "Exports waiting for a logo fetch slot.",
	})

	slugRetriesTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "permaqr_slug_allocation_retries_total",
		Help: "Slug candidates rejected because they were already taken.",
	})

	tokenFailuresTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "permaqr_token_verification_failures_total",
		Help: "Management calls rejected for a missing or wrong edit token.",
	})

	httpRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "permaqr_http_requests_total",
		Help: "HTTP requests by method, route and status.",
	}, []string{"method", "route", "status"})

	httpRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "permaqr_http_request_duration_seconds",
		Help:    "HTTP request latency by method and route.",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "route"})
)

// MetricsMiddleware records request counts and latency. The chi route
// pattern is used as the label so slugs do not blow up cardinality.
func MetricsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		route := "unmatched"
		if rctx := chi.RouteContext(r.Context()); rctx != nil {
			if p := rctx.RoutePattern(); p != "" {
				route = p
			}
		}
		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		httpRequestsTotal.WithLabelValues(r.Method, route, strconv.Itoa(status)).Inc()
		httpRequestDuration.WithLabelValues(r.Method, route).Observe(time.Since(start).Seconds())
	})
}
