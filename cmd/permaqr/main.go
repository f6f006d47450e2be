package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	goredis "github.com/redis/go-redis/v9"

	"github.com/dmitrymomot/permaqr/internal/db/migrations"
	"github.com/dmitrymomot/permaqr/internal/qr"
	"github.com/dmitrymomot/permaqr/pkg/clientip"
	"github.com/dmitrymomot/permaqr/pkg/config"
	"github.com/dmitrymomot/permaqr/pkg/file"
	"github.com/dmitrymomot/permaqr/pkg/httpserver"
	"github.com/dmitrymomot/permaqr/pkg/logger"
	"github.com/dmitrymomot/permaqr/pkg/pg"
	"github.com/dmitrymomot/permaqr/pkg/ratelimit"
	"github.com/dmitrymomot/permaqr/pkg/redis"
	"github.com/dmitrymomot/permaqr/pkg/requestid"
)

type appConfig struct {
	Env            string        `env:"APP_ENV" envDefault:"development"`
	LogLevel       string        `env:"LOG_LEVEL"`
	StorageDriver  string        `env:"STORAGE_DRIVER" envDefault:"local"` // local | s3
	ReadinessLimit time.Duration `env:"READINESS_TIMEOUT" envDefault:"3s"`
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx); err != nil {
		slog.Error("permaqr stopped", logger.Error(err))
		os.Exit(1)
	}
}

func run(ctx context.Context) error {
	var (
		app     appConfig
		httpCfg httpserver.Config
		pgCfg   pg.Config
		qrCfg   qr.Config
		ipCfg   clientip.Config
		rlCfg   ratelimit.Config
	)
	for _, load := range []func() error{
		func() error { return config.Load(&app) },
		func() error { return config.Load(&httpCfg) },
		func() error { return config.Load(&pgCfg) },
		func() error { return config.Load(&qrCfg) },
		func() error { return config.Load(&ipCfg) },
		func() error { return config.Load(&rlCfg) },
	} {
		if err := load(); err != nil {
			return err
		}
	}

	logOpts := []logger.Option{
		logger.WithEnvironment(app.Env, "permaqr"),
		logger.WithContextExtractors(requestid.LogExtractor(), clientip.LogExtractor()),
	}
	if app.LogLevel != "" {
		logOpts = append(logOpts, logger.WithLevel(logger.ParseLevel(app.LogLevel)))
	}
	log := logger.New(logOpts...)
	logger.SetAsDefault(log)

	pool, err := pg.Connect(ctx, pgCfg)
	if err != nil {
		return err
	}
	defer pool.Close()
	if err := pg.Migrate(ctx, pool, pgCfg, migrations.FS, log); err != nil {
		return err
	}
	checks := []httpserver.Check{{Name: "postgres", Fn: pg.Healthcheck(pool)}}

	exportCache := strings.ToLower(qrCfg.ExportCacheDriver)
	limitStore := strings.ToLower(rlCfg.Store)
	var redisClient goredis.UniversalClient
	if exportCache == "redis" || limitStore == "redis" {
		var redisCfg redis.Config
		if err := config.Load(&redisCfg); err != nil {
			return err
		}
		client, err := redis.Connect(ctx, redisCfg)
		if err != nil {
			return err
		}
		defer func() { _ = client.Close() }()
		redisClient = client
		checks = append(checks, httpserver.Check{Name: "redis", Fn: redis.Healthcheck(client)})
	}

	svcOpts := []qr.ServiceOption{qr.WithLogger(log)}
	switch exportCache {
	case "redis":
		svcOpts = append(svcOpts, qr.WithExportCache(qr.NewRedisCache(redis.NewStorage(redisClient, "permaqr:export:"), qrCfg.ExportCacheTTL)))
	case "memory":
		svcOpts = append(svcOpts, qr.WithExportCache(qr.NewMemoryCache(0, qrCfg.ExportCacheMaxBytes, qrCfg.ExportCacheTTL)))
	case "none", "":
	default:
		return fmt.Errorf("unknown export cache driver %q", qrCfg.ExportCacheDriver)
	}

	var store ratelimit.Store
	switch limitStore {
	case "redis":
		store = ratelimit.NewRedisStore(redisClient, "permaqr:ratelimit:")
	case "memory", "":
		store = ratelimit.NewMemoryStore()
	default:
		return fmt.Errorf("unknown rate limit store %q", rlCfg.Store)
	}
	limiter, err := ratelimit.NewFixedWindow(store, rlCfg.Limit, rlCfg.Window)
	if err != nil {
		return err
	}

	r := chi.NewRouter()
	r.Use(
		requestid.Middleware,
		clientip.New(ipCfg).Middleware,
		middleware.Recoverer,
		qr.MetricsMiddleware,
		qr.LogRequests(log),
		middleware.Timeout(qrCfg.RequestTimeout),
	)

	storage, err := newStorage(ctx, app.StorageDriver, r)
	if err != nil {
		return err
	}

	svc := qr.NewService(qrCfg, qr.NewPGRepository(pool), storage, svcOpts...)
	qr.NewHandler(svc,
		qr.WithHandlerLogger(log),
		qr.WithMaxUploadBytes(qrCfg.MaxUploadBytes),
		qr.WithRateLimit(limiter),
	).Routes(r)

	r.Get("/healthz", httpserver.LivenessHandler())
	r.Get("/readyz", httpserver.ReadinessHandler(log, app.ReadinessLimit, checks...))
	r.Handle("/metrics", promhttp.Handler())

	log.InfoContext(ctx, "starting permaqr",
		slog.String("addr", httpCfg.Addr),
		slog.String("storage", app.StorageDriver),
		slog.String("export_cache", qrCfg.ExportCacheDriver),
	)
	if err := httpserver.New(httpCfg, httpserver.WithLogger(log)).Run(ctx, r); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// newStorage builds the logo store. Local storage is served from the same
// router under its base URL path.
func newStorage(ctx context.Context, driver string, r chi.Router) (file.Storage, error) {
	switch strings.ToLower(driver) {
	case "s3":
		var cfg file.S3Config
		if err := config.Load(&cfg); err != nil {
			return nil, err
		}
		return file.NewS3Storage(ctx, cfg)
	case "local", "":
		var cfg file.LocalConfig
		if err := config.Load(&cfg); err != nil {
			return nil, err
		}
		s, err := file.NewLocalStorage(cfg)
		if err != nil {
			return nil, err
		}
		if p := s.Path(); p != "" && p != "/" {
			r.Handle(p+"*", s.Handler())
		}
		return s, nil
	}
	return nil, fmt.Errorf("unknown storage driver %q", driver)
}
