// Package pg bootstraps PostgreSQL access on top of pgx/v5 and goose/v3.
//
// Config is populated from the environment (DATABASE_URL plus pool and retry
// tuning). Connect opens and pings a *pgxpool.Pool, retrying while the
// database comes up. Migrate applies goose migrations from any fs.FS, usually
// an embedded directory, through the same pool. Healthcheck adapts the pool to
// a readiness probe.
//
// # Usage
//
//	var cfg pg.Config
//	config.MustLoad(&cfg)
//
//	pool, err := pg.Connect(ctx, cfg)
//	if err != nil {
//	    return err
//	}
//	defer pool.Close()
//
//	if err := pg.Migrate(ctx, pool, cfg, migrations.FS, log); err != nil {
//	    return err
//	}
//
// # Error Handling
//
// Setup failures are joined with one of the package sentinels
// (ErrFailedToOpenDBConnection, ErrFailedToApplyMigrations, ...). Query
// errors can be classified with IsNotFoundError, IsDuplicateKeyError and
// IsForeignKeyViolationError.
package pg
