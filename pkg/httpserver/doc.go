// Package httpserver runs an http.Handler with graceful shutdown and provides
// liveness and readiness handlers.
//
// # Usage
//
//	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
//	defer stop()
//
//	srv := httpserver.New(cfg, httpserver.WithLogger(log))
//	if err := srv.Run(ctx, router); err != nil {
//	    log.Error("server stopped", logger.Error(err))
//	}
//
// Run returns nil after a clean shutdown. Listen failures are joined with
// ErrStart and drain timeouts with ErrShutdown.
package httpserver
