package commands

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"github.com/tradepulse/dashboard/internal/pkg/config"
	"github.com/tradepulse/dashboard/pkg/logger"
)

const shutdownTimeout = 10 * time.Second

type Globals struct {
	Debug   bool
	Version string
}

func configureHTTPServer(addr string, handler http.Handler) *http.Server {
	return &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       2 * time.Minute,
		MaxHeaderBytes:    8 * 1024, // 8KiB
	}
}

// setup loads configuration and initialises the process logger.
func setup(ctx context.Context, globals *Globals, service string, pretty bool) (*config.Config, zerolog.Logger, error) {
	cfg, err := config.Load(ctx)
	if err != nil {
		return nil, zerolog.Nop(), err
	}

	level := cfg.LogLevel
	if globals.Debug {
		level = "debug"
	}
	log := logger.Init(logger.Options{
		Level:   level,
		Pretty:  pretty,
		Service: service,
	})
	log.Info().Str("version", globals.Version).Str("env", cfg.Env).Msg("configuration loaded")
	return cfg, log, nil
}

// serve runs srv until ctx is cancelled or SIGINT/SIGTERM arrives, then
// drains in-flight requests.
func serve(ctx context.Context, log zerolog.Logger, srv *http.Server) error {
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("addr", srv.Addr).Msg("starting HTTP server")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Info().Msg("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
