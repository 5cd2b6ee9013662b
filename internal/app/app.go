package app

import (
	"context"
	stdhttp "net/http"
	"time"

	"github.com/rs/zerolog"

	"github.com/vovakirdan/roomcast/internal/chat"
	"github.com/vovakirdan/roomcast/internal/config"
	"github.com/vovakirdan/roomcast/internal/server"
)

// App wires the room directory to the transport layer.
type App struct {
	server          *stdhttp.Server
	shutdownTimeout time.Duration
	dir             *chat.Directory
	log             *zerolog.Logger
}

// New constructs the application with provided configuration. The
// directory and its default room exist from here until the process ends.
func New(cfg config.Config, logger *zerolog.Logger) *App {
	dir := chat.NewDirectory(logger)

	return &App{
		server:          server.NewServer(dir, cfg, logger),
		shutdownTimeout: cfg.ShutdownTimeout,
		dir:             dir,
		log:             logger,
	}
}

// Run starts the HTTP server and blocks until context cancellation or a
// fatal error. Failing to bind the listen address is fatal at startup.
func (a *App) Run(ctx context.Context) error {
	serverErr := make(chan error, 1)

	go func() {
		if err := a.server.ListenAndServe(); err != nil && err != stdhttp.ErrServerClosed {
			serverErr <- err
			return
		}
		serverErr <- nil
	}()

	select {
	case err := <-serverErr:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), a.shutdownTimeout)
		defer cancel()

		a.log.Info().Msg("shutting down http server")
		if err := a.server.Shutdown(shutdownCtx); err != nil {
			return err
		}
		return <-serverErr
	}
}
