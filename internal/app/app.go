// Package app wires configuration, the bridge connection, storage and the
// MCP server into a runnable application.
package app

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog/log"

	"github.com/warshanks/hue-mcp/internal/config"
)

// App is the main application container managing all services and their
// lifecycle.
type App struct {
	cfg      *config.Config
	services *Services
	ctx      context.Context
	cancel   context.CancelFunc
	done     chan error
}

// New connects to the bridge (pairing with it if needed) and initializes
// all services, but does not start serving.
func New(ctx context.Context, cfg *config.Config, version string) (*App, error) {
	services, err := NewServices(ctx, cfg, version)
	if err != nil {
		return nil, err
	}

	return &App{
		cfg:      cfg,
		services: services,
		done:     make(chan error, 1),
	}, nil
}

// Start begins serving MCP requests. The provided context is used for
// cancellation.
func (a *App) Start(ctx context.Context) {
	a.ctx, a.cancel = context.WithCancel(ctx)

	go a.services.Ledger.RunCleanup(a.ctx,
		a.cfg.Ledger.CleanupInterval.Duration(), a.cfg.Ledger.Retention.Duration())

	go func() {
		err := a.services.MCP.Run(a.ctx, a.cfg.Server.Transport, a.cfg.Server.Addr(), a.cfg.ShutdownTimeout.Duration())
		if err != nil {
			log.Error().Err(err).Msg("Server stopped with error")
		}
		a.done <- err
		a.cancel()
	}()

	log.Info().Str("transport", a.cfg.Server.Transport).Msg("hue-mcp started")
}

// Stop shuts the server down and releases resources.
func (a *App) Stop() error {
	log.Info().Msg("Shutting down...")

	if a.cancel != nil {
		a.cancel()
	}

	err := <-a.done
	if cerr := a.services.Close(); cerr != nil && err == nil {
		err = cerr
	}
	return err
}

// Wait blocks until the application context is cancelled.
func (a *App) Wait() {
	if a.ctx != nil {
		<-a.ctx.Done()
	}
}

// SignalContext creates a context that is cancelled when SIGINT or SIGTERM
// is received.
func SignalContext() context.Context {
	ctx, cancel := context.WithCancel(context.Background())

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		sig := <-sigChan
		log.Warn().Str("signal", sig.String()).Msg("Received shutdown signal")
		cancel()
	}()

	return ctx
}
