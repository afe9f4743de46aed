package server

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"
	"time"

	"CoinFunnel/internal/domain/repository"
	"CoinFunnel/internal/usecase"
	"CoinFunnel/pkg/cache"
	apphttp "CoinFunnel/pkg/http"
	applogger "CoinFunnel/pkg/logger"
)

// App ties the pipeline runner and the ops HTTP server together and owns
// their lifecycle.
type App struct {
	runner     *usecase.Runner
	httpServer *apphttp.Server
	publisher  repository.AlertPublisher
	cache      cache.Service
	logger     *applogger.Logger

	shutdownTimeout time.Duration
}

// Option configures App.
type Option func(*App)

// NewApp creates the application.
func NewApp(runner *usecase.Runner, httpServer *apphttp.Server, logger *applogger.Logger, opts ...Option) *App {
	app := &App{
		runner:          runner,
		httpServer:      httpServer,
		logger:          logger,
		shutdownTimeout: 10 * time.Second,
	}
	for _, opt := range opts {
		opt(app)
	}
	return app
}

// Run starts everything and blocks until a signal arrives, the runner
// stops, or the context is cancelled.
func (a *App) Run(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	if a.httpServer != nil {
		if err := a.httpServer.Start(); err != nil {
			return err
		}
	}

	runnerErr := make(chan error, 1)
	go func() {
		runnerErr <- a.runner.Run(ctx)
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigCh)

	var runErr error
	select {
	case sig := <-sigCh:
		a.logger.Info("shutdown signal received", applogger.String("signal", sig.String()))
		cancel()
		// Give the runner a moment to observe cancellation.
		select {
		case runErr = <-runnerErr:
		case <-time.After(a.shutdownTimeout):
			a.logger.Warn("runner did not stop in time")
		}
	case runErr = <-runnerErr:
		if runErr != nil && ctx.Err() == nil {
			a.logger.Error("pipeline stopped", applogger.Error(runErr))
		}
	case <-ctx.Done():
		runErr = <-runnerErr
	}

	a.shutdown()

	if errors.Is(runErr, context.Canceled) {
		return nil
	}
	return runErr
}

func (a *App) shutdown() {
	if a.httpServer != nil {
		ctx, cancel := context.WithTimeout(context.Background(), a.shutdownTimeout)
		defer cancel()
		if err := a.httpServer.Stop(ctx); err != nil {
			a.logger.Warn("http shutdown error", applogger.Error(err))
		}
	}

	if a.publisher != nil {
		if err := a.publisher.Close(); err != nil {
			a.logger.Warn("publisher close error", applogger.Error(err))
		}
	}

	if a.cache != nil {
		if err := a.cache.Close(); err != nil {
			a.logger.Warn("cache close error", applogger.Error(err))
		}
	}

	a.logger.Info("shutdown complete")
}

// WithPublisher registers an alert publisher to close on shutdown.
func WithPublisher(p repository.AlertPublisher) Option {
	return func(a *App) {
		a.publisher = p
	}
}

// WithCache registers a cache to close on shutdown.
func WithCache(c cache.Service) Option {
	return func(a *App) {
		a.cache = c
	}
}

// WithShutdownTimeout overrides the graceful shutdown window.
func WithShutdownTimeout(d time.Duration) Option {
	return func(a *App) {
		if d > 0 {
			a.shutdownTimeout = d
		}
	}
}
