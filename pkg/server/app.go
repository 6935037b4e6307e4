package server

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/AbrarQ/algo-lambda/internal/service/ratelimit"
	"github.com/AbrarQ/algo-lambda/pkg/config"
	xhttp "github.com/AbrarQ/algo-lambda/pkg/http"
	applogger "github.com/AbrarQ/algo-lambda/pkg/logger"
)

const sweepInterval = time.Minute

// App encapsulates the entire application lifecycle.
type App struct {
	cfg        *config.Config
	logger     *applogger.Logger
	httpServer *xhttp.Server
	limiter    *ratelimit.Limiter
}

// New creates a new App serving handler.
func New(cfg *config.Config, logger *applogger.Logger, handler xhttp.Handler, limiter *ratelimit.Limiter) *App {
	srv := xhttp.NewServer(handler,
		xhttp.WithPort(cfg.Server.Port),
		xhttp.WithTimeouts(cfg.Server.ReadTimeout, cfg.Server.WriteTimeout, cfg.Server.ShutdownTimeout),
		xhttp.WithBodyLimit(cfg.Server.BodyLimit),
		xhttp.WithCORS(cfg.Server.CORS),
		xhttp.WithMetrics(metricsPath(cfg), cfg.Metrics.SlowThreshold),
		xhttp.WithDebugErrors(cfg.Environment == "development"),
		xhttp.WithLogger(logger),
	)
	return &App{
		cfg:        cfg,
		logger:     logger,
		httpServer: srv,
		limiter:    limiter,
	}
}

// Server exposes the HTTP server, mostly for tests.
func (a *App) Server() *xhttp.Server { return a.httpServer }

// Run starts the application and blocks until interrupted.
func (a *App) Run() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return a.RunContext(ctx)
}

// RunContext serves until ctx is done or the listener fails, then shuts down.
func (a *App) RunContext(ctx context.Context) error {
	if err := a.httpServer.Start(); err != nil {
		a.logger.Error("http server start error", applogger.Error(err))
		return err
	}
	a.logger.Info("algo-lambda started",
		applogger.String("env", a.cfg.Environment),
		applogger.Int("port", a.cfg.Server.Port),
		applogger.String("upstox_mode", a.cfg.Upstox.Mode),
	)

	if a.limiter != nil {
		go a.sweepLimiter(ctx)
	}

	var runErr error
	select {
	case <-ctx.Done():
		a.logger.Info("shutdown signal received")
	case runErr = <-a.httpServer.Errors():
	}

	if err := a.shutdown(); err != nil {
		return err
	}
	return runErr
}

func (a *App) sweepLimiter(ctx context.Context) {
	t := time.NewTicker(sweepInterval)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			if n := a.limiter.Sweep(); n > 0 {
				a.logger.Debug("rate limiter buckets swept", applogger.Int("removed", n))
			}
		}
	}
}

// shutdown gracefully stops the HTTP server.
func (a *App) shutdown() error {
	a.logger.Info("shutting down...")

	ctx, cancel := context.WithTimeout(context.Background(), a.httpServer.ShutdownTimeout())
	defer cancel()
	if err := a.httpServer.Stop(ctx); err != nil {
		a.logger.Error("http shutdown error", applogger.Error(err))
		return err
	}

	a.logger.Info("shutdown complete")
	return nil
}

func metricsPath(cfg *config.Config) string {
	if !cfg.Metrics.Enabled {
		return ""
	}
	return cfg.Metrics.Path
}
