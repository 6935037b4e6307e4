package di

import (
	"fmt"

	"github.com/AbrarQ/algo-lambda/internal/domain/repository"
	"github.com/AbrarQ/algo-lambda/internal/handler/api"
	"github.com/AbrarQ/algo-lambda/internal/service/ratelimit"
	"github.com/AbrarQ/algo-lambda/internal/service/upstox"
	"github.com/AbrarQ/algo-lambda/internal/services/indicators"
	"github.com/AbrarQ/algo-lambda/internal/services/swing"
	"github.com/AbrarQ/algo-lambda/internal/usecase"
	"github.com/AbrarQ/algo-lambda/pkg/config"
	xhttp "github.com/AbrarQ/algo-lambda/pkg/http"
	applogger "github.com/AbrarQ/algo-lambda/pkg/logger"
	"github.com/AbrarQ/algo-lambda/pkg/metrics"
	"github.com/AbrarQ/algo-lambda/pkg/server"
)

// ProvideLogger creates the application logger from the log section.
func ProvideLogger(cfg *config.Config) (*applogger.Logger, error) {
	l, err := applogger.New(&applogger.Config{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
		Output: cfg.Log.Output,
	})
	if err != nil {
		return nil, fmt.Errorf("logger: %w", err)
	}
	return l, nil
}

// ProvideMetrics creates a Prometheus metrics recorder.
func ProvideMetrics(cfg *config.Config) repository.Metrics {
	if !cfg.Metrics.Enabled {
		return metrics.Nop{}
	}
	return metrics.New()
}

// ProvideHTTPClient creates the outbound client used for Upstox calls.
func ProvideHTTPClient(cfg *config.Config) *xhttp.Client {
	return xhttp.NewClient(xhttp.WithTimeout(cfg.Upstox.RequestTimeout))
}

// ProvideCandleProvider returns the live Upstox client or the synthetic
// provider, depending on upstox.mode.
func ProvideCandleProvider(
	cfg *config.Config,
	hc *xhttp.Client,
	l *applogger.Logger,
	m repository.Metrics,
) repository.CandleProvider {
	if cfg.Upstox.Mode == config.ModeMock {
		l.Warn("upstox mock mode enabled, candles are synthetic")
		return upstox.NewMockProvider()
	}
	return upstox.NewClient(
		upstox.WithHTTPClient(hc),
		upstox.WithBaseURL(cfg.Upstox.BaseURL),
		upstox.WithAccessToken(cfg.Upstox.AccessToken),
		upstox.WithMaxRetries(cfg.Upstox.MaxRetries),
		upstox.WithShrinkDays(cfg.Upstox.ShrinkDays),
		upstox.WithRetryPause(cfg.Upstox.RetryBackoff),
		upstox.WithRateLimit(cfg.Upstox.RequestsPerSecond, cfg.Upstox.Burst),
		upstox.WithLogger(l),
		upstox.WithMetrics(m),
	)
}

// ProvideChunkedFetcher creates the fetcher used for intraday timeframes.
func ProvideChunkedFetcher(
	cfg *config.Config,
	p repository.CandleProvider,
	l *applogger.Logger,
	m repository.Metrics,
) repository.RangeFetcher {
	return upstox.NewChunkedFetcher(p,
		upstox.WithChunkPolicy(upstox.ChunkPolicy{
			Minutes15: cfg.Upstox.ChunkMonths.Minutes15,
			Default:   cfg.Upstox.ChunkMonths.Default,
		}),
		upstox.WithChunkDelay(cfg.Upstox.ChunkDelay),
		upstox.WithChunkLogger(l),
		upstox.WithChunkMetrics(m),
	)
}

// ProvideSwingPointsUseCase creates the swing point use case.
func ProvideSwingPointsUseCase(
	cfg *config.Config,
	p repository.CandleProvider,
	chunks repository.RangeFetcher,
	l *applogger.Logger,
	m repository.Metrics,
) *usecase.SwingPointsUseCase {
	opts := []usecase.SwingOption{
		usecase.WithWindow(cfg.Swing.Window),
		usecase.WithLogger(l),
		usecase.WithMetrics(m),
	}
	if cfg.Swing.Indicators {
		opts = append(opts, usecase.WithAnnotator(indicators.NewAnnotator()))
	}
	return usecase.NewSwingPointsUseCase(p, chunks, swing.NewDetector(), opts...)
}

// ProvideRateLimiter returns nil when inbound rate limiting is disabled.
func ProvideRateLimiter(cfg *config.Config) *ratelimit.Limiter {
	if !cfg.RateLimit.Enabled {
		return nil
	}
	return ratelimit.New(cfg.RateLimit.Capacity, cfg.RateLimit.RefillPerSec)
}

// ProvideHandler creates the HTTP handler for the swing point API.
func ProvideHandler(l *applogger.Logger, uc *usecase.SwingPointsUseCase, limiter *ratelimit.Limiter) xhttp.Handler {
	var opts []api.HandlerOption
	if limiter != nil {
		opts = append(opts, api.WithRateLimiter(limiter))
	}
	return api.NewSwingPointsHandler(l, uc, opts...)
}

// ProvideApp creates the application server.
func ProvideApp(
	cfg *config.Config,
	l *applogger.Logger,
	h xhttp.Handler,
	limiter *ratelimit.Limiter,
) *server.App {
	return server.New(cfg, l, h, limiter)
}
