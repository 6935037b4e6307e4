//go:build wireinject
// +build wireinject

package di

import (
	"github.com/AbrarQ/algo-lambda/pkg/config"
	"github.com/AbrarQ/algo-lambda/pkg/server"

	"github.com/google/wire"
)

// InitializeApp wires up all dependencies and returns the application.
// Wire will generate the implementation of this function.
func InitializeApp(cfg *config.Config) (*server.App, error) {
	wire.Build(
		// Ambient
		ProvideLogger,
		ProvideMetrics,

		// Upstream
		ProvideHTTPClient,
		ProvideCandleProvider,
		ProvideChunkedFetcher,

		// Use cases
		ProvideSwingPointsUseCase,

		// HTTP
		ProvideRateLimiter,
		ProvideHandler,

		// Application server
		ProvideApp,
	)
	return &server.App{}, nil
}
