//go:build wireinject
// +build wireinject

package di

import (
	"Moonlander/pkg/config"
	"Moonlander/pkg/server"

	"github.com/google/wire"
)

// InitializeApp wires up all dependencies and returns the application.
// Wire will generate the implementation of this function.
func InitializeApp(cfg *config.Config) (*server.App, error) {
	wire.Build(
		ProvideLogger,
		ProvideMetrics,

		// Acquisition
		ProvideBudget,
		ProvideMarketData,

		// Infrastructure
		ProvideCache,
		ProvideSnapshotCache,
		ProvidePublisher,

		// Core
		ProvideScoringEngine,
		ProvidePool,
		ProvidePublishedStore,
		ProvideGenerator,
		ProvideQuery,

		// Delivery
		ProvideHub,
		ProvideHandler,
		ProvideScheduler,

		ProvideApp,
	)
	return &server.App{}, nil
}
