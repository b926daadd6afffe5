//go:build wireinject
// +build wireinject

// The build tag makes sure the stub is not built in the final build.

package injector

import (
	"github.com/google/wire"

	"github.com/zeusync/sat2d/internal/config"
	"github.com/zeusync/sat2d/internal/core/events/bus"
	"github.com/zeusync/sat2d/internal/core/observability/log"
	"github.com/zeusync/sat2d/internal/server"
	"github.com/zeusync/sat2d/internal/simulation"
)

func InitializeSimulation(cfg *config.Config) (*simulation.Simulation, error) {
	wire.Build(ProvideLevel, ProvideLogger, bus.New, simulation.New)
	return nil, nil
}

func InitializeFeed(level log.Level) *server.Feed {
	wire.Build(ProvideLogger, ProvideFeedConfig, server.NewFeed)
	return nil
}
