package injector

import (
	"github.com/zeusync/sat2d/internal/config"
	"github.com/zeusync/sat2d/internal/core/observability/log"
	"github.com/zeusync/sat2d/internal/server"
)

// ProvideLevel reads the log level from the scene config.
func ProvideLevel(cfg *config.Config) (log.Level, error) {
	return log.ParseLevel(cfg.LogLevel)
}

func ProvideLogger(level log.Level) log.Log {
	return log.New(level)
}

func ProvideFeedConfig() server.FeedConfig {
	return server.FeedConfig{MaxClients: 64}
}
