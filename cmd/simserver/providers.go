package main

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/cory-johannsen/skirmish/internal/config"
	"github.com/cory-johannsen/skirmish/internal/observability"
	"github.com/cory-johannsen/skirmish/internal/server"
	"github.com/cory-johannsen/skirmish/internal/simulation"
)

// ConfigPath is the configuration file location passed to the injector.
type ConfigPath string

// App is the fully wired server.
type App struct {
	Config config.Config
	Logger *zap.Logger
	World  *simulation.World
	Ticker *simulation.Ticker
	Health *server.HealthService
}

func provideConfig(path ConfigPath) (config.Config, error) {
	cfg, err := config.Load(string(path))
	if err != nil {
		return config.Config{}, fmt.Errorf("loading config: %w", err)
	}
	return cfg, nil
}

func provideLogger(cfg config.Config) (*zap.Logger, func(), error) {
	logger, err := observability.NewLogger(cfg.Logging, "simserver")
	if err != nil {
		return nil, nil, fmt.Errorf("initializing logger: %w", err)
	}
	return logger, func() { _ = logger.Sync() }, nil
}

func provideWorld(cfg config.Config, logger *zap.Logger) (*simulation.World, func(), error) {
	w, err := simulation.NewWorld(cfg.Simulation, cfg.Combat, cfg.Scripting, observability.Component(logger, "world"))
	if err != nil {
		return nil, nil, err
	}
	return w, w.Close, nil
}

func provideTicker(cfg config.Config, w *simulation.World, logger *zap.Logger) *simulation.Ticker {
	return simulation.NewTicker(cfg.Simulation.TickInterval, w, observability.Component(logger, "ticker"))
}

func provideHealth(cfg config.Config, logger *zap.Logger) *server.HealthService {
	return server.NewHealthService(cfg.Health.Addr(), observability.Component(logger, "health"))
}
