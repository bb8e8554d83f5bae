// Package main provides the simulation server binary: it loads combat content,
// spawns or restores actors, and ticks them at a fixed interval while serving
// gRPC health checks.
package main

import (
	"context"
	"flag"
	"log"
	"time"

	"go.uber.org/zap"

	"github.com/cory-johannsen/skirmish/internal/server"
	"github.com/cory-johannsen/skirmish/internal/simulation"
	"github.com/cory-johannsen/skirmish/internal/storage/postgres"
)

func main() {
	start := time.Now()

	configPath := flag.String("config", "configs/dev.yaml", "path to configuration file")
	flag.Parse()

	app, cleanup, err := initializeApp(ConfigPath(*configPath))
	if err != nil {
		log.Fatalf("initializing server: %v", err)
	}
	defer cleanup()

	ctx := context.Background()
	cfg := app.Config
	logger := app.Logger
	lifecycle := server.NewLifecycle(logger)
	lifecycle.Add("health", app.Health)

	restored := 0
	if cfg.Database.Enabled {
		pool, err := postgres.NewPool(ctx, cfg.Database)
		if err != nil {
			logger.Fatal("connecting to database", zap.Error(err))
		}
		repo := postgres.NewActorRepository(pool.DB())
		if restored, err = app.World.Restore(ctx, repo); err != nil {
			logger.Fatal("restoring actors", zap.Error(err))
		}
		logger.Info("actors restored", zap.Int("count", restored))

		lifecycle.Add("postgres", dbHealthService(pool, app.Health, logger))
		lifecycle.Add("persister", simulation.NewPersister(app.World, repo, cfg.Simulation.SnapshotInterval, logger.Named("persister")))
	}

	if restored == 0 && cfg.Simulation.ActorsDir != "" {
		n, err := app.World.SpawnTemplates(cfg.Simulation.ActorsDir)
		if err != nil {
			logger.Fatal("spawning actors", zap.Error(err))
		}
		logger.Info("actors spawned", zap.Int("count", n))
	}

	app.Ticker.Observe("health", func(tick uint64) {
		if tick == 1 {
			app.Health.SetServing("", true)
			app.Health.SetServing("simulation", true)
		}
	})
	lifecycle.Add("ticker", app.Ticker)

	logger.Info("simulation server initialized",
		zap.Duration("startup", time.Since(start)),
		zap.String("health_addr", cfg.Health.Addr()),
		zap.Duration("tick_interval", cfg.Simulation.TickInterval),
		zap.Int("actors", app.World.Actors.Len()),
	)

	if err := lifecycle.Run(ctx); err != nil {
		logger.Error("server error", zap.Error(err))
		cleanup()
		log.Fatalf("server error: %v", err)
	}
}

// dbHealthService pings the database every 30s and mirrors the result into
// the "postgres" health status.
func dbHealthService(pool *postgres.Pool, health *server.HealthService, logger *zap.Logger) server.Service {
	stop := make(chan struct{})
	return &server.FuncService{
		StartFn: func() error {
			health.SetServing("postgres", true)
			ticker := time.NewTicker(30 * time.Second)
			defer ticker.Stop()
			for {
				select {
				case <-stop:
					return nil
				case <-ticker.C:
					err := pool.Health(context.Background(), 5*time.Second)
					if err != nil {
						logger.Warn("database health check failed", zap.Error(err))
					}
					health.SetServing("postgres", err == nil)
				}
			}
		},
		StopFn: func() {
			close(stop)
			pool.Close()
		},
	}
}
