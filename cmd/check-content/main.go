// Package main provides a content checker: it loads every ability,
// condition, script, and actor template the server would load and reports
// broken cross references.
package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	"go.uber.org/zap"

	"github.com/cory-johannsen/skirmish/internal/config"
	"github.com/cory-johannsen/skirmish/internal/observability"
	"github.com/cory-johannsen/skirmish/internal/simulation"
)

func main() {
	configPath := flag.String("config", "configs/dev.yaml", "path to configuration file")
	flag.Parse()

	start := time.Now()
	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
	logger, err := observability.NewLogger(config.LoggingConfig{Level: "warn", Format: "console"}, "check-content")
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = logger.Sync() }()

	w, err := simulation.NewWorld(cfg.Simulation, cfg.Combat, cfg.Scripting, logger)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
	defer w.Close()

	spawned := 0
	if cfg.Simulation.ActorsDir != "" {
		if spawned, err = w.SpawnTemplates(cfg.Simulation.ActorsDir); err != nil {
			fmt.Fprintf(os.Stderr, "error: %v\n", err)
			os.Exit(1)
		}
	}

	errs := w.Validate()
	for _, e := range errs {
		logger.Error("content error", zap.Error(e))
		fmt.Fprintf(os.Stderr, "  %v\n", e)
	}
	if len(errs) > 0 {
		fmt.Fprintf(os.Stderr, "%d content error(s)\n", len(errs))
		os.Exit(1)
	}
	fmt.Printf("content ok: %d abilities, %d conditions, %d actor templates in %s\n",
		w.Catalog.Len(), len(w.Conditions.All()), spawned, time.Since(start).Round(time.Millisecond))
}
