package simulation

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/cory-johannsen/skirmish/internal/config"
	"github.com/cory-johannsen/skirmish/internal/game/ability"
	"github.com/cory-johannsen/skirmish/internal/game/actor"
	"github.com/cory-johannsen/skirmish/internal/game/condition"
	"github.com/cory-johannsen/skirmish/internal/game/dice"
	"github.com/cory-johannsen/skirmish/internal/scripting"
)

// SnapshotLoader returns every persisted actor snapshot.
type SnapshotLoader interface {
	LoadAll(ctx context.Context) ([]actor.Snapshot, error)
}

// World is the loaded content plus the live actor registry.
type World struct {
	Actors     *actor.Manager
	Catalog    *ability.Catalog
	Conditions *condition.Registry
	Roller     *dice.Roller
	// Scripts is nil when scripting is disabled.
	Scripts *scripting.Manager

	logger *zap.Logger
}

// NewWorld loads conditions, abilities, and scripts and builds an empty actor
// registry whose actors share one ability environment.
//
// Postcondition: on error nothing is left open.
func NewWorld(sim config.SimulationConfig, combat config.CombatConfig, scr config.ScriptingConfig, logger *zap.Logger) (*World, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	conds, err := condition.LoadDirectory(sim.ConditionsDir)
	if err != nil {
		return nil, fmt.Errorf("loading conditions: %w", err)
	}
	catalog, err := ability.LoadDirectory(sim.AbilitiesDir, ability.NewEffectRegistry())
	if err != nil {
		return nil, fmt.Errorf("loading abilities: %w", err)
	}

	src := dice.NewCryptoSource()
	if sim.Seed != 0 {
		src = dice.NewSeededSource(sim.Seed)
	}
	roller := dice.NewRoller(src, logger.Named("dice"))

	env := &ability.Env{
		Roller:     roller,
		Conditions: conds,
		Spawner:    NewLogSpawner(logger.Named("vfx")),
		Logger:     logger,
	}
	w := &World{Catalog: catalog, Conditions: conds, Roller: roller, logger: logger}
	if scr.Dir != "" {
		w.Scripts = scripting.NewManager(roller, conds, logger.Named("scripting"))
		if err := w.Scripts.Load(scr.Dir, scr.InstructionLimit); err != nil {
			return nil, err
		}
		env.Scripts = w.Scripts
	}

	w.Actors = actor.NewManager(catalog, actor.Deps{
		Env:        env,
		Capacities: catalog,
		Ability: ability.Options{
			MinLock: combat.MinActivationLock,
			Learned: ability.LearnedConfig{
				CapRatio:       combat.LearnCapRatio,
				CurrencyReward: combat.CurrencyReward,
			},
		},
		Posture: actor.PostureConfig{
			StaggerDuration:   combat.StaggerDuration,
			KnockdownDuration: combat.KnockdownDuration,
		},
		Logger: logger,
	}, logger)

	logger.Info("world loaded",
		zap.Int("abilities", catalog.Len()),
		zap.Int("conditions", len(conds.All())),
		zap.Bool("scripting", w.Scripts != nil),
	)
	return w, nil
}

// Tick advances every actor.
func (w *World) Tick(dt float64) { w.Actors.Tick(dt) }

// Snapshots returns every actor's persisted state.
func (w *World) Snapshots() []actor.Snapshot { return w.Actors.Snapshots() }

// SpawnTemplates spawns one actor per template found in dir and returns how
// many were spawned.
func (w *World) SpawnTemplates(dir string) (int, error) {
	tmpls, err := actor.LoadTemplates(dir)
	if err != nil {
		return 0, err
	}
	for _, t := range tmpls {
		a, err := w.Actors.Spawn(t)
		if err != nil {
			return 0, err
		}
		w.logger.Info("actor spawned",
			zap.String("template", t.ID),
			zap.String("actor", a.ID()),
			zap.Int("level", a.Level()),
		)
	}
	return len(tmpls), nil
}

// Restore loads every persisted actor into the registry.
func (w *World) Restore(ctx context.Context, loader SnapshotLoader) (int, error) {
	snaps, err := loader.LoadAll(ctx)
	if err != nil {
		return 0, fmt.Errorf("loading snapshots: %w", err)
	}
	for _, s := range snaps {
		if _, err := w.Actors.Load(s); err != nil {
			return 0, fmt.Errorf("restoring actor %q: %w", s.ID, err)
		}
	}
	return len(snaps), nil
}

// Close releases the scripting VM.
func (w *World) Close() {
	if w.Scripts != nil {
		w.Scripts.Close()
	}
}

// LogSpawner is an ability.Spawner that records VFX requests in the log.
// It stands in for a renderer in the headless server.
type LogSpawner struct {
	logger *zap.Logger
}

// NewLogSpawner returns a spawner that logs at debug level.
func NewLogSpawner(logger *zap.Logger) *LogSpawner {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &LogSpawner{logger: logger}
}

// Spawn logs tag and position.
func (s *LogSpawner) Spawn(tag string, at ability.Transform) {
	s.logger.Debug("vfx", zap.String("tag", tag), zap.Float64("x", at.X), zap.Float64("y", at.Y))
}
