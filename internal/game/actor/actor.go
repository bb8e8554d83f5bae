// Package actor assembles the combat components of one combat-capable actor
// and ticks every live actor in a stable order.
package actor

import (
	"errors"
	"fmt"
	"sort"

	"go.uber.org/zap"

	"github.com/cory-johannsen/skirmish/internal/game/ability"
	"github.com/cory-johannsen/skirmish/internal/game/attribute"
	"github.com/cory-johannsen/skirmish/internal/game/condition"
	"github.com/cory-johannsen/skirmish/internal/game/resource"
)

// StatPointsPerLevel is the number of allocatable points granted by LevelUp.
const StatPointsPerLevel = 5

var (
	// ErrNoStatPoints is returned by AllocateStatPoint with nothing to spend.
	ErrNoStatPoints = errors.New("no unallocated stat points")
	// ErrDead is returned for operations a dead actor cannot perform.
	ErrDead = errors.New("actor is dead")
)

// Kind distinguishes player-controlled from AI-controlled actors. Both use the
// same combat API.
type Kind int

const (
	Player Kind = iota
	NPC
)

func (k Kind) String() string {
	if k == NPC {
		return "npc"
	}
	return "player"
}

// Deps are the shared collaborators every actor is built with.
type Deps struct {
	Env        *ability.Env
	Capacities ability.Capacities
	Sink       ability.CurrencySink // nil credits the actor's own wallet
	Ability    ability.Options
	Posture    PostureConfig
	Logger     *zap.Logger
}

// Actor owns one attribute set, resource pool, modifier ledger, ability
// executor, and posture. It implements ability.Combatant and resource.StateGate.
// It is not safe for concurrent use; Manager serialises access.
type Actor struct {
	id         string
	name       string
	kind       Kind
	level      int
	statPoints int
	currency   int
	transform  ability.Transform

	attrs   *attribute.Set
	pool    *resource.Pool
	ledger  *condition.Ledger
	exec    *ability.Executor
	posture *Posture
	logger  *zap.Logger
}

// New creates a level-1 actor with default primaries and full resources.
//
// Precondition: id must be non-empty.
func New(id, name string, kind Kind, deps Deps) *Actor {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	logger = logger.With(zap.String("actor", id))
	if deps.Capacities == nil {
		deps.Capacities = ability.NewCatalog()
	}
	attrs := attribute.NewDefaultSet()
	a := &Actor{
		id:      id,
		name:    name,
		kind:    kind,
		level:   1,
		attrs:   attrs,
		ledger:  condition.NewLedger(attrs, logger),
		posture: NewPosture(deps.Posture),
		logger:  logger,
	}
	a.pool = resource.NewPool(attrs, a, logger)
	sink := deps.Sink
	if sink == nil {
		sink = a
	}
	a.exec = ability.NewExecutor(a, deps.Env, deps.Capacities, sink, deps.Ability, logger)
	return a
}

// ID returns the actor's unique identifier.
func (a *Actor) ID() string { return a.id }

// Name returns the display name.
func (a *Actor) Name() string { return a.name }

// Kind reports whether the actor is a player or an NPC.
func (a *Actor) Kind() Kind { return a.kind }

// Level returns the current level, starting at 1.
func (a *Actor) Level() int { return a.level }

// StatPoints returns the unallocated primary attribute points.
func (a *Actor) StatPoints() int { return a.statPoints }

// Currency returns the wallet balance.
func (a *Actor) Currency() int { return a.currency }

// Attributes returns the actor's attribute set.
func (a *Actor) Attributes() *attribute.Set { return a.attrs }

// Resources returns the actor's resource pool.
func (a *Actor) Resources() *resource.Pool { return a.pool }

// Modifiers returns the timed modifier ledger.
func (a *Actor) Modifiers() *condition.Ledger { return a.ledger }

// Executor returns the ability executor.
func (a *Actor) Executor() *ability.Executor { return a.exec }

// Posture returns the stagger/knockdown state machine.
func (a *Actor) Posture() *Posture { return a.posture }

// Transform returns the actor's world position.
func (a *Actor) Transform() ability.Transform { return a.transform }

// SetTransform moves the actor.
func (a *Actor) SetTransform(t ability.Transform) { a.transform = t }

// Grant credits amount to the actor's own wallet. It is the default currency
// sink for over-cap learn attempts; grants addressed to another actor are
// dropped.
func (a *Actor) Grant(actorID string, amount int) {
	if actorID != a.id || amount <= 0 {
		return
	}
	a.currency += amount
	a.logger.Debug("currency granted", zap.Int("amount", amount), zap.Int("balance", a.currency))
}

// Dead reports whether the actor has died and not been revived.
func (a *Actor) Dead() bool { return a.posture.Stance() == Dead }

// IsInterruptible reports whether stagger damage can land: the actor must be
// standing or moving and not executing an ability.
func (a *Actor) IsInterruptible() bool {
	return a.posture.Free() && a.exec.State() == ability.Idle
}

// EnterStagger is called by the resource pool when stagger breaks below threshold.
func (a *Actor) EnterStagger() {
	a.posture.Stagger()
	a.logger.Debug("staggered")
}

// EnterKnockdown is called by the resource pool when stagger breaks at or above threshold.
func (a *Actor) EnterKnockdown() {
	a.posture.Knockdown()
	a.logger.Debug("knocked down")
}

// Use asks the executor to start ab against target.
//
// Postcondition: false when dead, interrupted, or when the executor rejects it.
func (a *Actor) Use(ab *ability.Ability, target ability.Combatant) bool {
	if !a.posture.Free() {
		return false
	}
	return a.exec.TryUse(ab, target)
}

// Learn records ab in its own category.
func (a *Actor) Learn(ab *ability.Ability) bool {
	if ab == nil {
		return false
	}
	return a.exec.LearnAbility(ab, ab.Category)
}

// Tick advances regeneration, modifier expiry, the executor, and the posture,
// in that order. Death is checked before and after; dead actors do not tick.
func (a *Actor) Tick(dt float64) {
	if a.Dead() || a.CheckDeath() {
		return
	}
	a.pool.Tick(dt)
	a.ledger.Tick(dt)
	a.exec.Tick(dt)
	a.posture.Tick(dt)
	a.CheckDeath()
}

// CheckDeath kills the actor if its health is depleted. Death aborts any
// ability in progress.
//
// Postcondition: returns true if the actor died during this call.
func (a *Actor) CheckDeath() bool {
	if a.Dead() || !a.pool.Depleted(resource.Health) {
		return false
	}
	a.exec.Abort()
	a.posture.Die()
	a.logger.Info("actor died")
	return true
}

// Revive clears runtime combat state and restores every resource.
func (a *Actor) Revive() {
	a.ledger.Clear()
	a.exec.Reset()
	a.posture.Revive()
	a.pool.RestoreAll()
}

// LevelUp raises the level, grants stat points, and fully restores resources.
func (a *Actor) LevelUp() {
	a.level++
	a.statPoints += StatPointsPerLevel
	a.pool.RestoreAll()
	a.logger.Info("level up", zap.Int("level", a.level))
}

// AllocateStatPoint spends one point to raise a primary attribute's base by 1.
//
// Postcondition: on error nothing changes.
func (a *Actor) AllocateStatPoint(name attribute.Name) error {
	if a.statPoints <= 0 {
		return ErrNoStatPoints
	}
	attr := a.attrs.Get(name)
	if attr == nil {
		return fmt.Errorf("allocate %q: %w", name, attribute.ErrUnknownAttribute)
	}
	if err := a.attrs.SetBase(name, attr.Base()+1); err != nil {
		return fmt.Errorf("allocate %q: %w", name, err)
	}
	a.statPoints--
	return nil
}

// Snapshot is the persisted form of an actor: identity, progression, base
// primaries, currency, and learned abilities. Runtime modifiers, cooldowns, and the
// activation lock are never persisted.
type Snapshot struct {
	ID         string
	Name       string
	Kind       Kind
	Level      int
	StatPoints int
	Currency   int
	Bases      map[string]float64
	Learned    map[string][]string
}

// Snapshot captures the persisted state.
func (a *Actor) Snapshot() Snapshot {
	bases := make(map[string]float64)
	for n, v := range a.attrs.Bases() {
		bases[string(n)] = v
	}
	return Snapshot{
		ID:         a.id,
		Name:       a.name,
		Kind:       a.kind,
		Level:      a.level,
		StatPoints: a.statPoints,
		Currency:   a.currency,
		Bases:      bases,
		Learned:    a.exec.Learned().Snapshot(),
	}
}

// Restore writes a snapshot back, recomputes every derived attribute and
// resource maximum, and fully restores resources.
//
// Postcondition: on error the actor may be partially restored.
func (a *Actor) Restore(s Snapshot) error {
	names := make([]string, 0, len(s.Bases))
	for n := range s.Bases {
		names = append(names, n)
	}
	sort.Strings(names)
	for _, n := range names {
		if err := a.attrs.SetBase(attribute.Name(n), s.Bases[n]); err != nil {
			return fmt.Errorf("restore %q: %w", a.id, err)
		}
	}
	a.name = s.Name
	a.kind = s.Kind
	a.level = s.Level
	a.statPoints = s.StatPoints
	a.currency = s.Currency
	a.exec.Learned().Restore(s.Learned)
	a.attrs.Recompute()
	a.pool.RecalculateMaxima()
	a.pool.RestoreAll()
	return nil
}
