package ability

import (
	"math"

	"go.uber.org/zap"

	"github.com/cory-johannsen/skirmish/internal/game/attribute"
)

const (
	// DefaultMinLock is the shortest activation lock any ability can have.
	DefaultMinLock = 0.05
	// dexterityLockScale normalises Dexterity in the lock reduction curve.
	dexterityLockScale = 2500.0
)

// State is the executor's coarse state.
type State int

const (
	Idle State = iota
	Activating
)

func (s State) String() string {
	if s == Activating {
		return "activating"
	}
	return "idle"
}

// ActivationLock returns max(minLock, activationTime * (1 - min(1, sqrt(dex/2500)))).
func ActivationLock(activationTime, dexterity, minLock float64) float64 {
	reduction := math.Sqrt(math.Max(dexterity, 0) / dexterityLockScale)
	if reduction > 1 {
		reduction = 1
	}
	return math.Max(minLock, activationTime*(1-reduction))
}

// Options tunes an Executor.
type Options struct {
	MinLock float64
	Learned LearnedConfig
}

// Executor gates, activates, and sequences abilities for one actor.
// It is not safe for concurrent use; the owning actor's tick serialises access.
//
// Invariant: at most one activation is in progress.
type Executor struct {
	owner   Combatant
	env     *Env
	learned *Learned
	minLock float64
	logger  *zap.Logger

	state     State
	current   *Ability
	target    Combatant
	next      int
	wait      float64
	lock      float64
	committed bool
	cooldowns map[string]float64
}

// NewExecutor creates an idle executor for owner. A nil env disables the
// effects that need shared collaborators.
func NewExecutor(owner Combatant, env *Env, capacities Capacities, sink CurrencySink, opts Options, logger *zap.Logger) *Executor {
	if logger == nil {
		logger = zap.NewNop()
	}
	if env == nil {
		env = &Env{}
	}
	if env.Logger == nil {
		env.Logger = logger
	}
	if opts.MinLock <= 0 {
		opts.MinLock = DefaultMinLock
	}
	var ownerID string
	if owner != nil {
		ownerID = owner.ID()
	}
	return &Executor{
		owner:     owner,
		env:       env,
		learned:   NewLearned(ownerID, capacities, opts.Learned, sink, logger),
		minLock:   opts.MinLock,
		logger:    logger,
		cooldowns: make(map[string]float64),
	}
}

// State returns the current state.
func (e *Executor) State() State { return e.state }

// Current returns the ability being executed, or nil when idle.
func (e *Executor) Current() *Ability { return e.current }

// LockRemaining returns the activation lock time left.
func (e *Executor) LockRemaining() float64 { return e.lock }

// Cooldown returns the remaining cooldown for abilityID.
func (e *Executor) Cooldown(abilityID string) (remaining float64, ok bool) {
	remaining, ok = e.cooldowns[abilityID]
	return remaining, ok
}

// Learned returns the learned-ability registry.
func (e *Executor) Learned() *Learned { return e.learned }

// LearnAbility records a under category subject to the category cap.
func (e *Executor) LearnAbility(a *Ability, category string) bool {
	if a == nil {
		return false
	}
	return e.learned.Learn(a.ID, category)
}

// TryUse starts a against target.
//
// Postcondition: returns false with no side effects when activating, when a is
// on cooldown, or when its costs are unaffordable. Otherwise costs are spent,
// the executor is Activating, and every step up to the first delay has run.
func (e *Executor) TryUse(a *Ability, target Combatant) bool {
	if e.owner == nil || e.owner.Resources() == nil || e.owner.Attributes() == nil {
		e.logger.Error("configuration error: executor has no owner resources or attributes")
		return false
	}
	if a == nil || e.state == Activating {
		return false
	}
	if target == nil && !a.SelfCast {
		return false
	}
	if _, cooling := e.cooldowns[a.ID]; cooling {
		return false
	}
	pool := e.owner.Resources()
	if !pool.SpendCosts(a.Costs) {
		return false
	}
	if a.SelfCast {
		target = e.owner
	}
	dex := e.owner.Attributes().Value(attribute.Dexterity)
	e.state = Activating
	e.current = a
	e.target = target
	e.next = 0
	e.wait = 0
	e.committed = false
	e.lock = ActivationLock(a.ActivationTime, dex, e.minLock)
	e.logger.Debug("ability activated",
		zap.String("actor", e.owner.ID()),
		zap.String("ability", a.ID),
		zap.String("target", target.ID()),
		zap.Float64("lock", e.lock),
	)
	e.advance()
	e.settle()
	return true
}

// Tick decrements cooldowns and the activation lock by dt, then runs any
// steps whose delay has elapsed.
func (e *Executor) Tick(dt float64) {
	for id, rem := range e.cooldowns {
		rem -= dt
		if rem <= 0 {
			delete(e.cooldowns, id)
			continue
		}
		e.cooldowns[id] = rem
	}
	if e.state != Activating {
		return
	}
	e.lock = math.Max(0, e.lock-dt)
	if !e.committed {
		e.wait -= dt
		e.advance()
	}
	e.settle()
}

// Abort drops the remaining steps of the current activation, commits its
// cooldown, and returns to Idle. It is a no-op when idle.
func (e *Executor) Abort() {
	if e.state != Activating {
		return
	}
	e.logger.Debug("ability aborted",
		zap.String("ability", e.current.ID),
		zap.Int("skipped_steps", len(e.current.Steps)-e.next),
	)
	e.commit()
	e.lock = 0
	e.settle()
}

// Reset clears cooldowns and any activation without committing anything.
func (e *Executor) Reset() {
	e.state = Idle
	e.current = nil
	e.target = nil
	e.lock = 0
	e.committed = false
	e.cooldowns = make(map[string]float64)
}

// advance runs due steps in order until a pending delay or the end of the sequence.
func (e *Executor) advance() {
	steps := e.current.Steps
	for e.wait <= 0 && e.next < len(steps) {
		st := steps[e.next]
		e.next++
		e.run(st)
		e.wait += st.Delay
	}
	if e.next >= len(steps) && e.wait <= 0 {
		e.commit()
	}
}

func (e *Executor) run(st Step) {
	target := e.target
	if st.Target == TargetSelf {
		target = e.owner
	}
	if target.Resources() == nil || target.Attributes() == nil || target.Modifiers() == nil {
		e.logger.Error("configuration error: step target is missing combat components",
			zap.String("ability", e.current.ID),
			zap.String("target", target.ID()),
		)
		return
	}
	if err := st.Effect.Apply(e.env, e.current, e.owner, target); err != nil {
		e.logger.Error("ability step failed",
			zap.String("ability", e.current.ID),
			zap.String("effect", st.Effect.Kind()),
			zap.Int("step", e.next-1),
			zap.Error(err),
		)
	}
}

func (e *Executor) commit() {
	if e.committed {
		return
	}
	e.committed = true
	if e.current.Cooldown > 0 {
		e.cooldowns[e.current.ID] = e.current.Cooldown
	}
}

// settle returns to Idle once the sequence has committed and the lock expired.
func (e *Executor) settle() {
	if e.state == Activating && e.committed && e.lock <= 0 {
		e.state = Idle
		e.current = nil
		e.target = nil
	}
}
