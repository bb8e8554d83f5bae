// Package resource implements the per-actor resource pools (health, mana,
// energy, anguish, stagger): maxima derived from attributes, clamped current
// values, per-tick regeneration, and the stagger breach that hands control to
// the actor's state machine.
package resource

import (
	"go.uber.org/zap"

	"github.com/cory-johannsen/skirmish/internal/game/attribute"
)

// Kind names one resource pool.
type Kind int

const (
	Health Kind = iota
	Mana
	Energy
	Anguish
	Stagger
	kindCount
)

// Kinds lists every resource in declaration order.
var Kinds = []Kind{Health, Mana, Energy, Anguish, Stagger}

// MaxAnguish is the fixed anguish capacity; anguish is not attribute-derived.
const MaxAnguish = 100

// String returns the lowercase resource label.
func (k Kind) String() string {
	switch k {
	case Health:
		return "health"
	case Mana:
		return "mana"
	case Energy:
		return "energy"
	case Anguish:
		return "anguish"
	case Stagger:
		return "stagger"
	default:
		return "unknown"
	}
}

// ParseKind converts a content-file label into a Kind.
func ParseKind(s string) (Kind, bool) {
	for _, k := range Kinds {
		if k.String() == s {
			return k, true
		}
	}
	return Health, false
}

// StateGate is the actor state machine as seen by the pool: it reports whether
// the actor can be interrupted and receives the stagger/knockdown transitions.
//
//go:generate mockgen -source=pool.go -destination=../../testutil/mocks/mock_state_gate.go -package=mocks StateGate
type StateGate interface {
	IsInterruptible() bool
	EnterStagger()
	EnterKnockdown()
}

// Breach reports what a call to ApplyStaggerDamage did.
type Breach int

const (
	// Ignored means the actor was not interruptible; nothing changed.
	Ignored Breach = iota
	// Absorbed means stagger was reduced but not depleted.
	Absorbed
	// Staggered means the pool broke with power below the threshold.
	Staggered
	// KnockedDown means the pool broke with power at or above the threshold.
	KnockedDown
)

var breachNames = [...]string{"ignored", "absorbed", "staggered", "knocked_down"}

func (b Breach) String() string {
	if b < 0 || int(b) >= len(breachNames) {
		return "unknown"
	}
	return breachNames[b]
}

// Costs are the four resource prices of an ability.
type Costs struct {
	Mana    float64 `yaml:"mana"`
	Energy  float64 `yaml:"energy"`
	Health  float64 `yaml:"health"`
	Anguish float64 `yaml:"anguish"`
}

type maxRule struct {
	deps    []attribute.Name
	compute func(attribute.Reader) float64
}

var maxRules = [kindCount]maxRule{
	Health: {deps: []attribute.Name{attribute.Vitality}, compute: func(r attribute.Reader) float64 {
		return r.Value(attribute.Vitality) * 5
	}},
	Mana: {deps: []attribute.Name{attribute.Intelligence}, compute: func(r attribute.Reader) float64 {
		return r.Value(attribute.Intelligence) * 5
	}},
	Energy: {deps: []attribute.Name{attribute.Endurance}, compute: func(r attribute.Reader) float64 {
		return r.Value(attribute.Endurance) * 5
	}},
	Anguish: {compute: func(attribute.Reader) float64 { return MaxAnguish }},
	Stagger: {deps: []attribute.Name{attribute.Poise}, compute: func(r attribute.Reader) float64 {
		return r.Value(attribute.Poise)
	}},
}

var regenRates = map[Kind]attribute.Name{
	Health:  attribute.HealthRegen,
	Mana:    attribute.ManaRegen,
	Energy:  attribute.EnergyRegen,
	Stagger: attribute.StaggerRegen,
}

// Pool holds current/max pairs for every resource of one actor.
// It is not safe for concurrent use.
//
// Invariant: 0 <= Current(k) <= Max(k) for every k.
type Pool struct {
	attrs   *attribute.Set
	gate    StateGate
	logger  *zap.Logger
	current [kindCount]float64
	max     [kindCount]float64
}

// NewPool creates a pool whose maxima follow attrs, fully restored.
// The pool subscribes to attrs so maxima track attribute changes.
//
// Precondition: attrs must be non-nil.
// Postcondition: Current(k) == Max(k) for every k.
func NewPool(attrs *attribute.Set, gate StateGate, logger *zap.Logger) *Pool {
	if logger == nil {
		logger = zap.NewNop()
	}
	p := &Pool{attrs: attrs, gate: gate, logger: logger}
	attrs.Subscribe(p.attributesChanged)
	p.RecalculateMaxima()
	p.RestoreAll()
	return p
}

// SetGate replaces the state collaborator.
func (p *Pool) SetGate(gate StateGate) { p.gate = gate }

// Current returns the current value of k.
func (p *Pool) Current(k Kind) float64 { return p.current[k] }

// Max returns the maximum value of k.
func (p *Pool) Max(k Kind) float64 { return p.max[k] }

// Depleted reports whether k is at zero.
func (p *Pool) Depleted(k Kind) bool { return p.current[k] <= 0 }

// Spend removes up to amount from k and returns how much was removed.
// Negative amounts are treated as zero.
//
// Postcondition: Current(k) >= 0.
func (p *Pool) Spend(k Kind, amount float64) float64 {
	if amount <= 0 {
		return 0
	}
	before := p.current[k]
	p.set(k, before-amount)
	return before - p.current[k]
}

// Restore adds up to amount to k and returns how much was added.
// Negative amounts are treated as zero.
//
// Postcondition: Current(k) <= Max(k).
func (p *Pool) Restore(k Kind, amount float64) float64 {
	if amount <= 0 {
		return 0
	}
	before := p.current[k]
	p.set(k, before+amount)
	return p.current[k] - before
}

// RestoreAll sets every resource to its maximum.
func (p *Pool) RestoreAll() {
	for _, k := range Kinds {
		p.current[k] = p.max[k]
	}
}

// CanAfford reports whether all four costs can be paid. A health cost must
// leave strictly positive health.
func (p *Pool) CanAfford(c Costs) bool {
	return p.current[Mana] >= c.Mana &&
		p.current[Energy] >= c.Energy &&
		p.current[Anguish] >= c.Anguish &&
		(c.Health <= 0 || p.current[Health] > c.Health)
}

// SpendCosts pays all four costs. It reports false without side effects if
// CanAfford(c) is false.
func (p *Pool) SpendCosts(c Costs) bool {
	if !p.CanAfford(c) {
		return false
	}
	p.Spend(Mana, c.Mana)
	p.Spend(Energy, c.Energy)
	p.Spend(Health, c.Health)
	p.Spend(Anguish, c.Anguish)
	return true
}

// Tick regenerates health, mana, energy, and stagger at their regen attribute
// rate per second. A negative rate drains, still clamped at zero.
func (p *Pool) Tick(dt float64) {
	if dt <= 0 {
		return
	}
	for _, k := range Kinds {
		rate, ok := regenRates[k]
		if !ok {
			continue
		}
		p.set(k, p.current[k]+p.attrs.Value(rate)*dt)
	}
}

// ApplyStaggerDamage wears down the stagger pool. It is a no-op unless the
// state gate reports the actor interruptible. When the pool breaks it is
// refilled and the gate enters knockdown if power >= StaggerThreshold,
// stagger otherwise.
func (p *Pool) ApplyStaggerDamage(power float64) Breach {
	if p.gate == nil {
		p.logger.Error("stagger damage without a state collaborator; ignoring",
			zap.Float64("power", power))
		return Ignored
	}
	if power <= 0 || !p.gate.IsInterruptible() {
		return Ignored
	}
	p.current[Stagger] -= power
	if p.current[Stagger] > 0 {
		return Absorbed
	}
	p.current[Stagger] = p.max[Stagger]
	if power >= p.attrs.Value(attribute.StaggerThreshold) {
		p.gate.EnterKnockdown()
		return KnockedDown
	}
	p.gate.EnterStagger()
	return Staggered
}

// RecalculateMaxima recomputes every maximum from the attribute set and clamps
// current values into the new bounds.
func (p *Pool) RecalculateMaxima() {
	for _, k := range Kinds {
		p.recalculate(k)
	}
}

func (p *Pool) recalculate(k Kind) {
	m := maxRules[k].compute(p.attrs)
	if m < 0 {
		m = 0
	}
	p.max[k] = m
	p.set(k, p.current[k])
}

func (p *Pool) attributesChanged(changed []attribute.Name) {
	for _, k := range Kinds {
		for _, dep := range maxRules[k].deps {
			if containsName(changed, dep) {
				p.recalculate(k)
				break
			}
		}
	}
}

func (p *Pool) set(k Kind, v float64) {
	switch {
	case v < 0:
		v = 0
	case v > p.max[k]:
		v = p.max[k]
	}
	p.current[k] = v
}

func containsName(names []attribute.Name, n attribute.Name) bool {
	for _, x := range names {
		if x == n {
			return true
		}
	}
	return false
}
