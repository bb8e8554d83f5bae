package ability

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/cory-johannsen/skirmish/internal/game/attribute"
	"github.com/cory-johannsen/skirmish/internal/game/combat"
	"github.com/cory-johannsen/skirmish/internal/game/condition"
	"github.com/cory-johannsen/skirmish/internal/game/dice"
	"github.com/cory-johannsen/skirmish/internal/game/resource"
)

//go:generate mockgen -source=effect.go -destination=../../testutil/mocks/mock_ability.go -package=mocks Spawner ScriptRunner CurrencySink

// Spawner places a visual effect. Its result is never consumed.
type Spawner interface {
	Spawn(tag string, at Transform)
}

// ScriptRunner executes a named Lua hook for a script effect.
type ScriptRunner interface {
	RunEffect(script string, caster, target Combatant) error
}

// CurrencySink receives the reward granted when a learn attempt exceeds the
// category cap.
type CurrencySink interface {
	Grant(actorID string, amount int)
}

// Env carries the shared collaborators effects need. Nil members disable the
// effects that depend on them; those effects report a configuration error.
type Env struct {
	Roller     *dice.Roller
	Conditions *condition.Registry
	Spawner    Spawner
	Scripts    ScriptRunner
	Logger     *zap.Logger
}

// Effect is one unit of work in an ability step.
type Effect interface {
	Kind() string
	// Apply runs the effect for ab, the ability being executed.
	Apply(env *Env, ab *Ability, caster, target Combatant) error
}

// DamageEffect resolves a hit against the target's health and optionally
// deals stagger damage.
type DamageEffect struct {
	Power          float64
	Variance       *dice.Expression
	Category       combat.Category
	Stagger        float64
	CanCrit        bool
	GuaranteedCrit bool
}

func (DamageEffect) Kind() string { return "damage" }

// Apply spends the resolved damage from the target's health, then applies
// stagger power if any.
func (d DamageEffect) Apply(env *Env, _ *Ability, caster, target Combatant) error {
	power := d.Power
	var chancer combat.Chancer
	if env.Roller != nil {
		chancer = env.Roller
		if d.Variance != nil {
			power += float64(env.Roller.Roll(*d.Variance).Total())
		}
	}
	res := combat.Compute(caster.Attributes(), target.Attributes(), combat.Hit{
		BasePower:      power,
		Category:       d.Category,
		CanCrit:        d.CanCrit,
		GuaranteedCrit: d.GuaranteedCrit,
	}, chancer)
	dealt := target.Resources().Spend(resource.Health, res.Damage)
	env.Logger.Debug("damage resolved",
		zap.String("caster", caster.ID()),
		zap.String("target", target.ID()),
		zap.Stringer("category", d.Category),
		zap.Float64("damage", res.Damage),
		zap.Float64("dealt", dealt),
		zap.Bool("critical", res.Critical),
	)
	if d.Stagger > 0 {
		target.Resources().ApplyStaggerDamage(d.Stagger)
	}
	return nil
}

// StaggerEffect deals stagger damage only.
type StaggerEffect struct {
	Power float64
}

func (StaggerEffect) Kind() string { return "stagger" }

func (s StaggerEffect) Apply(_ *Env, _ *Ability, _, target Combatant) error {
	target.Resources().ApplyStaggerDamage(s.Power)
	return nil
}

// ModifierEffect applies one attribute modifier under the ability's source.
type ModifierEffect struct {
	Attribute attribute.Name
	ModKind   attribute.Kind
	Magnitude float64
	Duration  float64
}

func (ModifierEffect) Kind() string { return "modifier" }

func (m ModifierEffect) Apply(_ *Env, ab *Ability, _, target Combatant) error {
	return target.Modifiers().Apply(m.Attribute, &attribute.Modifier{
		Magnitude: m.Magnitude,
		Kind:      m.ModKind,
		Source:    ab.Source(),
		Duration:  m.Duration,
	})
}

// ConditionEffect applies a named condition definition.
type ConditionEffect struct {
	ConditionID string
}

func (ConditionEffect) Kind() string { return "condition" }

func (c ConditionEffect) Apply(env *Env, _ *Ability, _, target Combatant) error {
	if env.Conditions == nil {
		return fmt.Errorf("condition %q: no condition registry configured", c.ConditionID)
	}
	def, ok := env.Conditions.Get(c.ConditionID)
	if !ok {
		return fmt.Errorf("condition %q: not defined", c.ConditionID)
	}
	return target.Modifiers().ApplyDef(def, attribute.StaticSource("condition:"+def.ID))
}

// RestoreEffect restores an amount of one resource.
type RestoreEffect struct {
	Resource resource.Kind
	Amount   float64
}

func (RestoreEffect) Kind() string { return "restore" }

func (r RestoreEffect) Apply(_ *Env, _ *Ability, _, target Combatant) error {
	target.Resources().Restore(r.Resource, r.Amount)
	return nil
}

// VFXEffect spawns a visual at the target's transform.
type VFXEffect struct {
	Tag string
}

func (VFXEffect) Kind() string { return "vfx" }

func (v VFXEffect) Apply(env *Env, _ *Ability, _, target Combatant) error {
	if env.Spawner == nil {
		return fmt.Errorf("vfx %q: no spawner configured", v.Tag)
	}
	env.Spawner.Spawn(v.Tag, target.Transform())
	return nil
}

// ScriptEffect runs a Lua effect hook.
type ScriptEffect struct {
	Script string
}

func (ScriptEffect) Kind() string { return "script" }

func (s ScriptEffect) Apply(env *Env, _ *Ability, caster, target Combatant) error {
	if env.Scripts == nil {
		return fmt.Errorf("script %q: no script runner configured", s.Script)
	}
	return env.Scripts.RunEffect(s.Script, caster, target)
}
