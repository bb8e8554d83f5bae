// Package ability defines abilities, the effects their steps run, the YAML
// catalog they load from, and the per-actor Executor that gates, activates, and
// sequences them.
package ability

import (
	"github.com/cory-johannsen/skirmish/internal/game/attribute"
	"github.com/cory-johannsen/skirmish/internal/game/condition"
	"github.com/cory-johannsen/skirmish/internal/game/resource"
)

// Transform is a world position and facing handed to the VFX spawner.
type Transform struct {
	X, Y, Z float64
	Facing  float64
}

// Combatant is the actor surface that abilities read from and mutate.
// Effects only call the public mutators of these components.
type Combatant interface {
	ID() string
	Attributes() *attribute.Set
	Resources() *resource.Pool
	Modifiers() *condition.Ledger
	Transform() Transform
}

// Target selects which combatant a step applies to.
type Target int

const (
	// TargetOther applies the step to the activation target.
	TargetOther Target = iota
	// TargetSelf applies the step to the caster.
	TargetSelf
)

// Step is one entry of an ability's effect sequence.
// Delay is the pause after the effect before the next step may run.
type Step struct {
	Effect Effect
	Delay  float64
	Target Target
}

// Ability is an immutable ability definition.
type Ability struct {
	ID             string
	Name           string
	Category       string
	Costs          resource.Costs
	ActivationTime float64
	Cooldown       float64
	// SelfCast makes the caster the activation target regardless of the
	// target passed to TryUse.
	SelfCast bool
	Steps    []Step
}

// Source returns the modifier source under which this ability's modifiers are
// applied, so a recast refreshes instead of stacking.
func (a *Ability) Source() attribute.SourceID {
	return attribute.StaticSource("ability:" + a.ID)
}
