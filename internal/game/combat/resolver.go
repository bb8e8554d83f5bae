package combat

import (
	"math"

	"github.com/cory-johannsen/skirmish/internal/game/attribute"
)

const (
	// MinDamage is the floor applied to every resolved hit.
	MinDamage = 1.0
	// MinResistance keeps 100+resistance positive; the multiplier peaks at 100x.
	MinResistance = -99.0
)

// Hit describes one incoming blow.
type Hit struct {
	BasePower float64
	Category  Category
	// CanCrit enables the CriticalChance roll.
	CanCrit bool
	// GuaranteedCrit forces a critical hit without rolling.
	GuaranteedCrit bool
}

// Result is the outcome of Compute.
type Result struct {
	Damage     float64
	Critical   bool
	Scaling    float64
	Resistance float64
}

// Chancer decides probability checks. *dice.Roller satisfies it.
// Using a local interface keeps the resolver free of randomness wiring.
type Chancer interface {
	Chance(p float64) bool
}

// Compute resolves hit from attacker against defender.
//
// damage = (BasePower + scaling) * 100 / (100 + resistance), multiplied by the
// attacker's CriticalDamage on a critical hit, then floored at MinDamage.
// A nil chancer never rolls a probabilistic crit; GuaranteedCrit still applies.
//
// Precondition: attacker and defender must be non-nil.
// Postcondition: result.Damage >= MinDamage.
func Compute(attacker, defender attribute.Reader, hit Hit, chancer Chancer) Result {
	scaling := attacker.Value(hit.Category.ScalingAttribute())
	resistance := math.Max(defender.Value(hit.Category.ResistanceAttribute()), MinResistance)
	total := hit.BasePower + scaling
	final := total * (100 / (100 + resistance))

	crit := hit.GuaranteedCrit
	if !crit && hit.CanCrit && chancer != nil {
		crit = chancer.Chance(attacker.Value(attribute.CriticalChance))
	}
	if crit {
		final *= attacker.Value(attribute.CriticalDamage)
	}
	if math.IsNaN(final) || final < MinDamage {
		final = MinDamage
	}
	return Result{Damage: final, Critical: crit, Scaling: scaling, Resistance: resistance}
}
