// Package combat resolves hit damage from attacker scaling, base power, and
// defender resistance.
package combat

import "github.com/cory-johannsen/skirmish/internal/game/attribute"

// Category classifies damage for scaling and resistance lookups.
type Category int

const (
	Physical Category = iota
	Magical
	Fire
	Cold
	Lightning
	Poison
)

var categoryNames = [...]string{"physical", "magical", "fire", "cold", "lightning", "poison"}

// String returns the lower-case category name.
func (c Category) String() string {
	if c < 0 || int(c) >= len(categoryNames) {
		return "unknown"
	}
	return categoryNames[c]
}

// ParseCategory maps a content name to a Category.
func ParseCategory(s string) (Category, bool) {
	for i, n := range categoryNames {
		if n == s {
			return Category(i), true
		}
	}
	return 0, false
}

// ScalingAttribute returns the attacker attribute added to base power:
// Strength for physical damage, Intelligence for every magical category.
func (c Category) ScalingAttribute() attribute.Name {
	if c == Physical {
		return attribute.Strength
	}
	return attribute.Intelligence
}

// ResistanceAttribute returns the defender attribute that mitigates c.
func (c Category) ResistanceAttribute() attribute.Name {
	switch c {
	case Physical:
		return attribute.Armor
	case Fire:
		return attribute.FireResistance
	case Cold:
		return attribute.ColdResistance
	case Lightning:
		return attribute.LightningResistance
	case Poison:
		return attribute.PoisonResistance
	default:
		return attribute.MagicResistance
	}
}
