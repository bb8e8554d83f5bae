package ability

import (
	"fmt"
	"sort"

	"github.com/cory-johannsen/skirmish/internal/game/attribute"
	"github.com/cory-johannsen/skirmish/internal/game/combat"
	"github.com/cory-johannsen/skirmish/internal/game/dice"
	"github.com/cory-johannsen/skirmish/internal/game/resource"
)

// StepSpec is the YAML form of a Step. Which fields apply depends on Effect.
type StepSpec struct {
	Effect string  `yaml:"effect"`
	Delay  float64 `yaml:"delay"`
	Target string  `yaml:"target"` // "target" (default) | "self"

	// damage / stagger
	Power          float64 `yaml:"power"`
	Variance       string  `yaml:"variance"`
	Category       string  `yaml:"category"`
	Stagger        float64 `yaml:"stagger"`
	CanCrit        bool    `yaml:"can_crit"`
	GuaranteedCrit bool    `yaml:"guaranteed_crit"`

	// modifier
	Attribute string  `yaml:"attribute"`
	Kind      string  `yaml:"kind"`
	Magnitude float64 `yaml:"magnitude"`
	Duration  float64 `yaml:"duration"`

	Condition string  `yaml:"condition"`
	Resource  string  `yaml:"resource"`
	Amount    float64 `yaml:"amount"`
	Tag       string  `yaml:"tag"`
	Script    string  `yaml:"script"`
}

// EffectFactory builds an Effect from its YAML form.
type EffectFactory func(spec StepSpec) (Effect, error)

// EffectRegistry maps effect kind names to factories.
type EffectRegistry struct {
	factories map[string]EffectFactory
}

// NewEffectRegistry returns a registry holding the built-in effect kinds:
// damage, stagger, modifier, condition, restore, vfx, and script.
func NewEffectRegistry() *EffectRegistry {
	r := &EffectRegistry{factories: make(map[string]EffectFactory)}
	r.Register("damage", newDamage)
	r.Register("stagger", func(s StepSpec) (Effect, error) {
		if s.Power <= 0 {
			return nil, fmt.Errorf("stagger power must be > 0")
		}
		return StaggerEffect{Power: s.Power}, nil
	})
	r.Register("modifier", newModifier)
	r.Register("condition", func(s StepSpec) (Effect, error) {
		if s.Condition == "" {
			return nil, fmt.Errorf("condition id is required")
		}
		return ConditionEffect{ConditionID: s.Condition}, nil
	})
	r.Register("restore", func(s StepSpec) (Effect, error) {
		k, ok := resource.ParseKind(s.Resource)
		if !ok {
			return nil, fmt.Errorf("unknown resource %q", s.Resource)
		}
		return RestoreEffect{Resource: k, Amount: s.Amount}, nil
	})
	r.Register("vfx", func(s StepSpec) (Effect, error) {
		if s.Tag == "" {
			return nil, fmt.Errorf("vfx tag is required")
		}
		return VFXEffect{Tag: s.Tag}, nil
	})
	r.Register("script", func(s StepSpec) (Effect, error) {
		if s.Script == "" {
			return nil, fmt.Errorf("script name is required")
		}
		return ScriptEffect{Script: s.Script}, nil
	})
	return r
}

// Register adds or replaces the factory for kind.
func (r *EffectRegistry) Register(kind string, f EffectFactory) {
	r.factories[kind] = f
}

// Kinds returns the registered kind names, sorted.
func (r *EffectRegistry) Kinds() []string {
	out := make([]string, 0, len(r.factories))
	for k := range r.factories {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

// Build converts spec into a Step.
//
// Postcondition: returns an error wrapping ErrUnknownEffect for an unregistered kind.
func (r *EffectRegistry) Build(spec StepSpec) (Step, error) {
	f, ok := r.factories[spec.Effect]
	if !ok {
		return Step{}, fmt.Errorf("%q: %w", spec.Effect, ErrUnknownEffect)
	}
	if spec.Delay < 0 {
		return Step{}, fmt.Errorf("%s: delay must be >= 0, got %v", spec.Effect, spec.Delay)
	}
	var target Target
	switch spec.Target {
	case "", "target":
		target = TargetOther
	case "self":
		target = TargetSelf
	default:
		return Step{}, fmt.Errorf("%s: unknown target %q", spec.Effect, spec.Target)
	}
	eff, err := f(spec)
	if err != nil {
		return Step{}, fmt.Errorf("%s: %w", spec.Effect, err)
	}
	return Step{Effect: eff, Delay: spec.Delay, Target: target}, nil
}

func newDamage(s StepSpec) (Effect, error) {
	cat := combat.Physical
	if s.Category != "" {
		c, ok := combat.ParseCategory(s.Category)
		if !ok {
			return nil, fmt.Errorf("unknown damage category %q", s.Category)
		}
		cat = c
	}
	d := DamageEffect{
		Power:          s.Power,
		Category:       cat,
		Stagger:        s.Stagger,
		CanCrit:        s.CanCrit,
		GuaranteedCrit: s.GuaranteedCrit,
	}
	if s.Variance != "" {
		e, err := dice.Parse(s.Variance)
		if err != nil {
			return nil, err
		}
		d.Variance = &e
	}
	return d, nil
}

func newModifier(s StepSpec) (Effect, error) {
	kind, ok := attribute.ParseKind(s.Kind)
	if !ok {
		return nil, fmt.Errorf("unknown modifier kind %q", s.Kind)
	}
	if s.Attribute == "" {
		return nil, fmt.Errorf("modifier attribute is required")
	}
	if attribute.NewDefaultSet().Get(attribute.Name(s.Attribute)) == nil {
		return nil, fmt.Errorf("unknown modifier attribute %q", s.Attribute)
	}
	if s.Duration < 0 {
		return nil, fmt.Errorf("modifier duration must be >= 0")
	}
	return ModifierEffect{
		Attribute: attribute.Name(s.Attribute),
		ModKind:   kind,
		Magnitude: s.Magnitude,
		Duration:  s.Duration,
	}, nil
}
