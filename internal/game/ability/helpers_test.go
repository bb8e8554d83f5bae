package ability_test

import (
	"go.uber.org/zap"

	"github.com/cory-johannsen/skirmish/internal/game/ability"
	"github.com/cory-johannsen/skirmish/internal/game/attribute"
	"github.com/cory-johannsen/skirmish/internal/game/condition"
	"github.com/cory-johannsen/skirmish/internal/game/resource"
)

// fighter is a minimal Combatant built from real components.
type fighter struct {
	id     string
	attrs  *attribute.Set
	pool   *resource.Pool
	ledger *condition.Ledger
	at     ability.Transform
}

func newFighter(id string) *fighter {
	attrs := attribute.NewDefaultSet()
	return &fighter{
		id:     id,
		attrs:  attrs,
		pool:   resource.NewPool(attrs, nil, zap.NewNop()),
		ledger: condition.NewLedger(attrs, nil),
		at:     ability.Transform{X: 1, Y: 2},
	}
}

func (f *fighter) ID() string                   { return f.id }
func (f *fighter) Attributes() *attribute.Set   { return f.attrs }
func (f *fighter) Resources() *resource.Pool    { return f.pool }
func (f *fighter) Modifiers() *condition.Ledger { return f.ledger }
func (f *fighter) Transform() ability.Transform { return f.at }

// capacities is a fixed category capacity table.
type capacities map[string]int

func (c capacities) Capacity(category string) int { return c[category] }

func damageStep(power, delay float64) ability.Step {
	return ability.Step{Effect: ability.DamageEffect{Power: power}, Delay: delay}
}

func newExecutor(owner ability.Combatant, env *ability.Env) *ability.Executor {
	return ability.NewExecutor(owner, env, capacities{}, nil, ability.Options{}, zap.NewNop())
}
