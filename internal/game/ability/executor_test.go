package ability_test

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
	"pgregory.net/rapid"

	"github.com/cory-johannsen/skirmish/internal/game/ability"
	"github.com/cory-johannsen/skirmish/internal/game/attribute"
	"github.com/cory-johannsen/skirmish/internal/game/resource"
	"github.com/cory-johannsen/skirmish/internal/testutil/mocks"
)

// dmg(power) against the default defender (armor 10) with default strength 10.
func dmg(power float64) float64 { return (power + 10) * 100 / 110 }

func TestActivationLock(t *testing.T) {
	assert.Equal(t, 2.0, ability.ActivationLock(2, 0, 0.05))
	assert.Equal(t, 0.05, ability.ActivationLock(2, 2500, 0.05))
	assert.Equal(t, 0.05, ability.ActivationLock(2, 1e6, 0.05))
	assert.InDelta(t, 1.0, ability.ActivationLock(2, 625, 0.05), 1e-9)
	assert.Equal(t, 0.05, ability.ActivationLock(0, 10, 0.05))
}

func TestTryUse_SpendsCostsAndLocks(t *testing.T) {
	caster, target := newFighter("a"), newFighter("b")
	ex := newExecutor(caster, nil)
	a := &ability.Ability{ID: "jab", ActivationTime: 1, Costs: resource.Costs{Energy: 10, Mana: 5}}

	require.True(t, ex.TryUse(a, target))

	assert.Equal(t, ability.Activating, ex.State())
	assert.Equal(t, 40.0, caster.pool.Current(resource.Energy))
	assert.Equal(t, 45.0, caster.pool.Current(resource.Mana))
	assert.InDelta(t, 1-math.Sqrt(10.0/2500), ex.LockRemaining(), 1e-9)
}

func TestTryUse_WhileActivating_NoSideEffects(t *testing.T) {
	caster, target := newFighter("a"), newFighter("b")
	ex := newExecutor(caster, nil)
	require.True(t, ex.TryUse(&ability.Ability{ID: "slow", ActivationTime: 3}, target))

	b := &ability.Ability{ID: "other", Costs: resource.Costs{Mana: 10}}
	assert.False(t, ex.TryUse(b, target))
	assert.Equal(t, 50.0, caster.pool.Current(resource.Mana))
	assert.Equal(t, "slow", ex.Current().ID)
}

func TestTryUse_Unaffordable_NoSideEffects(t *testing.T) {
	caster, target := newFighter("a"), newFighter("b")
	ex := newExecutor(caster, nil)
	a := &ability.Ability{ID: "big", Costs: resource.Costs{Mana: 10, Energy: 500}, Cooldown: 5}

	assert.False(t, ex.TryUse(a, target))
	assert.Equal(t, ability.Idle, ex.State())
	assert.Equal(t, 50.0, caster.pool.Current(resource.Mana))
	_, cooling := ex.Cooldown("big")
	assert.False(t, cooling)
}

func TestTryUse_HealthCostMustLeaveHealth(t *testing.T) {
	caster, target := newFighter("a"), newFighter("b")
	ex := newExecutor(caster, nil)
	assert.False(t, ex.TryUse(&ability.Ability{ID: "pact", Costs: resource.Costs{Health: 50}}, target))
	assert.True(t, ex.TryUse(&ability.Ability{ID: "pact", Costs: resource.Costs{Health: 49}}, target))
	assert.Equal(t, 1.0, caster.pool.Current(resource.Health))
}

func TestTryUse_NoTargetForTargetedAbility(t *testing.T) {
	caster := newFighter("a")
	ex := newExecutor(caster, nil)
	assert.False(t, ex.TryUse(&ability.Ability{ID: "jab", Costs: resource.Costs{Energy: 1}}, nil))
	assert.Equal(t, 50.0, caster.pool.Current(resource.Energy))
}

// Cooldown 5 used at t=0: blocked at 4.9, usable again at 5.1.
func TestTryUse_CooldownScenario(t *testing.T) {
	caster, target := newFighter("a"), newFighter("b")
	ex := newExecutor(caster, nil)
	a := &ability.Ability{ID: "strike", Cooldown: 5, Costs: resource.Costs{Energy: 1}, Steps: []ability.Step{damageStep(1, 0)}}

	require.True(t, ex.TryUse(a, target))
	for i := 0; i < 49; i++ {
		ex.Tick(0.1)
	}
	energy := caster.pool.Current(resource.Energy)
	assert.False(t, ex.TryUse(a, target), "t=4.9 still cooling down")
	assert.Equal(t, energy, caster.pool.Current(resource.Energy))

	ex.Tick(0.1)
	ex.Tick(0.1)
	assert.True(t, ex.TryUse(a, target), "t=5.1 ready")
}

func TestTryUse_CooldownBlocksRegardlessOfResources(t *testing.T) {
	caster, target := newFighter("a"), newFighter("b")
	ex := newExecutor(caster, nil)
	a := &ability.Ability{ID: "free", Cooldown: 10}
	require.True(t, ex.TryUse(a, target))
	ex.Tick(1)
	caster.pool.RestoreAll()
	assert.False(t, ex.TryUse(a, target))
	assert.Equal(t, ability.Idle, ex.State())
}

func TestExecutor_StepsHonorDelays(t *testing.T) {
	caster, target := newFighter("a"), newFighter("b")
	ex := newExecutor(caster, nil)
	a := &ability.Ability{ID: "combo", Cooldown: 2, Steps: []ability.Step{
		damageStep(10, 1),
		damageStep(20, 0),
	}}

	require.True(t, ex.TryUse(a, target))
	assert.InDelta(t, 50-dmg(10), target.pool.Current(resource.Health), 1e-9, "first step runs immediately")
	_, cooling := ex.Cooldown("combo")
	assert.False(t, cooling, "cooldown waits for the sequence")

	ex.Tick(0.5)
	assert.InDelta(t, 50-dmg(10), target.pool.Current(resource.Health), 1e-9)
	assert.Equal(t, ability.Activating, ex.State())

	ex.Tick(0.5)
	assert.InDelta(t, 50-dmg(10)-dmg(20), target.pool.Current(resource.Health), 1e-9)
	rem, cooling := ex.Cooldown("combo")
	require.True(t, cooling)
	assert.Equal(t, 2.0, rem)
	assert.Equal(t, ability.Idle, ex.State())
}

func TestExecutor_TrailingDelayHoldsSequence(t *testing.T) {
	caster, target := newFighter("a"), newFighter("b")
	ex := newExecutor(caster, nil)
	a := &ability.Ability{ID: "wind", Cooldown: 1, Steps: []ability.Step{damageStep(0, 0.5)}}
	require.True(t, ex.TryUse(a, target))
	ex.Tick(0.25)
	assert.Equal(t, ability.Activating, ex.State())
	ex.Tick(0.25)
	assert.Equal(t, ability.Idle, ex.State())
	_, cooling := ex.Cooldown("wind")
	assert.True(t, cooling)
}

func TestExecutor_IdleRequiresLockExpiry(t *testing.T) {
	caster, target := newFighter("a"), newFighter("b")
	ex := newExecutor(caster, nil)
	a := &ability.Ability{ID: "heavy", ActivationTime: 2, Cooldown: 3, Steps: []ability.Step{damageStep(1, 0)}}

	require.True(t, ex.TryUse(a, target))
	_, cooling := ex.Cooldown("heavy")
	assert.True(t, cooling, "sequence finished immediately")
	assert.Equal(t, ability.Activating, ex.State(), "lock still held")

	ex.Tick(1)
	assert.Equal(t, ability.Activating, ex.State())
	ex.Tick(1)
	assert.Equal(t, ability.Idle, ex.State())
}

func TestExecutor_Abort(t *testing.T) {
	caster, target := newFighter("a"), newFighter("b")
	ex := newExecutor(caster, nil)
	a := &ability.Ability{ID: "channel", ActivationTime: 5, Cooldown: 4, Steps: []ability.Step{
		damageStep(0, 1),
		damageStep(100, 0),
	}}
	require.True(t, ex.TryUse(a, target))
	health := target.pool.Current(resource.Health)

	ex.Abort()

	assert.Equal(t, ability.Idle, ex.State())
	assert.Nil(t, ex.Current())
	rem, cooling := ex.Cooldown("channel")
	require.True(t, cooling)
	assert.Equal(t, 4.0, rem)
	ex.Tick(2)
	assert.Equal(t, health, target.pool.Current(resource.Health), "dropped steps never run")
	ex.Abort()
}

func TestExecutor_SelfCastRefreshesModifier(t *testing.T) {
	caster, target := newFighter("a"), newFighter("b")
	ex := newExecutor(caster, nil)
	a := &ability.Ability{ID: "harden", SelfCast: true, Steps: []ability.Step{{
		Effect: ability.ModifierEffect{Attribute: attribute.Armor, ModKind: attribute.Flat, Magnitude: 5, Duration: 3},
	}}}

	require.True(t, ex.TryUse(a, target))
	assert.Equal(t, 15.0, caster.attrs.Value(attribute.Armor))
	assert.Equal(t, 10.0, target.attrs.Value(attribute.Armor))

	ex.Tick(1)
	require.True(t, ex.TryUse(a, nil))
	assert.Equal(t, 15.0, caster.attrs.Value(attribute.Armor), "recast refreshes, never stacks")
	rem, ok := caster.ledger.Remaining(attribute.Armor, a.Source())
	require.True(t, ok)
	assert.Equal(t, 3.0, rem)
}

func TestExecutor_StepTargetSelf(t *testing.T) {
	caster, target := newFighter("a"), newFighter("b")
	caster.pool.Spend(resource.Mana, 30)
	ex := newExecutor(caster, nil)
	a := &ability.Ability{ID: "siphon", Steps: []ability.Step{
		{Effect: ability.RestoreEffect{Resource: resource.Mana, Amount: 10}, Target: ability.TargetSelf},
	}}
	require.True(t, ex.TryUse(a, target))
	assert.Equal(t, 30.0, caster.pool.Current(resource.Mana))
}

func TestExecutor_EffectCollaborators(t *testing.T) {
	ctrl := gomock.NewController(t)
	spawner := mocks.NewMockSpawner(ctrl)
	scripts := mocks.NewMockScriptRunner(ctrl)
	caster, target := newFighter("a"), newFighter("b")
	ex := newExecutor(caster, &ability.Env{Spawner: spawner, Scripts: scripts})

	gomock.InOrder(
		spawner.EXPECT().Spawn("spark", target.Transform()),
		scripts.EXPECT().RunEffect("chain", caster, target).Return(nil),
	)
	a := &ability.Ability{ID: "zap", Steps: []ability.Step{
		{Effect: ability.VFXEffect{Tag: "spark"}},
		{Effect: ability.ScriptEffect{Script: "chain"}},
	}}
	require.True(t, ex.TryUse(a, target))
}

func TestExecutor_MissingCollaborator_LogsAndContinues(t *testing.T) {
	core, logs := observer.New(zap.DebugLevel)
	caster, target := newFighter("a"), newFighter("b")
	ex := ability.NewExecutor(caster, &ability.Env{}, capacities{}, nil, ability.Options{}, zap.New(core))
	a := &ability.Ability{ID: "fx", Steps: []ability.Step{
		{Effect: ability.VFXEffect{Tag: "spark"}},
		damageStep(10, 0),
	}}
	require.True(t, ex.TryUse(a, target))
	assert.Equal(t, 1, logs.FilterMessage("ability step failed").Len())
	assert.Less(t, target.pool.Current(resource.Health), 50.0, "later steps still run")
}

func TestExecutor_NoResources_ConfigurationError(t *testing.T) {
	core, logs := observer.New(zap.DebugLevel)
	caster := newFighter("a")
	caster.pool = nil
	ex := ability.NewExecutor(caster, nil, capacities{}, nil, ability.Options{}, zap.New(core))
	assert.False(t, ex.TryUse(&ability.Ability{ID: "x"}, newFighter("b")))
	assert.Equal(t, 1, logs.FilterMessageSnippet("configuration error").Len())
	assert.Equal(t, ability.Idle, ex.State())
}

func TestExecutor_Reset(t *testing.T) {
	caster, target := newFighter("a"), newFighter("b")
	ex := newExecutor(caster, nil)
	require.True(t, ex.TryUse(&ability.Ability{ID: "x", Cooldown: 9, ActivationTime: 4}, target))
	ex.Reset()
	assert.Equal(t, ability.Idle, ex.State())
	_, cooling := ex.Cooldown("x")
	assert.False(t, cooling)
}

func TestPropertyExecutor_StateConsistency(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		caster, target := newFighter("a"), newFighter("b")
		ex := newExecutor(caster, nil)
		abilities := []*ability.Ability{
			{ID: "a", Cooldown: 1, ActivationTime: 0.5, Costs: resource.Costs{Energy: 5}, Steps: []ability.Step{damageStep(1, 0.3)}},
			{ID: "b", Cooldown: 3, Costs: resource.Costs{Mana: 20}},
			{ID: "c", ActivationTime: 2, Steps: []ability.Step{damageStep(1, 0), damageStep(1, 0.7)}},
		}
		ops := rapid.IntRange(1, 40).Draw(t, "ops")
		for i := 0; i < ops; i++ {
			if rapid.Bool().Draw(t, "use") {
				a := rapid.SampledFrom(abilities).Draw(t, "ability")
				before := ex.State()
				_, cooling := ex.Cooldown(a.ID)
				ok := ex.TryUse(a, target)
				if before == ability.Activating || cooling {
					assert.False(t, ok)
				}
			} else {
				dt := rapid.Float64Range(0, 1).Draw(t, "dt")
				ex.Tick(dt)
				caster.pool.Tick(dt)
			}
			if ex.State() == ability.Idle {
				assert.Nil(t, ex.Current())
			} else {
				assert.NotNil(t, ex.Current())
			}
			for _, a := range abilities {
				if rem, ok := ex.Cooldown(a.ID); ok {
					assert.Greater(t, rem, 0.0)
				}
			}
			assert.GreaterOrEqual(t, ex.LockRemaining(), 0.0)
		}
	})
}
