package actor_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"pgregory.net/rapid"

	"github.com/cory-johannsen/skirmish/internal/game/ability"
	"github.com/cory-johannsen/skirmish/internal/game/actor"
	"github.com/cory-johannsen/skirmish/internal/game/attribute"
	"github.com/cory-johannsen/skirmish/internal/game/condition"
	"github.com/cory-johannsen/skirmish/internal/game/dice"
	"github.com/cory-johannsen/skirmish/internal/game/resource"
)

func newContentManager(t *testing.T) *actor.Manager {
	t.Helper()
	cat, err := ability.LoadDirectory("../../../content/abilities", ability.NewEffectRegistry())
	require.NoError(t, err)
	conds, err := condition.LoadDirectory("../../../content/conditions")
	require.NoError(t, err)
	env := &ability.Env{
		Roller:     dice.NewRoller(dice.NewSeededSource(7), zap.NewNop()),
		Conditions: conds,
	}
	return actor.NewManager(cat, actor.Deps{Env: env, Posture: actor.DefaultPostureConfig()}, zap.NewNop())
}

func templateByID(t *testing.T, id string) *actor.Template {
	t.Helper()
	tmpls, err := actor.LoadTemplates("../../../content/actors")
	require.NoError(t, err)
	for _, tm := range tmpls {
		if tm.ID == id {
			return tm
		}
	}
	t.Fatalf("template %q not found", id)
	return nil
}

func TestManager_SpawnFromTemplate(t *testing.T) {
	m := newContentManager(t)
	a, err := m.Spawn(templateByID(t, "vanguard"))
	require.NoError(t, err)

	assert.Equal(t, actor.Player, a.Kind())
	assert.Equal(t, 3, a.Level())
	assert.Equal(t, 10, a.StatPoints())
	assert.Equal(t, 18.0, a.Attributes().Value(attribute.Strength))
	assert.Equal(t, 80.0, a.Resources().Max(resource.Health))
	assert.Equal(t, 80.0, a.Resources().Current(resource.Health))
	assert.True(t, a.Executor().Learned().Knows("cleave"))
	assert.Equal(t, 4, a.Executor().Learned().Count("warrior"))
	assert.Equal(t, 1, m.Len())
}

func TestManager_SpawnUnknownAbility(t *testing.T) {
	m := newContentManager(t)
	_, err := m.Spawn(&actor.Template{ID: "x", Level: 1, Abilities: []string{"meteor"}})
	assert.ErrorIs(t, err, actor.ErrUnknownAbility)
	assert.Equal(t, 0, m.Len())
}

func TestManager_CreateAddRemove(t *testing.T) {
	m := newContentManager(t)
	_, err := m.Create("a", "A", actor.NPC)
	require.NoError(t, err)
	_, err = m.Create("a", "A again", actor.NPC)
	assert.ErrorIs(t, err, actor.ErrDuplicateActor)

	assert.ErrorIs(t, m.Remove("missing"), actor.ErrActorNotFound)
	require.NoError(t, m.Remove("a"))
	assert.Equal(t, 0, m.Len())
}

func TestManager_UseErrors(t *testing.T) {
	m := newContentManager(t)
	_, err := m.Create("a", "A", actor.Player)
	require.NoError(t, err)

	_, err = m.Use("a", "meteor", "")
	assert.ErrorIs(t, err, actor.ErrUnknownAbility)
	_, err = m.Use("ghost", "cleave", "a")
	assert.ErrorIs(t, err, actor.ErrActorNotFound)
	_, err = m.Use("a", "cleave", "ghost")
	assert.ErrorIs(t, err, actor.ErrActorNotFound)

	used, err := m.Use("a", "cleave", "")
	require.NoError(t, err)
	assert.False(t, used, "cleave needs a target")
}

func TestManager_UseKillsTarget(t *testing.T) {
	m := newContentManager(t)
	_, err := m.Create("a", "A", actor.Player)
	require.NoError(t, err)
	_, err = m.Create("b", "B", actor.NPC)
	require.NoError(t, err)
	require.NoError(t, m.With("b", func(b *actor.Actor) error {
		b.Resources().Spend(resource.Health, b.Resources().Current(resource.Health)-1)
		return nil
	}))

	used, err := m.Use("a", "cleave", "b")
	require.NoError(t, err)
	require.True(t, used)
	require.NoError(t, m.With("b", func(b *actor.Actor) error {
		assert.True(t, b.Dead())
		return nil
	}))
}

func TestManager_TickAdvancesEveryActor(t *testing.T) {
	m := newContentManager(t)
	for _, id := range []string{"b", "a", "c"} {
		_, err := m.Create(id, id, actor.NPC)
		require.NoError(t, err)
	}
	assert.Equal(t, []string{"a", "b", "c"}, m.IDs())

	used, err := m.Use("a", "cleave", "b")
	require.NoError(t, err)
	require.True(t, used)
	m.Tick(5)
	require.NoError(t, m.With("a", func(a *actor.Actor) error {
		assert.Equal(t, ability.Idle, a.Executor().State())
		_, cooling := a.Executor().Cooldown("cleave")
		assert.False(t, cooling)
		return nil
	}))
}

func TestManager_SnapshotsAndLoad(t *testing.T) {
	m := newContentManager(t)
	a, err := m.Spawn(templateByID(t, "pyromancer"))
	require.NoError(t, err)
	snaps := m.Snapshots()
	require.Len(t, snaps, 1)
	assert.Equal(t, a.ID(), snaps[0].ID)

	other := newContentManager(t)
	b, err := other.Load(snaps[0])
	require.NoError(t, err)
	assert.Equal(t, 20.0, b.Attributes().Value(attribute.Intelligence))
	assert.Equal(t, 100.0, b.Resources().Current(resource.Mana))
	assert.True(t, b.Executor().Learned().Knows("chain_lightning"))

	_, err = other.Load(snaps[0])
	assert.ErrorIs(t, err, actor.ErrDuplicateActor)
}

func TestManager_WithPropagatesError(t *testing.T) {
	m := newContentManager(t)
	_, err := m.Create("a", "A", actor.NPC)
	require.NoError(t, err)
	boom := errors.New("boom")
	assert.ErrorIs(t, m.With("a", func(*actor.Actor) error { return boom }), boom)
	assert.ErrorIs(t, m.With("zz", func(*actor.Actor) error { return nil }), actor.ErrActorNotFound)
}

func TestPropertyManager_ResourcesStayInBounds(t *testing.T) {
	m := newContentManager(t)
	abilities := []string{"cleave", "shield_bash", "firebolt", "frost_nova", "war_cry", "siphon"}
	for _, id := range []string{"a", "b"} {
		_, err := m.Create(id, id, actor.Player)
		require.NoError(t, err)
	}
	rapid.Check(t, func(t *rapid.T) {
		steps := rapid.IntRange(1, 30).Draw(t, "steps")
		for i := 0; i < steps; i++ {
			ab := rapid.SampledFrom(abilities).Draw(t, "ability")
			caster := rapid.SampledFrom([]string{"a", "b"}).Draw(t, "caster")
			target := "a"
			if caster == "a" {
				target = "b"
			}
			if _, err := m.Use(caster, ab, target); err != nil {
				t.Fatalf("use: %v", err)
			}
			m.Tick(rapid.Float64Range(0, 2).Draw(t, "dt"))
		}
		for _, id := range m.IDs() {
			_ = m.With(id, func(a *actor.Actor) error {
				for _, k := range resource.Kinds {
					cur, max := a.Resources().Current(k), a.Resources().Max(k)
					if cur < 0 || cur > max {
						t.Fatalf("%s %s out of bounds: %v/%v", id, k, cur, max)
					}
				}
				return nil
			})
		}
	})
}
