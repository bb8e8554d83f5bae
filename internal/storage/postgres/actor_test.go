package postgres_test

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"github.com/cory-johannsen/skirmish/internal/game/actor"
	"github.com/cory-johannsen/skirmish/internal/storage/postgres"
	"github.com/cory-johannsen/skirmish/internal/testutil"
)

func sampleSnapshot(id string) actor.Snapshot {
	return actor.Snapshot{
		ID:         id,
		Name:       "Vanguard",
		Kind:       actor.Player,
		Level:      3,
		StatPoints: 4,
		Currency:   50,
		Bases: map[string]float64{
			"strength": 18, "dexterity": 12, "vitality": 16,
			"endurance": 15, "intelligence": 10, "wisdom": 10, "sense": 10,
		},
		Learned: map[string][]string{
			"warrior": {"cleave", "shield_bash", "war_cry"},
			"mage":    {"focus"},
		},
	}
}

func TestActorRepository(t *testing.T) {
	repo := postgres.NewActorRepository(testutil.NewPool(t))
	ctx := context.Background()

	t.Run("save and load", func(t *testing.T) {
		want := sampleSnapshot("a-1")
		require.NoError(t, repo.Save(ctx, want))
		got, err := repo.Load(ctx, "a-1")
		require.NoError(t, err)
		assert.Equal(t, want, got)
	})

	t.Run("save replaces details", func(t *testing.T) {
		s := sampleSnapshot("a-2")
		require.NoError(t, repo.Save(ctx, s))
		s.Level = 4
		s.Bases["strength"] = 19
		s.Learned = map[string][]string{"warrior": {"sunder"}}
		require.NoError(t, repo.Save(ctx, s))

		got, err := repo.Load(ctx, "a-2")
		require.NoError(t, err)
		assert.Equal(t, 4, got.Level)
		assert.Equal(t, 19.0, got.Bases["strength"])
		assert.Equal(t, map[string][]string{"warrior": {"sunder"}}, got.Learned)
	})

	t.Run("not found", func(t *testing.T) {
		_, err := repo.Load(ctx, "missing")
		assert.ErrorIs(t, err, postgres.ErrActorNotFound)
		assert.ErrorIs(t, repo.Delete(ctx, "missing"), postgres.ErrActorNotFound)
	})

	t.Run("empty id rejected", func(t *testing.T) {
		assert.Error(t, repo.Save(ctx, actor.Snapshot{Level: 1}))
	})

	t.Run("delete cascades", func(t *testing.T) {
		require.NoError(t, repo.Save(ctx, sampleSnapshot("a-3")))
		require.NoError(t, repo.Delete(ctx, "a-3"))
		_, err := repo.Load(ctx, "a-3")
		assert.ErrorIs(t, err, postgres.ErrActorNotFound)
	})

	t.Run("load all is ordered", func(t *testing.T) {
		require.NoError(t, repo.SaveAll(ctx, []actor.Snapshot{sampleSnapshot("z-1"), sampleSnapshot("b-1")}))
		all, err := repo.LoadAll(ctx)
		require.NoError(t, err)
		var ids []string
		for _, s := range all {
			ids = append(ids, s.ID)
		}
		assert.IsIncreasing(t, ids)
		assert.Contains(t, ids, "z-1")
	})

	t.Run("property: learned order survives", func(t *testing.T) {
		n := 0
		rapid.Check(t, func(rt *rapid.T) {
			n++
			ids := rapid.SliceOfNDistinct(rapid.StringMatching(`[a-z]{3,8}`), 0, 6, rapid.ID[string]).Draw(rt, "ids")
			s := sampleSnapshot(fmt.Sprintf("p-%d", n))
			s.Learned = map[string][]string{}
			if len(ids) > 0 {
				s.Learned["warrior"] = ids
			}
			if err := repo.Save(ctx, s); err != nil {
				rt.Fatalf("save: %v", err)
			}
			got, err := repo.Load(ctx, s.ID)
			if err != nil {
				rt.Fatalf("load: %v", err)
			}
			if len(ids) > 0 {
				assert.Equal(rt, ids, got.Learned["warrior"])
			} else {
				assert.Empty(rt, got.Learned)
			}
		})
	})
}

func TestActorRepository_RoundTripsThroughActor(t *testing.T) {
	repo := postgres.NewActorRepository(testutil.NewPool(t))
	ctx := context.Background()

	a := actor.New("hero", "Hero", actor.Player, actor.Deps{})
	a.LevelUp()
	require.NoError(t, a.AllocateStatPoint("strength"))
	require.NoError(t, repo.Save(ctx, a.Snapshot()))

	snap, err := repo.Load(ctx, "hero")
	require.NoError(t, err)
	b := actor.New("hero", "", actor.NPC, actor.Deps{})
	require.NoError(t, b.Restore(snap))
	assert.Equal(t, 11.0, b.Attributes().Value("strength"))
	assert.Equal(t, 2, b.Level())
	assert.Equal(t, 4, b.StatPoints())
	assert.Equal(t, actor.Player, b.Kind())
}
