package condition_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"github.com/cory-johannsen/skirmish/internal/game/attribute"
	"github.com/cory-johannsen/skirmish/internal/game/condition"
)

func newLedger() (*condition.Ledger, *attribute.Set) {
	attrs := attribute.NewDefaultSet()
	return condition.NewLedger(attrs, nil), attrs
}

func flat(mag float64, src attribute.SourceID, dur float64) *attribute.Modifier {
	return &attribute.Modifier{Magnitude: mag, Kind: attribute.Flat, Source: src, Duration: dur}
}

func TestLedger_Apply_Durational(t *testing.T) {
	l, attrs := newLedger()
	src := attribute.NewSourceID()
	require.NoError(t, l.Apply(attribute.Strength, flat(5, src, 3)))
	assert.Equal(t, 15.0, attrs.Value(attribute.Strength))
	rem, ok := l.Remaining(attribute.Strength, src)
	require.True(t, ok)
	assert.Equal(t, 3.0, rem)
}

func TestLedger_Apply_UnknownAttribute(t *testing.T) {
	l, _ := newLedger()
	err := l.Apply("luck", flat(1, "x", 1))
	assert.ErrorIs(t, err, attribute.ErrUnknownAttribute)
	assert.Equal(t, 0, l.Len())
}

func TestLedger_Apply_SameSourceSameAttribute_Replaces(t *testing.T) {
	l, attrs := newLedger()
	src := attribute.StaticSource("ability:war_cry")
	require.NoError(t, l.Apply(attribute.Strength, flat(5, src, 3)))
	l.Tick(2)
	second := flat(8, src, 4)
	require.NoError(t, l.Apply(attribute.Strength, second))

	assert.Equal(t, []*attribute.Modifier{second}, attrs.Get(attribute.Strength).Modifiers())
	assert.Equal(t, 18.0, attrs.Value(attribute.Strength))
	rem, _ := l.Remaining(attribute.Strength, src)
	assert.Equal(t, 4.0, rem, "duration refreshed")
	assert.Equal(t, 1, l.Len())
}

func TestLedger_Apply_SameSourceDifferentAttribute_Coexist(t *testing.T) {
	l, _ := newLedger()
	src := attribute.NewSourceID()
	require.NoError(t, l.Apply(attribute.Strength, flat(1, src, 3)))
	require.NoError(t, l.Apply(attribute.Armor, flat(1, src, 3)))
	assert.Equal(t, 2, l.Len())
}

func TestLedger_Tick_ExpiresAndRemoves(t *testing.T) {
	l, attrs := newLedger()
	src := attribute.NewSourceID()
	require.NoError(t, l.Apply(attribute.Armor, flat(10, src, 1)))
	assert.Empty(t, l.Tick(0.5))
	assert.Equal(t, 20.0, attrs.Value(attribute.Armor))

	expired := l.Tick(0.5)
	require.Len(t, expired, 1)
	assert.Equal(t, attribute.Armor, expired[0].Attribute)
	assert.Equal(t, 10.0, attrs.Value(attribute.Armor))
	assert.Equal(t, 0, l.Len())
}

func TestLedger_Tick_PermanentNeverExpires(t *testing.T) {
	l, attrs := newLedger()
	require.NoError(t, l.Apply(attribute.Armor, flat(3, "gear:chest", 0)))
	assert.Empty(t, l.Tick(1000))
	assert.Equal(t, 13.0, attrs.Value(attribute.Armor))
}

func TestLedger_RemoveAllFromSource_DurationalAndPermanent(t *testing.T) {
	l, attrs := newLedger()
	title := attribute.StaticSource("title:warlord")
	other := attribute.NewSourceID()
	require.NoError(t, l.Apply(attribute.Strength, flat(4, title, 5)))
	require.NoError(t, l.Apply(attribute.Armor, flat(2, title, 0)))
	require.NoError(t, l.Apply(attribute.Armor, flat(1, other, 5)))
	// attached directly, never tracked by the ledger
	attrs.Get(attribute.Wisdom).AddModifier(flat(9, title, 0))

	removed := l.RemoveAllFromSource(title)

	assert.Equal(t, 3, removed)
	assert.Equal(t, 1, l.Len())
	assert.Equal(t, 10.0, attrs.Value(attribute.Strength))
	assert.Equal(t, 11.0, attrs.Value(attribute.Armor))
	assert.Equal(t, 10.0, attrs.Value(attribute.Wisdom))
}

func TestLedger_ApplyDef(t *testing.T) {
	l, attrs := newLedger()
	def := &condition.Def{
		ID:       "war_cry",
		Duration: 8,
		Modifiers: []condition.ModifierDef{
			{Attribute: "strength", Kind: "percentage", Magnitude: 0.2},
			{Attribute: "armor", Kind: "flat", Magnitude: -5},
		},
	}
	src := attribute.NewSourceID()
	require.NoError(t, l.ApplyDef(def, src))
	assert.InDelta(t, 12.0, attrs.Value(attribute.Strength), 1e-9)
	assert.Equal(t, 5.0, attrs.Value(attribute.Armor))

	l.Tick(8)
	assert.Equal(t, 10.0, attrs.Value(attribute.Strength))
	assert.Equal(t, 10.0, attrs.Value(attribute.Armor))
}

func TestLedger_Clear(t *testing.T) {
	l, attrs := newLedger()
	require.NoError(t, l.Apply(attribute.Strength, flat(4, "a", 5)))
	l.Clear()
	assert.Equal(t, 0, l.Len())
	assert.Equal(t, 10.0, attrs.Value(attribute.Strength))
}

func TestPropertyLedger_OneEntryPerSourceAttribute(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		l, attrs := newLedger()
		n := rapid.IntRange(1, 20).Draw(t, "applies")
		for i := 0; i < n; i++ {
			src := attribute.StaticSource(rapid.SampledFrom([]string{"a", "b", "c"}).Draw(t, "src"))
			name := rapid.SampledFrom([]attribute.Name{attribute.Strength, attribute.Armor}).Draw(t, "attr")
			dur := rapid.Float64Range(0, 5).Draw(t, "dur")
			require.NoError(t, l.Apply(name, flat(1, src, dur)))
			if rapid.Bool().Draw(t, "tick") {
				l.Tick(rapid.Float64Range(0, 2).Draw(t, "dt"))
			}
		}
		seen := map[string]bool{}
		for _, e := range l.Active() {
			key := string(e.Attribute) + "|" + string(e.Modifier.Source)
			assert.False(t, seen[key], "duplicate entry %s", key)
			seen[key] = true
			assert.True(t, attrs.Get(e.Attribute).Has(e.Modifier))
			if !e.Permanent() {
				assert.Greater(t, e.Remaining, 0.0)
			}
		}
	})
}
