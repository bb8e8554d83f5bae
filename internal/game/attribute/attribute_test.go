package attribute_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"github.com/cory-johannsen/skirmish/internal/game/attribute"
)

func countingAttr(base float64) (*attribute.Attribute, *int) {
	a := attribute.New(attribute.Strength, base)
	n := 0
	a.OnChange(func(*attribute.Attribute) { n++ })
	return a, &n
}

func TestAttribute_Value_NoModifiers(t *testing.T) {
	a := attribute.New(attribute.Strength, 12)
	assert.Equal(t, 12.0, a.Value())
}

func TestAttribute_Value_FlatThenPercentage(t *testing.T) {
	a := attribute.New(attribute.Strength, 10)
	a.AddModifier(&attribute.Modifier{Magnitude: 5, Kind: attribute.Flat})
	a.AddModifier(&attribute.Modifier{Magnitude: 0.5, Kind: attribute.Percentage})
	a.AddModifier(&attribute.Modifier{Magnitude: 0.5, Kind: attribute.Percentage})
	assert.InDelta(t, 30.0, a.Value(), 1e-9)
}

func TestAttribute_AddModifier_NotifiesOnce(t *testing.T) {
	a, n := countingAttr(10)
	m := &attribute.Modifier{Magnitude: 1, Kind: attribute.Flat}
	a.AddModifier(m)
	assert.Equal(t, 1, *n)
	a.AddModifier(m) // already attached
	assert.Equal(t, 1, *n)
	a.AddModifier(nil)
	assert.Equal(t, 1, *n)
}

func TestAttribute_RemoveModifier(t *testing.T) {
	a, n := countingAttr(10)
	m := &attribute.Modifier{Magnitude: 3, Kind: attribute.Flat}
	a.AddModifier(m)
	require.True(t, a.RemoveModifier(m))
	assert.Equal(t, 10.0, a.Value())
	assert.Equal(t, 2, *n)
	assert.False(t, a.RemoveModifier(m))
	assert.Equal(t, 2, *n)
}

func TestAttribute_RemoveAllFromSource_OnlyThatSource(t *testing.T) {
	a, n := countingAttr(10)
	gear := attribute.StaticSource("gear:chest")
	buff := attribute.NewSourceID()
	a.AddModifier(&attribute.Modifier{Magnitude: 2, Kind: attribute.Flat, Source: gear})
	a.AddModifier(&attribute.Modifier{Magnitude: 0.1, Kind: attribute.Percentage, Source: gear})
	keep := &attribute.Modifier{Magnitude: 4, Kind: attribute.Flat, Source: buff}
	a.AddModifier(keep)
	*n = 0

	removed := a.RemoveAllFromSource(gear)

	assert.Equal(t, 2, removed)
	assert.Equal(t, 1, *n)
	assert.Equal(t, []*attribute.Modifier{keep}, a.Modifiers())
	assert.Equal(t, 14.0, a.Value())
}

func TestAttribute_RemoveAllFromSource_NoneRemoved_NoNotify(t *testing.T) {
	a, n := countingAttr(10)
	assert.Equal(t, 0, a.RemoveAllFromSource(attribute.StaticSource("nobody")))
	assert.Equal(t, 0, *n)
}

func TestNewSourceID_Unique(t *testing.T) {
	assert.NotEqual(t, attribute.NewSourceID(), attribute.NewSourceID())
	assert.Equal(t, attribute.StaticSource("title"), attribute.StaticSource("title"))
}

func TestParseKind(t *testing.T) {
	k, ok := attribute.ParseKind("percentage")
	require.True(t, ok)
	assert.Equal(t, attribute.Percentage, k)
	_, ok = attribute.ParseKind("multiply")
	assert.False(t, ok)
	assert.Equal(t, "flat", attribute.Flat.String())
}

func TestPropertyAttribute_ValueFormula(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		base := rapid.Float64Range(-100, 100).Draw(t, "base")
		flats := rapid.SliceOfN(rapid.Float64Range(-50, 50), 0, 6).Draw(t, "flats")
		pcts := rapid.SliceOfN(rapid.Float64Range(-0.5, 2), 0, 6).Draw(t, "pcts")

		a := attribute.New(attribute.Vitality, base)
		f, p := 0.0, 0.0
		for _, v := range flats {
			a.AddModifier(&attribute.Modifier{Magnitude: v, Kind: attribute.Flat})
			f += v
		}
		for _, v := range pcts {
			a.AddModifier(&attribute.Modifier{Magnitude: v, Kind: attribute.Percentage})
			p += v
		}
		assert.InDelta(t, (base+f)*(1+p), a.Value(), 1e-6)
	})
}

func TestPropertyAttribute_RemoveAllFromSource_ExactlyThatSource(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		owners := rapid.SliceOfN(rapid.IntRange(0, 3), 1, 12).Draw(t, "owners")
		target := attribute.StaticSource("src-0")
		a := attribute.New(attribute.Wisdom, 1)
		wantRemoved := 0
		for _, o := range owners {
			src := attribute.StaticSource("src-" + string(rune('0'+o)))
			if src == target {
				wantRemoved++
			}
			a.AddModifier(&attribute.Modifier{Magnitude: 1, Kind: attribute.Flat, Source: src})
		}
		assert.Equal(t, wantRemoved, a.RemoveAllFromSource(target))
		assert.Len(t, a.Modifiers(), len(owners)-wantRemoved)
		for _, m := range a.Modifiers() {
			assert.NotEqual(t, target, m.Source)
		}
	})
}
