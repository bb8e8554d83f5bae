package ability_test

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
	"pgregory.net/rapid"

	"github.com/cory-johannsen/skirmish/internal/game/ability"
	"github.com/cory-johannsen/skirmish/internal/testutil/mocks"
)

// A category of 14 caps at ceil(14*0.4) = 6; the 7th learn pays currency instead.
func TestLearnAbility_CategoryCapScenario(t *testing.T) {
	ctrl := gomock.NewController(t)
	sink := mocks.NewMockCurrencySink(ctrl)
	caster := newFighter("hero")
	ex := ability.NewExecutor(caster, nil, capacities{"warrior": 14}, sink,
		ability.Options{Learned: ability.LearnedConfig{CurrencyReward: 50}}, zap.NewNop())

	assert.Equal(t, 6, ex.Learned().Cap("warrior"))
	for i := 0; i < 6; i++ {
		a := &ability.Ability{ID: fmt.Sprintf("w%d", i)}
		require.True(t, ex.LearnAbility(a, "warrior"), "learn %d", i)
	}

	sink.EXPECT().Grant("hero", 50).Times(1)
	seventh := &ability.Ability{ID: "w6"}
	assert.False(t, ex.LearnAbility(seventh, "warrior"))
	assert.False(t, ex.Learned().Knows("w6"))
	assert.Equal(t, 6, ex.Learned().Count("warrior"))
}

func TestLearnAbility_AlreadyKnown_NoReward(t *testing.T) {
	ctrl := gomock.NewController(t)
	sink := mocks.NewMockCurrencySink(ctrl)
	l := ability.NewLearned("hero", capacities{"mage": 5}, ability.LearnedConfig{CurrencyReward: 10}, sink, nil)

	require.True(t, l.Learn("firebolt", "mage"))
	assert.False(t, l.Learn("firebolt", "mage"))
	assert.Equal(t, 1, l.Count("mage"))
}

func TestLearnAbility_NoSink_LogsConfigurationError(t *testing.T) {
	core, logs := observer.New(zap.DebugLevel)
	l := ability.NewLearned("hero", capacities{"mage": 1}, ability.LearnedConfig{}, nil, zap.New(core))
	require.True(t, l.Learn("a", "mage"))
	assert.False(t, l.Learn("b", "mage"))
	assert.Equal(t, 1, logs.FilterMessageSnippet("configuration error").Len())
}

func TestLearnAbility_ZeroCapacityCategory(t *testing.T) {
	ctrl := gomock.NewController(t)
	sink := mocks.NewMockCurrencySink(ctrl)
	sink.EXPECT().Grant("hero", 0)
	l := ability.NewLearned("hero", capacities{}, ability.LearnedConfig{}, sink, nil)
	assert.False(t, l.Learn("ghost", "unknown"))
}

func TestLearnAbility_NilAbility(t *testing.T) {
	ex := newExecutor(newFighter("a"), nil)
	assert.False(t, ex.LearnAbility(nil, "warrior"))
}

func TestLearned_SnapshotRestore(t *testing.T) {
	l := ability.NewLearned("hero", capacities{"warrior": 10, "mage": 10}, ability.LearnedConfig{}, nil, nil)
	require.True(t, l.Learn("cleave", "warrior"))
	require.True(t, l.Learn("firebolt", "mage"))

	snap := l.Snapshot()
	snap["warrior"][0] = "mutated"

	other := ability.NewLearned("hero", capacities{"warrior": 10, "mage": 10}, ability.LearnedConfig{}, nil, nil)
	other.Restore(l.Snapshot())
	assert.True(t, other.Knows("cleave"))
	assert.True(t, other.Knows("firebolt"))
	assert.Equal(t, 1, other.Count("warrior"))
	assert.False(t, l.Knows("mutated"))
}

func TestPropertyLearned_NeverExceedsCap(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		capacity := rapid.IntRange(0, 30).Draw(t, "capacity")
		l := ability.NewLearned("hero", capacities{"c": capacity}, ability.LearnedConfig{}, nil, nil)
		attempts := rapid.IntRange(0, 40).Draw(t, "attempts")
		for i := 0; i < attempts; i++ {
			l.Learn(fmt.Sprintf("a%d", rapid.IntRange(0, 40).Draw(t, "id")), "c")
		}
		assert.LessOrEqual(t, l.Count("c"), l.Cap("c"))
	})
}
