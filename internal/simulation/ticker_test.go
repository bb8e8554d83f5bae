package simulation_test

import (
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/cory-johannsen/skirmish/internal/simulation"
)

type counter struct {
	mu    sync.Mutex
	ticks int
	total float64
}

func (c *counter) Tick(dt float64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.ticks++
	c.total += dt
}

func (c *counter) snapshot() (int, float64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.ticks, c.total
}

func TestTicker_StepUsesFixedDt(t *testing.T) {
	c := &counter{}
	tk := simulation.NewTicker(50*time.Millisecond, c, nil)
	tk.Step(4)
	n, total := c.snapshot()
	assert.Equal(t, 4, n)
	assert.InDelta(t, 0.2, total, 1e-9)
	assert.Equal(t, uint64(4), tk.Count())
}

func TestTicker_ObserversRunInNameOrder(t *testing.T) {
	tk := simulation.NewTicker(time.Second, &counter{}, nil)
	var order []string
	tk.Observe("b", func(uint64) { order = append(order, "b") })
	tk.Observe("a", func(uint64) { order = append(order, "a") })
	tk.Observe("c", func(uint64) { order = append(order, "c") })
	tk.Unobserve("c")
	tk.Step(1)
	assert.Equal(t, []string{"a", "b"}, order)
}

func TestTicker_StartStop(t *testing.T) {
	c := &counter{}
	tk := simulation.NewTicker(5*time.Millisecond, c, zap.NewNop())
	var seen atomic.Uint64
	tk.Observe("probe", func(n uint64) { seen.Store(n) })

	done := make(chan error, 1)
	go func() { done <- tk.Start() }()
	require.Eventually(t, func() bool { return seen.Load() >= 3 }, 2*time.Second, 5*time.Millisecond)
	tk.Stop()
	tk.Stop()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("ticker did not stop")
	}
}

type slow struct{ d time.Duration }

func (s slow) Tick(float64) { time.Sleep(s.d) }

func TestTicker_WarnsOnOverrun(t *testing.T) {
	core, logs := observer.New(zap.WarnLevel)
	tk := simulation.NewTicker(time.Millisecond, slow{5 * time.Millisecond}, zap.New(core))
	tk.Step(1)
	assert.Equal(t, 1, logs.FilterMessage("tick overran interval").Len())
}

func TestNewTicker_PanicsOnBadInput(t *testing.T) {
	assert.Panics(t, func() { simulation.NewTicker(0, &counter{}, nil) })
	assert.Panics(t, func() { simulation.NewTicker(time.Second, nil, nil) })
}
