// Package simulation drives the combat core at a fixed step: it builds the
// world from content, ticks every actor, and persists snapshots.
package simulation

import (
	"sort"
	"sync"
	"time"

	"go.uber.org/zap"
)

// Tickable advances by dt seconds.
type Tickable interface {
	Tick(dt float64)
}

// Ticker calls a Tickable once per interval with a fixed dt equal to the
// interval, followed by any registered observers in name order.
//
// Invariant: ticks never overlap; a slow tick delays the next one rather than
// running concurrently with it.
type Ticker struct {
	interval time.Duration
	target   Tickable
	logger   *zap.Logger

	mu        sync.Mutex
	observers map[string]func(tick uint64)
	count     uint64

	stop     chan struct{}
	stopOnce sync.Once
}

// NewTicker returns a ticker that advances target every interval.
//
// Precondition: interval must be > 0 and target non-nil.
func NewTicker(interval time.Duration, target Tickable, logger *zap.Logger) *Ticker {
	if interval <= 0 {
		panic("simulation.NewTicker: interval must be > 0")
	}
	if target == nil {
		panic("simulation.NewTicker: target must not be nil")
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Ticker{
		interval:  interval,
		target:    target,
		logger:    logger,
		observers: make(map[string]func(uint64)),
		stop:      make(chan struct{}),
	}
}

// Observe registers fn to run after every tick. Replaces any observer with
// the same name.
func (t *Ticker) Observe(name string, fn func(tick uint64)) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.observers[name] = fn
}

// Unobserve removes the observer registered under name.
func (t *Ticker) Unobserve(name string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	delete(t.observers, name)
}

// Count returns the number of ticks run so far.
func (t *Ticker) Count() uint64 {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.count
}

// Step runs n ticks immediately, without waiting on the clock.
func (t *Ticker) Step(n int) {
	for i := 0; i < n; i++ {
		t.tick()
	}
}

// Start runs the tick loop until Stop.
func (t *Ticker) Start() error {
	ticker := time.NewTicker(t.interval)
	defer ticker.Stop()
	t.logger.Info("simulation ticker started", zap.Duration("interval", t.interval))
	for {
		select {
		case <-t.stop:
			t.logger.Info("simulation ticker stopped", zap.Uint64("ticks", t.Count()))
			return nil
		case <-ticker.C:
			t.tick()
		}
	}
}

// Stop ends the loop started by Start. It is safe to call more than once.
func (t *Ticker) Stop() {
	t.stopOnce.Do(func() { close(t.stop) })
}

func (t *Ticker) tick() {
	start := time.Now()
	t.target.Tick(t.interval.Seconds())

	t.mu.Lock()
	t.count++
	n := t.count
	names := make([]string, 0, len(t.observers))
	for name := range t.observers {
		names = append(names, name)
	}
	sort.Strings(names)
	fns := make([]func(uint64), len(names))
	for i, name := range names {
		fns[i] = t.observers[name]
	}
	t.mu.Unlock()

	for _, fn := range fns {
		fn(n)
	}
	if elapsed := time.Since(start); elapsed > t.interval {
		t.logger.Warn("tick overran interval",
			zap.Uint64("tick", n),
			zap.Duration("elapsed", elapsed),
			zap.Duration("interval", t.interval),
		)
	}
}
