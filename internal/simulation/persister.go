package simulation

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"go.uber.org/zap"

	"github.com/cory-johannsen/skirmish/internal/game/actor"
)

// SnapshotSource yields the current persisted state of every actor.
type SnapshotSource interface {
	Snapshots() []actor.Snapshot
}

// SnapshotStore saves actor snapshots.
type SnapshotStore interface {
	SaveAll(ctx context.Context, snaps []actor.Snapshot) error
}

// Persister periodically saves every actor snapshot and flushes once more on
// Stop. Save failures are logged and retried on the next interval.
type Persister struct {
	source   SnapshotSource
	store    SnapshotStore
	interval time.Duration
	timeout  time.Duration
	logger   *zap.Logger

	started  atomic.Bool
	stop     chan struct{}
	stopOnce sync.Once
	done     chan struct{}
}

// NewPersister creates a persister. An interval <= 0 saves only on Stop.
//
// Precondition: source and store must be non-nil.
func NewPersister(source SnapshotSource, store SnapshotStore, interval time.Duration, logger *zap.Logger) *Persister {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Persister{
		source:   source,
		store:    store,
		interval: interval,
		timeout:  10 * time.Second,
		logger:   logger,
		stop:     make(chan struct{}),
		done:     make(chan struct{}),
	}
}

// Flush saves every snapshot now.
func (p *Persister) Flush(ctx context.Context) error {
	snaps := p.source.Snapshots()
	start := time.Now()
	if err := p.store.SaveAll(ctx, snaps); err != nil {
		return err
	}
	p.logger.Debug("snapshots saved",
		zap.Int("actors", len(snaps)),
		zap.Duration("elapsed", time.Since(start)),
	)
	return nil
}

// Scheduled marks Start as pending so a Stop that races ahead of it still
// waits for the final flush. server.Lifecycle calls it before dispatching Start.
func (p *Persister) Scheduled() { p.started.Store(true) }

// Start saves on every interval until Stop, then flushes a final time.
func (p *Persister) Start() error {
	p.started.Store(true)
	defer close(p.done)
	var tick <-chan time.Time
	if p.interval > 0 {
		ticker := time.NewTicker(p.interval)
		defer ticker.Stop()
		tick = ticker.C
	}
	for {
		select {
		case <-p.stop:
			p.flushLogged("final")
			return nil
		case <-tick:
			p.flushLogged("periodic")
		}
	}
}

// Stop ends the loop. When Start is running or scheduled, Stop returns only
// after the final flush so the store can be closed safely afterwards.
func (p *Persister) Stop() {
	p.stopOnce.Do(func() { close(p.stop) })
	if p.started.Load() {
		<-p.done
	}
}

// Wait blocks until Start has returned.
func (p *Persister) Wait() { <-p.done }

func (p *Persister) flushLogged(kind string) {
	ctx, cancel := context.WithTimeout(context.Background(), p.timeout)
	defer cancel()
	if err := p.Flush(ctx); err != nil {
		p.logger.Error("saving snapshots failed", zap.String("flush", kind), zap.Error(err))
	}
}
