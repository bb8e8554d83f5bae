package ability

import (
	"math"
	"sort"

	"go.uber.org/zap"
)

// DefaultLearnCapRatio is the share of a category's capacity an actor may learn.
const DefaultLearnCapRatio = 0.4

// Capacities reports how many abilities a category holds. *Catalog satisfies it.
type Capacities interface {
	Capacity(category string) int
}

// Learned is one actor's learned-ability registry: known ability IDs per
// category with a per-category cap of ceil(ratio * capacity).
type Learned struct {
	ownerID    string
	capacities Capacities
	ratio      float64
	reward     int
	sink       CurrencySink
	logger     *zap.Logger

	known map[string][]string
	index map[string]bool
}

// LearnedConfig tunes the cap and the over-cap reward.
type LearnedConfig struct {
	CapRatio       float64
	CurrencyReward int
}

// NewLearned creates an empty registry for ownerID.
//
// Precondition: capacities must be non-nil.
func NewLearned(ownerID string, capacities Capacities, cfg LearnedConfig, sink CurrencySink, logger *zap.Logger) *Learned {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.CapRatio <= 0 {
		cfg.CapRatio = DefaultLearnCapRatio
	}
	return &Learned{
		ownerID:    ownerID,
		capacities: capacities,
		ratio:      cfg.CapRatio,
		reward:     cfg.CurrencyReward,
		sink:       sink,
		logger:     logger,
		known:      make(map[string][]string),
		index:      make(map[string]bool),
	}
}

// Cap returns the maximum number of abilities learnable in category.
func (l *Learned) Cap(category string) int {
	return int(math.Ceil(l.ratio * float64(l.capacities.Capacity(category))))
}

// Learn registers abilityID under category.
//
// Postcondition: returns false with no change if the ability is already known;
// returns false and grants the currency reward if the category is at its cap;
// otherwise records the ability and returns true.
func (l *Learned) Learn(abilityID, category string) bool {
	if l.index[abilityID] {
		return false
	}
	if len(l.known[category]) >= l.Cap(category) {
		if l.sink == nil {
			l.logger.Error("configuration error: no currency sink for learn-cap reward",
				zap.String("actor", l.ownerID), zap.String("category", category))
			return false
		}
		l.sink.Grant(l.ownerID, l.reward)
		l.logger.Debug("learn cap reached; currency granted",
			zap.String("actor", l.ownerID),
			zap.String("ability", abilityID),
			zap.String("category", category),
			zap.Int("reward", l.reward),
		)
		return false
	}
	l.known[category] = append(l.known[category], abilityID)
	l.index[abilityID] = true
	return true
}

// Knows reports whether abilityID has been learned.
func (l *Learned) Knows(abilityID string) bool { return l.index[abilityID] }

// Count returns the number of abilities learned in category.
func (l *Learned) Count(category string) int { return len(l.known[category]) }

// Snapshot returns the learned IDs per category for persistence.
func (l *Learned) Snapshot() map[string][]string {
	out := make(map[string][]string, len(l.known))
	for cat, ids := range l.known {
		out[cat] = append([]string(nil), ids...)
	}
	return out
}

// Restore replaces the registry contents with a persisted snapshot. The cap is
// not enforced on restore.
func (l *Learned) Restore(snap map[string][]string) {
	l.known = make(map[string][]string, len(snap))
	l.index = make(map[string]bool)
	cats := make([]string, 0, len(snap))
	for cat := range snap {
		cats = append(cats, cat)
	}
	sort.Strings(cats)
	for _, cat := range cats {
		for _, id := range snap[cat] {
			if l.index[id] {
				continue
			}
			l.known[cat] = append(l.known[cat], id)
			l.index[id] = true
		}
	}
}
