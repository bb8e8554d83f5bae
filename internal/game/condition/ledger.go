// Package condition tracks the duration-bound modifiers applied to one actor:
// named buff/debuff definitions loaded from YAML and the Ledger that applies,
// refreshes, ticks, and expires them against the actor's attribute set.
package condition

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/cory-johannsen/skirmish/internal/game/attribute"
)

// TemporalModifier is the ledger's record of one applied modifier.
// Remaining is meaningless for permanent modifiers (Modifier.Duration == 0).
type TemporalModifier struct {
	Attribute attribute.Name
	Modifier  *attribute.Modifier
	Remaining float64
}

// Permanent reports whether the record never expires on its own.
func (tm TemporalModifier) Permanent() bool {
	return tm.Modifier.Duration <= 0
}

// Ledger tracks every modifier applied through it to one actor's attributes.
// It is not safe for concurrent use; the caller must serialise access.
//
// Invariant: at most one tracked entry per (attribute, source) pair.
type Ledger struct {
	attrs   *attribute.Set
	logger  *zap.Logger
	entries []*TemporalModifier
}

// NewLedger creates an empty ledger over attrs.
//
// Precondition: attrs must be non-nil.
func NewLedger(attrs *attribute.Set, logger *zap.Logger) *Ledger {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Ledger{attrs: attrs, logger: logger}
}

// Apply attaches m to the named attribute. If a tracked modifier from the same
// source is already on that attribute it is removed first, so re-application
// refreshes duration and replaces magnitude instead of stacking.
//
// Precondition: m must be non-nil.
// Postcondition: exactly one tracked entry exists for (name, m.Source), with
// Remaining == m.Duration.
func (l *Ledger) Apply(name attribute.Name, m *attribute.Modifier) error {
	attr := l.attrs.Get(name)
	if attr == nil {
		return fmt.Errorf("apply modifier to %q: %w", name, attribute.ErrUnknownAttribute)
	}
	if i := l.find(name, m.Source); i >= 0 {
		attr.RemoveModifier(l.entries[i].Modifier)
		l.drop(i)
	}
	attr.AddModifier(m)
	l.entries = append(l.entries, &TemporalModifier{
		Attribute: name,
		Modifier:  m,
		Remaining: m.Duration,
	})
	return nil
}

// ApplyDef applies every modifier of def under src with def's duration.
//
// Postcondition: on error, modifiers applied before the failing one remain.
func (l *Ledger) ApplyDef(def *Def, src attribute.SourceID) error {
	for _, md := range def.Modifiers {
		kind, ok := attribute.ParseKind(md.Kind)
		if !ok {
			return fmt.Errorf("condition %q: unknown modifier kind %q", def.ID, md.Kind)
		}
		m := &attribute.Modifier{
			Magnitude: md.Magnitude,
			Kind:      kind,
			Source:    src,
			Duration:  def.Duration,
		}
		if err := l.Apply(attribute.Name(md.Attribute), m); err != nil {
			return fmt.Errorf("condition %q: %w", def.ID, err)
		}
	}
	return nil
}

// Tick advances every durational entry by dt seconds and removes the ones that
// reach zero from both the ledger and their attribute.
//
// Postcondition: returns the expired entries; none of them remain attached.
func (l *Ledger) Tick(dt float64) []TemporalModifier {
	var expired []TemporalModifier
	kept := l.entries[:0]
	for _, e := range l.entries {
		if e.Permanent() {
			kept = append(kept, e)
			continue
		}
		e.Remaining -= dt
		if e.Remaining > 0 {
			kept = append(kept, e)
			continue
		}
		if attr := l.attrs.Get(e.Attribute); attr != nil {
			attr.RemoveModifier(e.Modifier)
		}
		expired = append(expired, *e)
	}
	for i := len(kept); i < len(l.entries); i++ {
		l.entries[i] = nil
	}
	l.entries = kept
	if len(expired) > 0 {
		l.logger.Debug("modifiers expired", zap.Int("count", len(expired)))
	}
	return expired
}

// RemoveAllFromSource drops every tracked entry for src and strips every
// modifier from src off every attribute, including ones never tracked here
// (gear and titles attached directly).
//
// Postcondition: returns the number of modifiers detached from attributes.
func (l *Ledger) RemoveAllFromSource(src attribute.SourceID) int {
	kept := l.entries[:0]
	for _, e := range l.entries {
		if e.Modifier.Source != src {
			kept = append(kept, e)
		}
	}
	for i := len(kept); i < len(l.entries); i++ {
		l.entries[i] = nil
	}
	l.entries = kept
	return l.attrs.RemoveAllFromSource(src)
}

// Remaining returns the time left on the entry for (name, src).
// ok is false if no such entry is tracked.
func (l *Ledger) Remaining(name attribute.Name, src attribute.SourceID) (remaining float64, ok bool) {
	if i := l.find(name, src); i >= 0 {
		return l.entries[i].Remaining, true
	}
	return 0, false
}

// Active returns a snapshot of all tracked entries in application order.
func (l *Ledger) Active() []TemporalModifier {
	out := make([]TemporalModifier, len(l.entries))
	for i, e := range l.entries {
		out[i] = *e
	}
	return out
}

// Len returns the number of tracked entries.
func (l *Ledger) Len() int { return len(l.entries) }

// Clear removes every tracked modifier from its attribute and empties the
// ledger. Permanent modifiers attached outside the ledger are untouched.
func (l *Ledger) Clear() {
	for _, e := range l.entries {
		if attr := l.attrs.Get(e.Attribute); attr != nil {
			attr.RemoveModifier(e.Modifier)
		}
	}
	l.entries = nil
}

func (l *Ledger) find(name attribute.Name, src attribute.SourceID) int {
	for i, e := range l.entries {
		if e.Attribute == name && e.Modifier.Source == src {
			return i
		}
	}
	return -1
}

func (l *Ledger) drop(i int) {
	l.entries = append(l.entries[:i], l.entries[i+1:]...)
}
