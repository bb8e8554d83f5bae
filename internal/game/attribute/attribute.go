// Package attribute implements the named scalar stats every combat-capable actor
// carries: a mutable base value plus an ordered set of flat and percentage
// modifiers, and the per-actor Set that wires derived stats to their primaries.
package attribute

import (
	"github.com/google/uuid"
)

// Kind selects how a Modifier's magnitude combines into an attribute's value.
type Kind int

const (
	// Flat magnitudes are summed into the base before scaling.
	Flat Kind = iota
	// Percentage magnitudes are summed into the scaling factor (0.1 = +10%).
	Percentage
)

// String returns the lowercase kind label used in content files.
func (k Kind) String() string {
	switch k {
	case Flat:
		return "flat"
	case Percentage:
		return "percentage"
	default:
		return "unknown"
	}
}

// ParseKind converts a content-file label into a Kind.
//
// Postcondition: ok is false for any label other than "flat" or "percentage".
func ParseKind(s string) (k Kind, ok bool) {
	switch s {
	case "flat":
		return Flat, true
	case "percentage", "percent":
		return Percentage, true
	default:
		return Flat, false
	}
}

// SourceID is the stable handle identifying who owns a modifier: an ability
// cast, an equipped item slot, a title. Modifiers are grouped and removed by it.
type SourceID string

// NewSourceID returns a fresh unique handle for a transient source such as a
// single ability activation.
func NewSourceID() SourceID {
	return SourceID(uuid.NewString())
}

// StaticSource returns the handle for a long-lived, named source (for example
// "gear:chest" or "title:warlord"). Equal names yield equal handles.
func StaticSource(name string) SourceID {
	return SourceID(name)
}

// Modifier is one adjustment attached to an Attribute.
// Identity is the pointer: the same values attached twice are two modifiers.
type Modifier struct {
	Magnitude float64
	Kind      Kind
	Source    SourceID
	// Duration in seconds; 0 means permanent. Only the condition ledger reads it.
	Duration float64
}

// Attribute is a named scalar with a base value and temporary modifiers.
// It is not safe for concurrent use.
type Attribute struct {
	name      Name
	base      float64
	modifiers []*Modifier
	onChange  func(*Attribute)
}

// New creates a detached Attribute. Attributes owned by a Set are created by
// the Set so that change notifications cascade.
func New(name Name, base float64) *Attribute {
	return &Attribute{name: name, base: base}
}

// Name returns the attribute's name.
func (a *Attribute) Name() Name { return a.name }

// Base returns the unmodified base value.
func (a *Attribute) Base() float64 { return a.base }

// Value returns the effective value: (base + Σflat) * (1 + Σpercentage).
//
// Postcondition: Value is a pure function of Base and the current modifier set.
func (a *Attribute) Value() float64 {
	flat, pct := 0.0, 0.0
	for _, m := range a.modifiers {
		switch m.Kind {
		case Flat:
			flat += m.Magnitude
		case Percentage:
			pct += m.Magnitude
		}
	}
	return (a.base + flat) * (1 + pct)
}

// OnChange registers fn as the single change listener, replacing any previous
// one. A nil fn disables notification.
func (a *Attribute) OnChange(fn func(*Attribute)) {
	a.onChange = fn
}

func (a *Attribute) notify() {
	if a.onChange != nil {
		a.onChange(a)
	}
}

// setBase writes the base value and reports whether it changed.
func (a *Attribute) setBase(v float64) bool {
	if a.base == v {
		return false
	}
	a.base = v
	a.notify()
	return true
}

// AddModifier attaches m. Adding nil or a modifier already attached is a no-op.
//
// Postcondition: exactly one change notification iff the modifier set changed.
func (a *Attribute) AddModifier(m *Modifier) {
	if m == nil || a.indexOf(m) >= 0 {
		return
	}
	a.modifiers = append(a.modifiers, m)
	a.notify()
}

// RemoveModifier detaches m and reports whether it was attached.
//
// Postcondition: exactly one change notification iff m was attached.
func (a *Attribute) RemoveModifier(m *Modifier) bool {
	i := a.indexOf(m)
	if i < 0 {
		return false
	}
	a.modifiers = append(a.modifiers[:i], a.modifiers[i+1:]...)
	a.notify()
	return true
}

// RemoveAllFromSource detaches every modifier owned by src and returns how many
// were removed.
//
// Postcondition: no modifier from src remains; one notification iff removed > 0.
func (a *Attribute) RemoveAllFromSource(src SourceID) int {
	kept := a.modifiers[:0]
	removed := 0
	for _, m := range a.modifiers {
		if m.Source == src {
			removed++
			continue
		}
		kept = append(kept, m)
	}
	for i := len(kept); i < len(a.modifiers); i++ {
		a.modifiers[i] = nil
	}
	a.modifiers = kept
	if removed > 0 {
		a.notify()
	}
	return removed
}

// Modifiers returns a copy of the attached modifiers in attach order.
func (a *Attribute) Modifiers() []*Modifier {
	out := make([]*Modifier, len(a.modifiers))
	copy(out, a.modifiers)
	return out
}

// Has reports whether m is attached.
func (a *Attribute) Has(m *Modifier) bool {
	return a.indexOf(m) >= 0
}

func (a *Attribute) indexOf(m *Modifier) int {
	for i, existing := range a.modifiers {
		if existing == m {
			return i
		}
	}
	return -1
}
