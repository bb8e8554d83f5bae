package attribute

import (
	"errors"
	"fmt"
	"math"
	"sort"
)

// Name identifies an attribute within a Set.
type Name string

// Primary attributes. Only these are written directly (allocation, persistence).
const (
	Strength     Name = "strength"
	Dexterity    Name = "dexterity"
	Vitality     Name = "vitality"
	Intelligence Name = "intelligence"
	Wisdom       Name = "wisdom"
	Endurance    Name = "endurance"
	Sense        Name = "sense"
)

// Derived attributes. Their base is recomputed from their dependencies.
const (
	Armor               Name = "armor"
	MagicResistance     Name = "magic_resistance"
	FireResistance      Name = "fire_resistance"
	ColdResistance      Name = "cold_resistance"
	LightningResistance Name = "lightning_resistance"
	PoisonResistance    Name = "poison_resistance"
	Poise               Name = "poise"
	StaggerThreshold    Name = "stagger_threshold"
	HealthRegen         Name = "health_regen"
	ManaRegen           Name = "mana_regen"
	EnergyRegen         Name = "energy_regen"
	StaggerRegen        Name = "stagger_regen"
	AttackSpeed         Name = "attack_speed"
	MovementSpeed       Name = "movement_speed"
	CriticalDamage      Name = "critical_damage"
	CriticalChance      Name = "critical_chance"
)

// DefaultPrimaryBase is the base value every primary starts at on spawn.
const DefaultPrimaryBase = 10

// Primaries lists the primary attributes in display order.
var Primaries = []Name{Strength, Dexterity, Vitality, Intelligence, Wisdom, Endurance, Sense}

var (
	// ErrUnknownAttribute is returned for a name the Set does not own.
	ErrUnknownAttribute = errors.New("unknown attribute")
	// ErrDerivedAttribute is returned when writing the base of a derived attribute.
	ErrDerivedAttribute = errors.New("derived attribute base is computed")
	// ErrDependencyCycle is returned when derived definitions form a cycle.
	ErrDependencyCycle = errors.New("derived attribute dependency cycle")
)

// Reader is the read-only view of a Set consumed by damage resolution and effects.
type Reader interface {
	Value(name Name) float64
}

// Definition declares a derived attribute: the names it reads and how its base
// is computed from their effective values.
type Definition struct {
	Name      Name
	DependsOn []Name
	Compute   func(get func(Name) float64) float64
}

// ChangeFunc receives the names whose effective value may have changed during
// one mutation, including every derived attribute recomputed by the cascade.
type ChangeFunc func(changed []Name)

// Set is the fixed attribute collection owned by one actor.
// It is not safe for concurrent use.
type Set struct {
	attrs       map[Name]*Attribute
	derived     map[Name]Definition
	order       []Name
	subscribers []ChangeFunc

	cascading bool
	changed   []Name
}

// NewSet builds a Set with the given primaries (at DefaultPrimaryBase) and
// derived definitions, computing the topological recompute order once.
//
// Precondition: names are unique across primaries and defs.
// Postcondition: returns ErrDependencyCycle or ErrUnknownAttribute for an invalid
// graph; otherwise every derived base is computed.
func NewSet(primaries []Name, defs []Definition) (*Set, error) {
	s := &Set{
		attrs:   make(map[Name]*Attribute, len(primaries)+len(defs)),
		derived: make(map[Name]Definition, len(defs)),
	}
	for _, n := range primaries {
		s.add(n, DefaultPrimaryBase)
	}
	for _, d := range defs {
		if _, dup := s.attrs[d.Name]; dup {
			return nil, fmt.Errorf("attribute %q declared twice", d.Name)
		}
		s.add(d.Name, 0)
		s.derived[d.Name] = d
	}
	for _, d := range defs {
		for _, dep := range d.DependsOn {
			if _, ok := s.attrs[dep]; !ok {
				return nil, fmt.Errorf("%q depends on %q: %w", d.Name, dep, ErrUnknownAttribute)
			}
		}
	}
	order, err := topoOrder(defs, s.derived)
	if err != nil {
		return nil, err
	}
	s.order = order
	s.Recompute()
	return s, nil
}

// NewDefaultSet returns a Set with the standard primaries and derived table.
func NewDefaultSet() *Set {
	s, err := NewSet(Primaries, DefaultDerived())
	if err != nil {
		panic("attribute: default derived table is invalid: " + err.Error())
	}
	return s
}

func (s *Set) add(n Name, base float64) {
	a := New(n, base)
	a.OnChange(s.attributeChanged)
	s.attrs[n] = a
}

// topoOrder runs Kahn's algorithm over the derived-to-derived edges. Ties are
// broken by name so the order is stable across runs.
func topoOrder(defs []Definition, derived map[Name]Definition) ([]Name, error) {
	indegree := make(map[Name]int, len(defs))
	dependents := make(map[Name][]Name)
	for _, d := range defs {
		indegree[d.Name] += 0
		for _, dep := range d.DependsOn {
			if _, ok := derived[dep]; ok {
				indegree[d.Name]++
				dependents[dep] = append(dependents[dep], d.Name)
			}
		}
	}
	var ready []Name
	for n, deg := range indegree {
		if deg == 0 {
			ready = append(ready, n)
		}
	}
	order := make([]Name, 0, len(defs))
	for len(ready) > 0 {
		sort.Slice(ready, func(i, j int) bool { return ready[i] < ready[j] })
		n := ready[0]
		ready = ready[1:]
		order = append(order, n)
		for _, m := range dependents[n] {
			indegree[m]--
			if indegree[m] == 0 {
				ready = append(ready, m)
			}
		}
	}
	if len(order) != len(defs) {
		return nil, ErrDependencyCycle
	}
	return order, nil
}

// Get returns the named attribute, or nil if the Set does not own it.
func (s *Set) Get(name Name) *Attribute {
	return s.attrs[name]
}

// Value returns the effective value of name, or 0 for an unknown name.
func (s *Set) Value(name Name) float64 {
	if a, ok := s.attrs[name]; ok {
		return a.Value()
	}
	return 0
}

// IsDerived reports whether name is a derived attribute of this Set.
func (s *Set) IsDerived(name Name) bool {
	_, ok := s.derived[name]
	return ok
}

// Names returns every attribute name in sorted order.
func (s *Set) Names() []Name {
	out := make([]Name, 0, len(s.attrs))
	for n := range s.attrs {
		out = append(out, n)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// SetBase writes the base value of a primary attribute and cascades the
// recompute to every derived attribute that transitively depends on it.
//
// Postcondition: returns ErrUnknownAttribute or ErrDerivedAttribute without
// side effects; otherwise subscribers are told about every changed name.
func (s *Set) SetBase(name Name, value float64) error {
	a, ok := s.attrs[name]
	if !ok {
		return fmt.Errorf("set base %q: %w", name, ErrUnknownAttribute)
	}
	if s.IsDerived(name) {
		return fmt.Errorf("set base %q: %w", name, ErrDerivedAttribute)
	}
	a.setBase(value)
	return nil
}

// Bases returns the base values of all primary attributes. This is the only
// attribute state that is persisted.
func (s *Set) Bases() map[Name]float64 {
	out := make(map[Name]float64)
	for n, a := range s.attrs {
		if !s.IsDerived(n) {
			out[n] = a.base
		}
	}
	return out
}

// Subscribe registers fn to be called after every mutation cascade.
func (s *Set) Subscribe(fn ChangeFunc) {
	if fn != nil {
		s.subscribers = append(s.subscribers, fn)
	}
}

// RemoveAllFromSource detaches every modifier owned by src from every
// attribute and returns the total removed. Subscribers are notified once.
func (s *Set) RemoveAllFromSource(src SourceID) int {
	total := 0
	s.batch(func() {
		for _, n := range s.Names() {
			total += s.attrs[n].RemoveAllFromSource(src)
		}
	})
	return total
}

// Recompute recalculates every derived base in dependency order and notifies
// subscribers with all names. Used after bulk loads.
func (s *Set) Recompute() {
	s.batch(func() {
		for _, n := range s.order {
			s.attrs[n].setBase(s.derived[n].Compute(s.Value))
		}
		s.changed = append(s.changed, s.Names()...)
	})
}

// batch runs fn with cascading enabled so nested notifications are collected,
// then recomputes once and notifies subscribers once.
func (s *Set) batch(fn func()) {
	if s.cascading {
		fn()
		return
	}
	s.cascading = true
	fn()
	s.cascadeFrom(s.changed)
	s.cascading = false
	s.flush()
}

func (s *Set) attributeChanged(a *Attribute) {
	s.changed = append(s.changed, a.name)
	if s.cascading {
		return
	}
	s.cascading = true
	s.cascadeFrom([]Name{a.name})
	s.cascading = false
	s.flush()
}

// cascadeFrom recomputes, in topological order, each derived attribute that
// reads a dirty name. A derived attribute whose base changed becomes dirty.
func (s *Set) cascadeFrom(roots []Name) {
	dirty := make(map[Name]bool, len(roots))
	for _, r := range roots {
		dirty[r] = true
	}
	for _, n := range s.order {
		def := s.derived[n]
		for _, dep := range def.DependsOn {
			if !dirty[dep] {
				continue
			}
			if s.attrs[n].setBase(def.Compute(s.Value)) {
				dirty[n] = true
			}
			break
		}
	}
}

func (s *Set) flush() {
	if len(s.changed) == 0 {
		return
	}
	seen := make(map[Name]bool, len(s.changed))
	changed := make([]Name, 0, len(s.changed))
	for _, n := range s.changed {
		if !seen[n] {
			seen[n] = true
			changed = append(changed, n)
		}
	}
	s.changed = nil
	for _, fn := range s.subscribers {
		fn(changed)
	}
}

// DefaultDerived returns the standard derived-attribute table.
func DefaultDerived() []Definition {
	linear := func(name Name, dep Name, factor, offset float64) Definition {
		return Definition{
			Name:      name,
			DependsOn: []Name{dep},
			Compute:   func(get func(Name) float64) float64 { return offset + get(dep)*factor },
		}
	}
	return []Definition{
		linear(Armor, Endurance, 1, 0),
		linear(MagicResistance, Wisdom, 1, 0),
		linear(FireResistance, Wisdom, 0.5, 0),
		linear(ColdResistance, Wisdom, 0.5, 0),
		linear(LightningResistance, Wisdom, 0.5, 0),
		linear(PoisonResistance, Vitality, 0.5, 0),
		linear(Poise, Endurance, 2, 0),
		{
			Name:      StaggerThreshold,
			DependsOn: []Name{Poise, Vitality},
			Compute: func(get func(Name) float64) float64 {
				return math.Round(get(Poise)*0.5 + get(Vitality)*0.5)
			},
		},
		linear(HealthRegen, Vitality, 0.1, 0),
		linear(ManaRegen, Wisdom, 0.2, 0),
		linear(EnergyRegen, Endurance, 0.2, 0),
		linear(StaggerRegen, Poise, 0.25, 0),
		linear(AttackSpeed, Dexterity, 0.005, 1),
		linear(MovementSpeed, Dexterity, 0.01, 5),
		linear(CriticalDamage, Sense, 0.01, 1.5),
		linear(CriticalChance, Sense, 0.005, 0),
	}
}
