package actor

import (
	"errors"
	"fmt"
	"sort"
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/cory-johannsen/skirmish/internal/game/ability"
	"github.com/cory-johannsen/skirmish/internal/game/attribute"
)

var (
	// ErrActorNotFound is returned for an unknown actor ID.
	ErrActorNotFound = errors.New("actor not found")
	// ErrDuplicateActor is returned when adding an ID that is already present.
	ErrDuplicateActor = errors.New("actor already exists")
	// ErrUnknownAbility is returned when a template or request names an ability
	// the catalog does not hold.
	ErrUnknownAbility = errors.New("unknown ability")
)

// Manager owns every live actor and is the single entry point for the tick
// loop and for ability-selection callers. All methods are safe for concurrent use;
// each call holds the manager lock for its full duration, so actor state is
// only ever mutated by one goroutine at a time.
type Manager struct {
	mu      sync.RWMutex
	actors  map[string]*Actor
	catalog *ability.Catalog
	deps    Deps
	logger  *zap.Logger
}

// NewManager creates an empty manager. Actors it spawns are built with deps.
//
// Precondition: catalog must be non-nil.
func NewManager(catalog *ability.Catalog, deps Deps, logger *zap.Logger) *Manager {
	if logger == nil {
		logger = zap.NewNop()
	}
	if deps.Logger == nil {
		deps.Logger = logger
	}
	if deps.Capacities == nil {
		deps.Capacities = catalog
	}
	return &Manager{
		actors:  make(map[string]*Actor),
		catalog: catalog,
		deps:    deps,
		logger:  logger,
	}
}

// Catalog returns the ability catalog.
func (m *Manager) Catalog() *ability.Catalog { return m.catalog }

// Spawn builds a new actor from tmpl with a fresh UUID, applies its primaries
// and level, and teaches its abilities.
//
// Postcondition: the actor is registered and at full resources.
func (m *Manager) Spawn(tmpl *Template) (*Actor, error) {
	if tmpl == nil {
		return nil, fmt.Errorf("actor.Manager.Spawn: tmpl must not be nil")
	}
	kind, err := tmpl.kind()
	if err != nil {
		return nil, err
	}
	a := New(uuid.NewString(), tmpl.Name, kind, m.deps)
	for name, v := range tmpl.Primaries {
		if err := a.attrs.SetBase(attribute.Name(name), v); err != nil {
			return nil, fmt.Errorf("spawn %q: %w", tmpl.ID, err)
		}
	}
	for a.level < tmpl.Level {
		a.LevelUp()
	}
	for _, id := range tmpl.Abilities {
		ab, ok := m.catalog.Get(id)
		if !ok {
			return nil, fmt.Errorf("spawn %q: %q: %w", tmpl.ID, id, ErrUnknownAbility)
		}
		a.Learn(ab)
	}
	a.pool.RestoreAll()
	if err := m.Add(a); err != nil {
		return nil, err
	}
	return a, nil
}

// Create builds an empty level-1 actor with id and registers it.
func (m *Manager) Create(id, name string, kind Kind) (*Actor, error) {
	a := New(id, name, kind, m.deps)
	if err := m.Add(a); err != nil {
		return nil, err
	}
	return a, nil
}

// Add registers a.
func (m *Manager) Add(a *Actor) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, dup := m.actors[a.id]; dup {
		return fmt.Errorf("%q: %w", a.id, ErrDuplicateActor)
	}
	m.actors[a.id] = a
	return nil
}

// Remove unregisters the actor with id.
func (m *Manager) Remove(id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.actors[id]; !ok {
		return fmt.Errorf("%q: %w", id, ErrActorNotFound)
	}
	delete(m.actors, id)
	return nil
}

// Len returns the number of registered actors.
func (m *Manager) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.actors)
}

// IDs returns every actor ID, sorted.
func (m *Manager) IDs() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.sortedIDs()
}

// With runs fn on the actor with id while holding the manager lock.
func (m *Manager) With(id string, fn func(*Actor) error) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	a, ok := m.actors[id]
	if !ok {
		return fmt.Errorf("%q: %w", id, ErrActorNotFound)
	}
	return fn(a)
}

// Use activates abilityID for casterID against targetID. An empty targetID
// is allowed for self-cast abilities.
//
// Postcondition: a gating failure is (false, nil); unknown IDs are errors.
func (m *Manager) Use(casterID, abilityID, targetID string) (bool, error) {
	ab, ok := m.catalog.Get(abilityID)
	if !ok {
		return false, fmt.Errorf("%q: %w", abilityID, ErrUnknownAbility)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	caster, ok := m.actors[casterID]
	if !ok {
		return false, fmt.Errorf("caster %q: %w", casterID, ErrActorNotFound)
	}
	var target ability.Combatant
	if targetID != "" {
		t, ok := m.actors[targetID]
		if !ok {
			return false, fmt.Errorf("target %q: %w", targetID, ErrActorNotFound)
		}
		target = t
	}
	used := caster.Use(ab, target)
	if t, ok := target.(*Actor); ok && t != nil {
		t.CheckDeath()
	}
	return used, nil
}

// Tick advances every actor by dt in ascending ID order.
func (m *Manager) Tick(dt float64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, id := range m.sortedIDs() {
		m.actors[id].Tick(dt)
	}
}

// Snapshots captures the persisted state of every actor, sorted by ID.
func (m *Manager) Snapshots() []Snapshot {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]Snapshot, 0, len(m.actors))
	for _, id := range m.sortedIDs() {
		out = append(out, m.actors[id].Snapshot())
	}
	return out
}

// Load registers a new actor restored from s.
func (m *Manager) Load(s Snapshot) (*Actor, error) {
	a := New(s.ID, s.Name, s.Kind, m.deps)
	if err := a.Restore(s); err != nil {
		return nil, err
	}
	if err := m.Add(a); err != nil {
		return nil, err
	}
	return a, nil
}

func (m *Manager) sortedIDs() []string {
	ids := make([]string, 0, len(m.actors))
	for id := range m.actors {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}
