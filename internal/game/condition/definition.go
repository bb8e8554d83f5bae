package condition

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/cory-johannsen/skirmish/internal/game/attribute"
)

// ModifierDef is one attribute adjustment inside a condition definition.
type ModifierDef struct {
	Attribute string  `yaml:"attribute"`
	Kind      string  `yaml:"kind"` // "flat" | "percentage"
	Magnitude float64 `yaml:"magnitude"`
}

// Def is the static definition of a named buff or debuff, loaded from YAML.
// All of its modifiers share one duration and one source when applied.
type Def struct {
	ID          string        `yaml:"id"`
	Name        string        `yaml:"name"`
	Description string        `yaml:"description"`
	Duration    float64       `yaml:"duration"` // seconds; 0 = permanent
	Modifiers   []ModifierDef `yaml:"modifiers"`
}

// Validate checks that the definition can be applied to a default attribute set.
//
// Postcondition: Returns nil or an error naming every violation.
func (d *Def) Validate() error {
	var errs []string
	if d.ID == "" {
		errs = append(errs, "id must not be empty")
	}
	if d.Duration < 0 {
		errs = append(errs, fmt.Sprintf("duration must be >= 0, got %v", d.Duration))
	}
	if len(d.Modifiers) == 0 {
		errs = append(errs, "at least one modifier is required")
	}
	known := attribute.NewDefaultSet()
	for i, m := range d.Modifiers {
		if known.Get(attribute.Name(m.Attribute)) == nil {
			errs = append(errs, fmt.Sprintf("modifiers[%d]: unknown attribute %q", i, m.Attribute))
		}
		if _, ok := attribute.ParseKind(m.Kind); !ok {
			errs = append(errs, fmt.Sprintf("modifiers[%d]: unknown kind %q", i, m.Kind))
		}
	}
	if len(errs) > 0 {
		return errors.New(strings.Join(errs, "; "))
	}
	return nil
}

// Registry holds all known Defs keyed by ID.
type Registry struct {
	defs map[string]*Def
}

// NewRegistry creates an empty Registry.
func NewRegistry() *Registry {
	return &Registry{defs: make(map[string]*Def)}
}

// Register adds def, overwriting any existing entry with the same ID.
//
// Precondition: def must not be nil and def.ID must not be empty.
func (r *Registry) Register(def *Def) {
	r.defs[def.ID] = def
}

// Get returns the Def for id, or (nil, false) if not found.
func (r *Registry) Get(id string) (*Def, bool) {
	d, ok := r.defs[id]
	return d, ok
}

// All returns the registered Defs sorted by ID.
func (r *Registry) All() []*Def {
	out := make([]*Def, 0, len(r.defs))
	for _, d := range r.defs {
		out = append(out, d)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// LoadDirectory reads every *.yaml file in dir as a Def and returns a
// populated Registry. Unknown YAML fields and invalid definitions are errors.
//
// Precondition: dir must be a readable directory.
// Postcondition: Returns a non-nil Registry, or an error naming the bad file.
func LoadDirectory(dir string) (*Registry, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("reading condition dir %q: %w", dir, err)
	}
	reg := NewRegistry()
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".yaml") {
			continue
		}
		path := filepath.Join(dir, e.Name())
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading %q: %w", path, err)
		}
		var def Def
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		if err := dec.Decode(&def); err != nil {
			return nil, fmt.Errorf("parsing %q: %w", path, err)
		}
		if err := def.Validate(); err != nil {
			return nil, fmt.Errorf("validating %q: %w", path, err)
		}
		reg.Register(&def)
	}
	return reg, nil
}
