package ability

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/cory-johannsen/skirmish/internal/game/resource"
)

// ErrUnknownEffect is returned when a step names an effect kind with no factory.
var ErrUnknownEffect = errors.New("unknown effect kind")

type abilitySpec struct {
	ID             string         `yaml:"id"`
	Name           string         `yaml:"name"`
	Costs          resource.Costs `yaml:"costs"`
	ActivationTime float64        `yaml:"activation_time"`
	Cooldown       float64        `yaml:"cooldown"`
	SelfCast       bool           `yaml:"self_cast"`
	Steps          []StepSpec     `yaml:"steps"`
}

// categoryFile is one skill-tree file: a category, its capacity, and its abilities.
type categoryFile struct {
	Category  string        `yaml:"category"`
	Capacity  int           `yaml:"capacity"`
	Abilities []abilitySpec `yaml:"abilities"`
}

// Catalog holds every known Ability and the capacity of each category.
type Catalog struct {
	abilities map[string]*Ability
	capacity  map[string]int
}

// NewCatalog creates an empty Catalog.
func NewCatalog() *Catalog {
	return &Catalog{
		abilities: make(map[string]*Ability),
		capacity:  make(map[string]int),
	}
}

// Add registers a, overwriting any ability with the same ID.
//
// Precondition: a must be non-nil with a non-empty ID.
func (c *Catalog) Add(a *Ability) {
	c.abilities[a.ID] = a
}

// SetCapacity fixes the capacity of category to n.
func (c *Catalog) SetCapacity(category string, n int) {
	c.capacity[category] = n
}

// Get returns the ability with id.
func (c *Catalog) Get(id string) (*Ability, bool) {
	a, ok := c.abilities[id]
	return a, ok
}

// Capacity returns the explicit capacity of category, or the number of
// catalog abilities in it when none was set.
func (c *Catalog) Capacity(category string) int {
	if n, ok := c.capacity[category]; ok {
		return n
	}
	return len(c.InCategory(category))
}

// InCategory returns the abilities of category sorted by ID.
func (c *Catalog) InCategory(category string) []*Ability {
	var out []*Ability
	for _, a := range c.abilities {
		if a.Category == category {
			out = append(out, a)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// Categories returns every category that has abilities or a capacity, sorted.
func (c *Catalog) Categories() []string {
	seen := make(map[string]bool)
	for _, a := range c.abilities {
		seen[a.Category] = true
	}
	for cat := range c.capacity {
		seen[cat] = true
	}
	out := make([]string, 0, len(seen))
	for cat := range seen {
		out = append(out, cat)
	}
	sort.Strings(out)
	return out
}

// Len returns the number of abilities.
func (c *Catalog) Len() int { return len(c.abilities) }

// LoadDirectory reads every *.yaml file in dir as a category file and builds
// each step through effects.
//
// Precondition: dir must be readable; effects must be non-nil.
// Postcondition: returns a populated Catalog or an error naming the file and ability.
func LoadDirectory(dir string, effects *EffectRegistry) (*Catalog, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("reading ability dir %q: %w", dir, err)
	}
	cat := NewCatalog()
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".yaml") {
			continue
		}
		path := filepath.Join(dir, e.Name())
		if err := cat.loadFile(path, effects); err != nil {
			return nil, err
		}
	}
	return cat, nil
}

func (c *Catalog) loadFile(path string, effects *EffectRegistry) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading %q: %w", path, err)
	}
	var f categoryFile
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&f); err != nil {
		return fmt.Errorf("parsing %q: %w", path, err)
	}
	if f.Category == "" {
		return fmt.Errorf("%q: category must not be empty", path)
	}
	if f.Capacity < 0 {
		return fmt.Errorf("%q: capacity must be >= 0", path)
	}
	for _, spec := range f.Abilities {
		a, err := buildAbility(f.Category, spec, effects)
		if err != nil {
			return fmt.Errorf("%q: %w", path, err)
		}
		if _, dup := c.abilities[a.ID]; dup {
			return fmt.Errorf("%q: ability %q defined twice", path, a.ID)
		}
		c.Add(a)
	}
	if f.Capacity > 0 {
		c.SetCapacity(f.Category, f.Capacity)
	}
	return nil
}

func buildAbility(category string, spec abilitySpec, effects *EffectRegistry) (*Ability, error) {
	if spec.ID == "" {
		return nil, fmt.Errorf("ability id must not be empty")
	}
	if spec.ActivationTime < 0 || spec.Cooldown < 0 {
		return nil, fmt.Errorf("ability %q: activation_time and cooldown must be >= 0", spec.ID)
	}
	a := &Ability{
		ID:             spec.ID,
		Name:           spec.Name,
		Category:       category,
		Costs:          spec.Costs,
		ActivationTime: spec.ActivationTime,
		Cooldown:       spec.Cooldown,
		SelfCast:       spec.SelfCast,
		Steps:          make([]Step, 0, len(spec.Steps)),
	}
	for i, ss := range spec.Steps {
		st, err := effects.Build(ss)
		if err != nil {
			return nil, fmt.Errorf("ability %q step %d: %w", spec.ID, i, err)
		}
		a.Steps = append(a.Steps, st)
	}
	return a, nil
}
