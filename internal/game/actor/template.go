package actor

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/cory-johannsen/skirmish/internal/game/attribute"
)

// Template is a reusable actor archetype loaded from YAML.
type Template struct {
	ID        string             `yaml:"id"`
	Name      string             `yaml:"name"`
	Kind      string             `yaml:"kind"` // "player" | "npc"
	Level     int                `yaml:"level"`
	Primaries map[string]float64 `yaml:"primaries"`
	Abilities []string           `yaml:"abilities"`
}

// Validate checks the template's invariants.
//
// Postcondition: returns nil iff ID is non-empty, Level >= 1, Kind is known,
// and every primaries key names a primary attribute with a non-negative value.
func (t *Template) Validate() error {
	if t.ID == "" {
		return fmt.Errorf("actor template: id must not be empty")
	}
	if t.Level < 1 {
		return fmt.Errorf("actor template %q: level must be >= 1", t.ID)
	}
	if _, err := t.kind(); err != nil {
		return err
	}
	for name, v := range t.Primaries {
		if !isPrimary(attribute.Name(name)) {
			return fmt.Errorf("actor template %q: %q is not a primary attribute", t.ID, name)
		}
		if v < 0 {
			return fmt.Errorf("actor template %q: %s must be >= 0", t.ID, name)
		}
	}
	return nil
}

func (t *Template) kind() (Kind, error) {
	switch t.Kind {
	case "", "npc":
		return NPC, nil
	case "player":
		return Player, nil
	default:
		return NPC, fmt.Errorf("actor template %q: unknown kind %q", t.ID, t.Kind)
	}
}

func isPrimary(n attribute.Name) bool {
	for _, p := range attribute.Primaries {
		if p == n {
			return true
		}
	}
	return false
}

// LoadTemplates reads every *.yaml file in dir as a Template, sorted by ID.
//
// Precondition: dir must be a readable directory.
// Postcondition: returns all templates or the first parse/validate error.
func LoadTemplates(dir string) ([]*Template, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("reading actor dir %q: %w", dir, err)
	}
	var out []*Template
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".yaml") {
			continue
		}
		path := filepath.Join(dir, e.Name())
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading %q: %w", path, err)
		}
		var t Template
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		if err := dec.Decode(&t); err != nil {
			return nil, fmt.Errorf("parsing %q: %w", path, err)
		}
		if err := t.Validate(); err != nil {
			return nil, fmt.Errorf("loading %q: %w", path, err)
		}
		out = append(out, &t)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}
