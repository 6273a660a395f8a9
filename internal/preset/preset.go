// Package preset loads named dice formulas from YAML.
package preset

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/cory-johannsen/diceroller/internal/dice"
)

// ErrInvalidPreset reports a preset that cannot be registered.
var ErrInvalidPreset = errors.New("preset: invalid preset")

// Preset is a named formula with default roll modifiers.
type Preset struct {
	Name         string `yaml:"name"`
	Formula      string `yaml:"formula"`
	Description  string `yaml:"description"`
	Advantage    bool   `yaml:"advantage"`
	Disadvantage bool   `yaml:"disadvantage"`
}

// file is the on-disk layout of a preset file.
type file struct {
	Presets []Preset `yaml:"presets"`
}

// Registry holds presets keyed by name.
type Registry struct {
	maxDice int
	presets map[string]Preset
}

// NewRegistry creates an empty Registry whose formulas are validated against
// maxDice; maxDice <= 0 selects dice.DefaultMaxDice.
func NewRegistry(maxDice int) *Registry {
	return &Registry{maxDice: maxDice, presets: make(map[string]Preset)}
}

// Register validates p and adds it, replacing any preset with the same name.
//
// Postcondition: Returns an error wrapping ErrInvalidPreset for an empty name,
// a name containing whitespace, or a formula that fails evaluation.
func (r *Registry) Register(p Preset) error {
	p.Name = strings.TrimSpace(p.Name)
	if p.Name == "" {
		return fmt.Errorf("%w: empty name", ErrInvalidPreset)
	}
	if strings.ContainsAny(p.Name, " \t\n") {
		return fmt.Errorf("%w: name %q contains whitespace", ErrInvalidPreset, p.Name)
	}
	if err := dice.Validate(p.Formula, r.maxDice); err != nil {
		return fmt.Errorf("%w: %q: %w", ErrInvalidPreset, p.Name, err)
	}
	r.presets[p.Name] = p
	return nil
}

// Get returns the preset called name, or (Preset{}, false) if not found.
func (r *Registry) Get(name string) (Preset, bool) {
	p, ok := r.presets[name]
	return p, ok
}

// Len returns the number of registered presets.
func (r *Registry) Len() int { return len(r.presets) }

// All returns every preset sorted by name.
func (r *Registry) All() []Preset {
	out := make([]Preset, 0, len(r.presets))
	for _, p := range r.presets {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// Resolve returns the preset named arg, or a bare Preset whose Formula is arg
// when no preset has that name.
func (r *Registry) Resolve(arg string) Preset {
	if p, ok := r.presets[arg]; ok {
		return p
	}
	return Preset{Formula: arg}
}

// Parse decodes a preset document from rd into reg. Unknown keys are errors.
func Parse(rd io.Reader, reg *Registry) error {
	var f file
	dec := yaml.NewDecoder(rd)
	dec.KnownFields(true)
	if err := dec.Decode(&f); err != nil {
		if errors.Is(err, io.EOF) {
			return nil
		}
		return fmt.Errorf("parsing presets: %w", err)
	}
	for _, p := range f.Presets {
		if err := reg.Register(p); err != nil {
			return err
		}
	}
	return nil
}

// Load reads presets from path into a new Registry. When path is a directory
// every *.yaml file in it is loaded in name order.
//
// Precondition: path must name a readable file or directory.
// Postcondition: Returns a non-nil Registry, or an error if any file fails to parse.
func Load(path string, maxDice int) (*Registry, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("reading presets %q: %w", path, err)
	}
	paths := []string{path}
	if info.IsDir() {
		entries, err := os.ReadDir(path)
		if err != nil {
			return nil, fmt.Errorf("reading preset dir %q: %w", path, err)
		}
		paths = paths[:0]
		for _, e := range entries {
			if e.IsDir() || !strings.HasSuffix(e.Name(), ".yaml") {
				continue
			}
			paths = append(paths, filepath.Join(path, e.Name()))
		}
	}

	reg := NewRegistry(maxDice)
	for _, p := range paths {
		data, err := os.ReadFile(p)
		if err != nil {
			return nil, fmt.Errorf("reading %q: %w", p, err)
		}
		if err := Parse(bytes.NewReader(data), reg); err != nil {
			return nil, fmt.Errorf("%q: %w", p, err)
		}
	}
	return reg, nil
}
