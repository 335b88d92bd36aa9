// Package catalog provides read-only exercise metadata keyed by exercise name.
package catalog

import (
	"bytes"
	_ "embed"
	"fmt"
	"io"
	"os"
	"sort"

	"gopkg.in/yaml.v3"

	"github.com/claude/fitstreak/internal/models"
)

// UnknownGroup is returned for exercises the catalog does not know.
const UnknownGroup = "Other"

//go:embed exercises.yaml
var defaultDataset []byte

type dataset struct {
	Exercises []models.ExerciseMeta `yaml:"exercises"`
}

// Catalog is an immutable exercise lookup table. It is safe for concurrent use.
type Catalog struct {
	byName map[string]models.ExerciseMeta
	names  []string
}

// Default returns the catalog built from the embedded dataset.
func Default() (*Catalog, error) {
	return Load(bytes.NewReader(defaultDataset))
}

// LoadFile reads a catalog from a YAML file. An empty path loads the embedded default.
func LoadFile(path string) (*Catalog, error) {
	if path == "" {
		return Default()
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening catalog: %w", err)
	}
	defer f.Close()
	return Load(f)
}

// Load decodes a YAML dataset of the form {exercises: [...]}.
func Load(r io.Reader) (*Catalog, error) {
	var ds dataset
	if err := yaml.NewDecoder(r).Decode(&ds); err != nil {
		return nil, fmt.Errorf("decoding catalog: %w", err)
	}

	c := &Catalog{byName: make(map[string]models.ExerciseMeta, len(ds.Exercises))}
	for i, m := range ds.Exercises {
		if m.Name == "" {
			return nil, fmt.Errorf("catalog entry %d has no name", i)
		}
		if _, dup := c.byName[m.Name]; dup {
			return nil, fmt.Errorf("duplicate catalog entry %q", m.Name)
		}
		c.byName[m.Name] = m
		c.names = append(c.names, m.Name)
	}
	sort.Strings(c.names)
	return c, nil
}

// LookupMuscleGroup returns the primary muscle group for name, or "Other".
func (c *Catalog) LookupMuscleGroup(name string) string {
	if m, ok := c.byName[name]; ok && m.MuscleGroup != "" {
		return m.MuscleGroup
	}
	return UnknownGroup
}

// LookupMeta returns the full catalog entry for name.
func (c *Catalog) LookupMeta(name string) (models.ExerciseMeta, bool) {
	m, ok := c.byName[name]
	return m, ok
}

// Names returns all exercise names in sorted order.
func (c *Catalog) Names() []string {
	return append([]string(nil), c.names...)
}

// Len returns the number of catalog entries.
func (c *Catalog) Len() int {
	return len(c.byName)
}

// ByMuscleGroup returns the entries whose primary group is group, sorted by name.
func (c *Catalog) ByMuscleGroup(group string) []models.ExerciseMeta {
	out := []models.ExerciseMeta{}
	for _, name := range c.names {
		if m := c.byName[name]; m.MuscleGroup == group {
			out = append(out, m)
		}
	}
	return out
}
