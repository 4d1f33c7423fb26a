// internal/career/skillgap/tables.go
package skillgap

import (
	_ "embed"
	"fmt"
	"os"
	"sort"
	"sync"

	"gopkg.in/yaml.v3"
)

const DefaultRole = "Default Career"

//go:embed tables.yaml
var embeddedTables []byte

var (
	defaultOnce   sync.Once
	defaultTables *Tables
	defaultErr    error
)

// Tables holds the static reference data used for gap analysis. A Tables
// value is read-only after it has been loaded.
type Tables struct {
	Catalog      Catalog
	Scale        RatingScale
	DefaultRole  string
	Ideals       map[string]Vector
	Descriptions map[string]string
	// Classes lists role labels in label-encoder order.
	Classes []string
}

type tablesFile struct {
	Catalog     []string       `yaml:"catalog"`
	RatingScale map[string]int `yaml:"rating_scale"`
	DefaultRole string         `yaml:"default_role"`
	Classes     []string       `yaml:"classes"`
	Roles       []struct {
		Name        string `yaml:"name"`
		Ideal       []int  `yaml:"ideal"`
		Description string `yaml:"description"`
	} `yaml:"roles"`
}

var requiredLabels = []string{
	"Not Interested", "Poor", "Beginner", "Average", "Intermediate", "Excellent", "Professional",
}

// DefaultTables returns the tables compiled into the binary.
func DefaultTables() (*Tables, error) {
	defaultOnce.Do(func() {
		defaultTables, defaultErr = ParseTables(embeddedTables)
	})
	return defaultTables, defaultErr
}

// LoadTables reads tables from a YAML file. An empty path yields the
// embedded defaults.
func LoadTables(path string) (*Tables, error) {
	if path == "" {
		return DefaultTables()
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read skill tables: %w", err)
	}
	return ParseTables(data)
}

// ParseTables decodes and validates YAML table data.
func ParseTables(data []byte) (*Tables, error) {
	var f tablesFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse skill tables: %w", err)
	}

	t := &Tables{
		Catalog:      Catalog(f.Catalog),
		Scale:        RatingScale(f.RatingScale),
		DefaultRole:  f.DefaultRole,
		Ideals:       make(map[string]Vector, len(f.Roles)),
		Descriptions: make(map[string]string, len(f.Roles)),
		Classes:      f.Classes,
	}
	if t.DefaultRole == "" {
		t.DefaultRole = DefaultRole
	}

	for _, r := range f.Roles {
		if _, dup := t.Ideals[r.Name]; dup {
			return nil, fmt.Errorf("duplicate role %q", r.Name)
		}
		t.Ideals[r.Name] = Vector(r.Ideal)
		t.Descriptions[r.Name] = r.Description
	}

	if len(t.Classes) == 0 {
		for name := range t.Ideals {
			if name != t.DefaultRole {
				t.Classes = append(t.Classes, name)
			}
		}
		sort.Strings(t.Classes)
	}

	if err := t.Validate(); err != nil {
		return nil, err
	}
	return t, nil
}

// Validate checks that every vector is aligned with the catalog and that the
// fallback role and rating labels are present.
func (t *Tables) Validate() error {
	if len(t.Catalog) == 0 {
		return fmt.Errorf("skill catalog is empty")
	}
	seen := make(map[string]struct{}, len(t.Catalog))
	for _, dim := range t.Catalog {
		if _, dup := seen[dim]; dup {
			return fmt.Errorf("duplicate skill dimension %q", dim)
		}
		seen[dim] = struct{}{}
	}
	for _, label := range requiredLabels {
		if _, ok := t.Scale[label]; !ok {
			return fmt.Errorf("rating scale is missing %q", label)
		}
	}
	if _, ok := t.Ideals[t.DefaultRole]; !ok {
		return fmt.Errorf("ideal vectors are missing %q", t.DefaultRole)
	}
	for role, v := range t.Ideals {
		if len(v) != len(t.Catalog) {
			return fmt.Errorf("%w: role %q has %d scores, catalog has %d",
				ErrDimensionMismatch, role, len(v), len(t.Catalog))
		}
	}
	return nil
}

// IdealFor returns the ideal vector for role, falling back to the default role.
func (t *Tables) IdealFor(role string) Vector {
	if v, ok := t.Ideals[role]; ok {
		return v
	}
	return t.Ideals[t.DefaultRole]
}

// HasRole reports whether role has a curated ideal vector.
func (t *Tables) HasRole(role string) bool {
	_, ok := t.Ideals[role]
	return ok
}

// DescriptionFor returns the role description or a placeholder sentence.
func (t *Tables) DescriptionFor(role string) string {
	if d, ok := t.Descriptions[role]; ok && d != "" {
		return d
	}
	return fmt.Sprintf("A detailed description for the role: %s is not yet available in our database.", role)
}

// ClassLabel decodes a label-encoder index into a role name.
func (t *Tables) ClassLabel(index int) (string, error) {
	if index < 0 || index >= len(t.Classes) {
		return "", fmt.Errorf("class index %d out of range [0,%d)", index, len(t.Classes))
	}
	return t.Classes[index], nil
}

// Encode is a convenience wrapper over the package-level Encode.
func (t *Tables) Encode(ratings map[string]string) Vector {
	return Encode(ratings, t.Catalog, t.Scale)
}

// Roadmap builds the roadmap of user against the ideal vector for role.
func (t *Tables) Roadmap(user Vector, role string) (Roadmap, error) {
	return GenerateRoadmap(user, t.IdealFor(role), t.Catalog)
}
