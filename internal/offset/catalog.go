// Package offset prices carbon offset purchases against a catalog of
// offset projects.
package offset

import (
	"errors"
	"fmt"
	"os"
	"slices"
	"strings"

	"gopkg.in/yaml.v3"
)

// Project types found in the default catalog.
const (
	TypeNatureBased      = "Nature-based"
	TypeRenewableEnergy  = "Renewable Energy"
	TypeEnergyEfficiency = "Energy Efficiency"
	TypeTechnology       = "Technology"
)

// Catalog errors.
var (
	ErrUnknownProject = errors.New("unknown offset project")
	ErrNoProjects     = errors.New("no offset projects selected")
	ErrInvalidProject = errors.New("invalid offset project")
)

// Project is one purchasable offset project.
type Project struct {
	Name          string  `json:"name"            yaml:"name"`
	Type          string  `json:"type"            yaml:"type"`
	PricePerTonne float64 `json:"price_per_tonne" yaml:"price_per_tonne"`
	Location      string  `json:"location"        yaml:"location"`
	Certification string  `json:"certification"   yaml:"certification"`
}

// Catalog is an ordered, read-only list of projects.
type Catalog struct {
	projects []Project
}

// DefaultCatalog returns the built-in project list.
func DefaultCatalog() *Catalog {
	return &Catalog{projects: []Project{
		{"Reforestation - Amazon", TypeNatureBased, 15, "Brazil", "VCS"},
		{"Wind Power - India", TypeRenewableEnergy, 8, "India", "Gold Standard"},
		{"Solar Farm - Kenya", TypeRenewableEnergy, 12, "Kenya", "Gold Standard"},
		{"Cookstoves - Uganda", TypeEnergyEfficiency, 10, "Uganda", "VCS + CCB"},
		{"Blue Carbon - Indonesia", TypeNatureBased, 25, "Indonesia", "VCS + CCB"},
		{"Direct Air Capture", TypeTechnology, 600, "Iceland", "CDR.fyi"},
		{"Biochar - USA", TypeTechnology, 150, "United States", "Puro.earth"},
		{"Ocean Alkalinity", TypeTechnology, 200, "Norway", "CDR.fyi"},
	}}
}

// NewCatalog validates projects and builds a catalog. Names must be unique
// (case-insensitively) and prices non-negative.
func NewCatalog(projects []Project) (*Catalog, error) {
	seen := make(map[string]bool, len(projects))
	for _, p := range projects {
		key := strings.ToLower(strings.TrimSpace(p.Name))
		switch {
		case key == "":
			return nil, fmt.Errorf("%w: empty name", ErrInvalidProject)
		case seen[key]:
			return nil, fmt.Errorf("%w: duplicate name %q", ErrInvalidProject, p.Name)
		case p.PricePerTonne < 0:
			return nil, fmt.Errorf("%w: %q has negative price", ErrInvalidProject, p.Name)
		}
		seen[key] = true
	}
	return &Catalog{projects: slices.Clone(projects)}, nil
}

// catalogFile is the YAML layout of a custom catalog.
type catalogFile struct {
	Projects []Project `yaml:"projects"`
}

// LoadCatalog reads a YAML catalog of the form {projects: [...]}.
func LoadCatalog(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading catalog %s: %w", path, err)
	}
	var f catalogFile
	if err = yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parsing catalog %s: %w", path, err)
	}
	c, err := NewCatalog(f.Projects)
	if err != nil {
		return nil, fmt.Errorf("catalog %s: %w", path, err)
	}
	return c, nil
}

// Projects returns a copy of the catalog in order.
func (c *Catalog) Projects() []Project {
	return slices.Clone(c.projects)
}

// Find looks a project up by name, case-insensitively.
func (c *Catalog) Find(name string) (Project, bool) {
	key := strings.ToLower(strings.TrimSpace(name))
	for _, p := range c.projects {
		if strings.ToLower(p.Name) == key {
			return p, true
		}
	}
	return Project{}, false
}

// Filter returns the projects of the given type. An empty type returns all.
func (c *Catalog) Filter(projectType string) []Project {
	if projectType == "" {
		return c.Projects()
	}
	var out []Project
	for _, p := range c.projects {
		if strings.EqualFold(p.Type, projectType) {
			out = append(out, p)
		}
	}
	return out
}

// Types lists the distinct project types in catalog order.
func (c *Catalog) Types() []string {
	var types []string
	for _, p := range c.projects {
		if !slices.Contains(types, p.Type) {
			types = append(types, p.Type)
		}
	}
	return types
}

// Select resolves names to projects. Duplicates collapse and the result is
// in catalog order, so the same selection always prices the same way.
func (c *Catalog) Select(names []string) ([]Project, error) {
	if len(names) == 0 {
		return nil, ErrNoProjects
	}

	chosen := make(map[string]bool, len(names))
	for _, n := range names {
		p, ok := c.Find(n)
		if !ok {
			return nil, fmt.Errorf("%w: %q", ErrUnknownProject, n)
		}
		chosen[p.Name] = true
	}

	out := make([]Project, 0, len(chosen))
	for _, p := range c.projects {
		if chosen[p.Name] {
			out = append(out, p)
		}
	}
	return out, nil
}
