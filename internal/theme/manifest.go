// Package theme loads the theme manifest that declares the public-page
// categories statuses can be mapped onto.
package theme

import (
	"errors"
	"fmt"
	"os"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

// Category is a semantic bucket on the public page (e.g., "Upcoming releases")
type Category struct {
	ID          string `yaml:"id" json:"id"`
	Label       string `yaml:"label" json:"label"`
	Description string `yaml:"description" json:"description"`
	Order       int    `yaml:"order" json:"order"`
	Multiple    bool   `yaml:"multiple" json:"multiple"` // false = at most one status
}

// Manifest is the theme metadata relevant to the workflow
type Manifest struct {
	Name       string     `yaml:"name" json:"name"`
	Version    string     `yaml:"version" json:"version,omitempty"`
	Categories []Category `yaml:"categories" json:"categories"`

	index map[string]int
}

var (
	ErrEmptyCategoryID     = errors.New("category id cannot be empty")
	ErrDuplicateCategoryID = errors.New("duplicate category id")
)

// Load reads and validates a manifest file
func Load(path string) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read manifest: %w", err)
	}
	m, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("manifest %s: %w", path, err)
	}
	return m, nil
}

// Parse decodes a YAML manifest
func Parse(data []byte) (*Manifest, error) {
	var m Manifest
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("failed to parse manifest: %w", err)
	}
	if err := m.normalize(); err != nil {
		return nil, err
	}
	return &m, nil
}

// New builds a manifest from categories, validating them the same way Parse does
func New(name string, categories ...Category) (*Manifest, error) {
	m := &Manifest{Name: name, Categories: categories}
	if err := m.normalize(); err != nil {
		return nil, err
	}
	return m, nil
}

func (m *Manifest) normalize() error {
	m.index = make(map[string]int, len(m.Categories))
	for i := range m.Categories {
		c := &m.Categories[i]
		c.ID = strings.TrimSpace(c.ID)
		if c.ID == "" {
			return ErrEmptyCategoryID
		}
		if _, dup := m.index[c.ID]; dup {
			return fmt.Errorf("%w: %s", ErrDuplicateCategoryID, c.ID)
		}
		if c.Label == "" {
			c.Label = c.ID
		}
		m.index[c.ID] = i
	}

	sort.SliceStable(m.Categories, func(i, j int) bool {
		if m.Categories[i].Order != m.Categories[j].Order {
			return m.Categories[i].Order < m.Categories[j].Order
		}
		return m.Categories[i].ID < m.Categories[j].ID
	})
	for i, c := range m.Categories {
		m.index[c.ID] = i
	}
	return nil
}

// Category looks up a category by id
func (m *Manifest) Category(id string) (Category, bool) {
	if m == nil {
		return Category{}, false
	}
	i, ok := m.index[id]
	if !ok {
		return Category{}, false
	}
	return m.Categories[i], true
}
