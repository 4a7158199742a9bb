package blockdef

import (
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

// Toolbox is the palette description an editor offers its user: named
// categories of block types, possibly nested
type Toolbox struct {
	Categories []*Category `yaml:"categories"`
}

// Category is one toolbox group
type Category struct {
	Name       string      `yaml:"name"`
	Colour     string      `yaml:"colour,omitempty"`
	Blocks     []string    `yaml:"blocks,omitempty"`
	Categories []*Category `yaml:"categories,omitempty"`
}

// ParseToolbox parses a YAML toolbox document
func ParseToolbox(data []byte) (*Toolbox, error) {
	var tb Toolbox
	if err := yaml.Unmarshal(data, &tb); err != nil {
		return nil, fmt.Errorf("blockdef: parse toolbox: %w", err)
	}
	if err := tb.validateShape(); err != nil {
		return nil, err
	}
	return &tb, nil
}

func (t *Toolbox) validateShape() error {
	var errs []string
	var walk func(cats []*Category, path string)
	walk = func(cats []*Category, path string) {
		for i, cat := range cats {
			where := fmt.Sprintf("%scategories[%d]", path, i)
			if cat.Name == "" {
				errs = append(errs, where+": missing name")
				continue
			}
			walk(cat.Categories, where+".")
		}
	}
	walk(t.Categories, "")
	if len(errs) > 0 {
		return fmt.Errorf("blockdef: invalid toolbox: %s", strings.Join(errs, "; "))
	}
	return nil
}

// Validate checks that every block type the toolbox references is registered
func (t *Toolbox) Validate(reg *Registry) error {
	var errs []string
	var walk func(cats []*Category)
	walk = func(cats []*Category) {
		for _, cat := range cats {
			for _, bt := range cat.Blocks {
				if !reg.Has(bt) {
					errs = append(errs, fmt.Sprintf("category %s: unknown block type: %s", cat.Name, bt))
				}
			}
			walk(cat.Categories)
		}
	}
	walk(t.Categories)
	if len(errs) > 0 {
		return fmt.Errorf("blockdef: invalid toolbox: %s", strings.Join(errs, "; "))
	}
	return nil
}

// BlockTypes returns every block type the toolbox references, deduplicated,
// in document order
func (t *Toolbox) BlockTypes() []string {
	seen := make(map[string]bool)
	var out []string
	var walk func(cats []*Category)
	walk = func(cats []*Category) {
		for _, cat := range cats {
			for _, bt := range cat.Blocks {
				if !seen[bt] {
					seen[bt] = true
					out = append(out, bt)
				}
			}
			walk(cat.Categories)
		}
	}
	walk(t.Categories)
	return out
}
