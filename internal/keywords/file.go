package keywords

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// fileFormat is the on-disk YAML shape of a keyword table.
type fileFormat struct {
	Categories     []Rule   `yaml:"categories"`
	ExpenseMarkers []string `yaml:"expenseMarkers"`
}

// Load reads a keyword table from a YAML file. A missing file is not an
// error: the built-in defaults are returned so a fresh install works
// without any setup.
func Load(path string) (*Table, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return Default(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading keywords file: %w", err)
	}

	var f fileFormat
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parsing keywords file: %w", err)
	}

	for _, rule := range f.Categories {
		if !rule.Category.Valid() {
			return nil, fmt.Errorf("unknown category %q in keywords file", rule.Category)
		}
	}

	return NewTable(f.Categories, f.ExpenseMarkers), nil
}

// Save writes the table to a YAML file, creating parent directories.
func (t *Table) Save(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating keywords dir: %w", err)
	}

	data, err := yaml.Marshal(fileFormat{
		Categories:     t.rules,
		ExpenseMarkers: t.markers,
	})
	if err != nil {
		return fmt.Errorf("encoding keywords file: %w", err)
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing keywords file: %w", err)
	}
	return nil
}
