package classify

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/GriffinCanCode/AppShelf/internal/domain/metadata"
	"github.com/goccy/go-yaml"
	"github.com/pelletier/go-toml/v2"
)

// ErrUnsupportedFormat is returned for rule files that are neither YAML nor TOML.
var ErrUnsupportedFormat = errors.New("unsupported taxonomy format")

// Rule maps category identifiers containing any of Match to Category.
type Rule struct {
	Category string   `yaml:"category" toml:"category"`
	Match    []string `yaml:"match" toml:"match"`
}

// Taxonomy is an ordered rule list; the first matching rule wins.
type Taxonomy struct {
	Rules []Rule `yaml:"rules" toml:"rules"`
}

// DefaultTaxonomy maps the standard application category identifiers
// (public.app-category.*) onto the four built-in categories.
func DefaultTaxonomy() Taxonomy {
	return Taxonomy{Rules: []Rule{
		{Category: metadata.CategoryDevelopment, Match: []string{"developer"}},
		{Category: metadata.CategorySocial, Match: []string{"social", "networking"}},
		{Category: metadata.CategoryDesign, Match: []string{"graphics", "photography", "video"}},
		{Category: metadata.CategoryProductivity, Match: []string{"productivity", "business", "finance", "utilities"}},
	}}
}

// Classify returns the category for an embedded identifier, if any rule
// matches.
func (t Taxonomy) Classify(identifier string) (string, bool) {
	id := strings.ToLower(strings.TrimSpace(identifier))
	if id == "" {
		return "", false
	}
	for _, r := range t.Rules {
		for _, m := range r.Match {
			if m != "" && strings.Contains(id, strings.ToLower(m)) {
				return r.Category, true
			}
		}
	}
	return "", false
}

// Validate rejects rules without a category or without any match string.
func (t Taxonomy) Validate() error {
	if len(t.Rules) == 0 {
		return errors.New("taxonomy has no rules")
	}
	for i, r := range t.Rules {
		if strings.TrimSpace(r.Category) == "" {
			return fmt.Errorf("rule %d: category is required", i)
		}
		if len(r.Match) == 0 {
			return fmt.Errorf("rule %d (%s): at least one match string is required", i, r.Category)
		}
	}
	return nil
}

// LoadTaxonomy reads rules from a YAML (.yaml, .yml) or TOML (.toml) file.
func LoadTaxonomy(path string) (Taxonomy, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Taxonomy{}, fmt.Errorf("read taxonomy: %w", err)
	}

	var t Taxonomy
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, &t)
	case ".toml":
		err = toml.Unmarshal(data, &t)
	default:
		return Taxonomy{}, fmt.Errorf("%w: %s", ErrUnsupportedFormat, path)
	}
	if err != nil {
		return Taxonomy{}, fmt.Errorf("parse taxonomy %s: %w", path, err)
	}
	if err := t.Validate(); err != nil {
		return Taxonomy{}, fmt.Errorf("invalid taxonomy %s: %w", path, err)
	}
	return t, nil
}
