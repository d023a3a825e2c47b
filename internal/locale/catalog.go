// Package locale holds the UI strings of the bundled languages.
package locale

import (
	_ "embed"
	"fmt"

	"remindbot/internal/domain"

	"gopkg.in/yaml.v3"
)

//go:embed translations.yaml
var translations []byte

// Catalog is a read-only string table keyed by language and copy key.
// It is built once at startup and never mutated afterwards.
type Catalog struct {
	table map[domain.Language]map[string]string
}

// Load parses the embedded translations
func Load() (*Catalog, error) {
	return Parse(translations)
}

// Parse builds a catalog from YAML of the form {LANG: {key: text}}
func Parse(data []byte) (*Catalog, error) {
	var table map[domain.Language]map[string]string
	if err := yaml.Unmarshal(data, &table); err != nil {
		return nil, fmt.Errorf("failed to parse translations: %w", err)
	}
	return New(table), nil
}

// New wraps a prepared table, mostly for tests
func New(table map[domain.Language]map[string]string) *Catalog {
	if table == nil {
		table = map[domain.Language]map[string]string{}
	}
	return &Catalog{table: table}
}

// T returns the text for key in lang, or key itself when either is missing
func (c *Catalog) T(lang domain.Language, key string) string {
	if c == nil {
		return key
	}
	if texts, ok := c.table[lang]; ok {
		if s, ok := texts[key]; ok {
			return s
		}
	}
	return key
}

// F formats the text for key with args. A missing key is returned as is.
func (c *Catalog) F(lang domain.Language, key string, args ...any) string {
	format := c.T(lang, key)
	if format == key {
		return key
	}
	return fmt.Sprintf(format, args...)
}
