package provider

import (
	_ "embed"
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

//go:embed catalog.yml
var builtinCatalogYAML []byte

// Catalog is the read-only list of built-in providers.
type Catalog struct {
	providers []Provider
	index     map[string]int
}

type catalogDocument struct {
	Providers []Provider `yaml:"providers"`
}

// LoadCatalog parses a catalog document. Every entry is marked Builtin.
func LoadCatalog(data []byte) (*Catalog, error) {
	var doc catalogDocument
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parse provider catalog: %w", err)
	}

	catalog := &Catalog{
		providers: make([]Provider, 0, len(doc.Providers)),
		index:     make(map[string]int, len(doc.Providers)),
	}
	for idx, entry := range doc.Providers {
		id := strings.TrimSpace(entry.ID)
		if id == "" {
			return nil, fmt.Errorf("providers[%d]: id is required", idx)
		}
		if _, exists := catalog.index[id]; exists {
			return nil, fmt.Errorf("providers[%d]: duplicate id %q", idx, id)
		}
		entry.ID = id
		entry.Name = strings.TrimSpace(entry.Name)
		if entry.Name == "" {
			entry.Name = id
		}
		entry.Builtin = true
		entry.CreatedAt = nil
		catalog.index[id] = len(catalog.providers)
		catalog.providers = append(catalog.providers, entry)
	}
	return catalog, nil
}

// MustLoadCatalog returns the catalog compiled into the binary.
func MustLoadCatalog() *Catalog {
	catalog, err := LoadCatalog(builtinCatalogYAML)
	if err != nil {
		panic(err)
	}
	return catalog
}

// Providers returns copies of the built-in providers in declaration order.
func (c *Catalog) Providers() []Provider {
	out := make([]Provider, len(c.providers))
	for i, p := range c.providers {
		out[i] = p.Clone()
	}
	return out
}

func (c *Catalog) Lookup(id string) (Provider, bool) {
	idx, ok := c.index[id]
	if !ok {
		return Provider{}, false
	}
	return c.providers[idx].Clone(), true
}

func (c *Catalog) Contains(id string) bool {
	_, ok := c.index[id]
	return ok
}

func (c *Catalog) Len() int {
	return len(c.providers)
}
