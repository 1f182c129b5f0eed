// Package catalog loads the carrier rules and status taxonomy from YAML.
package catalog

import (
	_ "embed"
	"fmt"
	"os"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/rawbytes"
	"github.com/knadh/koanf/v2"

	"github.com/99minutos/tracking-system/internal/core/carrier"
	"github.com/99minutos/tracking-system/internal/core/domain"
	"github.com/99minutos/tracking-system/internal/core/status"
)

//go:embed catalog.yaml
var defaultCatalog []byte

// CarrierEntry is one carrier format.
type CarrierEntry struct {
	ID      string `koanf:"id"`
	Name    string `koanf:"name"`
	Scope   string `koanf:"scope"`
	Prefix  string `koanf:"prefix"`
	Charset string `koanf:"charset"`
	MinLen  int    `koanf:"min_len"`
	MaxLen  int    `koanf:"max_len"`
}

// StatusEntry is one canonical status.
type StatusEntry struct {
	Code        string `koanf:"code"`
	Description string `koanf:"description"`
	Category    string `koanf:"category"`
}

// Catalog is the decoded document.
type Catalog struct {
	Carriers []CarrierEntry               `koanf:"carriers"`
	Statuses []StatusEntry                `koanf:"statuses"`
	Aliases  map[string]map[string]string `koanf:"aliases"`
}

// Loaded is a validated catalog ready to serve.
type Loaded struct {
	Registry *carrier.Registry
	Table    *status.Table
}

// Default loads the embedded catalog.
func Default() (*Loaded, error) {
	return Parse(defaultCatalog)
}

// Load reads the catalog at path, or the embedded one when path is empty.
func Load(path string) (*Loaded, error) {
	if path == "" {
		return Default()
	}
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read catalog %s: %w", path, err)
	}
	return Parse(content)
}

// Parse decodes and validates a YAML catalog. Overlapping carrier rules,
// unknown categories and aliases to missing codes are rejected.
func Parse(content []byte) (*Loaded, error) {
	k := koanf.New(".")
	if err := k.Load(rawbytes.Provider(content), yaml.Parser()); err != nil {
		return nil, fmt.Errorf("parse catalog: %w", err)
	}

	var c Catalog
	if err := k.UnmarshalWithConf("", &c, koanf.UnmarshalConf{Tag: "koanf"}); err != nil {
		return nil, fmt.Errorf("decode catalog: %w", err)
	}
	return c.Build()
}

// Build validates the catalog and builds the registry and status table.
func (c Catalog) Build() (*Loaded, error) {
	if len(c.Carriers) == 0 {
		return nil, fmt.Errorf("%w: catalog declares no carriers", carrier.ErrInvalidRule)
	}

	rules := make([]carrier.Rule, 0, len(c.Carriers))
	for _, e := range c.Carriers {
		rules = append(rules, carrier.Rule{
			Carrier: domain.Carrier{ID: domain.CarrierID(e.ID), Name: e.Name, Scope: domain.Scope(e.Scope)},
			Prefix:  e.Prefix,
			Charset: carrier.Charset(e.Charset),
			MinLen:  e.MinLen,
			MaxLen:  e.MaxLen,
		})
	}
	registry, err := carrier.NewRegistry(rules...)
	if err != nil {
		return nil, err
	}

	statuses := make([]domain.CanonicalStatus, 0, len(c.Statuses))
	for _, e := range c.Statuses {
		statuses = append(statuses, domain.CanonicalStatus{
			Code:        e.Code,
			Description: e.Description,
			Category:    domain.Category(e.Category),
		})
	}
	aliases := make(map[domain.CarrierID]map[string]string, len(c.Aliases))
	for id, byCode := range c.Aliases {
		if _, ok := registry.Rule(domain.CarrierID(id)); !ok {
			return nil, fmt.Errorf("%w: aliases for undeclared carrier %s", status.ErrInvalidTable, id)
		}
		aliases[domain.CarrierID(id)] = byCode
	}
	table, err := status.NewTable(statuses, aliases)
	if err != nil {
		return nil, err
	}

	return &Loaded{Registry: registry, Table: table}, nil
}
