package datastore

import (
	"cmp"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"slices"

	"searchgraph/internal/rollover"

	"github.com/bmatcuk/doublestar/v4"
)

const catalogVersion = 1

// envelope is the versioned on-disk format of the index catalog.
type envelope struct {
	Version int               `json:"version"`
	Indices []IndexDefinition `json:"indices"`
}

// RolloverDefinition is the catalog form of a rollover group's partitioning.
type RolloverDefinition struct {
	Frequency     rollover.Frequency `json:"frequency"`
	TimestampPath string             `json:"timestamp_path"`
}

// IndexDefinition is one catalog entry: a plain index, or a rollover group
// when Rollover is set.
type IndexDefinition struct {
	Name             string              `json:"name"`
	SearchExpression string              `json:"search_expression,omitempty"`
	Rollover         *RolloverDefinition `json:"rollover,omitempty"`
}

// Catalog is a validated set of index definitions, ordered by name.
type Catalog struct {
	definitions []IndexDefinition
}

// NewCatalog validates the definitions and returns a Catalog.
func NewCatalog(definitions []IndexDefinition) (*Catalog, error) {
	seen := make(map[string]bool, len(definitions))
	for _, def := range definitions {
		if def.Name == "" {
			return nil, fmt.Errorf("index definition without a name")
		}
		if seen[def.Name] {
			return nil, fmt.Errorf("duplicate index definition %q", def.Name)
		}
		seen[def.Name] = true

		if def.SearchExpression != "" {
			if !doublestar.ValidatePattern(def.SearchExpression) {
				return nil, fmt.Errorf("index %q: invalid search expression %q", def.Name, def.SearchExpression)
			}
		}
		if def.Rollover != nil {
			if def.SearchExpression == "" {
				return nil, fmt.Errorf("index %q: rollover group without a wildcard search expression", def.Name)
			}
			if !def.Rollover.Frequency.Valid() {
				return nil, fmt.Errorf("index %q: unknown rollover frequency %q", def.Name, def.Rollover.Frequency)
			}
			if def.Rollover.TimestampPath == "" {
				return nil, fmt.Errorf("index %q: rollover without a timestamp path", def.Name)
			}
		}
	}

	defs := slices.Clone(definitions)
	slices.SortFunc(defs, func(a, b IndexDefinition) int {
		return cmp.Compare(a.Name, b.Name)
	})
	return &Catalog{definitions: defs}, nil
}

// Definitions returns the catalog entries in name order.
func (c *Catalog) Definitions() []IndexDefinition {
	return slices.Clone(c.definitions)
}

// index builds the rollover.Index for one definition with no known
// sub-indices; a snapshot fills those in per query.
func (d IndexDefinition) index() rollover.Index {
	idx := rollover.Index{Name: d.Name, SearchExpression: d.SearchExpression}
	if d.Rollover != nil {
		idx.Rollover = &rollover.Rollover{
			Frequency:     d.Rollover.Frequency,
			TimestampPath: d.Rollover.TimestampPath,
		}
	}
	return idx
}

// LoadCatalog reads a catalog file. A missing file is an empty catalog,
// matching how a fresh deployment starts.
func LoadCatalog(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return NewCatalog(nil)
		}
		return nil, fmt.Errorf("read catalog file: %w", err)
	}

	var env envelope
	if err := json.Unmarshal(data, &env); err != nil {
		return nil, fmt.Errorf("parse catalog file: %w", err)
	}
	if env.Version == 0 {
		return nil, fmt.Errorf("unversioned catalog file %s", path)
	}
	if env.Version > catalogVersion {
		return nil, fmt.Errorf("catalog file version %d is newer than supported version %d", env.Version, catalogVersion)
	}
	return NewCatalog(env.Indices)
}

// SaveCatalog atomically writes a catalog file via temp file and rename,
// with round-trip validation before the rename.
func SaveCatalog(path string, catalog *Catalog) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("create catalog directory: %w", err)
	}

	env := envelope{Version: catalogVersion, Indices: catalog.definitions}
	data, err := json.MarshalIndent(env, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal catalog: %w", err)
	}

	tmpPath := path + ".tmp"
	if err := os.WriteFile(tmpPath, data, 0644); err != nil {
		return fmt.Errorf("write temp file: %w", err)
	}
	var verify envelope
	if err := json.Unmarshal(data, &verify); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("round-trip validation failed: %w", err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("rename catalog file: %w", err)
	}
	return nil
}
