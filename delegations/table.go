package delegations

import (
	_ "embed"
	"fmt"
	"os"

	"github.com/goccy/go-yaml"
)

// Table is a versioned many-to-one mapping from delegation name
// variants to canonical names. Tables are plain data, injected into the
// harmonizer rather than held as process-wide state, so tests can run
// the same pipeline against multiple table versions.
type Table struct {
	Version     int     `yaml:"version"`
	Delegations []Entry `yaml:"delegations"`
}

// Entry maps one canonical delegation name to its known variants:
// translations, historical names and recurring typos.
type Entry struct {
	Canonical string   `yaml:"canonical"`
	Variants  []string `yaml:"variants"`
}

//go:embed default_table.yaml
var defaultTableYAML []byte

// DefaultTable returns the built-in variant table covering the
// delegations seen across the roster corpus.
func DefaultTable() (Table, error) {
	return parseTable(defaultTableYAML)
}

// LoadTable reads a variant table from a YAML file.
func LoadTable(path string) (Table, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Table{}, fmt.Errorf("failed to read delegation table %s: %w", path, err)
	}
	return parseTable(data)
}

// Merge overlays other onto t: entries for an existing canonical name
// gain the extra variants, new canonical names are appended. The result
// carries the higher version number.
func (t Table) Merge(other Table) Table {
	merged := Table{Version: t.Version}
	if other.Version > merged.Version {
		merged.Version = other.Version
	}

	index := make(map[string]int)
	for _, e := range t.Delegations {
		index[e.Canonical] = len(merged.Delegations)
		merged.Delegations = append(merged.Delegations, Entry{
			Canonical: e.Canonical,
			Variants:  append([]string(nil), e.Variants...),
		})
	}

	for _, e := range other.Delegations {
		if i, ok := index[e.Canonical]; ok {
			merged.Delegations[i].Variants = append(merged.Delegations[i].Variants, e.Variants...)
			continue
		}
		index[e.Canonical] = len(merged.Delegations)
		merged.Delegations = append(merged.Delegations, Entry{
			Canonical: e.Canonical,
			Variants:  append([]string(nil), e.Variants...),
		})
	}

	return merged
}

func parseTable(data []byte) (Table, error) {
	var t Table
	if err := yaml.Unmarshal(data, &t); err != nil {
		return Table{}, fmt.Errorf("failed to parse delegation table: %w", err)
	}
	for i, e := range t.Delegations {
		if e.Canonical == "" {
			return Table{}, fmt.Errorf("delegation table entry %d has no canonical name", i)
		}
	}
	return t, nil
}
