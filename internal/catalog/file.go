package catalog

import (
	"bytes"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// LoadFile reads a YAML ship library and merges it over the defaults.
// Entries in the file replace built-in types of the same name.
func LoadFile(path string) (*Registry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read catalog %s: %w", path, err)
	}

	ships, err := Decode(data)
	if err != nil {
		return nil, fmt.Errorf("catalog %s: %w", path, err)
	}

	r := Defaults()
	for name, stats := range ships {
		if err := r.Register(name, stats); err != nil {
			return nil, fmt.Errorf("catalog %s: %w", path, err)
		}
	}
	return r, nil
}

// Decode parses a YAML document mapping ship type names to stat blocks.
func Decode(data []byte) (map[string]ShipTypeStats, error) {
	var ships map[string]ShipTypeStats
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&ships); err != nil {
		return nil, fmt.Errorf("decode yaml: %w", err)
	}
	for name, stats := range ships {
		if err := stats.Validate(); err != nil {
			return nil, fmt.Errorf("ship type %q: %w", name, err)
		}
	}
	return ships, nil
}

// Encode renders ship types as a YAML document.
func Encode(ships map[string]ShipTypeStats) ([]byte, error) {
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(ships); err != nil {
		return nil, fmt.Errorf("encode yaml: %w", err)
	}
	if err := enc.Close(); err != nil {
		return nil, fmt.Errorf("encode yaml: %w", err)
	}
	return buf.Bytes(), nil
}

// WriteFile saves ship types as a YAML library.
func WriteFile(path string, ships map[string]ShipTypeStats) error {
	data, err := Encode(ships)
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write catalog %s: %w", path, err)
	}
	return nil
}
