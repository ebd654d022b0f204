// Package tomlkeys reads TOML documents as flat dotted keys so table and
// dotted-key spellings of the same setting are interchangeable.
package tomlkeys

import (
	"sort"
	"strings"

	"github.com/BurntSushi/toml"
)

type Store struct {
	raw  map[string]any
	flat map[string]any
}

func Decode(data []byte) (Store, error) {
	raw := map[string]any{}
	if _, err := toml.Decode(string(data), &raw); err != nil {
		return Store{}, err
	}
	return FromRaw(raw), nil
}

func FromRaw(raw map[string]any) Store {
	flat := make(map[string]any)
	flattenMap("", raw, flat)

	// Sorted so that colliding spellings resolve the same way every time.
	keys := make([]string, 0, len(flat))
	for key := range flat {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	normalized := make(map[string]any, len(flat))
	for _, key := range keys {
		normalizedKey := NormalizeKey(key)
		if _, exists := normalized[normalizedKey]; exists {
			continue
		}
		normalized[normalizedKey] = flat[key]
	}
	return Store{raw: raw, flat: normalized}
}

// Tables returns the sub-tables of the table at key, with their names
// exactly as written.
func (s Store) Tables(key string) map[string]Store {
	table, ok := s.raw[key].(map[string]any)
	if !ok {
		return nil
	}
	tables := make(map[string]Store, len(table))
	for name, value := range table {
		if sub, ok := value.(map[string]any); ok {
			tables[name] = FromRaw(sub)
		}
	}
	return tables
}

func (s Store) Has(key string) bool {
	_, ok := s.flat[NormalizeKey(key)]
	return ok
}

func (s Store) GetBool(key string) (bool, bool) {
	value, ok := s.flat[NormalizeKey(key)].(bool)
	return value, ok
}

func (s Store) GetString(key string) (string, bool) {
	value, ok := s.flat[NormalizeKey(key)].(string)
	return value, ok
}

func NormalizeKey(key string) string {
	key = strings.TrimSpace(key)
	if key == "" {
		return ""
	}
	parts := strings.Split(key, ".")
	for i, part := range parts {
		parts[i] = strings.ReplaceAll(strings.ToLower(part), "_", "-")
	}
	return strings.Join(parts, ".")
}

func flattenMap(prefix string, raw map[string]any, out map[string]any) {
	for key, value := range raw {
		full := key
		if prefix != "" {
			full = prefix + "." + key
		}
		if table, ok := value.(map[string]any); ok {
			flattenMap(full, table, out)
			continue
		}
		out[full] = value
	}
}
