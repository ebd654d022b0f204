package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"sort"
	"strings"

	"mfek/internal/config/tomlkeys"
)

var (
	ErrManifestMissing = errors.New("config: module manifest not found")
	ErrManifestInvalid = errors.New("config: module manifest invalid")
)

// DefaultManifestName is looked up in the working directory when no
// manifest path is given.
const DefaultManifestName = "mfek-modules.toml"

// Requirement is one companion module a program expects to find.
type Requirement struct {
	Name     string `json:"name" yaml:"name"`
	Version  string `json:"version" yaml:"version"`
	Required bool   `json:"required" yaml:"required"`
}

// Manifest lists requirements sorted by module name.
type Manifest struct {
	Modules []Requirement `json:"modules" yaml:"modules"`
}

func LoadManifest(path string) (Manifest, error) {
	if strings.TrimSpace(path) == "" {
		path = DefaultManifestName
	}
	payload, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return Manifest{}, fmt.Errorf("%w: %s", ErrManifestMissing, path)
		}
		return Manifest{}, fmt.Errorf("config: read manifest: %w", err)
	}
	manifest, err := ParseManifest(payload)
	if err != nil {
		return Manifest{}, fmt.Errorf("%s: %w", path, err)
	}
	return manifest, nil
}

// ParseManifest decodes [modules.<name>] tables. version is mandatory;
// required defaults to true.
func ParseManifest(payload []byte) (Manifest, error) {
	store, err := tomlkeys.Decode(payload)
	if err != nil {
		return Manifest{}, fmt.Errorf("%w: %v", ErrManifestInvalid, err)
	}
	tables := store.Tables("modules")
	manifest := Manifest{Modules: make([]Requirement, 0, len(tables))}
	for name, table := range tables {
		if strings.TrimSpace(name) == "" {
			return Manifest{}, fmt.Errorf("%w: empty module name", ErrManifestInvalid)
		}
		version, ok := table.GetString("version")
		if !ok || strings.TrimSpace(version) == "" {
			return Manifest{}, fmt.Errorf("%w: module %q has no version", ErrManifestInvalid, name)
		}
		required := true
		if table.Has("required") {
			value, ok := table.GetBool("required")
			if !ok {
				return Manifest{}, fmt.Errorf("%w: module %q: required must be a boolean", ErrManifestInvalid, name)
			}
			required = value
		}
		manifest.Modules = append(manifest.Modules, Requirement{
			Name:     name,
			Version:  strings.TrimSpace(version),
			Required: required,
		})
	}
	sort.Slice(manifest.Modules, func(i, j int) bool {
		return manifest.Modules[i].Name < manifest.Modules[j].Name
	})
	return manifest, nil
}
