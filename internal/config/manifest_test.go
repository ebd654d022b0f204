package config

import (
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"testing"
)

func TestLoadManifest(t *testing.T) {
	path := filepath.Join(t.TempDir(), DefaultManifestName)
	payload := `[modules.metadata]
version = "0.1.0"

[modules.glif]
version = " 1.0.0 "
required = false

[modules.pathops]
version = "0.2.0"
required = true
`
	if err := os.WriteFile(path, []byte(payload), 0o644); err != nil {
		t.Fatalf("write manifest: %v", err)
	}

	manifest, err := LoadManifest(path)
	if err != nil {
		t.Fatalf("load manifest: %v", err)
	}
	want := []Requirement{
		{Name: "glif", Version: "1.0.0", Required: false},
		{Name: "metadata", Version: "0.1.0", Required: true},
		{Name: "pathops", Version: "0.2.0", Required: true},
	}
	if !reflect.DeepEqual(manifest.Modules, want) {
		t.Fatalf("expected %+v, got %+v", want, manifest.Modules)
	}
}

func TestLoadManifestMissing(t *testing.T) {
	_, err := LoadManifest(filepath.Join(t.TempDir(), "missing.toml"))
	if !errors.Is(err, ErrManifestMissing) {
		t.Fatalf("expected ErrManifestMissing, got %v", err)
	}
}

func TestParseManifestInvalid(t *testing.T) {
	cases := map[string]string{
		"syntax":          "[modules.metadata\n",
		"no version":      "[modules.metadata]\nrequired = true\n",
		"blank version":   "[modules.metadata]\nversion = \"  \"\n",
		"numeric version": "[modules.metadata]\nversion = 1\n",
		"required string": "[modules.metadata]\nversion = \"1\"\nrequired = \"yes\"\n",
	}
	for name, payload := range cases {
		t.Run(name, func(t *testing.T) {
			if _, err := ParseManifest([]byte(payload)); !errors.Is(err, ErrManifestInvalid) {
				t.Fatalf("expected ErrManifestInvalid, got %v", err)
			}
		})
	}
}

func TestParseManifestEmpty(t *testing.T) {
	manifest, err := ParseManifest(nil)
	if err != nil {
		t.Fatalf("parse manifest: %v", err)
	}
	if len(manifest.Modules) != 0 {
		t.Fatalf("expected no modules, got %d", len(manifest.Modules))
	}
}
