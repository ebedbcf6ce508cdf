// SPDX-License-Identifier: MPL-2.0

// Package manifest reads and rewrites package.json. The document is kept as a
// generic map so every field the build does not touch survives verbatim.
package manifest

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"cmplr-cli/internal/fsx"
)

// FileName is the npm package manifest name.
const FileName = "package.json"

// Manifest is an in-memory package.json document bound to its on-disk path.
type Manifest struct {
	// Path is the absolute or relative location of the manifest file.
	Path string

	data map[string]any
}

// Load reads the manifest from dir. A missing manifest is not an error: both
// return values are nil, and callers decide whether that deserves a warning.
func Load(dir string) (*Manifest, error) {
	path := filepath.Join(dir, FileName)
	if !fsx.FileExists(path) {
		return nil, nil
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}

	var data map[string]any
	if err := json.Unmarshal(raw, &data); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}

	return &Manifest{Path: path, data: data}, nil
}

// Create builds a fresh in-memory manifest for a new package. Nothing is
// written until Save is called.
func Create(dir, name string) *Manifest {
	return &Manifest{
		Path: filepath.Join(dir, FileName),
		data: map[string]any{
			"name":    name,
			"version": "0.1.0",
			"scripts": map[string]any{},
		},
	}
}

// Save writes the manifest back to disk with two-space indentation and a
// trailing newline, matching npm's own formatting.
func (m *Manifest) Save() error {
	raw, err := json.MarshalIndent(m.data, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode %s: %w", m.Path, err)
	}
	raw = append(raw, '\n')
	if err := os.WriteFile(m.Path, raw, 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", m.Path, err)
	}
	return nil
}

// Get returns a top-level field value.
func (m *Manifest) Get(key string) (any, bool) {
	v, ok := m.data[key]
	return v, ok
}

// Name returns the package name, or "" when absent.
func (m *Manifest) Name() string {
	name, _ := m.data["name"].(string)
	return name
}

// Dependency looks up a package in dependencies and devDependencies and
// returns its version constraint.
func (m *Manifest) Dependency(pkg string) (string, bool) {
	for _, field := range []string{"dependencies", "devDependencies"} {
		deps, ok := m.data[field].(map[string]any)
		if !ok {
			continue
		}
		if constraint, ok := deps[pkg].(string); ok {
			return constraint, true
		}
	}
	return "", false
}

// SetScript adds or overwrites one entry of the scripts table, creating the
// table if absent. No other script entries are touched.
func (m *Manifest) SetScript(name, command string) {
	scripts, ok := m.data["scripts"].(map[string]any)
	if !ok {
		scripts = map[string]any{}
		m.data["scripts"] = scripts
	}
	scripts[name] = command
}
