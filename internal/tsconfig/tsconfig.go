// SPDX-License-Identifier: MPL-2.0

// Package tsconfig reads the optional tsconfig.json from a project directory.
//
// The file is an externally defined format owned by the TypeScript toolchain.
// Only the handful of fields the build actually consults are modeled as struct
// fields; everything else is retained in Raw so nothing is lost when the file
// is handed back to external tools.
package tsconfig

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"cmplr-cli/internal/fsx"
)

// FileName is the conventional name of the TypeScript project config.
const FileName = "tsconfig.json"

type (
	// TSConfig is a sparse view of a tsconfig.json file.
	TSConfig struct {
		CompilerOptions CompilerOptions `json:"compilerOptions"`
		Exclude         []string        `json:"exclude"`

		// Raw holds the full decoded document for fields not modeled above.
		Raw map[string]any `json:"-"`
	}

	// CompilerOptions models only the compilerOptions keys the build reads.
	CompilerOptions struct {
		RootDir                string `json:"rootDir"`
		Target                 string `json:"target"`
		JSX                    string `json:"jsx"`
		ExperimentalDecorators bool   `json:"experimentalDecorators"`
	}
)

// Load reads tsconfig.json from dir. A missing file is not an error: both
// return values are nil. A present but unparsable file returns an error that
// callers are expected to downgrade to a warning.
func Load(dir string) (*TSConfig, error) {
	path := filepath.Join(dir, FileName)
	if !fsx.FileExists(path) {
		return nil, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}

	var cfg TSConfig
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	if err := json.Unmarshal(data, &cfg.Raw); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}

	return &cfg, nil
}
