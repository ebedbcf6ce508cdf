// SPDX-License-Identifier: MPL-2.0

package tsconfig

import (
	"path/filepath"
	"testing"

	"cmplr-cli/internal/testutil"
)

func TestLoadMissingFile(t *testing.T) {
	cfg, err := Load(t.TempDir())
	if err != nil {
		t.Fatalf("Load on empty dir returned error: %v", err)
	}
	if cfg != nil {
		t.Errorf("Load on empty dir = %+v, want nil", cfg)
	}
}

func TestLoadSparseFields(t *testing.T) {
	dir := t.TempDir()
	testutil.MustWriteFile(t, filepath.Join(dir, FileName), `{
		"compilerOptions": {
			"rootDir": "source",
			"target": "ES2020",
			"jsx": "react-jsx",
			"experimentalDecorators": true,
			"strict": true
		},
		"exclude": ["dist", "node_modules"],
		"include": ["source"]
	}`)

	cfg, err := Load(dir)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}

	if cfg.CompilerOptions.RootDir != "source" {
		t.Errorf("RootDir = %q", cfg.CompilerOptions.RootDir)
	}
	if cfg.CompilerOptions.Target != "ES2020" {
		t.Errorf("Target = %q", cfg.CompilerOptions.Target)
	}
	if cfg.CompilerOptions.JSX != "react-jsx" {
		t.Errorf("JSX = %q", cfg.CompilerOptions.JSX)
	}
	if !cfg.CompilerOptions.ExperimentalDecorators {
		t.Error("ExperimentalDecorators = false, want true")
	}
	if len(cfg.Exclude) != 2 || cfg.Exclude[0] != "dist" {
		t.Errorf("Exclude = %v", cfg.Exclude)
	}

	// Unmodeled fields survive in Raw.
	if _, ok := cfg.Raw["include"]; !ok {
		t.Error("Raw should retain the include field")
	}
}

func TestLoadMalformedJSON(t *testing.T) {
	dir := t.TempDir()
	testutil.MustWriteFile(t, filepath.Join(dir, FileName), `{"compilerOptions": {,}}`)

	cfg, err := Load(dir)
	if err == nil {
		t.Fatal("Load on malformed JSON returned nil error")
	}
	if cfg != nil {
		t.Errorf("Load on malformed JSON = %+v, want nil config", cfg)
	}
}
