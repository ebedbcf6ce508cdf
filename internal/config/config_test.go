// SPDX-License-Identifier: MPL-2.0

package config

import (
	"path/filepath"
	"testing"

	"cmplr-cli/internal/testutil"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.OutDir != "dist" {
		t.Errorf("expected default out dir to be dist, got %s", cfg.OutDir)
	}
	if cfg.NoTypes {
		t.Error("expected no_types to be false by default")
	}
	if cfg.TypeCheck {
		t.Error("expected type_check to be false by default")
	}
	if cfg.Tools.Compiler != "npx swc" {
		t.Errorf("expected default compiler to be 'npx swc', got %s", cfg.Tools.Compiler)
	}
	if cfg.Tools.TypeChecker != "npx tsc" {
		t.Errorf("expected default type checker to be 'npx tsc', got %s", cfg.Tools.TypeChecker)
	}
	if cfg.Tools.Installer != "npm" {
		t.Errorf("expected default installer to be npm, got %s", cfg.Tools.Installer)
	}
}

func TestLoadWithoutConfigFile(t *testing.T) {
	restore := testutil.MustChdir(t, t.TempDir())
	defer restore()

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load without config file returned error: %v", err)
	}
	if cfg.OutDir != "dist" {
		t.Errorf("OutDir = %q, want default dist", cfg.OutDir)
	}
}

func TestLoadLocalConfigFile(t *testing.T) {
	dir := t.TempDir()
	testutil.MustWriteFile(t, filepath.Join(dir, "cmplr.toml"), `
out_dir = "build"
no_types = true

[tools]
compiler = "swc"
`)
	restore := testutil.MustChdir(t, dir)
	defer restore()

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}

	if cfg.OutDir != "build" {
		t.Errorf("OutDir = %q, want build", cfg.OutDir)
	}
	if !cfg.NoTypes {
		t.Error("NoTypes = false, want true from file")
	}
	if cfg.Tools.Compiler != "swc" {
		t.Errorf("Compiler = %q, want swc", cfg.Tools.Compiler)
	}
	// Values absent from the file keep their defaults.
	if cfg.Tools.Installer != "npm" {
		t.Errorf("Installer = %q, want default npm", cfg.Tools.Installer)
	}
}

func TestLoadMalformedConfigFile(t *testing.T) {
	dir := t.TempDir()
	testutil.MustWriteFile(t, filepath.Join(dir, "cmplr.toml"), "out_dir = [broken")
	restore := testutil.MustChdir(t, dir)
	defer restore()

	if _, err := Load(); err == nil {
		t.Fatal("Load on malformed TOML returned nil error")
	}
}
