// SPDX-License-Identifier: MPL-2.0

package scaffold

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"

	"cmplr-cli/internal/testutil"
)

func skipWithoutSh(t *testing.T) {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("requires sh")
	}
}

func loadJSON(t *testing.T, path string) map[string]any {
	t.Helper()
	var data map[string]any
	if err := json.Unmarshal([]byte(testutil.MustReadFile(t, path)), &data); err != nil {
		t.Fatalf("invalid JSON in %s: %v", path, err)
	}
	return data
}

func TestCreateFreshProject(t *testing.T) {
	skipWithoutSh(t)
	base := t.TempDir()
	restore := testutil.MustChdir(t, base)
	defer restore()

	installerLog := filepath.Join(base, "installer.log")
	installer := testutil.FakeTool(t, base, "fakenpm", installerLog, 0)

	s := New(Options{Name: "mylib", InstallerCmd: installer})
	if err := s.Create(context.Background()); err != nil {
		t.Fatalf("Create returned error: %v", err)
	}

	for _, path := range []string{
		"mylib/package.json",
		"mylib/tsconfig.json",
		"mylib/src/index.ts",
		"mylib/src/index.test.ts",
	} {
		if _, err := os.Stat(filepath.Join(base, path)); err != nil {
			t.Errorf("expected %s to exist: %v", path, err)
		}
	}

	pkg := loadJSON(t, filepath.Join(base, "mylib", "package.json"))
	if pkg["name"] != "mylib" {
		t.Errorf("package name = %v", pkg["name"])
	}
	scripts := pkg["scripts"].(map[string]any)
	if scripts["build"] != "cmplr" {
		t.Errorf("build script = %v", scripts["build"])
	}
	if scripts["test"] != "node --test" {
		t.Errorf("test script = %v", scripts["test"])
	}

	// The entry point starts empty; the test file carries boilerplate.
	if content := testutil.MustReadFile(t, filepath.Join(base, "mylib", "src", "index.ts")); content != "" {
		t.Errorf("index.ts should be empty, got %q", content)
	}
	if content := testutil.MustReadFile(t, filepath.Join(base, "mylib", "src", "index.test.ts")); !strings.Contains(content, "node:test") {
		t.Errorf("starter test missing boilerplate: %q", content)
	}

	// Both dependencies were installed.
	calls := strings.Split(strings.TrimSpace(testutil.MustReadFile(t, installerLog)), "\n")
	if len(calls) != 2 {
		t.Fatalf("installer invoked %d times, want 2: %v", len(calls), calls)
	}
	if !strings.Contains(calls[0], "install tslib") {
		t.Errorf("first install = %q", calls[0])
	}
	if !strings.Contains(calls[1], "install --save-dev typescript") {
		t.Errorf("second install = %q", calls[1])
	}
}

func TestCreateMergesExistingManifest(t *testing.T) {
	skipWithoutSh(t)
	base := t.TempDir()
	restore := testutil.MustChdir(t, base)
	defer restore()

	testutil.MustWriteFile(t, filepath.Join(base, "mylib", "package.json"), `{
		"name": "already-named",
		"version": "3.0.0",
		"license": "MIT",
		"scripts": {"lint": "eslint ."}
	}`)

	installer := testutil.FakeTool(t, base, "fakenpm", filepath.Join(base, "i.log"), 0)
	s := New(Options{Name: "mylib", InstallerCmd: installer})
	if err := s.Create(context.Background()); err != nil {
		t.Fatalf("Create returned error: %v", err)
	}

	pkg := loadJSON(t, filepath.Join(base, "mylib", "package.json"))
	if pkg["name"] != "already-named" {
		t.Errorf("existing name clobbered: %v", pkg["name"])
	}
	if pkg["version"] != "3.0.0" {
		t.Errorf("existing version clobbered: %v", pkg["version"])
	}
	if pkg["license"] != "MIT" {
		t.Errorf("existing license clobbered: %v", pkg["license"])
	}
	scripts := pkg["scripts"].(map[string]any)
	if scripts["lint"] != "eslint ." {
		t.Errorf("unrelated script clobbered: %v", scripts)
	}
	if scripts["build"] != "cmplr" || scripts["test"] != "node --test" {
		t.Errorf("build/test scripts not merged: %v", scripts)
	}
}

func TestCreateNeverOverwritesFiles(t *testing.T) {
	skipWithoutSh(t)
	base := t.TempDir()
	restore := testutil.MustChdir(t, base)
	defer restore()

	testutil.MustWriteFile(t, filepath.Join(base, "mylib", "src", "index.ts"), "export const x = 1;\n")
	testutil.MustWriteFile(t, filepath.Join(base, "mylib", "tsconfig.json"), `{"compilerOptions": {}}`)

	installer := testutil.FakeTool(t, base, "fakenpm", filepath.Join(base, "i.log"), 0)
	s := New(Options{Name: "mylib", InstallerCmd: installer})
	if err := s.Create(context.Background()); err != nil {
		t.Fatalf("Create returned error: %v", err)
	}

	if got := testutil.MustReadFile(t, filepath.Join(base, "mylib", "src", "index.ts")); got != "export const x = 1;\n" {
		t.Errorf("existing source overwritten: %q", got)
	}
	if got := testutil.MustReadFile(t, filepath.Join(base, "mylib", "tsconfig.json")); got != `{"compilerOptions": {}}` {
		t.Errorf("existing tsconfig overwritten: %q", got)
	}
}

func TestCreateInstallerFailureIsNotFatal(t *testing.T) {
	skipWithoutSh(t)
	base := t.TempDir()
	restore := testutil.MustChdir(t, base)
	defer restore()

	var stderr strings.Builder
	installer := testutil.FakeTool(t, base, "fakenpm", filepath.Join(base, "i.log"), 1)
	s := New(Options{Name: "mylib", InstallerCmd: installer, Stderr: &stderr})

	if err := s.Create(context.Background()); err != nil {
		t.Fatalf("installer failure must not fail Create: %v", err)
	}
	if !strings.Contains(stderr.String(), "manually") {
		t.Errorf("missing manual-install instructions: %q", stderr.String())
	}
	if !s.InstallFailed() {
		t.Error("InstallFailed() = false after failed install")
	}
}

func TestCreateInCurrentDirectory(t *testing.T) {
	skipWithoutSh(t)
	base := t.TempDir()
	projectDir := filepath.Join(base, "implicit-name")
	testutil.MustMkdirAll(t, projectDir, 0o755)
	restore := testutil.MustChdir(t, projectDir)
	defer restore()

	installer := testutil.FakeTool(t, base, "fakenpm", filepath.Join(base, "i.log"), 0)
	s := New(Options{InstallerCmd: installer})
	if err := s.Create(context.Background()); err != nil {
		t.Fatalf("Create returned error: %v", err)
	}

	pkg := loadJSON(t, filepath.Join(projectDir, "package.json"))
	if pkg["name"] != "implicit-name" {
		t.Errorf("package name = %v, want directory name", pkg["name"])
	}
}
