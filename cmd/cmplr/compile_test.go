// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"testing"

	"cmplr-cli/internal/config"

	"github.com/spf13/cobra"
)

func newTestCompileCmd(t *testing.T) *cobra.Command {
	t.Helper()

	// The flag variables are package globals shared with the real commands;
	// reset them so tests do not leak into each other.
	dryRun = false
	srcDirFlag = ""
	outDirFlag = "dist"
	noTypes = false
	typeCheck = false
	compilerCmd = ""
	typeCheckerCmd = ""
	installerCmd = ""

	cmd := &cobra.Command{Use: "test"}
	addCompileFlags(cmd)
	return cmd
}

func TestResolveBuildOptionsDefaults(t *testing.T) {
	cmd := newTestCompileCmd(t)
	if err := cmd.ParseFlags(nil); err != nil {
		t.Fatal(err)
	}

	opts := resolveBuildOptions(cmd, config.DefaultConfig())

	if opts.OutDir != "dist" {
		t.Errorf("OutDir = %q, want dist", opts.OutDir)
	}
	if opts.CompilerCmd != "npx swc" {
		t.Errorf("CompilerCmd = %q, want npx swc", opts.CompilerCmd)
	}
	if opts.TypeCheckerCmd != "npx tsc" {
		t.Errorf("TypeCheckerCmd = %q, want npx tsc", opts.TypeCheckerCmd)
	}
	if opts.InstallerCmd != "npm" {
		t.Errorf("InstallerCmd = %q, want npm", opts.InstallerCmd)
	}
	if opts.NoTypes || opts.TypeCheck {
		t.Error("NoTypes/TypeCheck should default to false")
	}
}

func TestResolveBuildOptionsFlagsWin(t *testing.T) {
	cmd := newTestCompileCmd(t)
	err := cmd.ParseFlags([]string{
		"--out-dir", "build",
		"--no-types",
		"--type-check",
		"--compiler-cmd", "swc",
	})
	if err != nil {
		t.Fatal(err)
	}

	cfg := config.DefaultConfig()
	cfg.OutDir = "lib-out"
	cfg.Tools.Compiler = "npx swc --config something"

	opts := resolveBuildOptions(cmd, cfg)

	if opts.OutDir != "build" {
		t.Errorf("OutDir = %q, want flag value build", opts.OutDir)
	}
	if !opts.NoTypes {
		t.Error("NoTypes flag ignored")
	}
	if !opts.TypeCheck {
		t.Error("TypeCheck flag ignored")
	}
	if opts.CompilerCmd != "swc" {
		t.Errorf("CompilerCmd = %q, want flag value swc", opts.CompilerCmd)
	}
}

func TestResolveBuildOptionsConfigApplies(t *testing.T) {
	cmd := newTestCompileCmd(t)
	if err := cmd.ParseFlags(nil); err != nil {
		t.Fatal(err)
	}

	cfg := config.DefaultConfig()
	cfg.OutDir = "out"
	cfg.NoTypes = true
	cfg.Tools.Installer = "pnpm"

	opts := resolveBuildOptions(cmd, cfg)

	if opts.OutDir != "out" {
		t.Errorf("OutDir = %q, want config value out", opts.OutDir)
	}
	if !opts.NoTypes {
		t.Error("config NoTypes ignored")
	}
	if opts.InstallerCmd != "pnpm" {
		t.Errorf("InstallerCmd = %q, want pnpm", opts.InstallerCmd)
	}
}

func TestUnknownFlagIsUsageError(t *testing.T) {
	cmd := newTestCompileCmd(t)
	if err := cmd.ParseFlags([]string{"--definitely-unknown"}); err == nil {
		t.Error("unknown flag accepted")
	}
}

func TestExitErrorMessage(t *testing.T) {
	e := &ExitError{Code: 1}
	if e.Error() != "exit status 1" {
		t.Errorf("Error() = %q", e.Error())
	}
}
