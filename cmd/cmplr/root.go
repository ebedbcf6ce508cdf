// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"

	"cmplr-cli/internal/config"
	"cmplr-cli/internal/issue"

	"github.com/charmbracelet/fang"
	"github.com/spf13/cobra"
)

var (
	// Version is the semantic version (set via -ldflags).
	Version = "dev"
	// Commit is the git commit hash (set via -ldflags).
	Commit = "unknown"
	// BuildDate is the build timestamp (set via -ldflags).
	BuildDate = "unknown"

	// verbose enables verbose output
	verbose bool

	// rootCmd represents the base command; running it without a subcommand
	// compiles the package in the current directory.
	rootCmd = &cobra.Command{
		Use:   "cmplr",
		Short: "A zero-config build tool for TypeScript/JavaScript packages",
		Long: TitleStyle.Render("cmplr") + SubtitleStyle.Render(" - A zero-config build tool for TypeScript/JavaScript packages") + `

cmplr detects your source directory, compiles it to both CommonJS and
ES modules with SWC, emits declaration files with tsc, and rewrites the
package.json entry points (main, module, types, exports, files) to match
the emitted layout.

` + SubtitleStyle.Render("Examples:") + `
  cmplr                     Compile the package in the current directory
  cmplr --dry-run           Show what a build would do
  cmplr --type-check        Compile and run a full tsc check
  cmplr create my-package   Scaffold a new package and install dependencies`,
		SilenceUsage: true,
		Args:         cobra.NoArgs,
		RunE:         runCompile,
	}
)

func init() {
	rootCmd.PersistentFlags().BoolVar(&verbose, "verbose", false, "enable verbose output")

	addCompileFlags(rootCmd)

	rootCmd.AddCommand(compileCmd)
	rootCmd.AddCommand(createCmd)
}

// getVersionString returns a formatted version string for display.
func getVersionString() string {
	if Version == "dev" {
		return "dev (built from source)"
	}
	return fmt.Sprintf("%s (commit: %s, built: %s)", Version, Commit, BuildDate)
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	if err := fang.Execute(
		context.Background(),
		rootCmd,
		fang.WithVersion(getVersionString()),
		fang.WithNotifySignal(os.Interrupt),
	); err != nil {
		var exitErr *ExitError
		if errors.As(err, &exitErr) {
			os.Exit(exitErr.Code)
		}
		os.Exit(1)
	}
}

// loadToolConfig loads cmplr's own optional configuration. Per the
// best-effort policy, a broken config file is a warning and the built-in
// defaults are used.
func loadToolConfig() *config.Config {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, WarningStyle.Render("Warning: ")+formatErrorForDisplay(err, verbose))
		return config.DefaultConfig()
	}
	if cfg.Verbose {
		verbose = true
	}
	return cfg
}

// formatErrorForDisplay formats an error for user display.
// If the error is an ActionableError, it uses the Format method.
// In verbose mode, shows the full error chain.
func formatErrorForDisplay(err error, verboseMode bool) string {
	var ae *issue.ActionableError
	if errors.As(err, &ae) {
		return ae.Format(verboseMode)
	}
	return err.Error()
}
