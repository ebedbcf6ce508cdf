// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"errors"
	"fmt"
	"os"

	"cmplr-cli/internal/config"
	"cmplr-cli/internal/detect"
	"cmplr-cli/internal/issue"
	"cmplr-cli/internal/manifest"
	"cmplr-cli/internal/runner"
	"cmplr-cli/internal/tsconfig"

	"github.com/spf13/cobra"
)

var (
	dryRun         bool
	srcDirFlag     string
	outDirFlag     string
	noTypes        bool
	typeCheck      bool
	compilerCmd    string
	typeCheckerCmd string
	installerCmd   string

	// compileCmd is the explicit form of the default action.
	compileCmd = &cobra.Command{
		Use:   "compile",
		Short: "Compile the package in the current directory",
		Long: `Compile the package in the current directory.

This is the default action; running cmplr without a subcommand does the
same thing. Sources are compiled twice (CommonJS and ES modules), followed
by optional declaration emission, and package.json is updated to point at
the emitted files.`,
		Args: cobra.NoArgs,
		RunE: runCompile,
	}
)

func init() {
	addCompileFlags(compileCmd)
}

// addCompileFlags registers the compile flags. The same variables back the
// root command, so "cmplr --src-dir x" and "cmplr compile --src-dir x" are
// interchangeable.
func addCompileFlags(cmd *cobra.Command) {
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "print the build plan without running it")
	cmd.Flags().StringVar(&srcDirFlag, "src-dir", "", "source directory (default: auto-detected)")
	cmd.Flags().StringVar(&outDirFlag, "out-dir", "dist", "output directory")
	cmd.Flags().BoolVar(&noTypes, "no-types", false, "skip declaration emission")
	cmd.Flags().BoolVar(&typeCheck, "type-check", false, "run a full non-emitting type check")
	cmd.Flags().StringVar(&compilerCmd, "compiler-cmd", "", "override the compiler command (default: npx swc)")
	cmd.Flags().StringVar(&typeCheckerCmd, "typechecker-cmd", "", "override the type checker command (default: npx tsc)")
	cmd.Flags().StringVar(&installerCmd, "installer-cmd", "", "override the package installer command (default: npm)")
}

func runCompile(cmd *cobra.Command, args []string) error {
	cfg := loadToolConfig()
	opts := resolveBuildOptions(cmd, cfg)

	ts, err := tsconfig.Load(".")
	if err != nil {
		// Parse errors never abort the run; the build continues with
		// auto-detected defaults.
		fmt.Fprintln(os.Stderr, WarningStyle.Render("Warning: ")+err.Error())
		renderIssueHelp(issue.TsconfigInvalidId)
	}

	opts.SrcDir = detect.SourceDir(srcDirFlag, ts)

	entries, err := detect.EntryPoints(opts.SrcDir)
	if err != nil {
		return fatal(err, issue.SourceDirNotFoundId)
	}

	r := runner.New(opts)

	if dryRun {
		lines, err := r.Describe(ts)
		if err != nil {
			return fatal(err, 0)
		}
		fmt.Println(TitleStyle.Render("Build plan") + " (dry run, nothing executed)")
		fmt.Println(runner.PlanString(lines))
		fmt.Printf("update %s: %d entry point(s) from %s/\n", manifest.FileName, len(entries), opts.SrcDir)
		return nil
	}

	if err := r.Build(cmd.Context(), ts); err != nil {
		var stageErr *runner.StageError
		if errors.As(err, &stageErr) {
			return fatal(err, stageErr.Issue)
		}
		return fatal(err, 0)
	}

	// Declarations exist only when a tsconfig does, so the manifest must not
	// reference them otherwise.
	effectiveNoTypes := opts.NoTypes || ts == nil
	if err := updateManifest(entries, opts.OutDir, effectiveNoTypes); err != nil {
		return fatal(err, 0)
	}

	fmt.Printf("%s Compiled %d entry point(s) from %s/ to %s/\n",
		SuccessStyle.Render("✓"), len(entries), opts.SrcDir, opts.OutDir)
	return nil
}

// resolveBuildOptions merges flags over the tool configuration. A flag the
// user actually set always wins; otherwise the config value applies.
func resolveBuildOptions(cmd *cobra.Command, cfg *config.Config) runner.Options {
	opts := runner.Options{
		OutDir:         cfg.OutDir,
		NoTypes:        cfg.NoTypes,
		TypeCheck:      cfg.TypeCheck,
		CompilerCmd:    cfg.Tools.Compiler,
		TypeCheckerCmd: cfg.Tools.TypeChecker,
		InstallerCmd:   cfg.Tools.Installer,
	}

	flags := cmd.Flags()
	if flags.Changed("out-dir") {
		opts.OutDir = outDirFlag
	}
	if flags.Changed("no-types") {
		opts.NoTypes = noTypes
	}
	if flags.Changed("type-check") {
		opts.TypeCheck = typeCheck
	}
	if compilerCmd != "" {
		opts.CompilerCmd = compilerCmd
	}
	if typeCheckerCmd != "" {
		opts.TypeCheckerCmd = typeCheckerCmd
	}
	if installerCmd != "" {
		opts.InstallerCmd = installerCmd
	}

	return opts
}

// updateManifest rewrites package.json for the emitted layout. A missing
// manifest downgrades to a warning; the build output itself is intact.
func updateManifest(entries []string, outDir string, noTypes bool) error {
	m, err := manifest.Load(".")
	if err != nil {
		return issue.WrapWithOperation(err, "update package.json")
	}
	if m == nil {
		fmt.Fprintln(os.Stderr, WarningStyle.Render("Warning: ")+"no package.json found, skipping manifest update")
		renderIssueHelp(issue.ManifestMissingId)
		return nil
	}

	m.Update(entries, outDir, noTypes)
	if err := m.Save(); err != nil {
		return issue.WrapWithOperation(err, "update package.json")
	}
	return nil
}

// fatal prints the error with its optional issue help, then signals exit 1.
// The full message is printed here, so the ExitError carries no Err to keep
// the outer layer from printing it twice.
func fatal(err error, id issue.Id) error {
	fmt.Fprintln(os.Stderr, ErrorStyle.Render("Error: ")+formatErrorForDisplay(err, verbose))
	renderIssueHelp(id)
	return &ExitError{Code: 1}
}

// renderIssueHelp prints the catalog entry for id, if any. Rendering problems
// are swallowed; help text must never mask the original failure.
func renderIssueHelp(id issue.Id) {
	entry := issue.Get(id)
	if entry == nil {
		return
	}
	help, err := entry.Render("auto")
	if err != nil {
		return
	}
	fmt.Fprint(os.Stderr, help)
}
