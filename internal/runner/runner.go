// SPDX-License-Identifier: MPL-2.0

// Package runner orchestrates the external toolchain for one build: cleaning
// the output directory, staging scratch compiler configs, the two SWC
// invocations, and the optional tsc runs.
package runner

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"cmplr-cli/internal/compilerconf"
	"cmplr-cli/internal/execx"
	"cmplr-cli/internal/fsx"
	"cmplr-cli/internal/issue"
	"cmplr-cli/internal/manifest"
	"cmplr-cli/internal/tsconfig"

	"github.com/Masterminds/semver/v3"
	"github.com/charmbracelet/log"
)

// Options configure a build run. Zero values for the stream fields fall back
// to the process streams; zero values for the command fields are invalid and
// must be filled by the caller (normally from internal/config defaults).
type Options struct {
	SrcDir    string
	OutDir    string
	NoTypes   bool
	TypeCheck bool

	// CompilerCmd, TypeCheckerCmd, InstallerCmd are shell-quoted command
	// strings, e.g. "npx swc".
	CompilerCmd    string
	TypeCheckerCmd string
	InstallerCmd   string

	Stdin          io.Reader
	Stdout, Stderr io.Writer
}

// StageError identifies which pipeline stage failed and which issue catalog
// entry describes it.
type StageError struct {
	Stage string
	Issue issue.Id
	Err   error
}

// Error implements the error interface.
func (e *StageError) Error() string {
	return fmt.Sprintf("%s: %v", e.Stage, e.Err)
}

// Unwrap returns the underlying error.
func (e *StageError) Unwrap() error { return e.Err }

// Runner executes the compile pipeline. All subprocesses run sequentially and
// block until completion.
type Runner struct {
	opts   Options
	logger *log.Logger
}

// New creates a Runner, defaulting the streams to the process streams.
func New(opts Options) *Runner {
	if opts.Stdin == nil {
		opts.Stdin = os.Stdin
	}
	if opts.Stdout == nil {
		opts.Stdout = os.Stdout
	}
	if opts.Stderr == nil {
		opts.Stderr = os.Stderr
	}
	return &Runner{
		opts:   opts,
		logger: log.NewWithOptions(os.Stderr, log.Options{Prefix: "build"}),
	}
}

// Build runs the full compile pipeline. The scratch directory holding the
// generated compiler configs is removed on every path out of this function.
func (r *Runner) Build(ctx context.Context, ts *tsconfig.TSConfig) error {
	compilerArgv, err := execx.SplitCommand(r.opts.CompilerCmd)
	if err != nil {
		return err
	}

	cjs, esm, err := compilerconf.SynthesizePair(ts, r.opts.SrcDir)
	if err != nil {
		return err
	}

	if fsx.DirExists(r.opts.OutDir) {
		if err := os.RemoveAll(r.opts.OutDir); err != nil {
			return issue.WrapWithOperation(err, "clean output directory")
		}
	}

	scratch, err := os.MkdirTemp("", "cmplr-conf-*")
	if err != nil {
		return issue.WrapWithOperation(err, "create scratch directory")
	}
	defer os.RemoveAll(scratch)

	formats := []struct {
		cfg    compilerconf.Config
		subdir string
	}{
		{cjs, manifest.CJSDir},
		{esm, manifest.ESMDir},
	}

	for _, format := range formats {
		cfgPath := filepath.Join(scratch, string(format.cfg.Module.Type)+".swcrc.json")
		if err := writeConfig(cfgPath, format.cfg); err != nil {
			return err
		}

		argv := append(compilerArgv[:len(compilerArgv):len(compilerArgv)],
			r.opts.SrcDir,
			"-d", filepath.Join(r.opts.OutDir, format.subdir),
			"--config-file", cfgPath,
		)
		if err := r.run(ctx, argv); err != nil {
			return &StageError{Stage: "compile " + format.subdir, Issue: issue.CompilerFailedId, Err: err}
		}
	}

	if !r.opts.NoTypes && ts != nil {
		if err := r.emitDeclarations(ctx); err != nil {
			return err
		}
	}

	if r.opts.TypeCheck {
		if err := r.typeCheck(ctx); err != nil {
			return err
		}
	}

	return nil
}

// emitDeclarations runs tsc for declaration files only, into <outDir>/types.
func (r *Runner) emitDeclarations(ctx context.Context) error {
	argv, err := execx.SplitCommand(r.opts.TypeCheckerCmd)
	if err != nil {
		return err
	}
	argv = append(argv,
		"--emitDeclarationOnly",
		"--declaration",
		"--outDir", filepath.Join(r.opts.OutDir, manifest.TypesDir),
	)
	if err := r.run(ctx, argv); err != nil {
		return &StageError{Stage: "emit declarations", Issue: issue.TypeCheckerFailedId, Err: err}
	}
	return nil
}

// typeCheck makes sure the TypeScript compiler is reachable, then runs a
// whole-project, non-emitting check.
func (r *Runner) typeCheck(ctx context.Context) error {
	if err := r.ensureTypeScript(ctx); err != nil {
		return err
	}

	argv, err := execx.SplitCommand(r.opts.TypeCheckerCmd)
	if err != nil {
		return err
	}
	argv = append(argv, "--noEmit")
	if err := r.run(ctx, argv); err != nil {
		return &StageError{Stage: "type check", Issue: issue.TypeCheckerFailedId, Err: err}
	}
	return nil
}

// ensureTypeScript checks for a typescript dependency in the manifest, then
// for an installed copy under node_modules, and finally installs it as a dev
// dependency. Only the install step can fail the pipeline.
func (r *Runner) ensureTypeScript(ctx context.Context) error {
	m, err := manifest.Load(".")
	if err != nil {
		r.logger.Warn("could not read package.json while probing for typescript", "err", err)
	}
	if m != nil {
		if constraint, ok := m.Dependency("typescript"); ok {
			if _, err := semver.NewConstraint(constraint); err != nil {
				r.logger.Warn("typescript dependency has an unparsable version range",
					"range", constraint, "err", err)
			}
			return nil
		}
	}

	if fsx.FileExists(filepath.Join("node_modules", "typescript", "package.json")) {
		return nil
	}

	r.logger.Info("typescript not found, installing it as a dev dependency")
	argv, err := execx.SplitCommand(r.opts.InstallerCmd)
	if err != nil {
		return err
	}
	argv = append(argv, "install", "--save-dev", "typescript")
	if err := r.run(ctx, argv); err != nil {
		return &StageError{Stage: "install typescript", Issue: issue.TypeScriptMissingId, Err: err}
	}
	return nil
}

// run executes one toolchain subprocess with the runner's streams attached.
func (r *Runner) run(ctx context.Context, argv []string) error {
	return execx.Run(ctx, execx.Invocation{
		Argv:   argv,
		Stdin:  r.opts.Stdin,
		Stdout: r.opts.Stdout,
		Stderr: r.opts.Stderr,
	})
}

// writeConfig persists a synthesized compiler config for the external tool.
func writeConfig(path string, cfg compilerconf.Config) error {
	raw, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return issue.WrapWithOperation(err, "encode compiler config")
	}
	if err := os.WriteFile(path, raw, 0o644); err != nil {
		return issue.WrapWithOperation(err, "write compiler config")
	}
	return nil
}
