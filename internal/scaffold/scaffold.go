// SPDX-License-Identifier: MPL-2.0

// Package scaffold creates a new package skeleton: directories, manifest,
// tsconfig, starter source and test files, and the initial dependencies.
package scaffold

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"cmplr-cli/internal/execx"
	"cmplr-cli/internal/fsx"
	"cmplr-cli/internal/issue"
	"cmplr-cli/internal/manifest"

	"github.com/charmbracelet/log"
)

// LibDirName is the library subdirectory of a scaffolded package.
const LibDirName = "src"

// Fixed starter dependencies of a scaffolded package.
const (
	RuntimeDependency = "tslib"
	DevDependency     = "typescript"
)

// tsconfigContent is the opinionated type-checker configuration written into
// new packages.
const tsconfigContent = `{
  "compilerOptions": {
    "target": "es2022",
    "module": "esnext",
    "moduleResolution": "bundler",
    "rootDir": "src",
    "strict": true,
    "declaration": true,
    "esModuleInterop": true,
    "skipLibCheck": true,
    "forceConsistentCasingInFileNames": true
  },
  "exclude": ["dist", "node_modules"]
}
`

// testFileContent is the starter test written next to the empty entry point.
const testFileContent = `import test from "node:test";
import assert from "node:assert/strict";

test("index", () => {
  assert.ok(true);
});
`

// Options configure one scaffold run.
type Options struct {
	// Name is the project directory to create. Empty means the current
	// directory, with the package named after it.
	Name string

	// InstallerCmd is the shell-quoted installer command, e.g. "npm".
	InstallerCmd string

	Stdin          io.Reader
	Stdout, Stderr io.Writer
}

// Scaffolder creates package skeletons.
type Scaffolder struct {
	opts   Options
	logger *log.Logger

	installFailed bool
}

// New creates a Scaffolder, defaulting the streams to the process streams.
func New(opts Options) *Scaffolder {
	if opts.Stdin == nil {
		opts.Stdin = os.Stdin
	}
	if opts.Stdout == nil {
		opts.Stdout = os.Stdout
	}
	if opts.Stderr == nil {
		opts.Stderr = os.Stderr
	}
	return &Scaffolder{
		opts:   opts,
		logger: log.NewWithOptions(os.Stderr, log.Options{Prefix: "create"}),
	}
}

// Create builds the skeleton. Existing files are never overwritten, so
// re-running in a partially scaffolded directory completes the missing pieces.
// Dependency installation failure is a warning, never fatal.
func (s *Scaffolder) Create(ctx context.Context) error {
	dir := s.opts.Name
	pkgName := s.opts.Name
	if dir == "" {
		dir = "."
		wd, err := os.Getwd()
		if err != nil {
			return issue.WrapWithOperation(err, "resolve project directory")
		}
		pkgName = filepath.Base(wd)
	}

	if err := os.MkdirAll(filepath.Join(dir, LibDirName), 0o755); err != nil {
		return issue.NewErrorContext().
			WithOperation("create project directories").
			WithResource(dir).
			Wrap(err).
			BuildError()
	}

	if err := s.writeManifest(dir, pkgName); err != nil {
		return err
	}

	files := []struct {
		path    string
		content string
	}{
		{filepath.Join(dir, "tsconfig.json"), tsconfigContent},
		{filepath.Join(dir, LibDirName, "index.ts"), ""},
		{filepath.Join(dir, LibDirName, "index.test.ts"), testFileContent},
	}
	for _, f := range files {
		if fsx.FileExists(f.path) {
			continue
		}
		if err := os.WriteFile(f.path, []byte(f.content), 0o644); err != nil {
			return issue.NewErrorContext().
				WithOperation("write starter file").
				WithResource(f.path).
				Wrap(err).
				BuildError()
		}
	}

	s.installDependencies(ctx, dir)

	return nil
}

// InstallFailed reports whether any starter dependency failed to install
// during the last Create. The skeleton itself is still complete.
func (s *Scaffolder) InstallFailed() bool { return s.installFailed }

// writeManifest creates package.json, or merges the build and test scripts
// into an existing one without touching anything else.
func (s *Scaffolder) writeManifest(dir, pkgName string) error {
	m, err := manifest.Load(dir)
	if err != nil {
		return issue.WrapWithOperation(err, "read existing package.json")
	}
	if m == nil {
		m = manifest.Create(dir, pkgName)
	}

	m.SetScript("build", "cmplr")
	m.SetScript("test", "node --test")

	if err := m.Save(); err != nil {
		return issue.WrapWithOperation(err, "write package.json")
	}
	return nil
}

// installDependencies runs the installer inside the project directory. The
// directory is passed to the subprocess explicitly; the process working
// directory is never changed.
func (s *Scaffolder) installDependencies(ctx context.Context, dir string) {
	installs := []struct {
		pkg  string
		args []string
	}{
		{RuntimeDependency, []string{"install", RuntimeDependency}},
		{DevDependency, []string{"install", "--save-dev", DevDependency}},
	}

	for _, install := range installs {
		argv, err := execx.SplitCommand(s.opts.InstallerCmd)
		if err != nil {
			s.logger.Warn("invalid installer command, skipping dependency installation", "err", err)
			return
		}
		argv = append(argv, install.args...)

		err = execx.Run(ctx, execx.Invocation{
			Argv:   argv,
			Dir:    dir,
			Stdin:  s.opts.Stdin,
			Stdout: s.opts.Stdout,
			Stderr: s.opts.Stderr,
		})
		if err != nil {
			s.installFailed = true
			s.logger.Warn("dependency installation failed", "package", install.pkg, "err", err)
			fmt.Fprintf(s.opts.Stderr, "Install it manually with: npm %s\n", strings.Join(install.args, " "))
		}
	}
}
