// SPDX-License-Identifier: MPL-2.0

// Package execx runs external toolchain processes (SWC, tsc, npm) as blocking
// subprocesses with inherited standard streams.
package execx

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os/exec"
	"strings"

	"mvdan.cc/sh/v3/shell"
)

// ExitCodeError reports a subprocess that terminated with a non-zero status.
type ExitCodeError struct {
	Argv []string
	Code int
}

// Error implements the error interface.
func (e *ExitCodeError) Error() string {
	return fmt.Sprintf("%s exited with status %d", strings.Join(e.Argv, " "), e.Code)
}

// SplitCommand splits a user-supplied command string (e.g. "npx swc") into
// argv, honoring shell quoting rules. No expansion environment is provided,
// so variables and globs are left untouched.
func SplitCommand(command string) ([]string, error) {
	fields, err := shell.Fields(command, nil)
	if err != nil {
		return nil, fmt.Errorf("invalid command %q: %w", command, err)
	}
	if len(fields) == 0 {
		return nil, fmt.Errorf("invalid command %q: empty after splitting", command)
	}
	return fields, nil
}

// Invocation describes a single subprocess run.
type Invocation struct {
	// Argv is the program and its arguments. Must not be empty.
	Argv []string
	// Dir is the working directory for the subprocess; empty means inherit.
	Dir string
	// Stdin, Stdout, Stderr are attached to the subprocess.
	Stdin          io.Reader
	Stdout, Stderr io.Writer
}

// Run starts the subprocess and blocks until it exits. A non-zero exit status
// is returned as *ExitCodeError; other failures (binary not found, context
// canceled) are returned as-is.
func Run(ctx context.Context, inv Invocation) error {
	if len(inv.Argv) == 0 {
		return errors.New("empty argv")
	}

	cmd := exec.CommandContext(ctx, inv.Argv[0], inv.Argv[1:]...)
	cmd.Dir = inv.Dir
	cmd.Stdin = inv.Stdin
	cmd.Stdout = inv.Stdout
	cmd.Stderr = inv.Stderr

	if err := cmd.Run(); err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			return &ExitCodeError{Argv: inv.Argv, Code: exitErr.ExitCode()}
		}
		return fmt.Errorf("failed to execute %s: %w", inv.Argv[0], err)
	}

	return nil
}
