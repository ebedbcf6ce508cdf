// SPDX-License-Identifier: MPL-2.0

// Package detect resolves the source directory and lists compilable entry
// points for the zero-config build path.
package detect

import (
	"os"
	"path/filepath"
	"strings"

	"cmplr-cli/internal/fsx"
	"cmplr-cli/internal/issue"
	"cmplr-cli/internal/tsconfig"

	"golang.org/x/exp/slices"
)

// FallbackSourceDir is used when nothing else resolves a source directory.
const FallbackSourceDir = "src"

// sourceDirCandidates are probed in priority order when neither the CLI flag
// nor tsconfig names a directory.
var sourceDirCandidates = []string{"src", "lib", "source"}

// compilableExts is the extension whitelist for entry points.
var compilableExts = []string{".ts", ".tsx", ".js", ".jsx"}

// SourceDir resolves the source directory. Resolution order, first match wins:
// explicit flag value, tsconfig compilerOptions.rootDir, existence probe of
// conventional directory names, fixed fallback. The function only performs
// read-only existence checks.
func SourceDir(flagValue string, ts *tsconfig.TSConfig) string {
	if flagValue != "" {
		return flagValue
	}
	if ts != nil && ts.CompilerOptions.RootDir != "" {
		return ts.CompilerOptions.RootDir
	}
	for _, candidate := range sourceDirCandidates {
		if fsx.DirExists(candidate) {
			return candidate
		}
	}
	return FallbackSourceDir
}

// EntryPoints lists the compilable files directly inside srcDir, excluding
// test and spec files. The returned names are bare file names in directory
// enumeration order; callers must not assume a stable order across platforms.
//
// A missing source directory is fatal to the compile path and is reported as
// an actionable error.
func EntryPoints(srcDir string) ([]string, error) {
	dir, err := os.Open(srcDir)
	if err != nil {
		return nil, issue.NewErrorContext().
			WithOperation("list entry points").
			WithResource(srcDir).
			WithSuggestion("Pass --src-dir to point at your sources").
			WithSuggestion("Run 'cmplr create' to scaffold a new package").
			Wrap(err).
			BuildError()
	}
	defer dir.Close()

	// ReadDir(-1) on the handle keeps enumeration order; os.ReadDir would sort.
	dirEntries, err := dir.ReadDir(-1)
	if err != nil {
		return nil, issue.WrapWithOperation(err, "list entry points")
	}

	var entries []string
	for _, e := range dirEntries {
		if e.IsDir() {
			continue
		}
		name := e.Name()
		if !slices.Contains(compilableExts, filepath.Ext(name)) {
			continue
		}
		if strings.Contains(name, ".test.") || strings.Contains(name, ".spec.") {
			continue
		}
		entries = append(entries, name)
	}

	return entries, nil
}

// IsPrimary reports whether an entry point is the package's primary entry,
// i.e. its base name begins with "index".
func IsPrimary(name string) bool {
	return strings.HasPrefix(name, "index.")
}
