// SPDX-License-Identifier: MPL-2.0

// Package compilerconf synthesizes SWC compiler configurations for the dual
// CommonJS/ESM build from an optional tsconfig and the contents of the source
// directory.
package compilerconf

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"cmplr-cli/internal/tsconfig"

	"github.com/charmbracelet/log"
	"golang.org/x/exp/slices"
)

// ModuleKind selects the output module format of a single SWC invocation.
type ModuleKind string

const (
	// ModuleCommonJS emits CommonJS modules.
	ModuleCommonJS ModuleKind = "commonjs"
	// ModuleES6 emits ES modules.
	ModuleES6 ModuleKind = "es6"
)

// DefaultTarget is the language level used when tsconfig does not set one.
const DefaultTarget = "es2022"

type (
	// Config is the JSON shape SWC consumes via --config-file. It is written
	// to a scratch file, handed to the external compiler, then deleted.
	Config struct {
		JSC        JSC      `json:"jsc"`
		Module     Module   `json:"module"`
		SourceMaps bool     `json:"sourceMaps"`
		Exclude    []string `json:"exclude,omitempty"`
	}

	// JSC holds SWC's parser and emission options.
	JSC struct {
		Parser          Parser `json:"parser"`
		Target          string `json:"target"`
		Loose           bool   `json:"loose"`
		ExternalHelpers bool   `json:"externalHelpers"`
	}

	// Parser describes the syntax of the sources being compiled.
	Parser struct {
		Syntax     string `json:"syntax"`
		TSX        bool   `json:"tsx,omitempty"`
		JSX        bool   `json:"jsx,omitempty"`
		Decorators bool   `json:"decorators"`
	}

	// Module selects the emitted module format.
	Module struct {
		Type ModuleKind `json:"type"`
	}

	// Base is the partial configuration derived from tsconfig by FromTSConfig.
	// Pointer fields distinguish "not set" from an explicit value so the merge
	// in Synthesize stays exhaustive.
	Base struct {
		Target     string
		Decorators *bool
	}
)

// knownTargets are the language levels FromTSConfig accepts from tsconfig.
var knownTargets = []string{
	"es3", "es5", "es6", "es2015", "es2016", "es2017", "es2018",
	"es2019", "es2020", "es2021", "es2022", "esnext",
}

var logger = log.NewWithOptions(os.Stderr, log.Options{Prefix: "config"})

// FromTSConfig converts a tsconfig into a partial compiler-config base.
// It is a pure function and fails on values SWC cannot represent; callers
// downgrade the failure to a warning and continue with an empty base.
func FromTSConfig(ts *tsconfig.TSConfig) (Base, error) {
	base := Base{}

	if target := ts.CompilerOptions.Target; target != "" {
		normalized := strings.ToLower(target)
		if !slices.Contains(knownTargets, normalized) {
			return Base{}, fmt.Errorf("unsupported compilation target %q", target)
		}
		base.Target = normalized
	}

	if ts.CompilerOptions.ExperimentalDecorators {
		decorators := true
		base.Decorators = &decorators
	}

	return base, nil
}

// Synthesize builds the compiler configuration for one module format.
//
// The source directory is re-scanned (independently of entry-point detection)
// to detect TypeScript, TSX, and JSX sources. If ts is non-nil its conversion
// result seeds the config; conversion failure is downgraded to a warning and
// an empty base. The module format always comes from mod, never from the base,
// so the CJS and ESM configs of one run differ only in that field.
func Synthesize(ts *tsconfig.TSConfig, mod ModuleKind, srcDir string) (Config, error) {
	hasTS, hasTSX, hasJSX, err := scanSyntax(srcDir)
	if err != nil {
		return Config{}, err
	}

	base := Base{}
	if ts != nil {
		converted, convErr := FromTSConfig(ts)
		if convErr != nil {
			logger.Warn("could not derive compiler options from tsconfig.json, using defaults", "err", convErr)
		} else {
			base = converted
		}
	}

	syntax := "ecmascript"
	if hasTS {
		syntax = "typescript"
	}

	decorators := false
	switch {
	case base.Decorators != nil:
		decorators = *base.Decorators
	case ts != nil:
		decorators = ts.CompilerOptions.ExperimentalDecorators
	}

	target := base.Target
	if target == "" {
		target = DefaultTarget
	}

	cfg := Config{
		JSC: JSC{
			Parser: Parser{
				Syntax:     syntax,
				TSX:        hasTSX,
				JSX:        hasJSX,
				Decorators: decorators,
			},
			Target:          target,
			Loose:           false,
			ExternalHelpers: false,
		},
		Module:     Module{Type: mod},
		SourceMaps: true,
	}

	if ts != nil && len(ts.Exclude) > 0 {
		cfg.Exclude = slices.Clone(ts.Exclude)
	}

	return cfg, nil
}

// SynthesizePair builds the CommonJS and ESM configurations for one run.
// The two results are identical except for the module type.
func SynthesizePair(ts *tsconfig.TSConfig, srcDir string) (cjs, esm Config, err error) {
	cjs, err = Synthesize(ts, ModuleCommonJS, srcDir)
	if err != nil {
		return Config{}, Config{}, err
	}
	esm = cjs
	esm.Module.Type = ModuleES6
	return cjs, esm, nil
}

// scanSyntax lists the files directly inside srcDir and reports which syntax
// flavors are present.
func scanSyntax(srcDir string) (hasTS, hasTSX, hasJSX bool, err error) {
	dirEntries, err := os.ReadDir(srcDir)
	if err != nil {
		return false, false, false, fmt.Errorf("failed to scan source directory: %w", err)
	}

	for _, e := range dirEntries {
		if e.IsDir() {
			continue
		}
		switch filepath.Ext(e.Name()) {
		case ".ts":
			hasTS = true
		case ".tsx":
			hasTS = true
			hasTSX = true
		case ".jsx":
			hasJSX = true
		}
	}

	return hasTS, hasTSX, hasJSX, nil
}
