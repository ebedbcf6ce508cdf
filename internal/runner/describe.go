// SPDX-License-Identifier: MPL-2.0

package runner

import (
	"encoding/json"
	"fmt"
	"path/filepath"
	"strings"

	"cmplr-cli/internal/compilerconf"
	"cmplr-cli/internal/manifest"
	"cmplr-cli/internal/tsconfig"
)

// Describe returns the plan for a build without touching the filesystem or
// spawning any subprocess. Used by --dry-run.
func (r *Runner) Describe(ts *tsconfig.TSConfig) ([]string, error) {
	cjs, esm, err := compilerconf.SynthesizePair(ts, r.opts.SrcDir)
	if err != nil {
		return nil, err
	}

	var lines []string
	lines = append(lines, fmt.Sprintf("clean %s/", r.opts.OutDir))

	for _, format := range []struct {
		cfg    compilerconf.Config
		subdir string
	}{
		{cjs, manifest.CJSDir},
		{esm, manifest.ESMDir},
	} {
		raw, err := json.Marshal(format.cfg)
		if err != nil {
			return nil, err
		}
		lines = append(lines, fmt.Sprintf("%s %s -d %s --config-file <scratch>/%s.swcrc.json",
			r.opts.CompilerCmd, r.opts.SrcDir,
			filepath.Join(r.opts.OutDir, format.subdir),
			format.cfg.Module.Type))
		lines = append(lines, "  "+string(raw))
	}

	if !r.opts.NoTypes && ts != nil {
		lines = append(lines, fmt.Sprintf("%s --emitDeclarationOnly --declaration --outDir %s",
			r.opts.TypeCheckerCmd, filepath.Join(r.opts.OutDir, manifest.TypesDir)))
	}
	if r.opts.TypeCheck {
		lines = append(lines, r.opts.TypeCheckerCmd+" --noEmit")
	}

	return lines, nil
}

// String renders the plan for terminal output.
func PlanString(lines []string) string {
	return strings.Join(lines, "\n")
}
