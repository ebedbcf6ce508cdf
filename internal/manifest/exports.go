// SPDX-License-Identifier: MPL-2.0

package manifest

import (
	"path"
	"strings"

	"cmplr-cli/internal/detect"
)

// Output subdirectories of the build, one per emitted flavor.
const (
	CJSDir   = "cjs"
	ESMDir   = "esm"
	TypesDir = "types"
)

// Update rewrites the manifest fields that describe the emitted output:
// main, module, types (unless noTypes), exports (replaced wholesale), and
// files (output directory appended if absent). All other fields are preserved.
//
// With exactly one primary-named entry point the export map has the single key
// ".". Otherwise there is one key per entry point: "." for the primary-named
// one and "./<basename>" for the rest, while the top-level fields still come
// from the primary-named entry (or the first entry when none is primary).
func (m *Manifest) Update(entries []string, outDir string, noTypes bool) {
	if len(entries) == 0 {
		return
	}

	primary := entries[0]
	for _, entry := range entries {
		if detect.IsPrimary(entry) {
			primary = entry
			break
		}
	}

	m.data["main"] = outputPath(outDir, CJSDir, baseName(primary)+".js")
	m.data["module"] = outputPath(outDir, ESMDir, baseName(primary)+".js")
	if noTypes {
		delete(m.data, "types")
	} else {
		m.data["types"] = outputPath(outDir, TypesDir, baseName(primary)+".d.ts")
	}

	exports := map[string]any{}
	if len(entries) == 1 && detect.IsPrimary(entries[0]) {
		exports["."] = exportEntry(outDir, baseName(entries[0]), noTypes)
	} else {
		for _, entry := range entries {
			key := "./" + baseName(entry)
			if entry == primary && detect.IsPrimary(entry) {
				key = "."
			}
			exports[key] = exportEntry(outDir, baseName(entry), noTypes)
		}
	}
	m.data["exports"] = exports

	m.appendFile(outDir)
}

// exportEntry builds one conditional-export record for an entry point.
func exportEntry(outDir, base string, noTypes bool) map[string]any {
	entry := map[string]any{
		"import":  "./" + outputPath(outDir, ESMDir, base+".js"),
		"require": "./" + outputPath(outDir, CJSDir, base+".js"),
	}
	if !noTypes {
		entry["types"] = "./" + outputPath(outDir, TypesDir, base+".d.ts")
	}
	return entry
}

// appendFile adds name to the files allowlist if it is not already present,
// creating the list when the manifest has none.
func (m *Manifest) appendFile(name string) {
	files, ok := m.data["files"].([]any)
	if !ok {
		m.data["files"] = []any{name}
		return
	}
	for _, f := range files {
		if s, ok := f.(string); ok && s == name {
			return
		}
	}
	m.data["files"] = append(files, name)
}

func baseName(entry string) string {
	return strings.TrimSuffix(entry, path.Ext(entry))
}

// outputPath joins manifest path segments with forward slashes regardless of
// the host platform.
func outputPath(segments ...string) string {
	return path.Join(segments...)
}
