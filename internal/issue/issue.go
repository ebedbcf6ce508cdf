// SPDX-License-Identifier: MPL-2.0

package issue

import (
	"github.com/charmbracelet/glamour"
	"golang.org/x/exp/slices"
)

// Id identifies an entry in the issue catalog.
type Id int

const (
	SourceDirNotFoundId Id = iota + 1
	CompilerFailedId
	TypeCheckerFailedId
	TypeScriptMissingId
	ManifestMissingId
	TsconfigInvalidId
	InstallFailedId
)

// MarkdownMsg is Markdown help text rendered to the terminal.
type MarkdownMsg string

// Issue is a catalog entry describing a known failure mode together with
// remediation guidance.
type Issue struct {
	id    Id
	mdMsg MarkdownMsg
}

func (i *Issue) Id() Id {
	return i.id
}

func (i *Issue) MarkdownMsg() MarkdownMsg {
	return i.mdMsg
}

// Render renders the issue's Markdown help using the given glamour style path
// ("dark", "light", "auto", or a JSON style file path).
func (i *Issue) Render(stylePath string) (string, error) {
	return render(string(i.mdMsg), stylePath)
}

// render is a seam for tests to stub out terminal Markdown rendering.
var render = glamour.Render

var (
	sourceDirNotFoundIssue = &Issue{
		id: SourceDirNotFoundId,
		mdMsg: `
# No source directory found!

The compile step needs a directory with your TypeScript/JavaScript sources.

## Resolution order:
1. ` + "`--src-dir`" + ` flag
2. ` + "`compilerOptions.rootDir`" + ` in tsconfig.json
3. Conventional directories: ` + "`src`, `lib`, `source`" + `

## Things you can try:
~~~
$ mkdir src && mv *.ts src/
$ cmplr --src-dir path/to/sources
~~~`,
	}

	compilerFailedIssue = &Issue{
		id: CompilerFailedId,
		mdMsg: `
# The compiler reported errors!

SWC exited with a non-zero status. The messages above come straight from it.

## Things you can try:
- Fix the syntax errors reported above
- Make sure ` + "`@swc/cli`" + ` and ` + "`@swc/core`" + ` are installed:
~~~
$ npm install --save-dev @swc/cli @swc/core
~~~
- Override the compiler command if SWC lives elsewhere:
~~~
$ cmplr --compiler-cmd "npx swc"
~~~`,
	}

	typeCheckerFailedIssue = &Issue{
		id: TypeCheckerFailedId,
		mdMsg: `
# Type checking failed!

tsc exited with a non-zero status. The diagnostics above come straight from it.

## Things you can try:
- Fix the type errors reported above
- Skip declaration emission entirely with ` + "`--no-types`" + `
- Run the checker by hand for a closer look:
~~~
$ npx tsc --noEmit
~~~`,
	}

	typeScriptMissingIssue = &Issue{
		id: TypeScriptMissingId,
		mdMsg: `
# TypeScript is not installed!

` + "`--type-check`" + ` needs the TypeScript compiler, and installing it on the
fly did not work.

## Things you can try:
~~~
$ npm install --save-dev typescript
~~~
and run the build again.`,
	}

	manifestMissingIssue = &Issue{
		id: ManifestMissingId,
		mdMsg: `
# No package.json found!

The build finished, but there is no manifest to point at the emitted files.

## Things you can try:
~~~
$ npm init -y
$ cmplr
~~~
or scaffold a fresh package:
~~~
$ cmplr create my-package
~~~`,
	}

	tsconfigInvalidIssue = &Issue{
		id: TsconfigInvalidId,
		mdMsg: `
# tsconfig.json could not be parsed!

The build continued with auto-detected defaults, but declaration emission and
config-derived options were skipped.

## Common issues:
- Trailing commas or comments (cmplr reads strict JSON)
- Unbalanced braces or missing quotes`,
	}

	installFailedIssue = &Issue{
		id: InstallFailedId,
		mdMsg: `
# Dependency installation failed!

The scaffold was created, but npm could not install the starter dependencies.

## Install them manually:
~~~
$ npm install tslib
$ npm install --save-dev typescript
~~~`,
	}
)

var catalog = []*Issue{
	sourceDirNotFoundIssue,
	compilerFailedIssue,
	typeCheckerFailedIssue,
	typeScriptMissingIssue,
	manifestMissingIssue,
	tsconfigInvalidIssue,
	installFailedIssue,
}

// Get returns the catalog entry for the given id, or nil if unknown.
func Get(id Id) *Issue {
	idx := slices.IndexFunc(catalog, func(i *Issue) bool { return i.id == id })
	if idx < 0 {
		return nil
	}
	return catalog[idx]
}
