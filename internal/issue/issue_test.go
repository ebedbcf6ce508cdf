// SPDX-License-Identifier: MPL-2.0

package issue

import (
	"strings"
	"testing"
)

func TestGetKnownIds(t *testing.T) {
	ids := []Id{
		SourceDirNotFoundId,
		CompilerFailedId,
		TypeCheckerFailedId,
		TypeScriptMissingId,
		ManifestMissingId,
		TsconfigInvalidId,
		InstallFailedId,
	}

	for _, id := range ids {
		entry := Get(id)
		if entry == nil {
			t.Fatalf("Get(%d) returned nil, want catalog entry", id)
		}
		if entry.Id() != id {
			t.Errorf("Get(%d).Id() = %d", id, entry.Id())
		}
		if entry.MarkdownMsg() == "" {
			t.Errorf("Get(%d) has empty markdown message", id)
		}
	}
}

func TestGetUnknownId(t *testing.T) {
	if entry := Get(Id(999)); entry != nil {
		t.Errorf("Get(999) = %v, want nil", entry)
	}
}

func TestRenderUsesRenderer(t *testing.T) {
	original := render
	defer func() { render = original }()

	var gotIn, gotStyle string
	render = func(in string, stylePath string) (string, error) {
		gotIn = in
		gotStyle = stylePath
		return "rendered", nil
	}

	out, err := Get(CompilerFailedId).Render("dark")
	if err != nil {
		t.Fatalf("Render returned error: %v", err)
	}
	if out != "rendered" {
		t.Errorf("Render = %q, want %q", out, "rendered")
	}
	if gotStyle != "dark" {
		t.Errorf("style path = %q, want dark", gotStyle)
	}
	if !strings.Contains(gotIn, "compiler") {
		t.Errorf("rendered markdown does not mention the compiler: %q", gotIn)
	}
}
