// SPDX-License-Identifier: MPL-2.0

package issue

import (
	"strings"
	"testing"
)

func TestId_Constants(t *testing.T) {
	ids := []Id{
		BundleRootNotFoundId,
		ArchiveUnreadableId,
		ArchiveCorruptId,
		PathEscapeId,
		InvalidEntryPathId,
		ConfigLoadFailedId,
	}

	seen := make(map[Id]bool)
	for _, id := range ids {
		if seen[id] {
			t.Errorf("duplicate ID: %d", id)
		}
		seen[id] = true
	}

	if BundleRootNotFoundId != 1 {
		t.Errorf("BundleRootNotFoundId = %d, want 1", BundleRootNotFoundId)
	}
}

func TestGet(t *testing.T) {
	for _, id := range []Id{BundleRootNotFoundId, ArchiveCorruptId, ConfigLoadFailedId} {
		is := Get(id)
		if is == nil {
			t.Fatalf("Get(%d) returned nil", id)
		}
		if is.Id() != id {
			t.Errorf("Get(%d).Id() = %d", id, is.Id())
		}
	}

	if Get(Id(999)) != nil {
		t.Error("Get(999) should return nil")
	}
}

func TestValues(t *testing.T) {
	values := Values()
	if len(values) != len(issues) {
		t.Fatalf("Values() returned %d issues, want %d", len(values), len(issues))
	}
	for i := 1; i < len(values); i++ {
		if values[i-1].Id() >= values[i].Id() {
			t.Errorf("Values() not ordered at %d: %d >= %d", i, values[i-1].Id(), values[i].Id())
		}
	}
}

func TestIssue_LinksAreCopied(t *testing.T) {
	is := Get(ArchiveCorruptId)
	links := is.ExtLinks()
	if len(links) == 0 {
		t.Fatal("ArchiveCorrupt issue should carry an external link")
	}
	links[0] = "mutated"
	if is.ExtLinks()[0] == "mutated" {
		t.Error("ExtLinks() must return a copy")
	}
	if len(is.DocLinks()) != 0 {
		t.Errorf("DocLinks() = %v, want empty", is.DocLinks())
	}
}

func TestIssue_Render(t *testing.T) {
	original := render
	t.Cleanup(func() { render = original })

	var gotInput, gotStyle string
	render = func(in, stylePath string) (string, error) {
		gotInput, gotStyle = in, stylePath
		return "rendered", nil
	}

	out, err := Get(ArchiveCorruptId).Render("dark")
	if err != nil {
		t.Fatalf("Render() error = %v", err)
	}
	if out != "rendered" {
		t.Errorf("Render() = %q", out)
	}
	if gotStyle != "dark" {
		t.Errorf("style = %q, want dark", gotStyle)
	}
	if !strings.Contains(gotInput, "## See also:") {
		t.Errorf("rendered input missing links section:\n%s", gotInput)
	}

	_, _ = Get(PathEscapeId).Render("dark")
	if strings.Contains(gotInput, "See also") {
		t.Error("issue without links should not render a links section")
	}
}

func TestAllIssuesAreRenderable(t *testing.T) {
	for _, is := range Values() {
		if strings.TrimSpace(string(is.MarkdownMsg())) == "" {
			t.Errorf("issue %d has empty markdown", is.Id())
			continue
		}
		out, err := is.Render("notty")
		if err != nil {
			t.Errorf("issue %d failed to render: %v", is.Id(), err)
			continue
		}
		if strings.TrimSpace(out) == "" {
			t.Errorf("issue %d rendered empty output", is.Id())
		}
	}
}
