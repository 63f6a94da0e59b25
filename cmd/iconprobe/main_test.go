package main

import (
	"image"
	"testing"

	"icon-engine/internal/fsstat"
	"icon-engine/internal/native"
)

// adapterNames flattens the chain for order assertions. Host shell
// adapters vary by platform, so tests check subsequences rather than
// exact lists.
func adapterNames(got []native.Adapter) []string {
	names := make([]string, len(got))
	for i, a := range got {
		names[i] = a.Name()
	}
	return names
}

func assertInOrder(t *testing.T, names, want []string) {
	t.Helper()
	i := 0
	for _, n := range names {
		if i < len(want) && n == want[i] {
			i++
		}
	}
	if i != len(want) {
		t.Errorf("adapters = %v, want %v in order", names, want)
	}
}

func TestAdaptersWithoutTheme(t *testing.T) {
	got := adapters(nil, fsstat.NewLinks())
	if len(got) == 0 {
		t.Fatal("no adapters without a theme")
	}
	if got[0].Name() != "native_extract" {
		t.Errorf("first adapter = %q, want native_extract", got[0].Name())
	}
}

func TestAdaptersWithTheme(t *testing.T) {
	theme := native.NewTheme(t.TempDir())
	got := adapters(theme, fsstat.NewLinks())

	names := adapterNames(got)
	assertInOrder(t, names, []string{
		"native_image_list", "native_extract", "native_shell", "native_legacy",
	})
	if names[0] != "native_image_list" {
		t.Errorf("first adapter = %q, want native_image_list", names[0])
	}
}

func TestDisplayExt(t *testing.T) {
	tests := []struct {
		path string
		want string
	}{
		{"a/b/report.PDF", ".pdf"},
		{"noext", "(none)"},
		{"archive.tar.gz", ".gz"},
	}
	for _, tt := range tests {
		if got := displayExt(tt.path); got != tt.want {
			t.Errorf("displayExt(%q) = %q, want %q", tt.path, got, tt.want)
		}
	}
}

func TestReportHandlesNil(_ *testing.T) {
	// Must not panic on a nil image.
	report("tier", nil, false)
	report("tier", image.NewNRGBA(image.Rect(0, 0, 4, 4)), true)
}
