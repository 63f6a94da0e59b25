package pipeline

import (
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"strconv"
	"testing"

	"icon-engine/internal/cache"
	"icon-engine/internal/fsstat"
	"icon-engine/internal/native"
	"icon-engine/internal/normalize"
)

// writeThemePNG writes root/<class>/<name> as a small opaque PNG.
func writeThemePNG(t *testing.T, root string, class int, name string, c color.NRGBA) {
	t.Helper()
	dir := filepath.Join(root, strconv.Itoa(class))
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatal(err)
	}
	img := image.NewNRGBA(image.Rect(0, 0, class, class))
	for y := 0; y < class; y++ {
		for x := 0; x < class; x++ {
			img.SetNRGBA(x, y, c)
		}
	}
	writePNGFile(t, filepath.Join(dir, name), img)
}

func writePNGFile(t *testing.T, path string, img image.Image) {
	t.Helper()
	f, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	if err := png.Encode(f, img); err != nil {
		t.Fatal(err)
	}
}

// newTestPipeline builds a pipeline over a theme directory with the
// default adapter order.
func newTestPipeline(t *testing.T, themeRoot string) (*Pipeline, *cache.Cache) {
	t.Helper()
	fs := fsstat.NewOS()
	store := cache.New(fs, 64)
	theme := native.NewTheme(themeRoot)
	chain := native.NewChain(
		native.NewImageListAdapter(theme),
		native.NewExtractAdapter(fsstat.NewLinks()),
		native.NewShellIconAdapter(theme),
		native.NewLegacyAdapter(theme),
	)
	return New(fs, fsstat.NewLinks(), store, chain, theme), store
}

var blue = color.NRGBA{R: 20, G: 60, B: 200, A: 255}

func TestResolveNeverNilExactDims(t *testing.T) {
	p, _ := newTestPipeline(t, t.TempDir())

	paths := []string{
		"/nonexistent/file.xyz",
		"/nonexistent/file.mp3",
		"/nonexistent/noext",
		"/nonexistent/dir.pdf",
	}
	for _, path := range paths {
		img := p.Resolve(path, 64, 48, normalize.ProfileDense)
		if img == nil {
			t.Fatalf("Resolve(%q) returned nil", path)
		}
		b := img.Bounds()
		if b.Dx() != 64 || b.Dy() != 48 {
			t.Errorf("Resolve(%q) bounds %v, want 64x48", path, b)
		}
	}
}

func TestThemeIconWins(t *testing.T) {
	root := t.TempDir()
	writeThemePNG(t, root, 64, "mp3.png", blue)
	p, _ := newTestPipeline(t, root)

	img := p.Resolve("/some/track.mp3", 64, 64, normalize.ProfileCompact)
	c := color.NRGBAModel.Convert(img.At(32, 32)).(color.NRGBA)
	if c.B < 150 {
		t.Errorf("center pixel %v, want the theme icon color", c)
	}
}

func TestBlankThemeIconFallsThrough(t *testing.T) {
	root := t.TempDir()
	// Tier-1 icon is fully transparent; tier-3 category icon is
	// usable. The visibility gate must skip past the blank one.
	blank := image.NewNRGBA(image.Rect(0, 0, 64, 64))
	dir := filepath.Join(root, "64")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatal(err)
	}
	writePNGFile(t, filepath.Join(dir, "mp3.png"), blank)
	writeThemePNG(t, root, 64, "category-audio.png", blue)

	p, _ := newTestPipeline(t, root)
	img := p.Resolve("/some/track.mp3", 64, 64, normalize.ProfileCompact)
	c := color.NRGBAModel.Convert(img.At(32, 32)).(color.NRGBA)
	if c.A == 0 {
		t.Fatal("blank tier-1 icon was served")
	}
	if c.B < 150 {
		t.Errorf("center pixel %v, want the category icon color", c)
	}
}

func TestRendererBeatsTheme(t *testing.T) {
	root := t.TempDir()
	writeThemePNG(t, root, 64, "png.png", color.NRGBA{R: 255, A: 255})
	p, _ := newTestPipeline(t, root)

	// A real decodable image; its thumbnail wins over the generic
	// theme icon for the extension.
	dir := t.TempDir()
	path := filepath.Join(dir, "photo.png")
	src := image.NewNRGBA(image.Rect(0, 0, 40, 40))
	for y := 0; y < 40; y++ {
		for x := 0; x < 40; x++ {
			src.SetNRGBA(x, y, blue)
		}
	}
	writePNGFile(t, path, src)

	img := p.Resolve(path, 64, 64, normalize.ProfileCompact)
	c := color.NRGBAModel.Convert(img.At(32, 32)).(color.NRGBA)
	if c.B < 150 || c.R > 100 {
		t.Errorf("center pixel %v, want the rendered thumbnail color", c)
	}
}

func TestFolderUsesThemeFolderIcon(t *testing.T) {
	root := t.TempDir()
	writeThemePNG(t, root, 64, "folder.png", blue)
	p, _ := newTestPipeline(t, root)

	img := p.Resolve(t.TempDir(), 64, 64, normalize.ProfileCompact)
	c := color.NRGBAModel.Convert(img.At(32, 32)).(color.NRGBA)
	if c.B < 150 {
		t.Errorf("center pixel %v, want the folder icon color", c)
	}
}

func TestFolderWithoutThemeStillResolves(t *testing.T) {
	p, _ := newTestPipeline(t, t.TempDir())

	img, tier := p.resolve(t.TempDir(), 48, 48, normalize.ProfileDense)
	if img == nil {
		t.Fatal("folder resolution returned nil")
	}
	b := img.Bounds()
	if b.Dx() != 48 || b.Dy() != 48 {
		t.Errorf("bounds %v, want 48x48", b)
	}
	// The embedded folder glyph reports its own tier, distinct from
	// the file-category fallback.
	if tier != tierFolderGlyph {
		t.Errorf("tier = %q, want %q", tier, tierFolderGlyph)
	}
}

func TestSymlinkToFolderTakesFolderPath(t *testing.T) {
	root := t.TempDir()
	writeThemePNG(t, root, 64, "folder.png", blue)
	p, _ := newTestPipeline(t, root)

	target := t.TempDir()
	link := filepath.Join(t.TempDir(), "shortcut")
	if err := os.Symlink(target, link); err != nil {
		t.Skipf("symlinks unavailable: %v", err)
	}

	img := p.Resolve(link, 64, 64, normalize.ProfileCompact)
	c := color.NRGBAModel.Convert(img.At(32, 32)).(color.NRGBA)
	if c.B < 150 {
		t.Errorf("center pixel %v, want the folder icon color", c)
	}
}

func TestResolveCachesResult(t *testing.T) {
	root := t.TempDir()
	writeThemePNG(t, root, 64, "category-audio.png", blue)
	p, store := newTestPipeline(t, root)

	p.Resolve("/a/track.mp3", 64, 64, normalize.ProfileDense)
	if store.Len() != 1 {
		t.Fatalf("cache has %d entries after first resolve, want 1", store.Len())
	}

	// Same extension, different file: per-extension entry is shared.
	p.Resolve("/b/other.mp3", 64, 64, normalize.ProfileDense)
	if store.Len() != 1 {
		t.Errorf("cache has %d entries, want the per-extension entry reused", store.Len())
	}

	// Different profile is a distinct entry.
	p.Resolve("/a/track.mp3", 64, 64, normalize.ProfileCompact)
	if store.Len() != 2 {
		t.Errorf("cache has %d entries, want 2 after a second profile", store.Len())
	}
}

func TestKeyScopeSelection(t *testing.T) {
	p, _ := newTestPipeline(t, t.TempDir())

	tests := []struct {
		path string
		want cache.Scope
	}{
		{"/x/report.pdf", cache.ScopePerFile},
		{"/x/photo.jpg", cache.ScopePerFile},
		{"/x/notes.txt", cache.ScopePerFile},
		{"/x/setup.exe", cache.ScopePerFile},
		{"/x/run.lnk", cache.ScopePerFile},
		{"/x/track.mp3", cache.ScopePerExtension},
		{"/x/data.zip", cache.ScopePerExtension},
		{"/x/clip.mp4", cache.ScopePerExtension},
	}
	for _, tt := range tests {
		key := p.keyFor(tt.path, 64, 64, normalize.ProfileDense)
		if key.Scope != tt.want {
			t.Errorf("keyFor(%q).Scope = %v, want %v", tt.path, key.Scope, tt.want)
		}
	}
}
