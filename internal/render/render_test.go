package render

import (
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"icon-engine/internal/filekind"
	"icon-engine/internal/inspect"
)

func TestForDispatch(t *testing.T) {
	tests := []struct {
		path string
		want string
	}{
		{"report.pdf", "document"},
		{"notes.docx", "office"},
		{"readme.txt", "office"},
		{"minutes.odt", "office"},
		{"photo.jpg", "raster"},
		{"diagram.svg", "raster"},
		{"app.ico", "raster"},
		{"movie.mp4", ""},
		{"archive.zip", ""},
		{"program.exe", ""},
		{"noextension", ""},
	}
	for _, tt := range tests {
		r := For(tt.path)
		got := ""
		if r != nil {
			got = r.Name()
		}
		if got != tt.want {
			t.Errorf("For(%q) = %q, want %q", tt.path, got, tt.want)
		}
	}
}

func TestTrusted(t *testing.T) {
	if !Trusted(RasterRenderer{}) {
		t.Error("raster renderer should bypass the visibility gate")
	}
	if !Trusted(DocumentRenderer{}) {
		t.Error("document renderer should bypass the visibility gate")
	}
	if Trusted(OfficeRenderer{}) {
		t.Error("office renderer must not bypass the visibility gate")
	}
	if Trusted(nil) {
		t.Error("nil renderer must not be trusted")
	}
}

func TestCategoryIconDimensions(t *testing.T) {
	for _, cat := range []filekind.Category{
		filekind.CategoryDocument,
		filekind.CategoryAudio,
		filekind.CategoryFolder,
		filekind.CategoryOther,
	} {
		img := CategoryIcon(cat, 64, 64)
		if img == nil {
			t.Fatalf("CategoryIcon(%s) returned nil", cat)
		}
		b := img.Bounds()
		if b.Dx() != 64 || b.Dy() != 64 {
			t.Errorf("CategoryIcon(%s) bounds %v, want 64x64", cat, b)
		}
		if inspect.ContentBounds(img).Empty() {
			t.Errorf("CategoryIcon(%s) produced a blank image", cat)
		}
	}
}

func TestCategoryIconNonSquare(t *testing.T) {
	img := CategoryIcon(filekind.CategoryVideo, 128, 64)
	b := img.Bounds()
	if b.Dx() != 128 || b.Dy() != 64 {
		t.Errorf("bounds %v, want 128x64", b)
	}
}

func TestCategoryIconTint(t *testing.T) {
	img := CategoryIcon(filekind.CategoryAudio, 64, 64)
	want := filekind.Tint(filekind.CategoryAudio)

	// Find an opaque pixel and check it carries the category color.
	b := img.Bounds()
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			c := color.NRGBAModel.Convert(img.At(x, y)).(color.NRGBA)
			if c.A == 0xFF {
				if c.R != want.R || c.G != want.G || c.B != want.B {
					t.Errorf("opaque pixel at (%d,%d) = %v, want tint %v", x, y, c, want)
				}
				return
			}
		}
	}
	t.Error("no fully opaque pixel found in category icon")
}

func TestCategoryIconZeroSize(t *testing.T) {
	img := CategoryIcon(filekind.CategoryImage, 0, 0)
	if img == nil {
		t.Fatal("returned nil for zero size")
	}
	if img.Bounds().Empty() {
		t.Error("bounds should never be empty")
	}
}

func TestPlaceholder(t *testing.T) {
	img := Placeholder(48, 48)
	b := img.Bounds()
	if b.Dx() != 48 || b.Dy() != 48 {
		t.Errorf("bounds %v, want 48x48", b)
	}
	if !inspect.HasVisibleContent(img) {
		t.Error("placeholder must be visible")
	}
}

func TestRasterRendererPNG(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "swatch.png")
	writePNG(t, path, 200, 100, color.NRGBA{R: 30, G: 90, B: 200, A: 255})

	img, ok := RasterRenderer{}.Render(path, 64, 64)
	if !ok {
		t.Fatal("render failed for a valid PNG")
	}
	b := img.Bounds()
	if b.Dx() > 64 || b.Dy() > 64 {
		t.Errorf("result %v exceeds 64x64 box", b)
	}
	// 2:1 source fitted into a square box keeps its aspect ratio.
	if b.Dx() != 64 || b.Dy() != 32 {
		t.Errorf("result %v, want 64x32 for a 2:1 source", b)
	}
}

func TestRasterRendererMissingFile(t *testing.T) {
	_, ok := RasterRenderer{}.Render(filepath.Join(t.TempDir(), "gone.png"), 64, 64)
	if ok {
		t.Error("expected no result for a missing file")
	}
}

func TestRasterRendererCorruptFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "broken.png")
	if err := os.WriteFile(path, []byte("not an image"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, ok := (RasterRenderer{}).Render(path, 64, 64); ok {
		t.Error("expected no result for corrupt data")
	}
}

func TestRasterRendererSVG(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "shape.svg")
	svg := `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 10 10"><rect x="1" y="1" width="8" height="8" fill="#000"/></svg>`
	if err := os.WriteFile(path, []byte(svg), 0o644); err != nil {
		t.Fatal(err)
	}

	img, ok := RasterRenderer{}.Render(path, 32, 32)
	if !ok {
		t.Fatal("render failed for a valid SVG")
	}
	if !inspect.HasVisibleContent(img) {
		t.Error("rasterized SVG should have visible content")
	}
}

func TestOfficeRendererPlainText(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "notes.txt")
	content := "First paragraph of notes.\n\nSecond paragraph.\nThird line runs on.\n"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	img, ok := OfficeRenderer{}.Render(path, 128, 128)
	if !ok {
		t.Fatal("render failed for a plain text file")
	}
	b := img.Bounds()
	if b.Dx() != 128 || b.Dy() != 128 {
		t.Errorf("bounds %v, want exactly 128x128", b)
	}
	// Text sits at the top of the canvas, so use the exhaustive scan
	// rather than the point-sample gate.
	if inspect.ContentBounds(img).Empty() {
		t.Error("text preview should contain drawn glyphs")
	}
}

func TestOfficeRendererEmptyFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "empty.txt")
	if err := os.WriteFile(path, nil, 0o644); err != nil {
		t.Fatal(err)
	}
	if _, ok := (OfficeRenderer{}).Render(path, 64, 64); ok {
		t.Error("expected no result for an empty file")
	}
}

func TestRasterizeSVGInvalid(t *testing.T) {
	if _, err := rasterizeSVG([]byte("<not-svg"), 16, 16); err == nil {
		t.Error("expected an error for malformed SVG")
	}
}

func writePNG(t *testing.T, path string, w, h int, c color.NRGBA) {
	t.Helper()
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetNRGBA(x, y, c)
		}
	}
	f, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	if err := png.Encode(f, img); err != nil {
		t.Fatal(err)
	}
}
