package render

import (
	"image"

	"icon-engine/internal/filekind"
)

// A Renderer produces a preview image for a path at the requested
// size. ok is false when the renderer has no result for this file;
// callers fall through to the next resolution tier.
type Renderer interface {
	Name() string
	Render(path string, w, h int) (img image.Image, ok bool)
}

// officeExts are the text-bearing formats the office renderer can
// extract paragraphs from.
var officeExts = map[string]bool{
	".docx": true,
	".odt":  true,
	".txt":  true,
	".md":   true,
	".rtf":  true,
	".log":  true,
	".csv":  true,
}

// documentExts are paginated formats rasterized through pdftoppm.
var documentExts = map[string]bool{
	".pdf": true,
}

// For returns the type-specific renderer for a path, or nil when no
// renderer applies and resolution should start at the native tiers.
func For(path string) Renderer {
	ext := filekind.Ext(path)
	switch {
	case documentExts[ext]:
		return DocumentRenderer{}
	case officeExts[ext]:
		return OfficeRenderer{}
	case filekind.CategoryOf(ext) == filekind.CategoryImage:
		return RasterRenderer{}
	}
	return nil
}

// Trusted reports whether a renderer's output bypasses the pixel
// visibility gate. Image thumbnails and document pages legitimately
// render near-blank (a white page is a real preview); text previews
// are not exempt.
func Trusted(r Renderer) bool {
	if r == nil {
		return false
	}
	switch r.Name() {
	case "raster", "document":
		return true
	}
	return false
}
