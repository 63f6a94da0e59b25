package render

import (
	"embed"
	"image"
	"image/draw"

	"icon-engine/internal/filekind"
	"icon-engine/internal/logging"
)

//go:embed glyphs/*.svg
var glyphFS embed.FS

// glyphScale is the share of the canvas the glyph occupies; the rest
// stays transparent padding.
const glyphScale = 0.72

// CategoryIcon renders the terminal fallback for a category: the
// embedded vector glyph, tinted with the category color, centered on a
// transparent canvas of exactly w by h. It always returns an image;
// when the glyph cannot be rasterized it degrades to a drawn block in
// the category tint.
func CategoryIcon(cat filekind.Category, w, h int) image.Image {
	if w <= 0 {
		w = 1
	}
	if h <= 0 {
		h = 1
	}

	side := w
	if h < side {
		side = h
	}
	glyphSide := int(float64(side) * glyphScale)
	if glyphSide < 1 {
		glyphSide = 1
	}

	glyph := renderGlyph(cat, glyphSide)

	canvas := image.NewNRGBA(image.Rect(0, 0, w, h))
	offset := image.Pt((w-glyphSide)/2, (h-glyphSide)/2)
	draw.Draw(canvas, glyph.Bounds().Add(offset), glyph, image.Point{}, draw.Over)
	return canvas
}

// renderGlyph rasterizes and tints one category glyph at side px.
func renderGlyph(cat filekind.Category, side int) image.Image {
	data, err := glyphFS.ReadFile("glyphs/" + string(cat) + ".svg")
	if err != nil {
		data, err = glyphFS.ReadFile("glyphs/other.svg")
	}
	if err == nil {
		if raster, rerr := rasterizeSVG(data, side, side); rerr == nil {
			return tint(raster, cat)
		} else {
			logging.Warn("category: glyph rasterization failed for %s: %v", cat, rerr)
		}
	}
	return solidBlock(cat, side)
}

// tint recolors a rasterized glyph: the glyph's coverage (alpha)
// stays, its color is replaced by the category tint.
func tint(src *image.RGBA, cat filekind.Category) image.Image {
	c := filekind.Tint(cat)
	b := src.Bounds()
	out := image.NewNRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))

	for y := 0; y < b.Dy(); y++ {
		for x := 0; x < b.Dx(); x++ {
			_, _, _, a := src.At(b.Min.X+x, b.Min.Y+y).RGBA()
			i := out.PixOffset(x, y)
			out.Pix[i] = c.R
			out.Pix[i+1] = c.G
			out.Pix[i+2] = c.B
			out.Pix[i+3] = uint8(a >> 8)
		}
	}
	return out
}

// solidBlock is the degenerate glyph: a tinted square with a
// transparent border. Only reachable when the embedded SVG set is
// unusable.
func solidBlock(cat filekind.Category, side int) image.Image {
	c := filekind.Tint(cat)
	out := image.NewNRGBA(image.Rect(0, 0, side, side))
	inset := side / 8
	for y := inset; y < side-inset; y++ {
		for x := inset; x < side-inset; x++ {
			i := out.PixOffset(x, y)
			out.Pix[i] = c.R
			out.Pix[i+1] = c.G
			out.Pix[i+2] = c.B
			out.Pix[i+3] = 0xFF
		}
	}
	return out
}

// Placeholder returns the fixed minimal image served if even the
// category tier somehow fails. Callers treat it as the absolute floor
// of the fallback chain.
func Placeholder(w, h int) image.Image {
	if w <= 0 {
		w = 1
	}
	if h <= 0 {
		h = 1
	}
	return solidBlockSized(w, h)
}

func solidBlockSized(w, h int) image.Image {
	out := image.NewNRGBA(image.Rect(0, 0, w, h))
	c := filekind.Tint(filekind.CategoryOther)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			i := out.PixOffset(x, y)
			out.Pix[i] = c.R
			out.Pix[i+1] = c.G
			out.Pix[i+2] = c.B
			out.Pix[i+3] = 0xFF
		}
	}
	return out
}
