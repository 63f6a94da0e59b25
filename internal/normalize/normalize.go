package normalize

import (
	"image"
	"image/draw"

	"icon-engine/internal/filekind"
	"icon-engine/internal/render"

	"github.com/disintegration/imaging"
)

// Profile selects the visual treatment applied to a resolved icon.
type Profile string

const (
	// ProfileDense is the grid/list treatment: content scaled to at
	// most denseScale of the box, centered, rounded corners.
	ProfileDense Profile = "dense"

	// ProfileCompact fills the box edge to edge with no corner mask.
	ProfileCompact Profile = "compact"
)

const (
	// denseScale is the share of the target box the content may
	// occupy under ProfileDense.
	denseScale = 0.9

	// cornerRadiusDivisor derives the rounded-corner radius from the
	// shorter box side.
	cornerRadiusDivisor = 8
)

// Normalize composites src into a canvas of exactly w by h under the
// given profile. src may be nil or degenerate; the category fallback
// for the path is substituted so the result is never nil and always
// has the exact requested dimensions.
func Normalize(src image.Image, path string, w, h int, profile Profile) image.Image {
	if w <= 0 {
		w = 1
	}
	if h <= 0 {
		h = 1
	}
	if src == nil || src.Bounds().Dx() <= 0 || src.Bounds().Dy() <= 0 {
		src = render.CategoryIcon(filekind.CategoryOfPath(path), w, h)
	}

	switch profile {
	case ProfileCompact:
		return compact(src, w, h)
	default:
		return dense(src, w, h)
	}
}

// dense fits the content into denseScale of the box, centers it on a
// transparent canvas, and rounds the corners.
func dense(src image.Image, w, h int) image.Image {
	fitW := int(float64(w) * denseScale)
	fitH := int(float64(h) * denseScale)
	if fitW < 1 {
		fitW = 1
	}
	if fitH < 1 {
		fitH = 1
	}

	content := imaging.Fit(src, fitW, fitH, imaging.Lanczos)

	canvas := image.NewNRGBA(image.Rect(0, 0, w, h))
	offset := image.Pt((w-content.Bounds().Dx())/2, (h-content.Bounds().Dy())/2)
	draw.Draw(canvas, content.Bounds().Add(offset), content, image.Point{}, draw.Over)

	side := w
	if h < side {
		side = h
	}
	applyCornerMask(canvas, side/cornerRadiusDivisor)
	return canvas
}

// compact scales the content to cover the whole box and crops the
// overflow, anchored at the center.
func compact(src image.Image, w, h int) image.Image {
	return imaging.Fill(src, w, h, imaging.Center, imaging.Lanczos)
}

// applyCornerMask zeroes alpha outside a rounded rectangle of the
// given corner radius, in place.
func applyCornerMask(img *image.NRGBA, radius int) {
	if radius <= 0 {
		return
	}
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()
	r2 := radius * radius

	corners := []struct {
		cx, cy int // circle center for this corner, image coords
		x0, y0 int // corner region origin
	}{
		{radius - 1, radius - 1, 0, 0},
		{w - radius, radius - 1, w - radius, 0},
		{radius - 1, h - radius, 0, h - radius},
		{w - radius, h - radius, w - radius, h - radius},
	}

	for _, c := range corners {
		for y := c.y0; y < c.y0+radius; y++ {
			for x := c.x0; x < c.x0+radius; x++ {
				dx, dy := x-c.cx, y-c.cy
				if dx*dx+dy*dy > r2 {
					img.Pix[img.PixOffset(x, y)+3] = 0
				}
			}
		}
	}
}
