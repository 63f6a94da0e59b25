package inspect

import (
	"image"
)

const (
	// alphaFloor is the minimum 8-bit alpha for a pixel to count as
	// visible at all.
	alphaFloor = 12

	// whiteFloor is the minimum 8-bit channel value above which a fully
	// opaque pixel is considered near-white (background paper).
	whiteFloor = 245

	// DefaultWhitespaceThreshold is the bounding-box fill ratio below
	// which a result is flagged as excessive whitespace.
	DefaultWhitespaceThreshold = 0.4
)

// visibleAt reports whether the pixel at (x, y) carries visible
// content: enough alpha, and not near-white.
func visibleAt(img image.Image, x, y int) bool {
	r, g, b, a := img.At(x, y).RGBA()
	// RGBA returns 16-bit premultiplied channels.
	if a>>8 <= alphaFloor {
		return false
	}
	if r>>8 >= whiteFloor && g>>8 >= whiteFloor && b>>8 >= whiteFloor {
		return false
	}
	return true
}

// HasVisibleContent samples a small fixed set of points (the center
// plus the two diagonal quadrant centers) and reports whether any
// carries visible content. It is a cheap acceptance gate for resolved
// icons; use ContentBounds for an exhaustive scan.
func HasVisibleContent(img image.Image) bool {
	if img == nil {
		return false
	}
	b := img.Bounds()
	if b.Dx() <= 0 || b.Dy() <= 0 {
		return false
	}

	points := []image.Point{
		{X: b.Min.X + b.Dx()/2, Y: b.Min.Y + b.Dy()/2},
		{X: b.Min.X + b.Dx()/4, Y: b.Min.Y + b.Dy()/4},
		{X: b.Min.X + 3*b.Dx()/4, Y: b.Min.Y + 3*b.Dy()/4},
	}
	for _, p := range points {
		if visibleAt(img, p.X, p.Y) {
			return true
		}
	}
	return false
}

// ContentBounds scans every pixel and returns the bounding rectangle
// of visible content. When no pixel is visible the returned rectangle
// is empty (Min >= Max on both axes).
//
// This is an O(width*height) scan; it is intended for thumbnail-sized
// buffers (<=256 per side), not full-resolution images.
func ContentBounds(img image.Image) image.Rectangle {
	if img == nil {
		return image.Rectangle{}
	}
	b := img.Bounds()

	minX, minY := b.Max.X, b.Max.Y
	maxX, maxY := b.Min.X, b.Min.Y
	found := false

	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			if !visibleAt(img, x, y) {
				continue
			}
			found = true
			if x < minX {
				minX = x
			}
			if y < minY {
				minY = y
			}
			if x+1 > maxX {
				maxX = x + 1
			}
			if y+1 > maxY {
				maxY = y + 1
			}
		}
	}

	// image.Rect would canonicalize the swapped no-content coordinates
	// into the full bounds, so build the rectangle directly.
	if !found {
		return image.Rectangle{}
	}
	return image.Rectangle{Min: image.Pt(minX, minY), Max: image.Pt(maxX, maxY)}
}

// WhitespaceRatio returns the fraction of the image that carries no
// visible content, computed from the visible pixel count against the
// total pixel count.
func WhitespaceRatio(img image.Image) float64 {
	if img == nil {
		return 1.0
	}
	b := img.Bounds()
	total := b.Dx() * b.Dy()
	if total <= 0 {
		return 1.0
	}

	visible := 0
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			if visibleAt(img, x, y) {
				visible++
			}
		}
	}
	return 1.0 - float64(visible)/float64(total)
}

// ExcessiveWhitespace reports whether the visible content fills too
// little of the image. threshold is the minimum acceptable ratio of
// the content bounding box to the full canvas; pass
// DefaultWhitespaceThreshold unless the caller has a reason to tune it.
func ExcessiveWhitespace(img image.Image, threshold float64) bool {
	if img == nil {
		return true
	}
	b := img.Bounds()
	total := b.Dx() * b.Dy()
	if total <= 0 {
		return true
	}

	content := ContentBounds(img)
	if content.Empty() {
		return true
	}
	fill := float64(content.Dx()*content.Dy()) / float64(total)
	return fill < threshold
}
