package render

import (
	"bytes"
	"image"
	"os"

	"github.com/srwiley/oksvg"
	"github.com/srwiley/rasterx"
)

// rasterizeSVG renders SVG bytes onto a transparent RGBA canvas of the
// given size.
func rasterizeSVG(data []byte, w, h int) (*image.RGBA, error) {
	icon, err := oksvg.ReadIconStream(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	icon.SetTarget(0, 0, float64(w), float64(h))

	out := image.NewRGBA(image.Rect(0, 0, w, h))
	scanner := rasterx.NewScannerGV(w, h, out, out.Bounds())
	icon.Draw(rasterx.NewDasher(w, h, scanner), 1.0)
	return out, nil
}

// rasterizeSVGFile renders an SVG file at the given size.
func rasterizeSVGFile(path string, w, h int) (image.Image, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return rasterizeSVG(data, w, h)
}
