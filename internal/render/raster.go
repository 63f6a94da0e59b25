package render

import (
	"image"
	"os"

	"icon-engine/internal/filekind"
	"icon-engine/internal/logging"

	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	"github.com/disintegration/imaging"
	"github.com/fyne-io/image/ico"
	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/webp"
)

const (
	// maxSourceDimension caps the side length of a source image before
	// it is decoded through the pure-Go path.
	maxSourceDimension = 4096

	// maxSourcePixels caps total pixels; ~20MP is ~80MB of RGBA.
	maxSourcePixels = 20_000_000
)

// RasterRenderer thumbnails raster image files. Decode order: vips
// with decode-time shrinking, then imaging with EXIF auto-orientation,
// then the stdlib decoders. The result keeps its alpha channel and
// aspect ratio.
type RasterRenderer struct{}

// Name implements Renderer.
func (RasterRenderer) Name() string { return "raster" }

// Render implements Renderer.
func (RasterRenderer) Render(path string, w, h int) (image.Image, bool) {
	var img image.Image
	var err error

	switch filekind.Ext(path) {
	case ".svg":
		img, err = rasterizeSVGFile(path, w, h)
	case ".ico":
		img, err = decodeIco(path)
	default:
		img, err = loadConstrained(path, w, h)
	}
	if err != nil {
		logging.Debug("raster: decode failed for %s: %v", path, err)
		return nil, false
	}
	if img == nil {
		return nil, false
	}

	return imaging.Fit(img, w, h, imaging.Lanczos), true
}

// loadConstrained decodes a raster file, shrinking oversized sources
// before they expand in memory.
func loadConstrained(path string, targetW, targetH int) (image.Image, error) {
	if IsVipsAvailable() {
		if img, err := loadImageWithVips(path, targetW, targetH); err == nil {
			return img, nil
		}
		// vips miss is not fatal; the pure-Go chain follows.
	}

	if dims, err := probeDimensions(path); err == nil {
		if dims.X > maxSourceDimension || dims.Y > maxSourceDimension ||
			dims.X*dims.Y > maxSourcePixels {
			return loadDownscaled(path, dims)
		}
	}

	img, err := imaging.Open(path, imaging.AutoOrientation(true))
	if err == nil {
		return img, nil
	}
	logging.Debug("raster: imaging.Open failed for %s: %v, trying stdlib decode", path, err)

	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	img, _, err = image.Decode(f)
	return img, err
}

// probeDimensions reads only the image header.
func probeDimensions(path string) (image.Point, error) {
	f, err := os.Open(path)
	if err != nil {
		return image.Point{}, err
	}
	defer f.Close()

	cfg, _, err := image.DecodeConfig(f)
	if err != nil {
		return image.Point{}, err
	}
	return image.Point{X: cfg.Width, Y: cfg.Height}, nil
}

// loadDownscaled loads an oversized image and immediately reduces it
// below the processing caps.
func loadDownscaled(path string, dims image.Point) (image.Image, error) {
	w, h := dims.X, dims.Y
	if w > maxSourceDimension || h > maxSourceDimension {
		if w > h {
			h = h * maxSourceDimension / w
			w = maxSourceDimension
		} else {
			w = w * maxSourceDimension / h
			h = maxSourceDimension
		}
	}
	if w*h > maxSourcePixels {
		scale := float64(maxSourcePixels) / float64(w*h)
		w = int(float64(w) * scale)
		h = int(float64(h) * scale)
	}

	logging.Info("raster: constraining large image %s from %dx%d to %dx%d",
		path, dims.X, dims.Y, w, h)

	img, err := imaging.Open(path, imaging.AutoOrientation(true))
	if err != nil {
		return nil, err
	}
	return imaging.Resize(img, w, h, imaging.Lanczos), nil
}

// decodeIco decodes an icon container, picking its best frame.
func decodeIco(path string) (image.Image, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return ico.Decode(f)
}
