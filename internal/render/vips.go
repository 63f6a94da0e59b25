package render

import (
	"bytes"
	"fmt"
	"image"
	"path/filepath"
	"sync"

	"icon-engine/internal/logging"

	"github.com/davidbyttow/govips/v2/vips"
	"github.com/disintegration/imaging"
)

var (
	vipsMu          sync.Mutex
	vipsInitialized bool
	vipsAvailable   bool
)

// InitVips starts libvips with conservative memory settings. Call once
// at startup; decode falls back to pure-Go paths when vips is not
// initialized.
func InitVips() {
	vipsMu.Lock()
	defer vipsMu.Unlock()

	if vipsInitialized {
		return
	}

	vipsLevel := vips.LogLevelError
	if logging.IsDebugEnabled() {
		vipsLevel = vips.LogLevelWarning
	}
	vips.LoggingSettings(func(domain string, level vips.LogLevel, msg string) {
		if level <= vips.LogLevelError {
			logging.Error("[vips/%s] %s", domain, msg)
		} else {
			logging.Debug("[vips/%s] %s", domain, msg)
		}
	}, vipsLevel)

	vips.Startup(&vips.Config{
		ConcurrencyLevel: 1,
		MaxCacheMem:      50 * 1024 * 1024,
		MaxCacheSize:     100,
	})

	vipsInitialized = true
	vipsAvailable = true
	logging.Info("libvips initialized (version: %s)", vips.Version)
}

// ShutdownVips releases libvips resources.
func ShutdownVips() {
	vipsMu.Lock()
	defer vipsMu.Unlock()

	if vipsInitialized {
		vips.Shutdown()
		vipsInitialized = false
		vipsAvailable = false
		logging.Info("libvips shutdown complete")
	}
}

// IsVipsAvailable reports whether the vips decode path can be used.
func IsVipsAvailable() bool {
	vipsMu.Lock()
	defer vipsMu.Unlock()
	return vipsAvailable
}

// loadImageWithVips decodes a file with decode-time shrinking, which
// keeps memory flat even for very large sources. The result is
// re-decoded from PNG so the rest of the engine keeps working with
// image.Image, with alpha intact.
func loadImageWithVips(path string, targetWidth, targetHeight int) (image.Image, error) {
	if !IsVipsAvailable() {
		return nil, fmt.Errorf("libvips not available")
	}

	params := vips.NewImportParams()
	params.FailOnError.Set(false)
	params.AutoRotate.Set(true)

	ref, err := vips.LoadImageFromFile(path, params)
	if err != nil {
		return nil, fmt.Errorf("vips load: %w", err)
	}
	defer ref.Close()

	logging.Debug("vips loaded %s: %dx%d, thumbnailing to %dx%d",
		filepath.Base(path), ref.Width(), ref.Height(), targetWidth, targetHeight)

	if err := ref.Thumbnail(targetWidth, targetHeight, vips.InterestingNone); err != nil {
		return nil, fmt.Errorf("vips thumbnail: %w", err)
	}

	// PNG keeps the alpha channel, unlike the JPEG export path.
	out, _, err := ref.ExportPng(vips.NewPngExportParams())
	if err != nil {
		return nil, fmt.Errorf("vips export: %w", err)
	}

	img, err := imaging.Decode(bytes.NewReader(out))
	if err != nil {
		return nil, fmt.Errorf("decode vips output: %w", err)
	}
	return img, nil
}
