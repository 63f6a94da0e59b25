package render

import (
	"bytes"
	"image"
	"os/exec"

	"icon-engine/internal/logging"

	"github.com/disintegration/imaging"
)

// documentDPI is the fixed rasterization resolution for page one.
const documentDPI = "96"

// DocumentRenderer rasterizes the first page of a paginated document
// by piping it through pdftoppm. The page is then scaled to the exact
// target size, deliberately ignoring the page's aspect ratio.
type DocumentRenderer struct{}

// Name implements Renderer.
func (DocumentRenderer) Name() string { return "document" }

// Render implements Renderer.
func (DocumentRenderer) Render(path string, w, h int) (image.Image, bool) {
	if _, err := exec.LookPath("pdftoppm"); err != nil {
		logging.Debug("document: pdftoppm not found: %v", err)
		return nil, false
	}

	cmd := exec.Command("pdftoppm",
		"-png",
		"-f", "1",
		"-l", "1",
		"-r", documentDPI,
		"-singlefile",
		path,
		"-", // page to stdout
	)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		logging.Debug("document: pdftoppm failed for %s: %v, stderr: %s",
			path, err, stderr.String())
		return nil, false
	}
	if stdout.Len() == 0 {
		logging.Debug("document: pdftoppm produced no output for %s", path)
		return nil, false
	}

	page, _, err := image.Decode(&stdout)
	if err != nil {
		logging.Debug("document: undecodable page for %s: %v", path, err)
		return nil, false
	}

	return imaging.Resize(page, w, h, imaging.Lanczos), true
}
