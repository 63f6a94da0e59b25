package render

import (
	"archive/zip"
	"encoding/xml"
	"image"
	"image/color"
	"image/draw"
	"os"
	"strings"

	"icon-engine/internal/filekind"
	"icon-engine/internal/logging"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
)

const (
	// maxPreviewParagraphs caps how much text lands on the canvas.
	maxPreviewParagraphs = 15

	previewMargin     = 6
	previewLineHeight = 14
)

// OfficeRenderer draws a text preview for office and plain-text
// documents: the first non-empty paragraphs, left-aligned on a white
// canvas, clipped to the target height.
type OfficeRenderer struct{}

// Name implements Renderer.
func (OfficeRenderer) Name() string { return "office" }

// Render implements Renderer.
func (OfficeRenderer) Render(path string, w, h int) (image.Image, bool) {
	paragraphs, err := extractParagraphs(path)
	if err != nil {
		logging.Debug("office: text extraction failed for %s: %v", path, err)
		return nil, false
	}
	if len(paragraphs) == 0 {
		return nil, false
	}
	return drawTextPreview(paragraphs, w, h), true
}

// extractParagraphs pulls the first paragraphs out of a document,
// dispatching on extension.
func extractParagraphs(path string) ([]string, error) {
	switch filekind.Ext(path) {
	case ".docx":
		return docxParagraphs(path, "word/document.xml")
	case ".odt":
		return docxParagraphs(path, "content.xml")
	default:
		return plainParagraphs(path)
	}
}

// plainParagraphs reads non-empty lines from a text file.
func plainParagraphs(path string) ([]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var out []string
	for _, line := range strings.Split(string(data), "\n") {
		line = strings.TrimRight(line, "\r")
		if strings.TrimSpace(line) == "" {
			continue
		}
		out = append(out, line)
		if len(out) >= maxPreviewParagraphs {
			break
		}
	}
	return out, nil
}

// docxParagraphs streams the document XML inside a zip container and
// collects paragraph text. Both OOXML (w:p/w:t) and ODF (text:p) keep
// paragraph text in character data below a paragraph element, so a
// token scan over "p" elements covers both.
func docxParagraphs(path, member string) ([]string, error) {
	zr, err := zip.OpenReader(path)
	if err != nil {
		return nil, err
	}
	defer zr.Close()

	var doc *zip.File
	for _, f := range zr.File {
		if f.Name == member {
			doc = f
			break
		}
	}
	if doc == nil {
		return nil, os.ErrNotExist
	}

	rc, err := doc.Open()
	if err != nil {
		return nil, err
	}
	defer rc.Close()

	var out []string
	var current strings.Builder
	depth := 0 // nesting depth inside a paragraph element

	decoder := xml.NewDecoder(rc)
	for len(out) < maxPreviewParagraphs {
		tok, err := decoder.Token()
		if err != nil {
			break // io.EOF or malformed tail; keep what we have
		}
		switch t := tok.(type) {
		case xml.StartElement:
			if t.Name.Local == "p" {
				depth++
			}
		case xml.EndElement:
			if t.Name.Local == "p" && depth > 0 {
				depth--
				if depth == 0 {
					text := strings.TrimSpace(current.String())
					current.Reset()
					if text != "" {
						out = append(out, text)
					}
				}
			}
		case xml.CharData:
			if depth > 0 {
				current.Write(t)
			}
		}
	}
	return out, nil
}

// drawTextPreview renders paragraphs as left-aligned lines, clipped to
// the canvas height.
func drawTextPreview(paragraphs []string, w, h int) image.Image {
	canvas := image.NewNRGBA(image.Rect(0, 0, w, h))
	draw.Draw(canvas, canvas.Bounds(), image.White, image.Point{}, draw.Src)

	drawer := &font.Drawer{
		Dst:  canvas,
		Src:  image.NewUniform(color.NRGBA{R: 0x33, G: 0x33, B: 0x33, A: 0xFF}),
		Face: basicfont.Face7x13,
	}

	y := previewMargin + basicfont.Face7x13.Ascent
	for _, p := range paragraphs {
		if y > h-previewMargin {
			break
		}
		drawer.Dot = fixed.P(previewMargin, y)
		drawer.DrawString(p)
		y += previewLineHeight
	}
	return canvas
}
