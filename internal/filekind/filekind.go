package filekind

import (
	"image/color"
	"path/filepath"
	"strings"
)

// Category classifies a file for icon selection purposes.
type Category string

const (
	// CategoryFolder represents a directory.
	CategoryFolder Category = "folder"
	// CategoryDocument represents paginated documents (PDF and friends).
	CategoryDocument Category = "document"
	// CategorySheet represents spreadsheet files.
	CategorySheet Category = "sheet"
	// CategorySlides represents presentation files.
	CategorySlides Category = "slides"
	// CategoryImage represents raster or vector image files.
	CategoryImage Category = "image"
	// CategoryVideo represents video files.
	CategoryVideo Category = "video"
	// CategoryAudio represents audio files.
	CategoryAudio Category = "audio"
	// CategoryArchive represents compressed archive files.
	CategoryArchive Category = "archive"
	// CategoryExecutable represents executables and icon containers.
	CategoryExecutable Category = "executable"
	// CategoryOther represents anything not otherwise classified.
	CategoryOther Category = "other"
)

// DocumentExtensions maps extensions of paginated document formats.
var DocumentExtensions = map[string]bool{
	".pdf": true,
	".doc": true, ".docx": true,
	".odt": true, ".rtf": true,
	".txt": true, ".md": true,
}

// SheetExtensions maps spreadsheet extensions.
var SheetExtensions = map[string]bool{
	".xls": true, ".xlsx": true,
	".ods": true, ".csv": true, ".tsv": true,
}

// SlidesExtensions maps presentation extensions.
var SlidesExtensions = map[string]bool{
	".ppt": true, ".pptx": true, ".odp": true,
}

// ImageExtensions maps supported image extensions.
var ImageExtensions = map[string]bool{
	".jpg": true, ".jpeg": true, ".png": true, ".gif": true,
	".bmp": true, ".webp": true, ".svg": true, ".ico": true,
	".tiff": true, ".tif": true, ".heic": true, ".heif": true,
	".avif": true,
}

// VideoExtensions maps supported video extensions.
var VideoExtensions = map[string]bool{
	".mp4": true, ".mkv": true, ".avi": true, ".mov": true,
	".wmv": true, ".flv": true, ".webm": true, ".m4v": true,
	".mpeg": true, ".mpg": true, ".3gp": true, ".ts": true,
}

// AudioExtensions maps supported audio extensions.
var AudioExtensions = map[string]bool{
	".mp3": true, ".flac": true, ".wav": true, ".ogg": true,
	".m4a": true, ".aac": true, ".wma": true, ".opus": true,
}

// ArchiveExtensions maps archive extensions.
var ArchiveExtensions = map[string]bool{
	".zip": true, ".rar": true, ".7z": true, ".tar": true,
	".gz": true, ".bz2": true, ".xz": true, ".iso": true,
}

// ExecutableExtensions maps executables and icon-bearing containers.
var ExecutableExtensions = map[string]bool{
	".exe": true, ".dll": true, ".msi": true, ".bat": true,
	".cmd": true, ".sh": true, ".appimage": true,
}

// ShortcutExtensions maps link-file extensions whose target must be
// resolved before icon lookup.
var ShortcutExtensions = map[string]bool{
	".lnk": true, ".desktop": true, ".url": true,
}

// CategoryOf returns the icon category for a lowercase extension
// including the leading dot (e.g. ".pdf"). Returns CategoryOther for
// unrecognised extensions.
func CategoryOf(ext string) Category {
	switch {
	case DocumentExtensions[ext]:
		return CategoryDocument
	case SheetExtensions[ext]:
		return CategorySheet
	case SlidesExtensions[ext]:
		return CategorySlides
	case ImageExtensions[ext]:
		return CategoryImage
	case VideoExtensions[ext]:
		return CategoryVideo
	case AudioExtensions[ext]:
		return CategoryAudio
	case ArchiveExtensions[ext]:
		return CategoryArchive
	case ExecutableExtensions[ext]:
		return CategoryExecutable
	}
	return CategoryOther
}

// CategoryOfPath classifies a path by its extension.
func CategoryOfPath(path string) Category {
	return CategoryOf(Ext(path))
}

// Ext returns the lowercase extension of a path including the dot.
func Ext(path string) string {
	return strings.ToLower(filepath.Ext(path))
}

// IsShortcut reports whether the path looks like a link file.
func IsShortcut(path string) bool {
	return ShortcutExtensions[Ext(path)]
}

// Tints maps each category to the fill color used by the category
// glyph renderer.
var Tints = map[Category]color.NRGBA{
	CategoryFolder:     {R: 0xF0, G: 0xB4, B: 0x29, A: 0xFF},
	CategoryDocument:   {R: 0x3B, G: 0x82, B: 0xF6, A: 0xFF},
	CategorySheet:      {R: 0x22, G: 0x9E, B: 0x54, A: 0xFF},
	CategorySlides:     {R: 0xE8, G: 0x6A, B: 0x2A, A: 0xFF},
	CategoryImage:      {R: 0x8B, G: 0x5C, B: 0xF6, A: 0xFF},
	CategoryVideo:      {R: 0xDB, G: 0x3A, B: 0x5B, A: 0xFF},
	CategoryAudio:      {R: 0x0E, G: 0xA5, B: 0xB5, A: 0xFF},
	CategoryArchive:    {R: 0x92, G: 0x6B, B: 0x40, A: 0xFF},
	CategoryExecutable: {R: 0x52, G: 0x5C, B: 0x6B, A: 0xFF},
	CategoryOther:      {R: 0x6B, G: 0x72, B: 0x80, A: 0xFF},
}

// Tint returns the glyph tint for a category, falling back to the
// CategoryOther tint.
func Tint(c Category) color.NRGBA {
	if t, ok := Tints[c]; ok {
		return t
	}
	return Tints[CategoryOther]
}
