package native

import (
	"image"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"icon-engine/internal/filekind"
	"icon-engine/internal/logging"

	_ "image/gif"
	_ "image/png"

	_ "golang.org/x/image/bmp"
)

// Theme reads icons from an on-disk icon theme: a root directory with
// one subdirectory per size class (256, 128, 64, 48), each holding
// "<ext>.png" files for extensions (e.g. "pdf.png"), "category-<name>.png"
// files for whole categories, and "folder.png" for directories.
type Theme struct {
	root    string
	classes []int // descending
}

// SizeClasses are the resolution classes a theme may provide,
// largest first.
var SizeClasses = []int{256, 128, 64, 48}

// LegacyClassMax is the largest class the legacy tier may use.
const LegacyClassMax = 48

// NewTheme creates a theme rooted at dir. Missing size-class
// directories are simply skipped during lookup.
func NewTheme(dir string) *Theme {
	return &Theme{root: dir, classes: SizeClasses}
}

// load decodes one theme file, returning ok=false on any failure.
func (t *Theme) load(class int, name string) (image.Image, bool) {
	path := filepath.Join(t.root, strconv.Itoa(class), name)
	f, err := os.Open(path)
	if err != nil {
		return nil, false
	}
	defer f.Close()

	img, _, err := image.Decode(f)
	if err != nil {
		logging.Debug("theme: undecodable icon %s: %v", path, err)
		return nil, false
	}
	return img, true
}

// lookup walks the given classes in order and returns the first
// decodable icon with the given file name.
func (t *Theme) lookup(classes []int, name string) (image.Image, bool) {
	for _, class := range classes {
		if img, ok := t.load(class, name); ok {
			return img, true
		}
	}
	return nil, false
}

// extName maps a path to the theme file name for its extension.
func extName(path string) (string, bool) {
	ext := strings.TrimPrefix(filekind.Ext(path), ".")
	if ext == "" {
		return "", false
	}
	return ext + ".png", true
}

// FolderIcon returns the highest-resolution folder icon at or above
// the requested pixel size, degrading through smaller classes.
func (t *Theme) FolderIcon(px int) (image.Image, bool) {
	return t.lookup(t.classesFor(px), "folder.png")
}

// FolderIconLegacy returns a folder icon from the low-resolution
// classes only.
func (t *Theme) FolderIconLegacy() (image.Image, bool) {
	return t.lookup(t.legacyClasses(), "folder.png")
}

// classesFor orders the size classes so the smallest class that still
// covers px is preferred, then larger classes, then smaller ones.
func (t *Theme) classesFor(px int) []int {
	var covering, smaller []int
	for _, c := range t.classes {
		if c >= px {
			covering = append(covering, c)
		} else {
			smaller = append(smaller, c)
		}
	}
	// covering is descending; the last element is the tightest fit.
	ordered := make([]int, 0, len(t.classes))
	for i := len(covering) - 1; i >= 0; i-- {
		ordered = append(ordered, covering[i])
	}
	return append(ordered, smaller...)
}

func (t *Theme) legacyClasses() []int {
	var out []int
	for _, c := range t.classes {
		if c <= LegacyClassMax {
			out = append(out, c)
		}
	}
	return out
}

// ImageListAdapter is the highest-fidelity tier: a per-extension
// lookup in the theme's largest suitable resolution class.
type ImageListAdapter struct {
	theme *Theme
}

// NewImageListAdapter wraps a theme as the tier-1 adapter.
func NewImageListAdapter(theme *Theme) *ImageListAdapter {
	return &ImageListAdapter{theme: theme}
}

// Name implements Adapter.
func (a *ImageListAdapter) Name() string { return "native_image_list" }

// TryResolve implements Adapter.
func (a *ImageListAdapter) TryResolve(path string, px int) (image.Image, bool) {
	name, ok := extName(path)
	if !ok {
		return nil, false
	}
	return a.theme.lookup(a.theme.classesFor(px), name)
}

// ShellIconAdapter is the generic association tier: an icon for the
// whole category the extension maps to.
type ShellIconAdapter struct {
	theme *Theme
}

// NewShellIconAdapter wraps a theme as the tier-3 adapter.
func NewShellIconAdapter(theme *Theme) *ShellIconAdapter {
	return &ShellIconAdapter{theme: theme}
}

// Name implements Adapter.
func (a *ShellIconAdapter) Name() string { return "native_shell" }

// TryResolve implements Adapter.
func (a *ShellIconAdapter) TryResolve(path string, px int) (image.Image, bool) {
	cat := filekind.CategoryOfPath(path)
	name := "category-" + string(cat) + ".png"
	return a.theme.lookup(a.theme.classesFor(px), name)
}

// LegacyAdapter is the last-resort tier: low-resolution classes only
// (48 px and below), matching the behavior of old shell queries.
type LegacyAdapter struct {
	theme *Theme
}

// NewLegacyAdapter wraps a theme as the tier-4 adapter.
func NewLegacyAdapter(theme *Theme) *LegacyAdapter {
	return &LegacyAdapter{theme: theme}
}

// Name implements Adapter.
func (a *LegacyAdapter) Name() string { return "native_legacy" }

// TryResolve implements Adapter. The pixel size is ignored; this tier
// only ever serves small icons.
func (a *LegacyAdapter) TryResolve(path string, _ int) (image.Image, bool) {
	name, ok := extName(path)
	if !ok {
		return nil, false
	}
	classes := a.theme.legacyClasses()
	if img, found := a.theme.lookup(classes, name); found {
		return img, true
	}
	cat := filekind.CategoryOfPath(path)
	return a.theme.lookup(classes, "category-"+string(cat)+".png")
}
