package main

import (
	"flag"
	"fmt"
	"image"
	"os"

	"icon-engine/internal/filekind"
	"icon-engine/internal/fsstat"
	"icon-engine/internal/inspect"
	"icon-engine/internal/native"
	"icon-engine/internal/render"
)

// iconprobe runs every resolution tier for a path independently and
// reports what each one produces. It bypasses the cache and the
// normalizer so the raw tier output is visible.

func main() {
	size := flag.Int("size", 128, "probe size in pixels")
	themeDir := flag.String("theme", os.Getenv("ICON_THEME_DIR"), "icon theme directory")
	flag.Usage = printUsage
	flag.Parse()

	if flag.NArg() != 1 {
		printUsage()
		os.Exit(1)
	}
	path := flag.Arg(0)

	fs := fsstat.NewOS()
	links := fsstat.NewLinks()

	fmt.Printf("probe: %s\n", path)
	fmt.Printf("  exists:    %v\n", fs.Exists(path))
	fmt.Printf("  directory: %v\n", fs.IsDir(path))
	fmt.Printf("  extension: %s\n", displayExt(path))
	fmt.Printf("  category:  %s\n", filekind.CategoryOfPath(path))
	if target, ok := links.ResolveTarget(path); ok {
		fmt.Printf("  shortcut:  -> %s\n", target)
		path = target
	}
	fmt.Println()

	if fs.IsDir(path) {
		probeFolder(path, *themeDir, *size)
		return
	}
	probeFile(path, *themeDir, links, *size)
}

func probeFile(path, themeDir string, links fsstat.ShortcutResolver, size int) {
	if r := render.For(path); r != nil {
		img, ok := r.Render(path, size, size)
		report("type_render ("+r.Name()+")", img, ok)
	} else {
		fmt.Printf("%-28s no renderer for this extension\n", "type_render")
	}

	var theme *native.Theme
	if themeDir != "" {
		theme = native.NewTheme(themeDir)
	}
	for _, a := range adapters(theme, links) {
		img, ok := a.TryResolve(path, size)
		report(a.Name(), img, ok)
	}

	img := render.CategoryIcon(filekind.CategoryOfPath(path), size, size)
	report("category_fallback", img, true)
}

func probeFolder(path, themeDir string, size int) {
	if themeDir == "" {
		fmt.Printf("%-28s no theme directory configured\n", "native folder tiers")
	} else {
		theme := native.NewTheme(themeDir)
		img, ok := theme.FolderIcon(size)
		report("folder (theme)", img, ok)
		img, ok = theme.FolderIconLegacy()
		report("folder (legacy)", img, ok)
	}

	img := render.CategoryIcon(filekind.CategoryFolder, size, size)
	report("folder (glyph)", img, true)

	// Folder tiers stop here; type renderers and category icons for
	// other categories never apply to directories.
	_ = path
}

func adapters(theme *native.Theme, links fsstat.ShortcutResolver) []native.Adapter {
	var out []native.Adapter
	if theme != nil {
		out = append(out, native.NewImageListAdapter(theme))
	}
	out = append(out, native.NewExtractAdapter(links))
	out = append(out, native.OSAdapters()...)
	if theme != nil {
		out = append(out,
			native.NewShellIconAdapter(theme),
			native.NewLegacyAdapter(theme))
	}
	return out
}

func report(tier string, img image.Image, ok bool) {
	if !ok || img == nil {
		fmt.Printf("%-28s no result\n", tier)
		return
	}
	b := img.Bounds()
	visible := inspect.HasVisibleContent(img)
	ratio := inspect.WhitespaceRatio(img)
	fmt.Printf("%-28s %dx%d  visible=%v  whitespace=%.0f%%\n",
		tier, b.Dx(), b.Dy(), visible, ratio*100)
}

func displayExt(path string) string {
	ext := filekind.Ext(path)
	if ext == "" {
		return "(none)"
	}
	return ext
}

func printUsage() {
	fmt.Fprintln(os.Stderr, "Usage: iconprobe [flags] <path>")
	fmt.Fprintln(os.Stderr, "")
	fmt.Fprintln(os.Stderr, "Runs every icon resolution tier for a path and reports the raw")
	fmt.Fprintln(os.Stderr, "output of each, bypassing the cache and the normalizer.")
	fmt.Fprintln(os.Stderr, "")
	fmt.Fprintln(os.Stderr, "Flags:")
	flag.PrintDefaults()
	fmt.Fprintln(os.Stderr, "")
	fmt.Fprintln(os.Stderr, "Environment:")
	fmt.Fprintln(os.Stderr, "  ICON_THEME_DIR   default for -theme")
}
