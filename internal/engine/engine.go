package engine

import (
	"image"

	"icon-engine/internal/batch"
	"icon-engine/internal/cache"
	"icon-engine/internal/fsstat"
	"icon-engine/internal/logging"
	"icon-engine/internal/native"
	"icon-engine/internal/normalize"
	"icon-engine/internal/pipeline"
	"icon-engine/internal/render"
	"icon-engine/internal/workers"
)

// workerLimit caps the batch pool regardless of CPU count.
const workerLimit = 16

// Options configure a new Engine. The zero value is usable: no icon
// theme, default cache size, worker count derived from the CPU count.
type Options struct {
	// ThemeDir is the root of the native icon theme. Empty disables
	// the theme-backed adapters.
	ThemeDir string

	// CacheMaxEntries caps the icon cache; zero means the default.
	CacheMaxEntries int

	// Workers overrides the batch pool size; zero derives it.
	Workers int

	// Stat overrides filesystem access, primarily for tests.
	Stat fsstat.Stat

	// Links overrides shortcut resolution, primarily for tests.
	Links fsstat.ShortcutResolver

	// Gate applies memory backpressure to batch work.
	Gate batch.Gate

	// WhitespaceThreshold flags native icons with low content fill;
	// zero disables the check.
	WhitespaceThreshold float64
}

// Engine is the subsystem facade: synchronous single-path resolution,
// batch submission, and cache control.
type Engine struct {
	fs    fsstat.Stat
	store *cache.Cache
	pipe  *pipeline.Pipeline
	coord *batch.Coordinator
}

// New builds a fully wired engine.
func New(opts Options) *Engine {
	fs := opts.Stat
	if fs == nil {
		fs = fsstat.NewOS()
	}
	links := opts.Links
	if links == nil {
		links = fsstat.NewLinks()
	}

	maxEntries := opts.CacheMaxEntries
	if maxEntries <= 0 {
		maxEntries = cache.DefaultMaxEntries
	}
	store := cache.New(fs, maxEntries)

	var theme *native.Theme
	if opts.ThemeDir != "" {
		theme = native.NewTheme(opts.ThemeDir)
	}
	chain := nativeChain(theme, links)

	pipe := pipeline.New(fs, links, store, chain, theme)
	pipe.WhitespaceThreshold = opts.WhitespaceThreshold

	count := opts.Workers
	if count <= 0 {
		count = workers.ForMixed(workerLimit)
	}
	coord := batch.NewCoordinator(pipe, count)
	coord.Gate = opts.Gate

	logging.Info("engine: ready (theme=%q, cache=%d entries, workers=%d)",
		opts.ThemeDir, maxEntries, count)

	return &Engine{fs: fs, store: store, pipe: pipe, coord: coord}
}

// nativeChain assembles the adapter tiers in resolution order. The
// extraction tier and the host shell tiers work without a theme; the
// theme-backed tiers are skipped when no theme directory is
// configured.
func nativeChain(theme *native.Theme, links fsstat.ShortcutResolver) *native.Chain {
	var adapters []native.Adapter
	if theme != nil {
		adapters = append(adapters, native.NewImageListAdapter(theme))
	}
	adapters = append(adapters, native.NewExtractAdapter(links))
	adapters = append(adapters, native.OSAdapters()...)
	if theme != nil {
		adapters = append(adapters,
			native.NewShellIconAdapter(theme),
			native.NewLegacyAdapter(theme))
	}
	return native.NewChain(adapters...)
}

// ResolveIcon resolves one path synchronously. The result is never
// nil and always has the exact requested dimensions.
func (e *Engine) ResolveIcon(path string, w, h int, profile normalize.Profile) image.Image {
	img := e.pipe.Resolve(path, w, h, profile)
	if img == nil {
		// The pipeline guarantees non-nil; this is the backstop.
		return render.Placeholder(w, h)
	}
	return img
}

// SubmitBatch starts a batch resolution, superseding any live batch.
func (e *Engine) SubmitBatch(paths []string, w, h int, profile normalize.Profile, onProgress batch.ProgressFunc, onDone batch.DoneFunc) *batch.Job {
	return e.coord.Submit(paths, w, h, profile, onProgress, onDone)
}

// ClearCache drops every cached icon.
func (e *Engine) ClearCache() {
	e.store.Clear()
}

// Cache exposes the underlying store for stats collection.
func (e *Engine) Cache() *cache.Cache {
	return e.store
}

// Close cancels any live batch and waits for it.
func (e *Engine) Close() {
	e.coord.CancelCurrent()
}
