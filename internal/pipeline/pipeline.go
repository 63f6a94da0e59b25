package pipeline

import (
	"image"
	"time"

	"icon-engine/internal/cache"
	"icon-engine/internal/filekind"
	"icon-engine/internal/fsstat"
	"icon-engine/internal/inspect"
	"icon-engine/internal/logging"
	"icon-engine/internal/metrics"
	"icon-engine/internal/native"
	"icon-engine/internal/normalize"
	"icon-engine/internal/render"
)

// Tier label values, matching metrics.TierLabels.
const (
	tierCache       = "cache"
	tierRender      = "type_render"
	tierCategory    = "category_fallback"
	tierFolderGlyph = "folder_glyph"
)

// Pipeline walks a resolution request through the fallback tiers:
// type renderer, then the native adapter chain, then the category
// glyph. Results are normalized and cached; Resolve never returns nil
// and always returns the exact requested dimensions.
type Pipeline struct {
	fs    fsstat.Stat
	links fsstat.ShortcutResolver
	store *cache.Cache
	chain *native.Chain
	theme *native.Theme

	// WhitespaceThreshold, when positive, flags accepted native
	// candidates whose content fill ratio falls below it. Diagnostic
	// only; flagged candidates are still used.
	WhitespaceThreshold float64
}

// New assembles a pipeline. links may be nil to disable shortcut
// resolution; store may be nil to disable caching.
func New(fs fsstat.Stat, links fsstat.ShortcutResolver, store *cache.Cache, chain *native.Chain, theme *native.Theme) *Pipeline {
	return &Pipeline{fs: fs, links: links, store: store, chain: chain, theme: theme}
}

// Resolve produces the icon for path at exactly w by h under the
// given profile.
func (p *Pipeline) Resolve(path string, w, h int, profile normalize.Profile) image.Image {
	start := time.Now()
	img, tier := p.resolve(path, w, h, profile)
	metrics.ResolutionsTotal.WithLabelValues(tier).Inc()
	metrics.ResolutionDuration.WithLabelValues(tier).Observe(time.Since(start).Seconds())
	logging.Debug("pipeline: %s resolved via %s in %s", path, tier, time.Since(start))
	return img
}

func (p *Pipeline) resolve(path string, w, h int, profile normalize.Profile) (image.Image, string) {
	// Shortcuts resolve to their target before anything else; a
	// shortcut to a folder takes the folder sub-path.
	if p.links != nil {
		if target, ok := p.links.ResolveTarget(path); ok {
			path = target
		}
	}

	if p.fs.IsDir(path) {
		return p.resolveFolder(path, w, h, profile)
	}

	key := p.keyFor(path, w, h, profile)
	if img, ok := p.cached(key); ok {
		return img, tierCache
	}

	raw, tier := p.resolveFile(path, w, h)
	out := normalize.Normalize(raw, path, w, h, profile)
	p.put(key, out, path)
	return out, tier
}

// resolveFile walks the file tiers and returns the raw candidate plus
// the tier label that produced it. A nil candidate means every tier
// fell through; the caller's normalizer substitutes the category
// glyph for it.
func (p *Pipeline) resolveFile(path string, w, h int) (image.Image, string) {
	if r := render.For(path); r != nil {
		if img, ok := r.Render(path, w, h); ok {
			if render.Trusted(r) || inspect.HasVisibleContent(img) {
				return img, tierRender
			}
			metrics.BlankRejections.WithLabelValues(tierRender).Inc()
			logging.Debug("pipeline: %s renderer output rejected as blank for %s", r.Name(), path)
		}
	}

	px := w
	if h > px {
		px = h
	}
	for i, a := range p.chain.Adapters() {
		img, ok := p.chain.Resolve(i, path, px)
		if !ok {
			continue
		}
		if !inspect.HasVisibleContent(img) {
			metrics.BlankRejections.WithLabelValues(a.Name()).Inc()
			continue
		}
		if p.WhitespaceThreshold > 0 && inspect.ExcessiveWhitespace(img, p.WhitespaceThreshold) {
			metrics.WhitespaceFlags.WithLabelValues(a.Name()).Inc()
			logging.Debug("pipeline: %s icon for %s has low content fill", a.Name(), path)
		}
		return img, a.Name()
	}

	return render.CategoryIcon(filekind.CategoryOfPath(path), w, h), tierCategory
}

// resolveFolder serves directories: the highest-resolution native
// folder icon, the legacy class, then the engine's folder glyph.
// Folder icons skip the visibility gate.
func (p *Pipeline) resolveFolder(path string, w, h int, profile normalize.Profile) (image.Image, string) {
	key := cache.PerExtensionKey(folderIdent, w, h, string(profile))
	if img, ok := p.cached(key); ok {
		return img, tierCache
	}

	px := w
	if h > px {
		px = h
	}

	var raw image.Image
	tier := tierFolderGlyph
	if p.theme != nil {
		if img, ok := p.theme.FolderIcon(px); ok {
			raw, tier = img, "native_image_list"
		} else if img, ok := p.theme.FolderIconLegacy(); ok {
			raw, tier = img, "native_legacy"
		}
	}
	if raw == nil {
		raw = render.CategoryIcon(filekind.CategoryFolder, w, h)
	}

	out := normalize.Normalize(raw, path, w, h, profile)
	p.put(key, out, path)
	return out, tier
}

// folderIdent is the shared per-extension identity for all folders.
const folderIdent = "<folder>"

// perFileExts are extensions whose native icon is file-specific even
// though no type renderer applies, so per-extension caching would
// cross-contaminate.
var perFileExts = map[string]bool{
	".exe": true,
	".dll": true,
}

// keyFor picks the cache scope for a path. Paths whose icon content
// depends on the file itself get per-file keys with mtime validation;
// everything else shares a per-extension entry.
func (p *Pipeline) keyFor(path string, w, h int, profile normalize.Profile) cache.Key {
	ext := filekind.Ext(path)
	if render.For(path) != nil || perFileExts[ext] || filekind.IsShortcut(path) {
		return cache.PerFileKey(path, w, h, string(profile))
	}
	return cache.PerExtensionKey(ext, w, h, string(profile))
}

func (p *Pipeline) cached(key cache.Key) (image.Image, bool) {
	if p.store == nil {
		return nil, false
	}
	entry, ok := p.store.Get(key)
	if !ok {
		return nil, false
	}
	return entry.Image, true
}

func (p *Pipeline) put(key cache.Key, img image.Image, path string) {
	if p.store == nil {
		return
	}
	var mtime time.Time
	if key.Scope == cache.ScopePerFile {
		if t, err := p.fs.MTime(path); err == nil {
			mtime = t
		}
	}
	p.store.Put(key, img, mtime)
}
