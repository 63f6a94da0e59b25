package cache

import (
	"container/list"
	"image"
	"sync"
	"time"

	"icon-engine/internal/fsstat"
	"icon-engine/internal/logging"
	"icon-engine/internal/metrics"
)

// Scope selects the identity a cache entry is keyed by.
type Scope int

const (
	// ScopePerFile keys an entry by the concrete path. Used for content
	// that is rendered out of the file itself (document pages, image
	// thumbnails); validated against the file's mtime on every lookup.
	ScopePerFile Scope = iota
	// ScopePerExtension keys an entry by extension only. Valid solely
	// for resources that look identical for every file sharing the
	// extension (generic association icons, category glyphs); never
	// invalidated by an individual file's mtime.
	ScopePerExtension
)

// Key identifies one cached icon. All fields participate in equality.
type Key struct {
	Scope   Scope
	Ident   string // path (per-file) or extension (per-extension)
	Width   int
	Height  int
	Profile string
}

// PerFileKey builds a per-file key.
func PerFileKey(path string, w, h int, profile string) Key {
	return Key{Scope: ScopePerFile, Ident: path, Width: w, Height: h, Profile: profile}
}

// PerExtensionKey builds an extension-generic key.
func PerExtensionKey(ext string, w, h int, profile string) Key {
	return Key{Scope: ScopePerExtension, Ident: ext, Width: w, Height: h, Profile: profile}
}

// Entry is one memoized resolution result.
type Entry struct {
	Image       image.Image
	SourceMTime time.Time
}

type cacheItem struct {
	key     Key
	entry   Entry
	element *list.Element
}

// Cache memoizes resolved icons. Reads are concurrent; writes take the
// exclusive lock. Per-file entries are validated against the current
// file mtime on every lookup, so a stale read during a concurrent
// write is harmless.
type Cache struct {
	mu         sync.RWMutex
	items      map[Key]*cacheItem
	order      *list.List // front = most recently inserted/used
	maxEntries int
	fs         fsstat.Stat
}

// DefaultMaxEntries bounds cache growth for large grids.
const DefaultMaxEntries = 4096

// New creates a cache validating per-file entries through fs. A
// maxEntries of 0 applies DefaultMaxEntries.
func New(fs fsstat.Stat, maxEntries int) *Cache {
	if maxEntries <= 0 {
		maxEntries = DefaultMaxEntries
	}
	return &Cache{
		items:      make(map[Key]*cacheItem),
		order:      list.New(),
		maxEntries: maxEntries,
		fs:         fs,
	}
}

// Get returns the entry for key if present and still valid. For
// per-file keys the source file's current mtime is compared with the
// stored one; a mismatch or any stat failure counts as stale, evicts
// the entry and reports a miss. The engine must never serve cached
// data it cannot verify.
func (c *Cache) Get(key Key) (Entry, bool) {
	c.mu.RLock()
	item, ok := c.items[key]
	c.mu.RUnlock()
	if !ok {
		metrics.CacheMisses.Inc()
		return Entry{}, false
	}

	if key.Scope == ScopePerFile && c.stale(key.Ident, item.entry.SourceMTime) {
		c.mu.Lock()
		// Re-check under the write lock; another goroutine may have
		// refreshed the entry meanwhile.
		if cur, still := c.items[key]; still && cur.entry.SourceMTime.Equal(item.entry.SourceMTime) {
			c.removeLocked(cur)
			metrics.CacheStaleEvictions.Inc()
			logging.Debug("cache: evicted stale entry for %s", key.Ident)
		}
		c.mu.Unlock()
		metrics.CacheMisses.Inc()
		return Entry{}, false
	}

	c.mu.Lock()
	if cur, still := c.items[key]; still {
		c.order.MoveToFront(cur.element)
	}
	c.mu.Unlock()

	metrics.CacheHits.Inc()
	return item.entry, true
}

// stale reports whether the stored mtime no longer matches the file.
func (c *Cache) stale(path string, stored time.Time) bool {
	current, err := c.fs.MTime(path)
	if err != nil {
		return true
	}
	return !current.Equal(stored)
}

// Put stores a resolved icon. mtime is ignored for per-extension keys.
func (c *Cache) Put(key Key, img image.Image, mtime time.Time) {
	if img == nil {
		return
	}
	if key.Scope == ScopePerExtension {
		mtime = time.Time{}
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if item, ok := c.items[key]; ok {
		item.entry = Entry{Image: img, SourceMTime: mtime}
		c.order.MoveToFront(item.element)
		return
	}

	for len(c.items) >= c.maxEntries {
		oldest := c.order.Back()
		if oldest == nil {
			break
		}
		c.removeLocked(oldest.Value.(*cacheItem))
	}

	item := &cacheItem{key: key, entry: Entry{Image: img, SourceMTime: mtime}}
	item.element = c.order.PushFront(item)
	c.items[key] = item
}

// InvalidateIfStale drops the entry for key when the file at path has
// changed since it was cached. Per-extension entries are left alone.
func (c *Cache) InvalidateIfStale(key Key, path string) {
	if key.Scope != ScopePerFile {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	item, ok := c.items[key]
	if !ok {
		return
	}
	if c.stale(path, item.entry.SourceMTime) {
		c.removeLocked(item)
		metrics.CacheStaleEvictions.Inc()
	}
}

// Clear drops every entry.
func (c *Cache) Clear() {
	c.mu.Lock()
	c.items = make(map[Key]*cacheItem)
	c.order = list.New()
	c.mu.Unlock()
	logging.Debug("cache: cleared")
}

// Len returns the number of live entries.
func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.items)
}

// GetStats implements metrics.StatsProvider.
func (c *Cache) GetStats() metrics.Stats {
	return metrics.Stats{CacheEntries: c.Len()}
}

// removeLocked unlinks an item; the caller holds the write lock.
func (c *Cache) removeLocked(item *cacheItem) {
	delete(c.items, item.key)
	c.order.Remove(item.element)
}
