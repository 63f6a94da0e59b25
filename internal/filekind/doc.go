// Package filekind maps file extensions to icon categories and holds
// the per-category tint table used by the category glyph renderer.
package filekind
