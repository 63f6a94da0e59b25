// Package render provides the type-specific preview renderers: raster
// image thumbnails, document first pages, office text previews, and
// the embedded category glyphs that terminate the fallback chain.
package render
