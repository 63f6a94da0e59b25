// Package native holds the ranked platform adapters that produce raw
// icon images for a path. Tiers, highest fidelity first: per-extension
// image-list lookup, icon-resource extraction from the file itself,
// generic association icon, legacy low-resolution lookup.
//
// The portable backend reads an on-disk icon theme; on Windows a
// shell32-backed adapter satisfies the same interface. Adapters report
// failure as "no result" instead of errors, and the chain additionally
// guards each call against panics, so the resolution pipeline can rely
// on adapters never throwing.
package native
