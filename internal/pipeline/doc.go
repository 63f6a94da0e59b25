// Package pipeline resolves a file path to its icon by walking the
// fallback tiers in order and caching the normalized result.
package pipeline
