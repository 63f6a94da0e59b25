package native

import (
	"image"

	"icon-engine/internal/logging"
)

// Adapter is one ranked native strategy for producing a raw icon
// image. TryResolve returns ok=false for every failure mode; adapters
// must not let errors escape their boundary.
type Adapter interface {
	// Name identifies the adapter in logs and metrics.
	Name() string
	// TryResolve attempts to produce an image for path at roughly px
	// pixels per side.
	TryResolve(path string, px int) (image.Image, bool)
}

// guarded wraps an adapter call so that even a panic inside a native
// backend surfaces as "no result". The pipeline's correctness depends
// on adapters never throwing past their boundary.
func guarded(a Adapter, path string, px int) (img image.Image, ok bool) {
	defer func() {
		if r := recover(); r != nil {
			logging.Warn("native adapter %s panicked on %s: %v", a.Name(), path, r)
			img, ok = nil, false
		}
	}()
	return a.TryResolve(path, px)
}

// Chain is an ordered set of adapters, highest fidelity first.
type Chain struct {
	adapters []Adapter
}

// NewChain builds a chain preserving adapter order.
func NewChain(adapters ...Adapter) *Chain {
	return &Chain{adapters: adapters}
}

// Adapters returns the chain members in rank order.
func (c *Chain) Adapters() []Adapter {
	return c.adapters
}

// Resolve runs one adapter by index with the panic guard applied.
func (c *Chain) Resolve(i int, path string, px int) (image.Image, bool) {
	if i < 0 || i >= len(c.adapters) {
		return nil, false
	}
	return guarded(c.adapters[i], path, px)
}
