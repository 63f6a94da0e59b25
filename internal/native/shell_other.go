//go:build !windows

package native

// OSAdapters returns adapters backed by the host shell. No shell icon
// service exists on this platform; the theme-backed tiers cover it.
func OSAdapters() []Adapter { return nil }
