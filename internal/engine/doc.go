// Package engine wires the icon subsystem together and exposes its
// public surface: synchronous resolution, batch submission, and cache
// control.
package engine
