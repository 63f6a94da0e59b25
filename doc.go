// Package main provides the entry point for the icon engine.
//
// The icon engine resolves filesystem paths to thumbnail images for a
// file-organizer shell: given a path and a target size it walks a tiered
// fallback pipeline (type-specific renderers, native icon sources, embedded
// category glyphs), normalizes the winning candidate to the exact requested
// dimensions, and caches the result in memory with mtime validation.
//
// # Application Lifecycle
//
//  1. Memory Configuration: Sets GOMEMLIMIT from environment or cgroup limits
//  2. Configuration Loading: Reads environment variables and probes icon sources
//  3. Engine Initialization:
//     - libvips for memory-efficient image decoding
//     - Icon cache with LRU eviction and mtime validation
//     - Native adapter chain (theme tiers plus direct extraction)
//     - Batch coordinator with a bounded worker pool
//  4. Service Mode (serve): metrics server, memory monitor, stats collector
//  5. Graceful Shutdown: Handles SIGINT/SIGTERM, joins in-flight batch work
//
// # Commands
//
//   - resolve: resolve a single path to a PNG icon
//   - batch: resolve a whole directory listing with progress reporting
//   - serve: run as a long-lived service exposing Prometheus metrics
//   - version: print build information
//
// # Observability
//
// In serve mode a Prometheus endpoint on METRICS_PORT exports resolution
// counts and latencies per tier, cache hit/miss/staleness counters, batch
// job outcomes, and memory backpressure gauges.
package main
