// Package startup handles application initialization, configuration loading,
// and startup/shutdown logging.
//
// This package centralizes all application configuration and provides consistent
// logging throughout the application lifecycle.
//
// # Configuration
//
// All configuration is loaded from environment variables via [LoadConfig].
// The following environment variables are supported:
//
//   - ICON_THEME_DIR: Root of the on-disk icon theme used by the native
//     adapter tiers (default: unset, theme tiers disabled)
//   - CACHE_MAX_ENTRIES: Icon cache capacity (default: 4096)
//   - ICON_WORKERS: Batch worker pool size (default: derived from CPU count)
//   - METRICS_PORT: Prometheus metrics server port (default: 9090)
//   - METRICS_ENABLED: Enable or disable metrics server (default: true)
//   - WHITESPACE_THRESHOLD: Minimum acceptable content fill ratio for
//     whitespace inspection (default: 0.4)
//   - DEFAULT_ICON_SIZE: Icon size used when callers pass no size (default: 128)
//   - LOG_LEVEL: Logging level - debug, info, warn, error (default: info)
//   - MEMORY_LIMIT: Container memory limit for automatic GOMEMLIMIT configuration
//   - MEMORY_RATIO: Percentage of MEMORY_LIMIT for Go heap (default: 0.85)
//   - GOMEMLIMIT: Direct override for Go's memory limit
//
// # Environment Probing
//
// LoadConfig verifies the optional external inputs and records their
// availability as feature flags: the theme directory (present and holding
// size-class subdirectories) and the pdftoppm binary (required for document
// first-page previews). Missing inputs degrade those tiers rather than
// failing startup.
//
// # Startup Logging
//
// The package produces a structured startup sequence: banner and build
// information, system information, configuration, icon source setup, and a
// final summary with the metrics endpoints. Shutdown logging mirrors it with
// per-step progress.
package startup
