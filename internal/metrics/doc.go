// Package metrics declares the Prometheus metrics exported by the icon
// engine: resolution outcomes per tier, cache effectiveness, render
// timings and batch job activity.
//
// Metrics are registered through promauto at package load; the /metrics
// listener in main wires them to an HTTP endpoint. InitializeMetrics
// pre-populates known label combinations so dashboards see every series
// from the first scrape.
package metrics
