// Package memory applies heap backpressure to batch icon resolution.
//
// Resolving a grid's worth of icons allocates quickly: vips pixel
// buffers, page rasters piped in from pdftoppm, and the NRGBA
// canvases the normalizer composites onto. The Monitor polls heap
// usage against a soft limit and pauses batch workers at the critical
// water mark until usage falls back under the high water mark:
//
//	memory.ConfigureFromEnv()
//	monitor := memory.NewMonitor(memory.DefaultConfig())
//	coordinator := batch.NewCoordinator(resolver, workers)
//	coordinator.Gate = monitor
//	monitor.Start()
//
// Synchronous ResolveIcon calls are never gated. Only batch work
// pauses, so the interactive path stays responsive while a large grid
// backs off.
//
// # Environment
//
//   - GOMEMLIMIT: the standard Go soft heap limit. When set it wins
//     and doubles as the monitor's backpressure limit.
//   - MEMORY_LIMIT: container memory limit in bytes, typically fed by
//     the Kubernetes Downward API (resourceFieldRef: limits.memory).
//   - MEMORY_RATIO: fraction of MEMORY_LIMIT given to the Go heap,
//     default 0.85. Lower it when subprocess or CGO memory use grows.
package memory
