// Package workers sizes the icon engine's worker pools.
//
// In containers the host CPU count reported by runtime.NumCPU can be
// far larger than the CPUs actually available to the process, so the
// calculation is based on GOMAXPROCS, which Go derives from cgroup
// limits. Batch resolution is a mixed CPU/IO workload: decoding and
// scaling burn CPU while native lookups and file reads wait on IO.
//
// The ICON_WORKERS environment variable overrides the calculation for
// operators that need to pin the pool size.
package workers
