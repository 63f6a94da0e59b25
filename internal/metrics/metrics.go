package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Resolution metrics
var (
	ResolutionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "icon_engine_resolutions_total",
			Help: "Total icon resolutions by the tier that produced the image",
		},
		[]string{"tier"},
	)

	ResolutionDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "icon_engine_resolution_duration_seconds",
			Help:    "Wall time of a single-path resolution",
			Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5},
		},
		[]string{"tier"},
	)

	BlankRejections = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "icon_engine_blank_rejections_total",
			Help: "Candidates rejected by the visibility gate, by tier",
		},
		[]string{"tier"},
	)

	WhitespaceFlags = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "icon_engine_whitespace_flags_total",
			Help: "Accepted candidates whose content fill ratio fell below the whitespace threshold, by tier",
		},
		[]string{"tier"},
	)
)

// Cache metrics
var (
	CacheHits = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "icon_engine_cache_hits_total",
			Help: "Icon cache lookups served from memory",
		},
	)

	CacheMisses = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "icon_engine_cache_misses_total",
			Help: "Icon cache lookups that required resolution",
		},
	)

	CacheStaleEvictions = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "icon_engine_cache_stale_evictions_total",
			Help: "Cache entries evicted because the source mtime changed",
		},
	)

	CacheEntries = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "icon_engine_cache_entries",
			Help: "Entries currently held by the icon cache",
		},
	)
)

// Batch metrics
var (
	BatchJobsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "icon_engine_batch_jobs_total",
			Help: "Batch jobs by final state",
		},
		[]string{"state"}, // "completed", "cancelled"
	)

	BatchItemFailures = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "icon_engine_batch_item_failures_total",
			Help: "Batch items that fell back to a blank placeholder",
		},
	)

	BatchDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "icon_engine_batch_duration_seconds",
			Help:    "Wall time of a whole batch job",
			Buckets: prometheus.DefBuckets,
		},
	)

	BatchWorkers = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "icon_engine_batch_workers",
			Help: "Workers used by the batch coordinator",
		},
	)
)

// Memory backpressure metrics
var (
	MemoryUsageRatio = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "icon_engine_memory_usage_ratio",
			Help: "Heap usage as a fraction of the configured memory limit",
		},
	)

	MemoryPaused = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "icon_engine_memory_paused",
			Help: "1 while resolution work is paused for memory pressure",
		},
	)

	MemoryGCPauses = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "icon_engine_memory_gc_pauses_total",
			Help: "Forced garbage collections triggered by memory pressure",
		},
	)
)
