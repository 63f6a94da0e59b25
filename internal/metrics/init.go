package metrics

// Tier label values reported by the resolution pipeline.
var TierLabels = []string{
	"cache",
	"type_render",
	"native_image_list",
	"native_extract",
	"native_shell",
	"native_legacy",
	"category_fallback",
	"folder_glyph",
	"placeholder",
}

// InitializeMetrics pre-populates expected label combinations so every
// metric is exported from the first Prometheus scrape. Call once at
// startup.
func InitializeMetrics() {
	for _, tier := range TierLabels {
		ResolutionsTotal.WithLabelValues(tier)
		ResolutionDuration.WithLabelValues(tier)
		BlankRejections.WithLabelValues(tier)
		WhitespaceFlags.WithLabelValues(tier)
	}
	for _, state := range []string{"completed", "cancelled"} {
		BatchJobsTotal.WithLabelValues(state)
	}
}
