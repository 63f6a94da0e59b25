package memory

import (
	"fmt"
	"os"
	"runtime/debug"
	"strconv"

	"icon-engine/internal/logging"
)

// DefaultHeapRatio is the share of the container memory limit given to
// the Go heap. The rest covers pdftoppm pipes, vips decode buffers,
// and goroutine stacks that live outside it.
const DefaultHeapRatio = 0.85

// ConfigureFromEnv derives GOMEMLIMIT from the container memory limit.
// Call it early in main, before NewMonitor reads the limit back.
//
// GOMEMLIMIT itself wins when set. Otherwise MEMORY_LIMIT (bytes, as
// delivered by the Kubernetes Downward API) scaled by MEMORY_RATIO
// becomes the heap limit. The return value is the limit in effect
// afterwards, zero when none.
func ConfigureFromEnv() int64 {
	if env := os.Getenv("GOMEMLIMIT"); env != "" {
		logging.Info("memory: GOMEMLIMIT set via environment: %s", env)
		if limit := debug.SetMemoryLimit(-1); limit > 0 && limit < 1<<62 {
			return limit
		}
		return 0
	}

	raw := os.Getenv("MEMORY_LIMIT")
	if raw == "" {
		logging.Debug("memory: MEMORY_LIMIT not set, leaving GOMEMLIMIT alone")
		return 0
	}
	container, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || container <= 0 {
		logging.Warn("memory: unusable MEMORY_LIMIT %q", raw)
		return 0
	}

	ratio := DefaultHeapRatio
	if rawRatio := os.Getenv("MEMORY_RATIO"); rawRatio != "" {
		r, err := strconv.ParseFloat(rawRatio, 64)
		if err != nil || r <= 0 || r > 1 {
			logging.Warn("memory: MEMORY_RATIO %q out of range, keeping %.2f", rawRatio, DefaultHeapRatio)
		} else {
			ratio = r
		}
	}

	limit := int64(float64(container) * ratio)
	debug.SetMemoryLimit(limit)
	logging.Info("memory: GOMEMLIMIT %s (%.0f%% of %s container limit)",
		formatBytes(limit), ratio*100, formatBytes(container))
	return limit
}

func formatBytes(b int64) string {
	const unit = 1024
	if b < unit {
		return fmt.Sprintf("%d B", b)
	}
	val := float64(b)
	exp := 0
	for val >= unit && exp < 6 {
		val /= unit
		exp++
	}
	return fmt.Sprintf("%.1f %ciB", val, "KMGTPE"[exp-1])
}
