package workers

import (
	"os"
	"runtime"
	"strconv"
)

// Count returns the worker count for a pool, derived from the CPUs
// available to the process (GOMAXPROCS respects container limits).
//
// multiplier adjusts for workload character: 1.0 CPU-bound, 2.0
// IO-bound, 1.5 mixed. limit caps the result; 0 means no cap. The
// ICON_WORKERS environment variable overrides everything (still
// capped by limit).
func Count(multiplier float64, limit int) int {
	if override := os.Getenv("ICON_WORKERS"); override != "" {
		if n, err := strconv.Atoi(override); err == nil && n > 0 {
			if limit > 0 && n > limit {
				return limit
			}
			return n
		}
	}

	n := int(float64(runtime.GOMAXPROCS(0)) * multiplier)
	if n < 1 {
		n = 1
	}
	if limit > 0 && n > limit {
		n = limit
	}
	return n
}

// ForCPU returns the pool size for CPU-bound work (1 per CPU).
func ForCPU(limit int) int {
	return Count(1.0, limit)
}

// ForIO returns the pool size for IO-bound work (2 per CPU).
func ForIO(limit int) int {
	return Count(2.0, limit)
}

// ForMixed returns the pool size for mixed work (1.5 per CPU).
func ForMixed(limit int) int {
	return Count(1.5, limit)
}
