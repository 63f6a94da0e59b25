package workers

import (
	"runtime"
	"testing"
)

func TestCount(t *testing.T) {
	t.Setenv("ICON_WORKERS", "")

	available := runtime.GOMAXPROCS(0)

	if got := Count(1.0, 0); got != available {
		t.Errorf("Count(1.0, 0) = %d, want %d", got, available)
	}
	if got := Count(1.0, 1); got != 1 {
		t.Errorf("Count limited to 1 = %d", got)
	}
	if got := Count(0.0, 0); got != 1 {
		t.Errorf("Count must never return less than 1, got %d", got)
	}
}

func TestCountOverride(t *testing.T) {
	t.Setenv("ICON_WORKERS", "7")

	if got := Count(1.0, 0); got != 7 {
		t.Errorf("override ignored, got %d", got)
	}
	if got := Count(1.0, 3); got != 3 {
		t.Errorf("override must still respect the cap, got %d", got)
	}
}

func TestCountBadOverride(t *testing.T) {
	t.Setenv("ICON_WORKERS", "notanumber")
	if got := Count(1.0, 0); got != runtime.GOMAXPROCS(0) {
		t.Errorf("bad override should fall back to calculation, got %d", got)
	}

	t.Setenv("ICON_WORKERS", "-2")
	if got := Count(1.0, 0); got != runtime.GOMAXPROCS(0) {
		t.Errorf("negative override should fall back to calculation, got %d", got)
	}
}

func TestHelpers(t *testing.T) {
	t.Setenv("ICON_WORKERS", "")
	available := runtime.GOMAXPROCS(0)

	if got := ForCPU(0); got != available {
		t.Errorf("ForCPU = %d, want %d", got, available)
	}
	if got := ForIO(0); got != 2*available {
		t.Errorf("ForIO = %d, want %d", got, 2*available)
	}
	want := int(float64(available) * 1.5)
	if want < 1 {
		want = 1
	}
	if got := ForMixed(0); got != want {
		t.Errorf("ForMixed = %d, want %d", got, want)
	}
}
