package memory

import (
	"testing"
	"time"
)

// testConfig keeps the polling loop out of the way; tests drive state
// transitions through evaluate with exact numbers.
func testConfig(limit int64) Config {
	return Config{
		Limit:             limit,
		HighWaterMark:     0.5,
		CriticalWaterMark: 0.8,
		CheckInterval:     time.Hour,
	}
}

func TestEvaluateTransitions(t *testing.T) {
	m := NewMonitor(testConfig(1000))

	m.evaluate(100)
	if m.Paused() {
		t.Fatal("10% usage must not pause")
	}

	m.evaluate(900)
	if !m.Paused() {
		t.Fatal("90% usage must pause")
	}

	// Between the marks the paused state is sticky; resuming there
	// would flap under a sawtooth heap.
	m.evaluate(600)
	if !m.Paused() {
		t.Error("60% is above the resume mark, must stay paused")
	}

	m.evaluate(400)
	if m.Paused() {
		t.Error("40% usage must resume")
	}
}

func TestWaitIfPausedPassesWhenIdle(t *testing.T) {
	m := NewMonitor(testConfig(1000))
	if !m.WaitIfPaused() {
		t.Error("an unpaused monitor must let work through")
	}
}

func TestWaitIfPausedBlocksUntilResume(t *testing.T) {
	m := NewMonitor(testConfig(1000))
	m.evaluate(900)

	released := make(chan bool, 1)
	go func() { released <- m.WaitIfPaused() }()

	select {
	case <-released:
		t.Fatal("WaitIfPaused returned while paused")
	case <-time.After(20 * time.Millisecond):
	}

	m.evaluate(100)
	select {
	case ok := <-released:
		if !ok {
			t.Error("resume must report true to waiters")
		}
	case <-time.After(time.Second):
		t.Fatal("WaitIfPaused did not release on resume")
	}
}

func TestStopReleasesWaiters(t *testing.T) {
	m := NewMonitor(testConfig(1000))
	m.evaluate(900)

	released := make(chan bool, 1)
	go func() { released <- m.WaitIfPaused() }()

	m.Stop()
	select {
	case ok := <-released:
		if ok {
			t.Error("stop must report false to waiters")
		}
	case <-time.After(time.Second):
		t.Fatal("WaitIfPaused did not release on stop")
	}
}

func TestUsage(t *testing.T) {
	m := NewMonitor(testConfig(1000))
	m.evaluate(250)
	if got := m.Usage(); got < 0.24 || got > 0.26 {
		t.Errorf("Usage() = %v, want 0.25", got)
	}
}

func TestStartWithoutLimitIsInert(t *testing.T) {
	m := NewMonitor(Config{CheckInterval: time.Millisecond})
	if m.limit != 0 {
		t.Skip("process has a GOMEMLIMIT; the no-limit path is not reachable")
	}

	m.Start() // must not launch the loop
	if m.Usage() != 0 {
		t.Errorf("Usage() = %v, want 0 without a limit", m.Usage())
	}
	if !m.WaitIfPaused() {
		t.Error("a limit-less monitor must never gate work")
	}
}
