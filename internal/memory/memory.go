package memory

import (
	"runtime"
	"runtime/debug"
	"sync"
	"time"

	"icon-engine/internal/logging"
	"icon-engine/internal/metrics"
)

// Config tunes the backpressure monitor.
type Config struct {
	// Limit is the soft heap limit in bytes. Zero adopts GOMEMLIMIT;
	// if that is unset too, the monitor stays inert.
	Limit int64

	// HighWaterMark is the usage fraction below which paused work
	// resumes.
	HighWaterMark float64

	// CriticalWaterMark is the usage fraction at which batch work
	// pauses.
	CriticalWaterMark float64

	// CheckInterval is the polling cadence.
	CheckInterval time.Duration
}

// DefaultConfig pauses batch work at 85% of the limit and resumes
// below 70%.
func DefaultConfig() Config {
	return Config{
		HighWaterMark:     0.7,
		CriticalWaterMark: 0.85,
		CheckInterval:     5 * time.Second,
	}
}

// Monitor samples heap usage against a soft limit and pauses batch
// resolution while it sits above the critical water mark. It plugs
// into the coordinator as its Gate through WaitIfPaused.
type Monitor struct {
	cfg   Config
	limit int64
	stop  chan struct{}

	mu     sync.RWMutex
	used   uint64
	paused bool
	resume chan struct{}
}

// NewMonitor builds a monitor. Call ConfigureFromEnv first when the
// limit should come from the environment; the monitor reads GOMEMLIMIT
// back at construction.
func NewMonitor(cfg Config) *Monitor {
	limit := cfg.Limit
	if limit == 0 {
		if l := debug.SetMemoryLimit(-1); l > 0 && l < 1<<62 {
			limit = l
			logging.Info("memory: adopting GOMEMLIMIT %s as backpressure limit", formatBytes(limit))
		}
	}
	if limit == 0 {
		logging.Warn("memory: no limit configured, backpressure disabled")
	}

	return &Monitor{
		cfg:    cfg,
		limit:  limit,
		stop:   make(chan struct{}),
		resume: make(chan struct{}),
	}
}

// Start launches the polling loop. A monitor without a limit does
// nothing.
func (m *Monitor) Start() {
	if m.limit == 0 {
		return
	}
	go m.loop()
}

// Stop ends polling and releases any worker blocked in WaitIfPaused.
func (m *Monitor) Stop() {
	close(m.stop)
}

func (m *Monitor) loop() {
	ticker := time.NewTicker(m.cfg.CheckInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			var ms runtime.MemStats
			runtime.ReadMemStats(&ms)
			m.evaluate(ms.Alloc)
		case <-m.stop:
			return
		}
	}
}

// evaluate applies one usage sample to the pause state. Split out of
// the loop so tests can drive transitions with exact numbers.
func (m *Monitor) evaluate(used uint64) {
	if m.limit <= 0 {
		return
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	m.used = used
	usage := float64(used) / float64(m.limit)
	metrics.MemoryUsageRatio.Set(usage)

	switch {
	case !m.paused && usage >= m.cfg.CriticalWaterMark:
		logging.Warn("memory: %.0f%% of limit, pausing batch work", usage*100)
		m.paused = true
		metrics.MemoryPaused.Set(1)
		metrics.MemoryGCPauses.Inc()
		go runtime.GC()
	case m.paused && usage < m.cfg.HighWaterMark:
		logging.Info("memory: recovered to %.0f%% of limit, resuming batch work", usage*100)
		m.paused = false
		metrics.MemoryPaused.Set(0)
		close(m.resume)
		m.resume = make(chan struct{})
	}
}

// WaitIfPaused blocks while the monitor is paused. It returns false
// only when the monitor stops first, which tells batch workers to
// stop scheduling items.
func (m *Monitor) WaitIfPaused() bool {
	m.mu.RLock()
	if !m.paused {
		m.mu.RUnlock()
		return true
	}
	resume := m.resume
	m.mu.RUnlock()

	select {
	case <-resume:
		return true
	case <-m.stop:
		return false
	}
}

// Paused reports whether batch work is currently held back.
func (m *Monitor) Paused() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.paused
}

// Usage returns the last sampled heap usage as a fraction of the
// limit, zero when no limit is configured.
func (m *Monitor) Usage() float64 {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.limit == 0 {
		return 0
	}
	return float64(m.used) / float64(m.limit)
}
