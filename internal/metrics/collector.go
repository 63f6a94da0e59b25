package metrics

import (
	"time"

	"icon-engine/internal/logging"
)

// StatsProvider supplies point-in-time engine statistics for the
// periodic collector. The icon cache implements it.
type StatsProvider interface {
	GetStats() Stats
}

// Stats holds a snapshot of engine state exported as gauges.
type Stats struct {
	CacheEntries int
}

// Collector periodically copies engine statistics into gauges.
type Collector struct {
	provider StatsProvider
	interval time.Duration
	stopChan chan struct{}
}

// NewCollector creates a collector polling the provider at the given
// interval.
func NewCollector(provider StatsProvider, interval time.Duration) *Collector {
	return &Collector{
		provider: provider,
		interval: interval,
		stopChan: make(chan struct{}),
	}
}

// Start begins the collection loop.
func (c *Collector) Start() {
	go c.collectLoop()
}

// Stop stops the collection loop.
func (c *Collector) Stop() {
	close(c.stopChan)
}

func (c *Collector) collectLoop() {
	c.collect()

	ticker := time.NewTicker(c.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			c.collect()
		case <-c.stopChan:
			logging.Debug("metrics collector stopped")
			return
		}
	}
}

func (c *Collector) collect() {
	stats := c.provider.GetStats()
	CacheEntries.Set(float64(stats.CacheEntries))
}
