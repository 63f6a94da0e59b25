package metrics

import (
	"sync/atomic"
	"testing"
	"time"
)

type fakeProvider struct {
	calls atomic.Int64
}

func (f *fakeProvider) GetStats() Stats {
	f.calls.Add(1)
	return Stats{CacheEntries: 3}
}

func TestCollectorPolls(t *testing.T) {
	p := &fakeProvider{}
	c := NewCollector(p, 10*time.Millisecond)
	c.Start()
	defer c.Stop()

	deadline := time.Now().Add(2 * time.Second)
	for p.calls.Load() < 2 {
		if time.Now().After(deadline) {
			t.Fatalf("collector polled %d times, want >= 2", p.calls.Load())
		}
		time.Sleep(5 * time.Millisecond)
	}
}

func TestCollectorStop(t *testing.T) {
	p := &fakeProvider{}
	c := NewCollector(p, time.Millisecond)
	c.Start()
	time.Sleep(20 * time.Millisecond)
	c.Stop()

	after := p.calls.Load()
	time.Sleep(30 * time.Millisecond)
	if p.calls.Load() != after {
		t.Error("collector kept polling after Stop")
	}
}
