package batch

import (
	"context"
	"image"
	"sync"
	"time"

	"icon-engine/internal/logging"
	"icon-engine/internal/metrics"
	"icon-engine/internal/normalize"
	"icon-engine/internal/render"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
)

// Resolver produces one icon synchronously. The coordinator treats a
// nil result or a panic as an item failure.
type Resolver interface {
	Resolve(path string, w, h int, profile normalize.Profile) image.Image
}

// Result pairs a requested path with its resolved icon.
type Result struct {
	Path  string
	Image image.Image
}

// ProgressFunc receives completed and total counts. Calls are
// serialized and completed never decreases within a job.
type ProgressFunc func(completed, total int)

// DoneFunc receives the results in request order. On cancellation it
// receives the completed prefix, possibly empty.
type DoneFunc func(results []Result)

// Job is a handle to one submitted batch.
type Job struct {
	ID uuid.UUID

	cancel context.CancelFunc
	done   chan struct{}

	mu        sync.Mutex
	cancelled bool
}

// Cancel requests the job stop. Items already in flight finish; no
// new items start.
func (j *Job) Cancel() {
	j.mu.Lock()
	j.cancelled = true
	j.mu.Unlock()
	j.cancel()
}

// Wait blocks until the job has delivered its results.
func (j *Job) Wait() {
	<-j.done
}

// Done returns a channel closed when the job finishes.
func (j *Job) Done() <-chan struct{} {
	return j.done
}

// Cancelled reports whether the job was cancelled before completion.
func (j *Job) Cancelled() bool {
	j.mu.Lock()
	defer j.mu.Unlock()
	return j.cancelled
}

// Gate is an optional backpressure hook consulted before each item.
// A false return means the process is shutting down and the batch
// should stop scheduling work.
type Gate interface {
	WaitIfPaused() bool
}

// Coordinator runs batch resolutions with bounded parallelism. At
// most one job is live: a new Submit cancels and joins the previous
// job before its replacement starts.
type Coordinator struct {
	resolver Resolver
	workers  int

	// Gate, when set before the first Submit, pauses item scheduling
	// under memory pressure.
	Gate Gate

	mu      sync.Mutex
	current *Job
}

// NewCoordinator creates a coordinator running at most workers
// resolutions concurrently.
func NewCoordinator(resolver Resolver, workers int) *Coordinator {
	if workers < 1 {
		workers = 1
	}
	metrics.BatchWorkers.Set(float64(workers))
	return &Coordinator{resolver: resolver, workers: workers}
}

// Submit starts a batch over paths at the given size and profile,
// superseding any live job. onProgress and onDone may be nil.
func (c *Coordinator) Submit(paths []string, w, h int, profile normalize.Profile, onProgress ProgressFunc, onDone DoneFunc) *Job {
	c.mu.Lock()
	defer c.mu.Unlock()

	if prev := c.current; prev != nil {
		prev.Cancel()
		prev.Wait()
	}

	ctx, cancel := context.WithCancel(context.Background())
	job := &Job{
		ID:     uuid.New(),
		cancel: cancel,
		done:   make(chan struct{}),
	}
	c.current = job

	go c.run(ctx, job, paths, w, h, profile, onProgress, onDone)
	return job
}

// CancelCurrent cancels and joins the live job, if any.
func (c *Coordinator) CancelCurrent() {
	c.mu.Lock()
	job := c.current
	c.mu.Unlock()
	if job != nil {
		job.Cancel()
		job.Wait()
	}
}

func (c *Coordinator) run(ctx context.Context, job *Job, paths []string, w, h int, profile normalize.Profile, onProgress ProgressFunc, onDone DoneFunc) {
	defer close(job.done)
	start := time.Now()

	logging.Debug("batch: job %s started, %d paths, %d workers", job.ID, len(paths), c.workers)

	results := make([]Result, len(paths))
	finished := make([]bool, len(paths))

	var progressMu sync.Mutex
	completed := 0

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(c.workers)

	for i, path := range paths {
		if gctx.Err() != nil {
			break
		}
		g.Go(func() error {
			if gctx.Err() != nil {
				return gctx.Err()
			}
			if c.Gate != nil && !c.Gate.WaitIfPaused() {
				return context.Canceled
			}
			results[i] = Result{Path: path, Image: c.resolveOne(path, w, h, profile)}

			// The callback runs under the lock so observers see strictly
			// increasing completed counts.
			progressMu.Lock()
			finished[i] = true
			completed++
			if onProgress != nil {
				onProgress(completed, len(paths))
			}
			progressMu.Unlock()
			return nil
		})
	}
	err := g.Wait()

	// A worker error means the gate reported shutdown; treat it like a
	// cancellation and deliver the completed prefix.
	state := "completed"
	delivered := results
	if job.Cancelled() || ctx.Err() != nil || err != nil {
		state = "cancelled"
		delivered = completedPrefix(results, finished)
	}

	metrics.BatchJobsTotal.WithLabelValues(state).Inc()
	metrics.BatchDuration.Observe(time.Since(start).Seconds())
	logging.Debug("batch: job %s %s, %d/%d delivered in %s",
		job.ID, state, len(delivered), len(paths), time.Since(start))

	if onDone != nil {
		onDone(delivered)
	}
}

// resolveOne shields the batch from a failing resolver: a panic or a
// nil image degrades to the blank placeholder for that item.
func (c *Coordinator) resolveOne(path string, w, h int, profile normalize.Profile) (img image.Image) {
	defer func() {
		if r := recover(); r != nil {
			logging.Error("batch: resolver panic for %s: %v", path, r)
			metrics.BatchItemFailures.Inc()
			img = render.Placeholder(w, h)
		}
	}()

	img = c.resolver.Resolve(path, w, h, profile)
	if img == nil {
		metrics.BatchItemFailures.Inc()
		img = render.Placeholder(w, h)
	}
	return img
}

// completedPrefix returns the longest run of finished items from the
// front, preserving request order.
func completedPrefix(results []Result, finished []bool) []Result {
	n := 0
	for n < len(finished) && finished[n] {
		n++
	}
	return results[:n]
}
