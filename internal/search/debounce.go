package search

import (
	"context"
	"sync"
	"time"
)

// DefaultDelay is the quiet period before a submitted search runs.
const DefaultDelay = 500 * time.Millisecond

// Debouncer runs only the latest of a burst of submissions. Every submission
// gets a generation number; a run publishes its result through Commit, which
// drops it unless its generation is still the newest. Superseded runs also
// see their context cancelled.
type Debouncer struct {
	Delay time.Duration

	mu     sync.Mutex
	gen    uint64
	timer  *time.Timer
	cancel context.CancelFunc
}

func NewDebouncer(delay time.Duration) *Debouncer {
	if delay < 0 {
		delay = DefaultDelay
	}
	return &Debouncer{Delay: delay}
}

// Submit schedules fn to run after Delay unless another Submit or Preempt
// arrives first. It returns fn's generation.
func (d *Debouncer) Submit(fn func(ctx context.Context, gen uint64)) uint64 {
	d.mu.Lock()
	defer d.mu.Unlock()
	gen, ctx := d.supersedeLocked()
	d.timer = time.AfterFunc(d.Delay, func() {
		if ctx.Err() != nil {
			return
		}
		fn(ctx, gen)
	})
	return gen
}

// Preempt supersedes anything pending and returns a fresh generation for a
// search the caller runs immediately.
func (d *Debouncer) Preempt() (context.Context, uint64) {
	d.mu.Lock()
	defer d.mu.Unlock()
	gen, ctx := d.supersedeLocked()
	return ctx, gen
}

func (d *Debouncer) supersedeLocked() (uint64, context.Context) {
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
	if d.cancel != nil {
		d.cancel()
	}
	d.gen++
	ctx, cancel := context.WithCancel(context.Background())
	d.cancel = cancel
	return d.gen, ctx
}

// Commit calls apply if gen is still current and reports whether it did.
// apply runs under the debouncer's lock and must not call back into it.
func (d *Debouncer) Commit(gen uint64, apply func()) bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	if gen != d.gen {
		return false
	}
	apply()
	return true
}

// Generation returns the newest generation handed out.
func (d *Debouncer) Generation() uint64 {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.gen
}

// Stop drops whatever is pending. Later Commits of earlier generations fail.
func (d *Debouncer) Stop() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.supersedeLocked()
}
