package fuzz

import (
	"context"
	"sync"
	"sync/atomic"
)

// errHold collects the first error produced by the worker pool.
type errHold struct {
	mu  sync.Mutex
	err error
}

func (h *errHold) set(err error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.err == nil {
		h.err = err
	}
}

func (h *errHold) get() error {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.err
}

// run executes up to trials independent trials on the worker pool and
// blocks until all dispatched trials finish. Fail-fast applies to the
// dispatch loop only: after the first error (or context cancellation) no
// new trial starts, but trials already running complete — and may report —
// before run returns. The first error wins; a cancelled context surfaces
// as ctx.Err() when no trial failed.
func (h *Harness[S]) run(ctx context.Context, trials int, trial func() error) error {
	workers := h.workers
	if workers > trials {
		workers = trials
	}

	var (
		next int64
		hold errHold
		wg   sync.WaitGroup
	)
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for {
				if ctx.Err() != nil || hold.get() != nil {
					return
				}
				if atomic.AddInt64(&next, 1) > int64(trials) {
					return
				}
				if err := trial(); err != nil {
					hold.set(err)
				}
			}
		}()
	}
	wg.Wait()

	if err := hold.get(); err != nil {
		return err
	}
	return ctx.Err()
}
