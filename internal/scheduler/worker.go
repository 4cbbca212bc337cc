package scheduler

import (
	"context"
	"sync"
)

// worker is a single-flight FIFO pump: at most one run function executes
// at a time, tick jobs coalesce (a pending, not-yet-started tick is never
// queued twice), and a request arriving at a full queue (maxQueueDepth)
// drops the oldest pending job with queue_overflow.
type worker struct {
	mu        sync.Mutex
	pending   []*job
	hasTick   bool
	executing bool

	wake chan struct{}
	run  func(ctx context.Context, trigger triggerKind, regenerate bool) Result
}

// idle reports whether nothing is queued or currently running — the signal
// a personalized worker waits on before mirroring the shared board.
func (w *worker) idle() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return !w.executing && len(w.pending) == 0
}

func newWorker(run func(ctx context.Context, trigger triggerKind, regenerate bool) Result) *worker {
	return &worker{
		wake: make(chan struct{}, 1),
		run:  run,
	}
}

// enqueue adds j to the queue, coalescing successive ticks and dropping the
// oldest pending job on overflow. Never blocks.
func (w *worker) enqueue(j *job) {
	var dropped *job

	w.mu.Lock()
	if j.trigger == triggerTick {
		if w.hasTick {
			w.mu.Unlock()
			return
		}
		w.hasTick = true
	} else if len(w.pending) >= maxQueueDepth {
		dropped = w.pending[0]
		w.pending = w.pending[1:]
		if dropped.trigger == triggerTick {
			w.hasTick = false
		}
	}
	w.pending = append(w.pending, j)
	w.mu.Unlock()

	if dropped != nil {
		dropped.resolve(overflowResult())
	}
	select {
	case w.wake <- struct{}{}:
	default:
	}
}

// pump drains the queue, one job at a time, until ctx is canceled.
func (w *worker) pump(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case <-w.wake:
			for {
				j, ok := w.dequeue()
				if !ok {
					break
				}
				w.setExecuting(true)
				result := w.run(ctx, j.trigger, j.regenerate)
				w.setExecuting(false)
				j.resolve(result)
			}
		}
	}
}

func (w *worker) setExecuting(v bool) {
	w.mu.Lock()
	w.executing = v
	w.mu.Unlock()
}

func (w *worker) dequeue() (*job, bool) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if len(w.pending) == 0 {
		return nil, false
	}
	j := w.pending[0]
	w.pending = w.pending[1:]
	if j.trigger == triggerTick {
		w.hasTick = false
	}
	return j, true
}
