package threadpool

import (
	"fmt"
	"sync/atomic"
	"time"
)

// worker is a single goroutine draining its pool's queue. A worker only
// ever touches its pool's lock to retire itself; dequeuing and executing
// tasks needs no lock at all.
type worker struct {
	name      string
	startedAt time.Time
	pool      *Pool
	idle      atomic.Bool
}

// run is the worker's main loop. It exits either when it dequeues the
// pool's stop sentinel or when it retires itself after an idle timeout or
// after exceeding the maximum worker age.
func (w *worker) run() {
	defer w.pool.workerWG.Done()

	named := w.pool.name != ""
	for {
		if named {
			w.idle.Store(true)
		}

		select {
		case t := <-w.pool.queue:
			if t == stopTask {
				w.pool.outstanding.Done()
				return
			}
			if named {
				w.idle.Store(false)
			}
			w.process(t)
			w.pool.outstanding.Done()

			if time.Since(w.startedAt) > maxWorkerAge && w.tryRemoveSelf() {
				return
			}

		case <-time.After(idleTimeout):
			if w.tryRemoveSelf() {
				return
			}
		}
	}
}

// process executes a single task, containing any panic it raises. Timing
// and exception-count metrics are only recorded for named pools, mirroring
// the pool this is modeled on: an unnamed pool still gets exceptions
// logged, just not counted or timed.
func (w *worker) process(t *task) {
	pool := w.pool
	named := pool.name != ""

	var start time.Time
	if named {
		pool.metrics.RecordEvent(pool.name+"_queueing_time", time.Since(t.enqueuedAt))
		start = time.Now()
	}

	func() {
		defer func() {
			if r := recover(); r != nil {
				if named {
					pool.metrics.IncrementCounter(pool.name + "_task_exceptions")
				}
				pool.logger.Exception(
					fmt.Sprintf("caught exception while running task %q", t.name),
					fmt.Errorf("%v", r),
					map[string]any{"worker": w.name},
				)
			}
		}()
		t.runnable.Run()
	}()

	if named {
		pool.metrics.RecordEvent(pool.name+"_working_time", time.Since(start))
	}
}

// tryRemoveSelf removes this worker from its pool's live set, provided that
// doing so would not drop the pool below minThreads. It reports whether the
// worker is now out of the live set (removed here, or already absent while
// the set is above minThreads); the caller must exit its loop iff it is.
func (w *worker) tryRemoveSelf() bool {
	p := w.pool
	p.mu.Lock()
	defer p.mu.Unlock()
	if len(p.workers) <= p.minThreads {
		return false
	}
	if _, ok := p.workers[w.name]; !ok {
		// Already removed. A worker whose set was emptied by Stop never gets
		// here: the size check above returns false, so it goes on to read its
		// stop sentinel.
		return true
	}
	delete(p.workers, w.name)
	p.refreshROLocked()
	return true
}
