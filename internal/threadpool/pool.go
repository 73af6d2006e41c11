package threadpool

import (
	"fmt"
	"runtime"
	"sync"
	"sync/atomic"
	"time"
)

// Tunables controlling the admission and retirement algorithms. These are
// process-wide constants rather than per-pool options; every pool in this
// process shares the same growth ceiling, idle timeout, retry interval, and
// maximum worker age.
var (
	// idleTimeout is how long a worker waits on an empty queue before
	// attempting to retire itself.
	idleTimeout = 60 * time.Second
	// maxWorkerAge is how long a worker may run before it retires itself at
	// the next opportunity (right after finishing a real task), bounding how
	// long any single goroutine lives.
	maxWorkerAge = 600 * time.Second
	// blockingRetryInterval is how long a blocking AddTask call waits on a
	// full queue before re-evaluating growth.
	blockingRetryInterval = 1 * time.Second
	// cpuGrowthCeiling is the CPU-usage percentage at or above which AddTask
	// stops spawning new workers even though len(pool) < maxThreads.
	cpuGrowthCeiling = 90.0
)

// Config describes a new Pool. Name, Metrics, CPUProbe, and Logger may be
// left zero-valued; a zero Name makes the pool unnamed (no registry
// membership, no instrumentation, no idle/queueing/working-time tracking -
// see spec.md §7), and zero collaborators fall back to small in-process
// defaults.
type Config struct {
	Name       string
	MinThreads int
	MaxThreads int
	CPUCheck   bool
	Metrics    MetricsSink
	CPUProbe   CPUProbe
	Logger     Logger
}

// Pool is a dynamically sized set of worker goroutines draining a single
// bounded FIFO queue. See SPEC_FULL.md §3-§4 for the full state machine.
type Pool struct {
	name       string
	minThreads int
	maxThreads int
	cpuCheck   bool
	cpuProbe   CPUProbe
	metrics    MetricsSink
	logger     Logger

	queue       chan *task
	outstanding sync.WaitGroup
	workerWG    sync.WaitGroup

	// mu serializes mutation of the live worker set and the whole of
	// AddTask's admission algorithm, matching the single lock the algorithm
	// this pool is modeled on holds across its growth-and-retry loop.
	mu           sync.Mutex
	started      bool
	workers      map[string]*worker
	workersRO    atomic.Pointer[map[string]*worker]
	nextWorkerID uint64

	// spawnHook, when set, is consulted before a worker goroutine is
	// actually started and can force a spawn failure. It exists purely as a
	// test seam for exercising Start's "could not spawn any workers"
	// error path; production pools never set it.
	spawnHook func() error
}

// NewPool constructs a pool directly. If cfg.Name is non-empty and a pool by
// that name is already registered in the process-wide registry, NewPool
// returns ErrDuplicatePool. Factory never returns this error - only direct
// construction does; this asymmetry is deliberate (spec.md §4.3, §7 Open
// Questions).
func NewPool(cfg Config) (*Pool, error) {
	if cfg.Name != "" {
		registryMu.Lock()
		_, exists := registry[cfg.Name]
		registryMu.Unlock()
		if exists {
			return nil, ErrDuplicatePool
		}
	}
	return buildPool(cfg), nil
}

func buildPool(cfg Config) *Pool {
	minThreads := cfg.MinThreads
	if minThreads < 0 {
		minThreads = 0
	}
	maxThreads := cfg.MaxThreads
	if maxThreads < minThreads {
		maxThreads = minThreads
	}

	probe := cfg.CPUProbe
	if probe == nil {
		if cfg.CPUCheck {
			probe = NewRuntimeCPUProbe()
		} else {
			probe = zeroCPUProbe{}
		}
	}
	metrics := cfg.Metrics
	if metrics == nil {
		metrics = NewInMemoryMetrics()
	}
	logger := cfg.Logger
	if logger == nil {
		logger = stdLogger{}
	}

	p := &Pool{
		name:       cfg.Name,
		minThreads: minThreads,
		maxThreads: maxThreads,
		cpuCheck:   cfg.CPUCheck,
		cpuProbe:   probe,
		metrics:    metrics,
		logger:     logger,
		queue:      make(chan *task, maxThreads),
		workers:    make(map[string]*worker),
	}
	p.refreshROLocked()
	if p.name != "" {
		p.registerMetrics()
	}

	runtime.SetFinalizer(p, func(p *Pool) {
		p.mu.Lock()
		started := p.started
		p.mu.Unlock()
		if started {
			p.Stop()
		}
	})

	return p
}

func (p *Pool) registerMetrics() {
	p.metrics.RegisterGaugeMetric(p.name+"_outstanding_tasks", GaugeInt)
	p.metrics.SetGaugeCallback(p.name+"_outstanding_tasks", func() float64 { return float64(p.PendingTasks()) })
	p.metrics.RegisterGaugeMetric(p.name+"_threads", GaugeInt)
	p.metrics.SetGaugeCallback(p.name+"_threads", func() float64 { return float64(p.Len()) })
	p.metrics.RegisterGaugeMetric(p.name+"_cpu_use", GaugeFloat)
	p.metrics.SetGaugeCallback(p.name+"_cpu_use", p.CPUUsage)
	p.metrics.RegisterCounterMetric(p.name + "_task_exceptions")
	p.metrics.RegisterEventMetric(p.name + "_working_time")
	p.metrics.RegisterEventMetric(p.name + "_queueing_time")
}

// Name returns the pool's name, or "" if it is unnamed.
func (p *Pool) Name() string { return p.name }

// Len returns the current number of live workers. Safe to call
// concurrently without holding the pool's lock.
func (p *Pool) Len() int {
	m := p.workersRO.Load()
	if m == nil {
		return 0
	}
	return len(*m)
}

// BusyThreads returns how many live workers are currently executing a task.
func (p *Pool) BusyThreads() int {
	m := p.workersRO.Load()
	if m == nil {
		return 0
	}
	n := 0
	for _, w := range *m {
		if !w.idle.Load() {
			n++
		}
	}
	return n
}

// PendingTasks returns the number of tasks currently sitting in the queue,
// not counting whatever a worker may be executing right now.
func (p *Pool) PendingTasks() int { return len(p.queue) }

// CPUUsage reports the pool's current CPU-usage reading, or 0 if the pool
// was constructed with cpuCheck == false.
func (p *Pool) CPUUsage() float64 {
	if !p.cpuCheck {
		return 0
	}
	return p.cpuProbe.CPUUsage()
}

func (p *Pool) refreshROLocked() {
	snapshot := make(map[string]*worker, len(p.workers))
	for k, v := range p.workers {
		snapshot[k] = v
	}
	p.workersRO.Store(&snapshot)
}

// addWorkerLocked spawns one worker goroutine and adds it to the live set.
// Callers must already hold p.mu.
func (p *Pool) addWorkerLocked() error {
	if p.spawnHook != nil {
		if err := p.spawnHook(); err != nil {
			return err
		}
	}
	id := p.nextWorkerID
	p.nextWorkerID++
	name := fmt.Sprintf("worker-%d", id)
	if p.name != "" {
		name = p.name + "-" + name
	}
	w := &worker{
		name:      name,
		startedAt: time.Now(),
		pool:      p,
	}
	p.workers[name] = w
	p.refreshROLocked()
	p.workerWG.Add(1)
	go w.run()
	return nil
}

// Start spawns minThreads workers. A pool that is already started is a
// no-op. If minThreads > 0 and every spawn attempt fails, Start returns an
// error and leaves the pool unstarted; spawn failures when at least one
// worker came up are only logged.
func (p *Pool) Start() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.started {
		return nil
	}

	var lastErr error
	spawned := 0
	for i := 0; i < p.minThreads; i++ {
		if err := p.addWorkerLocked(); err != nil {
			lastErr = err
			p.logger.Warn("failed to spawn worker", map[string]any{"pool": p.name, "error": err.Error()})
			continue
		}
		spawned++
	}
	if p.minThreads > 0 && spawned == 0 {
		return fmt.Errorf("threadpool: could not spawn any workers for pool %q: %w", p.name, lastErr)
	}
	p.started = true
	return nil
}

// Stop signals every live worker to exit, waits for all outstanding tasks
// to be accounted for, and waits for every worker goroutine to actually
// return before returning itself. Stopping a pool that isn't started logs a
// warning and returns immediately.
func (p *Pool) Stop() {
	p.mu.Lock()
	if !p.started {
		p.mu.Unlock()
		p.logger.Warn("tried to stop a pool that was not running", map[string]any{"pool": p.name})
		return
	}

	live := make([]*worker, 0, len(p.workers))
	for _, w := range p.workers {
		live = append(live, w)
	}
	p.workers = make(map[string]*worker)
	p.refreshROLocked()
	p.started = false

	for range live {
		p.outstanding.Add(1)
		p.queue <- stopTask
	}
	p.mu.Unlock()

	p.outstanding.Wait()
	p.workerWG.Wait()
}

// AddTask submits r for execution under name (used only for logging/metric
// labeling; empty becomes "Unnamed task").
//
// If the pool has maxThreads == 0 it is degenerate: every task runs
// synchronously on the caller's goroutine, uncontained - a panic in r
// propagates to the caller. The same is true of the inline fallback below;
// only tasks that actually pass through a worker get panic containment
// (spec.md §4.2, §9).
//
// Otherwise AddTask first tries a non-blocking enqueue. On a full queue it
// tries to grow the pool by one worker (bounded by maxThreads and by the
// CPU ceiling) and retries. Once growth is no longer possible: if inline is
// set, r runs synchronously; else if blocking is set, AddTask retries the
// enqueue once per blockingRetryInterval until it succeeds; else AddTask
// returns ErrFull.
func (p *Pool) AddTask(r Runnable, name string, blocking, inline bool) error {
	if name == "" {
		name = "Unnamed task"
	}
	if p.maxThreads == 0 {
		r.Run()
		return nil
	}
	if inline {
		blocking = false
	}

	p.mu.Lock()
	for {
		t := newTask(r, name)
		p.outstanding.Add(1)
		select {
		case p.queue <- t:
			p.mu.Unlock()
			return nil
		default:
			p.outstanding.Done()
		}

		if p.Len() < p.maxThreads && p.CPUUsage() < cpuGrowthCeiling {
			if err := p.addWorkerLocked(); err == nil {
				continue
			} else {
				p.logger.Error("could not spawn worker thread", err, map[string]any{"pool": p.name})
			}
		}

		if inline {
			p.mu.Unlock()
			r.Run()
			return nil
		}
		if blocking {
			p.outstanding.Add(1)
			select {
			case p.queue <- t:
				p.mu.Unlock()
				return nil
			case <-time.After(blockingRetryInterval):
				p.outstanding.Done()
				continue
			}
		}
		p.mu.Unlock()
		return ErrFull
	}
}

// Join blocks until every task that has been successfully enqueued (and
// every pending Stop sentinel) has been accounted for by a worker.
func (p *Pool) Join() {
	p.outstanding.Wait()
}
