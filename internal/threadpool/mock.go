package threadpool

import "fmt"

// Submitter is the subset of Pool's surface that callers need to submit
// work without depending on whether execution is actually concurrent. Code
// under test can take a Submitter instead of a *Pool and swap in
// SerialPool for deterministic, single-goroutine test runs.
type Submitter interface {
	AddTask(r Runnable, name string, blocking, inline bool) error
	Start() error
	Stop()
	Join()
}

var (
	_ Submitter = (*Pool)(nil)
	_ Submitter = (*SerialPool)(nil)
)

// SerialPool is a degenerate Submitter that runs every task synchronously,
// on the calling goroutine, the moment it is submitted. It exists for tests
// that want deterministic ordering and don't want to reason about
// concurrency, mirroring the mock thread pool the system this package is
// modeled on ships for exactly that purpose.
//
// A panicking task is caught and logged, same as a real worker. By default
// (ignoreErrors true, matching the mock this is grounded on) it is then
// swallowed; with ignoreErrors false it is re-panicked after logging, for
// tests that want to assert a task actually failed.
type SerialPool struct {
	ignoreErrors bool
	logger       Logger
}

// NewSerialPool returns a SerialPool that logs and swallows task panics.
func NewSerialPool() *SerialPool {
	return &SerialPool{ignoreErrors: true, logger: stdLogger{}}
}

// NewSerialPoolStrict returns a SerialPool that logs a task panic and then
// re-panics, for tests that want failures to surface.
func NewSerialPoolStrict(logger Logger) *SerialPool {
	if logger == nil {
		logger = stdLogger{}
	}
	return &SerialPool{ignoreErrors: false, logger: logger}
}

// Start is a no-op; a SerialPool has no workers to spawn.
func (s *SerialPool) Start() error { return nil }

// Stop is a no-op; a SerialPool has no workers to signal.
func (s *SerialPool) Stop() {}

// Join is a no-op; by the time AddTask returns, the task has already run.
func (s *SerialPool) Join() {}

// AddTask runs r immediately, on the calling goroutine. blocking and inline
// are accepted for interface compatibility and otherwise ignored - every
// submission is effectively synchronous and unconditional.
func (s *SerialPool) AddTask(r Runnable, name string, _, _ bool) (err error) {
	defer func() {
		if rec := recover(); rec != nil {
			s.logger.Exception(fmt.Sprintf("SerialPool task %q panicked", name), fmt.Errorf("%v", rec))
			if !s.ignoreErrors {
				panic(rec)
			}
		}
	}()
	r.Run()
	return nil
}
