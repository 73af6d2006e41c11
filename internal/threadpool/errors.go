package threadpool

import "errors"

// ErrFull is returned by AddTask when the queue is saturated and the caller
// requested neither blocking nor inline fallback.
var ErrFull = errors.New("threadpool: queue is full")

// ErrDuplicatePool is returned by NewPool when a named pool is constructed
// directly (not via Factory) while a pool of that name is already
// registered. Factory itself never returns this error - it always hands
// back the existing or newly created pool.
var ErrDuplicatePool = errors.New("threadpool: a pool with this name already exists")
