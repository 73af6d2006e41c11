// Package batch fans a flat list of values out to a named worker pool in
// fixed-size groups, mirroring the original BatchConverter's Convert/Grouper
// pairing.
package batch

import (
	"fmt"
	"sync"

	"dynapool/internal/threadpool"
)

// ConvertFunc processes a single batch of values. It is called on a pool
// worker and may be invoked concurrently for different batches.
type ConvertFunc func(batchIndex int, values []string) error

// Converter fans values out to a named pool, batch_size values per task.
type Converter struct {
	// PoolName is the registry name the pool is created or looked up under.
	PoolName string

	// PoolSize is the pool's max thread count, used only on first creation
	// of PoolName (Factory ignores later callers' sizing).
	PoolSize int

	// CPUCheck enables the pool's CPU-usage growth ceiling.
	CPUCheck bool

	// BatchSize is how many values each task receives.
	BatchSize int

	// Convert is called once per batch.
	Convert ConvertFunc
}

// ConvertAll slices values[startIndex:endIndex] into groups of BatchSize and
// submits one task per group to the converter's pool, waiting for every
// batch to finish before returning. It returns the first error any batch
// produced, if any; every batch still runs even after one fails.
//
// A negative endIndex (matching the original's end_index=None) means "to
// the end of values"; endIndex == 0 is a genuine empty range, not a
// sentinel, and yields a no-op slice.
func (c *Converter) ConvertAll(values []string, startIndex, endIndex int) error {
	if len(values) == 0 {
		return nil
	}
	if endIndex < 0 || endIndex > len(values) {
		endIndex = len(values)
	}
	if startIndex < 0 {
		startIndex = 0
	}
	if startIndex >= endIndex {
		return nil
	}
	slice := values[startIndex:endIndex]

	batchSize := c.BatchSize
	if batchSize <= 0 {
		batchSize = 1000
	}

	// Factory's min_threads must match threadpool_size, the way the
	// original always calls Factory(prefix, threadpool_size) with
	// max_threads defaulting to min: a zero min_threads would spawn no
	// workers, and with batch count <= PoolSize every batch is accepted by
	// a non-blocking push before the queue is ever observed full, so the
	// growth path in AddTask never fires and Join blocks forever.
	pool := threadpool.Factory(c.PoolName, c.PoolSize, c.PoolSize, c.CPUCheck)
	if err := pool.Start(); err != nil {
		return fmt.Errorf("batch: failed to start pool %q: %w", c.PoolName, err)
	}
	defer pool.Stop()

	var (
		mu       sync.Mutex
		firstErr error
	)
	recordErr := func(err error) {
		mu.Lock()
		defer mu.Unlock()
		if firstErr == nil {
			firstErr = err
		}
	}

	for batchIndex, group := range grouper(slice, batchSize) {
		batchIndex, group := batchIndex, group
		r := threadpool.RunnableFunc(func() {
			if err := c.Convert(batchIndex, group); err != nil {
				recordErr(fmt.Errorf("batch %d: %w", batchIndex, err))
			}
		})
		name := fmt.Sprintf("batch_%d", batchIndex)
		if err := pool.AddTask(r, name, true, false); err != nil {
			recordErr(fmt.Errorf("batch %d: failed to submit: %w", batchIndex, err))
		}
	}

	pool.Join()
	return firstErr
}

// grouper splits values into consecutive chunks of at most size elements
// each, the Go analogue of itertools.islice over a Grouper.
func grouper(values []string, size int) [][]string {
	if size <= 0 {
		size = len(values)
	}
	var groups [][]string
	for start := 0; start < len(values); start += size {
		end := start + size
		if end > len(values) {
			end = len(values)
		}
		groups = append(groups, values[start:end])
	}
	return groups
}
