package threadpool

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWorkerRetiresAfterIdleTimeoutAboveMin(t *testing.T) {
	withFastTimers(t, 15*time.Millisecond, maxWorkerAge, blockingRetryInterval)

	p := newTestPool(t, "", 1, 3)
	require.NoError(t, p.Start())
	defer p.Stop()

	// Force growth to 3 by saturating, then release so the two extra
	// workers sit idle and retire back down toward minThreads. The queue
	// holds maxThreads tasks, so only more than that many blockers fill it
	// and trigger growth; 6 (3 running + 3 queued) guarantees 3 workers.
	release := make(chan struct{})
	for i := 0; i < 6; i++ {
		require.NoError(t, p.AddTask(RunnableFunc(func() { <-release }), "blocker", true, false))
	}
	require.Eventually(t, func() bool { return p.Len() == 3 }, time.Second, 5*time.Millisecond)
	close(release)

	require.Eventually(t, func() bool {
		return p.Len() == 1
	}, time.Second, 5*time.Millisecond, "idle workers above minThreads must retire")
}

func TestWorkerNeverRetiresBelowMin(t *testing.T) {
	withFastTimers(t, 10*time.Millisecond, maxWorkerAge, blockingRetryInterval)

	p := newTestPool(t, "", 2, 2)
	require.NoError(t, p.Start())
	defer p.Stop()

	time.Sleep(100 * time.Millisecond)
	assert.Equal(t, 2, p.Len(), "workers at minThreads must never self-retire on idle")
}

func TestWorkerRetiresAfterMaxAge(t *testing.T) {
	p := newTestPool(t, "", 1, 2)
	require.NoError(t, p.Start())
	defer p.Stop()

	// 4 blockers (2 running + 2 queued) fill the maxThreads-sized queue, so
	// the pool has to grow to 2.
	release := make(chan struct{})
	for i := 0; i < 4; i++ {
		require.NoError(t, p.AddTask(RunnableFunc(func() { <-release }), "blocker", true, false))
	}
	require.Eventually(t, func() bool { return p.Len() == 2 }, time.Second, 5*time.Millisecond)
	close(release)

	// Both workers are now idle but above minThreads. Shrink maxWorkerAge to
	// 0 so the next real task either of them completes makes it eligible to
	// retire, then submit exactly one such task.
	withFastTimers(t, idleTimeout, 0, blockingRetryInterval)
	require.NoError(t, p.AddTask(RunnableFunc(func() {}), "age-check", true, false))

	require.Eventually(t, func() bool {
		return p.Len() == 1
	}, time.Second, 5*time.Millisecond, "a worker older than maxWorkerAge must retire once minThreads allows it")
}

func TestWorkerTryRemoveSelfRespectsMinThreads(t *testing.T) {
	p := buildPool(Config{MinThreads: 1, MaxThreads: 3})
	w1 := &worker{name: "w1", pool: p}
	w2 := &worker{name: "w2", pool: p}
	p.workers["w1"] = w1
	p.workers["w2"] = w2
	p.refreshROLocked()

	assert.True(t, w2.tryRemoveSelf())
	assert.Len(t, p.workers, 1)

	assert.False(t, w1.tryRemoveSelf(), "removing the last worker would drop below minThreads")
	assert.Len(t, p.workers, 1)
}

func TestWorkerTryRemoveSelfAlreadyGoneIsIdempotent(t *testing.T) {
	p := buildPool(Config{MinThreads: 0, MaxThreads: 1})
	// Another live worker keeps the set above minThreads, so the size check
	// passes and the missing-from-the-set path is the one exercised.
	p.workers["other"] = &worker{name: "other", pool: p}
	p.refreshROLocked()
	w := &worker{name: "ghost", pool: p}

	assert.True(t, w.tryRemoveSelf(), "a worker no longer in the live set should report success without panicking")
}
