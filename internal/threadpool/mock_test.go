package threadpool

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSerialPoolRunsSynchronously(t *testing.T) {
	s := NewSerialPool()
	require.NoError(t, s.Start())
	defer s.Stop()

	var order []int
	for i := 0; i < 3; i++ {
		i := i
		err := s.AddTask(RunnableFunc(func() { order = append(order, i) }), "step", false, false)
		require.NoError(t, err)
	}

	assert.Equal(t, []int{0, 1, 2}, order, "a SerialPool must run each task to completion before AddTask returns")
	s.Join()
}

func TestSerialPoolSwallowsPanicByDefault(t *testing.T) {
	s := NewSerialPool()

	var ranAfter bool
	assert.NotPanics(t, func() {
		_ = s.AddTask(RunnableFunc(func() { panic("boom") }), "panics", false, false)
	})
	_ = s.AddTask(RunnableFunc(func() { ranAfter = true }), "next", false, false)
	assert.True(t, ranAfter)
}

func TestSerialPoolStrictRePanics(t *testing.T) {
	s := NewSerialPoolStrict(&recordingLogger{})

	assert.Panics(t, func() {
		_ = s.AddTask(RunnableFunc(func() { panic("boom") }), "panics", false, false)
	})
}

func TestSerialPoolSatisfiesSubmitter(t *testing.T) {
	var sub Submitter = NewSerialPool()
	assert.NotNil(t, sub)
}
