package threadpool

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestInMemoryMetricsGaugeCallback(t *testing.T) {
	m := NewInMemoryMetrics().(*inMemoryMetrics)
	m.RegisterGaugeMetric("widgets", GaugeInt)

	assert.Equal(t, float64(0), m.Gauge("widgets"), "unset callback defaults to 0")

	m.SetGaugeCallback("widgets", func() float64 { return 42 })
	assert.Equal(t, float64(42), m.Gauge("widgets"))
}

func TestInMemoryMetricsCounter(t *testing.T) {
	m := NewInMemoryMetrics().(*inMemoryMetrics)
	m.RegisterCounterMetric("errors")

	assert.Equal(t, int64(0), m.Counter("errors"))
	m.IncrementCounter("errors")
	m.IncrementCounter("errors")
	assert.Equal(t, int64(2), m.Counter("errors"))
}

func TestInMemoryMetricsEvent(t *testing.T) {
	m := NewInMemoryMetrics().(*inMemoryMetrics)
	m.RegisterEventMetric("latency")

	assert.Equal(t, int64(0), m.EventCount("latency"))
	m.RecordEvent("latency", 10*time.Millisecond)
	m.RecordEvent("latency", 20*time.Millisecond)
	assert.Equal(t, int64(2), m.EventCount("latency"))
}

func TestInMemoryMetricsUnknownNamesAreZero(t *testing.T) {
	m := NewInMemoryMetrics().(*inMemoryMetrics)
	assert.Equal(t, float64(0), m.Gauge("nope"))
	assert.Equal(t, int64(0), m.Counter("nope"))
	assert.Equal(t, int64(0), m.EventCount("nope"))
}
