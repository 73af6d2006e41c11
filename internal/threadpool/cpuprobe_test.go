package threadpool

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestZeroCPUProbeAlwaysZero(t *testing.T) {
	var p CPUProbe = zeroCPUProbe{}
	assert.Equal(t, float64(0), p.CPUUsage())
}

func TestRuntimeCPUProbeWithinBounds(t *testing.T) {
	p := NewRuntimeCPUProbe()
	usage := p.CPUUsage()
	assert.GreaterOrEqual(t, usage, float64(0))
	assert.LessOrEqual(t, usage, float64(100))
}
