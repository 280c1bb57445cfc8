package dsp

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClamp(t *testing.T) {
	assert.Equal(t, float32(1), Clamp(float32(3), 0, 1))
	assert.Equal(t, float32(-1), Clamp(float32(-3), -1, 1))
	assert.Equal(t, 0.25, Clamp(0.25, 0, 1))
	assert.Equal(t, 15, Clamp(99, 0, 15))
}

func TestSchmittTriggerNeedsLowFirst(t *testing.T) {
	var s SchmittTrigger

	// already high at start: no edge
	assert.False(t, s.Process(5, 0, 1))
	assert.False(t, s.Process(5, 0, 1))

	// between thresholds does not re-arm
	assert.False(t, s.Process(0.5, 0, 1))
	assert.False(t, s.Process(5, 0, 1))

	assert.False(t, s.Process(0, 0, 1))
	assert.False(t, s.Process(0.5, 0, 1))
	assert.True(t, s.Process(1, 0, 1))
	assert.False(t, s.Process(10, 0, 1))

	assert.False(t, s.Process(-1, 0, 1))
	assert.True(t, s.Process(2, 0, 1))
}

func TestSchmittTriggerCountsEdges(t *testing.T) {
	var s SchmittTrigger
	edges := 0
	for i := 0; i < 100; i++ {
		v := float32(0)
		if i%10 >= 5 {
			v = 10
		}
		if s.Process(v, 0, 1) {
			edges++
		}
	}
	assert.Equal(t, 10, edges)
}

func TestPulseGenerator(t *testing.T) {
	var p PulseGenerator
	assert.False(t, p.Process(1.0/48000))

	p.Trigger(1e-4)
	high := 0
	for i := 0; i < 100; i++ {
		if p.Process(1.0 / 48000) {
			high++
		}
	}
	// 100 µs at 48 kHz is 4.8 frames
	assert.Equal(t, 5, high)

	p.Trigger(1)
	p.Trigger(1e-4)
	assert.True(t, p.Process(0.5))
	assert.True(t, p.Process(0.4))
	p.Reset()
	assert.False(t, p.Process(0.01))
}

func TestLightRisesAndDecays(t *testing.T) {
	var l Light
	l.SetSmoothBrightness(1, 0.001)
	assert.Equal(t, float32(1), l.Brightness)

	l.SetSmoothBrightness(0, 0.01)
	assert.InDelta(t, 0.9, l.Brightness, 1e-6)

	for i := 0; i < 1000; i++ {
		l.SetSmoothBrightness(0, 0.01)
	}
	assert.InDelta(t, 0, l.Brightness, 1e-6)

	l.SetSmoothBrightness(0.3, 1)
	assert.Equal(t, float32(0.3), l.Brightness)
}
