// Package dsp holds the small signal helpers a rack module needs on its
// audio thread: trigger detection, pulse generation and light smoothing.
package dsp

import "cmp"

// FreqC4 is the frequency of middle C in Hz, the 0 V pitch reference.
const FreqC4 float32 = 261.6256

// Clamp limits x to [lo, hi].
func Clamp[T cmp.Ordered](x, lo, hi T) T {
	return max(lo, min(x, hi))
}

// SchmittTrigger detects rising edges with hysteresis. The zero value is
// in the high state, so a signal that is already high does not fire until
// it has gone low once.
type SchmittTrigger struct {
	armed bool
}

// Process returns true when in reaches highThreshold after having been at
// or below lowThreshold.
func (s *SchmittTrigger) Process(in, lowThreshold, highThreshold float32) bool {
	if !s.armed {
		if in <= lowThreshold {
			s.armed = true
		}
		return false
	}
	if in >= highThreshold {
		s.armed = false
		return true
	}
	return false
}

// Reset puts the trigger back in the high state.
func (s *SchmittTrigger) Reset() {
	s.armed = false
}

// PulseGenerator produces a pulse of a fixed duration after a trigger.
// Time is counted in seconds of processed audio, not wall clock time.
type PulseGenerator struct {
	remaining float32
}

// Trigger starts a pulse, extending one that is already running if the new
// one is longer.
func (p *PulseGenerator) Trigger(duration float32) {
	if duration > p.remaining {
		p.remaining = duration
	}
}

// Process advances the pulse by deltaTime and reports whether it is high.
func (p *PulseGenerator) Process(deltaTime float32) bool {
	if p.remaining > 0 {
		p.remaining -= deltaTime
		return true
	}
	return false
}

// Reset cancels a running pulse.
func (p *PulseGenerator) Reset() {
	p.remaining = 0
}

// lightTau is the decay time constant of a light in seconds.
const lightTau = 0.1

// Light is a panel indicator whose brightness rises immediately and decays
// smoothly.
type Light struct {
	Brightness float32
}

// SetSmoothBrightness moves the light towards brightness over deltaTime.
func (l *Light) SetSmoothBrightness(brightness, deltaTime float32) {
	if brightness >= l.Brightness {
		l.Brightness = brightness
		return
	}
	k := min(deltaTime/lightTau, 1)
	l.Brightness += (brightness - l.Brightness) * k
}
