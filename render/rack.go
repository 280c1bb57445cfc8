// Package render drives a sidofon module frame by frame, for the audio
// backends and for offline WAV rendering.
package render

import (
	"sidofon/app/dsp"
	"sidofon/app/midicv"
	"sidofon/app/sidofon"
)

const (
	// audioVolts is the output voltage rendered as full scale.
	audioVolts = 10
	clockVolts = 10
)

// Timer paces the module's control ticks in place of its v-sync, the way
// a tune's CIA timer paces its play routine. PlayHz returns the tick rate
// for a CPU clocked at clockHz, or 0 to leave the module on its v-sync.
type Timer interface {
	PlayHz(clockHz float32) float32
}

// Rack runs one module at a fixed sample rate, optionally played by a MIDI
// sequence.
type Rack struct {
	Module *sidofon.Module

	args  sidofon.ProcessArgs
	seq   *midicv.Sequence
	notes *midicv.Converter
	time  float64

	timer Timer
	phase float32
}

func NewRack(m *sidofon.Module, sampleRate int) *Rack {
	return &Rack{
		Module: m,
		args: sidofon.ProcessArgs{
			SampleRate: float32(sampleRate),
			SampleTime: 1 / float32(sampleRate),
		},
	}
}

// SetSequence plays seq from the start through the module's pitch and gate
// inputs.
func (r *Rack) SetSequence(seq *midicv.Sequence) {
	r.seq = seq
	r.notes = midicv.NewConverter()
	seq.Rewind()
}

// SetTimer drives the module's CLOCK input from t.
func (r *Rack) SetTimer(t Timer) {
	r.timer = t
	r.phase = 0
}

func (r *Rack) SampleRate() int { return int(r.args.SampleRate) }

// Time is the number of seconds rendered so far.
func (r *Rack) Time() float64 { return r.time }

// Next renders one frame and returns the audio output, full scale at 1.
func (r *Rack) Next() float32 {
	if r.seq != nil {
		r.seq.Advance(r.time, r.notes)
		r.notes.Apply(r.Module)
	}
	if r.timer != nil {
		r.clock()
	}
	r.Module.Process(r.args)
	r.time += float64(r.args.SampleTime)
	return r.Module.Outputs[sidofon.AudioOutput].Voltage / audioVolts
}

// clock raises the CLOCK input for one frame each timer period. The rate
// is asked for every frame, so a tune that reprograms its timer in the
// play routine is followed from the next tick on.
func (r *Rack) clock() {
	in := &r.Module.Inputs[sidofon.ClockInput]
	hz := r.timer.PlayHz(r.Module.CPUClockRealHz())
	if hz <= 0 {
		*in = sidofon.Input{}
		r.phase = 0
		return
	}

	in.Connected = true
	in.Voltage = 0
	r.phase += hz * r.args.SampleTime
	if r.phase >= 1 {
		r.phase -= 1
		in.Voltage = clockVolts
	}
}

// Render fills buf with frames.
func (r *Rack) Render(buf []float32) {
	for i := range buf {
		buf[i] = r.Next()
	}
}

// ToInt16 converts a sample to 16 bits, clipping at full scale.
func ToInt16(v float32) int16 {
	return int16(dsp.Clamp(v, -1, 1) * 32767)
}
