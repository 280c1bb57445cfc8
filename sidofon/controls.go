package sidofon

import (
	"math"

	"sidofon/app/dsp"
	"sidofon/app/regs"
)

// FreqToReg converts a frequency in Hz to the oscillator register value of
// a chip clocked at clockHz. The value wraps at 16 bits.
func FreqToReg(freq, clockHz float32) uint16 {
	return uint16(int64(math.Round(float64(freq) * (1 << 24) / float64(clockHz))))
}

// RegToFreq is the inverse of FreqToReg.
func RegToFreq(reg uint16, clockHz float32) float32 {
	return float32(reg) * clockHz / (1 << 24)
}

// PitchHz maps a semitone knob and a 1V/octave CV to a frequency, 0
// being C4.
func PitchHz(knob, cv float32) float32 {
	return dsp.FreqC4 * float32(math.Pow(2, float64(knob+12*cv)/12))
}

// cv returns the voltage of input id, or 0 when it is not connected.
func (m *Module) cv(id int) float32 {
	if in := &m.Inputs[id]; in.Connected {
		return in.Voltage
	}
	return 0
}

// switchValue is on when knob plus CV reach 1.
func (m *Module) switchValue(id int) bool {
	return m.Params[id].Value+m.cv(id) >= 1
}

// unitValue is the knob plus CV/10, clamped to [0, 1].
func (m *Module) unitValue(id int) float32 {
	return dsp.Clamp(m.Params[id].Value+m.cv(id)/10, 0, 1)
}

// nibbleValue scales a unit value to 0..limit, truncating.
func (m *Module) nibbleValue(id int, limit uint8) uint8 {
	return uint8(m.unitValue(id) * float32(limit))
}

var waveSwitches = [...]struct {
	param int
	bit   uint8
}{
	{WaveTri, regs.WaveTriangle},
	{WaveSaw, regs.WaveSawtooth},
	{WavePulse, regs.WaveRectangle},
	{WaveNoise, regs.WaveNoise},
}

func (m *Module) updateVoice(voiceNo int) {
	v := m.voices[voiceNo]
	id := func(offset int) int { return VoiceParam(voiceNo, offset) }

	hz := PitchHz(m.Params[id(Pitch)].Value, m.cv(id(Pitch)))
	v.SetFreq(FreqToReg(hz, m.cpuClockRealHz))

	pw := (dsp.Clamp(m.Params[id(PulseWidth)].Value+m.cv(id(PulseWidth))/5, -1, 1) + 1) / 2
	v.SetPulseWidth(uint16(pw * regs.PulseWidthMax))

	var waveform uint8
	for _, w := range waveSwitches {
		if m.switchValue(id(w.param)) {
			waveform |= w.bit
		}
	}
	v.SetWaveform(waveform)

	v.SetGate(m.switchValue(id(Gate)))
	v.SetSync(m.switchValue(id(Sync)))
	v.SetRingMod(m.switchValue(id(RingMod)))
	v.SetTest(m.switchValue(id(Test)))

	v.SetAttack(m.nibbleValue(id(Attack), regs.AttackMax))
	v.SetDecay(m.nibbleValue(id(Decay), regs.DecayMax))
	v.SetSustain(m.nibbleValue(id(Sustain), regs.SustainMax))
	v.SetRelease(m.nibbleValue(id(Release), regs.ReleaseMax))
}

func (m *Module) updateFilter() {
	f := m.filter
	for i := 0; i < regs.NumVoices; i++ {
		f.SetFilterVoice(i, m.switchValue(FilterVoice1+i))
	}
	f.SetFilterExt(m.switchValue(FilterAux))

	var mode uint8
	if m.switchValue(FilterLowPass) {
		mode |= regs.ModeLowPass
	}
	if m.switchValue(FilterBandPass) {
		mode |= regs.ModeBandPass
	}
	if m.switchValue(FilterHighPass) {
		mode |= regs.ModeHighPass
	}
	f.SetMode(mode)
	f.SetVoice3Off(m.switchValue(Voice3Off))

	// The cutoff rounds to the nearest step, unlike the 4 bit values.
	f.SetCutOff(uint16(math.Round(float64(m.unitValue(FilterCutoff) * regs.CutoffMax))))
	f.SetResonance(m.nibbleValue(FilterResonance, regs.ResonanceMax))
	f.SetVolume(m.nibbleValue(Volume, regs.VolumeMax))
}
