package resid

import (
	"math"
)

const pi = 3.1415926535897932385

// SidFilter is the state variable filter and mixer of the SID chip.
type SidFilter struct {
	enabled bool

	// Cutoff frequency register, 11 bits.
	fc reg12

	// Resonance, 4 bits.
	res reg8

	// Inputs routed through the filter: voice 1-3 in bits 0-2, ext in bit 3.
	filt reg8

	voice3Off reg8

	// Highpass, bandpass and lowpass select in bits 2-0.
	hpBpLp reg8

	volume reg4

	mixerDC soundSample

	// Filter state.
	vhp soundSample
	vbp soundSample
	vlp soundSample
	vnf soundSample

	// Cutoff frequency and 1/Q, fixed point.
	w0, w0Ceil1, w0CeilDt soundSample
	q1024                 soundSample

	model Model
	bias  float64
}

// ----------------------------------------------------------------------------
// Constructor.
// ----------------------------------------------------------------------------
func NewSidFilter() *SidFilter {
	f := &SidFilter{bias: 0.5}
	f.EnableFilter(true)
	f.SetModel(MOS6581)
	return f
}

func (f *SidFilter) Reset() {
	f.fc, f.res, f.filt, f.voice3Off = 0, 0, 0, 0
	f.vhp, f.vbp, f.vlp, f.vnf = 0, 0, 0, 0
	f.hpBpLp, f.volume = 0, 0

	f.setW0()
	f.setQ()
}

// ----------------------------------------------------------------------------
// Register functions.
// ----------------------------------------------------------------------------

// WriteFcLo takes bits 0-7 of the cutoff.
func (f *SidFilter) WriteFcLo(fcLo reg8) {
	f.fc = (f.fc & 0x700) | reg12(fcLo)
	f.setW0()
}

// WriteFcHi takes bits 8-10 of the cutoff from the low 3 bits.
func (f *SidFilter) WriteFcHi(fcHi reg8) {
	f.fc = (reg12(fcHi&0x07) << 8) | (f.fc & 0x0ff)
	f.setW0()
}

func (f *SidFilter) WriteResFilt(resFilt reg8) {
	f.res = (resFilt >> 4) & 0x0f
	f.setQ()

	f.filt = resFilt & 0x0f
}

func (f *SidFilter) WriteModeVol(modeVol reg8) {
	f.voice3Off = modeVol & 0x80
	f.hpBpLp = (modeVol >> 4) & 0x07
	f.volume = reg4(modeVol & 0x0f)
}

// CutoffHz returns the filter cutoff frequency for the current register
// value, chip model and bias.
//
// The MOS8580 curve is close to linear from 0 to 12.5 kHz. The MOS6581
// curve rises roughly exponentially from 220 Hz to 18 kHz, and the bias
// moves it up or down by up to half an octave.
func (f *SidFilter) CutoffHz() float64 {
	x := float64(f.fc) / 2047
	if f.model == MOS8580 {
		return 30 + 12470*x
	}
	hz := 220 * math.Pow(18000.0/220.0, x)
	return hz * math.Pow(2, f.bias-0.5)
}

func (f *SidFilter) setW0() {
	// Multiply with 1.048576 to facilitate division by 1 000 000 by right-
	// shifting 20 times (2 ^ 20 = 1048576).
	f.w0 = soundSample(math.Round(2.0 * pi * f.CutoffHz() * 1.048576))

	// Limit f0 to 16kHz to keep 1 cycle filter stable.
	w0Max1 := soundSample(math.Round(2.0 * pi * 16000.0 * 1.048576))
	f.w0Ceil1 = min(f.w0, w0Max1)

	// Limit f0 to 4kHz to keep deltaT cycle filter stable.
	w0MaxDt := soundSample(math.Round(2.0 * pi * 4000.0 * 1.048576))
	f.w0CeilDt = min(f.w0, w0MaxDt)
}

// Q is controlled linearly by res, range [0.707, 1.7]. The factor 1024 is
// removed again by shifting right 10 times.
func (f *SidFilter) setQ() {
	f.q1024 = soundSample(math.Round(1024.0 / (0.707 + 1.0*float64(f.res)/15.0)))
}

func (f *SidFilter) EnableFilter(enable bool) {
	f.enabled = enable
}

// AdjustFilterBias shifts the MOS6581 cutoff curve. 0.5 is the nominal
// chip; the MOS8580 ignores it.
func (f *SidFilter) AdjustFilterBias(bias float64) {
	f.bias = math.Max(0, math.Min(bias, 1))
	f.setW0()
}

func (f *SidFilter) SetModel(model Model) {
	f.model = model
	if model == MOS6581 {
		// The mixer input DC offset is about -1/18 of the dynamic range of
		// one voice.
		f.mixerDC = -0xfff * 0xff / 18 >> 7
	} else {
		// No DC offsets in the MOS8580.
		f.mixerDC = 0
	}

	f.setW0()
	f.setQ()
}

// Clock runs the filter deltaT cycles with the given 20 bit voice levels
// and external input.
func (f *SidFilter) Clock(deltaT CycleCount, voice1, voice2, voice3, extIn soundSample) {
	// Scale each voice down from 20 to 13 bits.
	voice1 >>= 7
	voice2 >>= 7

	// Voice 3 is not silenced by voice3off if it is routed through the
	// filter.
	if f.voice3Off != 0 && f.filt&0x04 == 0 {
		voice3 = 0
	} else {
		voice3 >>= 7
	}

	extIn >>= 7

	if !f.enabled {
		f.vnf = voice1 + voice2 + voice3 + extIn
		f.vhp, f.vbp, f.vlp = 0, 0, 0
		return
	}

	// Route each input into or around the filter.
	var vi soundSample
	f.vnf = 0
	for i, in := range [4]soundSample{voice1, voice2, voice3, extIn} {
		if f.filt&(1<<i) != 0 {
			vi += in
		} else {
			f.vnf += in
		}
	}

	// The filter is stable for at most about 8 cycles per step at the
	// capped cutoff and resonance.
	deltaTFlt := CycleCount(8)

	for deltaT != 0 {
		if deltaT < deltaTFlt {
			deltaTFlt = deltaT
		}

		// Vhp = Vbp/Q - Vlp - Vi;
		// dVbp = -w0*Vhp*dt;
		// dVlp = -w0*Vbp*dt;
		w0DeltaT := f.w0CeilDt * soundSample(deltaTFlt) >> 6

		dVbp := w0DeltaT * f.vhp >> 14
		dVlp := w0DeltaT * f.vbp >> 14
		f.vbp -= dVbp
		f.vlp -= dVlp
		f.vhp = (f.vbp * f.q1024 >> 10) - f.vlp - vi

		deltaT -= deltaTFlt
	}
}

// Output mixes the unfiltered inputs with the selected filter outputs and
// applies the master volume.
func (f *SidFilter) Output() soundSample {
	if !f.enabled {
		return (f.vnf + f.mixerDC) * soundSample(f.volume)
	}

	// The filter outputs are summed without weighting.
	var vf soundSample
	if f.hpBpLp&0x1 != 0 {
		vf += f.vlp
	}
	if f.hpBpLp&0x2 != 0 {
		vf += f.vbp
	}
	if f.hpBpLp&0x4 != 0 {
		vf += f.vhp
	}

	return (f.vnf + vf + f.mixerDC) * soundSample(f.volume)
}
