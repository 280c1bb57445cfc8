// Package sidofon is the SID voice module of the rack: it derives the
// register contents of the three voices and the filter from knobs and CV
// inputs, flushes them to a SID engine at control rate and renders one
// audio sample per frame.
package sidofon

import (
	"fmt"
	"io"

	"sidofon/app/regs"
	resid "sidofon/app/sid"
)

// Engine is the emulation core driven by the module. *resid.Sid implements
// it.
type Engine interface {
	regs.Writer
	Reset()
	SetChipModel(model resid.Model)
	SetVoiceMask(mask uint8)
	EnableFilter(enable bool)
	AdjustFilterBias(bias float64)
	EnableExternalFilter(enable bool)
	SetSamplingParameters(clockFreq float64, method resid.SamplingMethod, sampleFreq float64) bool
	Read(offset uint8) uint8
	Clock(deltaT resid.CycleCount)
	ClockSamples(deltaT *resid.CycleCount, buf []int16) int
	Output() int16
	Input(sample int16)
}

// CPUType is the video standard of the emulated machine. It sets the chip
// clock and the v-sync rate.
type CPUType int

const (
	PAL CPUType = iota
	NTSC
)

const (
	ClockHzPAL  = 985248
	ClockHzNTSC = 1022727
	VSyncHzPAL  = 50
	VSyncHzNTSC = 60
)

func (c CPUType) ClockHz() float32 {
	if c == NTSC {
		return ClockHzNTSC
	}
	return ClockHzPAL
}

func (c CPUType) VSyncHz() float32 {
	if c == NTSC {
		return VSyncHzNTSC
	}
	return VSyncHzPAL
}

func (c CPUType) String() string {
	if c == NTSC {
		return "NTSC"
	}
	return "PAL"
}

// SIDType is the emulated chip.
type SIDType int

const (
	MOS6581 SIDType = iota
	MOS8580
	// MOS8580Digi is a MOS8580 with the EXT IN pin pulled low, which
	// restores the loud volume register samples of the MOS6581.
	MOS8580Digi
)

// Model returns the engine chip model.
func (s SIDType) Model() resid.Model {
	if s == MOS6581 {
		return resid.MOS6581
	}
	return resid.MOS8580
}

func (s SIDType) String() string {
	switch s {
	case MOS6581:
		return "MOS6581"
	case MOS8580Digi:
		return "MOS8580 digi boost"
	}
	return "MOS8580"
}

// SampleMode selects how the engine produces its samples.
type SampleMode int

const (
	SampleInterpolate SampleMode = iota
	SampleResample
	SampleResampleFastMem
	// SampleDirect clocks the engine a whole frame and reads its output.
	SampleDirect
)

// Method returns the engine sampling method for the mode. The engine
// clocks interpolate, resample and resample fastmem the same way.
func (m SampleMode) Method() resid.SamplingMethod {
	switch m {
	case SampleInterpolate:
		return resid.SAMPLE_INTERPOLATE
	case SampleResampleFastMem:
		return resid.SAMPLE_RESAMPLE_FASTMEM
	}
	return resid.SAMPLE_RESAMPLE
}

func (m SampleMode) String() string {
	switch m {
	case SampleInterpolate:
		return "interpolate"
	case SampleResample:
		return "resample"
	case SampleResampleFastMem:
		return "resample fastmem"
	}
	return "direct"
}

// TraceEngine prints every register write to Out before passing it on.
type TraceEngine struct {
	Engine
	Out io.Writer
}

func (t *TraceEngine) Write(offset uint8, value uint8) {
	fmt.Fprintf(t.Out, " @%02x=%02x", offset, value)
	t.Engine.Write(offset, value)
}
