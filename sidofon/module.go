package sidofon

import (
	"math"

	"sidofon/app/dsp"
	"sidofon/app/regs"
	resid "sidofon/app/sid"
)

// triggerTime is the length of the clock out pulse in seconds.
const triggerTime = 1e-4

// Sequencer is an alternative source of register contents, such as a C64
// play routine. When attached it writes the registers on every control
// tick instead of the knobs.
type Sequencer interface {
	Update(w regs.Writer)
}

// ProcessArgs is the host state of one audio frame.
type ProcessArgs struct {
	SampleRate float32
	SampleTime float32
}

// Module is the SID voice module. It is driven by one Process call per
// audio frame and must only be used from that goroutine.
type Module struct {
	Params  [NumParams]Param
	Inputs  [NumInputs]Input
	Outputs [NumOutputs]Output
	Lights  [NumLights]dsp.Light

	engine  Engine
	voices  [regs.NumVoices]*regs.VoiceRegs
	filter  *regs.FilterRegs
	decoder *regs.Decoder
	seq     Sequencer

	cpuType         CPUType
	sidType         SIDType
	sampleMode      SampleMode
	vsyncOversample int

	cpuClockHz     float32
	cpuClockRealHz float32
	vsyncHz        float32
	sampleRate     float32
	cpuClockSteps  resid.CycleCount

	clkIn        dsp.SchmittTrigger
	clkOut       dsp.PulseGenerator
	vsyncCounter float32
	vsyncPeriod  float32

	sample int16
	buf    [1]int16
	ticks  uint64
}

// New returns a module driving engine, with every knob at its default.
// Nothing is written to the engine before the first Process call.
func New(engine Engine) *Module {
	m := &Module{
		engine:          engine,
		filter:          regs.NewFilterRegs(),
		cpuType:         PAL,
		sidType:         MOS8580,
		sampleMode:      SampleDirect,
		vsyncOversample: 1,
	}
	for i := range m.voices {
		m.voices[i] = regs.NewVoiceRegs()
	}
	m.decoder = regs.NewDecoder(m.voices, m.filter)

	m.cpuClockHz = m.cpuType.ClockHz()
	m.cpuClockRealHz = m.cpuClockHz
	m.vsyncHz = m.cpuType.VSyncHz()

	for id := range m.Params {
		m.Params[id].Value = Config(id).Default
	}
	return m
}

func (m *Module) CPUType() CPUType { return m.cpuType }
func (m *Module) SIDType() SIDType { return m.sidType }
func (m *Module) SampleMode() SampleMode { return m.sampleMode }
func (m *Module) VSyncOversample() int { return m.vsyncOversample }
func (m *Module) SampleRate() float32 { return m.sampleRate }

// ControlTicks counts the control ticks run so far.
func (m *Module) ControlTicks() uint64 { return m.ticks }

// CPUClockSteps returns the number of chip cycles run per audio frame.
func (m *Module) CPUClockSteps() int { return int(m.cpuClockSteps) }

// CPUClockRealHz is the chip clock actually emulated: CPUClockSteps times
// the sample rate.
func (m *Module) CPUClockRealHz() float32 { return m.cpuClockRealHz }

// Voice returns the register bank of voice voiceNo.
func (m *Module) Voice(voiceNo int) *regs.VoiceRegs { return m.voices[voiceNo] }

// Filter returns the filter register bank.
func (m *Module) Filter() *regs.FilterRegs { return m.filter }

// SetSequencer attaches a register source, or detaches it when seq is nil.
// The banks are reset so the next tick rewrites every register.
func (m *Module) SetSequencer(seq Sequencer) {
	m.seq = seq
	m.resetRegs()
}

func (m *Module) SetCPUType(t CPUType) {
	if t == m.cpuType {
		return
	}
	m.cpuType = t
	m.cpuClockHz = t.ClockHz()
	m.vsyncHz = t.VSyncHz()
	m.reset()
}

func (m *Module) SetSIDType(t SIDType) {
	if t != m.sidType {
		m.sidType = t
		m.reset()
	}
}

func (m *Module) SetSampleRate(rate float32) {
	if rate != m.sampleRate {
		m.sampleRate = rate
		m.reset()
	}
}

func (m *Module) SetSampleMode(mode SampleMode) {
	if mode != m.sampleMode {
		m.sampleMode = mode
		m.reset()
	}
}

// SetVSyncOversample sets the number of control ticks per v-sync. 0 makes
// every frame a control tick. Factors other than 0, 1, 2, 4, 8 and 16 are
// rejected.
func (m *Module) SetVSyncOversample(factor int) bool {
	switch factor {
	case 0, 1, 2, 4, 8, 16:
		m.vsyncOversample = factor
		return true
	}
	return false
}

// reset configures the engine for the current clock, chip and sample
// rate. It does nothing until the sample rate is known.
func (m *Module) reset() {
	if m.sampleRate == 0 {
		return
	}

	m.vsyncCounter = 0
	m.vsyncPeriod = m.sampleRate / m.vsyncHz

	m.engine.Reset()

	is6581 := m.sidType == MOS6581
	m.engine.SetChipModel(m.sidType.Model())
	// three voices and EXT IN
	m.engine.SetVoiceMask(0x0f)
	m.engine.EnableFilter(true)
	if is6581 {
		m.engine.AdjustFilterBias(0.5)
	} else {
		m.engine.AdjustFilterBias(0)
	}
	m.engine.EnableExternalFilter(true)

	m.cpuClockSteps = resid.CycleCount(math.Round(float64(m.cpuClockHz / m.sampleRate)))
	m.cpuClockRealHz = float32(m.cpuClockSteps) * m.sampleRate

	m.engine.SetSamplingParameters(float64(m.cpuClockRealHz), m.sampleMode.Method(), float64(m.sampleRate))

	m.resetRegs()
}

func (m *Module) resetRegs() {
	for _, v := range m.voices {
		v.Reset()
	}
	m.filter.Reset()
	m.decoder.Reset()
}

// Process runs one audio frame.
func (m *Module) Process(args ProcessArgs) {
	if args.SampleRate != m.sampleRate {
		m.SetSampleRate(args.SampleRate)
	}

	m.engine.Input(m.auxSample())

	if m.updateClock() {
		m.updateRegisters()
		m.ticks++
		m.clkOut.Trigger(triggerTime)
	}

	m.updateLights(args.SampleTime)

	m.render()

	m.Outputs[Voice3OscOutput].Voltage = float32(m.engine.Read(resid.REG_OSC3))*10/255 - 5
	m.Outputs[Voice3EnvOutput].Voltage = float32(m.engine.Read(resid.REG_ENV3)) * 10 / 255
	m.Outputs[AudioOutput].Voltage = float32(m.sample) * 20 / 32768

	if m.clkOut.Process(args.SampleTime) {
		m.Outputs[ClockOutput].Voltage = 10
	} else {
		m.Outputs[ClockOutput].Voltage = 0
	}
}

// auxSample converts the AUX input to an EXT IN sample. An unconnected
// AUX pins EXT IN low on the digi boost chip.
func (m *Module) auxSample() int16 {
	if in := &m.Inputs[AuxInput]; in.Connected {
		return int16(dsp.Clamp(in.Voltage/5, -1, 1) * 32767)
	}
	if m.sidType == MOS8580Digi {
		return -32768
	}
	return 0
}

func (m *Module) updateRegisters() {
	if m.seq != nil {
		m.seq.Update(m.decoder)
		for i, v := range m.voices {
			v.Realize(m.engine, i)
		}
		m.filter.Realize(m.engine)
		return
	}

	for i, v := range m.voices {
		m.updateVoice(i)
		v.Realize(m.engine, i)
	}
	m.updateFilter()
	m.filter.Realize(m.engine)
}

// render runs the engine for one frame and keeps its last sample.
func (m *Module) render() {
	if m.sampleMode == SampleDirect {
		m.engine.Clock(m.cpuClockSteps)
		m.sample = m.engine.Output()
		return
	}

	steps := m.cpuClockSteps
	for steps > 0 {
		if m.engine.ClockSamples(&steps, m.buf[:]) > 0 {
			m.sample = m.buf[0]
		}
	}
}
