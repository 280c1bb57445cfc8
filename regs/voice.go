package regs

// Voice register slots, in SID address order.
const (
	FreqLo = iota
	FreqHi
	PwLo
	PwHi
	Control
	AttackDecay
	SustainRelease
	NumVoiceRegs
)

// Waveform select bits of the control register.
const (
	WaveTriangle  uint8 = 0x10
	WaveSawtooth  uint8 = 0x20
	WaveRectangle uint8 = 0x40
	WaveNoise     uint8 = 0x80
	WaveMask      uint8 = 0xf0
)

// Control flag bits of the control register.
const (
	CtrlGate    uint8 = 0x01
	CtrlSync    uint8 = 0x02
	CtrlRingMod uint8 = 0x04
	CtrlTest    uint8 = 0x08
)

const (
	NumVoices     = 3
	FreqMax       = 65535
	PulseWidthMax = 4095
	AttackMax     = 15
	DecayMax      = 15
	SustainMax    = 15
	ReleaseMax    = 15
)

// VoiceRegs shadows the seven registers of one SID voice.
type VoiceRegs struct {
	Bank
}

// NewVoiceRegs returns a voice bank in the reset state.
func NewVoiceRegs() *VoiceRegs {
	return &VoiceRegs{Bank: newBank(NumVoiceRegs)}
}

// Realize writes the changed registers of voice voiceNo (0..2) to w.
func (v *VoiceRegs) Realize(w Writer, voiceNo int) {
	v.realize(w, uint8(voiceNo*NumVoiceRegs))
}

// SetFreq sets the 16 bit oscillator frequency.
func (v *VoiceRegs) SetFreq(freq uint16) {
	v.set(FreqLo, uint8(freq))
	v.set(FreqHi, uint8(freq>>8))
}

// SetPulseWidth sets the 12 bit pulse width; higher bits are dropped.
func (v *VoiceRegs) SetPulseWidth(pw uint16) {
	pw &= PulseWidthMax
	v.set(PwLo, uint8(pw))
	v.set(PwHi, uint8(pw>>8))
}

// SetWaveform selects the waveforms given as Wave* bits, keeping the
// control flags.
func (v *VoiceRegs) SetWaveform(waveform uint8) {
	v.update(Control, WaveMask, waveform)
}

func (v *VoiceRegs) SetGate(on bool) { v.flag(Control, CtrlGate, on) }
func (v *VoiceRegs) SetSync(on bool) { v.flag(Control, CtrlSync, on) }
func (v *VoiceRegs) SetRingMod(on bool) { v.flag(Control, CtrlRingMod, on) }
func (v *VoiceRegs) SetTest(on bool) { v.flag(Control, CtrlTest, on) }

func (v *VoiceRegs) SetAttack(attack uint8) {
	v.update(AttackDecay, 0xf0, (attack&AttackMax)<<4)
}

func (v *VoiceRegs) SetDecay(decay uint8) {
	v.update(AttackDecay, 0x0f, decay&DecayMax)
}

func (v *VoiceRegs) SetSustain(sustain uint8) {
	v.update(SustainRelease, 0xf0, (sustain&SustainMax)<<4)
}

func (v *VoiceRegs) SetRelease(release uint8) {
	v.update(SustainRelease, 0x0f, release&ReleaseMax)
}

func (v *VoiceRegs) Freq() uint16 {
	return uint16(v.regs[FreqHi])<<8 | uint16(v.regs[FreqLo])
}

func (v *VoiceRegs) PulseWidth() uint16 {
	return uint16(v.regs[PwHi]&0x0f)<<8 | uint16(v.regs[PwLo])
}

func (v *VoiceRegs) Waveform() uint8 { return v.regs[Control] & WaveMask }
func (v *VoiceRegs) Gate() bool { return v.regs[Control]&CtrlGate != 0 }
func (v *VoiceRegs) Sync() bool { return v.regs[Control]&CtrlSync != 0 }
func (v *VoiceRegs) RingMod() bool { return v.regs[Control]&CtrlRingMod != 0 }
func (v *VoiceRegs) Test() bool { return v.regs[Control]&CtrlTest != 0 }
func (v *VoiceRegs) Attack() uint8 { return v.regs[AttackDecay] >> 4 }
func (v *VoiceRegs) Decay() uint8 { return v.regs[AttackDecay] & 0x0f }
func (v *VoiceRegs) Sustain() uint8 { return v.regs[SustainRelease] >> 4 }
func (v *VoiceRegs) Release() uint8 { return v.regs[SustainRelease] & 0x0f }
