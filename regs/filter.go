package regs

// Filter register slots, in SID address order.
const (
	CutoffLo = iota
	CutoffHi
	ResFilt
	ModeVol
	NumFilterRegs
)

// FilterBase is the engine address of the first filter register.
const FilterBase = NumVoices * NumVoiceRegs

// Filter mode bits of the mode/volume register.
const (
	ModeLowPass   uint8 = 0x10
	ModeBandPass  uint8 = 0x20
	ModeHighPass  uint8 = 0x40
	ModeMask      uint8 = 0x70
	ModeVoice3Off uint8 = 0x80
)

// FiltExt routes the external input through the filter.
const FiltExt uint8 = 0x08

const (
	CutoffMax    = 2047
	ResonanceMax = 15
	VolumeMax    = 15
)

// FilterRegs shadows the filter and volume registers shared by all voices.
//
// The cutoff is stored with its bits 0-7 in the low register and bits
// 8-10 in the lower three bits of the high register.
type FilterRegs struct {
	Bank
}

// NewFilterRegs returns a filter bank in the reset state.
func NewFilterRegs() *FilterRegs {
	return &FilterRegs{Bank: newBank(NumFilterRegs)}
}

// Realize writes the changed filter registers to w.
func (f *FilterRegs) Realize(w Writer) {
	f.realize(w, FilterBase)
}

// SetCutOff sets the 11 bit cutoff frequency.
func (f *FilterRegs) SetCutOff(fc uint16) {
	fc &= CutoffMax
	f.set(CutoffLo, uint8(fc))
	f.set(CutoffHi, uint8(fc>>8)&0x07)
}

func (f *FilterRegs) SetResonance(res uint8) {
	f.update(ResFilt, 0xf0, (res&ResonanceMax)<<4)
}

// SetFilterVoice routes voice voiceNo (0..2) through the filter. Other
// voice numbers are ignored.
func (f *FilterRegs) SetFilterVoice(voiceNo int, on bool) {
	if voiceNo < 0 || voiceNo >= NumVoices {
		return
	}
	f.flag(ResFilt, 1<<voiceNo, on)
}

// SetFilterExt routes the external input through the filter.
func (f *FilterRegs) SetFilterExt(on bool) {
	f.flag(ResFilt, FiltExt, on)
}

// SetMode selects the filter outputs given as Mode* bits.
func (f *FilterRegs) SetMode(mode uint8) {
	f.update(ModeVol, ModeMask, mode)
}

func (f *FilterRegs) SetVoice3Off(off bool) {
	f.flag(ModeVol, ModeVoice3Off, off)
}

func (f *FilterRegs) SetVolume(volume uint8) {
	f.update(ModeVol, 0x0f, volume&VolumeMax)
}

func (f *FilterRegs) CutOff() uint16 {
	return uint16(f.regs[CutoffHi]&0x07)<<8 | uint16(f.regs[CutoffLo])
}

func (f *FilterRegs) Resonance() uint8 { return f.regs[ResFilt] >> 4 }

func (f *FilterRegs) FilterVoice(voiceNo int) bool {
	if voiceNo < 0 || voiceNo >= NumVoices {
		return false
	}
	return f.regs[ResFilt]&(1<<voiceNo) != 0
}

func (f *FilterRegs) FilterExt() bool { return f.regs[ResFilt]&FiltExt != 0 }
func (f *FilterRegs) Mode() uint8 { return f.regs[ModeVol] & ModeMask }
func (f *FilterRegs) Voice3Off() bool { return f.regs[ModeVol]&ModeVoice3Off != 0 }
func (f *FilterRegs) Volume() uint8 { return f.regs[ModeVol] & 0x0f }
