package regs

// Decoder turns raw SID register writes, as issued by a C64 program, into
// calls on the semantic bank setters. It implements Writer.
//
// A C64 program writes the filter cutoff with bits 0-2 in $D415 and bits
// 3-10 in $D416; the decoder keeps both halves and repacks the cutoff into
// the bank's layout.
type Decoder struct {
	Voices [NumVoices]*VoiceRegs
	Filter *FilterRegs

	fcLo uint8
	fcHi uint8
}

// NewDecoder returns a decoder feeding the given banks.
func NewDecoder(voices [NumVoices]*VoiceRegs, filter *FilterRegs) *Decoder {
	return &Decoder{Voices: voices, Filter: filter}
}

// Reset forgets the latched cutoff halves.
func (d *Decoder) Reset() {
	d.fcLo, d.fcHi = 0, 0
}

// Write decodes one register write. Offsets beyond the mode/volume
// register are ignored.
func (d *Decoder) Write(offset uint8, value uint8) {
	if offset < FilterBase {
		d.writeVoice(d.Voices[offset/NumVoiceRegs], int(offset%NumVoiceRegs), value)
		return
	}

	f := d.Filter
	switch int(offset) - FilterBase {
	case CutoffLo:
		d.fcLo = value & 0x07
		f.SetCutOff(uint16(d.fcHi)<<3 | uint16(d.fcLo))
	case CutoffHi:
		d.fcHi = value
		f.SetCutOff(uint16(d.fcHi)<<3 | uint16(d.fcLo))
	case ResFilt:
		f.SetResonance(value >> 4)
		for i := 0; i < NumVoices; i++ {
			f.SetFilterVoice(i, value&(1<<i) != 0)
		}
		f.SetFilterExt(value&FiltExt != 0)
	case ModeVol:
		f.SetMode(value)
		f.SetVoice3Off(value&ModeVoice3Off != 0)
		f.SetVolume(value)
	}
}

func (d *Decoder) writeVoice(v *VoiceRegs, slot int, value uint8) {
	switch slot {
	case FreqLo:
		v.SetFreq(v.Freq()&0xff00 | uint16(value))
	case FreqHi:
		v.SetFreq(uint16(value)<<8 | v.Freq()&0x00ff)
	case PwLo:
		v.SetPulseWidth(v.PulseWidth()&0x0f00 | uint16(value))
	case PwHi:
		v.SetPulseWidth(uint16(value&0x0f)<<8 | v.PulseWidth()&0x00ff)
	case Control:
		v.SetWaveform(value)
		v.SetGate(value&CtrlGate != 0)
		v.SetSync(value&CtrlSync != 0)
		v.SetRingMod(value&CtrlRingMod != 0)
		v.SetTest(value&CtrlTest != 0)
	case AttackDecay:
		v.SetAttack(value >> 4)
		v.SetDecay(value)
	case SustainRelease:
		v.SetSustain(value >> 4)
		v.SetRelease(value)
	}
}
