package regs

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func newTestDecoder() *Decoder {
	return NewDecoder([NumVoices]*VoiceRegs{NewVoiceRegs(), NewVoiceRegs(), NewVoiceRegs()}, NewFilterRegs())
}

func TestDecoderVoiceRegisters(t *testing.T) {
	d := newTestDecoder()

	// voice 2: $D40E..$D414
	d.Write(0x0e, 0x34)
	d.Write(0x0f, 0x12)
	d.Write(0x10, 0x78)
	d.Write(0x11, 0xf6)
	d.Write(0x12, WaveSawtooth|CtrlGate|CtrlRingMod)
	d.Write(0x13, 0x4a)
	d.Write(0x14, 0xc3)

	v := d.Voices[2]
	assert.Equal(t, uint16(0x1234), v.Freq())
	assert.Equal(t, uint16(0x678), v.PulseWidth())
	assert.Equal(t, WaveSawtooth, v.Waveform())
	assert.True(t, v.Gate())
	assert.True(t, v.RingMod())
	assert.False(t, v.Sync())
	assert.False(t, v.Test())
	assert.Equal(t, uint8(4), v.Attack())
	assert.Equal(t, uint8(0xa), v.Decay())
	assert.Equal(t, uint8(0xc), v.Sustain())
	assert.Equal(t, uint8(3), v.Release())

	// the other voices are untouched
	assert.Zero(t, d.Voices[0].Freq())
	assert.Zero(t, d.Voices[1].Freq())
}

func TestDecoderRepacksCutoff(t *testing.T) {
	d := newTestDecoder()

	// fc = 0x5a5: bits 0-2 = 5, bits 3-10 = 0xb4
	d.Write(0x15, 0x05)
	d.Write(0x16, 0xb4)
	assert.Equal(t, uint16(0x5a5), d.Filter.CutOff())
	assert.Equal(t, uint8(0xa5), d.Filter.Reg(CutoffLo))
	assert.Equal(t, uint8(0x05), d.Filter.Reg(CutoffHi))

	d.Write(0x15, 0xff)
	assert.Equal(t, uint16(0x5a7), d.Filter.CutOff())

	d.Reset()
	d.Write(0x16, 0x01)
	assert.Equal(t, uint16(0x008), d.Filter.CutOff())
}

func TestDecoderFilterRegisters(t *testing.T) {
	d := newTestDecoder()
	d.Write(0x17, 0x9e)
	d.Write(0x18, 0xbc)

	f := d.Filter
	assert.Equal(t, uint8(9), f.Resonance())
	assert.False(t, f.FilterVoice(0))
	assert.True(t, f.FilterVoice(1))
	assert.True(t, f.FilterVoice(2))
	assert.True(t, f.FilterExt())
	assert.True(t, f.Voice3Off())
	assert.Equal(t, uint8(0x30), f.Mode())
	assert.Equal(t, uint8(0xc), f.Volume())
	assert.Equal(t, uint8(0xbc), f.Reg(ModeVol))

	// read-only and unmapped registers are ignored
	d.Write(0x19, 0xff)
	d.Write(0x1f, 0xff)
	assert.Equal(t, uint8(0xbc), f.Reg(ModeVol))
}

func TestDecoderCoalescesRepeatedWrites(t *testing.T) {
	d := newTestDecoder()
	var rec recorder
	for _, v := range d.Voices {
		v.Realize(&rec, 0)
	}
	d.Filter.Realize(&rec)
	rec.take()

	d.Write(0x18, 0x0f)
	d.Write(0x18, 0x0f)
	d.Write(0x04, 0x11)
	d.Write(0x04, 0x10)
	d.Voices[0].Realize(&rec, 0)
	d.Filter.Realize(&rec)
	assert.Equal(t, []write{{0x04, 0x10}, {0x18, 0x0f}}, rec.take())
}
