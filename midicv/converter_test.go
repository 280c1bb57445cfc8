package midicv

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gitlab.com/gomidi/midi/v2"

	resid "sidofon/app/sid"
	"sidofon/app/sidofon"
)

func keys(c *Converter) (out [3]int) {
	for i := range out {
		k, on := c.Key(i)
		if on {
			out[i] = int(k)
		} else {
			out[i] = -1
		}
	}
	return
}

func TestAllocation(t *testing.T) {
	c := NewConverter()
	c.NoteOn(60)
	c.NoteOn(64)
	c.NoteOn(67)
	assert.Equal(t, [3]int{60, 64, 67}, keys(c))

	assert.False(t, c.voices[0].retrigger)

	// all busy: the oldest note is stolen and its gate has to drop
	c.NoteOn(72)
	assert.Equal(t, [3]int{72, 64, 67}, keys(c))
	assert.True(t, c.voices[0].retrigger)
	assert.False(t, c.voices[2].retrigger)

	// the same key again stays on its voice and restarts it
	c.NoteOn(64)
	assert.Equal(t, [3]int{72, 64, 67}, keys(c))
	assert.True(t, c.voices[1].retrigger)

	c.NoteOff(67)
	c.NoteOff(72)
	assert.Equal(t, [3]int{-1, 64, -1}, keys(c))

	// the voice free the longest is reused first
	c.NoteOn(50)
	assert.Equal(t, [3]int{-1, 64, 50}, keys(c))
	c.NoteOn(52)
	assert.Equal(t, [3]int{52, 64, 50}, keys(c))

	c.NoteOff(99)
	assert.Equal(t, [3]int{52, 64, 50}, keys(c))
}

func TestVoltages(t *testing.T) {
	c := NewConverter()
	c.NoteOn(72)
	c.NoteOn(48)

	assert.Equal(t, float32(1), c.Pitch(0))
	assert.Equal(t, float32(-1), c.Pitch(1))
	assert.Equal(t, float32(10), c.Gate(0))
	assert.Equal(t, float32(0), c.Gate(2))

	c.NoteOff(72)
	assert.Equal(t, float32(0), c.Gate(0))
	assert.Equal(t, float32(1), c.Pitch(0))
}

func TestHandleMessage(t *testing.T) {
	c := NewConverter()
	c.HandleMessage(midi.NoteOn(0, 62, 100))
	c.HandleMessage(midi.NoteOn(3, 65, 1))
	assert.Equal(t, [3]int{62, 65, -1}, keys(c))

	c.HandleMessage(midi.NoteOff(0, 62))
	c.HandleMessage(midi.ControlChange(0, 7, 100))
	assert.Equal(t, [3]int{-1, 65, -1}, keys(c))
}

func TestApply(t *testing.T) {
	m := sidofon.New(nil)
	c := NewConverter()
	c.NoteOn(84)
	c.Apply(m)

	pitch := m.Inputs[sidofon.VoiceParam(0, sidofon.Pitch)]
	assert.True(t, pitch.Connected)
	assert.Equal(t, float32(2), pitch.Voltage)
	assert.Equal(t, sidofon.Input{Voltage: 10, Connected: true}, m.Inputs[sidofon.VoiceParam(0, sidofon.Gate)])
	assert.False(t, m.Inputs[sidofon.VoiceParam(1, sidofon.Gate)].Connected)

	c.NoteOff(84)
	c.Apply(m)
	assert.Equal(t, float32(0), m.Inputs[sidofon.VoiceParam(0, sidofon.Gate)].Voltage)
}

// run processes frames, applying c before each one, and reports whether
// the gate bit of voice 0 was ever low in between.
func run(m *sidofon.Module, c *Converter, frames int) (gateDropped bool) {
	args := sidofon.ProcessArgs{SampleRate: 44100, SampleTime: 1.0 / 44100}
	for i := 0; i < frames; i++ {
		c.Apply(m)
		m.Process(args)
		if !m.Voice(0).Gate() {
			gateDropped = true
		}
	}
	return gateDropped
}

func TestStolenVoiceRetriggers(t *testing.T) {
	m := sidofon.New(resid.NewSID())
	c := NewConverter()
	c.NoteOn(60)
	c.NoteOn(64)
	c.NoteOn(67)

	// 882 frames per v-sync tick at 44.1 kHz
	run(m, c, 5000)
	require.True(t, m.Voice(0).Gate())
	before := m.Voice(0).Freq()

	c.NoteOn(72)
	assert.True(t, run(m, c, 5000))
	assert.True(t, m.Voice(0).Gate())
	assert.NotEqual(t, before, m.Voice(0).Freq())
	assert.False(t, c.voices[0].retrigger)
}

func TestRestruckKeyRetriggers(t *testing.T) {
	m := sidofon.New(resid.NewSID())
	c := NewConverter()
	c.NoteOn(60)
	run(m, c, 2000)
	require.True(t, m.Voice(0).Gate())

	c.NoteOn(60)
	assert.True(t, run(m, c, 2000))
	assert.True(t, m.Voice(0).Gate())

	// a held note is not retriggered again
	assert.False(t, run(m, c, 2000))
}

func TestQuickReleaseAndNoteOnStillDropsGate(t *testing.T) {
	m := sidofon.New(resid.NewSID())
	c := NewConverter()
	c.NoteOn(60)
	c.NoteOn(64)
	c.NoteOn(67)
	run(m, c, 2000)

	// voice 0 is released and played again before any control tick saw the release
	c.NoteOff(60)
	c.NoteOn(62)
	assert.True(t, run(m, c, 2000))
	assert.True(t, m.Voice(0).Gate())
}
