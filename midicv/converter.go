// Package midicv turns MIDI notes into the 1V/octave pitch and gate
// voltages of the three voices of a sidofon module.
package midicv

import (
	"gitlab.com/gomidi/midi/v2"

	"sidofon/app/regs"
	"sidofon/app/sidofon"
)

const (
	// middle C, played by a pitch CV of 0 V
	centerKey = 60
	gateHigh  = 10
)

type voice struct {
	key  uint8
	gate bool
	// sequence number of the last note on or off
	age uint64

	// The module has not yet run a control tick with the gate low since
	// the voice was released or taken over by a new note.
	retrigger bool
	// control tick count at which the low gate has been seen, 0 if not
	// yet applied
	lowUntil uint64
}

// Converter allocates notes to voices. A voice keeps its pitch after the
// note is released so the release phase sounds at the right pitch.
//
// A note given to a voice that is still gated first drops the gate for one
// control tick of the module, so the envelope restarts with its attack.
type Converter struct {
	voices [regs.NumVoices]voice
	events uint64
}

func NewConverter() *Converter {
	return &Converter{}
}

// HandleMessage applies note on and off messages and ignores the rest. A
// note on with velocity 0 is a note off.
func (c *Converter) HandleMessage(msg midi.Message) {
	var channel, key, velocity uint8
	switch {
	case msg.GetNoteOn(&channel, &key, &velocity):
		if velocity == 0 {
			c.NoteOff(key)
			return
		}
		c.NoteOn(key)
	case msg.GetNoteOff(&channel, &key, &velocity):
		c.NoteOff(key)
	}
}

// NoteOn gives key to the voice already holding it, else the voice that
// has been free the longest, else the voice playing the oldest note.
func (c *Converter) NoteOn(key uint8) {
	best := -1
	for i := range c.voices {
		if c.voices[i].gate && c.voices[i].key == key {
			best = i
			break
		}
	}
	if best < 0 {
		bestFree := false
		for i := range c.voices {
			v := &c.voices[i]
			free := !v.gate
			if best < 0 || (free && !bestFree) || (free == bestFree && v.age < c.voices[best].age) {
				best = i
				bestFree = free
			}
		}
	}
	c.events++
	old := c.voices[best]
	c.voices[best] = voice{
		key:       key,
		gate:      true,
		age:       c.events,
		retrigger: old.gate || old.retrigger,
		lowUntil:  old.lowUntil,
	}
}

// NoteOff releases the voice holding key, if any.
func (c *Converter) NoteOff(key uint8) {
	for i := range c.voices {
		if v := &c.voices[i]; v.gate && v.key == key {
			c.events++
			v.gate = false
			v.age = c.events
			v.retrigger = true
			return
		}
	}
}

// Pitch returns the pitch CV of a voice in volts.
func (c *Converter) Pitch(voiceNo int) float32 {
	return (float32(c.voices[voiceNo].key) - centerKey) / 12
}

// Gate returns the gate CV of a voice in volts.
func (c *Converter) Gate(voiceNo int) float32 {
	if c.voices[voiceNo].gate {
		return gateHigh
	}
	return 0
}

// Key returns the key of a voice and whether it is held.
func (c *Converter) Key(voiceNo int) (uint8, bool) {
	return c.voices[voiceNo].key, c.voices[voiceNo].gate
}

// Apply patches the voltages into the PITCH and GATE inputs of m. Voices
// that never played stay at 0 V pitch. It is meant to be called before
// every m.Process.
func (c *Converter) Apply(m *sidofon.Module) {
	now := m.ControlTicks()
	for i := range c.voices {
		v := &c.voices[i]
		if v.age == 0 {
			continue
		}

		gate := c.Gate(i)
		if v.retrigger {
			if v.lowUntil == 0 {
				v.lowUntil = now + 1
			}
			if now < v.lowUntil {
				gate = 0
			} else {
				v.retrigger = false
				v.lowUntil = 0
			}
		}

		m.Inputs[sidofon.VoiceParam(i, sidofon.Pitch)] = sidofon.Input{Voltage: c.Pitch(i), Connected: true}
		m.Inputs[sidofon.VoiceParam(i, sidofon.Gate)] = sidofon.Input{Voltage: gate, Connected: true}
	}
}
