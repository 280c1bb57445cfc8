package midicv

import (
	"errors"
	"fmt"
	"sort"

	"gitlab.com/gomidi/midi/v2"
	"gitlab.com/gomidi/midi/v2/smf"
)

const defaultBPM = 120

var ErrTimeFormat = errors.New("only metric time is supported")

// Event is a note message at an absolute time in seconds.
type Event struct {
	Time float64
	Msg  midi.Message
}

// Sequence hands out the notes of a MIDI file in time order.
type Sequence struct {
	events []Event
	next   int
}

// LoadSMF reads a Standard MIDI File and merges its tracks.
func LoadSMF(path string) (*Sequence, error) {
	s, err := smf.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	return FromSMF(s)
}

type tickEvent struct {
	tick uint64
	msg  smf.Message
}

// FromSMF flattens s into timed note events, following its tempo changes.
func FromSMF(s *smf.SMF) (*Sequence, error) {
	ticks, ok := s.TimeFormat.(smf.MetricTicks)
	if !ok || ticks == 0 {
		return nil, ErrTimeFormat
	}

	var all []tickEvent
	for _, tr := range s.Tracks {
		var tick uint64
		for _, ev := range tr {
			tick += uint64(ev.Delta)
			all = append(all, tickEvent{tick, ev.Message})
		}
	}
	// tracks are merged keeping their order on equal ticks
	sort.SliceStable(all, func(i, j int) bool { return all[i].tick < all[j].tick })

	seq := &Sequence{}
	bpm := float64(defaultBPM)
	var last uint64
	var now float64
	for _, ev := range all {
		now += float64(ev.tick-last) * 60 / (bpm * float64(ticks))
		last = ev.tick

		var tempo float64
		if ev.msg.GetMetaTempo(&tempo) {
			if tempo > 0 {
				bpm = tempo
			}
			continue
		}

		msg := midi.Message(ev.msg)
		if msg.Is(midi.NoteOnMsg) || msg.Is(midi.NoteOffMsg) {
			seq.events = append(seq.events, Event{Time: now, Msg: msg})
		}
	}
	return seq, nil
}

// Events returns all events of the sequence.
func (s *Sequence) Events() []Event { return s.events }

// Duration is the time of the last event.
func (s *Sequence) Duration() float64 {
	if len(s.events) == 0 {
		return 0
	}
	return s.events[len(s.events)-1].Time
}

// Done reports whether every event has been handed out.
func (s *Sequence) Done() bool { return s.next >= len(s.events) }

// Rewind starts the sequence over.
func (s *Sequence) Rewind() { s.next = 0 }

// Advance passes every event due by time t to c.
func (s *Sequence) Advance(t float64, c *Converter) {
	for s.next < len(s.events) && s.events[s.next].Time <= t {
		c.HandleMessage(s.events[s.next].Msg)
		s.next++
	}
}
