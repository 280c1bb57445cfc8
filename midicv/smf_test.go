package midicv

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gitlab.com/gomidi/midi/v2"
	"gitlab.com/gomidi/midi/v2/smf"
)

func writeSMF(t *testing.T) string {
	t.Helper()
	s := smf.New()
	s.TimeFormat = smf.MetricTicks(96)

	var meta smf.Track
	meta.Add(0, smf.MetaTempo(240))
	meta.Add(192, smf.MetaTempo(60))
	meta.Close(0)

	var notes smf.Track
	notes.Add(0, midi.NoteOn(0, 60, 100))
	notes.Add(96, midi.NoteOff(0, 60))
	notes.Add(96, midi.NoteOn(0, 67, 100))
	notes.Add(96, midi.NoteOff(0, 67))
	notes.Close(0)

	require.NoError(t, s.Add(meta))
	require.NoError(t, s.Add(notes))

	path := filepath.Join(t.TempDir(), "song.mid")
	require.NoError(t, s.WriteFile(path))
	return path
}

func TestLoadSMF(t *testing.T) {
	seq, err := LoadSMF(writeSMF(t))
	require.NoError(t, err)

	ev := seq.Events()
	require.Len(t, ev, 4)
	times := []float64{ev[0].Time, ev[1].Time, ev[2].Time, ev[3].Time}
	// a beat is 0.25 s at 240 BPM and 1 s from tick 192 on
	assert.InDeltaSlice(t, []float64{0, 0.25, 0.5, 1.5}, times, 1e-9)
	assert.InDelta(t, 1.5, seq.Duration(), 1e-9)
}

func TestSequenceAdvance(t *testing.T) {
	seq, err := LoadSMF(writeSMF(t))
	require.NoError(t, err)
	c := NewConverter()

	seq.Advance(0.1, c)
	assert.Equal(t, [3]int{60, -1, -1}, keys(c))

	seq.Advance(0.5, c)
	assert.Equal(t, [3]int{-1, 67, -1}, keys(c))
	assert.False(t, seq.Done())

	seq.Advance(2, c)
	assert.True(t, seq.Done())
	assert.Equal(t, [3]int{-1, -1, -1}, keys(c))

	seq.Rewind()
	assert.False(t, seq.Done())
}

func TestLoadMissingFile(t *testing.T) {
	_, err := LoadSMF(filepath.Join(t.TempDir(), "nope.mid"))
	assert.Error(t, err)
}
