package render

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/go-audio/wav"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gitlab.com/gomidi/midi/v2"
	"gitlab.com/gomidi/midi/v2/smf"

	"sidofon/app/midicv"
	resid "sidofon/app/sid"
	"sidofon/app/sidofon"
)

func TestPeakAndNormalize(t *testing.T) {
	buf := []float32{0.1, -0.5, 0.25}
	assert.Equal(t, float32(0.5), Peak(buf))
	// the input is not touched
	assert.Equal(t, float32(-0.5), buf[1])

	assert.Equal(t, float32(2), Normalize(buf))
	assert.InDeltaSlice(t, []float32{0.2, -1, 0.5}, buf, 1e-6)

	silence := []float32{0, 0}
	assert.Equal(t, float32(1), Normalize(silence))
	assert.Equal(t, float32(0), Peak(nil))
}

func TestToInt16(t *testing.T) {
	assert.Equal(t, int16(32767), ToInt16(1))
	assert.Equal(t, int16(32767), ToInt16(3))
	assert.Equal(t, int16(-32767), ToInt16(-2))
	assert.Equal(t, int16(0), ToInt16(0))
}

func TestWriteWAV(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.wav")
	f, err := os.Create(path)
	require.NoError(t, err)
	require.NoError(t, WriteWAV(f, 22050, []float32{0, 0.5, -1, 1}))
	require.NoError(t, f.Close())

	f, err = os.Open(path)
	require.NoError(t, err)
	defer f.Close()

	dec := wav.NewDecoder(f)
	require.True(t, dec.IsValidFile())
	buf, err := dec.FullPCMBuffer()
	require.NoError(t, err)
	assert.Equal(t, uint32(22050), dec.SampleRate)
	assert.Equal(t, uint16(1), dec.NumChans)
	assert.Equal(t, uint16(16), dec.BitDepth)
	assert.Equal(t, []int{0, 16383, -32767, 32767}, buf.Data)
}

func noteSequence(t *testing.T) *midicv.Sequence {
	t.Helper()
	s := smf.New()
	s.TimeFormat = smf.MetricTicks(96)
	var tr smf.Track
	tr.Add(0, smf.MetaTempo(120))
	// half a second in
	tr.Add(96, midi.NoteOn(0, 69, 100))
	tr.Close(0)
	require.NoError(t, s.Add(tr))

	seq, err := midicv.FromSMF(s)
	require.NoError(t, err)
	return seq
}

func TestRackPlaysSequence(t *testing.T) {
	m := sidofon.New(resid.NewSID())
	m.Params[sidofon.VoiceParam(0, sidofon.WaveTri)].Value = 0
	m.Params[sidofon.VoiceParam(0, sidofon.WaveSaw)].Value = 1

	r := NewRack(m, 22050)
	r.SetSequence(noteSequence(t))
	assert.Equal(t, 22050, r.SampleRate())

	quiet := make([]float32, 11000)
	r.Render(quiet)
	assert.Less(t, Peak(quiet), float32(0.01))
	assert.InDelta(t, 11000.0/22050, r.Time(), 1e-3)

	loud := make([]float32, 4410)
	r.Render(loud)
	assert.Greater(t, Peak(loud), float32(0.05))

	key, on := r.notes.Key(0)
	assert.True(t, on)
	assert.Equal(t, uint8(69), key)
	assert.Equal(t, float32(0.75), m.Inputs[sidofon.VoiceParam(0, sidofon.Pitch)].Voltage)
}

type fixedTimer struct {
	hz      float32
	clockHz float32
}

func (t *fixedTimer) PlayHz(clockHz float32) float32 {
	t.clockHz = clockHz
	return t.hz
}

func TestTimerDrivesControlTicks(t *testing.T) {
	m := sidofon.New(resid.NewSID())
	timer := &fixedTimer{hz: 100}
	r := NewRack(m, 44100)
	r.SetTimer(timer)

	r.Render(make([]float32, 44100))
	assert.InDelta(t, 100, m.ControlTicks(), 1)
	assert.True(t, m.Inputs[sidofon.ClockInput].Connected)
	assert.Equal(t, m.CPUClockRealHz(), timer.clockHz)

	// the rate is followed as it changes
	timer.hz = 250
	before := m.ControlTicks()
	r.Render(make([]float32, 44100))
	assert.InDelta(t, 250, m.ControlTicks()-before, 1)

	// 0 hands the ticks back to the v-sync
	timer.hz = 0
	before = m.ControlTicks()
	r.Render(make([]float32, 44100))
	assert.False(t, m.Inputs[sidofon.ClockInput].Connected)
	assert.InDelta(t, 50, m.ControlTicks()-before, 1)
}
