package patch

import (
	"bytes"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sidofon/app/sidofon"
)

const yamlPatch = `
settings:
  CPUType: 1
  SIDType: 0
  VSyncOversample: 4
params:
  voice1.sawtooth: 1
  voice1.triangle: 0
  cutoff: 0.75
  voice2.attack: 3
inputs:
  voice1.gate: 10
  aux: -2.5
`

func TestApplyYAML(t *testing.T) {
	p, err := Read(strings.NewReader(yamlPatch))
	require.NoError(t, err)

	m := sidofon.New(nil)
	require.NoError(t, p.Apply(m))

	assert.Equal(t, sidofon.NTSC, m.CPUType())
	assert.Equal(t, sidofon.MOS6581, m.SIDType())
	assert.Equal(t, 4, m.VSyncOversample())
	assert.Equal(t, sidofon.SampleDirect, m.SampleMode())

	assert.Equal(t, float32(1), m.Params[sidofon.VoiceParam(0, sidofon.WaveSaw)].Value)
	assert.Equal(t, float32(0), m.Params[sidofon.VoiceParam(0, sidofon.WaveTri)].Value)
	assert.Equal(t, float32(0.75), m.Params[sidofon.FilterCutoff].Value)
	// clamped to the knob range
	assert.Equal(t, float32(1), m.Params[sidofon.VoiceParam(1, sidofon.Attack)].Value)

	assert.Equal(t, sidofon.Input{Voltage: 10, Connected: true}, m.Inputs[sidofon.VoiceParam(0, sidofon.Gate)])
	assert.Equal(t, sidofon.Input{Voltage: -2.5, Connected: true}, m.Inputs[sidofon.AuxInput])
	assert.False(t, m.Inputs[sidofon.ClockInput].Connected)
}

func TestApplyJSON(t *testing.T) {
	p, err := Read(strings.NewReader(`{"settings": {"SampleMode": 0}, "params": {"volume": 0.5}}`))
	require.NoError(t, err)

	m := sidofon.New(nil)
	require.NoError(t, p.Apply(m))
	assert.Equal(t, sidofon.SampleInterpolate, m.SampleMode())
	assert.Equal(t, sidofon.PAL, m.CPUType())
	assert.Equal(t, float32(0.5), m.Params[sidofon.Volume].Value)
}

func TestUnknownNames(t *testing.T) {
	m := sidofon.New(nil)

	p := &Patch{Params: map[string]float32{"cutoff": 0.1, "voice4.gate": 1}}
	assert.ErrorIs(t, p.Apply(m), ErrUnknownName)
	// nothing applied
	assert.Equal(t, float32(0.5), m.Params[sidofon.FilterCutoff].Value)

	p = &Patch{Inputs: map[string]float32{"reset": 1}}
	assert.ErrorIs(t, p.Apply(m), ErrUnknownName)
}

func TestBadPatch(t *testing.T) {
	_, err := Read(strings.NewReader("params: [1, 2"))
	assert.Error(t, err)
}

func TestSaveAndLoad(t *testing.T) {
	m := sidofon.New(nil)
	m.SetSIDType(sidofon.MOS8580Digi)
	m.Params[sidofon.Volume].Value = 0.25
	m.Params[sidofon.VoiceParam(2, sidofon.WaveNoise)].Value = 1
	m.Inputs[sidofon.ClockInput] = sidofon.Input{Voltage: 5, Connected: true}

	p := FromModule(m)
	assert.Equal(t, map[string]float32{"volume": 0.25, "voice3.noise": 1}, p.Params)
	assert.Equal(t, map[string]float32{"clock": 5}, p.Inputs)

	for _, name := range []string{"patch.yml", "patch.json"} {
		path := filepath.Join(t.TempDir(), name)
		require.NoError(t, p.Save(path))

		loaded, err := Load(path)
		require.NoError(t, err, name)

		other := sidofon.New(nil)
		require.NoError(t, loaded.Apply(other))
		assert.Equal(t, sidofon.MOS8580Digi, other.SIDType(), name)
		assert.Equal(t, m.Params, other.Params, name)
		assert.Equal(t, m.Inputs, other.Inputs, name)
	}
}

func TestWriteFormats(t *testing.T) {
	p := &Patch{Params: map[string]float32{"cutoff": 0.5}}

	var buf bytes.Buffer
	require.NoError(t, p.Write(&buf, true))
	assert.Contains(t, buf.String(), `"cutoff": 0.5`)

	buf.Reset()
	require.NoError(t, p.Write(&buf, false))
	assert.Contains(t, buf.String(), "cutoff: 0.5")
}
