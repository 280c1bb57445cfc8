package resid

// Voice is one SID voice: an oscillator multiplied by its envelope.
type Voice struct {
	Wave     *WaveformGenerator
	Envelope *EnvelopeGenerator

	// Waveform D/A zero level.
	waveZero soundSample

	// Multiplying D/A DC offset.
	voiceDC soundSample

	muted bool
}

// ----------------------------------------------------------------------------
// Constructor.
// ----------------------------------------------------------------------------
func NewVoice() *Voice {
	v := &Voice{
		Wave:     NewWaveformGenerator(),
		Envelope: NewEnvelopeGenerator(),
	}
	v.SetModel(MOS6581)
	return v
}

func (v *Voice) SetModel(model Model) {
	v.Wave.SetModel(model)

	if model == MOS6581 {
		// The waveform D/A output has a DC offset of about 0x380 and the
		// envelope multiplier adds roughly half a voice of DC on top.
		v.waveZero = 0x380
		v.voiceDC = 0x800 * 0xff
	} else {
		// No DC offsets in the MOS8580.
		v.waveZero = 0x800
		v.voiceDC = 0
	}
}

// SetSyncSource wires the oscillator of source as the sync and ring
// modulation source of v.
func (v *Voice) SetSyncSource(source *Voice) {
	v.Wave.SetSyncSource(source.Wave)
}

func (v *Voice) WriteControlReg(control reg8) {
	v.Wave.WriteControlReg(control)
	v.Envelope.WriteControlReg(control)
}

func (v *Voice) Reset() {
	v.Wave.Reset()
	v.Envelope.Reset()
}

// Mute silences the voice output. The oscillator and envelope keep
// running, so OSC3 and ENV3 still read back.
func (v *Voice) Mute(enable bool) {
	v.muted = enable
}

// Output returns the 20 bit voice level: (wave - zero) * envelope + DC.
func (v *Voice) Output() soundSample {
	if v.muted {
		return 0
	}
	return (soundSample(v.Wave.Output())-v.waveZero)*soundSample(v.Envelope.Output()) + v.voiceDC
}
