package sidofon

import "sidofon/app/regs"

func b2f(b bool) float32 {
	if b {
		return 1
	}
	return 0
}

// updateLights shows the shadow registers on the panel.
func (m *Module) updateLights(dt float32) {
	set := func(id int, brightness float32) {
		m.Lights[id].SetSmoothBrightness(brightness, dt)
	}

	for i, v := range m.voices {
		id := func(offset int) int { return VoiceLight(i, offset) }

		waveform := v.Waveform()
		set(id(WaveTriLight), b2f(waveform&regs.WaveTriangle != 0))
		set(id(WaveSawLight), b2f(waveform&regs.WaveSawtooth != 0))
		set(id(WavePulseLight), b2f(waveform&regs.WaveRectangle != 0))
		set(id(WaveNoiseLight), b2f(waveform&regs.WaveNoise != 0))

		set(id(GateLight), b2f(v.Gate()))
		set(id(SyncLight), b2f(v.Sync()))
		set(id(RingModLight), b2f(v.RingMod()))
		set(id(TestLight), b2f(v.Test()))

		set(id(AttackLight), float32(v.Attack())/regs.AttackMax)
		set(id(DecayLight), float32(v.Decay())/regs.DecayMax)
		set(id(SustainLight), float32(v.Sustain())/regs.SustainMax)
		set(id(ReleaseLight), float32(v.Release())/regs.ReleaseMax)
	}

	f := m.filter
	for i := 0; i < regs.NumVoices; i++ {
		set(FilterVoice1Light+i, b2f(f.FilterVoice(i)))
	}
	set(FilterAuxLight, b2f(f.FilterExt()))

	mode := f.Mode()
	set(FilterLowPassLight, b2f(mode&regs.ModeLowPass != 0))
	set(FilterBandPassLight, b2f(mode&regs.ModeBandPass != 0))
	set(FilterHighPassLight, b2f(mode&regs.ModeHighPass != 0))
	set(Voice3OffLight, b2f(f.Voice3Off()))

	set(FilterCutoffLight, float32(f.CutOff())/regs.CutoffMax)
	set(FilterResonanceLight, float32(f.Resonance())/regs.ResonanceMax)
	set(VolumeLight, float32(f.Volume())/regs.VolumeMax)
}
