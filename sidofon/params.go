package sidofon

import "sidofon/app/regs"

// Per-voice parameter offsets. The parameter of voice v is at
// v*NumVoiceParams + offset, see VoiceParam.
const (
	Pitch = iota
	PulseWidth
	WaveTri
	WaveSaw
	WavePulse
	WaveNoise
	Gate
	Sync
	RingMod
	Test
	Attack
	Decay
	Sustain
	Release
	NumVoiceParams
)

// Filter parameters follow the voices.
const (
	FilterVoice1 = regs.NumVoices*NumVoiceParams + iota
	FilterVoice2
	FilterVoice3
	FilterAux
	FilterLowPass
	FilterBandPass
	FilterHighPass
	Voice3Off
	FilterCutoff
	FilterResonance
	Volume
	NumParams
)

// Every parameter has a CV input with the same id. The two main inputs
// follow them.
const (
	AuxInput = NumParams + iota
	ClockInput
	NumInputs
)

const (
	AudioOutput = iota
	ClockOutput
	Voice3EnvOutput
	Voice3OscOutput
	NumOutputs
)

// Lights: one per voice switch and envelope value, then the filter panel.
// The light of voice v is at v*NumVoiceLights + offset.
const (
	WaveTriLight = iota
	WaveSawLight
	WavePulseLight
	WaveNoiseLight
	GateLight
	SyncLight
	RingModLight
	TestLight
	AttackLight
	DecayLight
	SustainLight
	ReleaseLight
	NumVoiceLights
)

const (
	FilterVoice1Light = regs.NumVoices*NumVoiceLights + iota
	FilterVoice2Light
	FilterVoice3Light
	FilterAuxLight
	FilterLowPassLight
	FilterBandPassLight
	FilterHighPassLight
	Voice3OffLight
	FilterCutoffLight
	FilterResonanceLight
	VolumeLight
	NumLights
)

// VoiceParam returns the id of a per-voice parameter (and of its input).
func VoiceParam(voiceNo, offset int) int {
	return voiceNo*NumVoiceParams + offset
}

// VoiceLight returns the id of a per-voice light.
func VoiceLight(voiceNo, offset int) int {
	return voiceNo*NumVoiceLights + offset
}

// ParamConfig describes a knob.
type ParamConfig struct {
	Name    string
	Min     float32
	Max     float32
	Default float32
}

// Param is a knob or switch on the panel.
type Param struct {
	Value float32
}

// Input is a CV jack. Voltage only counts while Connected.
type Input struct {
	Voltage   float32
	Connected bool
}

// Output is an output jack.
type Output struct {
	Voltage float32
}

var voiceParamConfigs = [NumVoiceParams]ParamConfig{
	Pitch:      {"pitch", -54, 54, 0},
	PulseWidth: {"pulse_width", -1, 1, 0},
	WaveTri:    {"triangle", 0, 1, 1},
	WaveSaw:    {"sawtooth", 0, 1, 0},
	WavePulse:  {"pulse", 0, 1, 0},
	WaveNoise:  {"noise", 0, 1, 0},
	Gate:       {"gate", 0, 1, 0},
	Sync:       {"sync", 0, 1, 0},
	RingMod:    {"ring_mod", 0, 1, 0},
	Test:       {"test", 0, 1, 0},
	Attack:     {"attack", 0, 1, 0},
	Decay:      {"decay", 0, 1, 0},
	Sustain:    {"sustain", 0, 1, 1},
	Release:    {"release", 0, 1, 0},
}

var filterParamConfigs = [NumParams - FilterVoice1]ParamConfig{
	FilterVoice1 - FilterVoice1:    {"filter_voice1", 0, 1, 0},
	FilterVoice2 - FilterVoice1:    {"filter_voice2", 0, 1, 0},
	FilterVoice3 - FilterVoice1:    {"filter_voice3", 0, 1, 0},
	FilterAux - FilterVoice1:       {"filter_aux", 0, 1, 0},
	FilterLowPass - FilterVoice1:   {"low_pass", 0, 1, 0},
	FilterBandPass - FilterVoice1:  {"band_pass", 0, 1, 0},
	FilterHighPass - FilterVoice1:  {"high_pass", 0, 1, 0},
	Voice3Off - FilterVoice1:       {"voice3_off", 0, 1, 0},
	FilterCutoff - FilterVoice1:    {"cutoff", 0, 1, 0.5},
	FilterResonance - FilterVoice1: {"resonance", 0, 1, 0},
	Volume - FilterVoice1:          {"volume", 0, 1, 1},
}

// Config returns the configuration of parameter id. Per-voice names carry
// the voice number, e.g. "voice2.gate".
func Config(id int) ParamConfig {
	if id < FilterVoice1 {
		c := voiceParamConfigs[id%NumVoiceParams]
		c.Name = voiceName(id/NumVoiceParams) + "." + c.Name
		return c
	}
	return filterParamConfigs[id-FilterVoice1]
}

func voiceName(voiceNo int) string {
	return "voice" + string(rune('1'+voiceNo))
}

// ParamID looks up a parameter by its Config name.
func ParamID(name string) (int, bool) {
	id, ok := paramIDs[name]
	return id, ok
}

var paramIDs = func() map[string]int {
	m := make(map[string]int, NumParams)
	for id := 0; id < NumParams; id++ {
		m[Config(id).Name] = id
	}
	return m
}()

// InputID looks up an input. Parameter inputs share the parameter name;
// the main inputs are "aux" and "clock".
func InputID(name string) (int, bool) {
	switch name {
	case "aux":
		return AuxInput, true
	case "clock":
		return ClockInput, true
	}
	return ParamID(name)
}

// InputName is the inverse of InputID.
func InputName(id int) string {
	switch id {
	case AuxInput:
		return "aux"
	case ClockInput:
		return "clock"
	}
	return Config(id).Name
}
