package sidofon

import (
	"encoding/json"
	"fmt"
)

// Settings are the persisted module settings. A nil field is left
// unchanged when applied.
type Settings struct {
	CPUType         *int `json:"CPUType,omitempty" yaml:"CPUType,omitempty"`
	SIDType         *int `json:"SIDType,omitempty" yaml:"SIDType,omitempty"`
	VSyncOversample *int `json:"VSyncOversample,omitempty" yaml:"VSyncOversample,omitempty"`
	SampleMode      *int `json:"SampleMode,omitempty" yaml:"SampleMode,omitempty"`
}

func intPtr(v int) *int { return &v }

// Settings returns the current settings, all fields set.
func (m *Module) Settings() Settings {
	return Settings{
		CPUType:         intPtr(int(m.cpuType)),
		SIDType:         intPtr(int(m.sidType)),
		VSyncOversample: intPtr(m.vsyncOversample),
		SampleMode:      intPtr(int(m.sampleMode)),
	}
}

// ApplySettings applies the fields of s that are set. Out of range values
// are skipped.
func (m *Module) ApplySettings(s Settings) {
	if s.CPUType != nil && *s.CPUType >= int(PAL) && *s.CPUType <= int(NTSC) {
		m.SetCPUType(CPUType(*s.CPUType))
	}
	if s.SIDType != nil && *s.SIDType >= int(MOS6581) && *s.SIDType <= int(MOS8580Digi) {
		m.SetSIDType(SIDType(*s.SIDType))
	}
	if s.VSyncOversample != nil {
		m.SetVSyncOversample(*s.VSyncOversample)
	}
	if s.SampleMode != nil && *s.SampleMode >= int(SampleInterpolate) && *s.SampleMode <= int(SampleDirect) {
		m.SetSampleMode(SampleMode(*s.SampleMode))
	}
}

// DataToJSON encodes the settings.
func (m *Module) DataToJSON() ([]byte, error) {
	return json.Marshal(m.Settings())
}

// DataFromJSON applies settings encoded by DataToJSON. Missing keys keep
// their current value.
func (m *Module) DataFromJSON(data []byte) error {
	var s Settings
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("module settings: %w", err)
	}
	m.ApplySettings(s)
	return nil
}
