// Package patch stores the state of a sidofon module in YAML or JSON
// files: the module settings, knob positions by parameter name and
// constant voltages patched into inputs.
package patch

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"

	"gopkg.in/yaml.v3"

	"sidofon/app/sidofon"
)

var ErrUnknownName = errors.New("unknown parameter")

type Patch struct {
	Settings sidofon.Settings   `json:"settings" yaml:"settings"`
	Params   map[string]float32 `json:"params,omitempty" yaml:"params,omitempty"`
	Inputs   map[string]float32 `json:"inputs,omitempty" yaml:"inputs,omitempty"`
}

// Read parses a patch, trying JSON first and YAML second.
func Read(r io.Reader) (*Patch, error) {
	b, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("reading patch: %w", err)
	}
	var p Patch
	if errJSON := json.Unmarshal(b, &p); errJSON != nil {
		p = Patch{}
		if errYaml := yaml.Unmarshal(b, &p); errYaml != nil {
			return nil, fmt.Errorf("parsing patch: %v / %w", errJSON, errYaml)
		}
	}
	return &p, nil
}

func Load(path string) (*Patch, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return Read(f)
}

// Write encodes p as JSON or YAML.
func (p *Patch) Write(w io.Writer, asJSON bool) error {
	var b []byte
	var err error
	if asJSON {
		b, err = json.MarshalIndent(p, "", "  ")
	} else {
		b, err = yaml.Marshal(p)
	}
	if err != nil {
		return fmt.Errorf("encoding patch: %w", err)
	}
	_, err = w.Write(b)
	return err
}

// Save writes p to path, as JSON when the extension is ".json" and as YAML
// otherwise.
func (p *Patch) Save(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := p.Write(f, filepath.Ext(path) == ".json"); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// Apply sets the settings, knobs and inputs of m. Names are checked before
// anything is changed. Knob values are clamped to their range; inputs not
// named in the patch are left alone.
func (p *Patch) Apply(m *sidofon.Module) error {
	for _, name := range sortedKeys(p.Params) {
		if _, ok := sidofon.ParamID(name); !ok {
			return fmt.Errorf("%w %q", ErrUnknownName, name)
		}
	}
	for _, name := range sortedKeys(p.Inputs) {
		if _, ok := sidofon.InputID(name); !ok {
			return fmt.Errorf("%w input %q", ErrUnknownName, name)
		}
	}

	m.ApplySettings(p.Settings)
	for name, v := range p.Params {
		id, _ := sidofon.ParamID(name)
		c := sidofon.Config(id)
		m.Params[id].Value = min(max(v, c.Min), c.Max)
	}
	for name, v := range p.Inputs {
		id, _ := sidofon.InputID(name)
		m.Inputs[id] = sidofon.Input{Voltage: v, Connected: true}
	}
	return nil
}

// FromModule captures m: its settings, the knobs away from their default
// and the connected inputs.
func FromModule(m *sidofon.Module) *Patch {
	p := &Patch{
		Settings: m.Settings(),
		Params:   map[string]float32{},
		Inputs:   map[string]float32{},
	}
	for id := 0; id < sidofon.NumParams; id++ {
		if c := sidofon.Config(id); m.Params[id].Value != c.Default {
			p.Params[c.Name] = m.Params[id].Value
		}
	}
	for id := 0; id < sidofon.NumInputs; id++ {
		if in := m.Inputs[id]; in.Connected {
			p.Inputs[sidofon.InputName(id)] = in.Voltage
		}
	}
	return p
}

func sortedKeys(m map[string]float32) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
