package main

import (
	"flag"
	"fmt"
	"log"
	"math"
	"os"
	"path/filepath"
	"strings"

	"sidofon/app/midicv"
	"sidofon/app/patch"
	"sidofon/app/render"
	resid "sidofon/app/sid"
	"sidofon/app/sidofon"
	"sidofon/app/tune"
)

func main() {
	opt := NewSidofonSettings()

	// Parse arguments
	opt.ParseArgs()

	if opt.Usage == 1 {
		flag.PrintDefaults()
		os.Exit(1)
	}

	if len(flag.Args()) == 0 {
		fmt.Println("Usage: sidofon [options] <sidfile|patch>")
		os.Exit(1)
	}

	rack, err := setup(opt, flag.Arg(0))
	if err != nil {
		log.Println(err)
		os.Exit(1)
	}

	if opt.WavOut != "" {
		err = renderWAV(rack, opt)
	} else {
		err = play(rack, opt.Backend)
	}
	if err != nil {
		log.Println(err)
		os.Exit(1)
	}
}

func setup(opt *SidofonSettings, path string) (*render.Rack, error) {
	var engine sidofon.Engine = resid.NewSID()
	if opt.Trace {
		engine = &sidofon.TraceEngine{Engine: engine, Out: os.Stdout}
	}
	module := sidofon.New(engine)

	var (
		player *tune.Player
		err    error
	)
	switch strings.ToLower(filepath.Ext(path)) {
	case ".sid":
		if player, err = loadTune(module, path, opt.Subtune); err != nil {
			return nil, err
		}
	case ".yml", ".yaml", ".json":
		p, err := patch.Load(path)
		if err != nil {
			return nil, err
		}
		if err := p.Apply(module); err != nil {
			return nil, fmt.Errorf("%s: %w", path, err)
		}
		if opt.Oversample >= 0 && !module.SetVSyncOversample(opt.Oversample) {
			return nil, fmt.Errorf("bad oversample factor %d", opt.Oversample)
		}
	default:
		return nil, fmt.Errorf("don't know how to play %s", path)
	}

	// flags override the file, out of range values are ignored
	var s sidofon.Settings
	if opt.NTSC {
		ntsc := int(sidofon.NTSC)
		s.CPUType = &ntsc
	}
	if opt.Model >= 0 {
		s.SIDType = &opt.Model
	}
	if opt.Method >= 0 {
		s.SampleMode = &opt.Method
	}
	module.ApplySettings(s)

	rack := render.NewRack(module, opt.SampleRate)
	if player != nil {
		rack.SetTimer(player)
	}
	if opt.Midi != "" {
		seq, err := midicv.LoadSMF(opt.Midi)
		if err != nil {
			return nil, err
		}
		rack.SetSequence(seq)
		if opt.WavOut != "" && seq.Duration() > opt.Seconds {
			opt.Seconds = seq.Duration() + 1
		}
	}

	fmt.Printf("Sid model = %s, %s, sampling %s at %d Hz\n",
		module.SIDType(), module.CPUType(), module.SampleMode(), opt.SampleRate)
	return rack, nil
}

// loadTune attaches a PSID tune as the register source. Tunes play on the
// chip and video standard their header asks for, a 6581 on PAL when it
// does not say, unless the flags override them.
func loadTune(module *sidofon.Module, path string, subtune int) (*tune.Player, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	player := tune.NewPlayer()
	if err := player.Load(f); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	player.Header().PrintHeader(os.Stdout)

	if subtune < 0 {
		subtune = player.Song()
	}
	if err := player.Init(subtune); err != nil {
		return nil, err
	}
	fmt.Printf("Playing subtune %d\n", player.Song())
	if player.CIATimer() {
		fmt.Println("Play routine runs from the CIA timer")
	}

	player.Configure(module)
	return player, nil
}

func play(rack *render.Rack, backend string) error {
	switch backend {
	case "sdl":
		return playSDL(rack)
	case "oto":
		return playOto(rack)
	}
	return fmt.Errorf("unknown audio backend %q", backend)
}

func waitForEnter() {
	fmt.Println("Press the Enter Key to stop anytime")
	fmt.Scanln()
}

func renderWAV(rack *render.Rack, opt *SidofonSettings) error {
	buf := make([]float32, int(opt.Seconds*float64(rack.SampleRate())))
	rack.Render(buf)

	peak := render.Peak(buf)
	fmt.Printf("Peak level %.1f dBFS\n", 20*math.Log10(float64(peak)))
	if opt.Normalize {
		render.Normalize(buf)
	}

	f, err := os.Create(opt.WavOut)
	if err != nil {
		return err
	}
	if err := render.WriteWAV(f, rack.SampleRate(), buf); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
