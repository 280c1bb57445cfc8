package main

import "flag"

type SidofonSettings struct {
	Subtune    int
	Usage      int
	SampleRate int
	Model      int
	NTSC       bool
	Oversample int
	Method     int
	Backend    string
	WavOut     string
	Seconds    float64
	Normalize  bool
	Trace      bool
	Midi       string
}

func NewSidofonSettings() *SidofonSettings {
	opt := &SidofonSettings{}
	return opt
}

func (opt *SidofonSettings) ParseArgs() {
	flag.IntVar(&opt.Subtune, "a", -1, "Accumulator value on init (subtune number) default = start song")
	flag.IntVar(&opt.Usage, "h", 0, "Display usage information")
	flag.IntVar(&opt.SampleRate, "rate", 44100, "Sample rate in Hz")
	flag.IntVar(&opt.Model, "model", -1, "SID model: 0 = 6581, 1 = 8580, 2 = 8580 digi boost")
	flag.BoolVar(&opt.NTSC, "ntsc", false, "Clock the chip at the NTSC rate")
	flag.IntVar(&opt.Oversample, "oversample", -1, "Register updates per v-sync: 0, 1, 2, 4, 8 or 16 (patches only)")
	flag.IntVar(&opt.Method, "method", -1, "Sampling: 0 = interpolate, 1 = resample, 2 = resample fastmem, 3 = direct")
	flag.StringVar(&opt.Backend, "backend", "sdl", "Audio output: sdl or oto")
	flag.StringVar(&opt.WavOut, "wav", "", "Render to this WAV file instead of playing")
	flag.Float64Var(&opt.Seconds, "seconds", 30, "Length of a WAV render in seconds")
	flag.BoolVar(&opt.Normalize, "normalize", false, "Normalize a WAV render to full scale")
	flag.BoolVar(&opt.Trace, "trace", false, "Print every SID register write")
	flag.StringVar(&opt.Midi, "midi", "", "Play a patch from this MIDI file")
	flag.Parse()
}
