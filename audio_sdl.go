package main

// typedef unsigned char Uint8;
// void OnAudioCallback(void *userdata, Uint8 *stream, int len);
import "C"

import (
	"fmt"
	"unsafe"

	"github.com/veandco/go-sdl2/sdl"

	"sidofon/app/render"
)

// sdlRack is rendered from the SDL audio thread.
var sdlRack *render.Rack

//export OnAudioCallback
func OnAudioCallback(userdata unsafe.Pointer, stream *C.Uint8, length C.int) {
	// 16 bit stereo frames, the same sample on both channels
	buf := unsafe.Slice((*int16)(unsafe.Pointer(stream)), int(length)/2)
	for i := 0; i+1 < len(buf); i += 2 {
		sample := render.ToInt16(sdlRack.Next())
		buf[i] = sample
		buf[i+1] = sample
	}
}

func playSDL(rack *render.Rack) error {
	sdlRack = rack

	if err := sdl.Init(sdl.INIT_AUDIO); err != nil {
		return fmt.Errorf("sdl: %w", err)
	}
	defer sdl.Quit()

	spec := &sdl.AudioSpec{}
	spec.Callback = sdl.AudioCallback(C.OnAudioCallback)
	spec.Samples = 4096
	spec.Channels = 2
	spec.Freq = int32(rack.SampleRate())
	spec.Format = sdl.AUDIO_S16SYS

	dev, err := sdl.OpenAudioDevice("", false, spec, nil, 0)
	if err != nil {
		return fmt.Errorf("sdl: %w", err)
	}

	sdl.PauseAudioDevice(dev, false)
	waitForEnter()
	sdl.CloseAudioDevice(dev)
	return nil
}
