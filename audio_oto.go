package main

import (
	"encoding/binary"
	"fmt"

	"github.com/ebitengine/oto/v3"

	"sidofon/app/render"
)

// otoStream renders mono 16 bit little endian samples on demand.
type otoStream struct {
	rack *render.Rack
}

func (s otoStream) Read(p []byte) (int, error) {
	n := len(p) / 2
	for i := 0; i < n; i++ {
		binary.LittleEndian.PutUint16(p[2*i:], uint16(render.ToInt16(s.rack.Next())))
	}
	return 2 * n, nil
}

func playOto(rack *render.Rack) error {
	op := &oto.NewContextOptions{
		SampleRate:   rack.SampleRate(),
		ChannelCount: 1,
		Format:       oto.FormatSignedInt16LE,
	}

	ctx, ready, err := oto.NewContext(op)
	if err != nil {
		return fmt.Errorf("oto: %w", err)
	}
	<-ready

	player := ctx.NewPlayer(otoStream{rack})
	player.Play()
	waitForEnter()
	return player.Close()
}
