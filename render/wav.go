package render

import (
	"fmt"
	"io"

	"github.com/go-audio/audio"
	"github.com/go-audio/wav"
	"github.com/viterin/vek/vek32"
)

// Peak returns the largest absolute sample value of buf.
func Peak(buf []float32) float32 {
	if len(buf) == 0 {
		return 0
	}
	abs := vek32.Abs(buf)
	return vek32.Max(abs)
}

// Normalize scales buf in place so its peak is at full scale and returns
// the gain applied. Silence is left alone.
func Normalize(buf []float32) float32 {
	peak := Peak(buf)
	if peak == 0 {
		return 1
	}
	gain := 1 / peak
	vek32.MulNumber_Inplace(buf, gain)
	return gain
}

// WriteWAV encodes buf as a mono 16 bit WAV file.
func WriteWAV(w io.WriteSeeker, sampleRate int, buf []float32) error {
	data := make([]int, len(buf))
	for i, v := range buf {
		data[i] = int(ToInt16(v))
	}

	enc := wav.NewEncoder(w, sampleRate, 16, 1, 1)
	ib := &audio.IntBuffer{
		Format:         &audio.Format{NumChannels: 1, SampleRate: sampleRate},
		Data:           data,
		SourceBitDepth: 16,
	}
	if err := enc.Write(ib); err != nil {
		return fmt.Errorf("writing wav: %w", err)
	}
	if err := enc.Close(); err != nil {
		return fmt.Errorf("writing wav: %w", err)
	}
	return nil
}
