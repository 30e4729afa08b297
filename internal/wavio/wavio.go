// Package wavio reads and writes mono WAV files for offline rendering.
package wavio

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/cwbudde/algo-vecmath"
	"github.com/go-audio/audio"
	"github.com/go-audio/wav"
)

// wavFormatPCM is the WAVE_FORMAT_PCM format tag.
const wavFormatPCM = 1

// ErrInvalidFile is returned when the input is not a readable WAV file.
var ErrInvalidFile = errors.New("wavio: not a valid wav file")

// Clip is a mono signal with normalized samples.
type Clip struct {
	SampleRate int
	BitDepth   int
	Samples    []float64
}

// Read decodes a PCM WAV stream. Multichannel input is averaged to mono.
func Read(r io.ReadSeeker) (Clip, error) {
	dec := wav.NewDecoder(r)
	if !dec.IsValidFile() {
		return Clip{}, ErrInvalidFile
	}

	buf, err := dec.FullPCMBuffer()
	if err != nil {
		return Clip{}, fmt.Errorf("wavio: decode: %w", err)
	}

	bits := buf.SourceBitDepth
	full := float64(audio.IntMaxSignedValue(bits))
	if bits < 16 || full == 0 {
		return Clip{}, fmt.Errorf("wavio: unsupported bit depth: %d", bits)
	}

	channels := max(buf.Format.NumChannels, 1)
	frames := len(buf.Data) / channels
	samples := make([]float64, frames)

	for i := range samples {
		var sum int
		for ch := range channels {
			sum += buf.Data[i*channels+ch]
		}
		samples[i] = float64(sum) / float64(channels) / full
	}

	return Clip{SampleRate: buf.Format.SampleRate, BitDepth: bits, Samples: samples}, nil
}

// ReadFile decodes the WAV file at path.
func ReadFile(path string) (Clip, error) {
	f, err := os.Open(path)
	if err != nil {
		return Clip{}, err
	}
	defer f.Close()

	return Read(f)
}

// Write encodes c as mono PCM at c.BitDepth, dithering when dither is non-nil.
func Write(w io.WriteSeeker, c Clip, dither *vecmath.DitherState) error {
	if c.SampleRate <= 0 {
		return fmt.Errorf("wavio: sample rate must be > 0: %d", c.SampleRate)
	}

	q, err := NewQuantizer(c.BitDepth, dither)
	if err != nil {
		return err
	}

	data := make([]int, len(c.Samples))
	q.Quantize(data, c.Samples)

	enc := wav.NewEncoder(w, c.SampleRate, c.BitDepth, 1, wavFormatPCM)
	buf := &audio.IntBuffer{
		Format:         &audio.Format{NumChannels: 1, SampleRate: c.SampleRate},
		Data:           data,
		SourceBitDepth: c.BitDepth,
	}

	if err := enc.Write(buf); err != nil {
		return fmt.Errorf("wavio: encode: %w", err)
	}

	return enc.Close()
}

// WriteFile encodes c to path, replacing any existing file.
func WriteFile(path string, c Clip, dither *vecmath.DitherState) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}

	if err := Write(f, c, dither); err != nil {
		f.Close()
		return err
	}

	return f.Close()
}
