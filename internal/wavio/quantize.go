package wavio

import (
	"fmt"
	"math"

	"github.com/cwbudde/algo-vecmath"
	"github.com/go-audio/audio"
)

// Quantizer converts normalized samples to signed integers of a fixed
// resolution, optionally adding TPDF dither of one LSB peak first.
type Quantizer struct {
	bits   int
	scale  float64
	dither *vecmath.DitherState
	buf    []float64
}

// NewQuantizer creates a quantizer for 16, 24 or 32 bit samples. A nil
// dither state disables dither.
func NewQuantizer(bits int, dither *vecmath.DitherState) (*Quantizer, error) {
	maxValue := audio.IntMaxSignedValue(bits)
	if bits < 16 || maxValue == 0 {
		return nil, fmt.Errorf("wavio: unsupported bit depth: %d", bits)
	}

	return &Quantizer{bits: bits, scale: float64(maxValue), dither: dither}, nil
}

// Bits returns the output resolution.
func (q *Quantizer) Bits() int { return q.bits }

// Scale returns the integer value of a full-scale sample.
func (q *Quantizer) Scale() float64 { return q.scale }

// Quantize writes min(len(dst), len(src)) integer samples to dst.
func (q *Quantizer) Quantize(dst []int, src []float64) {
	n := min(len(dst), len(src))
	if n == 0 {
		return
	}

	if cap(q.buf) < n {
		q.buf = make([]float64, n)
	}

	buf := q.buf[:n]
	vecmath.ScaleBlock(buf, src[:n], q.scale)
	q.round(buf)

	for i, v := range buf {
		dst[i] = int(v)
	}
}

// Requantize rounds buf in place to the quantizer's resolution, keeping it
// normalized. It simulates a converter of that resolution.
func (q *Quantizer) Requantize(buf []float64) {
	if len(buf) == 0 {
		return
	}

	vecmath.ScaleBlockInPlace(buf, q.scale)
	q.round(buf)
	vecmath.ScaleBlockInPlace(buf, 1/q.scale)
}

func (q *Quantizer) round(buf []float64) {
	if q.dither != nil {
		vecmath.AddDitherTPDF(buf, 1, q.dither)
	}

	for i, v := range buf {
		buf[i] = math.Max(-q.scale, math.Min(q.scale, math.Round(v)))
	}
}
