// Package level provides block peak and RMS metering.
package level

import (
	"math"

	"github.com/cwbudde/algo-pedal/dsp/core"
	"github.com/cwbudde/algo-vecmath"
)

// Stats holds the level of a block or stream.
type Stats struct {
	Peak    float64 // largest absolute sample
	RMS     float64 // root mean square
	Samples int
}

// PeakDB returns Peak in dBFS.
func (s Stats) PeakDB() float64 { return core.LinearToDB(s.Peak) }

// RMSDB returns RMS in dBFS.
func (s Stats) RMSDB() float64 { return core.LinearToDB(s.RMS) }

// CrestFactorDB returns the peak-to-RMS ratio in dB, or 0 for silence.
func (s Stats) CrestFactorDB() float64 {
	if s.RMS == 0 {
		return 0
	}
	return 20 * math.Log10(s.Peak/s.RMS)
}

// Peak returns the largest absolute value in x, or 0 for an empty block.
func Peak(x []float64) float64 {
	if len(x) == 0 {
		return 0
	}
	return vecmath.MaxAbs(x)
}

// RMS returns the root mean square of x, or 0 for an empty block.
func RMS(x []float64) float64 {
	if len(x) == 0 {
		return 0
	}
	return math.Sqrt(vecmath.DotProduct(x, x) / float64(len(x)))
}

// Measure returns the level of one block.
func Measure(x []float64) Stats {
	return Stats{Peak: Peak(x), RMS: RMS(x), Samples: len(x)}
}

// Meter accumulates level over successive blocks.
type Meter struct {
	peak       float64
	sumSquares float64
	samples    int
}

// Add folds block into the running totals.
func (m *Meter) Add(block []float64) {
	if len(block) == 0 {
		return
	}
	if p := vecmath.MaxAbs(block); p > m.peak {
		m.peak = p
	}
	m.sumSquares += vecmath.DotProduct(block, block)
	m.samples += len(block)
}

// Stats returns the level of everything added since the last Reset.
func (m *Meter) Stats() Stats {
	s := Stats{Peak: m.peak, Samples: m.samples}
	if m.samples > 0 {
		s.RMS = math.Sqrt(m.sumSquares / float64(m.samples))
	}
	return s
}

// Reset clears the meter.
func (m *Meter) Reset() {
	*m = Meter{}
}
