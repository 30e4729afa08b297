// Package shape holds the small stateful and stateless building blocks the
// pedal effects share: DC blocking, one-pole tone filtering, clipping
// curves and LFO waveforms.
package shape

import "math"

// SoftClipCeiling is the soft clipper output for inputs beyond ±1.
const SoftClipCeiling = 0.76159

// SoftClipPeak is the largest soft clipper output, reached at |x| = 1. The
// curve is monotonic on [-1, 1], so it sits above SoftClipCeiling.
const SoftClipPeak = 28.0 / 36

// SoftClip is a rational tanh approximation, x(27+x²)/(27+9x²), held at
// ±SoftClipCeiling outside [-1, 1].
func SoftClip(x float64) float64 {
	if x > 1 {
		return SoftClipCeiling
	}
	if x < -1 {
		return -SoftClipCeiling
	}
	x2 := x * x
	return x * (27 + x2) / (27 + 9*x2)
}

// HardClip limits x to [-threshold, threshold].
func HardClip(x, threshold float64) float64 {
	if x > threshold {
		return threshold
	}
	if x < -threshold {
		return -threshold
	}
	return x
}

// DCBlocker is the one-pole high-pass y = x - s; s = 0.995x.
type DCBlocker struct {
	state float64
}

// Process filters one sample.
func (d *DCBlocker) Process(x float64) float64 {
	y := x - d.state
	d.state = x * 0.995
	return y
}

// Reset clears the filter state.
func (d *DCBlocker) Reset() { d.state = 0 }

// OnePole is a one-pole low-pass y = a*x + (1-a)*y[n-1] with the
// coefficient supplied per sample.
type OnePole struct {
	state float64
}

// Process filters one sample with coefficient alpha in (0, 1].
func (p *OnePole) Process(x, alpha float64) float64 {
	p.state = alpha*x + (1-alpha)*p.state
	return p.state
}

// Value returns the last output.
func (p *OnePole) Value() float64 { return p.state }

// Reset clears the filter state.
func (p *OnePole) Reset() { p.state = 0 }

// Waveform selects an LFO shape.
type Waveform int

const (
	Sine Waveform = iota
	Triangle
	Square
)

func (w Waveform) String() string {
	switch w {
	case Sine:
		return "sine"
	case Triangle:
		return "triangle"
	case Square:
		return "square"
	default:
		return "unknown"
	}
}

// SineAt returns sin(2πphase).
func SineAt(phase float64) float64 {
	return math.Sin(2 * math.Pi * phase)
}

// TriangleAt returns a bipolar triangle that is -1 at phase 0 and +1 at phase 0.5.
func TriangleAt(phase float64) float64 {
	return 2*math.Abs(2*(phase-math.Floor(phase+0.5))) - 1
}

// SquareAt returns +1 for the first half of the cycle and -1 for the second.
func SquareAt(phase float64) float64 {
	if phase < 0.5 {
		return 1
	}
	return -1
}

// At evaluates waveform w at phase in [0, 1).
func (w Waveform) At(phase float64) float64 {
	switch w {
	case Triangle:
		return TriangleAt(phase)
	case Square:
		return SquareAt(phase)
	default:
		return SineAt(phase)
	}
}

// Phase is a normalized oscillator phase in [0, 1).
type Phase struct {
	value float64
}

// Advance adds rateHz/sampleRate and wraps into [0, 1).
func (p *Phase) Advance(rateHz, sampleRate float64) float64 {
	p.value += rateHz / sampleRate
	if p.value >= 1 {
		p.value -= math.Floor(p.value)
	}
	return p.value
}

// Value returns the current phase.
func (p *Phase) Value() float64 { return p.value }

// Reset returns the phase to 0.
func (p *Phase) Reset() { p.value = 0 }
