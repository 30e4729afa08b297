package response

import (
	"errors"
	"math"

	"github.com/cwbudde/algo-pedal/measure/level"
)

// Errors returned by response analysis functions.
var (
	ErrEmpty             = errors.New("response: signal is empty")
	ErrInvalidSampleRate = errors.New("response: sample rate must be positive")
	ErrInvalidFrequency  = errors.New("response: frequency must be between 0 and Nyquist")
	ErrNoDecay           = errors.New("response: insufficient decay for RT calculation")
)

// Processor is the part of an effect needed to measure it.
type Processor interface {
	ProcessSample(input float64) float64
	Reset()
}

// Impulse resets p and records its response to a single sample of the given
// amplitude followed by silence.
func Impulse(p Processor, amplitude float64, length int) []float64 {
	if length <= 0 {
		return nil
	}

	p.Reset()

	out := make([]float64, length)
	out[0] = p.ProcessSample(amplitude)

	for i := 1; i < length; i++ {
		out[i] = p.ProcessSample(0)
	}

	return out
}

// SineGain resets p, drives it with a sine and returns the ratio of output to
// input RMS. Only the second half of the run is measured, so smoothing and
// filter transients have settled.
func SineGain(p Processor, freqHz, sampleRate, amplitude float64, length int) (float64, error) {
	if length < 2 {
		return 0, ErrEmpty
	}

	if sampleRate <= 0 {
		return 0, ErrInvalidSampleRate
	}

	if freqHz <= 0 || freqHz >= sampleRate/2 {
		return 0, ErrInvalidFrequency
	}

	p.Reset()

	in := make([]float64, length)
	out := make([]float64, length)
	step := 2 * math.Pi * freqHz / sampleRate

	for i := range in {
		in[i] = amplitude * math.Sin(step*float64(i))
		out[i] = p.ProcessSample(in[i])
	}

	half := length / 2

	inRMS := level.RMS(in[half:])
	if inRMS == 0 {
		return 0, nil
	}

	return level.RMS(out[half:]) / inRMS, nil
}
