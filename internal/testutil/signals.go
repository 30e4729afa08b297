package testutil

import (
	"math"
	"math/rand"
)

// DeterministicSine generates a sine starting at phase 0.
func DeterministicSine(freqHz, sampleRate, amplitude float64, length int) []float64 {
	out := make([]float64, length)
	step := 2 * math.Pi * freqHz / sampleRate
	for i := range out {
		out[i] = amplitude * math.Sin(step*float64(i))
	}
	return out
}

// DeterministicNoise generates white noise with a fixed seed for reproducibility.
func DeterministicNoise(seed int64, amplitude float64, length int) []float64 {
	out := make([]float64, length)
	rng := rand.New(rand.NewSource(seed))
	for i := range out {
		out[i] = (rng.Float64()*2 - 1) * amplitude
	}
	return out
}

// Impulse generates a unit impulse at the given position.
func Impulse(length, pos int) []float64 {
	out := make([]float64, length)
	if pos >= 0 && pos < length {
		out[pos] = 1
	}
	return out
}

// DC generates a constant-valued signal.
func DC(value float64, length int) []float64 {
	out := make([]float64, length)
	for i := range out {
		out[i] = value
	}
	return out
}

// SampleProcessor is anything that processes one sample at a time.
type SampleProcessor interface {
	ProcessSample(x float64) float64
}

// Process runs in through p sample by sample and returns a new slice.
func Process(p SampleProcessor, in []float64) []float64 {
	out := make([]float64, len(in))
	for i, x := range in {
		out[i] = p.ProcessSample(x)
	}
	return out
}
