package response

import (
	"fmt"
	"math"

	algofft "github.com/MeKo-Christian/algo-fft"
	"github.com/cwbudde/algo-pedal/dsp/core"
	"github.com/cwbudde/algo-vecmath"
)

// Spectrum is the magnitude of an impulse response from DC to Nyquist.
type Spectrum struct {
	SampleRate float64
	FFTSize    int
	Magnitude  []float64 // FFTSize/2+1 linear bins
}

// NewSpectrum transforms ir. A non-positive fftSize selects the next power of
// two that holds ir; longer responses are truncated to fftSize.
func NewSpectrum(ir []float64, sampleRate float64, fftSize int) (Spectrum, error) {
	if len(ir) == 0 {
		return Spectrum{}, ErrEmpty
	}

	if sampleRate <= 0 {
		return Spectrum{}, ErrInvalidSampleRate
	}

	if fftSize <= 0 {
		fftSize = nextPowerOf2(len(ir))
	}

	if fftSize < 2 {
		fftSize = 2
	}

	plan, err := algofft.NewPlan64(fftSize)
	if err != nil {
		return Spectrum{}, fmt.Errorf("response: fft plan: %w", err)
	}

	in := make([]complex128, fftSize)
	for i := 0; i < len(ir) && i < fftSize; i++ {
		in[i] = complex(ir[i], 0)
	}

	out := make([]complex128, fftSize)

	err = plan.Forward(out, in)
	if err != nil {
		return Spectrum{}, fmt.Errorf("response: fft: %w", err)
	}

	bins := fftSize/2 + 1
	re := make([]float64, bins)
	im := make([]float64, bins)

	for i := range bins {
		re[i] = real(out[i])
		im[i] = imag(out[i])
	}

	mag := make([]float64, bins)
	vecmath.Magnitude(mag, re, im)

	return Spectrum{SampleRate: sampleRate, FFTSize: fftSize, Magnitude: mag}, nil
}

// BinHz returns the frequency spacing of the bins.
func (s Spectrum) BinHz() float64 {
	if s.FFTSize == 0 {
		return 0
	}
	return s.SampleRate / float64(s.FFTSize)
}

// At returns the linear magnitude of the bin nearest freqHz.
func (s Spectrum) At(freqHz float64) float64 {
	if len(s.Magnitude) == 0 {
		return 0
	}

	bin := int(math.Round(freqHz / s.BinHz()))
	bin = max(0, min(bin, len(s.Magnitude)-1))

	return s.Magnitude[bin]
}

// DBAt returns At(freqHz) in dB.
func (s Spectrum) DBAt(freqHz float64) float64 {
	return core.LinearToDB(s.At(freqHz))
}

func nextPowerOf2(n int) int {
	p := 1
	for p < n {
		p <<= 1
	}
	return p
}
