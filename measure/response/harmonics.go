package response

import (
	"fmt"
	"math"

	algofft "github.com/MeKo-Christian/algo-fft"
	"github.com/cwbudde/algo-pedal/dsp/core"
	"github.com/cwbudde/algo-vecmath"
)

// DefaultHarmonics is the number of harmonics MeasureHarmonics evaluates
// when count is not positive.
const DefaultHarmonics = 9

// captureBins is the half-width of the Hann main lobe summed per harmonic.
const captureBins = 2

// Harmonics describes the steady-state harmonic content of a driven effect.
// Levels are amplitudes relative to the fundamental.
type Harmonics struct {
	Fundamental float64   // fundamental frequency at the analyzed bin
	Levels      []float64 // harmonics 2, 3, ... in order
	THD         float64   // root-sum-square of Levels
	OddHD       float64
	EvenHD      float64
}

// THDDB returns the total harmonic distortion in dB.
func (h Harmonics) THDDB() float64 { return core.LinearToDB(h.THD) }

// MeasureHarmonics resets p, drives it with a sine and analyzes fftSize
// samples of its output after an equally long settling run. Harmonics above
// Nyquist are not reported.
func MeasureHarmonics(p Processor, freqHz, sampleRate, amplitude float64, fftSize, count int) (Harmonics, error) {
	if sampleRate <= 0 {
		return Harmonics{}, ErrInvalidSampleRate
	}

	if freqHz <= 0 || freqHz >= sampleRate/2 {
		return Harmonics{}, ErrInvalidFrequency
	}

	if fftSize < 16 {
		return Harmonics{}, fmt.Errorf("response: harmonics fft size must be >= 16: %d", fftSize)
	}

	if count <= 0 {
		count = DefaultHarmonics
	}

	p.Reset()

	step := 2 * math.Pi * freqHz / sampleRate
	for i := range fftSize {
		p.ProcessSample(amplitude * math.Sin(step*float64(i)))
	}

	in := make([]complex128, fftSize)
	for i := range in {
		n := fftSize + i
		y := p.ProcessSample(amplitude * math.Sin(step*float64(n)))
		w := 0.5 - 0.5*math.Cos(2*math.Pi*float64(i)/float64(fftSize))
		in[i] = complex(y*w, 0)
	}

	plan, err := algofft.NewPlan64(fftSize)
	if err != nil {
		return Harmonics{}, fmt.Errorf("response: fft plan: %w", err)
	}

	out := make([]complex128, fftSize)
	if err := plan.Forward(out, in); err != nil {
		return Harmonics{}, fmt.Errorf("response: fft: %w", err)
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

	binHz := sampleRate / float64(fftSize)
	fundBin := int(math.Round(freqHz / binHz))
	if fundBin <= captureBins {
		return Harmonics{}, fmt.Errorf("response: %g Hz is too close to DC for fft size %d", freqHz, fftSize)
	}

	h := Harmonics{Fundamental: float64(fundBin) * binHz}

	fund := lobe(mag, fundBin)
	if fund <= 0 {
		return h, nil
	}

	var sum, odd, even float64
	for k := 2; k < count+2; k++ {
		bin := k * fundBin
		if bin+captureBins >= bins {
			break
		}

		level := lobe(mag, bin) / fund
		h.Levels = append(h.Levels, level)
		sum += level * level

		if k%2 == 0 {
			even += level * level
		} else {
			odd += level * level
		}
	}

	h.THD = math.Sqrt(sum)
	h.OddHD = math.Sqrt(odd)
	h.EvenHD = math.Sqrt(even)

	return h, nil
}

// lobe sums the magnitudes around bin.
func lobe(mag []float64, bin int) float64 {
	lo := max(bin-captureBins, 0)
	hi := min(bin+captureBins, len(mag)-1)

	sum := 0.0
	for i := lo; i <= hi; i++ {
		sum += mag[i]
	}

	return sum
}
