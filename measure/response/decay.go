package response

import "math"

// DefaultOnsetRatio places the onset at the first sample within 20 dB of
// the peak.
const DefaultOnsetRatio = 0.1

// schroederFloorDB is reported where the remaining energy is exactly zero.
const schroederFloorDB = -200.0

// Decay describes how an impulse response dies away.
type Decay struct {
	Onset int     // first sample reaching DefaultOnsetRatio of the peak
	Peak  int     // index of the absolute maximum
	EDT   float64 // early decay time in seconds, 0 to -10 dB
	RT60  float64 // reverberation time in seconds, from T30 or else T20
}

// AnalyzeDecay measures onset and decay times of ir. Decay times are
// evaluated from the peak onwards and are 0 when the response does not fall
// far enough.
func AnalyzeDecay(ir []float64, sampleRate float64) (Decay, error) {
	if len(ir) == 0 {
		return Decay{}, ErrEmpty
	}

	if sampleRate <= 0 {
		return Decay{}, ErrInvalidSampleRate
	}

	peak := peakIndex(ir)
	curve := SchroederCurve(ir[peak:])

	d := Decay{
		Onset: Onset(ir, DefaultOnsetRatio),
		Peak:  peak,
		EDT:   decayTime(curve, sampleRate, 0, -10),
	}

	d.RT60 = decayTime(curve, sampleRate, -5, -35)
	if d.RT60 == 0 {
		d.RT60 = decayTime(curve, sampleRate, -5, -25)
	}

	return d, nil
}

// RT60 returns the reverberation time of ir, or ErrNoDecay.
func RT60(ir []float64, sampleRate float64) (float64, error) {
	d, err := AnalyzeDecay(ir, sampleRate)
	if err != nil {
		return 0, err
	}

	if d.RT60 == 0 {
		return 0, ErrNoDecay
	}

	return d.RT60, nil
}

// Onset returns the index of the first sample whose magnitude reaches
// ratio times the peak magnitude, or 0 for silence.
func Onset(ir []float64, ratio float64) int {
	if len(ir) == 0 {
		return 0
	}

	threshold := math.Abs(ir[peakIndex(ir)]) * ratio
	if threshold == 0 {
		return 0
	}

	for i, v := range ir {
		if math.Abs(v) >= threshold {
			return i
		}
	}

	return 0
}

// SchroederCurve returns the backward-integrated energy of ir in dB relative
// to its total energy. The first value is 0 dB unless ir is silent.
func SchroederCurve(ir []float64) []float64 {
	curve := make([]float64, len(ir))

	var energy float64
	for i := len(ir) - 1; i >= 0; i-- {
		energy += ir[i] * ir[i]
		curve[i] = energy
	}

	if len(curve) == 0 || curve[0] <= 0 {
		return curve
	}

	total := curve[0]
	for i, e := range curve {
		if e <= 0 {
			curve[i] = schroederFloorDB
			continue
		}
		curve[i] = 10 * math.Log10(e/total)
	}

	return curve
}

// decayTime fits a line to the curve between startDB and endDB and
// extrapolates it to -60 dB.
func decayTime(curve []float64, sampleRate, startDB, endDB float64) float64 {
	start, end := -1, -1

	for i, v := range curve {
		if start < 0 && v <= startDB {
			start = i
		}

		if start >= 0 && v <= endDB {
			end = i
			break
		}
	}

	if start < 0 || end <= start {
		return 0
	}

	var sumX, sumY, sumXX, sumXY float64

	for i := start; i <= end; i++ {
		x := float64(i - start)
		y := curve[i]
		sumX += x
		sumY += y
		sumXX += x * x
		sumXY += x * y
	}

	n := float64(end - start + 1)

	denom := n*sumXX - sumX*sumX
	if denom == 0 {
		return 0
	}

	slope := (n*sumXY - sumX*sumY) / denom // dB per sample
	if slope >= 0 {
		return 0
	}

	return -60 / (slope * sampleRate)
}

func peakIndex(x []float64) int {
	idx := 0
	peak := 0.0

	for i, v := range x {
		if a := math.Abs(v); a > peak {
			peak = a
			idx = i
		}
	}

	return idx
}
