package core

import "math"

// LogEpsilon is added to linear amplitudes before taking a logarithm so that
// silence maps to a finite level (20*log10(1e-4) = -80 dB).
const LogEpsilon = 1e-4

// Clamp limits value to the inclusive range [min, max].
func Clamp(value, min, max float64) float64 {
	if min > max {
		min, max = max, min
	}

	if value < min {
		return min
	}

	if value > max {
		return max
	}

	return value
}

// ClampUnit limits value to [0, 1]. NaN maps to fallback.
func ClampUnit(value, fallback float64) float64 {
	if math.IsNaN(value) {
		return fallback
	}

	return Clamp(value, 0, 1)
}

// ClampSample limits an audio sample to [-1, 1].
func ClampSample(x float64) float64 {
	if x > 1 {
		return 1
	}

	if x < -1 {
		return -1
	}

	return x
}

// FlushDenormals converts tiny denormal-like values to exact zero.
// This can reduce denormal-related CPU slowdowns in hot DSP loops.
func FlushDenormals(x float64) float64 {
	const epsilon = 1e-30
	if x > -epsilon && x < epsilon {
		return 0
	}

	return x
}

// IsFinite reports whether v is neither NaN nor infinite.
func IsFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

// DBToLinear converts dB to linear amplitude (20*log10 convention).
func DBToLinear(db float64) float64 {
	return math.Pow(10, db/20)
}

// LinearToDB converts linear amplitude to dB (20*log10 convention) after
// adding LogEpsilon, so the result is always finite for finite non-negative input.
// Negative input is treated by magnitude.
func LinearToDB(linear float64) float64 {
	return 20 * math.Log10(math.Abs(linear)+LogEpsilon)
}
