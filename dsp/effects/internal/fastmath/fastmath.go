//go:build !fastmath

package fastmath

import "math"

// Log10 computes log10(x) using standard library math.
func Log10(x float64) float64 {
	return math.Log10(x)
}

// Pow10 computes 10^x using standard library math.
func Pow10(x float64) float64 {
	return math.Pow(10, x)
}
