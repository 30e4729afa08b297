// Package reverb provides the pedal's Schroeder reverberator: a pre-delay
// line feeding four parallel damped comb filters whose averaged output runs
// through two series allpass diffusers.
package reverb
