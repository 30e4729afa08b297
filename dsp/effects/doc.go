// Package effects provides the drive and delay effects of the pedal.
//
// Subpackages:
//   - github.com/cwbudde/algo-pedal/dsp/effects/dynamics
//   - github.com/cwbudde/algo-pedal/dsp/effects/modulation
//   - github.com/cwbudde/algo-pedal/dsp/effects/reverb
//
// Effects in this package:
//   - Overdrive: Bass shelf, soft clip and voiced tone filter.
//   - Distortion: DC-blocked hard, stacked or soft clipping.
//   - Fuzz: High pre-gain with vintage, modern or octave clipping and a noise gate.
//   - Delay: Filtered feedback echo with short, medium and long ranges.
//
// Every effect reads its parameters from a control.Snapshot, smooths them per
// sample, and processes without allocating.
package effects
