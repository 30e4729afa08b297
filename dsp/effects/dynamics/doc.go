// Package dynamics provides the pedal compressor.
//
// Included processors:
//   - Compressor: Peak envelope follower feeding a decibel-domain gain
//     computer with hard, medium or soft knee, makeup gain and parallel mix.
package dynamics
