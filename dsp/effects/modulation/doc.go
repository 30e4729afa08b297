// Package modulation provides the pedal's LFO-driven effects.
//
// Included processors:
//   - Chorus: Single-voice modulated delay with sine, triangle or square LFO.
//   - Tremolo: Morphing-LFO amplitude modulation with classic, harmonic and
//     opto response modes.
package modulation
