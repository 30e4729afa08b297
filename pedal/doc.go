// Package pedal hosts one effect at a time behind the Hothouse control
// surface: footswitch bypass, LED feedback and a registry of effect kinds.
package pedal
