// Package control models the pedal's hardware controls: six knobs, three
// 3-way toggles, two footswitches and two LEDs.
//
// A Snapshot is an immutable reading of every control taken once per
// control cycle. Readers build snapshots from a hardware Port and derive
// footswitch rising edges, so a held footswitch produces exactly one edge.
package control
