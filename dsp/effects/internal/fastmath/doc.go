// Package fastmath provides the logarithm and exponential used by the
// compressor gain computer.
//
// The default build uses the standard library. Building with the fastmath
// tag switches to algo-approx approximations, which trade a small amount of
// accuracy (well under 0.1 dB in the compressor's working range) for speed
// on embedded targets.
package fastmath
