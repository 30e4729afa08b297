package reverb

import (
	"math"

	"github.com/cwbudde/algo-pedal/dsp/core"
)

const (
	numCombs     = 4
	numAllpasses = 2

	// Tap lengths in samples at the reference rate.
	referenceRate = 48000.0

	combTuning1 = 1557
	combTuning2 = 1617
	combTuning3 = 1491
	combTuning4 = 1422

	allpassTuning1 = 225
	allpassTuning2 = 556

	defaultCombFeedback = 0.7
	defaultCombDamping  = 0.5
	allpassGain         = 0.5
)

var (
	combTunings    = [numCombs]int{combTuning1, combTuning2, combTuning3, combTuning4}
	allpassTunings = [numAllpasses]int{allpassTuning1, allpassTuning2}
)

// scaleTuning converts a reference-rate tap length to sampleRate.
func scaleTuning(samples int, sampleRate float64) int {
	n := int(math.Round(float64(samples) * sampleRate / referenceRate))
	if n < 1 {
		return 1
	}
	return n
}

// comb is a feedback comb with a one-pole low-pass in the loop.
type comb struct {
	feedback  float64
	damping   float64
	dampState float64
	buffer    []float64
	index     int
}

func newComb(size int) comb {
	return comb{
		feedback: defaultCombFeedback,
		damping:  defaultCombDamping,
		buffer:   make([]float64, size),
	}
}

func (c *comb) process(input float64) float64 {
	output := c.buffer[c.index]
	c.dampState = core.FlushDenormals(output*(1-c.damping) + c.dampState*c.damping)
	c.buffer[c.index] = input + c.dampState*c.feedback
	c.index++
	if c.index >= len(c.buffer) {
		c.index = 0
	}
	return output
}

func (c *comb) reset() {
	for i := range c.buffer {
		c.buffer[i] = 0
	}
	c.index = 0
	c.dampState = 0
}

// allpass is a Schroeder allpass diffuser with fixed gain.
type allpass struct {
	gain   float64
	buffer []float64
	index  int
}

func newAllpass(size int) allpass {
	return allpass{
		gain:   allpassGain,
		buffer: make([]float64, size),
	}
}

func (a *allpass) process(input float64) float64 {
	bufOut := a.buffer[a.index]
	output := -input + bufOut
	a.buffer[a.index] = input + bufOut*a.gain
	a.index++
	if a.index >= len(a.buffer) {
		a.index = 0
	}
	return output
}

func (a *allpass) reset() {
	for i := range a.buffer {
		a.buffer[i] = 0
	}
	a.index = 0
}

// Network is the comb/allpass core without pre-delay or mixing. All buffers
// are allocated by NewNetwork.
type Network struct {
	combs     [numCombs]comb
	allpasses [numAllpasses]allpass
}

// NewNetwork builds the network with tap lengths scaled to sampleRate.
func NewNetwork(sampleRate float64) *Network {
	n := &Network{}
	for i, t := range combTunings {
		n.combs[i] = newComb(scaleTuning(t, sampleRate))
	}
	for i, t := range allpassTunings {
		n.allpasses[i] = newAllpass(scaleTuning(t, sampleRate))
	}
	return n
}

// SetFeedback sets the loop gain of every comb. Values are capped at
// MaxFeedback.
func (n *Network) SetFeedback(fb float64) {
	fb = math.Min(fb, MaxFeedback)
	for i := range n.combs {
		n.combs[i].feedback = fb
	}
}

// SetDamping sets the loop low-pass coefficient of every comb, clamped to [0, 1].
func (n *Network) SetDamping(d float64) {
	d = core.Clamp(d, 0, 1)
	for i := range n.combs {
		n.combs[i].damping = d
	}
}

// Process runs one sample through the averaged combs and the allpass chain.
func (n *Network) Process(input float64) float64 {
	var acc float64
	for i := range n.combs {
		acc += n.combs[i].process(input)
	}
	acc /= numCombs

	for i := range n.allpasses {
		acc = n.allpasses[i].process(acc)
	}
	return acc
}

// Reset clears every comb and allpass.
func (n *Network) Reset() {
	for i := range n.combs {
		n.combs[i].reset()
	}
	for i := range n.allpasses {
		n.allpasses[i].reset()
	}
}

// LongestComb returns the longest comb length in samples.
func (n *Network) LongestComb() int {
	longest := 0
	for i := range n.combs {
		if l := len(n.combs[i].buffer); l > longest {
			longest = l
		}
	}
	return longest
}
