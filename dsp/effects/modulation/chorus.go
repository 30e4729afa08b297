package modulation

import (
	"fmt"
	"math"

	"github.com/cwbudde/algo-pedal/dsp/control"
	"github.com/cwbudde/algo-pedal/dsp/delay"
	"github.com/cwbudde/algo-pedal/dsp/effects/internal/shape"
	"github.com/cwbudde/algo-pedal/dsp/smooth"
)

const (
	chorusCapacitySeconds = 0.1
	chorusBaseDelayMs     = 10.0
	chorusDepthDelayMs    = 15.0
	chorusSweepMs         = 5.0
	chorusMinRateHz       = 0.1
	chorusRateRangeHz     = 4.9
)

// Waveform selects the chorus LFO shape.
type Waveform = shape.Waveform

const (
	Sine     = shape.Sine
	Triangle = shape.Triangle
	Square   = shape.Square
)

// ChorusOption mutates construction-time parameters.
type ChorusOption func(*Chorus) error

// WithWaveform sets the initial LFO waveform.
func WithWaveform(w Waveform) ChorusOption {
	return func(c *Chorus) error {
		if w < Sine || w > Square {
			return fmt.Errorf("chorus waveform is invalid: %d", w)
		}
		c.waveform = w
		return nil
	}
}

// Chorus is a single modulated delay line. The delay sweeps around
// 10..25 ms (set by depth) by up to ±5 ms.
//
// Delay time follows:
//
//	d = 10ms + depth*15ms + lfo*depth*5ms
//
// Controls: knob 1 rate (0.1..5 Hz), knob 2 depth, knob 6 mix, toggle 1
// waveform (up sine, middle triangle, down square).
type Chorus struct {
	sampleRate float64

	rate  *smooth.Smoother
	depth *smooth.Smoother
	mix   *smooth.Smoother

	waveform Waveform
	phase    shape.Phase
	line     *delay.Line
}

// NewChorus creates a chorus with 100 ms of delay capacity at sampleRate.
func NewChorus(sampleRate float64, opts ...ChorusOption) (*Chorus, error) {
	if sampleRate <= 0 || math.IsNaN(sampleRate) || math.IsInf(sampleRate, 0) {
		return nil, fmt.Errorf("chorus sample rate must be > 0 and finite: %f", sampleRate)
	}

	line, err := delay.NewSeconds(chorusCapacitySeconds, sampleRate)
	if err != nil {
		return nil, err
	}

	c := &Chorus{
		sampleRate: sampleRate,
		rate:       smooth.MustNew(smooth.DefaultSmoothingMs, sampleRate, 1.0),
		depth:      smooth.MustNew(smooth.DefaultSmoothingMs, sampleRate, 0.5),
		mix:        smooth.MustNew(smooth.DefaultSmoothingMs, sampleRate, 0.5),
		waveform:   Sine,
		line:       line,
	}

	for _, opt := range opts {
		if opt == nil {
			continue
		}
		if err := opt(c); err != nil {
			return nil, err
		}
	}

	return c, nil
}

// UpdateFromControls sets parameter targets from a control snapshot.
func (c *Chorus) UpdateFromControls(s control.Snapshot) {
	c.rate.SetTarget(chorusMinRateHz + s.Knob(control.Knob1)*chorusRateRangeHz)
	c.depth.SetTarget(s.Knob(control.Knob2))
	c.mix.SetTarget(s.Knob(control.Knob6))
	c.waveform = control.Select(s.Toggle(control.Toggle1), c.waveform,
		Sine, Triangle, Square)
}

// ApplyControls is UpdateFromControls followed by jumping every parameter
// straight to its target.
func (c *Chorus) ApplyControls(s control.Snapshot) {
	c.UpdateFromControls(s)
	smooth.SnapAll(c.rate, c.depth, c.mix)
}

// LEDState follows the LFO, mapped to [0, 1].
func (c *Chorus) LEDState() float64 {
	return (c.waveform.At(c.phase.Value()) + 1) * 0.5
}

// ProcessSample processes one sample.
func (c *Chorus) ProcessSample(input float64) float64 {
	rate := c.rate.Process()
	depth := c.depth.Process()
	mix := c.mix.Process()

	lfo := c.waveform.At(c.phase.Advance(rate, c.sampleRate))

	delayMs := chorusBaseDelayMs + depth*chorusDepthDelayMs + lfo*depth*chorusSweepMs
	delayed := c.line.Process(input, int(delayMs*c.sampleRate/1000))

	return input*(1-mix) + delayed*mix
}

// ProcessInPlace applies the chorus to buf in place.
func (c *Chorus) ProcessInPlace(buf []float64) {
	for i := range buf {
		buf[i] = c.ProcessSample(buf[i])
	}
}

// Reset clears the delay line and LFO phase.
func (c *Chorus) Reset() {
	c.line.Reset()
	c.phase.Reset()
}

// SampleRate returns sample rate in Hz.
func (c *Chorus) SampleRate() float64 { return c.sampleRate }

// Waveform returns the active LFO waveform.
func (c *Chorus) Waveform() Waveform { return c.waveform }

// Phase returns the LFO phase in [0, 1).
func (c *Chorus) Phase() float64 { return c.phase.Value() }
