package effects

import (
	"fmt"
	"math"

	"github.com/cwbudde/algo-pedal/dsp/control"
	"github.com/cwbudde/algo-pedal/dsp/core"
	"github.com/cwbudde/algo-pedal/dsp/delay"
	"github.com/cwbudde/algo-pedal/dsp/effects/internal/shape"
	"github.com/cwbudde/algo-pedal/dsp/smooth"
)

const (
	delayCapacitySeconds = 1.0
	delayMinSeconds      = 0.05
	delayMaxFeedback     = 0.9
)

// DelayRange scales the time knob before it is mapped onto 50 ms..1 s.
type DelayRange int

const (
	DelayShort DelayRange = iota
	DelayMedium
	DelayLong
)

func (r DelayRange) String() string {
	switch r {
	case DelayShort:
		return "short"
	case DelayMedium:
		return "medium"
	case DelayLong:
		return "long"
	default:
		return "unknown"
	}
}

// Multiplier returns the factor applied to the time knob.
func (r DelayRange) Multiplier() float64 {
	switch r {
	case DelayShort:
		return 0.25
	case DelayMedium:
		return 0.5
	default:
		return 1
	}
}

// DelayOption mutates construction-time parameters.
type DelayOption func(*Delay) error

// WithDelayRange sets the initial time range.
func WithDelayRange(r DelayRange) DelayOption {
	return func(d *Delay) error {
		if r < DelayShort || r > DelayLong {
			return fmt.Errorf("delay range is invalid: %d", r)
		}
		d.timeRange = r
		return nil
	}
}

// Delay is a feedback echo with a one-pole low-pass in the feedback path.
// Every write back into the line is clamped to [-1, 1].
//
// Controls: knob 1 time, knob 2 feedback, knob 3 filter, knob 4 level,
// knob 6 mix, toggle 1 range (up short, middle medium, down long).
type Delay struct {
	sampleRate float64

	time     *smooth.Smoother
	feedback *smooth.Smoother
	filter   *smooth.Smoother
	level    *smooth.Smoother
	mix      *smooth.Smoother

	timeRange DelayRange
	line      *delay.Line
	loopLP    shape.OnePole
}

// NewDelay creates a delay with one second of capacity at sampleRate.
func NewDelay(sampleRate float64, opts ...DelayOption) (*Delay, error) {
	if sampleRate <= 0 || math.IsNaN(sampleRate) || math.IsInf(sampleRate, 0) {
		return nil, fmt.Errorf("delay sample rate must be > 0 and finite: %f", sampleRate)
	}

	line, err := delay.NewSeconds(delayCapacitySeconds, sampleRate)
	if err != nil {
		return nil, err
	}

	d := &Delay{
		sampleRate: sampleRate,
		time:       smooth.MustNew(smooth.DefaultSmoothingMs, sampleRate, 0.5),
		feedback:   smooth.MustNew(smooth.DefaultSmoothingMs, sampleRate, 0.5),
		filter:     smooth.MustNew(smooth.DefaultSmoothingMs, sampleRate, 0.7),
		level:      smooth.MustNew(smooth.DefaultSmoothingMs, sampleRate, 1.0),
		mix:        smooth.MustNew(smooth.DefaultSmoothingMs, sampleRate, 0.5),
		timeRange:  DelayLong,
		line:       line,
	}

	for _, opt := range opts {
		if opt == nil {
			continue
		}
		if err := opt(d); err != nil {
			return nil, err
		}
	}

	return d, nil
}

// UpdateFromControls sets parameter targets from a control snapshot. The
// range toggle is applied before the time knob is scaled.
func (d *Delay) UpdateFromControls(s control.Snapshot) {
	d.timeRange = control.Select(s.Toggle(control.Toggle1), d.timeRange,
		DelayShort, DelayMedium, DelayLong)
	d.time.SetTarget(s.Knob(control.Knob1) * d.timeRange.Multiplier())
	d.feedback.SetTarget(s.Knob(control.Knob2) * delayMaxFeedback)
	d.filter.SetTarget(s.Knob(control.Knob3))
	d.level.SetTarget(s.Knob(control.Knob4))
	d.mix.SetTarget(s.Knob(control.Knob6))
}

// ApplyControls is UpdateFromControls followed by jumping every parameter
// straight to its target.
func (d *Delay) ApplyControls(s control.Snapshot) {
	d.UpdateFromControls(s)
	smooth.SnapAll(d.time, d.feedback, d.filter, d.level, d.mix)
}

// LEDState returns a constant full brightness while the effect is engaged.
func (d *Delay) LEDState() float64 { return 1 }

// ProcessSample processes one sample.
func (d *Delay) ProcessSample(input float64) float64 {
	time := d.time.Process()
	feedback := d.feedback.Process()
	filter := d.filter.Process()
	level := d.level.Process()
	mix := d.mix.Process()

	delaySamples := int((delayMinSeconds + time*(1-delayMinSeconds)) * d.sampleRate)
	delayed := d.line.Read(delaySamples)

	filtered := d.loopLP.Process(delayed, 0.1+filter*0.89)
	d.line.Write(core.ClampSample(input + filtered*feedback))

	return input*(1-mix) + delayed*level*mix
}

// ProcessInPlace applies the delay to buf in place.
func (d *Delay) ProcessInPlace(buf []float64) {
	for i := range buf {
		buf[i] = d.ProcessSample(buf[i])
	}
}

// Reset clears the delay line and feedback filter.
func (d *Delay) Reset() {
	d.line.Reset()
	d.loopLP.Reset()
}

// SampleRate returns sample rate in Hz.
func (d *Delay) SampleRate() float64 { return d.sampleRate }

// Range returns the active time range.
func (d *Delay) Range() DelayRange { return d.timeRange }

// Capacity returns the delay line length in samples.
func (d *Delay) Capacity() int { return d.line.Len() }
