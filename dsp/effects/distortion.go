package effects

import (
	"fmt"
	"math"

	"github.com/cwbudde/algo-pedal/dsp/control"
	"github.com/cwbudde/algo-pedal/dsp/effects/internal/shape"
	"github.com/cwbudde/algo-pedal/dsp/smooth"
)

const distortionMaxGain = 100.0

// ClipMode selects the distortion clipping stage.
type ClipMode int

const (
	// ClipHard clips at ±0.7.
	ClipHard ClipMode = iota
	// ClipMedium hard clips at ±0.85 then soft clips.
	ClipMedium
	// ClipSoft soft clips at half the input level.
	ClipSoft
)

func (m ClipMode) String() string {
	switch m {
	case ClipHard:
		return "hard"
	case ClipMedium:
		return "medium"
	case ClipSoft:
		return "soft"
	default:
		return "unknown"
	}
}

// DistortionOption mutates construction-time parameters.
type DistortionOption func(*Distortion) error

// WithClipMode sets the initial clip mode.
func WithClipMode(mode ClipMode) DistortionOption {
	return func(d *Distortion) error {
		if mode < ClipHard || mode > ClipSoft {
			return fmt.Errorf("distortion clip mode is invalid: %d", mode)
		}
		d.clipMode = mode
		return nil
	}
}

// Distortion is a high-gain clipper with DC blocking, a bass shelf and a
// tone low-pass.
//
// Controls: knob 1 gain, knob 2 tone, knob 3 bass, knob 4 level, knob 6 mix,
// toggle 1 clipping (up hard, middle medium, down soft).
type Distortion struct {
	sampleRate float64

	gain  *smooth.Smoother
	tone  *smooth.Smoother
	bass  *smooth.Smoother
	level *smooth.Smoother
	mix   *smooth.Smoother

	clipMode  ClipMode
	dc        shape.DCBlocker
	bassState float64
	toneLP    shape.OnePole
}

// NewDistortion creates a distortion at sampleRate.
func NewDistortion(sampleRate float64, opts ...DistortionOption) (*Distortion, error) {
	if sampleRate <= 0 || math.IsNaN(sampleRate) || math.IsInf(sampleRate, 0) {
		return nil, fmt.Errorf("distortion sample rate must be > 0 and finite: %f", sampleRate)
	}

	d := &Distortion{
		sampleRate: sampleRate,
		gain:       smooth.MustNew(smooth.DefaultSmoothingMs, sampleRate, 0.5),
		tone:       smooth.MustNew(smooth.DefaultSmoothingMs, sampleRate, 0.6),
		bass:       smooth.MustNew(smooth.DefaultSmoothingMs, sampleRate, 0.5),
		level:      smooth.MustNew(smooth.DefaultSmoothingMs, sampleRate, 0.7),
		mix:        smooth.MustNew(smooth.DefaultSmoothingMs, sampleRate, 1.0),
		clipMode:   ClipHard,
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

// UpdateFromControls sets parameter targets from a control snapshot.
func (d *Distortion) UpdateFromControls(s control.Snapshot) {
	d.gain.SetTarget(s.Knob(control.Knob1))
	d.tone.SetTarget(s.Knob(control.Knob2))
	d.bass.SetTarget(s.Knob(control.Knob3))
	d.level.SetTarget(s.Knob(control.Knob4))
	d.mix.SetTarget(s.Knob(control.Knob6))
	d.clipMode = control.Select(s.Toggle(control.Toggle1), d.clipMode,
		ClipHard, ClipMedium, ClipSoft)
}

// ApplyControls is UpdateFromControls followed by jumping every parameter
// straight to its target.
func (d *Distortion) ApplyControls(s control.Snapshot) {
	d.UpdateFromControls(s)
	smooth.SnapAll(d.gain, d.tone, d.bass, d.level, d.mix)
}

// LEDState returns a constant full brightness while the effect is engaged.
func (d *Distortion) LEDState() float64 { return 1 }

// ProcessSample processes one sample.
func (d *Distortion) ProcessSample(input float64) float64 {
	gain := d.gain.Process()
	tone := d.tone.Process()
	bass := d.bass.Process()
	level := d.level.Process()
	mix := d.mix.Process()

	x := d.dc.Process(input)

	d.bassState = d.bassState*(1-bassShelfCoeff) + x*bassShelfCoeff
	x += d.bassState * (bass - 0.5) * 2

	x *= 1 + gain*(distortionMaxGain-1)
	x = d.clip(x)

	toned := d.toneLP.Process(x, 0.3+tone*0.69)

	return (input*(1-mix) + toned*mix) * level
}

// ProcessInPlace applies the distortion to buf in place.
func (d *Distortion) ProcessInPlace(buf []float64) {
	for i := range buf {
		buf[i] = d.ProcessSample(buf[i])
	}
}

// Reset clears filter state. Parameter smoothers keep their values.
func (d *Distortion) Reset() {
	d.dc.Reset()
	d.bassState = 0
	d.toneLP.Reset()
}

// SampleRate returns sample rate in Hz.
func (d *Distortion) SampleRate() float64 { return d.sampleRate }

// ClipMode returns the active clip mode.
func (d *Distortion) ClipMode() ClipMode { return d.clipMode }

func (d *Distortion) clip(x float64) float64 {
	switch d.clipMode {
	case ClipHard:
		return shape.HardClip(x, 0.7)
	case ClipMedium:
		return shape.SoftClip(shape.HardClip(x, 0.85) * 0.8)
	default:
		return shape.SoftClip(x * 0.5)
	}
}
