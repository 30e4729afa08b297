package effects

import (
	"fmt"
	"math"

	"github.com/cwbudde/algo-pedal/dsp/control"
	"github.com/cwbudde/algo-pedal/dsp/effects/internal/shape"
	"github.com/cwbudde/algo-pedal/dsp/smooth"
)

const (
	overdriveMaxDrive  = 10.0
	bassShelfCoeff     = 0.05
	toneCoefficientUse = 0.98
)

// Voicing selects the base cutoff of the overdrive tone filter.
type Voicing int

const (
	VoicingWarm Voicing = iota
	VoicingNeutral
	VoicingBright
)

func (v Voicing) String() string {
	switch v {
	case VoicingWarm:
		return "warm"
	case VoicingNeutral:
		return "neutral"
	case VoicingBright:
		return "bright"
	default:
		return "unknown"
	}
}

func (v Voicing) toneBase() float64 {
	switch v {
	case VoicingWarm:
		return 0.3
	case VoicingBright:
		return 0.7
	default:
		return 0.5
	}
}

// OverdriveOption mutates construction-time parameters.
type OverdriveOption func(*Overdrive) error

// WithVoicing sets the initial voicing.
func WithVoicing(v Voicing) OverdriveOption {
	return func(o *Overdrive) error {
		if v < VoicingWarm || v > VoicingBright {
			return fmt.Errorf("overdrive voicing is invalid: %d", v)
		}
		o.voicing = v
		return nil
	}
}

// Overdrive is a tube-style soft-clipping drive with a bass shelf ahead of
// the clipper and a voiced tone low-pass after it.
//
// Controls: knob 1 drive, knob 2 tone, knob 3 bass, knob 4 level, knob 6
// mix, toggle 1 voicing (up warm, middle neutral, down bright).
type Overdrive struct {
	sampleRate float64

	drive *smooth.Smoother
	tone  *smooth.Smoother
	bass  *smooth.Smoother
	level *smooth.Smoother
	mix   *smooth.Smoother

	voicing   Voicing
	bassState float64
	toneLP    shape.OnePole
}

// NewOverdrive creates an overdrive at sampleRate.
func NewOverdrive(sampleRate float64, opts ...OverdriveOption) (*Overdrive, error) {
	if sampleRate <= 0 || math.IsNaN(sampleRate) || math.IsInf(sampleRate, 0) {
		return nil, fmt.Errorf("overdrive sample rate must be > 0 and finite: %f", sampleRate)
	}

	o := &Overdrive{
		sampleRate: sampleRate,
		drive:      smooth.MustNew(smooth.DefaultSmoothingMs, sampleRate, 0.5),
		tone:       smooth.MustNew(smooth.DefaultSmoothingMs, sampleRate, 0.7),
		bass:       smooth.MustNew(smooth.DefaultSmoothingMs, sampleRate, 0.5),
		level:      smooth.MustNew(smooth.DefaultSmoothingMs, sampleRate, 0.8),
		mix:        smooth.MustNew(smooth.DefaultSmoothingMs, sampleRate, 1.0),
		voicing:    VoicingNeutral,
	}

	for _, opt := range opts {
		if opt == nil {
			continue
		}
		if err := opt(o); err != nil {
			return nil, err
		}
	}

	return o, nil
}

// UpdateFromControls sets parameter targets from a control snapshot.
func (o *Overdrive) UpdateFromControls(s control.Snapshot) {
	o.drive.SetTarget(s.Knob(control.Knob1))
	o.tone.SetTarget(s.Knob(control.Knob2))
	o.bass.SetTarget(s.Knob(control.Knob3))
	o.level.SetTarget(s.Knob(control.Knob4))
	o.mix.SetTarget(s.Knob(control.Knob6))
	o.voicing = control.Select(s.Toggle(control.Toggle1), o.voicing,
		VoicingWarm, VoicingNeutral, VoicingBright)
}

// ApplyControls is UpdateFromControls followed by jumping every parameter
// straight to its target.
func (o *Overdrive) ApplyControls(s control.Snapshot) {
	o.UpdateFromControls(s)
	smooth.SnapAll(o.drive, o.tone, o.bass, o.level, o.mix)
}

// LEDState returns a constant full brightness while the effect is engaged.
func (o *Overdrive) LEDState() float64 { return 1 }

// ProcessSample processes one sample.
func (o *Overdrive) ProcessSample(input float64) float64 {
	drive := o.drive.Process()
	tone := o.tone.Process()
	bass := o.bass.Process()
	level := o.level.Process()
	mix := o.mix.Process()

	o.bassState = o.bassState*(1-bassShelfCoeff) + input*bassShelfCoeff
	x := input + o.bassState*(bass-0.5)*2

	driven := shape.SoftClip(x * (1 + drive*(overdriveMaxDrive-1)))

	base := o.voicing.toneBase()
	toned := o.toneLP.Process(driven, base+tone*(1-base)*toneCoefficientUse)

	return (input*(1-mix) + toned*mix) * level
}

// ProcessInPlace applies the overdrive to buf in place.
func (o *Overdrive) ProcessInPlace(buf []float64) {
	for i := range buf {
		buf[i] = o.ProcessSample(buf[i])
	}
}

// Reset clears filter state. Parameter smoothers keep their values.
func (o *Overdrive) Reset() {
	o.bassState = 0
	o.toneLP.Reset()
}

// SampleRate returns sample rate in Hz.
func (o *Overdrive) SampleRate() float64 { return o.sampleRate }

// Voicing returns the active voicing.
func (o *Overdrive) Voicing() Voicing { return o.voicing }
