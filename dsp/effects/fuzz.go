package effects

import (
	"fmt"
	"math"

	"github.com/cwbudde/algo-pedal/dsp/control"
	"github.com/cwbudde/algo-pedal/dsp/effects/internal/shape"
	"github.com/cwbudde/algo-pedal/dsp/smooth"
)

const (
	fuzzMaxGain       = 200.0
	fuzzGateRange     = 0.1
	fuzzOutputScaling = 0.8
)

// FuzzCharacter selects the fuzz clipping curve.
type FuzzCharacter int

const (
	// FuzzVintage clips positive and negative excursions at different knees.
	FuzzVintage FuzzCharacter = iota
	// FuzzModern hard clips symmetrically at ±0.4.
	FuzzModern
	// FuzzOctave blends a rectified copy with the signal for an upper-octave edge.
	FuzzOctave
)

func (c FuzzCharacter) String() string {
	switch c {
	case FuzzVintage:
		return "vintage"
	case FuzzModern:
		return "modern"
	case FuzzOctave:
		return "octave"
	default:
		return "unknown"
	}
}

// FuzzOption mutates construction-time parameters.
type FuzzOption func(*Fuzz) error

// WithFuzzCharacter sets the initial character.
func WithFuzzCharacter(c FuzzCharacter) FuzzOption {
	return func(f *Fuzz) error {
		if c < FuzzVintage || c > FuzzOctave {
			return fmt.Errorf("fuzz character is invalid: %d", c)
		}
		f.character = c
		return nil
	}
}

// Fuzz is a gated, very high gain clipper.
//
// The gate zeroes input samples whose magnitude is below gate*0.1 before
// gain is applied; the gated input is also the dry signal.
//
// Controls: knob 1 fuzz, knob 2 tone, knob 3 gate, knob 4 level, knob 6 mix,
// toggle 1 character (up vintage, middle modern, down octave).
type Fuzz struct {
	sampleRate float64

	fuzz  *smooth.Smoother
	tone  *smooth.Smoother
	gate  *smooth.Smoother
	level *smooth.Smoother
	mix   *smooth.Smoother

	character FuzzCharacter
	dc        shape.DCBlocker
	toneLP    shape.OnePole
}

// NewFuzz creates a fuzz at sampleRate.
func NewFuzz(sampleRate float64, opts ...FuzzOption) (*Fuzz, error) {
	if sampleRate <= 0 || math.IsNaN(sampleRate) || math.IsInf(sampleRate, 0) {
		return nil, fmt.Errorf("fuzz sample rate must be > 0 and finite: %f", sampleRate)
	}

	f := &Fuzz{
		sampleRate: sampleRate,
		fuzz:       smooth.MustNew(smooth.DefaultSmoothingMs, sampleRate, 0.7),
		tone:       smooth.MustNew(smooth.DefaultSmoothingMs, sampleRate, 0.5),
		gate:       smooth.MustNew(smooth.DefaultSmoothingMs, sampleRate, 0),
		level:      smooth.MustNew(smooth.DefaultSmoothingMs, sampleRate, 0.7),
		mix:        smooth.MustNew(smooth.DefaultSmoothingMs, sampleRate, 1.0),
		character:  FuzzVintage,
	}

	for _, opt := range opts {
		if opt == nil {
			continue
		}
		if err := opt(f); err != nil {
			return nil, err
		}
	}

	return f, nil
}

// UpdateFromControls sets parameter targets from a control snapshot.
func (f *Fuzz) UpdateFromControls(s control.Snapshot) {
	f.fuzz.SetTarget(s.Knob(control.Knob1))
	f.tone.SetTarget(s.Knob(control.Knob2))
	f.gate.SetTarget(s.Knob(control.Knob3))
	f.level.SetTarget(s.Knob(control.Knob4))
	f.mix.SetTarget(s.Knob(control.Knob6))
	f.character = control.Select(s.Toggle(control.Toggle1), f.character,
		FuzzVintage, FuzzModern, FuzzOctave)
}

// ApplyControls is UpdateFromControls followed by jumping every parameter
// straight to its target.
func (f *Fuzz) ApplyControls(s control.Snapshot) {
	f.UpdateFromControls(s)
	smooth.SnapAll(f.fuzz, f.tone, f.gate, f.level, f.mix)
}

// LEDState returns a constant full brightness while the effect is engaged.
func (f *Fuzz) LEDState() float64 { return 1 }

// ProcessSample processes one sample.
func (f *Fuzz) ProcessSample(input float64) float64 {
	fuzz := f.fuzz.Process()
	tone := f.tone.Process()
	gate := f.gate.Process()
	level := f.level.Process()
	mix := f.mix.Process()

	if math.Abs(input) < gate*fuzzGateRange {
		input = 0
	}

	x := input * (1 + fuzz*(fuzzMaxGain-1))
	x = f.clip(x)
	x = f.dc.Process(x)

	toned := f.toneLP.Process(x, 0.2+tone*0.79)

	return (input*(1-mix) + toned*mix) * level * fuzzOutputScaling
}

// ProcessInPlace applies the fuzz to buf in place.
func (f *Fuzz) ProcessInPlace(buf []float64) {
	for i := range buf {
		buf[i] = f.ProcessSample(buf[i])
	}
}

// Reset clears filter state. Parameter smoothers keep their values.
func (f *Fuzz) Reset() {
	f.dc.Reset()
	f.toneLP.Reset()
}

// SampleRate returns sample rate in Hz.
func (f *Fuzz) SampleRate() float64 { return f.sampleRate }

// Character returns the active character.
func (f *Fuzz) Character() FuzzCharacter { return f.character }

func (f *Fuzz) clip(x float64) float64 {
	switch f.character {
	case FuzzVintage:
		return vintageClip(x)
	case FuzzModern:
		return shape.HardClip(x, 0.4)
	default:
		return octaveClip(x)
	}
}

func vintageClip(x float64) float64 {
	switch {
	case x > 0.5:
		return 0.5 + (x-0.5)*0.1
	case x < -0.6:
		return -0.6 + (x+0.6)*0.15
	default:
		return x
	}
}

func octaveClip(x float64) float64 {
	rect := math.Min(math.Abs(x), 0.5)
	sign := -1.0
	if x > 0 {
		sign = 1
	}
	return rect*sign*0.5 + x*0.5
}
