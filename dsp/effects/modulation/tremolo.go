package modulation

import (
	"fmt"
	"math"

	"github.com/cwbudde/algo-pedal/dsp/control"
	"github.com/cwbudde/algo-pedal/dsp/core"
	"github.com/cwbudde/algo-pedal/dsp/effects/internal/shape"
	"github.com/cwbudde/algo-pedal/dsp/smooth"
)

const (
	tremoloMinRateHz   = 0.5
	tremoloRateRangeHz = 19.5
	optoFallCoeff      = 0.99
	optoRiseCoeff      = 0.995
)

// TremoloMode selects how the LFO maps onto gain.
type TremoloMode int

const (
	// TremoloClassic swings gain between 1 and 1-depth following the LFO.
	TremoloClassic TremoloMode = iota
	// TremoloHarmonic uses the same attenuate-only curve as TremoloClassic.
	// Gain is clamped to [0, 1], so neither mode boosts above unity.
	TremoloHarmonic
	// TremoloOpto lags the gain like a lamp and photocell: dips are followed
	// faster than recoveries.
	TremoloOpto
)

func (m TremoloMode) String() string {
	switch m {
	case TremoloClassic:
		return "classic"
	case TremoloHarmonic:
		return "harmonic"
	case TremoloOpto:
		return "opto"
	default:
		return "unknown"
	}
}

// TremoloOption mutates construction-time parameters.
type TremoloOption func(*Tremolo) error

// WithTremoloMode sets the initial response mode.
func WithTremoloMode(m TremoloMode) TremoloOption {
	return func(t *Tremolo) error {
		if m < TremoloClassic || m > TremoloOpto {
			return fmt.Errorf("tremolo mode is invalid: %d", m)
		}
		t.mode = m
		return nil
	}
}

// Tremolo modulates amplitude with an LFO that morphs from sine (shape 0)
// through triangle (0.5) to square (1).
//
// Controls: knob 1 rate (0.5..20 Hz), knob 2 depth, knob 3 shape, knob 4
// level, knob 6 mix, toggle 1 mode (up classic, middle harmonic, down opto).
type Tremolo struct {
	sampleRate float64

	rate  *smooth.Smoother
	depth *smooth.Smoother
	shape *smooth.Smoother
	level *smooth.Smoother
	mix   *smooth.Smoother

	mode      TremoloMode
	phase     shape.Phase
	optoState float64
}

// NewTremolo creates a tremolo at sampleRate.
func NewTremolo(sampleRate float64, opts ...TremoloOption) (*Tremolo, error) {
	if sampleRate <= 0 || math.IsNaN(sampleRate) || math.IsInf(sampleRate, 0) {
		return nil, fmt.Errorf("tremolo sample rate must be > 0 and finite: %f", sampleRate)
	}

	t := &Tremolo{
		sampleRate: sampleRate,
		rate:       smooth.MustNew(smooth.DefaultSmoothingMs, sampleRate, 0.3),
		depth:      smooth.MustNew(smooth.DefaultSmoothingMs, sampleRate, 0.5),
		shape:      smooth.MustNew(smooth.DefaultSmoothingMs, sampleRate, 0),
		level:      smooth.MustNew(smooth.DefaultSmoothingMs, sampleRate, 1.0),
		mix:        smooth.MustNew(smooth.DefaultSmoothingMs, sampleRate, 1.0),
		mode:       TremoloClassic,
		optoState:  1,
	}

	for _, opt := range opts {
		if opt == nil {
			continue
		}
		if err := opt(t); err != nil {
			return nil, err
		}
	}

	return t, nil
}

// UpdateFromControls sets parameter targets from a control snapshot.
func (t *Tremolo) UpdateFromControls(s control.Snapshot) {
	t.rate.SetTarget(tremoloMinRateHz + s.Knob(control.Knob1)*tremoloRateRangeHz)
	t.depth.SetTarget(s.Knob(control.Knob2))
	t.shape.SetTarget(s.Knob(control.Knob3))
	t.level.SetTarget(s.Knob(control.Knob4))
	t.mix.SetTarget(s.Knob(control.Knob6))
	t.mode = control.Select(s.Toggle(control.Toggle1), t.mode,
		TremoloClassic, TremoloHarmonic, TremoloOpto)
}

// ApplyControls is UpdateFromControls followed by jumping every parameter
// straight to its target.
func (t *Tremolo) ApplyControls(s control.Snapshot) {
	t.UpdateFromControls(s)
	smooth.SnapAll(t.rate, t.depth, t.shape, t.level, t.mix)
}

// LEDState pulses with the LFO rate.
func (t *Tremolo) LEDState() float64 {
	return (shape.SineAt(t.phase.Value()) + 1) * 0.5
}

// ProcessSample processes one sample.
func (t *Tremolo) ProcessSample(input float64) float64 {
	rate := t.rate.Process()
	depth := t.depth.Process()
	morph := t.shape.Process()
	level := t.level.Process()
	mix := t.mix.Process()

	amp := t.amplitude(MorphLFO(t.phase.Value(), morph), depth)
	t.phase.Advance(rate, t.sampleRate)

	return (input*(1-mix) + input*amp*mix) * level
}

// ProcessInPlace applies the tremolo to buf in place.
func (t *Tremolo) ProcessInPlace(buf []float64) {
	for i := range buf {
		buf[i] = t.ProcessSample(buf[i])
	}
}

// Reset returns the LFO to phase 0 and the opto cell to unity gain.
func (t *Tremolo) Reset() {
	t.phase.Reset()
	t.optoState = 1
}

// SampleRate returns sample rate in Hz.
func (t *Tremolo) SampleRate() float64 { return t.sampleRate }

// Mode returns the active response mode.
func (t *Tremolo) Mode() TremoloMode { return t.mode }

// Phase returns the LFO phase in [0, 1).
func (t *Tremolo) Phase() float64 { return t.phase.Value() }

func (t *Tremolo) amplitude(lfo, depth float64) float64 {
	target := 1 - depth*0.5*(1+lfo)

	if t.mode == TremoloOpto {
		coeff := optoRiseCoeff
		if target < t.optoState {
			coeff = optoFallCoeff
		}
		t.optoState = t.optoState*coeff + target*(1-coeff)
		target = t.optoState
	}

	return core.Clamp(target, 0, 1)
}

// MorphLFO evaluates the tremolo LFO at phase. Shape 0 is a sine, 0.5 a
// triangle and 1 a square, with linear cross-fades in between.
func MorphLFO(phase, morph float64) float64 {
	sine := shape.SineAt(phase)
	tri := shape.TriangleAt(phase)
	if morph < 0.5 {
		t := morph * 2
		return sine*(1-t) + tri*t
	}

	t := (morph - 0.5) * 2
	return tri*(1-t) + shape.SquareAt(phase)*t
}
