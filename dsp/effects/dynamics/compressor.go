package dynamics

import (
	"fmt"
	"math"

	"github.com/cwbudde/algo-pedal/dsp/control"
	"github.com/cwbudde/algo-pedal/dsp/core"
	"github.com/cwbudde/algo-pedal/dsp/smooth"
)

const (
	minThreshold   = 0.01
	thresholdRange = 0.99
	minRatio       = 1.0
	ratioRange     = 19.0
	minAttack      = 0.5
	attackRange    = 0.49
	minRelease     = 0.9
	releaseRange   = 0.099
	minMakeup      = 1.0
	makeupRange    = 9.0

	// ledFullScaleDB is the gain reduction that dims the LED to its floor.
	ledFullScaleDB = 20.0
	ledDimming     = 0.8
)

// CompressorMetrics holds metering information for visualization and analysis.
type CompressorMetrics struct {
	InputPeak     float64 // Maximum input level since last reset
	OutputPeak    float64 // Maximum output level since last reset
	GainReduction float64 // Largest gain reduction in dB since last reset
}

// CompressorOption mutates construction-time parameters.
type CompressorOption func(*Compressor) error

// WithKnee sets the initial knee.
func WithKnee(k Knee) CompressorOption {
	return func(c *Compressor) error {
		if k < KneeHard || k > KneeSoft {
			return fmt.Errorf("compressor knee is invalid: %d", k)
		}
		c.knee = k
		return nil
	}
}

// Compressor is a feed-forward peak compressor.
//
// The envelope follows the rectified input with per-sample one-pole
// coefficients: the attack coefficient while the input is above the
// envelope, the release coefficient otherwise. Coefficients are retention
// factors, so values nearer 1 are slower.
//
// Controls: knob 1 threshold (0.01..1 linear), knob 2 ratio (1..20), knob 3
// attack coefficient (0.5..0.99), knob 4 release coefficient (0.9..0.999),
// knob 5 makeup (1..10x), knob 6 mix, toggle 1 knee (up hard, middle 6 dB,
// down 12 dB).
type Compressor struct {
	sampleRate float64

	threshold *smooth.Smoother
	ratio     *smooth.Smoother
	attack    *smooth.Smoother
	release   *smooth.Smoother
	makeup    *smooth.Smoother
	mix       *smooth.Smoother

	knee            Knee
	envelope        float64
	gainReductionDB float64

	metrics CompressorMetrics
}

// NewCompressor creates a compressor at sampleRate.
func NewCompressor(sampleRate float64, opts ...CompressorOption) (*Compressor, error) {
	if sampleRate <= 0 || math.IsNaN(sampleRate) || math.IsInf(sampleRate, 0) {
		return nil, fmt.Errorf("compressor sample rate must be positive and finite: %f", sampleRate)
	}

	c := &Compressor{
		sampleRate: sampleRate,
		threshold:  smooth.MustNew(smooth.DefaultSmoothingMs, sampleRate, 0.5),
		ratio:      smooth.MustNew(smooth.DefaultSmoothingMs, sampleRate, 0.25),
		attack:     smooth.MustNew(smooth.DefaultSmoothingMs, sampleRate, 0.3),
		release:    smooth.MustNew(smooth.DefaultSmoothingMs, sampleRate, 0.5),
		makeup:     smooth.MustNew(smooth.DefaultSmoothingMs, sampleRate, 0.5),
		mix:        smooth.MustNew(smooth.DefaultSmoothingMs, sampleRate, 1.0),
		knee:       KneeHard,
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
func (c *Compressor) UpdateFromControls(s control.Snapshot) {
	c.threshold.SetTarget(minThreshold + s.Knob(control.Knob1)*thresholdRange)
	c.ratio.SetTarget(minRatio + s.Knob(control.Knob2)*ratioRange)
	c.attack.SetTarget(minAttack + s.Knob(control.Knob3)*attackRange)
	c.release.SetTarget(minRelease + s.Knob(control.Knob4)*releaseRange)
	c.makeup.SetTarget(minMakeup + s.Knob(control.Knob5)*makeupRange)
	c.mix.SetTarget(s.Knob(control.Knob6))
	c.knee = control.Select(s.Toggle(control.Toggle1), c.knee,
		KneeHard, KneeMedium, KneeSoft)
}

// ApplyControls is UpdateFromControls followed by jumping every parameter
// straight to its target.
func (c *Compressor) ApplyControls(s control.Snapshot) {
	c.UpdateFromControls(s)
	smooth.SnapAll(c.threshold, c.ratio, c.attack, c.release, c.makeup, c.mix)
}

// LEDState dims from 1 toward 0.2 as gain reduction approaches 20 dB.
func (c *Compressor) LEDState() float64 {
	return 1 - core.Clamp(c.gainReductionDB/ledFullScaleDB, 0, 1)*ledDimming
}

// ProcessSample processes one sample.
func (c *Compressor) ProcessSample(input float64) float64 {
	threshold := c.threshold.Process()
	ratio := c.ratio.Process()
	attack := c.attack.Process()
	release := c.release.Process()
	makeup := c.makeup.Process()
	mix := c.mix.Process()

	level := math.Abs(input)
	coeff := release
	if level > c.envelope {
		coeff = attack
	}
	c.envelope = core.FlushDenormals(coeff*c.envelope + (1-coeff)*level)

	gainDB := GainDB(toDB(c.envelope), toDB(threshold), ratio, c.knee.WidthDB())
	c.gainReductionDB = -gainDB

	compressed := core.ClampSample(input * fromDB(gainDB) * makeup)
	output := input*(1-mix) + compressed*mix

	c.updateMetrics(level, math.Abs(output))

	return output
}

// ProcessInPlace applies compression to buf in place.
func (c *Compressor) ProcessInPlace(buf []float64) {
	for i := range buf {
		buf[i] = c.ProcessSample(buf[i])
	}
}

// CalculateOutputLevel computes the steady-state output level for a given
// input magnitude at the current parameter values, before mixing.
// This allows visualizing the compression curve.
func (c *Compressor) CalculateOutputLevel(inputMagnitude float64) float64 {
	inputMagnitude = math.Abs(inputMagnitude)
	gainDB := GainDB(toDB(inputMagnitude), toDB(c.threshold.Value()), c.ratio.Value(), c.knee.WidthDB())
	return math.Min(inputMagnitude*fromDB(gainDB)*c.makeup.Value(), 1)
}

// Reset clears the envelope, gain reduction and metrics.
func (c *Compressor) Reset() {
	c.envelope = 0
	c.gainReductionDB = 0
	c.ResetMetrics()
}

// GetMetrics returns current metering values.
func (c *Compressor) GetMetrics() CompressorMetrics {
	return c.metrics
}

// ResetMetrics clears metering state.
func (c *Compressor) ResetMetrics() {
	c.metrics = CompressorMetrics{}
}

// Envelope returns the envelope follower level.
func (c *Compressor) Envelope() float64 { return c.envelope }

// GainReductionDB returns the gain reduction applied to the last sample, in
// dB, as a non-negative number.
func (c *Compressor) GainReductionDB() float64 { return c.gainReductionDB }

// Knee returns the active knee.
func (c *Compressor) Knee() Knee { return c.knee }

// SampleRate returns sample rate in Hz.
func (c *Compressor) SampleRate() float64 { return c.sampleRate }

func (c *Compressor) updateMetrics(inputLevel, outputLevel float64) {
	if inputLevel > c.metrics.InputPeak {
		c.metrics.InputPeak = inputLevel
	}
	if outputLevel > c.metrics.OutputPeak {
		c.metrics.OutputPeak = outputLevel
	}
	if c.gainReductionDB > c.metrics.GainReduction {
		c.metrics.GainReduction = c.gainReductionDB
	}
}
