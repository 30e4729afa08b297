// Package smooth provides a one-pole parameter smoother used to glide control
// values between audio-rate updates without zipper noise.
package smooth

import (
	"fmt"
	"math"
)

// DefaultSmoothingMs is the smoothing time used by the pedal effects.
const DefaultSmoothingMs = 20.0

// Smoother is an exponential one-pole smoother. Each Process call moves the
// current value toward the target by a fixed fraction (1 - Coefficient).
//
// The coefficient is derived from the smoothing time so that after
// smoothingMs worth of samples the remaining distance is about 1/e of the
// initial step. Values below one sample are floored to one sample, which
// makes the smoother snap to the target on the next Process call.
type Smoother struct {
	current     float64
	target      float64
	coeff       float64
	smoothingMs float64
	sampleRate  float64
}

// New returns a smoother seeded with initial as both current and target value.
func New(smoothingMs, sampleRate, initial float64) (*Smoother, error) {
	if sampleRate <= 0 || math.IsNaN(sampleRate) || math.IsInf(sampleRate, 0) {
		return nil, fmt.Errorf("smoother sample rate must be > 0 and finite: %f", sampleRate)
	}

	s := &Smoother{
		current:    initial,
		target:     initial,
		sampleRate: sampleRate,
	}
	if err := s.SetSmoothing(smoothingMs); err != nil {
		return nil, err
	}

	return s, nil
}

// MustNew is like New but panics on invalid arguments. It is intended for
// effect constructors that already validated the sample rate.
func MustNew(smoothingMs, sampleRate, initial float64) *Smoother {
	s, err := New(smoothingMs, sampleRate, initial)
	if err != nil {
		panic(err)
	}
	return s
}

// SetSmoothing changes the smoothing time in milliseconds.
func (s *Smoother) SetSmoothing(smoothingMs float64) error {
	if smoothingMs < 0 || math.IsNaN(smoothingMs) || math.IsInf(smoothingMs, 0) {
		return fmt.Errorf("smoother time must be >= 0 and finite: %f", smoothingMs)
	}

	s.smoothingMs = smoothingMs
	s.updateCoefficient()

	return nil
}

// SetSampleRate updates the sample rate and recomputes the coefficient.
func (s *Smoother) SetSampleRate(sampleRate float64) error {
	if sampleRate <= 0 || math.IsNaN(sampleRate) || math.IsInf(sampleRate, 0) {
		return fmt.Errorf("smoother sample rate must be > 0 and finite: %f", sampleRate)
	}

	s.sampleRate = sampleRate
	s.updateCoefficient()

	return nil
}

// SetTarget sets the value the smoother glides toward.
func (s *Smoother) SetTarget(target float64) {
	s.target = target
}

// SetImmediate jumps both current value and target to v.
func (s *Smoother) SetImmediate(v float64) {
	s.current = v
	s.target = v
}

// Process advances the smoother by one sample and returns the new value.
func (s *Smoother) Process() float64 {
	s.current = s.current*s.coeff + s.target*(1-s.coeff)
	return s.current
}

// Value returns the current value without advancing.
func (s *Smoother) Value() float64 { return s.current }

// Target returns the current target.
func (s *Smoother) Target() float64 { return s.target }

// SmoothingMs returns the smoothing time in milliseconds.
func (s *Smoother) SmoothingMs() float64 { return s.smoothingMs }

// Coefficient returns the per-sample retention factor in [0, 1).
func (s *Smoother) Coefficient() float64 { return s.coeff }

// Settled reports whether current is within eps of target.
func (s *Smoother) Settled(eps float64) bool {
	return math.Abs(s.current-s.target) <= eps
}

func (s *Smoother) updateCoefficient() {
	samples := s.smoothingMs * 0.001 * s.sampleRate
	s.coeff = 1 - 1/math.Max(1, samples)
}

// SnapAll jumps every smoother to its target.
func SnapAll(smoothers ...*Smoother) {
	for _, s := range smoothers {
		s.current = s.target
	}
}
