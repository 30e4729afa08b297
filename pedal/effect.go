package pedal

import (
	"sync/atomic"

	"github.com/cwbudde/algo-pedal/dsp/control"
)

// Effect is the capability set shared by every pedal effect.
//
// ProcessSample and ProcessInPlace run on the audio path and must not
// allocate or block. UpdateFromControls only moves parameter targets and
// mode selectors. LEDState is read from the slow LED loop and returns a
// brightness in [0, 1].
type Effect interface {
	UpdateFromControls(s control.Snapshot)
	ProcessSample(input float64) float64
	ProcessInPlace(buf []float64)
	Reset()
	LEDState() float64
}

// ControlApplier is implemented by effects whose parameters can jump
// straight to the targets of a snapshot instead of gliding there.
type ControlApplier interface {
	ApplyControls(s control.Snapshot)
}

type installed struct {
	kind   string
	effect Effect
}

// Slot holds at most one effect. Loads and stores are atomic, so wiring code
// may swap the effect while the audio goroutine reads it.
type Slot struct {
	p atomic.Pointer[installed]
}

// Load returns the installed effect, or nil.
func (s *Slot) Load() Effect {
	if in := s.p.Load(); in != nil {
		return in.effect
	}
	return nil
}

// Kind returns the registry name of the installed effect, or "" when the
// effect was installed directly or the slot is empty.
func (s *Slot) Kind() string {
	if in := s.p.Load(); in != nil {
		return in.kind
	}
	return ""
}

// Store installs e under kind. A nil e empties the slot.
func (s *Slot) Store(kind string, e Effect) {
	if e == nil {
		s.p.Store(nil)
		return
	}
	s.p.Store(&installed{kind: kind, effect: e})
}

// Empty reports whether no effect is installed.
func (s *Slot) Empty() bool {
	return s.p.Load() == nil
}
