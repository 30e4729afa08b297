package reverb

import (
	"fmt"
	"math"

	"github.com/cwbudde/algo-pedal/dsp/control"
	"github.com/cwbudde/algo-pedal/dsp/delay"
	"github.com/cwbudde/algo-pedal/dsp/smooth"
)

const (
	// MaxFeedback caps the comb loop gain. At 1 or above the network diverges.
	MaxFeedback = 0.95

	preDelaySeconds = 0.1
	baseFeedback    = 0.5
	sizeFeedback    = 0.35
)

// Room selects the size multiplier applied to the size knob.
type Room int

const (
	RoomSmall Room = iota
	RoomMedium
	RoomHall
)

func (r Room) String() string {
	switch r {
	case RoomSmall:
		return "small"
	case RoomMedium:
		return "medium"
	case RoomHall:
		return "hall"
	default:
		return "unknown"
	}
}

// Multiplier returns the factor applied to the size knob.
func (r Room) Multiplier() float64 {
	switch r {
	case RoomSmall:
		return 0.5
	case RoomHall:
		return 1.5
	default:
		return 1
	}
}

// Option mutates construction-time parameters.
type Option func(*Reverb) error

// WithRoom sets the initial room type.
func WithRoom(room Room) Option {
	return func(r *Reverb) error {
		if room < RoomSmall || room > RoomHall {
			return fmt.Errorf("reverb room is invalid: %d", room)
		}
		r.room = room
		return nil
	}
}

// Feedback returns the comb loop gain for a size value and room,
// 0.5 + size*multiplier*0.35 capped at MaxFeedback.
func Feedback(size float64, room Room) float64 {
	return math.Min(baseFeedback+size*room.Multiplier()*sizeFeedback, MaxFeedback)
}

// Reverb is the pedal reverb effect.
//
// Controls: knob 1 size, knob 2 damping, knob 3 pre-delay (0..100 ms),
// knob 4 level, knob 6 mix, toggle 1 room (up small, middle medium, down hall).
type Reverb struct {
	sampleRate float64

	size     *smooth.Smoother
	damping  *smooth.Smoother
	preDelay *smooth.Smoother
	level    *smooth.Smoother
	mix      *smooth.Smoother

	room     Room
	feedback float64
	pre      *delay.Line
	network  *Network
}

// New creates a reverb at sampleRate.
func New(sampleRate float64, opts ...Option) (*Reverb, error) {
	if sampleRate <= 0 || math.IsNaN(sampleRate) || math.IsInf(sampleRate, 0) {
		return nil, fmt.Errorf("reverb sample rate must be > 0 and finite: %f", sampleRate)
	}

	pre, err := delay.NewSeconds(preDelaySeconds, sampleRate)
	if err != nil {
		return nil, err
	}

	r := &Reverb{
		sampleRate: sampleRate,
		size:       smooth.MustNew(smooth.DefaultSmoothingMs, sampleRate, 0.5),
		damping:    smooth.MustNew(smooth.DefaultSmoothingMs, sampleRate, 0.5),
		preDelay:   smooth.MustNew(smooth.DefaultSmoothingMs, sampleRate, 0),
		level:      smooth.MustNew(smooth.DefaultSmoothingMs, sampleRate, 1.0),
		mix:        smooth.MustNew(smooth.DefaultSmoothingMs, sampleRate, 0.3),
		room:       RoomMedium,
		feedback:   defaultCombFeedback,
		pre:        pre,
		network:    NewNetwork(sampleRate),
	}

	for _, opt := range opts {
		if opt == nil {
			continue
		}
		if err := opt(r); err != nil {
			return nil, err
		}
	}

	return r, nil
}

// UpdateFromControls sets parameter targets from a control snapshot.
func (r *Reverb) UpdateFromControls(s control.Snapshot) {
	r.size.SetTarget(s.Knob(control.Knob1))
	r.damping.SetTarget(s.Knob(control.Knob2))
	r.preDelay.SetTarget(s.Knob(control.Knob3))
	r.level.SetTarget(s.Knob(control.Knob4))
	r.mix.SetTarget(s.Knob(control.Knob6))
	r.room = control.Select(s.Toggle(control.Toggle1), r.room,
		RoomSmall, RoomMedium, RoomHall)
}

// ApplyControls is UpdateFromControls followed by jumping every parameter
// straight to its target.
func (r *Reverb) ApplyControls(s control.Snapshot) {
	r.UpdateFromControls(s)
	smooth.SnapAll(r.size, r.damping, r.preDelay, r.level, r.mix)
}

// LEDState returns a constant full brightness while the effect is engaged.
func (r *Reverb) LEDState() float64 { return 1 }

// ProcessSample processes one sample.
func (r *Reverb) ProcessSample(input float64) float64 {
	size := r.size.Process()
	damping := r.damping.Process()
	preDelay := r.preDelay.Process()
	level := r.level.Process()
	mix := r.mix.Process()

	r.feedback = Feedback(size, r.room)
	r.network.SetFeedback(r.feedback)
	r.network.SetDamping(damping)

	delayed := r.pre.Process(input, int(preDelay*float64(r.pre.Len())))
	wet := r.network.Process(delayed)

	return input*(1-mix) + wet*level*mix
}

// ProcessInPlace applies the reverb to buf in place.
func (r *Reverb) ProcessInPlace(buf []float64) {
	for i := range buf {
		buf[i] = r.ProcessSample(buf[i])
	}
}

// Reset clears the pre-delay and the comb/allpass network.
func (r *Reverb) Reset() {
	r.pre.Reset()
	r.network.Reset()
}

// SampleRate returns sample rate in Hz.
func (r *Reverb) SampleRate() float64 { return r.sampleRate }

// Room returns the active room type.
func (r *Reverb) Room() Room { return r.room }

// CombFeedback returns the comb loop gain used for the last sample.
func (r *Reverb) CombFeedback() float64 { return r.feedback }

// TailLength returns the longest internal buffer in samples.
func (r *Reverb) TailLength() int {
	return max(r.pre.Len(), r.network.LongestComb())
}
