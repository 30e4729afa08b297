package control

import "sync"

// Port is the raw hardware surface. Implementations return knob readings in
// [0, 1], toggle positions and the held state of each footswitch.
type Port interface {
	Knob(k Knob) float64
	Toggle(t Toggle) Position
	Footswitch(f Footswitch) bool
}

// LEDWriter receives LED brightness from the slow LED loop.
type LEDWriter interface {
	WriteLEDs(leds LEDs)
}

// LEDWriterFunc adapts a function to LEDWriter.
type LEDWriterFunc func(leds LEDs)

// WriteLEDs calls f(leds).
func (f LEDWriterFunc) WriteLEDs(leds LEDs) { f(leds) }

// Reader turns successive Port readings into snapshots and tracks the
// previous footswitch state for edge detection.
type Reader struct {
	last [NumFootswitches]bool
}

// Read samples every control of port. A footswitch edge is reported only on
// the first read after it goes from released to pressed.
func (r *Reader) Read(port Port) Snapshot {
	s := Snapshot{read: true}
	for i := range s.Knobs {
		s.Knobs[i] = port.Knob(Knob(i))
	}
	for i := range s.Toggles {
		s.Toggles[i] = port.Toggle(Toggle(i))
	}
	for i := range s.Pressed {
		pressed := port.Footswitch(Footswitch(i))
		s.Pressed[i] = pressed
		s.RisingEdges[i] = pressed && !r.last[i]
		r.last[i] = pressed
	}
	return s.Sanitize()
}

// Reset forgets the previous footswitch state.
func (r *Reader) Reset() {
	r.last = [NumFootswitches]bool{}
}

// StaticPort is an in-memory Port used for simulation and tests. It is safe
// for concurrent use.
type StaticPort struct {
	mu       sync.Mutex
	knobs    [NumKnobs]float64
	toggles  [NumToggles]Position
	switches [NumFootswitches]bool
}

// NewStaticPort returns a port with mid-scale knobs, Middle toggles and
// released footswitches.
func NewStaticPort() *StaticPort {
	n := Neutral()
	return &StaticPort{knobs: n.Knobs, toggles: n.Toggles}
}

// Knob implements Port.
func (p *StaticPort) Knob(k Knob) float64 {
	if k < 0 || int(k) >= NumKnobs {
		return 0.5
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.knobs[k]
}

// Toggle implements Port.
func (p *StaticPort) Toggle(t Toggle) Position {
	if t < 0 || int(t) >= NumToggles {
		return Unknown
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.toggles[t]
}

// Footswitch implements Port.
func (p *StaticPort) Footswitch(f Footswitch) bool {
	if f < 0 || int(f) >= NumFootswitches {
		return false
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.switches[f]
}

// SetKnob stores a knob value clamped to [0, 1].
func (p *StaticPort) SetKnob(k Knob, v float64) {
	if k < 0 || int(k) >= NumKnobs {
		return
	}
	if v < 0 {
		v = 0
	} else if v > 1 {
		v = 1
	}
	p.mu.Lock()
	p.knobs[k] = v
	p.mu.Unlock()
}

// NudgeKnob adds delta to a knob and returns the clamped result.
func (p *StaticPort) NudgeKnob(k Knob, delta float64) float64 {
	if k < 0 || int(k) >= NumKnobs {
		return 0.5
	}
	p.mu.Lock()
	v := p.knobs[k] + delta
	if v < 0 {
		v = 0
	} else if v > 1 {
		v = 1
	}
	p.knobs[k] = v
	p.mu.Unlock()
	return v
}

// SetToggle stores a toggle position.
func (p *StaticPort) SetToggle(t Toggle, pos Position) {
	if t < 0 || int(t) >= NumToggles {
		return
	}
	p.mu.Lock()
	p.toggles[t] = pos
	p.mu.Unlock()
}

// CycleToggle moves a toggle Up -> Middle -> Down -> Up and returns the new position.
func (p *StaticPort) CycleToggle(t Toggle) Position {
	if t < 0 || int(t) >= NumToggles {
		return Unknown
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	next := Up
	switch p.toggles[t] {
	case Up:
		next = Middle
	case Middle:
		next = Down
	}
	p.toggles[t] = next
	return next
}

// SetFootswitch stores the held state of a footswitch.
func (p *StaticPort) SetFootswitch(f Footswitch, pressed bool) {
	if f < 0 || int(f) >= NumFootswitches {
		return
	}
	p.mu.Lock()
	p.switches[f] = pressed
	p.mu.Unlock()
}
