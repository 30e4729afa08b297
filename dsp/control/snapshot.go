package control

import (
	"fmt"
	"math"
	"strings"
)

// Control counts on the Hothouse board.
const (
	NumKnobs        = 6
	NumToggles      = 3
	NumFootswitches = 2
	NumLEDs         = 2
)

// Knob identifies one of the six potentiometers.
type Knob int

const (
	Knob1 Knob = iota
	Knob2
	Knob3
	Knob4
	Knob5
	Knob6
)

// Toggle identifies one of the three 3-way toggle switches.
type Toggle int

const (
	Toggle1 Toggle = iota
	Toggle2
	Toggle3
)

// Footswitch identifies one of the two momentary footswitches.
type Footswitch int

const (
	Footswitch1 Footswitch = iota
	Footswitch2
)

// LED identifies one of the two status LEDs.
type LED int

const (
	LED1 LED = iota
	LED2
)

// Position is the state of a 3-way toggle.
type Position int

const (
	Up Position = iota
	Middle
	Down
	Unknown
)

func (p Position) String() string {
	switch p {
	case Up:
		return "up"
	case Middle:
		return "middle"
	case Down:
		return "down"
	default:
		return "unknown"
	}
}

// ParsePosition parses "up", "middle" or "down", ignoring case.
func ParsePosition(s string) (Position, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "up", "u":
		return Up, nil
	case "middle", "mid", "m":
		return Middle, nil
	case "down", "d":
		return Down, nil
	default:
		return Unknown, fmt.Errorf("unknown toggle position: %q", s)
	}
}

// Valid reports whether p is one of Up, Middle or Down.
func (p Position) Valid() bool {
	return p == Up || p == Middle || p == Down
}

// Snapshot is one reading of every control.
//
// The zero value means "no reading" and sanitizes to Neutral. Build snapshots
// from Neutral or a Reader and adjust the fields from there.
type Snapshot struct {
	Knobs       [NumKnobs]float64
	Toggles     [NumToggles]Position
	RisingEdges [NumFootswitches]bool
	Pressed     [NumFootswitches]bool

	read bool
}

// Neutral returns mid-scale knobs, Middle toggles and released footswitches.
func Neutral() Snapshot {
	s := Snapshot{read: true}
	for i := range s.Knobs {
		s.Knobs[i] = 0.5
	}
	for i := range s.Toggles {
		s.Toggles[i] = Middle
	}
	return s
}

// IsZero reports whether s is the zero Snapshot rather than a reading.
func (s Snapshot) IsZero() bool { return !s.read }

// Sanitize returns a copy of s with knobs clamped to [0, 1]. NaN knobs fall
// back to 0.5 and out-of-range toggle values become Unknown. The zero
// Snapshot sanitizes to Neutral.
func (s Snapshot) Sanitize() Snapshot {
	if !s.read {
		return Neutral()
	}
	for i, v := range s.Knobs {
		switch {
		case math.IsNaN(v):
			s.Knobs[i] = 0.5
		case v < 0:
			s.Knobs[i] = 0
		case v > 1:
			s.Knobs[i] = 1
		}
	}
	for i, p := range s.Toggles {
		if !p.Valid() {
			s.Toggles[i] = Unknown
		}
	}
	return s
}

// Knob returns the reading of knob k, or 0.5 for an invalid identifier.
func (s Snapshot) Knob(k Knob) float64 {
	if k < 0 || int(k) >= NumKnobs {
		return 0.5
	}
	return s.Knobs[k]
}

// Toggle returns the position of toggle t, or Unknown for an invalid identifier.
func (s Snapshot) Toggle(t Toggle) Position {
	if t < 0 || int(t) >= NumToggles {
		return Unknown
	}
	return s.Toggles[t]
}

// RisingEdge reports whether footswitch f was pressed since the previous read.
func (s Snapshot) RisingEdge(f Footswitch) bool {
	if f < 0 || int(f) >= NumFootswitches {
		return false
	}
	return s.RisingEdges[f]
}

// IsPressed reports whether footswitch f is currently held.
func (s Snapshot) IsPressed(f Footswitch) bool {
	if f < 0 || int(f) >= NumFootswitches {
		return false
	}
	return s.Pressed[f]
}

// LEDs holds brightness values for both LEDs.
type LEDs [NumLEDs]float64

// Set stores brightness for led, clamped to [0, 1]. NaN turns the LED off.
func (l *LEDs) Set(led LED, brightness float64) {
	if led < 0 || int(led) >= NumLEDs {
		return
	}
	switch {
	case math.IsNaN(brightness), brightness < 0:
		brightness = 0
	case brightness > 1:
		brightness = 1
	}
	l[led] = brightness
}

// Get returns the brightness of led, or 0 for an invalid identifier.
func (l LEDs) Get(led LED) float64 {
	if led < 0 || int(led) >= NumLEDs {
		return 0
	}
	return l[led]
}

// Select maps a toggle position onto one of three choices. Unknown keeps
// current, so a switch read mid-travel does not change the mode.
func Select[T any](p Position, current, up, middle, down T) T {
	switch p {
	case Up:
		return up
	case Middle:
		return middle
	case Down:
		return down
	default:
		return current
	}
}
