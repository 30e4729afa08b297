package main

import (
	"strings"

	"github.com/cwbudde/algo-pedal/dsp/control"
)

// knobStep is how far one key press moves a knob.
const knobStep = 0.05

// Keys raising and lowering knobs 1 to 6, and cycling toggles 1 to 3.
const (
	knobUpKeys   = "qwerty"
	knobDownKeys = "asdfgh"
	toggleKeys   = "zxc"
)

type keyAction int

const (
	keyNone keyAction = iota
	keyQuit
	keyFootswitch1
	keyFootswitch2
	keyNextEffect
	keyPrevEffect
)

// handleKey applies knob and toggle keys to port directly and returns the
// action for everything else.
func handleKey(b byte, port *control.StaticPort) keyAction {
	if i := strings.IndexByte(knobUpKeys, b); i >= 0 {
		port.NudgeKnob(control.Knob(i), knobStep)
		return keyNone
	}
	if i := strings.IndexByte(knobDownKeys, b); i >= 0 {
		port.NudgeKnob(control.Knob(i), -knobStep)
		return keyNone
	}
	if i := strings.IndexByte(toggleKeys, b); i >= 0 {
		port.CycleToggle(control.Toggle(i))
		return keyNone
	}

	switch b {
	case ' ':
		return keyFootswitch1
	case 'v':
		return keyFootswitch2
	case 'n':
		return keyNextEffect
	case 'p':
		return keyPrevEffect
	case 3, 27: // Ctrl-C, Esc
		return keyQuit
	default:
		return keyNone
	}
}

const keyHelp = `keys:
  q w e r t y   knob 1-6 up
  a s d f g h   knob 1-6 down
  z x c         cycle toggle 1-3
  space         footswitch 1 (bypass)
  v             footswitch 2
  n / p         next / previous effect
  esc           quit
`
