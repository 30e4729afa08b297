package testutil

import "github.com/cwbudde/algo-pedal/dsp/control"

// Controls returns a neutral snapshot with the given knob values and toggle 1
// at toggle1.
func Controls(knobs [control.NumKnobs]float64, toggle1 control.Position) control.Snapshot {
	s := control.Neutral()
	s.Knobs = knobs
	s.Toggles[control.Toggle1] = toggle1
	return s
}

// Pressed returns a neutral snapshot with footswitch f held and reporting a
// rising edge.
func Pressed(f control.Footswitch) control.Snapshot {
	s := control.Neutral()
	s.Pressed[f] = true
	s.RisingEdges[f] = true
	return s
}
