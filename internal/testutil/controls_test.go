package testutil

import (
	"testing"

	"github.com/cwbudde/algo-pedal/dsp/control"
)

func TestControls(t *testing.T) {
	s := Controls([control.NumKnobs]float64{0, 0.1, 0.2, 0.3, 0.4, 1}, control.Down)
	if s.Knob(control.Knob2) != 0.1 || s.Knob(control.Knob6) != 1 {
		t.Fatalf("knobs = %v", s.Knobs)
	}
	if s.Toggle(control.Toggle1) != control.Down {
		t.Fatalf("toggle 1 = %v, want down", s.Toggle(control.Toggle1))
	}
	if s.Toggle(control.Toggle2) != control.Middle {
		t.Fatalf("toggle 2 = %v, want middle", s.Toggle(control.Toggle2))
	}
	if s.RisingEdge(control.Footswitch1) || s.IsPressed(control.Footswitch1) {
		t.Fatal("footswitch 1 should be released")
	}
}

func TestPressed(t *testing.T) {
	s := Pressed(control.Footswitch2)
	if !s.RisingEdge(control.Footswitch2) || !s.IsPressed(control.Footswitch2) {
		t.Fatal("footswitch 2 should be pressed with a rising edge")
	}
	if s.RisingEdge(control.Footswitch1) {
		t.Fatal("footswitch 1 should have no edge")
	}
}
