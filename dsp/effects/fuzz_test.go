package effects

import (
	"math"
	"testing"

	"github.com/cwbudde/algo-pedal/dsp/control"
	"github.com/cwbudde/algo-pedal/internal/testutil"
)

func TestFuzzGate(t *testing.T) {
	f, err := NewFuzz(testSampleRate)
	if err != nil {
		t.Fatal(err)
	}
	// Full gate (threshold 0.1), dry only, unity level.
	f.ApplyControls(testutil.Controls([6]float64{0.5, 0.5, 1, 1, 0.5, 0}, control.Middle))

	tests := []struct {
		in   float64
		want float64
	}{
		{in: 0.05, want: 0},
		{in: -0.099, want: 0},
		{in: 0.5, want: 0.5 * fuzzOutputScaling},
		{in: -0.2, want: -0.2 * fuzzOutputScaling},
	}
	for _, tt := range tests {
		if got := f.ProcessSample(tt.in); math.Abs(got-tt.want) > 1e-12 {
			t.Fatalf("ProcessSample(%v) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestFuzzClipCurves(t *testing.T) {
	tests := []struct {
		name string
		fn   func(float64) float64
		in   float64
		want float64
	}{
		{name: "vintage linear", fn: vintageClip, in: 0.3, want: 0.3},
		{name: "vintage positive knee", fn: vintageClip, in: 1.5, want: 0.6},
		{name: "vintage negative knee", fn: vintageClip, in: -1.6, want: -0.75},
		{name: "octave small", fn: octaveClip, in: 0.2, want: 0.2},
		{name: "octave large", fn: octaveClip, in: 2, want: 1.25},
		{name: "octave negative", fn: octaveClip, in: -2, want: -1.25},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.fn(tt.in); math.Abs(got-tt.want) > 1e-12 {
				t.Fatalf("got %v, want %v", got, tt.want)
			}
		})
	}
}

func TestFuzzCharacterFromToggle(t *testing.T) {
	f, _ := NewFuzz(testSampleRate, WithFuzzCharacter(FuzzOctave))
	if f.Character() != FuzzOctave {
		t.Fatalf("Character() = %v, want octave", f.Character())
	}

	f.UpdateFromControls(testutil.Controls([6]float64{}, control.Middle))
	if f.Character() != FuzzModern {
		t.Fatalf("Character() = %v, want modern", f.Character())
	}

	f.UpdateFromControls(testutil.Controls([6]float64{}, control.Unknown))
	if f.Character() != FuzzModern {
		t.Fatalf("Unknown toggle changed character to %v", f.Character())
	}
}
