package effects

import (
	"math"
	"testing"

	"github.com/cwbudde/algo-pedal/dsp/control"
	"github.com/cwbudde/algo-pedal/dsp/effects/internal/shape"
	"github.com/cwbudde/algo-pedal/internal/testutil"
)

func TestOverdriveVoicingFromToggle(t *testing.T) {
	o, err := NewOverdrive(testSampleRate)
	if err != nil {
		t.Fatal(err)
	}
	if o.Voicing() != VoicingNeutral {
		t.Fatalf("initial voicing = %v, want neutral", o.Voicing())
	}

	tests := []struct {
		pos  control.Position
		want Voicing
	}{
		{control.Up, VoicingWarm},
		{control.Down, VoicingBright},
		{control.Unknown, VoicingBright},
		{control.Middle, VoicingNeutral},
	}
	for _, tt := range tests {
		o.UpdateFromControls(testutil.Controls([6]float64{0.5, 0.5, 0.5, 0.5, 0.5, 0.5}, tt.pos))
		if o.Voicing() != tt.want {
			t.Fatalf("toggle %v: voicing = %v, want %v", tt.pos, o.Voicing(), tt.want)
		}
	}
}

func TestOverdriveDryMixIsTransparent(t *testing.T) {
	o, err := NewOverdrive(testSampleRate)
	if err != nil {
		t.Fatal(err)
	}
	o.ApplyControls(testutil.Controls([6]float64{1, 0.3, 1, 1, 0.5, 0}, control.Up))

	in := testutil.DeterministicSine(440, testSampleRate, 0.7, 1024)
	out := append([]float64(nil), in...)
	o.ProcessInPlace(out)
	testutil.RequireSliceNearlyEqual(t, out, in, 0)
}

func TestOverdriveWetOutputIsBounded(t *testing.T) {
	o, err := NewOverdrive(testSampleRate)
	if err != nil {
		t.Fatal(err)
	}
	// Bass centred so the clipper input is the raw signal.
	o.ApplyControls(testutil.Controls([6]float64{1, 1, 0.5, 1, 0.5, 1}, control.Down))

	buf := testutil.DeterministicSine(220, testSampleRate, 1, 4800)
	o.ProcessInPlace(buf)
	testutil.RequireBounded(t, buf, shape.SoftClipPeak+1e-12)
}

func TestOverdriveLevelScalesOutput(t *testing.T) {
	full, _ := NewOverdrive(testSampleRate)
	half, _ := NewOverdrive(testSampleRate)
	full.ApplyControls(testutil.Controls([6]float64{0.4, 0.6, 0.5, 1, 0.5, 1}, control.Middle))
	half.ApplyControls(testutil.Controls([6]float64{0.4, 0.6, 0.5, 0.5, 0.5, 1}, control.Middle))

	in := testutil.DeterministicNoise(9, 0.3, 256)
	for i, x := range in {
		a := full.ProcessSample(x)
		b := half.ProcessSample(x)
		if math.Abs(b-0.5*a) > 1e-12 {
			t.Fatalf("sample %d: half level %v, want %v", i, b, 0.5*a)
		}
	}
}
