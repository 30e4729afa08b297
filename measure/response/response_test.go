package response

import (
	"errors"
	"math"
	"testing"

	"github.com/cwbudde/algo-pedal/dsp/control"
	"github.com/cwbudde/algo-pedal/dsp/effects/reverb"
)

type gainProcessor struct {
	gain   float64
	resets int
}

func (g *gainProcessor) ProcessSample(x float64) float64 { return x * g.gain }
func (g *gainProcessor) Reset()                          { g.resets++ }

// twoTap averages the current and previous sample.
type twoTap struct{ prev float64 }

func (t *twoTap) ProcessSample(x float64) float64 {
	y := 0.5*x + 0.5*t.prev
	t.prev = x
	return y
}

func (t *twoTap) Reset() { t.prev = 0 }

func TestImpulse(t *testing.T) {
	t.Parallel()

	g := &gainProcessor{gain: 0.5}
	ir := Impulse(g, 0.8, 4)
	want := []float64{0.4, 0, 0, 0}
	for i := range want {
		if ir[i] != want[i] {
			t.Fatalf("ir[%d]=%v, want %v", i, ir[i], want[i])
		}
	}
	if g.resets != 1 {
		t.Fatalf("resets=%d, want 1", g.resets)
	}

	if Impulse(g, 1, 0) != nil {
		t.Fatal("zero length should return nil")
	}
}

func TestSineGain(t *testing.T) {
	t.Parallel()

	got, err := SineGain(&gainProcessor{gain: 0.25}, 1000, 48000, 0.5, 4800)
	if err != nil {
		t.Fatal(err)
	}
	if math.Abs(got-0.25) > 1e-9 {
		t.Fatalf("gain=%v, want 0.25", got)
	}

	_, err = SineGain(&gainProcessor{gain: 1}, 30000, 48000, 0.5, 4800)
	if !errors.Is(err, ErrInvalidFrequency) {
		t.Fatalf("expected ErrInvalidFrequency, got %v", err)
	}

	_, err = SineGain(&gainProcessor{gain: 1}, 1000, 0, 0.5, 4800)
	if !errors.Is(err, ErrInvalidSampleRate) {
		t.Fatalf("expected ErrInvalidSampleRate, got %v", err)
	}
}

func TestSpectrum(t *testing.T) {
	t.Parallel()

	t.Run("unit impulse is flat", func(t *testing.T) {
		t.Parallel()

		s, err := NewSpectrum([]float64{1, 0, 0, 0, 0}, 48000, 0)
		if err != nil {
			t.Fatal(err)
		}
		if s.FFTSize != 8 || len(s.Magnitude) != 5 {
			t.Fatalf("FFTSize=%d bins=%d", s.FFTSize, len(s.Magnitude))
		}
		for i, m := range s.Magnitude {
			if math.Abs(m-1) > 1e-12 {
				t.Fatalf("bin %d=%v, want 1", i, m)
			}
		}
	})

	t.Run("two-tap average", func(t *testing.T) {
		t.Parallel()

		ir := Impulse(&twoTap{}, 1, 64)
		s, err := NewSpectrum(ir, 48000, 64)
		if err != nil {
			t.Fatal(err)
		}
		if math.Abs(s.At(0)-1) > 1e-12 {
			t.Fatalf("DC=%v, want 1", s.At(0))
		}
		if s.At(24000) > 1e-12 {
			t.Fatalf("Nyquist=%v, want 0", s.At(24000))
		}
		if math.Abs(s.At(12000)-math.Sqrt2/2) > 1e-12 {
			t.Fatalf("fs/4=%v, want %v", s.At(12000), math.Sqrt2/2)
		}
		if s.BinHz() != 750 {
			t.Fatalf("BinHz=%v, want 750", s.BinHz())
		}
	})

	t.Run("errors", func(t *testing.T) {
		t.Parallel()

		if _, err := NewSpectrum(nil, 48000, 0); !errors.Is(err, ErrEmpty) {
			t.Fatalf("expected ErrEmpty, got %v", err)
		}
		if _, err := NewSpectrum([]float64{1}, 0, 0); !errors.Is(err, ErrInvalidSampleRate) {
			t.Fatalf("expected ErrInvalidSampleRate, got %v", err)
		}
	})
}

func exponentialDecay(rt60, sampleRate float64, length int) []float64 {
	out := make([]float64, length)
	for i := range out {
		out[i] = math.Pow(10, -3*float64(i)/(rt60*sampleRate))
	}
	return out
}

func TestAnalyzeDecayExponential(t *testing.T) {
	t.Parallel()

	const sr = 48000.0

	for _, rt := range []float64{0.2, 0.5, 1.0} {
		ir := exponentialDecay(rt, sr, int(2*rt*sr))

		d, err := AnalyzeDecay(ir, sr)
		if err != nil {
			t.Fatal(err)
		}
		if math.Abs(d.RT60-rt)/rt > 0.02 {
			t.Fatalf("RT60=%v, want %v", d.RT60, rt)
		}
		if math.Abs(d.EDT-rt)/rt > 0.02 {
			t.Fatalf("EDT=%v, want %v", d.EDT, rt)
		}
		if d.Onset != 0 || d.Peak != 0 {
			t.Fatalf("Onset=%d Peak=%d, want 0", d.Onset, d.Peak)
		}
	}
}

func TestOnset(t *testing.T) {
	t.Parallel()

	ir := make([]float64, 100)
	ir[10] = 0.05
	ir[40] = 0.5
	ir[60] = -1

	if got := Onset(ir, DefaultOnsetRatio); got != 40 {
		t.Fatalf("Onset=%d, want 40", got)
	}
	if got := Onset(ir, 0.01); got != 10 {
		t.Fatalf("Onset=%d, want 10", got)
	}
	if got := Onset(make([]float64, 8), DefaultOnsetRatio); got != 0 {
		t.Fatalf("silent Onset=%d, want 0", got)
	}
}

func TestRT60NoDecay(t *testing.T) {
	t.Parallel()

	_, err := RT60([]float64{1, 1, 1, 1}, 48000)
	if !errors.Is(err, ErrNoDecay) {
		t.Fatalf("expected ErrNoDecay, got %v", err)
	}
}

func TestSchroederCurve(t *testing.T) {
	t.Parallel()

	curve := SchroederCurve([]float64{1, 1, 0})
	if curve[0] != 0 {
		t.Fatalf("curve[0]=%v, want 0", curve[0])
	}
	if math.Abs(curve[1]+10*math.Log10(2)) > 1e-12 {
		t.Fatalf("curve[1]=%v, want -3.01", curve[1])
	}
	if curve[2] != schroederFloorDB {
		t.Fatalf("curve[2]=%v, want floor", curve[2])
	}
}

func TestReverbDecayGrowsWithSize(t *testing.T) {
	t.Parallel()

	const sr = 48000.0

	rt := func(size float64) float64 {
		fx, err := reverb.New(sr)
		if err != nil {
			t.Fatal(err)
		}

		s := control.Neutral()
		s.Knobs[control.Knob1] = size
		s.Knobs[control.Knob2] = 0.2
		s.Knobs[control.Knob3] = 0
		s.Knobs[control.Knob4] = 1
		s.Knobs[control.Knob6] = 1
		fx.ApplyControls(s)

		v, err := RT60(Impulse(fx, 1, int(2*sr)), sr)
		if err != nil {
			t.Fatalf("size %v: %v", size, err)
		}
		return v
	}

	small, large := rt(0.2), rt(0.8)
	if small <= 0 || large <= small {
		t.Fatalf("RT60 small=%v large=%v, want 0 < small < large", small, large)
	}
}
