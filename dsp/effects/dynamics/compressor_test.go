package dynamics

import (
	"math"
	"testing"

	"github.com/cwbudde/algo-pedal/dsp/control"
	"github.com/cwbudde/algo-pedal/internal/testutil"
)

const testSampleRate = 48000.0

func TestNewCompressorValidation(t *testing.T) {
	for _, sr := range []float64{0, -1, math.NaN(), math.Inf(-1)} {
		if _, err := NewCompressor(sr); err == nil {
			t.Fatalf("NewCompressor(%v) expected error", sr)
		}
	}
	if _, err := NewCompressor(testSampleRate, WithKnee(Knee(3))); err == nil {
		t.Fatal("expected knee error")
	}
}

func TestGainDBHardKnee(t *testing.T) {
	const (
		thresh = -20.0
		ratio  = 4.0
	)

	if got := GainDB(thresh, thresh, ratio, 0); got != 0 {
		t.Fatalf("GainDB at threshold = %v, want exactly 0", got)
	}
	if got := GainDB(thresh-10, thresh, ratio, 0); got != 0 {
		t.Fatalf("GainDB below threshold = %v, want 0", got)
	}

	for _, over := range []float64{1e-6, 0.5, 3, 12, 40} {
		env := thresh + over
		outDB := env + GainDB(env, thresh, ratio, 0)
		if want := thresh + over/ratio; math.Abs(outDB-want) > 1e-9 {
			t.Fatalf("over=%v: output level %v dB, want %v dB", over, outDB, want)
		}
	}
}

func TestGainDBSoftKnee(t *testing.T) {
	const (
		thresh = -20.0
		ratio  = 4.0
		knee   = 12.0
	)

	tests := []struct {
		name string
		env  float64
		want float64
	}{
		{name: "below knee", env: thresh - 6.01, want: 0},
		{name: "knee start", env: thresh - 6, want: 0},
		{name: "threshold", env: thresh, want: (1/ratio - 1) * 36 / 24},
		{name: "knee end", env: thresh + 6, want: 6/ratio - 6},
		{name: "above knee", env: thresh + 10, want: 10/ratio - 10},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := GainDB(tt.env, thresh, ratio, knee); math.Abs(got-tt.want) > 1e-9 {
				t.Fatalf("GainDB(%v) = %v, want %v", tt.env, got, tt.want)
			}
		})
	}
}

func TestGainDBContinuousAcrossKnee(t *testing.T) {
	for _, knee := range []float64{KneeMedium.WidthDB(), KneeSoft.WidthDB()} {
		prev := GainDB(-60, -20, 8, knee)
		for env := -60.0; env <= 0; env += 0.01 {
			g := GainDB(env, -20, 8, knee)
			if g > prev+1e-12 {
				t.Fatalf("knee %v: gain rose from %v to %v at %v dB", knee, prev, g, env)
			}
			if prev-g > 0.02 {
				t.Fatalf("knee %v: gain jumped %v dB at %v dB", knee, prev-g, env)
			}
			prev = g
		}
	}
}

func TestCompressorReducesLoudSignal(t *testing.T) {
	c, err := NewCompressor(testSampleRate)
	if err != nil {
		t.Fatal(err)
	}
	// Threshold about 0.1, ratio 20, fast attack, no makeup, fully wet.
	c.ApplyControls(testutil.Controls([6]float64{0.1, 1, 0, 0.5, 0, 1}, control.Up))

	buf := testutil.DeterministicSine(1000, testSampleRate, 0.9, 4800)
	c.ProcessInPlace(buf)

	peak := 0.0
	for _, v := range buf[2400:] {
		peak = math.Max(peak, math.Abs(v))
	}
	if peak > 0.5 {
		t.Fatalf("compressed peak %v, want well below 0.9", peak)
	}
	if c.GainReductionDB() <= 0 {
		t.Fatalf("GainReductionDB() = %v, want > 0", c.GainReductionDB())
	}
	if led := c.LEDState(); led >= 1 || led < 0.2 {
		t.Fatalf("LEDState() = %v, want in [0.2, 1)", led)
	}

	m := c.GetMetrics()
	if m.InputPeak < 0.89 || m.GainReduction < c.GainReductionDB() {
		t.Fatalf("unexpected metrics %+v", m)
	}
	c.ResetMetrics()
	if c.GetMetrics() != (CompressorMetrics{}) {
		t.Fatal("ResetMetrics did not clear metrics")
	}
}

func TestCompressorQuietSignalUntouched(t *testing.T) {
	c, _ := NewCompressor(testSampleRate)
	// Threshold 1.0 linear, makeup 1x.
	c.ApplyControls(testutil.Controls([6]float64{1, 1, 0.5, 0.5, 0, 1}, control.Down))

	in := testutil.DeterministicSine(440, testSampleRate, 0.05, 2048)
	out := append([]float64(nil), in...)
	c.ProcessInPlace(out)
	testutil.RequireSliceNearlyEqual(t, out, in, 1e-12)

	if c.LEDState() != 1 {
		t.Fatalf("LEDState() = %v, want 1 with no reduction", c.LEDState())
	}
}

func TestCompressorOutputClamped(t *testing.T) {
	c, _ := NewCompressor(testSampleRate)
	// Maximum makeup with threshold at full scale.
	c.ApplyControls(testutil.Controls([6]float64{1, 0, 0.5, 0.5, 1, 1}, control.Middle))

	buf := testutil.DeterministicSine(200, testSampleRate, 0.8, 4800)
	c.ProcessInPlace(buf)
	testutil.RequireBounded(t, buf, 1)
}

func TestCompressorEnvelopeAttackRelease(t *testing.T) {
	c, _ := NewCompressor(testSampleRate)
	c.ApplyControls(testutil.Controls([6]float64{0.5, 0.5, 0, 0, 0, 1}, control.Up))

	// Attack coefficient 0.5: one sample closes half the gap.
	c.ProcessSample(1)
	if got := c.Envelope(); math.Abs(got-0.5) > 1e-12 {
		t.Fatalf("envelope after attack = %v, want 0.5", got)
	}

	// Release coefficient 0.9 toward zero.
	c.ProcessSample(0)
	if got := c.Envelope(); math.Abs(got-0.45) > 1e-12 {
		t.Fatalf("envelope after release = %v, want 0.45", got)
	}

	c.Reset()
	if c.Envelope() != 0 || c.GainReductionDB() != 0 {
		t.Fatal("Reset did not clear envelope state")
	}
}

func TestCompressorKneeFromToggle(t *testing.T) {
	c, _ := NewCompressor(testSampleRate)
	tests := []struct {
		pos  control.Position
		want Knee
	}{
		{control.Middle, KneeMedium},
		{control.Unknown, KneeMedium},
		{control.Down, KneeSoft},
		{control.Up, KneeHard},
	}
	for _, tt := range tests {
		c.UpdateFromControls(testutil.Controls([6]float64{}, tt.pos))
		if c.Knee() != tt.want {
			t.Fatalf("toggle %v: knee = %v, want %v", tt.pos, c.Knee(), tt.want)
		}
	}
}

func TestCalculateOutputLevel(t *testing.T) {
	c, _ := NewCompressor(testSampleRate)
	c.ApplyControls(testutil.Controls([6]float64{0.5, 1, 0.5, 0.5, 0, 1}, control.Up))

	below := c.CalculateOutputLevel(0.1)
	if math.Abs(below-0.1) > 1e-12 {
		t.Fatalf("below threshold = %v, want 0.1", below)
	}
	above := c.CalculateOutputLevel(1)
	if above >= 1 || above <= 0.5 {
		t.Fatalf("above threshold = %v, want between threshold and input", above)
	}
}

func TestSilenceAfterReset(t *testing.T) {
	c, _ := NewCompressor(testSampleRate)
	c.ProcessInPlace(testutil.DeterministicNoise(6, 1, 4096))
	c.Reset()

	buf := make([]float64, 4096)
	c.ProcessInPlace(buf)
	for i, v := range buf {
		if v != 0 {
			t.Fatalf("sample %d = %v after reset, want 0", i, v)
		}
	}
}

func TestProcessDoesNotAllocate(t *testing.T) {
	c, _ := NewCompressor(testSampleRate)
	buf := testutil.DeterministicNoise(1, 0.5, 128)
	if allocs := testing.AllocsPerRun(100, func() { c.ProcessInPlace(buf) }); allocs != 0 {
		t.Fatalf("ProcessInPlace allocated %v times", allocs)
	}
}

func BenchmarkCompressor(b *testing.B) {
	c, _ := NewCompressor(testSampleRate, WithKnee(KneeSoft))
	buf := testutil.DeterministicSine(220, testSampleRate, 0.8, 128)

	b.ReportAllocs()
	b.SetBytes(int64(len(buf) * 8))
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		c.ProcessInPlace(buf)
	}
}
