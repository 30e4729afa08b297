package wavio

import (
	"errors"
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/cwbudde/algo-pedal/internal/testutil"
	"github.com/cwbudde/algo-vecmath"
)

func TestRoundTrip(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		bits   int
		dither bool
		eps    float64
	}{
		{name: "16 bit", bits: 16, eps: 0.5 / 32767},
		{name: "24 bit", bits: 24, eps: 0.5 / 8388607},
		{name: "16 bit dithered", bits: 16, dither: true, eps: 1.5 / 32767},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			in := Clip{
				SampleRate: 48000,
				BitDepth:   tc.bits,
				Samples:    testutil.DeterministicSine(440, 48000, 0.7, 4800),
			}

			var d *vecmath.DitherState
			if tc.dither {
				d = vecmath.NewDitherState(1)
			}

			path := filepath.Join(t.TempDir(), "clip.wav")
			if err := WriteFile(path, in, d); err != nil {
				t.Fatalf("WriteFile: %v", err)
			}

			out, err := ReadFile(path)
			if err != nil {
				t.Fatalf("ReadFile: %v", err)
			}

			if out.SampleRate != 48000 || out.BitDepth != tc.bits {
				t.Fatalf("format=%d Hz %d bit", out.SampleRate, out.BitDepth)
			}
			testutil.RequireSliceNearlyEqual(t, out.Samples, in.Samples, tc.eps)
		})
	}
}

func TestReadInvalidFile(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "junk.wav")
	if err := os.WriteFile(path, []byte("definitely not a riff file"), 0o600); err != nil {
		t.Fatal(err)
	}

	_, err := ReadFile(path)
	if !errors.Is(err, ErrInvalidFile) {
		t.Fatalf("expected ErrInvalidFile, got %v", err)
	}
}

func TestWriteRejectsBadFormat(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()

	err := WriteFile(filepath.Join(dir, "a.wav"), Clip{SampleRate: 0, BitDepth: 16}, nil)
	if err == nil {
		t.Fatal("expected error for zero sample rate")
	}

	err = WriteFile(filepath.Join(dir, "b.wav"), Clip{SampleRate: 48000, BitDepth: 8}, nil)
	if err == nil {
		t.Fatal("expected error for 8 bit output")
	}
}

func TestQuantizer(t *testing.T) {
	t.Parallel()

	q, err := NewQuantizer(16, nil)
	if err != nil {
		t.Fatal(err)
	}

	dst := make([]int, 5)
	q.Quantize(dst, []float64{0, 1, -1, 2, -3})
	want := []int{0, 32767, -32767, 32767, -32767}
	for i := range want {
		if dst[i] != want[i] {
			t.Fatalf("dst[%d]=%d, want %d", i, dst[i], want[i])
		}
	}

	buf := []float64{0.5, 1e-7, -0.25}
	q.Requantize(buf)
	if buf[1] != 0 {
		t.Fatalf("sub-LSB value survived: %v", buf[1])
	}
	if math.Abs(buf[0]-0.5) > 1/q.Scale() {
		t.Fatalf("buf[0]=%v", buf[0])
	}

	if _, err := NewQuantizer(12, nil); err == nil {
		t.Fatal("expected error for 12 bit")
	}
}

func TestQuantizerDitherDecorrelatesSilence(t *testing.T) {
	t.Parallel()

	q, err := NewQuantizer(16, vecmath.NewDitherState(42))
	if err != nil {
		t.Fatal(err)
	}

	dst := make([]int, 4096)
	q.Quantize(dst, make([]float64, len(dst)))

	nonZero := 0
	for _, v := range dst {
		if v < -1 || v > 1 {
			t.Fatalf("dither exceeded one LSB: %d", v)
		}
		if v != 0 {
			nonZero++
		}
	}
	if nonZero == 0 {
		t.Fatal("dither produced only zeros")
	}
}
