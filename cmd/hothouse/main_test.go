package main

import (
	"bytes"
	"encoding/binary"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"testing"

	"github.com/cwbudde/algo-pedal/dsp/control"
	"github.com/cwbudde/algo-pedal/dsp/signal"
	"github.com/cwbudde/algo-pedal/internal/wavio"
	"github.com/cwbudde/algo-pedal/pedal"
)

func defaultFlags(effect string) pedalFlags {
	return pedalFlags{
		effect:     effect,
		sampleRate: 48000,
		bufferSize: 4,
		adcBits:    24,
		dacBits:    24,
	}
}

func TestParseKnobs(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		arg     string
		want    [control.NumKnobs]float64
		wantErr bool
	}{
		{name: "empty keeps neutral", arg: "", want: [control.NumKnobs]float64{0.5, 0.5, 0.5, 0.5, 0.5, 0.5}},
		{name: "partial", arg: "1,0", want: [control.NumKnobs]float64{1, 0, 0.5, 0.5, 0.5, 0.5}},
		{name: "skipped entries", arg: ",,0.25,,,1", want: [control.NumKnobs]float64{0.5, 0.5, 0.25, 0.5, 0.5, 1}},
		{name: "too many", arg: "1,1,1,1,1,1,1", wantErr: true},
		{name: "out of range", arg: "1.5", wantErr: true},
		{name: "not a number", arg: "loud", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, err := parseKnobs(tt.arg)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("parseKnobs(%q) expected error", tt.arg)
				}
				return
			}
			if err != nil {
				t.Fatalf("parseKnobs(%q): %v", tt.arg, err)
			}
			if got != tt.want {
				t.Fatalf("parseKnobs(%q)=%v, want %v", tt.arg, got, tt.want)
			}
		})
	}
}

func TestParseToggles(t *testing.T) {
	t.Parallel()

	got, err := parseToggles("down,,UP")
	if err != nil {
		t.Fatalf("parseToggles: %v", err)
	}
	want := [control.NumToggles]control.Position{control.Down, control.Middle, control.Up}
	if got != want {
		t.Fatalf("parseToggles=%v, want %v", got, want)
	}

	if _, err := parseToggles("sideways"); err == nil {
		t.Fatal("expected error for unknown position")
	}
	if _, err := parseToggles("up,up,up,up"); err == nil {
		t.Fatal("expected error for too many toggles")
	}
}

func TestPedalFlagsValidate(t *testing.T) {
	t.Parallel()

	f := defaultFlags(pedal.KindFuzz)
	if err := f.validate(); err != nil {
		t.Fatalf("validate: %v", err)
	}

	f.dacBits = 12
	if err := f.validate(); err == nil {
		t.Fatal("expected error for 12-bit converter")
	}

	f = defaultFlags(pedal.KindFuzz)
	f.bufferSize = 0
	if err := f.validate(); err == nil {
		t.Fatal("expected error for zero buffer size")
	}
}

func TestHandleKey(t *testing.T) {
	t.Parallel()

	port := control.NewStaticPort()

	if got := handleKey('q', port); got != keyNone {
		t.Fatalf("knob key returned %v", got)
	}
	if v := port.Knob(control.Knob1); math.Abs(v-0.55) > 1e-12 {
		t.Fatalf("knob 1=%v after q, want 0.55", v)
	}

	handleKey('h', port)
	if v := port.Knob(control.Knob6); math.Abs(v-0.45) > 1e-12 {
		t.Fatalf("knob 6=%v after h, want 0.45", v)
	}

	handleKey('x', port)
	if p := port.Toggle(control.Toggle2); p != control.Down {
		t.Fatalf("toggle 2=%v after x, want down", p)
	}

	actions := map[byte]keyAction{
		' ': keyFootswitch1,
		'v': keyFootswitch2,
		'n': keyNextEffect,
		'p': keyPrevEffect,
		27:  keyQuit,
		3:   keyQuit,
		'?': keyNone,
	}
	for b, want := range actions {
		if got := handleKey(b, port); got != want {
			t.Fatalf("handleKey(%q)=%v, want %v", b, got, want)
		}
	}
}

func TestSwitchEffectWraps(t *testing.T) {
	t.Parallel()

	reg := pedal.DefaultRegistry()
	kinds := reg.Kinds()
	p := pedal.New()
	if _, err := p.Install(reg, kinds[0]); err != nil {
		t.Fatal(err)
	}

	if err := switchEffect(p, reg, kinds, -1); err != nil {
		t.Fatal(err)
	}
	if got := p.Kind(); got != kinds[len(kinds)-1] {
		t.Fatalf("previous of first=%q, want %q", got, kinds[len(kinds)-1])
	}

	if err := switchEffect(p, reg, kinds, 1); err != nil {
		t.Fatal(err)
	}
	if got := p.Kind(); got != kinds[0] {
		t.Fatalf("next of last=%q, want %q", got, kinds[0])
	}
}

func TestStreamRead(t *testing.T) {
	t.Parallel()

	port := control.NewStaticPort()
	p := pedal.New()
	p.Bypass(true)

	s := newStream(pedal.NewAudioCallback(p, port), signal.NewLoop([]float64{0.5, -0.25, 2}), 2)
	buf := make([]byte, 4*7+3)

	n, err := s.Read(buf)
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if n != 4*7 {
		t.Fatalf("Read returned %d bytes, want %d", n, 4*7)
	}

	want := []float32{0.5, -0.25, 1, 0.5, -0.25, 1, 0.5}
	for i, w := range want {
		got := math.Float32frombits(binary.LittleEndian.Uint32(buf[4*i:]))
		if got != w {
			t.Fatalf("frame %d=%v, want %v", i, got, w)
		}
	}
}

func TestRenderGenerated(t *testing.T) {
	t.Parallel()

	out := filepath.Join(t.TempDir(), "delay.wav")
	f := renderFlags{
		pedalFlags: defaultFlags(pedal.KindDelay),
		out:        out,
		source:     "impulse",
		seconds:    0.1,
		tail:       0.05,
	}

	stats, err := render(f)
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if stats.Samples != 7200 {
		t.Fatalf("rendered %d samples, want 7200", stats.Samples)
	}
	if stats.Peak <= 0 || stats.Peak > 1 {
		t.Fatalf("peak=%v out of (0, 1]", stats.Peak)
	}

	clip, err := wavio.ReadFile(out)
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	if clip.SampleRate != 48000 || clip.BitDepth != 24 || len(clip.Samples) != 7200 {
		t.Fatalf("clip sr=%d bits=%d len=%d", clip.SampleRate, clip.BitDepth, len(clip.Samples))
	}
}

func TestRenderFileWithScript(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	in := filepath.Join(dir, "in.wav")
	samples := make([]float64, 4410)
	for i := range samples {
		samples[i] = 0.25 * math.Sin(2*math.Pi*440*float64(i)/44100)
	}
	if err := wavio.WriteFile(in, wavio.Clip{SampleRate: 44100, BitDepth: 16, Samples: samples}, nil); err != nil {
		t.Fatal(err)
	}

	script := filepath.Join(dir, "bypass.lua")
	src := "function update(t) pedal.footswitch(1, t > 0.05) end\n"
	if err := os.WriteFile(script, []byte(src), 0o600); err != nil {
		t.Fatal(err)
	}

	f := renderFlags{
		pedalFlags: defaultFlags(pedal.KindTremolo),
		in:         in,
		out:        filepath.Join(dir, "out.wav"),
		script:     script,
		dither:     true,
		seed:       7,
	}
	f.dacBits = 16

	stats, err := render(f)
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if stats.Samples != len(samples) {
		t.Fatalf("rendered %d samples, want %d", stats.Samples, len(samples))
	}

	clip, err := wavio.ReadFile(f.out)
	if err != nil {
		t.Fatal(err)
	}
	if clip.SampleRate != 44100 {
		t.Fatalf("output rate=%d, want the input file's 44100", clip.SampleRate)
	}

	// Bypassed from 50 ms on, the output follows the input to within 16-bit
	// quantization and dither.
	for i := 3000; i < len(samples); i++ {
		if d := math.Abs(clip.Samples[i] - samples[i]); d > 4.0/32767 {
			t.Fatalf("sample %d differs by %v after bypass", i, d)
		}
	}
}

func TestRenderErrors(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	tests := []struct {
		name string
		f    renderFlags
	}{
		{name: "missing out", f: renderFlags{pedalFlags: defaultFlags(pedal.KindFuzz), source: "sine", seconds: 0.01}},
		{name: "unknown effect", f: renderFlags{pedalFlags: defaultFlags("wah"), out: filepath.Join(dir, "a.wav"), source: "sine", seconds: 0.01}},
		{name: "unknown source", f: renderFlags{pedalFlags: defaultFlags(pedal.KindFuzz), out: filepath.Join(dir, "b.wav"), source: "saw", seconds: 0.01}},
		{name: "missing input", f: renderFlags{pedalFlags: defaultFlags(pedal.KindFuzz), out: filepath.Join(dir, "c.wav"), in: filepath.Join(dir, "none.wav")}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if _, err := render(tt.f); err == nil {
				t.Fatal("expected error")
			}
		})
	}
}

func TestGenerateRiff(t *testing.T) {
	t.Parallel()

	x, err := generate("pluck", 8000, 1.3, 1)
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if len(x) != 10400 {
		t.Fatalf("len=%d, want 10400", len(x))
	}
	for i, v := range x {
		if math.IsNaN(v) || math.Abs(v) > 1 {
			t.Fatalf("sample %d=%v out of range", i, v)
		}
	}
}

func TestMeasureResponse(t *testing.T) {
	t.Parallel()

	f := responseFlags{pedalFlags: defaultFlags(pedal.KindReverb), seconds: 1}
	f.toggles = "down"

	var buf bytes.Buffer
	if err := measureResponse(&buf, f); err != nil {
		t.Fatalf("measureResponse: %v", err)
	}

	out := buf.String()
	for _, want := range []string{"reverb @ 48000 Hz", "FREQ (Hz)", "1000", "onset", "GAIN @ 1 kHz", "THD (%)"} {
		if !strings.Contains(out, want) {
			t.Fatalf("output missing %q:\n%s", want, out)
		}
	}
}

func TestMeasureResponseCompressorMetering(t *testing.T) {
	t.Parallel()

	f := responseFlags{pedalFlags: defaultFlags(pedal.KindCompressor), seconds: 0.1}
	f.knobs = "0,1,0,0.5,0,1"

	var buf bytes.Buffer
	if err := measureResponse(&buf, f); err != nil {
		t.Fatalf("measureResponse: %v", err)
	}

	out := buf.String()
	for _, want := range []string{"STATIC (dB)", "MAX GR (dB)"} {
		if !strings.Contains(out, want) {
			t.Fatalf("output missing %q:\n%s", want, out)
		}
	}

	lines := strings.Split(strings.TrimSpace(out), "\n")
	last := strings.Fields(lines[len(lines)-1])
	if len(last) != 5 || last[0] != "0" {
		t.Fatalf("unexpected 0 dBFS row %q", lines[len(lines)-1])
	}
	gr, err := strconv.ParseFloat(last[4], 64)
	if err != nil {
		t.Fatal(err)
	}
	if gr < 20 {
		t.Fatalf("max gain reduction at 0 dBFS = %v dB, want >= 20", gr)
	}
}

func TestMeasureResponseOmitsMeteringForOtherEffects(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	f := responseFlags{pedalFlags: defaultFlags(pedal.KindOverdrive), seconds: 0.1}
	if err := measureResponse(&buf, f); err != nil {
		t.Fatalf("measureResponse: %v", err)
	}
	if strings.Contains(buf.String(), "MAX GR") {
		t.Fatal("metering columns printed for overdrive")
	}
}

func TestLegendsCoverRegistry(t *testing.T) {
	t.Parallel()

	for _, k := range pedal.DefaultRegistry().Kinds() {
		l, ok := legends[k]
		if !ok {
			t.Fatalf("no legend for %q", k)
		}
		if l.knobs[5] != "mix" || l.toggle == "" {
			t.Fatalf("incomplete legend for %q: %+v", k, l)
		}
	}
}
