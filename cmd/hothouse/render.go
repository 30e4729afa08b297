package main

import (
	"errors"
	"flag"
	"fmt"
	"math"

	"github.com/cwbudde/algo-pedal/dsp/control"
	"github.com/cwbudde/algo-pedal/dsp/core"
	"github.com/cwbudde/algo-pedal/dsp/signal"
	"github.com/cwbudde/algo-pedal/internal/automation"
	"github.com/cwbudde/algo-pedal/internal/wavio"
	"github.com/cwbudde/algo-pedal/measure/level"
	"github.com/cwbudde/algo-pedal/pedal"
	"github.com/cwbudde/algo-vecmath"
	"github.com/sirupsen/logrus"
)

type renderFlags struct {
	pedalFlags
	in      string
	out     string
	source  string
	seconds float64
	tail    float64
	script  string
	bypass  bool
	dither  bool
	seed    int64
}

func runRender(args []string) error {
	var f renderFlags
	fs := flag.NewFlagSet("render", flag.ContinueOnError)
	f.register(fs)
	fs.StringVar(&f.in, "in", "", "input WAV file; when empty a -source signal is generated")
	fs.StringVar(&f.out, "out", "", "output WAV file (required)")
	fs.StringVar(&f.source, "source", "pluck", "generated input: pluck, sine, noise or impulse")
	fs.Float64Var(&f.seconds, "seconds", 2, "length of the generated input in seconds")
	fs.Float64Var(&f.tail, "tail", 0, "seconds of silence appended so delays and reverbs ring out")
	fs.StringVar(&f.script, "script", "", "Lua automation script moving the controls over time")
	fs.BoolVar(&f.bypass, "bypass", false, "start with the effect bypassed")
	fs.BoolVar(&f.dither, "dither", false, "apply TPDF dither when quantizing the output")
	fs.Int64Var(&f.seed, "seed", 1, "seed for generated noise and dither")
	if err := fs.Parse(args); err != nil {
		return err
	}
	setupLogging(f.verbose)

	stats, err := render(f)
	if err != nil {
		return err
	}

	logrus.WithFields(logrus.Fields{
		"effect":  f.effect,
		"out":     f.out,
		"samples": stats.Samples,
		"peak_db": fmt.Sprintf("%.1f", stats.PeakDB()),
		"rms_db":  fmt.Sprintf("%.1f", stats.RMSDB()),
	}).Info("rendered")
	return nil
}

// render processes the input through the pedal buffer by buffer, the way
// the audio callback runs on hardware, and writes the result.
func render(f renderFlags) (level.Stats, error) {
	if f.out == "" {
		return level.Stats{}, errors.New("render: -out is required")
	}
	if err := f.validate(); err != nil {
		return level.Stats{}, err
	}
	if f.tail < 0 {
		return level.Stats{}, fmt.Errorf("render: tail must be >= 0: %g", f.tail)
	}

	initial, err := f.snapshot()
	if err != nil {
		return level.Stats{}, err
	}

	input, err := loadInput(&f)
	if err != nil {
		return level.Stats{}, err
	}

	cfg := core.ApplyProcessorOptions(f.processorOptions()...)
	input = append(input, make([]float64, int(f.tail*cfg.SampleRate))...)

	adc, err := wavio.NewQuantizer(cfg.ADCResolution, nil)
	if err != nil {
		return level.Stats{}, err
	}
	adc.Requantize(input)

	port := control.NewStaticPort()
	loadPort(port, initial)

	var script *automation.Script
	if f.script != "" {
		script, err = automation.Load(f.script, port)
		if err != nil {
			return level.Stats{}, err
		}
		defer script.Close()
	}

	p := pedal.New(f.processorOptions()...)
	p.UpdateControls(initial)
	if _, err := p.Install(pedal.DefaultRegistry(), f.effect); err != nil {
		return level.Stats{}, err
	}
	if f.bypass {
		p.Bypass(true)
	}

	logrus.WithFields(logrus.Fields{
		"effect":      f.effect,
		"sample_rate": cfg.SampleRate,
		"buffer_size": cfg.BufferSize,
		"samples":     len(input),
		"script":      f.script,
	}).Debug("render start")

	cb := pedal.NewAudioCallback(p, port)
	out := make([]float64, len(input))
	var meter level.Meter
	bypassed := p.IsBypassed()

	for start := 0; start < len(input); start += cfg.BufferSize {
		end := min(start+cfg.BufferSize, len(input))
		if script != nil {
			if err := script.Update(float64(start) / cfg.SampleRate); err != nil {
				return level.Stats{}, err
			}
		}

		cb.Process(input[start:end], out[start:end])
		meter.Add(out[start:end])

		if b := p.IsBypassed(); b != bypassed {
			bypassed = b
			logrus.WithFields(logrus.Fields{
				"time":     fmt.Sprintf("%.3f", float64(start)/cfg.SampleRate),
				"bypassed": b,
			}).Debug("footswitch")
		}
	}

	var dither *vecmath.DitherState
	if f.dither {
		dither = vecmath.NewDitherState(f.seed)
	}

	clip := wavio.Clip{
		SampleRate: int(math.Round(cfg.SampleRate)),
		BitDepth:   cfg.DACResolution,
		Samples:    out,
	}
	if err := wavio.WriteFile(f.out, clip, dither); err != nil {
		return level.Stats{}, err
	}

	return meter.Stats(), nil
}

// loadInput reads -in or generates -source. A WAV file overrides -sr and a
// script's duration overrides -seconds.
func loadInput(f *renderFlags) ([]float64, error) {
	if f.in != "" {
		clip, err := wavio.ReadFile(f.in)
		if err != nil {
			return nil, err
		}
		if float64(clip.SampleRate) != f.sampleRate {
			logrus.WithFields(logrus.Fields{
				"file_rate": clip.SampleRate,
				"flag_rate": f.sampleRate,
			}).Debug("using file sample rate")
			f.sampleRate = float64(clip.SampleRate)
		}
		return clip.Samples, nil
	}

	seconds := f.seconds
	if f.script != "" {
		if d, ok := scriptDuration(f.script); ok {
			seconds = d
		}
	}
	if seconds <= 0 {
		return nil, fmt.Errorf("render: seconds must be > 0: %g", seconds)
	}

	return generate(f.source, f.sampleRate, seconds, f.seed)
}

func scriptDuration(path string) (float64, bool) {
	s, err := automation.Load(path, control.NewStaticPort())
	if err != nil {
		return 0, false
	}
	defer s.Close()
	return s.Duration()
}

// generate builds a test signal of the named kind.
func generate(kind string, sampleRate, seconds float64, seed int64) ([]float64, error) {
	g := signal.NewGeneratorWithOptions(
		[]core.ProcessorOption{core.WithSampleRate(sampleRate)},
		signal.WithSeed(seed),
	)
	n := int(seconds * sampleRate)

	switch kind {
	case "pluck":
		return riff(g, n)
	case "sine":
		return g.Sine(220, 0.5, n)
	case "noise":
		return g.WhiteNoise(0.25, n)
	case "impulse":
		return g.Impulse(1, n)
	default:
		return nil, fmt.Errorf("unknown source %q (want pluck, sine, noise or impulse)", kind)
	}
}

// riffNotes is an E minor pentatonic phrase in Hz, one note per half second.
var riffNotes = []float64{82.41, 98.00, 110.00, 123.47, 146.83, 123.47, 110.00, 98.00}

// riff strings plucked notes together into a guitar-like phrase.
func riff(g *signal.Generator, samples int) ([]float64, error) {
	if samples <= 0 {
		return nil, fmt.Errorf("pluck samples must be > 0: %d", samples)
	}
	noteLen := max(1, int(0.5*g.Config().SampleRate))
	out := make([]float64, 0, samples)

	for i := 0; len(out) < samples; i++ {
		n := min(noteLen, samples-len(out))
		note, err := g.Pluck(riffNotes[i%len(riffNotes)], 0.6, 0.996, n)
		if err != nil {
			return nil, err
		}
		out = append(out, note...)
	}
	return out, nil
}
