package main

import (
	"flag"
	"fmt"
	"strconv"
	"strings"

	"github.com/cwbudde/algo-pedal/dsp/control"
	"github.com/cwbudde/algo-pedal/dsp/core"
	"github.com/cwbudde/algo-pedal/pedal"
)

// pedalFlags are shared by every command that builds an effect.
type pedalFlags struct {
	effect     string
	sampleRate float64
	bufferSize int
	adcBits    int
	dacBits    int
	knobs      string
	toggles    string
	verbose    bool
}

func (f *pedalFlags) register(fs *flag.FlagSet) {
	def := core.DefaultProcessorConfig()
	fs.StringVar(&f.effect, "effect", pedal.KindOverdrive, "effect kind (see 'hothouse list')")
	fs.Float64Var(&f.sampleRate, "sr", def.SampleRate, "sample rate in Hz")
	fs.IntVar(&f.bufferSize, "buffer", def.BufferSize, "samples per audio callback")
	fs.IntVar(&f.adcBits, "adc", def.ADCResolution, "input converter resolution in bits (16, 24 or 32)")
	fs.IntVar(&f.dacBits, "dac", def.DACResolution, "output converter resolution in bits (16, 24 or 32)")
	fs.StringVar(&f.knobs, "knobs", "", "comma-separated knob values 0..1, knob 1 first; empty entries keep 0.5")
	fs.StringVar(&f.toggles, "toggles", "", "comma-separated toggle positions (up, middle, down), toggle 1 first")
	fs.BoolVar(&f.verbose, "v", false, "verbose logging")
}

func (f *pedalFlags) validate() error {
	if f.sampleRate <= 0 {
		return fmt.Errorf("sample rate must be > 0: %g", f.sampleRate)
	}
	if f.bufferSize <= 0 {
		return fmt.Errorf("buffer size must be > 0: %d", f.bufferSize)
	}
	for _, bits := range []int{f.adcBits, f.dacBits} {
		if bits != 16 && bits != 24 && bits != 32 {
			return fmt.Errorf("converter resolution must be 16, 24 or 32 bits: %d", bits)
		}
	}
	return nil
}

func (f *pedalFlags) processorOptions() []core.ProcessorOption {
	return []core.ProcessorOption{
		core.WithSampleRate(f.sampleRate),
		core.WithBufferSize(f.bufferSize),
		core.WithADCResolution(f.adcBits),
		core.WithDACResolution(f.dacBits),
	}
}

// snapshot returns the control positions described by -knobs and -toggles.
func (f *pedalFlags) snapshot() (control.Snapshot, error) {
	s := control.Neutral()

	knobs, err := parseKnobs(f.knobs)
	if err != nil {
		return s, err
	}
	s.Knobs = knobs

	toggles, err := parseToggles(f.toggles)
	if err != nil {
		return s, err
	}
	s.Toggles = toggles

	return s, nil
}

func parseKnobs(arg string) ([control.NumKnobs]float64, error) {
	knobs := control.Neutral().Knobs
	if strings.TrimSpace(arg) == "" {
		return knobs, nil
	}

	fields := strings.Split(arg, ",")
	if len(fields) > control.NumKnobs {
		return knobs, fmt.Errorf("at most %d knob values, got %d", control.NumKnobs, len(fields))
	}

	for i, field := range fields {
		field = strings.TrimSpace(field)
		if field == "" {
			continue
		}
		v, err := strconv.ParseFloat(field, 64)
		if err != nil {
			return knobs, fmt.Errorf("knob %d: %w", i+1, err)
		}
		if v < 0 || v > 1 {
			return knobs, fmt.Errorf("knob %d must be in [0, 1]: %g", i+1, v)
		}
		knobs[i] = v
	}

	return knobs, nil
}

func parseToggles(arg string) ([control.NumToggles]control.Position, error) {
	toggles := control.Neutral().Toggles
	if strings.TrimSpace(arg) == "" {
		return toggles, nil
	}

	fields := strings.Split(arg, ",")
	if len(fields) > control.NumToggles {
		return toggles, fmt.Errorf("at most %d toggle positions, got %d", control.NumToggles, len(fields))
	}

	for i, field := range fields {
		if strings.TrimSpace(field) == "" {
			continue
		}
		p, err := control.ParsePosition(field)
		if err != nil {
			return toggles, fmt.Errorf("toggle %d: %w", i+1, err)
		}
		toggles[i] = p
	}

	return toggles, nil
}

// loadPort copies the knob and toggle positions of s onto port.
func loadPort(port *control.StaticPort, s control.Snapshot) {
	for i, v := range s.Knobs {
		port.SetKnob(control.Knob(i), v)
	}
	for i, p := range s.Toggles {
		port.SetToggle(control.Toggle(i), p)
	}
}
