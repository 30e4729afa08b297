package pedal

import (
	"github.com/cwbudde/algo-pedal/dsp/effects"
	"github.com/cwbudde/algo-pedal/dsp/effects/dynamics"
	"github.com/cwbudde/algo-pedal/dsp/effects/modulation"
	"github.com/cwbudde/algo-pedal/dsp/effects/reverb"
)

// Built-in effect kinds.
const (
	KindOverdrive  = "overdrive"
	KindDistortion = "distortion"
	KindFuzz       = "fuzz"
	KindChorus     = "chorus"
	KindTremolo    = "tremolo"
	KindDelay      = "delay"
	KindReverb     = "reverb"
	KindCompressor = "compressor"
)

// DefaultRegistry returns a Registry pre-populated with all built-in effects.
func DefaultRegistry() *Registry {
	r := NewRegistry()

	r.MustRegister(KindOverdrive, func(sampleRate float64) (Effect, error) {
		fx, err := effects.NewOverdrive(sampleRate)
		if err != nil {
			return nil, err
		}

		return fx, nil
	})
	r.MustRegister(KindDistortion, func(sampleRate float64) (Effect, error) {
		fx, err := effects.NewDistortion(sampleRate)
		if err != nil {
			return nil, err
		}

		return fx, nil
	})
	r.MustRegister(KindFuzz, func(sampleRate float64) (Effect, error) {
		fx, err := effects.NewFuzz(sampleRate)
		if err != nil {
			return nil, err
		}

		return fx, nil
	})
	r.MustRegister(KindChorus, func(sampleRate float64) (Effect, error) {
		fx, err := modulation.NewChorus(sampleRate)
		if err != nil {
			return nil, err
		}

		return fx, nil
	})
	r.MustRegister(KindTremolo, func(sampleRate float64) (Effect, error) {
		fx, err := modulation.NewTremolo(sampleRate)
		if err != nil {
			return nil, err
		}

		return fx, nil
	})
	r.MustRegister(KindDelay, func(sampleRate float64) (Effect, error) {
		fx, err := effects.NewDelay(sampleRate)
		if err != nil {
			return nil, err
		}

		return fx, nil
	})
	r.MustRegister(KindReverb, func(sampleRate float64) (Effect, error) {
		fx, err := reverb.New(sampleRate)
		if err != nil {
			return nil, err
		}

		return fx, nil
	})
	r.MustRegister(KindCompressor, func(sampleRate float64) (Effect, error) {
		fx, err := dynamics.NewCompressor(sampleRate)
		if err != nil {
			return nil, err
		}

		return fx, nil
	})

	return r
}
