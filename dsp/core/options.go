package core

import "time"

// ProcessorConfig defines the fixed audio configuration of a pedal.
// Sample rate and buffer size are chosen once and never renegotiated.
type ProcessorConfig struct {
	SampleRate    float64
	BufferSize    int
	ADCResolution int
	DACResolution int
}

// ProcessorOption mutates a ProcessorConfig.
type ProcessorOption func(*ProcessorConfig)

// DefaultProcessorConfig returns the Hothouse hardware defaults:
// 48 kHz, 4-sample blocks, 24-bit converters.
func DefaultProcessorConfig() ProcessorConfig {
	return ProcessorConfig{
		SampleRate:    48000,
		BufferSize:    4,
		ADCResolution: 24,
		DACResolution: 24,
	}
}

// WithSampleRate sets the processing sample rate.
func WithSampleRate(sampleRate float64) ProcessorOption {
	return func(cfg *ProcessorConfig) {
		if sampleRate > 0 && IsFinite(sampleRate) {
			cfg.SampleRate = sampleRate
		}
	}
}

// WithBufferSize sets the number of samples per audio callback.
func WithBufferSize(bufferSize int) ProcessorOption {
	return func(cfg *ProcessorConfig) {
		if bufferSize > 0 {
			cfg.BufferSize = bufferSize
		}
	}
}

// WithADCResolution sets the input converter resolution in bits.
func WithADCResolution(bits int) ProcessorOption {
	return func(cfg *ProcessorConfig) {
		if bits > 0 {
			cfg.ADCResolution = bits
		}
	}
}

// WithDACResolution sets the output converter resolution in bits.
func WithDACResolution(bits int) ProcessorOption {
	return func(cfg *ProcessorConfig) {
		if bits > 0 {
			cfg.DACResolution = bits
		}
	}
}

// ApplyProcessorOptions applies zero or more options to the default config.
func ApplyProcessorOptions(opts ...ProcessorOption) ProcessorConfig {
	cfg := DefaultProcessorConfig()
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}
	return cfg
}

// BufferPeriod returns the wall-clock budget of one audio callback.
func (c ProcessorConfig) BufferPeriod() time.Duration {
	if c.SampleRate <= 0 || c.BufferSize <= 0 {
		return 0
	}
	return time.Duration(float64(c.BufferSize) / c.SampleRate * float64(time.Second))
}

// MsToSamples converts a duration in milliseconds to a sample count at the
// configured rate, rounded down.
func (c ProcessorConfig) MsToSamples(ms float64) int {
	return int(ms * 0.001 * c.SampleRate)
}
