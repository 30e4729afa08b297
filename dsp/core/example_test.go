package core_test

import (
	"fmt"

	"github.com/cwbudde/algo-pedal/dsp/core"
)

func ExampleApplyProcessorOptions() {
	cfg := core.ApplyProcessorOptions(
		core.WithSampleRate(44100),
		core.WithBufferSize(128),
	)

	fmt.Printf("sampleRate=%.0f bufferSize=%d dac=%d\n", cfg.SampleRate, cfg.BufferSize, cfg.DACResolution)

	// Output:
	// sampleRate=44100 bufferSize=128 dac=24
}

func ExampleCopyInto() {
	buf := make([]float64, 4)
	copied := core.CopyInto(buf[2:], []float64{3, 4, 5})
	fmt.Println(copied, buf)

	// Output:
	// 2 [0 0 3 4]
}

func ExampleClampBuffer() {
	buf := []float64{-2, 0.5, 1.25}
	core.ClampBuffer(buf)
	fmt.Println(buf)

	// Output:
	// [-1 0.5 1]
}
