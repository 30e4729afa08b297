package smooth_test

import (
	"fmt"

	"github.com/cwbudde/algo-pedal/dsp/smooth"
)

func ExampleSmoother() {
	s, err := smooth.New(1, 1000, 0)
	if err != nil {
		panic(err)
	}

	// One millisecond at 1 kHz is a single sample, so the value snaps.
	s.SetTarget(0.5)
	fmt.Printf("%.2f\n", s.Process())

	// Output:
	// 0.50
}
