// Package delay provides a fixed-capacity circular delay line with integer
// sample taps.
package delay

import "fmt"

// Line is a circular delay line. Capacity is fixed at construction and
// reads are clamped to [1, Len()-1] samples so the read tap never lands on
// the slot about to be written.
type Line struct {
	buffer   []float64
	writePos int
}

// New returns a delay line of fixed size. A size of at least 2 is required
// to hold a one-sample delay.
func New(size int) (*Line, error) {
	if size < 2 {
		return nil, fmt.Errorf("delay size must be >= 2: %d", size)
	}
	return &Line{buffer: make([]float64, size)}, nil
}

// NewSeconds returns a delay line holding seconds of audio at sampleRate.
func NewSeconds(seconds, sampleRate float64) (*Line, error) {
	if sampleRate <= 0 || seconds <= 0 {
		return nil, fmt.Errorf("delay duration and sample rate must be > 0: %f s at %f Hz", seconds, sampleRate)
	}
	return New(int(seconds * sampleRate))
}

// Len returns internal buffer size.
func (d *Line) Len() int {
	return len(d.buffer)
}

// MaxDelay returns the longest delay, in samples, that Read honours.
func (d *Line) MaxDelay() int {
	return len(d.buffer) - 1
}

// ClampDelay limits delay to [1, Len()-1].
func (d *Line) ClampDelay(delay int) int {
	if delay < 1 {
		return 1
	}
	if maxDelay := len(d.buffer) - 1; delay > maxDelay {
		return maxDelay
	}
	return delay
}

// Write stores one sample and advances the write position.
func (d *Line) Write(sample float64) {
	d.buffer[d.writePos] = sample
	d.writePos++
	if d.writePos >= len(d.buffer) {
		d.writePos = 0
	}
}

// Read returns the sample written delay samples ago. Call it before Write
// for the current sample. The delay is clamped to [1, Len()-1].
func (d *Line) Read(delay int) float64 {
	size := len(d.buffer)
	readPos := d.writePos - d.ClampDelay(delay)
	if readPos < 0 {
		readPos += size
	}
	return d.buffer[readPos]
}

// Process reads the delayed sample and then writes x.
func (d *Line) Process(x float64, delay int) float64 {
	y := d.Read(delay)
	d.Write(x)
	return y
}

// Reset clears line state.
func (d *Line) Reset() {
	for i := range d.buffer {
		d.buffer[i] = 0
	}
	d.writePos = 0
}
