package signal

// Loop plays a clip repeatedly. It is the input source of the live
// simulator, which has no audio input of its own.
type Loop struct {
	data []float64
	pos  int
}

// NewLoop returns a loop over data. The slice is not copied.
func NewLoop(data []float64) *Loop {
	return &Loop{data: data}
}

// Fill writes the next len(buf) samples into buf. An empty loop yields silence.
func (l *Loop) Fill(buf []float64) {
	if len(l.data) == 0 {
		clear(buf)
		return
	}
	for i := range buf {
		buf[i] = l.data[l.pos]
		l.pos++
		if l.pos == len(l.data) {
			l.pos = 0
		}
	}
}

// Position returns the index of the next sample.
func (l *Loop) Position() int { return l.pos }

// Len returns the loop length in samples.
func (l *Loop) Len() int { return len(l.data) }

// Rewind restarts the loop.
func (l *Loop) Rewind() { l.pos = 0 }
