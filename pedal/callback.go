package pedal

import "github.com/cwbudde/algo-pedal/dsp/control"

// AudioCallback couples a pedal to a hardware control port. Each call reads
// the controls once and then processes one buffer, the way the audio
// interrupt does on the device.
type AudioCallback struct {
	pedal  *Pedal
	port   control.Port
	reader control.Reader
}

// NewAudioCallback binds p to port.
func NewAudioCallback(p *Pedal, port control.Port) *AudioCallback {
	return &AudioCallback{pedal: p, port: port}
}

// Pedal returns the driven pedal.
func (c *AudioCallback) Pedal() *Pedal { return c.pedal }

// Process reads the controls and processes in into out.
func (c *AudioCallback) Process(in, out []float64) {
	c.pedal.UpdateControls(c.reader.Read(c.port))
	c.pedal.ProcessBuffer(in, out)
}

// Process32 is Process for float32 host buffers.
func (c *AudioCallback) Process32(in, out []float32) {
	c.pedal.UpdateControls(c.reader.Read(c.port))
	c.pedal.ProcessBuffer32(in, out)
}

// Reset forgets footswitch history. A switch held across the reset reports
// one new press.
func (c *AudioCallback) Reset() {
	c.reader.Reset()
}
