package pedal

import (
	"context"
	"math"
	"sync"
	"sync/atomic"
	"time"

	"github.com/cwbudde/algo-pedal/dsp/control"
	"github.com/cwbudde/algo-pedal/dsp/core"
)

// DefaultLEDInterval is the refresh period of RunLEDs when none is given.
const DefaultLEDInterval = time.Millisecond

// Pedal routes audio through one installed effect.
//
// The pedal is either active or bypassed. A rising edge on footswitch 1
// toggles between the two. While bypassed, or with no effect installed,
// audio passes through unchanged. LED 1 follows the effect's LEDState while
// active and is dark otherwise.
//
// UpdateControls and the Process methods belong to the audio goroutine.
// SetEffect, Bypass, LEDs and Controls may be called from other goroutines.
// An effect's LEDState is read by SetEffect before the effect is published
// and by UpdateControls afterwards, never from two goroutines at once.
type Pedal struct {
	cfg  core.ProcessorConfig
	slot Slot

	bypassed atomic.Bool
	leds     [control.NumLEDs]atomic.Uint64

	mu       sync.Mutex
	controls control.Snapshot
}

// New creates an active pedal with no effect installed.
func New(opts ...core.ProcessorOption) *Pedal {
	return &Pedal{
		cfg:      core.ApplyProcessorOptions(opts...),
		controls: control.Neutral(),
	}
}

// SetEffect installs e, resetting it and bringing its parameters to the last
// control snapshot. A nil e removes the current effect.
func (p *Pedal) SetEffect(e Effect) {
	p.install("", e)
}

// Install builds the effect registered under kind at the pedal's sample rate
// and installs it.
func (p *Pedal) Install(r *Registry, kind string) (Effect, error) {
	e, err := r.New(kind, p.cfg.SampleRate)
	if err != nil {
		return nil, err
	}
	p.install(kind, e)
	return e, nil
}

// install prepares e and publishes it. e is only touched before Store; once
// published it belongs to the audio goroutine.
func (p *Pedal) install(kind string, e Effect) {
	led := 0.0
	if e != nil {
		e.Reset()
		s := p.Controls()
		if a, ok := e.(ControlApplier); ok {
			a.ApplyControls(s)
		} else {
			e.UpdateFromControls(s)
		}
		led = e.LEDState()
	}
	p.slot.Store(kind, e)
	p.storeLED(led)
}

// Effect returns the installed effect, or nil.
func (p *Pedal) Effect() Effect { return p.slot.Load() }

// Kind returns the registry name of the installed effect, or "".
func (p *Pedal) Kind() string { return p.slot.Kind() }

// UpdateControls applies one control snapshot. Call it once at the start of
// every audio buffer.
func (p *Pedal) UpdateControls(s control.Snapshot) {
	s = s.Sanitize()

	p.mu.Lock()
	p.controls = s
	p.mu.Unlock()

	if s.RisingEdge(control.Footswitch1) {
		p.toggleBypass()
	}

	e := p.slot.Load()
	if e != nil {
		e.UpdateFromControls(s)
	}
	p.refreshLED(e)
}

// Bypass forces the bypass state. LED 1 goes dark immediately when enabling
// and picks up the effect again at the next UpdateControls.
func (p *Pedal) Bypass(enable bool) {
	p.bypassed.Store(enable)
	if enable {
		p.leds[control.LED1].Store(0)
	}
}

// IsBypassed reports whether audio currently passes through unprocessed.
func (p *Pedal) IsBypassed() bool { return p.bypassed.Load() }

// LEDs returns the current LED brightness values.
func (p *Pedal) LEDs() control.LEDs {
	var l control.LEDs
	for i := range p.leds {
		l[i] = math.Float64frombits(p.leds[i].Load())
	}
	return l
}

// Config returns the processor configuration.
func (p *Pedal) Config() core.ProcessorConfig { return p.cfg }

// Controls returns the last applied control snapshot.
func (p *Pedal) Controls() control.Snapshot {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.controls
}

// Process processes one sample.
func (p *Pedal) Process(input float64) float64 {
	e := p.active()
	if e == nil {
		return input
	}
	return e.ProcessSample(input)
}

// ProcessBuffer processes min(len(in), len(out)) samples from in into out.
// in and out may be the same slice. The effect and bypass state are read once,
// so a concurrent SetEffect takes hold at the next buffer.
func (p *Pedal) ProcessBuffer(in, out []float64) {
	n := core.CopyInto(out, in)
	if e := p.active(); e != nil {
		e.ProcessInPlace(out[:n])
	}
}

// ProcessBuffer32 is ProcessBuffer for float32 host buffers.
func (p *Pedal) ProcessBuffer32(in, out []float32) {
	n := min(len(in), len(out))
	e := p.active()
	if e == nil {
		copy(out[:n], in[:n])
		return
	}
	for i := range n {
		out[i] = float32(e.ProcessSample(float64(in[i])))
	}
}

// RunLEDs pushes LED values to w every interval until ctx is done.
// A non-positive interval selects DefaultLEDInterval.
func (p *Pedal) RunLEDs(ctx context.Context, w control.LEDWriter, interval time.Duration) {
	if interval <= 0 {
		interval = DefaultLEDInterval
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			w.WriteLEDs(p.LEDs())
		}
	}
}

func (p *Pedal) active() Effect {
	if p.bypassed.Load() {
		return nil
	}
	return p.slot.Load()
}

func (p *Pedal) toggleBypass() {
	for {
		old := p.bypassed.Load()
		if p.bypassed.CompareAndSwap(old, !old) {
			return
		}
	}
}

// refreshLED reads e's LED state. Only the audio goroutine may call it.
func (p *Pedal) refreshLED(e Effect) {
	led := 0.0
	if e != nil {
		led = e.LEDState()
	}
	p.storeLED(led)
}

// storeLED publishes LED 1, dark while bypassed.
func (p *Pedal) storeLED(brightness float64) {
	var l control.LEDs
	if !p.bypassed.Load() {
		l.Set(control.LED1, brightness)
	}
	p.leds[control.LED1].Store(math.Float64bits(l.Get(control.LED1)))
}
