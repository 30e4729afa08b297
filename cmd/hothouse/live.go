package main

import (
	"context"
	"encoding/binary"
	"flag"
	"fmt"
	"io"
	"math"
	"os"
	"slices"
	"strings"
	"time"

	"github.com/cwbudde/algo-pedal/dsp/control"
	"github.com/cwbudde/algo-pedal/dsp/core"
	"github.com/cwbudde/algo-pedal/dsp/signal"
	"github.com/cwbudde/algo-pedal/internal/wavio"
	"github.com/cwbudde/algo-pedal/pedal"
	"github.com/sirupsen/logrus"
	"golang.org/x/term"
)

// footswitchHold is how long a key press holds a footswitch down.
const footswitchHold = 50 * time.Millisecond

// statusInterval is the refresh period of the status line.
const statusInterval = 50 * time.Millisecond

// audioOutput plays a stream of mono little-endian float32 samples.
type audioOutput interface {
	Play(r io.Reader) error
	Close() error
}

type liveFlags struct {
	pedalFlags
	in      string
	source  string
	seconds float64
	latency time.Duration
}

func runLive(args []string) error {
	var f liveFlags
	fs := flag.NewFlagSet("live", flag.ContinueOnError)
	f.register(fs)
	fs.StringVar(&f.in, "in", "", "WAV file to loop; when empty a -source signal is generated")
	fs.StringVar(&f.source, "source", "pluck", "generated input: pluck, sine, noise or impulse")
	fs.Float64Var(&f.seconds, "seconds", 4, "length of the generated loop in seconds")
	fs.DurationVar(&f.latency, "latency", 40*time.Millisecond, "output device buffer")
	if err := fs.Parse(args); err != nil {
		return err
	}
	setupLogging(f.verbose)
	if err := f.validate(); err != nil {
		return err
	}

	input, err := f.loop()
	if err != nil {
		return err
	}

	initial, err := f.snapshot()
	if err != nil {
		return err
	}
	port := control.NewStaticPort()
	loadPort(port, initial)

	reg := pedal.DefaultRegistry()
	p := pedal.New(f.processorOptions()...)
	p.UpdateControls(initial)
	if _, err := p.Install(reg, f.effect); err != nil {
		return err
	}

	cfg := p.Config()
	out, err := openAudio(int(math.Round(cfg.SampleRate)), f.latency)
	if err != nil {
		return err
	}
	defer out.Close()

	if err := out.Play(newStream(pedal.NewAudioCallback(p, port), signal.NewLoop(input), cfg.BufferSize)); err != nil {
		return err
	}

	logrus.WithFields(logrus.Fields{
		"effect":      f.effect,
		"sample_rate": cfg.SampleRate,
		"buffer_size": cfg.BufferSize,
	}).Debug("live start")

	return session(p, reg, port)
}

func (f *liveFlags) loop() ([]float64, error) {
	if f.in == "" {
		if f.seconds <= 0 {
			return nil, fmt.Errorf("live: seconds must be > 0: %g", f.seconds)
		}
		return generate(f.source, f.sampleRate, f.seconds, 1)
	}
	clip, err := wavio.ReadFile(f.in)
	if err != nil {
		return nil, err
	}
	f.sampleRate = float64(clip.SampleRate)
	return clip.Samples, nil
}

// session reads keys until quit, printing the pedal state as it changes.
func session(p *pedal.Pedal, reg *pedal.Registry, port *control.StaticPort) error {
	fd := int(os.Stdin.Fd())
	if term.IsTerminal(fd) {
		state, err := term.MakeRaw(fd)
		if err != nil {
			return fmt.Errorf("live: raw terminal: %w", err)
		}
		defer term.Restore(fd, state)
	}
	fmt.Fprint(os.Stdout, strings.ReplaceAll(keyHelp, "\n", "\r\n"))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	keys := make(chan byte)
	go readKeys(ctx, os.Stdin, keys)
	go p.RunLEDs(ctx, control.LEDWriterFunc(func(leds control.LEDs) {
		fmt.Fprintf(os.Stdout, "\r%s\033[K", status(p, port, leds))
	}), statusInterval)

	kinds := reg.Kinds()
	for b := range keys {
		switch handleKey(b, port) {
		case keyQuit:
			fmt.Fprint(os.Stdout, "\r\n")
			return nil
		case keyFootswitch1:
			press(port, control.Footswitch1)
		case keyFootswitch2:
			press(port, control.Footswitch2)
		case keyNextEffect:
			if err := switchEffect(p, reg, kinds, 1); err != nil {
				return err
			}
		case keyPrevEffect:
			if err := switchEffect(p, reg, kinds, -1); err != nil {
				return err
			}
		}
	}
	fmt.Fprint(os.Stdout, "\r\n")
	return nil
}

func readKeys(ctx context.Context, r io.Reader, keys chan<- byte) {
	defer close(keys)
	buf := make([]byte, 16)
	for {
		n, err := r.Read(buf)
		for _, b := range buf[:n] {
			select {
			case keys <- b:
			case <-ctx.Done():
				return
			}
		}
		if err != nil {
			return
		}
	}
}

// press holds a footswitch long enough for at least one audio callback to
// see it, then releases it.
func press(port *control.StaticPort, f control.Footswitch) {
	port.SetFootswitch(f, true)
	time.AfterFunc(footswitchHold, func() { port.SetFootswitch(f, false) })
}

func switchEffect(p *pedal.Pedal, reg *pedal.Registry, kinds []string, step int) error {
	i := slices.Index(kinds, p.Kind())
	next := kinds[((i+step)%len(kinds)+len(kinds))%len(kinds)]
	_, err := p.Install(reg, next)
	return err
}

func status(p *pedal.Pedal, port *control.StaticPort, leds control.LEDs) string {
	var sb strings.Builder
	led := "o"
	if leds.Get(control.LED1) > 0.5 {
		led = "*"
	}
	fmt.Fprintf(&sb, "%-10s LED %s  knobs", p.Kind(), led)
	for k := range control.NumKnobs {
		fmt.Fprintf(&sb, " %.2f", port.Knob(control.Knob(k)))
	}
	sb.WriteString("  toggles")
	for t := range control.NumToggles {
		fmt.Fprintf(&sb, " %s", port.Toggle(control.Toggle(t)))
	}
	return sb.String()
}

// stream renders a looped input through the pedal callback on demand and
// encodes it for the audio device.
type stream struct {
	cb    *pedal.AudioCallback
	src   *signal.Loop
	block int
	in    []float64
	out   []float64
}

func newStream(cb *pedal.AudioCallback, src *signal.Loop, block int) *stream {
	block = max(1, block)
	return &stream{
		cb:    cb,
		src:   src,
		block: block,
		in:    make([]float64, block),
		out:   make([]float64, block),
	}
}

// Read fills p with whole float32 frames, running one callback per block.
func (s *stream) Read(p []byte) (int, error) {
	frames := len(p) / 4
	for done := 0; done < frames; {
		n := min(s.block, frames-done)
		in, out := s.in[:n], s.out[:n]
		s.src.Fill(in)
		s.cb.Process(in, out)
		core.ClampBuffer(out)
		for i, v := range out {
			binary.LittleEndian.PutUint32(p[4*(done+i):], math.Float32bits(float32(v)))
		}
		done += n
	}
	return frames * 4, nil
}
