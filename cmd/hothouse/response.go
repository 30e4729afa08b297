package main

import (
	"flag"
	"fmt"
	"io"
	"os"
	"text/tabwriter"

	"github.com/cwbudde/algo-pedal/dsp/core"
	"github.com/cwbudde/algo-pedal/dsp/effects/dynamics"
	"github.com/cwbudde/algo-pedal/measure/response"
	"github.com/cwbudde/algo-pedal/pedal"
	"github.com/sirupsen/logrus"
)

// responseFrequencies are the spectrum points printed by the response command.
var responseFrequencies = []float64{50, 100, 200, 500, 1000, 2000, 5000, 10000}

// driveLevels are the input levels in dBFS used for the gain table.
var driveLevels = []float64{-40, -20, -12, -6, 0}

const harmonicsFFTSize = 8192

type responseFlags struct {
	pedalFlags
	seconds float64
}

func runResponse(args []string) error {
	var f responseFlags
	fs := flag.NewFlagSet("response", flag.ContinueOnError)
	f.register(fs)
	fs.Float64Var(&f.seconds, "seconds", 2, "impulse response length in seconds")
	if err := fs.Parse(args); err != nil {
		return err
	}
	setupLogging(f.verbose)

	return measureResponse(os.Stdout, f)
}

// measureResponse prints the small-signal spectrum, the decay and the
// large-signal gain and distortion of the configured effect.
func measureResponse(w io.Writer, f responseFlags) error {
	if err := f.validate(); err != nil {
		return err
	}
	if f.seconds <= 0 {
		return fmt.Errorf("response: seconds must be > 0: %g", f.seconds)
	}

	s, err := f.snapshot()
	if err != nil {
		return err
	}

	cfg := core.ApplyProcessorOptions(f.processorOptions()...)
	e, err := pedal.DefaultRegistry().New(f.effect, cfg.SampleRate)
	if err != nil {
		return err
	}
	if a, ok := e.(pedal.ControlApplier); ok {
		a.ApplyControls(s)
	} else {
		e.UpdateFromControls(s)
	}

	logrus.WithFields(logrus.Fields{
		"effect":      f.effect,
		"sample_rate": cfg.SampleRate,
		"knobs":       s.Knobs,
		"toggles":     s.Toggles,
	}).Debug("measuring")

	ir := response.Impulse(e, 0.1, int(f.seconds*cfg.SampleRate))

	sp, err := response.NewSpectrum(ir, cfg.SampleRate, 0)
	if err != nil {
		return err
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', tabwriter.AlignRight)
	fmt.Fprintf(w, "%s @ %.0f Hz\n\n", f.effect, cfg.SampleRate)
	fmt.Fprintln(tw, "FREQ (Hz)\tIMPULSE (dB)\t")
	for _, hz := range responseFrequencies {
		if hz >= cfg.SampleRate/2 {
			continue
		}
		// The impulse is at -20 dBFS; report the gain relative to it.
		fmt.Fprintf(tw, "%.0f\t%.1f\t\n", hz, sp.DBAt(hz)+20)
	}
	tw.Flush()

	decay, err := response.AnalyzeDecay(ir, cfg.SampleRate)
	if err != nil {
		return err
	}
	fmt.Fprintf(w, "\nonset %.2f ms, peak %.2f ms", 1000*float64(decay.Onset)/cfg.SampleRate, 1000*float64(decay.Peak)/cfg.SampleRate)
	if decay.RT60 > 0 {
		fmt.Fprintf(w, ", EDT %.2f s, RT60 %.2f s", decay.EDT, decay.RT60)
	}
	fmt.Fprintln(w)

	// The compressor also reports its static curve and the deepest gain
	// reduction metered during the harmonics run.
	comp, _ := e.(*dynamics.Compressor)

	tw = tabwriter.NewWriter(w, 0, 0, 2, ' ', tabwriter.AlignRight)
	fmt.Fprintln(w)
	header := "INPUT (dBFS)\tGAIN @ 1 kHz (dB)\tTHD (%)\t"
	if comp != nil {
		header += "STATIC (dB)\tMAX GR (dB)\t"
	}
	fmt.Fprintln(tw, header)

	n := max(2, int(0.25*cfg.SampleRate))
	for _, db := range driveLevels {
		amp := core.DBToLinear(db)
		g, err := response.SineGain(e, 1000, cfg.SampleRate, amp, n)
		if err != nil {
			return err
		}
		h, err := response.MeasureHarmonics(e, 1000, cfg.SampleRate, amp, harmonicsFFTSize, 0)
		if err != nil {
			return err
		}

		fmt.Fprintf(tw, "%.0f\t%.1f\t%.2f\t", db, core.LinearToDB(g), 100*h.THD)
		if comp != nil {
			static := core.LinearToDB(comp.CalculateOutputLevel(amp) / amp)
			fmt.Fprintf(tw, "%.1f\t%.1f\t", static, comp.GetMetrics().GainReduction)
		}
		fmt.Fprintln(tw)
	}
	return tw.Flush()
}
