package main

import (
	"flag"
	"fmt"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/cwbudde/algo-pedal/pedal"
)

// legend describes what the controls of one effect do.
type legend struct {
	knobs  [6]string
	toggle string
}

var legends = map[string]legend{
	pedal.KindOverdrive:  {[6]string{"drive", "tone", "bass", "level", "", "mix"}, "voicing: warm / neutral / bright"},
	pedal.KindDistortion: {[6]string{"gain", "tone", "bass", "level", "", "mix"}, "clipping: hard / medium / soft"},
	pedal.KindFuzz:       {[6]string{"fuzz", "tone", "gate", "level", "", "mix"}, "character: vintage / modern / octave"},
	pedal.KindChorus:     {[6]string{"rate", "depth", "", "", "", "mix"}, "waveform: sine / triangle / square"},
	pedal.KindTremolo:    {[6]string{"rate", "depth", "shape", "level", "", "mix"}, "mode: classic / harmonic / opto"},
	pedal.KindDelay:      {[6]string{"time", "feedback", "filter", "level", "", "mix"}, "range: short / medium / long"},
	pedal.KindReverb:     {[6]string{"size", "damping", "pre-delay", "level", "", "mix"}, "room: small / medium / hall"},
	pedal.KindCompressor: {[6]string{"threshold", "ratio", "attack", "release", "makeup", "mix"}, "knee: hard / 6 dB / 12 dB"},
}

func runList(args []string) error {
	fs := flag.NewFlagSet("list", flag.ContinueOnError)
	names := fs.Bool("names", false, "print effect names only")
	if err := fs.Parse(args); err != nil {
		return err
	}

	kinds := pedal.DefaultRegistry().Kinds()
	if *names {
		for _, k := range kinds {
			fmt.Println(k)
		}
		return nil
	}

	printLegends(kinds)
	return nil
}

func printLegends(kinds []string) {
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "EFFECT\tK1\tK2\tK3\tK4\tK5\tK6\tTOGGLE 1 (up / middle / down)")
	for _, k := range kinds {
		l := legends[k]
		knobs := make([]string, len(l.knobs))
		for i, name := range l.knobs {
			if name == "" {
				name = "-"
			}
			knobs[i] = name
		}
		fmt.Fprintf(w, "%s\t%s\t%s\n", k, strings.Join(knobs, "\t"), l.toggle)
	}
	w.Flush()
	fmt.Println("\nFootswitch 1 toggles bypass on every effect. LED 1 is dark while bypassed.")
}
