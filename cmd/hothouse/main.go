// Command hothouse runs the pedal effects offline and live.
//
// Usage:
//
//	hothouse <command> [flags]
//
// Commands:
//
//	list      print the available effects and their controls
//	render    process a WAV file or a generated signal through an effect
//	response  print the frequency, decay and drive response of an effect
//	live      play a looped signal through an effect, controlled from the keyboard
//
// Examples:
//
//	hothouse list
//	hothouse render -effect overdrive -knobs 0.8,0.6,0.5,0.7,0.5,1 -in dry.wav -out wet.wav
//	hothouse render -effect tremolo -script sweep.lua -out trem.wav
//	hothouse response -effect reverb -toggles down
//	hothouse live -effect chorus
package main

import (
	"fmt"
	"os"

	"github.com/sirupsen/logrus"
)

type command struct {
	name    string
	summary string
	run     func(args []string) error
}

var commands = []command{
	{"list", "print the available effects and their controls", runList},
	{"render", "process a WAV file or a generated signal through an effect", runRender},
	{"response", "print the frequency, decay and drive response of an effect", runResponse},
	{"live", "play a looped signal through an effect, controlled from the keyboard", runLive},
}

func main() {
	if len(os.Args) < 2 {
		usage()
		os.Exit(2)
	}

	name := os.Args[1]
	if name == "-h" || name == "-help" || name == "--help" || name == "help" {
		usage()
		return
	}

	for _, c := range commands {
		if c.name != name {
			continue
		}
		if err := c.run(os.Args[2:]); err != nil {
			logrus.WithField("command", name).Error(err)
			os.Exit(1)
		}
		return
	}

	fmt.Fprintf(os.Stderr, "error: unknown command %q\n\n", name)
	usage()
	os.Exit(2)
}

func usage() {
	fmt.Fprintf(os.Stderr, "Usage: hothouse <command> [flags]\n\n")
	fmt.Fprintf(os.Stderr, "Runs Hothouse pedal effects offline and live.\n\n")
	fmt.Fprintf(os.Stderr, "Commands:\n")
	for _, c := range commands {
		fmt.Fprintf(os.Stderr, "  %-9s %s\n", c.name, c.summary)
	}
	fmt.Fprintf(os.Stderr, "\nRun 'hothouse <command> -h' for command flags.\n")
}

func setupLogging(verbose bool) {
	logrus.SetOutput(os.Stderr)
	logrus.SetFormatter(&logrus.TextFormatter{DisableTimestamp: true})
	if verbose {
		logrus.SetLevel(logrus.DebugLevel)
	} else {
		logrus.SetLevel(logrus.InfoLevel)
	}
}
