// Command hyperclip renders, plays and measures the folding waveshaper.
//
// Usage:
//
//	hyperclip [-log-level info] [-log-file path] <command> [flags]
//
// Commands:
//
//	params   list parameters and their current values
//	render   process a WAV file
//	play     process a file or test tone in real time
//	analyze  measure harmonic distortion per mode and drive
//	state    save or inspect a parameter state file
package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/justyntemme/hyperclip/pkg/framework/debug"
)

type command struct {
	name  string
	usage string
	run   func(args []string) error
}

// logger is shared by every command and the plugins they create.
var logger = debug.Default()

var commands = []command{
	{"params", "list parameters and their current values", runParams},
	{"render", "process a WAV file", runRender},
	{"play", "process a file or test tone in real time", runPlay},
	{"analyze", "measure harmonic distortion per mode and drive", runAnalyze},
	{"state", "save or inspect a parameter state file", runState},
}

func main() {
	if err := run(os.Args[1:]); err != nil {
		if !errors.Is(err, flag.ErrHelp) {
			logger.Error("%v", err)
		}
		os.Exit(1)
	}
}

func run(args []string) error {
	fs := flag.NewFlagSet("hyperclip", flag.ContinueOnError)
	level := fs.String("log-level", "info", "log level: debug, info, warn, error or off")
	logFile := fs.String("log-file", "", "append log output to this file")
	fs.Usage = func() { usage(fs.Output(), fs) }
	if err := fs.Parse(args); err != nil {
		return err
	}

	lvl, err := debug.ParseLevel(*level)
	if err != nil {
		return err
	}
	logger.SetLevel(lvl)

	if *logFile != "" {
		fileLogger, closer, err := debug.NewFileLogger(*logFile, "hyperclip", debug.DefaultFlags)
		if err != nil {
			return err
		}
		defer closer.Close()
		fileLogger.SetLevel(lvl)
		logger = fileLogger
	}

	if fs.NArg() == 0 {
		usage(os.Stderr, fs)
		return flag.ErrHelp
	}

	name := fs.Arg(0)
	for _, c := range commands {
		if c.name == name {
			return c.run(fs.Args()[1:])
		}
	}
	return fmt.Errorf("unknown command %q", name)
}

func usage(w io.Writer, fs *flag.FlagSet) {
	fmt.Fprintf(w, "Usage: hyperclip [flags] <command> [command flags]\n\nCommands:\n")
	for _, c := range commands {
		fmt.Fprintf(w, "  %-8s %s\n", c.name, c.usage)
	}
	fmt.Fprintf(w, "\nFlags:\n")
	fs.SetOutput(w)
	fs.PrintDefaults()
}
