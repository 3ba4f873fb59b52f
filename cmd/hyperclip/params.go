package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/justyntemme/hyperclip/pkg/dsp/gain"
	"github.com/justyntemme/hyperclip/pkg/framework/editor"
	"github.com/justyntemme/hyperclip/pkg/hyperclip"
)

// paramFlags are the parameter overrides shared by render, play and state.
// Only flags given on the command line are applied.
type paramFlags struct {
	fs           *flag.FlagSet
	inputGainDB  float64
	outputGainDB float64
	drive        float64
	mode         string
}

func addParamFlags(fs *flag.FlagSet) *paramFlags {
	pf := &paramFlags{fs: fs}
	fs.Float64Var(&pf.inputGainDB, "input-gain-db", 0, "input gain in dB (-30 to 30)")
	fs.Float64Var(&pf.outputGainDB, "output-gain-db", 0, "output gain in dB (-30 to 30)")
	fs.Float64Var(&pf.drive, "drive", 0, "drive from 0 to 1")
	fs.StringVar(&pf.mode, "mode", "Linear", "mode: Linear, Exponential, Logarithmic or Sine")
	return pf
}

// apply writes the explicitly set flags through the editor handle, one
// gesture per parameter.
func (pf *paramFlags) apply(h *editor.Handle) error {
	var err error
	pf.fs.Visit(func(f *flag.Flag) {
		if err != nil {
			return
		}
		switch f.Name {
		case "input-gain-db":
			err = h.Edit(hyperclip.KeyInputGain, func() error {
				return h.Set(hyperclip.KeyInputGain, gain.DbToLinear(pf.inputGainDB))
			})
		case "output-gain-db":
			err = h.Edit(hyperclip.KeyOutputGain, func() error {
				return h.Set(hyperclip.KeyOutputGain, gain.DbToLinear(pf.outputGainDB))
			})
		case "drive":
			err = h.Edit(hyperclip.KeyDrive, func() error {
				return h.Set(hyperclip.KeyDrive, pf.drive)
			})
		case "mode":
			err = h.Edit(hyperclip.KeyMode, func() error {
				return h.SetText(hyperclip.KeyMode, pf.mode)
			})
		}
	})
	return err
}

func runParams(args []string) error {
	fs := flag.NewFlagSet("params", flag.ContinueOnError)
	pf := addParamFlags(fs)
	if err := fs.Parse(args); err != nil {
		return err
	}

	p := hyperclip.New()
	p.SetLogger(logger)
	if err := pf.apply(p.Editor(nil)); err != nil {
		return err
	}
	fmt.Fprintln(os.Stdout, paramTable(p))
	return nil
}

// paramTable renders every parameter with its current value and range.
func paramTable(p *hyperclip.Plugin) string {
	t := newTable("Key", "Name", "Value", "Normalized", "Default", "Range")
	for _, prm := range p.Parameters().All() {
		n := prm.GetValue()
		t.Row(
			prm.Key,
			prm.Name,
			prm.FormatValue(n),
			fmt.Sprintf("%.4f", n),
			prm.FormatValue(prm.DefaultValue),
			prm.FormatValue(0)+" .. "+prm.FormatValue(1),
		)
	}
	return t.Render()
}
