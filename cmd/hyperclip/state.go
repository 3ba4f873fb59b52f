package main

import (
	"errors"
	"flag"
	"fmt"
	"os"

	"github.com/justyntemme/hyperclip/pkg/hyperclip"
)

func runState(args []string) error {
	fs := flag.NewFlagSet("state", flag.ContinueOnError)
	save := fs.String("save", "", "write the parameters, after flags, to this file")
	show := fs.String("show", "", "print the parameters stored in this file")
	width := fs.Uint("width", 0, "editor width to store")
	height := fs.Uint("height", 0, "editor height to store")
	pf := addParamFlags(fs)
	if err := fs.Parse(args); err != nil {
		return err
	}

	switch {
	case *show != "":
		p := hyperclip.New()
		p.SetLogger(logger)
		if err := loadStateFile(p, *show); err != nil {
			return err
		}
		fmt.Fprintln(os.Stdout, paramTable(p))
		fmt.Fprintf(os.Stdout, "editor %s\n", p.EditorState())
		return nil

	case *save != "":
		p, err := newConfiguredPlugin("", pf)
		if err != nil {
			return err
		}
		p.EditorState().SetSize(uint32(*width), uint32(*height))
		if err := saveStateFile(p, *save); err != nil {
			return err
		}
		logger.Info("saved state to %s", *save)
		return nil
	}
	return errors.New("state: one of -save or -show is required")
}

func loadStateFile(p *hyperclip.Plugin, path string) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()
	if err := p.LoadState(f); err != nil {
		return fmt.Errorf("load %s: %w", path, err)
	}
	return nil
}

func saveStateFile(p *hyperclip.Plugin, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := p.SaveState(f); err != nil {
		f.Close()
		return fmt.Errorf("save %s: %w", path, err)
	}
	return f.Close()
}
