package main

import (
	"errors"
	"flag"
	"fmt"
	"os"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/wav"

	"github.com/justyntemme/hyperclip/internal/automation"
	"github.com/justyntemme/hyperclip/pkg/dsp/analysis"
	"github.com/justyntemme/hyperclip/pkg/framework/debug"
	"github.com/justyntemme/hyperclip/pkg/hyperclip"
)

func runRender(args []string) error {
	fs := flag.NewFlagSet("render", flag.ContinueOnError)
	in := fs.String("in", "", "input WAV file")
	out := fs.String("out", "", "output WAV file")
	block := fs.Int("block", 512, "maximum block size in frames")
	script := fs.String("script", "", "Lua automation script")
	statePath := fs.String("state", "", "parameter state file applied before the flags")
	profile := fs.Bool("profile", false, "print block timing against the real-time budget")
	pf := addParamFlags(fs)
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *in == "" || *out == "" {
		return errors.New("render: -in and -out are required")
	}

	f, err := os.Open(*in)
	if err != nil {
		return err
	}
	defer f.Close()

	src, format, err := wav.Decode(f)
	if err != nil {
		return fmt.Errorf("decode %s: %w", *in, err)
	}
	defer src.Close()

	p, err := newConfiguredPlugin(*statePath, pf)
	if err != nil {
		return err
	}
	cfg := hyperclip.Config{
		SampleRate:   float64(format.SampleRate),
		MaxBlockSize: *block,
		Channels:     min(format.NumChannels, 2),
	}
	if err := p.InitializeConfig(cfg); err != nil {
		return err
	}

	r := newRenderer(p, src)
	if *script != "" {
		s, err := automation.Load(*script, p.Parameters(), cfg.SampleRate)
		if err != nil {
			return err
		}
		defer s.Close()
		r.automate(s)
	}

	dst, err := os.Create(*out)
	if err != nil {
		return err
	}
	defer dst.Close()

	if err := wav.Encode(dst, r.streamer, format); err != nil {
		return fmt.Errorf("encode %s: %w", *out, err)
	}
	if err := r.err(); err != nil {
		return err
	}

	total := r.meter.Total()
	logger.Info("rendered %s: %d frames, peak %.2f dBFS, rms %.2f dBFS",
		*out, r.streamer.Position(), total.PeakDB(), total.RMSDB())
	if r.nonFinite > 0 {
		logger.Warn("%d non-finite output samples", r.nonFinite)
	}
	if r.clipped > 0 {
		logger.Debug("%d samples at or above full scale", r.clipped)
	}
	if *profile {
		fmt.Fprintln(os.Stdout, r.profiler.AudioReport())
	}
	return nil
}

// newConfiguredPlugin creates a plugin, loads the state file if one is
// given and then applies the parameter flags on top.
func newConfiguredPlugin(statePath string, pf *paramFlags) (*hyperclip.Plugin, error) {
	p := hyperclip.New()
	p.SetLogger(logger)
	if statePath != "" {
		if err := loadStateFile(p, statePath); err != nil {
			return nil, err
		}
	}
	if err := pf.apply(p.Editor(nil)); err != nil {
		return nil, err
	}
	return p, nil
}

// renderer drives a Streamer offline and collects what it produced.
type renderer struct {
	streamer  *hyperclip.Streamer
	meter     *analysis.Meter
	analyzer  *debug.AudioAnalyzer
	profiler  *debug.BlockProfiler
	clipped   int
	nonFinite int
	scriptErr error
}

func newRenderer(p *hyperclip.Plugin, src beep.Streamer) *renderer {
	cfg := p.Config()
	r := &renderer{
		streamer: hyperclip.NewStreamer(p, src),
		meter:    analysis.NewMeter(cfg.MaxBlockSize),
		analyzer: debug.NewAudioAnalyzer(),
		profiler: debug.NewBlockProfiler(cfg.SampleRate),
	}
	r.streamer.SetProfiler(r.profiler)
	r.streamer.After(r.inspect)
	return r
}

// automate evaluates the script ahead of every block. The first script
// error stops further evaluation and is reported once rendering ends.
func (r *renderer) automate(s *automation.Script) {
	r.streamer.Before(func(position int) {
		if r.scriptErr == nil {
			r.scriptErr = s.Apply(position)
		}
	})
}

func (r *renderer) inspect(buffers [][]float32) {
	for _, buf := range buffers {
		res := r.analyzer.Analyze(buf)
		r.clipped += res.ClippedSamples
		r.nonFinite += res.NaNCount + res.InfCount
		r.meter.Measure(buf)
	}
}

func (r *renderer) err() error {
	if r.scriptErr != nil {
		return fmt.Errorf("automation: %w", r.scriptErr)
	}
	return r.streamer.Err()
}
