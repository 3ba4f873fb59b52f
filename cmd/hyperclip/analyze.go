package main

import (
	"flag"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/justyntemme/hyperclip/pkg/dsp/analysis"
	"github.com/justyntemme/hyperclip/pkg/dsp/distortion"
	"github.com/justyntemme/hyperclip/pkg/dsp/gain"
	"github.com/justyntemme/hyperclip/pkg/framework/plugin"
	"github.com/justyntemme/hyperclip/pkg/hyperclip"
)

type analyzeOptions struct {
	sampleRate float64
	freq       float64
	amplitude  float64
	size       int
	harmonics  int
	drives     []float64
}

func runAnalyze(args []string) error {
	fs := flag.NewFlagSet("analyze", flag.ContinueOnError)
	sr := fs.Float64("sr", 48000, "sample rate in Hz")
	freq := fs.Float64("freq", 440, "test tone frequency in Hz, moved onto the nearest bin")
	amp := fs.Float64("amp", 0.5, "test tone amplitude")
	size := fs.Int("size", 16384, "analysis length in samples")
	harmonics := fs.Int("harmonics", 9, "highest harmonic counted")
	drives := fs.String("drives", "0,0.25,0.5,0.75,1", "comma separated drive values")
	curve := fs.String("curve", "", "print the static transfer curve of this mode instead")
	spectrum := fs.Bool("spectrum", false, "also print harmonic levels from the magnitude spectrum")
	if err := fs.Parse(args); err != nil {
		return err
	}

	ds, err := parseDrives(*drives)
	if err != nil {
		return err
	}

	if *curve != "" {
		mode, err := distortion.ParseMode(*curve)
		if err != nil {
			return err
		}
		fmt.Fprintln(os.Stdout, curveTable(mode, ds))
		return nil
	}
	opts := analyzeOptions{
		sampleRate: *sr,
		freq:       analysis.CoherentFrequency(*freq, *sr, *size),
		amplitude:  *amp,
		size:       *size,
		harmonics:  *harmonics,
		drives:     ds,
	}

	t := newTable("Mode", "Drive", "Peak", "THD", "THD dB", "Odd", "Even")
	var spectra []string
	for _, mode := range distortion.Modes {
		for _, drive := range opts.drives {
			out, err := renderTone(opts, mode, drive)
			if err != nil {
				return err
			}
			res, err := analysis.THD(out, analysis.THDConfig{
				SampleRate:   opts.sampleRate,
				Fundamental:  opts.freq,
				MaxHarmonics: opts.harmonics,
			})
			if err != nil {
				return fmt.Errorf("%s drive %.2f: %w", mode, drive, err)
			}
			t.Row(
				mode.String(),
				fmt.Sprintf("%.2f", drive),
				fmt.Sprintf("%.2f dB", analysis.NewMeter(len(out)).Measure(toFloat32(out)).PeakDB()),
				fmt.Sprintf("%.2f%%", res.THD*100),
				fmt.Sprintf("%.1f", res.THDdB()),
				fmt.Sprintf("%.1f dB", gain.LinearToDb(res.Odd())),
				fmt.Sprintf("%.1f dB", gain.LinearToDb(res.Even())),
			)
			if *spectrum {
				spectra = append(spectra, harmonicLine(opts, mode, drive, out))
			}
		}
	}

	fmt.Fprintf(os.Stdout, "tone %.2f Hz at %.0f Hz, amplitude %.2f\n", opts.freq, opts.sampleRate, opts.amplitude)
	fmt.Fprintln(os.Stdout, t.Render())
	for _, line := range spectra {
		fmt.Fprintln(os.Stdout, line)
	}
	return nil
}

// renderTone runs a sine through a fresh mono plugin with the parameters
// already settled, so no ramp colours the measurement.
func renderTone(opts analyzeOptions, mode distortion.Mode, drive float64) ([]float64, error) {
	p := hyperclip.New()
	p.SetLogger(logger)
	p.Params().SetMode(mode)
	p.Params().Drive.SetPlainValue(drive)

	cfg := hyperclip.DefaultConfig()
	cfg.SampleRate = opts.sampleRate
	cfg.Channels = 1
	if err := p.InitializeConfig(cfg); err != nil {
		return nil, err
	}
	p.Reset()

	in := make([]float64, opts.size)
	analysis.Sine(in, opts.freq, opts.sampleRate, opts.amplitude)
	buf := toFloat32(in)

	for off := 0; off < len(buf); off += cfg.MaxBlockSize {
		block := buf[off:min(off+cfg.MaxBlockSize, len(buf))]
		if status := p.Process([][]float32{block}); status != plugin.StatusNormal {
			return nil, fmt.Errorf("process: %s", status)
		}
	}

	out := make([]float64, len(buf))
	for i, v := range buf {
		out[i] = float64(v)
	}
	return out, nil
}

func harmonicLine(opts analyzeOptions, mode distortion.Mode, drive float64, out []float64) string {
	s := analysis.NewSpectrum(out, opts.sampleRate)
	fundamental := s.At(opts.freq)

	var sb strings.Builder
	fmt.Fprintf(&sb, "%-11s drive %.2f:", mode, drive)
	for h := 2; h <= opts.harmonics; h++ {
		level := s.At(opts.freq*float64(h)) / fundamental
		fmt.Fprintf(&sb, " H%d %.1f", h, gain.LinearToDb(level))
	}
	return sb.String()
}

func curveTable(mode distortion.Mode, drives []float64) string {
	headers := []string{"Input"}
	var curves [][][2]float64
	for _, d := range drives {
		ws := distortion.NewWaveshaper(mode)
		ws.SetDrive(float32(d))
		curves = append(curves, analysis.TransferCurve(ws.Process, 0, 1, 11))
		headers = append(headers, fmt.Sprintf("drive %.2f", d))
	}

	t := newTable(headers...)
	for i := range curves[0] {
		row := []string{fmt.Sprintf("%.2f", curves[0][i][0])}
		for _, c := range curves {
			row = append(row, fmt.Sprintf("%.4f", c[i][1]))
		}
		t.Row(row...)
	}
	return t.Render()
}

func parseDrives(s string) ([]float64, error) {
	var drives []float64
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		d, err := strconv.ParseFloat(part, 64)
		if err != nil {
			return nil, fmt.Errorf("drive %q: %w", part, err)
		}
		if d < 0 || d > 1 {
			return nil, fmt.Errorf("drive %v outside 0..1", d)
		}
		drives = append(drives, d)
	}
	if len(drives) == 0 {
		return nil, fmt.Errorf("no drive values in %q", s)
	}
	return drives, nil
}

func toFloat32(x []float64) []float32 {
	out := make([]float32, len(x))
	for i, v := range x {
		out[i] = float32(v)
	}
	return out
}
