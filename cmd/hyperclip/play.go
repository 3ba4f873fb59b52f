package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"time"

	"github.com/ebitengine/oto/v3"
	"github.com/gopxl/beep"
	"github.com/gopxl/beep/wav"

	"github.com/justyntemme/hyperclip/internal/midicc"
	"github.com/justyntemme/hyperclip/internal/midicc/pmsource"
	"github.com/justyntemme/hyperclip/pkg/dsp/analysis"
	"github.com/justyntemme/hyperclip/pkg/hyperclip"
)

func runPlay(args []string) error {
	fs := flag.NewFlagSet("play", flag.ContinueOnError)
	in := fs.String("in", "", "WAV file to loop; a test tone plays when empty")
	toneHz := fs.Float64("tone", 110, "test tone frequency in Hz")
	toneSR := fs.Int("sr", 48000, "test tone sample rate")
	block := fs.Int("block", 256, "maximum block size in frames")
	latency := fs.Duration("latency", 50*time.Millisecond, "output buffer length")
	statePath := fs.String("state", "", "parameter state file applied before the flags")
	useMIDI := fs.Bool("midi", false, "map MIDI control changes onto parameters")
	device := fs.Int("midi-device", -1, "MIDI input device, -1 for the default")
	listDevices := fs.Bool("midi-list", false, "list MIDI inputs and exit")
	ccMap := fs.String("cc", "", "controller mapping such as 20=input-gain,22=drive")
	channel := fs.Int("channel", -1, "MIDI channel 0-15, -1 for all")
	pf := addParamFlags(fs)
	if err := fs.Parse(args); err != nil {
		return err
	}

	if *listDevices {
		return printMIDIDevices()
	}

	p, err := newConfiguredPlugin(*statePath, pf)
	if err != nil {
		return err
	}

	src, sampleRate, closeSrc, err := openSource(*in, *toneHz, *toneSR)
	if err != nil {
		return err
	}
	defer closeSrc.Close()

	cfg := hyperclip.Config{SampleRate: float64(sampleRate), MaxBlockSize: *block, Channels: 2}
	if err := p.InitializeConfig(cfg); err != nil {
		return err
	}

	meter := analysis.NewPeakMeter(cfg.SampleRate, cfg.MaxBlockSize)
	st := hyperclip.NewStreamer(p, src)
	st.After(func(buffers [][]float32) {
		// left channel only, so the decay runs once per block
		meter.Process(buffers[0])
	})
	out := newOutput(st, sampleRate/10)
	otoCtx, ready, err := oto.NewContext(&oto.NewContextOptions{
		SampleRate:   sampleRate,
		ChannelCount: 2,
		Format:       oto.FormatFloat32LE,
		BufferSize:   *latency,
	})
	if err != nil {
		return fmt.Errorf("audio output: %w", err)
	}
	<-ready

	player := otoCtx.NewPlayer(out)
	defer player.Close()
	player.Play()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	kb := newKeyboard(p)

	if *useMIDI {
		mapping := midicc.DefaultMapping()
		if *ccMap != "" {
			if mapping, err = midicc.ParseMapping(*ccMap); err != nil {
				return err
			}
		}
		midiIn, err := pmsource.Open(*device)
		if err != nil {
			return err
		}
		defer midiIn.Close()

		ctrl := midicc.NewController(kb.handle, mapping)
		ctrl.SetChannel(*channel)
		ctrl.SetLogger(logger)
		go func() {
			if err := ctrl.Run(ctx, midiIn, 2*time.Millisecond); err != nil {
				logger.Error("%v", err)
				stop()
			}
		}()
		logger.Info("midi control: %s", mapping)
	}

	keys, restore, err := rawTerminal()
	if err != nil {
		logger.Warn("keyboard control disabled: %v", err)
	}
	defer restore()
	if keys != nil {
		fmt.Fprintf(os.Stdout, "%s\r\n", theme.warn.Render(keyHelp))
	}

	ticker := time.NewTicker(100 * time.Millisecond)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			fmt.Fprint(os.Stdout, "\r\n")
			return nil

		case b, ok := <-keys:
			if !ok {
				keys = nil
				continue
			}
			quit, err := kb.press(b)
			if err != nil {
				logger.Warn("%v", err)
			}
			if quit {
				fmt.Fprint(os.Stdout, "\r\n")
				return nil
			}

		case <-ticker.C:
			if out.Done() {
				fmt.Fprint(os.Stdout, "\r\n")
				return nil
			}
			fmt.Fprintf(os.Stdout, "\r%s %s\x1b[K", kb.statusLine(), meterLine(meter))
			if err := player.Err(); err != nil {
				return fmt.Errorf("audio output: %w", err)
			}
		}
	}
}

// openSource loops a WAV file or, without one, returns a test tone.
func openSource(path string, toneHz float64, toneSR int) (beep.Streamer, int, io.Closer, error) {
	if path == "" {
		return tone(toneHz, float64(toneSR), 0.5), toneSR, io.NopCloser(nil), nil
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, 0, nil, err
	}
	src, format, err := wav.Decode(f)
	if err != nil {
		f.Close()
		return nil, 0, nil, fmt.Errorf("decode %s: %w", path, err)
	}
	closer := closerFunc(func() error {
		return errors.Join(src.Close(), f.Close())
	})
	return beep.Loop(-1, src), int(format.SampleRate), closer, nil
}

type closerFunc func() error

func (f closerFunc) Close() error { return f() }

func printMIDIDevices() error {
	if err := pmsource.Initialize(); err != nil {
		return err
	}
	defer pmsource.Terminate()

	t := newTable("ID", "Name", "Interface")
	for _, d := range pmsource.Devices() {
		t.Row(fmt.Sprint(d.ID), d.Name, d.Interface)
	}
	fmt.Fprintln(os.Stdout, t.Render())
	return nil
}

func meterLine(m *analysis.PeakMeter) string {
	line := fmt.Sprintf("peak %6.1f dB  hold %6.1f dB", max(m.PeakDB(), -99), max(m.HoldDB(), -99))
	if m.Hold() >= 1 {
		return theme.err.Render(line)
	}
	return theme.warn.Render(line)
}
