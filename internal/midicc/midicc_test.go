package midicc

import (
	"bytes"
	"context"
	"errors"
	"math"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/justyntemme/hyperclip/pkg/dsp/distortion"
	"github.com/justyntemme/hyperclip/pkg/framework/debug"
	"github.com/justyntemme/hyperclip/pkg/hyperclip"
)

func newController(t *testing.T) (*Controller, *hyperclip.Plugin) {
	t.Helper()
	p := hyperclip.New()
	return NewController(p.Editor(nil), DefaultMapping()), p
}

func TestHandle(t *testing.T) {
	t.Run("DriveFullScale", func(t *testing.T) {
		c, p := newController(t)
		ok, err := c.Handle(Event{Status: 0xB0, Data1: 22, Data2: 127})
		if err != nil || !ok {
			t.Fatalf("Handle = %v, %v", ok, err)
		}
		if got := p.Params().Drive.GetValue(); got != 1 {
			t.Errorf("drive = %f, want 1", got)
		}
	})

	t.Run("GainMidpoint", func(t *testing.T) {
		c, p := newController(t)
		if _, err := c.Handle(Event{Status: 0xB3, Data1: 20, Data2: 0}); err != nil {
			t.Fatal(err)
		}
		if got := p.Params().InputGain.GetValue(); got != 0 {
			t.Errorf("input gain = %f, want 0", got)
		}
		if _, err := c.Handle(Event{Status: 0xB0, Data1: 21, Data2: 64}); err != nil {
			t.Fatal(err)
		}
		if got := p.Params().OutputGain.GetValue(); math.Abs(got-64.0/127) > 1e-12 {
			t.Errorf("output gain = %f, want %f", got, 64.0/127)
		}
	})

	t.Run("ModeEnds", func(t *testing.T) {
		c, p := newController(t)
		c.Handle(Event{Status: 0xB0, Data1: 23, Data2: 127})
		if m := p.Params().SelectedMode(); m != distortion.ModeSine {
			t.Errorf("mode = %s, want Sine", m)
		}
		c.Handle(Event{Status: 0xB0, Data1: 23, Data2: 0})
		if m := p.Params().SelectedMode(); m != distortion.ModeLinear {
			t.Errorf("mode = %s, want Linear", m)
		}
	})

	t.Run("Ignored", func(t *testing.T) {
		tests := []struct {
			name string
			ev   Event
		}{
			{"NoteOn", Event{Status: 0x90, Data1: 22, Data2: 100}},
			{"UnmappedCC", Event{Status: 0xB0, Data1: 7, Data2: 100}},
			{"PitchBend", Event{Status: 0xE0, Data1: 0, Data2: 64}},
		}
		for _, test := range tests {
			t.Run(test.name, func(t *testing.T) {
				c, p := newController(t)
				before := p.Parameters().Snapshot()
				ok, err := c.Handle(test.ev)
				if ok || err != nil {
					t.Errorf("Handle = %v, %v", ok, err)
				}
				after := p.Parameters().Snapshot()
				for i := range before {
					if before[i] != after[i] {
						t.Errorf("%s changed", before[i].Key)
					}
				}
			})
		}
	})

	t.Run("ChannelFilter", func(t *testing.T) {
		c, p := newController(t)
		c.SetChannel(2)
		if ok, _ := c.Handle(Event{Status: 0xB0, Data1: 22, Data2: 127}); ok {
			t.Error("channel 0 should be ignored")
		}
		if ok, _ := c.Handle(Event{Status: 0xB2, Data1: 22, Data2: 127}); !ok {
			t.Error("channel 2 should be applied")
		}
		if p.Params().Drive.GetValue() != 1 {
			t.Error("drive not applied")
		}
	})

	t.Run("UnknownKey", func(t *testing.T) {
		c, _ := newController(t)
		c.mapping = Mapping{1: "wet"}
		if _, err := c.Handle(Event{Status: 0xB0, Data1: 1, Data2: 1}); err == nil {
			t.Error("expected error for unknown parameter")
		}
	})
}

func TestParseMapping(t *testing.T) {
	m, err := ParseMapping(" 1=drive, 74 = mode ,")
	if err != nil {
		t.Fatal(err)
	}
	if m[1] != "drive" || m[74] != "mode" || len(m) != 2 {
		t.Errorf("mapping = %v", m)
	}
	if m.String() != "1=drive,74=mode" {
		t.Errorf("String = %s", m)
	}
	if DefaultMapping().String() != "20=input-gain,21=output-gain,22=drive,23=mode" {
		t.Errorf("default = %s", DefaultMapping())
	}

	for _, bad := range []string{"", "drive", "128=drive", "x=drive"} {
		if _, err := ParseMapping(bad); err == nil {
			t.Errorf("ParseMapping(%q) should fail", bad)
		}
	}
}

type fakeSource struct {
	mu     sync.Mutex
	events []Event
	err    error
}

func (f *fakeSource) Read(max int) ([]Event, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	n := min(max, len(f.events))
	out := f.events[:n]
	f.events = f.events[n:]
	return out, nil
}

func (f *fakeSource) pending() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.events)
}

func TestRun(t *testing.T) {
	t.Run("AppliesUntilCancelled", func(t *testing.T) {
		c, p := newController(t)
		var logs bytes.Buffer
		logger := debug.New(&logs, "midi", 0)
		c.SetLogger(logger)

		src := &fakeSource{events: []Event{
			{Status: 0xB0, Data1: 22, Data2: 127},
			{Status: 0xB0, Data1: 99, Data2: 1},
		}}
		c.mapping[99] = "missing"

		ctx, cancel := context.WithCancel(context.Background())
		done := make(chan error, 1)
		go func() { done <- c.Run(ctx, src, time.Millisecond) }()

		deadline := time.Now().Add(2 * time.Second)
		for src.pending() > 0 && time.Now().Before(deadline) {
			time.Sleep(time.Millisecond)
		}
		cancel()
		if err := <-done; err != nil {
			t.Fatalf("Run = %v", err)
		}
		if p.Params().Drive.GetValue() != 1 {
			t.Error("drive not applied")
		}
		if !strings.Contains(logs.String(), "cc 99") {
			t.Errorf("bad event should be logged, got %q", logs.String())
		}
	})

	t.Run("ReadError", func(t *testing.T) {
		c, _ := newController(t)
		boom := errors.New("device gone")
		err := c.Run(context.Background(), &fakeSource{err: boom}, time.Millisecond)
		if !errors.Is(err, boom) {
			t.Errorf("Run = %v, want %v", err, boom)
		}
	})
}
