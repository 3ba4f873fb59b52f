package hyperclip

import (
	"bytes"
	"errors"
	"math"
	"testing"

	"github.com/justyntemme/hyperclip/pkg/dsp/distortion"
	"github.com/justyntemme/hyperclip/pkg/framework/debug"
	"github.com/justyntemme/hyperclip/pkg/framework/param"
	"github.com/justyntemme/hyperclip/pkg/framework/state"
)

func quietLogger() *debug.Logger {
	return debug.New(&bytes.Buffer{}, "test", debug.FlagLevel)
}

func TestInitialize(t *testing.T) {
	tests := []struct {
		name       string
		sampleRate float64
		block      int
		in, out    int
		want       error
	}{
		{"Stereo", 48000, 512, 2, 2, nil},
		{"Mono", 44100, 64, 1, 1, nil},
		{"MonoToStereo", 48000, 512, 1, 2, ErrUnsupportedLayout},
		{"Surround", 48000, 512, 6, 6, ErrUnsupportedLayout},
		{"NoOutputs", 48000, 512, 2, 0, ErrUnsupportedLayout},
		{"ZeroRate", 0, 512, 2, 2, ErrInvalidSampleRate},
		{"NaNRate", math.NaN(), 512, 2, 2, ErrInvalidSampleRate},
		{"ZeroBlock", 48000, 0, 2, 2, ErrInvalidConfig},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := New()
			p.SetLogger(quietLogger())
			err := p.Initialize(tt.sampleRate, tt.block, tt.in, tt.out)
			if tt.want == nil {
				if err != nil {
					t.Fatalf("Initialize: %v", err)
				}
				if p.Engine().Channels() != tt.out || p.Context().NumChannels() != tt.out {
					t.Errorf("channels = %d", p.Engine().Channels())
				}
				if !p.Layout().Matches(int32(tt.in), int32(tt.out)) {
					t.Errorf("layout = %s", p.Layout())
				}
				return
			}
			if !errors.Is(err, tt.want) {
				t.Fatalf("got %v, want %v", err, tt.want)
			}
			if p.Layout() != nil {
				t.Error("failed Initialize should not set a layout")
			}
		})
	}
}

func TestConfig(t *testing.T) {
	if err := DefaultConfig().Validate(); err != nil {
		t.Fatalf("default config: %v", err)
	}

	err := Config{SampleRate: -1, MaxBlockSize: 0, Channels: 3}.Validate()
	for _, want := range []error{ErrInvalidSampleRate, ErrInvalidConfig, ErrUnsupportedLayout} {
		if !errors.Is(err, want) {
			t.Errorf("expected %v in %v", want, err)
		}
	}

	p := New()
	p.SetLogger(quietLogger())
	if err := p.InitializeConfig(DefaultConfig()); err != nil {
		t.Fatal(err)
	}
	if p.Config() != DefaultConfig() {
		t.Errorf("Config() = %+v", p.Config())
	}
}

func TestState(t *testing.T) {
	t.Run("RoundTrip", func(t *testing.T) {
		src := newPlugin(t, 2)
		params := src.Params()
		params.InputGain.SetPlainValue(2.5)
		params.OutputGain.SetPlainValue(0.125)
		params.Drive.SetPlainValue(0.66)
		params.SetMode(distortion.ModeLogarithmic)
		src.EditorState().SetSize(460, 1000)

		var buf bytes.Buffer
		if err := src.SaveState(&buf); err != nil {
			t.Fatalf("SaveState: %v", err)
		}

		dst := newPlugin(t, 2)
		if err := dst.LoadState(&buf); err != nil {
			t.Fatalf("LoadState: %v", err)
		}

		for _, want := range src.Parameters().Snapshot() {
			got := dst.Parameters().GetByKey(want.Key)
			if math.Abs(got.GetPlainValue()-want.Plain) > 1e-9*math.Max(1, want.Plain) {
				t.Errorf("%s = %v, want %v", want.Key, got.GetPlainValue(), want.Plain)
			}
			if got.String() != want.Display {
				t.Errorf("%s displays %q, want %q", want.Key, got.String(), want.Display)
			}
		}
		if dst.Params().SelectedMode() != distortion.ModeLogarithmic {
			t.Errorf("mode = %s", dst.Params().SelectedMode())
		}
		if dst.EditorState().String() != "460x1000" {
			t.Errorf("editor = %s", dst.EditorState())
		}
	})

	t.Run("ClampsOnLoad", func(t *testing.T) {
		// a registry with wider ranges stands in for a corrupted or foreign state
		wide := param.NewRegistry()
		wide.Add(
			param.New(0, KeyDrive, "Drive").Range(-5, 5).Default(4).Build(),
			param.New(1, KeyInputGain, "Input Gain").Range(0, 1000).Default(1000).Build(),
			param.New(2, KeyMode, "Mode").Range(0, 10).Default(9).Build(),
			param.New(3, "bias", "Bias").Default(0.5).Build(),
		)
		var buf bytes.Buffer
		m := state.NewManager(wide)
		m.SetLogger(quietLogger())
		if err := m.Save(&buf); err != nil {
			t.Fatal(err)
		}

		p := newPlugin(t, 2)
		if err := p.LoadState(&buf); err != nil {
			t.Fatalf("LoadState: %v", err)
		}
		params := p.Params()
		if params.Drive.GetPlainValue() != 1 {
			t.Errorf("drive = %v, want 1", params.Drive.GetPlainValue())
		}
		if math.Abs(params.InputGain.GetPlainValue()-params.InputGain.Max) > 1e-9 {
			t.Errorf("input gain = %v, want %v", params.InputGain.GetPlainValue(), params.InputGain.Max)
		}
		if params.SelectedMode() != distortion.ModeSine {
			t.Errorf("mode = %s, want Sine", params.SelectedMode())
		}
	})

	t.Run("LoadRampsInsteadOfJumping", func(t *testing.T) {
		src := New()
		src.Params().Drive.SetPlainValue(1)
		var buf bytes.Buffer
		if err := src.SaveState(&buf); err != nil {
			t.Fatal(err)
		}

		p := newPlugin(t, 1)
		if err := p.LoadState(&buf); err != nil {
			t.Fatal(err)
		}
		p.Process([][]float32{{0.1}})
		if !p.Engine().IsSmoothing() {
			t.Error("loaded drive should be reached through a ramp")
		}
	})

	t.Run("RejectsGarbage", func(t *testing.T) {
		p := newPlugin(t, 2)
		p.Params().Drive.SetPlainValue(0.3)
		err := p.LoadState(bytes.NewReader([]byte("not a state at all")))
		if !errors.Is(err, state.ErrInvalidFormat) {
			t.Errorf("got %v", err)
		}
		if p.Params().Drive.GetPlainValue() != 0.3 {
			t.Error("failed load changed a parameter")
		}
	})
}

func TestEditor(t *testing.T) {
	p := newPlugin(t, 1)
	h := p.Editor(nil)

	err := h.Edit(KeyDrive, func() error {
		return h.Set(KeyDrive, 1)
	})
	if err != nil {
		t.Fatal(err)
	}

	buf := []float32{1}
	for i := 0; i < 480; i++ {
		buf[0] = 1
		p.Process([][]float32{buf})
	}
	if math.Abs(float64(buf[0]-1)) > 1e-6 {
		t.Errorf("after the ramp got %v, want 1", buf[0])
	}

	if err := h.SetText(KeyMode, "Sine"); err != nil {
		t.Fatal(err)
	}
	snap := h.Snapshot()
	if snap[ParamMode].Display != "Sine" || snap[ParamDrive].Display != "100.00%" {
		t.Errorf("snapshot = %+v", snap)
	}
}
