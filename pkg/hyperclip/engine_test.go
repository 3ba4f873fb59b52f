package hyperclip

import (
	"math"
	"sync"
	"testing"

	"github.com/justyntemme/hyperclip/pkg/dsp/distortion"
	"github.com/justyntemme/hyperclip/pkg/framework/plugin"
)

func newPlugin(t testing.TB, channels int) *Plugin {
	t.Helper()
	p := New()
	p.SetLogger(quietLogger())
	if err := p.Initialize(48000, 512, channels, channels); err != nil {
		t.Fatalf("Initialize: %v", err)
	}
	return p
}

func fill(buf []float32, v float32) []float32 {
	for i := range buf {
		buf[i] = v
	}
	return buf
}

func TestEngine(t *testing.T) {
	t.Run("DefaultsPassBelowFold", func(t *testing.T) {
		p := newPlugin(t, 2)
		left := []float32{0.5, -0.25, 0, 0.999}
		right := []float32{-0.5, 0.25, 0.1, -0.999}
		want := [][]float32{append([]float32(nil), left...), append([]float32(nil), right...)}

		if status := p.Process([][]float32{left, right}); status != plugin.StatusNormal {
			t.Fatalf("status = %s", status)
		}
		for i := range left {
			if math.Abs(float64(left[i]-want[0][i])) > 1e-6 || math.Abs(float64(right[i]-want[1][i])) > 1e-6 {
				t.Fatalf("frame %d: got %v/%v, want %v/%v", i, left[i], right[i], want[0][i], want[1][i])
			}
		}
	})

	t.Run("FullDriveScenario", func(t *testing.T) {
		p := newPlugin(t, 1)
		p.Params().Drive.SetPlainValue(1)

		// 10 ms at 48 kHz
		buf := fill(make([]float32, 600), 1)
		p.Process([][]float32{buf})

		for i, y := range buf {
			if y < 0 || y > 1 {
				t.Fatalf("frame %d = %v out of [0, 1] during the ramp", i, y)
			}
		}
		for i := 480; i < len(buf); i++ {
			if math.Abs(float64(buf[i]-1)) > 1e-6 {
				t.Fatalf("frame %d = %v, want 1 after the ramp", i, buf[i])
			}
		}
		if p.Engine().IsSmoothing() {
			t.Error("ramp should be finished")
		}
	})

	t.Run("ChannelsShareOneTick", func(t *testing.T) {
		p := newPlugin(t, 2)
		p.Params().InputGain.SetPlainValue(p.Params().InputGain.Max)

		left := fill(make([]float32, 256), 0.01)
		right := fill(make([]float32, 256), 0.01)
		p.Process([][]float32{left, right})

		for i := range left {
			if left[i] != right[i] {
				t.Fatalf("frame %d: %v != %v, channels advanced the ramp separately", i, left[i], right[i])
			}
		}
		if !(left[255] > left[0]) {
			t.Error("input gain should be ramping up")
		}
	})

	t.Run("ModeSwitchIsImmediate", func(t *testing.T) {
		p := newPlugin(t, 1)
		buf := []float32{0.5}
		p.Process([][]float32{buf})

		p.Params().SetMode(distortion.ModeSine)
		buf[0] = 0.5
		p.Process([][]float32{buf})
		if want := float32(math.Sin(0.5)); math.Abs(float64(buf[0]-want)) > 1e-6 {
			t.Errorf("got %v, want %v", buf[0], want)
		}
	})

	t.Run("NeverEmitsNonFinite", func(t *testing.T) {
		p := newPlugin(t, 2)
		params := p.Params()
		params.InputGain.SetPlainValue(params.InputGain.Max)
		params.OutputGain.SetPlainValue(params.OutputGain.Max)
		params.Drive.SetPlainValue(1)

		inputs := []float32{
			float32(math.NaN()), float32(math.Inf(1)), float32(math.Inf(-1)),
			math.MaxFloat32, -math.MaxFloat32, 1e-38, -1, 1, 0,
		}
		for _, m := range distortion.Modes {
			params.SetMode(m)
			left := make([]float32, 0, 4096)
			for len(left) < 4096 {
				left = append(left, inputs...)
			}
			right := append([]float32(nil), left...)
			p.Process([][]float32{left, right})
			for i, y := range left {
				v := float64(y)
				if math.IsNaN(v) || math.IsInf(v, 0) || math.Abs(v) > params.OutputGain.Max*(1+1e-6) {
					t.Fatalf("%s frame %d = %v", m, i, y)
				}
			}
		}
	})

	t.Run("Interleaved", func(t *testing.T) {
		p := newPlugin(t, 2)
		p.Params().SetMode(distortion.ModeSine)

		samples := []float32{0.5, -0.5, 0.25, -0.25, 0.9}
		p.ProcessInterleaved(samples)

		want := float32(math.Sin(0.5))
		if math.Abs(float64(samples[0]-want)) > 1e-6 || math.Abs(float64(samples[1]+want)) > 1e-6 {
			t.Errorf("frame 0 = %v", samples[:2])
		}
		if samples[4] != 0.9 {
			t.Error("partial trailing frame should be left alone")
		}
	})

	t.Run("Status", func(t *testing.T) {
		p := New()
		buf := []float32{0.5}
		if s := p.Process([][]float32{buf}); s != plugin.StatusNotInitialized {
			t.Errorf("before Initialize: %s", s)
		}
		if s := p.ProcessInterleaved(buf); s != plugin.StatusNotInitialized {
			t.Errorf("before Initialize: %s", s)
		}

		p = newPlugin(t, 2)
		if s := p.Process([][]float32{buf}); s != plugin.StatusLayoutMismatch {
			t.Errorf("one buffer for stereo: %s", s)
		}
		if buf[0] != 0.5 {
			t.Error("rejected block was modified")
		}
		if s := p.Process([][]float32{{}, {}}); s != plugin.StatusNormal {
			t.Errorf("empty block: %s", s)
		}
	})

	t.Run("ZeroChannels", func(t *testing.T) {
		e := NewEngine(New().Params())
		e.Prepare(48000, 0)
		buf := []float32{0.5, 0.5}
		if s := e.ProcessInterleaved(buf); s != plugin.StatusNotInitialized {
			t.Errorf("interleaved with no channels: %s", s)
		}
		if s := e.Process(nil); s != plugin.StatusNotInitialized {
			t.Errorf("planar with no channels: %s", s)
		}
		if buf[0] != 0.5 || e.Channels() != 0 {
			t.Error("unprepared engine touched the block")
		}

		e.Prepare(48000, 2)
		e.Prepare(48000, -1)
		if s := e.ProcessInterleaved(buf); s != plugin.StatusNotInitialized {
			t.Errorf("negative channel count should unprepare: %s", s)
		}
	})

	t.Run("ZeroAllocations", func(t *testing.T) {
		p := newPlugin(t, 2)
		left := make([]float32, 512)
		right := make([]float32, 512)
		buffers := [][]float32{left, right}
		interleaved := make([]float32, 1024)

		allocs := testing.AllocsPerRun(100, func() {
			p.Params().Drive.SetPlainValue(float64(left[0]))
			p.Process(buffers)
			p.ProcessInterleaved(interleaved)
		})
		if allocs != 0 {
			t.Errorf("expected 0 allocations, got %v", allocs)
		}
	})

	t.Run("ConcurrentControl", func(t *testing.T) {
		p := newPlugin(t, 2)
		params := p.Params()
		done := make(chan struct{})
		var wg sync.WaitGroup

		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; ; i++ {
				select {
				case <-done:
					return
				default:
				}
				params.Drive.SetValue(float64(i%10) / 10)
				params.InputGain.SetValue(float64(i%7) / 7)
				params.Mode.SetValue(float64(i%4) / 3)
			}
		}()

		left := make([]float32, 512)
		right := make([]float32, 512)
		for block := 0; block < 200; block++ {
			for i := range left {
				left[i] = float32(math.Sin(float64(block*512+i) * 0.01))
				right[i] = -left[i]
			}
			p.Process([][]float32{left, right})
			for i := range left {
				if math.IsNaN(float64(left[i])) || math.Abs(float64(left[i])) > 1+1e-6 {
					t.Fatalf("block %d frame %d = %v", block, i, left[i])
				}
			}
		}
		close(done)
		wg.Wait()
	})
}

func BenchmarkEngine(b *testing.B) {
	p := newPlugin(b, 2)
	p.Params().Drive.SetPlainValue(0.7)
	p.Params().SetMode(distortion.ModeExponential)

	left := make([]float32, 512)
	right := make([]float32, 512)
	for i := range left {
		left[i] = float32(math.Sin(float64(i) * 0.05))
		right[i] = left[i]
	}
	buffers := [][]float32{left, right}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		p.Process(buffers)
	}
}
