package process

import (
	"testing"
)

func TestContext(t *testing.T) {
	t.Run("BlockSize", func(t *testing.T) {
		ctx := NewContext(48000, 2, 64)

		if got := ctx.SetBlockSize(32); got != 32 {
			t.Errorf("SetBlockSize(32) = %d", got)
		}
		if len(ctx.Channel(0)) != 32 || len(ctx.Channel(1)) != 32 {
			t.Error("channels should be resliced to the block size")
		}
		if got := ctx.SetBlockSize(100); got != 64 {
			t.Errorf("SetBlockSize(100) = %d, want 64", got)
		}
		if ctx.NumSamples() != 64 {
			t.Errorf("NumSamples() = %d", ctx.NumSamples())
		}
	})

	t.Run("ChannelsDoNotOverlap", func(t *testing.T) {
		ctx := NewContext(48000, 2, 8)
		ctx.SetBlockSize(8)
		for i := range ctx.Channel(0) {
			ctx.Channel(0)[i] = 1
		}
		for _, v := range ctx.Channel(1) {
			if v != 0 {
				t.Fatal("writing left leaked into right")
			}
		}
	})

	t.Run("Frames", func(t *testing.T) {
		ctx := NewContext(48000, 2, 4)
		frames := [][2]float64{{0.1, -0.1}, {0.2, -0.2}, {0.3, -0.3}}

		if n := ctx.LoadFrames(frames); n != 3 {
			t.Fatalf("LoadFrames = %d", n)
		}
		for i := range ctx.Channel(0) {
			ctx.Channel(0)[i] *= 2
		}
		ctx.StoreFrames(frames)
		if frames[2][0] < 0.599 || frames[2][0] > 0.601 || frames[2][1] > -0.299 {
			t.Errorf("unexpected frames %v", frames)
		}
	})

	t.Run("MonoFrames", func(t *testing.T) {
		ctx := NewContext(48000, 1, 4)
		frames := [][2]float64{{1, 0}, {0.5, 0.5}}
		ctx.LoadFrames(frames)
		if ctx.Channel(0)[0] != 0.5 || ctx.Channel(0)[1] != 0.5 {
			t.Errorf("mixdown = %v", ctx.Channel(0))
		}
		ctx.StoreFrames(frames)
		if frames[0][0] != 0.5 || frames[0][1] != 0.5 {
			t.Errorf("mono store = %v", frames)
		}
	})


	t.Run("NoAllocations", func(t *testing.T) {
		ctx := NewContext(48000, 2, 256)
		frames := make([][2]float64, 256)
		allocs := testing.AllocsPerRun(100, func() {
			ctx.LoadFrames(frames)
			ctx.StoreFrames(frames)
		})
		if allocs != 0 {
			t.Errorf("expected 0 allocations, got %v", allocs)
		}
	})
}
