package quant

import (
	"errors"
	"image/color"
	"testing"
)

func rgb(r, g, b uint8) color.RGBA {
	return color.RGBA{R: r, G: g, B: b, A: 0xFF}
}

// repeat builds a flat sample run with n copies of each given color.
func repeat(n int, cols ...color.RGBA) []color.RGBA {
	out := make([]color.RGBA, 0, n*len(cols))
	for _, c := range cols {
		for range n {
			out = append(out, c)
		}
	}
	return out
}

func TestContextLifecycle(t *testing.T) {
	engine, err := NewEngine(AlgorithmMedianCut)
	if err != nil {
		t.Fatalf("NewEngine: %v", err)
	}

	ctx := NewContext(engine, 8, 1)
	if _, err := ctx.Quantize(); !errors.Is(err, ErrNoInput) {
		t.Errorf("Quantize on empty context: got %v, want ErrNoInput", err)
	}

	ctx.AddSamples(repeat(4, rgb(10, 20, 30)))
	if ctx.SampleCount() != 4 {
		t.Errorf("SampleCount = %d, want 4", ctx.SampleCount())
	}

	if err := ctx.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	if err := ctx.Close(); !errors.Is(err, ErrClosed) {
		t.Errorf("second Close: got %v, want ErrClosed", err)
	}
	if _, err := ctx.Quantize(); !errors.Is(err, ErrClosed) {
		t.Errorf("Quantize after Close: got %v, want ErrClosed", err)
	}
}

func TestNewEngine(t *testing.T) {
	for _, alg := range []Algorithm{AlgorithmMedianCut, AlgorithmKMeans, AlgorithmDominant} {
		engine, err := NewEngine(alg)
		if err != nil {
			t.Fatalf("NewEngine(%q): %v", alg, err)
		}
		if engine.Name() != string(alg) {
			t.Errorf("engine name = %q, want %q", engine.Name(), alg)
		}
	}

	if _, err := NewEngine("octree"); err == nil {
		t.Error("NewEngine accepted unknown algorithm")
	}
}

func TestEnginesRespectBudget(t *testing.T) {
	samples := repeat(16,
		rgb(255, 0, 0), rgb(0, 255, 0), rgb(0, 0, 255), rgb(255, 255, 0),
		rgb(0, 255, 255), rgb(255, 0, 255), rgb(128, 128, 128), rgb(255, 255, 255))

	for _, alg := range []Algorithm{AlgorithmMedianCut, AlgorithmKMeans, AlgorithmDominant} {
		t.Run(string(alg), func(t *testing.T) {
			engine, err := NewEngine(alg)
			if err != nil {
				t.Fatalf("NewEngine: %v", err)
			}

			ctx := NewContext(engine, 4, 1)
			ctx.AddSamples(samples)

			ranked, err := ctx.Quantize()
			if err != nil {
				t.Fatalf("Quantize: %v", err)
			}
			if len(ranked) == 0 || len(ranked) > 4 {
				t.Errorf("got %d colors, want 1..4", len(ranked))
			}

			if err := ctx.Close(); err != nil {
				t.Errorf("Close: %v", err)
			}
		})
	}
}

func TestEnginesKeepSeeds(t *testing.T) {
	seed := rgb(12, 34, 56)
	samples := repeat(32,
		rgb(255, 0, 0), rgb(0, 255, 0), rgb(0, 0, 255), rgb(255, 255, 0),
		rgb(0, 255, 255), rgb(255, 0, 255), rgb(64, 64, 64), rgb(255, 255, 255))

	for _, alg := range []Algorithm{AlgorithmMedianCut, AlgorithmKMeans, AlgorithmDominant} {
		t.Run(string(alg), func(t *testing.T) {
			engine, err := NewEngine(alg)
			if err != nil {
				t.Fatalf("NewEngine: %v", err)
			}

			ctx := NewContext(engine, 8, 1)
			ctx.AddFixedColor(seed)
			ctx.AddSamples(samples)
			defer ctx.Close()

			ranked, err := ctx.Quantize()
			if err != nil {
				t.Fatalf("Quantize: %v", err)
			}
			if len(ranked) == 0 || ranked[0] != seed {
				t.Errorf("seed not first in ranked output: %v", ranked)
			}
		})
	}
}

func TestSeedsBeyondBudgetDropped(t *testing.T) {
	engine, err := NewEngine(AlgorithmMedianCut)
	if err != nil {
		t.Fatalf("NewEngine: %v", err)
	}

	ctx := NewContext(engine, 2, 1)
	defer ctx.Close()
	for i := range 4 {
		ctx.AddFixedColor(rgb(uint8(i*50), 0, 0))
	}

	ranked, err := ctx.Quantize()
	if err != nil {
		t.Fatalf("Quantize: %v", err)
	}
	if len(ranked) != 2 {
		t.Errorf("got %d colors, want 2", len(ranked))
	}
}

func TestSubsample(t *testing.T) {
	samples := repeat(1,
		rgb(0, 0, 0), rgb(1, 0, 0), rgb(2, 0, 0), rgb(3, 0, 0), rgb(4, 0, 0))

	got := subsample(samples, 2)
	if len(got) != 3 {
		t.Fatalf("subsample stride 2: got %d samples, want 3", len(got))
	}
	if got[0].R != 0 || got[1].R != 2 || got[2].R != 4 {
		t.Errorf("subsample picked wrong samples: %v", got)
	}

	if full := subsample(samples, 1); len(full) != len(samples) {
		t.Errorf("speed 1 should keep all samples, got %d", len(full))
	}
}
