// Package quant adapts external color-quantization engines behind a
// narrow, context-based interface: feed in a color budget, optional fixed
// seed colors and flat runs of sample pixels, get back a ranked list of
// representative colors.
package quant

import (
	"errors"
	"fmt"
	"image"
	"image/color"
)

var (
	// ErrNoInput is returned when quantization is requested without any
	// samples or seed colors.
	ErrNoInput = errors.New("no samples or fixed colors to quantize")
	// ErrClosed is returned when a context is used after release.
	ErrClosed = errors.New("quantizer context already released")
)

// Engine is the external quantization capability. Quantize returns at most
// maxColors colors ordered by the engine's own ranking. Seed colors must
// appear verbatim in the result ahead of derived colors; an engine may
// drop seeds only when they alone exceed the budget.
type Engine interface {
	Name() string
	Quantize(maxColors, speed int, seeds, samples []color.RGBA) ([]color.RGBA, error)
}

// Algorithm names an engine in build files.
type Algorithm string

const (
	// AlgorithmMedianCut buckets samples with an optimized median cut.
	AlgorithmMedianCut Algorithm = "mediancut"
	// AlgorithmKMeans clusters samples with k-means, ranked by population.
	AlgorithmKMeans Algorithm = "kmeans"
	// AlgorithmDominant picks the most dominant colors, ranked by weight.
	AlgorithmDominant Algorithm = "dominant"
)

// NewEngine creates the engine registered under alg.
func NewEngine(alg Algorithm) (Engine, error) {
	switch alg {
	case AlgorithmMedianCut:
		return medianCut{}, nil
	case AlgorithmKMeans:
		return kMeans{}, nil
	case AlgorithmDominant:
		return dominant{}, nil
	default:
		return nil, fmt.Errorf("unknown quantizer engine %q", alg)
	}
}

// Context accumulates seeds and samples for one quantization run. It is
// not safe for concurrent use and must be released exactly once with
// Close, whether or not Quantize ran.
type Context struct {
	engine    Engine
	maxColors int
	speed     int
	seeds     []color.RGBA
	samples   []color.RGBA
	closed    bool
}

// NewContext prepares a run against engine with the given color budget.
// Speed trades quality for time: 1 samples every pixel, 10 the fewest.
func NewContext(engine Engine, maxColors, speed int) *Context {
	if speed < 1 {
		speed = 1
	}
	return &Context{
		engine:    engine,
		maxColors: maxColors,
		speed:     speed,
	}
}

// AddFixedColor registers a must-consider seed color. Seeds do not count
// as samples.
func (c *Context) AddFixedColor(col color.RGBA) {
	c.seeds = append(c.seeds, col)
}

// AddSamples feeds a flat run of pixels. The run is treated as a one-row
// image; spatial structure is irrelevant to palette extraction.
func (c *Context) AddSamples(buf []color.RGBA) {
	c.samples = append(c.samples, buf...)
}

// SampleCount reports how many sample pixels have been fed so far.
func (c *Context) SampleCount() int {
	return len(c.samples)
}

// Quantize invokes the engine over everything fed so far.
func (c *Context) Quantize() ([]color.RGBA, error) {
	if c.closed {
		return nil, ErrClosed
	}
	if len(c.samples) == 0 && len(c.seeds) == 0 {
		return nil, ErrNoInput
	}

	ranked, err := c.engine.Quantize(c.maxColors, c.speed, c.seeds, c.samples)
	if err != nil {
		return nil, fmt.Errorf("%s engine: %w", c.engine.Name(), err)
	}
	if len(ranked) > c.maxColors {
		ranked = ranked[:c.maxColors]
	}
	return ranked, nil
}

// Close releases the sample buffers. Calling it twice is an error.
func (c *Context) Close() error {
	if c.closed {
		return ErrClosed
	}
	c.closed = true
	c.seeds = nil
	c.samples = nil
	return nil
}

// subsample picks every stride-th sample for faster runs. Speed 1 keeps
// everything.
func subsample(samples []color.RGBA, speed int) []color.RGBA {
	if speed <= 1 || len(samples) <= speed {
		return samples
	}
	out := make([]color.RGBA, 0, len(samples)/speed+1)
	for i := 0; i < len(samples); i += speed {
		out = append(out, samples[i])
	}
	return out
}

// sampleImage lays samples out as a one-row image for engines that
// consume image.Image.
func sampleImage(samples []color.RGBA) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, len(samples), 1))
	for i, s := range samples {
		img.SetRGBA(i, 0, s)
	}
	return img
}

// seedSlice copies up to maxColors seeds into a fresh result slice.
func seedSlice(maxColors int, seeds []color.RGBA) []color.RGBA {
	n := min(len(seeds), maxColors)
	out := make([]color.RGBA, 0, maxColors)
	return append(out, seeds[:n]...)
}
