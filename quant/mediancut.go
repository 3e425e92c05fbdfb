package quant

import (
	"image/color"

	"github.com/ericpauley/go-quantize/quantize"
)

// medianCut wraps the go-quantize median-cut quantizer. Seeds are passed
// as the preseeded palette, so the engine only fills the remaining budget
// and the seeds survive verbatim at the front of the result.
type medianCut struct{}

func (medianCut) Name() string { return "mediancut" }

func (medianCut) Quantize(maxColors, speed int, seeds, samples []color.RGBA) ([]color.RGBA, error) {
	out := seedSlice(maxColors, seeds)
	if len(out) >= maxColors {
		return out, nil
	}

	sub := subsample(samples, speed)
	if len(sub) == 0 {
		return out, nil
	}

	pal := make(color.Palette, 0, maxColors)
	for _, s := range out {
		pal = append(pal, s)
	}

	q := quantize.MedianCutQuantizer{Aggregation: quantize.Mean}
	pal = q.Quantize(pal, sampleImage(sub))

	out = out[:0]
	for _, c := range pal {
		out = append(out, color.RGBAModel.Convert(c).(color.RGBA))
	}
	return out, nil
}
