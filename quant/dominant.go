package quant

import (
	"image/color"
	"slices"

	"github.com/cenkalti/dominantcolor"
)

// dominant ranks the most frequent colors by weight, heaviest first.
type dominant struct{}

func (dominant) Name() string { return "dominant" }

func (dominant) Quantize(maxColors, speed int, seeds, samples []color.RGBA) ([]color.RGBA, error) {
	out := seedSlice(maxColors, seeds)
	budget := maxColors - len(out)
	if budget < 1 {
		return out, nil
	}

	sub := subsample(samples, speed)
	if len(sub) == 0 {
		return out, nil
	}

	cands := dominantcolor.FindWeight(sampleImage(sub), budget)
	slices.SortFunc(cands, func(a, b dominantcolor.Color) int {
		switch {
		case a.Weight > b.Weight:
			return -1
		case a.Weight < b.Weight:
			return 1
		default:
			return 0
		}
	})

	for _, c := range cands {
		if len(out) >= maxColors {
			break
		}
		out = append(out, c.RGBA)
	}
	return out, nil
}
