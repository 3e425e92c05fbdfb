package quant

import (
	"fmt"
	"image/color"
	"slices"

	"github.com/lucasb-eyer/go-colorful"
	"github.com/muesli/clusters"
	"github.com/muesli/kmeans"
)

// kMeans clusters the samples in normalized RGB space and ranks the
// resulting centers by cluster population, most populated first. Fully
// transparent samples carry no color information and are skipped.
type kMeans struct{}

func (kMeans) Name() string { return "kmeans" }

func (kMeans) Quantize(maxColors, speed int, seeds, samples []color.RGBA) ([]color.RGBA, error) {
	out := seedSlice(maxColors, seeds)
	budget := maxColors - len(out)
	if budget < 1 {
		return out, nil
	}

	sub := subsample(samples, speed)
	dataset := make(clusters.Observations, 0, len(sub))
	for _, s := range sub {
		if s.A == 0 {
			continue
		}
		dataset = append(dataset, clusters.Coordinates{
			float64(s.R) / 255.0,
			float64(s.G) / 255.0,
			float64(s.B) / 255.0,
		})
	}
	if len(dataset) == 0 {
		return out, nil
	}

	k := min(budget, len(dataset))
	km, err := kmeans.NewWithOptions(deltaThreshold(speed), nil)
	if err != nil {
		return nil, fmt.Errorf("configure kmeans: %w", err)
	}
	cc, err := km.Partition(dataset, k)
	if err != nil {
		return nil, fmt.Errorf("partition samples: %w", err)
	}

	slices.SortFunc(cc, func(a, b clusters.Cluster) int {
		return len(b.Observations) - len(a.Observations)
	})

	for _, c := range cc {
		if len(c.Center) < 3 || len(out) >= maxColors {
			continue
		}
		col := colorful.Color{R: c.Center[0], G: c.Center[1], B: c.Center[2]}.Clamped()
		out = append(out, color.RGBA{
			R: uint8(col.R*255.0 + 0.5),
			G: uint8(col.G*255.0 + 0.5),
			B: uint8(col.B*255.0 + 0.5),
			A: 0xFF,
		})
	}
	return out, nil
}

// deltaThreshold loosens the convergence criterion as speed rises.
func deltaThreshold(speed int) float64 {
	return 0.005 * float64(speed)
}
