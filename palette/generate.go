package palette

import (
	"fmt"
	"image"
	"image/color"
	"log/slog"

	"palgen/pix"
	"palgen/quant"
)

// Generate populates Entries and NumEntries. It runs exactly once per
// palette: builtin names short-circuit to their static table, automatic
// palettes collect their images from the job registry first, and
// everything else flows through the quantization pipeline or, without
// images, the fixed-only path.
func (p *Palette) Generate(jobs []JobRef, loader ImageLoader) error {
	if p == nil {
		return fmt.Errorf("%w: nil palette", ErrInvalidArgument)
	}
	if p.MaxEntries < 1 || p.MaxEntries > MaxEntries {
		return fmt.Errorf("%w: palette size %d outside 1..%d",
			ErrInvalidArgument, p.MaxEntries, MaxEntries)
	}

	if table := builtinTable(p.Name); table != nil {
		p.generateBuiltin(table, pix.ModeARGB1555)
		return nil
	}

	logger := slog.Default().With("palette", p.Name)
	logger.Info("generating palette")

	if p.Automatic {
		p.collectAutomatic(jobs, logger)
	}

	if len(p.Fixed) > p.MaxEntries {
		return fmt.Errorf("palette %q: %w (%d > %d)",
			p.Name, ErrCapacityExceeded, len(p.Fixed), p.MaxEntries)
	}

	if len(p.Images) > 0 {
		return p.generateFromImages(loader, logger)
	}

	if len(p.Fixed) == 0 {
		return fmt.Errorf("palette %q: %w", p.Name, ErrEmptyPalette)
	}

	logger.Warn("creating palette without images")

	maxIndex := -1
	for _, fe := range p.Fixed {
		fe.Color = pix.Convert(fe.Color, p.Mode)
		fe.Valid = true
		p.Entries[fe.Index] = fe
		maxIndex = max(maxIndex, fe.Index)
	}
	p.NumEntries = maxIndex + 1

	p.logResult(logger)
	return nil
}

// collectAutomatic appends every image referenced by jobs targeting this
// palette by name. A job that matches but contributes nothing is fine.
func (p *Palette) collectAutomatic(jobs []JobRef, logger *slog.Logger) {
	for _, job := range jobs {
		if job.PaletteName() != p.Name {
			continue
		}
		for _, path := range job.ImagePaths() {
			p.AddImage(path)
		}
	}
	logger.Debug("automatic palette membership", "images", len(p.Images))
}

func (p *Palette) generateFromImages(loader ImageLoader, logger *slog.Logger) error {
	exactEntries := 0
	for _, fe := range p.Fixed {
		if fe.Exact {
			exactEntries++
		}
	}

	// Exact colors are placeholders reserved outside the quantizer budget.
	budget := p.MaxEntries - exactEntries
	logger.Debug("available quantization colors", "count", budget)

	engine := p.engine
	if engine == nil {
		var err error
		if engine, err = quant.NewEngine(p.Algorithm); err != nil {
			return fmt.Errorf("palette %q: %w", p.Name, err)
		}
	}

	ctx := quant.NewContext(engine, budget, p.Speed)
	defer func() {
		if cerr := ctx.Close(); cerr != nil {
			logger.Error("could not release quantizer context", "error", cerr)
		}
	}()

	for i := range p.Fixed {
		fe := &p.Fixed[i]
		if fe.Exact {
			continue
		}
		fe.Color = pix.Convert(fe.Color, p.Mode)
		ctx.AddFixedColor(color.RGBA{R: fe.Color.R, G: fe.Color.G, B: fe.Color.B, A: fe.Color.A})
	}

	if budget > 1 {
		for _, path := range p.Images {
			logger.Info("reading image", "file", path)

			img, err := loader.Load(path)
			if err != nil {
				return fmt.Errorf("palette %q: %w %q: %w", p.Name, ErrImageLoad, path, err)
			}

			if samples := p.collectSamples(img); len(samples) > 0 {
				ctx.AddSamples(samples)
			}
		}
	}

	var ranked []color.RGBA
	if ctx.SampleCount() > 0 {
		var err error
		if ranked, err = ctx.Quantize(); err != nil {
			return fmt.Errorf("palette %q: %w: %w", p.Name, ErrQuantize, err)
		}
	}

	p.NumEntries = p.mergeEntries(ranked) + 1

	for _, fe := range p.Fixed {
		if !fe.Exact && !fe.Valid {
			logger.Debug("fixed color missing from quantizer output",
				"index", fe.Index, "color", fe.Color)
		}
	}

	p.logResult(logger)
	return nil
}

// collectSamples compacts one image into mode-converted quantizer samples.
// Pixels matching an exact fixed color are dropped outright: they will be
// rendered by the reserved entry and must not bias the statistics.
func (p *Palette) collectSamples(img *image.NRGBA) []color.RGBA {
	bounds := img.Bounds()
	samples := make([]color.RGBA, 0, bounds.Dx()*bounds.Dy())

	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			c := img.NRGBAAt(x, y)
			if p.matchesExactFixed(c.R, c.G, c.B) {
				continue
			}
			conv := pix.Convert(pix.Color{R: c.R, G: c.G, B: c.B, A: c.A}, p.Mode)
			samples = append(samples, color.RGBA{R: conv.R, G: conv.G, B: conv.B, A: conv.A})
		}
	}
	return samples
}

// matchesExactFixed compares raw canonical RGB, before mode conversion.
func (p *Palette) matchesExactFixed(r, g, b uint8) bool {
	for _, fe := range p.Fixed {
		if fe.Exact && r == fe.Color.R && g == fe.Color.G && b == fe.Color.B {
			return true
		}
	}
	return false
}

// mergeEntries copies the ranked quantizer output into the entries array
// and resolves the fixed entries against it in three ordered passes.
// Returns the highest index touched.
func (p *Palette) mergeEntries(ranked []color.RGBA) int {
	maxIndex := -1

	for i, c := range ranked {
		p.Entries[i] = Entry{
			Color: pix.Convert(pix.Color{R: c.R, G: c.G, B: c.B, A: c.A}, p.Mode),
			Index: i,
			Valid: true,
		}
		maxIndex = i
	}

	// First resolve the non-exact fixed colors: find each one in the
	// quantizer output and swap it into its declared slot. Lowest rank
	// wins; a seed the engine chose to drop is tolerated and its slot
	// stays unwritten.
	for i := range p.Fixed {
		fe := &p.Fixed[i]
		if fe.Exact {
			continue
		}
		for j := range len(ranked) {
			e := p.Entries[j]
			if fe.Color.R != e.Color.R || fe.Color.G != e.Color.G || fe.Color.B != e.Color.B {
				continue
			}

			p.Entries[j], p.Entries[fe.Index] = p.Entries[fe.Index], p.Entries[j]
			p.Entries[j].Index = j
			p.Entries[fe.Index].Index = fe.Index
			p.Entries[fe.Index].Valid = true
			fe.Valid = true

			maxIndex = max(maxIndex, fe.Index)
			break
		}
	}

	// Then the exact fixed colors, which always win their declared slot.
	// An occupant moves to the lowest free slot rather than being dropped.
	for i := range p.Fixed {
		fe := p.Fixed[i]
		if !fe.Exact {
			continue
		}
		fe.Color = pix.Convert(fe.Color, p.Mode)

		if p.Entries[fe.Index].Valid {
			free := 0
			for free < MaxEntries && p.Entries[free].Valid {
				free++
			}
			if free < MaxEntries {
				p.Entries[free] = p.Entries[fe.Index]
				p.Entries[free].Index = free
				maxIndex = max(maxIndex, free)
			}
		}

		fe.Valid = true
		p.Entries[fe.Index] = fe
		p.Fixed[i].Valid = true

		maxIndex = max(maxIndex, fe.Index)
	}

	return maxIndex
}

func (p *Palette) logResult(logger *slog.Logger) {
	unused := 0
	for i := range p.NumEntries {
		if !p.Entries[i].Valid {
			unused++
		}
	}
	logger.Info("generated palette", "colors", p.NumEntries, "unused", unused)
}
