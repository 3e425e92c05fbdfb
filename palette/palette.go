// Package palette assembles fixed-size color palettes for low-memory
// display targets by merging user-reserved fixed entries with quantizer
// output.
package palette

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"log/slog"

	"palgen/imgio"
	"palgen/pix"
	"palgen/quant"
)

const (
	// MaxEntries is the hard architectural ceiling on palette size.
	MaxEntries = 256
	// DefaultSpeed is the default quantizer quality/performance knob.
	DefaultSpeed = 4
)

var (
	// ErrInvalidArgument flags a nil palette or an out-of-range declaration.
	ErrInvalidArgument = errors.New("invalid argument")
	// ErrCapacityExceeded flags more fixed entries than the palette holds.
	ErrCapacityExceeded = errors.New("fixed entries exceed maximum palette size")
	// ErrEmptyPalette flags a palette with no images and no fixed entries.
	ErrEmptyPalette = errors.New("no images or fixed colors to build palette from")
	// ErrQuantize wraps failures reported by the quantization engine.
	ErrQuantize = errors.New("quantization failed")
	// ErrImageLoad wraps failures while loading a source image.
	ErrImageLoad = errors.New("could not load image")
)

// Entry is one slot in the final palette. Exact entries own their declared
// index bit-for-bit and are excluded from quantization entirely; non-exact
// entries are seeds whose matched quantizer output is relocated to the
// declared index afterwards. Valid marks slots that were actually written.
type Entry struct {
	Color pix.Color
	Index int
	Exact bool
	Valid bool
}

// ImageLoader supplies decoded pixels for a palette's source images.
type ImageLoader interface {
	Load(path string) (*image.NRGBA, error)
}

// JobRef is the read-only view of a conversion job, consulted only when a
// palette populates its image list automatically.
type JobRef interface {
	PaletteName() string
	ImagePaths() []string
}

// Palette holds the configuration and, after Generate, the result of one
// palette build. Entries is deliberately a fixed-size array indexed by
// target slot: index arithmetic against the hard ceiling stays explicit.
type Palette struct {
	Name       string
	Images     []string
	Fixed      []Entry
	Entries    [MaxEntries]Entry
	NumEntries int
	MaxEntries int
	Mode       pix.Mode
	Speed      int
	Algorithm  quant.Algorithm
	Automatic  bool

	// engine, when set, takes precedence over Algorithm.
	engine quant.Engine
}

// New returns an empty palette with the default mode, speed and engine.
func New(name string) *Palette {
	return &Palette{
		Name:       name,
		MaxEntries: MaxEntries,
		Mode:       pix.ModeARGB1555,
		Speed:      DefaultSpeed,
		Algorithm:  quant.AlgorithmMedianCut,
	}
}

// AddImage appends a single image reference. Nothing is loaded here.
func (p *Palette) AddImage(path string) {
	slog.Debug("adding image", "palette", p.Name, "file", path)
	p.Images = append(p.Images, path)
}

// AddPath expands a glob pattern and appends every matching image.
func (p *Palette) AddPath(pattern string) error {
	paths, err := imgio.FindImages(pattern)
	if err != nil {
		return err
	}
	for _, path := range paths {
		p.AddImage(path)
	}
	return nil
}

// AddFixed declares a fixed entry. The declared index must fit the
// palette, and two exact entries may not claim the same slot.
func (p *Palette) AddFixed(e Entry) error {
	if e.Index < 0 || e.Index >= p.MaxEntries {
		return fmt.Errorf("%w: fixed index %d outside palette of %d entries",
			ErrInvalidArgument, e.Index, p.MaxEntries)
	}
	if e.Exact {
		for _, fe := range p.Fixed {
			if fe.Exact && fe.Index == e.Index {
				return fmt.Errorf("%w: two exact fixed colors at index %d",
					ErrInvalidArgument, e.Index)
			}
		}
	}
	e.Valid = false
	p.Fixed = append(p.Fixed, e)
	return nil
}

// ColorPalette returns the generated entries as a stdlib palette. Slots
// that were never written stay transparent placeholders.
func (p *Palette) ColorPalette() color.Palette {
	out := make(color.Palette, p.NumEntries)
	for i := range p.NumEntries {
		e := p.Entries[i]
		out[i] = color.NRGBA{R: e.Color.R, G: e.Color.G, B: e.Color.B, A: e.Color.A}
	}
	return out
}
