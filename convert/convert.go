// Package convert holds the conversion jobs a build file declares:
// groups of images (and tile sets) bound to a palette by name. Palettes
// in automatic mode consult this registry for their image membership;
// after generation a job's images can be remapped through its palette.
package convert

import (
	"fmt"
	"image"
	"log/slog"
	"slices"

	"golang.org/x/image/draw"

	"palgen/palette"
)

// Tileset is a tile sheet image belonging to a job. Its image counts
// toward automatic palette membership like any other.
type Tileset struct {
	Image      string
	TileWidth  int
	TileHeight int
}

// Job binds images to a target palette.
type Job struct {
	Name     string
	Palette  string
	Images   []string
	Tilesets []Tileset
}

// PaletteName implements palette.JobRef.
func (j *Job) PaletteName() string {
	return j.Palette
}

// ImagePaths implements palette.JobRef: every image the job references,
// tile set sheets included.
func (j *Job) ImagePaths() []string {
	paths := slices.Clone(j.Images)
	for _, ts := range j.Tilesets {
		paths = append(paths, ts.Image)
	}
	return paths
}

// Remap draws img through a generated palette, optionally dithering with
// Floyd-Steinberg. The output's pixel indices line up with the palette's
// slot numbering.
func Remap(logger *slog.Logger, img image.Image, pal *palette.Palette, dither bool) (*image.Paletted, error) {
	cp := pal.ColorPalette()
	if len(cp) == 0 {
		return nil, fmt.Errorf("palette %q has no entries to remap against", pal.Name)
	}

	logger.Info("applying palette", "colors", len(cp))

	sr := img.Bounds()
	dr := image.Rect(0, 0, sr.Dx(), sr.Dy())
	dest := image.NewPaletted(dr, cp)

	if dither {
		draw.FloydSteinberg.Draw(dest, dr, img, sr.Min)
	} else {
		draw.Draw(dest, dr, img, sr.Min, draw.Src)
	}
	return dest, nil
}
