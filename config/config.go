// Package config reads the YAML build file that declares palettes and
// conversion jobs.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"palgen/convert"
	"palgen/imgio"
	"palgen/palette"
	"palgen/pix"
	"palgen/quant"
)

// ErrInvalid flags a build file that parsed but does not make sense.
var ErrInvalid = errors.New("invalid build file")

type buildFile struct {
	Palettes []paletteConfig `yaml:"palettes"`
	Converts []jobConfig     `yaml:"converts"`
}

type paletteConfig struct {
	Name       string       `yaml:"name"`
	MaxEntries int          `yaml:"max-entries"`
	Mode       string       `yaml:"mode"`
	Speed      int          `yaml:"speed"`
	Engine     string       `yaml:"engine"`
	Automatic  bool         `yaml:"automatic"`
	Images     []string     `yaml:"images"`
	Fixed      []fixedColor `yaml:"fixed-entries"`
	FixedPAL   *fixedPAL    `yaml:"fixed-pal"`
}

type fixedColor struct {
	Color string `yaml:"color"`
	Index int    `yaml:"index"`
	Exact bool   `yaml:"exact"`
}

type fixedPAL struct {
	File  string `yaml:"file"`
	Base  int    `yaml:"base"`
	Exact bool   `yaml:"exact"`
}

type jobConfig struct {
	Name     string          `yaml:"name"`
	Palette  string          `yaml:"palette"`
	Images   []string        `yaml:"images"`
	Tilesets []tilesetConfig `yaml:"tilesets"`
}

type tilesetConfig struct {
	Image      string `yaml:"image"`
	TileWidth  int    `yaml:"tile-width"`
	TileHeight int    `yaml:"tile-height"`
}

// Load reads path and builds the declared palettes and jobs. Image glob
// patterns are expanded here, relative to the build file's directory, so
// missing inputs surface before any generation starts.
func Load(path string) ([]*palette.Palette, []*convert.Job, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, nil, fmt.Errorf("could not read build file %q: %w", path, err)
	}

	var bf buildFile
	if err := yaml.Unmarshal(data, &bf); err != nil {
		return nil, nil, fmt.Errorf("could not parse build file %q: %w", path, err)
	}

	baseDir := filepath.Dir(path)

	jobs := make([]*convert.Job, 0, len(bf.Converts))
	for _, jc := range bf.Converts {
		job, err := buildJob(jc, baseDir)
		if err != nil {
			return nil, nil, err
		}
		jobs = append(jobs, job)
	}

	pals := make([]*palette.Palette, 0, len(bf.Palettes))
	seen := make(map[string]bool, len(bf.Palettes))
	for _, pc := range bf.Palettes {
		if seen[pc.Name] {
			return nil, nil, fmt.Errorf("%w: duplicate palette %q", ErrInvalid, pc.Name)
		}
		seen[pc.Name] = true

		p, err := buildPalette(pc, baseDir)
		if err != nil {
			return nil, nil, err
		}
		pals = append(pals, p)
	}

	for _, job := range jobs {
		if !seen[job.Palette] {
			return nil, nil, fmt.Errorf("%w: convert %q references unknown palette %q",
				ErrInvalid, job.Name, job.Palette)
		}
	}

	return pals, jobs, nil
}

func buildPalette(pc paletteConfig, baseDir string) (*palette.Palette, error) {
	if pc.Name == "" {
		return nil, fmt.Errorf("%w: palette without a name", ErrInvalid)
	}

	p := palette.New(pc.Name)

	if pc.MaxEntries != 0 {
		if pc.MaxEntries < 1 || pc.MaxEntries > palette.MaxEntries {
			return nil, fmt.Errorf("%w: palette %q: max-entries %d outside 1..%d",
				ErrInvalid, pc.Name, pc.MaxEntries, palette.MaxEntries)
		}
		p.MaxEntries = pc.MaxEntries
	}

	if pc.Mode != "" {
		mode, err := pix.ParseMode(pc.Mode)
		if err != nil {
			return nil, fmt.Errorf("%w: palette %q: %w", ErrInvalid, pc.Name, err)
		}
		p.Mode = mode
	}

	if pc.Speed != 0 {
		if pc.Speed < 1 || pc.Speed > 10 {
			return nil, fmt.Errorf("%w: palette %q: speed %d outside 1..10",
				ErrInvalid, pc.Name, pc.Speed)
		}
		p.Speed = pc.Speed
	}

	if pc.Engine != "" {
		if _, err := quant.NewEngine(quant.Algorithm(pc.Engine)); err != nil {
			return nil, fmt.Errorf("%w: palette %q: %w", ErrInvalid, pc.Name, err)
		}
		p.Algorithm = quant.Algorithm(pc.Engine)
	}

	p.Automatic = pc.Automatic

	for _, pattern := range pc.Images {
		if err := p.AddPath(resolvePath(baseDir, pattern)); err != nil {
			return nil, fmt.Errorf("palette %q: %w", pc.Name, err)
		}
	}

	for _, fc := range pc.Fixed {
		col, err := ParseHexColor(fc.Color)
		if err != nil {
			return nil, fmt.Errorf("%w: palette %q: %w", ErrInvalid, pc.Name, err)
		}
		err = p.AddFixed(palette.Entry{Color: col, Index: fc.Index, Exact: fc.Exact})
		if err != nil {
			return nil, fmt.Errorf("palette %q: %w", pc.Name, err)
		}
	}

	if pc.FixedPAL != nil {
		f, err := os.Open(resolvePath(baseDir, pc.FixedPAL.File))
		if err != nil {
			return nil, fmt.Errorf("palette %q: could not open fixed palette: %w", pc.Name, err)
		}
		err = p.AddFixedPAL(f, pc.FixedPAL.Base, pc.FixedPAL.Exact)
		if cerr := f.Close(); cerr != nil && err == nil {
			err = cerr
		}
		if err != nil {
			return nil, fmt.Errorf("palette %q: %w", pc.Name, err)
		}
	}

	return p, nil
}

func buildJob(jc jobConfig, baseDir string) (*convert.Job, error) {
	if jc.Name == "" {
		return nil, fmt.Errorf("%w: convert without a name", ErrInvalid)
	}
	if jc.Palette == "" {
		return nil, fmt.Errorf("%w: convert %q without a palette", ErrInvalid, jc.Name)
	}

	job := &convert.Job{Name: jc.Name, Palette: jc.Palette}

	for _, pattern := range jc.Images {
		paths, err := imgio.FindImages(resolvePath(baseDir, pattern))
		if err != nil {
			return nil, fmt.Errorf("convert %q: %w", jc.Name, err)
		}
		job.Images = append(job.Images, paths...)
	}

	for _, tc := range jc.Tilesets {
		paths, err := imgio.FindImages(resolvePath(baseDir, tc.Image))
		if err != nil {
			return nil, fmt.Errorf("convert %q: %w", jc.Name, err)
		}
		for _, p := range paths {
			job.Tilesets = append(job.Tilesets, convert.Tileset{
				Image:      p,
				TileWidth:  tc.TileWidth,
				TileHeight: tc.TileHeight,
			})
		}
	}

	return job, nil
}

func resolvePath(baseDir, p string) string {
	if filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(baseDir, p)
}
