// Package gen implements the generate command: it reads a build file,
// assembles every palette it declares and optionally converts the build
// file's images against them.
package gen

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync/atomic"

	"palgen/config"
	"palgen/convert"
	"palgen/imgio"
	"palgen/palette"
	"palgen/parallel"

	"github.com/alecthomas/kong"
)

type CLICmd struct {
	Config   string `help:"Build file declaring palettes and converts" default:"palgen.yaml" type:"path"`
	Dest     string `help:"Destination folder for converted images and exported palettes. Relative to the build file's folder if not absolute." default:"out"`
	Convert  bool   `help:"Convert the build file's images after generating palettes" default:"false"`
	Dither   bool   `help:"Apply Floyd-Steinberg dithering when converting" default:"false"`
	WritePAL bool   `help:"Export each generated palette as a RIFF PAL file" default:"false"`
}

func (c *CLICmd) Validate(kctx *kong.Context) error {
	info, err := os.Stat(c.Config)
	if err == nil && info.IsDir() {
		err = fmt.Errorf("not a file")
	}
	if err != nil {
		return fmt.Errorf("invalid build file %q: %w", c.Config, err)
	}

	if !filepath.IsAbs(c.Dest) {
		c.Dest = filepath.Join(filepath.Dir(c.Config), c.Dest)
	}

	return nil
}

func (c *CLICmd) Run(worker parallel.WorkerFunc, wait parallel.WaitFunc) error {
	pals, jobs, err := config.Load(c.Config)
	if err != nil {
		return err
	}

	refs := make([]palette.JobRef, len(jobs))
	for i, job := range jobs {
		refs[i] = job
	}

	byName := make(map[string]*palette.Palette, len(pals))
	loader := imgio.FileLoader{}

	var errCount atomic.Uint64
	for _, p := range pals {
		byName[p.Name] = p
		worker(func(p *palette.Palette) func() {
			return func() {
				if err := p.Generate(refs, loader); err != nil {
					errCount.Add(1)
					slog.Error("could not generate palette", "palette", p.Name, "error", err)
				}
			}
		}(p))
	}
	wait(true)

	if errors := errCount.Load(); errors > 0 {
		return fmt.Errorf("error generating %d palettes", errors)
	}

	if !c.Convert && !c.WritePAL {
		return nil
	}
	if err := os.MkdirAll(c.Dest, 0o755); err != nil {
		return fmt.Errorf("unable to create destination folder %q: %w", c.Dest, err)
	}

	if c.WritePAL {
		for _, p := range pals {
			if err := c.exportPAL(p); err != nil {
				return err
			}
		}
	}

	if c.Convert {
		for _, job := range jobs {
			if err := c.convertJob(job, byName[job.Palette], loader); err != nil {
				return err
			}
		}
	}

	return nil
}

func (c *CLICmd) exportPAL(p *palette.Palette) error {
	path := filepath.Join(c.Dest, p.Name+".pal")
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("could not create palette file %q: %w", path, err)
	}
	err = palette.WritePAL(f, p.ColorPalette())
	if cerr := f.Close(); cerr != nil && err == nil {
		err = cerr
	}
	if err != nil {
		return fmt.Errorf("could not write palette file %q: %w", path, err)
	}
	slog.Info("exported palette", "palette", p.Name, "file", path)
	return nil
}

func (c *CLICmd) convertJob(job *convert.Job, pal *palette.Palette, loader imgio.FileLoader) error {
	logger := slog.Default().With("convert", job.Name, "palette", job.Palette)

	for _, path := range job.ImagePaths() {
		img, err := loader.Load(path)
		if err != nil {
			return fmt.Errorf("convert %q: %w", job.Name, err)
		}

		out, err := convert.Remap(logger.With("file", path), img, pal, c.Dither)
		if err != nil {
			return fmt.Errorf("convert %q: could not remap %q: %w", job.Name, path, err)
		}

		if err := convert.Save(out, c.Dest, filepath.Base(path)); err != nil {
			return fmt.Errorf("convert %q: %w", job.Name, err)
		}
	}

	logger.Info("converted images", "count", len(job.ImagePaths()))
	return nil
}
