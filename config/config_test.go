package config

import (
	"errors"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"palgen/pix"
)

func writeFile(t *testing.T, path, data string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		t.Fatal(err)
	}
}

func writePNG(t *testing.T, path string) {
	t.Helper()
	img := image.NewNRGBA(image.Rect(0, 0, 2, 2))
	img.SetNRGBA(0, 0, color.NRGBA{R: 0xFF, A: 0xFF})
	f, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	if err := png.Encode(f, img); err != nil {
		t.Fatal(err)
	}
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	writePNG(t, filepath.Join(dir, "hero.png"))
	writePNG(t, filepath.Join(dir, "tiles.png"))

	writeFile(t, filepath.Join(dir, "build.yaml"), `
palettes:
  - name: game
    max-entries: 64
    mode: rgb565
    speed: 7
    engine: kmeans
    automatic: true
    fixed-entries:
      - color: "#000000"
        index: 0
        exact: true
      - color: "#F00"
        index: 1
converts:
  - name: sprites
    palette: game
    images:
      - "hero.png"
    tilesets:
      - image: "tiles.png"
        tile-width: 16
        tile-height: 16
`)

	pals, jobs, err := Load(filepath.Join(dir, "build.yaml"))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(pals) != 1 || len(jobs) != 1 {
		t.Fatalf("got %d palettes, %d jobs, want 1 and 1", len(pals), len(jobs))
	}

	p := pals[0]
	if p.Name != "game" || p.MaxEntries != 64 || p.Speed != 7 || !p.Automatic {
		t.Errorf("palette fields wrong: %+v", p)
	}
	if p.Mode != pix.ModeRGB565 {
		t.Errorf("mode = %v, want rgb565", p.Mode)
	}
	if len(p.Fixed) != 2 {
		t.Fatalf("got %d fixed entries, want 2", len(p.Fixed))
	}
	if !p.Fixed[0].Exact || p.Fixed[0].Index != 0 {
		t.Errorf("fixed[0] = %+v", p.Fixed[0])
	}
	if got := p.Fixed[1].Color; got.R != 0xFF || got.G != 0 || got.B != 0 {
		t.Errorf("fixed[1] color = %+v, want red", got)
	}

	job := jobs[0]
	if job.Palette != "game" {
		t.Errorf("job palette = %q", job.Palette)
	}
	if len(job.Images) != 1 || filepath.Base(job.Images[0]) != "hero.png" {
		t.Errorf("job images = %v", job.Images)
	}
	if len(job.Tilesets) != 1 || job.Tilesets[0].TileWidth != 16 {
		t.Errorf("job tilesets = %+v", job.Tilesets)
	}
}

func TestLoadRejects(t *testing.T) {
	dir := t.TempDir()
	tests := []struct {
		name string
		yaml string
	}{
		{"duplicate palette", "palettes:\n  - name: a\n  - name: a\n"},
		{"unknown palette ref", "converts:\n  - name: j\n    palette: ghost\n"},
		{"bad mode", "palettes:\n  - name: a\n    mode: cmyk\n"},
		{"bad speed", "palettes:\n  - name: a\n    speed: 11\n"},
		{"bad engine", "palettes:\n  - name: a\n    engine: octree\n"},
		{"bad max-entries", "palettes:\n  - name: a\n    max-entries: 300\n"},
		{"bad color", "palettes:\n  - name: a\n    fixed-entries:\n      - color: \"red\"\n"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			path := filepath.Join(dir, "bad.yaml")
			writeFile(t, path, tc.yaml)
			if _, _, err := Load(path); !errors.Is(err, ErrInvalid) {
				t.Errorf("Load = %v, want ErrInvalid", err)
			}
		})
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, _, err := Load(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Error("Load accepted missing file")
	}
}

func TestParseHexColor(t *testing.T) {
	tests := []struct {
		in   string
		want pix.Color
	}{
		{"#FFF", pix.Color{R: 0xFF, G: 0xFF, B: 0xFF, A: 0xFF}},
		{"#F00A", pix.Color{R: 0xFF, A: 0xAA}},
		{"#102030", pix.Color{R: 0x10, G: 0x20, B: 0x30, A: 0xFF}},
		{"#10203040", pix.Color{R: 0x10, G: 0x20, B: 0x30, A: 0x40}},
	}
	for _, tc := range tests {
		got, err := ParseHexColor(tc.in)
		if err != nil {
			t.Errorf("ParseHexColor(%q): %v", tc.in, err)
			continue
		}
		if got != tc.want {
			t.Errorf("ParseHexColor(%q) = %+v, want %+v", tc.in, got, tc.want)
		}
	}

	for _, bad := range []string{"", "red", "#12", "#GGG", "#12345"} {
		if _, err := ParseHexColor(bad); err == nil {
			t.Errorf("ParseHexColor(%q) accepted bad input", bad)
		}
	}
}
