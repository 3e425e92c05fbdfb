package imgio

import (
	"errors"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"
)

func writePNG(t *testing.T, path string, w, h int) {
	t.Helper()

	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := range h {
		for x := range w {
			img.SetNRGBA(x, y, color.NRGBA{R: uint8(x * 37), G: uint8(y * 53), B: 0x40, A: 0xFF})
		}
	}

	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("create %s: %v", path, err)
	}
	defer f.Close()
	if err := png.Encode(f, img); err != nil {
		t.Fatalf("encode %s: %v", path, err)
	}
}

func TestFindImages(t *testing.T) {
	dir := t.TempDir()
	writePNG(t, filepath.Join(dir, "a.png"), 2, 2)
	writePNG(t, filepath.Join(dir, "b.png"), 2, 2)
	if err := os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}

	paths, err := FindImages(filepath.Join(dir, "*"))
	if err != nil {
		t.Fatalf("FindImages: %v", err)
	}
	if len(paths) != 2 {
		t.Errorf("got %d paths, want 2 (text file must be filtered): %v", len(paths), paths)
	}

	if _, err := FindImages(filepath.Join(dir, "missing-*.png")); !errors.Is(err, ErrNotFound) {
		t.Errorf("no matches: got %v, want ErrNotFound", err)
	}
}

func TestFileLoader(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "img.png")
	writePNG(t, path, 5, 3)

	img, err := FileLoader{}.Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if img.Bounds() != image.Rect(0, 0, 5, 3) {
		t.Errorf("bounds = %v, want (0,0)-(5,3)", img.Bounds())
	}
	if got := img.NRGBAAt(2, 1); got != (color.NRGBA{R: 74, G: 53, B: 0x40, A: 0xFF}) {
		t.Errorf("pixel (2,1) = %v", got)
	}

	if _, err := (FileLoader{}).Load(filepath.Join(dir, "absent.png")); err == nil {
		t.Error("Load of missing file succeeded")
	}
}
