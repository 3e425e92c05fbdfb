// Package imgio finds and decodes source images. Decoding is entirely
// library-backed; palette work only ever sees straight-alpha NRGBA pixels.
package imgio

import (
	"errors"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"strings"

	_ "golang.org/x/image/bmp"
	"golang.org/x/image/draw"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

// ErrNotFound is returned when a path pattern matches no images.
var ErrNotFound = errors.New("no images match path")

var imageExts = []string{".png", ".gif", ".jpg", ".jpeg", ".bmp", ".tif", ".tiff", ".webp"}

// FindImages expands a glob pattern and filters the matches down to known
// image extensions.
func FindImages(pattern string) ([]string, error) {
	matches, err := filepath.Glob(pattern)
	if err != nil {
		return nil, fmt.Errorf("invalid image path pattern %q: %w", pattern, err)
	}

	var paths []string
	for _, m := range matches {
		if slices.Contains(imageExts, strings.ToLower(filepath.Ext(m))) {
			paths = append(paths, m)
		}
	}
	if len(paths) == 0 {
		return nil, fmt.Errorf("%w: %q", ErrNotFound, pattern)
	}
	return paths, nil
}

// FileLoader decodes images from the filesystem.
type FileLoader struct{}

// Load decodes the image at path into zero-origin NRGBA pixels.
func (FileLoader) Load(path string) (*image.NRGBA, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("could not open image %q: %w", path, err)
	}

	img, _, err := image.Decode(f)
	if cerr := f.Close(); cerr != nil {
		slog.Error("could not close image", "file", path, "error", cerr)
	}
	if err != nil {
		return nil, fmt.Errorf("could not decode image %q: %w", path, err)
	}

	if n, ok := img.(*image.NRGBA); ok && n.Bounds().Min == image.Pt(0, 0) {
		return n, nil
	}

	bounds := img.Bounds()
	out := image.NewNRGBA(image.Rect(0, 0, bounds.Dx(), bounds.Dy()))
	draw.Draw(out, out.Bounds(), img, bounds.Min, draw.Src)
	return out, nil
}
