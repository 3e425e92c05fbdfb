package convert

import (
	"fmt"
	"image"
	"image/png"
	"os"
	"path/filepath"
)

// Save writes img to destDir under the source file's base name with a
// .png extension. The write goes through a temporary file that is only
// renamed into place once fully flushed.
func Save(img image.Image, destDir, srcName string) (err error) {
	oldExt := filepath.Ext(srcName)
	destName := fmt.Sprintf("%s.png", srcName[:len(srcName)-len(oldExt)])

	outFile, err := os.CreateTemp(destDir, destName)
	if err != nil {
		return fmt.Errorf("could not create temporary destination %q: %w", destName, err)
	}
	canRename := false
	defer func() {
		if defErr := outFile.Sync(); defErr != nil && err == nil {
			err = fmt.Errorf("could not flush temporary destination %q: %w", destName, defErr)
		}
		if defErr := outFile.Close(); defErr != nil && err == nil {
			err = fmt.Errorf("could not close temporary destination %q: %w", destName, defErr)
		}
		if !canRename {
			os.Remove(outFile.Name())
			return
		}
		if defErr := os.Rename(outFile.Name(), filepath.Join(destDir, destName)); defErr != nil && err == nil {
			err = fmt.Errorf("could not rename destination file %q: %w", destName, defErr)
		}
	}()

	enc := png.Encoder{CompressionLevel: png.BestCompression}
	if err = enc.Encode(outFile, img); err != nil {
		return fmt.Errorf("could not encode PNG destination %q: %w", destName, err)
	}

	canRename = true
	return err
}
