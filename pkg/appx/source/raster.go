package source

import (
	"fmt"
	"image"
	"image/color"
	"image/png"
	"os"

	apperrors "github.com/tileforge-io/tileforge/pkg/appx/errors"
)

// Raster is a decoded pixel-grid source.
type Raster struct {
	img image.Image
}

// LoadRaster decodes a PNG file into a raster source.
func LoadRaster(path string) (*Raster, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: opening %s: %v", apperrors.ErrIOFailure, path, err)
	}
	defer f.Close()

	img, err := png.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("%w: decoding %s: %v", apperrors.ErrInvalidSourceDimensions, path, err)
	}

	return &Raster{img: img}, nil
}

// NewRaster wraps an already-decoded image.
func NewRaster(img image.Image) *Raster {
	return &Raster{img: img}
}

// Size returns the pixel dimensions.
func (r *Raster) Size() (int, int) {
	b := r.img.Bounds()
	return b.Dx(), b.Dy()
}

// Image returns the underlying pixels. Callers must not mutate them.
func (r *Raster) Image() image.Image {
	return r.img
}

// CornerColor samples the top-left pixel, the background-color heuristic for
// letterbox fill. Icon sources typically have a uniform corner color.
func (r *Raster) CornerColor() color.Color {
	b := r.img.Bounds()
	return r.img.At(b.Min.X, b.Min.Y)
}
