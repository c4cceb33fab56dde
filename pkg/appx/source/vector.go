package source

import (
	"bytes"
	"fmt"
	"image"
	"math"
	"os"

	"github.com/srwiley/oksvg"
	"github.com/srwiley/rasterx"

	apperrors "github.com/tileforge-io/tileforge/pkg/appx/errors"
)

// renderOverscan pads the render surface so anti-aliased path edges are not
// clipped at the surface boundary.
const renderOverscan = 10

// Vector is a parsed SVG document that can rasterize itself at any size.
type Vector struct {
	icon *oksvg.SvgIcon
}

// LoadVector parses an SVG file into a vector source. Documents without a
// positive declared size are rejected.
func LoadVector(path string) (*Vector, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: reading %s: %v", apperrors.ErrIOFailure, path, err)
	}

	icon, err := oksvg.ReadIconStream(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%w: parsing %s: %v", apperrors.ErrInvalidSourceDimensions, path, err)
	}
	if icon.ViewBox.W <= 0 || icon.ViewBox.H <= 0 {
		return nil, fmt.Errorf("%w: %s declares %gx%g",
			apperrors.ErrInvalidSourceDimensions, path, icon.ViewBox.W, icon.ViewBox.H)
	}

	return &Vector{icon: icon}, nil
}

// Size returns the declared document dimensions, rounded to pixels.
func (v *Vector) Size() (int, int) {
	return int(math.Round(v.icon.ViewBox.W)), int(math.Round(v.icon.ViewBox.H))
}

// Rasterize renders the document scaled to width x height. The returned
// surface is overscanned past the requested size; pixels outside painted
// paths stay fully transparent. Callers blit the (0,0)-(width,height) region.
func (v *Vector) Rasterize(width, height int) *image.RGBA {
	surfaceW := width + renderOverscan
	surfaceH := height + renderOverscan

	img := image.NewRGBA(image.Rect(0, 0, surfaceW, surfaceH))

	v.icon.SetTarget(0, 0, float64(width), float64(height))
	scanner := rasterx.NewScannerGV(surfaceW, surfaceH, img, img.Bounds())
	dasher := rasterx.NewDasher(surfaceW, surfaceH, scanner)
	v.icon.Draw(dasher, 1.0)

	return img
}
