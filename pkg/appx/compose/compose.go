package compose

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"

	xdraw "golang.org/x/image/draw"

	"github.com/tileforge-io/tileforge/pkg/appx/catalog"
	apperrors "github.com/tileforge-io/tileforge/pkg/appx/errors"
	"github.com/tileforge-io/tileforge/pkg/appx/source"
)

// fillOverscan lets the border fill bleed under the content box edge so
// resampled content never exposes a seam against the fill.
const fillOverscan = 2

// Options tune composition. The zero value preserves stock behavior.
type Options struct {
	// Fill overrides the corner-pixel background heuristic for raster
	// sources when non-nil. Vector canvases are always transparent.
	Fill color.Color
}

// Compose renders a source variant onto a target-sized canvas per plan.
func Compose(src source.Source, plan Plan, target catalog.Size, opts Options) (*image.RGBA, error) {
	switch s := src.(type) {
	case *source.Raster:
		return ComposeRaster(s, plan, target, opts), nil
	case *source.Vector:
		return ComposeVector(s, plan, target), nil
	default:
		return nil, fmt.Errorf("%w: %T", apperrors.ErrUnsupportedFormat, src)
	}
}

// ComposeRaster renders a raster source onto a target-sized canvas. The
// letterbox border is filled with the source's corner color (or the explicit
// override) using four bands; the content is resampled with CatmullRom into
// the centered box. The source is never mutated.
func ComposeRaster(src *source.Raster, plan Plan, target catalog.Size, opts Options) *image.RGBA {
	canvas := image.NewRGBA(image.Rect(0, 0, target.Width, target.Height))

	background := opts.Fill
	if background == nil {
		background = src.CornerColor()
	}
	fill := image.NewUniform(background)

	content := image.Rect(
		plan.OffsetX,
		plan.OffsetY,
		plan.OffsetX+plan.Width,
		plan.OffsetY+plan.Height,
	)

	// Top and bottom rows, then left and right columns, each bleeding
	// fillOverscan pixels into the content box.
	bands := []image.Rectangle{
		image.Rect(0, 0, target.Width, content.Min.Y+fillOverscan),
		image.Rect(0, content.Max.Y-fillOverscan, target.Width, target.Height),
		image.Rect(0, 0, content.Min.X+fillOverscan, target.Height),
		image.Rect(content.Max.X-fillOverscan, 0, target.Width, target.Height),
	}
	for _, band := range bands {
		draw.Draw(canvas, band.Intersect(canvas.Bounds()), fill, image.Point{}, draw.Src)
	}

	if plan.Width <= 0 || plan.Height <= 0 {
		return canvas
	}

	img := src.Image()
	xdraw.CatmullRom.Scale(canvas, content, img, img.Bounds(), xdraw.Over, nil)

	return canvas
}

// ComposeVector renders a vector source onto a transparent target-sized
// canvas. No background fill: pixels outside painted paths keep alpha 0.
func ComposeVector(src *source.Vector, plan Plan, target catalog.Size) *image.RGBA {
	canvas := image.NewRGBA(image.Rect(0, 0, target.Width, target.Height))

	if plan.Width <= 0 || plan.Height <= 0 {
		return canvas
	}

	surface := src.Rasterize(plan.Width, plan.Height)
	content := image.Rect(
		plan.OffsetX,
		plan.OffsetY,
		plan.OffsetX+plan.Width,
		plan.OffsetY+plan.Height,
	)
	xdraw.CatmullRom.Scale(canvas, content, surface, image.Rect(0, 0, plan.Width, plan.Height), xdraw.Over, nil)

	return canvas
}
