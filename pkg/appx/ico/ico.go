// Package ico writes desktop icon bundles from the same sources that feed
// the tile generator.
package ico

import (
	"bytes"
	"fmt"
	"image"
	"os"

	"github.com/hashicorp/go-hclog"
	goico "github.com/sergeymakinen/go-ico"
	xdraw "golang.org/x/image/draw"

	"github.com/tileforge-io/tileforge/pkg/appx/catalog"
	"github.com/tileforge-io/tileforge/pkg/appx/compose"
	apperrors "github.com/tileforge-io/tileforge/pkg/appx/errors"
	"github.com/tileforge-io/tileforge/pkg/appx/source"
)

// bundleSize is the single frame encoded into the bundle. One 256x256 entry
// is widely supported and downscales cleanly.
const bundleSize = 256

// Write renders the icon at sourcePath into a single-frame ICO at outPath.
func Write(sourcePath, outPath string, logger hclog.Logger) error {
	src, err := source.Load(sourcePath)
	if err != nil {
		return err
	}

	frame, err := Frame(src, bundleSize)
	if err != nil {
		return err
	}

	var buf bytes.Buffer
	if err := goico.Encode(&buf, frame); err != nil {
		return fmt.Errorf("%w: encoding %s: %v", apperrors.ErrIOFailure, outPath, err)
	}
	if err := os.WriteFile(outPath, buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("%w: writing %s: %v", apperrors.ErrIOFailure, outPath, err)
	}

	logger.Info("✅ Icon bundle written",
		"source", sourcePath,
		"path", outPath,
		"frame", bundleSize,
	)

	return nil
}

// Frame fits an already-loaded source into a transparent size x size frame.
// Unlike tile composition there is no letterbox fill for raster sources:
// icon frames keep their transparency.
func Frame(src source.Source, size int) (image.Image, error) {
	target := catalog.Size{Width: size, Height: size}

	srcW, srcH := src.Size()
	plan, err := compose.NewPlan(srcW, srcH, target, catalog.Margins{X: 1, Y: 1})
	if err != nil {
		return nil, err
	}

	switch s := src.(type) {
	case *source.Vector:
		return compose.ComposeVector(s, plan, target), nil
	case *source.Raster:
		dst := image.NewNRGBA(image.Rect(0, 0, size, size))
		content := image.Rect(plan.OffsetX, plan.OffsetY, plan.OffsetX+plan.Width, plan.OffsetY+plan.Height)
		img := s.Image()
		xdraw.CatmullRom.Scale(dst, content, img, img.Bounds(), xdraw.Over, nil)
		return dst, nil
	default:
		return nil, fmt.Errorf("%w: %T", apperrors.ErrUnsupportedFormat, src)
	}
}
