// Package appx generates the fixed set of Windows app package image assets
// from a single icon source.
package appx

import (
	"fmt"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"strconv"

	"github.com/hashicorp/go-hclog"

	"github.com/tileforge-io/tileforge/pkg/appx/catalog"
	"github.com/tileforge-io/tileforge/pkg/appx/compose"
	apperrors "github.com/tileforge-io/tileforge/pkg/appx/errors"
	"github.com/tileforge-io/tileforge/pkg/appx/source"
)

// Options configure a generation run. The zero value writes next to the
// source with stock behavior.
type Options struct {
	// OutDir overrides the output directory; empty writes next to the source.
	OutDir string
	// Fill overrides the raster background heuristic; nil keeps the
	// corner-pixel sample.
	Fill color.Color
	// Workers bounds batch fan-out; values below 1 default to NumCPU.
	Workers int
}

// Generate renders one catalog asset from the icon at sourcePath, writing the
// PNG under the exact key name next to the source. Returns the written path.
func Generate(sourcePath, sizeKey string, logger hclog.Logger) (string, error) {
	return GenerateWith(sourcePath, sizeKey, Options{}, logger)
}

// GenerateWith is Generate with explicit options.
func GenerateWith(sourcePath, sizeKey string, opts Options, logger hclog.Logger) (string, error) {
	src, err := source.Load(sourcePath)
	if err != nil {
		return "", err
	}
	return renderTo(src, sourcePath, sizeKey, opts, logger)
}

// renderTo resolves the catalog entry, plans the fit, composites, and
// persists. Nothing is written unless every prior step succeeds.
func renderTo(src source.Source, sourcePath, sizeKey string, opts Options, logger hclog.Logger) (string, error) {
	size, margins, err := catalog.Resolve(sizeKey)
	if err != nil {
		return "", err
	}

	srcW, srcH := src.Size()
	plan, err := compose.NewPlan(srcW, srcH, size, margins)
	if err != nil {
		return "", err
	}

	canvas, err := compose.Compose(src, plan, size, compose.Options{Fill: opts.Fill})
	if err != nil {
		return "", err
	}

	outDir := opts.OutDir
	if outDir == "" {
		outDir = filepath.Dir(sourcePath)
	}
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return "", fmt.Errorf("%w: creating %s: %v", apperrors.ErrIOFailure, outDir, err)
	}

	outPath := filepath.Join(outDir, sizeKey)
	if err := writePNG(outPath, canvas); err != nil {
		return "", err
	}

	logger.Debug("🖼️ Asset written",
		"key", sizeKey,
		"path", outPath,
		"width", size.Width,
		"height", size.Height,
	)

	return outPath, nil
}

func writePNG(path string, img image.Image) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("%w: creating %s: %v", apperrors.ErrIOFailure, path, err)
	}
	if err := png.Encode(f, img); err != nil {
		f.Close()
		os.Remove(path)
		return fmt.Errorf("%w: encoding %s: %v", apperrors.ErrIOFailure, path, err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("%w: closing %s: %v", apperrors.ErrIOFailure, path, err)
	}
	return nil
}

// ParseFillColor parses "#RRGGBB", "RRGGBB", or "#RRGGBBAA" into a color.
// An empty string means "no override" and returns nil.
func ParseFillColor(s string) (color.Color, error) {
	if s == "" {
		return nil, nil
	}
	hex := s
	if hex[0] == '#' {
		hex = hex[1:]
	}
	if len(hex) != 6 && len(hex) != 8 {
		return nil, fmt.Errorf("fill color %q: want RRGGBB or RRGGBBAA", s)
	}

	v, err := strconv.ParseUint(hex, 16, 64)
	if err != nil {
		return nil, fmt.Errorf("fill color %q: %v", s, err)
	}

	c := color.RGBA{A: 0xFF}
	if len(hex) == 8 {
		c.A = uint8(v)
		v >>= 8
	}
	c.B = uint8(v)
	c.G = uint8(v >> 8)
	c.R = uint8(v >> 16)
	return c, nil
}
