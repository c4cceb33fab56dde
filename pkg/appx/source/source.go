// Package source loads icon sources and hides the raster/vector split behind
// one interface. Extension sniffing happens here and nowhere else; everything
// downstream dispatches on the concrete variant.
package source

import (
	"fmt"
	"path/filepath"
	"strings"

	apperrors "github.com/tileforge-io/tileforge/pkg/appx/errors"
)

// Source is one loadable icon, raster or vector.
type Source interface {
	// Size returns the intrinsic dimensions in pixels. Vector documents
	// report their declared viewBox size.
	Size() (width, height int)
}

// Load opens path and decodes it by extension: .png loads a raster source,
// .svg a vector document. Matching is case-insensitive.
func Load(path string) (Source, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".png":
		return LoadRaster(path)
	case ".svg":
		return LoadVector(path)
	default:
		return nil, fmt.Errorf("%w: %q", apperrors.ErrUnsupportedFormat, filepath.Ext(path))
	}
}
