package source

import (
	"errors"
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/hashicorp/go-hclog"

	apperrors "github.com/tileforge-io/tileforge/pkg/appx/errors"
)

const testSVG = `<svg xmlns="http://www.w3.org/2000/svg" width="64" height="64" viewBox="0 0 64 64"><rect x="8" y="8" width="48" height="48" fill="#3366CC"/></svg>`

func writePNG(t *testing.T, path string, width, height int, c color.Color) {
	t.Helper()

	img := image.NewRGBA(image.Rect(0, 0, width, height))
	draw.Draw(img, img.Bounds(), &image.Uniform{C: c}, image.Point{}, draw.Src)

	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("Failed to create %s: %v", path, err)
	}
	defer f.Close()

	if err := png.Encode(f, img); err != nil {
		t.Fatalf("Failed to encode %s: %v", path, err)
	}
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("Failed to write %s: %v", path, err)
	}
}

// TestLoadDispatch tests extension sniffing at the loader boundary
func TestLoadDispatch(t *testing.T) {
	logger := hclog.New(&hclog.LoggerOptions{
		Name:  "source_test",
		Level: hclog.Trace,
	})

	dir := t.TempDir()
	writePNG(t, filepath.Join(dir, "icon.png"), 16, 16, color.RGBA{R: 255, A: 255})
	writePNG(t, filepath.Join(dir, "upper.PNG"), 16, 16, color.RGBA{G: 255, A: 255})
	writeFile(t, filepath.Join(dir, "icon.svg"), testSVG)

	testCases := []struct {
		name       string
		file       string
		wantVector bool
		wantErr    error
	}{
		{"png raster", "icon.png", false, nil},
		{"uppercase extension", "upper.PNG", false, nil},
		{"svg vector", "icon.svg", true, nil},
		{"jpeg rejected", "photo.jpg", false, apperrors.ErrUnsupportedFormat},
		{"no extension", "icon", false, apperrors.ErrUnsupportedFormat},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			logger.Info("🧪 Loading source", "file", tc.file)

			src, err := Load(filepath.Join(dir, tc.file))

			if tc.wantErr != nil {
				if !errors.Is(err, tc.wantErr) {
					t.Fatalf("Load(%q) error = %v, want %v", tc.file, err, tc.wantErr)
				}
				logger.Info("✅ Rejected as expected", "file", tc.file, "error", err)
				return
			}

			if err != nil {
				t.Fatalf("Load(%q) returned error: %v", tc.file, err)
			}

			_, isVector := src.(*Vector)
			if isVector != tc.wantVector {
				t.Errorf("Load(%q) vector = %v, want %v", tc.file, isVector, tc.wantVector)
			}

			logger.Info("✅ Source loaded", "file", tc.file, "vector", isVector)
		})
	}
}

// TestRasterSource tests raster dimensions and the corner-color heuristic
func TestRasterSource(t *testing.T) {
	logger := hclog.New(&hclog.LoggerOptions{
		Name:  "source_test",
		Level: hclog.Trace,
	})

	dir := t.TempDir()
	blue := color.RGBA{R: 0x33, G: 0x66, B: 0xCC, A: 0xFF}
	path := filepath.Join(dir, "blue.png")
	writePNG(t, path, 120, 80, blue)

	raster, err := LoadRaster(path)
	if err != nil {
		t.Fatalf("LoadRaster returned error: %v", err)
	}

	w, h := raster.Size()
	logger.Info("🖼️ Raster loaded", "width", w, "height", h)

	if w != 120 || h != 80 {
		t.Errorf("Size() = %dx%d, want 120x80", w, h)
	}

	r, g, b, a := raster.CornerColor().RGBA()
	wr, wg, wb, wa := blue.RGBA()
	if r != wr || g != wg || b != wb || a != wa {
		t.Errorf("CornerColor() = (%d,%d,%d,%d), want (%d,%d,%d,%d)",
			r, g, b, a, wr, wg, wb, wa)
	}

	logger.Info("✅ Raster source verified")
}

// TestVectorSource tests declared size and overscanned rasterization
func TestVectorSource(t *testing.T) {
	logger := hclog.New(&hclog.LoggerOptions{
		Name:  "source_test",
		Level: hclog.Trace,
	})

	dir := t.TempDir()
	path := filepath.Join(dir, "icon.svg")
	writeFile(t, path, testSVG)

	vector, err := LoadVector(path)
	if err != nil {
		t.Fatalf("LoadVector returned error: %v", err)
	}

	w, h := vector.Size()
	logger.Info("🎨 Vector loaded", "width", w, "height", h)

	if w != 64 || h != 64 {
		t.Errorf("Size() = %dx%d, want 64x64", w, h)
	}

	surface := vector.Rasterize(64, 64)
	bounds := surface.Bounds()

	logger.Debug("🖌️ Rasterized surface",
		"surface_width", bounds.Dx(),
		"surface_height", bounds.Dy(),
	)

	if bounds.Dx() != 64+renderOverscan || bounds.Dy() != 64+renderOverscan {
		t.Errorf("surface = %dx%d, want %dx%d",
			bounds.Dx(), bounds.Dy(), 64+renderOverscan, 64+renderOverscan)
	}

	// The rect paints 8..56; the center is opaque, the corner untouched.
	if a := surface.RGBAAt(32, 32).A; a != 0xFF {
		t.Errorf("center alpha = %d, want 255", a)
	}
	if a := surface.RGBAAt(2, 2).A; a != 0 {
		t.Errorf("corner alpha = %d, want 0", a)
	}

	logger.Info("✅ Vector source verified")
}

// TestLoadFailures tests the error kinds surfaced by the loaders
func TestLoadFailures(t *testing.T) {
	logger := hclog.New(&hclog.LoggerOptions{
		Name:  "source_test",
		Level: hclog.Trace,
	})

	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "garbage.png"), "not a png at all")
	writeFile(t, filepath.Join(dir, "zero.svg"),
		`<svg xmlns="http://www.w3.org/2000/svg" width="0" height="0"></svg>`)

	testCases := []struct {
		name string
		file string
		want error
	}{
		{"missing png", "missing.png", apperrors.ErrIOFailure},
		{"missing svg", "missing.svg", apperrors.ErrIOFailure},
		{"undecodable png", "garbage.png", apperrors.ErrInvalidSourceDimensions},
		{"zero-size svg", "zero.svg", apperrors.ErrInvalidSourceDimensions},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			logger.Info("🧪 Loading broken source", "file", tc.file)

			_, err := Load(filepath.Join(dir, tc.file))
			if err == nil {
				t.Fatalf("Load(%q) succeeded, want %v", tc.file, tc.want)
			}
			if !errors.Is(err, tc.want) {
				t.Errorf("Load(%q) error = %v, want %v", tc.file, err, tc.want)
			}

			logger.Info("✅ Failure surfaced", "file", tc.file, "error", err)
		})
	}
}
