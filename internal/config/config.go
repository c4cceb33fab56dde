// Package config merges tileforge settings from three layers. A
// tileforge.yaml project file sits at the bottom, TILEFORGE_*
// environment variables override it, and command line flags override
// both.
package config

import (
	"fmt"
	"os"

	"github.com/caarlos0/env/v11"
	"gopkg.in/yaml.v3"

	"github.com/tileforge-io/tileforge/pkg/appx"
	"github.com/tileforge-io/tileforge/pkg/appx/catalog"
	apperrors "github.com/tileforge-io/tileforge/pkg/appx/errors"
)

// Asset selection values for the assets setting.
const (
	SelectTiles  = "tiles"
	SelectSplash = "splash"
	SelectAll    = "all"
)

// File is the on-disk project configuration, conventionally
// tileforge.yaml next to the source image.
type File struct {
	Source   string `yaml:"source"`
	OutDir   string `yaml:"out_dir"`
	Manifest string `yaml:"manifest"`
	Assets   string `yaml:"assets"`
	Workers  int    `yaml:"workers"`
	Fill     string `yaml:"fill"`
	LogLevel string `yaml:"log_level"`
}

// Env carries the environment overrides.
type Env struct {
	OutDir   string `env:"TILEFORGE_OUT_DIR"`
	Manifest string `env:"TILEFORGE_MANIFEST"`
	Workers  int    `env:"TILEFORGE_WORKERS"`
	Fill     string `env:"TILEFORGE_FILL"`
	LogLevel string `env:"TILEFORGE_LOG_LEVEL"`
}

// Settings is the effective configuration after merging. Zero values
// in a layer mean "not set there" and fall through to the layer below.
type Settings struct {
	Source   string
	OutDir   string
	Manifest string
	Assets   string
	Workers  int
	Fill     string
	LogLevel string
}

// Default returns the built-in settings used when no layer overrides
// them. Workers 0 means one worker per CPU.
func Default() Settings {
	return Settings{
		OutDir: "Assets",
		Assets: SelectAll,
	}
}

// LoadFile reads and parses a project configuration file.
func LoadFile(path string) (File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return File{}, fmt.Errorf("%w: reading %s: %v", apperrors.ErrIOFailure, path, err)
	}

	var f File
	if err := yaml.Unmarshal(data, &f); err != nil {
		return File{}, fmt.Errorf("%w: parsing %s: %v", apperrors.ErrIOFailure, path, err)
	}

	return f, nil
}

// FromEnv reads the TILEFORGE_* overrides.
func FromEnv() (Env, error) {
	var e Env
	if err := env.Parse(&e); err != nil {
		return Env{}, fmt.Errorf("parse env: %w", err)
	}
	return e, nil
}

// Merge layers file, environment and flag values over the defaults.
func Merge(file File, envOv Env, flags Settings) Settings {
	s := Default()

	overlayString(&s.Source, file.Source, flags.Source)
	overlayString(&s.OutDir, file.OutDir, envOv.OutDir, flags.OutDir)
	overlayString(&s.Manifest, file.Manifest, envOv.Manifest, flags.Manifest)
	overlayString(&s.Assets, file.Assets, flags.Assets)
	overlayInt(&s.Workers, file.Workers, envOv.Workers, flags.Workers)
	overlayString(&s.Fill, file.Fill, envOv.Fill, flags.Fill)
	overlayString(&s.LogLevel, file.LogLevel, envOv.LogLevel, flags.LogLevel)

	return s
}

// Validate checks the merged settings for values no command can act on.
func (s Settings) Validate() error {
	switch s.Assets {
	case SelectTiles, SelectSplash, SelectAll:
	default:
		return fmt.Errorf("assets must be %s, %s or %s, got %q", SelectTiles, SelectSplash, SelectAll, s.Assets)
	}

	if s.Workers < 0 {
		return fmt.Errorf("workers must be zero or positive, got %d", s.Workers)
	}

	if _, err := appx.ParseFillColor(s.Fill); err != nil {
		return err
	}

	return nil
}

// Keys lists the catalog keys selected by the assets setting.
func (s Settings) Keys() []string {
	switch s.Assets {
	case SelectTiles:
		return catalog.TileKeys()
	case SelectSplash:
		return catalog.SplashKeys()
	default:
		return catalog.AllKeys()
	}
}

func overlayString(dst *string, layers ...string) {
	for _, v := range layers {
		if v != "" {
			*dst = v
		}
	}
}

func overlayInt(dst *int, layers ...int) {
	for _, v := range layers {
		if v > 0 {
			*dst = v
		}
	}
}
