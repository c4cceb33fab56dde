package pkg

import (
	"fmt"
	"image/png"
	"os"
	"path/filepath"

	"github.com/hashicorp/go-hclog"

	"github.com/tileforge-io/tileforge/internal/stamp"
	"github.com/tileforge-io/tileforge/pkg/appx/catalog"
)

// VerifyAssetsWithLogger checks a generated output directory with a
// provided logger. The stamp must parse, the source it names must
// still hash to the recorded value, and every recorded output must
// decode as a PNG of its catalog size.
func VerifyAssetsWithLogger(dir string, logger hclog.Logger) error {
	s, err := stamp.Read(dir)
	if err != nil {
		return err
	}

	logger.Info("Verifying generated assets", "dir", dir, "outputs", len(s.Outputs))

	problems := []string{}

	sum, err := stamp.HashSource(s.Source)
	switch {
	case err != nil:
		problems = append(problems, fmt.Sprintf("source unreadable: %v", err))
		logger.Error("Source verification failed", "source", s.Source, "error", err)
	case sum != s.SourceSHA256:
		problems = append(problems, "source changed since generation")
		logger.Error("Source hash mismatch", "source", s.Source)
	default:
		logger.Info("✓ Source hash matches", "source", s.Source)
	}

	for _, name := range s.Outputs {
		if err := verifyOutput(dir, name); err != nil {
			problems = append(problems, fmt.Sprintf("%s: %v", name, err))
			logger.Error("Output verification failed", "output", name, "error", err)
			continue
		}
		logger.Debug("✓ Output valid", "output", name)
	}

	if len(problems) > 0 {
		logger.Error("✗ Asset verification failed", "problem_count", len(problems))
		return fmt.Errorf("%w: %d problems in %s", ErrVerificationFailed, len(problems), dir)
	}

	logger.Info("✓ Asset verification passed", "outputs", len(s.Outputs))
	return nil
}

// VerifyAssets verifies a generated output directory using default
// logger settings.
func VerifyAssets(dir string) error {
	return VerifyAssetsWithLogger(dir, newLogger(""))
}

func verifyOutput(dir, name string) error {
	size, _, err := catalog.Resolve(name)
	if err != nil {
		return err
	}

	f, err := os.Open(filepath.Join(dir, name))
	if err != nil {
		return err
	}
	defer f.Close()

	cfg, err := png.DecodeConfig(f)
	if err != nil {
		return err
	}

	if cfg.Width != size.Width || cfg.Height != size.Height {
		return fmt.Errorf("decoded %dx%d, want %dx%d", cfg.Width, cfg.Height, size.Width, size.Height)
	}

	return nil
}
