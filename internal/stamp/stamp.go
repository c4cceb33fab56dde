// Package stamp records completed generation runs so repeat runs can
// skip work when the source image has not changed.
package stamp

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	apperrors "github.com/tileforge-io/tileforge/pkg/appx/errors"
)

// FileName is the stamp written into the output directory.
const FileName = "tileforge.assets.json"

const schemaVersion = 1

// Stamp describes one finished run.
type Stamp struct {
	SchemaVersion int       `json:"schema_version"`
	Source        string    `json:"source"`
	SourceSHA256  string    `json:"source_sha256"`
	GeneratedAt   time.Time `json:"generated_at"`
	Outputs       []string  `json:"outputs"`
}

// Write records a finished run in dir. Outputs are file names relative
// to dir.
func Write(dir, sourcePath string, outputs []string) error {
	sum, err := HashSource(sourcePath)
	if err != nil {
		return err
	}

	s := Stamp{
		SchemaVersion: schemaVersion,
		Source:        sourcePath,
		SourceSHA256:  sum,
		GeneratedAt:   time.Now().UTC(),
		Outputs:       append([]string(nil), outputs...),
	}

	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return fmt.Errorf("%w: encoding stamp: %v", apperrors.ErrIOFailure, err)
	}

	path := filepath.Join(dir, FileName)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("%w: writing %s: %v", apperrors.ErrIOFailure, path, err)
	}

	return nil
}

// Read loads the stamp recorded in dir.
func Read(dir string) (Stamp, error) {
	path := filepath.Join(dir, FileName)

	data, err := os.ReadFile(path)
	if err != nil {
		return Stamp{}, fmt.Errorf("%w: reading %s: %v", apperrors.ErrIOFailure, path, err)
	}

	var s Stamp
	if err := json.Unmarshal(data, &s); err != nil {
		return Stamp{}, fmt.Errorf("%w: parsing %s: %v", apperrors.ErrIOFailure, path, err)
	}

	return s, nil
}

// Current reports whether dir holds assets generated from the source
// file as it exists right now. Any doubt reads as "regenerate".
func Current(dir, sourcePath string) bool {
	s, err := Read(dir)
	if err != nil {
		return false
	}

	if s.SchemaVersion != schemaVersion {
		return false
	}

	sum, err := HashSource(sourcePath)
	if err != nil || sum != s.SourceSHA256 {
		return false
	}

	for _, name := range s.Outputs {
		if _, err := os.Stat(filepath.Join(dir, name)); err != nil {
			return false
		}
	}

	return true
}

// Clean drops the stamp so the next run regenerates everything. A
// missing stamp is not an error.
func Clean(dir string) error {
	err := os.Remove(filepath.Join(dir, FileName))
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("%w: removing stamp: %v", apperrors.ErrIOFailure, err)
	}
	return nil
}

// HashSource returns the hex SHA-256 of the file at path.
func HashSource(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("%w: opening %s: %v", apperrors.ErrIOFailure, path, err)
	}
	defer f.Close()

	h := sha256.New()
	if _, err := io.Copy(h, f); err != nil {
		return "", fmt.Errorf("%w: hashing %s: %v", apperrors.ErrIOFailure, path, err)
	}

	return hex.EncodeToString(h.Sum(nil)), nil
}
