//go:build !windows
// +build !windows

package embed

import (
	"fmt"
	"os"

	"github.com/hashicorp/go-hclog"
)

// atomicReplace swaps destPath for sourcePath. Rename is atomic on
// POSIX filesystems, so a single call does it.
func atomicReplace(sourcePath, destPath string, logger hclog.Logger) error {
	logger.Debug("Replacing file in place",
		"source", sourcePath,
		"dest", destPath)

	if err := os.Rename(sourcePath, destPath); err != nil {
		return fmt.Errorf("failed to rename file: %w", err)
	}

	return nil
}
