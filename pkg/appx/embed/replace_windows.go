//go:build windows
// +build windows

package embed

import (
	"fmt"
	"time"

	"github.com/hashicorp/go-hclog"
	"golang.org/x/sys/windows"
)

// atomicReplace swaps destPath for sourcePath through MoveFileEx, with
// a retry loop to ride out transient locks held by scanners or the
// shell.
func atomicReplace(sourcePath, destPath string, logger hclog.Logger) error {
	logger.Debug("Replacing file in place",
		"source", sourcePath,
		"dest", destPath)

	fromPtr, err := windows.UTF16PtrFromString(sourcePath)
	if err != nil {
		return fmt.Errorf("failed to convert source path to UTF-16: %w", err)
	}

	toPtr, err := windows.UTF16PtrFromString(destPath)
	if err != nil {
		return fmt.Errorf("failed to convert dest path to UTF-16: %w", err)
	}

	var flags uint32 = windows.MOVEFILE_REPLACE_EXISTING | windows.MOVEFILE_WRITE_THROUGH

	maxAttempts := 3
	delay := 50 * time.Millisecond

	for attempt := 1; attempt <= maxAttempts; attempt++ {
		err = windows.MoveFileEx(fromPtr, toPtr, flags)
		if err == nil {
			if attempt > 1 {
				logger.Debug("File replaced after retry", "attempt", attempt)
			}
			return nil
		}

		if attempt == maxAttempts {
			return fmt.Errorf("failed after %d attempts (file locked): %w", maxAttempts, err)
		}

		logger.Debug("Retrying file replacement",
			"attempt", attempt,
			"next_delay_ms", delay.Milliseconds(),
			"error", err)

		time.Sleep(delay)
		delay *= 2
	}

	return nil
}
