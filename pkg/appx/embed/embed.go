// Package embed packs the application icon into Windows PE resources.
//
// The icon travels one of two routes: a COFF object file (.syso) that
// `go build` links into a fresh executable, or a direct rewrite of an
// existing executable's resource section. Both start from the same
// multi-resolution icon rendered off the source image.
package embed

import (
	"fmt"
	"image"
	"os"

	"github.com/hashicorp/go-hclog"
	"github.com/tc-hib/winres"

	apperrors "github.com/tileforge-io/tileforge/pkg/appx/errors"
	"github.com/tileforge-io/tileforge/pkg/appx/ico"
	"github.com/tileforge-io/tileforge/pkg/appx/source"
)

// iconLadder lists the frame sizes Windows expects in an application
// icon, smallest first.
var iconLadder = []int{16, 24, 32, 48, 64, 128, 256}

// iconID identifies the group icon resource. Explorer shows the group
// with the lowest ordinal, so 1 makes this the executable's face.
const iconID = winres.ID(1)

// BuildIcon renders the source image at every ladder size and packs the
// frames into one multi-resolution icon resource.
func BuildIcon(sourcePath string, logger hclog.Logger) (*winres.Icon, error) {
	src, err := source.Load(sourcePath)
	if err != nil {
		return nil, err
	}

	width, height := src.Size()
	logger.Debug("Rendering icon ladder",
		"source", sourcePath,
		"source_width", width,
		"source_height", height,
		"frames", len(iconLadder))

	frames := make([]image.Image, 0, len(iconLadder))
	for _, size := range iconLadder {
		frame, err := ico.Frame(src, size)
		if err != nil {
			return nil, err
		}
		frames = append(frames, frame)
	}

	icon, err := winres.NewIconFromImages(frames)
	if err != nil {
		return nil, fmt.Errorf("%w: assembling icon resource: %v", apperrors.ErrIOFailure, err)
	}

	return icon, nil
}

// parseArch maps a GOARCH-style name onto the object file machine type.
func parseArch(arch string) (winres.Arch, error) {
	switch arch {
	case "amd64":
		return winres.ArchAMD64, nil
	case "386":
		return winres.ArchI386, nil
	case "arm":
		return winres.ArchARM, nil
	case "arm64":
		return winres.ArchARM64, nil
	default:
		return "", fmt.Errorf("%w: %q (want amd64, 386, arm or arm64)", apperrors.ErrUnknownArch, arch)
	}
}

// WriteSyso writes a resource-only COFF object file carrying the icon.
// Dropping the file next to a package's sources makes `go build` link
// the icon into the resulting Windows executable.
func WriteSyso(sourcePath, outPath, arch string, logger hclog.Logger) error {
	machine, err := parseArch(arch)
	if err != nil {
		return err
	}

	icon, err := BuildIcon(sourcePath, logger)
	if err != nil {
		return err
	}

	rs := &winres.ResourceSet{}
	if err := rs.SetIcon(iconID, icon); err != nil {
		return fmt.Errorf("%w: setting icon resource: %v", apperrors.ErrIOFailure, err)
	}

	out, err := os.Create(outPath)
	if err != nil {
		return fmt.Errorf("%w: creating %s: %v", apperrors.ErrIOFailure, outPath, err)
	}
	if err := rs.WriteObject(out, machine); err != nil {
		out.Close()
		os.Remove(outPath)
		return fmt.Errorf("%w: writing %s: %v", apperrors.ErrIOFailure, outPath, err)
	}
	if err := out.Close(); err != nil {
		os.Remove(outPath)
		return fmt.Errorf("%w: closing %s: %v", apperrors.ErrIOFailure, outPath, err)
	}

	logger.Info("✅ Resource object written",
		"source", sourcePath,
		"out", outPath,
		"arch", arch)

	return nil
}

// PatchEXE rewrites an existing executable's resource section so it
// carries the icon. Resources already present survive the rewrite; the
// file is replaced atomically once the new copy is fully written.
func PatchEXE(sourcePath, exePath string, logger hclog.Logger) error {
	icon, err := BuildIcon(sourcePath, logger)
	if err != nil {
		return err
	}

	logger.Info("Patching executable icon",
		"source", sourcePath,
		"exe", exePath)

	// First pass: read whatever resources the executable already has.
	in, err := os.Open(exePath)
	if err != nil {
		return fmt.Errorf("%w: opening %s: %v", apperrors.ErrIOFailure, exePath, err)
	}

	rs, err := winres.LoadFromEXE(in)
	if err != nil {
		// No resource section yet. Start from an empty set.
		logger.Debug("Creating new resource set (no existing resources)")
		rs = &winres.ResourceSet{}
	} else {
		logger.Debug("Loaded existing resources from executable")
	}

	if err := in.Close(); err != nil {
		return fmt.Errorf("%w: closing %s: %v", apperrors.ErrIOFailure, exePath, err)
	}

	if err := rs.SetIcon(iconID, icon); err != nil {
		return fmt.Errorf("%w: setting icon resource: %v", apperrors.ErrIOFailure, err)
	}

	// Second pass: splice the updated resource section into a copy.
	// Closes are explicit because the replace below needs both files
	// released on Windows.
	tmpPath := exePath + ".tmp"

	in2, err := os.Open(exePath)
	if err != nil {
		return fmt.Errorf("%w: reopening %s: %v", apperrors.ErrIOFailure, exePath, err)
	}

	out, err := os.Create(tmpPath)
	if err != nil {
		in2.Close()
		return fmt.Errorf("%w: creating %s: %v", apperrors.ErrIOFailure, tmpPath, err)
	}

	logger.Debug("Writing resources to temporary file", "tmp", tmpPath)
	if err := rs.WriteToEXE(out, in2); err != nil {
		out.Close()
		in2.Close()
		os.Remove(tmpPath)
		return fmt.Errorf("%w: writing resources to %s: %v", apperrors.ErrIOFailure, exePath, err)
	}

	if err := out.Close(); err != nil {
		in2.Close()
		os.Remove(tmpPath)
		return fmt.Errorf("%w: closing %s: %v", apperrors.ErrIOFailure, tmpPath, err)
	}
	if err := in2.Close(); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("%w: closing %s: %v", apperrors.ErrIOFailure, exePath, err)
	}

	if err := atomicReplace(tmpPath, exePath, logger); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("%w: replacing %s: %v", apperrors.ErrIOFailure, exePath, err)
	}

	logger.Info("✅ Executable icon patched", "exe", exePath)

	return nil
}
