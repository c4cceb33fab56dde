package pkg

import (
	"os"

	"github.com/hashicorp/go-hclog"

	"github.com/tileforge-io/tileforge/pkg/appx"
	"github.com/tileforge-io/tileforge/pkg/appx/catalog"
	"github.com/tileforge-io/tileforge/pkg/appx/ico"
	"github.com/tileforge-io/tileforge/pkg/appx/manifest"
	"github.com/tileforge-io/tileforge/pkg/logging"
)

// GenerateAssets renders the full tile and splash catalog from the
// source image into outDir. One Result per catalog entry.
func GenerateAssets(sourcePath, outDir string) []appx.Result {
	return GenerateAssetsWithLogLevel(sourcePath, outDir, "")
}

// GenerateAssetsWithLogLevel is GenerateAssets for callers that cannot
// set TILEFORGE_LOG_LEVEL.
func GenerateAssetsWithLogLevel(sourcePath, outDir, logLevel string) []appx.Result {
	return appx.GenerateAll(sourcePath, catalog.AllKeys(), appx.Options{OutDir: outDir}, newLogger(logLevel))
}

// UpdateManifest points an appxmanifest's asset references at the
// generated file names.
func UpdateManifest(manifestPath, assetDirPrefix string) error {
	return manifest.Update(manifestPath, assetDirPrefix, newLogger(""))
}

// WriteICO renders the source image into an icon bundle at outPath.
func WriteICO(sourcePath, outPath string) error {
	return ico.Write(sourcePath, outPath, newLogger(""))
}

func newLogger(level string) hclog.Logger {
	return logging.NewLogger("tileforge", logging.ResolveLevel(level), os.Stderr)
}
