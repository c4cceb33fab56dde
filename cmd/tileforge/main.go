package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"runtime/debug"
	"syscall"
	"time"

	"github.com/hashicorp/go-hclog"
	"github.com/spf13/cobra"

	"github.com/tileforge-io/tileforge/internal/config"
	"github.com/tileforge-io/tileforge/internal/stamp"
	"github.com/tileforge-io/tileforge/internal/watch"
	"github.com/tileforge-io/tileforge/pkg"
	"github.com/tileforge-io/tileforge/pkg/appx"
	"github.com/tileforge-io/tileforge/pkg/appx/catalog"
	"github.com/tileforge-io/tileforge/pkg/appx/embed"
	"github.com/tileforge-io/tileforge/pkg/appx/ico"
	"github.com/tileforge-io/tileforge/pkg/appx/manifest"
	"github.com/tileforge-io/tileforge/pkg/logging"
)

const version = "0.1.0"

// defaultConfigFile is picked up from the working directory when no
// --config flag is given.
const defaultConfigFile = "tileforge.yaml"

var (
	sourcePath   string
	outDir       string
	outPath      string
	exePath      string
	manifestPath string
	assetsSel    string
	listSel      string
	fillStr      string
	cfgPath      string
	logLevel     string
	sysoArch     string
	verifyDir    string
	workers      int
	force        bool
	versionFlag  bool
	rootCmd      *cobra.Command
)

func buildTimestamp() string {
	// Try to get vcs.time from build info
	if info, ok := debug.ReadBuildInfo(); ok {
		for _, setting := range info.Settings {
			if setting.Key == "vcs.time" {
				if t, err := time.Parse(time.RFC3339, setting.Value); err == nil {
					return t.UTC().Format(time.RFC3339)
				}
			}
		}
	}
	// Fallback to binary modification time
	if exe, err := os.Executable(); err == nil {
		if stat, err := os.Stat(exe); err == nil {
			return stat.ModTime().UTC().Format(time.RFC3339)
		}
	}
	return time.Now().UTC().Format(time.RFC3339)
}

func printVersion() {
	fmt.Printf("tileforge %s\n", version)
	fmt.Printf("Built: %s\n", buildTimestamp())
}

func addGenerateFlags(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&sourcePath, "source", "s", "", "Source image (.png or .svg)")
	cmd.Flags().StringVarP(&outDir, "out", "o", "", "Output directory for generated assets")
	cmd.Flags().StringVarP(&manifestPath, "manifest", "m", "", "Appxmanifest to point at the generated assets")
	cmd.Flags().StringVar(&assetsSel, "assets", "", "Asset selection (tiles, splash, all)")
	cmd.Flags().IntVar(&workers, "workers", 0, "Render workers (0 = one per CPU)")
	cmd.Flags().StringVar(&fillStr, "fill", "", "Letterbox fill color (#RRGGBB or #RRGGBBAA)")
	cmd.Flags().StringVarP(&cfgPath, "config", "c", "", "Project configuration file")
	cmd.Flags().StringVar(&logLevel, "log-level", "", "Log level (trace, debug, info, warn, error)")
}

func init() {
	rootCmd = &cobra.Command{
		Use:   "tileforge",
		Short: "Generate Windows app package assets from one source image",
		Long: `Generate the full catalog of Windows app package tile, splash and
store logo assets from a single .png or .svg source image.`,
		Run: runRoot,
	}
	rootCmd.Flags().BoolVarP(&versionFlag, "version", "V", false, "Show version information")

	generateCmd := &cobra.Command{
		Use:   "generate",
		Short: "Render the asset catalog into the output directory",
		Run:   runGenerate,
	}
	addGenerateFlags(generateCmd)
	generateCmd.Flags().BoolVar(&force, "force", false, "Regenerate even when assets are current")

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List the catalog keys and their dimensions",
		Run:   runList,
	}
	listCmd.Flags().StringVar(&listSel, "assets", "all", "Asset selection (tiles, splash, all)")

	watchCmd := &cobra.Command{
		Use:   "watch",
		Short: "Regenerate assets whenever the source image changes",
		Run:   runWatch,
	}
	addGenerateFlags(watchCmd)

	icoCmd := &cobra.Command{
		Use:   "ico",
		Short: "Write a .ico bundle rendered from the source image",
		Run:   runIco,
	}
	icoCmd.Flags().StringVarP(&sourcePath, "source", "s", "", "Source image (.png or .svg)")
	icoCmd.Flags().StringVarP(&outPath, "out", "o", "", "Output .ico path")
	icoCmd.Flags().StringVar(&logLevel, "log-level", "", "Log level (trace, debug, info, warn, error)")
	if err := icoCmd.MarkFlagRequired("source"); err != nil {
		panic(err)
	}
	if err := icoCmd.MarkFlagRequired("out"); err != nil {
		panic(err)
	}

	sysoCmd := &cobra.Command{
		Use:   "syso",
		Short: "Write a resource object file carrying the application icon",
		Long: `Write a COFF resource object (.syso) carrying the application icon.
Drop it next to a package's sources and go build links the icon into
the resulting Windows executable.`,
		Run: runSyso,
	}
	sysoCmd.Flags().StringVarP(&sourcePath, "source", "s", "", "Source image (.png or .svg)")
	sysoCmd.Flags().StringVarP(&outPath, "out", "o", "", "Output .syso path (default rsrc_windows_<arch>.syso)")
	sysoCmd.Flags().StringVar(&sysoArch, "arch", "amd64", "Target architecture (amd64, 386, arm, arm64)")
	sysoCmd.Flags().StringVar(&logLevel, "log-level", "", "Log level (trace, debug, info, warn, error)")
	if err := sysoCmd.MarkFlagRequired("source"); err != nil {
		panic(err)
	}

	verifyCmd := &cobra.Command{
		Use:   "verify",
		Short: "Check generated assets against their stamp",
		Run:   runVerify,
	}
	verifyCmd.Flags().StringVarP(&verifyDir, "out", "o", "Assets", "Directory holding generated assets")
	verifyCmd.Flags().StringVar(&logLevel, "log-level", "", "Log level (trace, debug, info, warn, error)")

	embedCmd := &cobra.Command{
		Use:   "embed",
		Short: "Patch the application icon into an existing executable",
		Run:   runEmbed,
	}
	embedCmd.Flags().StringVarP(&sourcePath, "source", "s", "", "Source image (.png or .svg)")
	embedCmd.Flags().StringVar(&exePath, "exe", "", "Executable to patch")
	embedCmd.Flags().StringVar(&logLevel, "log-level", "", "Log level (trace, debug, info, warn, error)")
	if err := embedCmd.MarkFlagRequired("source"); err != nil {
		panic(err)
	}
	if err := embedCmd.MarkFlagRequired("exe"); err != nil {
		panic(err)
	}

	rootCmd.AddCommand(generateCmd, listCmd, watchCmd, verifyCmd, icoCmd, sysoCmd, embedCmd)
}

func main() {
	// Handle --version or -V before cobra parses other flags
	if len(os.Args) > 1 && (os.Args[1] == "--version" || os.Args[1] == "-V") {
		printVersion()
		os.Exit(0)
	}

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func runRoot(cmd *cobra.Command, args []string) {
	if versionFlag {
		printVersion()
		return
	}
	cmd.Help()
}

// resolveSettings merges flags over TILEFORGE_* variables over the
// project file and builds the logger for the run.
func resolveSettings() (config.Settings, hclog.Logger) {
	flags := config.Settings{
		Source:   sourcePath,
		OutDir:   outDir,
		Manifest: manifestPath,
		Assets:   assetsSel,
		Workers:  workers,
		Fill:     fillStr,
		LogLevel: logLevel,
	}

	var file config.File
	switch {
	case cfgPath != "":
		f, err := config.LoadFile(cfgPath)
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
		file = f
	default:
		if _, err := os.Stat(defaultConfigFile); err == nil {
			f, err := config.LoadFile(defaultConfigFile)
			if err != nil {
				fmt.Fprintln(os.Stderr, err)
				os.Exit(1)
			}
			file = f
		}
	}

	envOv, err := config.FromEnv()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	settings := config.Merge(file, envOv, flags)
	logger := logging.NewLogger("tileforge", logging.ResolveLevel(settings.LogLevel), os.Stderr)

	if err := settings.Validate(); err != nil {
		logger.Error("❌ Invalid configuration", "error", err)
		os.Exit(1)
	}

	return settings, logger
}

func newLogger() hclog.Logger {
	return logging.NewLogger("tileforge", logging.ResolveLevel(logLevel), os.Stderr)
}

// generateOnce runs one full generation pass and returns the number of
// failed entries. A clean pass stamps the output directory and updates
// the manifest when one is configured.
func generateOnce(settings config.Settings, keys []string, logger hclog.Logger) int {
	fill, err := appx.ParseFillColor(settings.Fill)
	if err != nil {
		logger.Error("❌ Bad fill color", "error", err)
		return len(keys)
	}

	results := appx.GenerateAll(settings.Source, keys, appx.Options{
		OutDir:  settings.OutDir,
		Fill:    fill,
		Workers: settings.Workers,
	}, logger)

	failed := 0
	written := make([]string, 0, len(results))
	for _, r := range results {
		if r.Err != nil {
			failed++
			continue
		}
		written = append(written, r.Key)
	}
	if failed > 0 {
		return failed
	}

	if err := stamp.Write(settings.OutDir, settings.Source, written); err != nil {
		logger.Warn("⚠️ Failed to record stamp", "error", err)
	}

	if settings.Manifest != "" {
		prefix := filepath.Base(filepath.Clean(settings.OutDir))
		if err := manifest.Update(settings.Manifest, prefix, logger); err != nil {
			logger.Error("❌ Failed to update manifest", "error", err)
			return 1
		}
	}

	return 0
}

func runGenerate(cmd *cobra.Command, args []string) {
	settings, logger := resolveSettings()

	if settings.Source == "" {
		logger.Error("❌ No source image given (use --source or tileforge.yaml)")
		os.Exit(1)
	}

	if force {
		if err := stamp.Clean(settings.OutDir); err != nil {
			logger.Error("❌ Failed to clear stamp", "error", err)
			os.Exit(1)
		}
	} else if stamp.Current(settings.OutDir, settings.Source) {
		logger.Info("✅ Assets already current", "out", settings.OutDir)
		return
	}

	if generateOnce(settings, settings.Keys(), logger) > 0 {
		os.Exit(1)
	}
}

func runList(cmd *cobra.Command, args []string) {
	var entries []catalog.Entry
	switch listSel {
	case config.SelectTiles:
		entries = catalog.TileEntries()
	case config.SelectSplash:
		entries = catalog.SplashEntries()
	case config.SelectAll:
		entries = append(catalog.TileEntries(), catalog.SplashEntries()...)
	default:
		fmt.Fprintf(os.Stderr, "unknown assets selection %q\n", listSel)
		os.Exit(1)
	}

	for _, e := range entries {
		m := catalog.MarginsFor(e.Key)
		fmt.Printf("%-52s %4dx%-4d margin %.2f\n", e.Key, e.Size.Width, e.Size.Height, m.X)
	}
}

func runWatch(cmd *cobra.Command, args []string) {
	settings, logger := resolveSettings()

	if settings.Source == "" {
		logger.Error("❌ No source image given (use --source or tileforge.yaml)")
		os.Exit(1)
	}

	keys := settings.Keys()

	// First pass up front so the output is complete before any change.
	generateOnce(settings, keys, logger)

	w, err := watch.New(settings.Source, func() {
		logger.Info("🔁 Source changed, regenerating")
		generateOnce(settings, keys, logger)
	}, logger)
	if err != nil {
		logger.Error("❌ Failed to start watcher", "error", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := w.Run(ctx); err != nil {
		logger.Error("❌ Watch failed", "error", err)
		os.Exit(1)
	}
}

func runVerify(cmd *cobra.Command, args []string) {
	logger := newLogger()

	if err := pkg.VerifyAssetsWithLogger(verifyDir, logger); err != nil {
		logger.Error("❌ Verification failed", "error", err)
		os.Exit(1)
	}
}

func runIco(cmd *cobra.Command, args []string) {
	logger := newLogger()

	if err := ico.Write(sourcePath, outPath, logger); err != nil {
		logger.Error("❌ Failed to write icon bundle", "error", err)
		os.Exit(1)
	}
}

func runSyso(cmd *cobra.Command, args []string) {
	logger := newLogger()

	out := outPath
	if out == "" {
		out = "rsrc_windows_" + sysoArch + ".syso"
	}

	if err := embed.WriteSyso(sourcePath, out, sysoArch, logger); err != nil {
		logger.Error("❌ Failed to write resource object", "error", err)
		os.Exit(1)
	}
}

func runEmbed(cmd *cobra.Command, args []string) {
	logger := newLogger()

	if err := embed.PatchEXE(sourcePath, exePath, logger); err != nil {
		logger.Error("❌ Failed to patch executable", "error", err)
		os.Exit(1)
	}
}
