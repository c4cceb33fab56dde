package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	apperrors "github.com/tileforge-io/tileforge/pkg/appx/errors"
)

func TestLoadFile(t *testing.T) {
	tmpDir := t.TempDir()
	configFile := filepath.Join(tmpDir, "tileforge.yaml")

	configContent := `
source: "artwork/logo.svg"
out_dir: "Assets"
manifest: "Package.appxmanifest"
assets: "tiles"
workers: 4
fill: "#336699"
log_level: "debug"
`

	if err := os.WriteFile(configFile, []byte(configContent), 0o644); err != nil {
		t.Fatalf("Failed to create test config: %v", err)
	}

	f, err := LoadFile(configFile)
	if err != nil {
		t.Fatalf("LoadFile failed: %v", err)
	}

	if f.Source != "artwork/logo.svg" {
		t.Errorf("got source %q, want artwork/logo.svg", f.Source)
	}
	if f.OutDir != "Assets" {
		t.Errorf("got out_dir %q, want Assets", f.OutDir)
	}
	if f.Manifest != "Package.appxmanifest" {
		t.Errorf("got manifest %q, want Package.appxmanifest", f.Manifest)
	}
	if f.Assets != SelectTiles {
		t.Errorf("got assets %q, want tiles", f.Assets)
	}
	if f.Workers != 4 {
		t.Errorf("got workers %d, want 4", f.Workers)
	}
	if f.Fill != "#336699" {
		t.Errorf("got fill %q, want #336699", f.Fill)
	}
	if f.LogLevel != "debug" {
		t.Errorf("got log_level %q, want debug", f.LogLevel)
	}
}

func TestLoadFileFailures(t *testing.T) {
	tmpDir := t.TempDir()

	t.Run("missing file", func(t *testing.T) {
		_, err := LoadFile(filepath.Join(tmpDir, "absent.yaml"))
		if !errors.Is(err, apperrors.ErrIOFailure) {
			t.Errorf("got %v, want ErrIOFailure", err)
		}
	})

	t.Run("malformed yaml", func(t *testing.T) {
		path := filepath.Join(tmpDir, "broken.yaml")
		if err := os.WriteFile(path, []byte("source: [unclosed"), 0o644); err != nil {
			t.Fatalf("Failed to write config: %v", err)
		}
		_, err := LoadFile(path)
		if !errors.Is(err, apperrors.ErrIOFailure) {
			t.Errorf("got %v, want ErrIOFailure", err)
		}
	})
}

func TestMergePrecedence(t *testing.T) {
	tests := []struct {
		name  string
		file  File
		env   Env
		flags Settings
		want  Settings
	}{
		{
			name: "defaults only",
			want: Settings{OutDir: "Assets", Assets: SelectAll},
		},
		{
			name: "file fills the gaps",
			file: File{Source: "logo.png", OutDir: "Images", Workers: 2, Fill: "#FF0000"},
			want: Settings{Source: "logo.png", OutDir: "Images", Assets: SelectAll, Workers: 2, Fill: "#FF0000"},
		},
		{
			name: "environment beats file",
			file: File{OutDir: "from-file", Workers: 2},
			env:  Env{OutDir: "from-env", Workers: 8},
			want: Settings{OutDir: "from-env", Assets: SelectAll, Workers: 8},
		},
		{
			name:  "flags beat environment",
			file:  File{OutDir: "from-file"},
			env:   Env{OutDir: "from-env", LogLevel: "info"},
			flags: Settings{OutDir: "from-flag", LogLevel: "trace"},
			want:  Settings{OutDir: "from-flag", Assets: SelectAll, LogLevel: "trace"},
		},
		{
			name:  "flag source beats file source",
			file:  File{Source: "a.png"},
			flags: Settings{Source: "b.svg", Assets: SelectSplash},
			want:  Settings{Source: "b.svg", OutDir: "Assets", Assets: SelectSplash},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Merge(tt.file, tt.env, tt.flags)
			if got != tt.want {
				t.Errorf("Merge() = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestFromEnv(t *testing.T) {
	t.Setenv("TILEFORGE_OUT_DIR", "EnvAssets")
	t.Setenv("TILEFORGE_WORKERS", "6")
	t.Setenv("TILEFORGE_FILL", "#112233")

	e, err := FromEnv()
	if err != nil {
		t.Fatalf("FromEnv failed: %v", err)
	}

	if e.OutDir != "EnvAssets" {
		t.Errorf("got out dir %q, want EnvAssets", e.OutDir)
	}
	if e.Workers != 6 {
		t.Errorf("got workers %d, want 6", e.Workers)
	}
	if e.Fill != "#112233" {
		t.Errorf("got fill %q, want #112233", e.Fill)
	}
}

func TestFromEnvBadInteger(t *testing.T) {
	t.Setenv("TILEFORGE_WORKERS", "many")

	if _, err := FromEnv(); err == nil {
		t.Error("expected error for non-numeric TILEFORGE_WORKERS")
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name     string
		settings Settings
		wantErr  bool
	}{
		{
			name:     "defaults",
			settings: Default(),
			wantErr:  false,
		},
		{
			name:     "tiles selection with fill",
			settings: Settings{Assets: SelectTiles, Fill: "#336699"},
			wantErr:  false,
		},
		{
			name:     "unknown assets selection",
			settings: Settings{Assets: "none"},
			wantErr:  true,
		},
		{
			name:     "negative workers",
			settings: Settings{Assets: SelectAll, Workers: -1},
			wantErr:  true,
		},
		{
			name:     "unparseable fill",
			settings: Settings{Assets: SelectAll, Fill: "red"},
			wantErr:  true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.settings.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestKeysSelection(t *testing.T) {
	tests := []struct {
		assets string
		count  int
	}{
		{SelectTiles, 40},
		{SelectSplash, 5},
		{SelectAll, 45},
	}

	for _, tt := range tests {
		t.Run(tt.assets, func(t *testing.T) {
			s := Settings{Assets: tt.assets}
			if got := len(s.Keys()); got != tt.count {
				t.Errorf("got %d keys, want %d", got, tt.count)
			}
		})
	}
}
