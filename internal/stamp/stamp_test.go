package stamp

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("Failed to write %s: %v", path, err)
	}
}

func TestStampRoundTrip(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "logo.png")
	writeFile(t, src, "source bytes")
	writeFile(t, filepath.Join(dir, "a.png"), "a")
	writeFile(t, filepath.Join(dir, "b.png"), "b")

	if Current(dir, src) {
		t.Fatal("Current true before any stamp was written")
	}

	if err := Write(dir, src, []string{"a.png", "b.png"}); err != nil {
		t.Fatalf("Write failed: %v", err)
	}

	if !Current(dir, src) {
		t.Error("Current false right after Write")
	}

	data, err := os.ReadFile(filepath.Join(dir, FileName))
	if err != nil {
		t.Fatalf("Failed to read stamp: %v", err)
	}
	for _, field := range []string{`"schema_version": 1`, `"source_sha256"`, `"generated_at"`, `"outputs"`} {
		if !strings.Contains(string(data), field) {
			t.Errorf("stamp missing field %s", field)
		}
	}
}

func TestStampRead(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "logo.png")
	writeFile(t, src, "source bytes")
	writeFile(t, filepath.Join(dir, "a.png"), "a")

	if err := Write(dir, src, []string{"a.png"}); err != nil {
		t.Fatalf("Write failed: %v", err)
	}

	s, err := Read(dir)
	if err != nil {
		t.Fatalf("Read failed: %v", err)
	}

	if s.Source != src {
		t.Errorf("got source %q, want %q", s.Source, src)
	}
	if len(s.Outputs) != 1 || s.Outputs[0] != "a.png" {
		t.Errorf("got outputs %v, want [a.png]", s.Outputs)
	}
	if s.GeneratedAt.IsZero() {
		t.Error("generated_at not recorded")
	}

	sum, err := HashSource(src)
	if err != nil {
		t.Fatalf("HashSource failed: %v", err)
	}
	if s.SourceSHA256 != sum {
		t.Errorf("got hash %s, want %s", s.SourceSHA256, sum)
	}
}

func TestStampSourceChanged(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "logo.png")
	writeFile(t, src, "first revision")
	writeFile(t, filepath.Join(dir, "a.png"), "a")

	if err := Write(dir, src, []string{"a.png"}); err != nil {
		t.Fatalf("Write failed: %v", err)
	}

	writeFile(t, src, "second revision")

	if Current(dir, src) {
		t.Error("Current true after the source changed")
	}
}

func TestStampMissingOutput(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "logo.png")
	writeFile(t, src, "source bytes")
	writeFile(t, filepath.Join(dir, "a.png"), "a")

	if err := Write(dir, src, []string{"a.png"}); err != nil {
		t.Fatalf("Write failed: %v", err)
	}

	if err := os.Remove(filepath.Join(dir, "a.png")); err != nil {
		t.Fatalf("Failed to remove output: %v", err)
	}

	if Current(dir, src) {
		t.Error("Current true with a listed output missing")
	}
}

func TestStampSchemaMismatch(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "logo.png")
	writeFile(t, src, "source bytes")

	marker := `{"schema_version": 99, "source": "logo.png", "source_sha256": "", "outputs": []}`
	writeFile(t, filepath.Join(dir, FileName), marker)

	if Current(dir, src) {
		t.Error("Current true for a future schema version")
	}
}

func TestStampClean(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "logo.png")
	writeFile(t, src, "source bytes")

	if err := Write(dir, src, nil); err != nil {
		t.Fatalf("Write failed: %v", err)
	}
	if err := Clean(dir); err != nil {
		t.Fatalf("Clean failed: %v", err)
	}
	if Current(dir, src) {
		t.Error("Current true after Clean")
	}

	// A second Clean finds nothing to remove and still succeeds.
	if err := Clean(dir); err != nil {
		t.Errorf("Clean on clean dir failed: %v", err)
	}
}
