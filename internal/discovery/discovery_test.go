package discovery

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/shotseek/shotseek/internal/errs"
)

func touch(t *testing.T, dir, name string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, name), nil, 0o644); err != nil {
		t.Fatalf("writing %s: %v", name, err)
	}
}

func TestDiscover(t *testing.T) {
	dir := t.TempDir()
	touch(t, dir, "b.mkv")
	touch(t, dir, "A.mp4")
	touch(t, dir, "notes.txt")
	touch(t, dir, ".hidden.mkv")
	if err := os.Mkdir(filepath.Join(dir, "sub"), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}

	result, err := Discover(dir)
	if err != nil {
		t.Fatalf("Discover: %v", err)
	}
	if len(result.Files) != 2 {
		t.Fatalf("found %d files, want 2: %v", len(result.Files), result.Files)
	}
	// Case-insensitive alphabetical order.
	if filepath.Base(result.Files[0]) != "A.mp4" || filepath.Base(result.Files[1]) != "b.mkv" {
		t.Errorf("files out of order: %v", result.Files)
	}
	if result.SkippedCount != 1 {
		t.Errorf("SkippedCount = %d, want 1", result.SkippedCount)
	}
}

func TestDiscoverEmpty(t *testing.T) {
	dir := t.TempDir()
	touch(t, dir, "readme.md")

	_, err := Discover(dir)
	if !errs.IsKind(err, errs.KindNoFilesFound) {
		t.Errorf("Discover on empty dir = %v, want no-files-found error", err)
	}
}

func TestDiscoverMissingDirectory(t *testing.T) {
	_, err := Discover(filepath.Join(t.TempDir(), "nope"))
	if !errs.IsKind(err, errs.KindIO) {
		t.Errorf("Discover on missing dir = %v, want I/O error", err)
	}
}

func TestDiscoverNotADirectory(t *testing.T) {
	dir := t.TempDir()
	touch(t, dir, "file.mkv")

	_, err := Discover(filepath.Join(dir, "file.mkv"))
	if !errs.IsKind(err, errs.KindConfig) {
		t.Errorf("Discover on a file = %v, want config error", err)
	}
}
