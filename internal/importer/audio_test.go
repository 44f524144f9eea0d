package importer

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func writeFile(t *testing.T, dir, name string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, name), []byte("not real audio"), 0o644); err != nil {
		t.Fatalf("failed to write %s: %v", name, err)
	}
}

func TestAudioScanSkipsUnreadableFiles(t *testing.T) {
	db := setupTestDB(t)
	dir := t.TempDir()

	writeFile(t, dir, "untagged.mp3") // probe succeeds, but no artist tag
	writeFile(t, dir, "broken.flac")  // probe fails
	writeFile(t, dir, "notes.txt")    // not an audio file, ignored entirely

	scanner := NewAudioScanner(db)
	scanner.probe = func(path string) (int, error) {
		if filepath.Ext(path) == ".flac" {
			return 0, errors.New("boom")
		}
		return 180, nil
	}

	report, err := scanner.Scan(context.Background(), dir)
	if err != nil {
		t.Fatalf("Scan: %v", err)
	}

	if report.Imported != 0 {
		t.Errorf("imported = %d, want 0", report.Imported)
	}
	if report.Skipped != 2 {
		t.Errorf("skipped = %d, want 2 (errors: %v)", report.Skipped, report.Errors)
	}
}

func TestAudioScanMissingDirectory(t *testing.T) {
	db := setupTestDB(t)

	if _, err := NewAudioScanner(db).Scan(context.Background(), "/does/not/exist"); err == nil {
		t.Error("expected an error for a missing directory")
	}
}
