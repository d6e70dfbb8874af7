package platform

import (
	"os"
	"path/filepath"
	"testing"
)

func TestCreateDirectoryIfNotExists(t *testing.T) {
	tempDir := t.TempDir()
	testDir := filepath.Join(tempDir, "test_dir")

	if _, err := os.Stat(testDir); !os.IsNotExist(err) {
		t.Fatalf("Test directory already exists: %s", testDir)
	}

	if err := CreateDirectoryIfNotExists(testDir); err != nil {
		t.Fatalf("Failed to create directory: %v", err)
	}

	if _, err := os.Stat(testDir); os.IsNotExist(err) {
		t.Fatalf("Directory was not created: %s", testDir)
	}

	// Second call should not fail
	if err := CreateDirectoryIfNotExists(testDir); err != nil {
		t.Fatalf("Failed to handle existing directory: %v", err)
	}
}

func TestCreateDirectoryIfNotExists_FileInTheWay(t *testing.T) {
	path := filepath.Join(t.TempDir(), "file")
	if err := os.WriteFile(path, []byte("x"), 0o644); err != nil {
		t.Fatalf("write file: %v", err)
	}

	if err := CreateDirectoryIfNotExists(path); err == nil {
		t.Fatal("expected error when a regular file occupies the path")
	}
}

func TestNewFiles(t *testing.T) {
	root := t.TempDir()
	existing := filepath.Join(root, "old.mp4")
	if err := os.WriteFile(existing, nil, 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}

	before, err := SnapshotDir(root)
	if err != nil {
		t.Fatalf("snapshot: %v", err)
	}

	nested := filepath.Join(root, "My Playlist")
	if err := os.MkdirAll(nested, 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	for _, name := range []string{
		filepath.Join(root, "new.mp4"),
		filepath.Join(nested, "entry.webm"),
		filepath.Join(root, "partial.mp4.part"),
		filepath.Join(root, LockFileName),
	} {
		if err := os.WriteFile(name, nil, 0o644); err != nil {
			t.Fatalf("write %s: %v", name, err)
		}
	}

	added, err := NewFiles(root, before)
	if err != nil {
		t.Fatalf("new files: %v", err)
	}

	expected := []string{
		filepath.Join(nested, "entry.webm"),
		filepath.Join(root, "new.mp4"),
	}
	if len(added) != len(expected) {
		t.Fatalf("expected %d new files, got %v", len(expected), added)
	}
	for i := range expected {
		if added[i] != expected[i] {
			t.Errorf("file %d: expected %s, got %s", i, expected[i], added[i])
		}
	}
}

func TestSnapshotDir_MissingRoot(t *testing.T) {
	snap, err := SnapshotDir(filepath.Join(t.TempDir(), "missing"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(snap) != 0 {
		t.Errorf("expected empty snapshot, got %d entries", len(snap))
	}
}

func TestSafeDirName(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"My Playlist", "My Playlist"},
		{"AC/DC: Live", "AC-DC- Live"},
		{"what?", "what"},
		{"  ", DefaultPlaylistTitle},
		{"..", DefaultPlaylistTitle},
	}

	for _, tt := range tests {
		if got := SafeDirName(tt.input); got != tt.expected {
			t.Errorf("SafeDirName(%q) = %q, expected %q", tt.input, got, tt.expected)
		}
	}
}

func TestDestinationLock(t *testing.T) {
	dir := t.TempDir()
	first := NewDestinationLock(dir)
	second := NewDestinationLock(dir)

	if first.Path() != filepath.Join(dir, LockFileName) {
		t.Errorf("unexpected lock path %s", first.Path())
	}

	if err := first.Acquire(); err != nil {
		t.Fatalf("first acquire: %v", err)
	}
	if err := second.Acquire(); err != ErrDestinationBusy {
		t.Fatalf("expected ErrDestinationBusy, got %v", err)
	}
	if err := first.Release(); err != nil {
		t.Fatalf("release: %v", err)
	}
	if err := second.Acquire(); err != nil {
		t.Fatalf("acquire after release: %v", err)
	}
	_ = second.Release()
}
