package testsupport

import (
	"os"
	"path/filepath"
	"testing"
)

// WriteArchive creates a file of the given size under root, creating parent
// directories as needed. The relative path may use forward slashes.
func WriteArchive(t testing.TB, root, relPath string, size int) {
	t.Helper()

	target := filepath.Join(root, filepath.FromSlash(relPath))
	if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
		t.Fatalf("mkdir for %s: %v", relPath, err)
	}
	if err := os.WriteFile(target, make([]byte, size), 0o644); err != nil {
		t.Fatalf("write %s: %v", relPath, err)
	}
}

// RemoveArchive deletes a file under root previously created by WriteArchive.
func RemoveArchive(t testing.TB, root, relPath string) {
	t.Helper()

	if err := os.Remove(filepath.Join(root, filepath.FromSlash(relPath))); err != nil {
		t.Fatalf("remove %s: %v", relPath, err)
	}
}
