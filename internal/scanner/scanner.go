package scanner

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"ludex/internal/config"
)

// FileDescriptor names one eligible archive file relative to the library root
// together with its size at listing time.
type FileDescriptor struct {
	Name string `json:"name"`
	Size int64  `json:"size"`
}

// Lister enumerates eligible archive files under a library root.
type Lister interface {
	List(root string) ([]FileDescriptor, error)
}

// archiveExtensions is the fixed allow-list of catalogable archive suffixes.
var archiveExtensions = []string{
	".zip",
	".7z",
	".rar",
	".tar",
	".tar.gz",
	".tar.bz2",
	".tar.xz",
	".tgz",
	".tbz2",
	".txz",
}

// HasArchiveExtension reports whether a file name carries one of the
// supported archive suffixes. Matching is case-insensitive.
func HasArchiveExtension(name string) bool {
	lower := strings.ToLower(name)
	for _, ext := range archiveExtensions {
		if strings.HasSuffix(lower, ext) {
			return true
		}
	}
	return false
}

// FilesystemLister walks a directory tree on the local filesystem.
type FilesystemLister struct{}

// List recursively enumerates archive files under root. Names are returned
// relative to root with forward slashes; sizes come from a fresh stat. An
// unreadable root fails the whole listing rather than returning a partial
// view, since the integrity pass treats absence as deletion.
func (FilesystemLister) List(root string) ([]FileDescriptor, error) {
	if strings.TrimSpace(root) == "" {
		return nil, fmt.Errorf("list archives: library root is not configured")
	}
	if _, err := os.Stat(root); err != nil {
		return nil, fmt.Errorf("list archives: %w", err)
	}

	var descriptors []FileDescriptor
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		if !HasArchiveExtension(d.Name()) {
			return nil
		}
		info, err := d.Info()
		if err != nil {
			return err
		}
		rel, err := filepath.Rel(root, path)
		if err != nil {
			return err
		}
		descriptors = append(descriptors, FileDescriptor{
			Name: filepath.ToSlash(rel),
			Size: info.Size(),
		})
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("list archives: %w", err)
	}
	return descriptors, nil
}

// NewFromConfig returns the lister selected by configuration: the mock
// in-memory set when scanner.use_mock_files is enabled, the real filesystem
// walker otherwise.
func NewFromConfig(cfg *config.Config) Lister {
	if cfg != nil && cfg.Scanner.UseMockFiles {
		return NewMockLister()
	}
	return FilesystemLister{}
}
