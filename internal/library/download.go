package library

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"ludex/internal/catalog"
	"ludex/internal/config"
)

// Archive is an open handle on a cataloged file. The reader supports seeking,
// so callers can serve byte ranges directly from it.
type Archive struct {
	Entry  *catalog.Entry
	Reader *os.File
	Size   int64
}

// Close releases the underlying file handle.
func (a *Archive) Close() error {
	if a == nil || a.Reader == nil {
		return nil
	}
	return a.Reader.Close()
}

// Filename returns the base name to suggest when the archive is downloaded.
func (a *Archive) Filename() string {
	return filepath.Base(filepath.FromSlash(a.Entry.FilePath))
}

// Service resolves catalog entries to files under the library root.
type Service struct {
	root  string
	store *catalog.Store
}

// NewService builds a library service over the configured archive root.
func NewService(cfg *config.Config, store *catalog.Store) *Service {
	return &Service{root: cfg.Paths.LibraryDir, store: store}
}

// OpenForRead opens the archive behind a catalog entry for reading. Entries
// that do not exist, are soft-deleted, or whose backing file has disappeared
// all surface catalog.ErrNotFound so callers treat them uniformly as absent.
// The caller owns the returned handle and must close it.
func (s *Service) OpenForRead(ctx context.Context, id int64) (*Archive, error) {
	entry, err := s.store.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if entry == nil || entry.Deleted() {
		return nil, catalog.ErrNotFound
	}

	path := filepath.Join(s.root, filepath.FromSlash(entry.FilePath))
	file, err := os.Open(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, catalog.ErrNotFound
		}
		return nil, fmt.Errorf("open archive %q: %w", entry.FilePath, err)
	}

	info, err := file.Stat()
	if err != nil {
		_ = file.Close()
		return nil, fmt.Errorf("stat archive %q: %w", entry.FilePath, err)
	}
	if info.IsDir() {
		_ = file.Close()
		return nil, catalog.ErrNotFound
	}

	return &Archive{Entry: entry, Reader: file, Size: info.Size()}, nil
}
