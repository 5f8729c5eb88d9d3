package testsupport

import (
	"context"
	"testing"
	"time"

	"ludex/internal/catalog"
	"ludex/internal/config"
)

// MustOpenStore opens a catalog.Store for tests and registers cleanup.
func MustOpenStore(t testing.TB, cfg *config.Config) *catalog.Store {
	t.Helper()

	store, err := catalog.Open(cfg)
	if err != nil {
		t.Fatalf("catalog.Open: %v", err)
	}
	t.Cleanup(func() {
		store.Close()
	})
	return store
}

// NewEntry inserts a catalog entry for tests using the provided store.
func NewEntry(t testing.TB, store *catalog.Store, path string, size int64) *catalog.Entry {
	t.Helper()

	entry, err := store.Create(context.Background(), &catalog.Entry{
		FilePath:    path,
		Title:       "Test Title",
		ReleaseDate: time.Date(2020, time.January, 1, 0, 0, 0, 0, time.UTC),
		Size:        size,
	})
	if err != nil {
		t.Fatalf("store.Create: %v", err)
	}
	return entry
}
