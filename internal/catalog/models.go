package catalog

import (
	"strings"
	"time"
)

// Entry is the canonical record for one cataloged archive file. FilePath is
// the stable identity key, unique across all rows including soft-deleted ones.
type Entry struct {
	ID          int64      `json:"id"`
	FilePath    string     `json:"file_path"`
	Title       string     `json:"title"`
	Version     string     `json:"version,omitempty"`
	ReleaseDate time.Time  `json:"release_date"`
	Size        int64      `json:"size"`
	EarlyAccess bool       `json:"early_access"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
	DeletedAt   *time.Time `json:"deleted_at,omitempty"`
}

// Deleted reports whether the entry is soft-deleted.
func (e Entry) Deleted() bool {
	return e.DeletedAt != nil
}

// DisplayName returns the title with the version tag appended when present.
func (e Entry) DisplayName() string {
	title := strings.TrimSpace(e.Title)
	if e.Version == "" {
		return title
	}
	return title + " (" + e.Version + ")"
}

// Stats aggregates catalog counts for diagnostic output.
type Stats struct {
	Total       int `json:"total"`
	Active      int `json:"active"`
	Deleted     int `json:"deleted"`
	EarlyAccess int `json:"early_access"`
}

// DatabaseHealth captures diagnostic information about the catalog database.
type DatabaseHealth struct {
	DBPath           string `json:"db_path"`
	DatabaseExists   bool   `json:"database_exists"`
	DatabaseReadable bool   `json:"database_readable"`
	TableExists      bool   `json:"table_exists"`
	IntegrityCheck   bool   `json:"integrity_check"`
	TotalEntries     int    `json:"total_entries"`
	Error            string `json:"error,omitempty"`
}
