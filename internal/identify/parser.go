package identify

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// Metadata is the candidate record derived from an archive filename before it
// is reconciled with stored state.
type Metadata struct {
	Title       string
	Version     string
	ReleaseDate time.Time
	EarlyAccess bool
}

// ParseError reports a filename that does not yield every required field.
type ParseError struct {
	Path   string
	Reason string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse %q: %s", e.Path, e.Reason)
}

// earlyAccessMarker is matched as a literal substring, case-sensitive.
const earlyAccessMarker = "(EA)"

var (
	// Group matching is non-recursive: the first ')' closes a group.
	groupPattern   = regexp.MustCompile(`\([^)]*\)`)
	versionPattern = regexp.MustCompile(`\((v[^)]*)\)`)
	yearPattern    = regexp.MustCompile(`\((\d{4})\)`)
)

// Parse derives structured metadata from a relative archive path. It is pure
// and deterministic. The title comes from the last path segment with the
// extension and every parenthesized group removed; the version is the first
// "(v...)" group; the release year is the first four-digit group and is
// required. First match wins when a marker repeats.
func Parse(path string) (Metadata, error) {
	var meta Metadata

	title, err := deriveTitle(path)
	if err != nil {
		return Metadata{}, err
	}
	meta.Title = title

	if match := versionPattern.FindStringSubmatch(path); match != nil {
		meta.Version = match[1]
	}

	match := yearPattern.FindStringSubmatch(path)
	if match == nil {
		return Metadata{}, &ParseError{Path: path, Reason: "no release year group"}
	}
	year, err := strconv.Atoi(match[1])
	if err != nil {
		return Metadata{}, &ParseError{Path: path, Reason: "invalid release year"}
	}
	meta.ReleaseDate = time.Date(year, time.January, 1, 0, 0, 0, 0, time.UTC)

	meta.EarlyAccess = strings.Contains(path, earlyAccessMarker)

	return meta, nil
}

func deriveTitle(path string) (string, error) {
	base := path
	if idx := strings.LastIndexAny(base, "/\\"); idx >= 0 {
		base = base[idx+1:]
	}
	if idx := strings.LastIndex(base, "."); idx >= 0 {
		base = base[:idx]
	}
	base = groupPattern.ReplaceAllString(base, "")
	title := strings.TrimSpace(base)
	if title == "" {
		return "", &ParseError{Path: path, Reason: "empty title"}
	}
	return title, nil
}
