package identify_test

import (
	"errors"
	"testing"
	"time"

	"ludex/internal/identify"
)

func date(year int) time.Time {
	return time.Date(year, time.January, 1, 0, 0, 0, 0, time.UTC)
}

func TestParse(t *testing.T) {
	cases := []struct {
		name string
		path string
		want identify.Metadata
	}{
		{
			name: "full marker set",
			path: "Grand Theft Auto V (2013) (v1.0.0) (EA).zip",
			want: identify.Metadata{
				Title:       "Grand Theft Auto V",
				Version:     "v1.0.0",
				ReleaseDate: date(2013),
				EarlyAccess: true,
			},
		},
		{
			name: "year only",
			path: "Hollow Knight (2017).7z",
			want: identify.Metadata{Title: "Hollow Knight", ReleaseDate: date(2017)},
		},
		{
			name: "directory prefix is dropped",
			path: "indie/platformers/Celeste (2018).tar.gz",
			want: identify.Metadata{Title: "Celeste .tar", ReleaseDate: date(2018)},
		},
		{
			name: "first year group wins",
			path: "2048 Remake (2014) (2019).zip",
			want: identify.Metadata{Title: "2048 Remake", ReleaseDate: date(2014)},
		},
		{
			name: "first version group wins",
			path: "Factorio (2020) (v1.1) (v2.0).zip",
			want: identify.Metadata{Title: "Factorio", Version: "v1.1", ReleaseDate: date(2020)},
		},
		{
			name: "early access marker is case sensitive",
			path: "Valheim (2021) (ea).zip",
			want: identify.Metadata{Title: "Valheim", ReleaseDate: date(2021)},
		},
		{
			name: "four digits outside parens are not a year",
			path: "Anno 1800 (2019).zip",
			want: identify.Metadata{Title: "Anno 1800", ReleaseDate: date(2019)},
		},
		{
			name: "unparenthesized version text stays in title",
			path: "Stardew Valley v1.5 (2016).zip",
			want: identify.Metadata{Title: "Stardew Valley v1.5", ReleaseDate: date(2016)},
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := identify.Parse(tc.path)
			if err != nil {
				t.Fatalf("Parse failed: %v", err)
			}
			if got != tc.want {
				t.Fatalf("Parse(%q) = %#v, want %#v", tc.path, got, tc.want)
			}
		})
	}
}

func TestParseIsDeterministic(t *testing.T) {
	const path = "Grand Theft Auto V (2013) (v1.0.0) (EA).zip"
	first, err := identify.Parse(path)
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	for i := 0; i < 10; i++ {
		again, err := identify.Parse(path)
		if err != nil {
			t.Fatalf("Parse failed on repeat: %v", err)
		}
		if again != first {
			t.Fatalf("non-deterministic parse: %#v vs %#v", again, first)
		}
	}
}

func TestParseErrors(t *testing.T) {
	cases := []struct {
		name string
		path string
	}{
		{"missing year", "Portal.zip"},
		{"five digit group is not a year", "Portal (20011).zip"},
		{"empty title", "(2013) (v1.0).zip"},
		{"empty input", ""},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := identify.Parse(tc.path)
			if err == nil {
				t.Fatalf("expected error for %q", tc.path)
			}
			var parseErr *identify.ParseError
			if !errors.As(err, &parseErr) {
				t.Fatalf("expected *ParseError, got %T", err)
			}
			if parseErr.Path != tc.path {
				t.Fatalf("error path %q, want %q", parseErr.Path, tc.path)
			}
		})
	}
}

func TestParseNestedParensAreNotRecursive(t *testing.T) {
	// The first ')' closes the group, so "(v1 (beta))" captures "v1 (beta" up
	// to the first close and leaves the trailing ')' in the title residue.
	got, err := identify.Parse("Rimworld (2018) (v1 (beta)).zip")
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if got.Version != "v1 (beta" {
		t.Fatalf("unexpected version: %q", got.Version)
	}
	if got.Title != "Rimworld  )" {
		t.Fatalf("unexpected title: %q", got.Title)
	}
}
