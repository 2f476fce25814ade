// Package media provides filename heuristics and directory classification
// for movie and TV show libraries.
package media

import (
	"path/filepath"
	"regexp"
	"strconv"
	"strings"
)

var (
	// trailingYearRe matches a (YYYY) suffix at the very end of a name.
	// Only the trailing group is treated as a release year so titles like
	// "Movie Title (Director's Cut) (2020)" keep their parenthetical.
	trailingYearRe = regexp.MustCompile(`\((\d{4})\)\s*$`)
)

// VideoExtensions lists the file extensions recognized as video content.
var VideoExtensions = []string{".mp4", ".mkv", ".avi", ".m4v", ".mov"}

// DefaultSeasonPrefix is the directory name prefix that marks a season
// folder inside a show directory.
const DefaultSeasonPrefix = "season"

// IsVideo reports whether the filename carries a recognized video extension.
func IsVideo(filename string) bool {
	ext := strings.ToLower(filepath.Ext(filename))
	for _, v := range VideoExtensions {
		if ext == v {
			return true
		}
	}
	return false
}

// ContainsTrailer reports whether the filename marks a trailer file.
// Matching is case insensitive and position independent.
func ContainsTrailer(filename string) bool {
	return strings.Contains(strings.ToLower(filename), "trailer")
}

// ParseTitleYear splits a directory name into a search title and an
// optional release year. Only a trailing "(YYYY)" is stripped; any other
// parenthetical stays part of the title. The second return is nil when
// no year suffix is present.
func ParseTitleYear(name string) (string, *int) {
	trimmed := strings.TrimSpace(name)
	m := trailingYearRe.FindStringSubmatchIndex(trimmed)
	if m == nil {
		return trimmed, nil
	}
	title := strings.TrimSpace(trimmed[:m[0]])
	year, err := strconv.Atoi(trimmed[m[2]:m[3]])
	if err != nil {
		return trimmed, nil
	}
	return title, &year
}
