package media

import (
	"os"
	"path/filepath"
	"strings"
)

// Classifier decides whether a directory belongs to a media category.
type Classifier interface {
	Classify(dir string) bool
}

// Detector extends Classifier with trailer presence detection for
// directories of its category.
type Detector interface {
	Classifier
	HasTrailer(dir string) bool
}

// MovieClassifier identifies movie directories by the presence of at
// least one video file directly inside the directory.
type MovieClassifier struct {
	exts map[string]bool
}

// NewMovieClassifier builds a movie classifier for the given video
// extensions. Extensions are matched case insensitively and a missing
// leading dot is tolerated. A nil or empty slice falls back to
// VideoExtensions.
func NewMovieClassifier(exts []string) *MovieClassifier {
	if len(exts) == 0 {
		exts = VideoExtensions
	}
	m := make(map[string]bool, len(exts))
	for _, e := range exts {
		e = strings.ToLower(e)
		if !strings.HasPrefix(e, ".") {
			e = "." + e
		}
		m[e] = true
	}
	return &MovieClassifier{exts: m}
}

// Classify reports whether dir contains at least one video file.
// Unreadable directories classify as false.
func (c *MovieClassifier) Classify(dir string) bool {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return false
	}
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		if c.exts[strings.ToLower(filepath.Ext(e.Name()))] {
			return true
		}
	}
	return false
}

// HasTrailer reports whether dir contains a file whose name marks it as
// a trailer, regardless of extension.
func (c *MovieClassifier) HasTrailer(dir string) bool {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return false
	}
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		if ContainsTrailer(e.Name()) {
			return true
		}
	}
	return false
}

// ShowClassifier identifies TV show directories by the presence of at
// least one season subdirectory that itself holds video files.
type ShowClassifier struct {
	prefix string
	movies *MovieClassifier
}

// NewShowClassifier builds a show classifier. Season subdirectories are
// recognized by a case insensitive name prefix; an empty prefix falls
// back to DefaultSeasonPrefix. The extension list follows the same
// rules as NewMovieClassifier.
func NewShowClassifier(seasonPrefix string, exts []string) *ShowClassifier {
	if seasonPrefix == "" {
		seasonPrefix = DefaultSeasonPrefix
	}
	return &ShowClassifier{
		prefix: strings.ToLower(seasonPrefix),
		movies: NewMovieClassifier(exts),
	}
}

// Classify reports whether dir looks like a show directory. The first
// season subdirectory containing video files is enough; remaining
// entries are not examined.
func (c *ShowClassifier) Classify(dir string) bool {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return false
	}
	for _, e := range entries {
		if !e.IsDir() {
			continue
		}
		if !strings.HasPrefix(strings.ToLower(e.Name()), c.prefix) {
			continue
		}
		if c.movies.Classify(filepath.Join(dir, e.Name())) {
			return true
		}
	}
	return false
}

// HasTrailer reports whether dir has a trailers subdirectory holding at
// least one trailer file.
func (c *ShowClassifier) HasTrailer(dir string) bool {
	trailersDir := filepath.Join(dir, "trailers")
	info, err := os.Stat(trailersDir)
	if err != nil || !info.IsDir() {
		return false
	}
	entries, err := os.ReadDir(trailersDir)
	if err != nil {
		return false
	}
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		if ContainsTrailer(e.Name()) {
			return true
		}
	}
	return false
}

// missingTrailer combines category membership and trailer absence into
// a single classification pass over each directory.
type missingTrailer struct {
	d Detector
}

// MissingTrailer returns a Classifier that matches directories belonging
// to d's category that do not yet have a trailer.
func MissingTrailer(d Detector) Classifier {
	return missingTrailer{d: d}
}

func (m missingTrailer) Classify(dir string) bool {
	return m.d.Classify(dir) && !m.d.HasTrailer(dir)
}
