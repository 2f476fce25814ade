package scan

import (
	"errors"
	"os"
	"path/filepath"

	"github.com/Digital-Shane/trailer-tidy/internal/media"
	"github.com/sirupsen/logrus"
)

// ErrNoRoots indicates a scan was requested without any root paths.
var ErrNoRoots = errors.New("scan: root path list cannot be empty")

// Scanner enumerates immediate subdirectories of library roots and
// keeps matching ones, serving repeated requests from the cache.
type Scanner struct {
	cache *ScanCache
	log   *logrus.Entry
}

// NewScanner creates a scanner backed by the given cache.
func NewScanner(cache *ScanCache, log *logrus.Entry) *Scanner {
	return &Scanner{cache: cache, log: log}
}

// Scan walks the immediate children of each root and returns the paths
// the classifier matches, in root order then directory name order.
// Results are cached under the roots, filterName and max; a cache hit
// returns without touching the filesystem. A positive max stops the
// scan as soon as that many matches are found. Roots that are missing
// or not directories are logged and skipped.
func (s *Scanner) Scan(roots []string, c media.Classifier, filterName string, max int) ([]string, error) {
	if len(roots) == 0 {
		return nil, ErrNoRoots
	}

	key := Key(roots, filterName, max)
	if dirs, found := s.cache.Get(key); found {
		s.log.WithField("key", key).Debug("scan cache hit")
		return dirs, nil
	}

	matches := []string{}
scan:
	for _, root := range roots {
		info, err := os.Stat(root)
		if err != nil {
			s.log.WithField("path", root).Warn("scan root does not exist")
			continue
		}
		if !info.IsDir() {
			s.log.WithField("path", root).Warn("scan root is not a directory")
			continue
		}

		s.log.WithField("path", root).Info("scanning path")
		entries, err := os.ReadDir(root)
		if err != nil {
			s.log.WithField("path", root).WithError(err).Error("failed to list scan root")
			continue
		}
		for _, e := range entries {
			if !e.IsDir() {
				continue
			}
			child := filepath.Join(root, e.Name())
			if !c.Classify(child) {
				continue
			}
			matches = append(matches, child)
			if max > 0 && len(matches) >= max {
				break scan
			}
		}
	}

	s.log.Infof("found %d matching directories", len(matches))
	if err := s.cache.Set(key, matches); err != nil {
		s.log.WithError(err).Warn("failed to persist scan cache")
	}
	return matches, nil
}
