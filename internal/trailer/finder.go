// Package trailer orchestrates the pipeline that finds media missing
// trailers, looks trailers up on TMDB and downloads them.
package trailer

import (
	"errors"
	"os"
	"path/filepath"
	"strings"

	"github.com/Digital-Shane/trailer-tidy/internal/download"
	journal "github.com/Digital-Shane/trailer-tidy/internal/log"
	"github.com/Digital-Shane/trailer-tidy/internal/media"
	"github.com/Digital-Shane/trailer-tidy/internal/provider"
	"github.com/Digital-Shane/trailer-tidy/internal/scan"
	"github.com/sirupsen/logrus"
)

// SearchProvider resolves titles to trailer URLs.
type SearchProvider interface {
	MovieTrailers(title string, year *int) ([]string, error)
	ShowTrailers(title string, year *int) ([]string, error)
}

// TrailerDownloader fetches a single trailer into a directory.
type TrailerDownloader interface {
	Download(url, outDir, baseName string) (string, error)
}

// Options carries the library layout the finder operates on.
type Options struct {
	MovieRoots      []string
	ShowRoots       []string
	SeasonPrefix    string
	VideoExtensions []string
	SampleSize      int
}

// Finder walks media libraries and fills in missing trailers.
type Finder struct {
	opts       Options
	cache      *scan.ScanCache
	scanner    *scan.Scanner
	movies     media.Detector
	shows      media.Detector
	provider   SearchProvider
	downloader TrailerDownloader
	log        *logrus.Entry
}

// NewFinder wires a finder from its collaborators.
func NewFinder(opts Options, cache *scan.ScanCache, p SearchProvider, d TrailerDownloader, log *logrus.Entry) *Finder {
	return &Finder{
		opts:       opts,
		cache:      cache,
		scanner:    scan.NewScanner(cache, log),
		movies:     media.NewMovieClassifier(opts.VideoExtensions),
		shows:      media.NewShowClassifier(opts.SeasonPrefix, opts.VideoExtensions),
		provider:   p,
		downloader: d,
		log:        log,
	}
}

// MoviesMissingTrailers returns movie directories without a trailer
// file. With sample set, at most Options.SampleSize directories are
// returned. Unconfigured movie roots mean there is nothing to scan.
func (f *Finder) MoviesMissingTrailers(sample bool) ([]string, error) {
	if len(f.opts.MovieRoots) == 0 {
		f.log.Debug("no movie paths configured, skipping movie scan")
		return nil, nil
	}
	return f.scanner.Scan(f.opts.MovieRoots, media.MissingTrailer(f.movies), scan.MovieScanFilter, f.max(sample))
}

// ShowsMissingTrailers returns show directories without a populated
// trailers subdirectory.
func (f *Finder) ShowsMissingTrailers(sample bool) ([]string, error) {
	if len(f.opts.ShowRoots) == 0 {
		f.log.Debug("no show paths configured, skipping show scan")
		return nil, nil
	}
	return f.scanner.Scan(f.opts.ShowRoots, media.MissingTrailer(f.shows), scan.TVShowScanFilter, f.max(sample))
}

func (f *Finder) max(sample bool) int {
	if sample && f.opts.SampleSize > 0 {
		return f.opts.SampleSize
	}
	return 0
}

// SearchMovieTrailers looks up trailer URLs for each movie directory.
// Every input directory gets a map entry; directories without results
// map to an empty list.
func (f *Finder) SearchMovieTrailers(dirs []string) map[string][]string {
	return f.search(dirs, f.provider.MovieTrailers)
}

// SearchShowTrailers looks up trailer URLs for each show directory.
func (f *Finder) SearchShowTrailers(dirs []string) map[string][]string {
	return f.search(dirs, f.provider.ShowTrailers)
}

func (f *Finder) search(dirs []string, lookup func(string, *int) ([]string, error)) map[string][]string {
	found := make(map[string][]string, len(dirs))
	for _, dir := range dirs {
		title, year := media.ParseTitleYear(filepath.Base(dir))
		if title == "" {
			f.log.WithField("path", dir).Warn("cannot derive a search title from directory name")
			found[dir] = []string{}
			continue
		}

		urls, err := lookup(title, year)
		if err != nil {
			if !errors.Is(err, provider.ErrNoResults) {
				f.log.WithField("title", title).WithError(err).Error("trailer lookup failed")
			}
			found[dir] = []string{}
			continue
		}
		found[dir] = urls
	}
	return found
}

// DownloadMovieTrailers downloads trailers straight into each movie
// directory and returns the files written per directory. Directories
// where every download failed are omitted.
func (f *Finder) DownloadMovieTrailers(found map[string][]string) map[string][]string {
	downloaded := make(map[string][]string)
	for dir, urls := range found {
		if len(urls) == 0 {
			continue
		}
		files := f.downloadInto(dir, urls, func(n int) string {
			return download.MovieTrailerName(dir, n)
		})
		if len(files) > 0 {
			downloaded[dir] = files
		}
	}
	return downloaded
}

// DownloadShowTrailers downloads trailers into each show's trailers
// subdirectory, creating it when absent.
func (f *Finder) DownloadShowTrailers(found map[string][]string) map[string][]string {
	downloaded := make(map[string][]string)
	for dir, urls := range found {
		if len(urls) == 0 {
			continue
		}

		trailersDir := filepath.Join(dir, "trailers")
		if _, err := os.Stat(trailersDir); os.IsNotExist(err) {
			if err := os.MkdirAll(trailersDir, 0755); err != nil {
				f.log.WithField("path", trailersDir).WithError(err).Warn("failed to create trailers directory")
				journal.LogCreateDir(trailersDir, false, err)
				continue
			}
			journal.LogCreateDir(trailersDir, true, nil)
		}

		files := f.downloadInto(trailersDir, urls, download.ShowTrailerName)
		if len(files) > 0 {
			downloaded[dir] = files
		}
	}
	return downloaded
}

// downloadInto fetches up to MaxTrailersPerItem urls into outDir,
// journaling each attempt. Failed downloads are skipped.
func (f *Finder) downloadInto(outDir string, urls []string, name func(n int) string) []string {
	if len(urls) > download.MaxTrailersPerItem {
		urls = urls[:download.MaxTrailersPerItem]
	}

	files := []string{}
	for i, url := range urls {
		path, err := f.downloader.Download(url, outDir, name(i+1))
		journal.LogDownload(url, path, err == nil, err)
		if err != nil {
			f.log.WithField("url", url).WithError(err).Warn("trailer download failed")
			continue
		}
		files = append(files, path)
	}
	return files
}

// A Rename records one trailer extension fix.
type Rename struct {
	From string
	To   string
}

// FixExtensions renames trailer files that do not end in .mp4 inside
// movie directories under the given paths, falling back to the
// configured movie roots. With dryRun set the renames are reported but
// not performed.
func (f *Finder) FixExtensions(paths []string, dryRun bool) ([]Rename, error) {
	roots := paths
	if len(roots) == 0 {
		roots = f.opts.MovieRoots
	}
	if len(roots) == 0 {
		return nil, scan.ErrNoRoots
	}

	renames := []Rename{}
	for _, root := range roots {
		info, err := os.Stat(root)
		if err != nil {
			f.log.WithField("path", root).Warn("scan root does not exist")
			continue
		}
		if !info.IsDir() {
			f.log.WithField("path", root).Warn("scan root is not a directory")
			continue
		}

		entries, err := os.ReadDir(root)
		if err != nil {
			f.log.WithField("path", root).WithError(err).Error("failed to list scan root")
			continue
		}
		for _, e := range entries {
			if !e.IsDir() {
				continue
			}
			dir := filepath.Join(root, e.Name())
			if !f.movies.Classify(dir) {
				continue
			}
			renames = append(renames, f.fixDirExtensions(dir, dryRun)...)
		}
	}
	return renames, nil
}

func (f *Finder) fixDirExtensions(dir string, dryRun bool) []Rename {
	entries, err := os.ReadDir(dir)
	if err != nil {
		f.log.WithField("path", dir).WithError(err).Error("failed to list movie directory")
		return nil
	}

	fixed := []Rename{}
	for _, e := range entries {
		if e.IsDir() || !media.ContainsTrailer(e.Name()) {
			continue
		}
		ext := filepath.Ext(e.Name())
		if strings.EqualFold(ext, ".mp4") {
			continue
		}

		from := filepath.Join(dir, e.Name())
		to := strings.TrimSuffix(from, ext) + ".mp4"
		if dryRun {
			fixed = append(fixed, Rename{From: from, To: to})
			continue
		}

		if err := os.Rename(from, to); err != nil {
			f.log.WithField("path", from).WithError(err).Error("failed to rename trailer")
			journal.LogRename(from, to, false, err)
			continue
		}
		journal.LogRename(from, to, true, nil)
		fixed = append(fixed, Rename{From: from, To: to})
	}
	return fixed
}

// ClearCache drops all cached scan results.
func (f *Finder) ClearCache() error {
	return f.cache.Clear()
}
