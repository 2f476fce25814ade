// Package download fetches trailers from YouTube with yt-dlp and names
// the resulting files for movie and show libraries.
package download

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/sirupsen/logrus"
)

// MaxTrailersPerItem caps how many trailer downloads are attempted for
// a single movie or show.
const MaxTrailersPerItem = 3

// ytdlpFormat selects the best stream at or below 1080p.
const ytdlpFormat = "bestvideo[height<=1080]+bestaudio/best[height<=1080]"

// Runner executes external commands. Tests replace it to avoid
// invoking yt-dlp.
type Runner interface {
	Run(name string, args ...string) ([]byte, error)
}

type execRunner struct{}

func (execRunner) Run(name string, args ...string) ([]byte, error) {
	return exec.Command(name, args...).CombinedOutput()
}

// Downloader fetches single videos into target directories, skipping
// files that already exist.
type Downloader struct {
	runner Runner
	log    *logrus.Entry
	verify func(path string) error
}

// NewDownloader creates a downloader that shells out to yt-dlp and
// verifies results with ffprobe when available.
func NewDownloader(log *logrus.Entry) *Downloader {
	return &Downloader{
		runner: execRunner{},
		log:    log,
		verify: verifyVideo,
	}
}

// SetRunner replaces the command runner. Tests use it to inject fakes.
func (d *Downloader) SetRunner(r Runner) {
	d.runner = r
}

// Download fetches url into outDir as baseName.mp4 and returns the
// resulting path. An empty url is a no-op. An existing target file is
// kept as is and returned without downloading.
func (d *Downloader) Download(url, outDir, baseName string) (string, error) {
	if url == "" {
		return "", nil
	}

	target := filepath.Join(outDir, SanitizeFileName(baseName)+".mp4")
	if _, err := os.Stat(target); err == nil {
		d.log.WithField("path", target).Debug("trailer already present, skipping download")
		return target, nil
	}

	if err := os.MkdirAll(outDir, 0755); err != nil {
		return "", fmt.Errorf("failed to create output directory: %w", err)
	}

	// The extension placeholder lets yt-dlp manage intermediate files;
	// --merge-output-format settles the final file on .mp4.
	template := strings.TrimSuffix(target, ".mp4") + ".%(ext)s"
	args := []string{
		"-f", ytdlpFormat,
		"--merge-output-format", "mp4",
		"--quiet",
		"--no-playlist",
		"-o", template,
		url,
	}

	d.log.WithField("url", url).Info("downloading trailer")
	out, err := d.runner.Run("yt-dlp", args...)
	if err != nil {
		return "", fmt.Errorf("yt-dlp failed: %w: %s", err, strings.TrimSpace(string(out)))
	}

	if d.verify != nil {
		if err := d.verify(target); err != nil {
			os.Remove(target)
			return "", fmt.Errorf("downloaded file failed verification: %w", err)
		}
	}
	return target, nil
}

var fileNameSanitizer = strings.NewReplacer(
	"/", "_",
	"\\", "_",
	":", "_",
	"*", "_",
	"?", "_",
	"\"", "_",
	"<", "_",
	">", "_",
	"|", "_",
)

// SanitizeFileName replaces characters that are unsafe in file names.
func SanitizeFileName(name string) string {
	return fileNameSanitizer.Replace(name)
}

// MovieTrailerName builds the base name for the nth trailer of a movie
// directory. The name embeds the directory name so the trailer sorts
// next to the movie file.
func MovieTrailerName(movieDir string, n int) string {
	return fmt.Sprintf("%s - trailer #%d -trailer", filepath.Base(movieDir), n)
}

// ShowTrailerName builds the base name for the nth trailer inside a
// show's trailers subdirectory.
func ShowTrailerName(n int) string {
	return fmt.Sprintf("trailer #%d", n)
}
