package cmd

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	journal "github.com/Digital-Shane/trailer-tidy/internal/log"
	"github.com/Digital-Shane/trailer-tidy/internal/scan"
	"github.com/Digital-Shane/trailer-tidy/internal/trailer"
	"github.com/spf13/cobra"
)

var fixextCmd = &cobra.Command{
	Use:   "fixext [paths...]",
	Short: "Add missing .mp4 extensions to trailer files",
	Long: `Scan movie directories for trailer files whose name lacks the .mp4
extension and rename them to add it. Paths default to the configured
movie libraries.

With --dry-run the renames are reported without touching any files.`,
	RunE: runFixextCommand,
}

func runFixextCommand(cmd *cobra.Command, args []string) error {
	cfg, log, err := setup("fixext")
	if err != nil {
		return err
	}

	// The extension fixer never scans for missing trailers, searches
	// TMDB or downloads, so it gets a memory-only cache and no
	// provider or downloader.
	cache, err := scan.NewScanCache("", cfg.TTL())
	if err != nil {
		return err
	}
	finder := trailer.NewFinder(trailer.Options{
		MovieRoots:      cfg.MoviePaths,
		VideoExtensions: cfg.VideoExtensions,
	}, cache, nil, nil, log)

	if dryRun {
		fmt.Println("DRY-RUN MODE: No files will be modified")
	} else {
		if err := journal.StartSession("fixext", args); err != nil {
			log.WithError(err).Warn("failed to start operation journal")
		}
		defer func() {
			if err := journal.EndSession(); err != nil {
				log.WithError(err).Warn("failed to save operation journal")
			}
		}()
	}

	renames, err := finder.FixExtensions(args, dryRun)
	if err != nil {
		if errors.Is(err, scan.ErrNoRoots) {
			return &usageError{errors.New("no movie paths given or configured")}
		}
		return err
	}

	fmt.Print(renderFixextReport(renames, dryRun))
	return nil
}

// renderFixextReport formats the rename results the way the command
// prints them.
func renderFixextReport(renames []trailer.Rename, dryRun bool) string {
	var b strings.Builder

	if len(renames) == 0 {
		b.WriteString("No trailers found missing .mp4 extension\n")
		return b.String()
	}

	fmt.Fprintf(&b, "Found %d trailer(s) to rename\n", len(renames))
	for _, r := range renames {
		if dryRun {
			fmt.Fprintf(&b, "[DRY-RUN] Would rename: %s -> %s\n", r.From, filepath.Base(r.To))
		} else {
			fmt.Fprintf(&b, "Renamed: %s -> %s\n", r.From, filepath.Base(r.To))
		}
	}

	if dryRun {
		fmt.Fprintf(&b, "[DRY-RUN] Would rename %d file(s)\n", len(renames))
		b.WriteString("Run without --dry-run to apply changes\n")
	} else {
		fmt.Fprintf(&b, "Successfully renamed %d file(s)\n", len(renames))
	}
	return b.String()
}

var (
	dryRun bool
)

func init() {
	rootCmd.AddCommand(fixextCmd)
	fixextCmd.Flags().BoolVar(&dryRun, "dry-run", false, "Preview changes without applying them")
}
