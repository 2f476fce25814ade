package cmd

import (
	"github.com/Digital-Shane/trailer-tidy/internal/trailer"
	"github.com/spf13/cobra"
)

var showsCmd = &cobra.Command{
	Use:   "shows",
	Short: "Find and download missing TV show trailers",
	Long: `Scan the configured TV show libraries for shows without a populated
trailers subdirectory, look up trailers on TMDB, and download up to
three of them into a trailers folder inside each show.

With --report-only the command stops after reporting which shows are
missing trailers.`,
	RunE: runShowsCommand,
}

func runShowsCommand(cmd *cobra.Command, args []string) error {
	return RunMediaCommand(cmd, args, CommandConfig{
		CommandName:   "shows",
		MediaLabel:    "TV Show",
		PluralLabel:   "TV Shows",
		IconKey:       "show",
		ProgressTitle: "Fetching TV Show Trailers",
		Missing:       (*trailer.Finder).ShowsMissingTrailers,
		Search:        (*trailer.Finder).SearchShowTrailers,
		Download:      (*trailer.Finder).DownloadShowTrailers,
	})
}

func init() {
	rootCmd.AddCommand(showsCmd)
	showsCmd.Flags().BoolVar(&reportOnly, "report-only", false, "Stop after reporting which shows are missing trailers")
}
