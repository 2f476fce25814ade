package cmd

import (
	"github.com/Digital-Shane/trailer-tidy/internal/trailer"
	"github.com/spf13/cobra"
)

var moviesCmd = &cobra.Command{
	Use:   "movies",
	Short: "Find and download missing movie trailers",
	Long: `Scan the configured movie libraries for movies without a trailer file,
look up trailers on TMDB, and download up to three of them into each
movie directory.

With --report-only the command stops after reporting which movies are
missing trailers.`,
	RunE: runMoviesCommand,
}

func runMoviesCommand(cmd *cobra.Command, args []string) error {
	return RunMediaCommand(cmd, args, CommandConfig{
		CommandName:   "movies",
		MediaLabel:    "Movie",
		PluralLabel:   "Movies",
		IconKey:       "movie",
		ProgressTitle: "Fetching Movie Trailers",
		Missing:       (*trailer.Finder).MoviesMissingTrailers,
		Search:        (*trailer.Finder).SearchMovieTrailers,
		Download:      (*trailer.Finder).DownloadMovieTrailers,
	})
}

func init() {
	rootCmd.AddCommand(moviesCmd)
	moviesCmd.Flags().BoolVar(&reportOnly, "report-only", false, "Stop after reporting which movies are missing trailers")
}
