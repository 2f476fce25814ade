/*
Copyright © 2025 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"errors"
	"os"

	"github.com/spf13/cobra"
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "trailer-tidy",
	Short: "A tool for fetching missing media trailers",
	Long: `trailer-tidy is a CLI tool that keeps movie and TV show libraries stocked
with trailers. It scans library folders for items without a trailer file,
looks trailers up on TMDB, and downloads them next to the media with yt-dlp.

Scan results are cached between runs, and every filesystem operation is
journaled so a run can be undone afterwards.`,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(exitCode(err))
	}
}

// exitCode separates argument and configuration problems (2) from
// runtime failures (1).
func exitCode(err error) int {
	var ue *usageError
	if errors.As(err, &ue) {
		return 2
	}
	return 1
}

// usageError marks errors caused by bad arguments or configuration
// rather than by the run itself.
type usageError struct{ err error }

func (e *usageError) Error() string { return e.err.Error() }

func (e *usageError) Unwrap() error { return e.err }

var (
	verbose    bool
	clearCache bool
	sample     bool
	noTUI      bool
	configPath string
)

func init() {
	// Global flags for all commands
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging and detailed report output")
	rootCmd.PersistentFlags().BoolVar(&clearCache, "clear-cache", false, "Clear the filesystem scan cache before running")
	rootCmd.PersistentFlags().BoolVar(&sample, "sample", false, "Limit scans to the configured sample size")
	rootCmd.PersistentFlags().BoolVar(&noTUI, "no-tui", false, "Print plain log output instead of the progress UI")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Path to an alternate config file")

	rootCmd.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return &usageError{err}
	})
}
