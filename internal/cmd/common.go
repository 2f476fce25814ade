package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/Digital-Shane/trailer-tidy/internal/config"
	"github.com/Digital-Shane/trailer-tidy/internal/download"
	journal "github.com/Digital-Shane/trailer-tidy/internal/log"
	"github.com/Digital-Shane/trailer-tidy/internal/logger"
	"github.com/Digital-Shane/trailer-tidy/internal/provider"
	"github.com/Digital-Shane/trailer-tidy/internal/scan"
	"github.com/Digital-Shane/trailer-tidy/internal/trailer"
	"github.com/Digital-Shane/trailer-tidy/internal/tui/progress"
	"github.com/Digital-Shane/trailer-tidy/internal/tui/theme"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

// CommandConfig defines the media-type specific pieces of the trailer pipeline
type CommandConfig struct {
	CommandName   string
	MediaLabel    string // singular, for section headers ("Movie")
	PluralLabel   string // for summary lines ("Movies")
	IconKey       string // theme icon shown next to report items
	ProgressTitle string

	Missing  func(f *trailer.Finder, sample bool) ([]string, error)
	Search   func(f *trailer.Finder, dirs []string) map[string][]string
	Download func(f *trailer.Finder, found map[string][]string) map[string][]string
}

var (
	reportOnly bool
)

// RunMediaCommand executes the common scan/search/download pipeline
func RunMediaCommand(cmd *cobra.Command, args []string, cmdConfig CommandConfig) error {
	cfg, log, err := setup(cmdConfig.CommandName)
	if err != nil {
		return err
	}

	finder, err := buildFinder(cfg, log)
	if err != nil {
		return err
	}

	if clearCache {
		log.Info("clearing filesystem scan cache")
		if err := finder.ClearCache(); err != nil {
			return fmt.Errorf("failed to clear scan cache: %w", err)
		}
	}
	if sample && cfg.SampleSize == 0 {
		log.Warn("sample mode requested but no sample size configured, scanning everything")
	}

	missing, err := cmdConfig.Missing(finder, sample)
	if err != nil {
		return err
	}

	th := theme.Default()
	fmt.Print(renderScanReport(th, cmdConfig, missing, verbose))

	if reportOnly || len(missing) == 0 {
		return nil
	}

	if err := journal.StartSession(cmdConfig.CommandName, args); err != nil {
		log.WithError(err).Warn("failed to start operation journal")
	}
	defer func() {
		if err := journal.EndSession(); err != nil {
			log.WithError(err).Warn("failed to save operation journal")
		}
	}()

	var found, downloaded map[string][]string
	if noTUI {
		found, downloaded = runPipeline(finder, cmdConfig, missing, logProgress(log))
	} else {
		run := func(report func(progress.PipelineUpdate)) error {
			found, downloaded = runPipeline(finder, cmdConfig, missing, report)
			return nil
		}

		model := progress.NewPipelineProgressModel(cmdConfig.ProgressTitle, run, th)
		finalModel, err := tea.NewProgram(model, tea.WithAltScreen()).Run()
		if err != nil {
			return err
		}
		pm, ok := finalModel.(*progress.PipelineProgressModel)
		if !ok {
			return fmt.Errorf("unexpected model type %T after pipeline", finalModel)
		}
		if pm.Err() != nil {
			return pm.Err()
		}
		if !pm.Done() {
			log.Warn("cancelled before the pipeline finished")
			return nil
		}
	}

	fmt.Print(renderSearchReport(th, cmdConfig, missing, found, verbose))
	if countFound(found) == 0 {
		fmt.Println("No trailers found to download.")
		return nil
	}
	fmt.Print(renderDownloadReport(th, cmdConfig, missing, found, downloaded, verbose))
	return nil
}

// setup loads the configuration and initializes logging and the
// operation journal.
func setup(commandName string) (*config.Config, *logrus.Entry, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, nil, &usageError{fmt.Errorf("failed to load config: %w", err)}
	}

	if err := logger.Init(verbose, logFilePath(cfg)); err != nil {
		return nil, nil, err
	}
	log := logger.GetLogger(commandName)

	journal.SetLogDir(cfg.LogDir)
	journal.Initialize(cfg.EnableLogging, cfg.LogRetentionDays)

	return cfg, log, nil
}

func loadConfig() (*config.Config, error) {
	if configPath != "" {
		return config.LoadFrom(configPath)
	}
	return config.Load()
}

// logFilePath picks where the rotating log file lives. Without a home
// directory logging stays on the console.
func logFilePath(cfg *config.Config) string {
	dir := cfg.LogDir
	if dir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return ""
		}
		dir = filepath.Join(home, ".trailer-tidy", "logs")
	}
	return filepath.Join(dir, "trailer-tidy.log")
}

// buildFinder wires the scan cache, the TMDB provider and the
// downloader into a finder.
func buildFinder(cfg *config.Config, log *logrus.Entry) (*trailer.Finder, error) {
	cache, err := scan.NewScanCache(cfg.CacheFile(), cfg.TTL())
	if err != nil {
		return nil, fmt.Errorf("failed to open scan cache: %w", err)
	}

	tmdb, err := provider.NewTMDBProvider(cfg.TMDBAPIKey, cfg.Languages)
	if err != nil {
		return nil, &usageError{fmt.Errorf("failed to initialize TMDB provider: %w", err)}
	}

	return trailer.NewFinder(trailer.Options{
		MovieRoots:      cfg.MoviePaths,
		ShowRoots:       cfg.ShowPaths,
		SeasonPrefix:    cfg.SeasonPrefix,
		VideoExtensions: cfg.VideoExtensions,
		SampleSize:      cfg.SampleSize,
	}, cache, tmdb, download.NewDownloader(log), log), nil
}

// runPipeline executes the search and download phases over the missing
// directories, reporting one update per processed item.
func runPipeline(finder *trailer.Finder, cmdConfig CommandConfig, missing []string, report func(progress.PipelineUpdate)) (found, downloaded map[string][]string) {
	found = make(map[string][]string, len(missing))
	downloaded = make(map[string][]string)

	report(progress.PipelineUpdate{Stage: "Searching TMDB", Total: len(missing)})
	for _, dir := range missing {
		for d, urls := range cmdConfig.Search(finder, []string{dir}) {
			found[d] = urls
		}
		report(progress.PipelineUpdate{Item: filepath.Base(dir)})
	}

	report(progress.PipelineUpdate{Stage: "Downloading", Total: len(missing)})
	for _, dir := range missing {
		files := cmdConfig.Download(finder, map[string][]string{dir: found[dir]})[dir]
		if len(files) > 0 {
			downloaded[dir] = files
		}
		report(progress.PipelineUpdate{Item: filepath.Base(dir), Trailers: len(files)})
	}
	return found, downloaded
}

// logProgress reports pipeline updates as plain log lines for --no-tui
// runs.
func logProgress(log *logrus.Entry) func(progress.PipelineUpdate) {
	return func(u progress.PipelineUpdate) {
		if u.Stage != "" {
			log.WithField("items", u.Total).Info(u.Stage)
		}
		if u.Item == "" {
			return
		}
		entry := log.WithField("item", u.Item)
		if u.Trailers > 0 {
			entry = entry.WithField("trailers", u.Trailers)
		}
		entry.Info("processed")
	}
}
