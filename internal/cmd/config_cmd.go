package cmd

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/Digital-Shane/trailer-tidy/internal/config"
	configtui "github.com/Digital-Shane/trailer-tidy/internal/tui/config"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Edit the configuration interactively",
	Long: `Open the settings editor: a tabbed form covering the media libraries,
scan behavior, TMDB provider and logging. Changes are written back to
the config file with ctrl+s.

With --init a config file with default settings is written first if
none exists yet. With --no-tui the resolved configuration is printed
as JSON instead, after applying defaults, the config file and
environment overrides, exactly as the other commands will see it.`,
	RunE: runConfigCommand,
}

func runConfigCommand(cmd *cobra.Command, args []string) error {
	path := configPath
	if path == "" {
		var err error
		path, err = config.ConfigPath()
		if err != nil {
			return err
		}
	}

	if initConfig {
		created, err := initConfigFile(path)
		if err != nil {
			return err
		}
		if created {
			fmt.Printf("Wrote default config to %s\n", path)
		} else {
			fmt.Printf("Config file already exists at %s\n", path)
		}
	}

	if noTUI {
		cfg, err := loadConfig()
		if err != nil {
			return &usageError{fmt.Errorf("failed to load config: %w", err)}
		}

		data, err := json.MarshalIndent(cfg, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal config: %w", err)
		}
		fmt.Println(string(data))
		return nil
	}

	model, err := configtui.New(path)
	if err != nil {
		return &usageError{err}
	}
	if _, err := tea.NewProgram(model, tea.WithAltScreen()).Run(); err != nil {
		return fmt.Errorf("settings editor error: %w", err)
	}
	return nil
}

// initConfigFile writes the default configuration to path unless a
// file already exists there.
func initConfigFile(path string) (bool, error) {
	if _, err := os.Stat(path); err == nil {
		return false, nil
	} else if !os.IsNotExist(err) {
		return false, err
	}

	if err := config.DefaultConfig().SaveTo(path); err != nil {
		return false, fmt.Errorf("failed to write default config: %w", err)
	}
	return true, nil
}

var (
	initConfig bool
)

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.Flags().BoolVar(&initConfig, "init", false, "Write a default config file if none exists")
}
