package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/Digital-Shane/trailer-tidy/internal/logger"
	"github.com/Digital-Shane/trailer-tidy/internal/media"
)

// Config holds the settings for scanning media libraries and fetching
// trailers. Fields map one to one onto the JSON config file.
type Config struct {
	// Media library roots
	MoviePaths []string `json:"movie_paths"`
	ShowPaths  []string `json:"tvshow_paths"`

	// TMDB integration settings
	TMDBAPIKey string   `json:"tmdb_api_key"`
	Languages  []string `json:"languages"`

	// Scan behavior
	SeasonPrefix    string   `json:"season_prefix"`
	VideoExtensions []string `json:"video_extensions"`
	SampleSize      int      `json:"sample_size"`

	// SMB mount handling. When enabled, media paths are re-rooted
	// under the mount point at load time.
	SMBMountPoint string `json:"smb_mount_point"`
	UseSMBMount   bool   `json:"use_smb_mount"`

	// Scan cache
	CacheTTLSeconds int    `json:"cache_ttl_seconds"`
	CacheDir        string `json:"cache_dir"`

	// Operation logging
	LogDir           string `json:"log_dir"`
	EnableLogging    bool   `json:"enable_logging"`
	LogRetentionDays int    `json:"log_retention_days"`
}

// DefaultConfig returns the default configuration
func DefaultConfig() *Config {
	return &Config{
		MoviePaths:       []string{},
		ShowPaths:        []string{},
		TMDBAPIKey:       "",
		Languages:        []string{"fr-FR", "en-US"},
		SeasonPrefix:     media.DefaultSeasonPrefix,
		VideoExtensions:  append([]string{}, media.VideoExtensions...),
		SampleSize:       3,
		CacheTTLSeconds:  86400,
		EnableLogging:    true,
		LogRetentionDays: 30,
	}
}

// ConfigPath returns the path to the config file
func ConfigPath() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}
	return filepath.Join(homeDir, ".trailer-tidy", "config.json"), nil
}

// Load reads the configuration from the default location
func Load() (*Config, error) {
	path, err := ConfigPath()
	if err != nil {
		return nil, err
	}
	return LoadFrom(path)
}

// LoadFrom reads the configuration from path, layers environment
// overrides on top, and re-roots media paths when SMB mounting is
// enabled. A missing file yields the defaults.
func LoadFrom(path string) (*Config, error) {
	cfg, err := LoadFile(path)
	if err != nil {
		return nil, err
	}

	if err := cfg.applyEnvOverrides(); err != nil {
		return nil, err
	}
	cfg.applyMountPrefix()

	return cfg, nil
}

// LoadFile reads the configuration file as written, without environment
// overrides or mount re-rooting. The settings editor loads through here
// so that saving does not persist derived values back into the file.
// A missing file yields the defaults.
func LoadFile(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	if err == nil {
		cfg = &Config{}
		if err := json.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config file: %w", err)
		}

		// Fill in any missing fields with defaults. SampleSize is
		// left alone because zero means an unbounded sample scan.
		defaults := DefaultConfig()
		if len(cfg.Languages) == 0 {
			cfg.Languages = defaults.Languages
		}
		if cfg.SeasonPrefix == "" {
			cfg.SeasonPrefix = defaults.SeasonPrefix
		}
		if len(cfg.VideoExtensions) == 0 {
			cfg.VideoExtensions = defaults.VideoExtensions
		}
		if cfg.CacheTTLSeconds == 0 {
			cfg.CacheTTLSeconds = defaults.CacheTTLSeconds
		}
		if cfg.LogRetentionDays == 0 {
			cfg.LogRetentionDays = defaults.LogRetentionDays
		}
	}

	return cfg, nil
}

// applyEnvOverrides replaces config values with their environment
// counterparts when set
func (cfg *Config) applyEnvOverrides() error {
	if v := os.Getenv("TMDB_API_KEY"); v != "" {
		cfg.TMDBAPIKey = v
	}
	if v := os.Getenv("MOVIES_PATHS"); v != "" {
		paths, err := parsePathList(v)
		if err != nil {
			return fmt.Errorf("invalid MOVIES_PATHS: %w", err)
		}
		cfg.MoviePaths = paths
	}
	if v := os.Getenv("TVSHOWS_PATHS"); v != "" {
		paths, err := parsePathList(v)
		if err != nil {
			return fmt.Errorf("invalid TVSHOWS_PATHS: %w", err)
		}
		cfg.ShowPaths = paths
	}
	if v := os.Getenv("SMB_MOUNT_POINT"); v != "" {
		cfg.SMBMountPoint = v
	}
	// The environment can enable mount prefixing but never disables a
	// mount configured in the file.
	if strings.EqualFold(os.Getenv("USE_SMB_MOUNT"), "true") {
		cfg.UseSMBMount = true
	}
	if v := os.Getenv("SCAN_SAMPLE_SIZE"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			logger.GetLogger("config").WithField("value", v).
				Warn("ignoring invalid SCAN_SAMPLE_SIZE")
		} else {
			cfg.SampleSize = n
		}
	}
	return nil
}

// parsePathList decodes a JSON array of path strings, the form the
// path environment variables use
func parsePathList(raw string) ([]string, error) {
	var paths []string
	if err := json.Unmarshal([]byte(raw), &paths); err != nil {
		return nil, fmt.Errorf("expected a JSON array of paths: %w", err)
	}
	return paths, nil
}

// applyMountPrefix re-roots every media path under the SMB mount point.
// Runs once at load time so all consumers see final paths.
func (cfg *Config) applyMountPrefix() {
	if !cfg.UseSMBMount || cfg.SMBMountPoint == "" {
		return
	}
	cfg.MoviePaths = prefixPaths(cfg.SMBMountPoint, cfg.MoviePaths)
	cfg.ShowPaths = prefixPaths(cfg.SMBMountPoint, cfg.ShowPaths)
}

func prefixPaths(mount string, paths []string) []string {
	prefixed := make([]string, len(paths))
	for i, p := range paths {
		prefixed[i] = filepath.Join(mount, strings.TrimLeft(p, "/"))
	}
	return prefixed
}

// CacheFile returns the scan cache location. An empty CacheDir resolves
// under the user's home directory; when the home directory is unknown
// the returned path is empty and the cache stays in memory.
func (cfg *Config) CacheFile() string {
	dir := cfg.CacheDir
	if dir == "" {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return ""
		}
		dir = filepath.Join(homeDir, ".trailer-tidy", "cache")
	}
	return filepath.Join(dir, "scan_cache.gob")
}

// TTL returns the configured scan cache lifetime
func (cfg *Config) TTL() time.Duration {
	return time.Duration(cfg.CacheTTLSeconds) * time.Second
}

// Clone returns a deep copy of the configuration
func (cfg *Config) Clone() *Config {
	clone := *cfg
	clone.MoviePaths = append([]string(nil), cfg.MoviePaths...)
	clone.ShowPaths = append([]string(nil), cfg.ShowPaths...)
	clone.Languages = append([]string(nil), cfg.Languages...)
	clone.VideoExtensions = append([]string(nil), cfg.VideoExtensions...)
	return &clone
}

// Save writes the configuration to the default location
func (cfg *Config) Save() error {
	path, err := ConfigPath()
	if err != nil {
		return err
	}
	return cfg.SaveTo(path)
}

// SaveTo writes the configuration to path
func (cfg *Config) SaveTo(path string) error {
	// Ensure directory exists
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}
