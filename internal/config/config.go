package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/BurntSushi/toml"
)

const appName = "atelier"

// Config represents the application configuration
type Config struct {
	CatalogPath      string   `toml:"catalog_path"`
	ImagesDir        string   `toml:"images_dir"`
	StorePath        string   `toml:"store_path"`
	AdvanceDelay     Duration `toml:"advance_delay"`
	SwipeThreshold   int      `toml:"swipe_threshold"`
	ShuffleOnRebuild bool     `toml:"shuffle_on_rebuild"`
	FetchTimeout     Duration `toml:"fetch_timeout"`
	ArtWidth         int      `toml:"art_width"`
	ArtHeight        int      `toml:"art_height"`
	LogLevel         string   `toml:"log_level"`
	LogFormat        string   `toml:"log_format"`
	LogFile          string   `toml:"log_file"`
}

// Duration is a time.Duration written as a string ("150ms") in TOML
type Duration struct {
	time.Duration
}

func (d *Duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(string(text))
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", text, err)
	}
	d.Duration = v
	return nil
}

func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

// Default returns the configuration written on first run
func Default() *Config {
	return &Config{
		CatalogPath:    filepath.Join(GetDataDir(), "catalog.toml"),
		ImagesDir:      filepath.Join(GetDataDir(), "images"),
		StorePath:      filepath.Join(GetDataDir(), "progress.db"),
		AdvanceDelay:   Duration{150 * time.Millisecond},
		SwipeThreshold: 8,
		FetchTimeout:   Duration{5 * time.Second},
		ArtWidth:       40,
		ArtHeight:      24,
		LogLevel:       "warn",
		LogFormat:      "text",
	}
}

// GetXDGDataHome returns XDG_DATA_HOME or default path
func GetXDGDataHome() string {
	if xdgData := os.Getenv("XDG_DATA_HOME"); xdgData != "" {
		return xdgData
	}
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(homeDir, ".local", "share")
}

// GetXDGConfigHome returns XDG_CONFIG_HOME or default path
func GetXDGConfigHome() string {
	if xdgConfig := os.Getenv("XDG_CONFIG_HOME"); xdgConfig != "" {
		return xdgConfig
	}
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(homeDir, ".config")
}

// GetXDGCacheHome returns XDG_CACHE_HOME or default path
func GetXDGCacheHome() string {
	if xdgCache := os.Getenv("XDG_CACHE_HOME"); xdgCache != "" {
		return xdgCache
	}
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(homeDir, ".cache")
}

// GetDataDir returns the directory holding the catalog, images and progress
func GetDataDir() string {
	return filepath.Join(GetXDGDataHome(), appName)
}

// GetCacheDir returns the directory for rendered ANSI art
func GetCacheDir() string {
	return filepath.Join(GetXDGCacheHome(), appName, "ansi_cache")
}

// GetConfigFilePath returns the path to the config file
func GetConfigFilePath() string {
	return filepath.Join(GetXDGConfigHome(), appName, "config.toml")
}

// LoadConfig loads the config file, creating it with defaults if missing.
// Keys absent from the file keep their default values.
func LoadConfig() (*Config, error) {
	configPath := GetConfigFilePath()

	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		return createDefaultConfig()
	}

	config := Default()
	if _, err := toml.DecodeFile(configPath, config); err != nil {
		return nil, fmt.Errorf("error decoding config file: %w", err)
	}

	return config, nil
}

// Save writes config to the config file
func Save(config *Config) error {
	configPath := GetConfigFilePath()
	if err := os.MkdirAll(filepath.Dir(configPath), 0755); err != nil {
		return fmt.Errorf("error creating config directory: %w", err)
	}

	file, err := os.Create(configPath)
	if err != nil {
		return fmt.Errorf("error creating config file: %w", err)
	}
	defer file.Close()

	if err := toml.NewEncoder(file).Encode(config); err != nil {
		return fmt.Errorf("error encoding config: %w", err)
	}
	return nil
}

func createDefaultConfig() (*Config, error) {
	config := Default()
	if err := Save(config); err != nil {
		return nil, err
	}
	return config, nil
}
