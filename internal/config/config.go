// Package config loads and saves gptinsight's TOML configuration.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

// Config holds all gptinsight configuration.
type Config struct {
	General    GeneralConfig    `toml:"general"`
	Analysis   AnalysisConfig   `toml:"analysis"`
	Appearance AppearanceConfig `toml:"appearance"`
}

// GeneralConfig holds general preferences.
type GeneralConfig struct {
	ArchivePath string `toml:"archive_path,omitempty"`
	PriceFile   string `toml:"price_file,omitempty"`
	CacheDir    string `toml:"cache_dir,omitempty"`
	NoCache     bool   `toml:"no_cache"`
}

// AnalysisConfig holds extraction and statistics preferences.
type AnalysisConfig struct {
	ShowMessageText     bool     `toml:"show_message_text"`
	AnalyzeContentTypes []string `toml:"analyze_content_types,omitempty"`
	DefaultPeriod       string   `toml:"default_period"`
}

// AppearanceConfig holds theme settings.
type AppearanceConfig struct {
	Theme string `toml:"theme"`
}

// DefaultConfig returns the default configuration.
func DefaultConfig() Config {
	return Config{
		Analysis: AnalysisConfig{
			ShowMessageText: true,
			DefaultPeriod:   "monthly",
		},
		Appearance: AppearanceConfig{
			Theme: "flexoki-dark",
		},
	}
}

// ConfigDir returns the XDG-compliant config directory.
func ConfigDir() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "gptinsight")
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".config", "gptinsight")
}

// ConfigPath returns the full path to the config file.
func ConfigPath() string {
	return filepath.Join(ConfigDir(), "config.toml")
}

// CacheDir returns the cache directory, honoring the configured
// override first, then XDG_CACHE_HOME.
func CacheDir(cfg Config) string {
	if cfg.General.CacheDir != "" {
		return cfg.General.CacheDir
	}
	if xdg := os.Getenv("XDG_CACHE_HOME"); xdg != "" {
		return filepath.Join(xdg, "gptinsight")
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".cache", "gptinsight")
}

// Load reads the config file, returning defaults if it doesn't exist.
func Load() (Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(ConfigPath())
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("reading config: %w", err)
	}

	if err := toml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parsing config: %w", err)
	}

	return cfg, nil
}

// Save writes the config to disk.
func Save(cfg Config) error {
	dir := ConfigDir()
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating config dir: %w", err)
	}

	f, err := os.OpenFile(ConfigPath(), os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o600)
	if err != nil {
		return fmt.Errorf("creating config file: %w", err)
	}
	defer f.Close()

	enc := toml.NewEncoder(f)
	return enc.Encode(cfg)
}

// Exists returns true if a config file exists on disk.
func Exists() bool {
	_, err := os.Stat(ConfigPath())
	return err == nil
}
