package config

import (
	"path/filepath"
	"testing"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	if !cfg.Analysis.ShowMessageText {
		t.Error("ShowMessageText default = false, want true")
	}
	if cfg.Analysis.DefaultPeriod != "monthly" {
		t.Errorf("DefaultPeriod = %q, want monthly", cfg.Analysis.DefaultPeriod)
	}
	if cfg.Appearance.Theme != "flexoki-dark" {
		t.Errorf("Theme = %q, want flexoki-dark", cfg.Appearance.Theme)
	}
}

func TestConfigDir_XDG(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", dir)
	if got := ConfigDir(); got != filepath.Join(dir, "gptinsight") {
		t.Errorf("ConfigDir = %q", got)
	}
	if got := ConfigPath(); got != filepath.Join(dir, "gptinsight", "config.toml") {
		t.Errorf("ConfigPath = %q", got)
	}
}

func TestCacheDir(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("XDG_CACHE_HOME", dir)

	cfg := DefaultConfig()
	if got := CacheDir(cfg); got != filepath.Join(dir, "gptinsight") {
		t.Errorf("CacheDir = %q", got)
	}

	cfg.General.CacheDir = "/custom/cache"
	if got := CacheDir(cfg); got != "/custom/cache" {
		t.Errorf("override CacheDir = %q, want /custom/cache", got)
	}
}

func TestLoadSaveRoundTrip(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())

	// Missing file loads defaults without error.
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load (no file): %v", err)
	}
	if Exists() {
		t.Error("Exists = true before save")
	}

	cfg.General.ArchivePath = "/data/conversations.json"
	cfg.Analysis.DefaultPeriod = "weekly"
	cfg.Appearance.Theme = "tokyo-night"
	if err := Save(cfg); err != nil {
		t.Fatalf("Save: %v", err)
	}
	if !Exists() {
		t.Error("Exists = false after save")
	}

	loaded, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if loaded.General.ArchivePath != "/data/conversations.json" {
		t.Errorf("ArchivePath = %q", loaded.General.ArchivePath)
	}
	if loaded.Analysis.DefaultPeriod != "weekly" {
		t.Errorf("DefaultPeriod = %q, want weekly", loaded.Analysis.DefaultPeriod)
	}
	if loaded.Appearance.Theme != "tokyo-night" {
		t.Errorf("Theme = %q, want tokyo-night", loaded.Appearance.Theme)
	}
}
