// Package config loads and saves the YAML settings file.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"time"

	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"
)

// Config holds all user-editable settings. Typing delays are fixed and
// deliberately not part of it.
type Config struct {
	PreviewLength     int    `yaml:"preview_length"`
	ClipboardPollMs   int    `yaml:"clipboard_poll_ms"`
	MuteNotifications bool   `yaml:"mute_notifications,omitempty"`
	LogLevel          string `yaml:"log_level"`
	CheckUpdates      bool   `yaml:"check_updates"` // only defaulted when the file is created
}

const (
	DefaultPreviewLength = 40
	DefaultPollMs        = 1000
	DefaultLogLevel      = "info"

	minPollMs = 200
)

// Load reads the config from the platform path, or creates a default one.
func Load() *Config {
	return LoadFile(Path())
}

// LoadFile reads the config at path. A missing file is created with
// defaults; unreadable or invalid files fall back to defaults.
func LoadFile(path string) *Config {
	cfg := &Config{}

	if _, err := os.Stat(path); os.IsNotExist(err) {
		cfg.setDefaults()
		if err := cfg.SaveFile(path); err != nil {
			logrus.WithError(err).Warn("Could not write default config")
		}
		return cfg
	}

	data, err := os.ReadFile(path)
	if err != nil {
		logrus.WithError(err).Error("Error reading config")
		cfg.setDefaults()
		return cfg
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		logrus.WithError(err).Error("Error parsing config")
	}

	cfg.applyDefaults()
	return cfg
}

// Parse decodes YAML config data and applies defaults.
func Parse(data []byte) (*Config, error) {
	cfg := &Config{}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	cfg.applyDefaults()
	return cfg, nil
}

// EnsureFile writes a default config to path unless a file is already
// there. The tray calls it before opening the file for editing.
func EnsureFile(path string) error {
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		return nil
	}
	cfg := &Config{}
	cfg.setDefaults()
	return cfg.SaveFile(path)
}

// SaveFile writes the config to path, creating its directory.
func (c *Config) SaveFile(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("creating config dir: %w", err)
	}
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("encoding config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}
	return nil
}

// PollInterval is how often the tray re-reads the clipboard.
func (c *Config) PollInterval() time.Duration {
	return time.Duration(c.ClipboardPollMs) * time.Millisecond
}

// Path returns the platform-specific config file path.
func Path() string {
	if runtime.GOOS == "darwin" {
		home, _ := os.UserHomeDir()
		return filepath.Join(home, "Library", "Application Support", "TypeMyClipboard", "config.yaml")
	} else if runtime.GOOS == "windows" {
		appData := os.Getenv("APPDATA")
		return filepath.Join(appData, "TypeMyClipboard", "config.yaml")
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".config", "typemyclipboard", "config.yaml")
}

// Dir returns the platform-specific config/data directory.
func Dir() string {
	return filepath.Dir(Path())
}

func (c *Config) setDefaults() {
	c.PreviewLength = DefaultPreviewLength
	c.ClipboardPollMs = DefaultPollMs
	c.LogLevel = DefaultLogLevel
	c.CheckUpdates = true
}

func (c *Config) applyDefaults() {
	if c.PreviewLength <= 0 {
		c.PreviewLength = DefaultPreviewLength
	}
	if c.ClipboardPollMs == 0 {
		c.ClipboardPollMs = DefaultPollMs
	}
	if c.ClipboardPollMs < minPollMs {
		c.ClipboardPollMs = minPollMs
	}
	if c.LogLevel == "" {
		c.LogLevel = DefaultLogLevel
	}
}
