// Package config loads filterline settings from file, environment and flags.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// EnvPrefix is prepended to every environment override, e.g.
// FILTERLINE_SAVE_AFTER_FILTERING=true.
const EnvPrefix = "FILTERLINE"

// Config represents the complete filterline configuration.
type Config struct {
	// SaveAfterFiltering moves results next to the source instead of opening
	// them in an editor buffer.
	SaveAfterFiltering bool `mapstructure:"save_after_filtering"`
	// HistorySize caps the number of remembered patterns (1-50).
	HistorySize int           `mapstructure:"history_size"`
	History     HistoryConfig `mapstructure:"history"`
	Log         LogConfig     `mapstructure:"log"`
}

// HistoryConfig controls where pattern history is persisted.
type HistoryConfig struct {
	// Path of the YAML history file. Empty means the default state dir.
	Path string `mapstructure:"path"`
}

// LogConfig controls structured logging.
type LogConfig struct {
	Level string `mapstructure:"level"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		SaveAfterFiltering: false,
		HistorySize:        10,
		History:            HistoryConfig{Path: DefaultHistoryPath()},
		Log:                LogConfig{Level: "warn"},
	}
}

// SetDefaults registers the defaults on v.
func SetDefaults(v *viper.Viper) {
	defaults := Default()

	v.SetDefault("save_after_filtering", defaults.SaveAfterFiltering)
	v.SetDefault("history_size", defaults.HistorySize)
	v.SetDefault("history.path", defaults.History.Path)
	v.SetDefault("log.level", defaults.Log.Level)
}

// flagKeys maps CLI flag names onto config keys.
var flagKeys = map[string]string{
	"save":      "save_after_filtering",
	"log-level": "log.level",
	"history":   "history.path",
}

// Load reads the config file at path (or the default location when path is
// empty), applies environment overrides and the changed flags in fs, and
// validates the result.
func Load(path string, fs *pflag.FlagSet) (*Config, error) {
	v := viper.New()
	SetDefaults(v)

	v.SetConfigType("yaml")

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("config")
		v.AddConfigPath(ConfigDir())
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if fs != nil {
		for name, key := range flagKeys {
			if f := fs.Lookup(name); f != nil {
				if err := v.BindPFlag(key, f); err != nil {
					return nil, fmt.Errorf("failed to bind flag %s: %w", name, err)
				}
			}
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}

	if errs := cfg.Validate(); len(errs) > 0 {
		return nil, errs
	}

	return cfg, nil
}

// ConfigDir returns $XDG_CONFIG_HOME/filterline, falling back to ~/.config.
func ConfigDir() string {
	if dir := os.Getenv("XDG_CONFIG_HOME"); dir != "" {
		return filepath.Join(dir, "filterline")
	}

	if dir, err := os.UserConfigDir(); err == nil {
		return filepath.Join(dir, "filterline")
	}

	return ".filterline"
}

// DefaultHistoryPath returns $XDG_STATE_HOME/filterline/history.yaml,
// falling back to ~/.local/state.
func DefaultHistoryPath() string {
	if dir := os.Getenv("XDG_STATE_HOME"); dir != "" {
		return filepath.Join(dir, "filterline", "history.yaml")
	}

	if home, err := os.UserHomeDir(); err == nil {
		return filepath.Join(home, ".local", "state", "filterline", "history.yaml")
	}

	return filepath.Join(".filterline", "history.yaml")
}
