// Package config loads application configuration with viper, decodes and
// validates workspace manifests, and persists settings to disk.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// EnvPrefix prefixes every environment override, e.g. PANELDECK_LOG_FILE.
const EnvPrefix = "PANELDECK"

// Config holds application configuration.
type Config struct {
	Manifest string
	Settings SettingsConfig
	Log      LogConfig
	Timer    TimerConfig
	UI       UIConfig
}

// SettingsConfig locates the saved settings file.
type SettingsConfig struct {
	Path string
}

// LogConfig controls the debug log.
type LogConfig struct {
	File      string
	Verbosity int
}

// TimerConfig controls the timer control.
type TimerConfig struct {
	Interval time.Duration
}

// UIConfig holds presentation settings.
type UIConfig struct {
	Mouse bool
}

// Load reads configuration from path (or PANELDECK_CONFIG, or
// ~/.config/paneldeck/config.yaml) and the environment. A missing default
// config file is not an error; a missing explicit one is.
func Load(path string) (Config, error) {
	v := viper.New()

	home, _ := os.UserHomeDir()
	v.SetDefault("manifest", "")
	v.SetDefault("settings.path", filepath.Join(home, ".config", "paneldeck", "settings.yaml"))
	v.SetDefault("log.file", "")
	v.SetDefault("log.verbosity", 0)
	v.SetDefault("timer.interval", time.Second)
	v.SetDefault("ui.mouse", true)

	v.SetConfigType("yaml")
	if path == "" {
		path = os.Getenv(EnvPrefix + "_CONFIG")
	}
	explicit := path != ""
	if explicit {
		v.SetConfigFile(path)
	} else {
		v.AddConfigPath(filepath.Join(home, ".config", "paneldeck"))
		v.SetConfigName("config")
	}

	v.SetEnvPrefix(EnvPrefix)
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if explicit || !errors.As(err, &notFound) {
			return Config{}, fmt.Errorf("config: read %s: %w", v.ConfigFileUsed(), err)
		}
	}

	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return Config{}, fmt.Errorf("config: unmarshal: %w", err)
	}
	if c.Timer.Interval <= 0 {
		c.Timer.Interval = time.Second
	}
	return c, nil
}
