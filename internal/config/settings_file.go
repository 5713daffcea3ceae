package config

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/spf13/viper"

	"paneldeck/internal/dashboard"
)

// SettingsFile persists settings as YAML at Path.
type SettingsFile struct {
	Path string
}

var _ dashboard.SettingsSink = SettingsFile{}

// Save writes s to the settings file, creating its directory if needed.
func (f SettingsFile) Save(ctx context.Context, s dashboard.Settings) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if f.Path == "" {
		return fmt.Errorf("config: settings path is empty")
	}
	if err := os.MkdirAll(filepath.Dir(f.Path), 0o755); err != nil {
		return fmt.Errorf("config: mkdir settings dir: %w", err)
	}

	v := viper.New()
	v.SetConfigType("yaml")
	v.Set("notifications", s.Notifications)
	v.Set("preferences.frequency", string(s.Preferences.Frequency))
	v.Set("preferences.time", string(s.Preferences.Time))
	if err := v.WriteConfigAs(f.Path); err != nil {
		return fmt.Errorf("config: write settings: %w", err)
	}
	return nil
}

// Load reads the settings file. When the file does not exist, fallback is
// returned unchanged. Flags present in fallback but missing from the file
// keep their fallback value.
func (f SettingsFile) Load(fallback dashboard.Settings) (dashboard.Settings, error) {
	out := fallback.Clone()
	if f.Path == "" {
		return out, nil
	}
	if _, err := os.Stat(f.Path); errors.Is(err, fs.ErrNotExist) {
		return out, nil
	}

	v := viper.New()
	v.SetConfigFile(f.Path)
	v.SetConfigType("yaml")
	if err := v.ReadInConfig(); err != nil {
		return out, fmt.Errorf("config: read settings %s: %w", f.Path, err)
	}

	var saved dashboard.Settings
	if err := v.Unmarshal(&saved); err != nil {
		return out, fmt.Errorf("config: unmarshal settings: %w", err)
	}
	for name, on := range saved.Notifications {
		out.Notifications[name] = on
	}
	if saved.Preferences.Frequency != "" {
		out.Preferences.Frequency = saved.Preferences.Frequency
	}
	if saved.Preferences.Time != "" {
		out.Preferences.Time = saved.Preferences.Time
	}
	if err := out.Validate(); err != nil {
		return fallback.Clone(), fmt.Errorf("config: settings %s: %w", f.Path, err)
	}
	return out, nil
}
