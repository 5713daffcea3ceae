package dashboard

import (
	"fmt"
	"maps"
	"slices"
	"strings"
)

// Frequency is how often notification digests are sent.
type Frequency string

const (
	Daily   Frequency = "daily"
	Weekly  Frequency = "weekly"
	Monthly Frequency = "monthly"
)

// Frequencies lists every frequency in selector order.
var Frequencies = []Frequency{Daily, Weekly, Monthly}

// TimeOfDay is when notification digests are sent.
type TimeOfDay string

const (
	Morning   TimeOfDay = "morning"
	Afternoon TimeOfDay = "afternoon"
	Evening   TimeOfDay = "evening"
)

// TimesOfDay lists every time of day in selector order.
var TimesOfDay = []TimeOfDay{Morning, Afternoon, Evening}

// ParseFrequency parses a case-insensitive frequency name.
func ParseFrequency(s string) (Frequency, error) {
	f := Frequency(strings.ToLower(strings.TrimSpace(s)))
	if !slices.Contains(Frequencies, f) {
		return "", fmt.Errorf("unknown frequency %q", s)
	}
	return f, nil
}

// Next returns the frequency after f, wrapping around.
func (f Frequency) Next() Frequency {
	return cycle(Frequencies, f)
}

// ParseTimeOfDay parses a case-insensitive time of day.
func ParseTimeOfDay(s string) (TimeOfDay, error) {
	t := TimeOfDay(strings.ToLower(strings.TrimSpace(s)))
	if !slices.Contains(TimesOfDay, t) {
		return "", fmt.Errorf("unknown time of day %q", s)
	}
	return t, nil
}

// Next returns the time of day after t, wrapping around.
func (t TimeOfDay) Next() TimeOfDay {
	return cycle(TimesOfDay, t)
}

func cycle[T comparable](all []T, cur T) T {
	i := slices.Index(all, cur)
	return all[(i+1)%len(all)]
}

// Preferences controls digest delivery.
type Preferences struct {
	Frequency Frequency `json:"frequency" mapstructure:"frequency"`
	Time      TimeOfDay `json:"time" mapstructure:"time"`
}

// Settings is the record handed to a SettingsSink.
type Settings struct {
	Notifications map[string]bool `json:"notifications" mapstructure:"notifications"`
	Preferences   Preferences     `json:"preferences" mapstructure:"preferences"`
}

// DefaultSettings enables every named notification with a daily morning
// digest.
func DefaultSettings(names ...string) Settings {
	s := Settings{
		Notifications: make(map[string]bool, len(names)),
		Preferences:   Preferences{Frequency: Daily, Time: Morning},
	}
	for _, n := range names {
		s.Notifications[n] = true
	}
	return s
}

// Validate checks the preference enums.
func (s Settings) Validate() error {
	if !slices.Contains(Frequencies, s.Preferences.Frequency) {
		return fmt.Errorf("settings: unknown frequency %q", s.Preferences.Frequency)
	}
	if !slices.Contains(TimesOfDay, s.Preferences.Time) {
		return fmt.Errorf("settings: unknown time of day %q", s.Preferences.Time)
	}
	return nil
}

// Clone returns a copy that shares no map with s.
func (s Settings) Clone() Settings {
	out := s
	out.Notifications = maps.Clone(s.Notifications)
	if out.Notifications == nil {
		out.Notifications = map[string]bool{}
	}
	return out
}

// NotificationNames returns the notification flag names sorted.
func (s Settings) NotificationNames() []string {
	return slices.Sorted(maps.Keys(s.Notifications))
}

// Detail flattens s for event payloads.
func (s Settings) Detail() map[string]any {
	flags := make(map[string]any, len(s.Notifications))
	for k, v := range s.Notifications {
		flags[k] = v
	}
	return map[string]any{
		"notifications": flags,
		"preferences": map[string]any{
			"frequency": string(s.Preferences.Frequency),
			"time":      string(s.Preferences.Time),
		},
	}
}
