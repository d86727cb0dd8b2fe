package progress

import (
	"errors"
	"fmt"
	"strconv"
	"time"
)

type Theme string

const (
	ThemeSystem Theme = "" // follow the operating system preference
	ThemeLight  Theme = "light"
	ThemeDark   Theme = "dark"
)

// Storage keys. They match the names the web front end keeps in its
// local storage so both sides read the same values.
const (
	KeyTheme            = "theme"
	KeyMusicEnabled     = "musicEnabled"
	KeySounds           = "sounds"
	KeyHaptics          = "haptics"
	KeyNotifications    = "notifications"
	KeyProductivityMode = "productivityMode"
	KeyStreak           = "streak"
	KeyLastDate         = "lastDate"
	KeyStreakGoal       = "streakGoal"
)

const dateLayout = "2006-01-02"

var (
	ErrUnknownKey   = errors.New("unknown preference key")
	ErrInvalidValue = errors.New("invalid preference value")
)

// Preferences are the learner's display and sound settings.
type Preferences struct {
	Theme            Theme
	MusicEnabled     bool
	Sounds           bool
	Haptics          bool
	Notifications    bool
	ProductivityMode bool
}

func DefaultPreferences() Preferences {
	return Preferences{
		Theme:            ThemeSystem,
		MusicEnabled:     false,
		Sounds:           true,
		Haptics:          true,
		Notifications:    true,
		ProductivityMode: false,
	}
}

// ResolveTheme returns the theme to render. An explicit choice wins over
// the system preference.
func (p Preferences) ResolveTheme(systemPrefersDark bool) Theme {
	switch p.Theme {
	case ThemeDark, ThemeLight:
		return p.Theme
	}
	if systemPrefersDark {
		return ThemeDark
	}
	return ThemeLight
}

// Set applies a single named value, as written by the front end.
func (p *Preferences) Set(key, value string) error {
	switch key {
	case KeyTheme:
		t := Theme(value)
		if t != ThemeSystem && t != ThemeLight && t != ThemeDark {
			return fmt.Errorf("%w: theme %q must be light, dark or empty", ErrInvalidValue, value)
		}
		p.Theme = t
		return nil
	}

	target := p.flag(key)
	if target == nil {
		return fmt.Errorf("%w: %q", ErrUnknownKey, key)
	}
	b, err := strconv.ParseBool(value)
	if err != nil {
		return fmt.Errorf("%w: %q for %s is not a boolean", ErrInvalidValue, value, key)
	}
	*target = b
	return nil
}

func (p *Preferences) flag(key string) *bool {
	switch key {
	case KeyMusicEnabled:
		return &p.MusicEnabled
	case KeySounds:
		return &p.Sounds
	case KeyHaptics:
		return &p.Haptics
	case KeyNotifications:
		return &p.Notifications
	case KeyProductivityMode:
		return &p.ProductivityMode
	}
	return nil
}

// Encode returns the preferences as named string values.
func (p Preferences) Encode() map[string]string {
	return map[string]string{
		KeyTheme:            string(p.Theme),
		KeyMusicEnabled:     strconv.FormatBool(p.MusicEnabled),
		KeySounds:           strconv.FormatBool(p.Sounds),
		KeyHaptics:          strconv.FormatBool(p.Haptics),
		KeyNotifications:    strconv.FormatBool(p.Notifications),
		KeyProductivityMode: strconv.FormatBool(p.ProductivityMode),
	}
}

// DecodePreferences reads preferences from named values. Missing or
// unreadable values keep their defaults, the way the front end treats a
// missing local storage entry.
func DecodePreferences(values map[string]string) Preferences {
	p := DefaultPreferences()
	for k, v := range values {
		_ = p.Set(k, v)
	}
	return p
}

// EncodeStreak returns the streak as named string values.
func EncodeStreak(s Streak) map[string]string {
	values := map[string]string{
		KeyStreak:     strconv.Itoa(s.Count),
		KeyStreakGoal: strconv.Itoa(s.Goal),
		KeyLastDate:   "",
	}
	if !s.LastActive.IsZero() {
		values[KeyLastDate] = s.LastActive.Format(dateLayout)
	}
	return values
}

// DecodeStreak reads a streak from named values; loc is the learner's
// time zone for the last active date.
func DecodeStreak(values map[string]string, loc *time.Location) Streak {
	s := NewStreak()
	if n, err := strconv.Atoi(values[KeyStreak]); err == nil && n > 0 {
		s.Count = n
	}
	if g, err := strconv.Atoi(values[KeyStreakGoal]); err == nil {
		if updated, err := s.SetGoal(g); err == nil {
			s = updated
		}
	}
	if d, err := time.ParseInLocation(dateLayout, values[KeyLastDate], loc); err == nil {
		s.LastActive = d
	}
	return s
}
