package models

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"
	"strconv"
	"strings"
	"sync"
)

const appDirName = "hba1c-impact"

// Environment variables that override stored settings
const (
	EnvLanguage      = "HBA1C_LANG"
	EnvDebounceMS    = "HBA1C_DEBOUNCE_MS"
	EnvNotifications = "HBA1C_NOTIFICATIONS"
	EnvLogLevel      = "HBA1C_LOG_LEVEL"
)

// Settings contains all application settings
type Settings struct {
	mu sync.RWMutex `json:"-"`

	// Display settings
	Language string `json:"language"` // "en" or "es"
	LogLevel string `json:"logLevel"` // "debug", "info", "warn", "error"

	// Chart settings
	ChartWidth          int     `json:"chartWidth"`
	ChartHeight         int     `json:"chartHeight"`
	ChartDebounceMS     int     `json:"chartDebounceMs"` // Quiet period before a redraw
	ChartColorCurrent   string  `json:"chartColorCurrent"`
	ChartColorProjected string  `json:"chartColorProjected"`
	ChartSuggestedMax   float64 `json:"chartSuggestedMax"`

	// Alert settings
	EnableNotifications bool `json:"enableNotifications"`

	// System settings
	ShowTray bool `json:"showTray"`

	// Window state (not user-configurable)
	WindowWidth  int `json:"windowWidth"`
	WindowHeight int `json:"windowHeight"`
}

// DefaultSettings returns settings with default values
func DefaultSettings() *Settings {
	return &Settings{
		Language: LangEnglish,
		LogLevel: "info",

		ChartWidth:          480,
		ChartHeight:         320,
		ChartDebounceMS:     200,
		ChartColorCurrent:   "#dc3545", // Red
		ChartColorProjected: "#198754", // Green
		ChartSuggestedMax:   14,

		EnableNotifications: false,

		ShowTray: true,

		WindowWidth:  900,
		WindowHeight: 760,
	}
}

// GetConfigDir returns the configuration directory path
func GetConfigDir() (string, error) {
	var configDir string

	switch runtime.GOOS {
	case "windows":
		configDir = os.Getenv("APPDATA")
		if configDir == "" {
			configDir = filepath.Join(os.Getenv("USERPROFILE"), "AppData", "Roaming")
		}
	case "darwin":
		home, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		configDir = filepath.Join(home, "Library", "Application Support")
	default: // Linux and others
		configDir = os.Getenv("XDG_CONFIG_HOME")
		if configDir == "" {
			home, err := os.UserHomeDir()
			if err != nil {
				return "", err
			}
			configDir = filepath.Join(home, ".config")
		}
	}

	appDir := filepath.Join(configDir, appDirName)
	if err := os.MkdirAll(appDir, 0750); err != nil {
		return "", err
	}

	return appDir, nil
}

// GetConfigPath returns the full path to the config file
func GetConfigPath() (string, error) {
	dir, err := GetConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "settings.json"), nil
}

// Load loads settings from the default config path
func (s *Settings) Load() error {
	path, err := GetConfigPath()
	if err != nil {
		return err
	}
	return s.LoadFrom(path)
}

// LoadFrom loads settings from path. A missing file leaves the defaults.
func (s *Settings) LoadFrom(path string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := os.ReadFile(path) //nolint:gosec // Config path is controlled by the app, not user input
	if err != nil {
		if os.IsNotExist(err) {
			s.copySettingsFields(DefaultSettings())
			return nil
		}
		return err
	}

	if err := json.Unmarshal(data, s); err != nil {
		return fmt.Errorf("parsing settings: %w", err)
	}

	return nil
}

// Save saves settings to the default config path
func (s *Settings) Save() error {
	path, err := GetConfigPath()
	if err != nil {
		return err
	}
	return s.SaveTo(path)
}

// SaveTo writes settings to path
func (s *Settings) SaveTo(path string) error {
	s.mu.RLock()
	defer s.mu.RUnlock()

	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return err
	}

	return os.WriteFile(path, data, 0600)
}

// ApplyEnv overrides settings from environment variables. Invalid values
// are reported and leave the setting untouched.
func (s *Settings) ApplyEnv() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if v, ok := os.LookupEnv(EnvLanguage); ok {
		v = strings.ToLower(strings.TrimSpace(v))
		if v != LangEnglish && v != LangSpanish {
			return fmt.Errorf("%s: unsupported language %q", EnvLanguage, v)
		}
		s.Language = v
	}
	if v, ok := os.LookupEnv(EnvDebounceMS); ok {
		ms, err := strconv.Atoi(strings.TrimSpace(v))
		if err != nil || ms < 0 {
			return fmt.Errorf("%s: invalid duration %q", EnvDebounceMS, v)
		}
		s.ChartDebounceMS = ms
	}
	if v, ok := os.LookupEnv(EnvNotifications); ok {
		enabled, err := strconv.ParseBool(strings.TrimSpace(v))
		if err != nil {
			return fmt.Errorf("%s: %w", EnvNotifications, err)
		}
		s.EnableNotifications = enabled
	}
	if v, ok := os.LookupEnv(EnvLogLevel); ok {
		s.LogLevel = strings.ToLower(strings.TrimSpace(v))
	}

	return nil
}

// Clone creates a copy of the settings
func (s *Settings) Clone() *Settings {
	s.mu.RLock()
	defer s.mu.RUnlock()

	clone := &Settings{}
	clone.copySettingsFields(s)
	return clone
}

// Update updates settings from another Settings object
func (s *Settings) Update(other *Settings) {
	s.mu.Lock()
	defer s.mu.Unlock()
	other.mu.RLock()
	defer other.mu.RUnlock()

	s.copySettingsFields(other)
}

// copySettingsFields copies all fields from other to s, excluding the mutex
// The caller must hold the necessary locks on s and other (if other is shared)
func (s *Settings) copySettingsFields(other *Settings) {
	s.Language = other.Language
	s.LogLevel = other.LogLevel
	s.ChartWidth = other.ChartWidth
	s.ChartHeight = other.ChartHeight
	s.ChartDebounceMS = other.ChartDebounceMS
	s.ChartColorCurrent = other.ChartColorCurrent
	s.ChartColorProjected = other.ChartColorProjected
	s.ChartSuggestedMax = other.ChartSuggestedMax
	s.EnableNotifications = other.EnableNotifications
	s.ShowTray = other.ShowTray
	s.WindowWidth = other.WindowWidth
	s.WindowHeight = other.WindowHeight
}

// Lang returns the display language
func (s *Settings) Lang() string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.Language == LangSpanish {
		return LangSpanish
	}
	return LangEnglish
}

// NotificationsEnabled reports whether projection notifications are on
func (s *Settings) NotificationsEnabled() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.EnableNotifications
}

// SlogLevel returns the configured log level, defaulting to info
func (s *Settings) SlogLevel() slog.Level {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var level slog.Level
	if err := level.UnmarshalText([]byte(s.LogLevel)); err != nil {
		return slog.LevelInfo
	}
	return level
}
