// Package config provides configuration management for focus.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
	"github.com/xvierd/focus-cli/internal/domain"
	"github.com/xvierd/focus-cli/internal/ports"
)

const (
	appDirName     = ".focus"
	configFileName = "config.toml"
	dbFileName     = "focus.db"
	logFileName    = "focus.log"
)

// Config holds all configuration for the focus application.
type Config struct {
	Timer         TimerConfig        `mapstructure:"timer"`
	Notifications NotificationConfig `mapstructure:"notifications"`
	Calendar      CalendarConfig     `mapstructure:"calendar"`
	Storage       StorageConfig      `mapstructure:"storage"`
	Logging       LoggingConfig      `mapstructure:"logging"`
	Theme         ThemeConfig        `mapstructure:"theme"`
}

// TimerConfig holds focus-timer settings.
type TimerConfig struct {
	PomodoroMinutes    int  `mapstructure:"pomodoro_minutes"`
	ShortBreakMinutes  int  `mapstructure:"short_break_minutes"`
	LongBreakMinutes   int  `mapstructure:"long_break_minutes"`
	AutoStartBreaks    bool `mapstructure:"auto_start_breaks"`
	AutoStartPomodoros bool `mapstructure:"auto_start_pomodoros"`
}

// Settings converts the section to domain settings.
func (c TimerConfig) Settings() domain.TimerSettings {
	return domain.TimerSettings{
		PomodoroMinutes:    c.PomodoroMinutes,
		ShortBreakMinutes:  c.ShortBreakMinutes,
		LongBreakMinutes:   c.LongBreakMinutes,
		AutoStartBreaks:    c.AutoStartBreaks,
		AutoStartPomodoros: c.AutoStartPomodoros,
	}
}

func timerConfigFrom(s domain.TimerSettings) TimerConfig {
	return TimerConfig{
		PomodoroMinutes:    s.PomodoroMinutes,
		ShortBreakMinutes:  s.ShortBreakMinutes,
		LongBreakMinutes:   s.LongBreakMinutes,
		AutoStartBreaks:    s.AutoStartBreaks,
		AutoStartPomodoros: s.AutoStartPomodoros,
	}
}

// NotificationConfig holds notification settings.
type NotificationConfig struct {
	Enabled bool `mapstructure:"enabled"`
	Sound   bool `mapstructure:"sound"`
}

// CalendarConfig holds month view settings.
type CalendarConfig struct {
	// WeekStart is "sunday" or "monday".
	WeekStart string `mapstructure:"week_start"`
}

// MondayFirst reports whether weeks start on Monday.
func (c CalendarConfig) MondayFirst() bool {
	return strings.EqualFold(c.WeekStart, "monday")
}

// StorageConfig holds storage settings.
type StorageConfig struct {
	DataDir string `mapstructure:"data_dir"`
}

// LoggingConfig holds log settings.
type LoggingConfig struct {
	Level string `mapstructure:"level"`
}

// ThemeConfig holds theme customization settings (colors and icons).
type ThemeConfig struct {
	ColorWork          string `mapstructure:"color_work"`
	ColorBreak         string `mapstructure:"color_break"`
	ColorPaused        string `mapstructure:"color_paused"`
	ColorTitle         string `mapstructure:"color_title"`
	ColorTask          string `mapstructure:"color_task"`
	ColorHelp          string `mapstructure:"color_help"`
	ColorDue           string `mapstructure:"color_due"`
	ColorToday         string `mapstructure:"color_today"`
	WorkGradientStart  string `mapstructure:"work_gradient_start"`
	WorkGradientEnd    string `mapstructure:"work_gradient_end"`
	BreakGradientStart string `mapstructure:"break_gradient_start"`
	BreakGradientEnd   string `mapstructure:"break_gradient_end"`
	IconApp            string `mapstructure:"icon_app"`
	IconTask           string `mapstructure:"icon_task"`
	IconGit            string `mapstructure:"icon_git"`
}

// DefaultThemeConfig returns the default theme configuration.
func DefaultThemeConfig() ThemeConfig {
	return ThemeConfig{
		ColorWork:          "#E0605E",
		ColorBreak:         "#4ECDC4",
		ColorPaused:        "#6B7280",
		ColorTitle:         "#6B7280",
		ColorTask:          "#A0AEC0",
		ColorHelp:          "#95A5A6",
		ColorDue:           "#F6AD55",
		ColorToday:         "#7C6FE0",
		WorkGradientStart:  "#E0605E",
		WorkGradientEnd:    "#F6AD55",
		BreakGradientStart: "#4ECDC4",
		BreakGradientEnd:   "#2ECC71",
		IconApp:            "🍅",
		IconTask:           "📋",
		IconGit:            "🌿",
	}
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		Timer: timerConfigFrom(domain.DefaultTimerSettings()),
		Notifications: NotificationConfig{
			Enabled: true,
			Sound:   true,
		},
		Calendar: CalendarConfig{WeekStart: "sunday"},
		Storage:  StorageConfig{DataDir: "~/" + appDirName},
		Logging:  LoggingConfig{Level: "info"},
		Theme:    DefaultThemeConfig(),
	}
}

// Store reads and writes the TOML config file. It also implements
// ports.SettingsStore for the timer section.
type Store struct {
	v    *viper.Viper
	path string
}

// Ensure Store implements ports.SettingsStore.
var _ ports.SettingsStore = (*Store)(nil)

// Open prepares the config file at path, creating it with defaults when
// missing. An empty path selects ~/.focus/config.toml.
func Open(path string) (*Store, error) {
	if path == "" {
		var err error
		path, err = GetConfigPath()
		if err != nil {
			return nil, fmt.Errorf("failed to get config path: %w", err)
		}
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("failed to create config directory: %w", err)
	}

	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("toml")
	setDefaults(v)

	s := &Store{v: v, path: path}

	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		if err := s.Save(DefaultConfig()); err != nil {
			return nil, fmt.Errorf("failed to create default config: %w", err)
		}
	}

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	return s, nil
}

// Load opens the default config file and returns its contents.
func Load() (*Config, error) {
	s, err := Open("")
	if err != nil {
		return nil, err
	}
	return s.Config()
}

// Path returns the config file location.
func (s *Store) Path() string {
	return s.path
}

// Config returns the current configuration with the data directory
// expanded.
func (s *Store) Config() (*Config, error) {
	var cfg Config
	if err := s.v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	dataDir, err := expandHome(cfg.Storage.DataDir)
	if err != nil {
		return nil, err
	}
	cfg.Storage.DataDir = dataDir

	return &cfg, nil
}

// Save saves the configuration to the config file.
func (s *Store) Save(cfg *Config) error {
	s.setTimer(cfg.Timer)
	s.v.Set("notifications.enabled", cfg.Notifications.Enabled)
	s.v.Set("notifications.sound", cfg.Notifications.Sound)
	s.v.Set("calendar.week_start", cfg.Calendar.WeekStart)
	s.v.Set("storage.data_dir", cfg.Storage.DataDir)
	s.v.Set("logging.level", cfg.Logging.Level)
	s.v.Set("theme.color_work", cfg.Theme.ColorWork)
	s.v.Set("theme.color_break", cfg.Theme.ColorBreak)
	s.v.Set("theme.color_paused", cfg.Theme.ColorPaused)
	s.v.Set("theme.color_title", cfg.Theme.ColorTitle)
	s.v.Set("theme.color_task", cfg.Theme.ColorTask)
	s.v.Set("theme.color_help", cfg.Theme.ColorHelp)
	s.v.Set("theme.color_due", cfg.Theme.ColorDue)
	s.v.Set("theme.color_today", cfg.Theme.ColorToday)
	s.v.Set("theme.work_gradient_start", cfg.Theme.WorkGradientStart)
	s.v.Set("theme.work_gradient_end", cfg.Theme.WorkGradientEnd)
	s.v.Set("theme.break_gradient_start", cfg.Theme.BreakGradientStart)
	s.v.Set("theme.break_gradient_end", cfg.Theme.BreakGradientEnd)
	s.v.Set("theme.icon_app", cfg.Theme.IconApp)
	s.v.Set("theme.icon_task", cfg.Theme.IconTask)
	s.v.Set("theme.icon_git", cfg.Theme.IconGit)

	return s.v.WriteConfig()
}

// LoadTimerSettings implements ports.SettingsStore.
func (s *Store) LoadTimerSettings() (domain.TimerSettings, error) {
	settings := domain.TimerSettings{
		PomodoroMinutes:    s.v.GetInt("timer.pomodoro_minutes"),
		ShortBreakMinutes:  s.v.GetInt("timer.short_break_minutes"),
		LongBreakMinutes:   s.v.GetInt("timer.long_break_minutes"),
		AutoStartBreaks:    s.v.GetBool("timer.auto_start_breaks"),
		AutoStartPomodoros: s.v.GetBool("timer.auto_start_pomodoros"),
	}
	if err := settings.Validate(); err != nil {
		return domain.DefaultTimerSettings(), fmt.Errorf("config %s: %w", s.path, err)
	}
	return settings, nil
}

// SaveTimerSettings implements ports.SettingsStore. Invalid settings are
// rejected without touching the file.
func (s *Store) SaveTimerSettings(settings domain.TimerSettings) error {
	if err := settings.Validate(); err != nil {
		return err
	}
	s.setTimer(timerConfigFrom(settings))
	return s.v.WriteConfig()
}

func (s *Store) setTimer(tc TimerConfig) {
	s.v.Set("timer.pomodoro_minutes", tc.PomodoroMinutes)
	s.v.Set("timer.short_break_minutes", tc.ShortBreakMinutes)
	s.v.Set("timer.long_break_minutes", tc.LongBreakMinutes)
	s.v.Set("timer.auto_start_breaks", tc.AutoStartBreaks)
	s.v.Set("timer.auto_start_pomodoros", tc.AutoStartPomodoros)
}

// GetConfigPath returns the path to the config file.
func GetConfigPath() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}
	return filepath.Join(homeDir, appDirName, configFileName), nil
}

// GetDBPath returns the path to the database file.
func GetDBPath(cfg *Config) string {
	return filepath.Join(cfg.Storage.DataDir, dbFileName)
}

// GetLogPath returns the path to the log file.
func GetLogPath(cfg *Config) string {
	return filepath.Join(cfg.Storage.DataDir, logFileName)
}

func expandHome(dir string) (string, error) {
	if dir != "" && dir != "~" && !strings.HasPrefix(dir, "~/") {
		return dir, nil
	}
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}
	if dir == "" {
		return filepath.Join(homeDir, appDirName), nil
	}
	return filepath.Join(homeDir, strings.TrimPrefix(strings.TrimPrefix(dir, "~"), "/")), nil
}

// setDefaults sets default values for viper.
func setDefaults(v *viper.Viper) {
	defaults := DefaultConfig()

	v.SetDefault("timer.pomodoro_minutes", defaults.Timer.PomodoroMinutes)
	v.SetDefault("timer.short_break_minutes", defaults.Timer.ShortBreakMinutes)
	v.SetDefault("timer.long_break_minutes", defaults.Timer.LongBreakMinutes)
	v.SetDefault("timer.auto_start_breaks", defaults.Timer.AutoStartBreaks)
	v.SetDefault("timer.auto_start_pomodoros", defaults.Timer.AutoStartPomodoros)
	v.SetDefault("notifications.enabled", defaults.Notifications.Enabled)
	v.SetDefault("notifications.sound", defaults.Notifications.Sound)
	v.SetDefault("calendar.week_start", defaults.Calendar.WeekStart)
	v.SetDefault("storage.data_dir", defaults.Storage.DataDir)
	v.SetDefault("logging.level", defaults.Logging.Level)

	// Theme defaults
	theme := defaults.Theme
	v.SetDefault("theme.color_work", theme.ColorWork)
	v.SetDefault("theme.color_break", theme.ColorBreak)
	v.SetDefault("theme.color_paused", theme.ColorPaused)
	v.SetDefault("theme.color_title", theme.ColorTitle)
	v.SetDefault("theme.color_task", theme.ColorTask)
	v.SetDefault("theme.color_help", theme.ColorHelp)
	v.SetDefault("theme.color_due", theme.ColorDue)
	v.SetDefault("theme.color_today", theme.ColorToday)
	v.SetDefault("theme.work_gradient_start", theme.WorkGradientStart)
	v.SetDefault("theme.work_gradient_end", theme.WorkGradientEnd)
	v.SetDefault("theme.break_gradient_start", theme.BreakGradientStart)
	v.SetDefault("theme.break_gradient_end", theme.BreakGradientEnd)
	v.SetDefault("theme.icon_app", theme.IconApp)
	v.SetDefault("theme.icon_task", theme.IconTask)
	v.SetDefault("theme.icon_git", theme.IconGit)
}
