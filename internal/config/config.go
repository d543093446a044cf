// Package config provides configuration management for pubadmin.
package config

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"github.com/pelletier/go-toml/v2"
)

// ThemeMode represents the theme selection mode.
type ThemeMode string

const (
	ThemeModeAuto  ThemeMode = "auto"
	ThemeModeLight ThemeMode = "light"
	ThemeModeDark  ThemeMode = "dark"
)

// APIConfig contains backend connection settings.
type APIConfig struct {
	BaseURL           string  `toml:"base_url"`
	Token             string  `toml:"token"`
	TimeoutSecs       int64   `toml:"timeout_secs"`
	RequestsPerSecond float64 `toml:"requests_per_second"`
}

// Timeout returns the request timeout as a duration.
func (c APIConfig) Timeout() time.Duration {
	return time.Duration(c.TimeoutSecs) * time.Second
}

// UIConfig contains UI-related settings.
type UIConfig struct {
	Theme       ThemeMode `toml:"theme"`
	DefaultView string    `toml:"default_view"`
}

// PaginationConfig contains list page sizes.
type PaginationConfig struct {
	PageSize     int `toml:"page_size"`
	UserPageSize int `toml:"user_page_size"`
}

// ConfirmationConfig controls which destructive actions ask first.
type ConfirmationConfig struct {
	Delete bool `toml:"delete"`
}

// NotificationConfig controls optional status-bar notifications.
type NotificationConfig struct {
	ReorderFailure bool `toml:"reorder_failure"`
}

// LogConfig contains log file settings.
type LogConfig struct {
	File       string `toml:"file"`
	Level      string `toml:"level"`
	MaxSizeMB  int    `toml:"max_size_mb"`
	MaxBackups int    `toml:"max_backups"`
}

// ExportConfig contains CSV export settings.
type ExportConfig struct {
	Dir string `toml:"dir"`
}

// Config represents the application configuration.
type Config struct {
	API           APIConfig          `toml:"api"`
	UI            UIConfig           `toml:"ui"`
	Pagination    PaginationConfig   `toml:"pagination"`
	Confirmations ConfirmationConfig `toml:"confirmations"`
	Notifications NotificationConfig `toml:"notifications"`
	Log           LogConfig          `toml:"log"`
	Export        ExportConfig       `toml:"export"`
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		API: APIConfig{
			BaseURL:           "http://localhost:3000/api",
			TimeoutSecs:       30,
			RequestsPerSecond: 10,
		},
		UI: UIConfig{
			Theme:       ThemeModeAuto,
			DefaultView: "conferences",
		},
		Pagination: PaginationConfig{
			PageSize:     10,
			UserPageSize: 20,
		},
		Confirmations: ConfirmationConfig{
			Delete: true,
		},
		Notifications: NotificationConfig{
			ReorderFailure: false,
		},
		Log: LogConfig{
			File:       defaultLogPath(),
			Level:      "info",
			MaxSizeMB:  5,
			MaxBackups: 3,
		},
		Export: ExportConfig{
			Dir: ".",
		},
	}
}

// configPathFunc is the function used to determine the config file path.
// It can be overridden in tests to control the config location.
var configPathFunc = defaultConfigPath

// envFile is the dotenv file loaded before environment overrides apply.
var envFile = ".env"

// Load loads the configuration from the standard config file location,
// then applies environment overrides. Returns the default config if no
// config file exists.
func Load() (*Config, error) {
	cfg, err := loadFile(configPathFunc())
	if err != nil {
		return nil, err
	}
	if err := applyEnv(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func loadFile(path string) (*Config, error) {
	if path == "" {
		return DefaultConfig(), nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return DefaultConfig(), nil
		}
		return nil, err
	}

	config := DefaultConfig()
	if err := toml.Unmarshal(data, config); err != nil {
		return nil, err
	}

	return config, nil
}

// applyEnv loads the dotenv file, if any, and overlays PUBADMIN_* variables.
// Variables already set in the process environment win over the file.
func applyEnv(cfg *Config) error {
	if err := godotenv.Load(envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return err
	}

	if v := os.Getenv("PUBADMIN_API_URL"); v != "" {
		cfg.API.BaseURL = v
	}
	if v := os.Getenv("PUBADMIN_API_TOKEN"); v != "" {
		cfg.API.Token = v
	}
	if v := os.Getenv("PUBADMIN_LOG_LEVEL"); v != "" {
		cfg.Log.Level = v
	}
	if v := os.Getenv("PUBADMIN_PAGE_SIZE"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			return errors.New("PUBADMIN_PAGE_SIZE must be a positive integer")
		}
		cfg.Pagination.PageSize = n
	}
	return nil
}

// defaultConfigPath returns the standard config file path for the current platform.
func defaultConfigPath() string {
	configDir, err := os.UserConfigDir()
	if err != nil {
		return ""
	}
	return filepath.Join(configDir, "pubadmin", "config.toml")
}

func defaultLogPath() string {
	cacheDir, err := os.UserCacheDir()
	if err != nil {
		return ""
	}
	return filepath.Join(cacheDir, "pubadmin", "pubadmin.log")
}
