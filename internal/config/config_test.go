package config

import (
	"os"
	"path/filepath"
	"testing"
)

// withConfigPath temporarily overrides configPathFunc for a test.
// The dotenv file is pointed at a missing path so a developer's .env
// never leaks into assertions.
func withConfigPath(t *testing.T, path string) {
	t.Helper()
	original := configPathFunc
	originalEnv := envFile
	configPathFunc = func() string { return path }
	envFile = filepath.Join(t.TempDir(), "missing.env")
	t.Cleanup(func() {
		configPathFunc = original
		envFile = originalEnv
	})
}

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	configPath := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(configPath, []byte(content), 0644); err != nil {
		t.Fatalf("Failed to write config file: %v", err)
	}
	return configPath
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.UI.Theme != ThemeModeAuto {
		t.Errorf("UI.Theme = %v, want %v", cfg.UI.Theme, ThemeModeAuto)
	}
	if cfg.UI.DefaultView != "conferences" {
		t.Errorf("UI.DefaultView = %q, want conferences", cfg.UI.DefaultView)
	}

	if cfg.Pagination.PageSize != 10 {
		t.Errorf("Pagination.PageSize = %d, want 10", cfg.Pagination.PageSize)
	}
	if cfg.Pagination.UserPageSize != 20 {
		t.Errorf("Pagination.UserPageSize = %d, want 20", cfg.Pagination.UserPageSize)
	}

	if !cfg.Confirmations.Delete {
		t.Error("Confirmations.Delete = false, want true")
	}
	if cfg.Notifications.ReorderFailure {
		t.Error("Notifications.ReorderFailure = true, want false")
	}

	if cfg.API.Timeout().Seconds() != 30 {
		t.Errorf("API.Timeout() = %v, want 30s", cfg.API.Timeout())
	}
}

func TestLoad_NoConfigFile(t *testing.T) {
	tmpDir := t.TempDir()
	withConfigPath(t, filepath.Join(tmpDir, "nonexistent", "config.toml"))

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	defaultCfg := DefaultConfig()
	if cfg.UI.Theme != defaultCfg.UI.Theme {
		t.Errorf("UI.Theme = %v, want %v", cfg.UI.Theme, defaultCfg.UI.Theme)
	}
	if cfg.Pagination.PageSize != defaultCfg.Pagination.PageSize {
		t.Errorf("Pagination.PageSize = %d, want %d",
			cfg.Pagination.PageSize, defaultCfg.Pagination.PageSize)
	}
}

func TestLoad_WithConfigFile(t *testing.T) {
	configPath := writeConfig(t, `
[api]
base_url = "https://admin.example.org/api"
token = "abc"
timeout_secs = 5
requests_per_second = 2.5

[ui]
theme = "dark"
default_view = "topics"

[pagination]
page_size = 25
user_page_size = 50

[log]
level = "debug"

[export]
dir = "/tmp/exports"
`)
	withConfigPath(t, configPath)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.API.BaseURL != "https://admin.example.org/api" {
		t.Errorf("API.BaseURL = %q", cfg.API.BaseURL)
	}
	if cfg.API.Token != "abc" {
		t.Errorf("API.Token = %q, want abc", cfg.API.Token)
	}
	if cfg.API.TimeoutSecs != 5 {
		t.Errorf("API.TimeoutSecs = %d, want 5", cfg.API.TimeoutSecs)
	}
	if cfg.API.RequestsPerSecond != 2.5 {
		t.Errorf("API.RequestsPerSecond = %v, want 2.5", cfg.API.RequestsPerSecond)
	}
	if cfg.UI.Theme != ThemeModeDark {
		t.Errorf("UI.Theme = %v, want %v", cfg.UI.Theme, ThemeModeDark)
	}
	if cfg.UI.DefaultView != "topics" {
		t.Errorf("UI.DefaultView = %q, want topics", cfg.UI.DefaultView)
	}
	if cfg.Pagination.PageSize != 25 || cfg.Pagination.UserPageSize != 50 {
		t.Errorf("Pagination = %+v, want 25/50", cfg.Pagination)
	}
	if cfg.Log.Level != "debug" {
		t.Errorf("Log.Level = %q, want debug", cfg.Log.Level)
	}
	if cfg.Export.Dir != "/tmp/exports" {
		t.Errorf("Export.Dir = %q", cfg.Export.Dir)
	}
}

func TestThemeMode_Values(t *testing.T) {
	if ThemeModeAuto != "auto" {
		t.Errorf("ThemeModeAuto = %q, want 'auto'", ThemeModeAuto)
	}
	if ThemeModeLight != "light" {
		t.Errorf("ThemeModeLight = %q, want 'light'", ThemeModeLight)
	}
	if ThemeModeDark != "dark" {
		t.Errorf("ThemeModeDark = %q, want 'dark'", ThemeModeDark)
	}
}

func TestLoad_PartialOverride(t *testing.T) {
	configPath := writeConfig(t, `
[ui]
theme = "light"
`)
	withConfigPath(t, configPath)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.UI.Theme != ThemeModeLight {
		t.Errorf("UI.Theme = %v, want %v", cfg.UI.Theme, ThemeModeLight)
	}

	// Other values should remain defaults
	if cfg.UI.DefaultView != "conferences" {
		t.Errorf("UI.DefaultView = %q, want default conferences", cfg.UI.DefaultView)
	}
	if cfg.Pagination.UserPageSize != 20 {
		t.Errorf("Pagination.UserPageSize = %d, want default 20", cfg.Pagination.UserPageSize)
	}
	if !cfg.Confirmations.Delete {
		t.Error("Confirmations.Delete should remain default true")
	}
}

func TestLoad_InvalidTOML(t *testing.T) {
	configPath := writeConfig(t, `invalid toml [[[`)
	withConfigPath(t, configPath)

	_, err := Load()
	if err == nil {
		t.Error("Load() should return error for invalid TOML")
	}
}

func TestLoad_EmptyPath(t *testing.T) {
	withConfigPath(t, "")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	defaultCfg := DefaultConfig()
	if cfg.UI.Theme != defaultCfg.UI.Theme {
		t.Errorf("UI.Theme = %v, want %v", cfg.UI.Theme, defaultCfg.UI.Theme)
	}
}

func TestLoad_ConfirmationsAndNotifications(t *testing.T) {
	configPath := writeConfig(t, `
[confirmations]
delete = false

[notifications]
reorder_failure = true
`)
	withConfigPath(t, configPath)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Confirmations.Delete {
		t.Errorf("Confirmations.Delete = %v, want false", cfg.Confirmations.Delete)
	}
	if !cfg.Notifications.ReorderFailure {
		t.Errorf("Notifications.ReorderFailure = %v, want true", cfg.Notifications.ReorderFailure)
	}
}

func TestLoad_EnvironmentOverrides(t *testing.T) {
	configPath := writeConfig(t, `
[api]
base_url = "https://file.example.org"
token = "from-file"
`)
	withConfigPath(t, configPath)
	t.Setenv("PUBADMIN_API_URL", "https://env.example.org")
	t.Setenv("PUBADMIN_API_TOKEN", "from-env")
	t.Setenv("PUBADMIN_LOG_LEVEL", "warn")
	t.Setenv("PUBADMIN_PAGE_SIZE", "15")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.API.BaseURL != "https://env.example.org" {
		t.Errorf("API.BaseURL = %q, want env value", cfg.API.BaseURL)
	}
	if cfg.API.Token != "from-env" {
		t.Errorf("API.Token = %q, want from-env", cfg.API.Token)
	}
	if cfg.Log.Level != "warn" {
		t.Errorf("Log.Level = %q, want warn", cfg.Log.Level)
	}
	if cfg.Pagination.PageSize != 15 {
		t.Errorf("Pagination.PageSize = %d, want 15", cfg.Pagination.PageSize)
	}
}

func TestLoad_InvalidPageSizeEnv(t *testing.T) {
	withConfigPath(t, "")
	t.Setenv("PUBADMIN_PAGE_SIZE", "zero")

	if _, err := Load(); err == nil {
		t.Error("Load() should reject a non-numeric PUBADMIN_PAGE_SIZE")
	}
}

func TestLoad_DotEnvFile(t *testing.T) {
	withConfigPath(t, "")

	// Clear any ambient value so the dotenv file is the only source.
	t.Setenv("PUBADMIN_API_TOKEN", "")
	os.Unsetenv("PUBADMIN_API_TOKEN")
	t.Cleanup(func() { os.Unsetenv("PUBADMIN_API_TOKEN") })

	dotenv := filepath.Join(t.TempDir(), ".env")
	if err := os.WriteFile(dotenv, []byte("PUBADMIN_API_TOKEN=dotenv-token\n"), 0644); err != nil {
		t.Fatalf("Failed to write .env: %v", err)
	}
	envFile = dotenv

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.API.Token != "dotenv-token" {
		t.Errorf("API.Token = %q, want dotenv-token", cfg.API.Token)
	}
}
