package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

const minimalEnvYAML = `
server:
  port: "8080"
weather_api:
  url: "https://api.example.com"
  timeout: "2s"
request:
  timeout: "5s"
database:
  path: "test.db"
cache:
  ttl: "5m"
reliability:
  retry_max_attempts: 3
  retry_base_delay: "100ms"
  retry_max_delay: "2s"
  rate_limit_rps: 5
  rate_limit_burst: 10
shutdown:
  timeout: "10s"
`

func writeEnvFile(t *testing.T, dir, content string) {
	t.Helper()
	configDir := filepath.Join(dir, "config")
	if err := os.MkdirAll(configDir, 0755); err != nil {
		t.Fatalf("mkdir config: %v", err)
	}
	if err := os.WriteFile(filepath.Join(configDir, "dev.yaml"), []byte(content), 0644); err != nil {
		t.Fatalf("write config file: %v", err)
	}
}

func chdirTemp(t *testing.T, yaml string) {
	t.Helper()
	origWd, err := os.Getwd()
	if err != nil {
		t.Fatalf("Getwd: %v", err)
	}
	dir := t.TempDir()
	writeEnvFile(t, dir, yaml)
	if err := os.Chdir(dir); err != nil {
		t.Fatalf("Chdir: %v", err)
	}
	t.Cleanup(func() { _ = os.Chdir(origWd) })
}

func TestLoad_SucceedsWithoutAPIKey(t *testing.T) {
	savedKey := os.Getenv("WEATHER_API_KEY")
	os.Unsetenv("WEATHER_API_KEY")
	defer func() {
		if savedKey != "" {
			os.Setenv("WEATHER_API_KEY", savedKey)
		}
	}()

	chdirTemp(t, minimalEnvYAML)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.WeatherAPIKey != "" {
		t.Errorf("WeatherAPIKey = %q, want empty (live fetching disabled)", cfg.WeatherAPIKey)
	}
	if cfg.DatabasePath != "test.db" {
		t.Errorf("DatabasePath = %q, want test.db", cfg.DatabasePath)
	}
}

func TestLoad_APIKeyFromEnv(t *testing.T) {
	savedKey := os.Getenv("WEATHER_API_KEY")
	os.Setenv("WEATHER_API_KEY", "test-key-1234567890")
	defer func() {
		os.Unsetenv("WEATHER_API_KEY")
		if savedKey != "" {
			os.Setenv("WEATHER_API_KEY", savedKey)
		}
	}()

	chdirTemp(t, minimalEnvYAML)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.WeatherAPIKey != "test-key-1234567890" {
		t.Errorf("WeatherAPIKey = %q, want test key", cfg.WeatherAPIKey)
	}
}

func TestLoad_EnvFileNotFound(t *testing.T) {
	savedEnv := os.Getenv("ENV_NAME")
	os.Setenv("ENV_NAME", "nonexistent")
	defer os.Setenv("ENV_NAME", savedEnv)

	origWd, _ := os.Getwd()
	dir := t.TempDir()
	os.Chdir(dir)
	defer os.Chdir(origWd)

	cfg, err := Load()
	if err == nil {
		t.Fatal("Load() expected error for missing env file, got nil")
	}
	if cfg != nil {
		t.Fatalf("Load() expected nil config on error, got %+v", cfg)
	}
	if !strings.Contains(err.Error(), "not found") && !strings.Contains(err.Error(), "config file") {
		t.Errorf("Load() error = %v, want message about config file not found", err)
	}
}

func TestLoad_InvalidConfigYAML(t *testing.T) {
	chdirTemp(t, "not: valid: yaml: [[[")

	cfg, err := Load()
	if err == nil {
		t.Fatal("Load() expected error for invalid config YAML, got nil")
	}
	if cfg != nil {
		t.Fatalf("Load() expected nil config on error, got %+v", cfg)
	}
	if !strings.Contains(err.Error(), "parse") {
		t.Errorf("Load() error = %v, want parse error", err)
	}
}

func TestLoad_AnalysisDefaults(t *testing.T) {
	chdirTemp(t, minimalEnvYAML)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.LookbackDays != 90 {
		t.Errorf("LookbackDays = %d, want 90", cfg.LookbackDays)
	}
	if cfg.MovingAverageWindow != 7 {
		t.Errorf("MovingAverageWindow = %d, want 7", cfg.MovingAverageWindow)
	}
	if cfg.DroughtIndex != 1.0 {
		t.Errorf("DroughtIndex = %v, want 1.0", cfg.DroughtIndex)
	}
}

func TestLoad_AnalysisOverrides(t *testing.T) {
	analysisYAML := minimalEnvYAML + `
analysis:
  lookback_days: 30
  moving_average_window: 5
  drought_index: 1.5
`
	chdirTemp(t, analysisYAML)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.LookbackDays != 30 {
		t.Errorf("LookbackDays = %d, want 30", cfg.LookbackDays)
	}
	if cfg.MovingAverageWindow != 5 {
		t.Errorf("MovingAverageWindow = %d, want 5", cfg.MovingAverageWindow)
	}
	if cfg.DroughtIndex != 1.5 {
		t.Errorf("DroughtIndex = %v, want 1.5", cfg.DroughtIndex)
	}
}

func TestLoad_BreakerDefaults(t *testing.T) {
	chdirTemp(t, minimalEnvYAML)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.BreakerFailureThreshold != 5 {
		t.Errorf("BreakerFailureThreshold = %d, want 5", cfg.BreakerFailureThreshold)
	}
	if cfg.BreakerSuccessThreshold != 2 {
		t.Errorf("BreakerSuccessThreshold = %d, want 2", cfg.BreakerSuccessThreshold)
	}
	if cfg.BreakerTimeout != 30*time.Second {
		t.Errorf("BreakerTimeout = %v, want 30s", cfg.BreakerTimeout)
	}
}

func TestLoad_EmptyDurationFallsBackToDefault(t *testing.T) {
	emptyDurationYAML := strings.Replace(minimalEnvYAML, `timeout: "2s"`, `timeout: ""`, 1)
	chdirTemp(t, emptyDurationYAML)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.WeatherAPITimeout != 2*time.Second {
		t.Errorf("WeatherAPITimeout = %v, want 2s default", cfg.WeatherAPITimeout)
	}
}

func TestLoad_InvalidDurationFallsBackToDefault(t *testing.T) {
	invalidDurationYAML := strings.Replace(minimalEnvYAML, `ttl: "5m"`, `ttl: "invalid"`, 1)
	chdirTemp(t, invalidDurationYAML)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.CacheTTL <= 0 {
		t.Error("Load() with invalid duration should fall back to default CacheTTL")
	}
}

func TestLoad_ValidationFailsWhenWeatherAPITimeoutZero(t *testing.T) {
	zeroTimeoutYAML := strings.Replace(minimalEnvYAML, `timeout: "2s"`, `timeout: "0s"`, 1)
	chdirTemp(t, zeroTimeoutYAML)

	cfg, err := Load()
	if err == nil {
		t.Fatal("Load() expected error when weather API timeout is zero, got nil")
	}
	if cfg != nil {
		t.Fatalf("Load() expected nil config on error, got %+v", cfg)
	}
}

func TestLoad_InvalidCacheBackend(t *testing.T) {
	backendYAML := minimalEnvYAML + `
`
	backendYAML = strings.Replace(backendYAML, `ttl: "5m"`, "ttl: \"5m\"\n  backend: \"redis\"", 1)
	chdirTemp(t, backendYAML)

	cfg, err := Load()
	if err == nil {
		t.Fatal("Load() expected error for unsupported cache backend, got nil")
	}
	if cfg != nil {
		t.Fatalf("Load() expected nil config on error, got %+v", cfg)
	}
	if !strings.Contains(err.Error(), "cache.backend") {
		t.Errorf("Load() error = %v, want message about cache.backend", err)
	}
}

func TestLoad_RequestTimeoutWidenedPastAPITimeout(t *testing.T) {
	squeezedYAML := strings.Replace(minimalEnvYAML, `timeout: "5s"`, `timeout: "1s"`, 1)
	chdirTemp(t, squeezedYAML)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.RequestTimeout <= cfg.WeatherAPITimeout {
		t.Errorf("RequestTimeout = %v, want > WeatherAPITimeout %v", cfg.RequestTimeout, cfg.WeatherAPITimeout)
	}
}
