package config

import (
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	API     APIConfig
	Polling PollingConfig
	Upload  UploadConfig
	Auth    AuthConfig
}

type APIConfig struct {
	BaseURL string
	Timeout int // seconds
}

type PollingConfig struct {
	Preset        string
	BudgetMinutes int
}

type UploadConfig struct {
	MaxSizeMB int64
}

type AuthConfig struct {
	TokenFile string
}

// Polling interval presets. Media processing runs for minutes, so even the
// fast tier stays well clear of hammering the status endpoint.
var PollingPresets = map[string]time.Duration{
	"fast":      10 * time.Second,
	"normal":    30 * time.Second,
	"slow":      60 * time.Second,
	"very_slow": 120 * time.Second,
}

// Interval resolves the configured preset to a duration, falling back to
// the normal tier for unknown preset names.
func (c PollingConfig) Interval() time.Duration {
	if d, ok := PollingPresets[c.Preset]; ok {
		return d
	}
	return PollingPresets["normal"]
}

// Budget is the overall wall-clock ceiling for one polling run.
func (c PollingConfig) Budget() time.Duration {
	return time.Duration(c.BudgetMinutes) * time.Minute
}

// MaxBytes is the upload size ceiling enforced before the pipeline runs.
func (c UploadConfig) MaxBytes() int64 {
	return c.MaxSizeMB * 1024 * 1024
}

func Load() (*Config, error) {
	v := viper.New()

	v.SetConfigName("podedit")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	if home, err := os.UserHomeDir(); err == nil {
		v.AddConfigPath(filepath.Join(home, ".podcasteditor"))
	}

	// Environment variables
	v.AutomaticEnv()

	_ = v.BindEnv("api.base_url", "PODEDIT_API_BASE_URL")
	_ = v.BindEnv("api.timeout", "PODEDIT_API_TIMEOUT")
	_ = v.BindEnv("polling.preset", "PODEDIT_POLLING_PRESET")
	_ = v.BindEnv("polling.budget_minutes", "PODEDIT_POLLING_BUDGET_MINUTES")
	_ = v.BindEnv("upload.max_size_mb", "PODEDIT_UPLOAD_MAX_SIZE_MB")
	_ = v.BindEnv("auth.token_file", "PODEDIT_TOKEN_FILE")

	// Defaults
	v.SetDefault("api.base_url", "http://localhost:8000")
	v.SetDefault("api.timeout", 120)
	v.SetDefault("polling.preset", "normal")
	v.SetDefault("polling.budget_minutes", 60)
	v.SetDefault("upload.max_size_mb", 500)
	v.SetDefault("auth.token_file", defaultTokenFile())

	// Try to read config file (optional)
	_ = v.ReadInConfig()

	cfg := &Config{
		API: APIConfig{
			BaseURL: v.GetString("api.base_url"),
			Timeout: v.GetInt("api.timeout"),
		},
		Polling: PollingConfig{
			Preset:        v.GetString("polling.preset"),
			BudgetMinutes: v.GetInt("polling.budget_minutes"),
		},
		Upload: UploadConfig{
			MaxSizeMB: v.GetInt64("upload.max_size_mb"),
		},
		Auth: AuthConfig{
			TokenFile: v.GetString("auth.token_file"),
		},
	}

	return cfg, nil
}

func defaultTokenFile() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".podcasteditor-token"
	}
	return filepath.Join(home, ".podcasteditor", "token")
}
