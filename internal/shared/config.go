package shared

import (
	_ "embed"
	"fmt"
	"os"
	"time"

	"github.com/BurntSushi/toml"
)

//go:embed config.example.toml
var exampleConf []byte

// Config represents the application configuration loaded from a TOML file.
type Config struct {
	API      APIConfig      `toml:"api"`
	Media    MediaConfig    `toml:"media"`
	Database DatabaseConfig `toml:"database"`
	Reader   ReaderConfig   `toml:"reader"`
}

// APIConfig contains platform API settings.
//
// Environment selects which base URL authorized calls target; it mirrors the
// dev/prod build switch of the web client.
type APIConfig struct {
	Environment    string `toml:"environment"`
	DevBaseURL     string `toml:"dev_base_url"`
	ProdBaseURL    string `toml:"prod_base_url"`
	StatusKey      string `toml:"status_key"`
	TimeoutSeconds int    `toml:"timeout_seconds"`
	PageSize       int    `toml:"page_size"`
	RatePerSecond  int    `toml:"rate_per_second"`
}

// BaseURL returns the API base URL for the configured environment.
func (c APIConfig) BaseURL() string {
	if c.Environment == "production" {
		return c.ProdBaseURL
	}
	return c.DevBaseURL
}

// Timeout returns the request timeout as a [time.Duration].
func (c APIConfig) Timeout() time.Duration {
	if c.TimeoutSeconds <= 0 {
		return 30 * time.Second
	}
	return time.Duration(c.TimeoutSeconds) * time.Second
}

// MediaConfig contains settings for the external image-hosting provider.
type MediaConfig struct {
	UploadURL    string `toml:"upload_url"`
	UploadPreset string `toml:"upload_preset"`
	Folder       string `toml:"folder"`
}

// DatabaseConfig contains database connection settings.
type DatabaseConfig struct {
	Path         string `toml:"path"`
	MaxOpenConns int    `toml:"max_open_conns"`
	MaxIdleConns int    `toml:"max_idle_conns"`
}

// ReaderConfig contains default reader presentation settings.
type ReaderConfig struct {
	FontSize int    `toml:"font_size"`
	Theme    string `toml:"theme"`
}

// LoadConfig reads and parses a TOML configuration file from the specified path.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var config Config
	if err := toml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	return &config, nil
}

// DefaultConfig returns a Config with sensible defaults loaded from the embedded example config.
func DefaultConfig() *Config {
	var config Config
	if err := toml.Unmarshal(exampleConf, &config); err != nil {
		panic(fmt.Sprintf("failed to parse embedded default config: %v", err))
	}
	return &config
}

// CreateConfigFile creates a config.toml file at the specified path using the embedded example config.
func CreateConfigFile(path string) error {
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("config file already exists at %s", path)
	}

	if err := os.WriteFile(path, exampleConf, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}
