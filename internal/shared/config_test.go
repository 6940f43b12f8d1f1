package shared

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestDefaultConfig(t *testing.T) {
	config := DefaultConfig()

	if config.API.Environment != "development" {
		t.Errorf("unexpected environment: %s", config.API.Environment)
	}
	if config.API.PageSize != 10 || config.API.RatePerSecond != 5 {
		t.Errorf("unexpected API defaults: %+v", config.API)
	}
	if config.Database.Path != "novtok.db" {
		t.Errorf("unexpected database path: %s", config.Database.Path)
	}
	if config.Reader.FontSize != 16 || config.Reader.Theme != "light" {
		t.Errorf("unexpected reader defaults: %+v", config.Reader)
	}
}

func TestAPIConfig(t *testing.T) {
	t.Run("BaseURL follows the environment", func(t *testing.T) {
		config := APIConfig{
			Environment: "development",
			DevBaseURL:  "http://localhost:5000",
			ProdBaseURL: "https://api.novtok.app",
		}

		if got := config.BaseURL(); got != "http://localhost:5000" {
			t.Errorf("unexpected dev url: %s", got)
		}

		config.Environment = "production"
		if got := config.BaseURL(); got != "https://api.novtok.app" {
			t.Errorf("unexpected prod url: %s", got)
		}
	})

	t.Run("Timeout falls back to 30 seconds", func(t *testing.T) {
		if got := (APIConfig{TimeoutSeconds: 0}).Timeout(); got != 30*time.Second {
			t.Errorf("unexpected zero timeout: %v", got)
		}
		if got := (APIConfig{TimeoutSeconds: -1}).Timeout(); got != 30*time.Second {
			t.Errorf("unexpected negative timeout: %v", got)
		}
		if got := (APIConfig{TimeoutSeconds: 5}).Timeout(); got != 5*time.Second {
			t.Errorf("unexpected timeout: %v", got)
		}
	})
}

func TestLoadConfig(t *testing.T) {
	t.Run("parses a valid file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "config.toml")
		content := `
[api]
environment = "production"
prod_base_url = "https://api.example.com"
page_size = 25

[database]
path = "custom.db"
`
		if err := os.WriteFile(path, []byte(content), 0644); err != nil {
			t.Fatalf("failed to write config: %v", err)
		}

		config, err := LoadConfig(path)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if config.API.BaseURL() != "https://api.example.com" {
			t.Errorf("unexpected base url: %s", config.API.BaseURL())
		}
		if config.API.PageSize != 25 || config.Database.Path != "custom.db" {
			t.Errorf("unexpected config: %+v", config)
		}
	})

	t.Run("missing file errors", func(t *testing.T) {
		if _, err := LoadConfig(filepath.Join(t.TempDir(), "missing.toml")); err == nil {
			t.Error("expected an error")
		}
	})

	t.Run("malformed toml errors", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "bad.toml")
		if err := os.WriteFile(path, []byte("not [valid"), 0644); err != nil {
			t.Fatalf("failed to write config: %v", err)
		}
		if _, err := LoadConfig(path); err == nil {
			t.Error("expected an error")
		}
	})
}

func TestCreateConfigFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")

	if err := CreateConfigFile(path); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	config, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("expected a loadable config: %v", err)
	}
	if config.API.StatusKey == "" {
		t.Error("expected the example status key")
	}

	if err := CreateConfigFile(path); err == nil {
		t.Error("expected an error when the file exists")
	}
}
