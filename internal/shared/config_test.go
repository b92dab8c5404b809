package shared

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestLoadConfig(t *testing.T) {
	t.Run("parses endpoint tables", func(t *testing.T) {
		dir := t.TempDir()
		path := filepath.Join(dir, "vaultx.toml")

		content := `
[source]
type = "sqlite"
path = "/data/old.db"

[target]
type = "mongodb"
uri = "mongodb://localhost:27017"
database = "vault"

[migrate]
throttle = 25.0
`
		if err := os.WriteFile(path, []byte(content), 0644); err != nil {
			t.Fatalf("failed to write config: %v", err)
		}

		config, err := LoadConfig(path)
		if err != nil {
			t.Fatalf("failed to load config: %v", err)
		}

		if config.Source.Type != "sqlite" || config.Source.Path != "/data/old.db" {
			t.Errorf("unexpected source endpoint: %+v", config.Source)
		}
		if config.Target.Type != "mongodb" || config.Target.Database != "vault" {
			t.Errorf("unexpected target endpoint: %+v", config.Target)
		}
		if config.Migrate.Throttle != 25.0 {
			t.Errorf("expected throttle 25.0, got %v", config.Migrate.Throttle)
		}
	})

	t.Run("missing file", func(t *testing.T) {
		if _, err := LoadConfig(filepath.Join(t.TempDir(), "absent.toml")); err == nil {
			t.Error("expected error for missing config file")
		}
	})

	t.Run("malformed file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "vaultx.toml")
		if err := os.WriteFile(path, []byte("[source\ntype ="), 0644); err != nil {
			t.Fatalf("failed to write config: %v", err)
		}

		_, err := LoadConfig(path)
		if !errors.Is(err, ErrInvalidConfig) {
			t.Errorf("expected ErrInvalidConfig, got %v", err)
		}
	})
}

func TestDefaultConfig(t *testing.T) {
	config := DefaultConfig()
	if config.Source.Type == "" || config.Target.Type == "" {
		t.Errorf("embedded defaults should name both endpoint types: %+v", config)
	}
}

func TestCreateConfigFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "vaultx.toml")

	if err := CreateConfigFile(path); err != nil {
		t.Fatalf("failed to create config file: %v", err)
	}
	if _, err := os.Stat(path); err != nil {
		t.Fatalf("config file was not written: %v", err)
	}

	if err := CreateConfigFile(path); err == nil {
		t.Error("expected error when config file already exists")
	}
}
