package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	if err != nil {
		t.Fatalf("Load with missing file: %v", err)
	}

	if cfg.Server.HTTP.Address != ":8080" {
		t.Errorf("Default http address: %s", cfg.Server.HTTP.Address)
	}
	if cfg.Server.WebSocket.Path != "/ws" {
		t.Errorf("Default websocket path: %s", cfg.Server.WebSocket.Path)
	}
	if cfg.Logging.Level != "info" || cfg.Logging.Format != "console" {
		t.Errorf("Default logging: %+v", cfg.Logging)
	}
	if cfg.Battle.Level != 50 {
		t.Errorf("Default battle level: %d", cfg.Battle.Level)
	}
	if cfg.Database.URL != "" {
		t.Errorf("Database should default to disabled, got %q", cfg.Database.URL)
	}
}

func TestLoad_File(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	content := []byte(`
server:
  http:
    address: ":9000"
    read_timeout: 30s
logging:
  level: "debug"
  format: "json"
battle:
  level: 100
  seed: 42
`)
	if err := os.WriteFile(path, content, 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}

	if cfg.Server.HTTP.Address != ":9000" {
		t.Errorf("HTTP address: %s", cfg.Server.HTTP.Address)
	}
	if cfg.Server.HTTP.ReadTimeout != 30*time.Second {
		t.Errorf("Read timeout: %s", cfg.Server.HTTP.ReadTimeout)
	}
	if cfg.Logging.Level != "debug" || cfg.Logging.Format != "json" {
		t.Errorf("Logging: %+v", cfg.Logging)
	}
	if cfg.Battle.Level != 100 || cfg.Battle.Seed != 42 {
		t.Errorf("Battle: %+v", cfg.Battle)
	}
	// Untouched sections keep their defaults.
	if cfg.Server.WebSocket.Address != ":8081" {
		t.Errorf("WebSocket default lost: %s", cfg.Server.WebSocket.Address)
	}
}
