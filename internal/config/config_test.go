package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadMissingFileReturnsDefaults(t *testing.T) {
	t.Setenv(EnvServerURL, "")

	cfg, err := Load(filepath.Join(t.TempDir(), "config.json"))
	if err != nil {
		t.Fatalf("load missing file: %v", err)
	}
	if cfg.Connection.ServerURL != DefaultServerURL {
		t.Fatalf("expected default server url %q, got %q", DefaultServerURL, cfg.Connection.ServerURL)
	}
	if cfg.Logging.Level != "info" {
		t.Fatalf("expected default log level info, got %q", cfg.Logging.Level)
	}
	if !cfg.UI.Notifications.Events.NumberDetected {
		t.Fatalf("expected number detection notifications on by default")
	}
}

func TestLoadFillsMissingFields(t *testing.T) {
	t.Setenv(EnvServerURL, "")

	path := filepath.Join(t.TempDir(), "config.json")
	if err := os.WriteFile(path, []byte(`{"logging":{"log_to_file":true}}`), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Connection.ServerURL != DefaultServerURL {
		t.Fatalf("expected missing server url filled with default, got %q", cfg.Connection.ServerURL)
	}
	if cfg.Logging.Level != "info" {
		t.Fatalf("expected missing level filled with info, got %q", cfg.Logging.Level)
	}
	if !cfg.Logging.LogToFile {
		t.Fatalf("expected log_to_file kept from file")
	}
}

func TestLoadEnvOverrideWinsOverFile(t *testing.T) {
	t.Setenv(EnvServerURL, "ws://feed.example.net:9001")

	path := filepath.Join(t.TempDir(), "config.json")
	raw := `{"connection":{"server_url":"ws://configured:8000"}}`
	if err := os.WriteFile(path, []byte(raw), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Connection.ServerURL != "ws://feed.example.net:9001" {
		t.Fatalf("expected env endpoint to win, got %q", cfg.Connection.ServerURL)
	}
}

func TestLoadMalformedJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	if err := os.WriteFile(path, []byte("{not json"), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}

	if _, err := Load(path); err == nil {
		t.Fatalf("expected error for malformed config")
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		url     string
		wantErr bool
	}{
		{name: "ws url", url: "ws://localhost:8000", wantErr: false},
		{name: "wss url", url: "wss://feed.example.net", wantErr: false},
		{name: "empty", url: "", wantErr: true},
		{name: "http scheme", url: "http://localhost:8000", wantErr: true},
		{name: "missing host", url: "ws://", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			cfg.Connection.ServerURL = tt.url
			err := cfg.Validate()
			if tt.wantErr && err == nil {
				t.Fatalf("expected validation error for %q", tt.url)
			}
			if !tt.wantErr && err != nil {
				t.Fatalf("unexpected validation error for %q: %v", tt.url, err)
			}
		})
	}
}

func TestSaveLoadRoundtrip(t *testing.T) {
	t.Setenv(EnvServerURL, "")

	path := filepath.Join(t.TempDir(), "nested", "config.json")
	cfg := Default()
	cfg.Connection.ServerURL = "wss://feed.example.net:8443"
	cfg.Logging.Level = "debug"
	cfg.UI.Notifications.NotifyWhenFocused = true

	if err := Save(path, cfg); err != nil {
		t.Fatalf("save: %v", err)
	}
	if _, err := os.Stat(path + ".tmp"); !os.IsNotExist(err) {
		t.Fatalf("expected temp file removed after save")
	}

	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if loaded != cfg {
		t.Fatalf("roundtrip mismatch:\n save: %+v\n load: %+v", cfg, loaded)
	}
}

func TestSaveRejectsInvalidConfig(t *testing.T) {
	cfg := Default()
	cfg.Connection.ServerURL = "http://nope"

	if err := Save(filepath.Join(t.TempDir(), "config.json"), cfg); err == nil {
		t.Fatalf("expected save to reject invalid server url")
	}
}
