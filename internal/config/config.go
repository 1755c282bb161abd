package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"
)

const (
	DefaultServerURL = "ws://localhost:8000"

	// EnvServerURL overrides the configured feed endpoint at deploy time.
	EnvServerURL = "NUMWATCH_SERVER_URL"
)

// LoggingConfig defines runtime logging behavior.
type LoggingConfig struct {
	Level     string `json:"level"`
	LogToFile bool   `json:"log_to_file"`
}

// ConnectionConfig selects which detection server to subscribe to.
type ConnectionConfig struct {
	ServerURL string `json:"server_url"`
}

// NotificationEventsConfig stores per-event notification toggles.
type NotificationEventsConfig struct {
	NumberDetected   bool `json:"number_detected"`
	ConnectionStatus bool `json:"connection_status"`
}

// NotificationConfig stores desktop notification preferences.
type NotificationConfig struct {
	NotifyWhenFocused bool                     `json:"notify_when_focused"`
	Events            NotificationEventsConfig `json:"events"`
}

// UIConfig stores persistent UI preferences.
type UIConfig struct {
	Notifications NotificationConfig `json:"notifications"`
}

// AppConfig is the root persisted application configuration.
type AppConfig struct {
	Connection ConnectionConfig `json:"connection"`
	Logging    LoggingConfig    `json:"logging"`
	UI         UIConfig         `json:"ui"`
}

func Default() AppConfig {
	return AppConfig{
		Connection: ConnectionConfig{
			ServerURL: DefaultServerURL,
		},
		Logging: LoggingConfig{
			Level:     "info",
			LogToFile: false,
		},
		UI: UIConfig{
			Notifications: NotificationConfig{
				NotifyWhenFocused: false,
				Events: NotificationEventsConfig{
					NumberDetected:   true,
					ConnectionStatus: true,
				},
			},
		},
	}
}

// Load reads the config file and applies defaults and the environment
// override. A missing file yields the defaults.
func Load(path string) (AppConfig, error) {
	cfg := Default()
	cleanPath := filepath.Clean(path)
	// #nosec G304 -- path is resolved by app runtime and points to user config dir.
	raw, err := os.ReadFile(cleanPath)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			cfg.applyEnvOverrides()

			return cfg, nil
		}

		return AppConfig{}, fmt.Errorf("read config: %w", err)
	}

	if err := json.Unmarshal(raw, &cfg); err != nil {
		return AppConfig{}, fmt.Errorf("decode config json: %w", err)
	}

	cfg.FillMissingDefaults()
	cfg.applyEnvOverrides()

	return cfg, nil
}

func (c *AppConfig) FillMissingDefaults() {
	if strings.TrimSpace(c.Connection.ServerURL) == "" {
		c.Connection.ServerURL = DefaultServerURL
	}
	if c.Logging.Level == "" {
		c.Logging.Level = "info"
	}
}

// applyEnvOverrides lets a deployment point the client at another server
// without touching the config file. The environment wins over the file.
func (c *AppConfig) applyEnvOverrides() {
	if env := strings.TrimSpace(os.Getenv(EnvServerURL)); env != "" {
		c.Connection.ServerURL = env
	}
}

func (c AppConfig) Validate() error {
	endpoint := strings.TrimSpace(c.Connection.ServerURL)
	if endpoint == "" {
		return errors.New("server url is required")
	}
	parsed, err := url.Parse(endpoint)
	if err != nil {
		return fmt.Errorf("parse server url: %w", err)
	}
	if parsed.Scheme != "ws" && parsed.Scheme != "wss" {
		return fmt.Errorf("server url scheme must be ws or wss, got %q", parsed.Scheme)
	}
	if parsed.Host == "" {
		return errors.New("server url host is required")
	}

	return nil
}

func Save(path string, cfg AppConfig) error {
	if err := cfg.Validate(); err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		return fmt.Errorf("create config dir: %w", err)
	}

	raw, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return fmt.Errorf("encode config: %w", err)
	}

	tmpPath := path + ".tmp"
	if err := os.WriteFile(tmpPath, raw, 0o600); err != nil {
		return fmt.Errorf("write temp config: %w", err)
	}

	if err := os.Rename(tmpPath, path); err != nil {
		return fmt.Errorf("rename temp config: %w", err)
	}

	return nil
}
