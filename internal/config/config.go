// Package config loads the file-backed settings used by the arenalink CLI.
package config

import (
	"fmt"
	"os"
	"time"

	"github.com/goccy/go-yaml"

	"github.com/deckhaven/arenalink/pkg/daemon"
	pkgerrors "github.com/deckhaven/arenalink/pkg/errors"
	"github.com/deckhaven/arenalink/pkg/transport"
)

// Settings is the on-disk CLI configuration. Zero values are filled from
// the package defaults, so a partial file is valid.
type Settings struct {
	Transport TransportSettings `yaml:"transport"`
	Daemon    DaemonSettings    `yaml:"daemon"`
	Log       LogSettings       `yaml:"log"`
}

// TransportSettings configures the websocket connection.
type TransportSettings struct {
	URL                  string `yaml:"url"`
	ReconnectIntervalMs  int    `yaml:"reconnect_interval_ms"`
	MaxReconnectAttempts int    `yaml:"max_reconnect_attempts"`
}

// DaemonSettings configures the daemon REST client.
type DaemonSettings struct {
	BaseURL   string `yaml:"base_url"`
	TimeoutMs int    `yaml:"timeout_ms"`
}

// LogSettings configures logging output.
type LogSettings struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// Default returns settings matching the package-level defaults.
func Default() Settings {
	return Settings{
		Transport: TransportSettings{
			URL:                  transport.DefaultURL,
			ReconnectIntervalMs:  int(transport.DefaultReconnectInterval / time.Millisecond),
			MaxReconnectAttempts: transport.DefaultMaxReconnectAttempts,
		},
		Daemon: DaemonSettings{
			BaseURL:   daemon.DefaultBaseURL,
			TimeoutMs: int(daemon.DefaultTimeout / time.Millisecond),
		},
		Log: LogSettings{
			Level:  "info",
			Format: "console",
		},
	}
}

// Load reads settings from a YAML file, filling unset fields from defaults.
// A missing file is not an error; the defaults are returned.
func Load(path string) (Settings, error) {
	settings := Default()
	if path == "" {
		return settings, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return settings, nil
		}
		return settings, pkgerrors.NewConfigError("config", fmt.Sprintf("reading %s", path), err)
	}

	if err := yaml.Unmarshal(data, &settings); err != nil {
		return Default(), pkgerrors.NewConfigError("config", fmt.Sprintf("parsing %s", path), err)
	}
	settings.fillDefaults()
	return settings, nil
}

// fillDefaults replaces zero values with package defaults after parsing.
func (s *Settings) fillDefaults() {
	defaults := Default()
	if s.Transport.URL == "" {
		s.Transport.URL = defaults.Transport.URL
	}
	if s.Transport.ReconnectIntervalMs <= 0 {
		s.Transport.ReconnectIntervalMs = defaults.Transport.ReconnectIntervalMs
	}
	if s.Transport.MaxReconnectAttempts <= 0 {
		s.Transport.MaxReconnectAttempts = defaults.Transport.MaxReconnectAttempts
	}
	if s.Daemon.BaseURL == "" {
		s.Daemon.BaseURL = defaults.Daemon.BaseURL
	}
	if s.Daemon.TimeoutMs <= 0 {
		s.Daemon.TimeoutMs = defaults.Daemon.TimeoutMs
	}
	if s.Log.Level == "" {
		s.Log.Level = defaults.Log.Level
	}
	if s.Log.Format == "" {
		s.Log.Format = defaults.Log.Format
	}
}

// TransportConfig converts the settings to a transport configuration.
func (s Settings) TransportConfig() transport.Config {
	return transport.Config{
		URL:                  s.Transport.URL,
		ReconnectInterval:    time.Duration(s.Transport.ReconnectIntervalMs) * time.Millisecond,
		MaxReconnectAttempts: s.Transport.MaxReconnectAttempts,
	}
}

// DaemonConfig converts the settings to a daemon client configuration.
func (s Settings) DaemonConfig() daemon.Config {
	return daemon.Config{
		BaseURL: s.Daemon.BaseURL,
		Timeout: time.Duration(s.Daemon.TimeoutMs) * time.Millisecond,
	}
}
