// Package config loads service configuration from an optional yaml/json file
// with environment overrides.
package config

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/json"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"

	coremetrics "github.com/serikch/evpredict/core/metrics"
	"github.com/serikch/evpredict/core/recommend"
	"github.com/serikch/evpredict/core/session"
	"github.com/serikch/evpredict/infra/artifact"
	"github.com/serikch/evpredict/infra/elevation"
	"github.com/serikch/evpredict/infra/monitoring"
	"github.com/serikch/evpredict/infra/mqtt"
)

// ServerConfig tunes the HTTP listener.
type ServerConfig struct {
	Addr          string `json:"addr"`
	ReadTimeoutS  int    `json:"read_timeout_seconds"`
	WriteTimeoutS int    `json:"write_timeout_seconds"`
}

// SetDefaults applies sane defaults.
func (c *ServerConfig) SetDefaults() {
	if c.Addr == "" {
		c.Addr = ":8000"
	}
	if c.ReadTimeoutS <= 0 {
		c.ReadTimeoutS = 15
	}
	if c.WriteTimeoutS <= 0 {
		c.WriteTimeoutS = 60
	}
}

// SessionsConfig bounds the in-memory session store.
type SessionsConfig struct {
	MaxAgeMinutes int `json:"max_age_minutes"`
	MaxEntries    int `json:"max_entries"`
}

// Store converts to the session store config.
func (c SessionsConfig) Store() session.Config {
	return session.Config{
		MaxAge:     time.Duration(c.MaxAgeMinutes) * time.Minute,
		MaxEntries: c.MaxEntries,
	}
}

// AuditConfig enables the prediction audit trail.
type AuditConfig struct {
	Enabled    bool   `json:"enabled"`
	Backend    string `json:"backend"`
	Path       string `json:"path"`
	MaxSizeMB  int    `json:"max_size_mb"`
	MaxBackups int    `json:"max_backups"`
	MaxAgeDays int    `json:"max_age_days"`
}

// SetDefaults applies sane defaults.
func (c *AuditConfig) SetDefaults() {
	if c.Backend == "" {
		c.Backend = "rotating"
	}
	if c.Path == "" {
		c.Path = filepath.Join("logs", "predictions.jsonl")
	}
	if c.MaxSizeMB <= 0 {
		c.MaxSizeMB = 50
	}
	if c.MaxBackups <= 0 {
		c.MaxBackups = 5
	}
	if c.MaxAgeDays <= 0 {
		c.MaxAgeDays = 30
	}
}

// Config is the root configuration.
type Config struct {
	Server    ServerConfig         `json:"server"`
	Model     artifact.Config      `json:"model"`
	Elevation elevation.Config     `json:"elevation"`
	Sessions  SessionsConfig       `json:"sessions"`
	Recommend recommend.Thresholds `json:"recommend"`
	Metrics   coremetrics.Config   `json:"metrics"`
	Audit     AuditConfig          `json:"audit"`
	MQTT      mqtt.Config          `json:"mqtt"`
	Sentry    monitoring.Config    `json:"sentry"`
}

// Load reads the configuration file (yaml or json, chosen by extension) and
// applies EV_-prefixed environment overrides. An empty path skips the file
// and yields defaults plus environment.
func Load(path string) (*Config, error) {
	k := koanf.New(".")
	if path != "" {
		ext := strings.ToLower(filepath.Ext(path))
		var parser koanf.Parser
		switch ext {
		case ".yaml", ".yml":
			parser = yaml.Parser()
		case ".json":
			parser = json.Parser()
		default:
			return nil, fmt.Errorf("unsupported config format: %s", ext)
		}
		if err := k.Load(file.Provider(path), parser); err != nil {
			return nil, err
		}
	}
	if err := k.Load(env.Provider("EV_", ".", func(s string) string {
		s = strings.TrimPrefix(strings.ToLower(s), "ev_")
		return strings.ReplaceAll(s, "__", ".")
	}), nil); err != nil {
		return nil, err
	}
	var cfg Config
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "json"}); err != nil {
		return nil, err
	}
	cfg.Server.SetDefaults()
	cfg.Audit.SetDefaults()
	cfg.MQTT.SetDefaults()
	if cfg.Metrics.PrometheusEnabled && cfg.Metrics.PrometheusAddr == "" {
		cfg.Metrics.PrometheusAddr = ":9090"
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks cross-field constraints.
func (c *Config) Validate() error {
	if c.Metrics.InfluxEnabled && c.Metrics.InfluxURL == "" {
		return fmt.Errorf("metrics: influx enabled without url")
	}
	if c.MQTT.Enabled && c.MQTT.Broker == "" {
		return fmt.Errorf("mqtt: enabled without broker")
	}
	switch c.Audit.Backend {
	case "jsonl", "rotating", "sqlite":
	default:
		return fmt.Errorf("audit: unknown backend %q", c.Audit.Backend)
	}
	return nil
}
