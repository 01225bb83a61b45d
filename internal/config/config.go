// Package config loads server settings from an optional YAML file and the
// environment. Environment variables win over the file.
package config

import (
	"errors"
	"fmt"
	"net"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"gopkg.in/yaml.v3"

	"github.com/Urlyss/comic-database-mcp/internal/comicvine"
	"github.com/Urlyss/comic-database-mcp/internal/httpcache"
	"github.com/Urlyss/comic-database-mcp/internal/telemetry"
)

type Config struct {
	APIKey    string        `env:"COMIC_VINE_API_KEY" yaml:"api_key"`
	BaseURL   string        `env:"COMIC_VINE_BASE_URL" yaml:"base_url"`
	Timeout   time.Duration `env:"COMIC_VINE_TIMEOUT" yaml:"timeout"`
	UserAgent string        `env:"COMIC_VINE_USER_AGENT" yaml:"user_agent"`

	Port     int    `env:"PORT" yaml:"port"`
	HTTPAddr string `env:"HTTP_ADDR" yaml:"http_addr"`

	LogLevel  string `env:"LOG_LEVEL" yaml:"log_level"`
	LogFormat string `env:"LOG_FORMAT" yaml:"log_format"`

	HTTPCache httpcache.Config `yaml:"http_cache"`
	Telemetry telemetry.Config `yaml:"telemetry"`
}

// Default returns the settings used when nothing overrides them.
func Default() Config {
	return Config{
		BaseURL:   comicvine.DefaultBaseURL,
		Timeout:   30 * time.Second,
		UserAgent: comicvine.DefaultUserAgent,
		Port:      80,
		LogLevel:  "info",
		LogFormat: "json",
		HTTPCache: httpcache.DefaultConfig(),
		Telemetry: telemetry.Config{Enabled: true},
	}
}

// Load applies defaults, then the YAML file at path (if any), then the
// environment, and validates the result.
func Load(path string) (Config, error) {
	cfg := Default()
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("parse config: %w", err)
		}
	}
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	cfg.APIKey = strings.TrimSpace(cfg.APIKey)
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks settings shared by every transport. The API key is left
// to the transport.
func (c Config) Validate() error {
	var errs []error
	if c.Timeout <= 0 {
		errs = append(errs, fmt.Errorf("timeout must be positive, got %s", c.Timeout))
	}
	switch strings.ToLower(c.LogLevel) {
	case "debug", "info", "warn", "error":
	default:
		errs = append(errs, fmt.Errorf("unknown log level %q", c.LogLevel))
	}
	switch strings.ToLower(c.LogFormat) {
	case "json", "text":
	default:
		errs = append(errs, fmt.Errorf("unknown log format %q", c.LogFormat))
	}
	if u, err := url.Parse(c.BaseURL); err != nil || u.Scheme == "" || u.Host == "" {
		errs = append(errs, fmt.Errorf("invalid base url %q", c.BaseURL))
	}
	if c.HTTPAddr == "" && (c.Port <= 0 || c.Port > 65535) {
		errs = append(errs, fmt.Errorf("invalid port %d", c.Port))
	}
	return errors.Join(errs...)
}

// ListenAddr is HTTPAddr when set, otherwise ":PORT".
func (c Config) ListenAddr() string {
	if c.HTTPAddr != "" {
		return c.HTTPAddr
	}
	return net.JoinHostPort("", strconv.Itoa(c.Port))
}
