package config

import (
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"strings"
	"time"
)

// MaxCatalogPageSize is the largest page the server accepts.
const MaxCatalogPageSize = 100

// Config holds runtime settings for the client.
type Config struct {
	ServerBaseURL       string
	DatabasePath        string
	RequestTimeout      time.Duration
	OnlineCheckInterval time.Duration
	CatalogPageSize     int
	MaxImageBytes       int64
	LogLevel            string
}

// LoadDefaults populates c with defaults.
func (c *Config) LoadDefaults() {
	c.ServerBaseURL = "http://127.0.0.1:8001"
	c.DatabasePath = "herbscan.db"
	c.RequestTimeout = 60 * time.Second
	c.OnlineCheckInterval = 3 * time.Second
	c.CatalogPageSize = 50
	c.MaxImageBytes = 10 << 20
	c.LogLevel = "info"
}

// LoadConfig builds a Config from defaults, the JSON file named in args (if
// any) and then the flags in args. args excludes the program name.
func LoadConfig(args []string) (*Config, error) {
	cfg := &Config{}
	cfg.LoadDefaults()

	if err := parseJSON(cfg, args); err != nil {
		return nil, err
	}
	if err := parseFlags(cfg, args); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate reports settings the client cannot run with.
func (c *Config) Validate() error {
	var errs []error

	u, err := url.Parse(c.ServerBaseURL)
	switch {
	case strings.TrimSpace(c.ServerBaseURL) == "":
		errs = append(errs, errors.New("server base url is empty"))
	case err != nil:
		errs = append(errs, fmt.Errorf("server base url: %w", err))
	case u.Scheme != "http" && u.Scheme != "https":
		errs = append(errs, fmt.Errorf("server base url %q: scheme must be http or https", c.ServerBaseURL))
	}

	if strings.TrimSpace(c.DatabasePath) == "" {
		errs = append(errs, errors.New("database path is empty"))
	}
	if c.RequestTimeout <= 0 {
		errs = append(errs, errors.New("request timeout must be positive"))
	}
	if c.OnlineCheckInterval <= 0 {
		errs = append(errs, errors.New("online check interval must be positive"))
	}
	if c.CatalogPageSize <= 0 || c.CatalogPageSize > MaxCatalogPageSize {
		errs = append(errs, fmt.Errorf("catalog page size must be between 1 and %d", MaxCatalogPageSize))
	}
	if c.MaxImageBytes <= 0 {
		errs = append(errs, errors.New("max image size must be positive"))
	}
	if _, err := c.SlogLevel(); err != nil {
		errs = append(errs, err)
	}

	if len(errs) > 0 {
		return fmt.Errorf("invalid config: %w", errors.Join(errs...))
	}
	return nil
}

// SlogLevel parses LogLevel.
func (c *Config) SlogLevel() (slog.Level, error) {
	var l slog.Level
	if err := l.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return slog.LevelInfo, fmt.Errorf("log level %q: %w", c.LogLevel, err)
	}
	return l, nil
}
