package config

import (
	"errors"
	"os"
	"time"
)

// Config holds runtime settings for the taskdesk CLI.
type Config struct {
	ServerURL           string
	SessionFile         string
	OnlineCheckInterval time.Duration
	RequestTimeout      time.Duration
	RetryAttempts       int
}

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.ServerURL = "http://localhost:5000"
	c.SessionFile = "taskdesk_session.db"
	c.OnlineCheckInterval = 3 * time.Second
	c.RequestTimeout = 5 * time.Second
	c.RetryAttempts = 3
}

// LoadConfig constructs a Config, applies defaults, then overlays values from
// JSON (if present) and command-line flags (if present). Later sources take
// precedence over earlier ones.
func LoadConfig() (*Config, error) {
	return load(os.Args[1:])
}

func load(args []string) (*Config, error) {
	cfg := &Config{}
	cfg.LoadDefaults()
	if err := parseJson(cfg, args); err != nil {
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

func (c *Config) Validate() error {
	if c.ServerURL == "" {
		return errors.New("server URL is empty")
	}
	if c.SessionFile == "" {
		return errors.New("session file is empty")
	}
	if c.OnlineCheckInterval <= 0 || c.RequestTimeout <= 0 {
		return errors.New("intervals must be positive")
	}
	return nil
}
