package config

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/dmitrijs2005/taskdesk/internal/flagx"
	"github.com/dmitrijs2005/taskdesk/internal/timex"
)

// JsonConfig is a DTO used exclusively for JSON unmarshalling. Absent
// fields leave the current value untouched.
type JsonConfig struct {
	ServerURL           *string         `json:"server_url"`
	SessionFile         *string         `json:"session_file"`
	OnlineCheckInterval *timex.Duration `json:"online_check_interval"`
	RequestTimeout      *timex.Duration `json:"request_timeout"`
	RetryAttempts       *int            `json:"retry_attempts"`
}

// parseJson overlays cfg with the JSON file named by -c/-config, if any.
func parseJson(cfg *Config, args []string) error {
	path := flagx.ConfigFileFlag(args)
	if path == "" {
		return nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}

	var jc JsonConfig
	if err := json.Unmarshal(data, &jc); err != nil {
		return fmt.Errorf("parse config file %s: %w", path, err)
	}

	if jc.ServerURL != nil {
		cfg.ServerURL = *jc.ServerURL
	}
	if jc.SessionFile != nil {
		cfg.SessionFile = *jc.SessionFile
	}
	if jc.OnlineCheckInterval != nil {
		cfg.OnlineCheckInterval = jc.OnlineCheckInterval.Duration
	}
	if jc.RequestTimeout != nil {
		cfg.RequestTimeout = jc.RequestTimeout.Duration
	}
	if jc.RetryAttempts != nil {
		cfg.RetryAttempts = *jc.RetryAttempts
	}
	return nil
}
