package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/dmitrijs2005/taskdesk/internal/flagx"
	"github.com/dmitrijs2005/taskdesk/internal/timex"
	"gopkg.in/yaml.v3"
)

// FileConfig is the on-disk shape of the server config. Pointer fields
// distinguish "absent" from zero values so a file can override a subset.
type FileConfig struct {
	EndpointAddrHTTP      *string         `json:"endpoint_addr_http" yaml:"endpoint_addr_http"`
	StorageDriver         *string         `json:"storage_driver" yaml:"storage_driver"`
	DatabaseDSN           *string         `json:"database_dsn" yaml:"database_dsn"`
	SecretKey             *string         `json:"secret_key" yaml:"secret_key"`
	TokenValidityDuration *timex.Duration `json:"token_validity_duration" yaml:"token_validity_duration"`
	BcryptCost            *int            `json:"bcrypt_cost" yaml:"bcrypt_cost"`
	CORSOrigin            *string         `json:"cors_origin" yaml:"cors_origin"`
	AuthRateLimit         *float64        `json:"auth_rate_limit" yaml:"auth_rate_limit"`
	AuthRateBurst         *int            `json:"auth_rate_burst" yaml:"auth_rate_burst"`
	ShutdownTimeout       *timex.Duration `json:"shutdown_timeout" yaml:"shutdown_timeout"`
	LogLevel              *string         `json:"log_level" yaml:"log_level"`
}

// parseFile overlays values from the file named by -c/-config. The format is
// chosen by extension: .yaml/.yml is YAML, anything else JSON.
func parseFile(config *Config, args []string) error {
	path := flagx.ConfigFileFlag(args)
	if path == "" {
		return nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}

	fc := &FileConfig{}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, fc)
	default:
		err = json.Unmarshal(data, fc)
	}
	if err != nil {
		return fmt.Errorf("parse config file %s: %w", path, err)
	}

	fc.apply(config)
	return nil
}

func (fc *FileConfig) apply(c *Config) {
	setIf(&c.EndpointAddrHTTP, fc.EndpointAddrHTTP)
	setIf(&c.StorageDriver, fc.StorageDriver)
	setIf(&c.DatabaseDSN, fc.DatabaseDSN)
	setIf(&c.SecretKey, fc.SecretKey)
	setIf(&c.BcryptCost, fc.BcryptCost)
	setIf(&c.CORSOrigin, fc.CORSOrigin)
	setIf(&c.AuthRateLimit, fc.AuthRateLimit)
	setIf(&c.AuthRateBurst, fc.AuthRateBurst)
	setIf(&c.LogLevel, fc.LogLevel)
	if fc.TokenValidityDuration != nil {
		c.TokenValidityDuration = fc.TokenValidityDuration.Duration
	}
	if fc.ShutdownTimeout != nil {
		c.ShutdownTimeout = fc.ShutdownTimeout.Duration
	}
}

func setIf[T any](dst *T, src *T) {
	if src != nil {
		*dst = *src
	}
}
