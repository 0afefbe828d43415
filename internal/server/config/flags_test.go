package config

import (
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseFlags(t *testing.T) {
	tests := []struct {
		name     string
		args     []string
		expected *Config
		wantErr  bool
	}{
		{
			name: "all flags",
			args: []string{
				"-a", "127.0.0.1:9090", "-k", "sqlite", "-d", "db", "-s", "secret",
				"-t", "60", "-b", "12", "-o", "http://o", "-l", "debug",
			},
			expected: &Config{
				EndpointAddrHTTP:      "127.0.0.1:9090",
				StorageDriver:         "sqlite",
				DatabaseDSN:           "db",
				SecretKey:             "secret",
				TokenValidityDuration: time.Hour,
				BcryptCost:            12,
				CORSOrigin:            "http://o",
				LogLevel:              "debug",
			},
		},
		{
			name: "foreign flags ignored, validity untouched without -t",
			args: []string{"-c", "cfg.json", "-env", ".env", "-s", "k"},
			expected: &Config{
				SecretKey:             "k",
				TokenValidityDuration: 90 * time.Second,
			},
		},
		{
			name:    "bad int",
			args:    []string{"-b", "ten"},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			config := &Config{TokenValidityDuration: 90 * time.Second}

			err := parseFlags(config, tt.args)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Empty(t, cmp.Diff(tt.expected, config))
		})
	}
}
