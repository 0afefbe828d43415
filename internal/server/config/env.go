package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/dmitrijs2005/taskdesk/internal/flagx"
	"github.com/joho/godotenv"
)

// parseEnv loads a dotenv file (the one named by -env, else ./.env when it
// exists) into the process environment without overriding variables that are
// already set, then overlays the recognised variables:
//
//	PORT                   listen port, becomes ":PORT"
//	ADDRESS                full bind address, wins over PORT
//	STORAGE_DRIVER         postgres | sqlite | memory
//	DATABASE_DSN           connection string
//	JWT_SECRET             token signing secret
//	TOKEN_VALIDITY         Go duration, e.g. "24h"
//	BCRYPT_COST            integer
//	CORS_ORIGIN            allowed browser origin
//	LOG_LEVEL              debug | info | warn | error
func parseEnv(config *Config, args []string) error {
	if path := flagx.EnvFileFlag(args); path != "" {
		if err := godotenv.Load(path); err != nil {
			return fmt.Errorf("load env file: %w", err)
		}
	} else if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("load .env: %w", err)
	}

	if v, ok := lookup("PORT"); ok {
		config.EndpointAddrHTTP = ":" + v
	}
	if v, ok := lookup("ADDRESS"); ok {
		config.EndpointAddrHTTP = v
	}
	if v, ok := lookup("STORAGE_DRIVER"); ok {
		config.StorageDriver = v
	}
	if v, ok := lookup("DATABASE_DSN"); ok {
		config.DatabaseDSN = v
	}
	if v, ok := lookup("JWT_SECRET"); ok {
		config.SecretKey = v
	}
	if v, ok := lookup("TOKEN_VALIDITY"); ok {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("TOKEN_VALIDITY: %w", err)
		}
		config.TokenValidityDuration = d
	}
	if v, ok := lookup("BCRYPT_COST"); ok {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("BCRYPT_COST: %w", err)
		}
		config.BcryptCost = n
	}
	if v, ok := lookup("CORS_ORIGIN"); ok {
		config.CORSOrigin = v
	}
	if v, ok := lookup("LOG_LEVEL"); ok {
		config.LogLevel = v
	}
	return nil
}

// lookup treats set-but-blank variables as unset.
func lookup(key string) (string, bool) {
	v, ok := os.LookupEnv(key)
	v = strings.TrimSpace(v)
	return v, ok && v != ""
}
