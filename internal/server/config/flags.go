package config

import (
	"flag"
	"io"
	"time"

	"github.com/dmitrijs2005/taskdesk/internal/flagx"
)

// parseFlags populates selected server Config fields from command-line flags.
//
// Supported flags (short forms):
//
//	-a string   HTTP bind address (e.g., ":5000")
//	-k string   storage driver: postgres, sqlite, memory
//	-d string   database DSN
//	-s string   token HMAC secret key
//	-t int      token validity, minutes
//	-b int      bcrypt cost
//	-o string   allowed CORS origin
//	-l string   log level
//
// Other arguments (-c, -env, flags of other components) are filtered out
// with flagx.FilterArgs first.
func parseFlags(config *Config, args []string) error {
	args = flagx.FilterArgs(args, []string{"-a", "-k", "-d", "-s", "-t", "-b", "-o", "-l"})

	fs := flag.NewFlagSet("server", flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	fs.StringVar(&config.EndpointAddrHTTP, "a", config.EndpointAddrHTTP, "address and port to run server")
	fs.StringVar(&config.StorageDriver, "k", config.StorageDriver, "storage driver")
	fs.StringVar(&config.DatabaseDSN, "d", config.DatabaseDSN, "database DSN")
	fs.StringVar(&config.SecretKey, "s", config.SecretKey, "secret key")
	tokenValidity := fs.Int("t", int(config.TokenValidityDuration.Minutes()), "token validity duration (in minutes)")
	fs.IntVar(&config.BcryptCost, "b", config.BcryptCost, "bcrypt cost")
	fs.StringVar(&config.CORSOrigin, "o", config.CORSOrigin, "allowed CORS origin")
	fs.StringVar(&config.LogLevel, "l", config.LogLevel, "log level")

	if err := fs.Parse(args); err != nil {
		return err
	}

	// only override when -t was given, so sub-minute file values survive
	fs.Visit(func(f *flag.Flag) {
		if f.Name == "t" {
			config.TokenValidityDuration = time.Duration(*tokenValidity) * time.Minute
		}
	})
	return nil
}
