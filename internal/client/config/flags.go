package config

import (
	"flag"
	"io"
	"time"

	"github.com/dmitrijs2005/taskdesk/internal/flagx"
)

// parseFlags populates selected Config fields from command-line flags.
// Only the flags listed in doc.go are considered; everything else in args
// is ignored.
func parseFlags(cfg *Config, args []string) error {
	args = flagx.FilterArgs(args, []string{"-a", "-f", "-i", "-r", "-t"})

	fs := flag.NewFlagSet("taskdesk", flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	fs.StringVar(&cfg.ServerURL, "a", cfg.ServerURL, "base URL of the taskdesk API")
	fs.StringVar(&cfg.SessionFile, "f", cfg.SessionFile, "path of the local session database")
	fs.IntVar(&cfg.RetryAttempts, "r", cfg.RetryAttempts, "attempts for idempotent requests")
	interval := fs.Int("i", int(cfg.OnlineCheckInterval.Seconds()), "online check interval (in seconds)")
	timeout := fs.Int("t", int(cfg.RequestTimeout.Seconds()), "request timeout (in seconds)")

	if err := fs.Parse(args); err != nil {
		return err
	}

	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "i":
			cfg.OnlineCheckInterval = time.Duration(*interval) * time.Second
		case "t":
			cfg.RequestTimeout = time.Duration(*timeout) * time.Second
		}
	})
	return nil
}
