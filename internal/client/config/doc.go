// Package config loads runtime configuration for the taskdesk CLI.
//
// Sources & precedence
//
//  1. Built-in defaults (see (*Config).LoadDefaults).
//  2. Optional JSON file (see parseJson) selected via flags: -c or -config.
//  3. Command-line flags (see parseFlags), which override earlier values.
//
// Supported flags
//
//	-a string   base URL of the taskdesk API
//	-f string   path of the local session database
//	-i int      online status check interval (seconds)
//	-r int      attempts for idempotent requests (1 disables retries)
//	-t int      request timeout (seconds)
//
// # JSON schema
//
// Durations use timex.Duration, so values can be either strings like "3s"
// or integer nanoseconds:
//
//	{
//	  "server_url": "http://localhost:5000",
//	  "session_file": "taskdesk_session.db",
//	  "online_check_interval": "3s",
//	  "request_timeout": "5s",
//	  "retry_attempts": 3
//	}
package config
