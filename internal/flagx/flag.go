// Package flagx holds small helpers that let independent components parse
// only the command-line flags they own.
package flagx

import (
	"flag"
	"io"
	"strings"
)

// FilterArgs keeps only the allowed flags from args, together with their
// values. Both "-f value" and "-f=value" forms are recognised; a token that
// starts with "-" is never consumed as a value.
func FilterArgs(args []string, allowedFlags []string) []string {
	allowed := make(map[string]bool, len(allowedFlags))
	for _, f := range allowedFlags {
		allowed[f] = true
	}

	filtered := make([]string, 0, len(args))
	for i := 0; i < len(args); i++ {
		arg := args[i]

		if name, _, ok := strings.Cut(arg, "="); ok && strings.HasPrefix(arg, "-") {
			if allowed[name] {
				filtered = append(filtered, arg)
			}
			continue
		}

		if !allowed[arg] {
			continue
		}
		filtered = append(filtered, arg)
		if i+1 < len(args) && !strings.HasPrefix(args[i+1], "-") {
			i++
			filtered = append(filtered, args[i])
		}
	}

	return filtered
}

// ConfigFileFlag returns the config file path given via -c or -config,
// or "" when neither is present.
func ConfigFileFlag(args []string) string {
	return stringFlag(args, "config", "c")
}

// EnvFileFlag returns the dotenv file path given via -env, or "".
func EnvFileFlag(args []string) string {
	return stringFlag(args, "env")
}

// stringFlag parses a single string option that may be spelled by any of
// names. The last occurrence wins.
func stringFlag(args []string, names ...string) string {
	var value string

	allowed := make([]string, 0, len(names))
	fs := flag.NewFlagSet("flagx", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	for _, n := range names {
		allowed = append(allowed, "-"+n)
		fs.StringVar(&value, n, "", "")
	}

	_ = fs.Parse(FilterArgs(args, allowed))
	return value
}
