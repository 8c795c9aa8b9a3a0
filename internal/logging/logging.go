// Package logging builds the charm logger shared by the CLI and the lint
// engine from --log-level and --log-format flags.
package logging

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"charm.land/log/v2"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

var (
	// ErrUnknownLogLevel indicates an unrecognized log level string.
	ErrUnknownLogLevel = errors.New("unknown log level")
	// ErrUnknownLogFormat indicates an unrecognized log format string.
	ErrUnknownLogFormat = errors.New("unknown log format")
)

var (
	levels  = []string{"debug", "info", "warn", "error"}
	formats = map[string]log.Formatter{
		"text":   log.TextFormatter,
		"json":   log.JSONFormatter,
		"logfmt": log.LogfmtFormatter,
	}
)

// Flags holds the flag names for log configuration.
type Flags struct {
	Level  string
	Format string
}

// Config holds CLI flag values for log configuration.
//
// Create instances with [NewConfig] and register CLI flags with
// [Config.RegisterFlags].
type Config struct {
	Level  string
	Format string
	Flags  Flags
}

// NewConfig returns a [Config] using the default flag names.
func NewConfig() *Config {
	return &Config{
		Flags: Flags{
			Level:  "log-level",
			Format: "log-format",
		},
	}
}

// RegisterFlags adds logging flags to the given [*pflag.FlagSet].
func (c *Config) RegisterFlags(flags *pflag.FlagSet) {
	flags.StringVar(&c.Level, c.Flags.Level, "info",
		fmt.Sprintf("log level, one of: %s", strings.Join(levels, ", ")))
	flags.StringVar(&c.Format, c.Flags.Format, "text",
		fmt.Sprintf("log format, one of: %s", strings.Join(Formats(), ", ")))
}

// RegisterCompletions registers shell completions for log flags on cmd.
func (c *Config) RegisterCompletions(cmd *cobra.Command) error {
	err := cmd.RegisterFlagCompletionFunc(c.Flags.Level,
		cobra.FixedCompletions(levels, cobra.ShellCompDirectiveNoFileComp))
	if err != nil {
		return fmt.Errorf("registering log-level completion: %w", err)
	}

	err = cmd.RegisterFlagCompletionFunc(c.Flags.Format,
		cobra.FixedCompletions(Formats(), cobra.ShellCompDirectiveNoFileComp))
	if err != nil {
		return fmt.Errorf("registering log-format completion: %w", err)
	}

	return nil
}

// NewLogger creates a logger writing to w at the configured level and format.
func (c *Config) NewLogger(w io.Writer) (*log.Logger, error) {
	return New(w, c.Level, c.Format)
}

// New creates a logger from level and format strings.
func New(w io.Writer, level, format string) (*log.Logger, error) {
	lvl, err := ParseLevel(level)
	if err != nil {
		return nil, err
	}

	formatter, ok := formats[strings.ToLower(format)]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownLogFormat, format)
	}

	return log.NewWithOptions(w, log.Options{
		Level:           lvl,
		Formatter:       formatter,
		ReportTimestamp: formatter != log.TextFormatter,
		Prefix:          "tree-lint",
	}), nil
}

// ParseLevel parses a level string, accepting "warning" as "warn".
func ParseLevel(level string) (log.Level, error) {
	level = strings.ToLower(level)
	if level == "warning" {
		level = "warn"
	}
	for _, l := range levels {
		if l == level {
			return log.ParseLevel(level)
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownLogLevel, level)
}

// Formats returns the supported format names in a stable order.
func Formats() []string {
	return []string{"text", "json", "logfmt"}
}
