package config

import (
	"errors"
	"fmt"
	"os"

	"github.com/goccy/go-yaml"
)

// DefaultFileName is looked up in the working directory when no config file
// is given explicitly
const DefaultFileName = ".tree-lint.yaml"

// DefaultMaxPasses bounds how many fix-and-rescan rounds run per file
const DefaultMaxPasses = 10

var (
	// ErrReadConfig indicates the config file could not be read or decoded.
	ErrReadConfig = errors.New("read config")
	// ErrInvalidConfig indicates a decoded config with invalid values.
	ErrInvalidConfig = errors.New("invalid config")
)

// File is the YAML configuration file
type File struct {
	Extensions []string                `yaml:"extensions"`
	Exclude    []string                `yaml:"exclude"`
	MaxPasses  int                     `yaml:"maxPasses"`
	Rules      map[string]RuleSettings `yaml:"rules"`
}

// RuleSettings configures one rule. A rule missing from the file runs with
// default options.
type RuleSettings struct {
	Enabled *bool          `yaml:"enabled"`
	Options map[string]any `yaml:"options"`
}

// IsEnabled reports whether the rule should run, defaulting to true
func (r RuleSettings) IsEnabled() bool {
	return r.Enabled == nil || *r.Enabled
}

// ParseFile decodes a config file, rejecting unknown fields
func ParseFile(data []byte) (*File, error) {
	var f File
	if err := yaml.UnmarshalWithOptions(data, &f, yaml.DisallowUnknownField()); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrReadConfig, err)
	}
	if err := f.Validate(); err != nil {
		return nil, err
	}
	return &f, nil
}

// LoadFile reads and decodes the config file at path
func LoadFile(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrReadConfig, err)
	}
	f, err := ParseFile(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return f, nil
}

// Discover loads path when set, else DefaultFileName when it exists, else
// returns an empty config
func Discover(path string) (*File, error) {
	if path != "" {
		return LoadFile(path)
	}
	if _, err := os.Stat(DefaultFileName); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return &File{}, nil
		}
		return nil, fmt.Errorf("%w: %w", ErrReadConfig, err)
	}
	return LoadFile(DefaultFileName)
}

// Validate checks values the YAML decoder cannot
func (f *File) Validate() error {
	if f.MaxPasses < 0 {
		return fmt.Errorf("%w: maxPasses must not be negative, got %d", ErrInvalidConfig, f.MaxPasses)
	}
	for _, ext := range f.Extensions {
		if len(ext) < 2 || ext[0] != '.' {
			return fmt.Errorf("%w: extension %q must start with a dot", ErrInvalidConfig, ext)
		}
	}
	return nil
}

// Rule returns the settings for name
func (f *File) Rule(name string) RuleSettings {
	if f == nil {
		return RuleSettings{}
	}
	return f.Rules[name]
}
