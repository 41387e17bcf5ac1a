// Package config loads startpl configuration from file, environment
// variables, and CLI flags.
package config

import (
	"github.com/leapstack-labs/startpl/pkg/template"
)

// Default configuration values.
const (
	DefaultConfigFile = "startpl.yaml"
	EnvPrefix         = "STARTPL_"
)

// Config holds the resolved configuration for the CLI.
type Config struct {
	// Output is the file rendered output is written to ("" = stdout).
	Output string `koanf:"output"`

	// Verbose enables diagnostic logging.
	Verbose bool `koanf:"verbose"`

	// Watch re-renders the template whenever its file changes.
	Watch bool `koanf:"watch"`

	// Vars are named inputs made available to templates, typically set in
	// the config file and overridden by --var flags.
	Vars map[string]any `koanf:"vars"`

	// Delims overrides the template region delimiters.
	Delims DelimConfig `koanf:"delims"`
}

// DelimConfig mirrors template.Delims with config-file field names.
type DelimConfig struct {
	InlineStart string `koanf:"inline_start"`
	InlineEnd   string `koanf:"inline_end"`
	BlockStart  string `koanf:"block_start"`
	BlockEnd    string `koanf:"block_end"`
}

// Delims converts the configured delimiters to the template package type.
// Empty fields keep their defaults.
func (d DelimConfig) Delims() template.Delims {
	return template.Delims{
		InlineStart: d.InlineStart,
		InlineEnd:   d.InlineEnd,
		BlockStart:  d.BlockStart,
		BlockEnd:    d.BlockEnd,
	}
}
