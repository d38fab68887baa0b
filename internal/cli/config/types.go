// Package config provides configuration management for the avenger CLI.
package config

import "time"

// Default configuration values.
const (
	DefaultOutput        = "auto"
	DefaultLogLevel      = "warn"
	DefaultLogFormat     = "text"
	DefaultColor         = "auto"
	DefaultHistoryFile   = ".avenger_history"
	DefaultWatchDebounce = 200 * time.Millisecond
)

// DefaultInclude is the glob list used by check when no files are given.
var DefaultInclude = []string{"**/*.avenger"}

// Config holds the CLI configuration.
type Config struct {
	// Output selects the renderer mode: auto, text, yaml or json.
	Output string `koanf:"output"`

	LogLevel  string `koanf:"log_level"`
	LogFormat string `koanf:"log_format"`

	// Color is auto, always or never.
	Color string `koanf:"color"`

	// Include holds the globs check expands when it is given no arguments.
	// A comma-separated string is accepted from the environment.
	Include []string `koanf:"include"`

	// Jobs bounds the number of files check parses at once. Zero means
	// one per CPU.
	Jobs int `koanf:"jobs"`

	WatchDebounce time.Duration `koanf:"watch_debounce"`
	HistoryFile   string        `koanf:"history_file"`

	// ProjectRoot is the directory holding the config file, or the working
	// directory when there is none. Not loaded from any source.
	ProjectRoot string `koanf:"-"`
}

// Default returns a Config populated with default values.
func Default() *Config {
	return &Config{
		Output:        DefaultOutput,
		LogLevel:      DefaultLogLevel,
		LogFormat:     DefaultLogFormat,
		Color:         DefaultColor,
		Include:       append([]string(nil), DefaultInclude...),
		WatchDebounce: DefaultWatchDebounce,
		HistoryFile:   DefaultHistoryFile,
	}
}
