package config

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, dir, content string) string {
	t.Helper()
	path := filepath.Join(dir, "avenger.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0600))
	return path
}

func realPath(t *testing.T, p string) string {
	t.Helper()
	resolved, err := filepath.EvalSymlinks(p)
	require.NoError(t, err)
	return resolved
}

func TestLoadConfig_Defaults(t *testing.T) {
	ResetConfig()
	t.Chdir(t.TempDir())

	cfg, err := LoadConfig("", nil)
	require.NoError(t, err)

	assert.Equal(t, DefaultOutput, cfg.Output)
	assert.Equal(t, DefaultLogLevel, cfg.LogLevel)
	assert.Equal(t, DefaultLogFormat, cfg.LogFormat)
	assert.Equal(t, DefaultColor, cfg.Color)
	assert.Equal(t, DefaultInclude, cfg.Include)
	assert.Equal(t, 0, cfg.Jobs)
	assert.Equal(t, DefaultWatchDebounce, cfg.WatchDebounce)
	assert.Empty(t, GetConfigFileUsed())
}

func TestLoadConfig_FindsFileUpward(t *testing.T) {
	ResetConfig()
	root := t.TempDir()
	writeConfig(t, root, "output: yaml\njobs: 3\nhistory_file: hist\n")

	nested := filepath.Join(root, "a", "b")
	require.NoError(t, os.MkdirAll(nested, 0750))
	t.Chdir(nested)

	cfg, err := LoadConfig("", nil)
	require.NoError(t, err)

	assert.Equal(t, "yaml", cfg.Output)
	assert.Equal(t, 3, cfg.Jobs)
	assert.Equal(t, realPath(t, root), realPath(t, cfg.ProjectRoot))
	assert.Equal(t, filepath.Join(cfg.ProjectRoot, "hist"), cfg.HistoryFile)
	assert.NotEmpty(t, GetConfigFileUsed())
}

func TestLoadConfig_ExplicitFile(t *testing.T) {
	ResetConfig()
	t.Chdir(t.TempDir())

	other := t.TempDir()
	path := writeConfig(t, other, "include:\n  - charts/*.avenger\n  - marks/*.avenger\nwatch_debounce: 1s\n")

	cfg, err := LoadConfig(path, nil)
	require.NoError(t, err)

	assert.Equal(t, []string{"charts/*.avenger", "marks/*.avenger"}, cfg.Include)
	assert.Equal(t, time.Second, cfg.WatchDebounce)
	assert.Equal(t, path, GetConfigFileUsed())
}

func TestLoadConfig_MissingExplicitFile(t *testing.T) {
	ResetConfig()
	t.Chdir(t.TempDir())

	_, err := LoadConfig("does-not-exist.yaml", nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "error reading config file")
}

func TestLoadConfig_EnvPrecedenceOverFile(t *testing.T) {
	ResetConfig()
	dir := t.TempDir()
	writeConfig(t, dir, "output: yaml\nlog_level: info\n")
	t.Chdir(dir)

	t.Setenv("AVENGER_OUTPUT", "json")

	cfg, err := LoadConfig("", nil)
	require.NoError(t, err)
	assert.Equal(t, "json", cfg.Output, "env var should override config file")
	assert.Equal(t, "info", cfg.LogLevel)
}

func TestLoadConfig_EnvDecodeHooks(t *testing.T) {
	ResetConfig()
	t.Chdir(t.TempDir())

	t.Setenv("AVENGER_INCLUDE", "a/*.avenger,b/*.avenger")
	t.Setenv("AVENGER_WATCH_DEBOUNCE", "750ms")
	t.Setenv("AVENGER_JOBS", "6")

	cfg, err := LoadConfig("", nil)
	require.NoError(t, err)
	assert.Equal(t, []string{"a/*.avenger", "b/*.avenger"}, cfg.Include)
	assert.Equal(t, 750*time.Millisecond, cfg.WatchDebounce)
	assert.Equal(t, 6, cfg.Jobs)
}

func TestLoadConfig_FlagPrecedence(t *testing.T) {
	ResetConfig()
	dir := t.TempDir()
	writeConfig(t, dir, "output: yaml\n")
	t.Chdir(dir)

	t.Setenv("AVENGER_OUTPUT", "json")

	flags := pflag.NewFlagSet("test", pflag.ContinueOnError)
	flags.StringP("output", "o", "", "output format")
	flags.String("log-level", "", "log level")
	flags.Duration("debounce", 0, "watch debounce")
	require.NoError(t, flags.Set("output", "text"))
	require.NoError(t, flags.Set("debounce", "2s"))

	cfg, err := LoadConfig("", flags)
	require.NoError(t, err)

	assert.Equal(t, "text", cfg.Output, "flag value should override config file and env var")
	assert.Equal(t, DefaultLogLevel, cfg.LogLevel, "unset flags must not override")
	assert.Equal(t, 2*time.Second, cfg.WatchDebounce)
}

func TestLoadConfig_FlagNotSetUsesEnv(t *testing.T) {
	ResetConfig()
	t.Chdir(t.TempDir())
	t.Setenv("AVENGER_LOG_FORMAT", "json")

	flags := pflag.NewFlagSet("test", pflag.ContinueOnError)
	flags.String("log-format", "text", "log format")

	cfg, err := LoadConfig("", flags)
	require.NoError(t, err)
	assert.Equal(t, "json", cfg.LogFormat)
}

func TestLoadConfig_InvalidValue(t *testing.T) {
	ResetConfig()
	dir := t.TempDir()
	writeConfig(t, dir, "output: html\n")
	t.Chdir(dir)

	_, err := LoadConfig("", nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), `invalid output "html"`)
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name      string
		mutate    func(c *Config)
		errSubstr string
	}{
		{"defaults", func(*Config) {}, ""},
		{"upper-case level", func(c *Config) { c.LogLevel = "DEBUG" }, ""},
		{"bad level", func(c *Config) { c.LogLevel = "loud" }, "invalid log_level"},
		{"bad format", func(c *Config) { c.LogFormat = "xml" }, "invalid log_format"},
		{"bad color", func(c *Config) { c.Color = "sometimes" }, "invalid color"},
		{"negative jobs", func(c *Config) { c.Jobs = -1 }, "jobs must not be negative"},
		{"negative debounce", func(c *Config) { c.WatchDebounce = -time.Second }, "watch_debounce"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := Default()
			tt.mutate(c)
			err := c.Validate()
			if tt.errSubstr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.errSubstr)
		})
	}
}

func TestSlogLevel(t *testing.T) {
	c := Default()
	c.LogLevel = "debug"
	level, err := c.SlogLevel()
	require.NoError(t, err)
	assert.Equal(t, slog.LevelDebug, level)
}

func TestGetLogger(t *testing.T) {
	logger := slog.New(slog.DiscardHandler)
	ctx := context.WithValue(context.Background(), LoggerKey(), logger)
	assert.Same(t, logger, GetLogger(ctx))
	assert.NotNil(t, GetLogger(context.Background()))
}

func TestGetConfig(t *testing.T) {
	cfg := Default()
	cfg.Output = "json"
	assert.Same(t, cfg, GetConfig(WithConfig(context.Background(), cfg)))

	fallback := GetConfig(context.Background())
	assert.Equal(t, DefaultOutput, fallback.Output)
	assert.NotEmpty(t, fallback.ProjectRoot)
}
