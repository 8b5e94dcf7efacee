package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func envMap(m map[string]string) func(string) (string, bool) {
	return func(key string) (string, bool) {
		v, ok := m[key]
		return v, ok
	}
}

func TestDefaultConfig_Valid(t *testing.T) {
	require.NoError(t, DefaultConfig().Validate())
}

func TestDecode_Overlay(t *testing.T) {
	cfg := DefaultConfig()
	data := []byte(`
log_level = "debug"

[server]
addr = ":9090"
cache_size = 16

[match]
timeout = "250ms"
`)
	require.NoError(t, Decode(data, &cfg))

	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, ":9090", cfg.Server.Addr)
	assert.Equal(t, 16, cfg.Server.CacheSize)
	assert.Equal(t, 250*time.Millisecond, cfg.Match.Timeout.Duration)

	// Untouched keys keep their defaults.
	assert.Equal(t, "json", cfg.LogFormat)
	assert.Equal(t, 60*time.Second, cfg.Server.WriteTimeout.Duration)
	assert.Equal(t, 1_000_000, cfg.Match.MaxStatesVisited)
}

func TestDecode_UnknownKey(t *testing.T) {
	cfg := DefaultConfig()
	assert.Error(t, Decode([]byte(`bogus = 1`), &cfg))
}

func TestDecode_BadDuration(t *testing.T) {
	cfg := DefaultConfig()
	assert.Error(t, Decode([]byte("[match]\ntimeout = \"soon\"\n"), &cfg))
}

func TestApplyEnv(t *testing.T) {
	cfg := DefaultConfig()
	err := cfg.ApplyEnv(envMap(map[string]string{
		"GONFA_LOG_LEVEL":          "warn",
		"GONFA_ADDR":               "127.0.0.1:7000",
		"GONFA_CACHE_SIZE":         "8",
		"GONFA_MAX_STATES_VISITED": "500",
		"GONFA_MATCH_TIMEOUT":      "2s",
		"GONFA_OUTPUT_FORMAT":      "",
	}))
	require.NoError(t, err)

	assert.Equal(t, "warn", cfg.LogLevel)
	assert.Equal(t, "127.0.0.1:7000", cfg.Server.Addr)
	assert.Equal(t, 8, cfg.Server.CacheSize)
	assert.Equal(t, 500, cfg.Match.MaxStatesVisited)
	assert.Equal(t, 2*time.Second, cfg.Match.Timeout.Duration)
	assert.Equal(t, "json", cfg.Output.Format, "empty values are ignored")
}

func TestApplyEnv_Invalid(t *testing.T) {
	cfg := DefaultConfig()
	err := cfg.ApplyEnv(envMap(map[string]string{"GONFA_CACHE_SIZE": "lots"}))
	assert.ErrorIs(t, err, ErrInvalidConfig)

	err = cfg.ApplyEnv(envMap(map[string]string{"GONFA_MATCH_TIMEOUT": "later"}))
	assert.ErrorIs(t, err, ErrInvalidConfig)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"log level", func(c *Config) { c.LogLevel = "loud" }},
		{"log format", func(c *Config) { c.LogFormat = "xml" }},
		{"output format", func(c *Config) { c.Output.Format = "png" }},
		{"empty addr", func(c *Config) { c.Server.Addr = "" }},
		{"negative cache", func(c *Config) { c.Server.CacheSize = -1 }},
		{"zero states", func(c *Config) { c.Match.MaxStatesVisited = 0 }},
		{"negative timeout", func(c *Config) { c.Match.Timeout = Duration{-time.Second} }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(&cfg)
			assert.ErrorIs(t, cfg.Validate(), ErrInvalidConfig)
		})
	}
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "gonfa.toml")
	require.NoError(t, os.WriteFile(path, []byte("[output]\nformat = \"dot\"\n"), 0o644))

	t.Setenv("GONFA_LOG_LEVEL", "error")
	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "dot", cfg.Output.Format)
	assert.Equal(t, "error", cfg.LogLevel)
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.toml"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestLoad_NoFile(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, ":8080", cfg.Server.Addr)
}
