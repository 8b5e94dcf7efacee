// Package config loads gonfa settings from an optional TOML file and
// GONFA_* environment variables. Environment values win over the file.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/pelletier/go-toml/v2"

	"GoNFA/internal/export"
)

var ErrInvalidConfig = errors.New("invalid config")

// Duration is a time.Duration written as a Go duration string ("5s").
type Duration struct {
	time.Duration
}

func (d *Duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	d.Duration = v
	return nil
}

func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.Duration.String()), nil
}

// ServerConfig configures the HTTP service.
type ServerConfig struct {
	Addr         string   `toml:"addr"`
	ReadTimeout  Duration `toml:"read_timeout"`
	WriteTimeout Duration `toml:"write_timeout"`
	IdleTimeout  Duration `toml:"idle_timeout"`

	// CacheSize bounds the number of compiled patterns kept in memory.
	CacheSize int `toml:"cache_size"`
}

// MatchConfig bounds the work of a single match call.
type MatchConfig struct {
	MaxStatesVisited int      `toml:"max_states_visited"`
	Timeout          Duration `toml:"timeout"`
}

// OutputConfig selects how compiled automata are printed.
type OutputConfig struct {
	Format string `toml:"format"`
}

// Config is the complete gonfa configuration.
type Config struct {
	LogLevel  string `toml:"log_level"`
	LogFormat string `toml:"log_format"`

	Server ServerConfig `toml:"server"`
	Match  MatchConfig  `toml:"match"`
	Output OutputConfig `toml:"output"`
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() Config {
	return Config{
		LogLevel:  "info",
		LogFormat: "json",
		Server: ServerConfig{
			Addr:         ":8080",
			ReadTimeout:  Duration{30 * time.Second},
			WriteTimeout: Duration{60 * time.Second},
			IdleTimeout:  Duration{120 * time.Second},
			CacheSize:    256,
		},
		Match: MatchConfig{
			MaxStatesVisited: 1_000_000,
			Timeout:          Duration{5 * time.Second},
		},
		Output: OutputConfig{
			Format: "json",
		},
	}
}

// Load returns the defaults overlaid with the TOML file at path (skipped
// when path is empty) and then with the environment.
func Load(path string) (Config, error) {
	cfg := DefaultConfig()
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("reading config file %s: %w", path, err)
		}
		if err := Decode(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("parsing config file %s: %w", path, err)
		}
	}
	if err := cfg.ApplyEnv(os.LookupEnv); err != nil {
		return Config{}, err
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Decode overlays TOML data onto cfg. Keys absent from data keep their
// current values; unknown keys are an error.
func Decode(data []byte, cfg *Config) error {
	dec := toml.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	return dec.Decode(cfg)
}

// ApplyEnv overrides fields from GONFA_* variables found by lookup.
func (c *Config) ApplyEnv(lookup func(string) (string, bool)) error {
	str := func(key string, dst *string) {
		if v, ok := lookup(key); ok && v != "" {
			*dst = v
		}
	}
	num := func(key string, dst *int) error {
		v, ok := lookup(key)
		if !ok || v == "" {
			return nil
		}
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("%w: %s=%q: %v", ErrInvalidConfig, key, v, err)
		}
		*dst = n
		return nil
	}
	dur := func(key string, dst *Duration) error {
		v, ok := lookup(key)
		if !ok || v == "" {
			return nil
		}
		if err := dst.UnmarshalText([]byte(v)); err != nil {
			return fmt.Errorf("%w: %s=%q: %v", ErrInvalidConfig, key, v, err)
		}
		return nil
	}

	str("GONFA_LOG_LEVEL", &c.LogLevel)
	str("GONFA_LOG_FORMAT", &c.LogFormat)
	str("GONFA_ADDR", &c.Server.Addr)
	str("GONFA_OUTPUT_FORMAT", &c.Output.Format)
	if err := num("GONFA_CACHE_SIZE", &c.Server.CacheSize); err != nil {
		return err
	}
	if err := num("GONFA_MAX_STATES_VISITED", &c.Match.MaxStatesVisited); err != nil {
		return err
	}
	return dur("GONFA_MATCH_TIMEOUT", &c.Match.Timeout)
}

// Validate rejects settings no component can run with.
func (c Config) Validate() error {
	switch strings.ToLower(c.LogLevel) {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("%w: log_level %q", ErrInvalidConfig, c.LogLevel)
	}
	switch strings.ToLower(c.LogFormat) {
	case "json", "text":
	default:
		return fmt.Errorf("%w: log_format %q", ErrInvalidConfig, c.LogFormat)
	}
	if _, err := export.ParseFormat(c.Output.Format); err != nil {
		return fmt.Errorf("%w: output.format: %v", ErrInvalidConfig, err)
	}
	if c.Server.Addr == "" {
		return fmt.Errorf("%w: server.addr is empty", ErrInvalidConfig)
	}
	if c.Server.CacheSize < 0 {
		return fmt.Errorf("%w: server.cache_size must not be negative", ErrInvalidConfig)
	}
	if c.Match.MaxStatesVisited <= 0 {
		return fmt.Errorf("%w: match.max_states_visited must be positive", ErrInvalidConfig)
	}
	if c.Match.Timeout.Duration < 0 {
		return fmt.Errorf("%w: match.timeout must not be negative", ErrInvalidConfig)
	}
	return nil
}
