// Package config loads server configuration from the environment and .env files.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"time"

	"github.com/hashicorp/go-hclog"
	"github.com/joho/godotenv"

	"github.com/jmylchreest/brandkit/internal/colour"
)

// Environment variable names.
const (
	EnvAddr           = "BRANDKIT_ADDR"
	EnvPort           = "PORT"
	EnvMaxUploadBytes = "BRANDKIT_MAX_UPLOAD_BYTES"
	EnvPaletteSize    = "BRANDKIT_PALETTE_SIZE"
	EnvMaxEdge        = "BRANDKIT_MAX_EDGE"
	EnvFilter         = "BRANDKIT_FILTER"
	EnvSeed           = "BRANDKIT_SEED"
	EnvReadTimeout    = "BRANDKIT_READ_TIMEOUT"
	EnvWriteTimeout   = "BRANDKIT_WRITE_TIMEOUT"
	EnvLogLevel       = "BRANDKIT_LOG_LEVEL"
)

// Config holds the HTTP server configuration.
type Config struct {
	Addr           string
	MaxUploadBytes int64
	PaletteSize    int
	MaxEdge        int
	Filter         colour.ResampleFilter
	Seed           int64
	ReadTimeout    time.Duration
	WriteTimeout   time.Duration
	LogLevel       string
}

// Default returns the default configuration.
func Default() *Config {
	return &Config{
		Addr:           ":8000",
		MaxUploadBytes: 10 << 20,
		PaletteSize:    colour.DefaultPaletteSize,
		MaxEdge:        colour.DefaultMaxEdge,
		Filter:         colour.FilterCatmullRom,
		Seed:           colour.DefaultSeed,
		ReadTimeout:    15 * time.Second,
		WriteTimeout:   30 * time.Second,
		LogLevel:       "info",
	}
}

// Load reads the given .env files (default ".env"), then the environment.
// Missing .env files are ignored; variables already set in the environment win.
func Load(envFiles ...string) (*Config, error) {
	if len(envFiles) == 0 {
		envFiles = []string{".env"}
	}
	for _, f := range envFiles {
		if err := godotenv.Load(f); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("failed to load %s: %w", f, err)
		}
	}
	return FromEnv(os.LookupEnv)
}

// FromEnv builds a Config from lookup, starting from Default.
func FromEnv(lookup func(string) (string, bool)) (*Config, error) {
	cfg := Default()
	var errs []error

	if port, ok := lookup(EnvPort); ok && port != "" {
		cfg.Addr = ":" + port
	}
	if addr, ok := lookup(EnvAddr); ok && addr != "" {
		cfg.Addr = addr
	}
	if level, ok := lookup(EnvLogLevel); ok && level != "" {
		cfg.LogLevel = level
	}
	if filter, ok := lookup(EnvFilter); ok && filter != "" {
		cfg.Filter = colour.ResampleFilter(filter)
	}

	parseInt(lookup, EnvMaxUploadBytes, &cfg.MaxUploadBytes, &errs)
	parseInt(lookup, EnvSeed, &cfg.Seed, &errs)

	var size, edge int64 = int64(cfg.PaletteSize), int64(cfg.MaxEdge)
	parseInt(lookup, EnvPaletteSize, &size, &errs)
	parseInt(lookup, EnvMaxEdge, &edge, &errs)
	cfg.PaletteSize, cfg.MaxEdge = int(size), int(edge)

	parseDuration(lookup, EnvReadTimeout, &cfg.ReadTimeout, &errs)
	parseDuration(lookup, EnvWriteTimeout, &cfg.WriteTimeout, &errs)

	if err := errors.Join(errs...); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks the configuration for out-of-range values.
func (c *Config) Validate() error {
	if c.Addr == "" {
		return fmt.Errorf("listen address cannot be empty")
	}
	if c.MaxUploadBytes < 1 {
		return fmt.Errorf("max upload bytes must be positive, got %d", c.MaxUploadBytes)
	}
	if c.PaletteSize < 1 || c.PaletteSize > colour.MaxPaletteSize {
		return fmt.Errorf("palette size must be between 1 and %d, got %d", colour.MaxPaletteSize, c.PaletteSize)
	}
	if c.ReadTimeout <= 0 || c.WriteTimeout <= 0 {
		return fmt.Errorf("timeouts must be positive")
	}
	if hclog.LevelFromString(c.LogLevel) == hclog.NoLevel {
		return fmt.Errorf("invalid log level: %s", c.LogLevel)
	}
	if err := c.ExtractorOptions().Validate(); err != nil {
		return fmt.Errorf("invalid extractor settings: %w", err)
	}
	return nil
}

// ExtractorOptions returns the extractor options implied by the configuration.
func (c *Config) ExtractorOptions() colour.Options {
	opts := colour.DefaultOptions()
	opts.MaxEdge = c.MaxEdge
	opts.Filter = c.Filter
	opts.Seed = c.Seed
	return opts
}

func parseInt(lookup func(string) (string, bool), key string, dst *int64, errs *[]error) {
	v, ok := lookup(key)
	if !ok || v == "" {
		return
	}
	n, err := strconv.ParseInt(v, 10, 64)
	if err != nil {
		*errs = append(*errs, fmt.Errorf("invalid %s %q: %w", key, v, err))
		return
	}
	*dst = n
}

func parseDuration(lookup func(string) (string, bool), key string, dst *time.Duration, errs *[]error) {
	v, ok := lookup(key)
	if !ok || v == "" {
		return
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		*errs = append(*errs, fmt.Errorf("invalid %s %q: %w", key, v, err))
		return
	}
	*dst = d
}
