package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/jmylchreest/brandkit/internal/colour"
)

func mapLookup(env map[string]string) func(string) (string, bool) {
	return func(key string) (string, bool) {
		v, ok := env[key]
		return v, ok
	}
}

func TestFromEnvDefaults(t *testing.T) {
	cfg, err := FromEnv(mapLookup(nil))
	if err != nil {
		t.Fatalf("FromEnv() returned error: %v", err)
	}
	want := Default()
	if *cfg != *want {
		t.Errorf("FromEnv() = %+v, want %+v", cfg, want)
	}
	if cfg.Addr != ":8000" || cfg.PaletteSize != 5 || cfg.Seed != 42 {
		t.Errorf("Unexpected defaults: %+v", cfg)
	}
}

func TestFromEnvOverrides(t *testing.T) {
	cfg, err := FromEnv(mapLookup(map[string]string{
		EnvAddr:           "127.0.0.1:9000",
		EnvMaxUploadBytes: "1024",
		EnvPaletteSize:    "8",
		EnvMaxEdge:        "150",
		EnvFilter:         "lanczos",
		EnvSeed:           "-3",
		EnvReadTimeout:    "2s",
		EnvWriteTimeout:   "1m",
		EnvLogLevel:       "debug",
	}))
	if err != nil {
		t.Fatalf("FromEnv() returned error: %v", err)
	}

	want := &Config{
		Addr:           "127.0.0.1:9000",
		MaxUploadBytes: 1024,
		PaletteSize:    8,
		MaxEdge:        150,
		Filter:         colour.FilterLanczos,
		Seed:           -3,
		ReadTimeout:    2 * time.Second,
		WriteTimeout:   time.Minute,
		LogLevel:       "debug",
	}
	if *cfg != *want {
		t.Errorf("FromEnv() = %+v, want %+v", cfg, want)
	}
}

func TestFromEnvPort(t *testing.T) {
	cfg, err := FromEnv(mapLookup(map[string]string{EnvPort: "5000"}))
	if err != nil {
		t.Fatalf("FromEnv() returned error: %v", err)
	}
	if cfg.Addr != ":5000" {
		t.Errorf("Addr = %q, want :5000", cfg.Addr)
	}

	// An explicit address wins over PORT.
	cfg, err = FromEnv(mapLookup(map[string]string{EnvPort: "5000", EnvAddr: ":7000"}))
	if err != nil {
		t.Fatalf("FromEnv() returned error: %v", err)
	}
	if cfg.Addr != ":7000" {
		t.Errorf("Addr = %q, want :7000", cfg.Addr)
	}
}

func TestFromEnvInvalid(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
	}{
		{name: "bad int", env: map[string]string{EnvPaletteSize: "five"}},
		{name: "bad duration", env: map[string]string{EnvReadTimeout: "soon"}},
		{name: "size too large", env: map[string]string{EnvPaletteSize: "500"}},
		{name: "size zero", env: map[string]string{EnvPaletteSize: "0"}},
		{name: "bad filter", env: map[string]string{EnvFilter: "box"}},
		{name: "bad level", env: map[string]string{EnvLogLevel: "loud"}},
		{name: "zero edge", env: map[string]string{EnvMaxEdge: "0"}},
		{name: "negative upload", env: map[string]string{EnvMaxUploadBytes: "-1"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := FromEnv(mapLookup(tt.env)); err == nil {
				t.Error("Expected error, got nil")
			}
		})
	}
}

func TestLoadEnvFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".env")
	content := strings.Join([]string{
		EnvPaletteSize + "=7",
		EnvLogLevel + "=warn",
	}, "\n")
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}

	// godotenv does not override variables that are already set.
	t.Setenv(EnvLogLevel, "error")
	t.Setenv(EnvPaletteSize, "")
	os.Unsetenv(EnvPaletteSize)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() returned error: %v", err)
	}
	if cfg.PaletteSize != 7 {
		t.Errorf("PaletteSize = %d, want 7", cfg.PaletteSize)
	}
	if cfg.LogLevel != "error" {
		t.Errorf("LogLevel = %q, want error", cfg.LogLevel)
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "missing.env")); err != nil {
		t.Errorf("Load() with missing file returned error: %v", err)
	}
}

func TestExtractorOptions(t *testing.T) {
	cfg := Default()
	cfg.MaxEdge, cfg.Filter, cfg.Seed = 120, colour.FilterBiLinear, 9

	opts := cfg.ExtractorOptions()
	if opts.MaxEdge != 120 || opts.Filter != colour.FilterBiLinear || opts.Seed != 9 {
		t.Errorf("ExtractorOptions() = %+v", opts)
	}
}
