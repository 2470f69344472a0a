// Package config loads process-wide settings the same way the teacher
// repo does: environment variables (optionally backed by a .env file) for
// runtime knobs, plus an optional YAML file of named streaming
// presets a caller can select by name instead of hand-building an option
// list (spec §4.5, §6: "Method options").
package config

import (
	"fmt"
	"io"
	"log"
	"log/slog"
	"os"
	"time"

	"github.com/goccy/go-yaml"
	"github.com/joho/godotenv"

	"github.com/eternisai/socialstream/internal/urlbuilder"
)

// Config holds the process-wide settings Load resolves from the
// environment. Credentials (user/password) are deliberately absent here:
// spec §4.5 requires them only via explicit StartOptions, never ambient
// configuration.
type Config struct {
	LogLevel  string
	LogFormat string

	MetricsPort string
	DebugPort   string

	DialTimeout time.Duration

	// Presets is the named method-option library filled in by LoadPresets;
	// Load leaves it nil.
	Presets map[string]Preset
}

// Preset is one named streaming-method configuration loadable from YAML
// (spec §6: "Method options").
type Preset struct {
	Method    string   `yaml:"method"`
	Count     *int     `yaml:"count,omitempty"`
	Delimited bool     `yaml:"delimited,omitempty"`
	Follow    []int64  `yaml:"follow,omitempty"`
	Track     []string `yaml:"track,omitempty"`
}

// Options converts the preset's declarative fields into the ordered
// urlbuilder.Option list the session actor expects.
func (p Preset) Options() []urlbuilder.Option {
	var opts []urlbuilder.Option
	if p.Count != nil {
		opts = append(opts, urlbuilder.Count(*p.Count))
	}
	if p.Delimited {
		opts = append(opts, urlbuilder.Delimited())
	}
	if len(p.Follow) > 0 {
		opts = append(opts, urlbuilder.Follow(p.Follow))
	}
	if len(p.Track) > 0 {
		opts = append(opts, urlbuilder.Track(p.Track))
	}
	return opts
}

// Load reads environment variables (after trying to load envFile, if
// non-empty) into a Config. A missing .env file is not an error — it is
// the default state outside local development.
func Load(envFile string) *Config {
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil {
			log.Printf("no env file at %q, using process environment", envFile)
		}
	}

	return &Config{
		LogLevel:    getEnvOrDefault("STREAM_LOG_LEVEL", "info"),
		LogFormat:   getEnvOrDefault("STREAM_LOG_FORMAT", "text"),
		MetricsPort: getEnvOrDefault("STREAM_METRICS_PORT", "9090"),
		DebugPort:   getEnvOrDefault("STREAM_DEBUG_PORT", "8081"),
		DialTimeout: getEnvAsDuration("STREAM_DIAL_TIMEOUT", 30*time.Second),
	}
}

// LoadPresets parses a YAML document of named presets into cfg.Presets
// (spec §6 supplement: a convenience this repo adds on top of the
// minimal spec surface).
func LoadPresets(cfg *Config, r io.Reader) error {
	var presets map[string]Preset
	if err := yaml.NewDecoder(r).Decode(&presets); err != nil {
		return fmt.Errorf("decode presets: %w", err)
	}
	cfg.Presets = presets
	return nil
}

// SlogLevel parses LogLevel into a slog.Level, defaulting to Info on an
// unrecognized value.
func (c *Config) SlogLevel() slog.Level {
	switch c.LogLevel {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func getEnvOrDefault(key, defaultValue string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if parsed, err := time.ParseDuration(v); err == nil {
			return parsed
		}
		log.Printf("invalid duration for %s=%q, using default %s", key, v, defaultValue)
	}
	return defaultValue
}

