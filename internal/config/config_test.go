package config

import (
	"log/slog"
	"strings"
	"testing"
)

func TestLoadDefaults(t *testing.T) {
	cfg := Load("")
	if cfg.LogLevel != "info" {
		t.Fatalf("LogLevel = %q, want info", cfg.LogLevel)
	}
	if cfg.MetricsPort == "" {
		t.Fatalf("expected a default metrics port")
	}
}

func TestSlogLevel(t *testing.T) {
	cfg := &Config{LogLevel: "debug"}
	if cfg.SlogLevel() != slog.LevelDebug {
		t.Fatalf("SlogLevel = %v, want debug", cfg.SlogLevel())
	}
	cfg.LogLevel = "unknown"
	if cfg.SlogLevel() != slog.LevelInfo {
		t.Fatalf("SlogLevel = %v, want info default", cfg.SlogLevel())
	}
}

func TestLoadPresetsAndOptions(t *testing.T) {
	yamlDoc := `
golang_firehose:
  method: filter
  count: 50
  track:
    - golang
    - "twitter api"
`
	cfg := &Config{}
	if err := LoadPresets(cfg, strings.NewReader(yamlDoc)); err != nil {
		t.Fatalf("LoadPresets: %v", err)
	}
	preset, ok := cfg.Presets["golang_firehose"]
	if !ok {
		t.Fatalf("expected preset golang_firehose")
	}
	if preset.Method != "filter" {
		t.Fatalf("method = %q, want filter", preset.Method)
	}
	opts := preset.Options()
	if len(opts) != 2 {
		t.Fatalf("options = %+v, want 2 entries", opts)
	}
}
