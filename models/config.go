// Package models defines data structures for configuration, chart context and analysis results.
package models

import (
	"errors"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds runtime configuration. Values come from an optional YAML file
// and are overridden by CLI flags.
type Config struct {
	Viewport  ViewportConfig  `yaml:"viewport"`
	AI        AIConfig        `yaml:"ai"`
	Cache     CacheConfig     `yaml:"cache"`
	Storage   StorageConfig   `yaml:"storage"`
	Server    ServerConfig    `yaml:"server"`
	Highlight HighlightConfig `yaml:"highlight"`
}

type ViewportConfig struct {
	Width  int `yaml:"width"`
	Height int `yaml:"height"`
}

type AIConfig struct {
	BaseURL         string        `yaml:"base_url"`
	Model           string        `yaml:"model"`
	Timeout         time.Duration `yaml:"timeout"`
	FallbackOnError bool          `yaml:"fallback_on_error"`
}

type CacheConfig struct {
	Dir string        `yaml:"dir"`
	TTL time.Duration `yaml:"ttl"`
}

// StorageConfig selects the key-value backend used for the last result.
// Driver is "sqlite" or "file".
type StorageConfig struct {
	Driver string `yaml:"driver"`
	Path   string `yaml:"path"`
}

type ServerConfig struct {
	Addr string `yaml:"addr"`
}

type HighlightConfig struct {
	Duration time.Duration `yaml:"duration"`
}

// DefaultConfig returns the configuration used when no file is present.
func DefaultConfig() *Config {
	return &Config{
		Viewport: ViewportConfig{Width: 1280, Height: 800},
		AI: AIConfig{
			BaseURL: "http://127.0.0.1:11434",
			Model:   "qwen2.5:7b",
			Timeout: 60 * time.Second,
		},
		Cache:     CacheConfig{Dir: ".chartbuddy-cache", TTL: time.Hour},
		Storage:   StorageConfig{Driver: "sqlite"},
		Server:    ServerConfig{Addr: "127.0.0.1:8787"},
		Highlight: HighlightConfig{Duration: 2 * time.Second},
	}
}

// LoadConfig reads a YAML config file on top of DefaultConfig.
// A missing file is not an error.
func LoadConfig(path string) (*Config, error) {
	cfg := DefaultConfig()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return cfg, nil
		}
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
	}

	if cfg.Viewport.Width <= 0 || cfg.Viewport.Height <= 0 {
		return nil, fmt.Errorf("invalid viewport %dx%d", cfg.Viewport.Width, cfg.Viewport.Height)
	}
	switch cfg.Storage.Driver {
	case "sqlite", "file":
	default:
		return nil, fmt.Errorf("unknown storage driver: %s (use: sqlite or file)", cfg.Storage.Driver)
	}

	return cfg, nil
}
