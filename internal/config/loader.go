package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
)

// Environment overrides, read after the JSON file.
const (
	EnvUpstreamURL = "STUDYPLAN_UPSTREAM_URL"
	EnvListen      = "STUDYPLAN_LISTEN"
	EnvLogLevel    = "LOG_LEVEL"
)

// Default returns a config with defaults applied and no file behind it.
func Default() *Config {
	cfg := &Config{}
	applyDefaults(cfg)
	return cfg
}

func Load(path string) (*Config, error) {
	if path == "" {
		return nil, errors.New("config path is empty")
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	return Parse(b)
}

// Parse parses a raw JSON config into Config, applies env overrides and
// defaults, and validates.
func Parse(raw []byte) (*Config, error) {
	cfg, err := Decode(raw)
	if err != nil {
		return nil, err
	}
	return WithEnv(cfg)
}

// Decode parses a raw JSON config and applies defaults without reading the
// environment. The result is what belongs on disk.
func Decode(raw []byte) (*Config, error) {
	var cfg Config
	if err := json.Unmarshal(raw, &cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	applyDefaults(&cfg)
	if err := Validate(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// WithEnv returns a copy of cfg with environment overrides applied.
func WithEnv(cfg *Config) (*Config, error) {
	out := *cfg
	ApplyEnv(&out)
	if err := Validate(&out); err != nil {
		return nil, fmt.Errorf("environment overrides: %w", err)
	}
	return &out, nil
}

// Save writes the provided config to disk at the given path (pretty-printed JSON).
func Save(path string, cfg *Config) error {
	if path == "" {
		return errors.New("save config: path is empty")
	}
	b, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("mkdir config dir: %w", err)
	}
	if err := os.WriteFile(path, b, 0o644); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}

// LoadDotEnv loads KEY=VALUE pairs from the given files (".env" when none)
// into the process environment. Missing files are not an error; variables
// already set are left alone.
func LoadDotEnv(files ...string) error {
	if len(files) == 0 {
		files = []string{".env"}
	}
	var present []string
	for _, f := range files {
		if _, err := os.Stat(f); err == nil {
			present = append(present, f)
		}
	}
	if len(present) == 0 {
		return nil
	}
	if err := godotenv.Load(present...); err != nil {
		return fmt.Errorf("load env files: %w", err)
	}
	return nil
}

// ApplyEnv overlays environment values onto cfg.
func ApplyEnv(cfg *Config) {
	if v, ok := os.LookupEnv(EnvUpstreamURL); ok && v != "" {
		cfg.Upstream.BaseURL = v
	}
	if v, ok := os.LookupEnv(EnvListen); ok && v != "" {
		cfg.Listen = v
	}
	if v, ok := os.LookupEnv(EnvLogLevel); ok && v != "" {
		cfg.Logging.Level = v
	}
}

func applyDefaults(cfg *Config) {
	if cfg.Version == 0 {
		cfg.Version = 1
	}
	if cfg.Listen == "" {
		cfg.Listen = "127.0.0.1:8080"
	}
	if cfg.Upstream.BaseURL == "" {
		cfg.Upstream.BaseURL = "http://127.0.0.1:5000"
	}
	if cfg.Upstream.Path == "" {
		cfg.Upstream.Path = "/study_plan_creator"
	}
	if cfg.Form.Validation == "" {
		cfg.Form.Validation = "all"
	}
	if cfg.Form.Presentation == "" {
		cfg.Form.Presentation = "inline"
	}
	if cfg.Logging.Level == "" {
		cfg.Logging.Level = "info"
	}
	if cfg.Logging.Format == "" {
		cfg.Logging.Format = "json"
	}
	if cfg.Views.TTLSec <= 0 {
		cfg.Views.TTLSec = 1800
	}
}

func Validate(cfg *Config) error {
	if cfg.Version <= 0 {
		return errors.New("version must be > 0")
	}
	u, err := url.Parse(cfg.Upstream.BaseURL)
	if err != nil {
		return fmt.Errorf("upstream.baseUrl: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("upstream.baseUrl must be http or https, got %q", cfg.Upstream.BaseURL)
	}
	if u.Host == "" {
		return errors.New("upstream.baseUrl: host is required")
	}
	if !strings.HasPrefix(cfg.Upstream.Path, "/") {
		return errors.New("upstream.path must start with /")
	}
	switch cfg.Form.Validation {
	case "goal", "all":
	default:
		return fmt.Errorf("form.validation invalid: %q", cfg.Form.Validation)
	}
	switch cfg.Form.Presentation {
	case "inline", "alert":
	default:
		return fmt.Errorf("form.presentation invalid: %q", cfg.Form.Presentation)
	}
	switch cfg.Logging.Format {
	case "json", "console":
	default:
		return fmt.Errorf("logging.format invalid: %q", cfg.Logging.Format)
	}
	if cfg.Views.TTLSec <= 0 {
		return errors.New("views.ttlSec must be > 0")
	}
	return nil
}
