// Package config loads tool configuration for the skit CLI. Settings
// come from a project-local YAML file with environment variables as
// read-only overrides.
package config

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// DefaultFile is the project-local config file the CLI looks for.
const DefaultFile = ".skit.yaml"

// CheckConfig controls the check command.
type CheckConfig struct {
	// WarningsAsErrors makes warnings fail the check.
	WarningsAsErrors bool `yaml:"warnings_as_errors"`
}

// FormatConfig controls the fmt command.
type FormatConfig struct {
	Indent            string `yaml:"indent"`
	NormalizeSpeakers bool   `yaml:"normalize_speakers"`
}

// LoggingConfig mirrors the log package options.
type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
	File   string `yaml:"file"`
}

// Config is the full tool configuration.
type Config struct {
	Check   CheckConfig   `yaml:"check"`
	Format  FormatConfig  `yaml:"format"`
	Logging LoggingConfig `yaml:"logging"`
}

// Env var names used as overrides.
const (
	EnvWarningsAsErrors = "SKIT_WARNINGS_AS_ERRORS"
	EnvFormatIndent     = "SKIT_FMT_INDENT"
	EnvLogLevel         = "SKIT_LOG_LEVEL"
	EnvLogFormat        = "SKIT_LOG_FORMAT"
	EnvLogFile          = "SKIT_LOG_FILE"
)

// Defaults returns the tool defaults.
func Defaults() Config {
	return Config{
		Check:   CheckConfig{WarningsAsErrors: false},
		Format:  FormatConfig{Indent: "\t", NormalizeSpeakers: false},
		Logging: LoggingConfig{Level: "info", Format: "text", File: ""},
	}
}

// Load reads the config file at path, applies defaults, and merges
// environment overrides. An empty path means DefaultFile; a missing
// file is not an error, the defaults apply.
func Load(path string) (Config, error) {
	cfg := Defaults()
	if path == "" {
		path = DefaultFile
	}

	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		var fileCfg Config
		if err := yaml.Unmarshal(data, &fileCfg); err != nil {
			return cfg, fmt.Errorf("failed to parse config %s: %w", path, err)
		}
		mergeInto(&cfg, &fileCfg)
	case os.IsNotExist(err):
		// defaults
	default:
		return cfg, fmt.Errorf("failed to read config %s: %w", path, err)
	}

	applyEnvOverrides(&cfg)
	return cfg, nil
}

func mergeInto(dst, src *Config) {
	dst.Check.WarningsAsErrors = src.Check.WarningsAsErrors
	dst.Format.NormalizeSpeakers = src.Format.NormalizeSpeakers
	if src.Format.Indent != "" {
		dst.Format.Indent = src.Format.Indent
	}
	if v := strings.TrimSpace(src.Logging.Level); v != "" {
		dst.Logging.Level = strings.ToLower(v)
	}
	if v := strings.TrimSpace(src.Logging.Format); v != "" {
		dst.Logging.Format = strings.ToLower(v)
	}
	if v := strings.TrimSpace(src.Logging.File); v != "" {
		dst.Logging.File = v
	}
}

func applyEnvOverrides(cfg *Config) {
	if v := strings.TrimSpace(os.Getenv(EnvWarningsAsErrors)); v != "" {
		cfg.Check.WarningsAsErrors = isTrue(v)
	}
	if v := os.Getenv(EnvFormatIndent); v != "" {
		cfg.Format.Indent = v
	}
	if v := strings.TrimSpace(os.Getenv(EnvLogLevel)); v != "" {
		cfg.Logging.Level = strings.ToLower(v)
	}
	if v := strings.TrimSpace(os.Getenv(EnvLogFormat)); v != "" {
		cfg.Logging.Format = strings.ToLower(v)
	}
	if v := strings.TrimSpace(os.Getenv(EnvLogFile)); v != "" {
		cfg.Logging.File = v
	}
}

func isTrue(v string) bool {
	switch strings.ToLower(v) {
	case "1", "true", "on", "yes":
		return true
	}
	return false
}
