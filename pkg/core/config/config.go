// ============================================================================
// sessionkit - Lesson data tooling
// ============================================================================
//
// Package:     config
// Description: TOML configuration for the sessionkit CLI
// Author:      Mike Stoffels
// Created:     2026-02-09
// License:     MIT
// ============================================================================

package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
)

// EnvConfigPath names the environment variable that points at the config file
const EnvConfigPath = "SESSIONKIT_CONFIG"

// DefaultTip is printed in the footer box of every rendered handout
const DefaultTip = "Sugerencia de uso: imprime este PDF o tenlo abierto durante la sesión. " +
	"Marca 3 expresiones/ideas que quieras usar hoy y úsalas al menos una vez."

// Config holds the complete application configuration
type Config struct {
	General  GeneralConfig  `toml:"general"`
	Source   SourceConfig   `toml:"source"`
	Render   RenderConfig   `toml:"render"`
	Homework HomeworkConfig `toml:"homework"`
	Store    StoreConfig    `toml:"store"`
	Watch    WatchConfig    `toml:"watch"`
}

// GeneralConfig holds general application settings
type GeneralConfig struct {
	LogLevel  string `toml:"log_level"`
	LogFormat string `toml:"log_format"`
	DataDir   string `toml:"data_dir"`
}

// SourceConfig describes where the session literals live
type SourceConfig struct {
	Path    string `toml:"path"`
	Anchor  string `toml:"anchor"`
	Workers int    `toml:"workers"`
}

// RenderConfig holds PDF handout settings
type RenderConfig struct {
	OutDir        string `toml:"out_dir"`
	Author        string `toml:"author"`
	Tip           string `toml:"tip"`
	MaxObjectives int    `toml:"max_objectives"`
	MaxRules      int    `toml:"max_rules"`
	MaxTerms      int    `toml:"max_terms"`
	Workers       int    `toml:"workers"`
	Overwrite     bool   `toml:"overwrite"`
}

// HomeworkConfig holds the homework editor settings
type HomeworkConfig struct {
	// Path to a YAML instruction table; empty selects the built-in table
	Path  string `toml:"path"`
	Field string `toml:"field"`
}

// StoreConfig holds the SQLite catalog settings
type StoreConfig struct {
	Path string `toml:"path"`
}

// WatchConfig holds file watching settings
type WatchConfig struct {
	Debounce Duration `toml:"debounce"`
}

// Duration wraps time.Duration for TOML parsing
type Duration struct {
	time.Duration
}

// UnmarshalText parses a duration string
func (d *Duration) UnmarshalText(text []byte) error {
	var err error
	d.Duration, err = time.ParseDuration(string(text))
	return err
}

// MarshalText formats the duration as a string
func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.Duration.String()), nil
}

// Default returns a configuration with every default applied
func Default() *Config {
	cfg := &Config{}
	cfg.applyDefaults()
	return cfg
}

// Load loads configuration from a TOML file
func Load(path string) (*Config, error) {
	path = os.ExpandEnv(path)

	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil, fmt.Errorf("config file not found: %s", path)
	}

	var cfg Config
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	cfg.applyDefaults()
	cfg.expandEnvVars()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// LoadFromEnv loads configuration from SESSIONKIT_CONFIG or a default location.
// When no file exists anywhere, the built-in defaults are returned.
func LoadFromEnv() (*Config, error) {
	path := os.Getenv(EnvConfigPath)
	if path == "" {
		defaultPaths := []string{
			"./configs/config.toml",
			"./config.toml",
		}
		if home, err := os.UserHomeDir(); err == nil {
			defaultPaths = append(defaultPaths, filepath.Join(home, ".config/sessionkit/config.toml"))
		}
		for _, p := range defaultPaths {
			if _, err := os.Stat(p); err == nil {
				path = p
				break
			}
		}
	}

	if path == "" {
		return Default(), nil
	}

	return Load(path)
}

// applyDefaults sets default values for missing configuration
func (c *Config) applyDefaults() {
	// General
	if c.General.LogLevel == "" {
		c.General.LogLevel = "info"
	}
	if c.General.LogFormat == "" {
		c.General.LogFormat = "text"
	}
	if c.General.DataDir == "" {
		c.General.DataDir = "./data"
	}

	// Source
	if c.Source.Path == "" {
		c.Source.Path = "src/data/sessions.ts"
	}
	if c.Source.Anchor == "" {
		c.Source.Anchor = "sessionsData"
	}
	if c.Source.Workers == 0 {
		c.Source.Workers = 1
	}

	// Render
	if c.Render.OutDir == "" {
		c.Render.OutDir = "public/resources"
	}
	if c.Render.Author == "" {
		c.Render.Author = "oral7"
	}
	if c.Render.Tip == "" {
		c.Render.Tip = DefaultTip
	}
	if c.Render.MaxObjectives == 0 {
		c.Render.MaxObjectives = 8
	}
	if c.Render.MaxRules == 0 {
		c.Render.MaxRules = 6
	}
	if c.Render.MaxTerms == 0 {
		c.Render.MaxTerms = 18
	}
	if c.Render.Workers == 0 {
		c.Render.Workers = 4
	}

	// Homework
	if c.Homework.Field == "" {
		c.Homework.Field = "homeworkInstructions"
	}

	// Store
	if c.Store.Path == "" {
		c.Store.Path = filepath.Join(c.General.DataDir, "sessions.db")
	}

	// Watch
	if c.Watch.Debounce.Duration == 0 {
		c.Watch.Debounce.Duration = 500 * time.Millisecond
	}
}

// expandEnvVars expands environment variables in path values
func (c *Config) expandEnvVars() {
	c.General.DataDir = os.ExpandEnv(c.General.DataDir)
	c.Source.Path = os.ExpandEnv(c.Source.Path)
	c.Render.OutDir = os.ExpandEnv(c.Render.OutDir)
	c.Homework.Path = os.ExpandEnv(c.Homework.Path)
	c.Store.Path = os.ExpandEnv(c.Store.Path)
}

// Validate checks value ranges that defaults cannot repair
func (c *Config) Validate() error {
	var problems []string

	if c.Source.Workers < 1 {
		problems = append(problems, "source.workers must be >= 1")
	}
	if c.Render.Workers < 1 {
		problems = append(problems, "render.workers must be >= 1")
	}
	if c.Render.MaxObjectives < 0 || c.Render.MaxRules < 0 || c.Render.MaxTerms < 0 {
		problems = append(problems, "render limits must not be negative")
	}
	if !isIdentifier(c.Source.Anchor) {
		problems = append(problems, fmt.Sprintf("source.anchor %q is not an identifier", c.Source.Anchor))
	}
	if !isIdentifier(c.Homework.Field) {
		problems = append(problems, fmt.Sprintf("homework.field %q is not an identifier", c.Homework.Field))
	}

	switch strings.ToLower(c.General.LogFormat) {
	case "text", "json":
	default:
		problems = append(problems, fmt.Sprintf("general.log_format %q must be text or json", c.General.LogFormat))
	}

	if len(problems) > 0 {
		return fmt.Errorf("invalid config: %s", strings.Join(problems, "; "))
	}
	return nil
}

func isIdentifier(s string) bool {
	if s == "" {
		return false
	}
	for i, r := range s {
		switch {
		case r == '_' || r == '$':
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z':
		case r >= '0' && r <= '9' && i > 0:
		default:
			return false
		}
	}
	return true
}
