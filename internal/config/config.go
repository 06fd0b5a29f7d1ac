package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/jarredhawkins/cfmatch/internal/cfml"
	"github.com/jarredhawkins/cfmatch/internal/match"
	"github.com/jarredhawkins/cfmatch/internal/types"
)

// DefaultFile is the configuration file looked up in the workspace root
const DefaultFile = ".cfmatch.yaml"

const (
	DefaultMaxScanSteps = 50000
	DefaultDebounceMs   = 100
)

// Config is the on-disk configuration
type Config struct {
	// MaxScanSteps bounds a single balance scan; 0 disables the cap
	MaxScanSteps int `yaml:"maxScanSteps"`
	DebounceMs   int `yaml:"debounceMs"`
	// Substitutions maps delegate language -> nominal file type -> file type
	// the delegate should see instead
	Substitutions map[string]map[string]string `yaml:"substitutions"`
	// Tags overrides end-tag rules: name -> required|optional
	Tags map[string]string `yaml:"tags,omitempty"`
}

// Default returns the built-in configuration
func Default() *Config {
	subs := make(map[string]map[string]string)
	for lang, s := range cfml.DefaultSubstitutions() {
		m := make(map[string]string, len(s))
		for from, to := range s {
			m[string(from)] = string(to)
		}
		subs[string(lang)] = m
	}
	return &Config{
		MaxScanSteps:  DefaultMaxScanSteps,
		DebounceMs:    DefaultDebounceMs,
		Substitutions: subs,
	}
}

// Load reads path on top of the defaults. A missing file yields the defaults.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return cfg, nil
		}
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

// Validate checks value ranges and tag rule spellings
func (c *Config) Validate() error {
	if c.MaxScanSteps < 0 {
		return fmt.Errorf("maxScanSteps must be >= 0, got %d", c.MaxScanSteps)
	}
	if c.DebounceMs < 0 {
		return fmt.Errorf("debounceMs must be >= 0, got %d", c.DebounceMs)
	}
	if _, err := cfml.ToRequirements(c.Tags); err != nil {
		return err
	}
	return nil
}

// Write stores the configuration as YAML
func (c *Config) Write(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("encode config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("write config %s: %w", path, err)
	}
	return nil
}

// MatcherOptions converts the configuration for cfml.NewMatcher
func (c *Config) MatcherOptions() (cfml.Options, error) {
	overrides, err := cfml.ToRequirements(c.Tags)
	if err != nil {
		return cfml.Options{}, err
	}
	subs := make(map[types.LanguageID]match.Substitutions, len(c.Substitutions))
	for lang, m := range c.Substitutions {
		s := make(match.Substitutions, len(m))
		for from, to := range m {
			s[types.FileType(from)] = types.FileType(to)
		}
		subs[types.LanguageID(lang)] = s
	}
	return cfml.Options{
		MaxScanSteps:  c.MaxScanSteps,
		TagOverrides:  overrides,
		Substitutions: subs,
	}, nil
}
