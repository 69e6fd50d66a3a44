// Package config supplies the resolved settings the engine consumes from
// its host: async timing defaults and the floating-point tolerance. The
// core treats these as inputs; it never parses host config files itself
// beyond the loader here, which the CLI wrapper invokes on its behalf.
package config

import (
	"bytes"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Hardcoded fallbacks, used only when the host supplies nothing.
// The host configuration is the source of truth for all three.
const (
	DefaultTimeout      = 5 * time.Second
	DefaultPollInterval = 10 * time.Millisecond
	DefaultEpsilon      = 1e-9
)

// Settings is the resolved configuration object handed to the engine.
type Settings struct {
	// DefaultTimeout bounds wait_until and case bodies when no explicit
	// timeout is declared.
	DefaultTimeout time.Duration

	// PollInterval is the wait_until predicate evaluation cadence.
	PollInterval time.Duration

	// Epsilon is the default numeric proximity tolerance.
	Epsilon float64

	// BranchLimit caps concurrently executing parallel branches.
	// Zero means unlimited.
	BranchLimit int
}

// Default returns settings with the framework fallbacks applied.
func Default() Settings {
	return Settings{
		DefaultTimeout: DefaultTimeout,
		PollInterval:   DefaultPollInterval,
		Epsilon:        DefaultEpsilon,
	}
}

// fileSettings is the YAML shape. Durations are strings ("250ms", "5s")
// parsed with time.ParseDuration.
type fileSettings struct {
	DefaultTimeout string  `yaml:"default_timeout"`
	PollInterval   string  `yaml:"poll_interval"`
	Epsilon        float64 `yaml:"epsilon"`
	BranchLimit    int     `yaml:"branch_limit"`
}

// Load reads settings from a YAML file, rejecting unknown fields so typos
// surface immediately. Missing fields keep their fallback defaults.
func Load(path string) (Settings, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Settings{}, fmt.Errorf("read settings file: %w", err)
	}
	return Parse(data)
}

// Parse decodes settings from YAML bytes.
func Parse(data []byte) (Settings, error) {
	var fs fileSettings
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true) // Reject unknown fields (catches typos)
	if err := decoder.Decode(&fs); err != nil {
		return Settings{}, fmt.Errorf("parse settings: %w", err)
	}

	s := Default()
	if fs.DefaultTimeout != "" {
		d, err := time.ParseDuration(fs.DefaultTimeout)
		if err != nil {
			return Settings{}, fmt.Errorf("default_timeout: %w", err)
		}
		s.DefaultTimeout = d
	}
	if fs.PollInterval != "" {
		d, err := time.ParseDuration(fs.PollInterval)
		if err != nil {
			return Settings{}, fmt.Errorf("poll_interval: %w", err)
		}
		s.PollInterval = d
	}
	if fs.Epsilon != 0 {
		s.Epsilon = fs.Epsilon
	}
	if fs.BranchLimit != 0 {
		s.BranchLimit = fs.BranchLimit
	}

	if err := s.Validate(); err != nil {
		return Settings{}, err
	}
	return s, nil
}

// Validate checks the settings for values the engine cannot honor.
func (s Settings) Validate() error {
	if s.DefaultTimeout <= 0 {
		return fmt.Errorf("default_timeout must be positive, got %v", s.DefaultTimeout)
	}
	if s.PollInterval <= 0 {
		return fmt.Errorf("poll_interval must be positive, got %v", s.PollInterval)
	}
	if s.PollInterval > s.DefaultTimeout {
		return fmt.Errorf("poll_interval %v exceeds default_timeout %v", s.PollInterval, s.DefaultTimeout)
	}
	if s.Epsilon < 0 {
		return fmt.Errorf("epsilon must be non-negative, got %v", s.Epsilon)
	}
	if s.BranchLimit < 0 {
		return fmt.Errorf("branch_limit must be non-negative, got %d", s.BranchLimit)
	}
	return nil
}
