package ptyio

import (
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds the tunables a host application can override: scrollback
// size and the resize/type-ahead behavior of a Starter.
type Config struct {
	// ScrollbackLines caps how many lines the primary buffer keeps once
	// scrolled off screen.
	ScrollbackLines int `yaml:"scrollback_lines"`
	// PrimaryResizeDebounce is how long postResize waits before forwarding
	// a resize to the Connector when the primary screen is active.
	PrimaryResizeDebounce time.Duration `yaml:"primary_resize_debounce"`
	// AlternateResizeDebounce is the same debounce for the alternate
	// screen, normally much shorter since full-screen apps redraw fast.
	AlternateResizeDebounce time.Duration `yaml:"alternate_resize_debounce"`
	// TypeAheadLatencyThreshold is the EWMA round-trip latency above which
	// predictive echo engages.
	TypeAheadLatencyThreshold time.Duration `yaml:"typeahead_latency_threshold"`
	// TypeAheadPenaltyWindow is how long prediction stays disabled after a
	// mismatch.
	TypeAheadPenaltyWindow time.Duration `yaml:"typeahead_penalty_window"`
}

// DefaultConfig returns the tunables applied when no config file exists or
// a loaded file omits a field.
func DefaultConfig() Config {
	return Config{
		ScrollbackLines:           10000,
		PrimaryResizeDebounce:     500 * time.Millisecond,
		AlternateResizeDebounce:   100 * time.Millisecond,
		TypeAheadLatencyThreshold: 50 * time.Millisecond,
		TypeAheadPenaltyWindow:    3 * time.Second,
	}
}

// ConfigDir returns the vtcore configuration directory (~/.vtcore/).
func ConfigDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".", ".vtcore")
	}
	return filepath.Join(home, ".vtcore")
}

// Load reads the config from ~/.vtcore/config.yaml, applying defaults for
// any field a loaded file leaves zero. If the file does not exist, the
// defaults are returned with no error.
func Load() (Config, error) {
	return LoadFrom(filepath.Join(ConfigDir(), "config.yaml"))
}

// LoadFrom reads the config from path, applying defaults for any field a
// loaded file leaves zero. If the file does not exist, the defaults are
// returned with no error.
func LoadFrom(path string) (Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return Config{}, err
	}

	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, err
	}
	applyDefaults(&cfg)
	return cfg, nil
}

func applyDefaults(cfg *Config) {
	d := DefaultConfig()
	if cfg.ScrollbackLines == 0 {
		cfg.ScrollbackLines = d.ScrollbackLines
	}
	if cfg.PrimaryResizeDebounce == 0 {
		cfg.PrimaryResizeDebounce = d.PrimaryResizeDebounce
	}
	if cfg.AlternateResizeDebounce == 0 {
		cfg.AlternateResizeDebounce = d.AlternateResizeDebounce
	}
	if cfg.TypeAheadLatencyThreshold == 0 {
		cfg.TypeAheadLatencyThreshold = d.TypeAheadLatencyThreshold
	}
	if cfg.TypeAheadPenaltyWindow == 0 {
		cfg.TypeAheadPenaltyWindow = d.TypeAheadPenaltyWindow
	}
}
