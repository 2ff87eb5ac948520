package ptyio

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"gopkg.in/yaml.v3"
)

func TestLoadFromMissingFileReturnsDefaults(t *testing.T) {
	cfg, err := LoadFrom(filepath.Join(t.TempDir(), "missing.yaml"))
	if err != nil {
		t.Fatalf("LoadFrom: %v", err)
	}
	if cfg != DefaultConfig() {
		t.Errorf("cfg = %+v, want defaults %+v", cfg, DefaultConfig())
	}
}

func TestLoadFromAppliesDefaultsToOmittedFields(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	contents := "scrollback_lines: 500\n"
	if err := os.WriteFile(path, []byte(contents), 0o600); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	cfg, err := LoadFrom(path)
	if err != nil {
		t.Fatalf("LoadFrom: %v", err)
	}
	if cfg.ScrollbackLines != 500 {
		t.Errorf("ScrollbackLines = %d, want 500", cfg.ScrollbackLines)
	}
	if cfg.PrimaryResizeDebounce != DefaultConfig().PrimaryResizeDebounce {
		t.Errorf("PrimaryResizeDebounce = %v, want default", cfg.PrimaryResizeDebounce)
	}
}

func TestConfigRoundTrip(t *testing.T) {
	cfg := Config{
		ScrollbackLines:           2000,
		PrimaryResizeDebounce:     250 * time.Millisecond,
		AlternateResizeDebounce:   50 * time.Millisecond,
		TypeAheadLatencyThreshold: 40 * time.Millisecond,
		TypeAheadPenaltyWindow:    2 * time.Second,
	}

	path := filepath.Join(t.TempDir(), "config.yaml")
	data, err := yaml.Marshal(cfg)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if err := os.WriteFile(path, data, 0o600); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	got, err := LoadFrom(path)
	if err != nil {
		t.Fatalf("LoadFrom: %v", err)
	}
	if got != cfg {
		t.Errorf("round-tripped cfg = %+v, want %+v", got, cfg)
	}
}
