package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/verte-zerg/stitchcalc/internal/model"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestLoadConfigMissingFile(t *testing.T) {
	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "nope.toml"))
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if cfg.Defaults.Project != nil || len(cfg.CustomActions) != 0 {
		t.Fatalf("expected empty config, got %+v", cfg)
	}
}

func TestLoadConfigDefaultsAndActions(t *testing.T) {
	path := writeConfig(t, `
[defaults]
project = "sweater"
construction = "round"
max-repeats = 40

[[custom-action]]
name = "C6B"
consumes = 6
produces = 6
pattern-type = "cable"

[[custom-action]]
name = "bobble"
consumes = 1
produces = 1
`)
	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if cfg.Defaults.Project == nil || *cfg.Defaults.Project != "sweater" {
		t.Fatalf("unexpected project %v", cfg.Defaults.Project)
	}
	if cfg.Defaults.MaxRepeats == nil || *cfg.Defaults.MaxRepeats != 40 {
		t.Fatalf("unexpected max-repeats %v", cfg.Defaults.MaxRepeats)
	}
	if cfg.Defaults.PatternType != nil {
		t.Fatalf("pattern-type should be unset")
	}

	cables, err := cfg.Actions(model.PatternCable)
	if err != nil {
		t.Fatalf("Actions: %v", err)
	}
	if len(cables) != 1 || cables[0].Name != "C6B" || cables[0].Consumes != 6 {
		t.Fatalf("unexpected cable actions %+v", cables)
	}
	general, err := cfg.Actions(model.PatternGeneral)
	if err != nil {
		t.Fatalf("Actions: %v", err)
	}
	if len(general) != 1 || general[0].Name != "bobble" {
		t.Fatalf("unexpected general actions %+v", general)
	}
}

func TestLoadConfigRejectsUnknownKeys(t *testing.T) {
	path := writeConfig(t, "[defaults]\nwords = 10\n")
	_, err := LoadConfig(path)
	if err == nil || !strings.Contains(err.Error(), "words") {
		t.Fatalf("expected unknown key error, got %v", err)
	}
}

func TestActionsRejectsInvalidEntry(t *testing.T) {
	path := writeConfig(t, "[[custom-action]]\nname = \"C 4\"\nconsumes = 4\nproduces = 4\n")
	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if _, err := cfg.Actions(model.PatternGeneral); err == nil {
		t.Fatalf("expected validation error")
	}
}

func TestDefaultPathsUseXDG(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", "/tmp/cfg")
	t.Setenv("XDG_DATA_HOME", "/tmp/data")
	if got := DefaultConfigPath(); got != "/tmp/cfg/stitchcalc/config.toml" {
		t.Fatalf("DefaultConfigPath = %q", got)
	}
	if got := DefaultDBPath(); got != "/tmp/data/stitchcalc/stitchcalc.db" {
		t.Fatalf("DefaultDBPath = %q", got)
	}
	if got := DefaultPatternDir(); got != "/tmp/cfg/stitchcalc/patterns" {
		t.Fatalf("DefaultPatternDir = %q", got)
	}
}
