package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadFromMissingReturnsDefaults(t *testing.T) {
	cfg, err := LoadFrom(filepath.Join(t.TempDir(), "config.toml"))
	if err != nil {
		t.Fatalf("LoadFrom: %v", err)
	}
	if cfg.Cycle.Length != 28 || cfg.Cycle.PeriodDuration != 5 {
		t.Errorf("cycle defaults = %d/%d, want 28/5", cfg.Cycle.Length, cfg.Cycle.PeriodDuration)
	}
	if cfg.Water.DailyGoalML != 2000 {
		t.Errorf("water goal = %d, want 2000", cfg.Water.DailyGoalML)
	}
}

func TestSaveThenLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.toml")

	cfg := DefaultConfig()
	cfg.Budget.Period = "weekly"
	cfg.General.WeekStart = "sunday"
	cfg.Appearance.Theme = "tokyo-night"
	if err := SaveTo(path, cfg); err != nil {
		t.Fatalf("SaveTo: %v", err)
	}

	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("stat: %v", err)
	}
	if perm := info.Mode().Perm(); perm != 0o600 {
		t.Errorf("perm = %o, want 600", perm)
	}

	got, err := LoadFrom(path)
	if err != nil {
		t.Fatalf("LoadFrom: %v", err)
	}
	if got.Budget.Period != "weekly" || got.Appearance.Theme != "tokyo-night" {
		t.Errorf("round trip lost values: %+v", got)
	}
	if got.WeekStartDay() != time.Sunday {
		t.Errorf("WeekStartDay = %v, want Sunday", got.WeekStartDay())
	}
}

func TestLoadFromInvalidTOML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte("[general\nweek_start = "), 0o600); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadFrom(path); err == nil {
		t.Fatal("expected parse error")
	}
}

func TestEnvOverridesSecrets(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Recipes.SpoonacularKey = "from-config"
	cfg.Recipes.EdamamAppID = "cfg-id"

	if got := GetSpoonacularKey(cfg); got != "from-config" {
		t.Errorf("GetSpoonacularKey = %q, want from-config", got)
	}

	t.Setenv("TEND_SPOONACULAR_KEY", "from-env")
	t.Setenv("TEND_EDAMAM_APP_KEY", "env-key")
	if got := GetSpoonacularKey(cfg); got != "from-env" {
		t.Errorf("GetSpoonacularKey = %q, want from-env", got)
	}
	id, key := GetEdamamCredentials(cfg)
	if id != "cfg-id" || key != "env-key" {
		t.Errorf("GetEdamamCredentials = %q/%q, want cfg-id/env-key", id, key)
	}
}

func TestDotEnvLoaded(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, ".env"), []byte("TEND_TEST_DOTENV=hello\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	t.Setenv("TEND_TEST_DOTENV", "")
	_ = os.Unsetenv("TEND_TEST_DOTENV")

	if _, err := LoadFrom(filepath.Join(dir, "config.toml")); err != nil {
		t.Fatalf("LoadFrom: %v", err)
	}
	if got := os.Getenv("TEND_TEST_DOTENV"); got != "hello" {
		t.Errorf("TEND_TEST_DOTENV = %q, want hello", got)
	}
}

func TestDBPath(t *testing.T) {
	t.Setenv("XDG_DATA_HOME", "/tmp/xdg-data")
	cfg := DefaultConfig()
	if got := DBPath(cfg); got != "/tmp/xdg-data/tend/tend.db" {
		t.Errorf("DBPath = %q", got)
	}
	cfg.General.DataPath = "/elsewhere/x.db"
	if got := DBPath(cfg); got != "/elsewhere/x.db" {
		t.Errorf("DBPath override = %q", got)
	}
}
