package config_test

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"inkstone/internal/platform/config"
	apperrors "inkstone/internal/platform/errors"
)

func TestNewUsesDefaultsWithoutFile(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	cfg, err := config.New(dir)
	if err != nil {
		t.Fatalf("new config: %v", err)
	}
	if cfg.Store.Driver != config.StoreSQLite {
		t.Fatalf("expected sqlite driver, got %q", cfg.Store.Driver)
	}
	if cfg.Coach.DailyStoneGoal != 2 || cfg.Coach.MinPromptDisplay != 2*time.Second {
		t.Fatalf("unexpected coach defaults: %+v", cfg.Coach)
	}
	if cfg.DBPath != filepath.Join(dir, "inkstone.db") {
		t.Fatalf("unexpected db path %s", cfg.DBPath)
	}
}

func TestNewOverlaysYAMLFile(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	content := `
vault: notes
store:
  driver: file
log:
  mode: prod
coach:
  daily_stone_goal: 3
  min_prompt_display: 5s
  prompt_check_every: 10s
`
	if err := os.WriteFile(filepath.Join(dir, config.FileName), []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	cfg, err := config.New(dir)
	if err != nil {
		t.Fatalf("new config: %v", err)
	}
	if cfg.VaultPath != filepath.Join(dir, "notes") {
		t.Fatalf("expected vault relative to data dir, got %s", cfg.VaultPath)
	}
	if cfg.Store.Driver != config.StoreFile || cfg.Log.Mode != "prod" {
		t.Fatalf("unexpected overlay: %+v %+v", cfg.Store, cfg.Log)
	}
	if cfg.Coach.DailyStoneGoal != 3 || cfg.Coach.MinPromptDisplay != 5*time.Second || cfg.Coach.PromptCheckEvery != 10*time.Second {
		t.Fatalf("unexpected coach overlay: %+v", cfg.Coach)
	}
	if cfg.Coach.PhaseCheckEvery != time.Minute {
		t.Fatalf("phase check interval should keep its default, got %s", cfg.Coach.PhaseCheckEvery)
	}
}

func TestNewRejectsBadValues(t *testing.T) {
	t.Parallel()
	if _, err := config.New(""); !errors.Is(err, apperrors.ErrInvalidInput) {
		t.Fatalf("empty data dir should be invalid input, got %v", err)
	}
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, config.FileName), []byte("store:\n  driver: etcd\n"), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	if _, err := config.New(dir); !errors.Is(err, apperrors.ErrInvalidInput) {
		t.Fatalf("unknown driver should be invalid input, got %v", err)
	}
}
