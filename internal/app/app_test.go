package app

import (
	"context"
	"testing"
	"time"

	"fleetmon/internal/config"
)

func TestApplyOverrides(t *testing.T) {
	cfg := config.Config{
		LogsGlob:       "instance_*.log",
		MetricsGlob:    "metrics/*.jsonl",
		RefreshSeconds: 1.0,
		BucketSeconds:  10,
		Chart:          "auto",
	}
	applyOverrides(&cfg, Options{
		LogsGlob: "other_*.log",
		Interval: 0.5,
		Chart:    "ascii",
	})

	if cfg.LogsGlob != "other_*.log" {
		t.Errorf("LogsGlob = %q", cfg.LogsGlob)
	}
	if cfg.MetricsGlob != "metrics/*.jsonl" {
		t.Errorf("MetricsGlob overridden unexpectedly: %q", cfg.MetricsGlob)
	}
	if cfg.RefreshSeconds != 0.5 {
		t.Errorf("RefreshSeconds = %v", cfg.RefreshSeconds)
	}
	if cfg.BucketSeconds != 10 {
		t.Errorf("BucketSeconds = %d", cfg.BucketSeconds)
	}
	if cfg.Chart != "ascii" {
		t.Errorf("Chart = %q", cfg.Chart)
	}
}

func TestHeadlessRequiresSnapshotDir(t *testing.T) {
	err := Run(context.Background(), Options{
		ConfigPath: "/nonexistent/config.toml",
		Headless:   true,
	})
	if err == nil {
		t.Fatal("expected an error for headless mode without a snapshot dir")
	}
}

func TestHeadlessQuitAfter(t *testing.T) {
	dir := t.TempDir()
	err := Run(context.Background(), Options{
		ConfigPath:  "/nonexistent/config.toml",
		LogsGlob:    dir + "/instance_*.log",
		MetricsGlob: dir + "/*.jsonl",
		Interval:    0.2,
		SnapshotDir: dir + "/snap",
		QuitAfter:   300 * time.Millisecond,
		Headless:    true,
	})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
}
