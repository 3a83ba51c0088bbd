package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	toml "github.com/pelletier/go-toml/v2"
)

// Config captures the dashboard's startup settings. Flags may override
// any field after loading.
type Config struct {
	LogsGlob       string
	MetricsGlob    string
	RefreshSeconds float64
	BucketSeconds  int
	Chart          string
	SnapshotDir    string
	VPNCommand     string
}

const (
	defaultConfigPath     = "~/.config/fleetmon/config.toml"
	defaultLogsGlob       = "instance_*.log"
	defaultMetricsGlob    = "metrics/*.jsonl"
	defaultRefreshSeconds = 1.0
	defaultBucketSeconds  = 10
	defaultChart          = "auto"
	defaultVPNCommand     = "piactl"
)

// Load locates and parses the config file, falling back to defaults
// when it is missing.
func Load(path string) (Config, error) {
	resolved, err := resolvePath(path)
	if err != nil {
		return Config{}, err
	}

	cfg := defaults()

	file, err := os.Open(resolved)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return cfg, nil
		}
		return Config{}, fmt.Errorf("open config: %w", err)
	}
	defer file.Close()

	bytes, err := io.ReadAll(file)
	if err != nil {
		return Config{}, fmt.Errorf("read config: %w", err)
	}

	var raw struct {
		LogsGlob       string  `toml:"logs_glob"`
		MetricsGlob    string  `toml:"metrics_glob"`
		RefreshSeconds float64 `toml:"refresh_seconds"`
		BucketSeconds  int     `toml:"bucket_seconds"`
		Chart          string  `toml:"chart"`
		SnapshotDir    string  `toml:"snapshot_dir"`
		VPNCommand     string  `toml:"vpn_command"`
	}
	if err := toml.Unmarshal(bytes, &raw); err != nil {
		return Config{}, fmt.Errorf("parse config: %w", err)
	}

	if glob := strings.TrimSpace(raw.LogsGlob); glob != "" {
		cfg.LogsGlob = glob
	}
	if glob := strings.TrimSpace(raw.MetricsGlob); glob != "" {
		cfg.MetricsGlob = glob
	}
	if raw.RefreshSeconds > 0 {
		cfg.RefreshSeconds = raw.RefreshSeconds
	}
	if raw.BucketSeconds > 0 {
		cfg.BucketSeconds = raw.BucketSeconds
	}
	if chart := strings.TrimSpace(raw.Chart); chart != "" {
		cfg.Chart = chart
	}
	if dir := strings.TrimSpace(raw.SnapshotDir); dir != "" {
		cfg.SnapshotDir = mustExpand(dir)
	}
	if cmd := strings.TrimSpace(raw.VPNCommand); cmd != "" {
		cfg.VPNCommand = cmd
	}

	return cfg, nil
}

func defaults() Config {
	return Config{
		LogsGlob:       defaultLogsGlob,
		MetricsGlob:    defaultMetricsGlob,
		RefreshSeconds: defaultRefreshSeconds,
		BucketSeconds:  defaultBucketSeconds,
		Chart:          defaultChart,
		VPNCommand:     defaultVPNCommand,
	}
}

func resolvePath(path string) (string, error) {
	if strings.TrimSpace(path) == "" {
		return expandPath(defaultConfigPath)
	}
	return expandPath(path)
}

func mustExpand(path string) string {
	expanded, err := expandPath(path)
	if err != nil {
		return path
	}
	return expanded
}

func expandPath(path string) (string, error) {
	trimmed := strings.TrimSpace(path)
	if trimmed == "" {
		return "", fmt.Errorf("path is empty")
	}
	if strings.HasPrefix(trimmed, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home dir: %w", err)
		}
		trimmed = filepath.Join(home, strings.TrimPrefix(trimmed, "~"))
	}
	return filepath.Abs(trimmed)
}
