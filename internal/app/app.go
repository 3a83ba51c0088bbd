// Package app assembles the dashboard from its parts: configuration,
// preferences, the shared engine, and one of two front-ends (the
// interactive terminal UI or the headless snapshot loop).
package app

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"time"

	"fleetmon/internal/config"
	"fleetmon/internal/dash"
	"fleetmon/internal/prefs"
	"fleetmon/internal/render"
	"fleetmon/internal/ui"
	"fleetmon/internal/vpn"
)

// Options carries the command-line surface. Zero values mean "not set";
// set fields override the config file.
type Options struct {
	ConfigPath  string
	LogsGlob    string
	MetricsGlob string
	Interval    float64
	Bucket      int
	Chart       string
	SnapshotDir string
	QuitAfter   time.Duration
	Headless    bool
	DebugLog    string
}

// Run loads configuration, applies flag overrides, and drives the
// selected front-end until ctx is cancelled or the UI exits.
func Run(ctx context.Context, opts Options) error {
	cfg, err := config.Load(opts.ConfigPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	applyOverrides(&cfg, opts)

	if opts.Headless && cfg.SnapshotDir == "" {
		return fmt.Errorf("headless mode requires a snapshot dir")
	}

	// The TUI owns the terminal, so operational logging must go to a
	// file or nowhere.
	closeLog, err := routeLogging(opts.DebugLog, opts.Headless)
	if err != nil {
		return err
	}
	defer closeLog()

	saved := prefs.Load(prefs.DefaultPath())
	chart := cfg.Chart
	if chart == "" && saved.Chart != "" {
		chart = saved.Chart
	}

	ctrl := dash.NewController(dash.ControllerOptions{
		LogsGlob:      cfg.LogsGlob,
		MetricsGlob:   cfg.MetricsGlob,
		Refresh:       time.Duration(cfg.RefreshSeconds * float64(time.Second)),
		BucketSeconds: cfg.BucketSeconds,
		ChartMode:     render.ParseMode(chart),
		SnapshotDir:   cfg.SnapshotDir,
	})

	if opts.Headless {
		return runHeadless(ctx, ctrl, opts.QuitAfter)
	}

	return ui.Run(ui.Options{
		Context:    ctx,
		Controller: ctrl,
		VPN:        vpn.NewPoller(cfg.VPNCommand),
		ThemeName:  saved.Theme,
		QuitAfter:  opts.QuitAfter,
	})
}

func routeLogging(path string, headless bool) (func(), error) {
	if path != "" {
		file, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
		if err != nil {
			return nil, fmt.Errorf("open debug log: %w", err)
		}
		log.SetOutput(file)
		return func() { file.Close() }, nil
	}
	if !headless {
		log.SetOutput(io.Discard)
	}
	return func() {}, nil
}

func applyOverrides(cfg *config.Config, opts Options) {
	if opts.LogsGlob != "" {
		cfg.LogsGlob = opts.LogsGlob
	}
	if opts.MetricsGlob != "" {
		cfg.MetricsGlob = opts.MetricsGlob
	}
	if opts.Interval > 0 {
		cfg.RefreshSeconds = opts.Interval
	}
	if opts.Bucket > 0 {
		cfg.BucketSeconds = opts.Bucket
	}
	if opts.Chart != "" {
		cfg.Chart = opts.Chart
	}
	if opts.SnapshotDir != "" {
		cfg.SnapshotDir = opts.SnapshotDir
	}
}
