package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"fleetmon/internal/app"
)

func main() {
	os.Exit(run())
}

func run() int {
	configPath := flag.String("config", "", "config file path (optional)")
	logsGlob := flag.String("logs", "", "glob for worker log files (optional)")
	metricsGlob := flag.String("metrics", "", "glob for metrics JSONL files (optional)")
	interval := flag.Float64("interval", 0, "refresh interval in seconds (optional, defaults to 1s)")
	bucket := flag.Int("bucket", 0, "timeline bucket width in seconds (optional, defaults to 10s)")
	chart := flag.String("chart", "", "chart mode: auto, chart, or ascii (optional)")
	snapshotDir := flag.String("snapshot-dir", "", "directory for snapshot files (optional)")
	quitAfter := flag.Duration("quit-after", 0, "exit after this duration (optional)")
	headless := flag.Bool("headless", false, "run without a terminal, writing snapshots only")
	debugLog := flag.String("debug-log", "", "append operational logging to this file (optional)")
	flag.Parse()

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	opts := app.Options{
		ConfigPath:  *configPath,
		LogsGlob:    *logsGlob,
		MetricsGlob: *metricsGlob,
		Interval:    *interval,
		Bucket:      *bucket,
		Chart:       *chart,
		SnapshotDir: *snapshotDir,
		QuitAfter:   *quitAfter,
		Headless:    *headless,
		DebugLog:    *debugLog,
	}

	if err := app.Run(ctx, opts); err != nil {
		if errors.Is(err, context.Canceled) {
			return 0
		}
		fmt.Fprintf(os.Stderr, "fleetmon: %v\n", err)
		return 1
	}
	return 0
}
