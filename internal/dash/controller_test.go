package dash

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"fleetmon/internal/metrics"
	"fleetmon/internal/render"
)

func newTestController(t *testing.T, dir string) *Controller {
	t.Helper()
	return NewController(ControllerOptions{
		LogsGlob:      filepath.Join(dir, "worker_*.log"),
		MetricsGlob:   filepath.Join(dir, "metrics", "*.jsonl"),
		Refresh:       time.Second,
		BucketSeconds: 10,
		ChartMode:     render.ModeASCII,
	})
}

func writeLines(t *testing.T, path string, lines ...string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer f.Close()
	for _, ln := range lines {
		if _, err := f.WriteString(ln + "\n"); err != nil {
			t.Fatalf("write: %v", err)
		}
	}
}

func TestTickIngestsLogsAndMetrics(t *testing.T) {
	dir := t.TempDir()
	writeLines(t, filepath.Join(dir, "worker_1.log"), "worker started")
	writeLines(t, filepath.Join(dir, "metrics", "run.jsonl"),
		`{"ts":"2024-01-01T00:00:00","instance_id":"a","success":true,"batch_region":"r1"}`,
		`{"ts":"2024-01-01T00:00:05","instance_id":"b","success":false,"batch_region":"r1"}`,
	)

	c := newTestController(t, dir)
	c.Tick(time.Date(2024, 1, 1, 0, 0, 9, 0, time.UTC))

	snap := c.Snapshot()
	if snap.Success != 1 || snap.Fail != 1 {
		t.Errorf("totals = (%d, %d), want (1, 1)", snap.Success, snap.Fail)
	}
	if len(snap.Timeline) != 1 {
		t.Errorf("timeline has %d buckets, want 1", len(snap.Timeline))
	}

	logs := c.Session().Logs(0)
	if len(logs) != 1 || logs[0] != "[worker_1.log] worker started" {
		t.Errorf("logs = %v", logs)
	}
}

func TestTickWhilePausedIsNoOp(t *testing.T) {
	dir := t.TempDir()
	c := newTestController(t, dir)
	c.Session().TogglePause()

	writeLines(t, filepath.Join(dir, "metrics", "run.jsonl"),
		`{"ts":"2024-01-01T00:00:00","instance_id":"a","success":true,"batch_region":"r1"}`,
	)
	c.Tick(time.Date(2024, 1, 1, 0, 0, 9, 0, time.UTC))

	snap := c.Snapshot()
	if snap.Total() != 0 || len(snap.Timeline) != 0 {
		t.Errorf("paused tick mutated state: %+v", snap)
	}

	// Resuming picks the lines up on the next tick.
	c.Session().TogglePause()
	c.Tick(time.Date(2024, 1, 1, 0, 0, 9, 0, time.UTC))
	if snap := c.Snapshot(); snap.Success != 1 {
		t.Errorf("post-resume totals = %+v, want success=1", snap)
	}
}

func TestTickBackfillsIdlePeriods(t *testing.T) {
	dir := t.TempDir()
	writeLines(t, filepath.Join(dir, "metrics", "run.jsonl"),
		`{"ts":"2024-01-01T00:00:00","instance_id":"a","success":true,"batch_region":"r1"}`,
	)
	c := newTestController(t, dir)
	c.Tick(time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC))

	// Idle ticks keep the timeline's trailing edge moving.
	c.Tick(time.Date(2024, 1, 1, 0, 0, 30, 0, time.UTC))
	snap := c.Snapshot()
	if len(snap.Timeline) != 4 {
		t.Fatalf("timeline has %d buckets after idle ticks, want 4", len(snap.Timeline))
	}
	for _, b := range snap.Timeline[1:] {
		if b.Total() != 0 {
			t.Errorf("backfilled bucket %+v not empty", b)
		}
	}
}

func TestBucketCommandsClamp(t *testing.T) {
	dir := t.TempDir()
	c := newTestController(t, dir)

	if got := c.BucketUp(); got != 15 {
		t.Errorf("BucketUp() = %d, want 15", got)
	}
	for i := 0; i < 50; i++ {
		c.BucketUp()
	}
	if got := c.BucketWidth(); got != MaxBucketSeconds {
		t.Errorf("BucketWidth() = %d, want clamped %d", got, MaxBucketSeconds)
	}
	for i := 0; i < 50; i++ {
		c.BucketDown()
	}
	if got := c.BucketWidth(); got != MinBucketSeconds {
		t.Errorf("BucketWidth() = %d, want clamped %d", got, MinBucketSeconds)
	}
}

func TestWriteSnapshotFiles(t *testing.T) {
	dir := t.TempDir()
	snapDir := filepath.Join(dir, "snaps")
	writeLines(t, filepath.Join(dir, "worker_1.log"), "hello")
	writeLines(t, filepath.Join(dir, "metrics", "run.jsonl"),
		`{"ts":"2024-01-01T00:00:00","instance_id":"a","success":true,"batch_region":"r1"}`,
	)

	c := NewController(ControllerOptions{
		LogsGlob:      filepath.Join(dir, "worker_*.log"),
		MetricsGlob:   filepath.Join(dir, "metrics", "*.jsonl"),
		Refresh:       time.Second,
		BucketSeconds: 10,
		ChartMode:     render.ModeASCII,
		SnapshotDir:   snapDir,
	})
	c.Tick(time.Date(2024, 1, 1, 0, 0, 5, 0, time.UTC))

	header, err := os.ReadFile(filepath.Join(snapDir, "header.txt"))
	if err != nil {
		t.Fatalf("read header.txt: %v", err)
	}
	if !strings.Contains(string(header), "total=1 success=1 fail=0") {
		t.Errorf("header.txt = %q", header)
	}
	for _, name := range []string{"stats.txt", "timeline.txt", "logs.txt"} {
		if _, err := os.Stat(filepath.Join(snapDir, name)); err != nil {
			t.Errorf("missing snapshot file %s: %v", name, err)
		}
	}
}

type brokenRenderer struct{}

func (brokenRenderer) Name() string { return "broken" }
func (brokenRenderer) Render([]metrics.Bucket, int, int, int) (string, error) {
	return "", errors.New("render failed")
}

func TestTimelineFallbackHintIsLatched(t *testing.T) {
	dir := t.TempDir()
	c := NewController(ControllerOptions{
		LogsGlob:      filepath.Join(dir, "worker_*.log"),
		MetricsGlob:   filepath.Join(dir, "metrics", "*.jsonl"),
		Refresh:       time.Second,
		BucketSeconds: 10,
		ChartMode:     render.ModeChart,
	})
	c.selector = render.NewSelectorFor(brokenRenderer{}, render.ASCII{}, true)

	for i := 0; i < 5; i++ {
		c.Timeline(40, 8)
	}
	hints := 0
	for _, line := range c.Session().Logs(0) {
		if strings.Contains(line, "using ascii") {
			hints++
		}
	}
	if hints != 1 {
		t.Fatalf("fallback hint logged %d times across 5 renders, want 1", hints)
	}

	// A successful render re-arms the hint for the next failure.
	c.selector = render.NewSelectorFor(render.NewChart(), render.ASCII{}, true)
	c.Timeline(40, 8)
	c.selector = render.NewSelectorFor(brokenRenderer{}, render.ASCII{}, true)
	c.Timeline(40, 8)

	hints = 0
	for _, line := range c.Session().Logs(0) {
		if strings.Contains(line, "using ascii") {
			hints++
		}
	}
	if hints != 2 {
		t.Fatalf("fallback hint logged %d times after recovery and re-failure, want 2", hints)
	}
}

func TestHeaderLineFormat(t *testing.T) {
	dir := t.TempDir()
	c := newTestController(t, dir)
	got := c.HeaderLine()
	want := fmt.Sprintf("total=0 success=0 fail=0 | top-region=unknown | vpn=na:na:na | chart=ascii | bucket=10s | r=%.1fs", 1.0)
	if got != want {
		t.Errorf("HeaderLine() = %q, want %q", got, want)
	}
}
