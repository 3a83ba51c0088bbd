package dash

import (
	"fmt"
	"log"
	"path/filepath"
	"time"

	"fleetmon/internal/metrics"
	"fleetmon/internal/render"
	"fleetmon/internal/snapshot"
	"fleetmon/internal/tail"
	"fleetmon/internal/vpn"
)

// topCategories is how many regions/instances the stats views keep.
const topCategories = 6

// snapshotLogLines caps how many buffered log lines each snapshot
// carries.
const snapshotLogLines = 200

// Geometry used for snapshot-file renders, which have no terminal to
// measure.
const (
	snapshotWidth  = 80
	snapshotHeight = 10
)

// Controller is the shared engine behind both front-ends. On each tick
// it polls the tailers, feeds the aggregator, backfills the timeline,
// and optionally writes a snapshot. Front-ends supply only timers and
// key events and render whatever the controller exposes. All methods
// must be called from a single control goroutine.
type Controller struct {
	session     *Session
	logsTail    *tail.Tailer
	metricsTail *tail.Tailer
	agg         *metrics.Aggregator
	selector    *render.Selector
	snapshots   *snapshot.Writer
	aux         vpn.Status

	// fallbackHinted latches the degradation hint so a persistently
	// failing rich renderer does not flood the log ring on every frame.
	fallbackHinted bool
}

// ControllerOptions wires a Controller.
type ControllerOptions struct {
	LogsGlob      string
	MetricsGlob   string
	Refresh       time.Duration
	BucketSeconds int
	MaxBuckets    int
	ChartMode     render.Mode
	SnapshotDir   string
}

// NewController builds the engine with clamped settings.
func NewController(opts ControllerOptions) *Controller {
	bucket := ClampBucketSeconds(opts.BucketSeconds)
	maxBuckets := opts.MaxBuckets
	if maxBuckets < 1 {
		maxBuckets = 72
	}
	return &Controller{
		session:     NewSession(opts.Refresh, opts.ChartMode),
		logsTail:    tail.New(opts.LogsGlob),
		metricsTail: tail.New(opts.MetricsGlob),
		agg:         metrics.New(bucket, maxBuckets),
		selector:    render.NewSelector(),
		snapshots:   snapshot.NewWriter(opts.SnapshotDir),
		aux:         vpn.Unavailable(),
	}
}

// Session exposes the live-tunable state for front-end key handlers.
func (c *Controller) Session() *Session { return c.session }

// Tick runs one poll cycle. While paused it is a no-op: nothing is
// polled and the displayed state stays frozen at the last computed
// values. Ingestion completes before any caller renders.
func (c *Controller) Tick(now time.Time) {
	if c.session.Paused() {
		return
	}

	for _, line := range c.logsTail.Poll() {
		c.session.AppendLog(fmt.Sprintf("[%s] %s", filepath.Base(line.Path), line.Text))
	}

	metricLines := c.metricsTail.Poll()
	if len(metricLines) > 0 {
		texts := make([]string, len(metricLines))
		for i, line := range metricLines {
			texts[i] = line.Text
		}
		c.agg.Ingest(texts, now)
	}
	c.agg.BackfillTo(now)

	if c.snapshots != nil {
		if err := c.WriteSnapshot(); err != nil {
			log.Printf("snapshot write failed: %v", err)
		}
	}
}

// Snapshot returns the current aggregate state for rendering.
func (c *Controller) Snapshot() metrics.Snapshot {
	return c.agg.Snapshot(topCategories)
}

// RichAvailable reports whether the rich chart renderer is usable.
func (c *Controller) RichAvailable() bool { return c.selector.RichAvailable() }

// EffectiveChartMode resolves the session's requested mode against the
// rich renderer's availability.
func (c *Controller) EffectiveChartMode() render.Mode {
	return c.selector.Resolve(c.session.ChartMode())
}

// Timeline renders the timeline into the given rectangle, falling back
// to ASCII when the rich renderer fails. The fallback is silent apart
// from a log-buffer hint, emitted once per failure transition.
func (c *Controller) Timeline(width, height int) string {
	snap := c.Snapshot()
	frame := render.Frame{Buckets: snap.Timeline, BucketWidth: snap.BucketWidth}
	wanted := c.EffectiveChartMode()
	out, used := c.selector.Timeline(c.session.ChartMode(), frame, width, height)
	if used != wanted {
		if !c.fallbackHinted {
			c.session.AppendLog("[dash] chart renderer failed; using ascii")
			c.fallbackHinted = true
		}
	} else {
		c.fallbackHinted = false
	}
	return out
}

// HeaderLine builds the one-line session summary.
func (c *Controller) HeaderLine() string {
	return render.HeaderLine(c.Snapshot(), c.aux.String(), c.EffectiveChartMode(), c.session.Refresh().Seconds())
}

// StatsBlock builds the stats panel text.
func (c *Controller) StatsBlock() string {
	return render.StatsBlock(c.Snapshot())
}

// SetBucketWidth clamps and applies a new bucket width, clearing the
// timeline (history is intentionally not re-bucketed).
func (c *Controller) SetBucketWidth(seconds int) int {
	clamped := ClampBucketSeconds(seconds)
	c.agg.SetBucketWidth(clamped)
	return clamped
}

// BucketWidth returns the current bucket width in seconds.
func (c *Controller) BucketWidth() int { return c.agg.BucketWidth() }

// BucketUp widens buckets by one step.
func (c *Controller) BucketUp() int {
	return c.SetBucketWidth(c.agg.BucketWidth() + bucketStep)
}

// BucketDown narrows buckets by one step.
func (c *Controller) BucketDown() int {
	return c.SetBucketWidth(c.agg.BucketWidth() - bucketStep)
}

// SetAux stores the latest auxiliary status for the header.
func (c *Controller) SetAux(status vpn.Status) { c.aux = status }

// Aux returns the last auxiliary status.
func (c *Controller) Aux() vpn.Status { return c.aux }

// WriteSnapshot overwrites the snapshot files with the current view.
func (c *Controller) WriteSnapshot() error {
	if c.snapshots == nil {
		return nil
	}
	return c.snapshots.Write(
		c.HeaderLine(),
		c.StatsBlock(),
		c.Timeline(snapshotWidth, snapshotHeight),
		c.session.Logs(snapshotLogLines),
	)
}
