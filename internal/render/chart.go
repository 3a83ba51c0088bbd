package render

import (
	"fmt"

	"github.com/guptarohit/asciigraph"

	"fleetmon/internal/metrics"
)

// chartMargin is the horizontal space asciigraph spends on the y-axis
// and its labels; points beyond width-chartMargin would overflow.
const chartMargin = 8

// Chart renders a labelled success/failure line chart with asciigraph.
type Chart struct{}

// NewChart constructs the rich renderer.
func NewChart() Chart { return Chart{} }

func (Chart) Name() string { return ModeChart.String() }

// Available probes the renderer once at startup by drawing a trivial
// chart. A panic or empty output marks the capability unavailable for
// the rest of the session.
func (c Chart) Available() (ok bool) {
	defer func() {
		if recover() != nil {
			ok = false
		}
	}()
	probe := []metrics.Bucket{{Start: 0, Success: 1}, {Start: 10, Fail: 1}}
	out, err := c.Render(probe, 10, 40, 8)
	return err == nil && out != ""
}

// Render windows the timeline to the points that fit horizontally and
// plots success and failure as separate series. asciigraph panics on
// inputs it cannot plot; those are converted into an error so the
// caller can fall back to ASCII.
func (Chart) Render(buckets []metrics.Bucket, bucketWidth, width, height int) (out string, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("chart render: %v", r)
		}
	}()

	if len(buckets) == 0 {
		return noData, nil
	}

	maxPoints := width - chartMargin
	if maxPoints < 1 {
		maxPoints = 1
	}
	if len(buckets) > maxPoints {
		buckets = buckets[len(buckets)-maxPoints:]
	}

	success := make([]float64, len(buckets))
	failure := make([]float64, len(buckets))
	for i, b := range buckets {
		success[i] = float64(b.Success)
		failure[i] = float64(b.Fail)
	}

	plotHeight := height - 2 // caption + legend rows
	if plotHeight < 3 {
		plotHeight = 3
	}

	out = asciigraph.PlotMany(
		[][]float64{success, failure},
		asciigraph.Height(plotHeight),
		asciigraph.SeriesColors(asciigraph.Green, asciigraph.Red),
		asciigraph.SeriesLegends("success", "failure"),
		asciigraph.Caption(fmt.Sprintf("last %d buckets (%ds each)", len(buckets), bucketWidth)),
	)
	if out == "" {
		return "", fmt.Errorf("chart render: empty output")
	}
	return out, nil
}
