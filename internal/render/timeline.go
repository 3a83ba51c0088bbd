package render

import (
	"fmt"
	"strings"

	"fleetmon/internal/metrics"
)

// Renderer turns a bucket sequence into a displayable text block, no
// wider than width and no taller than height.
type Renderer interface {
	Name() string
	Render(buckets []metrics.Bucket, bucketWidth, width, height int) (string, error)
}

// noData is shown by every renderer for an empty timeline.
const noData = "(no data)"

// ramp is the 10-level density glyph scale, quietest first.
const ramp = " .:-=+*#%@"

// ASCII renders each bucket as one glyph scaled against the busiest
// bucket in the visible window. All-success and all-fail buckets get
// 'S' and 'F' markers instead of a density glyph, so an operator can
// tell busy-but-healthy from busy-but-failing at a glance. It never
// fails; it is the fallback of last resort.
type ASCII struct{}

func (ASCII) Name() string { return ModeASCII.String() }

func (ASCII) Render(buckets []metrics.Bucket, bucketWidth, width, height int) (string, error) {
	if width < 1 {
		width = 1
	}
	if len(buckets) == 0 {
		return noData, nil
	}
	if len(buckets) > width {
		buckets = buckets[len(buckets)-width:]
	}

	maxTotal := 1
	for _, b := range buckets {
		if v := b.Total(); v > maxTotal {
			maxTotal = v
		}
	}

	glyphs := []rune(ramp)
	top := make([]rune, 0, len(buckets))
	bottom := make([]rune, 0, len(buckets))
	for _, b := range buckets {
		ch := glyphs[(len(glyphs)-1)*b.Total()/maxTotal]
		switch {
		case b.Success > 0 && b.Fail == 0:
			ch = 'S'
		case b.Fail > 0 && b.Success == 0:
			ch = 'F'
		}
		top = append(top, ch)
		if b.Fail > 0 && b.Success == 0 {
			bottom = append(bottom, 'F')
		} else {
			bottom = append(bottom, ' ')
		}
	}

	rows := []string{pad(string(top), width)}
	if height >= 2 {
		rows = append(rows, pad(string(bottom), width))
	}
	return strings.Join(rows, "\n"), nil
}

func pad(s string, width int) string {
	if n := len([]rune(s)); n < width {
		return s + strings.Repeat(" ", width-n)
	}
	return s
}

// Frame bundles a timeline snapshot with the session's current render
// geometry.
type Frame struct {
	Buckets     []metrics.Bucket
	BucketWidth int
}

// Selector resolves chart modes against the rich renderer's
// availability and performs the unconditional fallback to ASCII.
type Selector struct {
	rich          Renderer
	ascii         Renderer
	richAvailable bool
}

// NewSelector probes the rich renderer once at startup; availability
// is not re-checked per render.
func NewSelector() *Selector {
	rich := NewChart()
	return &Selector{
		rich:          rich,
		ascii:         ASCII{},
		richAvailable: rich.Available(),
	}
}

// NewSelectorFor builds a selector from explicit renderers, for callers
// that supply the rich capability themselves.
func NewSelectorFor(rich, ascii Renderer, richAvailable bool) *Selector {
	return &Selector{rich: rich, ascii: ascii, richAvailable: richAvailable}
}

// RichAvailable reports whether the rich chart renderer can be used.
func (s *Selector) RichAvailable() bool { return s.richAvailable }

// Resolve maps the requested mode to a concrete one. Auto prefers the
// rich chart when available; an explicit chart request degrades to
// ASCII when the capability is missing; ASCII is unconditional.
func (s *Selector) Resolve(m Mode) Mode {
	switch m {
	case ModeASCII:
		return ModeASCII
	case ModeChart:
		if s.richAvailable {
			return ModeChart
		}
		return ModeASCII
	default:
		if s.richAvailable {
			return ModeChart
		}
		return ModeASCII
	}
}

// Timeline renders the frame in the resolved mode. Any rich-chart
// failure falls back to ASCII; the returned mode tells the caller
// which renderer actually produced the text so it can log a hint.
func (s *Selector) Timeline(m Mode, f Frame, width, height int) (string, Mode) {
	if s.Resolve(m) == ModeChart {
		out, err := s.rich.Render(f.Buckets, f.BucketWidth, width, height)
		if err == nil {
			return out, ModeChart
		}
	}
	out, _ := s.ascii.Render(f.Buckets, f.BucketWidth, width, height)
	return out, ModeASCII
}

// StatsBlock builds the plain-text stats panel: totals, the trailing
// bucket, and the busiest regions and instances. Shared by the TUI
// pane and the snapshot writer.
func StatsBlock(snap metrics.Snapshot) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Total: %d  Success: %d  Fail: %d\n", snap.Total(), snap.Success, snap.Fail)
	if snap.Dropped > 0 {
		fmt.Fprintf(&b, "Dropped: %d\n", snap.Dropped)
	}
	if last, ok := snap.LastBucket(); ok {
		fmt.Fprintf(&b, "Last %ds  S:%d F:%d\n", snap.BucketWidth, last.Success, last.Fail)
	}
	b.WriteString("Regions:\n")
	for _, reg := range snap.TopRegions {
		fmt.Fprintf(&b, "  %-18s S:%4d F:%4d\n", reg.Name, reg.Success, reg.Fail)
	}
	b.WriteString("Instances:\n")
	for _, inst := range snap.TopInstances {
		fmt.Fprintf(&b, "  %-18s S:%4d F:%4d\n", inst.Name, inst.Success, inst.Fail)
	}
	return strings.TrimRight(b.String(), "\n")
}

// HeaderLine builds the one-line session summary shown in the header
// bar and written to the snapshot directory.
func HeaderLine(snap metrics.Snapshot, aux string, mode Mode, refreshSeconds float64) string {
	topRegion := "unknown"
	if len(snap.TopRegions) > 0 {
		topRegion = snap.TopRegions[0].Name
	}
	return fmt.Sprintf("total=%d success=%d fail=%d | top-region=%s | %s | chart=%s | bucket=%ds | r=%.1fs",
		snap.Total(), snap.Success, snap.Fail, topRegion, aux, mode, snap.BucketWidth, refreshSeconds)
}
