package dash

import (
	"time"

	"fleetmon/internal/render"
)

// Clamp ranges for live-tunable session knobs. Out-of-range command
// arguments are clamped to the nearest valid value, never rejected.
const (
	MinRefresh  = 200 * time.Millisecond
	MaxRefresh  = 5 * time.Second
	refreshStep = 100 * time.Millisecond

	MinBucketSeconds = 1
	MaxBucketSeconds = 120
	bucketStep       = 5

	// logCapacity bounds the rolling log buffer; the oldest lines are
	// dropped first.
	logCapacity = 500
)

// Session holds the live-tunable dashboard state: refresh cadence,
// pause flag, chart mode, and the rolling log buffer. It lives for the
// whole program run and is mutated only by the control loop.
type Session struct {
	refresh   time.Duration
	paused    bool
	chartMode render.Mode
	logs      []string
}

// NewSession clamps the initial refresh interval and chart mode into
// range.
func NewSession(refresh time.Duration, chartMode render.Mode) *Session {
	return &Session{
		refresh:   clampRefresh(refresh),
		chartMode: chartMode,
		logs:      make([]string, 0, logCapacity),
	}
}

// Refresh returns the current poll interval.
func (s *Session) Refresh() time.Duration { return s.refresh }

// Faster shortens the refresh interval by one step, clamped so the
// dashboard never busy-loops.
func (s *Session) Faster() time.Duration {
	s.refresh = clampRefresh(s.refresh - refreshStep)
	return s.refresh
}

// Slower lengthens the refresh interval by one step, clamped so the
// dashboard stays responsive.
func (s *Session) Slower() time.Duration {
	s.refresh = clampRefresh(s.refresh + refreshStep)
	return s.refresh
}

// Paused reports whether polling is suspended.
func (s *Session) Paused() bool { return s.paused }

// TogglePause flips between Running and Paused and returns the new
// paused state. No other command changes it.
func (s *Session) TogglePause() bool {
	s.paused = !s.paused
	return s.paused
}

// ChartMode returns the requested (not resolved) chart mode.
func (s *Session) ChartMode() render.Mode { return s.chartMode }

// CycleChart toggles between the two concrete modes. Without the rich
// capability it pins the mode to ASCII, never landing on an
// unavailable renderer.
func (s *Session) CycleChart(richAvailable bool) render.Mode {
	if !richAvailable {
		s.chartMode = render.ModeASCII
		return s.chartMode
	}
	if s.chartMode == render.ModeChart || s.chartMode == render.ModeAuto {
		s.chartMode = render.ModeASCII
	} else {
		s.chartMode = render.ModeChart
	}
	return s.chartMode
}

// AppendLog adds a line to the rolling buffer, evicting the oldest
// line once the buffer is full.
func (s *Session) AppendLog(line string) {
	if len(s.logs) == logCapacity {
		copy(s.logs, s.logs[1:])
		s.logs = s.logs[:logCapacity-1]
	}
	s.logs = append(s.logs, line)
}

// Logs returns up to n of the most recent log lines, oldest first.
// n <= 0 returns everything buffered.
func (s *Session) Logs(n int) []string {
	start := 0
	if n > 0 && len(s.logs) > n {
		start = len(s.logs) - n
	}
	out := make([]string, len(s.logs)-start)
	copy(out, s.logs[start:])
	return out
}

// ClearLogs empties the rolling buffer.
func (s *Session) ClearLogs() {
	s.logs = s.logs[:0]
}

func clampRefresh(d time.Duration) time.Duration {
	if d < MinRefresh {
		return MinRefresh
	}
	if d > MaxRefresh {
		return MaxRefresh
	}
	return d
}

// ClampBucketSeconds clamps a bucket width into the allowed range.
func ClampBucketSeconds(sec int) int {
	if sec < MinBucketSeconds {
		return MinBucketSeconds
	}
	if sec > MaxBucketSeconds {
		return MaxBucketSeconds
	}
	return sec
}
