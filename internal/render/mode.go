package render

// Mode selects how the timeline is drawn.
type Mode int

const (
	// ModeAuto prefers the rich chart when available.
	ModeAuto Mode = iota
	// ModeChart is the rich two-series line chart.
	ModeChart
	// ModeASCII is the guaranteed-available density sparkline.
	ModeASCII
)

// ParseMode maps a config/flag value to a Mode, defaulting to auto.
func ParseMode(s string) Mode {
	switch s {
	case "chart":
		return ModeChart
	case "ascii":
		return ModeASCII
	default:
		return ModeAuto
	}
}

func (m Mode) String() string {
	switch m {
	case ModeChart:
		return "chart"
	case ModeASCII:
		return "ascii"
	default:
		return "auto"
	}
}
