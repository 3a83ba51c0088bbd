// Package ui provides the Bubble Tea front-end for the dashboard. It
// is a thin adapter: timers and key presses go in, controller state
// comes out. All aggregation lives in the dash engine.
package ui

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"fleetmon/internal/dash"
	"fleetmon/internal/prefs"
	"fleetmon/internal/vpn"
)

// auxPollEvery is the cadence of the auxiliary VPN status refresh,
// independent of the main tick.
const auxPollEvery = 3 * time.Second

// Options configures the UI.
type Options struct {
	Context    context.Context
	Controller *dash.Controller
	VPN        *vpn.Poller
	ThemeName  string
	PrefsPath  string
	QuitAfter  time.Duration
}

// Model is the root application state for Bubble Tea.
type Model struct {
	ctx       context.Context
	ctrl      *dash.Controller
	vpnPoller *vpn.Poller
	prefsPath string
	quitAfter time.Duration

	theme  Theme
	width  int
	height int
	ready  bool

	// tickGen invalidates in-flight ticks when the refresh interval
	// changes, so rescheduling takes effect immediately.
	tickGen int

	logView  viewport.Model
	showHelp bool
}

// New creates the Bubble Tea model.
func New(opts Options) Model {
	ctx := opts.Context
	if ctx == nil {
		ctx = context.Background()
	}
	themeName := opts.ThemeName
	if themeName == "" {
		themeName = "Dracula"
	}
	prefsPath := opts.PrefsPath
	if prefsPath == "" {
		prefsPath = prefs.DefaultPath()
	}
	return Model{
		ctx:       ctx,
		ctrl:      opts.Controller,
		vpnPoller: opts.VPN,
		prefsPath: prefsPath,
		quitAfter: opts.QuitAfter,
		theme:     GetTheme(themeName),
	}
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	cmds := []tea.Cmd{
		tea.EnterAltScreen,
		tickCmd(m.ctrl.Session().Refresh(), m.tickGen),
		auxTickCmd(),
		pollAuxCmd(m.ctx, m.vpnPoller),
	}
	if m.quitAfter > 0 {
		cmds = append(cmds, deadlineCmd(m.quitAfter))
	}
	return tea.Batch(cmds...)
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		if !m.ready {
			m.logView = viewport.New(m.logPaneWidth(), m.paneHeight())
		} else {
			m.logView.Width = m.logPaneWidth()
			m.logView.Height = m.paneHeight()
		}
		m.ready = true
		m.refreshLogView()
		return m, nil

	case tickMsg:
		if msg.gen != m.tickGen {
			return m, nil // superseded by a reschedule
		}
		m.ctrl.Tick(time.Now())
		m.refreshLogView()
		return m, tickCmd(m.ctrl.Session().Refresh(), m.tickGen)

	case auxTickMsg:
		return m, tea.Batch(auxTickCmd(), pollAuxCmd(m.ctx, m.vpnPoller))

	case auxStatusMsg:
		m.ctrl.SetAux(vpn.Status(msg))
		return m, nil

	case deadlineMsg:
		return m, tea.Quit
	}
	return m, nil
}

// handleKey dispatches the control surface: every command is discrete
// and argument-free; invalid values are clamped inside the engine.
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	// Quit works everywhere, including under the help overlay.
	switch msg.String() {
	case "q", "ctrl+c":
		return m, tea.Quit
	}

	if m.showHelp {
		m.showHelp = false
		return m, nil
	}

	session := m.ctrl.Session()
	switch msg.String() {

	case "p":
		paused := session.TogglePause()
		session.AppendLog(fmt.Sprintf("[dash] paused=%v", paused))
		m.refreshLogView()
		return m, nil

	case "+":
		session.Faster()
		return m.rescheduleTick()

	case "-":
		session.Slower()
		return m.rescheduleTick()

	case "t":
		mode := session.CycleChart(m.ctrl.RichAvailable())
		if !m.ctrl.RichAvailable() {
			session.AppendLog("[dash] rich chart unavailable; using ascii")
		} else {
			session.AppendLog("[dash] chart mode: " + mode.String())
		}
		m.refreshLogView()
		return m, nil

	case "[":
		width := m.ctrl.BucketDown()
		session.AppendLog(fmt.Sprintf("[dash] bucket window: %ds", width))
		m.refreshLogView()
		return m, nil

	case "]":
		width := m.ctrl.BucketUp()
		session.AppendLog(fmt.Sprintf("[dash] bucket window: %ds", width))
		m.refreshLogView()
		return m, nil

	case "c":
		session.ClearLogs()
		m.refreshLogView()
		return m, nil

	case "T":
		m.theme = GetTheme(NextTheme(m.theme.Name))
		_ = prefs.Save(m.prefsPath, prefs.Prefs{
			Theme: m.theme.Name,
			Chart: session.ChartMode().String(),
		})
		return m, nil

	case "h", "?":
		m.showHelp = true
		return m, nil
	}

	// Everything else scrolls the log pane.
	var cmd tea.Cmd
	m.logView, cmd = m.logView.Update(msg)
	return m, cmd
}

func (m Model) rescheduleTick() (tea.Model, tea.Cmd) {
	m.tickGen++
	session := m.ctrl.Session()
	session.AppendLog(fmt.Sprintf("[dash] refresh=%.1fs", session.Refresh().Seconds()))
	m.refreshLogView()
	return m, tickCmd(session.Refresh(), m.tickGen)
}

// Messages

type tickMsg struct {
	gen int
}

type auxTickMsg time.Time

type auxStatusMsg vpn.Status

type deadlineMsg time.Time

// Commands

func tickCmd(d time.Duration, gen int) tea.Cmd {
	return tea.Tick(d, func(time.Time) tea.Msg {
		return tickMsg{gen: gen}
	})
}

func auxTickCmd() tea.Cmd {
	return tea.Tick(auxPollEvery, func(t time.Time) tea.Msg {
		return auxTickMsg(t)
	})
}

// pollAuxCmd queries the VPN control command off the update loop; each
// field has its own hard timeout, so a wedged command can never stall
// a tick.
func pollAuxCmd(ctx context.Context, poller *vpn.Poller) tea.Cmd {
	return func() tea.Msg {
		return auxStatusMsg(poller.Poll(ctx))
	}
}

func deadlineCmd(d time.Duration) tea.Cmd {
	return tea.Tick(d, func(t time.Time) tea.Msg {
		return deadlineMsg(t)
	})
}

// Run starts the Bubble Tea program and blocks until exit. Cancelling
// the context counts as a clean shutdown, not an error.
func Run(opts Options) error {
	model := New(opts)
	p := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(model.ctx))
	if _, err := p.Run(); err != nil {
		if model.ctx.Err() != nil {
			return nil
		}
		return err
	}
	return nil
}
