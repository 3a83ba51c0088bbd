package ui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Layout constants. The log pane takes the left 60% of the terminal;
// stats and timeline stack in the right column.
const (
	headerRows   = 1
	commandRows  = 1
	paneChrome   = 2 // border top+bottom
	logPaneRatio = 0.6
	minPaneWidth = 20
	minPaneRows  = 4
)

func (m Model) logPaneWidth() int {
	w := int(float64(m.width) * logPaneRatio)
	if w < minPaneWidth {
		w = minPaneWidth
	}
	return w - paneChrome
}

func (m Model) sidePaneWidth() int {
	w := m.width - (m.logPaneWidth() + paneChrome)
	if w < minPaneWidth {
		w = minPaneWidth
	}
	return w - paneChrome
}

func (m Model) paneHeight() int {
	h := m.height - headerRows - commandRows - paneChrome
	if h < minPaneRows {
		h = minPaneRows
	}
	return h
}

// refreshLogView pushes the current log ring into the viewport and
// keeps it pinned to the newest lines.
func (m *Model) refreshLogView() {
	if !m.ready {
		return
	}
	m.logView.SetContent(strings.Join(m.ctrl.Session().Logs(0), "\n"))
	m.logView.GotoBottom()
}

// View implements tea.Model.
func (m Model) View() string {
	if !m.ready {
		return "starting..."
	}
	styles := m.theme.Styles()

	header := styles.Header.Width(m.width).Render(m.ctrl.HeaderLine())
	commands := styles.Muted.Render(
		" q quit  p pause  +/- speed  t chart  [/] bucket  c clear  T theme  ? help")

	if m.showHelp {
		return lipgloss.JoinVertical(lipgloss.Left, header, commands, m.helpView(styles))
	}

	logPane := styles.Pane.Width(m.logPaneWidth()).Render(
		styles.Title.Render("Logs") + "\n" + m.logView.View())

	sideW := m.sidePaneWidth()
	statsBody := m.ctrl.StatsBlock()
	statsPane := styles.Pane.Width(sideW).Render(
		styles.Title.Render("Stats") + "\n" + statsBody)

	statsRows := strings.Count(statsBody, "\n") + 1
	chartH := m.paneHeight() - statsRows - paneChrome - 2
	if chartH < 3 {
		chartH = 3
	}
	timeline := m.ctrl.Timeline(sideW-2, chartH)
	chartPane := styles.Pane.Width(sideW).Render(
		styles.Title.Render("Timeline") + "\n" + timeline)

	right := lipgloss.JoinVertical(lipgloss.Left, statsPane, chartPane)
	body := lipgloss.JoinHorizontal(lipgloss.Top, logPane, right)

	return lipgloss.JoinVertical(lipgloss.Left, header, commands, body)
}

func (m Model) helpView(styles Styles) string {
	lines := []string{
		styles.Title.Render("Keys"),
		"  q, ctrl+c   quit",
		"  p           pause/resume polling",
		"  +, -        faster/slower refresh (0.2s-5s)",
		"  t           cycle chart mode (auto/chart/ascii)",
		"  [, ]        shrink/grow bucket window (1s-120s)",
		"  c           clear the log pane",
		"  T           cycle color theme",
		"  ?, h        toggle this help",
		"",
		styles.Muted.Render("press any other key to close"),
	}
	return styles.Pane.Width(m.width - paneChrome).Render(strings.Join(lines, "\n"))
}
