package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"freqctl/internal/composecli"
)

// View renders the UI according to the current model state.
func (m model) View() string {
	switch m.mode {
	case ModeQuitting:
		return statusStyle.Render("Shutting down...")
	case ModeLoading:
		if m.width == 0 || m.height == 0 {
			return statusStyle.Render("Loading... (waiting for window size)")
		}
		return statusStyle.Render(m.spinner.View() + " Loading fleet...")
	case ModeHelpOverlay:
		title := helpTitleStyle.Render("KEYBOARD SHORTCUTS")
		content := lipgloss.JoinVertical(lipgloss.Left, title, m.help.View(m.keys))
		box := helpOverlayStyle.Render(content)
		return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, box)
	}

	contentWidth := m.width - appStyle.GetHorizontalFrameSize()

	header := m.renderHeader(contentWidth)
	table := m.renderFleetTable(contentWidth)
	statusBar := m.renderStatusBar(m.width)

	parts := []string{header, table}
	if m.showLog {
		used := lipgloss.Height(header) + lipgloss.Height(table) + 1
		logHeight := m.height - used - 1
		if logHeight > 12 {
			logHeight = 12
		}
		if logHeight >= 4 {
			parts = append(parts, m.renderLogPane(contentWidth, logHeight))
		}
	}
	parts = append(parts, statusBar)

	return appStyle.Width(m.width).Render(lipgloss.JoinVertical(lipgloss.Left, parts...))
}

// renderHeader draws the title line with the compose path the dashboard
// is operating on.
func (m model) renderHeader(width int) string {
	title := headerStyle.Render("freqctl fleet")
	path := m.manager.ComposePath()
	avail := width - lipgloss.Width(title) - 2
	if avail < 0 {
		avail = 0
	}
	if runewidth.StringWidth(path) > avail {
		path = runewidth.Truncate(path, avail, "…")
	}
	return lipgloss.JoinHorizontal(lipgloss.Center, title, "  ", headerPathStyle.Render(path))
}

// renderFleetTable draws one row per bot with the cursor row
// highlighted. Column widths adapt to the longest name and strategy so
// the table stays aligned as the fleet changes.
func (m model) renderFleetTable(width int) string {
	var sections []string

	if m.fleetErr != nil {
		sections = append(sections, errorStyle.Render(fmt.Sprintf("Fleet unavailable: %v", m.fleetErr)))
	}

	if len(m.rows) == 0 {
		if m.fleetErr == nil {
			sections = append(sections, emptyFleetStyle.Render("No bots in the fleet. Add one with 'freqctl bot add' or 'freqctl bot create'."))
		}
		return lipgloss.JoinVertical(lipgloss.Left, sections...)
	}

	nameW, strategyW := 4, 8
	for _, row := range m.rows {
		if w := runewidth.StringWidth(row.Name); w > nameW {
			nameW = w
		}
		if w := runewidth.StringWidth(row.Strategy); w > strategyW {
			strategyW = w
		}
	}
	if nameW > 24 {
		nameW = 24
	}
	if strategyW > 24 {
		strategyW = 24
	}
	const stateW = 12
	const portW = 5

	endpointW := width - 2 - nameW - stateW - strategyW - portW - 4*2
	if endpointW < 0 {
		endpointW = 0
	}

	headerCells := []string{
		cell("NAME", nameW),
		cell("STATE", stateW),
		cell("STRATEGY", strategyW),
		cell("PORT", portW),
	}
	if endpointW > 0 {
		headerCells = append(headerCells, cell("ENDPOINT", endpointW))
	}
	lines := []string{tableHeaderStyle.Render(strings.Join(headerCells, "  "))}

	for i, row := range m.rows {
		port := ""
		if row.APIPort != 0 {
			port = fmt.Sprintf("%d", row.APIPort)
		}
		cells := []string{
			cell(row.Name, nameW),
			cell(stateLabel(row.State), stateW),
			cell(row.Strategy, strategyW),
			cell(port, portW),
		}
		if endpointW > 0 {
			cells = append(cells, cell(row.APIEndpoint(), endpointW))
		}

		if i == m.cursor {
			lines = append(lines, selectedRowStyle.Render("▸ "+strings.Join(cells, "  ")))
			continue
		}
		// Re-color just the state cell; the rest stays plain.
		cells[1] = stateStyle(row.State).Render(cells[1])
		lines = append(lines, rowStyle.Render("  "+strings.Join(cells, "  ")))
	}

	sections = append(sections, strings.Join(lines, "\n"))
	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

// renderLogPane draws the activity log at the bottom of the dashboard,
// pinned to the newest entry. Rebuilding the viewport content each
// frame is bounded by the activity log cap.
func (m model) renderLogPane(width, height int) string {
	innerWidth := width - logPanelStyle.GetHorizontalFrameSize()
	innerHeight := height - logPanelStyle.GetVerticalFrameSize() - 1
	if innerWidth < 0 {
		innerWidth = 0
	}
	if innerHeight < 1 {
		innerHeight = 1
	}

	m.logViewport.Width = innerWidth
	m.logViewport.Height = innerHeight
	m.logViewport.SetContent(prepareLogContent(m.activityLog, innerWidth))
	m.logViewport.GotoBottom()

	title := logPanelTitleStyle.Render(SafeIcon(IconScroll) + "Activity Log")
	content := lipgloss.JoinVertical(lipgloss.Left, title, m.logViewport.View())
	return logPanelStyle.Width(innerWidth).Render(content)
}

// renderStatusBar draws the bottom bar: fleet summary on the left, the
// transient message in the center, key hints on the right.
func (m model) renderStatusBar(width int) string {
	running := 0
	for _, row := range m.rows {
		if row.State == composecli.StateRunning {
			running++
		}
	}

	bg := statusBarDefaultBg
	switch {
	case m.fleetErr != nil:
		bg = statusBarErrorBg
	case len(m.rows) > 0 && running == len(m.rows):
		bg = statusBarSuccessBg
	}

	leftW := int(float64(width) * 0.25)
	rightW := int(float64(width) * 0.35)
	centerW := width - leftW - rightW
	if centerW < 0 {
		centerW = 0
	}

	var left string
	if m.pending > 0 {
		left = statusBarTextStyle.Background(bg).Width(leftW).Render(m.spinner.View() + " working...")
	} else {
		left = statusBarTextStyle.Background(bg).Width(leftW).Render(fmt.Sprintf("%d/%d running", running, len(m.rows)))
	}

	var center string
	if m.statusBarMessage != "" {
		icon := SafeIcon(IconInfo)
		switch m.statusBarMessageType {
		case StatusBarSuccess:
			icon = SafeIcon(IconCheck)
		case StatusBarError:
			icon = SafeIcon(IconCross)
		case StatusBarWarning:
			icon = SafeIcon(IconWarning)
		}
		center = statusBarTextStyle.Background(bg).Width(centerW).Align(lipgloss.Center).Render(icon + m.statusBarMessage)
	} else {
		center = lipgloss.NewStyle().Background(bg).Width(centerW).Render("")
	}

	hints := fmt.Sprintf("↻ %s • h help • q quit", m.refresh)
	right := statusBarTextStyle.Background(bg).Width(rightW).Align(lipgloss.Right).Render(hints)

	bar := lipgloss.JoinHorizontal(lipgloss.Bottom, left, center, right)
	return statusBarBaseStyle.Width(width).Render(bar)
}

// cell truncates and pads a value to a fixed display width.
func cell(s string, width int) string {
	if runewidth.StringWidth(s) > width {
		s = runewidth.Truncate(s, width, "…")
	}
	return runewidth.FillRight(s, width)
}

// stateLabel is the table cell text for a container state.
func stateLabel(state composecli.BotState) string {
	switch state {
	case composecli.StateRunning:
		return SafeIcon(IconRunning) + "running"
	case composecli.StateStopped:
		return SafeIcon(IconStopped) + "stopped"
	case composecli.StateNotFound:
		return SafeIcon(IconNotFound) + "absent"
	default:
		return SafeIcon(IconUnknown) + "unknown"
	}
}

// stateStyle picks the text style for a container state.
func stateStyle(state composecli.BotState) lipgloss.Style {
	switch state {
	case composecli.StateRunning:
		return stateRunningStyle
	case composecli.StateStopped:
		return stateStoppedStyle
	case composecli.StateNotFound:
		return stateNotFoundStyle
	default:
		return stateUnknownStyle
	}
}

// prepareLogContent truncates long lines to avoid viewport wrapping and
// applies color styles based on log level markers.
func prepareLogContent(lines []string, maxWidth int) string {
	out := make([]string, len(lines))
	for i, raw := range lines {
		line := raw
		if maxWidth > 0 && runewidth.StringWidth(line) > maxWidth {
			line = runewidth.Truncate(line, maxWidth-1, "") + "…"
		}
		out[i] = styleLogLine(line)
	}
	return strings.Join(out, "\n")
}

// styleLogLine wraps the line in the style matching its level marker,
// as written by formatLogEntry.
func styleLogLine(l string) string {
	switch {
	case strings.Contains(l, "[ERROR]"):
		return logErrorStyle.Render(l)
	case strings.Contains(l, "[WARN]"):
		return logWarnStyle.Render(l)
	case strings.Contains(l, "[DEBUG]"):
		return logDebugStyle.Render(l)
	default:
		return logInfoStyle.Render(l)
	}
}
