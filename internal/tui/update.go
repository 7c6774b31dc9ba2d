package tui

import (
	"fmt"
	"time"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"freqctl/internal/composecli"
	"freqctl/pkg/logging"
)

// Update is the heart of the Bubble Tea program, handling all incoming
// messages.
func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		// Skip layout recalculation when the size didn't change.
		if msg.Width == m.width && msg.Height == m.height {
			return m, nil
		}
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case fleetLoadedMsg:
		if m.mode == ModeLoading {
			m.mode = ModeDashboard
		}
		m.fleetErr = msg.err
		if msg.err == nil {
			m.rows = msg.rows
			if m.cursor >= len(m.rows) {
				m.cursor = len(m.rows) - 1
			}
			if m.cursor < 0 {
				m.cursor = 0
			}
		}
		return m, nil

	case refreshTickMsg:
		return m, tea.Batch(fetchFleetCmd(m.manager), refreshTickCmd(m.refresh))

	case actionDoneMsg:
		if m.pending > 0 {
			m.pending--
		}
		var statusCmd tea.Cmd
		if msg.err != nil {
			logging.Error("Dashboard", msg.err, "%s %s failed", msg.verb, targetLabel(msg.target))
			statusCmd = m.setStatusMessage(
				fmt.Sprintf("Failed to %s %s: %v", msg.verb, targetLabel(msg.target), msg.err),
				StatusBarError, 5*time.Second)
		} else {
			statusCmd = m.setStatusMessage(
				fmt.Sprintf("%s %s", msg.verb.past(), targetLabel(msg.target)),
				StatusBarSuccess, 3*time.Second)
		}
		// Refresh right away so the table reflects the new state.
		return m, tea.Batch(statusCmd, fetchFleetCmd(m.manager))

	case logEntryMsg:
		m.appendLogLine(formatLogEntry(msg.entry))
		return m, listenForLogsCmd(m.logCh)

	case clearStatusBarMsg:
		if msg.seq == m.statusBarSeq {
			m.statusBarMessage = ""
		}
		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}

	return m, nil
}

// handleKey processes keyboard input for the current mode.
func (m model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if key.Matches(msg, m.keys.Quit) {
		m.mode = ModeQuitting
		return m, tea.Quit
	}

	// The help overlay swallows everything except its own toggle.
	if m.mode == ModeHelpOverlay {
		if key.Matches(msg, m.keys.Help) || msg.String() == "esc" {
			m.mode = ModeDashboard
		}
		return m, nil
	}

	switch {
	case key.Matches(msg, m.keys.Help):
		m.mode = ModeHelpOverlay
		return m, nil

	case key.Matches(msg, m.keys.Up):
		if m.cursor > 0 {
			m.cursor--
		}
		return m, nil

	case key.Matches(msg, m.keys.Down):
		if m.cursor < len(m.rows)-1 {
			m.cursor++
		}
		return m, nil

	case key.Matches(msg, m.keys.Start):
		return m.dispatchSelected(verbStart)

	case key.Matches(msg, m.keys.Stop):
		return m.dispatchSelected(verbStop)

	case key.Matches(msg, m.keys.Restart):
		return m.dispatchSelected(verbRestart)

	case key.Matches(msg, m.keys.StartFleet):
		return m.dispatch(verbStart, composecli.All)

	case key.Matches(msg, m.keys.StopFleet):
		return m.dispatch(verbStop, composecli.All)

	case key.Matches(msg, m.keys.CopyEndpoint):
		return m.copySelectedEndpoint()

	case key.Matches(msg, m.keys.ToggleLog):
		m.showLog = !m.showLog
		return m, nil

	case key.Matches(msg, m.keys.Refresh):
		return m, fetchFleetCmd(m.manager)
	}

	return m, nil
}

// dispatchSelected runs a lifecycle verb against the bot under the
// cursor.
func (m model) dispatchSelected(verb actionVerb) (tea.Model, tea.Cmd) {
	bot, ok := m.selectedBot()
	if !ok {
		return m, m.setStatusMessage("No bot selected", StatusBarWarning, 3*time.Second)
	}
	return m.dispatch(verb, bot.Name)
}

// dispatch fires one lifecycle command and flags it as pending so the
// spinner shows until completion.
func (m model) dispatch(verb actionVerb, target string) (tea.Model, tea.Cmd) {
	m.pending++
	statusCmd := m.setStatusMessage(
		fmt.Sprintf("%s %s...", verb.gerund(), targetLabel(target)),
		StatusBarInfo, 10*time.Second)
	return m, tea.Batch(lifecycleCmd(m.manager, verb, target), statusCmd)
}

// copySelectedEndpoint yanks the selected bot's API endpoint to the
// system clipboard.
func (m model) copySelectedEndpoint() (tea.Model, tea.Cmd) {
	bot, ok := m.selectedBot()
	if !ok {
		return m, m.setStatusMessage("No bot selected", StatusBarWarning, 3*time.Second)
	}
	endpoint := bot.APIEndpoint()
	if endpoint == "" {
		return m, m.setStatusMessage(
			fmt.Sprintf("%s has no API endpoint", bot.Name),
			StatusBarWarning, 3*time.Second)
	}
	if err := clipboard.WriteAll(endpoint); err != nil {
		return m, m.setStatusMessage(
			fmt.Sprintf("Failed to copy endpoint: %v", err),
			StatusBarError, 3*time.Second)
	}
	return m, m.setStatusMessage(
		fmt.Sprintf("Copied %s to clipboard", endpoint),
		StatusBarSuccess, 3*time.Second)
}

// targetLabel names a lifecycle target for the status bar.
func targetLabel(target string) string {
	if target == composecli.All {
		return "the fleet"
	}
	return target
}

// formatLogEntry renders one logging channel entry as a log pane line.
func formatLogEntry(entry logging.LogEntry) string {
	line := fmt.Sprintf("%s [%s] [%s] %s",
		entry.Timestamp.Format("15:04:05.000"),
		entry.Level.String(),
		entry.Subsystem,
		entry.Message)
	if entry.Err != nil {
		line = fmt.Sprintf("%s -- Error: %v", line, entry.Err)
	}
	return line
}
