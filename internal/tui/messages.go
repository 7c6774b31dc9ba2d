package tui

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"freqctl/internal/composecli"
	"freqctl/internal/fleet"
	"freqctl/pkg/logging"
)

// actionVerb names a lifecycle operation dispatched from the keyboard.
type actionVerb string

const (
	verbStart   actionVerb = "start"
	verbStop    actionVerb = "stop"
	verbRestart actionVerb = "restart"
)

// gerund is the in-progress label for the status bar.
func (v actionVerb) gerund() string {
	switch v {
	case verbStart:
		return "Starting"
	case verbStop:
		return "Stopping"
	case verbRestart:
		return "Restarting"
	default:
		return string(v)
	}
}

// past is the completed label for the status bar.
func (v actionVerb) past() string {
	switch v {
	case verbStart:
		return "Started"
	case verbStop:
		return "Stopped"
	case verbRestart:
		return "Restarted"
	default:
		return string(v)
	}
}

// fleetLoadedMsg carries a fresh fleet snapshot, or the error that
// prevented loading the document.
type fleetLoadedMsg struct {
	rows []botRow
	err  error
}

// actionDoneMsg reports a finished lifecycle command.
type actionDoneMsg struct {
	verb   actionVerb
	target string
	err    error
}

// refreshTickMsg asks for the next periodic status refresh.
type refreshTickMsg struct{}

// logEntryMsg delivers one entry from the logging channel.
type logEntryMsg struct {
	entry logging.LogEntry
}

// clearStatusBarMsg clears the transient status bar message, unless a
// newer message superseded the one it was scheduled for.
type clearStatusBarMsg struct {
	seq int
}

// fetchFleetCmd loads the fleet definition and probes every container
// state in one listing call. A failing probe degrades states to
// unknown instead of hiding the fleet.
func fetchFleetCmd(manager *fleet.Manager) tea.Cmd {
	return func() tea.Msg {
		bots, err := manager.Bots()
		if err != nil {
			return fleetLoadedMsg{err: err}
		}

		states, err := manager.StatusAll(context.Background())
		if err != nil {
			logging.Warn("Dashboard", "fleet status unavailable: %v", err)
			states = map[string]composecli.BotState{}
		}

		rows := make([]botRow, 0, len(bots))
		for _, bot := range bots {
			state, ok := states[bot.Name]
			if !ok {
				state = composecli.StateUnknown
			}
			rows = append(rows, botRow{Bot: bot, State: state})
		}
		return fleetLoadedMsg{rows: rows}
	}
}

// lifecycleCmd runs one verb against a bot, or against the whole fleet
// when target is composecli.All, and reports completion.
func lifecycleCmd(manager *fleet.Manager, verb actionVerb, target string) tea.Cmd {
	return func() tea.Msg {
		ctx := context.Background()
		var err error
		switch verb {
		case verbStart:
			err = manager.Start(ctx, target)
		case verbStop:
			err = manager.Stop(ctx, target)
		case verbRestart:
			err = manager.Restart(ctx, target)
		}
		return actionDoneMsg{verb: verb, target: target, err: err}
	}
}

// refreshTickCmd schedules the next periodic status refresh.
func refreshTickCmd(d time.Duration) tea.Cmd {
	return tea.Tick(d, func(time.Time) tea.Msg {
		return refreshTickMsg{}
	})
}

// listenForLogsCmd forwards one entry from the logging channel. The
// update loop re-arms it after every message so the pump stays alive
// until the channel closes.
func listenForLogsCmd(ch <-chan logging.LogEntry) tea.Cmd {
	return func() tea.Msg {
		entry, ok := <-ch
		if !ok {
			return nil
		}
		return logEntryMsg{entry: entry}
	}
}

// setStatusMessage sets the transient status bar text and returns the
// command that clears it after clearAfter, unless a newer message
// replaced it in the meantime.
func (m *model) setStatusMessage(text string, msgType MessageType, clearAfter time.Duration) tea.Cmd {
	m.statusBarMessage = text
	m.statusBarMessageType = msgType
	m.statusBarSeq++
	seq := m.statusBarSeq
	return tea.Tick(clearAfter, func(time.Time) tea.Msg {
		return clearStatusBarMsg{seq: seq}
	})
}
