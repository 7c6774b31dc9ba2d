package tui

import (
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"freqctl/internal/composecli"
	"freqctl/internal/fleet"
	"freqctl/pkg/logging"
)

// AppMode defines the overall state or view of the dashboard.
// NOTE: The ordering MUST stay in sync with the String() method.
type AppMode int

const (
	// ModeLoading is the initial state before the first fleet snapshot.
	ModeLoading AppMode = iota
	// ModeDashboard is the primary view showing the fleet table.
	ModeDashboard
	// ModeHelpOverlay is when the keybinding help is visible.
	ModeHelpOverlay
	// ModeQuitting is when the dashboard is shutting down.
	ModeQuitting
)

// String makes AppMode satisfy the fmt.Stringer interface.
func (a AppMode) String() string {
	switch a {
	case ModeLoading:
		return "Loading"
	case ModeDashboard:
		return "Dashboard"
	case ModeHelpOverlay:
		return "HelpOverlay"
	case ModeQuitting:
		return "Quitting"
	default:
		return "Unknown"
	}
}

// MessageType defines the type of a status bar message for styling.
type MessageType int

const (
	StatusBarInfo MessageType = iota
	StatusBarSuccess
	StatusBarError
	StatusBarWarning
)

// maxActivityLogLines caps the in-memory activity log so it cannot grow
// unbounded while the dashboard runs.
const maxActivityLogLines = 200

// botRow is one fleet table row: the bot's definition joined with the
// container state observed at the last refresh.
type botRow struct {
	fleet.Bot
	State composecli.BotState
}

type model struct {
	manager *fleet.Manager
	refresh time.Duration
	logCh   <-chan logging.LogEntry

	mode     AppMode
	rows     []botRow
	cursor   int
	fleetErr error

	width  int
	height int

	spinner spinner.Model
	help    help.Model
	keys    KeyMap

	// Activity log pane state. The viewport content is rebuilt from
	// activityLog on render, pinned to the newest line.
	showLog     bool
	logViewport viewport.Model
	activityLog []string

	// pending counts lifecycle commands in flight; the spinner shows
	// while it is non-zero.
	pending int

	statusBarMessage     string
	statusBarMessageType MessageType
	// statusBarSeq invalidates stale clear timers when a newer message
	// replaced the one they were scheduled for.
	statusBarSeq int
}

// NewProgram assembles the dashboard model and wraps it in a Bubble Tea
// program running on the alternate screen. refresh is the interval
// between fleet status probes; logCh feeds the log pane and may be nil.
func NewProgram(manager *fleet.Manager, refresh time.Duration, logCh <-chan logging.LogEntry) *tea.Program {
	return tea.NewProgram(newModel(manager, refresh, logCh), tea.WithAltScreen())
}

func newModel(manager *fleet.Manager, refresh time.Duration, logCh <-chan logging.LogEntry) model {
	if refresh <= 0 {
		refresh = 5 * time.Second
	}

	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("205"))

	m := model{
		manager:     manager,
		refresh:     refresh,
		logCh:       logCh,
		mode:        ModeLoading,
		spinner:     s,
		keys:        DefaultKeyMap(),
		help:        help.New(),
		logViewport: viewport.New(0, 0),
		activityLog: make([]string, 0),
	}
	m.help.ShowAll = true
	return m
}

// Init implements tea.Model: the first fleet snapshot, the refresh
// ticker, the spinner and the log pump all start here.
func (m model) Init() tea.Cmd {
	cmds := []tea.Cmd{
		fetchFleetCmd(m.manager),
		refreshTickCmd(m.refresh),
		m.spinner.Tick,
	}
	if m.logCh != nil {
		cmds = append(cmds, listenForLogsCmd(m.logCh))
	}
	return tea.Batch(cmds...)
}

// selectedBot returns the bot under the cursor, if any.
func (m model) selectedBot() (botRow, bool) {
	if len(m.rows) == 0 || m.cursor < 0 || m.cursor >= len(m.rows) {
		return botRow{}, false
	}
	return m.rows[m.cursor], true
}

// appendLogLine adds a formatted entry to the activity log, trimming
// from the front once the cap is reached.
func (m *model) appendLogLine(line string) {
	m.activityLog = append(m.activityLog, line)
	if len(m.activityLog) > maxActivityLogLines {
		m.activityLog = m.activityLog[len(m.activityLog)-maxActivityLogLines:]
	}
}
