package tui

import "github.com/charmbracelet/lipgloss"

// Styles for the dashboard, defined using the lipgloss library.
// These control the appearance of the fleet table, the log pane, the
// status bar and the help overlay.
var (
	// appStyle defines the overall margin for the application view.
	// Zero margin so content spans the entire terminal width.
	appStyle = lipgloss.NewStyle().Margin(0, 0)

	// headerStyle is for the title line at the top of the dashboard.
	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.AdaptiveColor{Light: "#000000", Dark: "#FFFFFF"}).
			Background(lipgloss.AdaptiveColor{Light: "#D0D0D0", Dark: "#303030"}).
			Padding(0, 2)

	// headerPathStyle renders the compose path next to the title.
	headerPathStyle = lipgloss.NewStyle().
			Foreground(lipgloss.AdaptiveColor{Light: "#606060", Dark: "#909090"})

	// tableHeaderStyle is for the column header row of the fleet table.
	tableHeaderStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(lipgloss.AdaptiveColor{Light: "#000000", Dark: "#FFFFFF"}).
				Underline(true)

	// rowStyle and selectedRowStyle render fleet table rows; selection
	// uses a background instead of a marker so widths stay stable.
	rowStyle         = lipgloss.NewStyle()
	selectedRowStyle = lipgloss.NewStyle().
				Bold(true).
				Background(lipgloss.AdaptiveColor{Light: "#E8E8FF", Dark: "#1E293B"})

	// Per-state text styles for the STATE column.
	stateRunningStyle  = lipgloss.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "#004400", Dark: "#8AE234"})
	stateStoppedStyle  = lipgloss.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "#880000", Dark: "#FF8787"})
	stateNotFoundStyle = lipgloss.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "#606060", Dark: "#909090"})
	stateUnknownStyle  = lipgloss.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "#A07000", Dark: "#FFD066"})

	// statusStyle is a general-purpose style for plain text lines.
	statusStyle = lipgloss.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "#000000", Dark: "#FFFFFF"})

	// errorStyle is for error lines with high contrast in both modes.
	errorStyle = lipgloss.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "#B30000", Dark: "#FF6B6B"})

	// emptyFleetStyle renders the hint shown when no bots are defined.
	emptyFleetStyle = lipgloss.NewStyle().
			Foreground(lipgloss.AdaptiveColor{Light: "#A07000", Dark: "#FFD066"}).
			Padding(1, 2)

	// logPanelStyle frames the activity log pane at the bottom.
	logPanelStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.AdaptiveColor{Light: "#606060", Dark: "#A0A0A0"}).
			Padding(0, 1)

	// logPanelTitleStyle is for the log pane's title line.
	logPanelTitleStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(lipgloss.AdaptiveColor{Light: "#000000", Dark: "#FFFFFF"})

	// Log level specific styles, applied per line in the log pane.
	logInfoStyle  = lipgloss.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "#000000", Dark: "#E0E0E0"})
	logWarnStyle  = lipgloss.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "#A07000", Dark: "#FFD066"}).Bold(true)
	logErrorStyle = lipgloss.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "#B30000", Dark: "#FF6B6B"}).Bold(true)
	logDebugStyle = lipgloss.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "#606060", Dark: "#909090"}).Italic(true)

	// helpOverlayStyle is the container for the full keybinding help.
	helpOverlayStyle = lipgloss.NewStyle().
				Border(lipgloss.RoundedBorder()).
				BorderForeground(lipgloss.AdaptiveColor{Light: "#000000", Dark: "#FFFFFF"}).
				Padding(1, 2)

	// helpTitleStyle heads the help overlay.
	helpTitleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.AdaptiveColor{Light: "#000000", Dark: "#FFFFFF"}).
			MarginBottom(1).
			Align(lipgloss.Center)

	// --- Status bar styles ---
	statusBarDefaultBg = lipgloss.AdaptiveColor{Light: "#6B7280", Dark: "#374151"}
	statusBarSuccessBg = lipgloss.AdaptiveColor{Light: "#10B981", Dark: "#059669"}
	statusBarErrorBg   = lipgloss.AdaptiveColor{Light: "#EF4444", Dark: "#DC2626"}
	statusBarWarningBg = lipgloss.AdaptiveColor{Light: "#F59E0B", Dark: "#D97706"}

	statusBarTextStyle = lipgloss.NewStyle().
				Foreground(lipgloss.AdaptiveColor{Light: "#FFFFFF", Dark: "#F0F0F0"}).
				Padding(0, 1)

	statusBarBaseStyle = lipgloss.NewStyle().Height(1)
)
