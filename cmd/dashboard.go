package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"freqctl/internal/tui"
	"freqctl/pkg/logging"
)

// dashboardCmd represents the dashboard command
var dashboardCmd = &cobra.Command{
	Use:   "dashboard",
	Short: "Watch and control the fleet in a terminal dashboard",
	Long: `Open a full-screen terminal dashboard showing every bot with its live
container state, refreshed periodically via 'docker compose ps'.

Keys: arrows/j/k select a bot, s/x/r start/stop/restart it, S/X act on
the whole fleet, y copies the bot's API endpoint to the clipboard, l
toggles the log pane, q quits.`,
	Args: cobra.NoArgs,
	RunE: runDashboard,
}

func init() {
	rootCmd.AddCommand(dashboardCmd)
}

func runDashboard(cmd *cobra.Command, args []string) error {
	// Re-route logging into the dashboard's log pane; stderr writes
	// would tear the alternate screen.
	logChan := logging.InitForTUI(logging.ParseLevel(loadedConfig.Logging.Level))
	defer logging.CloseTUIChannel()

	manager := newFleetManager()

	p := tui.NewProgram(manager, loadedConfig.Dashboard.RefreshInterval, logChan)
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("dashboard failed: %w", err)
	}
	return nil
}
