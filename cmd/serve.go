package cmd

import (
	"github.com/spf13/cobra"

	"freqctl/internal/mcpserver"
	"freqctl/pkg/logging"
)

// serveCmd defines the serve command structure. It exposes the fleet
// manager's operations as MCP tools over stdio so AI assistants can
// drive the fleet.
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve fleet tools over MCP on stdio",
	Long: `Start an MCP (Model Context Protocol) server on stdin/stdout exposing
the fleet as tools: fleet_list, bot_status, bot_start, bot_stop,
bot_restart, bot_add and bot_remove.

Register the binary with an MCP-capable client, for example:

  {"command": "freqctl", "args": ["serve"]}

stdout carries the protocol; logs go to stderr. The server runs until
stdin closes.`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

// runServe is the main entry point for the serve command
func runServe(cmd *cobra.Command, args []string) error {
	manager := newFleetManager()

	logging.Info("MCP", "Serving fleet tools on stdio (compose file %s)", manager.ComposePath())
	return mcpserver.New(manager, loadedConfig.Fleet.PortBase, rootCmd.Version).ServeStdio()
}

// init registers the serve command with the root command.
func init() {
	rootCmd.AddCommand(serveCmd)
}
