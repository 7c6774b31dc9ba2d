package mcpserver

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"freqctl/internal/composecli"
	"freqctl/internal/fleet"
	fleeterrors "freqctl/internal/fleet/errors"
	"freqctl/pkg/logging"
)

// FleetTools provides MCP tools for managing the bot fleet.
type FleetTools struct {
	manager  *fleet.Manager
	portBase int
}

// NewFleetTools creates fleet tools backed by the given manager.
func NewFleetTools(manager *fleet.Manager, portBase int) *FleetTools {
	return &FleetTools{
		manager:  manager,
		portBase: portBase,
	}
}

// ServerTools pairs every tool definition with its handler, ready for
// registration on an MCP server.
func (ft *FleetTools) ServerTools() []server.ServerTool {
	return []server.ServerTool{
		{Tool: ft.fleetListTool(), Handler: ft.HandleFleetList},
		{Tool: ft.botStatusTool(), Handler: ft.HandleBotStatus},
		{Tool: ft.botStartTool(), Handler: ft.HandleBotStart},
		{Tool: ft.botStopTool(), Handler: ft.HandleBotStop},
		{Tool: ft.botRestartTool(), Handler: ft.HandleBotRestart},
		{Tool: ft.botAddTool(), Handler: ft.HandleBotAdd},
		{Tool: ft.botRemoveTool(), Handler: ft.HandleBotRemove},
	}
}

// botSummary is one fleet entry: the bot's definition joined with its
// current container state.
type botSummary struct {
	fleet.Bot
	State composecli.BotState `json:"state"`
}

// fleetListTool returns the tool definition for listing the fleet
func (ft *FleetTools) fleetListTool() mcp.Tool {
	return mcp.NewTool("fleet_list",
		mcp.WithDescription("List every bot in the fleet with its strategy, config, API port and current container state"),
	)
}

// botStatusTool returns the tool definition for inspecting one bot
func (ft *FleetTools) botStatusTool() mcp.Tool {
	return mcp.NewTool("bot_status",
		mcp.WithDescription("Get the full definition and container state of a single bot"),
		mcp.WithString("name",
			mcp.Required(),
			mcp.Description("Name of the bot to inspect"),
		),
	)
}

// botStartTool returns the tool definition for starting a bot
func (ft *FleetTools) botStartTool() mcp.Tool {
	return mcp.NewTool("bot_start",
		mcp.WithDescription("Start a bot's container"),
		mcp.WithString("name",
			mcp.Required(),
			mcp.Description("Name of the bot to start"),
		),
	)
}

// botStopTool returns the tool definition for stopping a bot
func (ft *FleetTools) botStopTool() mcp.Tool {
	return mcp.NewTool("bot_stop",
		mcp.WithDescription("Stop a bot's container"),
		mcp.WithString("name",
			mcp.Required(),
			mcp.Description("Name of the bot to stop"),
		),
	)
}

// botRestartTool returns the tool definition for restarting a bot
func (ft *FleetTools) botRestartTool() mcp.Tool {
	return mcp.NewTool("bot_restart",
		mcp.WithDescription("Restart a bot's container"),
		mcp.WithString("name",
			mcp.Required(),
			mcp.Description("Name of the bot to restart"),
		),
	)
}

// botAddTool returns the tool definition for adding a bot
func (ft *FleetTools) botAddTool() mcp.Tool {
	return mcp.NewTool("bot_add",
		mcp.WithDescription("Register a new bot in the fleet. The config file must already exist under user_data; use a port of 0 (or omit it) to pick a free one"),
		mcp.WithString("name",
			mcp.Required(),
			mcp.Description("Name for the new bot, also used as its container name"),
		),
		mcp.WithString("strategy",
			mcp.Required(),
			mcp.Description("Strategy class the bot should trade with"),
		),
		mcp.WithString("config",
			mcp.Required(),
			mcp.Description("Config file name under user_data the bot should load"),
		),
		mcp.WithString("pairlist",
			mcp.Required(),
			mcp.Description("Pairlist file name the bot should trade"),
		),
		mcp.WithNumber("port",
			mcp.Description("External API port for the bot; omit to have one suggested"),
		),
	)
}

// botRemoveTool returns the tool definition for removing a bot
func (ft *FleetTools) botRemoveTool() mcp.Tool {
	return mcp.NewTool("bot_remove",
		mcp.WithDescription("Stop a bot and remove it from the fleet. Its config file under user_data is kept"),
		mcp.WithString("name",
			mcp.Required(),
			mcp.Description("Name of the bot to remove"),
		),
	)
}

// HandleFleetList handles the fleet_list tool call
func (ft *FleetTools) HandleFleetList(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	bots, err := ft.manager.Bots()
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Failed to list fleet: %v", err)), nil
	}

	// The fleet definition is still worth reporting when the container
	// tool is unreachable; unknown states say so per bot.
	states, err := ft.manager.StatusAll(ctx)
	if err != nil {
		logging.Warn("MCP", "fleet status unavailable: %v", err)
		states = map[string]composecli.BotState{}
	}

	summaries := make([]botSummary, 0, len(bots))
	for _, bot := range bots {
		state, ok := states[bot.Name]
		if !ok {
			state = composecli.StateUnknown
		}
		summaries = append(summaries, botSummary{Bot: bot, State: state})
	}

	result := map[string]interface{}{
		"bots":  summaries,
		"total": len(summaries),
	}

	resultJSON, _ := json.MarshalIndent(result, "", "  ")
	return mcp.NewToolResultText(string(resultJSON)), nil
}

// HandleBotStatus handles the bot_status tool call
func (ft *FleetTools) HandleBotStatus(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	name, err := req.RequireString("name")
	if err != nil {
		return mcp.NewToolResultError("name is required"), nil
	}

	bot, err := ft.manager.Bot(name)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Failed to inspect bot: %v", err)), nil
	}

	state, err := ft.manager.Status(ctx, name)
	if err != nil {
		logging.Warn("MCP", "status of %s unavailable: %v", name, err)
		state = composecli.StateUnknown
	}

	result := map[string]interface{}{
		"bot":      botSummary{Bot: bot, State: state},
		"endpoint": bot.APIEndpoint(),
	}

	resultJSON, _ := json.MarshalIndent(result, "", "  ")
	return mcp.NewToolResultText(string(resultJSON)), nil
}

// HandleBotStart handles the bot_start tool call
func (ft *FleetTools) HandleBotStart(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	name, err := req.RequireString("name")
	if err != nil {
		return mcp.NewToolResultError("name is required"), nil
	}

	if err := ft.manager.Start(ctx, name); err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Failed to start bot: %v", err)), nil
	}

	return mcp.NewToolResultText(fmt.Sprintf("Successfully started bot '%s'", name)), nil
}

// HandleBotStop handles the bot_stop tool call
func (ft *FleetTools) HandleBotStop(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	name, err := req.RequireString("name")
	if err != nil {
		return mcp.NewToolResultError("name is required"), nil
	}

	if err := ft.manager.Stop(ctx, name); err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Failed to stop bot: %v", err)), nil
	}

	return mcp.NewToolResultText(fmt.Sprintf("Successfully stopped bot '%s'", name)), nil
}

// HandleBotRestart handles the bot_restart tool call
func (ft *FleetTools) HandleBotRestart(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	name, err := req.RequireString("name")
	if err != nil {
		return mcp.NewToolResultError("name is required"), nil
	}

	if err := ft.manager.Restart(ctx, name); err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Failed to restart bot: %v", err)), nil
	}

	return mcp.NewToolResultText(fmt.Sprintf("Successfully restarted bot '%s'", name)), nil
}

// HandleBotAdd handles the bot_add tool call
func (ft *FleetTools) HandleBotAdd(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	name, err := req.RequireString("name")
	if err != nil {
		return mcp.NewToolResultError("name is required"), nil
	}
	strategy, err := req.RequireString("strategy")
	if err != nil {
		return mcp.NewToolResultError("strategy is required"), nil
	}
	configFile, err := req.RequireString("config")
	if err != nil {
		return mcp.NewToolResultError("config is required"), nil
	}
	pairlist, err := req.RequireString("pairlist")
	if err != nil {
		return mcp.NewToolResultError("pairlist is required"), nil
	}

	port := req.GetInt("port", 0)
	if port == 0 {
		port, err = ft.manager.SuggestPort(ft.portBase)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("Failed to suggest a port: %v", err)), nil
		}
	}

	opts := fleet.AddBotOptions{
		Name:       name,
		Strategy:   strategy,
		ConfigFile: configFile,
		Pairlist:   pairlist,
		Port:       port,
	}
	if err := ft.manager.AddBot(opts); err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Failed to add bot: %v", err)), nil
	}

	return mcp.NewToolResultText(fmt.Sprintf("Added bot '%s' on API port %d. Start it with the bot_start tool.", name, port)), nil
}

// HandleBotRemove handles the bot_remove tool call
func (ft *FleetTools) HandleBotRemove(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	name, err := req.RequireString("name")
	if err != nil {
		return mcp.NewToolResultError("name is required"), nil
	}

	// Best effort: a container that was never created is fine, any
	// other stop failure is worth flagging but must not block the edit.
	if err := ft.manager.Stop(ctx, name); err != nil && !fleeterrors.IsNotFound(err) {
		logging.Warn("MCP", "could not stop %s before removal: %v", name, err)
	}

	if err := ft.manager.RemoveBot(name); err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Failed to remove bot: %v", err)), nil
	}

	return mcp.NewToolResultText(fmt.Sprintf("Successfully removed bot '%s' from the fleet", name)), nil
}
