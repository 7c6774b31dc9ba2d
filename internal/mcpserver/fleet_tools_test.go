package mcpserver

import (
	"context"
	"encoding/json"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"freqctl/internal/botconfig"
	"freqctl/internal/composecli"
	"freqctl/internal/composefile"
	"freqctl/internal/fleet"
)

// stubRunner satisfies fleet.ComposeRunner and records invocations
// instead of shelling out.
type stubRunner struct {
	mu    sync.Mutex
	calls []string
	psOut string
	err   error
}

func (s *stubRunner) record(verb, service string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls = append(s.calls, strings.TrimSpace(verb+" "+service))
}

func (s *stubRunner) recorded() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.calls...)
}

func (s *stubRunner) Start(ctx context.Context, service string) error {
	s.record("start", service)
	return s.err
}

func (s *stubRunner) Stop(ctx context.Context, service string) error {
	s.record("stop", service)
	return s.err
}

func (s *stubRunner) Restart(ctx context.Context, service string) error {
	s.record("restart", service)
	return s.err
}

func (s *stubRunner) Down(ctx context.Context) error {
	s.record("down", "")
	return s.err
}

func (s *stubRunner) PS(ctx context.Context, service string) (string, error) {
	s.record("ps", service)
	return s.psOut, s.err
}

func (s *stubRunner) Status(ctx context.Context, service string) (composecli.BotState, error) {
	out, err := s.PS(ctx, service)
	if err != nil {
		return composecli.StateUnknown, err
	}
	return composecli.Classify(out, service), nil
}

func newTestTools(t *testing.T) (*FleetTools, *fleet.Manager, *stubRunner) {
	t.Helper()
	dir := t.TempDir()
	store := composefile.NewStore(filepath.Join(dir, "docker-compose.yml"))
	runner := &stubRunner{}
	synth := botconfig.NewSynthesizer(filepath.Join(dir, "user_data"))
	manager := fleet.NewManager(store, runner, synth)
	return NewFleetTools(manager, 8081), manager, runner
}

func addBot(t *testing.T, manager *fleet.Manager, name string, port int) {
	t.Helper()
	require.NoError(t, manager.AddBot(fleet.AddBotOptions{
		Name:       name,
		Strategy:   "EmaCross",
		ConfigFile: "config_" + name + ".json",
		Pairlist:   "majors.json",
		Port:       port,
	}))
}

func callRequest(name string, args map[string]interface{}) mcp.CallToolRequest {
	return mcp.CallToolRequest{
		Params: mcp.CallToolParams{
			Name:      name,
			Arguments: args,
		},
	}
}

// textOf returns the single text payload of a tool result.
func textOf(t *testing.T, result *mcp.CallToolResult) string {
	t.Helper()
	require.Len(t, result.Content, 1)
	text, ok := result.Content[0].(mcp.TextContent)
	require.True(t, ok, "Expected TextContent")
	return text.Text
}

func TestNew(t *testing.T) {
	_, manager, _ := newTestTools(t)
	srv := New(manager, 8081, "1.2.3")
	assert.NotNil(t, srv)
	assert.NotNil(t, srv.mcp)
	assert.NotNil(t, srv.tools)
}

func TestServerTools(t *testing.T) {
	ft, _, _ := newTestTools(t)
	tools := ft.ServerTools()
	assert.Len(t, tools, 7)

	toolNames := make(map[string]bool)
	for _, st := range tools {
		toolNames[st.Tool.Name] = true
		assert.NotNil(t, st.Handler)
	}

	assert.True(t, toolNames["fleet_list"])
	assert.True(t, toolNames["bot_status"])
	assert.True(t, toolNames["bot_start"])
	assert.True(t, toolNames["bot_stop"])
	assert.True(t, toolNames["bot_restart"])
	assert.True(t, toolNames["bot_add"])
	assert.True(t, toolNames["bot_remove"])
}

func TestFleetListHandler(t *testing.T) {
	ft, manager, runner := newTestTools(t)
	addBot(t, manager, "bot_eth", 8081)
	addBot(t, manager, "bot_btc", 8082)
	runner.psOut = "bot_eth   Up 2 hours\nbot_btc   Exited (0) 5 minutes ago"

	result, err := ft.HandleFleetList(context.Background(), callRequest("fleet_list", map[string]interface{}{}))
	require.NoError(t, err)
	require.False(t, result.IsError)

	var payload struct {
		Bots []struct {
			Name  string `json:"name"`
			State string `json:"state"`
		} `json:"bots"`
		Total int `json:"total"`
	}
	require.NoError(t, json.Unmarshal([]byte(textOf(t, result)), &payload))

	assert.Equal(t, 2, payload.Total)
	states := make(map[string]string)
	for _, bot := range payload.Bots {
		states[bot.Name] = bot.State
	}
	assert.Equal(t, "running", states["bot_eth"])
	assert.Equal(t, "stopped", states["bot_btc"])
}

func TestFleetListHandler_EmptyFleet(t *testing.T) {
	ft, _, _ := newTestTools(t)

	result, err := ft.HandleFleetList(context.Background(), callRequest("fleet_list", map[string]interface{}{}))
	require.NoError(t, err)
	require.False(t, result.IsError)

	var payload struct {
		Bots  []interface{} `json:"bots"`
		Total int           `json:"total"`
	}
	require.NoError(t, json.Unmarshal([]byte(textOf(t, result)), &payload))
	assert.Zero(t, payload.Total)
	assert.NotNil(t, payload.Bots)
}

func TestBotStatusHandler(t *testing.T) {
	ft, manager, runner := newTestTools(t)
	addBot(t, manager, "bot_eth", 8081)
	runner.psOut = "bot_eth   Up 2 hours"

	result, err := ft.HandleBotStatus(context.Background(), callRequest("bot_status", map[string]interface{}{
		"name": "bot_eth",
	}))
	require.NoError(t, err)
	require.False(t, result.IsError)

	var payload struct {
		Bot struct {
			Name    string `json:"name"`
			State   string `json:"state"`
			APIPort int    `json:"api_port"`
		} `json:"bot"`
		Endpoint string `json:"endpoint"`
	}
	require.NoError(t, json.Unmarshal([]byte(textOf(t, result)), &payload))

	assert.Equal(t, "bot_eth", payload.Bot.Name)
	assert.Equal(t, "running", payload.Bot.State)
	assert.Equal(t, 8081, payload.Bot.APIPort)
	assert.Equal(t, "http://127.0.0.1:8081", payload.Endpoint)
}

func TestBotStatusHandler_MissingName(t *testing.T) {
	ft, _, _ := newTestTools(t)

	result, err := ft.HandleBotStatus(context.Background(), callRequest("bot_status", map[string]interface{}{}))
	require.NoError(t, err)
	assert.True(t, result.IsError)
}

func TestBotStatusHandler_UnknownBot(t *testing.T) {
	ft, _, _ := newTestTools(t)

	result, err := ft.HandleBotStatus(context.Background(), callRequest("bot_status", map[string]interface{}{
		"name": "ghost",
	}))
	require.NoError(t, err)
	assert.True(t, result.IsError)
	assert.Contains(t, textOf(t, result), "ghost")
}

func TestBotStartHandler(t *testing.T) {
	ft, manager, runner := newTestTools(t)
	addBot(t, manager, "bot_eth", 8081)

	result, err := ft.HandleBotStart(context.Background(), callRequest("bot_start", map[string]interface{}{
		"name": "bot_eth",
	}))
	require.NoError(t, err)
	require.False(t, result.IsError)

	assert.Contains(t, textOf(t, result), "bot_eth")
	assert.Contains(t, runner.recorded(), "start bot_eth")
}

func TestBotStartHandler_UnknownBot(t *testing.T) {
	ft, _, runner := newTestTools(t)

	result, err := ft.HandleBotStart(context.Background(), callRequest("bot_start", map[string]interface{}{
		"name": "ghost",
	}))
	require.NoError(t, err)
	assert.True(t, result.IsError)
	assert.Empty(t, runner.recorded())
}

func TestBotStopAndRestartHandlers(t *testing.T) {
	ft, manager, runner := newTestTools(t)
	addBot(t, manager, "bot_eth", 8081)

	stop, err := ft.HandleBotStop(context.Background(), callRequest("bot_stop", map[string]interface{}{
		"name": "bot_eth",
	}))
	require.NoError(t, err)
	require.False(t, stop.IsError)

	restart, err := ft.HandleBotRestart(context.Background(), callRequest("bot_restart", map[string]interface{}{
		"name": "bot_eth",
	}))
	require.NoError(t, err)
	require.False(t, restart.IsError)

	assert.Equal(t, []string{"stop bot_eth", "restart bot_eth"}, runner.recorded())
}

func TestBotAddHandler(t *testing.T) {
	ft, manager, _ := newTestTools(t)

	result, err := ft.HandleBotAdd(context.Background(), callRequest("bot_add", map[string]interface{}{
		"name":     "bot_sol",
		"strategy": "FreqaiHybrid",
		"config":   "config_bot_sol.json",
		"pairlist": "alts.json",
		"port":     float64(9000),
	}))
	require.NoError(t, err)
	require.False(t, result.IsError)
	assert.Contains(t, textOf(t, result), "9000")

	bot, err := manager.Bot("bot_sol")
	require.NoError(t, err)
	assert.Equal(t, "FreqaiHybrid", bot.Strategy)
	assert.Equal(t, 9000, bot.APIPort)
}

func TestBotAddHandler_SuggestsPort(t *testing.T) {
	ft, manager, _ := newTestTools(t)
	addBot(t, manager, "bot_eth", 8081)

	result, err := ft.HandleBotAdd(context.Background(), callRequest("bot_add", map[string]interface{}{
		"name":     "bot_btc",
		"strategy": "EmaCross",
		"config":   "config_bot_btc.json",
		"pairlist": "majors.json",
	}))
	require.NoError(t, err)
	require.False(t, result.IsError)

	bot, err := manager.Bot("bot_btc")
	require.NoError(t, err)
	assert.Equal(t, 8082, bot.APIPort)
}

func TestBotAddHandler_MissingStrategy(t *testing.T) {
	ft, _, _ := newTestTools(t)

	result, err := ft.HandleBotAdd(context.Background(), callRequest("bot_add", map[string]interface{}{
		"name":     "bot_sol",
		"config":   "config_bot_sol.json",
		"pairlist": "alts.json",
	}))
	require.NoError(t, err)
	assert.True(t, result.IsError)
	assert.Contains(t, textOf(t, result), "strategy is required")
}

func TestBotAddHandler_DuplicateName(t *testing.T) {
	ft, manager, _ := newTestTools(t)
	addBot(t, manager, "bot_eth", 8081)

	result, err := ft.HandleBotAdd(context.Background(), callRequest("bot_add", map[string]interface{}{
		"name":     "bot_eth",
		"strategy": "EmaCross",
		"config":   "config_bot_eth.json",
		"pairlist": "majors.json",
		"port":     float64(8085),
	}))
	require.NoError(t, err)
	assert.True(t, result.IsError)
}

func TestBotRemoveHandler(t *testing.T) {
	ft, manager, runner := newTestTools(t)
	addBot(t, manager, "bot_eth", 8081)

	result, err := ft.HandleBotRemove(context.Background(), callRequest("bot_remove", map[string]interface{}{
		"name": "bot_eth",
	}))
	require.NoError(t, err)
	require.False(t, result.IsError)

	assert.Contains(t, runner.recorded(), "stop bot_eth")
	bots, err := manager.Bots()
	require.NoError(t, err)
	assert.Empty(t, bots)
}

func TestBotRemoveHandler_UnknownBot(t *testing.T) {
	ft, _, _ := newTestTools(t)

	result, err := ft.HandleBotRemove(context.Background(), callRequest("bot_remove", map[string]interface{}{
		"name": "ghost",
	}))
	require.NoError(t, err)
	assert.True(t, result.IsError)
}
