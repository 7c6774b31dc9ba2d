package fleet

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"freqctl/internal/botconfig"
	"freqctl/internal/composecli"
	"freqctl/internal/composefile"
	fleeterrors "freqctl/internal/fleet/errors"
)

// stubRunner satisfies ComposeRunner and records invocations instead of
// shelling out.
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

func newTestManager(t *testing.T) (*Manager, *stubRunner, *composefile.Store) {
	t.Helper()
	dir := t.TempDir()
	store := composefile.NewStore(filepath.Join(dir, "docker-compose.yml"))
	runner := &stubRunner{}
	synth := botconfig.NewSynthesizer(filepath.Join(dir, "user_data"))
	return NewManager(store, runner, synth), runner, store
}

func addBot(t *testing.T, m *Manager, name string, port int) {
	t.Helper()
	require.NoError(t, m.AddBot(AddBotOptions{
		Name:       name,
		Strategy:   "EmaCross",
		ConfigFile: "config_a.json",
		Pairlist:   "top10.json",
		Port:       port,
	}))
}

func TestAddBotSynthesizesService(t *testing.T) {
	manager, _, store := newTestManager(t)
	addBot(t, manager, "bot_eth", 8081)

	doc, err := store.Load()
	require.NoError(t, err)

	def, ok := doc.Services.Get("bot_eth")
	require.True(t, ok)
	assert.Equal(t, DefaultImage, def.Image)
	assert.Equal(t, "bot_eth", def.ContainerName)
	assert.Equal(t, DefaultRestart, def.Restart)
	assert.Equal(t, composefile.StringList{"8081:8080"}, def.Ports)
	assert.Equal(t, composefile.StringList{"freqtrade_network"}, def.Networks)
	assert.Contains(t, []string(def.Environment), "FREQTRADE_STRATEGY=EmaCross")
	assert.Contains(t, []string(def.Environment), "FREQTRADE_PAIRLIST=top10.json")
	assert.Equal(t, composefile.StringList{
		"trade",
		"--config", "/freqtrade/user_data/config_a.json",
		"--strategy-path", "/freqtrade/user_data/strategies",
		"--strategy", "EmaCross",
	}, def.Command)

	network, ok := doc.Networks.Get(DefaultNetwork)
	require.True(t, ok)
	assert.Equal(t, composefile.DefaultNetworkDriver, network.Driver)
}

func TestAddBotConflict(t *testing.T) {
	manager, _, _ := newTestManager(t)
	addBot(t, manager, "bot_eth", 8081)

	err := manager.AddBot(AddBotOptions{
		Name:       "bot_eth",
		Strategy:   "RsiDip",
		ConfigFile: "config_b.json",
		Pairlist:   "top10.json",
		Port:       8082,
	})
	require.Error(t, err)
	assert.True(t, fleeterrors.IsConflict(err))

	// The first definition is untouched.
	bot, err := manager.Bot("bot_eth")
	require.NoError(t, err)
	assert.Equal(t, "EmaCross", bot.Strategy)
}

func TestAddBotValidation(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*AddBotOptions)
	}{
		{"missing name", func(o *AddBotOptions) { o.Name = "" }},
		{"missing strategy", func(o *AddBotOptions) { o.Strategy = "" }},
		{"missing config", func(o *AddBotOptions) { o.ConfigFile = "" }},
		{"missing pairlist", func(o *AddBotOptions) { o.Pairlist = "" }},
		{"port zero", func(o *AddBotOptions) { o.Port = 0 }},
		{"port out of range", func(o *AddBotOptions) { o.Port = 70000 }},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			manager, _, store := newTestManager(t)
			opts := AddBotOptions{
				Name: "bot_eth", Strategy: "EmaCross",
				ConfigFile: "config_a.json", Pairlist: "top10.json", Port: 8081,
			}
			tc.mutate(&opts)
			err := manager.AddBot(opts)
			require.Error(t, err)
			assert.True(t, fleeterrors.IsValidation(err))
			assert.False(t, store.Exists(), "rejected add must not create the document")
		})
	}
}

func TestRemoveBotRestoresServiceSet(t *testing.T) {
	manager, _, _ := newTestManager(t)
	addBot(t, manager, "bot_eth", 8081)
	addBot(t, manager, "bot_btc", 8082)

	require.NoError(t, manager.RemoveBot("bot_btc"))

	bots, err := manager.Bots()
	require.NoError(t, err)
	require.Len(t, bots, 1)
	assert.Equal(t, "bot_eth", bots[0].Name)

	err = manager.RemoveBot("bot_btc")
	require.Error(t, err)
	assert.True(t, fleeterrors.IsNotFound(err))
}

func TestBotsCommandTokensWin(t *testing.T) {
	manager, _, store := newTestManager(t)
	compose := `services:
  bot_eth:
    image: freqtradeorg/freqtrade:stable
    command:
      - trade
      - --config
      - /freqtrade/user_data/config_real.json
      - --strategy
      - RealStrategy
    environment:
      - FREQTRADE_STRATEGY=StaleStrategy
      - FREQTRADE_CONFIG_FILE=/freqtrade/user_data/config_stale.json
      - FREQTRADE_PAIRLIST=top10.json
    ports:
      - "8081:8080"
`
	require.NoError(t, os.WriteFile(store.Path(), []byte(compose), 0o644))

	bots, err := manager.Bots()
	require.NoError(t, err)
	require.Len(t, bots, 1)
	assert.Equal(t, "RealStrategy", bots[0].Strategy)
	assert.Equal(t, "/freqtrade/user_data/config_real.json", bots[0].ConfigFile)
	assert.Equal(t, "top10.json", bots[0].Pairlist)
	assert.Equal(t, 8081, bots[0].APIPort)
}

func TestBotsEnvironmentFallback(t *testing.T) {
	manager, _, store := newTestManager(t)
	compose := `services:
  bot_env:
    image: freqtradeorg/freqtrade:stable
    environment:
      - FREQTRADE_STRATEGY=EnvStrategy
  bot_bare:
    image: freqtradeorg/freqtrade:stable
`
	require.NoError(t, os.WriteFile(store.Path(), []byte(compose), 0o644))

	bots, err := manager.Bots()
	require.NoError(t, err)
	require.Len(t, bots, 2)
	assert.Equal(t, "EnvStrategy", bots[0].Strategy)
	assert.Equal(t, "Unknown", bots[1].Strategy)
	assert.Equal(t, "Unknown", bots[1].ConfigFile)
}

func TestLifecycleRequiresKnownBot(t *testing.T) {
	manager, runner, _ := newTestManager(t)
	ctx := context.Background()

	err := manager.Start(ctx, "ghost")
	require.Error(t, err)
	assert.True(t, fleeterrors.IsNotFound(err))
	assert.Empty(t, runner.recorded(), "unknown bot must not reach the tool")
}

func TestLifecycleDelegates(t *testing.T) {
	manager, runner, _ := newTestManager(t)
	ctx := context.Background()
	addBot(t, manager, "bot_eth", 8081)

	require.NoError(t, manager.Start(ctx, "bot_eth"))
	require.NoError(t, manager.Stop(ctx, "bot_eth"))
	require.NoError(t, manager.Restart(ctx, composecli.All))
	require.NoError(t, manager.Down(ctx))

	assert.Equal(t, []string{"start bot_eth", "stop bot_eth", "restart", "down"}, runner.recorded())
}

func TestStatusSingleBot(t *testing.T) {
	manager, runner, _ := newTestManager(t)
	addBot(t, manager, "bot_eth", 8081)
	runner.psOut = "bot_eth   Up 2 minutes"

	state, err := manager.Status(context.Background(), "bot_eth")
	require.NoError(t, err)
	assert.Equal(t, composecli.StateRunning, state)
}

func TestStatusAllClassifiesEveryBot(t *testing.T) {
	manager, runner, _ := newTestManager(t)
	addBot(t, manager, "bot_eth", 8081)
	addBot(t, manager, "bot_btc", 8082)
	runner.psOut = "bot_eth   Up 2 minutes\nbot_btc   Exited (0)"

	states, err := manager.StatusAll(context.Background())
	require.NoError(t, err)
	assert.Equal(t, map[string]composecli.BotState{
		"bot_eth": composecli.StateRunning,
		"bot_btc": composecli.StateStopped,
	}, states)
	// One listing call covers the whole fleet.
	assert.Equal(t, []string{"ps"}, runner.recorded())
}

func TestSuggestPort(t *testing.T) {
	manager, _, _ := newTestManager(t)

	port, err := manager.SuggestPort(8081)
	require.NoError(t, err)
	assert.Equal(t, 8081, port)

	addBot(t, manager, "bot_a", 8081)
	addBot(t, manager, "bot_b", 8083)

	// base + fleet size collides with bot_b, so the suggestion moves past it.
	port, err = manager.SuggestPort(8081)
	require.NoError(t, err)
	assert.Equal(t, 8084, port)
}

func TestNormalizeFillsGaps(t *testing.T) {
	manager, _, store := newTestManager(t)
	compose := `version: "3.8"
services:
  bot_manual:
    command: trade
`
	require.NoError(t, os.WriteFile(store.Path(), []byte(compose), 0o644))

	require.NoError(t, manager.Normalize())

	doc, err := store.Load()
	require.NoError(t, err)

	def, ok := doc.Services.Get("bot_manual")
	require.True(t, ok)
	assert.Equal(t, DefaultImage, def.Image)
	assert.Equal(t, DefaultRestart, def.Restart)
	assert.Equal(t, composefile.StringList{DefaultNetwork}, def.Networks)
	assert.Equal(t, composefile.StringList{"trade"}, def.Command)

	network, ok := doc.Networks.Get(DefaultNetwork)
	require.True(t, ok)
	assert.Equal(t, composefile.DefaultNetworkDriver, network.Driver)

	raw, err := manager.RawDocument()
	require.NoError(t, err)
	assert.NotContains(t, raw, "version:")
}

func TestConcurrentAddsAreSerialized(t *testing.T) {
	manager, _, _ := newTestManager(t)

	var wg sync.WaitGroup
	errs := make([]error, 6)
	for i := range errs {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			errs[i] = manager.AddBot(AddBotOptions{
				Name:       fmt.Sprintf("bot_%d", i),
				Strategy:   "EmaCross",
				ConfigFile: "config_a.json",
				Pairlist:   "top10.json",
				Port:       8081 + i,
			})
		}(i)
	}
	wg.Wait()

	for i, err := range errs {
		require.NoError(t, err, "add %d", i)
	}
	bots, err := manager.Bots()
	require.NoError(t, err)
	assert.Len(t, bots, 6)
}

func TestValidateReportsStructuralProblems(t *testing.T) {
	manager, _, store := newTestManager(t)
	require.NoError(t, os.WriteFile(store.Path(), []byte("services:\n  - a\n  - b\n"), 0o644))

	err := manager.Validate()
	require.Error(t, err)
	assert.True(t, fleeterrors.IsValidation(err))
}

func TestRawDocumentMissingFile(t *testing.T) {
	manager, _, _ := newTestManager(t)
	_, err := manager.RawDocument()
	require.Error(t, err)
	assert.True(t, fleeterrors.IsNotFound(err))
}
