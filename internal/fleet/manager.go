// Package fleet is the orchestration facade the CLI, TUI and MCP layers
// call. A Manager owns the document store, the compose runner and the
// config synthesizer, and serializes every document write as one
// load-mutate-save cycle: a manager mutex against in-process callers plus
// the store's advisory file lock against other processes. Reads go
// without the file lock; the store's atomic writes guarantee they see a
// complete document either way.
package fleet

import (
	"context"
	"os"
	"sync"

	"freqctl/internal/botconfig"
	"freqctl/internal/composecli"
	"freqctl/internal/composefile"
	fleeterrors "freqctl/internal/fleet/errors"
	"freqctl/pkg/logging"
)

// ComposeRunner is what the manager needs from the compose invocation
// layer.
type ComposeRunner interface {
	Start(ctx context.Context, service string) error
	Stop(ctx context.Context, service string) error
	Restart(ctx context.Context, service string) error
	Down(ctx context.Context) error
	PS(ctx context.Context, service string) (string, error)
	Status(ctx context.Context, service string) (composecli.BotState, error)
}

// Manager coordinates the compose document, the external tool and config
// synthesis for one fleet.
type Manager struct {
	mu     sync.Mutex
	store  *composefile.Store
	runner ComposeRunner
	synth  *botconfig.Synthesizer
}

// NewManager wires a manager over its three collaborators.
func NewManager(store *composefile.Store, runner ComposeRunner, synth *botconfig.Synthesizer) *Manager {
	return &Manager{store: store, runner: runner, synth: synth}
}

// ComposePath returns the path of the managed compose file.
func (m *Manager) ComposePath() string {
	return m.store.Path()
}

// AddBotOptions are the inputs for a new fleet member.
type AddBotOptions struct {
	Name       string
	Strategy   string
	ConfigFile string
	Pairlist   string
	Port       int
}

func (o AddBotOptions) validate() error {
	switch {
	case o.Name == "":
		return fleeterrors.NewValidation("bot name is required")
	case o.Strategy == "":
		return fleeterrors.NewValidation("strategy is required")
	case o.ConfigFile == "":
		return fleeterrors.NewValidation("config file is required")
	case o.Pairlist == "":
		return fleeterrors.NewValidation("pairlist is required")
	case o.Port < 1 || o.Port > 65535:
		return fleeterrors.NewValidation("API port %d is out of range", o.Port)
	}
	return nil
}

// AddBot synthesizes a service for the bot and commits it to the
// document. Networks the service references are created on first use; a
// second bot under the same name is a Conflict, never a silent update.
func (m *Manager) AddBot(opts AddBotOptions) error {
	if err := opts.validate(); err != nil {
		return err
	}
	def := NewBotService(opts.Name, opts.Strategy, opts.ConfigFile, opts.Pairlist, opts.Port)
	err := m.withDocument(func(doc *composefile.Document) error {
		return doc.AddService(opts.Name, def)
	})
	if err != nil {
		return err
	}
	logging.Info("Fleet", "added bot %s (strategy %s, port %d)", opts.Name, opts.Strategy, opts.Port)
	return nil
}

// RemoveBot removes the bot's service from the document. Its containers
// and generated config are left behind; networks stay because they may be
// shared.
func (m *Manager) RemoveBot(name string) error {
	err := m.withDocument(func(doc *composefile.Document) error {
		return doc.RemoveService(name)
	})
	if err != nil {
		return err
	}
	logging.Info("Fleet", "removed bot %s", name)
	return nil
}

// Bots lists the fleet in document order.
func (m *Manager) Bots() ([]Bot, error) {
	doc, err := m.loadDocument()
	if err != nil {
		return nil, err
	}
	bots := make([]Bot, 0, doc.Services.Len())
	for _, name := range doc.Services.Names() {
		def, _ := doc.Services.Get(name)
		bots = append(bots, botFromService(name, def))
	}
	return bots, nil
}

// Bot returns one fleet member by name.
func (m *Manager) Bot(name string) (Bot, error) {
	doc, err := m.loadDocument()
	if err != nil {
		return Bot{}, err
	}
	def, ok := doc.Services.Get(name)
	if !ok {
		return Bot{}, fleeterrors.NewNotFound(name, "bot")
	}
	return botFromService(name, def), nil
}

// Start brings one bot, or the whole fleet with All, up detached.
// Starting an already-running bot is delegated to the tool's own
// idempotence, not re-implemented here.
func (m *Manager) Start(ctx context.Context, name string) error {
	if err := m.requireBot(name); err != nil {
		return err
	}
	return m.runner.Start(ctx, name)
}

// Stop stops one bot, or the whole fleet with All.
func (m *Manager) Stop(ctx context.Context, name string) error {
	if err := m.requireBot(name); err != nil {
		return err
	}
	return m.runner.Stop(ctx, name)
}

// Restart restarts one bot, or the whole fleet with All.
func (m *Manager) Restart(ctx context.Context, name string) error {
	if err := m.requireBot(name); err != nil {
		return err
	}
	return m.runner.Restart(ctx, name)
}

// Down stops and removes every container in the fleet.
func (m *Manager) Down(ctx context.Context) error {
	return m.runner.Down(ctx)
}

// Status probes one bot's container state.
func (m *Manager) Status(ctx context.Context, name string) (composecli.BotState, error) {
	if err := m.requireBot(name); err != nil {
		return composecli.StateUnknown, err
	}
	return m.runner.Status(ctx, name)
}

// StatusAll probes the whole fleet with a single listing call.
func (m *Manager) StatusAll(ctx context.Context) (map[string]composecli.BotState, error) {
	doc, err := m.loadDocument()
	if err != nil {
		return nil, err
	}
	out, err := m.runner.PS(ctx, composecli.All)
	if err != nil {
		return nil, err
	}
	states := make(map[string]composecli.BotState, doc.Services.Len())
	for _, name := range doc.Services.Names() {
		states[name] = composecli.Classify(out, name)
	}
	return states, nil
}

// GenerateConfigFromTemplate synthesizes a bot config by overlaying an
// existing one; returns the written path.
func (m *Manager) GenerateConfigFromTemplate(template string, opts botconfig.Options) (string, error) {
	return m.synth.FromTemplate(template, opts)
}

// GenerateConfigFromScratch synthesizes a bot config from discrete
// settings; returns the written path.
func (m *Manager) GenerateConfigFromScratch(settings botconfig.CustomSettings, opts botconfig.Options) (string, error) {
	return m.synth.FromScratch(settings, opts)
}

// Validate parses the stored document and reports structural problems.
func (m *Manager) Validate() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, err := m.store.Load()
	return err
}

// RawDocument returns the stored document text as-is.
func (m *Manager) RawDocument() (string, error) {
	data, err := os.ReadFile(m.store.Path())
	if err != nil {
		if os.IsNotExist(err) {
			return "", fleeterrors.NewNotFound(m.store.Path(), "compose file")
		}
		return "", fleeterrors.NewIO(err, "reading compose file %s", m.store.Path())
	}
	return string(data), nil
}

// SuggestPort proposes a free external API port: base plus fleet size,
// bumped past any port a service already claims.
func (m *Manager) SuggestPort(base int) (int, error) {
	bots, err := m.Bots()
	if err != nil {
		return 0, err
	}
	used := make(map[int]bool, len(bots))
	for _, bot := range bots {
		used[bot.APIPort] = true
	}
	port := base + len(bots)
	for used[port] {
		port++
	}
	return port, nil
}

// requireBot fails with NotFound when the name is not in the document.
// All is always accepted.
func (m *Manager) requireBot(name string) error {
	if name == composecli.All {
		return nil
	}
	doc, err := m.loadDocument()
	if err != nil {
		return err
	}
	if !doc.HasService(name) {
		return fleeterrors.NewNotFound(name, "bot")
	}
	return nil
}

func (m *Manager) loadDocument() (*composefile.Document, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.store.LoadOrEmpty()
}

// withDocument runs one serialized load-mutate-save cycle, holding both
// the manager mutex and the store's advisory lock for its whole duration.
func (m *Manager) withDocument(fn func(*composefile.Document) error) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	lock, err := m.store.Lock()
	if err != nil {
		return err
	}
	defer lock.Unlock()

	doc, err := m.store.LoadOrEmpty()
	if err != nil {
		return err
	}
	if err := fn(doc); err != nil {
		return err
	}
	return m.store.Save(doc)
}
