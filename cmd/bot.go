package cmd

import (
	"fmt"
	"path/filepath"
	"regexp"

	"github.com/spf13/cobra"

	"freqctl/internal/botconfig"
	"freqctl/internal/cli"
	"freqctl/internal/cli/prompt"
	"freqctl/internal/composecli"
	"freqctl/internal/fleet"
	fleeterrors "freqctl/internal/fleet/errors"
	"freqctl/internal/pairlist"
	"freqctl/pkg/logging"
)

var (
	botOutputFormat string
	botQuiet        bool
)

var (
	botAddStrategy string
	botAddConfig   string
	botAddPairlist string
	botAddPort     int
	botRemoveForce bool
	botStartAll    bool
	botStopAll     bool
	botRestartAll  bool
)

// botCmd represents the bot command
var botCmd = &cobra.Command{
	Use:   "bot",
	Short: "Manage the bots in the fleet",
	Long: `Manage the freqtrade bots declared in the compose document.

Available commands:
  list     - List all bots with their container state
  add      - Add a bot service to the compose document
  create   - Interactively create a bot (config + service)
  remove   - Remove a bot service from the compose document
  start    - Start a bot container (or the whole fleet)
  stop     - Stop a bot container (or the whole fleet)
  restart  - Restart a bot container (or the whole fleet)
  status   - Show one bot's definition and container state`,
}

// botListCmd lists all bots
var botListCmd = &cobra.Command{
	Use:   "list",
	Short: "List all bots",
	Long: `List every bot declared in the compose document together with its
observed container state. The state column is a best-effort read of
'docker compose ps'; a bot never started shows as not_found.`,
	Args: cobra.NoArgs,
	RunE: runBotList,
}

// botAddCmd adds a bot service to the compose document
var botAddCmd = &cobra.Command{
	Use:   "add <name>",
	Short: "Add a bot to the compose document",
	Long: `Add a bot service to the compose document without touching any
container. The config file and pairlist must already exist under
user_data; use 'freqctl config generate' to synthesize a config, or
'freqctl bot create' for the guided flow that does both.

The external API port defaults to the first free port above the
configured port base.`,
	Args: cobra.ExactArgs(1),
	RunE: runBotAdd,
}

// botCreateCmd interactively creates a bot
var botCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Interactively create a bot",
	Long: `Guided bot creation: pick a strategy and pairlist from the user_data
catalog, synthesize a config file (from a template or from scratch),
choose a free external API port, and add the service to the compose
document in one pass.`,
	Args: cobra.NoArgs,
	RunE: runBotCreate,
}

// botRemoveCmd removes a bot service from the compose document
var botRemoveCmd = &cobra.Command{
	Use:   "remove <name>",
	Short: "Remove a bot from the compose document",
	Long: `Stop a bot's container (best effort) and remove its service entry
from the compose document. The bot's config file under user_data is
kept.`,
	Args: cobra.ExactArgs(1),
	RunE: runBotRemove,
}

// botStartCmd starts a bot container
var botStartCmd = &cobra.Command{
	Use:   "start [name]",
	Short: "Start a bot (or the whole fleet with --all)",
	Long: `Start one bot's container, or every container in the fleet with
--all. Starting an already-running bot is a no-op delegated to docker
compose.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runBotStart,
}

// botStopCmd stops a bot container
var botStopCmd = &cobra.Command{
	Use:   "stop [name]",
	Short: "Stop a bot (or the whole fleet with --all)",
	Long:  `Stop one bot's container, or every container in the fleet with --all.`,
	Args:  cobra.MaximumNArgs(1),
	RunE:  runBotStop,
}

// botRestartCmd restarts a bot container
var botRestartCmd = &cobra.Command{
	Use:   "restart [name]",
	Short: "Restart a bot (or the whole fleet with --all)",
	Long:  `Restart one bot's container, or every container in the fleet with --all.`,
	Args:  cobra.MaximumNArgs(1),
	RunE:  runBotRestart,
}

// botStatusCmd shows one bot's definition and container state
var botStatusCmd = &cobra.Command{
	Use:   "status <name>",
	Short: "Show a bot's definition and container state",
	Long: `Show one bot's compose definition (strategy, config, pairlist, image,
ports) together with its observed container state.`,
	Args: cobra.ExactArgs(1),
	RunE: runBotStatus,
}

func init() {
	rootCmd.AddCommand(botCmd)

	// Add subcommands
	botCmd.AddCommand(botListCmd)
	botCmd.AddCommand(botAddCmd)
	botCmd.AddCommand(botCreateCmd)
	botCmd.AddCommand(botRemoveCmd)
	botCmd.AddCommand(botStartCmd)
	botCmd.AddCommand(botStopCmd)
	botCmd.AddCommand(botRestartCmd)
	botCmd.AddCommand(botStatusCmd)

	// Add flags to the parent command
	botCmd.PersistentFlags().StringVarP(&botOutputFormat, "output", "o", "table", "Output format (table, json, yaml)")
	botCmd.PersistentFlags().BoolVarP(&botQuiet, "quiet", "q", false, "Suppress non-essential output")

	botAddCmd.Flags().StringVar(&botAddStrategy, "strategy", "", "Strategy class the bot trades (required)")
	botAddCmd.Flags().StringVar(&botAddConfig, "config", "", "Config file name under user_data (required)")
	botAddCmd.Flags().StringVar(&botAddPairlist, "pairlist", "", "Pairlist file name under user_data/pairlists (required)")
	botAddCmd.Flags().IntVar(&botAddPort, "port", 0, "External API port (default: first free port above the port base)")
	_ = botAddCmd.MarkFlagRequired("strategy")
	_ = botAddCmd.MarkFlagRequired("config")
	_ = botAddCmd.MarkFlagRequired("pairlist")

	botRemoveCmd.Flags().BoolVarP(&botRemoveForce, "force", "f", false, "Skip the confirmation prompt")
	botStartCmd.Flags().BoolVar(&botStartAll, "all", false, "Start every bot in the fleet")
	botStopCmd.Flags().BoolVar(&botStopAll, "all", false, "Stop every bot in the fleet")
	botRestartCmd.Flags().BoolVar(&botRestartAll, "all", false, "Restart every bot in the fleet")
}

func runBotList(cmd *cobra.Command, args []string) error {
	r, err := newRenderer(botOutputFormat, botQuiet)
	if err != nil {
		return err
	}
	manager := newFleetManager()

	bots, err := manager.Bots()
	if err != nil {
		return err
	}

	var states map[string]composecli.BotState
	if len(bots) > 0 {
		states, err = manager.StatusAll(cmd.Context())
		if err != nil {
			// An unreachable docker daemon must not hide the fleet
			// definition; the state column degrades to unknown.
			logging.Warn("CLI", "fleet status unavailable: %v", err)
		}
	}

	rows := make([]cli.BotRow, 0, len(bots))
	for _, bot := range bots {
		state, ok := states[bot.Name]
		if !ok {
			state = composecli.StateUnknown
		}
		rows = append(rows, cli.BotRow{Bot: bot, State: state})
	}
	return r.Fleet(rows)
}

func runBotAdd(cmd *cobra.Command, args []string) error {
	name := args[0]
	r, err := newRenderer(botOutputFormat, botQuiet)
	if err != nil {
		return err
	}
	manager := newFleetManager()

	port := botAddPort
	if port == 0 {
		port, err = manager.SuggestPort(loadedConfig.Fleet.PortBase)
		if err != nil {
			return err
		}
	}

	err = manager.AddBot(fleet.AddBotOptions{
		Name:       name,
		Strategy:   botAddStrategy,
		ConfigFile: botAddConfig,
		Pairlist:   botAddPairlist,
		Port:       port,
	})
	if err != nil {
		return err
	}

	r.Message("Added %s (strategy %s, port %d)", name, botAddStrategy, port)
	r.Message("Run 'freqctl bot start %s' to launch it", name)
	return nil
}

func runBotRemove(cmd *cobra.Command, args []string) error {
	name := args[0]
	r, err := newRenderer(botOutputFormat, botQuiet)
	if err != nil {
		return err
	}
	manager := newFleetManager()

	confirmed, err := prompt.ConfirmWithForce(fmt.Sprintf("Remove %s from the fleet", name), botRemoveForce)
	if err != nil {
		return abortOrErr(r, err)
	}
	if !confirmed {
		r.Message("Aborted")
		return nil
	}

	// Stop the container first so removing the service entry does not
	// orphan it. Best effort: the document edit proceeds even when the
	// docker daemon is unreachable.
	if err := manager.Stop(cmd.Context(), name); err != nil && !fleeterrors.IsNotFound(err) {
		logging.Warn("CLI", "could not stop %s before removal: %v", name, err)
	}

	if err := manager.RemoveBot(name); err != nil {
		return err
	}

	r.Message("Removed %s from the fleet (its config file under user_data is kept)", name)
	return nil
}

func runBotStart(cmd *cobra.Command, args []string) error {
	target, err := lifecycleTarget(args, botStartAll)
	if err != nil {
		return err
	}
	r, err := newRenderer(botOutputFormat, botQuiet)
	if err != nil {
		return err
	}
	manager := newFleetManager()

	if err := manager.Start(cmd.Context(), target); err != nil {
		return err
	}
	if target == composecli.All {
		r.Message("Fleet started")
	} else {
		r.Message("Started %s", target)
	}
	return nil
}

func runBotStop(cmd *cobra.Command, args []string) error {
	target, err := lifecycleTarget(args, botStopAll)
	if err != nil {
		return err
	}
	r, err := newRenderer(botOutputFormat, botQuiet)
	if err != nil {
		return err
	}
	manager := newFleetManager()

	if err := manager.Stop(cmd.Context(), target); err != nil {
		return err
	}
	if target == composecli.All {
		r.Message("Fleet stopped")
	} else {
		r.Message("Stopped %s", target)
	}
	return nil
}

func runBotRestart(cmd *cobra.Command, args []string) error {
	target, err := lifecycleTarget(args, botRestartAll)
	if err != nil {
		return err
	}
	r, err := newRenderer(botOutputFormat, botQuiet)
	if err != nil {
		return err
	}
	manager := newFleetManager()

	if err := manager.Restart(cmd.Context(), target); err != nil {
		return err
	}
	if target == composecli.All {
		r.Message("Fleet restarted")
	} else {
		r.Message("Restarted %s", target)
	}
	return nil
}

func runBotStatus(cmd *cobra.Command, args []string) error {
	name := args[0]
	r, err := newRenderer(botOutputFormat, botQuiet)
	if err != nil {
		return err
	}
	manager := newFleetManager()

	bot, err := manager.Bot(name)
	if err != nil {
		return err
	}
	state, err := manager.Status(cmd.Context(), name)
	if err != nil {
		logging.Warn("CLI", "status of %s unavailable: %v", name, err)
		state = composecli.StateUnknown
	}
	return r.Bot(cli.BotRow{Bot: bot, State: state})
}

// lifecycleTarget resolves the start/stop/restart target from the
// optional positional name and the --all flag.
func lifecycleTarget(args []string, all bool) (string, error) {
	if all {
		if len(args) > 0 {
			return "", fmt.Errorf("--all cannot be combined with a bot name")
		}
		return composecli.All, nil
	}
	if len(args) == 0 {
		return "", fmt.Errorf("specify a bot name or --all")
	}
	return args[0], nil
}

// abortOrErr turns a Ctrl+C during a prompt into a quiet exit.
func abortOrErr(r *cli.Renderer, err error) error {
	if prompt.IsAborted(err) {
		r.Message("Aborted")
		return nil
	}
	return err
}

var botNameRe = regexp.MustCompile(`^[a-zA-Z0-9][a-zA-Z0-9_.-]*$`)

func validateBotName(input string) error {
	if input == "" {
		return fmt.Errorf("name must not be empty")
	}
	if !botNameRe.MatchString(input) {
		return fmt.Errorf("name must start with a letter or digit and contain only letters, digits, '.', '_' and '-'")
	}
	return nil
}

const (
	configModeScratch  = "Generate a new config"
	configModeTemplate = "Copy an existing config as template"
)

func runBotCreate(cmd *cobra.Command, args []string) error {
	r, err := newRenderer(botOutputFormat, botQuiet)
	if err != nil {
		return err
	}
	manager := newFleetManager()
	catalog := newUserDataCatalog()

	name, err := prompt.InputWithValidation("Bot name", validateBotName)
	if err != nil {
		return abortOrErr(r, err)
	}
	if _, err := manager.Bot(name); err == nil {
		return fmt.Errorf("bot %s already exists in the fleet", name)
	}

	strategies, err := catalog.ListStrategies()
	if err != nil {
		return err
	}
	if len(strategies) == 0 {
		return fmt.Errorf("no strategies found in %s", catalog.StrategiesDir())
	}
	strategyOptions := make([]prompt.SelectOption, 0, len(strategies))
	for _, s := range strategies {
		strategyOptions = append(strategyOptions, prompt.SelectOption{
			Label:       fmt.Sprintf("%s (%s)", s.ClassName, s.Category),
			Value:       s.ClassName,
			Description: fmt.Sprintf("%s, modified %s", s.FileName, s.Modified),
		})
	}
	strategy, err := prompt.Select("Strategy", strategyOptions)
	if err != nil {
		return abortOrErr(r, err)
	}

	pairlists, err := pairlist.List(catalog.PairlistsDir())
	if err != nil {
		return err
	}
	if len(pairlists) == 0 {
		return fmt.Errorf("no pairlists found in %s", catalog.PairlistsDir())
	}
	pairlistOptions := make([]prompt.SelectOption, 0, len(pairlists))
	for _, p := range pairlists {
		pairlistOptions = append(pairlistOptions, prompt.SelectOption{
			Label:       fmt.Sprintf("%s (%d pairs)", p.Name, p.PairCount),
			Value:       p.Name,
			Description: fmt.Sprintf("category %s", p.Category),
		})
	}
	chosenPairlist, err := prompt.Select("Pairlist", pairlistOptions)
	if err != nil {
		return abortOrErr(r, err)
	}

	mode, err := prompt.SelectString("Config", []string{configModeScratch, configModeTemplate})
	if err != nil {
		return abortOrErr(r, err)
	}

	opts := botconfig.Options{
		ContainerName: name,
		Strategy:      strategy,
		Pairlist:      chosenPairlist,
	}

	var configPath string
	if mode == configModeTemplate {
		configs, err := catalog.ListConfigs()
		if err != nil {
			return err
		}
		if len(configs) == 0 {
			return fmt.Errorf("no template configs found in %s", loadedConfig.UserDataPath())
		}
		templateOptions := make([]prompt.SelectOption, 0, len(configs))
		for _, c := range configs {
			templateOptions = append(templateOptions, prompt.SelectOption{
				Label:       c.Name,
				Value:       c.Name,
				Description: fmt.Sprintf("strategy %s, %s, %s", c.Strategy, c.TradingMode, c.Timeframe),
			})
		}
		template, err := prompt.Select("Template config", templateOptions)
		if err != nil {
			return abortOrErr(r, err)
		}
		configPath, err = manager.GenerateConfigFromTemplate(template, opts)
		if err != nil {
			return err
		}
	} else {
		settings := botconfig.NewCustomSettings()

		tradingMode, err := prompt.SelectString("Trading mode", []string{"spot", "futures"})
		if err != nil {
			return abortOrErr(r, err)
		}
		settings.TradingMode = tradingMode

		dryRun, err := prompt.Confirm("Dry run (paper trading)", true)
		if err != nil {
			return abortOrErr(r, err)
		}
		settings.DryRun = dryRun

		useFreqAI, err := prompt.Confirm("Enable FreqAI", false)
		if err != nil {
			return abortOrErr(r, err)
		}
		if useFreqAI {
			model, err := prompt.SelectString("FreqAI model", []string{"LightGBM", "XGBoost", "CatBoost"})
			if err != nil {
				return abortOrErr(r, err)
			}
			freqai := botconfig.NewFreqAISettings()
			freqai.ModelType = model
			settings.FreqAI = &freqai
		}

		configPath, err = manager.GenerateConfigFromScratch(settings, opts)
		if err != nil {
			return err
		}
	}

	suggested, err := manager.SuggestPort(loadedConfig.Fleet.PortBase)
	if err != nil {
		return err
	}
	port, err := prompt.InputPort("External API port", suggested)
	if err != nil {
		return abortOrErr(r, err)
	}

	err = manager.AddBot(fleet.AddBotOptions{
		Name:       name,
		Strategy:   strategy,
		ConfigFile: filepath.Base(configPath),
		Pairlist:   chosenPairlist,
		Port:       port,
	})
	if err != nil {
		return err
	}

	r.Message("Created %s (config %s, port %d)", name, filepath.Base(configPath), port)
	r.Message("Run 'freqctl bot start %s' to launch it", name)
	return nil
}
