package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"freqctl/internal/botconfig"
)

var (
	configOutputFormat string
	configQuiet        bool
)

var (
	configGenStrategy  string
	configGenPairlist  string
	configGenTemplate  string
	configGenMode      string
	configGenTrades    int
	configGenCurrency  string
	configGenStake     float64
	configGenDryRun    bool
	configGenTimeframe string
	configGenExchange  string
	configGenStoploss  float64
	configGenROI       float64
	configGenFreqAI    string
)

// configCmd represents the config command
var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage freqtrade config files",
	Long: `Manage the freqtrade configuration files under user_data.

Available commands:
  list      - List the config files with a summary of each
  generate  - Synthesize a config file for a bot`,
}

// configListCmd lists the config files
var configListCmd = &cobra.Command{
	Use:   "list",
	Short: "List config files",
	Long: `List every config*.json under user_data with a summary: strategy,
trading mode, timeframe, dry-run flag and FreqAI state. Files that are
not valid JSON are skipped with a warning.`,
	Args: cobra.NoArgs,
	RunE: runConfigList,
}

// configGenerateCmd synthesizes a config file
var configGenerateCmd = &cobra.Command{
	Use:   "generate <bot-name>",
	Short: "Synthesize a config file for a bot",
	Long: `Synthesize config_<bot-name>.json under user_data.

With --template, an existing config is copied and the strategy,
pairlist, bot name and API server block are overlaid; everything else
in the template survives. Without it, a complete config is built from
the flags below. Either way the pairlist file is validated first and
nothing is written when it is rejected, and the api_server block is
force-enabled with credentials derived from the bot name.

An existing config for the same bot is overwritten.`,
	Args: cobra.ExactArgs(1),
	RunE: runConfigGenerate,
}

func init() {
	rootCmd.AddCommand(configCmd)

	// Add subcommands
	configCmd.AddCommand(configListCmd)
	configCmd.AddCommand(configGenerateCmd)

	// Add flags to the parent command
	configCmd.PersistentFlags().StringVarP(&configOutputFormat, "output", "o", "table", "Output format (table, json, yaml)")
	configCmd.PersistentFlags().BoolVarP(&configQuiet, "quiet", "q", false, "Suppress non-essential output")

	flags := configGenerateCmd.Flags()
	flags.StringVar(&configGenStrategy, "strategy", "", "Strategy class the bot trades (required)")
	flags.StringVar(&configGenPairlist, "pairlist", "", "Pairlist file name under user_data/pairlists (required)")
	flags.StringVar(&configGenTemplate, "template", "", "Existing config to copy as template (name under user_data)")
	flags.StringVar(&configGenMode, "trading-mode", "spot", "Trading mode: spot or futures")
	flags.IntVar(&configGenTrades, "max-open-trades", 5, "Maximum simultaneous open trades")
	flags.StringVar(&configGenCurrency, "stake-currency", "USDT", "Stake currency")
	flags.Float64Var(&configGenStake, "stake-amount", 200, "Stake amount per trade")
	flags.BoolVar(&configGenDryRun, "dry-run", true, "Paper trading (no real orders)")
	flags.StringVar(&configGenTimeframe, "timeframe", "5m", "Candle timeframe")
	flags.StringVar(&configGenExchange, "exchange", "binance", "Exchange name")
	flags.Float64Var(&configGenStoploss, "stoploss", 0, "Stoploss percentage, e.g. 5 for -5%")
	flags.Float64Var(&configGenROI, "roi", 0, "Minimal ROI percentage, e.g. 3 for 3%")
	flags.StringVar(&configGenFreqAI, "freqai", "", "Enable FreqAI with this model (LightGBM, XGBoost, CatBoost)")
	_ = configGenerateCmd.MarkFlagRequired("strategy")
	_ = configGenerateCmd.MarkFlagRequired("pairlist")
}

func runConfigList(cmd *cobra.Command, args []string) error {
	r, err := newRenderer(configOutputFormat, configQuiet)
	if err != nil {
		return err
	}
	configs, err := newUserDataCatalog().ListConfigs()
	if err != nil {
		return err
	}
	return r.Configs(configs)
}

func runConfigGenerate(cmd *cobra.Command, args []string) error {
	name := args[0]
	manager := newFleetManager()

	opts := botconfig.Options{
		ContainerName: name,
		Strategy:      configGenStrategy,
		Pairlist:      configGenPairlist,
	}

	var path string
	var err error
	if configGenTemplate != "" {
		path, err = manager.GenerateConfigFromTemplate(configGenTemplate, opts)
	} else {
		settings := botconfig.NewCustomSettings()
		settings.TradingMode = configGenMode
		settings.MaxOpenTrades = configGenTrades
		settings.StakeCurrency = configGenCurrency
		settings.StakeAmount = configGenStake
		settings.DryRun = configGenDryRun
		settings.Timeframe = configGenTimeframe
		settings.Exchange = configGenExchange
		if cmd.Flags().Changed("stoploss") {
			settings.StoplossPercent = &configGenStoploss
		}
		if cmd.Flags().Changed("roi") {
			settings.MinimalROIPercent = &configGenROI
		}
		if configGenFreqAI != "" {
			freqai := botconfig.NewFreqAISettings()
			freqai.ModelType = configGenFreqAI
			settings.FreqAI = &freqai
		}
		path, err = manager.GenerateConfigFromScratch(settings, opts)
	}
	if err != nil {
		return err
	}

	if !configQuiet {
		fmt.Println(path)
	}
	return nil
}
