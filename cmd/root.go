package cmd

import (
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"freqctl/internal/botconfig"
	"freqctl/internal/cli"
	"freqctl/internal/composecli"
	"freqctl/internal/composefile"
	"freqctl/internal/config"
	"freqctl/internal/fleet"
	"freqctl/internal/userdata"
	"freqctl/pkg/logging"
)

// loadedConfig is the effective configuration for the running command,
// populated by the root PersistentPreRunE before any RunE fires.
var loadedConfig config.FreqctlConfig

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "freqctl",
	Short: "Manage a docker-compose fleet of freqtrade bots",
	Long: `freqctl manages a fleet of freqtrade trading-bot containers declared
in a single docker-compose.yml: adding and removing bots, synthesizing
their freqtrade configuration files, driving container lifecycle through
docker compose, and watching live state in a dashboard.`,
	// SilenceUsage is set to true to prevent printing usage message on errors
	// handled by us (e.g. invalid arguments, failed tool invocations)
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load()
		if err != nil {
			return err
		}
		loadedConfig = cfg
		// The dashboard re-routes logging into its own pane; every other
		// command logs text to stderr so stdout stays clean for results.
		logging.InitForCLI(logging.ParseLevel(cfg.Logging.Level), os.Stderr)
		if cfg.Logging.File != "" {
			// Useful when stderr is invisible, e.g. `serve` under an MCP
			// client. An unwritable file costs the sink, not the command.
			if err := logging.InitForFile(logging.ParseLevel(cfg.Logging.Level), cfg.Logging.File); err != nil {
				logging.Warn("Config", "file logging unavailable: %v", err)
			}
		}
		return nil
	},
}

// SetVersion sets the version for the root command
func SetVersion(v string) {
	rootCmd.Version = v // Set cobra's version field as well
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	// Set up version template
	rootCmd.SetVersionTemplate(`{{printf "freqctl version %s\n" .Version}}`)

	err := rootCmd.Execute()
	if err != nil {
		// Cobra prints the error, we just exit non-zero
		os.Exit(1)
	}
}

func init() {
	rootCmd.AddCommand(newVersionCmd())
	rootCmd.AddCommand(newSelfUpdateCmd())
}

// newFleetManager assembles the manager stack from the loaded
// configuration.
func newFleetManager() *fleet.Manager {
	composePath := loadedConfig.ComposePath()
	store := composefile.NewStore(composePath)
	runner := composecli.NewRunner(filepath.Dir(composePath))
	synth := botconfig.NewSynthesizer(loadedConfig.UserDataPath())
	return fleet.NewManager(store, runner, synth)
}

// newUserDataCatalog opens the user_data catalog from the loaded
// configuration.
func newUserDataCatalog() *userdata.Catalog {
	return userdata.NewCatalog(loadedConfig.UserDataPath())
}

// newRenderer builds the stdout renderer for a command group's --output
// and --quiet flags.
func newRenderer(format string, quiet bool) (*cli.Renderer, error) {
	parsed, err := cli.ParseOutputFormat(format)
	if err != nil {
		return nil, err
	}
	return cli.NewRenderer(os.Stdout, cli.RendererOptions{Format: parsed, Quiet: quiet}), nil
}
