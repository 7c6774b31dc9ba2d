package cmd

import (
	"github.com/spf13/cobra"

	"freqctl/internal/cli/prompt"
	fleeterrors "freqctl/internal/fleet/errors"
)

var (
	composeOutputFormat string
	composeQuiet        bool
	composeDownForce    bool
)

// composeCmd represents the compose command
var composeCmd = &cobra.Command{
	Use:   "compose",
	Short: "Work with the compose document",
	Long: `Work with the docker-compose.yml that declares the fleet.

Available commands:
  show       - Print the document as stored on disk
  validate   - Check the document's structure
  normalize  - Rewrite the document into canonical form
  down       - Stop and remove every container of the fleet`,
}

// composeShowCmd prints the document
var composeShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the compose document",
	Long:  `Print the compose document exactly as stored on disk.`,
	Args:  cobra.NoArgs,
	RunE:  runComposeShow,
}

// composeValidateCmd checks the document structure
var composeValidateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate the compose document",
	Long: `Parse the compose document and report structural problems: the top
level and every service must be mappings, and a services mapping must
exist. Exits non-zero when the document is invalid.`,
	Args: cobra.NoArgs,
	RunE: runComposeValidate,
}

// composeNormalizeCmd rewrites the document into canonical form
var composeNormalizeCmd = &cobra.Command{
	Use:   "normalize",
	Short: "Rewrite the compose document into canonical form",
	Long: `Load, normalize and save the compose document: drop a version key,
coerce scalar list fields to sequences, fill missing image/restart
defaults, attach bare services to the default network and make sure
that network exists. The previous content is kept as a .backup file.`,
	Args: cobra.NoArgs,
	RunE: runComposeNormalize,
}

// composeDownCmd stops and removes the fleet's containers
var composeDownCmd = &cobra.Command{
	Use:   "down",
	Short: "Stop and remove every container of the fleet",
	Long: `Run 'docker compose down' for the fleet: stop every container and
remove containers and networks. The compose document itself is not
modified.`,
	Args: cobra.NoArgs,
	RunE: runComposeDown,
}

func init() {
	rootCmd.AddCommand(composeCmd)

	// Add subcommands
	composeCmd.AddCommand(composeShowCmd)
	composeCmd.AddCommand(composeValidateCmd)
	composeCmd.AddCommand(composeNormalizeCmd)
	composeCmd.AddCommand(composeDownCmd)

	// Add flags to the parent command
	composeCmd.PersistentFlags().StringVarP(&composeOutputFormat, "output", "o", "table", "Output format (table, json, yaml)")
	composeCmd.PersistentFlags().BoolVarP(&composeQuiet, "quiet", "q", false, "Suppress non-essential output")

	composeDownCmd.Flags().BoolVarP(&composeDownForce, "force", "f", false, "Skip the confirmation prompt")
}

func runComposeShow(cmd *cobra.Command, args []string) error {
	r, err := newRenderer(composeOutputFormat, composeQuiet)
	if err != nil {
		return err
	}
	manager := newFleetManager()

	raw, err := manager.RawDocument()
	if err != nil {
		return err
	}
	r.Raw(raw)
	return nil
}

func runComposeValidate(cmd *cobra.Command, args []string) error {
	r, err := newRenderer(composeOutputFormat, composeQuiet)
	if err != nil {
		return err
	}
	manager := newFleetManager()

	if err := manager.Validate(); err != nil {
		return err
	}
	r.Message("%s is valid", manager.ComposePath())
	return nil
}

func runComposeNormalize(cmd *cobra.Command, args []string) error {
	r, err := newRenderer(composeOutputFormat, composeQuiet)
	if err != nil {
		return err
	}
	manager := newFleetManager()

	// Normalizing a fleet that has no document yet is a no-op, not a
	// failure; without this check an empty canonical document would be
	// materialized.
	if _, err := manager.RawDocument(); fleeterrors.IsNotFound(err) {
		r.Message("No compose document at %s, nothing to normalize", manager.ComposePath())
		return nil
	}

	if err := manager.Normalize(); err != nil {
		return err
	}
	r.Message("Normalized %s (previous content in %s.backup)", manager.ComposePath(), manager.ComposePath())
	return nil
}

func runComposeDown(cmd *cobra.Command, args []string) error {
	r, err := newRenderer(composeOutputFormat, composeQuiet)
	if err != nil {
		return err
	}
	manager := newFleetManager()

	confirmed, err := prompt.ConfirmWithForce("Stop and remove every container of the fleet", composeDownForce)
	if err != nil {
		return abortOrErr(r, err)
	}
	if !confirmed {
		r.Message("Aborted")
		return nil
	}

	if err := manager.Down(cmd.Context()); err != nil {
		return err
	}
	r.Message("Fleet is down")
	return nil
}
