package cmd

import (
	"github.com/spf13/cobra"

	"freqctl/internal/pairlist"
)

var (
	pairlistOutputFormat string
	pairlistQuiet        bool
)

// pairlistCmd represents the pairlist command
var pairlistCmd = &cobra.Command{
	Use:   "pairlist",
	Short: "Manage trading pairlists",
	Long: `Inspect the pairlist files under user_data/pairlists.

A pairlist is a JSON file with a pair_whitelist (required) and an
optional pair_blacklist; bot configs are synthesized against one.

Available commands:
  list  - List pairlist files with pair counts
  show  - Show a pairlist's whitelist and blacklist`,
}

// pairlistListCmd lists the pairlist files
var pairlistListCmd = &cobra.Command{
	Use:   "list",
	Short: "List pairlist files",
	Long: `List every *.json under user_data/pairlists with its pair count and
category. Unreadable files are skipped with a warning; a file without a
pair_whitelist still lists with zero pairs but is rejected later when a
config is synthesized against it.`,
	Args: cobra.NoArgs,
	RunE: runPairlistList,
}

// pairlistShowCmd shows one pairlist's contents
var pairlistShowCmd = &cobra.Command{
	Use:   "show <name>",
	Short: "Show a pairlist's pairs",
	Long: `Show the whitelist and blacklist of one pairlist file. The file must
carry a non-empty pair_whitelist; the same validation gates config
synthesis.`,
	Args: cobra.ExactArgs(1),
	RunE: runPairlistShow,
}

func init() {
	rootCmd.AddCommand(pairlistCmd)

	// Add subcommands
	pairlistCmd.AddCommand(pairlistListCmd)
	pairlistCmd.AddCommand(pairlistShowCmd)

	// Add flags to the parent command
	pairlistCmd.PersistentFlags().StringVarP(&pairlistOutputFormat, "output", "o", "table", "Output format (table, json, yaml)")
	pairlistCmd.PersistentFlags().BoolVarP(&pairlistQuiet, "quiet", "q", false, "Suppress non-essential output")
}

func runPairlistList(cmd *cobra.Command, args []string) error {
	r, err := newRenderer(pairlistOutputFormat, pairlistQuiet)
	if err != nil {
		return err
	}
	infos, err := pairlist.List(newUserDataCatalog().PairlistsDir())
	if err != nil {
		return err
	}
	return r.Pairlists(infos)
}

func runPairlistShow(cmd *cobra.Command, args []string) error {
	r, err := newRenderer(pairlistOutputFormat, pairlistQuiet)
	if err != nil {
		return err
	}
	path := pairlist.ResolvePath(newUserDataCatalog().PairlistsDir(), args[0])
	p, err := pairlist.Load(path)
	if err != nil {
		return err
	}
	return r.PairlistDetail(p)
}
