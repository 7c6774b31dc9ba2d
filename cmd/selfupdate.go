package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/creativeprojects/go-selfupdate"
	"github.com/spf13/cobra"

	"freqctl/pkg/logging"
)

// githubRepoSlug is the repository queried for releases.
var githubRepoSlug = "freqctl/freqctl"

func newSelfUpdateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "self-update",
		Short: "Update freqctl to the latest released version",
		Long: `Checks for the latest release of freqctl on GitHub and, if a newer
version is available, downloads it and replaces the current binary in
place. Development builds cannot be updated this way; install a released
build first.`,
		RunE: runSelfUpdate,
	}
}

func runSelfUpdate(cmd *cobra.Command, args []string) error {
	currentVersion := rootCmd.Version
	if currentVersion == "" || currentVersion == "dev" {
		return fmt.Errorf("cannot self-update a development version (%q)", currentVersion)
	}

	ctx := context.Background()

	logging.Info("SelfUpdate", "Checking %s for a newer release", githubRepoSlug)
	latest, found, err := selfupdate.DetectLatest(ctx, selfupdate.ParseSlug(githubRepoSlug))
	if err != nil {
		return fmt.Errorf("checking for updates: %w", err)
	}
	if !found {
		return fmt.Errorf("no release found for %s", githubRepoSlug)
	}

	if latest.LessOrEqual(currentVersion) {
		fmt.Printf("freqctl %s is already the latest version\n", currentVersion)
		return nil
	}

	exe, err := os.Executable()
	if err != nil {
		return fmt.Errorf("locating current executable: %w", err)
	}

	logging.Info("SelfUpdate", "Updating %s to %s", currentVersion, latest.Version())
	if err := selfupdate.UpdateTo(ctx, latest.AssetURL, latest.AssetName, exe); err != nil {
		return fmt.Errorf("updating to %s: %w", latest.Version(), err)
	}

	fmt.Printf("Successfully updated to freqctl %s\n", latest.Version())
	return nil
}
