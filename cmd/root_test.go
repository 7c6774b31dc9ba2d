package cmd

import (
	"bytes"
	"strings"
	"testing"

	"github.com/spf13/cobra"
)

func TestSetVersion(t *testing.T) {
	// Test setting version
	testVersion := "1.2.3-test"
	SetVersion(testVersion)

	if rootCmd.Version != testVersion {
		t.Errorf("Expected version to be %s, got %s", testVersion, rootCmd.Version)
	}
}

func TestRootCommand(t *testing.T) {
	// Test root command properties
	if rootCmd.Use != "freqctl" {
		t.Errorf("Expected Use to be 'freqctl', got %s", rootCmd.Use)
	}

	if rootCmd.Short == "" {
		t.Error("Expected Short description to be set")
	}

	if rootCmd.Long == "" {
		t.Error("Expected Long description to be set")
	}

	if !rootCmd.SilenceUsage {
		t.Error("Expected SilenceUsage to be true")
	}
}

func TestVersionTemplate(t *testing.T) {
	// Create a new command to test version template
	testCmd := &cobra.Command{
		Use:     "test",
		Version: "1.0.0",
	}

	// Set the same version template as in Execute()
	testCmd.SetVersionTemplate(`{{printf "freqctl version %s\n" .Version}}`)

	// Capture output
	var buf bytes.Buffer
	testCmd.SetOut(&buf)

	// Execute version command
	testCmd.SetArgs([]string{"--version"})
	err := testCmd.Execute()
	if err != nil {
		t.Fatalf("Error executing version command: %v", err)
	}

	output := buf.String()
	expected := "freqctl version 1.0.0\n"
	if output != expected {
		t.Errorf("Expected version output %q, got %q", expected, output)
	}
}

func TestSubcommands(t *testing.T) {
	// Test that subcommands are added
	commands := rootCmd.Commands()

	expectedCommands := []string{
		"bot", "compose", "config", "dashboard", "pairlist",
		"strategy", "serve", "version", "self-update",
	}
	foundCommands := make(map[string]bool)

	for _, cmd := range commands {
		foundCommands[cmd.Name()] = true
	}

	for _, expected := range expectedCommands {
		if !foundCommands[expected] {
			t.Errorf("Expected subcommand %s to be registered", expected)
		}
	}
}

func TestRootCommandHelp(t *testing.T) {
	// Test that help can be generated without error
	var buf bytes.Buffer

	// Create a new command to avoid affecting the global one
	testRootCmd := &cobra.Command{
		Use:   "freqctl",
		Short: "Manage a docker-compose fleet of freqtrade bots",
		Long: `freqctl manages a fleet of freqtrade trading-bot containers declared
in a single docker-compose.yml: adding and removing bots, synthesizing
their freqtrade configuration files, driving container lifecycle through
docker compose, and watching live state in a dashboard.`,
		SilenceUsage: true,
	}

	testRootCmd.SetOut(&buf)
	testRootCmd.SetArgs([]string{"--help"})

	err := testRootCmd.Execute()
	if err != nil {
		t.Fatalf("Error executing help command: %v", err)
	}

	output := buf.String()
	if !strings.Contains(output, "freqctl") {
		t.Errorf("Help output should contain 'freqctl'. Got: %q", output)
	}

	if !strings.Contains(output, "fleet of freqtrade") {
		t.Errorf("Help output should contain the long description. Got: %q", output)
	}
}
