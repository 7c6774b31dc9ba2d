package config

import (
	"path/filepath"
	"time"
)

// FreqctlConfig is the top-level configuration structure for freqctl.
type FreqctlConfig struct {
	Fleet     FleetSettings     `yaml:"fleet"`
	Logging   LoggingSettings   `yaml:"logging"`
	Dashboard DashboardSettings `yaml:"dashboard"`
}

// FleetSettings locate the managed fleet on disk.
type FleetSettings struct {
	BaseDir     string `yaml:"baseDir,omitempty"`     // fleet root; compose file and user_data live here
	ComposeFile string `yaml:"composeFile,omitempty"` // relative to baseDir unless absolute
	UserDataDir string `yaml:"userDataDir,omitempty"` // relative to baseDir unless absolute
	PortBase    int    `yaml:"portBase,omitempty"`    // first external API port suggested for new bots
}

// LoggingSettings control freqctl's own log output.
type LoggingSettings struct {
	Level string `yaml:"level,omitempty"` // debug, info, warn, error
	File  string `yaml:"file,omitempty"`  // JSON-lines sink; replaces stderr when set
}

// DashboardSettings tune the TUI.
type DashboardSettings struct {
	RefreshInterval time.Duration `yaml:"refreshInterval,omitempty"` // fleet status poll period
}

// ComposePath resolves the compose file location against the base
// directory.
func (c FreqctlConfig) ComposePath() string {
	return resolveAgainst(c.Fleet.BaseDir, c.Fleet.ComposeFile)
}

// UserDataPath resolves the user_data location against the base
// directory.
func (c FreqctlConfig) UserDataPath() string {
	return resolveAgainst(c.Fleet.BaseDir, c.Fleet.UserDataDir)
}

func resolveAgainst(base, path string) string {
	if filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(base, path)
}
