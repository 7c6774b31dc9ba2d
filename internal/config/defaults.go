package config

import (
	"time"
)

// DefaultConfig returns the built-in defaults: a fleet rooted in the
// current directory with the conventional compose file and user_data
// layout, ports suggested from 8081 upward.
func DefaultConfig() FreqctlConfig {
	return FreqctlConfig{
		Fleet: FleetSettings{
			BaseDir:     ".",
			ComposeFile: "docker-compose.yml",
			UserDataDir: "user_data",
			PortBase:    8081,
		},
		Logging: LoggingSettings{
			Level: "info",
		},
		Dashboard: DashboardSettings{
			RefreshInterval: 5 * time.Second,
		},
	}
}
