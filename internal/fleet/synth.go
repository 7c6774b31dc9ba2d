package fleet

import (
	"fmt"

	"freqctl/internal/composefile"
)

// Defaults applied to every synthesized service.
const (
	DefaultImage   = "freqtradeorg/freqtrade:stable"
	DefaultRestart = "unless-stopped"
	DefaultNetwork = "freqtrade_network"

	// apiContainerPort is the in-container API port every bot listens on;
	// the host side of the mapping is chosen per bot.
	apiContainerPort = 8080
)

// NewBotService synthesizes the service definition for one bot. Pure and
// deterministic: no I/O, same inputs, same definition. The strategy,
// config file and pairlist are encoded twice, as command tokens and as
// FREQTRADE_* environment entries, so later inspection can recover intent
// from either; command tokens win when the two disagree.
func NewBotService(name, strategy, configFile, pairlistFile string, externalPort int) *composefile.ServiceDefinition {
	configPath := "/freqtrade/user_data/" + configFile
	return &composefile.ServiceDefinition{
		Image:         DefaultImage,
		ContainerName: name,
		Restart:       DefaultRestart,
		Volumes: composefile.StringList{
			"./user_data:/freqtrade/user_data",
			"./ichiv1/user_data:/freqtrade/ichiv1_data:ro",
		},
		Command: composefile.StringList{
			"trade",
			"--config", configPath,
			"--strategy-path", "/freqtrade/user_data/strategies",
			"--strategy", strategy,
		},
		Environment: composefile.StringList{
			"FREQTRADE_CONFIG_FILE=" + configPath,
			"FREQTRADE_STRATEGY=" + strategy,
			"FREQTRADE_PAIRLIST=" + pairlistFile,
		},
		Ports:    composefile.StringList{fmt.Sprintf("%d:%d", externalPort, apiContainerPort)},
		Networks: composefile.StringList{DefaultNetwork},
	}
}
