package fleet

import (
	"fmt"
	"strconv"
	"strings"

	"freqctl/internal/composefile"
)

// unknownValue marks metadata that could not be recovered from a service
// definition, typically one written by hand.
const unknownValue = "Unknown"

// Bot is the inspection view of one fleet member.
type Bot struct {
	Name       string `json:"name" yaml:"name"`
	Strategy   string `json:"strategy" yaml:"strategy"`
	ConfigFile string `json:"config_file" yaml:"config_file"`
	Pairlist   string `json:"pairlist" yaml:"pairlist"`
	Image      string `json:"image" yaml:"image"`
	Restart    string `json:"restart" yaml:"restart"`
	APIPort    int    `json:"api_port" yaml:"api_port"`
}

// APIEndpoint is the local URL of the bot's API server, or "" when the
// service has no port mapping.
func (b Bot) APIEndpoint() string {
	if b.APIPort == 0 {
		return ""
	}
	return fmt.Sprintf("http://127.0.0.1:%d", b.APIPort)
}

// botFromService recovers bot metadata from a service definition. The
// FREQTRADE_* environment entries are read first and the command tokens
// overwrite them, so the command wins when the two disagree.
func botFromService(name string, def *composefile.ServiceDefinition) Bot {
	bot := Bot{
		Name:       name,
		Strategy:   unknownValue,
		ConfigFile: unknownValue,
		Image:      def.Image,
		Restart:    def.Restart,
		APIPort:    externalPort(def.Ports),
	}

	for _, env := range def.Environment {
		if v, ok := strings.CutPrefix(env, "FREQTRADE_STRATEGY="); ok {
			bot.Strategy = v
		} else if v, ok := strings.CutPrefix(env, "FREQTRADE_CONFIG_FILE="); ok {
			bot.ConfigFile = v
		} else if v, ok := strings.CutPrefix(env, "FREQTRADE_PAIRLIST="); ok {
			bot.Pairlist = v
		}
	}

	for i, arg := range def.Command {
		if i+1 >= len(def.Command) {
			break
		}
		switch arg {
		case "--strategy":
			bot.Strategy = def.Command[i+1]
		case "--config":
			bot.ConfigFile = def.Command[i+1]
		}
	}

	return bot
}

// externalPort parses the host side of the first port mapping, 0 when
// there is none or it is not numeric.
func externalPort(ports composefile.StringList) int {
	if len(ports) == 0 {
		return 0
	}
	host, _, ok := strings.Cut(ports[0], ":")
	if !ok {
		return 0
	}
	port, err := strconv.Atoi(host)
	if err != nil {
		return 0
	}
	return port
}
