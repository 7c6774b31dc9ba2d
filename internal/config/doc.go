// Package config provides configuration management for freqctl.
//
// This package implements a layered configuration system that allows users
// to customize freqctl's behavior through YAML files. Configuration is
// loaded from multiple sources and merged in a specific order, with later
// sources overriding earlier ones.
//
// # Configuration Layers
//
// Configuration is loaded and merged in the following order:
//
//  1. Default Configuration (embedded in binary)
//     - Fleet in the current directory, docker-compose.yml + user_data
//     - Ensures freqctl works out-of-the-box inside a freqtrade checkout
//
//  2. User Configuration (~/.config/freqctl/config.yaml)
//     - User-specific settings that apply to all fleets
//
//  3. Project Configuration (./.freqctl/config.yaml)
//     - Fleet-specific settings in the current directory
//     - Allows a fleet checkout to share configuration via version control
//
// # Configuration Structure
//
// The configuration file uses YAML format with the following sections:
//
//	fleet:
//	  baseDir: "/srv/freqtrade"        # fleet root
//	  composeFile: "docker-compose.yml" # relative to baseDir unless absolute
//	  userDataDir: "user_data"          # relative to baseDir unless absolute
//	  portBase: 8081                    # first external API port suggested
//
//	logging:
//	  level: "info"                     # debug, info, warn, error
//	  file: ""                          # JSON-lines log file; stderr when empty
//
//	dashboard:
//	  refreshInterval: 5s               # fleet status poll period
package config
