package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// For mocking in tests
var osUserHomeDir = os.UserHomeDir
var osGetwd = os.Getwd

const (
	userConfigDir    = ".config/freqctl"
	projectConfigDir = ".freqctl"
	configFileName   = "config.yaml"
)

// Load builds the effective configuration by layering default, user, and
// project settings, later layers overriding earlier ones.
func Load() (FreqctlConfig, error) {
	config := DefaultConfig()

	userConfigPath, err := getUserConfigPath()
	if err != nil {
		// User config is optional; a missing home directory only costs
		// the layer.
		fmt.Fprintf(os.Stderr, "Warning: could not determine user config path: %v\n", err)
	} else if _, err := os.Stat(userConfigPath); !os.IsNotExist(err) {
		userConfig, err := loadConfigFromFile(userConfigPath)
		if err != nil {
			return FreqctlConfig{}, fmt.Errorf("error loading user config from %s: %w", userConfigPath, err)
		}
		config = mergeConfigs(config, userConfig)
	}

	projectConfigPath, err := getProjectConfigPath()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: could not determine project config path: %v\n", err)
	} else if _, err := os.Stat(projectConfigPath); !os.IsNotExist(err) {
		projectConfig, err := loadConfigFromFile(projectConfigPath)
		if err != nil {
			return FreqctlConfig{}, fmt.Errorf("error loading project config from %s: %w", projectConfigPath, err)
		}
		config = mergeConfigs(config, projectConfig)
	}

	return config, nil
}

var getUserConfigPath = func() (string, error) {
	homeDir, err := osUserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(homeDir, userConfigDir, configFileName), nil
}

var getProjectConfigPath = func() (string, error) {
	wd, err := osGetwd()
	if err != nil {
		return "", err
	}
	return filepath.Join(wd, projectConfigDir, configFileName), nil
}

func loadConfigFromFile(filePath string) (FreqctlConfig, error) {
	var config FreqctlConfig
	data, err := os.ReadFile(filePath)
	if err != nil {
		return FreqctlConfig{}, err
	}
	if err := yaml.Unmarshal(data, &config); err != nil {
		return FreqctlConfig{}, err
	}
	return config, nil
}

// mergeConfigs merges 'overlay' into 'base', field by field so an unset
// overlay field keeps the base value.
func mergeConfigs(base, overlay FreqctlConfig) FreqctlConfig {
	merged := base

	if overlay.Fleet.BaseDir != "" {
		merged.Fleet.BaseDir = overlay.Fleet.BaseDir
	}
	if overlay.Fleet.ComposeFile != "" {
		merged.Fleet.ComposeFile = overlay.Fleet.ComposeFile
	}
	if overlay.Fleet.UserDataDir != "" {
		merged.Fleet.UserDataDir = overlay.Fleet.UserDataDir
	}
	if overlay.Fleet.PortBase != 0 {
		merged.Fleet.PortBase = overlay.Fleet.PortBase
	}

	if overlay.Logging.Level != "" {
		merged.Logging.Level = overlay.Logging.Level
	}
	if overlay.Logging.File != "" {
		merged.Logging.File = overlay.Logging.File
	}

	if overlay.Dashboard.RefreshInterval != 0 {
		merged.Dashboard.RefreshInterval = overlay.Dashboard.RefreshInterval
	}

	return merged
}

// GetUserConfigDir returns the user configuration directory path.
func GetUserConfigDir() (string, error) {
	homeDir, err := osUserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(homeDir, userConfigDir), nil
}
