package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"gopkg.in/yaml.v3"
)

// Helper function to create a temporary config file
func createTempConfigFile(t *testing.T, dir string, filename string, content FreqctlConfig) string {
	t.Helper()
	tempFilePath := filepath.Join(dir, filename)
	data, err := yaml.Marshal(&content)
	assert.NoError(t, err)
	err = os.WriteFile(tempFilePath, data, 0644)
	assert.NoError(t, err)
	return tempFilePath
}

// pointPathsAt redirects both config layers into tempDir so tests never
// pick up real files from the developer's machine.
func pointPathsAt(t *testing.T, tempDir string) {
	t.Helper()
	originalGetUserConfigPath := getUserConfigPath
	originalGetProjectConfigPath := getProjectConfigPath
	t.Cleanup(func() {
		getUserConfigPath = originalGetUserConfigPath
		getProjectConfigPath = originalGetProjectConfigPath
	})
	getUserConfigPath = func() (string, error) {
		return filepath.Join(tempDir, "user", configFileName), nil
	}
	getProjectConfigPath = func() (string, error) {
		return filepath.Join(tempDir, "project", configFileName), nil
	}
}

func TestLoad_DefaultOnly(t *testing.T) {
	tempDir := t.TempDir()
	pointPathsAt(t, tempDir)

	loadedConfig, err := Load()
	assert.NoError(t, err)
	assert.Equal(t, DefaultConfig(), loadedConfig)
}

func TestLoad_UserOverride(t *testing.T) {
	tempDir := t.TempDir()

	originalGetUserConfigPath := getUserConfigPath
	originalOsUserHomeDir := osUserHomeDir
	originalGetProjectConfigPath := getProjectConfigPath
	defer func() {
		getUserConfigPath = originalGetUserConfigPath
		osUserHomeDir = originalOsUserHomeDir
		getProjectConfigPath = originalGetProjectConfigPath
	}()

	osUserHomeDir = func() (string, error) { return tempDir, nil }
	getUserConfigPath = func() (string, error) {
		return filepath.Join(tempDir, userConfigDir, configFileName), nil
	}
	// No project layer for this test.
	getProjectConfigPath = func() (string, error) {
		return filepath.Join(tempDir, "no-project", configFileName), nil
	}

	userConfDir := filepath.Join(tempDir, userConfigDir)
	err := os.MkdirAll(userConfDir, 0755)
	assert.NoError(t, err)

	userOverride := FreqctlConfig{
		Fleet: FleetSettings{
			BaseDir:  "/srv/freqtrade",
			PortBase: 9000,
		},
		Logging: LoggingSettings{Level: "debug"},
	}
	createTempConfigFile(t, userConfDir, configFileName, userOverride)

	loadedConfig, err := Load()
	assert.NoError(t, err)

	assert.Equal(t, "/srv/freqtrade", loadedConfig.Fleet.BaseDir)
	assert.Equal(t, 9000, loadedConfig.Fleet.PortBase)
	assert.Equal(t, "debug", loadedConfig.Logging.Level)
	// Untouched fields keep their defaults.
	assert.Equal(t, "docker-compose.yml", loadedConfig.Fleet.ComposeFile)
	assert.Equal(t, "user_data", loadedConfig.Fleet.UserDataDir)
	assert.Equal(t, DefaultConfig().Dashboard.RefreshInterval, loadedConfig.Dashboard.RefreshInterval)
}

func TestLoad_ProjectOverride(t *testing.T) {
	tempDir := t.TempDir()

	originalGetProjectConfigPath := getProjectConfigPath
	originalOsGetwd := osGetwd
	originalGetUserConfigPath := getUserConfigPath
	defer func() {
		getProjectConfigPath = originalGetProjectConfigPath
		osGetwd = originalOsGetwd
		getUserConfigPath = originalGetUserConfigPath
	}()

	osGetwd = func() (string, error) { return tempDir, nil }
	getProjectConfigPath = func() (string, error) {
		return filepath.Join(tempDir, projectConfigDir, configFileName), nil
	}
	getUserConfigPath = func() (string, error) {
		return filepath.Join(tempDir, "no-user", configFileName), nil
	}

	projectConfDir := filepath.Join(tempDir, projectConfigDir)
	err := os.MkdirAll(projectConfDir, 0755)
	assert.NoError(t, err)

	projectOverride := FreqctlConfig{
		Fleet:     FleetSettings{ComposeFile: "compose.yaml"},
		Dashboard: DashboardSettings{RefreshInterval: 2 * time.Second},
	}
	createTempConfigFile(t, projectConfDir, configFileName, projectOverride)

	loadedConfig, err := Load()
	assert.NoError(t, err)
	assert.Equal(t, "compose.yaml", loadedConfig.Fleet.ComposeFile)
	assert.Equal(t, 2*time.Second, loadedConfig.Dashboard.RefreshInterval)
	assert.Equal(t, ".", loadedConfig.Fleet.BaseDir)
}

func TestLoad_ProjectBeatsUser(t *testing.T) {
	tempDir := t.TempDir()
	pointPathsAt(t, tempDir)

	userConfDir := filepath.Join(tempDir, "user")
	projectConfDir := filepath.Join(tempDir, "project")
	assert.NoError(t, os.MkdirAll(userConfDir, 0755))
	assert.NoError(t, os.MkdirAll(projectConfDir, 0755))

	createTempConfigFile(t, userConfDir, configFileName, FreqctlConfig{
		Fleet:   FleetSettings{BaseDir: "/from/user", PortBase: 9000},
		Logging: LoggingSettings{Level: "warn"},
	})
	createTempConfigFile(t, projectConfDir, configFileName, FreqctlConfig{
		Fleet: FleetSettings{BaseDir: "/from/project"},
	})

	loadedConfig, err := Load()
	assert.NoError(t, err)

	// Project layer wins where both set a value.
	assert.Equal(t, "/from/project", loadedConfig.Fleet.BaseDir)
	// User-layer values survive where the project layer is silent.
	assert.Equal(t, 9000, loadedConfig.Fleet.PortBase)
	assert.Equal(t, "warn", loadedConfig.Logging.Level)
}

func TestLoad_MalformedConfigFails(t *testing.T) {
	tempDir := t.TempDir()
	pointPathsAt(t, tempDir)

	userConfDir := filepath.Join(tempDir, "user")
	assert.NoError(t, os.MkdirAll(userConfDir, 0755))
	err := os.WriteFile(filepath.Join(userConfDir, configFileName), []byte("fleet: [not: a: mapping"), 0644)
	assert.NoError(t, err)

	_, err = Load()
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "error loading user config")
}

func TestLoad_PathDerivationFailureOnlyCostsTheLayer(t *testing.T) {
	tempDir := t.TempDir()
	pointPathsAt(t, tempDir)

	originalGetUserConfigPath := getUserConfigPath
	defer func() { getUserConfigPath = originalGetUserConfigPath }()
	getUserConfigPath = func() (string, error) {
		return "", os.ErrPermission
	}

	loadedConfig, err := Load()
	assert.NoError(t, err)
	assert.Equal(t, DefaultConfig(), loadedConfig)
}

func TestMergeConfigs(t *testing.T) {
	base := DefaultConfig()
	overlay := FreqctlConfig{
		Fleet:     FleetSettings{UserDataDir: "/data/user_data"},
		Logging:   LoggingSettings{File: "/var/log/freqctl.log"},
		Dashboard: DashboardSettings{RefreshInterval: 10 * time.Second},
	}

	merged := mergeConfigs(base, overlay)

	assert.Equal(t, "/data/user_data", merged.Fleet.UserDataDir)
	assert.Equal(t, "/var/log/freqctl.log", merged.Logging.File)
	assert.Equal(t, 10*time.Second, merged.Dashboard.RefreshInterval)
	assert.Equal(t, base.Fleet.BaseDir, merged.Fleet.BaseDir)
	assert.Equal(t, base.Fleet.ComposeFile, merged.Fleet.ComposeFile)
	assert.Equal(t, base.Fleet.PortBase, merged.Fleet.PortBase)
	assert.Equal(t, base.Logging.Level, merged.Logging.Level)
}

func TestPathResolution(t *testing.T) {
	cfg := FreqctlConfig{
		Fleet: FleetSettings{
			BaseDir:     "/srv/fleet",
			ComposeFile: "docker-compose.yml",
			UserDataDir: "user_data",
		},
	}
	assert.Equal(t, filepath.Join("/srv/fleet", "docker-compose.yml"), cfg.ComposePath())
	assert.Equal(t, filepath.Join("/srv/fleet", "user_data"), cfg.UserDataPath())

	// Absolute paths ignore the base directory.
	cfg.Fleet.ComposeFile = "/etc/freqtrade/docker-compose.yml"
	cfg.Fleet.UserDataDir = "/var/lib/freqtrade/user_data"
	assert.Equal(t, "/etc/freqtrade/docker-compose.yml", cfg.ComposePath())
	assert.Equal(t, "/var/lib/freqtrade/user_data", cfg.UserDataPath())
}

func TestGetUserConfigDir(t *testing.T) {
	originalOsUserHomeDir := osUserHomeDir
	defer func() { osUserHomeDir = originalOsUserHomeDir }()
	osUserHomeDir = func() (string, error) { return "/home/trader", nil }

	dir, err := GetUserConfigDir()
	assert.NoError(t, err)
	assert.Equal(t, filepath.Join("/home/trader", userConfigDir), dir)
}
