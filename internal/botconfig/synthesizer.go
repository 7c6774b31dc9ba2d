// Package botconfig synthesizes full freqtrade configuration files, either
// by overlaying a template or from discrete settings. Both paths share one
// contract: required inputs are validated first, the pairlist is loaded
// and gated before anything is written, the pairlist's symbols replace
// whatever pair lists were there before, and the API server block is
// force-enabled with credentials derived from the container name.
//
// A written config is owned by the filesystem from then on: regenerating
// under the same container name overwrites it, last write wins.
package botconfig

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	fleeterrors "freqctl/internal/fleet/errors"
	"freqctl/internal/pairlist"
	"freqctl/pkg/logging"
)

// maxCorrelationPairs bounds the FreqAI correlation pairlist to the first
// entries of the whitelist. Correlation features are computed per pair per
// training run; an unbounded list makes training cost scale with the
// whole whitelist.
const maxCorrelationPairs = 10

// apiListenPort is the in-container API port; the host side of the
// mapping is chosen per bot in the service definition.
const apiListenPort = 8080

// Options carries the inputs both synthesis paths require.
type Options struct {
	ContainerName string
	Strategy      string
	Pairlist      string // file name, resolved against the pairlists directory
}

// Synthesizer writes config_<container>.json files into the user_data
// directory.
type Synthesizer struct {
	userDataDir  string
	pairlistsDir string
}

// NewSynthesizer returns a synthesizer rooted at the user_data directory.
func NewSynthesizer(userDataDir string) *Synthesizer {
	return &Synthesizer{
		userDataDir:  userDataDir,
		pairlistsDir: filepath.Join(userDataDir, "pairlists"),
	}
}

// ConfigPath returns where the config for a container is written.
func (s *Synthesizer) ConfigPath(containerName string) string {
	return filepath.Join(s.userDataDir, fmt.Sprintf("config_%s.json", containerName))
}

// FromTemplate copies the named template config and overlays strategy,
// pairlist, bot name and the API server block. Everything else in the
// template survives untouched. Returns the written path.
func (s *Synthesizer) FromTemplate(templateName string, opts Options) (string, error) {
	if err := validateOptions(opts); err != nil {
		return "", err
	}
	if templateName == "" {
		return "", fleeterrors.NewValidation("template config name is required")
	}

	templatePath := s.resolveConfig(templateName)
	data, err := os.ReadFile(templatePath)
	if err != nil {
		if os.IsNotExist(err) {
			return "", fleeterrors.NewNotFound(templateName, "template config")
		}
		return "", fleeterrors.NewIO(err, "reading template config %s", templatePath)
	}
	var cfg map[string]interface{}
	if err := json.Unmarshal(data, &cfg); err != nil {
		return "", fleeterrors.NewValidation("template config %s is not valid JSON: %v", templateName, err)
	}

	pairs, err := pairlist.Load(pairlist.ResolvePath(s.pairlistsDir, opts.Pairlist))
	if err != nil {
		return "", err
	}

	cfg["strategy"] = opts.Strategy

	exchange := ensureObject(cfg, "exchange")
	exchange["pair_whitelist"] = pairs.Whitelist
	if pairs.Blacklist != nil {
		exchange["pair_blacklist"] = pairs.Blacklist
	}

	// A FreqAI template gets its correlation pairs re-pointed at the new
	// whitelist, bounded like the from-scratch path.
	if freqai, ok := cfg["freqai"].(map[string]interface{}); ok {
		if enabled, _ := freqai["enabled"].(bool); enabled {
			features := ensureObject(freqai, "feature_parameters")
			features["include_corr_pairlist"] = correlationPairs(pairs.Whitelist)
		}
	}

	cfg["bot_name"] = opts.ContainerName
	applyAPIServer(cfg, opts.ContainerName)

	return s.write(cfg, opts.ContainerName)
}

// FromScratch builds a complete config from discrete settings. Returns
// the written path.
func (s *Synthesizer) FromScratch(settings CustomSettings, opts Options) (string, error) {
	if err := validateOptions(opts); err != nil {
		return "", err
	}
	pairs, err := pairlist.Load(pairlist.ResolvePath(s.pairlistsDir, opts.Pairlist))
	if err != nil {
		return "", err
	}

	cfg := buildCustomConfig(settings, opts, pairs)
	return s.write(cfg, opts.ContainerName)
}

func validateOptions(opts Options) error {
	switch {
	case opts.ContainerName == "":
		return fleeterrors.NewValidation("container name is required")
	case opts.Strategy == "":
		return fleeterrors.NewValidation("strategy is required")
	case opts.Pairlist == "":
		return fleeterrors.NewValidation("pairlist is required")
	}
	return nil
}

// resolveConfig finds a config by name: absolute paths as given,
// everything else relative to user_data.
func (s *Synthesizer) resolveConfig(name string) string {
	if filepath.IsAbs(name) {
		return name
	}
	return filepath.Join(s.userDataDir, name)
}

func (s *Synthesizer) write(cfg map[string]interface{}, containerName string) (string, error) {
	path := s.ConfigPath(containerName)
	data, err := json.MarshalIndent(cfg, "", "    ")
	if err != nil {
		return "", fleeterrors.NewIO(err, "encoding config for %s", containerName)
	}
	if err := os.WriteFile(path, append(data, '\n'), 0o644); err != nil {
		return "", fleeterrors.NewIO(err, "writing config %s", path)
	}
	logging.Info("Config", "wrote %s (strategy %v)", path, cfg["strategy"])
	return path, nil
}

// applyAPIServer force-enables the control API, overlaying the managed
// fields while leaving any extra keys an existing block carries.
func applyAPIServer(cfg map[string]interface{}, containerName string) {
	creds := DeriveCredentials(containerName)
	api := ensureObject(cfg, "api_server")
	api["enabled"] = true
	api["listen_ip_address"] = "0.0.0.0"
	api["listen_port"] = apiListenPort
	api["verbosity"] = "error"
	api["enable_openapi"] = true
	api["jwt_secret_key"] = creds.JWTSecret
	api["ws_token"] = creds.WSToken
	api["CORS_origins"] = []string{"*"}
}

func correlationPairs(whitelist []string) []string {
	if len(whitelist) > maxCorrelationPairs {
		return whitelist[:maxCorrelationPairs]
	}
	return whitelist
}

// ensureObject returns m[key] as an object, creating it when absent or of
// the wrong shape.
func ensureObject(m map[string]interface{}, key string) map[string]interface{} {
	if obj, ok := m[key].(map[string]interface{}); ok {
		return obj
	}
	obj := make(map[string]interface{})
	m[key] = obj
	return obj
}
