// Package userdata catalogs the freqtrade user_data directory: the
// strategy files and generated configs a bot is assembled from. Listings
// are tolerant — an unreadable or malformed entry is logged and skipped,
// never fatal — because the directory is shared with freqtrade itself and
// with human editors.
package userdata

import (
	"bufio"
	"encoding/json"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"

	fleeterrors "freqctl/internal/fleet/errors"
	"freqctl/pkg/logging"
)

// modifiedFormat matches the timestamp style of the listings.
const modifiedFormat = "2006-01-02 15:04"

// StrategyCategory buckets strategy files by naming convention.
type StrategyCategory string

const (
	StrategyFreqAI  StrategyCategory = "freqai"
	StrategyExample StrategyCategory = "example"
	StrategyTest    StrategyCategory = "test"
	StrategyCustom  StrategyCategory = "custom"
)

// Catalog lists the contents of one user_data directory.
type Catalog struct {
	userDataDir string
}

// NewCatalog returns a catalog rooted at the user_data directory.
func NewCatalog(userDataDir string) *Catalog {
	return &Catalog{userDataDir: userDataDir}
}

// StrategiesDir is where strategy .py files live.
func (c *Catalog) StrategiesDir() string {
	return filepath.Join(c.userDataDir, "strategies")
}

// PairlistsDir is where pairlist .json files live.
func (c *Catalog) PairlistsDir() string {
	return filepath.Join(c.userDataDir, "pairlists")
}

// Strategy is one strategy file in user_data/strategies.
type Strategy struct {
	Name      string           `json:"name" yaml:"name"`
	ClassName string           `json:"class_name" yaml:"class_name"`
	FileName  string           `json:"filename" yaml:"filename"`
	Path      string           `json:"path" yaml:"path"`
	Modified  string           `json:"modified" yaml:"modified"`
	Category  StrategyCategory `json:"category" yaml:"category"`
}

// ListStrategies returns the strategy files, sorted by name. Dunder
// files (__init__.py) are skipped. A missing directory is an empty
// catalog, not an error.
func (c *Catalog) ListStrategies() ([]Strategy, error) {
	dir := c.StrategiesDir()
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fleeterrors.NewIO(err, "reading strategies directory %s", dir)
	}

	var strategies []Strategy
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || !strings.HasSuffix(name, ".py") || strings.HasPrefix(name, "__") {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			logging.Warn("UserData", "skipping strategy %s: %v", name, err)
			continue
		}
		path := filepath.Join(dir, name)
		stem := strings.TrimSuffix(name, ".py")
		strategies = append(strategies, Strategy{
			Name:      stem,
			ClassName: strategyClassName(path, stem),
			FileName:  name,
			Path:      path,
			Modified:  info.ModTime().Format(modifiedFormat),
			Category:  CategorizeStrategy(name),
		})
	}
	sort.Slice(strategies, func(i, j int) bool { return strategies[i].Name < strategies[j].Name })
	return strategies, nil
}

// CategorizeStrategy buckets a strategy by its file name.
func CategorizeStrategy(filename string) StrategyCategory {
	lower := strings.ToLower(filename)
	switch {
	case strings.Contains(lower, "freqai"):
		return StrategyFreqAI
	case strings.Contains(lower, "example"), strings.Contains(lower, "sample"):
		return StrategyExample
	case strings.Contains(lower, "test"):
		return StrategyTest
	default:
		return StrategyCustom
	}
}

var strategyClassRe = regexp.MustCompile(`^\s*class\s+(\w+)\s*\(\s*IStrategy\b`)

// strategyClassName scans for the class extending IStrategy, which is the
// name freqtrade's --strategy flag wants. The file stem is often but not
// always the same; files that cannot be read or declare no such class
// fall back to the stem.
func strategyClassName(path, fallback string) string {
	f, err := os.Open(path)
	if err != nil {
		return fallback
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		if m := strategyClassRe.FindStringSubmatch(scanner.Text()); m != nil {
			return m[1]
		}
	}
	return fallback
}

// Config is one generated or hand-written config in user_data.
type Config struct {
	Name          string `json:"name" yaml:"name"`
	Path          string `json:"path" yaml:"path"`
	Strategy      string `json:"strategy" yaml:"strategy"`
	TradingMode   string `json:"trading_mode" yaml:"trading_mode"`
	Timeframe     string `json:"timeframe" yaml:"timeframe"`
	DryRun        bool   `json:"dry_run" yaml:"dry_run"`
	FreqAIEnabled bool   `json:"freqai_enabled" yaml:"freqai_enabled"`
	Modified      string `json:"modified" yaml:"modified"`
}

// ListConfigs returns every config*.json in user_data, sorted by name.
func (c *Catalog) ListConfigs() ([]Config, error) {
	entries, err := os.ReadDir(c.userDataDir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fleeterrors.NewIO(err, "reading user_data directory %s", c.userDataDir)
	}

	var configs []Config
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || !strings.HasPrefix(name, "config") || !strings.HasSuffix(name, ".json") {
			continue
		}
		path := filepath.Join(c.userDataDir, name)
		cfg, err := readConfigSummary(path)
		if err != nil {
			logging.Warn("UserData", "skipping config %s: %v", name, err)
			continue
		}
		info, err := entry.Info()
		if err != nil {
			logging.Warn("UserData", "skipping config %s: %v", name, err)
			continue
		}
		cfg.Name = name
		cfg.Path = path
		cfg.Modified = info.ModTime().Format(modifiedFormat)
		configs = append(configs, cfg)
	}
	sort.Slice(configs, func(i, j int) bool { return configs[i].Name < configs[j].Name })
	return configs, nil
}

func readConfigSummary(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, err
	}
	var raw struct {
		Strategy    string `json:"strategy"`
		TradingMode string `json:"trading_mode"`
		Timeframe   string `json:"timeframe"`
		DryRun      *bool  `json:"dry_run"`
		FreqAI      struct {
			Enabled bool `json:"enabled"`
		} `json:"freqai"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return Config{}, err
	}

	cfg := Config{
		Strategy:      raw.Strategy,
		TradingMode:   raw.TradingMode,
		Timeframe:     raw.Timeframe,
		DryRun:        true,
		FreqAIEnabled: raw.FreqAI.Enabled,
	}
	if cfg.Strategy == "" {
		cfg.Strategy = "Unknown"
	}
	if cfg.TradingMode == "" {
		cfg.TradingMode = "spot"
	}
	if cfg.Timeframe == "" {
		cfg.Timeframe = "5m"
	}
	if raw.DryRun != nil {
		cfg.DryRun = *raw.DryRun
	}
	return cfg, nil
}
