// Package pairlist loads the JSON pairlist files that name the tradable
// symbols for a bot. A pairlist is the sole authority for a bot's pairs:
// config synthesis copies its whitelist and blacklist verbatim, replacing
// whatever the template carried.
package pairlist

import (
	"encoding/json"
	"os"
	"path/filepath"
	"sort"
	"strings"

	fleeterrors "freqctl/internal/fleet/errors"
	"freqctl/pkg/logging"
)

// Pairlist is one validated pairlist file.
type Pairlist struct {
	Name      string
	Path      string
	Whitelist []string
	Blacklist []string
}

// PairCount returns the number of whitelisted symbols.
func (p *Pairlist) PairCount() int {
	return len(p.Whitelist)
}

type pairlistFile struct {
	Whitelist []string `json:"pair_whitelist"`
	Blacklist []string `json:"pair_blacklist"`
}

// ResolvePath resolves a pairlist reference: an absolute path is used
// as-is, anything else is looked up in the pairlists directory.
func ResolvePath(dir, name string) string {
	if filepath.IsAbs(name) {
		return name
	}
	return filepath.Join(dir, name)
}

// Load reads and validates the pairlist at path. A missing file is a
// NotFound error; a file without a non-empty pair_whitelist is a
// ValidationError — such a file must never reach config synthesis.
func Load(path string) (*Pairlist, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fleeterrors.NewNotFound(path, "pairlist")
		}
		return nil, fleeterrors.NewIO(err, "reading pairlist %s", path)
	}
	var file pairlistFile
	if err := json.Unmarshal(data, &file); err != nil {
		return nil, fleeterrors.NewValidation("pairlist %s is not valid JSON: %v", filepath.Base(path), err)
	}
	if file.Whitelist == nil {
		return nil, fleeterrors.NewValidation("pairlist %s is missing pair_whitelist", filepath.Base(path))
	}
	if len(file.Whitelist) == 0 {
		return nil, fleeterrors.NewValidation("pairlist %s has an empty pair_whitelist", filepath.Base(path))
	}
	return &Pairlist{
		Name:      filepath.Base(path),
		Path:      path,
		Whitelist: file.Whitelist,
		Blacklist: file.Blacklist,
	}, nil
}

// Pairlist categories, assigned from the file name.
const (
	CategoryTest    = "test"
	CategoryFreqAI  = "freqai"
	CategoryFull    = "full"
	CategoryPopular = "popular"
	CategoryCustom  = "custom"
)

// Categorize buckets a pairlist by naming convention: "test" files,
// FreqAI-tuned lists, full-market lists, top/volume lists, everything
// else custom. Purely cosmetic for listings.
func Categorize(filename string) string {
	name := strings.ToLower(filename)
	switch {
	case strings.Contains(name, "test"):
		return CategoryTest
	case strings.Contains(name, "freqai"):
		return CategoryFreqAI
	case strings.Contains(name, "full"), strings.Contains(name, "all"):
		return CategoryFull
	case strings.Contains(name, "top"), strings.Contains(name, "volume"):
		return CategoryPopular
	default:
		return CategoryCustom
	}
}

// Info is one row of the pairlist catalog.
type Info struct {
	Name      string `json:"name" yaml:"name"`
	Path      string `json:"path" yaml:"path"`
	PairCount int    `json:"pairs_count" yaml:"pairs_count"`
	Category  string `json:"category" yaml:"category"`
}

// List catalogs the *.json files in the pairlists directory, sorted by
// name. Files that are not readable JSON are skipped with a warning; a
// file without a whitelist still lists (with zero pairs) so the user can
// see it — it only fails later, at the synthesis gate. A missing
// directory is an empty catalog, not an error.
func List(dir string) ([]Info, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fleeterrors.NewIO(err, "reading pairlists directory %s", dir)
	}
	var infos []Info
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".json") {
			continue
		}
		path := filepath.Join(dir, entry.Name())
		data, err := os.ReadFile(path)
		if err != nil {
			logging.Warn("Pairlist", "skipping unreadable pairlist %s: %v", path, err)
			continue
		}
		var file pairlistFile
		if err := json.Unmarshal(data, &file); err != nil {
			logging.Warn("Pairlist", "skipping malformed pairlist %s: %v", path, err)
			continue
		}
		infos = append(infos, Info{
			Name:      entry.Name(),
			Path:      path,
			PairCount: len(file.Whitelist),
			Category:  Categorize(entry.Name()),
		})
	}
	sort.Slice(infos, func(i, j int) bool { return infos[i].Name < infos[j].Name })
	return infos, nil
}
