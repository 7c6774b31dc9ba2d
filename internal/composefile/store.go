package composefile

import (
	"bytes"
	"os"
	"path/filepath"
	"syscall"

	"gopkg.in/yaml.v3"

	fleeterrors "freqctl/internal/fleet/errors"
	"freqctl/pkg/logging"
)

// Store loads and persists the compose document at a fixed path.
//
// Save is all-or-nothing: the previous file is first copied to the backup
// path (one generation of history), then the new content is written to a
// temp file in the same directory and renamed over the original, so a
// reader observes either the old or the new document, never a torn write.
//
// Store does not serialize read-modify-write cycles by itself; callers
// that mutate the document hold the advisory lock from Lock around the
// whole cycle. The fleet manager is the one mutating caller.
type Store struct {
	path string
}

// NewStore returns a store for the compose file at path.
func NewStore(path string) *Store {
	return &Store{path: path}
}

// Path returns the compose file path.
func (s *Store) Path() string {
	return s.path
}

// Dir returns the directory containing the compose file. Lifecycle
// invocations run with this as their working directory.
func (s *Store) Dir() string {
	return filepath.Dir(s.path)
}

// BackupPath returns the sibling path that holds the previous document
// generation.
func (s *Store) BackupPath() string {
	return s.path + ".backup"
}

// LockPath returns the sidecar path of the advisory document lock.
func (s *Store) LockPath() string {
	return s.path + ".lock"
}

// Exists reports whether the compose file is present.
func (s *Store) Exists() bool {
	_, err := os.Stat(s.path)
	return err == nil
}

// Unlocker releases the advisory document lock.
type Unlocker interface {
	Unlock()
}

type lockFile struct {
	file *os.File
}

func (l *lockFile) Unlock() {
	// Closing the descriptor drops the flock.
	if err := l.file.Close(); err != nil {
		logging.Warn("Store", "failed to release lock on %s: %v", l.file.Name(), err)
	}
}

// Lock takes an exclusive advisory lock on the document's sidecar lock
// file, creating it if needed. If another process holds the lock the call
// blocks until it is released. Callers hold the lock across the whole
// load-mutate-save cycle so concurrent writers cannot lose updates.
func (s *Store) Lock() (Unlocker, error) {
	f, err := os.OpenFile(s.LockPath(), os.O_CREATE|os.O_RDWR, 0o644)
	if err != nil {
		return nil, fleeterrors.NewIO(err, "opening document lock %s", s.LockPath())
	}
	if err := syscall.Flock(int(f.Fd()), syscall.LOCK_EX); err != nil {
		f.Close()
		return nil, fleeterrors.NewIO(err, "locking document %s", s.path)
	}
	return &lockFile{file: f}, nil
}

// Load reads and parses the compose document. A missing file returns a
// NotFound error so callers can distinguish "no fleet yet" from a broken
// document; structural problems return a ValidationError naming the
// offending entry.
func (s *Store) Load() (*Document, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fleeterrors.NewNotFound(s.path, "compose file")
		}
		return nil, fleeterrors.NewIO(err, "reading compose file %s", s.path)
	}
	if err := ValidateRaw(data); err != nil {
		return nil, err
	}
	var doc Document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fleeterrors.NewValidation("parsing compose file %s: %v", s.path, err)
	}
	return &doc, nil
}

// LoadOrEmpty is Load, with a missing file treated as an empty document.
func (s *Store) LoadOrEmpty() (*Document, error) {
	doc, err := s.Load()
	if fleeterrors.IsNotFound(err) {
		return &Document{}, nil
	}
	return doc, err
}

// Save persists the document: backup of the current file first, then an
// atomic write of the new content.
func (s *Store) Save(doc *Document) error {
	data, err := marshalDocument(doc)
	if err != nil {
		return fleeterrors.NewIO(err, "encoding compose document")
	}
	if err := s.writeBackup(); err != nil {
		return err
	}

	tmp, err := os.CreateTemp(s.Dir(), ".compose-*.tmp")
	if err != nil {
		return fleeterrors.NewIO(err, "creating temp file in %s", s.Dir())
	}
	tmpPath := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return fleeterrors.NewIO(err, "writing temp file %s", tmpPath)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)
		return fleeterrors.NewIO(err, "closing temp file %s", tmpPath)
	}
	if err := os.Chmod(tmpPath, 0o644); err != nil {
		os.Remove(tmpPath)
		return fleeterrors.NewIO(err, "setting permissions on %s", tmpPath)
	}
	if err := os.Rename(tmpPath, s.path); err != nil {
		os.Remove(tmpPath)
		return fleeterrors.NewIO(err, "replacing compose file %s", s.path)
	}
	logging.Debug("Store", "saved compose document with %d services to %s", doc.Services.Len(), s.path)
	return nil
}

// writeBackup copies the current file to the backup path. Nothing to do
// when no file exists yet.
func (s *Store) writeBackup() error {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fleeterrors.NewIO(err, "reading compose file %s for backup", s.path)
	}
	if err := os.WriteFile(s.BackupPath(), data, 0o644); err != nil {
		return fleeterrors.NewIO(err, "writing backup %s", s.BackupPath())
	}
	return nil
}

func marshalDocument(doc *Document) ([]byte, error) {
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(doc); err != nil {
		enc.Close()
		return nil, err
	}
	if err := enc.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// ValidateRaw checks the structural contract of a compose document
// without fully decoding it: the top level must be a mapping, it must
// contain a "services" mapping, and every service entry must itself be a
// mapping. Violations return a ValidationError naming the problem; the
// document is never silently coerced.
func ValidateRaw(data []byte) error {
	var root yaml.Node
	if err := yaml.Unmarshal(data, &root); err != nil {
		return fleeterrors.NewValidation("parsing compose file: %v", err)
	}
	if root.Kind == 0 || len(root.Content) == 0 {
		return fleeterrors.NewValidation("compose file is empty")
	}
	top := resolveAlias(root.Content[0])
	if top.Kind != yaml.MappingNode {
		return fleeterrors.NewValidation("top level must be a mapping, not a %s", nodeKindName(top.Kind))
	}
	var servicesNode *yaml.Node
	for i := 0; i < len(top.Content); i += 2 {
		if top.Content[i].Value == "services" {
			servicesNode = resolveAlias(top.Content[i+1])
			break
		}
	}
	if servicesNode == nil {
		return fleeterrors.NewValidation(`missing required "services" mapping`)
	}
	if servicesNode.Kind != yaml.MappingNode {
		return fleeterrors.NewValidation(`"services" must be a mapping, not a %s`, nodeKindName(servicesNode.Kind))
	}
	for i := 0; i < len(servicesNode.Content); i += 2 {
		name := servicesNode.Content[i].Value
		val := resolveAlias(servicesNode.Content[i+1])
		if val.Kind != yaml.MappingNode {
			return fleeterrors.NewValidation("service %q must be a mapping (line %d)", name, val.Line)
		}
	}
	return nil
}

func nodeKindName(k yaml.Kind) string {
	switch k {
	case yaml.DocumentNode:
		return "document"
	case yaml.SequenceNode:
		return "sequence"
	case yaml.MappingNode:
		return "mapping"
	case yaml.ScalarNode:
		return "scalar"
	case yaml.AliasNode:
		return "alias"
	default:
		return "unknown node"
	}
}
