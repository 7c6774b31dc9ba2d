package fleet

import (
	"freqctl/internal/composefile"
	"freqctl/pkg/logging"
)

// Normalize reconciles a hand-edited document with the conventions
// synthesized services follow: the default network exists, every service
// carries an image, a restart policy and at least one network. Scalar
// list fields are already coerced to sequences at load time, and a stale
// `version` key disappears on the rewrite. The result is committed
// through the store, backup included.
func (m *Manager) Normalize() error {
	err := m.withDocument(func(doc *composefile.Document) error {
		normalizeDocument(doc)
		return nil
	})
	if err != nil {
		return err
	}
	logging.Info("Fleet", "normalized %s", m.store.Path())
	return nil
}

func normalizeDocument(doc *composefile.Document) {
	if _, ok := doc.Networks.Get(DefaultNetwork); !ok {
		doc.Networks.Set(DefaultNetwork, &composefile.NetworkDefinition{Driver: composefile.DefaultNetworkDriver})
	}
	for _, name := range doc.Services.Names() {
		def, _ := doc.Services.Get(name)
		if def.Image == "" {
			def.Image = DefaultImage
		}
		if def.Restart == "" {
			def.Restart = DefaultRestart
		}
		if len(def.Networks) == 0 {
			def.Networks = composefile.StringList{DefaultNetwork}
		}
	}
}
