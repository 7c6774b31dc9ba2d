package composefile

import (
	fleeterrors "freqctl/internal/fleet/errors"
)

// Registry operations. Adds are never implicit updates and removes of
// absent entries fail loudly, so a caller can rely on the document
// changing exactly when a nil error comes back. Mutations only become
// durable once the caller routes the document through Store.Save.

// AddService inserts def under name. It fails with a Conflict error when
// the name is taken. Any network the service references that is absent
// from the document is created with the default driver, so the common
// single-call add needs no separate network step.
func (d *Document) AddService(name string, def *ServiceDefinition) error {
	if _, exists := d.Services.Get(name); exists {
		return fleeterrors.NewConflict("service", name)
	}
	d.Services.Set(name, def)
	for _, network := range def.Networks {
		if _, exists := d.Networks.Get(network); !exists {
			d.Networks.Set(network, &NetworkDefinition{Driver: DefaultNetworkDriver})
		}
	}
	return nil
}

// RemoveService deletes the named service, failing with NotFound when it
// does not exist. Networks are left in place: other services may share
// them, and an unused network entry is harmless.
func (d *Document) RemoveService(name string) error {
	if !d.Services.Delete(name) {
		return fleeterrors.NewNotFound(name, "service")
	}
	return nil
}

// AddNetwork inserts def under name, failing with Conflict on a duplicate.
func (d *Document) AddNetwork(name string, def *NetworkDefinition) error {
	if _, exists := d.Networks.Get(name); exists {
		return fleeterrors.NewConflict("network", name)
	}
	d.Networks.Set(name, def)
	return nil
}

// RemoveNetwork deletes the named network, failing with NotFound when it
// does not exist.
func (d *Document) RemoveNetwork(name string) error {
	if !d.Networks.Delete(name) {
		return fleeterrors.NewNotFound(name, "network")
	}
	return nil
}

// Service returns the named service definition.
func (d *Document) Service(name string) (*ServiceDefinition, bool) {
	return d.Services.Get(name)
}

// HasService reports whether the named service exists.
func (d *Document) HasService(name string) bool {
	_, ok := d.Services.Get(name)
	return ok
}
