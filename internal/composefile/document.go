// Package composefile models the docker-compose document that is the
// source of truth for the bot fleet: typed service and network entries,
// a store that loads and atomically persists the file, and registry
// operations with explicit conflict and not-found semantics.
//
// Key order matters here. Services and networks round-trip in insertion
// order so that a save after an add produces a minimal diff; downstream
// tooling that diffs the compose file depends on that stability.
package composefile

import (
	"fmt"

	"gopkg.in/yaml.v3"
)

// DefaultNetworkDriver is the driver assigned to networks the registry
// creates implicitly on first use.
const DefaultNetworkDriver = "bridge"

// Document is the in-memory form of the compose file. The schema is
// versionless: a top-level "version" key is accepted on load and dropped
// on the next save.
type Document struct {
	Services ServiceMap `yaml:"services"`
	Networks NetworkMap `yaml:"networks,omitempty"`
}

// ServiceDefinition is one container's runtime recipe. All list-typed
// fields are StringList so a bare scalar in hand-edited YAML normalizes
// to a one-element sequence on load and is always written back as a
// sequence.
type ServiceDefinition struct {
	Image         string     `yaml:"image,omitempty"`
	ContainerName string     `yaml:"container_name,omitempty"`
	Restart       string     `yaml:"restart,omitempty"`
	Volumes       StringList `yaml:"volumes,omitempty"`
	Command       StringList `yaml:"command,omitempty"`
	Environment   StringList `yaml:"environment,omitempty"`
	Ports         StringList `yaml:"ports,omitempty"`
	Networks      StringList `yaml:"networks,omitempty"`
}

// NetworkDefinition describes one named network.
type NetworkDefinition struct {
	Driver string `yaml:"driver,omitempty"`
}

// RestartPolicies lists the restart values the synthesizer accepts.
var RestartPolicies = []string{"always", "unless-stopped", "no"}

// ValidRestartPolicy reports whether p is one of RestartPolicies.
func ValidRestartPolicy(p string) bool {
	for _, v := range RestartPolicies {
		if p == v {
			return true
		}
	}
	return false
}

// StringList is a YAML sequence of strings that also accepts a bare
// scalar on load, normalizing it to a one-element sequence.
type StringList []string

// UnmarshalYAML implements yaml.Unmarshaler.
func (l *StringList) UnmarshalYAML(value *yaml.Node) error {
	switch value.Kind {
	case yaml.ScalarNode:
		var s string
		if err := value.Decode(&s); err != nil {
			return err
		}
		*l = StringList{s}
		return nil
	case yaml.SequenceNode:
		var items []string
		if err := value.Decode(&items); err != nil {
			return err
		}
		*l = StringList(items)
		return nil
	default:
		return fmt.Errorf("line %d: expected a string or a sequence of strings", value.Line)
	}
}

// orderedMap is the insertion-ordered mapping backing ServiceMap and
// NetworkMap. The zero value is an empty, usable map.
type orderedMap[V any] struct {
	names  []string
	values map[string]V
}

func (m *orderedMap[V]) get(name string) (V, bool) {
	v, ok := m.values[name]
	return v, ok
}

func (m *orderedMap[V]) set(name string, value V) {
	if m.values == nil {
		m.values = make(map[string]V)
	}
	if _, exists := m.values[name]; !exists {
		m.names = append(m.names, name)
	}
	m.values[name] = value
}

func (m *orderedMap[V]) delete(name string) bool {
	if _, exists := m.values[name]; !exists {
		return false
	}
	delete(m.values, name)
	for i, n := range m.names {
		if n == name {
			m.names = append(m.names[:i], m.names[i+1:]...)
			break
		}
	}
	return true
}

func (m *orderedMap[V]) orderedNames() []string {
	out := make([]string, len(m.names))
	copy(out, m.names)
	return out
}

func (m *orderedMap[V]) len() int {
	return len(m.names)
}

// resolveAlias follows a YAML anchor reference to its target node.
func resolveAlias(n *yaml.Node) *yaml.Node {
	if n.Kind == yaml.AliasNode && n.Alias != nil {
		return n.Alias
	}
	return n
}

// decodeMapping fills the map from a YAML mapping node, preserving key
// order and rejecting duplicate keys and non-mapping entry values.
func (m *orderedMap[V]) decodeMapping(value *yaml.Node, what string) error {
	value = resolveAlias(value)
	if value.Kind != yaml.MappingNode {
		return fmt.Errorf("line %d: %s must be a mapping", value.Line, what)
	}
	m.names = nil
	m.values = make(map[string]V)
	for i := 0; i < len(value.Content); i += 2 {
		keyNode, valNode := value.Content[i], resolveAlias(value.Content[i+1])
		var name string
		if err := keyNode.Decode(&name); err != nil {
			return fmt.Errorf("line %d: %s key: %w", keyNode.Line, what, err)
		}
		if valNode.Kind != yaml.MappingNode {
			return fmt.Errorf("line %d: %s entry %q must be a mapping", valNode.Line, what, name)
		}
		var entry V
		if err := valNode.Decode(&entry); err != nil {
			return fmt.Errorf("%s entry %q: %w", what, name, err)
		}
		if _, dup := m.values[name]; dup {
			return fmt.Errorf("line %d: duplicate %s entry %q", keyNode.Line, what, name)
		}
		m.names = append(m.names, name)
		m.values[name] = entry
	}
	return nil
}

// encodeMapping renders the map as a YAML mapping node in insertion order.
func (m *orderedMap[V]) encodeMapping() (*yaml.Node, error) {
	node := &yaml.Node{Kind: yaml.MappingNode}
	for _, name := range m.names {
		keyNode := &yaml.Node{}
		keyNode.SetString(name)
		valNode := &yaml.Node{}
		if err := valNode.Encode(m.values[name]); err != nil {
			return nil, fmt.Errorf("encoding entry %q: %w", name, err)
		}
		node.Content = append(node.Content, keyNode, valNode)
	}
	return node, nil
}

// ServiceMap holds the document's services in insertion order.
type ServiceMap struct {
	m orderedMap[*ServiceDefinition]
}

// Get returns the named service.
func (s *ServiceMap) Get(name string) (*ServiceDefinition, bool) { return s.m.get(name) }

// Set inserts or replaces the named service, appending new names at the end.
func (s *ServiceMap) Set(name string, def *ServiceDefinition) { s.m.set(name, def) }

// Delete removes the named service, reporting whether it existed.
func (s *ServiceMap) Delete(name string) bool { return s.m.delete(name) }

// Names returns the service names in document order.
func (s *ServiceMap) Names() []string { return s.m.orderedNames() }

// Len returns the number of services.
func (s *ServiceMap) Len() int { return s.m.len() }

// UnmarshalYAML implements yaml.Unmarshaler.
func (s *ServiceMap) UnmarshalYAML(value *yaml.Node) error {
	return s.m.decodeMapping(value, "services")
}

// MarshalYAML implements yaml.Marshaler.
func (s ServiceMap) MarshalYAML() (interface{}, error) {
	return s.m.encodeMapping()
}

// IsZero reports an empty map, which is what yaml's omitempty consults
// for struct-typed fields.
func (s ServiceMap) IsZero() bool {
	return s.m.len() == 0
}

// NetworkMap holds the document's networks in insertion order.
type NetworkMap struct {
	m orderedMap[*NetworkDefinition]
}

// Get returns the named network.
func (n *NetworkMap) Get(name string) (*NetworkDefinition, bool) { return n.m.get(name) }

// Set inserts or replaces the named network, appending new names at the end.
func (n *NetworkMap) Set(name string, def *NetworkDefinition) { n.m.set(name, def) }

// Delete removes the named network, reporting whether it existed.
func (n *NetworkMap) Delete(name string) bool { return n.m.delete(name) }

// Names returns the network names in document order.
func (n *NetworkMap) Names() []string { return n.m.orderedNames() }

// Len returns the number of networks.
func (n *NetworkMap) Len() int { return n.m.len() }

// UnmarshalYAML implements yaml.Unmarshaler.
func (n *NetworkMap) UnmarshalYAML(value *yaml.Node) error {
	return n.m.decodeMapping(value, "networks")
}

// MarshalYAML implements yaml.Marshaler.
func (n NetworkMap) MarshalYAML() (interface{}, error) {
	return n.m.encodeMapping()
}

// IsZero reports an empty map, which is what yaml's omitempty consults
// for struct-typed fields.
func (n NetworkMap) IsZero() bool {
	return n.m.len() == 0
}
