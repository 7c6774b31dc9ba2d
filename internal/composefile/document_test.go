package composefile

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func TestStringListAcceptsSequence(t *testing.T) {
	var def ServiceDefinition
	err := yaml.Unmarshal([]byte("networks:\n  - freqtrade_network\n  - monitoring\n"), &def)
	require.NoError(t, err)
	assert.Equal(t, StringList{"freqtrade_network", "monitoring"}, def.Networks)
}

func TestStringListNormalizesScalar(t *testing.T) {
	var def ServiceDefinition
	err := yaml.Unmarshal([]byte("networks: freqtrade_network\nports: \"8081:8080\"\n"), &def)
	require.NoError(t, err)
	assert.Equal(t, StringList{"freqtrade_network"}, def.Networks)
	assert.Equal(t, StringList{"8081:8080"}, def.Ports)
}

func TestStringListRejectsMapping(t *testing.T) {
	var def ServiceDefinition
	err := yaml.Unmarshal([]byte("networks:\n  freqtrade_network:\n    driver: bridge\n"), &def)
	assert.Error(t, err)
}

func TestStringListMarshalsAsSequence(t *testing.T) {
	def := &ServiceDefinition{
		Image:    "freqtradeorg/freqtrade:stable",
		Networks: StringList{"freqtrade_network"},
	}
	out, err := yaml.Marshal(def)
	require.NoError(t, err)
	assert.Contains(t, string(out), "networks:\n")
	assert.Contains(t, string(out), "- freqtrade_network")
}

func TestServiceMapPreservesInsertionOrder(t *testing.T) {
	input := `
services:
  bot_zeta:
    image: freqtradeorg/freqtrade:stable
  bot_alpha:
    image: freqtradeorg/freqtrade:stable
  bot_mid:
    image: freqtradeorg/freqtrade:stable
`
	var doc Document
	require.NoError(t, yaml.Unmarshal([]byte(input), &doc))
	assert.Equal(t, []string{"bot_zeta", "bot_alpha", "bot_mid"}, doc.Services.Names())

	out, err := yaml.Marshal(&doc)
	require.NoError(t, err)
	var reread Document
	require.NoError(t, yaml.Unmarshal(out, &reread))
	assert.Equal(t, []string{"bot_zeta", "bot_alpha", "bot_mid"}, reread.Services.Names())
}

func TestServiceMapSetAppendsNewNamesAtEnd(t *testing.T) {
	var m ServiceMap
	m.Set("bot_a", &ServiceDefinition{Image: "a"})
	m.Set("bot_b", &ServiceDefinition{Image: "b"})
	m.Set("bot_a", &ServiceDefinition{Image: "a2"}) // replace keeps position

	assert.Equal(t, []string{"bot_a", "bot_b"}, m.Names())
	got, ok := m.Get("bot_a")
	require.True(t, ok)
	assert.Equal(t, "a2", got.Image)
}

func TestDuplicateServiceKeyRejected(t *testing.T) {
	input := "services:\n  bot_a:\n    image: x\n  bot_a:\n    image: y\n"
	var doc Document
	err := yaml.Unmarshal([]byte(input), &doc)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "duplicate")
}

func TestServiceEntryMustBeMapping(t *testing.T) {
	input := "services:\n  bot_a: just-a-string\n"
	var doc Document
	err := yaml.Unmarshal([]byte(input), &doc)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "bot_a")
}

func TestVersionKeyDroppedOnRewrite(t *testing.T) {
	input := "version: \"3\"\nservices:\n  bot_a:\n    image: x\n"
	var doc Document
	require.NoError(t, yaml.Unmarshal([]byte(input), &doc))

	out, err := yaml.Marshal(&doc)
	require.NoError(t, err)
	assert.NotContains(t, string(out), "version")
	assert.Contains(t, string(out), "bot_a")
}

func TestNetworksOmittedWhenEmpty(t *testing.T) {
	var doc Document
	doc.Services.Set("bot_a", &ServiceDefinition{Image: "x"})
	out, err := yaml.Marshal(&doc)
	require.NoError(t, err)
	assert.NotContains(t, string(out), "networks")
}

func TestAnchorAliasServiceDecodes(t *testing.T) {
	input := `
services:
  bot_a: &tmpl
    image: freqtradeorg/freqtrade:stable
    restart: unless-stopped
  bot_b: *tmpl
`
	var doc Document
	require.NoError(t, yaml.Unmarshal([]byte(input), &doc))
	b, ok := doc.Services.Get("bot_b")
	require.True(t, ok)
	assert.Equal(t, "freqtradeorg/freqtrade:stable", b.Image)
}

func TestValidRestartPolicy(t *testing.T) {
	assert.True(t, ValidRestartPolicy("unless-stopped"))
	assert.True(t, ValidRestartPolicy("always"))
	assert.True(t, ValidRestartPolicy("no"))
	assert.False(t, ValidRestartPolicy("on-failure:3"))
	assert.False(t, ValidRestartPolicy(""))
}
