package document

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestYAMLParser_Parse_FlattensNestedKeys(t *testing.T) {
	res := textResource("file:./application.yml", `
server:
  port: 8080
  host: localhost
logging:
  level: debug
`)

	sources, err := NewYAMLParser().Parse("application.yml", res)
	require.NoError(t, err)
	require.Len(t, sources, 1)

	src := sources[0]
	require.Equal(t, "application.yml", src.Name())
	require.Equal(t, []string{"server.port", "server.host", "logging.level"}, src.Keys())

	port, ok := src.Lookup("server.port")
	require.True(t, ok)
	require.Equal(t, 8080, port)
}

func TestYAMLParser_Parse_MultiDocument(t *testing.T) {
	res := textResource("file:./application.yml", `
app: base
---
profiles: prod
app: override
`)

	sources, err := NewYAMLParser().Parse("application.yml", res)
	require.NoError(t, err)
	require.Len(t, sources, 2)

	require.Equal(t, "application.yml (document #0)", sources[0].Name())
	require.Equal(t, "application.yml (document #1)", sources[1].Name())

	v, ok := sources[1].Lookup("profiles")
	require.True(t, ok)
	require.Equal(t, "prod", v)
}

func TestYAMLParser_Parse_DropsEmptyDocuments(t *testing.T) {
	res := textResource("file:./application.yml", `
app: base
---
---
app: last
`)

	sources, err := NewYAMLParser().Parse("application.yml", res)
	require.NoError(t, err)
	require.Len(t, sources, 2)
}

func TestYAMLParser_Parse_Sequences(t *testing.T) {
	res := textResource("file:./application.yml", `
hosts:
  - alpha
  - beta
pools:
  - name: small
    size: 2
  - name: large
    size: 16
`)

	sources, err := NewYAMLParser().Parse("application.yml", res)
	require.NoError(t, err)
	require.Len(t, sources, 1)

	src := sources[0]
	require.Equal(t, []string{
		"hosts[0]", "hosts[1]",
		"pools[0].name", "pools[0].size",
		"pools[1].name", "pools[1].size",
	}, src.Keys())

	v, ok := src.Lookup("pools[1].size")
	require.True(t, ok)
	require.Equal(t, 16, v)
}

func TestYAMLParser_Parse_Anchors(t *testing.T) {
	res := textResource("file:./application.yml", `
defaults: &defaults
  retries: 3
service: *defaults
`)

	sources, err := NewYAMLParser().Parse("application.yml", res)
	require.NoError(t, err)
	require.Len(t, sources, 1)

	v, ok := sources[0].Lookup("service.retries")
	require.True(t, ok)
	require.Equal(t, 3, v)
}

func TestYAMLParser_Parse_KeyOrderFollowsDocument(t *testing.T) {
	res := textResource("file:./application.yml", `
zebra: 1
alpha: 2
mango: 3
`)

	sources, err := NewYAMLParser().Parse("application.yml", res)
	require.NoError(t, err)
	require.Equal(t, []string{"zebra", "alpha", "mango"}, sources[0].Keys())
}

func TestYAMLParser_Parse_EmptyFile(t *testing.T) {
	res := textResource("file:./application.yml", "")

	sources, err := NewYAMLParser().Parse("application.yml", res)
	require.NoError(t, err)
	require.Empty(t, sources)
}

func TestYAMLParser_Parse_Malformed(t *testing.T) {
	res := textResource("file:./application.yml", "key: [unclosed")

	_, err := NewYAMLParser().Parse("application.yml", res)
	require.Error(t, err)
	require.Contains(t, err.Error(), "application.yml")
}

func TestYAMLParser_Parse_MissingResource(t *testing.T) {
	res := &fakeResource{location: "file:./missing.yml", ext: "yml"}

	_, err := NewYAMLParser().Parse("missing.yml", res)
	require.Error(t, err)
}
