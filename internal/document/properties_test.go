package document

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestPropertiesParser_Parse_EqualsAndColonSeparators(t *testing.T) {
	res := textResource("file:./application.properties", `
server.port=8080
server.host: localhost
`)

	sources, err := NewPropertiesParser().Parse("application.properties", res)
	require.NoError(t, err)
	require.Len(t, sources, 1)

	src := sources[0]
	require.Equal(t, "application.properties", src.Name())

	port, ok := src.Lookup("server.port")
	require.True(t, ok)
	require.Equal(t, "8080", port)

	host, ok := src.Lookup("server.host")
	require.True(t, ok)
	require.Equal(t, "localhost", host)
}

func TestPropertiesParser_Parse_Comments(t *testing.T) {
	res := textResource("file:./application.properties", `
# a hash comment
! a bang comment
key=value
`)

	sources, err := NewPropertiesParser().Parse("application.properties", res)
	require.NoError(t, err)
	require.Len(t, sources, 1)
	require.Equal(t, []string{"key"}, sources[0].Keys())
}

func TestPropertiesParser_Parse_EscapedSeparator(t *testing.T) {
	res := textResource("file:./application.properties", `a\=b=c`)

	sources, err := NewPropertiesParser().Parse("application.properties", res)
	require.NoError(t, err)
	require.Len(t, sources, 1)

	v, ok := sources[0].Lookup(`a\=b`)
	require.True(t, ok)
	require.Equal(t, "c", v)
}

func TestPropertiesParser_Parse_BareKey(t *testing.T) {
	res := textResource("file:./application.properties", "flag.enabled")

	sources, err := NewPropertiesParser().Parse("application.properties", res)
	require.NoError(t, err)
	require.Len(t, sources, 1)

	v, ok := sources[0].Lookup("flag.enabled")
	require.True(t, ok)
	require.Equal(t, "", v)
}

func TestPropertiesParser_Parse_LastValueWinsKeepsPosition(t *testing.T) {
	res := textResource("file:./application.properties", `
a=1
b=2
a=3
`)

	sources, err := NewPropertiesParser().Parse("application.properties", res)
	require.NoError(t, err)
	require.Equal(t, []string{"a", "b"}, sources[0].Keys())

	v, ok := sources[0].Lookup("a")
	require.True(t, ok)
	require.Equal(t, "3", v)
}

func TestPropertiesParser_Parse_EmptyFile(t *testing.T) {
	res := textResource("file:./application.properties", "\n# only a comment\n")

	sources, err := NewPropertiesParser().Parse("application.properties", res)
	require.NoError(t, err)
	require.Empty(t, sources)
}

func TestPropertiesParser_Parse_ProfileKeys(t *testing.T) {
	res := textResource("file:./application.properties", `
profiles.active=prod, cloud
`)

	sources, err := NewPropertiesParser().Parse("application.properties", res)
	require.NoError(t, err)
	require.Len(t, sources, 1)

	v, ok := sources[0].Lookup("profiles.active")
	require.True(t, ok)
	require.Equal(t, "prod, cloud", v)
}
