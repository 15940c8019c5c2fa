package env

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestEnvironment_AddActiveProfile_Idempotent(t *testing.T) {
	e := New()
	e.AddActiveProfile("prod")
	e.AddActiveProfile("metrics")
	e.AddActiveProfile("prod")

	require.Equal(t, []string{"prod", "metrics"}, e.ActiveProfiles())
}

func TestEnvironment_SetActiveProfiles_DropsDuplicates(t *testing.T) {
	e := New()
	e.SetActiveProfiles("a", "b", "a", "c", "b")
	require.Equal(t, []string{"a", "b", "c"}, e.ActiveProfiles())
}

func TestEnvironment_AcceptsProfiles_ActiveSet(t *testing.T) {
	e := New()
	e.SetActiveProfiles("prod")

	require.True(t, e.AcceptsProfiles("prod"))
	require.True(t, e.AcceptsProfiles("dev", "prod"))
	require.False(t, e.AcceptsProfiles("dev"))
}

func TestEnvironment_AcceptsProfiles_FallsBackToDefaults(t *testing.T) {
	e := New()

	// No active profiles: the default profile answers.
	require.True(t, e.AcceptsProfiles(ReservedDefaultProfile))
	require.False(t, e.AcceptsProfiles("prod"))

	e.SetDefaultProfiles("base", "local")
	require.True(t, e.AcceptsProfiles("local"))
}

func TestEnvironment_AcceptsProfiles_Negation(t *testing.T) {
	e := New()
	e.SetActiveProfiles("prod")

	require.True(t, e.AcceptsProfiles("!dev"))
	require.False(t, e.AcceptsProfiles("!prod"))
	// Any matching expression accepts the set.
	require.True(t, e.AcceptsProfiles("!prod", "prod"))
}

func TestEnvironment_Lookup_FirstSourceWins(t *testing.T) {
	e := New()
	e.PropertySources().AddLast(namedSource("low", "k", "low-value", "only-low", "x"))
	e.PropertySources().AddFirst(namedSource("high", "k", "high-value"))

	v, ok := e.Lookup("k")
	require.True(t, ok)
	require.Equal(t, "high-value", v)

	v, ok = e.Lookup("only-low")
	require.True(t, ok)
	require.Equal(t, "x", v)

	_, ok = e.Lookup("absent")
	require.False(t, ok)
}

func TestEnvironment_Get_ResolvesPlaceholders(t *testing.T) {
	e := New()
	e.PropertySources().AddLast(namedSource("base", "host", "example.org", "url", "https://${host}/api"))

	require.Equal(t, "https://example.org/api", e.Get("url"))
	require.Equal(t, "", e.Get("missing"))
}

func TestEnvironment_StringSlice(t *testing.T) {
	e := New()
	e.PropertySources().AddLast(namedSource("base",
		"csv", "a, b ,c",
		"ref", "${csv}",
	))

	require.Equal(t, []string{"a", "b", "c"}, e.StringSlice("csv"))
	require.Equal(t, []string{"a", "b", "c"}, e.StringSlice("ref"))
	require.Nil(t, e.StringSlice("missing"))
}

func TestEnvironment_StringSlice_ListValue(t *testing.T) {
	e := New()
	src := NewPropertySource("base")
	src.Set("list", []any{"one", "two"})
	e.PropertySources().AddLast(src)

	require.Equal(t, []string{"one", "two"}, e.StringSlice("list"))
}

func TestEnvironment_Merged_ReportsOrigins(t *testing.T) {
	e := New()
	e.PropertySources().AddLast(namedSource("low", "a", "1", "b", "2"))
	e.PropertySources().AddFirst(namedSource("high", "b", "3"))

	values, origin := e.Merged()
	require.Equal(t, "1", values["a"])
	require.Equal(t, "3", values["b"])
	require.Equal(t, "low", origin["a"])
	require.Equal(t, "high", origin["b"])
}
