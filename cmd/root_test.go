package cmd

import (
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/require"

	"github.com/zjrosen/strata/internal/log"
	"github.com/zjrosen/strata/internal/registry"
)

// newFormatCommand builds a throwaway command carrying the --format flag the
// way every output command declares it.
func newFormatCommand() *cobra.Command {
	c := &cobra.Command{Use: "test"}
	c.Flags().String("format", "", "")
	return c
}

func TestResolveFormat(t *testing.T) {
	prev := cfg.Output.Format
	t.Cleanup(func() { cfg.Output.Format = prev })

	t.Run("defaults to text", func(t *testing.T) {
		cfg.Output.Format = ""
		format, err := resolveFormat(newFormatCommand())
		require.NoError(t, err)
		require.Equal(t, "text", format)
	})

	t.Run("config supplies the default", func(t *testing.T) {
		cfg.Output.Format = "json"
		format, err := resolveFormat(newFormatCommand())
		require.NoError(t, err)
		require.Equal(t, "json", format)
	})

	t.Run("flag overrides config", func(t *testing.T) {
		cfg.Output.Format = "json"
		c := newFormatCommand()
		require.NoError(t, c.Flags().Set("format", "text"))
		format, err := resolveFormat(c)
		require.NoError(t, err)
		require.Equal(t, "text", format)
	})

	t.Run("rejects unknown formats", func(t *testing.T) {
		cfg.Output.Format = ""
		c := newFormatCommand()
		require.NoError(t, c.Flags().Set("format", "yaml"))
		_, err := resolveFormat(c)
		require.Error(t, err)
		require.Contains(t, err.Error(), "yaml")
	})
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		level    string
		expected log.Level
	}{
		{"debug", log.LevelDebug},
		{"info", log.LevelInfo},
		{"warn", log.LevelWarn},
		{"error", log.LevelError},
		{"", log.LevelInfo},
		{"verbose", log.LevelInfo},
	}
	for _, tt := range tests {
		require.Equal(t, tt.expected, parseLevel(tt.level), "level %q", tt.level)
	}
}

func TestFirstOrEmpty(t *testing.T) {
	require.Equal(t, "", firstOrEmpty(nil))
	require.Equal(t, "application", firstOrEmpty([]string{"application", "bootstrap"}))
}

// TestLoadRegistry_EmbeddedDefault verifies that without --registry the
// embedded capability table loads and carries the core contributors.
func TestLoadRegistry_EmbeddedDefault(t *testing.T) {
	prev := registryFile
	t.Cleanup(func() { registryFile = prev })
	registryFile = ""

	reg, err := loadRegistry()
	require.NoError(t, err)
	require.NotZero(t, reg.Len())
	require.Contains(t, reg.IDs(registry.CapabilityContributor), "core.environment")
	require.Contains(t, reg.IDs(registry.CapabilityListener), "config-logger")
}

// TestWatchPaths_DefaultSearchSpace verifies the watch set covers the
// file-backed default locations and excludes builtin ones.
func TestWatchPaths_DefaultSearchSpace(t *testing.T) {
	prevLocations, prevNames, prevRegistry := flagLocations, flagNames, registryFile
	t.Cleanup(func() {
		flagLocations, flagNames, registryFile = prevLocations, prevNames, prevRegistry
	})
	flagLocations, flagNames, registryFile = nil, nil, ""

	paths := watchPaths(nil)
	require.Contains(t, paths, "./application.yml")
	require.Contains(t, paths, "./config/application.yml")
	for _, p := range paths {
		require.NotContains(t, p, "builtin:")
	}
}

// TestWatchPaths_ProfileVariants verifies active profiles widen the watch set
// to their qualified files.
func TestWatchPaths_ProfileVariants(t *testing.T) {
	prevLocations, prevNames, prevRegistry := flagLocations, flagNames, registryFile
	t.Cleanup(func() {
		flagLocations, flagNames, registryFile = prevLocations, prevNames, prevRegistry
	})
	flagLocations, flagNames, registryFile = nil, nil, ""

	paths := watchPaths([]string{"dev"})
	require.Contains(t, paths, "./application-dev.yml")
}
