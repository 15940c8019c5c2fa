package testutil

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/zjrosen/strata/internal/registry"
)

func TestRegistryBuilder(t *testing.T) {
	r := NewRegistryBuilder(t).
		Listener("config-logger", Description("logs the effective view")).
		Contributor("core.environment", Order(-100)).
		Contributor("core.tracing",
			After("core.environment"),
			Before("core.history"),
			RequiresProfile("dev"),
			RequiresKey("tracing.exporter")).
		Build()

	require.Equal(t, 3, r.Len())
	require.Equal(t, []string{"config-logger"}, r.IDs(registry.CapabilityListener))

	reg, ok := r.Get(registry.CapabilityContributor, "core.tracing")
	require.True(t, ok)
	require.Equal(t, []string{"core.environment"}, reg.After)
	require.Equal(t, []string{"core.history"}, reg.Before)
	require.Equal(t, "dev", reg.RequiresProfile)
	require.Equal(t, "tracing.exporter", reg.RequiresKey)

	reg, ok = r.Get(registry.CapabilityContributor, "core.environment")
	require.True(t, ok)
	require.Equal(t, -100, reg.Order)
}
