package presentation

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/zjrosen/strata/internal/bootstrap"
	"github.com/zjrosen/strata/internal/contributor"
	"github.com/zjrosen/strata/internal/env"
	"github.com/zjrosen/strata/internal/infrastructure/sqlite"
	"github.com/zjrosen/strata/internal/registry"
)

func TestFromReport(t *testing.T) {
	t.Run("completed run", func(t *testing.T) {
		started := time.Date(2025, 3, 14, 9, 26, 53, 0, time.UTC)
		report := &bootstrap.Report{
			RunID:      "run-1234",
			ConfigName: "application",
			StartedAt:  started,
			Duration:   42 * time.Millisecond,
			Profiles:   []string{"dev", "local"},
			Sources:    []string{"commandLineArgs", "file:./application.yml"},
			Listeners:  []string{"config-logger"},
			Contributors: []contributor.Selection{
				{ID: "core.environment", Source: "builtin"},
				{
					ID:           "core.cache",
					Source:       "builtin",
					Registration: &registry.Registration{ID: "core.cache", Description: "document cache"},
				},
			},
			Status: bootstrap.StatusCompleted,
		}

		dto := FromReport(report)

		require.Equal(t, "run-1234", dto.RunID)
		require.Equal(t, "completed", dto.Status)
		require.Equal(t, int64(42), dto.DurationMs)
		require.Equal(t, []string{"dev", "local"}, dto.Profiles)
		require.Len(t, dto.Contributors, 2)
		require.Empty(t, dto.Contributors[0].Description)
		require.Equal(t, "document cache", dto.Contributors[1].Description)
		require.Empty(t, dto.Error)
	})

	t.Run("failed run carries error text", func(t *testing.T) {
		report := &bootstrap.Report{
			RunID:  "run-9999",
			Status: bootstrap.StatusFailed,
			Err:    errors.New("cannot parse file:./application.yml"),
		}

		dto := FromReport(report)

		require.Equal(t, "failed", dto.Status)
		require.Equal(t, "cannot parse file:./application.yml", dto.Error)
	})
}

func TestFromEnvironment(t *testing.T) {
	environment := env.New()
	high := env.NewPropertySource("high")
	high.Set("server.port", 9090)
	high.Set("app.name", "strata")
	low := env.NewPropertySource("low")
	low.Set("server.port", 8080)
	low.Set("zz.last", "tail")
	environment.PropertySources().AddFirst(low)
	environment.PropertySources().AddFirst(high)

	props := FromEnvironment(environment)

	require.Len(t, props, 3)
	// Keys come back sorted.
	require.Equal(t, "app.name", props[0].Key)
	require.Equal(t, "server.port", props[1].Key)
	require.Equal(t, "zz.last", props[2].Key)
	// First match wins, and the origin names the winning source.
	require.Equal(t, "9090", props[1].Value)
	require.Equal(t, "high", props[1].Source)
	require.Equal(t, "low", props[2].Source)
}

func TestFromRuns(t *testing.T) {
	started := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	runs := []*sqlite.Run{
		{
			ID:           "0b5e8c1a-9f6d-4f1e-8d2a-000000000001",
			StartedAt:    started,
			Duration:     120 * time.Millisecond,
			Status:       "completed",
			ConfigName:   "application",
			Profiles:     []string{"prod"},
			SourceCount:  3,
			Contributors: []string{"core.environment", "core.logging"},
		},
		{
			ID:        "0b5e8c1a-9f6d-4f1e-8d2a-000000000002",
			StartedAt: started.Add(-time.Hour),
			Status:    "failed",
			Error:     "activation after lock",
		},
	}

	dtos := FromRuns(runs)

	require.Len(t, dtos, 2)
	require.Equal(t, int64(120), dtos[0].DurationMs)
	require.Equal(t, []string{"prod"}, dtos[0].Profiles)
	require.Equal(t, "failed", dtos[1].Status)
	require.Equal(t, "activation after lock", dtos[1].Error)
}
