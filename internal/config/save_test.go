package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func readFlags(t *testing.T, path string) map[string]bool {
	t.Helper()
	data, err := os.ReadFile(path)
	require.NoError(t, err)

	var parsed struct {
		Flags map[string]bool `yaml:"flags"`
	}
	require.NoError(t, yaml.Unmarshal(data, &parsed))
	return parsed.Flags
}

func TestWriteTemplate_CreatesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "strata.yml")

	err := WriteTemplate(path, false)
	require.NoError(t, err)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Equal(t, DefaultConfigTemplate(), string(data))
}

func TestWriteTemplate_CreatesParentDirectories(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "deeply", "strata.yml")

	err := WriteTemplate(path, false)
	require.NoError(t, err)

	_, err = os.Stat(path)
	require.NoError(t, err)
}

func TestWriteTemplate_RefusesOverwrite(t *testing.T) {
	path := filepath.Join(t.TempDir(), "strata.yml")
	require.NoError(t, os.WriteFile(path, []byte("logging:\n  level: debug\n"), 0644))

	err := WriteTemplate(path, false)
	require.Error(t, err)
	require.Contains(t, err.Error(), "already exists")

	// Existing content untouched
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Contains(t, string(data), "level: debug")
}

func TestWriteTemplate_ForceOverwrites(t *testing.T) {
	path := filepath.Join(t.TempDir(), "strata.yml")
	require.NoError(t, os.WriteFile(path, []byte("logging:\n  level: debug\n"), 0644))

	err := WriteTemplate(path, true)
	require.NoError(t, err)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Equal(t, DefaultConfigTemplate(), string(data))
}

func TestSaveFlag_NewFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "strata.yml")

	err := SaveFlag(path, "no-doc-cache", true)
	require.NoError(t, err)

	flags := readFlags(t, path)
	require.Equal(t, map[string]bool{"no-doc-cache": true}, flags)
}

func TestSaveFlag_PreservesComments(t *testing.T) {
	path := filepath.Join(t.TempDir(), "strata.yml")
	seed := "# keep this comment\nlogging:\n  level: debug # inline too\n"
	require.NoError(t, os.WriteFile(path, []byte(seed), 0644))

	err := SaveFlag(path, "trace-documents", true)
	require.NoError(t, err)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	content := string(data)
	require.Contains(t, content, "# keep this comment")
	require.Contains(t, content, "# inline too")
	require.Contains(t, content, "level: debug")

	flags := readFlags(t, path)
	require.True(t, flags["trace-documents"])
}

func TestSaveFlag_UpdatesExistingFlag(t *testing.T) {
	path := filepath.Join(t.TempDir(), "strata.yml")
	seed := "flags:\n  no-doc-cache: true\n"
	require.NoError(t, os.WriteFile(path, []byte(seed), 0644))

	err := SaveFlag(path, "no-doc-cache", false)
	require.NoError(t, err)

	flags := readFlags(t, path)
	require.Equal(t, map[string]bool{"no-doc-cache": false}, flags)
}

func TestSaveFlag_AddsToExistingFlags(t *testing.T) {
	path := filepath.Join(t.TempDir(), "strata.yml")
	seed := "flags:\n  no-doc-cache: true\n"
	require.NoError(t, os.WriteFile(path, []byte(seed), 0644))

	err := SaveFlag(path, "trace-documents", true)
	require.NoError(t, err)

	flags := readFlags(t, path)
	require.Equal(t, map[string]bool{
		"no-doc-cache":    true,
		"trace-documents": true,
	}, flags)
}

func TestSaveFlag_LeavesNoTempFiles(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "strata.yml")

	require.NoError(t, SaveFlag(path, "no-doc-cache", true))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	for _, entry := range entries {
		require.False(t, strings.Contains(entry.Name(), ".tmp"),
			"temp file left behind: %s", entry.Name())
	}
	require.Len(t, entries, 1)
}

func TestSaveFlag_TemplateRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "strata.yml")
	require.NoError(t, WriteTemplate(path, false))

	require.NoError(t, SaveFlag(path, "no-doc-cache", true))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	content := string(data)
	require.Contains(t, content, "# Structured logging")
	require.Contains(t, content, "level: info")

	flags := readFlags(t, path)
	require.True(t, flags["no-doc-cache"])
}
