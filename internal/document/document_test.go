package document

import (
	"io"
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/zjrosen/strata/internal/env"
)

// fakeResource is an in-memory resource for parser tests.
type fakeResource struct {
	location string
	ext      string
	content  string
	exists   bool
}

func (r *fakeResource) Exists() bool              { return r.exists }
func (r *fakeResource) FilenameExtension() string { return r.ext }
func (r *fakeResource) Location() string          { return r.location }

func (r *fakeResource) Open() (io.ReadCloser, error) {
	if !r.exists {
		return nil, os.ErrNotExist
	}
	return io.NopCloser(strings.NewReader(r.content)), nil
}

func textResource(location, content string) *fakeResource {
	ext := ""
	if i := strings.LastIndex(location, "."); i >= 0 {
		ext = location[i+1:]
	}
	return &fakeResource{location: location, ext: ext, content: content, exists: true}
}

func TestNew_ExtractsProfileKeys(t *testing.T) {
	src := env.NewMapSource("application.yml",
		[]string{"profiles", "profiles.active", "profiles.include", "server.port"},
		map[string]any{
			"profiles":         "prod,cloud",
			"profiles.active":  "prod",
			"profiles.include": []any{"audit", "metrics"},
			"server.port":      8080,
		})

	doc := New(src, env.New())

	require.Equal(t, []string{"prod", "cloud"}, doc.Profiles())
	require.Equal(t, []string{"prod"}, doc.ActivatesProfiles())
	require.Equal(t, []string{"audit", "metrics"}, doc.IncludesProfiles())
	require.Same(t, src, doc.Source())
}

func TestNew_NoProfileKeys(t *testing.T) {
	src := env.NewMapSource("application.yml",
		[]string{"server.port"},
		map[string]any{"server.port": 8080})

	doc := New(src, env.New())

	require.Nil(t, doc.Profiles())
	require.Nil(t, doc.ActivatesProfiles())
	require.Nil(t, doc.IncludesProfiles())
}

func TestNew_ResolvesPlaceholdersAgainstEnvironment(t *testing.T) {
	environment := env.New()
	earlier := env.NewMapSource("earlier",
		[]string{"deploy.profile"},
		map[string]any{"deploy.profile": "staging"})
	environment.PropertySources().AddLast(earlier)

	src := env.NewMapSource("application.yml",
		[]string{"profiles.active"},
		map[string]any{"profiles.active": "${deploy.profile},shared"})

	doc := New(src, environment)

	require.Equal(t, []string{"staging", "shared"}, doc.ActivatesProfiles())
}

func TestNew_ExtractionIsEager(t *testing.T) {
	environment := env.New()
	src := env.NewMapSource("application.yml",
		[]string{"profiles.active"},
		map[string]any{"profiles.active": "${deploy.profile:fallback}"})

	doc := New(src, environment)

	// A source added after construction must not change the extraction.
	later := env.NewMapSource("later",
		[]string{"deploy.profile"},
		map[string]any{"deploy.profile": "late"})
	environment.PropertySources().AddLast(later)

	require.Equal(t, []string{"fallback"}, doc.ActivatesProfiles())
}
