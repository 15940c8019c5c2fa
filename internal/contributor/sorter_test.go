package contributor

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/zjrosen/strata/internal/env"
	"github.com/zjrosen/strata/internal/registry"
)

func selectedIDs(selections []Selection) []string {
	out := make([]string, len(selections))
	for i, sel := range selections {
		out[i] = sel.ID
	}
	return out
}

func collectEntry(t *testing.T, s *Selector, source Source) *Entry {
	t.Helper()
	entry, err := s.CollectCandidates(source)
	require.NoError(t, err)
	return entry
}

func TestSelector_FlattenAndSort_NoEntries(t *testing.T) {
	s := NewSelector(registry.NewRegistry(), env.New())

	require.Nil(t, s.FlattenAndSort(nil))
}

func TestSelector_FlattenAndSort_SortsByOrder(t *testing.T) {
	reg := newContributorRegistry(t,
		&registry.Registration{ID: "late", Order: 50},
		&registry.Registration{ID: "early", Order: -100},
		&registry.Registration{ID: "middle"},
	)
	s := NewSelector(reg, env.New())
	entry := collectEntry(t, s, Source{Name: "boot"})

	require.Equal(t, []string{"early", "middle", "late"}, selectedIDs(s.FlattenAndSort([]*Entry{entry})))
}

func TestSelector_FlattenAndSort_TiesKeepInputOrder(t *testing.T) {
	reg := newContributorRegistry(t,
		&registry.Registration{ID: "zeta"},
		&registry.Registration{ID: "alpha"},
		&registry.Registration{ID: "mike"},
	)
	s := NewSelector(reg, env.New())
	entry := collectEntry(t, s, Source{Name: "boot"})

	require.Equal(t, []string{"zeta", "alpha", "mike"}, selectedIDs(s.FlattenAndSort([]*Entry{entry})))
}

func TestSelector_FlattenAndSort_AfterConstraint(t *testing.T) {
	reg := newContributorRegistry(t,
		&registry.Registration{ID: "core.logging", After: []string{"core.environment"}},
		&registry.Registration{ID: "core.environment"},
	)
	s := NewSelector(reg, env.New())
	entry := collectEntry(t, s, Source{Name: "boot"})

	require.Equal(t, []string{"core.environment", "core.logging"}, selectedIDs(s.FlattenAndSort([]*Entry{entry})))
}

func TestSelector_FlattenAndSort_BeforeConstraint(t *testing.T) {
	reg := newContributorRegistry(t,
		&registry.Registration{ID: "core.history"},
		&registry.Registration{ID: "core.watch", Before: []string{"core.history"}},
	)
	s := NewSelector(reg, env.New())
	entry := collectEntry(t, s, Source{Name: "boot"})

	require.Equal(t, []string{"core.watch", "core.history"}, selectedIDs(s.FlattenAndSort([]*Entry{entry})))
}

func TestSelector_FlattenAndSort_ConstraintOverridesOrder(t *testing.T) {
	reg := newContributorRegistry(t,
		&registry.Registration{ID: "a", Order: -100, After: []string{"b"}},
		&registry.Registration{ID: "b", Order: 100},
	)
	s := NewSelector(reg, env.New())
	entry := collectEntry(t, s, Source{Name: "boot"})

	require.Equal(t, []string{"b", "a"}, selectedIDs(s.FlattenAndSort([]*Entry{entry})))
}

func TestSelector_FlattenAndSort_TransitiveThroughUnselected(t *testing.T) {
	reg := newContributorRegistry(t,
		&registry.Registration{ID: "a", After: []string{"m"}},
		&registry.Registration{ID: "m", After: []string{"b"}},
		&registry.Registration{ID: "b"},
	)
	s := NewSelector(reg, env.New())
	entry := collectEntry(t, s, Source{Name: "boot", Excludes: []string{"m"}})

	got := selectedIDs(s.FlattenAndSort([]*Entry{entry}))
	require.Equal(t, []string{"b", "a"}, got)
}

func TestSelector_FlattenAndSort_UnknownReferenceIgnored(t *testing.T) {
	reg := newContributorRegistry(t,
		&registry.Registration{ID: "a", After: []string{"ghost"}},
		&registry.Registration{ID: "b", Before: []string{"phantom"}},
	)
	s := NewSelector(reg, env.New())
	entry := collectEntry(t, s, Source{Name: "boot"})

	require.Equal(t, []string{"a", "b"}, selectedIDs(s.FlattenAndSort([]*Entry{entry})))
}

func TestSelector_FlattenAndSort_UnionAcrossSources(t *testing.T) {
	reg := newContributorRegistry(t,
		&registry.Registration{ID: "a"},
		&registry.Registration{ID: "b"},
		&registry.Registration{ID: "c"},
	)
	s := NewSelector(reg, env.New())

	got := s.FlattenAndSort([]*Entry{
		newEntry("boot", []string{"b"}, nil),
		newEntry("plugin", []string{"a", "c"}, nil),
	})
	require.Equal(t, []string{"b", "a", "c"}, selectedIDs(got))
	require.Equal(t, "boot", got[0].Source)
	require.Equal(t, "plugin", got[1].Source)
}

func TestSelector_FlattenAndSort_FirstSourceIntroduces(t *testing.T) {
	reg := newContributorRegistry(t, &registry.Registration{ID: "a"})
	s := NewSelector(reg, env.New())

	got := s.FlattenAndSort([]*Entry{
		newEntry("boot", []string{"a"}, nil),
		newEntry("plugin", []string{"a"}, nil),
	})
	require.Len(t, got, 1)
	require.Equal(t, "boot", got[0].Source)
	require.NotNil(t, got[0].Registration)
	require.Equal(t, "a", got[0].Registration.ID)
}

func TestSelector_FlattenAndSort_ExclusionFromAnySource(t *testing.T) {
	reg := newContributorRegistry(t,
		&registry.Registration{ID: "a"},
		&registry.Registration{ID: "b"},
		&registry.Registration{ID: "c"},
	)
	s := NewSelector(reg, env.New())
	first := collectEntry(t, s, Source{Name: "boot"})
	second := collectEntry(t, s, Source{Name: "plugin", Excludes: []string{"b"}})

	require.Equal(t, []string{"a", "c"}, selectedIDs(s.FlattenAndSort([]*Entry{first, second})))
}

func TestSelector_FlattenAndSort_CycleBrokenDeterministically(t *testing.T) {
	reg := newContributorRegistry(t,
		&registry.Registration{ID: "a", After: []string{"b"}},
		&registry.Registration{ID: "b", After: []string{"a"}},
	)
	s := NewSelector(reg, env.New())
	entry := collectEntry(t, s, Source{Name: "boot"})

	first := selectedIDs(s.FlattenAndSort([]*Entry{entry}))
	require.Equal(t, []string{"b", "a"}, first)
	for i := 0; i < 50; i++ {
		require.Equal(t, first, selectedIDs(s.FlattenAndSort([]*Entry{entry})))
	}
}

func TestSelector_FlattenAndSort_Deterministic(t *testing.T) {
	reg := newContributorRegistry(t,
		&registry.Registration{ID: "core.environment", Order: -100},
		&registry.Registration{ID: "core.logging", Order: -50, After: []string{"core.environment"}},
		&registry.Registration{ID: "core.cache", After: []string{"core.environment"}},
		&registry.Registration{ID: "core.tracing", After: []string{"core.logging"}},
		&registry.Registration{ID: "core.history", After: []string{"core.cache"}},
		&registry.Registration{ID: "core.watch", Before: []string{"core.history"}},
	)
	s := NewSelector(reg, env.New())
	boot := collectEntry(t, s, Source{Name: "boot"})
	plugin := collectEntry(t, s, Source{Name: "plugin"})

	want := []string{"core.environment", "core.logging", "core.cache", "core.tracing", "core.watch", "core.history"}
	for i := 0; i < 100; i++ {
		require.Equal(t, want, selectedIDs(s.FlattenAndSort([]*Entry{boot, plugin})))
	}
}
