package contributor

import (
	"fmt"
	"slices"
	"strings"

	"github.com/zjrosen/strata/internal/env"
	"github.com/zjrosen/strata/internal/log"
	"github.com/zjrosen/strata/internal/registry"
)

// Selector runs contributor selection against one registry and environment.
type Selector struct {
	registry    *registry.Registry
	environment *env.Environment
	filters     []ConditionFilter
}

// NewSelector creates a selector. When no filters are given the default
// condition filters apply.
func NewSelector(reg *registry.Registry, environment *env.Environment, filters ...ConditionFilter) *Selector {
	if len(filters) == 0 {
		filters = DefaultFilters(environment)
	}
	return &Selector{registry: reg, environment: environment, filters: filters}
}

// CollectCandidates is phase one: compute the accepted candidate list for one
// requesting source. Candidates come from the registry's contributor
// capability; an empty capability is a fatal deployment error. Exclusions
// union the source's explicit list with the autoconfigure.exclude property
// and must all name known candidates. Condition filters then remove
// candidates cumulatively.
func (s *Selector) CollectCandidates(source Source) (*Entry, error) {
	regs := s.registry.Lookup(registry.CapabilityContributor)
	if len(regs) == 0 {
		return nil, fmt.Errorf("%w under %s", ErrNoCandidates, registry.CapabilityContributor)
	}
	regs = dedupe(regs)

	exclusions := s.exclusions(source)
	if err := checkExcluded(regs, exclusions); err != nil {
		return nil, err
	}
	regs = slices.DeleteFunc(regs, func(reg *registry.Registration) bool {
		return slices.Contains(exclusions, reg.ID)
	})

	regs = s.applyFilters(regs)

	accepted := make([]string, len(regs))
	for i, reg := range regs {
		accepted[i] = reg.ID
	}
	log.Debug(log.CatContributor, "Candidates collected", "source", source.Name, "accepted", len(accepted), "excluded", len(exclusions))
	return newEntry(source.Name, accepted, exclusions), nil
}

// exclusions merges the source's explicit excludes with the exclusion
// property, deduplicated in first-seen order.
func (s *Selector) exclusions(source Source) []string {
	var out []string
	for _, id := range source.Excludes {
		if !slices.Contains(out, id) {
			out = append(out, id)
		}
	}
	for _, id := range s.environment.StringSlice(KeyExclude) {
		if !slices.Contains(out, id) {
			out = append(out, id)
		}
	}
	return out
}

// checkExcluded validates that every exclusion names an actual candidate.
// Invalid exclusions aggregate into one fatal error.
func checkExcluded(regs []*registry.Registration, exclusions []string) error {
	var invalid []string
	for _, id := range exclusions {
		if !slices.ContainsFunc(regs, func(reg *registry.Registration) bool { return reg.ID == id }) {
			invalid = append(invalid, id)
		}
	}
	if len(invalid) == 0 {
		return nil
	}
	var list strings.Builder
	for _, id := range invalid {
		list.WriteString("\t- ")
		list.WriteString(id)
		list.WriteString("\n")
	}
	return fmt.Errorf("%w:\n%s", ErrInvalidExclusion, list.String())
}

// applyFilters runs every condition filter as one batch over the remaining
// candidates. A candidate rejected by any filter stays removed.
func (s *Selector) applyFilters(regs []*registry.Registration) []*registry.Registration {
	remaining := regs
	for _, f := range s.filters {
		match := f.Match(remaining)
		var kept []*registry.Registration
		for i, reg := range remaining {
			if match[i] {
				kept = append(kept, reg)
			} else {
				log.Debug(log.CatContributor, "Candidate filtered", "id", reg.ID, "filter", f.Name())
			}
		}
		remaining = kept
	}
	return remaining
}

func dedupe(regs []*registry.Registration) []*registry.Registration {
	seen := make(map[string]struct{}, len(regs))
	out := make([]*registry.Registration, 0, len(regs))
	for _, reg := range regs {
		if _, ok := seen[reg.ID]; ok {
			continue
		}
		seen[reg.ID] = struct{}{}
		out = append(out, reg)
	}
	return out
}
