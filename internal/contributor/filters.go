package contributor

import (
	"github.com/zjrosen/strata/internal/env"
	"github.com/zjrosen/strata/internal/registry"
)

// ConditionFilter evaluates all remaining candidates in one batch and
// returns a parallel match slice; a false at index i removes candidates[i].
type ConditionFilter interface {
	Name() string
	Match(candidates []*registry.Registration) []bool
}

// DefaultFilters returns the stock condition filters: profile and key
// requirements evaluated against the environment.
func DefaultFilters(environment *env.Environment) []ConditionFilter {
	return []ConditionFilter{
		&RequiresProfileFilter{environment: environment},
		&RequiresKeyFilter{environment: environment},
	}
}

// RequiresProfileFilter rejects candidates whose requires-profile expression
// the environment does not accept.
type RequiresProfileFilter struct {
	environment *env.Environment
}

// Name returns the filter name for logs.
func (f *RequiresProfileFilter) Name() string {
	return "requires-profile"
}

// Match reports, per candidate, whether its profile requirement holds.
func (f *RequiresProfileFilter) Match(candidates []*registry.Registration) []bool {
	match := make([]bool, len(candidates))
	for i, reg := range candidates {
		match[i] = reg.RequiresProfile == "" || f.environment.AcceptsProfiles(reg.RequiresProfile)
	}
	return match
}

// RequiresKeyFilter rejects candidates whose requires-key property is absent
// from the environment.
type RequiresKeyFilter struct {
	environment *env.Environment
}

// Name returns the filter name for logs.
func (f *RequiresKeyFilter) Name() string {
	return "requires-key"
}

// Match reports, per candidate, whether its key requirement holds.
func (f *RequiresKeyFilter) Match(candidates []*registry.Registration) []bool {
	match := make([]bool, len(candidates))
	for i, reg := range candidates {
		match[i] = reg.RequiresKey == "" || f.environment.Has(reg.RequiresKey)
	}
	return match
}
