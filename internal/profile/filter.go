package profile

import (
	"slices"

	"github.com/zjrosen/strata/internal/document"
)

// DocumentFilter decides whether one parsed document applies to the current
// pass.
type DocumentFilter func(doc *document.Document) bool

// FilterFactory builds the filter for a given profile. Expansion asks for
// both the base and current-profile variants when trying profile-qualified
// file names.
type FilterFactory func(p *Profile) DocumentFilter

// positiveFilter matches documents belonging to the profile being drained:
// the nil base profile takes documents declaring no profiles; a named
// profile takes documents whose declared profiles contain its name, provided
// the environment's predicate accepts the declared set.
func (e *Engine) positiveFilter(p *Profile) DocumentFilter {
	return func(doc *document.Document) bool {
		if p == nil {
			return len(doc.Profiles()) == 0
		}
		return slices.Contains(doc.Profiles(), p.Name()) &&
			e.environment.AcceptsProfiles(doc.Profiles()...)
	}
}

// negativeFilter matches profile-restricted documents that were never tied
// to a queued profile but are accepted by the final active set. Runs once
// after draining, always with the nil profile.
func (e *Engine) negativeFilter(p *Profile) DocumentFilter {
	return func(doc *document.Document) bool {
		return p == nil && len(doc.Profiles()) > 0 &&
			e.environment.AcceptsProfiles(doc.Profiles()...)
	}
}
