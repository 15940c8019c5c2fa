// Package document parses located resources into property sources annotated
// with their profile declarations, memoizing parse results per
// (parser, resource) pair for the duration of one resolution run.
package document

import (
	"github.com/zjrosen/strata/internal/env"
)

// Well-known keys read from a document's own content.
const (
	// KeyProfiles restricts a document to the listed profile names.
	KeyProfiles = "profiles"
	// KeyActiveProfiles activates profiles, from a document or a pre-existing
	// environment property.
	KeyActiveProfiles = "profiles.active"
	// KeyIncludeProfiles includes additional profiles without claiming
	// activation.
	KeyIncludeProfiles = "profiles.include"
)

// Document is one parsed unit of configuration: a property source plus the
// profile metadata extracted from its well-known keys. Extraction happens
// eagerly at construction so that placeholders resolve against the
// environment accumulated up to that point.
type Document struct {
	source   *env.PropertySource
	profiles []string
	activate []string
	include  []string
}

// New builds a document from a parsed source, extracting profile keys with
// placeholder resolution against the given environment.
func New(source *env.PropertySource, environment *env.Environment) *Document {
	b := env.NewBinder(source, environment)
	return &Document{
		source:   source,
		profiles: b.StringSlice(KeyProfiles),
		activate: b.StringSlice(KeyActiveProfiles),
		include:  b.StringSlice(KeyIncludeProfiles),
	}
}

// Source returns the document's property source.
func (d *Document) Source() *env.PropertySource {
	return d.source
}

// Profiles returns the profile names this document is restricted to.
// Empty means the document applies to the base configuration.
func (d *Document) Profiles() []string {
	return d.profiles
}

// ActivatesProfiles returns the profiles this document activates.
func (d *Document) ActivatesProfiles() []string {
	return d.activate
}

// IncludesProfiles returns the profiles this document includes.
func (d *Document) IncludesProfiles() []string {
	return d.include
}
