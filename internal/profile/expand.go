package profile

import (
	"context"
	"fmt"
	"slices"
	"strings"

	"github.com/zjrosen/strata/internal/document"
	"github.com/zjrosen/strata/internal/flags"
	"github.com/zjrosen/strata/internal/log"
)

// Environment keys controlling the search space.
const (
	// KeyConfigName overrides the base file name(s) searched in folder
	// locations.
	KeyConfigName = "config.name"
	// KeyConfigLocation replaces the search locations entirely.
	KeyConfigLocation = "config.location"
	// KeyConfigAdditionalLocation adds locations ahead of the defaults.
	KeyConfigAdditionalLocation = "config.additional-location"
)

// defaultSearchLocations are the built-in roots, least to most specific.
// Traversal reverses them so the most specific root loads first and its
// sources end up with the highest precedence.
var defaultSearchLocations = []string{"builtin:/", "builtin:/config/", "file:./", "file:./config/"}

// defaultSearchName is the base file name used when config.name is unset.
const defaultSearchName = "application"

// load runs one pass over every search location, name and claimed extension.
func (e *Engine) load(ctx context.Context, p *Profile, filters FilterFactory, consumer docConsumer) error {
	for _, location := range e.searchLocations() {
		names := []string{""}
		if strings.HasSuffix(location, "/") {
			names = e.searchNames()
		}
		for _, name := range names {
			if err := e.loadLocation(ctx, location, name, p, filters, consumer); err != nil {
				return err
			}
		}
	}
	return nil
}

// loadLocation expands one (location, name) pair across parser extensions.
// Literal locations (no trailing slash) name a file directly and use the
// first parser claiming their extension; each extension is claimed by
// exactly one parser, first registered wins.
func (e *Engine) loadLocation(ctx context.Context, location, name string, p *Profile, filters FilterFactory, consumer docConsumer) error {
	if name == "" {
		parser, ok := e.parsers.ForLocation(location)
		if !ok {
			log.Debug(log.CatDocument, "Skipped literal location with unclaimed extension", "location", location)
			return nil
		}
		return e.loadResource(ctx, parser, location, p, filters(p), consumer)
	}
	claimed := make(map[string]struct{})
	for _, parser := range e.parsers.Parsers() {
		for _, ext := range parser.FileExtensions() {
			if _, taken := claimed[ext]; taken {
				continue
			}
			claimed[ext] = struct{}{}
			if err := e.loadForExtension(ctx, parser, location+name, "."+ext, p, filters, consumer); err != nil {
				return err
			}
		}
	}
	return nil
}

// loadForExtension attempts every candidate file for one prefix and
// extension: the profile-qualified file under both the base and profile
// filters, qualified variants for previously processed profiles under the
// current filter, and always the unqualified file.
func (e *Engine) loadForExtension(ctx context.Context, parser document.Parser, prefix, ext string, p *Profile, filters FilterFactory, consumer docConsumer) error {
	defaultFilter := filters(nil)
	profileFilter := filters(p)
	if p != nil {
		qualified := prefix + "-" + p.Name() + ext
		if err := e.loadResource(ctx, parser, qualified, p, defaultFilter, consumer); err != nil {
			return err
		}
		if err := e.loadResource(ctx, parser, qualified, p, profileFilter, consumer); err != nil {
			return err
		}
		for _, prev := range e.state.processed {
			if prev == nil {
				continue
			}
			variant := prefix + "-" + prev.Name() + ext
			if err := e.loadResource(ctx, parser, variant, p, profileFilter, consumer); err != nil {
				return err
			}
		}
	}
	return e.loadResource(ctx, parser, prefix+ext, p, profileFilter, consumer)
}

// loadResource resolves and parses one candidate location, feeding matched
// documents to the consumer. Missing resources, extension-less resources and
// empty parses are skipped; resolution or parse failures abort the run.
func (e *Engine) loadResource(ctx context.Context, parser document.Parser, location string, p *Profile, filter DocumentFilter, consumer docConsumer) error {
	if e.flags.Enabled(flags.FlagTraceDocuments) {
		log.Debug(log.CatDocument, "Attempting config location", "location", location, "profile", p.String())
	}
	res := e.resolver.Resolve(location)
	if !res.Exists() {
		log.Debug(log.CatDocument, "Skipped missing config", "location", location, "profile", p.String())
		return nil
	}
	if res.FilenameExtension() == "" {
		log.Debug(log.CatDocument, "Skipped config without extension", "location", location, "profile", p.String())
		return nil
	}

	docs, err := e.loader.Load(ctx, parser, location, res)
	if err != nil {
		return fmt.Errorf("loading property source from %q: %w", location, err)
	}
	if len(docs) == 0 {
		log.Debug(log.CatDocument, "Skipped config with no documents", "location", location, "profile", p.String())
		return nil
	}

	matched := make([]*document.Document, 0, len(docs))
	for _, doc := range docs {
		if !filter(doc) {
			continue
		}
		e.activateProfiles(namedProfiles(doc.ActivatesProfiles()))
		e.includeProfiles(namedProfiles(doc.IncludesProfiles()))
		matched = append(matched, doc)
	}
	if len(matched) == 0 {
		return nil
	}
	// Later documents in a file override earlier ones, so consume in reverse.
	slices.Reverse(matched)
	for _, doc := range matched {
		consumer(p, doc)
	}
	log.Debug(log.CatDocument, "Loaded config file", "location", location, "profile", p.String(), "documents", len(matched))
	return nil
}

// searchLocations returns the traversal-ordered location list: an explicit
// config.location replaces everything; otherwise config.additional-location
// entries precede the defaults. Each list reverses its declared order so
// later-declared locations load first and take precedence.
func (e *Engine) searchLocations() []string {
	if e.environment.Has(KeyConfigLocation) {
		return reverseUnique(e.environment.StringSlice(KeyConfigLocation))
	}
	locations := reverseUnique(e.environment.StringSlice(KeyConfigAdditionalLocation))
	base := e.locations
	if len(base) == 0 {
		base = defaultSearchLocations
	}
	for _, loc := range reverseUnique(base) {
		if !slices.Contains(locations, loc) {
			locations = append(locations, loc)
		}
	}
	return locations
}

// searchNames returns the traversal-ordered base names.
func (e *Engine) searchNames() []string {
	if e.environment.Has(KeyConfigName) {
		return reverseUnique(e.environment.StringSlice(KeyConfigName))
	}
	names := e.names
	if len(names) == 0 {
		names = []string{defaultSearchName}
	}
	return reverseUnique(names)
}

// Candidates lists every location the search expansion can visit for the
// given roots, names and profiles, in traversal order. Watch mode uses it to
// know which files to monitor. Empty locations or names fall back to the
// defaults.
func Candidates(locations, names, profiles []string, parsers *document.Registry) []string {
	if len(locations) == 0 {
		locations = defaultSearchLocations
	}
	if len(names) == 0 {
		names = []string{defaultSearchName}
	}
	var out []string
	seen := make(map[string]struct{})
	add := func(loc string) {
		if _, ok := seen[loc]; ok {
			return
		}
		seen[loc] = struct{}{}
		out = append(out, loc)
	}
	for _, location := range reverseUnique(locations) {
		if !strings.HasSuffix(location, "/") {
			add(location)
			continue
		}
		for _, name := range reverseUnique(names) {
			claimed := make(map[string]struct{})
			for _, parser := range parsers.Parsers() {
				for _, ext := range parser.FileExtensions() {
					if _, taken := claimed[ext]; taken {
						continue
					}
					claimed[ext] = struct{}{}
					prefix := location + name
					add(prefix + "." + ext)
					for _, p := range profiles {
						add(prefix + "-" + p + "." + ext)
					}
				}
			}
		}
	}
	return out
}

// reverseUnique reverses the list, dropping empties and duplicates.
func reverseUnique(values []string) []string {
	out := make([]string, 0, len(values))
	for i := len(values) - 1; i >= 0; i-- {
		v := values[i]
		if v != "" && !slices.Contains(out, v) {
			out = append(out, v)
		}
	}
	return out
}

func namedProfiles(names []string) []*Profile {
	set := newProfileSet()
	set.addNames(names)
	return set.profiles()
}
