package document

import (
	"fmt"
	"strings"

	"github.com/zjrosen/strata/internal/env"
	"github.com/zjrosen/strata/internal/resource"
)

// Parser turns one resource into zero or more property sources. Multi-document
// formats return one source per document.
type Parser interface {
	// FileExtensions lists the extensions this parser handles, without dots.
	FileExtensions() []string
	// Parse reads the resource. The logical name seeds the source names.
	Parse(name string, res resource.Resource) ([]*env.PropertySource, error)
}

// Registry is the ordered parser list. Extension claims are resolved by the
// caller: the first parser declaring an extension owns it.
type Registry struct {
	parsers []Parser
}

// NewRegistry creates a registry with the given parsers in priority order.
func NewRegistry(parsers ...Parser) *Registry {
	return &Registry{parsers: parsers}
}

// DefaultRegistry returns the stock parser set: properties, YAML, TOML.
func DefaultRegistry() *Registry {
	return NewRegistry(NewPropertiesParser(), NewYAMLParser(), NewTOMLParser())
}

// Parsers returns the parsers in registration order.
func (r *Registry) Parsers() []Parser {
	return r.parsers
}

// ForLocation returns the first parser claiming the location's extension.
// Used for literal (non-folder) search locations that already name a file.
func (r *Registry) ForLocation(location string) (Parser, bool) {
	for _, p := range r.parsers {
		for _, ext := range p.FileExtensions() {
			if strings.HasSuffix(location, "."+ext) {
				return p, true
			}
		}
	}
	return nil, false
}

// sourceName names the property source for document index i of a resource.
// Single-document resources use the plain name.
func sourceName(name string, index, total int) string {
	if total <= 1 {
		return name
	}
	return fmt.Sprintf("%s (document #%d)", name, index)
}
