package env

import (
	"errors"
	"fmt"
)

// Collection errors
var (
	ErrSourceNotFound = errors.New("property source not found")
	ErrSelfReference  = errors.New("property source cannot be positioned relative to itself")
)

// MutablePropertySources is an ordered collection of uniquely named property
// sources. Position determines lookup precedence: the first source containing
// a key wins. All repositioning is done by name.
type MutablePropertySources struct {
	sources []*PropertySource
}

// NewMutablePropertySources creates an empty collection.
func NewMutablePropertySources() *MutablePropertySources {
	return &MutablePropertySources{}
}

// Contains reports whether a source with the given name is present.
func (p *MutablePropertySources) Contains(name string) bool {
	return p.indexOf(name) >= 0
}

// Get returns the named source if present.
func (p *MutablePropertySources) Get(name string) (*PropertySource, bool) {
	if i := p.indexOf(name); i >= 0 {
		return p.sources[i], true
	}
	return nil, false
}

// AddFirst inserts the source at the highest precedence, replacing any
// existing source with the same name.
func (p *MutablePropertySources) AddFirst(src *PropertySource) {
	p.removeIfPresent(src.Name())
	p.sources = append([]*PropertySource{src}, p.sources...)
}

// AddLast inserts the source at the lowest precedence, replacing any existing
// source with the same name.
func (p *MutablePropertySources) AddLast(src *PropertySource) {
	p.removeIfPresent(src.Name())
	p.sources = append(p.sources, src)
}

// AddBefore inserts the source immediately above the named relative source.
func (p *MutablePropertySources) AddBefore(relativeName string, src *PropertySource) error {
	if err := p.assertLegalRelative(relativeName, src); err != nil {
		return err
	}
	p.removeIfPresent(src.Name())
	i := p.indexOf(relativeName)
	if i < 0 {
		return fmt.Errorf("%w: %q", ErrSourceNotFound, relativeName)
	}
	p.insertAt(i, src)
	return nil
}

// AddAfter inserts the source immediately below the named relative source.
func (p *MutablePropertySources) AddAfter(relativeName string, src *PropertySource) error {
	if err := p.assertLegalRelative(relativeName, src); err != nil {
		return err
	}
	p.removeIfPresent(src.Name())
	i := p.indexOf(relativeName)
	if i < 0 {
		return fmt.Errorf("%w: %q", ErrSourceNotFound, relativeName)
	}
	p.insertAt(i+1, src)
	return nil
}

// Remove removes and returns the named source, or nil if absent.
func (p *MutablePropertySources) Remove(name string) *PropertySource {
	i := p.indexOf(name)
	if i < 0 {
		return nil
	}
	src := p.sources[i]
	p.sources = append(p.sources[:i], p.sources[i+1:]...)
	return src
}

// Names returns the source names in precedence order.
func (p *MutablePropertySources) Names() []string {
	names := make([]string, len(p.sources))
	for i, s := range p.sources {
		names[i] = s.Name()
	}
	return names
}

// Len returns the number of sources.
func (p *MutablePropertySources) Len() int {
	return len(p.sources)
}

// All returns the sources in precedence order. The returned slice is a copy;
// the sources themselves are shared.
func (p *MutablePropertySources) All() []*PropertySource {
	out := make([]*PropertySource, len(p.sources))
	copy(out, p.sources)
	return out
}

func (p *MutablePropertySources) assertLegalRelative(relativeName string, src *PropertySource) error {
	if relativeName == src.Name() {
		return fmt.Errorf("%w: %q", ErrSelfReference, relativeName)
	}
	return nil
}

func (p *MutablePropertySources) indexOf(name string) int {
	for i, s := range p.sources {
		if s.Name() == name {
			return i
		}
	}
	return -1
}

func (p *MutablePropertySources) removeIfPresent(name string) {
	p.Remove(name)
}

func (p *MutablePropertySources) insertAt(i int, src *PropertySource) {
	if i >= len(p.sources) {
		p.sources = append(p.sources, src)
		return
	}
	p.sources = append(p.sources[:i], append([]*PropertySource{src}, p.sources[i:]...)...)
}
