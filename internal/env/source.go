// Package env models the destination environment for a bootstrap run: named
// ordered property sources, active/default profiles, placeholder resolution,
// and the commit-time merger that flattens loaded sources into the
// destination with correct precedence.
package env

// PropertySource is a named, insertion-ordered key→value layer. Sources are
// built up during one load pass and treated as immutable afterwards. Lookup
// precedence between sources is decided by their position in a
// MutablePropertySources collection, not by anything stored here.
type PropertySource struct {
	name   string
	keys   []string
	values map[string]any
}

// NewPropertySource creates an empty property source with the given name.
func NewPropertySource(name string) *PropertySource {
	return &PropertySource{
		name:   name,
		values: make(map[string]any),
	}
}

// NewMapSource creates a property source seeded from a map. Key order follows
// the supplied keys slice so that callers control insertion order.
func NewMapSource(name string, keys []string, values map[string]any) *PropertySource {
	src := NewPropertySource(name)
	for _, k := range keys {
		if v, ok := values[k]; ok {
			src.Set(k, v)
		}
	}
	return src
}

// Name returns the source name.
func (s *PropertySource) Name() string {
	return s.name
}

// Set stores a value. A repeated key keeps its original position.
func (s *PropertySource) Set(key string, value any) {
	if _, exists := s.values[key]; !exists {
		s.keys = append(s.keys, key)
	}
	s.values[key] = value
}

// Lookup returns the value for key and whether it exists.
func (s *PropertySource) Lookup(key string) (any, bool) {
	v, ok := s.values[key]
	return v, ok
}

// Has reports whether the key exists in this source.
func (s *PropertySource) Has(key string) bool {
	_, ok := s.values[key]
	return ok
}

// Keys returns the keys in insertion order.
func (s *PropertySource) Keys() []string {
	out := make([]string, len(s.keys))
	copy(out, s.keys)
	return out
}

// Len returns the number of keys.
func (s *PropertySource) Len() int {
	return len(s.keys)
}
