package env

import (
	"strings"

	"github.com/spf13/cast"
)

// Binder reads typed values from a single property source while resolving
// placeholders against a full environment. The document loader uses it to
// extract a document's own profile declarations, which may reference
// previously loaded properties.
type Binder struct {
	source   *PropertySource
	resolver *Environment
}

// NewBinder creates a binder over one source with the given resolver.
func NewBinder(source *PropertySource, resolver *Environment) *Binder {
	return &Binder{source: source, resolver: resolver}
}

// String returns the resolved string value for key.
func (b *Binder) String(key string) (string, bool) {
	v, ok := b.source.Lookup(key)
	if !ok {
		return "", false
	}
	return b.resolver.Resolve(cast.ToString(v)), true
}

// StringSlice returns a comma-separated or list-valued key as a trimmed
// string slice with placeholders resolved. Missing keys yield nil.
func (b *Binder) StringSlice(key string) []string {
	v, ok := b.source.Lookup(key)
	if !ok {
		return nil
	}

	var parts []string
	switch val := v.(type) {
	case string:
		parts = strings.Split(val, ",")
	default:
		if list, err := cast.ToStringSliceE(val); err == nil {
			parts = list
		} else {
			parts = strings.Split(cast.ToString(val), ",")
		}
	}

	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(b.resolver.Resolve(p))
		if p != "" {
			out = append(out, p)
		}
	}
	if len(out) == 0 {
		return nil
	}
	return out
}
