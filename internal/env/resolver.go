package env

import (
	"strings"

	"github.com/spf13/cast"
)

const (
	placeholderPrefix = "${"
	placeholderSuffix = "}"
	valueSeparator    = ":"

	// maxResolveDepth bounds recursive resolution so a self-referential
	// placeholder cannot loop forever.
	maxResolveDepth = 16
)

// Resolve replaces ${key} and ${key:default} placeholders in text with values
// looked up across all property sources. Nested placeholders are supported in
// both the key and the default. Unresolvable placeholders are left verbatim.
func (e *Environment) Resolve(text string) string {
	return e.resolve(text, 0)
}

func (e *Environment) resolve(text string, depth int) string {
	if depth >= maxResolveDepth || !strings.Contains(text, placeholderPrefix) {
		return text
	}

	var out strings.Builder
	rest := text
	for {
		start := strings.Index(rest, placeholderPrefix)
		if start < 0 {
			out.WriteString(rest)
			return out.String()
		}
		end := matchingSuffix(rest, start)
		if end < 0 {
			out.WriteString(rest)
			return out.String()
		}

		out.WriteString(rest[:start])
		inner := rest[start+len(placeholderPrefix) : end]
		out.WriteString(e.resolvePlaceholder(inner, depth))
		rest = rest[end+len(placeholderSuffix):]
	}
}

// resolvePlaceholder handles the content between ${ and }: an optional
// default after the first separator outside any nested placeholder.
func (e *Environment) resolvePlaceholder(inner string, depth int) string {
	key, def, hasDefault := splitKeyDefault(inner)
	key = e.resolve(key, depth+1)

	if v, ok := e.Lookup(key); ok {
		return e.resolve(cast.ToString(v), depth+1)
	}
	if hasDefault {
		return e.resolve(def, depth+1)
	}
	return placeholderPrefix + inner + placeholderSuffix
}

// matchingSuffix returns the index of the suffix that closes the placeholder
// opening at start, accounting for nested placeholders; -1 when unbalanced.
func matchingSuffix(s string, start int) int {
	depth := 0
	for i := start; i < len(s); i++ {
		switch {
		case strings.HasPrefix(s[i:], placeholderPrefix):
			depth++
			i++
		case strings.HasPrefix(s[i:], placeholderSuffix):
			depth--
			if depth == 0 {
				return i
			}
		}
	}
	return -1
}

// splitKeyDefault splits "key:default" at the first separator that is not
// inside a nested placeholder.
func splitKeyDefault(inner string) (key, def string, hasDefault bool) {
	depth := 0
	for i := 0; i < len(inner); i++ {
		switch {
		case strings.HasPrefix(inner[i:], placeholderPrefix):
			depth++
			i++
		case strings.HasPrefix(inner[i:], placeholderSuffix):
			depth--
		case depth == 0 && strings.HasPrefix(inner[i:], valueSeparator):
			return inner[:i], inner[i+len(valueSeparator):], true
		}
	}
	return inner, "", false
}
