package env

import (
	"strings"

	"github.com/spf13/cast"
)

// ReservedDefaultProfile is the profile name used when nothing else is
// configured.
const ReservedDefaultProfile = "default"

// Environment is the destination of a bootstrap run: the ordered property
// sources plus the active and default profile lists. All mutation happens on
// the single pipeline goroutine.
type Environment struct {
	sources         *MutablePropertySources
	activeProfiles  []string
	defaultProfiles []string
}

// New creates an environment with no sources, no active profiles, and the
// reserved default profile.
func New() *Environment {
	return &Environment{
		sources:         NewMutablePropertySources(),
		defaultProfiles: []string{ReservedDefaultProfile},
	}
}

// PropertySources returns the mutable source collection.
func (e *Environment) PropertySources() *MutablePropertySources {
	return e.sources
}

// ActiveProfiles returns a copy of the active profile list.
func (e *Environment) ActiveProfiles() []string {
	out := make([]string, len(e.activeProfiles))
	copy(out, e.activeProfiles)
	return out
}

// SetActiveProfiles replaces the active profile list, dropping duplicates
// while preserving first occurrence order.
func (e *Environment) SetActiveProfiles(profiles ...string) {
	e.activeProfiles = e.activeProfiles[:0]
	for _, p := range profiles {
		e.AddActiveProfile(p)
	}
}

// AddActiveProfile appends a profile if not already active. Existing entries
// keep their position.
func (e *Environment) AddActiveProfile(profile string) {
	for _, p := range e.activeProfiles {
		if p == profile {
			return
		}
	}
	e.activeProfiles = append(e.activeProfiles, profile)
}

// DefaultProfiles returns a copy of the default profile list.
func (e *Environment) DefaultProfiles() []string {
	out := make([]string, len(e.defaultProfiles))
	copy(out, e.defaultProfiles)
	return out
}

// SetDefaultProfiles replaces the default profile list.
func (e *Environment) SetDefaultProfiles(profiles ...string) {
	e.defaultProfiles = append(e.defaultProfiles[:0], profiles...)
}

// AcceptsProfiles reports whether any of the given profile expressions
// matches the current state. A plain name matches when the profile is active,
// or when no profiles are active and it is a default profile. A name prefixed
// with '!' matches when the plain form does not.
func (e *Environment) AcceptsProfiles(profiles ...string) bool {
	for _, expr := range profiles {
		if e.acceptsProfile(expr) {
			return true
		}
	}
	return false
}

func (e *Environment) acceptsProfile(expr string) bool {
	expr = strings.TrimSpace(expr)
	if rest, ok := strings.CutPrefix(expr, "!"); ok {
		return !e.isProfileActive(rest)
	}
	return e.isProfileActive(expr)
}

func (e *Environment) isProfileActive(name string) bool {
	if len(e.activeProfiles) > 0 {
		for _, p := range e.activeProfiles {
			if p == name {
				return true
			}
		}
		return false
	}
	for _, p := range e.defaultProfiles {
		if p == name {
			return true
		}
	}
	return false
}

// Lookup returns the raw value for key from the highest-precedence source
// containing it.
func (e *Environment) Lookup(key string) (any, bool) {
	for _, src := range e.sources.sources {
		if v, ok := src.Lookup(key); ok {
			return v, true
		}
	}
	return nil, false
}

// Has reports whether any source contains the key.
func (e *Environment) Has(key string) bool {
	_, ok := e.Lookup(key)
	return ok
}

// Get returns the string value for key with placeholders resolved, or ""
// when the key is absent.
func (e *Environment) Get(key string) string {
	v, ok := e.Lookup(key)
	if !ok {
		return ""
	}
	return e.Resolve(cast.ToString(v))
}

// StringSlice returns a comma-separated or list-valued key as a trimmed
// string slice with placeholders resolved. Missing keys yield nil.
func (e *Environment) StringSlice(key string) []string {
	v, ok := e.Lookup(key)
	if !ok {
		return nil
	}
	return e.splitList(v)
}

func (e *Environment) splitList(v any) []string {
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
		p = strings.TrimSpace(e.Resolve(p))
		if p != "" {
			out = append(out, p)
		}
	}
	if len(out) == 0 {
		return nil
	}
	return out
}

// Merged returns the effective key→value view: every key from every source,
// resolved through precedence, with string values placeholder-resolved.
// Origin maps each key to the name of the source that supplied it.
func (e *Environment) Merged() (values map[string]string, origin map[string]string) {
	values = make(map[string]string)
	origin = make(map[string]string)
	for _, src := range e.sources.sources {
		for _, key := range src.keys {
			if _, seen := values[key]; seen {
				continue
			}
			v, _ := src.Lookup(key)
			values[key] = e.Resolve(cast.ToString(v))
			origin[key] = src.Name()
		}
	}
	return values, origin
}
