// Package registry maps capability identifiers to ordered lists of
// implementation registrations, loaded from a declarative YAML table. The
// bootstrap pipeline consumes it for lifecycle listener discovery and for
// contributor candidate discovery; it never instantiates anything itself.
package registry

import (
	"errors"
	"fmt"
)

// Capability keys the pipeline looks up.
const (
	// CapabilityListener names lifecycle phase listeners.
	CapabilityListener = "lifecycle.listener"
	// CapabilityContributor names contributor candidates for selection.
	CapabilityContributor = "boot.contributor"
)

// Registry errors
var (
	ErrNoRegistrations = errors.New("no registrations found")
	ErrDuplicateID     = errors.New("duplicate registration id")
)

// Registration declares one implementation of a capability, with the
// ordering and condition metadata the selector consumes.
type Registration struct {
	Capability  string `yaml:"capability"`
	ID          string `yaml:"id"`
	Description string `yaml:"description"`

	// Order sorts registrations ascending before constraint resolution.
	Order int `yaml:"order"`
	// After lists IDs that must be ordered before this one.
	After []string `yaml:"after"`
	// Before lists IDs that must be ordered after this one.
	Before []string `yaml:"before"`

	// RequiresProfile keeps the registration out of selection unless the
	// profile expression is accepted by the environment.
	RequiresProfile string `yaml:"requires-profile"`
	// RequiresKey keeps the registration out of selection unless the
	// environment defines the key.
	RequiresKey string `yaml:"requires-key"`
}

// Validate checks the structural fields.
func (r *Registration) Validate() error {
	if r.Capability == "" {
		return fmt.Errorf("registration %q: capability is required", r.ID)
	}
	if r.ID == "" {
		return fmt.Errorf("registration under %q: id is required", r.Capability)
	}
	return nil
}

// Registry holds registrations indexed by capability, preserving declaration
// order within each capability.
type Registry struct {
	byCapability map[string][]*Registration
	capabilities []string
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{byCapability: make(map[string][]*Registration)}
}

// Add appends a registration to its capability list. Adding a second
// registration with the same capability and ID fails.
func (r *Registry) Add(reg *Registration) error {
	if err := reg.Validate(); err != nil {
		return err
	}
	for _, existing := range r.byCapability[reg.Capability] {
		if existing.ID == reg.ID {
			return fmt.Errorf("%w: %s under %s", ErrDuplicateID, reg.ID, reg.Capability)
		}
	}
	if _, ok := r.byCapability[reg.Capability]; !ok {
		r.capabilities = append(r.capabilities, reg.Capability)
	}
	r.byCapability[reg.Capability] = append(r.byCapability[reg.Capability], reg)
	return nil
}

// Lookup returns the registrations for a capability in declaration order.
// Unknown capabilities yield an empty list.
func (r *Registry) Lookup(capability string) []*Registration {
	regs := r.byCapability[capability]
	out := make([]*Registration, len(regs))
	copy(out, regs)
	return out
}

// IDs returns the registration IDs for a capability in declaration order.
func (r *Registry) IDs(capability string) []string {
	regs := r.byCapability[capability]
	out := make([]string, len(regs))
	for i, reg := range regs {
		out[i] = reg.ID
	}
	return out
}

// Get returns the registration for a capability and ID.
func (r *Registry) Get(capability, id string) (*Registration, bool) {
	for _, reg := range r.byCapability[capability] {
		if reg.ID == id {
			return reg, true
		}
	}
	return nil, false
}

// Capabilities returns every capability with at least one registration, in
// first-seen order.
func (r *Registry) Capabilities() []string {
	out := make([]string, len(r.capabilities))
	copy(out, r.capabilities)
	return out
}

// Len returns the total registration count.
func (r *Registry) Len() int {
	n := 0
	for _, regs := range r.byCapability {
		n += len(regs)
	}
	return n
}
