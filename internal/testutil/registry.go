package testutil

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/zjrosen/strata/internal/registry"
)

// RegistrationOption configures a registration during builder setup.
type RegistrationOption func(*registry.Registration)

// Order sets the sort order.
func Order(n int) RegistrationOption {
	return func(r *registry.Registration) { r.Order = n }
}

// After adds ordering constraints placing the named IDs before this one.
func After(ids ...string) RegistrationOption {
	return func(r *registry.Registration) { r.After = append(r.After, ids...) }
}

// Before adds ordering constraints placing the named IDs after this one.
func Before(ids ...string) RegistrationOption {
	return func(r *registry.Registration) { r.Before = append(r.Before, ids...) }
}

// RequiresProfile gates the registration on a profile expression.
func RequiresProfile(expr string) RegistrationOption {
	return func(r *registry.Registration) { r.RequiresProfile = expr }
}

// RequiresKey gates the registration on an environment key.
func RequiresKey(key string) RegistrationOption {
	return func(r *registry.Registration) { r.RequiresKey = key }
}

// Description sets the human-readable description.
func Description(desc string) RegistrationOption {
	return func(r *registry.Registration) { r.Description = desc }
}

// RegistryBuilder accumulates registrations and builds a registry.
type RegistryBuilder struct {
	t    *testing.T
	regs []*registry.Registration
}

// NewRegistryBuilder creates a builder for test registries.
func NewRegistryBuilder(t *testing.T) *RegistryBuilder {
	t.Helper()
	return &RegistryBuilder{t: t}
}

// Listener adds a lifecycle listener registration.
func (b *RegistryBuilder) Listener(id string, opts ...RegistrationOption) *RegistryBuilder {
	return b.add(registry.CapabilityListener, id, opts)
}

// Contributor adds a contributor registration.
func (b *RegistryBuilder) Contributor(id string, opts ...RegistrationOption) *RegistryBuilder {
	return b.add(registry.CapabilityContributor, id, opts)
}

func (b *RegistryBuilder) add(capability, id string, opts []RegistrationOption) *RegistryBuilder {
	reg := &registry.Registration{Capability: capability, ID: id}
	for _, opt := range opts {
		opt(reg)
	}
	b.regs = append(b.regs, reg)
	return b
}

// Build registers all accumulated entries, failing the test on conflicts.
func (b *RegistryBuilder) Build() *registry.Registry {
	b.t.Helper()
	r := registry.NewRegistry()
	for _, reg := range b.regs {
		require.NoError(b.t, r.Add(reg))
	}
	return r
}
