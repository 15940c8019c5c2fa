package contributor

import (
	"slices"
	"sort"

	"github.com/zjrosen/strata/internal/log"
	"github.com/zjrosen/strata/internal/registry"
)

// FlattenAndSort is phase two: union the per-source accepted lists in an
// order-preserving way, subtract the union of all exclusions, then apply the
// priority sort. Each selection carries the metadata of the source that
// first introduced its ID.
func (s *Selector) FlattenAndSort(entries []*Entry) []Selection {
	if len(entries) == 0 {
		return nil
	}

	var allExclusions []string
	for _, e := range entries {
		allExclusions = append(allExclusions, e.excluded...)
	}

	introducer := make(map[string]string)
	var ids []string
	for _, e := range entries {
		for _, id := range e.accepted {
			if _, ok := introducer[id]; ok {
				continue
			}
			introducer[id] = e.source
			ids = append(ids, id)
		}
	}
	ids = slices.DeleteFunc(ids, func(id string) bool {
		return slices.Contains(allExclusions, id)
	})

	sorted := s.sortInPriorityOrder(ids)

	out := make([]Selection, len(sorted))
	for i, id := range sorted {
		reg, _ := s.registry.Get(registry.CapabilityContributor, id)
		out[i] = Selection{ID: id, Source: introducer[id], Registration: reg}
	}
	return out
}

// sortInPriorityOrder sorts ascending by Order, stable so ties keep input
// order, then walks the after/before constraints depth first.
func (s *Selector) sortInPriorityOrder(ids []string) []string {
	meta := make(map[string]*registry.Registration)
	for _, reg := range s.registry.Lookup(registry.CapabilityContributor) {
		meta[reg.ID] = reg
	}

	ordered := make([]string, len(ids))
	copy(ordered, ids)
	sort.SliceStable(ordered, func(i, j int) bool {
		return orderOf(meta, ordered[i]) < orderOf(meta, ordered[j])
	})

	return newConstraintSorter(meta, ordered).sort()
}

func orderOf(meta map[string]*registry.Registration, id string) int {
	if reg, ok := meta[id]; ok {
		return reg.Order
	}
	return 0
}

// constraintSorter applies the after/before walk. The universe extends the
// input with registered IDs referenced by constraints, so ordering flows
// through unselected intermediates; the final order retains input IDs only.
// A constraint edge that would close a cycle is dropped with a warning; the
// walk order is deterministic, so the break is too.
type constraintSorter struct {
	meta  map[string]*registry.Registration
	input []string
	all   []string

	toSort     []string
	sorted     []string
	sortedSet  map[string]bool
	processing map[string]bool
}

func newConstraintSorter(meta map[string]*registry.Registration, input []string) *constraintSorter {
	c := &constraintSorter{
		meta:       meta,
		input:      input,
		sortedSet:  make(map[string]bool),
		processing: make(map[string]bool),
	}
	c.all = c.universe()
	c.toSort = slices.Clone(c.all)
	return c
}

func (c *constraintSorter) sort() []string {
	for len(c.toSort) > 0 {
		current := c.toSort[0]
		c.toSort = c.toSort[1:]
		c.visit(current)
	}

	inputSet := make(map[string]bool, len(c.input))
	for _, id := range c.input {
		inputSet[id] = true
	}
	out := make([]string, 0, len(c.input))
	for _, id := range c.sorted {
		if inputSet[id] {
			out = append(out, id)
		}
	}
	return out
}

// universe returns the input plus every registered ID reachable through
// after/before references, input first.
func (c *constraintSorter) universe() []string {
	seen := make(map[string]bool, len(c.input))
	universe := make([]string, 0, len(c.input))
	for _, id := range c.input {
		seen[id] = true
		universe = append(universe, id)
	}
	for i := 0; i < len(universe); i++ {
		reg := c.meta[universe[i]]
		if reg == nil {
			continue
		}
		for _, ref := range slices.Concat(reg.After, reg.Before) {
			if _, registered := c.meta[ref]; registered && !seen[ref] {
				seen[ref] = true
				universe = append(universe, ref)
			}
		}
	}
	return universe
}

func (c *constraintSorter) visit(current string) {
	if c.sortedSet[current] {
		return
	}
	c.processing[current] = true
	for _, after := range c.requestedAfter(current) {
		if c.processing[after] {
			log.Warn(log.CatContributor, "Ordering cycle detected, dropping constraint", "id", current, "requested-after", after)
			continue
		}
		if !c.sortedSet[after] && slices.Contains(c.toSort, after) {
			c.visit(after)
		}
	}
	delete(c.processing, current)
	c.sortedSet[current] = true
	c.sorted = append(c.sorted, current)
}

// requestedAfter returns the IDs that must sort before current: its own
// after list plus every universe member declaring before=current.
func (c *constraintSorter) requestedAfter(current string) []string {
	var out []string
	if reg := c.meta[current]; reg != nil {
		for _, id := range reg.After {
			if !slices.Contains(out, id) {
				out = append(out, id)
			}
		}
	}
	for _, id := range c.all {
		if id == current {
			continue
		}
		reg := c.meta[id]
		if reg == nil {
			continue
		}
		if slices.Contains(reg.Before, current) && !slices.Contains(out, id) {
			out = append(out, id)
		}
	}
	return out
}
